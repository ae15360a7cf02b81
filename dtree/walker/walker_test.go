package walker

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dtreekit/internal/buf"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// failFS wraps an fs.FS and fails Open for selected names. Embedding the
// interface hides MapFS's ReadDir/ReadFile so every access goes via Open.
type failFS struct {
	fs.FS
	fail map[string]error
}

func (f failFS) Open(name string) (fs.File, error) {
	if err, ok := f.fail[name]; ok {
		return nil, &fs.PathError{Op: "open", Path: name, Err: err}
	}
	return f.FS.Open(name)
}

func file(s string) *fstest.MapFile { return &fstest.MapFile{Data: []byte(s), Mode: 0o444} }

func dir() *fstest.MapFile { return &fstest.MapFile{Mode: fs.ModeDir | 0o555} }

func testTree() fstest.MapFS {
	return fstest.MapFS{
		"chosen/bootargs":                  file("console=ttyUL0\x00"),
		"cpus/cpu@0/compatible":            file("xlnx,microblaze-7.10.d\x00"),
		"plb@0/compatible":                 file("xlnx,plb-v46-1.00.a\x00simple-bus\x00"),
		"plb@0/serial@84000000/reg":        {Data: buf.PutCellsBE(0x84000000, 0x10000), Mode: 0o444},
		"plb@0/serial@84000000/compatible": file("xlnx,xps-uartlite-1.00.a\x00"),
		"plb@0/debug@84400000/reg":         {Data: make([]byte, 16), Mode: 0o444},
		"plb@0/debug@84400000/compatible":  file(""),
		"plb@0/bus@10":                     dir(),
		"plb@0/timer@20/reg":               dir(),
	}
}

func collect(t *testing.T, w *Walker) []Node {
	t.Helper()
	var nodes []Node
	err := w.Walk(context.Background(), func(n Node) error {
		nodes = append(nodes, n)
		return nil
	})
	require.NoError(t, err)
	return nodes
}

func names(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestWalker_DiscoveryOrder(t *testing.T) {
	w := New(testTree(), "/dt", Options{})
	nodes := collect(t, w)

	require.Equal(t, []string{
		"cpu@0",
		"plb@0",
		"bus@10",
		"debug@84400000",
		"serial@84000000",
		"timer@20",
	}, names(nodes))

	stats := w.Stats()
	assert.Equal(t, 6, stats.Devices)
	assert.Equal(t, 0, stats.Failures)
	// root, chosen, cpus, cpu@0, plb@0, bus@10, debug, serial, timer, timer/reg
	assert.Equal(t, 10, stats.Dirs)
}

func TestWalker_Properties(t *testing.T) {
	nodes := collect(t, New(testTree(), "/dt", Options{}))
	byName := map[string]Node{}
	for _, n := range nodes {
		byName[n.Name] = n
	}

	serial := byName["serial@84000000"]
	assert.Equal(t, "serial", serial.ID)
	assert.Equal(t, types.Addr(0x84000000), serial.UnitAddr)
	assert.Equal(t, 2, serial.Depth)
	assert.Equal(t, "/dt/plb@0/serial@84000000", serial.Path)
	assert.Equal(t, buf.PutCellsBE(0x84000000, 0x10000), serial.Reg)
	assert.Equal(t, []byte("xlnx,xps-uartlite-1.00.a\x00"), serial.Compatible)

	debug := byName["debug@84400000"]
	assert.Nil(t, debug.Reg, "16-byte reg must be treated as absent")
	assert.Nil(t, debug.Compatible, "empty compatible must be treated as absent")

	bus := byName["bus@10"]
	assert.Nil(t, bus.Reg)
	assert.Nil(t, bus.Compatible)

	timer := byName["timer@20"]
	assert.Nil(t, timer.Reg, "a directory named reg is not a property")
}

func TestWalker_DepthBound(t *testing.T) {
	fsys := fstest.MapFS{
		"a/b/c/x@2/compatible":   file("depth-four\x00"),
		"a/b/c/x@2/y@4/reg":      {Data: buf.PutCellsBE(4, 4), Mode: 0o444},
		"a/b/c/d/e@1/compatible": file("depth-five\x00"),
		"top@1":                  dir(),
	}

	nodes := collect(t, New(fsys, "/dt", Options{}))
	assert.Equal(t, []string{"x@2", "top@1"}, names(nodes))

	nodes = collect(t, New(fsys, "/dt", Options{MaxDepth: 5}))
	assert.Equal(t, []string{"e@1", "x@2", "y@4", "top@1"}, names(nodes))

	nodes = collect(t, New(fsys, "/dt", Options{MaxDepth: 1}))
	assert.Equal(t, []string{"top@1"}, names(nodes))
}

func TestWalker_RootIsClassified(t *testing.T) {
	fsys := fstest.MapFS{"reg": {Data: buf.PutCellsBE(0x1000, 0x100), Mode: 0o444}}
	nodes := collect(t, New(fsys, "/sys/bus@1000", Options{}))
	require.Len(t, nodes, 1)
	assert.Equal(t, "bus", nodes[0].ID)
	assert.Equal(t, 0, nodes[0].Depth)
	assert.NotNil(t, nodes[0].Reg)
}

func TestWalker_RootUnreadable(t *testing.T) {
	fsys := failFS{FS: testTree(), fail: map[string]error{".": fs.ErrPermission}}
	err := New(fsys, "/dt", Options{}).Walk(context.Background(), func(Node) error { return nil })

	require.ErrorIs(t, err, types.ErrCantReadRoot)
	require.ErrorIs(t, err, fs.ErrPermission)
}

func TestWalker_SubtreeFailureIsRecoverable(t *testing.T) {
	fsys := failFS{FS: testTree(), fail: map[string]error{
		"plb@0/serial@84000000": fs.ErrNotExist,
		"cpus/cpu@0/compatible": fs.ErrPermission,
	}}

	var diags []types.Diagnostic
	w := New(fsys, "/dt", Options{OnError: func(d types.Diagnostic) { diags = append(diags, d) }})
	nodes := collect(t, w)

	assert.Equal(t, []string{"cpu@0", "plb@0", "bus@10", "debug@84400000", "timer@20"}, names(nodes))
	assert.Nil(t, nodes[0].Compatible)

	require.Len(t, diags, 2)
	assert.Equal(t, types.SevWarning, diags[0].Severity)
	assert.Equal(t, "read", diags[0].Op)
	assert.Equal(t, "/dt/cpus/cpu@0/compatible", diags[0].Path)
	assert.ErrorIs(t, diags[0].Err, fs.ErrPermission)

	assert.Equal(t, types.SevError, diags[1].Severity)
	assert.Equal(t, "readdir", diags[1].Op)
	assert.Equal(t, "/dt/plb@0/serial@84000000", diags[1].Path)
	assert.ErrorIs(t, diags[1].Err, types.ErrSubtree)
	assert.ErrorIs(t, diags[1].Err, fs.ErrNotExist)

	assert.Equal(t, 2, w.Stats().Failures)
}

func TestWalker_SymlinksNotFollowed(t *testing.T) {
	fsys := fstest.MapFS{
		"plb@0/compatible": file("simple-bus\x00"),
		"alias@1":          {Data: []byte("plb@0"), Mode: fs.ModeSymlink | 0o777},
	}
	nodes := collect(t, New(fsys, "/dt", Options{}))
	assert.Equal(t, []string{"plb@0"}, names(nodes))
}

func TestWalker_VisitErrorStops(t *testing.T) {
	stop := errors.New("stop")
	count := 0
	err := New(testTree(), "/dt", Options{}).Walk(context.Background(), func(Node) error {
		count++
		if count == 2 {
			return stop
		}
		return nil
	})
	require.ErrorIs(t, err, stop)
	assert.Equal(t, 2, count)
}

func TestWalker_StepIsResumable(t *testing.T) {
	w := New(testTree(), "/dt", Options{})
	w.Start()

	var got []string
	visit := func(n Node) error {
		got = append(got, n.Name)
		return nil
	}

	steps := 0
	for {
		more, err := w.Step(context.Background(), visit)
		require.NoError(t, err)
		steps++
		if !more {
			break
		}
	}

	assert.Len(t, got, 6)
	// Every directory is entered once and left once.
	assert.Equal(t, 2*w.Stats().Dirs, steps)
	assert.Equal(t, "", w.Path())

	more, err := w.Step(context.Background(), visit)
	require.NoError(t, err)
	assert.False(t, more)
}

func TestWalker_Reuse(t *testing.T) {
	w := New(testTree(), "/dt", Options{})
	first := names(collect(t, w))
	second := names(collect(t, w))
	assert.Equal(t, first, second)
	assert.Equal(t, 6, w.Stats().Devices)
}

func TestWalker_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(testTree(), "/dt", Options{}).Walk(ctx, func(Node) error { return nil })
	require.True(t, errors.Is(err, context.Canceled), "expected context.Canceled, got: %v", err)
}

func TestWalker_CustomPropertyNames(t *testing.T) {
	fsys := fstest.MapFS{
		"uart@1/regs":   {Data: buf.PutCellsBE(1, 2), Mode: 0o444},
		"uart@1/compat": file("ns16550\x00"),
	}
	nodes := collect(t, New(fsys, "/dt", Options{RegFile: "regs", CompatFile: "compat"}))
	require.Len(t, nodes, 1)
	assert.NotNil(t, nodes[0].Reg)
	assert.NotNil(t, nodes[0].Compatible)
}
