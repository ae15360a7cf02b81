package walker

import (
	"context"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/joshuapare/dtreekit/dtree/props"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// initialStackCapacity covers the default depth bound times a typical
// fan-out without reallocating.
const initialStackCapacity = 64

// Processing states for a stack frame.
const (
	stateInitial = iota // not yet listed
	stateDone           // listed, children (if any) pushed above it
)

// frame is one directory awaiting or finishing processing.
type frame struct {
	name  string // path segment; the root path for depth 0
	depth int
	state uint8
}

// Node describes one device-bearing directory and its raw property bytes.
type Node struct {
	Path     string     // OS path of the directory
	Name     string     // directory base name, e.g. "serial@84000000"
	Depth    int        // levels below the root; 0 for the root itself
	ID       string     // identifier before '@'
	UnitAddr types.Addr // address parsed from the name

	// Reg holds the reg property when it is exactly types.RegSize bytes.
	Reg []byte
	// Compatible holds the compatible property when it is non-empty.
	Compatible []byte
}

// Options tunes a Walker. The zero value walks types.DefaultMaxDepth levels
// and reads the standard property names.
type Options struct {
	MaxDepth   int
	RegFile    string
	CompatFile string

	// OnError receives every recoverable failure. The affected subtree or
	// property is skipped and the walk continues.
	OnError func(types.Diagnostic)
}

// Stats counts what a walk has seen so far.
type Stats struct {
	Dirs     int
	Devices  int
	Failures int
}

// Walker performs a depth-bounded pre-order traversal of a device tree
// exposed as a directory hierarchy. It keeps its own stack of frames rather
// than recursing, so a walk can be advanced one directory at a time with
// Step. Children are visited in lexical order and symbolic links are never
// followed, so no directory is visited twice.
//
// A Walker is not safe for concurrent use.
type Walker struct {
	fsys  fs.FS
	root  string
	opts  Options
	stack []frame
	path  PathStack
	stats Stats
}

// New creates a walker over fsys, whose "." corresponds to the OS path root.
func New(fsys fs.FS, root string, opts Options) *Walker {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = types.DefaultMaxDepth
	}
	if opts.RegFile == "" {
		opts.RegFile = types.RegFile
	}
	if opts.CompatFile == "" {
		opts.CompatFile = types.CompatFile
	}
	return &Walker{
		fsys:  fsys,
		root:  root,
		opts:  opts,
		stack: make([]frame, 0, initialStackCapacity),
	}
}

// Walk traverses the whole tree, calling visit for every device directory
// in discovery order. It returns types.ErrCantReadRoot when the root cannot
// be listed, the first error returned by visit, or the context error.
func (w *Walker) Walk(ctx context.Context, visit func(Node) error) error {
	w.Start()
	for {
		more, err := w.Step(ctx, visit)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
}

// Step advances the walk by one frame and reports whether frames remain.
// Walk calls it in a loop; callers that drive it directly must push the
// root with Start first.
func (w *Walker) Step(ctx context.Context, visit func(Node) error) (bool, error) {
	if len(w.stack) == 0 {
		return false, nil
	}

	select {
	case <-ctx.Done():
		return false, ctx.Err()
	default:
	}

	top := &w.stack[len(w.stack)-1]
	switch top.state {
	case stateInitial:
		// Mark done before enter pushes children and invalidates top.
		top.state = stateDone
		f := *top
		w.path.Push(f.name)
		if err := w.enter(f, visit); err != nil {
			return false, err
		}

	case stateDone:
		w.stack = w.stack[:len(w.stack)-1]
		w.path.Pop()

	default:
		return false, fmt.Errorf("invalid walker state: %d", top.state)
	}

	return len(w.stack) > 0, nil
}

// Start resets the walker and pushes the root frame for use with Step.
func (w *Walker) Start() {
	w.Reset()
	w.stack = append(w.stack, frame{name: w.root, state: stateInitial})
}

// Reset clears the stack, path and statistics, keeping allocations.
func (w *Walker) Reset() {
	w.stack = w.stack[:0]
	w.path.Reset()
	w.stats = Stats{}
}

// Stats returns counters for the walk so far.
func (w *Walker) Stats() Stats { return w.stats }

// Path returns the OS path of the directory most recently entered.
func (w *Walker) Path() string { return w.path.String() }

// enter lists the directory on top of the path stack, reports it when it
// is a device and pushes its subdirectories while within the depth bound.
func (w *Walker) enter(f frame, visit func(Node) error) error {
	rel := w.path.Rel()
	entries, err := fs.ReadDir(w.fsys, rel)
	if err != nil {
		if f.depth == 0 {
			return types.ErrCantReadRoot.With(err)
		}
		w.fail(types.SevError, "readdir", w.path.String(), err)
		return nil
	}
	w.stats.Dirs++

	name := filepath.Base(f.name)
	if id, addr, ok := props.ParseUnitName(name); ok {
		node := Node{
			Path:     w.path.String(),
			Name:     name,
			Depth:    f.depth,
			ID:       id,
			UnitAddr: addr,
		}
		w.readProps(rel, entries, &node)
		w.stats.Devices++
		if err := visit(node); err != nil {
			return err
		}
	}

	if f.depth >= w.opts.MaxDepth {
		return nil
	}

	// Push in reverse so the lexically first child is processed first.
	for i := len(entries) - 1; i >= 0; i-- {
		if !entries[i].IsDir() {
			continue
		}
		w.stack = append(w.stack, frame{name: entries[i].Name(), depth: f.depth + 1, state: stateInitial})
	}
	return nil
}

// readProps fills the property fields of node from the regular files of
// its directory. Unreadable or wrongly sized properties are left nil.
func (w *Walker) readProps(rel string, entries []fs.DirEntry, node *Node) {
	for _, e := range entries {
		if !e.Type().IsRegular() {
			continue
		}
		switch e.Name() {
		case w.opts.RegFile:
			node.Reg = w.readProp(rel, e, func(n int64) bool { return n == types.RegSize })
		case w.opts.CompatFile:
			node.Compatible = w.readProp(rel, e, func(n int64) bool { return n > 0 })
		}
	}
}

func (w *Walker) readProp(rel string, e fs.DirEntry, sizeOK func(int64) bool) []byte {
	name := path.Join(rel, e.Name())
	osPath := filepath.Join(w.path.String(), e.Name())

	info, err := e.Info()
	if err != nil {
		w.fail(types.SevWarning, "stat", osPath, err)
		return nil
	}
	if !sizeOK(info.Size()) {
		return nil
	}

	data, err := fs.ReadFile(w.fsys, name)
	if err != nil {
		w.fail(types.SevWarning, "read", osPath, err)
		return nil
	}
	// The file may have changed between stat and read.
	if !sizeOK(int64(len(data))) {
		return nil
	}
	return data
}

func (w *Walker) fail(sev types.Severity, op, p string, err error) {
	w.stats.Failures++
	if w.opts.OnError != nil {
		w.opts.OnError(types.Diagnostic{Severity: sev, Op: op, Path: p, Err: types.ErrSubtree.With(err)})
	}
}
