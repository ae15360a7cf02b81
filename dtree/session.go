package dtree

import (
	"context"
	"io/fs"
	"os"
	"slices"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/joshuapare/dtreekit/dtree/walker"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// Options configures a Session. The zero value scans types.DefaultMaxDepth
// levels, reads the standard property names and logs nothing.
type Options struct {
	MaxDepth   int
	RegFile    string
	CompatFile string

	// Logger receives scan progress and recoverable failures.
	Logger *zap.Logger

	// OpenFS returns the filesystem rooted at the given OS path.
	// Defaults to os.DirFS.
	OpenFS func(root string) fs.FS
}

type sessionState uint8

const (
	stateClosed sessionState = iota
	stateOpen
	stateFailed
)

// Session holds the result of one device-tree scan: the device list, an
// iteration cursor and the error state. Records returned by Next and the
// Find methods are independent copies; the caller releases each with Free.
//
// A Session is not safe for concurrent use. Independent Sessions may be used
// from different goroutines.
type Session struct {
	opts Options
	log  *zap.Logger

	id    string
	root  string
	state sessionState
	gen   uint64

	list        []*entry // most recently discovered first
	cursor      int
	outstanding int

	errs errorState
	diag *types.DiagnosticReport
}

// New creates a closed session.
func New(opts Options) *Session {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.OpenFS == nil {
		opts.OpenFS = os.DirFS
	}
	return &Session{opts: opts, log: opts.Logger}
}

// Open creates a session and scans root.
func Open(root string, opts Options) (*Session, error) {
	s := New(opts)
	if err := s.Open(root); err != nil {
		return nil, err
	}
	return s, nil
}

// Open scans the tree under root. See OpenContext.
func (s *Session) Open(root string) error {
	return s.OpenContext(context.Background(), root)
}

// OpenContext scans the tree under root and builds the device list.
//
// The error state is cleared first. An invalid or unreadable root fails the
// open and leaves the session unusable until the next Open. Failures below
// the root only skip the affected subtree: the open succeeds, IsError
// reports true and Diagnostics lists every failure.
//
// Calling OpenContext on an open session returns types.ErrSessionOpen and
// changes nothing.
func (s *Session) OpenContext(ctx context.Context, root string) error {
	if s.state == stateOpen {
		return types.ErrSessionOpen
	}

	s.release()
	s.errs.clear()
	s.diag = nil
	s.gen++
	s.id = uuid.NewString()
	s.root = root
	s.log = s.opts.Logger.With(zap.String("session", s.id), zap.String("root", root))

	if err := checkRoot(root); err != nil {
		return s.fail(err)
	}

	s.diag = types.NewDiagnosticReport(root)
	start := time.Now()

	w := walker.New(s.opts.OpenFS(root), root, walker.Options{
		MaxDepth:   s.opts.MaxDepth,
		RegFile:    s.opts.RegFile,
		CompatFile: s.opts.CompatFile,
		OnError:    s.recordDiagnostic,
	})

	var found []*entry
	err := w.Walk(ctx, func(n walker.Node) error {
		e := buildDevice(n)
		s.log.Debug("device found",
			zap.String("name", e.dev.name),
			zap.String("path", n.Path),
			zap.Uint32("base", e.dev.base),
			zap.Uint32("high", e.dev.high))
		found = append(found, e)
		return nil
	})
	if err != nil {
		return s.fail(err)
	}

	slices.Reverse(found)
	disambiguate(found)

	s.list = found
	s.cursor = 0
	s.state = stateOpen
	s.diag.ScanTime = time.Since(start)
	s.diag.Devices = len(found)

	stats := w.Stats()
	s.log.Info("device tree scanned",
		zap.Int("devices", len(found)),
		zap.Int("dirs", stats.Dirs),
		zap.Int("failures", stats.Failures),
		zap.Duration("elapsed", s.diag.ScanTime))
	return nil
}

func checkRoot(root string) error {
	if root == "" {
		return types.ErrInvalidArgument.Withf("empty root path")
	}
	info, err := os.Stat(root)
	if err != nil {
		return types.ErrCantReadRoot.With(err)
	}
	if !info.IsDir() {
		return types.ErrInvalidRoot.Withf("%s is not a directory", root)
	}
	return nil
}

func (s *Session) fail(err error) error {
	s.errs.set(err)
	s.release()
	s.state = stateFailed
	s.log.Error("device tree scan failed", zap.Error(err))
	return err
}

func (s *Session) recordDiagnostic(d types.Diagnostic) {
	s.diag.Add(d)
	s.errs.set(d.Err)
	s.log.Warn("skipping unreadable node",
		zap.Stringer("severity", d.Severity),
		zap.String("op", d.Op),
		zap.String("path", d.Path),
		zap.Error(d.Err))
}

// release drops the device list. Records already handed out stay valid.
func (s *Session) release() {
	clear(s.list)
	s.list = nil
	s.cursor = 0
	s.outstanding = 0
}

// Close releases the device list. Records already handed out stay valid
// and must still be freed. The error state is kept, so a failed Open can be
// inspected after Close. Closing a session that is not open or failed
// returns types.ErrNotOpen.
func (s *Session) Close() error {
	if s.state == stateClosed {
		return types.ErrNotOpen
	}
	if s.outstanding > 0 {
		s.log.Warn("closing with records not freed", zap.Int("outstanding", s.outstanding))
	}
	s.release()
	s.state = stateClosed
	s.log.Debug("session closed")
	return nil
}

// Reset rewinds iteration to the most recently discovered device.
func (s *Session) Reset() error {
	if s.state != stateOpen {
		s.errs.set(types.ErrNotOpen)
		return types.ErrNotOpen
	}
	s.cursor = 0
	return nil
}

// Next returns a copy of the device at the cursor and advances it, or nil
// once the list is exhausted. Devices come most recently discovered first.
// On a session that is not open Next returns nil and records
// types.ErrNotOpen.
func (s *Session) Next() *Device {
	if s.state != stateOpen {
		s.errs.set(types.ErrNotOpen)
		return nil
	}
	if s.cursor >= len(s.list) {
		return nil
	}
	e := s.list[s.cursor]
	s.cursor++

	d := e.clone()
	d.owner = s
	d.gen = s.gen
	s.outstanding++
	return d
}

// FindByName continues iteration from the cursor and returns the first
// device with the given name. Records passed over are freed. An empty name
// matches nothing.
func (s *Session) FindByName(name string) *Device {
	if name == "" {
		return nil
	}
	return s.find(func(d *Device) bool { return d.name == name })
}

// FindByCompatible continues iteration from the cursor and returns the
// first device listing tag among its compatible strings. An empty tag
// matches nothing. See Device.IsCompatible for non-ASCII tags.
func (s *Session) FindByCompatible(tag string) *Device {
	if tag == "" {
		return nil
	}
	return s.find(func(d *Device) bool { return d.IsCompatible(tag) })
}

func (s *Session) find(match func(*Device) bool) *Device {
	for d := s.Next(); d != nil; d = s.Next() {
		if match(d) {
			return d
		}
		s.Free(d)
	}
	return nil
}

// Free releases a record returned by Next or a Find method. Freeing nil is
// a no-op; freeing the same record twice panics.
func (s *Session) Free(d *Device) {
	if d == nil {
		return
	}
	if d.freed {
		panic("dtree: device " + d.name + " freed twice")
	}
	d.freed = true
	if d.owner != nil && d.gen == d.owner.gen && d.owner.outstanding > 0 {
		d.owner.outstanding--
	}
	d.compat = nil
}

// Outstanding returns how many records of the current scan are not freed.
func (s *Session) Outstanding() int { return s.outstanding }

// Len returns the number of devices found by the current scan.
func (s *Session) Len() int { return len(s.list) }

// IsOpen reports whether the session holds a device list.
func (s *Session) IsOpen() bool { return s.state == stateOpen }

// Root returns the root path of the last Open.
func (s *Session) Root() string { return s.root }

// ID returns the identifier of the last Open, as used in log fields.
func (s *Session) ID() string { return s.id }

// Diagnostics returns the recoverable failures of the last successful
// scan, or nil.
func (s *Session) Diagnostics() *types.DiagnosticReport { return s.diag }
