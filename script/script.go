package script

import (
	"context"
	"fmt"
	"io"
	"os"

	"go.starlark.net/starlark"
	"go.starlark.net/starlarkstruct"
	"go.uber.org/zap"

	"github.com/joshuapare/dtreekit/dtree"
	"github.com/joshuapare/dtreekit/pkg/types"
)

// Options configures an Env.
type Options struct {
	// Session configures the session behind dtree.open().
	Session dtree.Options
	// DefaultRoot is opened by dtree.open() without arguments.
	// Defaults to types.DefaultRoot.
	DefaultRoot string
	// Stdout receives print() output. Defaults to os.Stdout.
	Stdout io.Writer
	Logger *zap.Logger
}

// Env runs Starlark scripts against one device-tree session. Like the
// session it wraps, an Env is not safe for concurrent use.
type Env struct {
	opts Options
	log  *zap.Logger
	sess *dtree.Session
	open bool
}

// New creates an environment with a closed session.
func New(opts Options) *Env {
	if opts.DefaultRoot == "" {
		opts.DefaultRoot = types.DefaultRoot
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Session.Logger == nil {
		opts.Session.Logger = opts.Logger
	}
	return &Env{opts: opts, log: opts.Logger, sess: dtree.New(opts.Session)}
}

// Predeclared returns the globals visible to scripts.
func (e *Env) Predeclared() starlark.StringDict {
	return starlark.StringDict{
		"dtree": e.module(),
	}
}

// ExecFile runs a script. src may be nil to read filename, or a string,
// []byte or io.Reader holding the source. A session the script left open
// is closed afterwards.
func (e *Env) ExecFile(ctx context.Context, filename string, src any) (starlark.StringDict, error) {
	thread := &starlark.Thread{
		Name: filename,
		Print: func(_ *starlark.Thread, msg string) {
			fmt.Fprintln(e.opts.Stdout, msg)
		},
	}
	stop := context.AfterFunc(ctx, func() {
		thread.Cancel(context.Cause(ctx).Error())
	})
	defer stop()

	globals, err := starlark.ExecFile(thread, filename, src, e.Predeclared())
	if e.open {
		e.log.Warn("script did not call dtree.close()", zap.String("script", filename))
		e.Close()
	}
	if err != nil {
		if eerr, ok := err.(*starlark.EvalError); ok {
			e.log.Debug("script failed", zap.String("backtrace", eerr.Backtrace()))
		}
		return nil, err
	}
	return globals, nil
}

// Close closes the session if a script left it open.
func (e *Env) Close() {
	if e.open {
		_ = e.sess.Close()
		e.open = false
	}
}

// module returns the dtree module.
//
//	open([root])
//	close()
//	reset()
//	next()
//	devices()
//	byname(name)
//	bycompat(tag)
//	iserror()
//	errstr()
func (e *Env) module() starlark.Value {
	m := &starlarkstruct.Module{
		Name: "dtree",
		Members: starlark.StringDict{
			"open":     starlark.NewBuiltin("open", e.starOpen),
			"close":    starlark.NewBuiltin("close", e.starClose),
			"reset":    starlark.NewBuiltin("reset", e.starReset),
			"next":     starlark.NewBuiltin("next", e.starNext),
			"devices":  starlark.NewBuiltin("devices", e.starDevices),
			"byname":   starlark.NewBuiltin("byname", e.starByName),
			"bycompat": starlark.NewBuiltin("bycompat", e.starByCompat),
			"iserror":  starlark.NewBuiltin("iserror", e.starIsError),
			"errstr":   starlark.NewBuiltin("errstr", e.starErrStr),
		},
	}
	m.Freeze()
	return m
}

// Starlark function `dtree.open([root])` to scan a device tree.
func (e *Env) starOpen(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	root := e.opts.DefaultRoot
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "root?", &root); err != nil {
		return starlark.None, err
	}
	if e.open {
		return starlark.None, fmt.Errorf("%s: dtree.open() has already been called without a dtree.close()", fn.Name())
	}
	if err := e.sess.Open(root); err != nil {
		return starlark.None, fmt.Errorf("%s: %s", fn.Name(), e.sess.ErrorText())
	}
	e.open = true
	return starlark.None, nil
}

// Starlark function `dtree.close()` to release the scanned tree.
func (e *Env) starClose(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs); err != nil {
		return starlark.None, err
	}
	if !e.open {
		return starlark.None, fmt.Errorf("%s: invalid call to dtree.close(), call dtree.open() first", fn.Name())
	}
	e.open = false
	return starlark.None, e.sess.Close()
}

// Starlark function `dtree.reset()` to restart iteration.
func (e *Env) starReset(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := e.requireOpen(fn, args, kwargs); err != nil {
		return starlark.None, err
	}
	return starlark.None, e.sess.Reset()
}

// Starlark function `dtree.next()` to return the next device or None.
func (e *Env) starNext(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := e.requireOpen(fn, args, kwargs); err != nil {
		return starlark.None, err
	}
	return e.deviceValue(e.sess.Next()), nil
}

// Starlark function `dtree.devices()` to return the remaining devices as a list.
func (e *Env) starDevices(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := e.requireOpen(fn, args, kwargs); err != nil {
		return starlark.None, err
	}
	var devs []starlark.Value
	for d := e.sess.Next(); d != nil; d = e.sess.Next() {
		devs = append(devs, e.deviceValue(d))
	}
	return starlark.NewList(devs), nil
}

// Starlark function `dtree.byname(name)` to find a device by name.
func (e *Env) starByName(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var name string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "name", &name); err != nil {
		return starlark.None, err
	}
	if err := e.requireOpen(fn, nil, nil); err != nil {
		return starlark.None, err
	}
	return e.deviceValue(e.sess.FindByName(name)), nil
}

// Starlark function `dtree.bycompat(tag)` to find a device by compatible string.
func (e *Env) starByCompat(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	var tag string
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs, "tag", &tag); err != nil {
		return starlark.None, err
	}
	if err := e.requireOpen(fn, nil, nil); err != nil {
		return starlark.None, err
	}
	return e.deviceValue(e.sess.FindByCompatible(tag)), nil
}

// Starlark function `dtree.iserror()` to report the session error state.
func (e *Env) starIsError(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs); err != nil {
		return starlark.None, err
	}
	return starlark.Bool(e.sess.IsError()), nil
}

// Starlark function `dtree.errstr()` to describe the session error state.
func (e *Env) starErrStr(thread *starlark.Thread, fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs); err != nil {
		return starlark.None, err
	}
	return starlark.String(e.sess.ErrorText()), nil
}

func (e *Env) requireOpen(fn *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) error {
	if err := starlark.UnpackArgs(fn.Name(), args, kwargs); err != nil {
		return err
	}
	if !e.open {
		return fmt.Errorf("%s: call dtree.open() first", fn.Name())
	}
	return nil
}

// deviceValue converts d to a frozen struct and frees it. nil becomes None.
func (e *Env) deviceValue(d *dtree.Device) starlark.Value {
	if d == nil {
		return starlark.None
	}
	defer e.sess.Free(d)

	compat := d.Compat()
	elems := make(starlark.Tuple, len(compat))
	for i, c := range compat {
		elems[i] = starlark.String(c)
	}
	s := starlarkstruct.FromStringDict(starlark.String("device"), starlark.StringDict{
		"name":   starlark.String(d.Name()),
		"base":   starlark.MakeUint64(uint64(d.Base())),
		"high":   starlark.MakeUint64(uint64(d.High())),
		"compat": elems,
		"path":   starlark.String(d.Path()),
	})
	s.Freeze()
	return s
}
