// Package walker traverses a device tree that the kernel exposes as a
// directory hierarchy (typically /proc/device-tree) and reports every
// device-bearing directory it finds.
//
// # Overview
//
// A directory is device-bearing when its name has the form
// <identifier>@<hex>, for example "serial@84000000". For each such
// directory the walker reads two property files:
//   - reg: exactly 8 bytes, two big-endian cells (base, size)
//   - compatible: NUL-terminated strings
//
// Properties of any other size are treated as absent.
//
// # Iterative Traversal
//
// The walk uses an explicit stack instead of recursion:
//
//	stack := []frame{{name: root, state: stateInitial}}
//	for len(stack) > 0 {
//	    f := &stack[len(stack)-1]
//	    switch f.state {
//	    case stateInitial:
//	        // list directory, report device, push children
//	        f.state = stateDone
//	    case stateDone:
//	        // pop frame and path segment
//	    }
//	}
//
// A PathStack mirrors the frames currently entered, so the OS path of any
// directory is available without storing it per frame.
//
// # Depth Bound
//
// The root is depth 0. Directories down to Options.MaxDepth (default 4)
// are visited; those at MaxDepth are not descended into. This is the only
// guard against pathological trees.
//
// # Error Handling
//
// Failing to list the root aborts the walk with types.ErrCantReadRoot.
// Any nested failure (a node vanished, permission denied, a property file
// cannot be read) is passed to Options.OnError as a types.Diagnostic and
// only the affected subtree or property is skipped.
//
// # Thread Safety
//
// Walkers are not thread-safe. Do not share walker instances across goroutines.
package walker
