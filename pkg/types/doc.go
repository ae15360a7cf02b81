// Package types defines the small shared vocabulary of dtreekit: the
// address type, typed errors with stable categories and the diagnostic
// report collected while scanning a device tree.
//
// Design goals:
//   - Typed errors with stable categories (invalid-root/io/state/...).
//   - Sentinels that still match with errors.Is after a cause is attached.
//   - Diagnostics that keep every recoverable failure, not just the first.
//
// This package has no dependencies beyond the standard library.
package types
