package testutil

import (
	"os"
	"testing"
)

// OpenFDs returns the number of file descriptors open in this process.
// Calls t.Skip where /proc/self/fd is not available.
func OpenFDs(t *testing.T) int {
	t.Helper()

	entries, err := os.ReadDir("/proc/self/fd")
	if err != nil {
		t.Skipf("cannot count open descriptors: %v", err)
	}
	// ReadDir's own descriptor is closed before it returns but still listed.
	return len(entries) - 1
}
