package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/joshuapare/dtreekit/internal/config"
	"github.com/joshuapare/dtreekit/internal/testutil"
)

// memBase is the device range backed by the fake memory file of setupTree.
const memBase = 0x1000

// setupTree resets global state, points the configuration at the reference
// tree plus a "ram@1000" device and backs /dev/mem with a temp file.
func setupTree(t *testing.T) string {
	t.Helper()

	root := testutil.LoadTree(t, testutil.TreeML507)
	testutil.WriteNode(t, root, testutil.Node{
		Path:       "ram@1000",
		Reg:        []uint32{memBase, 0x100},
		Compatible: []string{"test,scratch-ram"},
	})

	mem := filepath.Join(t.TempDir(), "mem")
	f, err := os.Create(mem)
	if err != nil {
		t.Fatalf("failed to create memory file: %v", err)
	}
	if err := f.Truncate(2 * memBase); err != nil {
		t.Fatalf("failed to size memory file: %v", err)
	}
	f.Close()

	cfg = config.Default()
	cfg.Tree.Root = root
	cfg.Bus.MemPath = mem
	logger = zap.NewNop()

	verbose, quiet, jsonOut, noColor = false, false, false, true
	return root
}

// captureOutput captures stdout while running a function
func captureOutput(t *testing.T, fn func() error) (string, error) {
	t.Helper()

	origStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	// Drain concurrently so large outputs cannot fill the pipe.
	done := make(chan []byte)
	go func() {
		var buf bytes.Buffer
		_, _ = buf.ReadFrom(r)
		done <- buf.Bytes()
	}()

	fnErr := fn()

	w.Close()
	os.Stdout = origStdout
	out := <-done
	r.Close()

	return string(out), fnErr
}

// assertJSON checks that output is valid JSON and decodes it
func assertJSON(t *testing.T, output string) map[string]any {
	t.Helper()
	var result map[string]any
	if err := json.Unmarshal([]byte(output), &result); err != nil {
		t.Fatalf("invalid JSON output: %v\nOutput: %s", err, output)
	}
	return result
}

// assertContains checks that output contains all expected strings
func assertContains(t *testing.T, output string, expected []string) {
	t.Helper()
	for _, want := range expected {
		if !strings.Contains(output, want) {
			t.Errorf("output missing expected string %q\nGot: %s", want, output)
		}
	}
}
