package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/dtreekit/internal/buf"
)

// Node describes one directory of a fake device tree.
type Node struct {
	// Path is relative to the tree root, e.g. "plb@0/serial@84000000".
	Path string `yaml:"path"`
	// Reg is written as big-endian cells to the reg property.
	Reg []uint32 `yaml:"reg,omitempty"`
	// Compatible is written NUL-terminated to the compatible property.
	Compatible []string `yaml:"compatible,omitempty"`
	// Props holds additional property files by name, written verbatim.
	Props map[string]string `yaml:"props,omitempty"`
}

// Tree is a fake device tree as stored in testdata YAML files.
type Tree struct {
	Nodes []Node `yaml:"nodes"`
}

// TreeML507 is the reference board tree relative to the repository root.
const TreeML507 = "testdata/trees/ml507.yaml"

// BuildTree creates the given nodes under a fresh temporary directory and
// returns its path. Parent directories are created as needed.
//
// Example:
//
//	root := testutil.BuildTree(t,
//	    testutil.Node{Path: "serial@84000000", Reg: []uint32{0x84000000, 0x10000}},
//	)
func BuildTree(t *testing.T, nodes ...Node) string {
	t.Helper()

	root := t.TempDir()
	for _, n := range nodes {
		WriteNode(t, root, n)
	}
	return root
}

// WriteNode creates one node and its property files below root.
func WriteNode(t *testing.T, root string, n Node) {
	t.Helper()

	dir := filepath.Join(root, filepath.FromSlash(n.Path))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("Failed to create node %s: %v", n.Path, err)
	}
	if n.Reg != nil {
		writeProp(t, dir, "reg", buf.PutCellsBE(n.Reg...))
	}
	if n.Compatible != nil {
		writeProp(t, dir, "compatible", []byte(strings.Join(n.Compatible, "\x00")+"\x00"))
	}
	for name, data := range n.Props {
		writeProp(t, dir, name, []byte(data))
	}
}

func writeProp(t *testing.T, dir, name string, data []byte) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), data, 0o644); err != nil {
		t.Fatalf("Failed to write property %s/%s: %v", dir, name, err)
	}
}

// LoadTree reads a tree description from a YAML file in testdata and
// builds it in a temporary directory. Calls t.Skip if the file is not found.
func LoadTree(t *testing.T, relativePath string) string {
	t.Helper()

	data, err := os.ReadFile(resolveTestPath(t, relativePath))
	if err != nil {
		t.Fatalf("Failed to read tree %s: %v", relativePath, err)
	}

	var tree Tree
	if err := yaml.Unmarshal(data, &tree); err != nil {
		t.Fatalf("Failed to parse tree %s: %v", relativePath, err)
	}
	return BuildTree(t, tree.Nodes...)
}

// resolveTestPath attempts to find a testdata file by trying multiple path
// resolutions, since tests run from their package directory.
func resolveTestPath(t *testing.T, relativePath string) string {
	t.Helper()

	candidates := []string{
		relativePath,
		"../" + relativePath,
		"../../" + relativePath,
		"../../../" + relativePath,
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}

	t.Skipf("Test data not found at any candidate path starting from: %s", relativePath)
	return ""
}
