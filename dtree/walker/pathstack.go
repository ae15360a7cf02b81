package walker

import (
	"path/filepath"
	"strings"
)

// PathStack is the ordered list of path segments from the walk root down to
// the directory being processed. The root occupies index 0 as given by the
// caller; every later segment is a single directory name.
type PathStack struct {
	segs []string
}

// Push appends a segment on descent.
func (s *PathStack) Push(seg string) {
	s.segs = append(s.segs, seg)
}

// Pop removes and returns the innermost segment, or "" when empty.
func (s *PathStack) Pop() string {
	if len(s.segs) == 0 {
		return ""
	}
	top := s.segs[len(s.segs)-1]
	s.segs[len(s.segs)-1] = ""
	s.segs = s.segs[:len(s.segs)-1]
	return top
}

// Top returns the innermost segment, or "" when empty.
func (s *PathStack) Top() string {
	if len(s.segs) == 0 {
		return ""
	}
	return s.segs[len(s.segs)-1]
}

// Len returns the number of segments, root included.
func (s *PathStack) Len() int { return len(s.segs) }

// Empty reports whether no segment has been pushed.
func (s *PathStack) Empty() bool { return len(s.segs) == 0 }

// Rel returns the slash-separated path below the root, suitable for an
// fs.FS rooted there. The root itself is ".".
func (s *PathStack) Rel() string {
	if len(s.segs) <= 1 {
		return "."
	}
	return strings.Join(s.segs[1:], "/")
}

// String returns the OS path including the root segment.
func (s *PathStack) String() string {
	return filepath.Join(s.segs...)
}

// Reset empties the stack, keeping its capacity.
func (s *PathStack) Reset() {
	clear(s.segs)
	s.segs = s.segs[:0]
}
