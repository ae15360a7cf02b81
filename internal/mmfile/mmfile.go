// Package mmfile maps windows of files, typically /dev/mem, into memory.
package mmfile

import "fmt"

// Region is a mapped window of a file. Bytes starts at the requested
// offset even though the mapping itself is page aligned.
type Region struct {
	data   []byte // whole mapping, page aligned
	delta  int    // requested offset minus the aligned offset
	length int
	unmap  func([]byte) error
}

// Bytes returns the requested window. It must not be used after Close.
func (r *Region) Bytes() []byte {
	if r.data == nil {
		return nil
	}
	return r.data[r.delta : r.delta+r.length]
}

// Close unmaps the region. Closing twice is a no-op.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}
	data := r.data
	r.data = nil
	if r.unmap == nil {
		return nil
	}
	return r.unmap(data)
}

func checkWindow(offset int64, length int) error {
	if offset < 0 {
		return fmt.Errorf("mmfile: negative offset %d", offset)
	}
	if length <= 0 {
		return fmt.Errorf("mmfile: invalid length %d", length)
	}
	return nil
}

// alignDown returns the page-aligned offset at or below offset and the
// distance between them.
func alignDown(offset int64, pageSize int) (int64, int) {
	delta := int(offset % int64(pageSize))
	return offset - int64(delta), delta
}

// pagesFor rounds delta+length up to whole pages.
func pagesFor(delta, length, pageSize int) int {
	n := delta + length
	if rem := n % pageSize; rem != 0 {
		n += pageSize - rem
	}
	return n
}
