//go:build !unix

package mmfile

import (
	"errors"
	"io"
	"os"
)

// errNoWritableMapping is returned where shared mappings are unavailable.
var errNoWritableMapping = errors.New("mmfile: writable mappings need a unix system")

// MapRegion reads the requested window when mmap is not available.
// Writable windows are not supported.
func MapRegion(path string, offset int64, length int, writable bool) (*Region, error) {
	if err := checkWindow(offset, length); err != nil {
		return nil, err
	}
	if writable {
		return nil, errNoWritableMapping
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data := make([]byte, length)
	if _, err := f.ReadAt(data, offset); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	return &Region{data: data, length: length}, nil
}
