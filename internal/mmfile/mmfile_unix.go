//go:build unix

package mmfile

import (
	"errors"
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// MapRegion maps length bytes of the file at path starting at offset. The
// mapping is shared, so writes reach the file or device directly. Opening
// /dev/mem usually needs root.
func MapRegion(path string, offset int64, length int, writable bool) (*Region, error) {
	if err := checkWindow(offset, length); err != nil {
		return nil, err
	}

	flag, prot := os.O_RDONLY, unix.PROT_READ
	if writable {
		flag, prot = os.O_RDWR, unix.PROT_READ|unix.PROT_WRITE
	}
	f, err := os.OpenFile(path, flag|unix.O_SYNC, 0)
	if err != nil {
		return nil, err
	}
	defer f.Close() // safe before return; mapping keeps pages alive

	pageSize := unix.Getpagesize()
	aligned, delta := alignDown(offset, pageSize)
	size := pagesFor(delta, length, pageSize)

	data, err := unix.Mmap(int(f.Fd()), aligned, size, prot, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmfile: map %s at 0x%X (+%d): %w", path, aligned, size, err)
	}
	return &Region{data: data, delta: delta, length: length, unmap: munmap}, nil
}

func munmap(data []byte) error {
	err := unix.Munmap(data)
	if errors.Is(err, unix.EINVAL) {
		// Treat double-unmap as no-op for callers.
		return nil
	}
	return err
}
