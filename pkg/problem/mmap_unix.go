//go:build unix

package problem

import (
	"os"

	"golang.org/x/sys/unix"
)

// mapFile maps a problem file read-only. Empty files and filesystems that
// refuse mmap fall back to a plain read.
func mapFile(f *os.File) ([]byte, func() error, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, nil, err
	}
	size := st.Size()
	if size <= 0 || size > int64(int(^uint(0)>>1)) {
		return readAll(f)
	}
	data, err := unix.Mmap(int(f.Fd()), 0, int(size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		return readAll(f)
	}
	return data, func() error { return unix.Munmap(data) }, nil
}
