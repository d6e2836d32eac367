// Package shmem manages named, fixed-size byte regions shared across
// processes: plain files under a tmpfs directory (default /dev/shm),
// memory-mapped MAP_SHARED so that any process mapping the same name sees
// the same bytes.
//
// Ownership is single-writer/multi-reader by convention only — the
// primitive enforces nothing. The watchdog process holds the sole writable
// mapping; consumers open read-only maps. Writes overwrite the whole region
// and carry no synchronization: a reader racing a write may observe a torn
// frame. Last writer wins.
package shmem

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sys/unix"
)

// DefaultDir is where regions live unless the caller says otherwise.
// /dev/shm is tmpfs on Linux, so region bytes never touch disk.
const DefaultDir = "/dev/shm"

// Region is one named, fixed-size shared byte region. The size never
// changes after creation.
type Region struct {
	name     string
	path     string
	fd       int
	data     []byte
	writable bool
}

// Create creates (or truncates) the region file and maps it read-write.
// The caller becomes the region's single writer.
func Create(dir, name string, size int) (*Region, error) {
	if size <= 0 {
		return nil, fmt.Errorf("region size must be positive, got %d", size)
	}
	if dir == "" {
		dir = DefaultDir
	}
	path := filepath.Join(dir, name)

	fd, err := unix.Open(path, unix.O_CREAT|unix.O_RDWR|unix.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("creating region %s: %w", path, err)
	}

	if err := unix.Ftruncate(fd, int64(size)); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("sizing region %s to %d bytes: %w", path, size, err)
	}

	data, err := unix.Mmap(fd, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("memory-mapping region %s: %w", path, err)
	}

	return &Region{name: name, path: path, fd: fd, data: data, writable: true}, nil
}

// Open maps an existing region read-only. This is the consumer side; the
// region keeps its creator's size.
func Open(dir, name string) (*Region, error) {
	if dir == "" {
		dir = DefaultDir
	}
	path := filepath.Join(dir, name)

	fd, err := unix.Open(path, unix.O_RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("opening region %s: %w", path, err)
	}

	var stat unix.Stat_t
	if err := unix.Fstat(fd, &stat); err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("stating region %s: %w", path, err)
	}

	data, err := unix.Mmap(fd, 0, int(stat.Size), unix.PROT_READ, unix.MAP_SHARED)
	if err != nil {
		unix.Close(fd)
		return nil, fmt.Errorf("memory-mapping region %s: %w", path, err)
	}

	return &Region{name: name, path: path, fd: fd, data: data}, nil
}

// Name returns the region's name within its directory.
func (r *Region) Name() string {
	return r.name
}

// Size returns the fixed region size in bytes.
func (r *Region) Size() int {
	return len(r.data)
}

// Bytes returns the mapped view. Readers get whatever the writer last
// stored, with no consistency guarantee mid-write.
func (r *Region) Bytes() []byte {
	return r.data
}

// Write overwrites the entire region in place. Partial writes are not a
// thing here: p must cover the full declared size, which keeps the byte
// layout contract fixed for every reader.
func (r *Region) Write(p []byte) error {
	if !r.writable {
		return fmt.Errorf("region %s is mapped read-only", r.name)
	}
	if len(p) != len(r.data) {
		return fmt.Errorf("region %s expects exactly %d bytes, got %d", r.name, len(r.data), len(p))
	}
	copy(r.data, p)
	return nil
}

// Close unmaps the region and closes its descriptor. The name stays in the
// namespace; other processes keep their mappings.
func (r *Region) Close() error {
	if r.data == nil {
		return nil
	}

	var errs []error
	if err := unix.Munmap(r.data); err != nil {
		errs = append(errs, fmt.Errorf("unmapping region %s: %w", r.name, err))
	}
	if err := unix.Close(r.fd); err != nil {
		errs = append(errs, fmt.Errorf("closing region %s: %w", r.name, err))
	}
	r.data = nil
	r.fd = -1
	return errors.Join(errs...)
}

// Unlink removes the region's name from the namespace so it can be
// re-created without collision. Idempotent: a missing file is fine.
func (r *Region) Unlink() error {
	if err := os.Remove(r.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("unlinking region %s: %w", r.name, err)
	}
	return nil
}

// Release is the full teardown used on watchdog exit: unmap, close, and
// unlink, collecting every sub-failure instead of stopping at the first.
func (r *Region) Release() error {
	return errors.Join(r.Close(), r.Unlink())
}
