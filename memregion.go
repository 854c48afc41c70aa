package ivee

import (
	"golang.org/x/sys/unix"
)

// GuestMemoryRegion is a contiguous span of guest-physical memory backed by
// a host-virtual buffer. Spans never overlap in guest-physical space within
// a MemoryMap, and a region is stable for the lifetime of the Instance that
// owns its containing map once the map has been finalized.
type GuestMemoryRegion struct {
	FirstGFN uint64
	LastGFN  uint64
	HVA      uintptr
	Size     uint64
	Prot     Prot

	data     []byte
	readOnly bool
}

// GPA returns the guest-physical base address the region is mapped at.
func (r *GuestMemoryRegion) GPA() uint64 { return r.FirstGFN << pageShift }

// ReadOnly reports whether the region's backing is a read-only file mapping
// rather than an anonymous, host-writable allocation.
func (r *GuestMemoryRegion) ReadOnly() bool { return r.readOnly }

// Bytes exposes the region's host-backed buffer. The loader writes segment
// or file contents through this slice before the map is finalized; callers
// must not retain it past the region's lifetime.
func (r *GuestMemoryRegion) Bytes() []byte { return r.data }

func roundUpPage(n uint64) uint64 {
	return (n + PageSize - 1) &^ (PageSize - 1)
}

func (r *GuestMemoryRegion) free() error {
	if r.data == nil {
		return nil
	}
	err := unix.Munmap(r.data)
	r.data = nil
	return err
}
