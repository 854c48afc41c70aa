package ivee

import (
	"os"
	"sort"
	"unsafe"

	"golang.org/x/sys/unix"
)

// MemoryMap is an ordered, non-overlapping set of GuestMemoryRegions sorted
// by FirstGFN. Mutation is confined to the load phase; page-table
// construction depends on ascending iteration order over the finalized map.
type MemoryMap struct {
	regions   []*GuestMemoryRegion
	finalized bool
}

func newMemoryMap() *MemoryMap {
	return &MemoryMap{}
}

// MapHostMemory allocates host-backed memory covering
// [gpa, gpa+roundUp(size, PageSize)) and registers it as a new region. When
// file is non-nil the region is a read-only mapping of the file starting at
// offset 0; otherwise it is an anonymous, host-writable allocation.
func (m *MemoryMap) MapHostMemory(gpa, size uint64, file *os.File, readOnly bool, prot Prot) (*GuestMemoryRegion, error) {
	if size == 0 {
		return nil, newErr(KindInvalidArg, "region size must be non-zero")
	}
	if gpa%PageSize != 0 {
		return nil, newErr(KindInvalidArg, "gpa 0x%x is not page-aligned", gpa)
	}

	rsize := roundUpPage(size)
	firstGFN := gpa / PageSize
	lastGFN := firstGFN + rsize/PageSize - 1

	if m.overlaps(firstGFN, lastGFN) {
		return nil, newErr(KindConflict, "region [0x%x, 0x%x) overlaps an existing mapping", gpa, gpa+rsize)
	}

	var data []byte
	var err error
	if file != nil {
		data, err = unix.Mmap(int(file.Fd()), 0, int(rsize), unix.PROT_READ, unix.MAP_PRIVATE)
	} else {
		data, err = unix.Mmap(-1, 0, int(rsize), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
	}
	if err != nil {
		return nil, wrapErr(KindOutOfMemory, err, "failed to map %d bytes at gpa 0x%x", rsize, gpa)
	}

	region := &GuestMemoryRegion{
		FirstGFN: firstGFN,
		LastGFN:  lastGFN,
		HVA:      uintptr(unsafe.Pointer(&data[0])),
		Size:     rsize,
		Prot:     prot,
		data:     data,
		readOnly: readOnly,
	}

	m.insert(region)
	recordRegionMap()
	return region, nil
}

// Iterate returns the regions in ascending FirstGFN order. The returned
// slice is a snapshot; mutating it does not affect the map.
func (m *MemoryMap) Iterate() []*GuestMemoryRegion {
	out := make([]*GuestMemoryRegion, len(m.regions))
	copy(out, m.regions)
	return out
}

// Free releases all host-side backings and region metadata. Idempotent.
func (m *MemoryMap) Free() error {
	var firstErr error
	for _, r := range m.regions {
		if err := r.free(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	m.regions = nil
	m.finalized = false
	return firstErr
}

func (m *MemoryMap) overlaps(firstGFN, lastGFN uint64) bool {
	for _, r := range m.regions {
		if firstGFN <= r.LastGFN && r.FirstGFN <= lastGFN {
			return true
		}
	}
	return false
}

func (m *MemoryMap) insert(r *GuestMemoryRegion) {
	i := sort.Search(len(m.regions), func(i int) bool { return m.regions[i].FirstGFN > r.FirstGFN })
	m.regions = append(m.regions, nil)
	copy(m.regions[i+1:], m.regions[i:])
	m.regions[i] = r
}
