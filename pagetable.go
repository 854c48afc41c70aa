package ivee

import "encoding/binary"

// Fixed paging layout. The guest address space is a 1 GiB window mapped at
// 4 KiB granularity; the page-table footprint (1 PML4 + 1 PDPT + 1 PD + 512
// PTs) is placed at the top of that window so CR3 is a compile-time
// constant.
const (
	PageSize  = 0x1000
	pageShift = 12

	// GuestMemorySize is the full guest-physical window the identity
	// mapping covers.
	GuestMemorySize = 1 << 30

	ptesPerPage = PageSize / 8

	// PageTableFootprint is the total size of the page-table region:
	// PML4 + PDPT + PD + 512 PTs, at 4 KiB each.
	PageTableFootprint = PageSize * (3 + ptesPerPage)

	// PML4Base is the guest-physical address of the first page-table
	// page. PDPTBase, PDBase and PTBase follow immediately after.
	PML4Base = GuestMemorySize - PageTableFootprint
	PDPTBase = PML4Base + PageSize
	PDBase   = PDPTBase + PageSize
	PTBase   = PDBase + PageSize

	ptePresent = 1 << 0
	pteRW      = 1 << 1
	pteNX      = 1 << 63
)

// buildPageTables constructs the 4-level identity mapping described in the
// page-table builder component. It must be called after the loader has
// populated mm with the guest's regions and before the map is finalized.
func buildPageTables(mm *MemoryMap) (*GuestMemoryRegion, error) {
	ptRegion, err := mm.MapHostMemory(PML4Base, PageTableFootprint, nil, false, ProtRead|ProtWrite)
	if err != nil {
		return nil, err
	}

	buf := ptRegion.Bytes()

	putPML4 := func(i int, v uint64) { binary.LittleEndian.PutUint64(buf[i*8:], v) }
	putPDPT := func(i int, v uint64) { binary.LittleEndian.PutUint64(buf[PageSize+i*8:], v) }
	putPD := func(i int, v uint64) { binary.LittleEndian.PutUint64(buf[2*PageSize+i*8:], v) }
	putPTE := func(gfn uint64, v uint64) {
		tableIdx := (gfn >> 9) & 0x1FF
		entryIdx := gfn & 0x1FF
		off := uint64(3*PageSize) + tableIdx*PageSize + entryIdx*8
		binary.LittleEndian.PutUint64(buf[off:], v)
	}

	putPML4(0, PDPTBase|ptePresent)
	putPDPT(0, PDBase|ptePresent)
	for i := 0; i < ptesPerPage; i++ {
		putPD(i, (PTBase+uint64(i)*PageSize)|ptePresent|pteRW)
	}
	// PTE slots are already zero: buildPageTables's region is a fresh
	// anonymous mapping.

	maxGFN := uint64(GuestMemorySize / PageSize)
	for _, region := range mm.Iterate() {
		for gfn := region.FirstGFN; gfn <= region.LastGFN; gfn++ {
			if gfn >= maxGFN {
				return nil, newErr(KindOutOfMemory, "region gfn 0x%x falls outside the 1GiB guest window", gfn)
			}
			entry := (gfn << pageShift) | ptePresent
			if region.Prot&ProtWrite != 0 {
				entry |= pteRW
			}
			if region.Prot&ProtExec == 0 {
				entry |= pteNX
			}
			putPTE(gfn, entry)
		}
	}

	return ptRegion, nil
}
