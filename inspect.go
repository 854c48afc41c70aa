package ivee

// RegionLayout describes one region LoadExecutable would install, without
// any hypervisor side effects.
type RegionLayout struct {
	GuestPhysAddr uint64
	Size          uint64
	Prot          Prot
	ReadOnly      bool
}

// ExecutableLayout is the result of Inspect: the entry address and region
// layout an executable would produce if loaded, plus the page-table
// footprint it would additionally consume.
type ExecutableLayout struct {
	Format    Format
	Entry     uint64
	Regions   []RegionLayout
	PageTable RegionLayout
}

// Inspect parses path the same way LoadExecutable would, but never touches
// a hypervisor: it only builds a throwaway MemoryMap and page-table image
// in host memory, reports the layout, and frees everything before
// returning. Useful for dry-running the loader against a candidate image.
func Inspect(path string, format Format) (*ExecutableLayout, error) {
	mm := newMemoryMap()
	defer mm.Free()

	entry, err := loadImage(mm, path, format)
	if err != nil {
		return nil, err
	}

	resolved := format
	if format == FormatAny {
		resolved = FormatELF64
		if _, err := elfEntryProbe(path); err != nil {
			resolved = FormatBin
		}
	}

	layout := &ExecutableLayout{Format: resolved, Entry: entry}
	for _, r := range mm.Iterate() {
		layout.Regions = append(layout.Regions, RegionLayout{
			GuestPhysAddr: r.GPA(),
			Size:          r.Size,
			Prot:          r.Prot,
			ReadOnly:      r.ReadOnly(),
		})
	}

	ptRegion, err := buildPageTables(mm)
	if err != nil {
		return nil, err
	}
	layout.PageTable = RegionLayout{
		GuestPhysAddr: ptRegion.GPA(),
		Size:          ptRegion.Size,
		Prot:          ptRegion.Prot,
	}

	return layout, nil
}

// elfEntryProbe reports whether path parses as a 64-bit x86_64 ELF object,
// purely to let Inspect label a FormatAny result the way loadImage itself
// resolved it.
func elfEntryProbe(path string) (uint64, error) {
	mm := newMemoryMap()
	defer mm.Free()
	return loadELF64(mm, path)
}
