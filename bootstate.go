package ivee

// defaultBootState produces the deterministic snapshot that places the
// vCPU directly in 64-bit long mode with a flat segment model. IDT and GDT
// limits are left at zero, so any guest exception triple-faults; this is
// the intended failure mode for this execution model.
func defaultBootState() *X86State {
	s := &X86State{
		RFLAGS: 0x2,
		CR0:    0x80010001, // PG | WP | PE
		CR4:    0x20,       // PAE
		EFER:   0x500,      // LME | LMA
		CR3:    PML4Base,
	}

	s.CS = Segment{
		Base: 0, Limit: 0xFFFFFFFF, Selector: 0x08,
		Type:  segTypeCode | segTypeAcc,
		Flags: SegFlagS | SegFlagP | SegFlagG | SegFlagL,
	}
	flatData := Segment{
		Base: 0, Limit: 0xFFFFFFFF, Selector: 0x10,
		Type:  segTypeData | segTypeAcc,
		Flags: SegFlagS | SegFlagP | SegFlagG | SegFlagDB,
	}
	s.DS, s.SS, s.ES, s.FS, s.GS = flatData, flatData, flatData, flatData, flatData

	s.TR = Segment{Base: 0, Limit: 0, Selector: 0, Type: segTypeTSS32, Flags: SegFlagP}
	s.LDT = Segment{Base: 0, Limit: 0, Selector: 0, Type: segTypeLDT, Flags: SegFlagP}

	return s
}
