package ivee

import "debug/elf"

// loadELF64 parses path as a 64-bit x86_64 ELF executable or shared object
// and maps each PT_LOAD segment as its own anonymous region, zero-filling
// the BSS tail (p_memsz - p_filesz bytes).
func loadELF64(mm *MemoryMap, path string) (uint64, error) {
	f, err := elf.Open(path)
	if err != nil {
		return 0, wrapErr(KindUnsupported, err, "not a valid ELF object")
	}
	defer f.Close()

	if f.Class != elf.ELFCLASS64 {
		return 0, newErr(KindUnsupported, "unsupported ELF class %v", f.Class)
	}
	if f.Machine != elf.EM_X86_64 {
		return 0, newErr(KindUnsupported, "unsupported ELF machine %v", f.Machine)
	}
	if f.Type != elf.ET_EXEC && f.Type != elf.ET_DYN {
		return 0, newErr(KindUnsupported, "unsupported ELF type %v", f.Type)
	}

	for _, prog := range f.Progs {
		if prog.Type != elf.PT_LOAD {
			continue
		}

		prot := ProtRead
		if prog.Flags&elf.PF_W != 0 {
			prot |= ProtWrite
		}
		if prog.Flags&elf.PF_X != 0 {
			prot |= ProtExec
		}

		region, err := mm.MapHostMemory(prog.Vaddr, prog.Memsz, nil, false, prot)
		if err != nil {
			mm.Free()
			return 0, err
		}

		if prog.Filesz == 0 {
			continue
		}

		n, err := prog.ReadAt(region.Bytes()[:prog.Filesz], 0)
		if err != nil {
			mm.Free()
			return 0, wrapErr(KindIOError, err, "failed to read PT_LOAD segment at 0x%x", prog.Vaddr)
		}
		if uint64(n) != prog.Filesz {
			mm.Free()
			return 0, newErr(KindIOError, "short read loading segment at 0x%x: got %d want %d", prog.Vaddr, n, prog.Filesz)
		}
	}

	return f.Entry, nil
}
