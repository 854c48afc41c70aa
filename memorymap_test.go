package ivee

import "testing"

func TestMapHostMemoryAlignment(t *testing.T) {
	mm := newMemoryMap()
	defer mm.Free()

	t.Run("rejects zero size", func(t *testing.T) {
		if _, err := mm.MapHostMemory(0x1000, 0, nil, false, ProtRead); err == nil {
			t.Error("expected error for zero-length region")
		}
	})

	t.Run("rejects unaligned gpa", func(t *testing.T) {
		if _, err := mm.MapHostMemory(0x1001, PageSize, nil, false, ProtRead); err == nil {
			t.Error("expected error for unaligned gpa")
		}
	})

	t.Run("rounds size up to a page", func(t *testing.T) {
		region, err := mm.MapHostMemory(0x10000, 1, nil, false, ProtRead)
		if err != nil {
			t.Fatalf("MapHostMemory failed: %v", err)
		}
		if region.Size != PageSize {
			t.Errorf("Size = %d, want %d", region.Size, PageSize)
		}
	})
}

func TestMapHostMemoryOverlap(t *testing.T) {
	mm := newMemoryMap()
	defer mm.Free()

	if _, err := mm.MapHostMemory(0x10000, 2*PageSize, nil, false, ProtRead|ProtWrite); err != nil {
		t.Fatalf("first MapHostMemory failed: %v", err)
	}

	t.Run("exact overlap", func(t *testing.T) {
		if _, err := mm.MapHostMemory(0x10000, PageSize, nil, false, ProtRead); !isConflict(err) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("partial overlap", func(t *testing.T) {
		if _, err := mm.MapHostMemory(0x11000, PageSize, nil, false, ProtRead); !isConflict(err) {
			t.Errorf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("adjacent, non-overlapping", func(t *testing.T) {
		if _, err := mm.MapHostMemory(0x12000, PageSize, nil, false, ProtRead); err != nil {
			t.Errorf("adjacent region should not conflict: %v", err)
		}
	})
}

func isConflict(err error) bool {
	e, ok := err.(*Error)
	return ok && e.Kind == KindConflict
}

func TestMemoryMapIterateOrder(t *testing.T) {
	mm := newMemoryMap()
	defer mm.Free()

	addrs := []uint64{0x30000, 0x10000, 0x20000}
	for _, a := range addrs {
		if _, err := mm.MapHostMemory(a, PageSize, nil, false, ProtRead); err != nil {
			t.Fatalf("MapHostMemory(0x%x) failed: %v", a, err)
		}
	}

	regions := mm.Iterate()
	if len(regions) != 3 {
		t.Fatalf("got %d regions, want 3", len(regions))
	}
	for i := 1; i < len(regions); i++ {
		if regions[i-1].FirstGFN >= regions[i].FirstGFN {
			t.Errorf("regions not in ascending order: %v", regions)
		}
	}
}

func TestMemoryMapFreeIdempotent(t *testing.T) {
	mm := newMemoryMap()
	if _, err := mm.MapHostMemory(0x10000, PageSize, nil, false, ProtRead|ProtWrite); err != nil {
		t.Fatalf("MapHostMemory failed: %v", err)
	}

	if err := mm.Free(); err != nil {
		t.Fatalf("first Free failed: %v", err)
	}
	if err := mm.Free(); err != nil {
		t.Fatalf("second Free failed: %v", err)
	}
	if len(mm.Iterate()) != 0 {
		t.Error("expected no regions after Free")
	}
}

func TestGuestMemoryRegionBytes(t *testing.T) {
	mm := newMemoryMap()
	defer mm.Free()

	region, err := mm.MapHostMemory(0x10000, PageSize, nil, false, ProtRead|ProtWrite)
	if err != nil {
		t.Fatalf("MapHostMemory failed: %v", err)
	}

	buf := region.Bytes()
	if len(buf) != PageSize {
		t.Fatalf("Bytes() length = %d, want %d", len(buf), PageSize)
	}
	buf[0] = 0x42
	if region.Bytes()[0] != 0x42 {
		t.Error("writes through Bytes() did not persist")
	}
	if region.GPA() != 0x10000 {
		t.Errorf("GPA() = 0x%x, want 0x10000", region.GPA())
	}
}
