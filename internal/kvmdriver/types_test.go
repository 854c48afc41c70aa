//go:build linux && amd64

package kvmdriver

import (
	"testing"
	"unsafe"
)

// TestRegsLayout pins Regs to the same field order and size as the C
// struct kvm_regs: 18 uint64 fields, 144 bytes total.
func TestRegsLayout(t *testing.T) {
	var r Regs
	if got, want := unsafe.Sizeof(r), uintptr(18*8); got != want {
		t.Errorf("sizeof(Regs) = %d, want %d", got, want)
	}
	if got, want := unsafe.Offsetof(r.RAX), uintptr(0); got != want {
		t.Errorf("offsetof(Regs.RAX) = %d, want %d", got, want)
	}
	if got, want := unsafe.Offsetof(r.RIP), uintptr(16*8); got != want {
		t.Errorf("offsetof(Regs.RIP) = %d, want %d", got, want)
	}
}

// TestSegmentLayout pins Segment to the C struct kvm_segment's 24-byte
// layout.
func TestSegmentLayout(t *testing.T) {
	var s Segment
	if got, want := unsafe.Sizeof(s), uintptr(24); got != want {
		t.Errorf("sizeof(Segment) = %d, want %d", got, want)
	}
	if got, want := unsafe.Offsetof(s.Limit), uintptr(8); got != want {
		t.Errorf("offsetof(Segment.Limit) = %d, want %d", got, want)
	}
	if got, want := unsafe.Offsetof(s.Selector), uintptr(12); got != want {
		t.Errorf("offsetof(Segment.Selector) = %d, want %d", got, want)
	}
}

// TestSregsLayout pins Sregs to the C struct kvm_sregs's 312-byte layout:
// 8 segments (24B each) + 2 dtables (16B each) + 5 control regs + EFER +
// APICBase (7x8B) + a 4x8B interrupt bitmap.
func TestSregsLayout(t *testing.T) {
	var s Sregs
	want := uintptr(8*24 + 2*16 + 7*8 + 4*8)
	if got := unsafe.Sizeof(s); got != want {
		t.Errorf("sizeof(Sregs) = %d, want %d", got, want)
	}
	if got, want := unsafe.Offsetof(s.GDT), uintptr(8*24); got != want {
		t.Errorf("offsetof(Sregs.GDT) = %d, want %d", got, want)
	}
	if got, want := unsafe.Offsetof(s.CR0), uintptr(8*24+2*16); got != want {
		t.Errorf("offsetof(Sregs.CR0) = %d, want %d", got, want)
	}
}

// TestUserspaceMemoryRegionLayout pins kvmUserspaceMemoryRegion to the C
// struct kvm_userspace_memory_region's 32-byte layout.
func TestUserspaceMemoryRegionLayout(t *testing.T) {
	var r kvmUserspaceMemoryRegion
	if got, want := unsafe.Sizeof(r), uintptr(32); got != want {
		t.Errorf("sizeof(kvmUserspaceMemoryRegion) = %d, want %d", got, want)
	}
	if got, want := unsafe.Offsetof(r.GuestPhysAddr), uintptr(8); got != want {
		t.Errorf("offsetof(kvmUserspaceMemoryRegion.GuestPhysAddr) = %d, want %d", got, want)
	}
}
