//go:build linux && amd64

package kvmdriver

// Regs has the same layout as the C struct kvm_regs (linux/kvm.h).
type Regs struct {
	RAX, RBX, RCX, RDX uint64
	RSI, RDI, RSP, RBP uint64
	R8, R9, R10, R11    uint64
	R12, R13, R14, R15  uint64
	RIP, RFlags         uint64
}

// Dtable has the same layout as the C struct kvm_dtable.
type Dtable struct {
	Base  uint64
	Limit uint16
	_     [3]uint16
}

// Segment has the same layout as the C struct kvm_segment.
type Segment struct {
	Base                           uint64
	Limit                          uint32
	Selector                       uint16
	Type                           uint8
	Present, DPL, DB, S, L, G, Avl uint8
	Unusable                       uint8
	_                              uint8
}

const nrInterrupts = 256

// Sregs has the same layout as the C struct kvm_sregs.
type Sregs struct {
	CS, DS, ES, FS, GS, SS  Segment
	TR, LDT                 Segment
	GDT, IDT                Dtable
	CR0, CR2, CR3, CR4, CR8 uint64
	EFER                    uint64
	APICBase                uint64
	InterruptBitmap         [(nrInterrupts + 63) / 64]uint64
}

// kvmUserspaceMemoryRegion has the same layout as the C struct
// kvm_userspace_memory_region.
type kvmUserspaceMemoryRegion struct {
	Slot          uint32
	Flags         uint32
	GuestPhysAddr uint64
	MemorySize    uint64
	UserspaceAddr uint64
}

const memRegionFlagReadOnly = 1 << 1 // KVM_MEM_READONLY

// exitIO has the same layout as the "io" member of the anonymous union of
// vmexit data inside struct kvm_run.
type exitIO struct {
	Direction  uint8
	Size       uint8
	Port       uint16
	Count      uint32
	DataOffset uint64
}

// runData mirrors the fixed-size prefix of struct kvm_run that this
// package inspects. The full struct is considerably larger (it carries
// every possible exit union plus the nested register sync area); only
// the header fields and the IO union are decoded here, mirroring how
// hankjacobs-kvm's runData narrows the same struct.
type runData struct {
	requestInterruptWindow uint8
	immediateExit          uint8
	_                       [6]uint8

	exitReason                 uint32
	readyForInterruptInjection uint8
	ifFlag                     uint8
	_                          uint16

	cr8      uint64
	apicBase uint64

	exitUnion [256]byte

	kvmValidRegs uint64
	kvmDirtyRegs uint64

	_ [2048]byte
}

const (
	kvmExitIO       = 2
	kvmExitHLT      = 5
	kvmExitMMIO     = 6
	kvmExitShutdown = 8
)
