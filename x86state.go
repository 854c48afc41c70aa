package ivee

// SegmentFlags are the descriptor flag bits tracked per segment: S
// (descriptor type), P (present), G (granularity), L (64-bit code), DB
// (default operand size / big).
type SegmentFlags uint8

const (
	SegFlagS SegmentFlags = 1 << iota
	SegFlagP
	SegFlagG
	SegFlagL
	SegFlagDB
)

// Segment descriptor type-field values, combined by OR the way the C
// source's X86_SEG_TYPE_* constants are.
const (
	segTypeData  = 0x2
	segTypeCode  = 0xA
	segTypeAcc   = 0x1
	segTypeTSS32 = 0x9
	segTypeLDT   = 0x2
)

// Segment is an x86 segment descriptor: base, limit, selector, type, DPL
// and the flags bitfield from the data model.
type Segment struct {
	Base     uint64
	Limit    uint32
	Selector uint16
	Type     uint8
	DPL      uint8
	Flags    SegmentFlags
}

// X86State is the full boot-processor state image: general-purpose
// registers, control registers, EFER and the eight segment descriptors.
// It is the concrete type behind the Driver.LoadState/StoreState contract.
type X86State struct {
	RAX, RBX, RCX, RDX uint64
	RSI, RDI, RBP, RSP uint64
	R8, R9, R10, R11   uint64
	R12, R13, R14, R15 uint64
	RIP, RFLAGS        uint64

	CR0, CR2, CR3, CR4 uint64
	EFER               uint64

	CS, DS, SS, ES, FS, GS Segment
	TR, LDT                Segment
}
