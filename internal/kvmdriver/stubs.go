//go:build !linux || !amd64

package kvmdriver

import "errors"

// ErrNotAvailable is returned by OpenSubsystem on platforms without a
// /dev/kvm binding.
var ErrNotAvailable = errors.New("kvmdriver: not available on this platform")

// Subsystem is a non-functional placeholder on non-Linux/amd64 builds.
type Subsystem struct{}

// OpenSubsystem always fails outside linux/amd64.
func OpenSubsystem() (*Subsystem, error) {
	return nil, ErrNotAvailable
}

// APIVersion is unreachable on this platform; present only to satisfy
// callers written against the linux/amd64 Subsystem.
func (s *Subsystem) APIVersion() int { return 0 }

// CreateVM always fails outside linux/amd64.
func (s *Subsystem) CreateVM() (*VM, error) {
	return nil, ErrNotAvailable
}

// VM is a non-functional placeholder on non-Linux/amd64 builds.
type VM struct{}

func (vm *VM) SetUserMemoryRegion(slot uint32, gpa, hva uint64, size uint64, readOnly bool) error {
	return ErrNotAvailable
}

func (vm *VM) CreateVCPU() (*VCPU, error) {
	return nil, ErrNotAvailable
}

func (vm *VM) Close() error { return nil }

// VCPU is a non-functional placeholder on non-Linux/amd64 builds.
type VCPU struct{}

func (c *VCPU) SetRegs(regs *Regs) error   { return ErrNotAvailable }
func (c *VCPU) GetRegs(regs *Regs) error   { return ErrNotAvailable }
func (c *VCPU) SetSregs(sregs *Sregs) error { return ErrNotAvailable }
func (c *VCPU) GetSregs(sregs *Sregs) error { return ErrNotAvailable }
func (c *VCPU) Run() (RunResult, error)     { return RunResult{}, ErrNotAvailable }
func (c *VCPU) Close() error                { return nil }

// Regs, Sregs, Segment, Dtable, exitIO and RunResult need to exist on all
// platforms so callers written against this package type-check
// everywhere, even though they carry no behavior here.

type Regs struct {
	RAX, RBX, RCX, RDX uint64
	RSI, RDI, RSP, RBP uint64
	R8, R9, R10, R11   uint64
	R12, R13, R14, R15 uint64
	RIP, RFlags        uint64
}

type Dtable struct {
	Base  uint64
	Limit uint16
}

type Segment struct {
	Base                           uint64
	Limit                          uint32
	Selector                       uint16
	Type                           uint8
	Present, DPL, DB, S, L, G, Avl uint8
	Unusable                       uint8
}

type Sregs struct {
	CS, DS, ES, FS, GS, SS  Segment
	TR, LDT                 Segment
	GDT, IDT                Dtable
	CR0, CR2, CR3, CR4, CR8 uint64
	EFER                    uint64
}

type exitIO struct {
	Direction  uint8
	Size       uint8
	Port       uint16
	Count      uint32
	DataOffset uint64
}

type RunResult struct {
	ExitReason uint32
	IO         exitIO
}

func (r RunResult) IsIO() bool { return false }
