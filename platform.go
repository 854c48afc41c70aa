//go:build linux && amd64

package ivee

import (
	"os"

	"github.com/nimblevm/ivee/internal/kvmdriver"
)

// Supported returns true if /dev/kvm exists and is accessible for
// read/write from this process.
func Supported() (bool, error) {
	f, err := os.OpenFile("/dev/kvm", os.O_RDWR, 0)
	if err != nil {
		if os.IsNotExist(err) || os.IsPermission(err) {
			return false, nil
		}
		return false, err
	}
	f.Close()
	return true, nil
}

// NewDefaultDriver opens /dev/kvm (once per process) and returns a Driver
// backed by it.
func NewDefaultDriver() (Driver, error) {
	sub, err := kvmdriver.OpenSubsystem()
	if err != nil {
		return nil, wrapErr(KindNotAvailable, err, "failed to open kvm subsystem")
	}
	return &kvmDriverAdapter{sub: sub}, nil
}

// kvmDriverAdapter implements Driver by delegating to internal/kvmdriver's
// Subsystem. It exists so the core package can depend on the narrow
// Driver/VMHandle/VCPUHandle contract while internal/kvmdriver stays free
// of any reference to package ivee (avoiding an import cycle, since this
// file is the one thing that imports both).
type kvmDriverAdapter struct {
	sub *kvmdriver.Subsystem
}

func (d *kvmDriverAdapter) CreateVM() (VMHandle, error) {
	vm, err := d.sub.CreateVM()
	if err != nil {
		return nil, err
	}
	return &kvmVMAdapter{vm: vm}, nil
}

type kvmVMAdapter struct {
	vm *kvmdriver.VM
}

func (v *kvmVMAdapter) SetMemoryRegion(slot uint32, region MemoryRegionDesc) error {
	return v.vm.SetUserMemoryRegion(slot, region.GuestPhysAddr, uint64(region.HostAddr), region.Size, region.ReadOnly)
}

func (v *kvmVMAdapter) CreateVCPU() (VCPUHandle, error) {
	vcpu, err := v.vm.CreateVCPU()
	if err != nil {
		return nil, err
	}
	return &kvmVCPUAdapter{vcpu: vcpu}, nil
}

func (v *kvmVMAdapter) Close() error { return v.vm.Close() }

type kvmVCPUAdapter struct {
	vcpu *kvmdriver.VCPU
}

func (c *kvmVCPUAdapter) LoadState(s *X86State) error {
	regs := &kvmdriver.Regs{
		RAX: s.RAX, RBX: s.RBX, RCX: s.RCX, RDX: s.RDX,
		RSI: s.RSI, RDI: s.RDI, RSP: s.RSP, RBP: s.RBP,
		R8: s.R8, R9: s.R9, R10: s.R10, R11: s.R11,
		R12: s.R12, R13: s.R13, R14: s.R14, R15: s.R15,
		RIP: s.RIP, RFlags: s.RFLAGS,
	}
	if err := c.vcpu.SetRegs(regs); err != nil {
		return err
	}

	sregs := &kvmdriver.Sregs{
		CS: toKVMSegment(s.CS), DS: toKVMSegment(s.DS), ES: toKVMSegment(s.ES),
		FS: toKVMSegment(s.FS), GS: toKVMSegment(s.GS), SS: toKVMSegment(s.SS),
		TR: toKVMSegment(s.TR), LDT: toKVMSegment(s.LDT),
		CR0: s.CR0, CR2: s.CR2, CR3: s.CR3, CR4: s.CR4,
		EFER: s.EFER,
	}
	return c.vcpu.SetSregs(sregs)
}

func (c *kvmVCPUAdapter) StoreState(s *X86State) error {
	var regs kvmdriver.Regs
	if err := c.vcpu.GetRegs(&regs); err != nil {
		return err
	}
	s.RAX, s.RBX, s.RCX, s.RDX = regs.RAX, regs.RBX, regs.RCX, regs.RDX
	s.RSI, s.RDI, s.RSP, s.RBP = regs.RSI, regs.RDI, regs.RSP, regs.RBP
	s.R8, s.R9, s.R10, s.R11 = regs.R8, regs.R9, regs.R10, regs.R11
	s.R12, s.R13, s.R14, s.R15 = regs.R12, regs.R13, regs.R14, regs.R15
	s.RIP, s.RFLAGS = regs.RIP, regs.RFlags

	var sregs kvmdriver.Sregs
	if err := c.vcpu.GetSregs(&sregs); err != nil {
		return err
	}
	s.CS, s.DS, s.ES = fromKVMSegment(sregs.CS), fromKVMSegment(sregs.DS), fromKVMSegment(sregs.ES)
	s.FS, s.GS, s.SS = fromKVMSegment(sregs.FS), fromKVMSegment(sregs.GS), fromKVMSegment(sregs.SS)
	s.TR, s.LDT = fromKVMSegment(sregs.TR), fromKVMSegment(sregs.LDT)
	s.CR0, s.CR2, s.CR3, s.CR4 = sregs.CR0, sregs.CR2, sregs.CR3, sregs.CR4
	s.EFER = sregs.EFER
	return nil
}

func (c *kvmVCPUAdapter) Run() (Exit, error) {
	result, err := c.vcpu.Run()
	if err != nil {
		return Exit{}, err
	}
	if result.IsIO() {
		return Exit{
			Kind:    ExitKindIO,
			Port:    result.IO.Port,
			IsWrite: result.IO.Direction == 1,
			Size:    result.IO.Size,
		}, nil
	}
	return Exit{Kind: ExitKindOther, RawReason: result.ExitReason}, nil
}

func (c *kvmVCPUAdapter) Close() error { return c.vcpu.Close() }

// toKVMSegment and fromKVMSegment translate between the data model's
// packed Segment (Flags bitset) and the KVM ABI's exploded bit fields
// (Present, DB, S, L, G as separate bytes).
func toKVMSegment(s Segment) kvmdriver.Segment {
	return kvmdriver.Segment{
		Base:     s.Base,
		Limit:    s.Limit,
		Selector: s.Selector,
		Type:     s.Type,
		DPL:      s.DPL,
		Present:  boolToU8(s.Flags&SegFlagP != 0),
		DB:       boolToU8(s.Flags&SegFlagDB != 0),
		S:        boolToU8(s.Flags&SegFlagS != 0),
		L:        boolToU8(s.Flags&SegFlagL != 0),
		G:        boolToU8(s.Flags&SegFlagG != 0),
	}
}

func fromKVMSegment(k kvmdriver.Segment) Segment {
	var flags SegmentFlags
	if k.Present != 0 {
		flags |= SegFlagP
	}
	if k.DB != 0 {
		flags |= SegFlagDB
	}
	if k.S != 0 {
		flags |= SegFlagS
	}
	if k.L != 0 {
		flags |= SegFlagL
	}
	if k.G != 0 {
		flags |= SegFlagG
	}
	return Segment{
		Base:     k.Base,
		Limit:    k.Limit,
		Selector: k.Selector,
		Type:     k.Type,
		DPL:      k.DPL,
		Flags:    flags,
	}
}

func boolToU8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
