package ivee

// Driver creates hypervisor-backed virtual machines. It is the sole contract
// the core sandbox logic depends on; internal/kvmdriver is the concrete
// Linux/amd64 implementation, but any ioctl-free test double satisfying this
// interface can stand in for it.
type Driver interface {
	CreateVM() (VMHandle, error)
}

// VMHandle is a single hypervisor-backed virtual machine.
type VMHandle interface {
	// SetMemoryRegion installs or replaces the guest-physical mapping at
	// the given slot. Slots are caller-assigned and must be unique
	// within a VM.
	SetMemoryRegion(slot uint32, region MemoryRegionDesc) error
	CreateVCPU() (VCPUHandle, error)
	Close() error
}

// VCPUHandle is a single virtual CPU belonging to a VMHandle.
type VCPUHandle interface {
	LoadState(*X86State) error
	StoreState(*X86State) error
	Run() (Exit, error)
	Close() error
}

// MemoryRegionDesc describes one guest-physical mapping backed by host
// memory, as handed to VMHandle.SetMemoryRegion.
type MemoryRegionDesc struct {
	GuestPhysAddr uint64
	HostAddr      uintptr
	Size          uint64
	ReadOnly      bool
}

// ExitKind classifies why VCPUHandle.Run returned.
type ExitKind int

const (
	// ExitKindIO is a port I/O exit (KVM_EXIT_IO on the KVM driver).
	ExitKindIO ExitKind = iota
	// ExitKindOther is any exit reason the sandbox does not model.
	ExitKindOther
)

// Exit is the decoded reason a VCPUHandle.Run call returned control to the
// host.
type Exit struct {
	Kind ExitKind

	// Valid when Kind == ExitKindIO. The KVM driver fills in Port,
	// IsWrite and Size only; it does not decode the transferred data, so
	// Value is always 0 for exits it reports.
	Port      uint16
	IsWrite   bool
	Size      uint8
	Value     uint32

	// Valid when Kind == ExitKindOther; the raw driver-specific reason
	// code, surfaced for diagnostics only.
	RawReason uint32
}
