package ivee

// fakeDriver is the ioctl-free test double driver.go's doc comment
// describes: it tracks installed memory regions and loaded register state
// without touching any real hypervisor, so the core lifecycle and run-loop
// logic can be tested without /dev/kvm.
type fakeDriver struct {
	vms []*fakeVM
}

func (d *fakeDriver) CreateVM() (VMHandle, error) {
	vm := &fakeVM{}
	d.vms = append(d.vms, vm)
	return vm, nil
}

type fakeVM struct {
	regions map[uint32]MemoryRegionDesc
	vcpus   []*fakeVCPU
	closed  bool
}

func (vm *fakeVM) SetMemoryRegion(slot uint32, region MemoryRegionDesc) error {
	if vm.regions == nil {
		vm.regions = make(map[uint32]MemoryRegionDesc)
	}
	vm.regions[slot] = region
	return nil
}

func (vm *fakeVM) CreateVCPU() (VCPUHandle, error) {
	vcpu := &fakeVCPU{}
	vm.vcpus = append(vm.vcpus, vcpu)
	return vcpu, nil
}

func (vm *fakeVM) Close() error {
	vm.closed = true
	return nil
}

// fakeVCPU runs no code at all: Run immediately reports the guest wrote to
// IveePIOExitPort, which is enough to exercise Instance.Call's run loop
// without any real vCPU.
type fakeVCPU struct {
	loaded X86State
	stored X86State
	closed bool
	ran    int
}

func (c *fakeVCPU) LoadState(s *X86State) error {
	c.loaded = *s
	c.stored = *s
	return nil
}

func (c *fakeVCPU) StoreState(s *X86State) error {
	*s = c.stored
	return nil
}

func (c *fakeVCPU) Run() (Exit, error) {
	c.ran++
	c.stored.RAX = 0x2a
	return Exit{Kind: ExitKindIO, Port: IveePIOExitPort, IsWrite: true, Size: 4, Value: 1}, nil
}

func (c *fakeVCPU) Close() error {
	c.closed = true
	return nil
}
