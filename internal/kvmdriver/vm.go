//go:build linux && amd64

package kvmdriver

import (
	"fmt"
	"unsafe"
)

// VM is a single KVM-backed virtual machine.
type VM struct {
	fd       uintptr
	mmapSize int
}

// SetUserMemoryRegion installs or replaces the guest-physical mapping at
// slot with a single KVM_SET_USER_MEMORY_REGION call.
func (vm *VM) SetUserMemoryRegion(slot uint32, gpa, hva uint64, size uint64, readOnly bool) error {
	var flags uint32
	if readOnly {
		flags = memRegionFlagReadOnly
	}

	region := kvmUserspaceMemoryRegion{
		Slot:          slot,
		Flags:         flags,
		GuestPhysAddr: gpa,
		MemorySize:    size,
		UserspaceAddr: hva,
	}

	if _, err := ioctlPtr(vm.fd, kvmSetUserMemoryRegion, unsafe.Pointer(&region)); err != nil {
		return fmt.Errorf("KVM_SET_USER_MEMORY_REGION(slot=%d): %w", slot, err)
	}
	return nil
}

// CreateVCPU creates vCPU 0 for this VM and mmaps its kvm_run page.
func (vm *VM) CreateVCPU() (*VCPU, error) {
	fd, err := ioctl(vm.fd, kvmCreateVCPU, 0)
	if err != nil {
		return nil, fmt.Errorf("KVM_CREATE_VCPU: %w", err)
	}

	run, err := mmapRunData(fd, vm.mmapSize)
	if err != nil {
		closeFd(fd)
		return nil, err
	}

	return &VCPU{fd: fd, run: run, mmapSize: vm.mmapSize}, nil
}

// Close releases the VM's fd.
func (vm *VM) Close() error {
	return closeFd(vm.fd)
}
