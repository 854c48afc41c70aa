//go:build linux && amd64

package kvmdriver

import (
	"fmt"
	"unsafe"

	"golang.org/x/sys/unix"
)

// VCPU is a single virtual CPU belonging to a VM.
type VCPU struct {
	fd       uintptr
	mmapSize int
	run      *runData
}

func mmapRunData(fd uintptr, size int) (*runData, error) {
	b, err := unix.Mmap(int(fd), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		return nil, fmt.Errorf("mmap kvm_run: %w", err)
	}
	return (*runData)(unsafe.Pointer(&b[0])), nil
}

func closeFd(fd uintptr) error {
	_, _, errno := unix.Syscall(unix.SYS_CLOSE, fd, 0, 0)
	if errno != 0 {
		return errno
	}
	return nil
}

// SetRegs writes the vCPU's general-purpose registers.
func (c *VCPU) SetRegs(regs *Regs) error {
	_, err := ioctlPtr(c.fd, kvmSetRegs, unsafe.Pointer(regs))
	if err != nil {
		return fmt.Errorf("KVM_SET_REGS: %w", err)
	}
	return nil
}

// GetRegs reads the vCPU's general-purpose registers.
func (c *VCPU) GetRegs(regs *Regs) error {
	_, err := ioctlPtr(c.fd, kvmGetRegs, unsafe.Pointer(regs))
	if err != nil {
		return fmt.Errorf("KVM_GET_REGS: %w", err)
	}
	return nil
}

// SetSregs writes the vCPU's special registers (segments, control
// registers, EFER).
func (c *VCPU) SetSregs(sregs *Sregs) error {
	_, err := ioctlPtr(c.fd, kvmSetSregs, unsafe.Pointer(sregs))
	if err != nil {
		return fmt.Errorf("KVM_SET_SREGS: %w", err)
	}
	return nil
}

// GetSregs reads the vCPU's special registers.
func (c *VCPU) GetSregs(sregs *Sregs) error {
	_, err := ioctlPtr(c.fd, kvmGetSregs, unsafe.Pointer(sregs))
	if err != nil {
		return fmt.Errorf("KVM_GET_SREGS: %w", err)
	}
	return nil
}

// RunResult is the decoded reason a Run call returned.
type RunResult struct {
	ExitReason uint32

	// Valid when ExitReason == KVM_EXIT_IO.
	IO exitIO
}

// IsIO reports whether the result is a KVM_EXIT_IO exit.
func (r RunResult) IsIO() bool { return r.ExitReason == kvmExitIO }

// Run executes KVM_RUN once and decodes the exit union if it recognizes
// the exit reason.
func (c *VCPU) Run() (RunResult, error) {
	if _, err := ioctl(c.fd, kvmRun, 0); err != nil {
		return RunResult{}, fmt.Errorf("KVM_RUN: %w", err)
	}

	result := RunResult{ExitReason: c.run.exitReason}
	if result.IsIO() {
		result.IO = *(*exitIO)(unsafe.Pointer(&c.run.exitUnion[0]))
	}
	return result, nil
}

// Close releases the vCPU's fd and unmaps its kvm_run page.
func (c *VCPU) Close() error {
	b := unsafe.Slice((*byte)(unsafe.Pointer(c.run)), c.mmapSize)
	var firstErr error
	if err := unix.Munmap(b); err != nil {
		firstErr = err
	}
	if err := closeFd(c.fd); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
