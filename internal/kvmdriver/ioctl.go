//go:build linux && amd64

package kvmdriver

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// KVM ioctl numbers, from the kernel's linux/kvm.h UAPI (type 0xAE). Each
// is computed once here in hex from the _IO/_IOR/_IOW encoding
// (direction<<30 | size<<16 | type<<8 | nr) rather than re-derived at
// runtime, matching how the rest of the Go KVM binding ecosystem encodes
// them.
const (
	kvmGetAPIVersion       = 0xAE00
	kvmCreateVM            = 0xAE01
	kvmGetVCPUMMAPSize     = 0xAE04
	kvmCreateVCPU          = 0xAE41
	kvmSetUserMemoryRegion = 0x4020AE46
	kvmRun                 = 0xAE80
	kvmGetRegs             = 0x8090AE81
	kvmSetRegs             = 0x4090AE82
	kvmGetSregs            = 0x8138AE83
	kvmSetSregs            = 0x4138AE84
)

func ioctl(fd uintptr, req uintptr, arg uintptr) (uintptr, error) {
	r1, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg)
	if errno != 0 {
		return 0, errno
	}
	return r1, nil
}

func ioctlPtr(fd uintptr, req uintptr, p unsafe.Pointer) (uintptr, error) {
	return ioctl(fd, req, uintptr(p))
}
