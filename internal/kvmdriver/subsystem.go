//go:build linux && amd64

package kvmdriver

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"
)

const kvmDevicePath = "/dev/kvm"

// wantAPIVersion is the KVM_API_VERSION every in-tree KVM build reports;
// anything else means the running kernel's ioctl ABI cannot be trusted.
const wantAPIVersion = 12

// Subsystem is a process-wide handle on /dev/kvm. It is opened at most
// once per process.
type Subsystem struct {
	fd       uintptr
	mmapSize int
}

var (
	subsystemOnce sync.Once
	subsystem     *Subsystem
	subsystemErr  error
)

// OpenSubsystem opens /dev/kvm, validates the reported API version, and
// caches the per-vCPU mmap size. Repeated calls return the same handle;
// the device is opened exactly once per process.
func OpenSubsystem() (*Subsystem, error) {
	subsystemOnce.Do(func() {
		subsystem, subsystemErr = openSubsystem()
	})
	return subsystem, subsystemErr
}

func openSubsystem() (*Subsystem, error) {
	f, err := os.OpenFile(kvmDevicePath, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", kvmDevicePath, err)
	}

	fd := f.Fd()

	version, err := ioctl(fd, kvmGetAPIVersion, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("KVM_GET_API_VERSION: %w", err)
	}
	if version != wantAPIVersion {
		f.Close()
		return nil, fmt.Errorf("unexpected KVM API version %d (want %d)", version, wantAPIVersion)
	}

	mmapSize, err := ioctl(fd, kvmGetVCPUMMAPSize, 0)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("KVM_GET_VCPU_MMAP_SIZE: %w", err)
	}

	// The fd is kept open for the lifetime of the process; it is never
	// closed via f.Close() here since f would close fd out from under
	// us. Duplicate it onto a detached descriptor instead.
	newFd, err := unix.Dup(int(fd))
	f.Close()
	if err != nil {
		return nil, fmt.Errorf("dup kvm fd: %w", err)
	}

	return &Subsystem{fd: uintptr(newFd), mmapSize: int(mmapSize)}, nil
}

// APIVersion returns the KVM API version reported at open time.
func (s *Subsystem) APIVersion() int { return wantAPIVersion }

// CreateVM creates a new VM under this subsystem handle.
func (s *Subsystem) CreateVM() (*VM, error) {
	fd, err := ioctl(s.fd, kvmCreateVM, 0)
	if err != nil {
		return nil, fmt.Errorf("KVM_CREATE_VM: %w", err)
	}
	return &VM{fd: fd, mmapSize: s.mmapSize}, nil
}
