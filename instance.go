package ivee

import (
	"sync"
	"time"
)

// Caps is a bitset of optional capabilities a caller may request from
// Create. No capabilities are currently advertised; any set bit is
// rejected with ErrUnsupported.
type Caps uint64

// Capabilities returns the bitset of capabilities this build advertises.
func Capabilities() Caps { return 0 }

// Instance owns exactly one MemoryMap, one hypervisor VM handle with one
// vCPU, one x86 boot-state image, and the guest entry address produced by
// the last successful LoadExecutable. It is not safe for concurrent use
// from multiple goroutines.
type Instance struct {
	mu sync.Mutex

	driver Driver
	vm     VMHandle
	vcpu   VCPUHandle

	memoryMap *MemoryMap
	bootState *X86State
	ptRegion  *GuestMemoryRegion
	entryAddr uint64

	shouldTerminate bool
	closed          bool
}

// Create allocates an Instance, initializes the hypervisor VM/vCPU pair
// through driver, and starts it with an empty memory map. Any partial
// failure unwinds prior steps.
func Create(caps Caps, driver Driver) (*Instance, error) {
	start := time.Now()

	if caps & ^Capabilities() != 0 {
		return nil, newErr(KindUnsupported, "unknown capability bits 0x%x", uint64(caps & ^Capabilities()))
	}
	if driver == nil {
		return nil, newErr(KindInvalidArg, "driver must not be nil")
	}

	vm, err := driver.CreateVM()
	if err != nil {
		recordResourceError()
		return nil, wrapErr(KindNotAvailable, err, "failed to create VM")
	}

	vcpu, err := vm.CreateVCPU()
	if err != nil {
		vm.Close()
		recordResourceError()
		return nil, wrapErr(KindNotAvailable, err, "failed to create vCPU")
	}

	inst := &Instance{
		driver:    driver,
		vm:        vm,
		vcpu:      vcpu,
		memoryMap: newMemoryMap(),
		bootState: defaultBootState(),
	}

	recordInstanceCreate(time.Since(start))
	return inst, nil
}

// Close releases the hypervisor handle and the instance's memory map.
// Idempotent.
func (inst *Instance) Close() error {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.closed {
		return nil
	}
	inst.closed = true

	var firstErr error
	if inst.memoryMap != nil {
		if err := inst.memoryMap.Free(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := inst.vcpu.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := inst.vm.Close(); err != nil && firstErr == nil {
		firstErr = err
	}

	recordInstanceClose()
	return firstErr
}

// LoadExecutable parses the file at path according to format, populates
// the instance's memory map, builds the guest page tables, pushes the
// finalized map to the hypervisor driver, and primes the vCPU boot image.
// On any failure the instance is left in the pre-load state.
func (inst *Instance) LoadExecutable(path string, format Format) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.closed {
		return newErr(KindInvalidArg, "instance is closed")
	}

	// Loading again discards whatever the instance previously had
	// mapped; the memory map is owned exclusively by the instance.
	if err := inst.memoryMap.Free(); err != nil {
		return wrapErr(KindIOError, err, "failed to release previous memory map")
	}
	inst.memoryMap = newMemoryMap()

	entry, err := loadImage(inst.memoryMap, path, format)
	if err != nil {
		return err
	}

	ptRegion, err := buildPageTables(inst.memoryMap)
	if err != nil {
		inst.memoryMap.Free()
		inst.memoryMap = newMemoryMap()
		return err
	}

	for slot, region := range inst.memoryMap.Iterate() {
		desc := MemoryRegionDesc{
			GuestPhysAddr: region.GPA(),
			HostAddr:      region.HVA,
			Size:          region.Size,
			ReadOnly:      region.ReadOnly(),
		}
		if err := inst.vm.SetMemoryRegion(uint32(slot), desc); err != nil {
			inst.memoryMap.Free()
			inst.memoryMap = newMemoryMap()
			return wrapErr(KindIOError, err, "failed to register memory region %d with hypervisor", slot)
		}
	}

	inst.memoryMap.finalized = true
	inst.ptRegion = ptRegion
	inst.entryAddr = entry
	inst.bootState = defaultBootState()

	recordLoad()
	return nil
}
