package ivee

import "time"

// IveePIOExitPort is the fixed I/O port the guest ABI uses to signal
// termination back to the host. A write of any value to this port stops
// the run loop; direction, width and the written value itself are
// ignored for the purpose of deciding termination.
const IveePIOExitPort = 0x500

// Call loads regs into the vCPU boot image, runs it until the guest
// signals termination on IveePIOExitPort, and stores the resulting
// register file back into regs. On any failure regs is left unchanged.
func (inst *Instance) Call(regs *ArchState) error {
	inst.mu.Lock()
	defer inst.mu.Unlock()

	start := time.Now()

	if inst.closed {
		return newErr(KindInvalidArg, "instance is closed")
	}
	if !inst.memoryMap.finalized {
		return newErr(KindInvalidArg, "no executable loaded")
	}

	image := *inst.bootState
	image.RAX, image.RBX, image.RCX, image.RDX = regs.RAX, regs.RBX, regs.RCX, regs.RDX
	image.RSI, image.RDI, image.RBP = regs.RSI, regs.RDI, regs.RBP
	image.R8, image.R9, image.R10, image.R11 = regs.R8, regs.R9, regs.R10, regs.R11
	image.R12, image.R13, image.R14, image.R15 = regs.R12, regs.R13, regs.R14, regs.R15
	image.RIP = inst.entryAddr

	if err := inst.vcpu.LoadState(&image); err != nil {
		recordIOError()
		return wrapErr(KindIOError, err, "failed to load vCPU state")
	}

	inst.shouldTerminate = false
	for !inst.shouldTerminate {
		exit, err := inst.vcpu.Run()
		if err != nil {
			recordIOError()
			return wrapErr(KindIOError, err, "failed to run vCPU")
		}

		if err := inst.handleExit(exit); err != nil {
			return err
		}
	}

	if err := inst.vcpu.StoreState(&image); err != nil {
		recordIOError()
		return wrapErr(KindIOError, err, "failed to store vCPU state")
	}

	regs.RAX, regs.RBX, regs.RCX, regs.RDX = image.RAX, image.RBX, image.RCX, image.RDX
	regs.RSI, regs.RDI, regs.RBP = image.RSI, image.RDI, image.RBP
	regs.R8, regs.R9, regs.R10, regs.R11 = image.R8, image.R9, image.R10, image.R11
	regs.R12, regs.R13, regs.R14, regs.R15 = image.R12, image.R13, image.R14, image.R15
	regs.RIP = image.RIP
	regs.RFLAGS = image.RFLAGS

	recordCall(time.Since(start))
	return nil
}

func (inst *Instance) handleExit(exit Exit) error {
	switch exit.Kind {
	case ExitKindIO:
		return inst.handlePIO(exit)
	default:
		recordUnsupportedExit()
		return newErr(KindUnsupported, "unhandled vCPU exit reason 0x%x", exit.RawReason)
	}
}

func (inst *Instance) handlePIO(exit Exit) error {
	if exit.Port != IveePIOExitPort {
		recordUnsupportedExit()
		return newErr(KindUnsupported, "unhandled PIO port 0x%x", exit.Port)
	}
	// Termination never depends on the written value, and the value is
	// not recorded; Metrics only counts the exit (PIOExits).
	inst.shouldTerminate = true
	recordPIOExit()
	return nil
}
