// Package ivee provides an embeddable, in-process x86_64 execution sandbox
// built on a hardware-assisted hypervisor.
//
// It loads a flat binary or ELF64 executable into a minimal long-mode guest
// address space, builds the 4-level page tables the guest needs, and runs it
// on a single virtual CPU until the guest signals completion on a dedicated
// I/O port. The hypervisor itself is treated as an external collaborator:
// ivee depends only on the Driver contract (see driver.go), and
// internal/kvmdriver supplies the concrete Linux/amd64 binding to /dev/kvm.
//
// # Requirements
//
//   - Linux/amd64 with /dev/kvm accessible (read/write permission on the
//     device node, usually via membership in the "kvm" group)
//   - Hardware virtualization enabled (Intel VT-x or AMD-V)
//
// # Basic Usage
//
// Check whether the sandbox is usable on this host:
//
//	supported, err := ivee.Supported()
//	if err != nil || !supported {
//		log.Fatal("sandbox not supported on this system")
//	}
//
// Create an instance and run a guest image:
//
//	driver, err := ivee.NewDefaultDriver()
//	if err != nil {
//		log.Fatal("no hypervisor driver available:", err)
//	}
//
//	inst, err := ivee.Create(ivee.Capabilities(), driver)
//	if err != nil {
//		log.Fatal("failed to create instance:", err)
//	}
//	defer inst.Close()
//
//	if err := inst.LoadExecutable("payload.elf", ivee.FormatAny); err != nil {
//		log.Fatal("failed to load executable:", err)
//	}
//
//	var regs ivee.ArchState
//	if err := inst.Call(&regs); err != nil {
//		log.Fatal("call failed:", err)
//	}
//	fmt.Printf("guest halted at rip=0x%x rax=0x%x\n", regs.RIP, regs.RAX)
//
// # Error Handling
//
// All errors implement the standard Go error interface and carry a closed
// Kind (see errors.go) that callers can compare with errors.Is against the
// package's sentinel values (ErrInvalidArg, ErrUnsupported, and so on).
//
// # Resource Management
//
// An Instance owns host memory mappings and a hypervisor VM/vCPU pair; it
// must be closed with Close() once the caller is done with it. Close is
// idempotent.
//
// # Platform Support
//
// Linux/amd64 only, via /dev/kvm. Other platforms build but Supported()
// reports false and NewDefaultDriver returns ErrNotAvailable.
//
// # Guest ABI
//
// The guest entry point is the loaded image's entry address (ELF64 e_entry,
// or the fixed flat-binary load address). RSP is not taken from the caller:
// every call loads it as 0 from the default boot state, and the guest is
// responsible for establishing its own stack if it needs one. A write of any value to
// IveePIOExitPort signals the sandbox to stop the call and return to the
// caller — the written value itself is ignored. Any other VM exit reason is
// reported as ErrUnsupported.
package ivee
