package ivee

// ArchState is the host-facing register set passed to Call. RSP is
// deliberately absent: the guest is responsible for establishing its own
// stack inside a WRITE region it loaded (see Instance.Call). RIP and
// RFLAGS are meaningful only as Call outputs; Call ignores any value a
// caller sets on them and overwrites them when it succeeds.
type ArchState struct {
	RAX, RBX, RCX, RDX uint64
	RSI, RDI, RBP      uint64
	R8, R9, R10, R11   uint64
	R12, R13, R14, R15 uint64

	RIP    uint64
	RFLAGS uint64
}
