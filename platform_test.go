//go:build linux && amd64

package ivee

import (
	"os"
	"path/filepath"
	"testing"
)

func TestSupportedConsistency(t *testing.T) {
	if isCI() {
		t.Skip("skipping /dev/kvm tests in CI (no nested virtualization)")
	}

	results := make([]bool, 3)
	for i := range results {
		ok, err := Supported()
		if err != nil {
			t.Fatalf("Supported() call %d returned error: %v", i, err)
		}
		results[i] = ok
	}
	for i, r := range results {
		if r != results[0] {
			t.Errorf("inconsistent Supported() result at call %d: got %v, want %v", i, r, results[0])
		}
	}
}

func TestEndToEndCallOnRealKVM(t *testing.T) {
	if isCI() {
		t.Skip("skipping /dev/kvm tests in CI (no nested virtualization)")
	}

	ok, err := Supported()
	if err != nil {
		t.Fatalf("Supported() returned error: %v", err)
	}
	if !ok {
		t.Skip("/dev/kvm not available on this host")
	}

	driver, err := NewDefaultDriver()
	if err != nil {
		t.Fatalf("NewDefaultDriver failed: %v", err)
	}

	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer inst.Close()

	// xor eax, eax ; mov dx, 0x500 ; out dx, al ; hlt
	code := []byte{0x31, 0xc0, 0x66, 0xba, 0x00, 0x05, 0xee, 0xf4}
	path := filepath.Join(t.TempDir(), "halt.bin")
	if err := os.WriteFile(path, code, 0o755); err != nil {
		t.Fatalf("failed to write test binary: %v", err)
	}

	if err := inst.LoadExecutable(path, FormatBin); err != nil {
		t.Fatalf("LoadExecutable failed: %v", err)
	}

	var regs ArchState
	if err := inst.Call(&regs); err != nil {
		t.Fatalf("Call failed: %v", err)
	}
	t.Logf("final state: %+v", regs)
}
