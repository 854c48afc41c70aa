package ivee

import (
	"os"
	"path/filepath"
	"testing"
)

func TestCreateRejectsNilDriver(t *testing.T) {
	if _, err := Create(Capabilities(), nil); err == nil {
		t.Fatal("expected an error for a nil driver")
	}
}

func TestCreateRejectsUnknownCapabilities(t *testing.T) {
	driver := &fakeDriver{}
	if _, err := Create(Caps(1), driver); err == nil {
		t.Fatal("expected an error for an unrecognized capability bit")
	}
}

func TestCreateAndClose(t *testing.T) {
	driver := &fakeDriver{}
	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := inst.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// Close is idempotent.
	if err := inst.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	vm := driver.vms[0]
	if !vm.closed {
		t.Error("expected the underlying VM to be closed")
	}
	if !vm.vcpus[0].closed {
		t.Error("expected the underlying vCPU to be closed")
	}
}

func TestClosedInstanceRejectsOperations(t *testing.T) {
	driver := &fakeDriver{}
	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if err := inst.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := inst.LoadExecutable("/nonexistent", FormatBin); err == nil {
		t.Error("expected LoadExecutable to fail on a closed instance")
	}

	var regs ArchState
	if err := inst.Call(&regs); err == nil {
		t.Error("expected Call to fail on a closed instance")
	}
}

func TestCallWithoutLoadFails(t *testing.T) {
	driver := &fakeDriver{}
	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer inst.Close()

	var regs ArchState
	if err := inst.Call(&regs); err == nil {
		t.Error("expected Call to fail before LoadExecutable")
	}
}

func TestLoadExecutableInstallsRegions(t *testing.T) {
	driver := &fakeDriver{}
	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer inst.Close()

	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, []byte{0xf4}, 0o755); err != nil {
		t.Fatalf("failed to write test binary: %v", err)
	}

	if err := inst.LoadExecutable(path, FormatBin); err != nil {
		t.Fatalf("LoadExecutable failed: %v", err)
	}

	vm := driver.vms[0]
	// The flat-binary region plus the page-table region.
	if len(vm.regions) != 2 {
		t.Fatalf("got %d installed regions, want 2", len(vm.regions))
	}
	if inst.entryAddr != flatBinaryLoadAddr {
		t.Errorf("entryAddr = 0x%x, want 0x%x", inst.entryAddr, flatBinaryLoadAddr)
	}
}

func TestLoadExecutableReload(t *testing.T) {
	driver := &fakeDriver{}
	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer inst.Close()

	path := filepath.Join(t.TempDir(), "image.bin")
	if err := os.WriteFile(path, []byte{0xf4}, 0o755); err != nil {
		t.Fatalf("failed to write test binary: %v", err)
	}

	if err := inst.LoadExecutable(path, FormatBin); err != nil {
		t.Fatalf("first LoadExecutable failed: %v", err)
	}
	if err := inst.LoadExecutable(path, FormatBin); err != nil {
		t.Fatalf("second LoadExecutable (reload) failed: %v", err)
	}
}
