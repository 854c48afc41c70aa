package ivee

import (
	"os"
	"path/filepath"
	"testing"
)

func TestMetricsResetAndCreate(t *testing.T) {
	ResetMetrics()

	if m := GetMetrics(); m.InstancesCreated != 0 {
		t.Fatalf("InstancesCreated = %d, want 0 after reset", m.InstancesCreated)
	}

	driver := &fakeDriver{}
	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	defer inst.Close()

	m := GetMetrics()
	if m.InstancesCreated != 1 {
		t.Errorf("InstancesCreated = %d, want 1", m.InstancesCreated)
	}
}

func TestMetricsTrackLoadsAndCalls(t *testing.T) {
	ResetMetrics()

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

	var regs ArchState
	if err := inst.Call(&regs); err != nil {
		t.Fatalf("Call failed: %v", err)
	}

	m := GetMetrics()
	if m.Loads != 1 {
		t.Errorf("Loads = %d, want 1", m.Loads)
	}
	if m.Calls != 1 {
		t.Errorf("Calls = %d, want 1", m.Calls)
	}
	if m.PIOExits != 1 {
		t.Errorf("PIOExits = %d, want 1", m.PIOExits)
	}
	if m.RegionsMapped == 0 {
		t.Error("expected RegionsMapped to be non-zero")
	}
}

func TestMetricsCloseCount(t *testing.T) {
	ResetMetrics()

	driver := &fakeDriver{}
	inst, err := Create(Capabilities(), driver)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := inst.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	// A second Close is idempotent and must not be recorded again.
	if err := inst.Close(); err != nil {
		t.Fatalf("second Close failed: %v", err)
	}

	if m := GetMetrics(); m.InstancesClosed != 1 {
		t.Errorf("InstancesClosed = %d, want 1", m.InstancesClosed)
	}
}
