package tuning

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRepoTuning(t *testing.T) {
	tune, err := Load("../../../configs/tuning.yaml")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tune.Work.CrewCap != 3 {
		t.Fatalf("crew_cap=%d", tune.Work.CrewCap)
	}
	if tune.Work.ProgressPerCycle != 0.25 || tune.Work.HPPerCycle != 25 {
		t.Fatalf("work cycle constants: %+v", tune.Work)
	}
}

func TestLoadKeepsDefaultsForMissingKeys(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(p, []byte("tick_rate_hz: 10\nwork:\n  crew_cap: 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	tune, err := Load(p)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tune.TickRateHz != 10 || tune.Work.CrewCap != 2 {
		t.Fatalf("overrides not applied: %+v", tune)
	}
	if tune.Work.CycleSecs != 2 || tune.Evacuate.Cap != 2 {
		t.Fatalf("defaults lost: work=%+v evacuate=%+v", tune.Work, tune.Evacuate)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "tuning.yaml")
	if err := os.WriteFile(p, []byte("work:\n  crew_cap: 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(p); err == nil {
		t.Fatalf("expected validation error")
	}
}
