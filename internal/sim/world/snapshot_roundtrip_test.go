package world

import (
	"path/filepath"
	"testing"

	"slowtown.ai/internal/persistence/snapshot"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

func busyWorld(t *testing.T, seed int64) *World {
	t.Helper()
	w := newTestWorld(t, seed)
	spawnWorkers(t, w, 6)
	farm := addBuilding(t, w, "farm", mathx.Vec3{X: -20, Z: 15})
	if _, ok := w.PlantCrop(farm, "carrot"); !ok {
		t.Fatalf("plant failed")
	}
	if _, ok := w.SpawnAnimal(mathx.Vec3{X: 8, Z: -8}, "sheep"); !ok {
		t.Fatalf("spawn animal failed")
	}
	if _, ok := w.PlaceFoundation(mathx.Vec3{X: 15, Z: 15}, "farm"); !ok {
		t.Fatalf("place failed")
	}
	return w
}

func TestSnapshotRoundTripPreservesDigest(t *testing.T) {
	a := busyWorld(t, 99)
	var last uint64
	for i := 0; i < 137; i++ {
		last, _ = a.StepOnce(nil)
	}

	path := filepath.Join(t.TempDir(), "snap.zst")
	if err := snapshot.WriteSnapshot(path, a.ExportSnapshot(last)); err != nil {
		t.Fatalf("write: %v", err)
	}
	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	b := newTestWorld(t, 99)
	if err := b.ImportSnapshot(snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	if b.CurrentTick() != a.CurrentTick() {
		t.Fatalf("tick=%d want %d", b.CurrentTick(), a.CurrentTick())
	}
	if got, want := b.DebugStateDigest(last), a.DebugStateDigest(last); got != want {
		t.Fatalf("digest after import=%s want %s", got, want)
	}

	for i := 0; i < 400; i++ {
		ta, da := a.StepOnce(nil)
		tb, db := b.StepOnce(nil)
		if ta != tb || da != db {
			t.Fatalf("diverged at tick %d/%d", ta, tb)
		}
	}
}

func TestImportSnapshotRejectsMismatch(t *testing.T) {
	a := newTestWorld(t, 1)
	snap := a.ExportSnapshot(0)

	b := newTestWorld(t, 2)
	if err := b.ImportSnapshot(snap); err == nil {
		t.Fatalf("expected seed mismatch")
	}

	snap.Header.Version = 9
	if err := a.ImportSnapshot(snap); err == nil {
		t.Fatalf("expected version error")
	}
}
