package worldtest

import (
	"testing"

	"slowtown.ai/internal/protocol"
	world "slowtown.ai/internal/sim/world"
)

func TestSnapshotRoundTrip_ResumesMidConstruction(t *testing.T) {
	cats := LoadCatalogs(t)
	h := NewHarness(t, testConfig(77), cats)
	h.MustAct(protocol.ActClaimResources, protocol.ActParams{})
	for i := 0; i < 4; i++ {
		h.MustAct(protocol.ActSpawnWorker, protocol.ActParams{})
	}
	h.MustAct(protocol.ActPlaceFoundation, protocol.ActParams{Pos: pos(-10, 10), Kind: "farm"})
	for i := 0; i < 30; i++ {
		h.Step(nil)
	}

	tick, snap := h.Snapshot()
	w2, err := world.New(testConfig(77), cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	if err := w2.ImportSnapshot(snap); err != nil {
		t.Fatalf("import: %v", err)
	}
	if got, want := w2.DebugStateDigest(tick), h.W.DebugStateDigest(tick); got != want {
		t.Fatalf("digest mismatch after import")
	}
	h2 := NewHarnessWithWorld(t, w2, cats)

	for i := 0; i < 300; i++ {
		d1 := h.Step(nil)
		d2 := h2.Step(nil)
		if d1 != d2 {
			t.Fatalf("worlds diverged %d ticks after restore", i+1)
		}
	}
	if a, b := h.LastState().Player, h2.LastState().Player; a.Level != b.Level || a.Exp != b.Exp {
		t.Fatalf("player views differ: %+v vs %+v", a, b)
	}
}
