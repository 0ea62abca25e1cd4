package worldtest

import (
	"testing"

	"slowtown.ai/internal/protocol"
	world "slowtown.ai/internal/sim/world"
)

func TestTown_BuildPlantHarvest(t *testing.T) {
	h := NewHarness(t, testConfig(42), LoadCatalogs(t))

	if ack := h.Act(protocol.ActSpawnWorker, protocol.ActParams{}); ack.Code != protocol.ErrNoResource {
		t.Fatalf("spawn with empty store: %+v", ack)
	}
	h.MustAct(protocol.ActClaimResources, protocol.ActParams{})
	for i := 0; i < 3; i++ {
		h.MustAct(protocol.ActSpawnWorker, protocol.ActParams{})
	}
	h.MustAct(protocol.ActPlaceFoundation, protocol.ActParams{Pos: pos(12, -6), Kind: "farm"})

	// 4 cycles of 2s split over 3 workers, plus walking time.
	h.StepUntil(20*60, func() bool {
		return len(structuresOfKind(h.LastState(), "building", "farm")) == 1
	})
	if n := len(h.Notices(world.NoticeFoundationCompleted)); n != 1 {
		t.Fatalf("completion notices=%d want 1", n)
	}
	st := h.LastState()
	if len(structuresOfKind(st, "foundation", "")) != 0 {
		t.Fatalf("foundation left behind")
	}
	if st.Player.Exp != 5 {
		t.Fatalf("exp=%d want 5", st.Player.Exp)
	}
	farm := structuresOfKind(st, "building", "farm")[0]

	h.MustAct(protocol.ActPlantCrop, protocol.ActParams{TargetID: farm.ID, Kind: "carrot"})
	crop := h.LastState().Crops[0]
	if ack := h.Act(protocol.ActHarvest, protocol.ActParams{TargetID: crop.ID}); ack.Code != protocol.ErrNotReady {
		t.Fatalf("early harvest: %+v", ack)
	}
	h.StepUntil(20*15, func() bool {
		cs := h.LastState().Crops
		return len(cs) == 1 && cs[0].Mature
	})
	food := h.LastState().Resources.Food
	h.MustAct(protocol.ActHarvest, protocol.ActParams{TargetID: crop.ID})
	if got := h.LastState().Resources.Food - food; got != 10 {
		t.Fatalf("harvest food=%d want 10", got)
	}
	if ack := h.Act(protocol.ActHarvest, protocol.ActParams{TargetID: crop.ID}); ack.Accepted {
		t.Fatalf("double harvest accepted")
	}
	if lvl := h.LastState().Player.Level; lvl != 2 {
		t.Fatalf("level=%d want 2", lvl)
	}
	if n := len(h.Notices(world.NoticeLevelUp)); n != 1 {
		t.Fatalf("level up notices=%d", n)
	}
}

func TestTown_LockedContentIsRejected(t *testing.T) {
	h := NewHarness(t, testConfig(1), LoadCatalogs(t))
	h.MustAct(protocol.ActClaimResources, protocol.ActParams{})

	ack := h.Act(protocol.ActPlaceFoundation, protocol.ActParams{Pos: pos(0, 0), Kind: "castle"})
	if ack.Code != protocol.ErrLocked {
		t.Fatalf("castle at level 1: %+v", ack)
	}
	ack = h.Act(protocol.ActSpawnAnimal, protocol.ActParams{Pos: pos(0, 0), Kind: "pig"})
	if ack.Code != protocol.ErrLocked {
		t.Fatalf("pig at level 1: %+v", ack)
	}
	locked := h.Notices(world.NoticeLocked)
	if len(locked) != 2 {
		t.Fatalf("locked notices=%d", len(locked))
	}
	if locked[0].Message != "Castle requires level 7 (current: 1)" {
		t.Fatalf("message=%q", locked[0].Message)
	}
}

func TestTown_GatherRewardsScaleWithLevel(t *testing.T) {
	h := NewHarness(t, testConfig(3), LoadCatalogs(t))
	h.Step(nil)
	var gold protocol.NodeView
	for _, n := range h.LastState().Nodes {
		if n.Type == "gold_ore" {
			gold = n
			break
		}
	}
	if gold.ID == "" {
		t.Fatalf("no gold ore scattered")
	}
	h.MustAct(protocol.ActGather, protocol.ActParams{TargetID: gold.ID})
	if got := h.LastState().Resources.Gold; got != 10 {
		t.Fatalf("gold=%d want 10", got)
	}
	msgs := h.Notices(world.NoticeGathered)
	if len(msgs) != 1 || msgs[0].Message != "Gathered Gold Ore: +10 gold" {
		t.Fatalf("gather notices=%+v", msgs)
	}
}
