package world

import (
	"testing"

	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/progression"
)

func TestAddExpCascadesWithOneNoticePerLevel(t *testing.T) {
	w := newTestWorld(t, 1)
	rec := recordNotices(w)
	w.AddExp(100)
	if w.Level() != 6 || w.Exp() != 0 {
		t.Fatalf("level=%d exp=%d want 6/0", w.Level(), w.Exp())
	}
	if n := rec.count(NoticeLevelUp); n != 5 {
		t.Fatalf("level up notices=%d want 5", n)
	}
	if w.Exp() >= progression.RequiredForLevel(w.Level()) {
		t.Fatalf("exp invariant broken")
	}
	w.AddExp(0)
	if rec.count(NoticeLevelUp) != 5 {
		t.Fatalf("zero exp raised a notice")
	}
}

func TestUnlocksFollowLevel(t *testing.T) {
	w := newTestWorld(t, 1)
	u := w.Unlocked()
	if len(u["buildings"]) != 1 || u["buildings"][0] != "farm" {
		t.Fatalf("level 1 buildings=%v", u["buildings"])
	}
	w.AddExp(progression.RequiredForLevel(1))
	u = w.Unlocked()
	if len(u["buildings"]) != 2 || len(u["crops"]) != 2 || len(u["animals"]) != 2 {
		t.Fatalf("level 2 unlocks=%v", u)
	}
}

func TestSetSpeed(t *testing.T) {
	w := newTestWorld(t, 1)
	rec := recordNotices(w)
	for _, s := range []int{1, 2, 4} {
		if !w.SetSpeed(s) || w.Speed() != s {
			t.Fatalf("speed %d rejected", s)
		}
	}
	if w.SetSpeed(3) || w.Speed() != 4 {
		t.Fatalf("speed 3 accepted")
	}
	if rec.count(NoticeInvalid) != 1 {
		t.Fatalf("missing invalid speed notice")
	}

	before := w.Time()
	w.Update(1)
	if got := w.Time() - before; got != w.tune.MaxStepSecs*4 {
		t.Fatalf("scaled dt=%v want %v", got, w.tune.MaxStepSecs*4)
	}
}

func TestSetIdleWeightsRerollsWorkers(t *testing.T) {
	w := newTestWorld(t, 1)
	id := spawnWorkers(t, w, 1)[0]
	if w.SetIdleWeights(0, 0, 0) {
		t.Fatalf("zero weights accepted")
	}
	if !w.SetIdleWeights(2, 0, 0) {
		t.Fatalf("weights rejected")
	}
	if iw := w.IdleWeights(); iw.Rest != 1 || iw.Cheer != 0 || iw.Wander != 0 {
		t.Fatalf("base weights=%+v", iw)
	}
	wk, _ := w.Worker(id)
	if wk.Weights.Cheer != 0 || wk.Weights.Wander != 0 {
		t.Fatalf("worker weights=%+v", wk.Weights)
	}
}

func TestPendingMode(t *testing.T) {
	w := newTestWorld(t, 1)
	if !w.SetPendingMode(ModeBuild, "farm") {
		t.Fatalf("build mode rejected")
	}
	if m, k := w.PendingMode(); m != ModeBuild || k != "farm" {
		t.Fatalf("mode=%s/%s", m, k)
	}
	if w.SetPendingMode("teleport", "") {
		t.Fatalf("unknown mode accepted")
	}
	w.SetPendingMode(ModeNone, "farm")
	if m, k := w.PendingMode(); m != ModeNone || k != "" {
		t.Fatalf("mode=%s/%s after reset", m, k)
	}
}

func TestGatherAndClaim(t *testing.T) {
	w := newTestWorld(t, 1)
	rec := recordNotices(w)
	nodes := w.Nodes()
	if len(nodes) == 0 {
		t.Fatalf("no nodes scattered")
	}
	var tree Node
	for _, n := range nodes {
		if n.Type == "tree" {
			tree = n
			break
		}
	}
	wood := w.Resources().Wood
	if !w.GatherNode(tree.ID) {
		t.Fatalf("gather failed")
	}
	if got := w.Resources().Wood - wood; got != 5 {
		t.Fatalf("wood=%d want 5", got)
	}
	if w.GatherNode(tree.ID) {
		t.Fatalf("node gathered twice")
	}
	if rec.count(NoticeGathered) != 1 {
		t.Fatalf("gather notices=%d", rec.count(NoticeGathered))
	}

	before := w.Resources()
	w.ClaimResources()
	after := w.Resources()
	if after.Gold-before.Gold != 1000 || after.Workers != before.Workers {
		t.Fatalf("claim: %+v -> %+v", before, after)
	}
}

func TestAnimalSpawnAndFright(t *testing.T) {
	w := newTestWorld(t, 1)
	rec := recordNotices(w)
	if _, code := w.spawnAnimal(mathx.Vec3{}, "cow"); code != codeLocked {
		t.Fatalf("cow at level 1 code=%q", code)
	}
	gold := w.Resources().Gold
	id, ok := w.SpawnAnimal(mathx.Vec3{X: 3, Z: 3}, "sheep")
	if !ok {
		t.Fatalf("spawn sheep failed")
	}
	if w.Resources().Gold != gold-10 {
		t.Fatalf("animal cost not charged")
	}
	if w.Exp() != 5 {
		t.Fatalf("exp=%d want 5", w.Exp())
	}
	if !w.FrightenAnimal(id, mathx.Vec3{}) {
		t.Fatalf("frighten failed")
	}
	if w.animals[id].State != AnimalRunning {
		t.Fatalf("state=%s want running", w.animals[id].State)
	}
	if rec.count(NoticeAnimalFled) != 1 {
		t.Fatalf("missing fled notice")
	}
	if !runUntil(w, 5, func() bool { return w.animals[id].State != AnimalRunning }) {
		t.Fatalf("animal never stopped running")
	}

	w.DebugSetResources(0, 0, 0, 0)
	if _, code := w.spawnAnimal(mathx.Vec3{}, "sheep"); code != codeNoResource {
		t.Fatalf("broke spawn code=%q", code)
	}
}
