package world

import (
	"testing"

	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

func TestFoundation_ThreeWorkersFinishInFourCycles(t *testing.T) {
	w := newTestWorld(t, 7)
	rec := recordNotices(w)
	workers := spawnWorkers(t, w, 3)

	fid, ok := w.PlaceFoundation(mathx.Vec3{X: 10, Z: 10}, "farm")
	if !ok {
		t.Fatalf("place foundation failed")
	}
	if got := w.CrewSize(fid); got != 3 {
		t.Fatalf("crew after placement=%d want 3", got)
	}

	last := 0.0
	done := runUntil(w, 120, func() bool {
		s, ok := w.Structure(fid)
		if !ok {
			return true
		}
		if s.Progress < last {
			t.Fatalf("progress went backwards: %v -> %v", last, s.Progress)
		}
		last = s.Progress
		return false
	})
	if !done {
		t.Fatalf("foundation never completed")
	}

	if n := rec.count(NoticeFoundationCompleted); n != 1 {
		t.Fatalf("completion notices=%d want 1", n)
	}
	if n := rec.count(NoticeBuilt); n != 1 {
		t.Fatalf("built notices=%d want 1", n)
	}

	lost := 0
	for _, id := range workers {
		wk, ok := w.Worker(id)
		if !ok {
			t.Fatalf("worker %s died", id)
		}
		lost += maxHP - wk.HP
		if wk.Target != "" {
			t.Fatalf("worker %s still targets %s", id, wk.Target)
		}
	}
	if cycles := lost / w.tune.Work.HPPerCycle; cycles != 4 {
		t.Fatalf("work cycles=%d want 4", cycles)
	}

	var farms int
	for _, s := range w.Structures() {
		if s.Kind == KindBuilding && s.Type == "farm" {
			farms++
		}
		if s.Kind == KindFoundation {
			t.Fatalf("foundation %s left behind", s.ID)
		}
	}
	if farms != 1 {
		t.Fatalf("farms=%d want 1", farms)
	}
	if w.Level() != 1 || w.Exp() != 5 {
		t.Fatalf("level=%d exp=%d want 1/5", w.Level(), w.Exp())
	}
}

func TestPlaceFoundation_Rejections(t *testing.T) {
	w := newTestWorld(t, 1)
	rec := recordNotices(w)

	if _, code := w.placeFoundation(mathx.Vec3{}, "wall"); code != codeLocked {
		t.Fatalf("wall at level 1: code=%q want %q", code, codeLocked)
	}
	if rec.count(NoticeLocked) != 1 {
		t.Fatalf("expected a LOCKED notice")
	}
	if _, code := w.placeFoundation(mathx.Vec3{}, "cabin"); code != codeBadRequest {
		t.Fatalf("starter type: code=%q", code)
	}

	w.DebugSetResources(0, 0, 0, 0)
	before := w.Resources()
	if _, code := w.placeFoundation(mathx.Vec3{}, "farm"); code != codeNoResource {
		t.Fatalf("broke: code=%q want %q", code, codeNoResource)
	}
	if w.Resources() != before {
		t.Fatalf("failed purchase changed balance: %+v -> %+v", before, w.Resources())
	}
	if len(w.Structures()) != 0 {
		t.Fatalf("structure placed without payment")
	}
}

func TestPlaceFoundation_UnknownTypeFallsBack(t *testing.T) {
	w := newTestWorld(t, 1)
	w.prog.Level = 7
	id, ok := w.PlaceFoundation(mathx.Vec3{}, "spaceport")
	if !ok {
		t.Fatalf("fallback placement failed")
	}
	s, _ := w.Structure(id)
	if s.Type != w.catalogs.Buildings.Fallback {
		t.Fatalf("type=%q want fallback %q", s.Type, w.catalogs.Buildings.Fallback)
	}
}

func TestDemolish_RefundsHalfAndConsumesWorker(t *testing.T) {
	w := newTestWorld(t, 3)
	rec := recordNotices(w)
	wallID := addBuilding(t, w, "wall", mathx.Vec3{X: 20, Z: 20})
	wid := spawnWorkers(t, w, 1)[0]
	start := w.Resources()

	if !w.AssignDemolish(wallID) {
		t.Fatalf("assign demolish failed")
	}
	if rec.count(NoticeDemolishAssigned) != 1 {
		t.Fatalf("missing assignment notice")
	}
	if !runUntil(w, 120, func() bool { _, ok := w.Structure(wallID); return !ok }) {
		t.Fatalf("wall never demolished")
	}
	if _, ok := w.Worker(wid); ok {
		t.Fatalf("demolishing worker survived")
	}
	want := start
	want.Food += 30
	want.Wood += 7
	want.Workers--
	if got := w.Resources(); got != want {
		t.Fatalf("resources=%+v want %+v", got, want)
	}
	if rec.count(NoticeDemolished) != 1 {
		t.Fatalf("demolished notices=%d", rec.count(NoticeDemolished))
	}
}

func TestDemolish_RejectsFoundationAndMissing(t *testing.T) {
	w := newTestWorld(t, 3)
	spawnWorkers(t, w, 1)
	if _, code := w.assignDemolish("S999"); code != codeInvalidTarget {
		t.Fatalf("missing target code=%q", code)
	}
	w.store = ledger.NewStore(ledger.Amounts{Food: 100, Wood: 100})
	fid, ok := w.PlaceFoundation(mathx.Vec3{}, "farm")
	if !ok {
		t.Fatalf("place failed")
	}
	if _, code := w.assignDemolish(fid); code != codeInvalidTarget {
		t.Fatalf("foundation demolish code=%q", code)
	}
}

func TestWorkerDiesFromExhaustion(t *testing.T) {
	w := newTestWorld(t, 11)
	rec := recordNotices(w)
	wid := spawnWorkers(t, w, 1)[0]
	w.DebugSetWorkerHP(wid, 25)
	fid, _ := w.PlaceFoundation(mathx.Vec3{X: 5}, "farm")

	if !runUntil(w, 60, func() bool { _, ok := w.Worker(wid); return !ok }) {
		t.Fatalf("worker never died")
	}
	s, ok := w.Structure(fid)
	if !ok || s.Progress != 0.25 {
		t.Fatalf("last cycle should still count: %+v", s)
	}
	if rec.count(NoticeWorkerDied) != 1 {
		t.Fatalf("expected one death notice")
	}
	if w.Resources().Workers != 0 {
		t.Fatalf("workers balance=%d", w.Resources().Workers)
	}
	if w.CrewSize(fid) != 0 {
		t.Fatalf("dead worker still counted in crew")
	}
}
