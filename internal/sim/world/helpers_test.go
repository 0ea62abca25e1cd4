package world

import (
	"testing"

	"slowtown.ai/internal/sim/catalogs"
	"slowtown.ai/internal/sim/gameconfig"
	"slowtown.ai/internal/sim/tuning"
	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

const testDT = 0.05

func loadTestCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

// testConfig disables the random resource trickle so balances are exact.
func testConfig(seed int64) WorldConfig {
	tune := tuning.Defaults()
	tune.Economy.TrickleChance = 0
	game := gameconfig.Defaults()
	game.Resources = ledger.Amounts{Stone: 100, Wood: 100, Food: 200, Gold: 100}
	return WorldConfig{ID: "test", Seed: seed, Tuning: tune, Game: game}
}

func newTestWorld(t *testing.T, seed int64) *World {
	t.Helper()
	w, err := New(testConfig(seed), loadTestCatalogs(t))
	if err != nil {
		t.Fatalf("new world: %v", err)
	}
	return w
}

type noticeRecorder struct{ got []Notice }

func (r *noticeRecorder) Notify(n Notice) { r.got = append(r.got, n) }

func (r *noticeRecorder) count(kind string) int {
	n := 0
	for _, x := range r.got {
		if x.Kind == kind {
			n++
		}
	}
	return n
}

func recordNotices(w *World) *noticeRecorder {
	r := &noticeRecorder{}
	w.SetNotifier(r)
	return r
}

func spawnWorkers(t *testing.T, w *World, n int) []string {
	t.Helper()
	out := make([]string, 0, n)
	for i := 0; i < n; i++ {
		id, ok := w.SpawnWorker()
		if !ok {
			t.Fatalf("spawn worker %d failed", i)
		}
		out = append(out, id)
	}
	return out
}

// runUntil updates the world in testDT steps until done reports true or
// maxSecs of world time pass.
func runUntil(w *World, maxSecs float64, done func() bool) bool {
	for elapsed := 0.0; elapsed < maxSecs; elapsed += testDT {
		w.Update(testDT)
		if done() {
			return true
		}
	}
	return false
}

func addBuilding(t *testing.T, w *World, kind string, pos mathx.Vec3) string {
	t.Helper()
	def, ok := w.catalogs.Buildings.ByID[kind]
	if !ok {
		t.Fatalf("unknown building %q", kind)
	}
	s := &Structure{
		Kind:      KindBuilding,
		Type:      def.ID,
		Pos:       pos,
		Size:      def.Size,
		Price:     def.Price,
		Completed: true,
		Walkable:  def.Walkable,
	}
	w.insertStructure(s)
	return s.ID
}
