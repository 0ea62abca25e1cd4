package world

import (
	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

// ---- Debug/Test Helpers ----
//
// These let black-box tests in sibling packages (internal/sim/worldtest) set
// up deterministic preconditions without reaching into world internals.
//
// They are NOT safe to call concurrently with Run(). Use them only from tests
// that drive the world via StepOnce() or Update().

func (w *World) DebugSetWorkerPos(id string, pos mathx.Vec3) bool {
	wk := w.workers[id]
	if wk == nil {
		return false
	}
	wk.Pos = pos
	return true
}

func (w *World) DebugSetWorkerHP(id string, hp int) bool {
	wk := w.workers[id]
	if wk == nil {
		return false
	}
	wk.HP = hp
	return true
}

// DebugSetResources overwrites the balance, worker count included.
func (w *World) DebugSetResources(stone, wood, food, gold int) {
	bal := w.store.Balance()
	bal.Stone, bal.Wood, bal.Food, bal.Gold = stone, wood, food, gold
	w.store = ledger.NewStore(bal)
}

// DebugSetCropAge rewinds a crop's plant time so it is age seconds old.
func (w *World) DebugSetCropAge(id string, age float64) bool {
	c := w.crops[id]
	if c == nil {
		return false
	}
	c.PlantTime = w.time - age
	return true
}

// DebugPendingPaths reports how many path requests are still in flight.
func (w *World) DebugPendingPaths() int { return len(w.pending) }

// DebugTakeNotices drains notices raised since the last step.
func (w *World) DebugTakeNotices() []Notice { return w.takeNotices() }

// DebugJoin registers a session without going through Run.
func (w *World) DebugJoin(req JoinRequest) JoinResponse { return w.handleJoin(req) }
