package world

import (
	"sort"

	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/ids"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

// crewCount counts living workers targeting structureID, excluding except.
// Workers still waiting for a path hold a reservation and are counted.
func (w *World) crewCount(structureID, except string) int {
	if structureID == "" {
		return 0
	}
	n := 0
	for _, id := range w.workerOrder {
		wk := w.workers[id]
		if id == except || !wk.alive() {
			continue
		}
		if wk.Target == structureID {
			n++
		}
	}
	return n
}

// openFoundations returns incomplete foundations below the crew cap, least
// progress first.
func (w *World) openFoundations() []*Structure {
	var out []*Structure
	for _, id := range w.structureOrder {
		s := w.structures[id]
		if !s.buildable() {
			continue
		}
		if w.crewCount(id, "") >= w.tune.Work.CrewCap {
			continue
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Progress != out[j].Progress {
			return out[i].Progress < out[j].Progress
		}
		return ids.Less(out[i].ID, out[j].ID)
	})
	return out
}

// findNearestWorkers returns up to count candidates ordered by planar distance
// to pos (ties by ID). Dead workers and those moving or working are never
// candidates.
func (w *World) findNearestWorkers(pos mathx.Vec3, count int, allowInterrupt, excludeAssigned bool) []*Worker {
	if count <= 0 {
		return nil
	}
	var cands []*Worker
	for _, id := range w.workerOrder {
		wk := w.workers[id]
		if !wk.alive() {
			continue
		}
		if wk.State == WorkerMoving || wk.State == WorkerWorking {
			continue
		}
		if excludeAssigned && wk.Target != "" {
			continue
		}
		if !allowInterrupt && (!wk.interruptible() || wk.Target != "") {
			continue
		}
		cands = append(cands, wk)
	}
	sort.SliceStable(cands, func(i, j int) bool {
		di, dj := mathx.DistXZ(cands[i].Pos, pos), mathx.DistXZ(cands[j].Pos, pos)
		if di != dj {
			return di < dj
		}
		return ids.Less(cands[i].ID, cands[j].ID)
	})
	if len(cands) > count {
		cands = cands[:count]
	}
	return cands
}

// AssignWork pulls the nearest available workers onto every foundation that is
// below the crew cap.
func (w *World) AssignWork() {
	open := w.openFoundations()
	if len(open) == 0 {
		return
	}
	crewCap := w.tune.Work.CrewCap
	for _, s := range open {
		need := crewCap - w.crewCount(s.ID, "")
		for _, wk := range w.findNearestWorkers(s.Pos, need, true, true) {
			w.assignWorkToWorker(wk, s.ID)
		}
	}
}

// assignWorkToWorker sends wk to foundationID, or to the least advanced open
// foundation when foundationID is empty or already full. The target is
// reserved immediately and rechecked when the path arrives.
func (w *World) assignWorkToWorker(wk *Worker, foundationID string) bool {
	if !wk.alive() {
		return false
	}
	s := w.structures[foundationID]
	if !s.buildable() || w.crewCount(foundationID, wk.ID) >= w.tune.Work.CrewCap {
		open := w.openFoundations()
		s = nil
		for _, f := range open {
			if w.crewCount(f.ID, wk.ID) < w.tune.Work.CrewCap {
				s = f
				break
			}
		}
		if s == nil {
			return false
		}
	}
	w.interruptWorkerAction(wk)
	wk.Target = s.ID
	wk.Demolishing = false
	wk.Evacuating = false
	wk.State = WorkerMoving
	wk.WorkTime = 0
	w.requestPath(wk, tasks.PurposeBuild, s.ID, w.siteNear(s))
	return true
}

// AssignDemolish sends up to the crew shortfall of workers to demolish a
// completed structure.
func (w *World) AssignDemolish(structureID string) bool {
	ok, _ := w.assignDemolish(structureID)
	return ok
}

func (w *World) assignDemolish(structureID string) (bool, string) {
	s := w.structures[structureID]
	if s == nil {
		return false, codeInvalidTarget
	}
	if !s.demolishable() {
		return false, codeInvalidTarget
	}
	need := w.tune.Work.CrewCap - w.crewCount(structureID, "")
	if need <= 0 {
		return false, codeConflict
	}
	crew := w.findNearestWorkers(s.Pos, need, true, true)
	if len(crew) == 0 {
		return false, codeConflict
	}
	for _, wk := range crew {
		w.interruptWorkerAction(wk)
		wk.Target = s.ID
		wk.Demolishing = true
		wk.Evacuating = false
		wk.State = WorkerMoving
		wk.WorkTime = 0
		w.requestPath(wk, tasks.PurposeDemolish, s.ID, w.siteNear(s))
	}
	w.notify(NoticeDemolishAssigned, "Workers assigned to demolish", map[string]string{"structure_id": s.ID})
	return true, ""
}

// siteNear picks a work spot within the site jitter of s.
func (w *World) siteNear(s *Structure) mathx.Vec3 {
	j := w.tune.Work.SiteJitter
	return mathx.Vec3{
		X: s.Pos.X + w.randRange(-j, j),
		Y: w.tune.Movement.GroundHeight,
		Z: s.Pos.Z + w.randRange(-j, j),
	}
}

// interruptWorkerAction cancels idle behaviour and any path. HP and Target are
// left alone.
func (w *World) interruptWorkerAction(wk *Worker) {
	wk.Idle = ""
	wk.IdleTimer = 0
	wk.Path = wk.Path[:0]
	wk.PathIndex = 0
	wk.Evacuating = false
	w.cancelPath(wk)
	if wk.State == WorkerWandering {
		wk.State = WorkerIdle
	}
}

// revertToIdle drops any assignment.
func (w *World) revertToIdle(wk *Worker) {
	w.interruptWorkerAction(wk)
	wk.Target = ""
	wk.Demolishing = false
	wk.WorkTime = 0
	wk.State = WorkerIdle
}

// clearTargets releases every worker assigned to structureID. Must run before
// the structure is removed.
func (w *World) clearTargets(structureID string) {
	for _, id := range w.workerOrder {
		wk := w.workers[id]
		if wk.Target != structureID {
			continue
		}
		w.revertToIdle(wk)
	}
}
