package world

import (
	"sort"

	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/pathfind"
)

// obstacles returns the footprints of completed solid buildings, expanded by
// the pathing margin. Foundations and walkable buildings never block.
func (w *World) obstacles() []pathfind.Box {
	out := make([]pathfind.Box, 0, len(w.structureOrder))
	for _, id := range w.structureOrder {
		s := w.structures[id]
		if s.Kind != KindBuilding || s.Walkable {
			continue
		}
		hx, hz := s.Size[0]/2, s.Size[2]/2
		b := pathfind.Box{MinX: s.Pos.X - hx, MinZ: s.Pos.Z - hz, MaxX: s.Pos.X + hx, MaxZ: s.Pos.Z + hz}
		out = append(out, b.Expand(w.tune.Pathing.ObstacleMargin))
	}
	return out
}

// requestPath replaces any in-flight request of wk with a new one.
func (w *World) requestPath(wk *Worker, purpose tasks.Purpose, targetID string, end mathx.Vec3) {
	w.cancelPath(wk)
	w.nextPath++
	end.Y = w.tune.Movement.GroundHeight
	req := tasks.PathRequest{
		ID:        w.nextPath,
		AgentID:   wk.ID,
		Purpose:   purpose,
		TargetID:  targetID,
		Start:     wk.Pos,
		End:       end,
		Obstacles: w.obstacles(),
	}
	wk.PathReq = req.ID
	wk.PathPurpose = purpose
	w.pending[req.ID] = req
	w.planner.Submit(req)
}

func (w *World) cancelPath(wk *Worker) {
	if wk.PathReq != 0 {
		delete(w.pending, wk.PathReq)
	}
	wk.PathReq = 0
	wk.PathPurpose = ""
}

func (w *World) pendingIDs() []uint64 {
	out := make([]uint64, 0, len(w.pending))
	for id := range w.pending {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// drainPaths applies every ready path result. Results are revalidated against
// current state; anything stale is dropped.
func (w *World) drainPaths() {
	for _, res := range w.planner.Poll() {
		w.applyPathResult(res)
	}
}

func (w *World) applyPathResult(res tasks.PathResult) {
	if _, ok := w.pending[res.ID]; !ok {
		return
	}
	delete(w.pending, res.ID)
	wk := w.workers[res.AgentID]
	if !wk.alive() || wk.PathReq != res.ID {
		return
	}
	wk.PathReq = 0
	wk.PathPurpose = ""

	switch res.Purpose {
	case tasks.PurposeBuild, tasks.PurposeDemolish:
		s := w.structures[res.TargetID]
		valid := wk.Target == res.TargetID && wk.State == WorkerMoving
		if res.Purpose == tasks.PurposeBuild {
			valid = valid && s.buildable() && !wk.Demolishing
		} else {
			valid = valid && s.demolishable() && wk.Demolishing
		}
		// A faster assignment may have filled the crew while this path was
		// being planned.
		if valid && w.crewCount(res.TargetID, wk.ID) >= w.tune.Work.CrewCap {
			w.logf("worker %s: crew for %s full on path arrival", wk.ID, res.TargetID)
			valid = false
		}
		if !valid {
			w.revertToIdle(wk)
			return
		}
		w.setPath(wk, res.Path)
	case tasks.PurposeWander:
		if wk.State != WorkerIdle || wk.Target != "" {
			return
		}
		w.setPath(wk, res.Path)
		wk.State = WorkerWandering
	case tasks.PurposeEvacuate:
		if !wk.interruptible() || wk.Target != "" {
			return
		}
		w.setPath(wk, res.Path)
		wk.State = WorkerWandering
		wk.Idle = ""
		wk.IdleTimer = 0
		wk.Evacuating = true
	}
}

func (w *World) setPath(wk *Worker, path []mathx.Vec3) {
	wk.Path = append(wk.Path[:0], path...)
	wk.PathIndex = 0
}

// followPath moves wk along its path at speed for dt seconds and reports
// whether the final waypoint was reached.
func (w *World) followPath(wk *Worker, speed, dt float64) bool {
	step := speed * dt
	eps := w.tune.Movement.ArriveEpsilon
	for wk.PathIndex < len(wk.Path) {
		next := wk.Path[wk.PathIndex]
		d := mathx.Dist(wk.Pos, next)
		if d > eps {
			wk.Yaw = mathx.Yaw(wk.Pos, next)
		}
		if step <= 0 && d > eps {
			return false
		}
		pos, arrived := mathx.MoveToward(wk.Pos, next, step, eps)
		wk.Pos = pos
		if !arrived {
			return false
		}
		step -= d
		wk.PathIndex++
	}
	return true
}
