package world

import (
	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/crowd"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

func (w *World) tickEvacuation(dt float64) {
	w.evacuateTimer += dt
	if w.evacuateTimer < w.tune.Evacuate.EverySecs {
		return
	}
	w.evacuateTimer = 0
	w.Evacuate()
}

// workerBusy is true for a worker that must not be moved for crowding: it is
// working, heading to a task, or holds any assignment.
func workerBusy(wk *Worker) bool {
	if wk.State == WorkerWorking || wk.Target != "" {
		return true
	}
	return wk.PathReq != 0 && wk.PathPurpose.Assignment()
}

// Evacuate runs one crowd-density pass over workers and animals. Surplus
// agents in over-full cells are sent toward emptier cells; workers get a new
// path, animals reuse the frightened run.
func (w *World) Evacuate() int {
	type ref struct {
		worker *Worker
		animal *Animal
	}
	refs := make([]ref, 0, len(w.workerOrder)+len(w.animalOrder))
	agents := make([]crowd.Agent, 0, cap(refs))
	for _, id := range w.workerOrder {
		wk := w.workers[id]
		if !wk.alive() {
			continue
		}
		refs = append(refs, ref{worker: wk})
		agents = append(agents, crowd.Agent{X: wk.Pos.X, Z: wk.Pos.Z, Busy: workerBusy(wk)})
	}
	for _, id := range w.animalOrder {
		a := w.animals[id]
		refs = append(refs, ref{animal: a})
		agents = append(agents, crowd.Agent{X: a.Pos.X, Z: a.Pos.Z, Busy: a.State == AnimalRunning})
	}

	redirects := crowd.Plan(agents, w.crowdCfg, w.rng)
	for _, r := range redirects {
		dest := mathx.Vec3{X: r.X, Z: r.Z}
		switch ref := refs[r.Agent]; {
		case ref.worker != nil:
			wk := ref.worker
			w.interruptWorkerAction(wk)
			wk.Evacuating = true
			w.requestPath(wk, tasks.PurposeEvacuate, "", dest)
		case ref.animal != nil:
			w.startRun(ref.animal, dest)
		}
	}
	return len(redirects)
}
