package world

import (
	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/personality"
)

const maxHP = 100

// SpawnWorker buys a worker and places it at a random spot near the centre.
func (w *World) SpawnWorker() (string, bool) {
	id, code := w.spawnWorker()
	return id, code == ""
}

func (w *World) spawnWorker() (string, string) {
	cost, err := ledger.FromMap(w.tune.Economy.WorkerCost)
	if err != nil {
		return "", codeInternal
	}
	if !w.store.Consume(cost) {
		w.notify(NoticeNoResources, "Not enough resources", nil)
		return "", codeNoResource
	}
	r := w.tune.Idle.SpawnRadius
	wk := &Worker{
		Pos: mathx.Vec3{
			X: w.randRange(-r, r),
			Y: w.tune.Movement.GroundHeight,
			Z: w.randRange(-r, r),
		},
		State:   WorkerIdle,
		HP:      maxHP,
		Weights: personality.FromSeed(w.rng.Int63(), w.idleWeights, w.variance),
	}
	w.insertWorker(wk)
	w.store.Add(ledger.Amounts{Workers: 1})
	return wk.ID, ""
}

const (
	deathExhaustion = "exhaustion"
	deathDemolition = "demolition"
)

// killWorker removes a worker and its reservation, and keeps the workers
// balance in step with the population.
func (w *World) killWorker(id, reason string) {
	wk := w.workers[id]
	if wk == nil {
		return
	}
	w.cancelPath(wk)
	wk.HP = 0
	wk.Target = ""
	delete(w.workers, id)
	w.workerOrder = removeID(w.workerOrder, id)
	w.store.Add(ledger.Amounts{Workers: -1})
	if reason == deathExhaustion {
		w.notify(NoticeWorkerDied, "A worker died from exhaustion", map[string]string{"worker_id": id})
	}
	w.logf("worker %s removed (%s)", id, reason)
}

// pollTasks hands idle workers to the allocator whenever a foundation still
// needs hands. Rest and cheer holds are preempted; moving and working workers
// are not.
func (w *World) pollTasks(dt float64) {
	w.pollTimer += dt
	if w.pollTimer < w.tune.Work.TaskPollSecs {
		return
	}
	w.pollTimer = 0
	for _, id := range append([]string(nil), w.workerOrder...) {
		wk := w.workers[id]
		if !wk.alive() || !wk.interruptible() || wk.Target != "" {
			continue
		}
		if len(w.openFoundations()) == 0 {
			return
		}
		w.assignWorkToWorker(wk, "")
	}
}

func (w *World) updateWorkers(dt float64) {
	// Workers can die or be removed mid-loop.
	for _, id := range append([]string(nil), w.workerOrder...) {
		wk := w.workers[id]
		if !wk.alive() {
			continue
		}
		switch wk.State {
		case WorkerIdle:
			w.updateIdle(wk, dt)
		case WorkerWandering:
			if w.followPath(wk, w.tune.Movement.MoveSpeed*w.tune.Movement.WanderSpeedFactor, dt) {
				wk.State = WorkerIdle
				wk.Idle = ""
				wk.Evacuating = false
				wk.Path = wk.Path[:0]
				wk.PathIndex = 0
			}
		case WorkerMoving:
			w.updateMoving(wk, dt)
		case WorkerWorking:
			w.updateWorking(wk, dt)
		}
	}
}

func (w *World) updateIdle(wk *Worker, dt float64) {
	if wk.PathReq != 0 {
		return
	}
	if wk.Idle == personality.Rest || wk.Idle == personality.Cheer {
		wk.IdleTimer -= dt
		if wk.IdleTimer > 0 {
			return
		}
		wk.Idle = ""
		wk.IdleTimer = 0
		return
	}
	switch personality.Pick(w.rng, wk.Weights) {
	case personality.Rest:
		wk.Idle = personality.Rest
		wk.IdleTimer = w.randRange(w.tune.Idle.RestMinSecs, w.tune.Idle.RestMaxSecs)
	case personality.Cheer:
		wk.Idle = personality.Cheer
		wk.IdleTimer = w.randRange(w.tune.Idle.CheerMinSecs, w.tune.Idle.CheerMaxSecs)
	default:
		r := w.tune.Idle.WanderRadius
		dest := w.clampToWorld(mathx.Vec3{
			X: wk.Pos.X + w.randRange(-r, r),
			Z: wk.Pos.Z + w.randRange(-r, r),
		})
		wk.Idle = personality.Wander
		w.requestPath(wk, tasks.PurposeWander, "", dest)
	}
}

func (w *World) updateMoving(wk *Worker, dt float64) {
	s := w.structures[wk.Target]
	if !w.targetStillValid(wk, s) {
		w.revertToIdle(wk)
		return
	}
	if wk.PathReq != 0 {
		return
	}
	if !w.followPath(wk, w.tune.Movement.MoveSpeed, dt) {
		return
	}
	wk.Path = wk.Path[:0]
	wk.PathIndex = 0
	wk.State = WorkerWorking
	wk.WorkTime = 0
	wk.Yaw = mathx.Yaw(wk.Pos, s.Pos)
}

func (w *World) updateWorking(wk *Worker, dt float64) {
	s := w.structures[wk.Target]
	if !w.targetStillValid(wk, s) {
		w.revertToIdle(wk)
		return
	}
	wk.WorkTime += dt
	if wk.WorkTime < w.tune.Work.CycleSecs {
		return
	}
	wk.WorkTime = 0
	if wk.Demolishing {
		w.finishDemolition(wk, s)
		return
	}
	w.finishWorkCycle(wk, s)
}

// targetStillValid is false when the target vanished or a finished foundation
// would be worked again.
func (w *World) targetStillValid(wk *Worker, s *Structure) bool {
	if wk.Target == "" || s == nil {
		return false
	}
	if wk.Demolishing {
		return s.demolishable()
	}
	return s.buildable()
}

// WorkProgress is the fraction of the current work cycle done by a working
// worker.
func (w *World) WorkProgress(wk Worker) float64 {
	if wk.State != WorkerWorking || w.tune.Work.CycleSecs <= 0 {
		return 0
	}
	return mathx.Clamp01(wk.WorkTime / w.tune.Work.CycleSecs)
}
