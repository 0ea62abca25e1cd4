package world

import (
	"crypto/sha256"
	"encoding/hex"

	"slowtown.ai/internal/sim/world/io/digestcodec"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

// stateDigest hashes every piece of simulation state that affects future
// ticks, in a fixed order. Two worlds with equal digests evolve identically.
func (w *World) stateDigest(nowTick uint64) string {
	h := sha256.New()
	var tmp [8]byte

	digestcodec.WriteU64(h, &tmp, nowTick)
	digestcodec.WriteF64(h, &tmp, w.time)
	digestcodec.WriteI64(h, &tmp, int64(w.speed))
	digestcodec.WriteU64(h, &tmp, w.src.draws)
	digestcodec.WriteSortedNonZeroIntMap(h, &tmp, w.store.Balance().Map())
	digestcodec.WriteI64(h, &tmp, int64(w.prog.Level))
	digestcodec.WriteI64(h, &tmp, int64(w.prog.Exp))
	digestcodec.WriteF64(h, &tmp, w.idleWeights.Rest)
	digestcodec.WriteF64(h, &tmp, w.idleWeights.Cheer)
	digestcodec.WriteF64(h, &tmp, w.idleWeights.Wander)
	digestcodec.WriteString(h, &tmp, string(w.mode))
	digestcodec.WriteString(h, &tmp, w.modeType)
	digestcodec.WriteF64(h, &tmp, w.pollTimer)
	digestcodec.WriteF64(h, &tmp, w.evacuateTimer)
	for _, c := range []uint64{w.nextWorker, w.nextStructure, w.nextAnimal, w.nextCrop, w.nextNode, w.nextPath} {
		digestcodec.WriteU64(h, &tmp, c)
	}

	digestcodec.WriteU64(h, &tmp, uint64(len(w.workerOrder)))
	for _, id := range w.workerOrder {
		wk := w.workers[id]
		digestcodec.WriteString(h, &tmp, wk.ID)
		digestVec(h, &tmp, wk.Pos)
		digestcodec.WriteF64(h, &tmp, wk.Yaw)
		digestcodec.WriteString(h, &tmp, string(wk.State))
		digestcodec.WriteI64(h, &tmp, int64(wk.HP))
		digestcodec.WriteString(h, &tmp, wk.Target)
		digestcodec.WriteBools(h, wk.Demolishing, wk.Evacuating)
		digestcodec.WriteU64(h, &tmp, uint64(wk.PathIndex))
		digestcodec.WriteU64(h, &tmp, uint64(len(wk.Path)))
		for _, p := range wk.Path {
			digestVec(h, &tmp, p)
		}
		digestcodec.WriteF64(h, &tmp, wk.WorkTime)
		digestcodec.WriteString(h, &tmp, string(wk.Idle))
		digestcodec.WriteF64(h, &tmp, wk.IdleTimer)
		digestcodec.WriteF64(h, &tmp, wk.Weights.Rest)
		digestcodec.WriteF64(h, &tmp, wk.Weights.Cheer)
		digestcodec.WriteF64(h, &tmp, wk.Weights.Wander)
		digestcodec.WriteU64(h, &tmp, wk.PathReq)
	}

	digestcodec.WriteU64(h, &tmp, uint64(len(w.structureOrder)))
	for _, id := range w.structureOrder {
		s := w.structures[id]
		digestcodec.WriteString(h, &tmp, s.ID)
		digestcodec.WriteString(h, &tmp, string(s.Kind))
		digestcodec.WriteString(h, &tmp, s.Type)
		digestVec(h, &tmp, s.Pos)
		digestcodec.WriteSortedNonZeroIntMap(h, &tmp, s.Price.Map())
		digestcodec.WriteF64(h, &tmp, s.Progress)
		digestcodec.WriteBools(h, s.Completed, s.Walkable)
		digestcodec.WriteU64(h, &tmp, uint64(len(s.Crops)))
		for _, c := range s.Crops {
			digestcodec.WriteString(h, &tmp, c)
		}
	}

	digestcodec.WriteU64(h, &tmp, uint64(len(w.cropOrder)))
	for _, id := range w.cropOrder {
		c := w.crops[id]
		digestcodec.WriteString(h, &tmp, c.ID)
		digestcodec.WriteString(h, &tmp, c.Type)
		digestcodec.WriteString(h, &tmp, c.FarmID)
		digestcodec.WriteF64(h, &tmp, c.PlantTime)
		digestcodec.WriteF64(h, &tmp, c.MatureTime)
		digestcodec.WriteF64(h, &tmp, c.Fill)
		digestcodec.WriteBools(h, c.IsMature)
	}

	digestcodec.WriteU64(h, &tmp, uint64(len(w.animalOrder)))
	for _, id := range w.animalOrder {
		a := w.animals[id]
		digestcodec.WriteString(h, &tmp, a.ID)
		digestcodec.WriteString(h, &tmp, a.Type)
		digestcodec.WriteString(h, &tmp, string(a.State))
		digestVec(h, &tmp, a.Pos)
		digestcodec.WriteF64(h, &tmp, a.Yaw)
		digestVec(h, &tmp, a.WanderTarget)
		digestVec(h, &tmp, a.RunTarget)
		digestcodec.WriteF64(h, &tmp, a.RunSpeed)
		digestcodec.WriteF64(h, &tmp, a.RunTimer)
		digestcodec.WriteF64(h, &tmp, a.WaitTimer)
	}

	digestcodec.WriteU64(h, &tmp, uint64(len(w.nodeOrder)))
	for _, id := range w.nodeOrder {
		n := w.nodes[id]
		digestcodec.WriteString(h, &tmp, n.ID)
		digestcodec.WriteString(h, &tmp, n.Type)
		digestVec(h, &tmp, n.Pos)
	}

	pending := w.pendingIDs()
	digestcodec.WriteU64(h, &tmp, uint64(len(pending)))
	for _, id := range pending {
		req := w.pending[id]
		digestcodec.WriteU64(h, &tmp, id)
		digestcodec.WriteString(h, &tmp, req.AgentID)
		digestcodec.WriteString(h, &tmp, string(req.Purpose))
		digestcodec.WriteString(h, &tmp, req.TargetID)
		digestVec(h, &tmp, req.End)
	}
	return hex.EncodeToString(h.Sum(nil))
}

func digestVec(h digestcodec.Writer, tmp *[8]byte, v mathx.Vec3) {
	digestcodec.WriteF64(h, tmp, v.X)
	digestcodec.WriteF64(h, tmp, v.Y)
	digestcodec.WriteF64(h, tmp, v.Z)
}

// DebugStateDigest exposes the tick digest for tests and tooling.
func (w *World) DebugStateDigest(nowTick uint64) string { return w.stateDigest(nowTick) }
