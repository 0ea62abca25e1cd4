package world

import (
	"slowtown.ai/internal/persistence/snapshot"
	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/personality"
)

// ExportSnapshot captures everything needed to resume at nowTick+1.
// It must be called from the world loop goroutine.
func (w *World) ExportSnapshot(nowTick uint64) snapshot.SnapshotV1 {
	bal := w.store.Balance()
	s := snapshot.SnapshotV1{
		Header: snapshot.Header{
			Version: snapshot.Version,
			WorldID: w.cfg.ID,
			Tick:    nowTick,
		},
		Seed:     w.cfg.Seed,
		TickRate: w.tune.TickRateHz,
		RNGDraws: w.src.draws,
		Time:     w.time,
		Speed:    w.speed,
		Resources: snapshot.ResourcesV1{
			Stone:   bal.Stone,
			Wood:    bal.Wood,
			Food:    bal.Food,
			Gold:    bal.Gold,
			Workers: bal.Workers,
		},
		Player: snapshot.PlayerV1{
			Name:  w.playerName,
			Level: w.prog.Level,
			Exp:   w.prog.Exp,
		},
		IdleWeights:         weightsV1(w.idleWeights),
		PersonalityVariance: w.variance,
		Mode:                string(w.mode),
		ModeType:            w.modeType,
		PollTimer:           w.pollTimer,
		EvacuateTimer:       w.evacuateTimer,
		Workers:             make([]snapshot.WorkerV1, 0, len(w.workerOrder)),
		Structures:          make([]snapshot.StructureV1, 0, len(w.structureOrder)),
		Crops:               make([]snapshot.CropV1, 0, len(w.cropOrder)),
		Animals:             make([]snapshot.AnimalV1, 0, len(w.animalOrder)),
		Nodes:               make([]snapshot.NodeV1, 0, len(w.nodeOrder)),
		Counters: snapshot.CountersV1{
			NextWorker:    w.nextWorker,
			NextStructure: w.nextStructure,
			NextAnimal:    w.nextAnimal,
			NextCrop:      w.nextCrop,
			NextNode:      w.nextNode,
			NextPath:      w.nextPath,
		},
	}

	for _, id := range w.workerOrder {
		wk := w.workers[id]
		var path [][3]float64
		for _, p := range wk.Path {
			path = append(path, vec3(p))
		}
		s.Workers = append(s.Workers, snapshot.WorkerV1{
			ID:          wk.ID,
			Pos:         vec3(wk.Pos),
			Yaw:         wk.Yaw,
			State:       string(wk.State),
			HP:          wk.HP,
			Path:        path,
			PathIndex:   wk.PathIndex,
			Target:      wk.Target,
			Demolishing: wk.Demolishing,
			WorkTime:    wk.WorkTime,
			Idle:        string(wk.Idle),
			IdleTimer:   wk.IdleTimer,
			Weights:     weightsV1(wk.Weights),
			Evacuating:  wk.Evacuating,
			PathReq:     wk.PathReq,
		})
	}
	for _, id := range w.structureOrder {
		st := w.structures[id]
		var price map[string]int
		if !st.Price.IsZero() {
			price = st.Price.Map()
		}
		s.Structures = append(s.Structures, snapshot.StructureV1{
			ID:        st.ID,
			Kind:      string(st.Kind),
			Type:      st.Type,
			Pos:       vec3(st.Pos),
			Size:      st.Size,
			Price:     price,
			Progress:  st.Progress,
			Completed: st.Completed,
			Walkable:  st.Walkable,
			Crops:     append([]string(nil), st.Crops...),
		})
	}
	for _, id := range w.cropOrder {
		c := w.crops[id]
		s.Crops = append(s.Crops, snapshot.CropV1{
			ID:         c.ID,
			Type:       c.Type,
			FarmID:     c.FarmID,
			PlantTime:  c.PlantTime,
			MatureTime: c.MatureTime,
			Fill:       c.Fill,
			IsMature:   c.IsMature,
		})
	}
	for _, id := range w.animalOrder {
		a := w.animals[id]
		s.Animals = append(s.Animals, snapshot.AnimalV1{
			ID:           a.ID,
			Type:         a.Type,
			Pos:          vec3(a.Pos),
			Yaw:          a.Yaw,
			State:        string(a.State),
			WanderTarget: vec3(a.WanderTarget),
			RunTarget:    vec3(a.RunTarget),
			RunSpeed:     a.RunSpeed,
			RunTimer:     a.RunTimer,
			WaitTimer:    a.WaitTimer,
		})
	}
	for _, id := range w.nodeOrder {
		n := w.nodes[id]
		s.Nodes = append(s.Nodes, snapshot.NodeV1{ID: n.ID, Type: n.Type, Pos: vec3(n.Pos)})
	}
	for _, id := range w.pendingIDs() {
		req := w.pending[id]
		s.PendingPaths = append(s.PendingPaths, snapshot.PathRequestV1{
			ID:       req.ID,
			AgentID:  req.AgentID,
			Purpose:  string(req.Purpose),
			TargetID: req.TargetID,
			End:      vec3(req.End),
		})
	}
	return s
}

func weightsV1(p personality.Weights) snapshot.WeightsV1 {
	return snapshot.WeightsV1{Rest: p.Rest, Cheer: p.Cheer, Wander: p.Wander}
}

func fromWeightsV1(v snapshot.WeightsV1) personality.Weights {
	return personality.Weights{Rest: v.Rest, Cheer: v.Cheer, Wander: v.Wander}
}

func fromVec3(a [3]float64) mathx.Vec3 { return mathx.Vec3{X: a[0], Y: a[1], Z: a[2]} }

func fromResourcesV1(r snapshot.ResourcesV1) ledger.Amounts {
	return ledger.Amounts{Stone: r.Stone, Wood: r.Wood, Food: r.Food, Gold: r.Gold, Workers: r.Workers}
}
