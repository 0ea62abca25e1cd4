package world

import (
	"fmt"

	"slowtown.ai/internal/persistence/snapshot"
	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/ids"
	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/personality"
	"slowtown.ai/internal/sim/world/logic/progression"
)

// ImportSnapshot replaces the current in-memory world state with the snapshot.
// It sets the world's tick to snapshotTick+1 (the next tick to simulate).
//
// This must be called only when the world is stopped or from the world loop goroutine.
func (w *World) ImportSnapshot(s snapshot.SnapshotV1) error {
	if s.Header.Version != snapshot.Version {
		return fmt.Errorf("unsupported snapshot version: %d", s.Header.Version)
	}
	if w.cfg.Seed != s.Seed {
		return fmt.Errorf("snapshot seed mismatch: cfg=%d snap=%d", w.cfg.Seed, s.Seed)
	}
	if s.TickRate != 0 && s.TickRate != w.tune.TickRateHz {
		return fmt.Errorf("snapshot tick rate mismatch: cfg=%d snap=%d", w.tune.TickRateHz, s.TickRate)
	}
	mode, ok := parseMode(s.Mode)
	if !ok {
		return fmt.Errorf("snapshot mode %q unknown", s.Mode)
	}

	workers := map[string]*Worker{}
	workerOrder := make([]string, 0, len(s.Workers))
	for _, ws := range s.Workers {
		if _, dup := workers[ws.ID]; dup {
			return fmt.Errorf("snapshot duplicate worker %s", ws.ID)
		}
		wk := &Worker{
			ID:          ws.ID,
			Pos:         fromVec3(ws.Pos),
			Yaw:         ws.Yaw,
			State:       WorkerState(ws.State),
			HP:          ws.HP,
			PathIndex:   ws.PathIndex,
			Target:      ws.Target,
			Demolishing: ws.Demolishing,
			WorkTime:    ws.WorkTime,
			Idle:        personality.Behavior(ws.Idle),
			IdleTimer:   ws.IdleTimer,
			Weights:     fromWeightsV1(ws.Weights),
			Evacuating:  ws.Evacuating,
			PathReq:     ws.PathReq,
		}
		for _, p := range ws.Path {
			wk.Path = append(wk.Path, fromVec3(p))
		}
		workers[wk.ID] = wk
		workerOrder = append(workerOrder, wk.ID)
	}

	structures := map[string]*Structure{}
	structureOrder := make([]string, 0, len(s.Structures))
	for _, ss := range s.Structures {
		if _, dup := structures[ss.ID]; dup {
			return fmt.Errorf("snapshot duplicate structure %s", ss.ID)
		}
		price, err := ledger.FromMap(ss.Price)
		if err != nil {
			return fmt.Errorf("snapshot structure %s: %w", ss.ID, err)
		}
		structures[ss.ID] = &Structure{
			ID:        ss.ID,
			Kind:      StructureKind(ss.Kind),
			Type:      ss.Type,
			Pos:       fromVec3(ss.Pos),
			Size:      ss.Size,
			Price:     price,
			Progress:  ss.Progress,
			Completed: ss.Completed,
			Walkable:  ss.Walkable,
			Crops:     append([]string(nil), ss.Crops...),
		}
		structureOrder = append(structureOrder, ss.ID)
	}

	crops := map[string]*Crop{}
	cropOrder := make([]string, 0, len(s.Crops))
	for _, cs := range s.Crops {
		if _, ok := structures[cs.FarmID]; !ok {
			return fmt.Errorf("snapshot crop %s: missing farm %s", cs.ID, cs.FarmID)
		}
		crops[cs.ID] = &Crop{
			ID:         cs.ID,
			Type:       cs.Type,
			FarmID:     cs.FarmID,
			PlantTime:  cs.PlantTime,
			MatureTime: cs.MatureTime,
			Fill:       cs.Fill,
			IsMature:   cs.IsMature,
		}
		cropOrder = append(cropOrder, cs.ID)
	}

	animals := map[string]*Animal{}
	animalOrder := make([]string, 0, len(s.Animals))
	for _, as := range s.Animals {
		animals[as.ID] = &Animal{
			ID:           as.ID,
			Type:         as.Type,
			Pos:          fromVec3(as.Pos),
			Yaw:          as.Yaw,
			State:        AnimalState(as.State),
			WanderTarget: fromVec3(as.WanderTarget),
			RunTarget:    fromVec3(as.RunTarget),
			RunSpeed:     as.RunSpeed,
			RunTimer:     as.RunTimer,
			WaitTimer:    as.WaitTimer,
		}
		animalOrder = append(animalOrder, as.ID)
	}

	nodes := map[string]*Node{}
	nodeOrder := make([]string, 0, len(s.Nodes))
	for _, ns := range s.Nodes {
		nodes[ns.ID] = &Node{ID: ns.ID, Type: ns.Type, Pos: fromVec3(ns.Pos)}
		nodeOrder = append(nodeOrder, ns.ID)
	}

	// Counters must stay ahead of every restored ID even if the snapshot
	// was written by an older build.
	c := s.Counters
	for id := range workers {
		if n, ok := ids.ParseUintAfterPrefix(ids.PrefixWorker, id); ok {
			c.NextWorker = ids.MaxU64(c.NextWorker, n)
		}
	}
	for id := range structures {
		if n, ok := ids.ParseUintAfterPrefix(ids.PrefixStructure, id); ok {
			c.NextStructure = ids.MaxU64(c.NextStructure, n)
		}
	}
	for id := range animals {
		if n, ok := ids.ParseUintAfterPrefix(ids.PrefixAnimal, id); ok {
			c.NextAnimal = ids.MaxU64(c.NextAnimal, n)
		}
	}
	for id := range crops {
		if n, ok := ids.ParseUintAfterPrefix(ids.PrefixCrop, id); ok {
			c.NextCrop = ids.MaxU64(c.NextCrop, n)
		}
	}
	for id := range nodes {
		if n, ok := ids.ParseUintAfterPrefix(ids.PrefixNode, id); ok {
			c.NextNode = ids.MaxU64(c.NextNode, n)
		}
	}

	w.src.restore(s.Seed, s.RNGDraws)
	w.time = s.Time
	w.speed = s.Speed
	if w.speed == 0 {
		w.speed = 1
	}
	w.store = ledger.NewStore(fromResourcesV1(s.Resources))
	w.playerName = s.Player.Name
	w.prog = progression.Progress{Level: s.Player.Level, Exp: s.Player.Exp}
	w.prog.AddExp(0)
	w.idleWeights = fromWeightsV1(s.IdleWeights)
	w.variance = s.PersonalityVariance
	w.mode = mode
	w.modeType = s.ModeType
	w.pollTimer = s.PollTimer
	w.evacuateTimer = s.EvacuateTimer

	w.workers, w.workerOrder = workers, workerOrder
	w.structures, w.structureOrder = structures, structureOrder
	w.crops, w.cropOrder = crops, cropOrder
	w.animals, w.animalOrder = animals, animalOrder
	w.nodes, w.nodeOrder = nodes, nodeOrder

	w.nextWorker = c.NextWorker
	w.nextStructure = c.NextStructure
	w.nextAnimal = c.NextAnimal
	w.nextCrop = c.NextCrop
	w.nextNode = c.NextNode
	w.nextPath = c.NextPath
	w.noticeBuf = nil

	// In-flight paths are planned again from where the worker stands now.
	w.pending = map[uint64]tasks.PathRequest{}
	obstacles := w.obstacles()
	for _, pr := range s.PendingPaths {
		wk := w.workers[pr.AgentID]
		if wk == nil || wk.PathReq != pr.ID {
			continue
		}
		req := tasks.PathRequest{
			ID:        pr.ID,
			AgentID:   pr.AgentID,
			Purpose:   tasks.Purpose(pr.Purpose),
			TargetID:  pr.TargetID,
			Start:     wk.Pos,
			End:       fromVec3(pr.End),
			Obstacles: obstacles,
		}
		wk.PathPurpose = req.Purpose
		w.pending[req.ID] = req
		w.nextPath = ids.MaxU64(w.nextPath, req.ID)
		w.planner.Submit(req)
	}
	for _, wk := range w.workers {
		if wk.PathReq != 0 {
			if _, ok := w.pending[wk.PathReq]; !ok {
				wk.PathReq = 0
			}
		}
	}

	w.tick.Store(s.Header.Tick + 1)
	return nil
}
