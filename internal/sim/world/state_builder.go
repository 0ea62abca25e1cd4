package world

import (
	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/progression"
)

func vec3(v mathx.Vec3) [3]float64 { return [3]float64{v.X, v.Y, v.Z} }

// BuildState renders the full town view sent to clients.
func (w *World) BuildState(tick uint64) protocol.StateMsg {
	bal := w.store.Balance()
	mode, _ := w.PendingMode()
	st := protocol.StateMsg{
		Type:            protocol.TypeState,
		ProtocolVersion: protocol.Version,
		Tick:            tick,
		Time:            w.time,
		Speed:           w.speed,
		Mode:            string(mode),
		Resources: protocol.Resources{
			Stone:   bal.Stone,
			Wood:    bal.Wood,
			Food:    bal.Food,
			Gold:    bal.Gold,
			Workers: bal.Workers,
		},
		Player: protocol.PlayerView{
			Name:      w.playerName,
			Level:     w.prog.Level,
			Exp:       w.prog.Exp,
			ExpToNext: progression.RequiredForLevel(w.prog.Level),
			Unlocked:  w.buildingUnlocks.UnlockedAt(w.prog.Level),
		},
		Workers:    make([]protocol.WorkerView, 0, len(w.workerOrder)),
		Structures: make([]protocol.StructureView, 0, len(w.structureOrder)),
		Animals:    make([]protocol.AnimalView, 0, len(w.animalOrder)),
		Crops:      make([]protocol.CropView, 0, len(w.cropOrder)),
		Nodes:      make([]protocol.NodeView, 0, len(w.nodeOrder)),
	}
	if mode == ModeNone {
		st.Mode = ""
	}
	for _, id := range w.workerOrder {
		wk := w.workers[id]
		st.Workers = append(st.Workers, protocol.WorkerView{
			ID:          wk.ID,
			Pos:         vec3(wk.Pos),
			Yaw:         wk.Yaw,
			State:       string(wk.State),
			HP:          wk.HP,
			Target:      wk.Target,
			Demolishing: wk.Demolishing,
			Idle:        string(wk.Idle),
			Progress:    w.WorkProgress(*wk),
		})
	}
	for _, id := range w.structureOrder {
		s := w.structures[id]
		st.Structures = append(st.Structures, protocol.StructureView{
			ID:        s.ID,
			Kind:      string(s.Kind),
			Type:      s.Type,
			Pos:       vec3(s.Pos),
			Size:      s.Size,
			Progress:  s.Progress,
			Completed: s.Completed,
			Crops:     append([]string(nil), s.Crops...),
		})
	}
	for _, id := range w.animalOrder {
		a := w.animals[id]
		st.Animals = append(st.Animals, protocol.AnimalView{ID: a.ID, Type: a.Type, Pos: vec3(a.Pos), State: string(a.State)})
	}
	for _, id := range w.cropOrder {
		c := w.crops[id]
		st.Crops = append(st.Crops, protocol.CropView{ID: c.ID, Type: c.Type, FarmID: c.FarmID, Fill: c.Fill, Mature: c.IsMature})
	}
	for _, id := range w.nodeOrder {
		n := w.nodes[id]
		st.Nodes = append(st.Nodes, protocol.NodeView{ID: n.ID, Type: n.Type, Pos: vec3(n.Pos)})
	}
	return st
}
