package world

import (
	"fmt"
	"math"

	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/progression"
)

// scatterNodes places the resource fields of a fresh world.
func (w *World) scatterNodes() {
	for _, f := range w.catalogs.Nodes.Fields {
		n := f.Min
		if f.Max > f.Min {
			n += w.rng.Intn(f.Max - f.Min + 1)
		}
		for i := 0; i < n; i++ {
			ang := w.randAngle()
			r := math.Sqrt(w.rng.Float64()) * f.Radius
			pos := w.clampToWorld(mathx.Vec3{
				X: f.Center[0] + math.Cos(ang)*r,
				Z: f.Center[1] + math.Sin(ang)*r,
			})
			w.insertNode(&Node{Type: f.Node, Pos: pos})
		}
	}
}

// GatherNode harvests a resource node once; the node is removed.
func (w *World) GatherNode(id string) bool {
	return w.gatherNode(id) == ""
}

func (w *World) gatherNode(id string) string {
	n := w.nodes[id]
	if n == nil {
		return codeInvalidTarget
	}
	def, ok := w.catalogs.Nodes.ByID[n.Type]
	if !ok {
		return codeInvalidTarget
	}
	level := w.prog.Level
	amount := progression.MinorReward(level)
	if def.Tier == "major" {
		amount = progression.MajorReward(level)
	}
	delta, err := ledger.FromMap(map[string]int{def.Yields: amount})
	if err != nil {
		return codeInternal
	}
	w.store.Add(delta)
	delete(w.nodes, id)
	w.nodeOrder = removeID(w.nodeOrder, id)
	w.notify(NoticeGathered, fmt.Sprintf("Gathered %s: +%d %s", def.Name, amount, def.Yields),
		map[string]string{"node_id": id, "resource": def.Yields})
	w.addExp(progression.ExpReward(level))
	return ""
}

// ClaimResources grants the claim amount of every tradable resource.
func (w *World) ClaimResources() {
	n := w.tune.Economy.ClaimAmount
	w.store.Add(ledger.Amounts{Stone: n, Wood: n, Food: n, Gold: n})
	w.notify(NoticeClaimed, fmt.Sprintf("Claimed: +%d Stone/Wood/Food/Gold", n), nil)
}

func (w *World) rollTrickle() {
	if w.rng.Float64() < w.tune.Economy.TrickleChance {
		w.store.Add(ledger.Amounts{Stone: 1, Wood: 1, Food: 1, Gold: 1})
	}
}
