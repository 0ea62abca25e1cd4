package world

import (
	"fmt"

	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/progression"
)

// PlaceFoundation pays for and places a zero-progress foundation, then runs an
// allocator pass. Unknown types fall back to the catalog fallback.
func (w *World) PlaceFoundation(pos mathx.Vec3, buildingType string) (string, bool) {
	id, code := w.placeFoundation(pos, buildingType)
	return id, code == ""
}

func (w *World) placeFoundation(pos mathx.Vec3, buildingType string) (string, string) {
	def, ok := w.catalogs.Buildings.Resolve(buildingType)
	if !ok || def.Starter {
		return "", codeBadRequest
	}
	if !w.buildingUnlocks.Unlocked(def.ID, w.prog.Level) {
		w.notifyLocked(def.Name, w.buildingUnlocks.RequiredLevel(def.ID))
		return "", codeLocked
	}
	if !w.store.Consume(def.Price) {
		w.notify(NoticeNoResources, "Not enough resources", nil)
		return "", codeNoResource
	}
	s := &Structure{
		Kind:  KindFoundation,
		Type:  def.ID,
		Pos:   w.clampToWorld(pos),
		Size:  def.Size,
		Price: def.Price,
	}
	w.insertStructure(s)
	w.AssignWork()
	return s.ID, ""
}

func (w *World) notifyLocked(name string, required int) {
	w.notify(NoticeLocked,
		fmt.Sprintf("%s requires level %d (current: %d)", name, required, w.prog.Level),
		map[string]string{"name": name, "required": fmt.Sprint(required)})
}

// finishWorkCycle applies one construction cycle. Progress lands before the
// death check so a dying worker's last cycle still counts.
func (w *World) finishWorkCycle(wk *Worker, s *Structure) {
	s.Progress = mathx.Clamp01(s.Progress + w.tune.Work.ProgressPerCycle)
	wk.HP -= w.tune.Work.HPPerCycle
	if wk.HP < 0 {
		wk.HP = 0
	}
	completed := false
	if s.Progress >= 1 && !s.Completed {
		w.completeFoundation(s)
		completed = true
	}
	if wk.HP <= 0 {
		w.killWorker(wk.ID, deathExhaustion)
		return
	}
	if completed {
		// completeFoundation already released the crew.
		return
	}
	wk.State = WorkerWorking
}

// completeFoundation swaps a finished foundation for its building. It runs at
// most once per foundation.
func (w *World) completeFoundation(s *Structure) {
	if s.Completed {
		return
	}
	s.Completed = true
	s.Progress = 1
	w.notify(NoticeFoundationCompleted, "Foundation completed", map[string]string{"structure_id": s.ID})

	def, _ := w.catalogs.Buildings.Resolve(s.Type)
	b := &Structure{
		Kind:      KindBuilding,
		Type:      def.ID,
		Pos:       s.Pos,
		Size:      def.Size,
		Price:     s.Price,
		Completed: true,
		Walkable:  def.Walkable,
	}
	w.insertStructure(b)
	w.notify(NoticeBuilt, fmt.Sprintf("%s built", def.Name), map[string]string{"structure_id": b.ID, "type": def.ID})

	w.clearTargets(s.ID)
	w.removeStructure(s.ID)
	w.addExp(progression.ExpReward(w.prog.Level))
}

// finishDemolition refunds half the price, removes the structure with its
// crops and consumes the worker that finished the job.
func (w *World) finishDemolition(wk *Worker, s *Structure) {
	refund := s.Price.Half()
	w.store.Add(refund)
	w.clearTargets(s.ID)
	w.removeStructure(s.ID)
	w.notify(NoticeDemolished,
		fmt.Sprintf("Building demolished. Refunded: Food %d, Wood %d", refund.Food, refund.Wood),
		map[string]string{"structure_id": s.ID})
	w.killWorker(wk.ID, deathDemolition)
}
