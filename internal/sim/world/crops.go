package world

import (
	"fmt"

	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/progression"
)

func (w *World) PlantCrop(farmID, cropType string) (string, bool) {
	id, code := w.plantCrop(farmID, cropType)
	return id, code == ""
}

func (w *World) plantCrop(farmID, cropType string) (string, string) {
	farm := w.structures[farmID]
	if farm == nil || farm.Kind != KindBuilding {
		return "", codeInvalidTarget
	}
	bdef, ok := w.catalogs.Buildings.ByID[farm.Type]
	if !ok || bdef.CropSlots <= 0 {
		return "", codeInvalidTarget
	}
	def, ok := w.catalogs.Crops.ByID[cropType]
	if !ok {
		return "", codeBadRequest
	}
	if !w.cropUnlocks.Unlocked(def.ID, w.prog.Level) {
		w.notifyLocked(def.Name, w.cropUnlocks.RequiredLevel(def.ID))
		return "", codeLocked
	}
	if len(farm.Crops) >= bdef.CropSlots {
		w.notify(NoticeFarmOccupied, "This farm is occupied or locked", map[string]string{"farm_id": farm.ID})
		return "", codeConflict
	}
	c := &Crop{
		Type:       def.ID,
		FarmID:     farm.ID,
		PlantTime:  w.time,
		MatureTime: def.MatureSecs,
	}
	w.insertCrop(c)
	farm.Crops = append(farm.Crops, c.ID)
	w.notify(NoticePlanted, fmt.Sprintf("Planted %s", def.Name), map[string]string{"crop_id": c.ID, "farm_id": farm.ID})
	return c.ID, ""
}

// updateCrops is a pure function of the clock; maturity never reverts.
func (w *World) updateCrops() {
	for _, id := range w.cropOrder {
		c := w.crops[id]
		if c.IsMature {
			continue
		}
		elapsed := w.time - c.PlantTime
		if c.MatureTime <= 0 || elapsed >= c.MatureTime {
			c.IsMature = true
			c.Fill = 1
			continue
		}
		c.Fill = mathx.Clamp01(elapsed / c.MatureTime)
	}
}

// HarvestCrop removes a mature crop and pays food and exp at the current
// level. A second call on the same crop fails.
func (w *World) HarvestCrop(cropID string) bool {
	return w.harvestCrop(cropID) == ""
}

func (w *World) harvestCrop(cropID string) string {
	c := w.crops[cropID]
	if c == nil {
		return codeInvalidTarget
	}
	name := c.Type
	if def, ok := w.catalogs.Crops.ByID[c.Type]; ok {
		name = def.Name
	}
	if !c.IsMature {
		w.notify(NoticeNotMature, fmt.Sprintf("%s is not mature yet", name), map[string]string{"crop_id": c.ID})
		return codeNotReady
	}
	level := w.prog.Level
	food := progression.MajorReward(level)
	w.removeCrop(cropID)
	w.store.Add(ledger.Amounts{Food: food})
	w.notify(NoticeHarvested, fmt.Sprintf("Harvested %s: +%d Food", name, food), map[string]string{"crop_id": cropID})
	w.addExp(progression.ExpReward(level))
	return ""
}
