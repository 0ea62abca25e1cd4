package world

import (
	"fmt"
	"math"

	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/progression"
)

const (
	animalWanderArrive = 0.5
	animalRunArrive    = 0.1
)

func (w *World) SpawnAnimal(pos mathx.Vec3, animalType string) (string, bool) {
	id, code := w.spawnAnimal(pos, animalType)
	return id, code == ""
}

func (w *World) spawnAnimal(pos mathx.Vec3, animalType string) (string, string) {
	def, ok := w.catalogs.Animals.ByID[animalType]
	if !ok {
		return "", codeBadRequest
	}
	if !w.animalUnlocks.Unlocked(def.ID, w.prog.Level) {
		w.notifyLocked(def.Name, w.animalUnlocks.RequiredLevel(def.ID))
		return "", codeLocked
	}
	cost, err := ledger.FromMap(w.tune.Economy.AnimalCost)
	if err != nil {
		return "", codeInternal
	}
	if !w.store.Consume(cost) {
		w.notify(NoticeNoResources,
			fmt.Sprintf("Not enough resources: %d Gold and %d Food required", cost.Gold, cost.Food), nil)
		return "", codeNoResource
	}
	pos = w.clampToWorld(pos)
	pos.Y = 0
	a := &Animal{
		Type:      def.ID,
		Pos:       pos,
		State:     AnimalIdle,
		WaitTimer: w.randRange(w.tune.Animals.WaitMinSecs, w.tune.Animals.WaitMaxSecs),
	}
	w.insertAnimal(a)
	w.addExp(progression.ExpReward(w.prog.Level))
	return a.ID, ""
}

// FrightenAnimal sends an animal running away from a point.
func (w *World) FrightenAnimal(id string, from mathx.Vec3) bool {
	return w.frightenAnimal(id, from) == ""
}

func (w *World) frightenAnimal(id string, from mathx.Vec3) string {
	a := w.animals[id]
	if a == nil {
		return codeInvalidTarget
	}
	dx, dz := a.Pos.X-from.X, a.Pos.Z-from.Z
	d := math.Hypot(dx, dz)
	if d < 1e-6 {
		ang := w.randAngle()
		dx, dz, d = math.Cos(ang), math.Sin(ang), 1
	}
	dist := w.randRange(w.tune.Animals.FrightenMin, w.tune.Animals.FrightenMax)
	w.startRun(a, mathx.Vec3{X: a.Pos.X + dx/d*dist, Z: a.Pos.Z + dz/d*dist})
	name := a.Type
	if def, ok := w.catalogs.Animals.ByID[a.Type]; ok {
		name = def.Name
	}
	w.notify(NoticeAnimalFled, fmt.Sprintf("%s ran away!", name), map[string]string{"animal_id": a.ID})
	return ""
}

func (w *World) startRun(a *Animal, target mathx.Vec3) {
	target = w.clampToWorld(target)
	target.Y = a.Pos.Y
	a.State = AnimalRunning
	a.RunTarget = target
	a.RunSpeed = w.tune.Animals.RunSpeed
	a.RunTimer = w.tune.Animals.RunSecs
}

func (w *World) updateAnimals(dt float64) {
	at := w.tune.Animals
	for _, id := range w.animalOrder {
		a := w.animals[id]
		switch a.State {
		case AnimalIdle:
			a.WaitTimer -= dt
			if a.WaitTimer > 0 {
				continue
			}
			ang := w.randAngle()
			dist := w.randRange(at.WanderMin, at.WanderMax)
			a.WanderTarget = w.clampToWorld(mathx.Vec3{
				X: a.Pos.X + math.Cos(ang)*dist,
				Y: a.Pos.Y,
				Z: a.Pos.Z + math.Sin(ang)*dist,
			})
			a.State = AnimalWandering
		case AnimalWandering:
			a.Yaw = mathx.Yaw(a.Pos, a.WanderTarget)
			pos, arrived := mathx.MoveToward(a.Pos, a.WanderTarget, at.WanderSpeed*dt, animalWanderArrive)
			a.Pos = pos
			if arrived {
				a.State = AnimalIdle
				a.WaitTimer = w.randRange(at.WaitMinSecs, at.WaitMaxSecs)
			}
		case AnimalRunning:
			a.RunTimer -= dt
			a.Yaw = mathx.Yaw(a.Pos, a.RunTarget)
			pos, arrived := mathx.MoveToward(a.Pos, a.RunTarget, a.RunSpeed*dt, animalRunArrive)
			a.Pos = pos
			if arrived || a.RunTimer <= 0 {
				a.State = AnimalIdle
				a.RunTimer = 0
				a.WaitTimer = w.randRange(at.WaitMinSecs, at.WaitMaxSecs)
			}
		}
	}
}
