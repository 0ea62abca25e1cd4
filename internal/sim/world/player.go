package world

import (
	"fmt"

	"slowtown.ai/internal/sim/world/logic/personality"
)

// addExp awards exp and raises one notice per level gained.
func (w *World) addExp(n int) {
	before := w.prog.Level
	gained := w.prog.AddExp(n)
	for l := before + 1; l <= before+gained; l++ {
		w.notify(NoticeLevelUp, fmt.Sprintf("Level up: level %d! New content unlocked!", l),
			map[string]string{"level": fmt.Sprint(l)})
	}
}

// AddExp is exposed for admin tooling and tests.
func (w *World) AddExp(n int) { w.addExp(n) }

func (w *World) SetSpeed(mult int) bool {
	switch mult {
	case 1, 2, 4:
		w.speed = mult
		return true
	}
	w.notify(NoticeInvalid, fmt.Sprintf("Unsupported speed %dx", mult), nil)
	return false
}

// SetIdleWeights normalises new base weights and re-rolls every living
// worker's personality from them. Non-positive totals are ignored.
func (w *World) SetIdleWeights(rest, cheer, wander float64) bool {
	n, ok := personality.Weights{Rest: rest, Cheer: cheer, Wander: wander}.Normalize()
	if !ok {
		return false
	}
	w.idleWeights = n
	for _, id := range w.workerOrder {
		wk := w.workers[id]
		if !wk.alive() {
			continue
		}
		wk.Weights = personality.FromSeed(w.rng.Int63(), n, w.variance)
	}
	return true
}

func (w *World) IdleWeights() personality.Weights { return w.idleWeights }

func (w *World) SetPendingMode(mode PendingMode, kind string) bool {
	m, ok := parseMode(string(mode))
	if !ok {
		return false
	}
	w.mode = m
	w.modeType = kind
	if m == ModeNone {
		w.modeType = ""
	}
	return true
}

func (w *World) PendingMode() (PendingMode, string) {
	if w.mode == "" {
		return ModeNone, ""
	}
	return w.mode, w.modeType
}

// Unlocked lists what the current level allows, by category.
func (w *World) Unlocked() map[string][]string {
	l := w.prog.Level
	return map[string][]string{
		"buildings": w.buildingUnlocks.UnlockedAt(l),
		"crops":     w.cropUnlocks.UnlockedAt(l),
		"animals":   w.animalUnlocks.UnlockedAt(l),
	}
}
