package personality

import "math/rand"

type Behavior string

const (
	Rest   Behavior = "rest"
	Cheer  Behavior = "cheer"
	Wander Behavior = "wander"
)

// Weights are idle-behaviour probabilities; normalised weights sum to 1.
type Weights struct {
	Rest   float64 `json:"rest" yaml:"rest"`
	Cheer  float64 `json:"cheer" yaml:"cheer"`
	Wander float64 `json:"wander" yaml:"wander"`
}

func Defaults() Weights { return Weights{Rest: 0.33, Cheer: 0.33, Wander: 0.34} }

// Normalize scales the weights to sum to 1. It reports false (and returns w
// unchanged) when the total is not positive.
func (w Weights) Normalize() (Weights, bool) {
	rest, cheer, wander := nonNeg(w.Rest), nonNeg(w.Cheer), nonNeg(w.Wander)
	total := rest + cheer + wander
	if total <= 0 {
		return w, false
	}
	return Weights{Rest: rest / total, Cheer: cheer / total, Wander: wander / total}, true
}

// FromSeed jitters each base weight by up to ±variance and renormalises.
// The same seed always yields the same personality.
func FromSeed(seed int64, base Weights, variance float64) Weights {
	r := rand.New(rand.NewSource(seed))
	jitter := func(x float64) float64 {
		return nonNeg(x * (1 + (r.Float64()*2-1)*variance))
	}
	out, ok := Weights{Rest: jitter(base.Rest), Cheer: jitter(base.Cheer), Wander: jitter(base.Wander)}.Normalize()
	if !ok {
		if n, ok := base.Normalize(); ok {
			return n
		}
		return Defaults()
	}
	return out
}

// Pick draws one behaviour.
func Pick(r *rand.Rand, w Weights) Behavior {
	x := r.Float64()
	if x < w.Rest {
		return Rest
	}
	if x < w.Rest+w.Cheer {
		return Cheer
	}
	return Wander
}

func nonNeg(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}
