package personality

import (
	"math"
	"math/rand"
	"testing"
)

func TestFromSeedDeterministicAndNormalised(t *testing.T) {
	base := Defaults()
	a := FromSeed(99, base, 0.2)
	b := FromSeed(99, base, 0.2)
	if a != b {
		t.Fatalf("same seed produced %+v and %+v", a, b)
	}
	if sum := a.Rest + a.Cheer + a.Wander; math.Abs(sum-1) > 1e-9 {
		t.Fatalf("weights sum to %v", sum)
	}
	for _, v := range []float64{a.Rest, a.Cheer, a.Wander} {
		if v < 0.33*0.8/1.2-1e-9 || v > 0.34*1.2/0.8+1e-9 {
			t.Fatalf("weight %v outside jitter range", v)
		}
	}
}

func TestNormalizeRejectsNonPositive(t *testing.T) {
	if _, ok := (Weights{}).Normalize(); ok {
		t.Fatalf("zero weights should not normalise")
	}
	n, ok := Weights{Rest: 2, Cheer: 1, Wander: 1}.Normalize()
	if !ok || n.Rest != 0.5 || n.Cheer != 0.25 {
		t.Fatalf("Normalize: %+v ok=%v", n, ok)
	}
}

func TestPickRespectsZeroWeights(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	w := Weights{Wander: 1}
	for i := 0; i < 100; i++ {
		if b := Pick(r, w); b != Wander {
			t.Fatalf("picked %q with only wander weight", b)
		}
	}
}
