package mathx

import (
	"math"
	"testing"
)

func TestMoveTowardStopsAtTarget(t *testing.T) {
	a := Vec3{}
	b := Vec3{X: 3, Z: 4}
	p, arrived := MoveToward(a, b, 2, 0.05)
	if arrived {
		t.Fatalf("should not arrive after 2 of 5 units")
	}
	if d := Dist(a, p); math.Abs(d-2) > 1e-9 {
		t.Fatalf("moved %v, want 2", d)
	}
	p, arrived = MoveToward(p, b, 10, 0.05)
	if !arrived || p != b {
		t.Fatalf("expected arrival at %v, got %v arrived=%v", b, p, arrived)
	}
}

func TestDistXZIgnoresHeight(t *testing.T) {
	if d := DistXZ(Vec3{Y: 10}, Vec3{X: 3, Z: 4}); d != 5 {
		t.Fatalf("DistXZ=%v want 5", d)
	}
}
