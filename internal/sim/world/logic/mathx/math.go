package mathx

import "math"

type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

func (v Vec3) Add(o Vec3) Vec3 { return Vec3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z} }
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z} }

func (v Vec3) Scale(k float64) Vec3 { return Vec3{X: v.X * k, Y: v.Y * k, Z: v.Z * k} }

func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

func Dist(a, b Vec3) float64 { return b.Sub(a).Len() }

// DistXZ is the planar distance, ignoring height.
func DistXZ(a, b Vec3) float64 {
	dx := a.X - b.X
	dz := a.Z - b.Z
	return math.Sqrt(dx*dx + dz*dz)
}

func Lerp(a, b Vec3, t float64) Vec3 {
	return Vec3{X: a.X + (b.X-a.X)*t, Y: a.Y + (b.Y-a.Y)*t, Z: a.Z + (b.Z-a.Z)*t}
}

// MoveToward advances from a toward b by at most step and reports whether b
// was reached within eps.
func MoveToward(a, b Vec3, step, eps float64) (Vec3, bool) {
	d := Dist(a, b)
	if d <= eps || d <= step {
		return b, true
	}
	return Lerp(a, b, step/d), false
}

// Yaw returns the heading (radians about Y) of a unit facing from a toward b.
func Yaw(a, b Vec3) float64 {
	return math.Atan2(b.X-a.X, b.Z-a.Z)
}

func Clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

func Clamp01(x float64) float64 { return Clamp(x, 0, 1) }
