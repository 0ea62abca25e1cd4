package pathfind

import (
	"errors"
	"testing"

	"slowtown.ai/internal/sim/world/logic/mathx"
)

func TestFindPathOpenGrid(t *testing.T) {
	g := NewGrid(40, 2, 0.7)
	path, err := g.FindPath(mathx.Vec3{X: -9, Z: -9}, mathx.Vec3{X: 9, Z: 9}, nil)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	last := path[len(path)-1]
	if last.Y != 0.7 {
		t.Fatalf("waypoint height %v", last.Y)
	}
	if last.X != 9 || last.Z != 9 {
		t.Fatalf("last waypoint %+v, want cell centre (9,9)", last)
	}
	// Pure diagonal: 9 steps from cell (5,5) to (14,14).
	if len(path) != 9 {
		t.Fatalf("path length %d, want 9", len(path))
	}
}

func TestFindPathOutOfBounds(t *testing.T) {
	g := NewGrid(40, 2, 0.7)
	_, err := g.FindPath(mathx.Vec3{}, mathx.Vec3{X: 25}, nil)
	if !errors.Is(err, ErrOutOfBounds) {
		t.Fatalf("expected ErrOutOfBounds, got %v", err)
	}
}

func TestFindPathNoCornerCutting(t *testing.T) {
	g := NewGrid(10, 1, 0)
	// Two blocked cells touching only at a corner: (5,4) and (4,5) in grid space.
	// Grid origin is -5, so cell (c,r) spans [c-5, c-4).
	obstacles := []Box{
		{MinX: 0.1, MinZ: -0.9, MaxX: 0.9, MaxZ: -0.1},
		{MinX: -0.9, MinZ: 0.1, MaxX: -0.1, MaxZ: 0.9},
	}
	start := mathx.Vec3{X: -0.5, Z: -0.5} // cell (4,4)
	end := mathx.Vec3{X: 0.5, Z: 0.5}     // cell (5,5)
	path, err := g.FindPath(start, end, obstacles)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	if len(path) < 2 {
		t.Fatalf("expected a detour around the pinch, got %v", path)
	}
	m := g.build(obstacles)
	prev := cell{col: 4, row: 4}
	for _, p := range path {
		c, r, _ := g.ToCell(p)
		cur := cell{col: c, row: r}
		dc, dr := cur.col-prev.col, cur.row-prev.row
		if dc != 0 && dr != 0 {
			if !m.walkable(cell{col: prev.col + dc, row: prev.row}) || !m.walkable(cell{col: prev.col, row: prev.row + dr}) {
				t.Fatalf("diagonal step %v -> %v cuts a blocked corner", prev, cur)
			}
		}
		prev = cur
	}
}

func TestFindPathBlockedGoal(t *testing.T) {
	g := NewGrid(20, 2, 0.7)
	obstacles := []Box{{MinX: 3, MinZ: 3, MaxX: 7, MaxZ: 7}}
	_, err := g.FindPath(mathx.Vec3{X: -5, Z: -5}, mathx.Vec3{X: 5, Z: 5}, obstacles)
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestFindPathWalledOff(t *testing.T) {
	g := NewGrid(20, 2, 0.7)
	// Full-height wall at x in [0,2).
	obstacles := []Box{{MinX: 0.5, MinZ: -10, MaxX: 1.5, MaxZ: 10}}
	_, err := g.FindPath(mathx.Vec3{X: -5}, mathx.Vec3{X: 5}, obstacles)
	if !errors.Is(err, ErrNoPath) {
		t.Fatalf("expected ErrNoPath, got %v", err)
	}
}

func TestFindPathRoutesAroundObstacle(t *testing.T) {
	g := NewGrid(20, 2, 0.7)
	obstacles := []Box{{MinX: -1, MinZ: -6, MaxX: 1, MaxZ: 6}}
	path, err := g.FindPath(mathx.Vec3{X: -5}, mathx.Vec3{X: 5}, obstacles)
	if err != nil {
		t.Fatalf("FindPath: %v", err)
	}
	blocked := g.build(obstacles)
	for _, p := range path {
		c, r, _ := g.ToCell(p)
		if !blocked.walkable(cell{col: c, row: r}) {
			t.Fatalf("waypoint %+v lies in a blocked cell", p)
		}
	}
}

func TestLine(t *testing.T) {
	pts := Line(mathx.Vec3{}, mathx.Vec3{X: 10}, 20)
	if len(pts) != 20 {
		t.Fatalf("len=%d", len(pts))
	}
	if pts[0].X != 0.5 || pts[19].X != 10 {
		t.Fatalf("unexpected line endpoints %v %v", pts[0], pts[19])
	}
}
