package world

import (
	"context"
	"testing"
	"time"

	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/pathfind"
)

func TestDeferredPlannerResolvesInOrder(t *testing.T) {
	g := pathfind.NewGrid(100, 1, 0.7)
	p := NewDeferredPlanner(g, 20)

	p.Submit(tasks.PathRequest{ID: 1, AgentID: "W1", Purpose: tasks.PurposeBuild, Start: mathx.Vec3{}, End: mathx.Vec3{X: 5, Z: 5}})
	p.Submit(tasks.PathRequest{ID: 2, AgentID: "W2", Purpose: tasks.PurposeWander, Start: mathx.Vec3{}, End: mathx.Vec3{X: 500}})

	res := p.Poll()
	if len(res) != 2 || res[0].ID != 1 || res[1].ID != 2 {
		t.Fatalf("results=%+v", res)
	}
	if res[0].Fallback || len(res[0].Path) == 0 {
		t.Fatalf("expected A* path, got %+v", res[0])
	}
	// Out of bounds falls back to a straight line.
	if !res[1].Fallback || len(res[1].Path) != 20 {
		t.Fatalf("expected 20-step fallback, got fallback=%v len=%d", res[1].Fallback, len(res[1].Path))
	}
	if res[1].Purpose != tasks.PurposeWander || res[1].AgentID != "W2" {
		t.Fatalf("correlation fields lost: %+v", res[1])
	}
	if again := p.Poll(); len(again) != 0 {
		t.Fatalf("second poll=%d", len(again))
	}
}

func TestAsyncPlannerDeliversEveryRequest(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	g := pathfind.NewGrid(100, 1, 0.7)
	p := NewAsyncPlanner(ctx, g, 20, 3)

	const n = 10
	for i := 1; i <= n; i++ {
		p.Submit(tasks.PathRequest{ID: uint64(i), AgentID: "W1", Start: mathx.Vec3{}, End: mathx.Vec3{X: float64(i), Z: -float64(i)}})
	}
	seen := map[uint64]bool{}
	deadline := time.Now().Add(5 * time.Second)
	for len(seen) < n && time.Now().Before(deadline) {
		for _, r := range p.Poll() {
			seen[r.ID] = true
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	p.Wait()
	if len(seen) != n {
		t.Fatalf("got %d results want %d", len(seen), n)
	}
}
