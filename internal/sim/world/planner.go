package world

import (
	"context"
	"sync"

	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/pathfind"
)

// Planner answers path requests off the critical path. Submit and Poll are
// only called from the world goroutine; results are applied by the world, never
// by the planner.
type Planner interface {
	Submit(req tasks.PathRequest)
	// Poll returns the results that are ready without blocking.
	Poll() []tasks.PathResult
}

// resolvePath runs A* and converts every failure into the straight-line
// fallback, so movement never stalls.
func resolvePath(g pathfind.Grid, req tasks.PathRequest, fallbackSteps int) tasks.PathResult {
	res := tasks.PathResult{
		ID:       req.ID,
		AgentID:  req.AgentID,
		Purpose:  req.Purpose,
		TargetID: req.TargetID,
	}
	path, err := g.FindPath(req.Start, req.End, req.Obstacles)
	if err != nil {
		res.Path = pathfind.Line(req.Start, req.End, fallbackSteps)
		res.Fallback = true
		res.Err = err.Error()
		return res
	}
	res.Path = path
	return res
}

// DeferredPlanner resolves requests synchronously on the next Poll, in
// submission order. It is deterministic and used for tests and replay.
type DeferredPlanner struct {
	grid  pathfind.Grid
	steps int
	queue []tasks.PathRequest
}

func NewDeferredPlanner(g pathfind.Grid, fallbackSteps int) *DeferredPlanner {
	return &DeferredPlanner{grid: g, steps: fallbackSteps}
}

func (p *DeferredPlanner) Submit(req tasks.PathRequest) { p.queue = append(p.queue, req) }

func (p *DeferredPlanner) Poll() []tasks.PathResult {
	if len(p.queue) == 0 {
		return nil
	}
	out := make([]tasks.PathResult, 0, len(p.queue))
	for _, req := range p.queue {
		out = append(out, resolvePath(p.grid, req, p.steps))
	}
	p.queue = p.queue[:0]
	return out
}

// AsyncPlanner resolves requests on a fixed pool of goroutines. Completion
// order is not deterministic.
type AsyncPlanner struct {
	grid  pathfind.Grid
	steps int

	reqs chan tasks.PathRequest
	done chan tasks.PathResult

	// overflow holds results computed inline when the request queue is full.
	overflow []tasks.PathResult

	wg sync.WaitGroup
}

func NewAsyncPlanner(ctx context.Context, g pathfind.Grid, fallbackSteps, workers int) *AsyncPlanner {
	if workers <= 0 {
		workers = 1
	}
	p := &AsyncPlanner{
		grid:  g,
		steps: fallbackSteps,
		reqs:  make(chan tasks.PathRequest, 256),
		done:  make(chan tasks.PathResult, 256),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.loop(ctx)
	}
	return p
}

func (p *AsyncPlanner) loop(ctx context.Context) {
	defer p.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-p.reqs:
			res := resolvePath(p.grid, req, p.steps)
			select {
			case p.done <- res:
			case <-ctx.Done():
				return
			}
		}
	}
}

func (p *AsyncPlanner) Submit(req tasks.PathRequest) {
	select {
	case p.reqs <- req:
	default:
		p.overflow = append(p.overflow, resolvePath(p.grid, req, p.steps))
	}
}

func (p *AsyncPlanner) Poll() []tasks.PathResult {
	out := p.overflow
	p.overflow = nil
	for {
		select {
		case res := <-p.done:
			out = append(out, res)
		default:
			return out
		}
	}
}

// Wait blocks until every pool goroutine has exited after ctx is cancelled.
func (p *AsyncPlanner) Wait() { p.wg.Wait() }
