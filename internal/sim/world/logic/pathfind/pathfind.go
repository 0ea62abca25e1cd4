package pathfind

import (
	"container/heap"
	"errors"
	"math"

	"slowtown.ai/internal/sim/world/logic/mathx"
)

var (
	ErrOutOfBounds = errors.New("pathfind: endpoint outside grid")
	ErrNoPath      = errors.New("pathfind: no path")
)

// Box is an axis-aligned obstacle footprint on the XZ plane.
type Box struct {
	MinX, MinZ float64
	MaxX, MaxZ float64
}

func (b Box) Expand(m float64) Box {
	return Box{MinX: b.MinX - m, MinZ: b.MinZ - m, MaxX: b.MaxX + m, MaxZ: b.MaxZ + m}
}

// Grid covers [-WorldSize/2, WorldSize/2) on X and Z with square cells.
// It carries no obstacle state, so one value can serve concurrent queries.
type Grid struct {
	WorldSize float64
	CellSize  float64
	Height    float64
}

func NewGrid(worldSize, cellSize, height float64) Grid {
	if cellSize <= 0 {
		cellSize = 1
	}
	if worldSize < cellSize {
		worldSize = cellSize
	}
	return Grid{WorldSize: worldSize, CellSize: cellSize, Height: height}
}

func (g Grid) Cols() int { return int(math.Ceil(g.WorldSize / g.CellSize)) }

type cell struct {
	col, row int
}

func (g Grid) half() float64 { return g.WorldSize / 2 }

// ToCell maps a world position to its cell; ok is false outside the grid.
func (g Grid) ToCell(p mathx.Vec3) (col, row int, ok bool) {
	col = int(math.Floor((p.X + g.half()) / g.CellSize))
	row = int(math.Floor((p.Z + g.half()) / g.CellSize))
	n := g.Cols()
	if col < 0 || row < 0 || col >= n || row >= n {
		return 0, 0, false
	}
	return col, row, true
}

// CellCenter returns the waypoint for a cell at the grid's fixed height.
func (g Grid) CellCenter(col, row int) mathx.Vec3 {
	return mathx.Vec3{
		X: float64(col)*g.CellSize - g.half() + g.CellSize/2,
		Y: g.Height,
		Z: float64(row)*g.CellSize - g.half() + g.CellSize/2,
	}
}

type neighbor struct {
	col, row int
	cost     float64
	diagonal bool
}

var neighborOffsets = [...]neighbor{
	{col: 0, row: -1, cost: 1},
	{col: 1, row: 0, cost: 1},
	{col: 0, row: 1, cost: 1},
	{col: -1, row: 0, cost: 1},
	{col: 1, row: -1, cost: math.Sqrt2, diagonal: true},
	{col: 1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: 1, cost: math.Sqrt2, diagonal: true},
	{col: -1, row: -1, cost: math.Sqrt2, diagonal: true},
}

type navMap struct {
	n       int
	blocked []bool
}

func (g Grid) build(obstacles []Box) *navMap {
	n := g.Cols()
	m := &navMap{n: n, blocked: make([]bool, n*n)}
	clampIdx := func(v int) int {
		if v < 0 {
			return 0
		}
		if v >= n {
			return n - 1
		}
		return v
	}
	for _, b := range obstacles {
		c0 := int(math.Floor((b.MinX + g.half()) / g.CellSize))
		c1 := int(math.Floor((b.MaxX + g.half()) / g.CellSize))
		r0 := int(math.Floor((b.MinZ + g.half()) / g.CellSize))
		r1 := int(math.Floor((b.MaxZ + g.half()) / g.CellSize))
		if c1 < 0 || r1 < 0 || c0 >= n || r0 >= n {
			continue
		}
		c0, c1, r0, r1 = clampIdx(c0), clampIdx(c1), clampIdx(r0), clampIdx(r1)
		for r := r0; r <= r1; r++ {
			for c := c0; c <= c1; c++ {
				m.blocked[r*n+c] = true
			}
		}
	}
	return m
}

func (m *navMap) inBounds(c cell) bool {
	return c.col >= 0 && c.row >= 0 && c.col < m.n && c.row < m.n
}

func (m *navMap) walkable(c cell) bool {
	return m.inBounds(c) && !m.blocked[c.row*m.n+c.col]
}

// canTraverseDiagonal forbids squeezing between two blocked orthogonal cells.
func (m *navMap) canTraverseDiagonal(cur cell, d neighbor) bool {
	if !d.diagonal {
		return true
	}
	return m.walkable(cell{col: cur.col + d.col, row: cur.row}) &&
		m.walkable(cell{col: cur.col, row: cur.row + d.row})
}

func (m *navMap) closestWalkable(start cell) (cell, bool) {
	visited := map[cell]bool{start: true}
	queue := []cell{start}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if m.walkable(cur) {
			return cur, true
		}
		for _, d := range neighborOffsets {
			next := cell{col: cur.col + d.col, row: cur.row + d.row}
			if !m.inBounds(next) || visited[next] {
				continue
			}
			visited[next] = true
			queue = append(queue, next)
		}
	}
	return cell{}, false
}

// FindPath plans from start to end around the obstacle boxes, which are
// rasterised fresh for this query. The result holds cell-centre waypoints,
// excluding the start cell.
func (g Grid) FindPath(start, end mathx.Vec3, obstacles []Box) ([]mathx.Vec3, error) {
	sc, sr, ok1 := g.ToCell(start)
	ec, er, ok2 := g.ToCell(end)
	if !ok1 || !ok2 {
		return nil, ErrOutOfBounds
	}
	m := g.build(obstacles)
	from := cell{col: sc, row: sr}
	goal := cell{col: ec, row: er}
	if !m.walkable(goal) {
		return nil, ErrNoPath
	}
	if !m.walkable(from) {
		var ok bool
		if from, ok = m.closestWalkable(from); !ok {
			return nil, ErrNoPath
		}
	}
	cells, ok := m.astar(from, goal)
	if !ok {
		return nil, ErrNoPath
	}
	if len(cells) > 1 {
		cells = cells[1:]
	}
	out := make([]mathx.Vec3, 0, len(cells))
	for _, c := range cells {
		out = append(out, g.CellCenter(c.col, c.row))
	}
	return out, nil
}

func heuristic(a, b cell) float64 {
	dx := math.Abs(float64(a.col - b.col))
	dy := math.Abs(float64(a.row - b.row))
	if dx > dy {
		return dx + (math.Sqrt2-1)*dy
	}
	return dy + (math.Sqrt2-1)*dx
}

type pathNode struct {
	c      cell
	g      float64
	f      float64
	index  int
	parent *pathNode
}

type pathQueue []*pathNode

func (pq pathQueue) Len() int { return len(pq) }

func (pq pathQueue) Less(i, j int) bool { return pq[i].f < pq[j].f }

func (pq pathQueue) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].index = i
	pq[j].index = j
}

func (pq *pathQueue) Push(x any) {
	item := x.(*pathNode)
	item.index = len(*pq)
	*pq = append(*pq, item)
}

func (pq *pathQueue) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.index = -1
	*pq = old[:n-1]
	return item
}

func (m *navMap) astar(start, goal cell) ([]cell, bool) {
	open := &pathQueue{}
	heap.Init(open)
	heap.Push(open, &pathNode{c: start, f: heuristic(start, goal)})
	gScore := map[cell]float64{start: 0}
	closed := map[cell]bool{}

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if closed[cur.c] {
			continue
		}
		closed[cur.c] = true
		if cur.c == goal {
			return reconstructPath(cur), true
		}
		for _, d := range neighborOffsets {
			next := cell{col: cur.c.col + d.col, row: cur.c.row + d.row}
			if !m.walkable(next) || closed[next] {
				continue
			}
			if !m.canTraverseDiagonal(cur.c, d) {
				continue
			}
			tentative := cur.g + d.cost
			if prev, ok := gScore[next]; ok && tentative >= prev {
				continue
			}
			gScore[next] = tentative
			heap.Push(open, &pathNode{
				c:      next,
				g:      tentative,
				f:      tentative + heuristic(next, goal),
				parent: cur,
			})
		}
	}
	return nil, false
}

func reconstructPath(n *pathNode) []cell {
	var rev []cell
	for cur := n; cur != nil; cur = cur.parent {
		rev = append(rev, cur.c)
	}
	out := make([]cell, len(rev))
	for i := range rev {
		out[i] = rev[len(rev)-1-i]
	}
	return out
}

// Line is the straight-line fallback: steps evenly spaced points ending at end.
func Line(start, end mathx.Vec3, steps int) []mathx.Vec3 {
	if steps < 1 {
		steps = 1
	}
	out := make([]mathx.Vec3, 0, steps)
	for i := 1; i <= steps; i++ {
		out = append(out, mathx.Lerp(start, end, float64(i)/float64(steps)))
	}
	return out
}
