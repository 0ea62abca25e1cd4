// Package crowd plans density-balancing redirections: agents in an over-populated
// square cell are sent toward the nearest cell that still has room.
package crowd

import (
	"math"
	"math/rand"
	"sort"

	"slowtown.ai/internal/sim/world/logic/mathx"
)

type Config struct {
	CellSize float64
	Cap      int
	// Limit is the half extent of the playable square; cells whose centre lies
	// beyond it are never chosen as targets.
	Limit float64

	FallbackMin float64
	FallbackMax float64
}

func DefaultConfig() Config {
	return Config{CellSize: 10, Cap: 2, Limit: 145, FallbackMin: 20, FallbackMax: 50}
}

type Cell struct {
	Col int
	Row int
}

type Agent struct {
	X, Z float64
	// Busy agents are counted but never redirected.
	Busy bool
}

type Redirect struct {
	Agent    int
	X, Z     float64
	Fallback bool
}

func (c Config) CellOf(x, z float64) Cell {
	return Cell{
		Col: int(math.Floor((x + c.Limit) / c.CellSize)),
		Row: int(math.Floor((z + c.Limit) / c.CellSize)),
	}
}

func (c Config) Center(cell Cell) (x, z float64) {
	x = float64(cell.Col)*c.CellSize - c.Limit + c.CellSize/2
	z = float64(cell.Row)*c.CellSize - c.Limit + c.CellSize/2
	return x, z
}

func (c Config) span() int {
	return int(math.Ceil(2 * c.Limit / c.CellSize))
}

func Count(agents []Agent, cfg Config) map[Cell]int {
	counts := make(map[Cell]int, len(agents))
	for _, a := range agents {
		counts[cfg.CellOf(a.X, a.Z)]++
	}
	return counts
}

// Plan returns the redirections for one balancing pass. Over-cap cells are
// visited in row/col order; their non-busy occupants are shuffled with r and
// the first count-cap of them are moved. Counts are updated as each move is
// planned so later choices see earlier ones.
func Plan(agents []Agent, cfg Config, r *rand.Rand) []Redirect {
	if cfg.CellSize <= 0 || cfg.Cap <= 0 || len(agents) == 0 {
		return nil
	}
	counts := Count(agents, cfg)
	occupants := map[Cell][]int{}
	for i, a := range agents {
		c := cfg.CellOf(a.X, a.Z)
		occupants[c] = append(occupants[c], i)
	}
	crowded := make([]Cell, 0)
	for c, idx := range occupants {
		if len(idx) > cfg.Cap {
			crowded = append(crowded, c)
		}
	}
	sort.Slice(crowded, func(i, j int) bool {
		if crowded[i].Row != crowded[j].Row {
			return crowded[i].Row < crowded[j].Row
		}
		return crowded[i].Col < crowded[j].Col
	})

	var out []Redirect
	for _, c := range crowded {
		idx := occupants[c]
		excess := len(idx) - cfg.Cap
		eligible := make([]int, 0, len(idx))
		for _, i := range idx {
			if !agents[i].Busy {
				eligible = append(eligible, i)
			}
		}
		r.Shuffle(len(eligible), func(i, j int) { eligible[i], eligible[j] = eligible[j], eligible[i] })
		if excess > len(eligible) {
			excess = len(eligible)
		}
		for _, i := range eligible[:excess] {
			a := agents[i]
			rd := Redirect{Agent: i}
			if target, ok := nearestOpen(cfg, counts, a); ok {
				rd.X, rd.Z = cfg.Center(target)
				counts[target]++
			} else {
				rd.X, rd.Z = fallbackPoint(cfg, r, a)
				rd.Fallback = true
				counts[cfg.CellOf(rd.X, rd.Z)]++
			}
			counts[c]--
			out = append(out, rd)
		}
	}
	return out
}

// nearestOpen picks the under-cap cell with the fewest occupants, then the
// nearest centre.
func nearestOpen(cfg Config, counts map[Cell]int, a Agent) (Cell, bool) {
	n := cfg.span()
	var (
		best      Cell
		bestCount int
		bestDist  float64
		found     bool
	)
	for row := 0; row < n; row++ {
		for col := 0; col < n; col++ {
			c := Cell{Col: col, Row: row}
			cx, cz := cfg.Center(c)
			if math.Abs(cx) > cfg.Limit || math.Abs(cz) > cfg.Limit {
				continue
			}
			cnt := counts[c]
			if cnt >= cfg.Cap {
				continue
			}
			d := math.Hypot(cx-a.X, cz-a.Z)
			if !found || cnt < bestCount || (cnt == bestCount && d < bestDist) {
				best, bestCount, bestDist, found = c, cnt, d, true
			}
		}
	}
	return best, found
}

func fallbackPoint(cfg Config, r *rand.Rand, a Agent) (x, z float64) {
	angle := r.Float64() * 2 * math.Pi
	dist := cfg.FallbackMin + r.Float64()*(cfg.FallbackMax-cfg.FallbackMin)
	x = mathx.Clamp(a.X+math.Cos(angle)*dist, -cfg.Limit, cfg.Limit)
	z = mathx.Clamp(a.Z+math.Sin(angle)*dist, -cfg.Limit, cfg.Limit)
	return x, z
}
