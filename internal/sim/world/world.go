package world

import (
	"fmt"
	"log"
	"math"
	"math/rand"
	"sync/atomic"

	"slowtown.ai/internal/persistence/snapshot"
	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/catalogs"
	"slowtown.ai/internal/sim/gameconfig"
	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/tuning"
	"slowtown.ai/internal/sim/world/logic/crowd"
	"slowtown.ai/internal/sim/world/logic/ids"
	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/pathfind"
	"slowtown.ai/internal/sim/world/logic/personality"
	"slowtown.ai/internal/sim/world/logic/progression"
	"slowtown.ai/internal/sim/world/logic/rates"
)

type WorldConfig struct {
	ID     string
	Seed   int64
	Tuning tuning.Tuning
	Game   gameconfig.Config

	// Logger receives allocator and lifecycle diagnostics. Nil disables them.
	Logger *log.Logger
}

type JoinRequest struct {
	SessionID   string
	ResumeToken string
	Name        string
	NoState     bool
	Out         chan []byte
	Resp        chan JoinResponse
}

type JoinResponse struct {
	Welcome  protocol.WelcomeMsg
	Catalogs []protocol.CatalogMsg
}

type ActionEnvelope struct {
	SessionID string
	Act       protocol.ActMsg
}

type RecordedAction struct {
	SessionID string          `json:"session_id,omitempty"`
	Act       protocol.ActMsg `json:"act"`
}

type TickLogEntry struct {
	Tick    uint64           `json:"tick"`
	Time    float64          `json:"time"`
	Actions []RecordedAction `json:"actions,omitempty"`
	Digest  string           `json:"digest"`
}

type TickLogger interface {
	WriteTick(entry TickLogEntry) error
}

type NoticeLogger interface {
	WriteNotice(n Notice) error
}

type clientState struct {
	Name    string
	NoState bool
	Out     chan []byte

	acts rates.Window
}

// World is a single-threaded authoritative simulation.
// All state must be accessed only from the world loop goroutine.
type World struct {
	cfg      WorldConfig
	tune     tuning.Tuning
	catalogs *catalogs.Catalogs
	grid     pathfind.Grid
	crowdCfg crowd.Config
	logger   *log.Logger

	tick atomic.Uint64

	src *countingSource
	rng *rand.Rand

	store      *ledger.Store
	time       float64
	speed      int
	prog       progression.Progress
	playerName string

	buildingUnlocks progression.Unlocks
	cropUnlocks     progression.Unlocks
	animalUnlocks   progression.Unlocks

	idleWeights personality.Weights
	variance    float64

	mode     PendingMode
	modeType string

	workers        map[string]*Worker
	workerOrder    []string
	structures     map[string]*Structure
	structureOrder []string
	animals        map[string]*Animal
	animalOrder    []string
	crops          map[string]*Crop
	cropOrder      []string
	nodes          map[string]*Node
	nodeOrder      []string

	nextWorker    uint64
	nextStructure uint64
	nextAnimal    uint64
	nextCrop      uint64
	nextNode      uint64
	nextPath      uint64

	pollTimer     float64
	evacuateTimer float64

	planner Planner
	pending map[uint64]tasks.PathRequest

	notifier     Notifier
	noticeBuf    []Notice
	noticeLogger NoticeLogger
	tickLogger   TickLogger
	snapshotSink chan<- snapshot.SnapshotV1

	clients map[string]*clientState

	inbox chan ActionEnvelope
	join  chan JoinRequest
	leave chan string
	admin chan adminSnapshotReq
	stop  chan struct{}

	metrics atomic.Value
}

func New(cfg WorldConfig, cats *catalogs.Catalogs) (*World, error) {
	if cats == nil {
		return nil, fmt.Errorf("world: nil catalogs")
	}
	tune := cfg.Tuning
	if tune.TickRateHz == 0 {
		tune = tuning.Defaults()
	}
	if err := tune.Validate(); err != nil {
		return nil, fmt.Errorf("world: %w", err)
	}
	game := cfg.Game
	if game.Player.Level == 0 {
		game = gameconfig.Defaults()
	}
	game.Normalize()
	cfg.Tuning = tune
	cfg.Game = game

	src := newCountingSource(cfg.Seed)
	w := &World{
		cfg:      cfg,
		tune:     tune,
		catalogs: cats,
		grid:     pathfind.NewGrid(tune.Pathing.WorldSize, tune.Pathing.CellSize, tune.Movement.GroundHeight),
		crowdCfg: crowd.Config{
			CellSize:    tune.Evacuate.CellSize,
			Cap:         tune.Evacuate.Cap,
			Limit:       tune.Evacuate.Limit,
			FallbackMin: tune.Evacuate.FallbackMin,
			FallbackMax: tune.Evacuate.FallbackMax,
		},
		logger:     cfg.Logger,
		src:        src,
		rng:        rand.New(src),
		store:      ledger.NewStore(game.Resources),
		speed:      1,
		prog:       progression.Progress{Level: game.Player.Level, Exp: game.Player.Exp},
		playerName: game.Player.Name,

		buildingUnlocks: progression.NewUnlocks(cats.Buildings.UnlockOrder),
		cropUnlocks:     progression.NewUnlocks(cats.Crops.UnlockOrder),
		animalUnlocks:   progression.NewUnlocks(cats.Animals.UnlockOrder),

		idleWeights: game.IdleWeights,
		variance:    game.PersonalityVariance,

		workers:    map[string]*Worker{},
		structures: map[string]*Structure{},
		animals:    map[string]*Animal{},
		crops:      map[string]*Crop{},
		nodes:      map[string]*Node{},
		pending:    map[uint64]tasks.PathRequest{},
		clients:    map[string]*clientState{},

		inbox: make(chan ActionEnvelope, 1024),
		join:  make(chan JoinRequest, 64),
		leave: make(chan string, 64),
		admin: make(chan adminSnapshotReq, 16),
		stop:  make(chan struct{}),
	}
	// A level-1 start must still satisfy the exp invariant.
	w.prog.AddExp(0)
	w.planner = NewDeferredPlanner(w.grid, tune.Pathing.FallbackSteps)

	for _, st := range game.Starters {
		def, ok := cats.Buildings.ByID[st.Type]
		if !ok {
			return nil, fmt.Errorf("world: unknown starter type %q", st.Type)
		}
		w.insertStructure(&Structure{
			Kind:      KindBuilding,
			Type:      def.ID,
			Pos:       mathx.Vec3{X: st.Pos[0], Y: st.Pos[1], Z: st.Pos[2]},
			Size:      def.Size,
			Price:     def.Price,
			Completed: true,
			Walkable:  def.Walkable,
		})
	}
	w.scatterNodes()
	return w, nil
}

func (w *World) SetTickLogger(l TickLogger)                    { w.tickLogger = l }
func (w *World) SetNoticeLogger(l NoticeLogger)                { w.noticeLogger = l }
func (w *World) SetSnapshotSink(ch chan<- snapshot.SnapshotV1) { w.snapshotSink = ch }
func (w *World) SetNotifier(n Notifier)                        { w.notifier = n }

// SetPlanner replaces the path planner. Call it before Run; requests already
// queued on the old planner are resubmitted.
func (w *World) SetPlanner(p Planner) {
	if p == nil {
		return
	}
	w.planner = p
	for _, id := range w.pendingIDs() {
		p.Submit(w.pending[id])
	}
}

func (w *World) Inbox() chan<- ActionEnvelope { return w.inbox }
func (w *World) Join() chan<- JoinRequest     { return w.join }
func (w *World) Leave() chan<- string         { return w.leave }

func (w *World) CurrentTick() uint64 { return w.tick.Load() }

func (w *World) ID() string {
	if w == nil {
		return ""
	}
	return w.cfg.ID
}

func (w *World) TickRateHz() int {
	if w == nil {
		return 0
	}
	return w.tune.TickRateHz
}

func (w *World) Tuning() tuning.Tuning { return w.tune }
func (w *World) Seed() int64           { return w.cfg.Seed }

// Grid is the navigation grid planners search on.
func (w *World) Grid() pathfind.Grid { return w.grid }

// ---- read accessors (value copies) ----

func (w *World) Resources() ledger.Amounts { return w.store.Balance() }
func (w *World) Level() int                { return w.prog.Level }
func (w *World) Exp() int                  { return w.prog.Exp }
func (w *World) PlayerName() string        { return w.playerName }
func (w *World) Speed() int                { return w.speed }
func (w *World) Time() float64             { return w.time }

func (w *World) Workers() []Worker {
	out := make([]Worker, 0, len(w.workerOrder))
	for _, id := range w.workerOrder {
		out = append(out, w.workers[id].clone())
	}
	return out
}

func (w *World) Structures() []Structure {
	out := make([]Structure, 0, len(w.structureOrder))
	for _, id := range w.structureOrder {
		out = append(out, w.structures[id].clone())
	}
	return out
}

func (w *World) Animals() []Animal {
	out := make([]Animal, 0, len(w.animalOrder))
	for _, id := range w.animalOrder {
		out = append(out, *w.animals[id])
	}
	return out
}

func (w *World) Crops() []Crop {
	out := make([]Crop, 0, len(w.cropOrder))
	for _, id := range w.cropOrder {
		out = append(out, *w.crops[id])
	}
	return out
}

func (w *World) Nodes() []Node {
	out := make([]Node, 0, len(w.nodeOrder))
	for _, id := range w.nodeOrder {
		out = append(out, *w.nodes[id])
	}
	return out
}

func (w *World) Worker(id string) (Worker, bool) {
	wk := w.workers[id]
	if wk == nil {
		return Worker{}, false
	}
	return wk.clone(), true
}

func (w *World) Structure(id string) (Structure, bool) {
	s := w.structures[id]
	if s == nil {
		return Structure{}, false
	}
	return s.clone(), true
}

// CrewSize is the number of workers whose target is structureID.
func (w *World) CrewSize(structureID string) int { return w.crewCount(structureID, "") }

// ---- arena ----

func (w *World) insertWorker(wk *Worker) {
	if wk.ID == "" {
		w.nextWorker++
		wk.ID = ids.Format(ids.PrefixWorker, w.nextWorker)
	}
	w.workers[wk.ID] = wk
	w.workerOrder = append(w.workerOrder, wk.ID)
}

func (w *World) insertStructure(s *Structure) {
	if s.ID == "" {
		w.nextStructure++
		s.ID = ids.Format(ids.PrefixStructure, w.nextStructure)
	}
	w.structures[s.ID] = s
	w.structureOrder = append(w.structureOrder, s.ID)
}

func (w *World) insertAnimal(a *Animal) {
	if a.ID == "" {
		w.nextAnimal++
		a.ID = ids.Format(ids.PrefixAnimal, w.nextAnimal)
	}
	w.animals[a.ID] = a
	w.animalOrder = append(w.animalOrder, a.ID)
}

func (w *World) insertCrop(c *Crop) {
	if c.ID == "" {
		w.nextCrop++
		c.ID = ids.Format(ids.PrefixCrop, w.nextCrop)
	}
	w.crops[c.ID] = c
	w.cropOrder = append(w.cropOrder, c.ID)
}

func (w *World) insertNode(n *Node) {
	if n.ID == "" {
		w.nextNode++
		n.ID = ids.Format(ids.PrefixNode, w.nextNode)
	}
	w.nodes[n.ID] = n
	w.nodeOrder = append(w.nodeOrder, n.ID)
}

func removeID(order []string, id string) []string {
	for i, v := range order {
		if v == id {
			return append(order[:i], order[i+1:]...)
		}
	}
	return order
}

// removeStructure deletes a structure and its crops. Callers must clear worker
// targets first.
func (w *World) removeStructure(id string) {
	s := w.structures[id]
	if s == nil {
		return
	}
	for _, cid := range s.Crops {
		delete(w.crops, cid)
		w.cropOrder = removeID(w.cropOrder, cid)
	}
	delete(w.structures, id)
	w.structureOrder = removeID(w.structureOrder, id)
}

func (w *World) removeCrop(id string) {
	c := w.crops[id]
	if c == nil {
		return
	}
	if farm := w.structures[c.FarmID]; farm != nil {
		farm.Crops = removeID(farm.Crops, id)
	}
	delete(w.crops, id)
	w.cropOrder = removeID(w.cropOrder, id)
}

// clampToWorld keeps a point inside the playable square.
func (w *World) clampToWorld(p mathx.Vec3) mathx.Vec3 {
	lim := w.crowdCfg.Limit
	p.X = mathx.Clamp(p.X, -lim, lim)
	p.Z = mathx.Clamp(p.Z, -lim, lim)
	return p
}

// randRange draws uniformly from [lo, hi).
func (w *World) randRange(lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + w.rng.Float64()*(hi-lo)
}

func (w *World) randAngle() float64 { return w.rng.Float64() * 2 * math.Pi }

func (w *World) logf(format string, args ...any) {
	if w.logger != nil {
		w.logger.Printf(format, args...)
	}
}
