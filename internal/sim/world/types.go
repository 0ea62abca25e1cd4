package world

import (
	"slowtown.ai/internal/sim/tasks"
	"slowtown.ai/internal/sim/world/logic/ledger"
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/personality"
)

type WorkerState string

const (
	WorkerIdle      WorkerState = "idle"
	WorkerWandering WorkerState = "wandering"
	WorkerMoving    WorkerState = "moving"
	WorkerWorking   WorkerState = "working"
)

type Worker struct {
	ID    string
	Pos   mathx.Vec3
	Yaw   float64
	State WorkerState
	HP    int

	Path      []mathx.Vec3
	PathIndex int

	// Target is a structure ID. A miss on lookup means the structure is gone.
	Target      string
	Demolishing bool
	WorkTime    float64

	Idle      personality.Behavior
	IdleTimer float64
	Weights   personality.Weights

	// Evacuating marks a wander started by the crowd controller.
	Evacuating bool

	// PathReq is the in-flight path request, 0 when none.
	PathReq     uint64
	PathPurpose tasks.Purpose
}

func (wk *Worker) clone() Worker {
	c := *wk
	c.Path = append([]mathx.Vec3(nil), wk.Path...)
	return c
}

func (wk *Worker) alive() bool { return wk != nil && wk.HP > 0 }

// interruptible reports whether idle behaviour may be replaced by work.
func (wk *Worker) interruptible() bool {
	return wk.State == WorkerIdle || wk.State == WorkerWandering
}

type StructureKind string

const (
	KindFoundation StructureKind = "foundation"
	KindBuilding   StructureKind = "building"
)

type Structure struct {
	ID   string
	Kind StructureKind
	// Type is the building type; for a foundation it is the type being built.
	Type string
	Pos  mathx.Vec3
	Size [3]float64
	// Price is what was paid; demolition refunds half of it.
	Price ledger.Amounts

	Progress  float64
	Completed bool
	Walkable  bool

	Crops []string
}

func (s *Structure) clone() Structure {
	c := *s
	c.Crops = append([]string(nil), s.Crops...)
	return c
}

// ForType is the building a foundation turns into.
func (s *Structure) ForType() string { return s.Type }

func (s *Structure) buildable() bool {
	return s != nil && s.Kind == KindFoundation && !s.Completed
}

func (s *Structure) demolishable() bool {
	return s != nil && (s.Kind != KindFoundation || s.Completed)
}

type Crop struct {
	ID         string
	Type       string
	FarmID     string
	PlantTime  float64
	MatureTime float64
	Fill       float64
	IsMature   bool
}

type AnimalState string

const (
	AnimalIdle      AnimalState = "idle"
	AnimalWandering AnimalState = "wandering"
	AnimalRunning   AnimalState = "running"
)

type Animal struct {
	ID           string
	Type         string
	Pos          mathx.Vec3
	Yaw          float64
	State        AnimalState
	WanderTarget mathx.Vec3
	RunTarget    mathx.Vec3
	RunSpeed     float64
	RunTimer     float64
	WaitTimer    float64
}

type Node struct {
	ID   string
	Type string
	Pos  mathx.Vec3
}

type PendingMode string

const (
	ModeNone        PendingMode = "none"
	ModeBuild       PendingMode = "build"
	ModePlant       PendingMode = "plant"
	ModeDemolish    PendingMode = "demolish"
	ModeSpawnAnimal PendingMode = "spawn_animal"
)

func parseMode(s string) (PendingMode, bool) {
	switch PendingMode(s) {
	case "", ModeNone:
		return ModeNone, true
	case ModeBuild, ModePlant, ModeDemolish, ModeSpawnAnimal:
		return PendingMode(s), true
	}
	return "", false
}
