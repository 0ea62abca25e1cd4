package protocol

// Player actions carried by ACT.
const (
	ActPlaceFoundation = "PLACE_FOUNDATION"
	ActPlantCrop       = "PLANT_CROP"
	ActHarvest         = "HARVEST"
	ActSpawnWorker     = "SPAWN_WORKER"
	ActSpawnAnimal     = "SPAWN_ANIMAL"
	ActDemolish        = "DEMOLISH"
	ActSetSpeed        = "SET_SPEED"
	ActSetIdleWeights  = "SET_IDLE_WEIGHTS"
	ActGather          = "GATHER"
	ActFrighten        = "FRIGHTEN"
	ActClaimResources  = "CLAIM_RESOURCES"
	ActSetMode         = "SET_MODE"
)

var knownActions = map[string]struct{}{
	ActPlaceFoundation: {},
	ActPlantCrop:       {},
	ActHarvest:         {},
	ActSpawnWorker:     {},
	ActSpawnAnimal:     {},
	ActDemolish:        {},
	ActSetSpeed:        {},
	ActSetIdleWeights:  {},
	ActGather:          {},
	ActFrighten:        {},
	ActClaimResources:  {},
	ActSetMode:         {},
}

func IsKnownAction(a string) bool {
	_, ok := knownActions[a]
	return ok
}

// ACT (client -> server)
type ActMsg struct {
	Type            string    `json:"type"`
	ProtocolVersion string    `json:"protocol_version"`
	Tick            uint64    `json:"tick"`
	ID              string    `json:"id"`
	Action          string    `json:"action"`
	Params          ActParams `json:"params"`
}

// ActParams is the union of every action's arguments; each action reads only
// the fields it needs.
type ActParams struct {
	Pos      *[3]float64  `json:"pos,omitempty"`
	Kind     string       `json:"kind,omitempty"` // building, crop or animal type
	TargetID string       `json:"target_id,omitempty"`
	Speed    int          `json:"speed,omitempty"`
	Weights  *IdleWeights `json:"weights,omitempty"`
	Mode     string       `json:"mode,omitempty"`
}

type IdleWeights struct {
	Rest   float64 `json:"rest"`
	Cheer  float64 `json:"cheer"`
	Wander float64 `json:"wander"`
}
