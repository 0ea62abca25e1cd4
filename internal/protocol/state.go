package protocol

// STATE (server -> client): a full view of the town, sent every
// state_every_ticks.
type StateMsg struct {
	Type            string          `json:"type"`
	ProtocolVersion string          `json:"protocol_version"`
	Tick            uint64          `json:"tick"`
	Time            float64         `json:"time"`
	Speed           int             `json:"speed"`
	Mode            string          `json:"mode,omitempty"`
	Resources       Resources       `json:"resources"`
	Player          PlayerView      `json:"player"`
	Workers         []WorkerView    `json:"workers"`
	Structures      []StructureView `json:"structures"`
	Animals         []AnimalView    `json:"animals"`
	Crops           []CropView      `json:"crops"`
	Nodes           []NodeView      `json:"nodes"`
}

type Resources struct {
	Stone   int `json:"stone"`
	Wood    int `json:"wood"`
	Food    int `json:"food"`
	Gold    int `json:"gold"`
	Workers int `json:"workers"`
}

type PlayerView struct {
	Name      string   `json:"name"`
	Level     int      `json:"level"`
	Exp       int      `json:"exp"`
	ExpToNext int      `json:"exp_to_next"`
	Unlocked  []string `json:"unlocked,omitempty"`
}

type WorkerView struct {
	ID          string     `json:"id"`
	Pos         [3]float64 `json:"pos"`
	Yaw         float64    `json:"yaw"`
	State       string     `json:"state"`
	HP          int        `json:"hp"`
	Target      string     `json:"target,omitempty"`
	Demolishing bool       `json:"demolishing,omitempty"`
	Idle        string     `json:"idle,omitempty"`
	Progress    float64    `json:"progress,omitempty"`
}

type StructureView struct {
	ID        string     `json:"id"`
	Kind      string     `json:"kind"`
	Type      string     `json:"type"`
	Pos       [3]float64 `json:"pos"`
	Size      [3]float64 `json:"size"`
	Progress  float64    `json:"progress,omitempty"`
	Completed bool       `json:"completed"`
	Crops     []string   `json:"crops,omitempty"`
}

type AnimalView struct {
	ID    string     `json:"id"`
	Type  string     `json:"type"`
	Pos   [3]float64 `json:"pos"`
	State string     `json:"state"`
}

type CropView struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	FarmID string  `json:"farm_id"`
	Fill   float64 `json:"fill"`
	Mature bool    `json:"mature"`
}

type NodeView struct {
	ID   string     `json:"id"`
	Type string     `json:"type"`
	Pos  [3]float64 `json:"pos"`
}
