package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const Version = 1

type Header struct {
	Version int    `json:"version"`
	WorldID string `json:"world_id"`
	Tick    uint64 `json:"tick"`
}

type SnapshotV1 struct {
	Header Header `json:"header"`

	Seed     int64  `json:"seed"`
	TickRate int    `json:"tick_rate_hz"`
	RNGDraws uint64 `json:"rng_draws"`

	Time  float64 `json:"time"`
	Speed int     `json:"speed"`

	Resources           ResourcesV1 `json:"resources"`
	Player              PlayerV1    `json:"player"`
	IdleWeights         WeightsV1   `json:"idle_weights"`
	PersonalityVariance float64     `json:"personality_variance"`

	Mode     string `json:"mode,omitempty"`
	ModeType string `json:"mode_type,omitempty"`

	PollTimer     float64 `json:"poll_timer"`
	EvacuateTimer float64 `json:"evacuate_timer"`

	Workers    []WorkerV1    `json:"workers"`
	Structures []StructureV1 `json:"structures"`
	Crops      []CropV1      `json:"crops"`
	Animals    []AnimalV1    `json:"animals"`
	Nodes      []NodeV1      `json:"nodes"`

	// Paths still being planned; re-submitted on import.
	PendingPaths []PathRequestV1 `json:"pending_paths,omitempty"`

	Counters CountersV1 `json:"counters"`
}

type ResourcesV1 struct {
	Stone   int `json:"stone"`
	Wood    int `json:"wood"`
	Food    int `json:"food"`
	Gold    int `json:"gold"`
	Workers int `json:"workers"`
}

type PlayerV1 struct {
	Name  string `json:"name"`
	Level int    `json:"level"`
	Exp   int    `json:"exp"`
}

type WeightsV1 struct {
	Rest   float64 `json:"rest"`
	Cheer  float64 `json:"cheer"`
	Wander float64 `json:"wander"`
}

type CountersV1 struct {
	NextWorker    uint64 `json:"next_worker"`
	NextStructure uint64 `json:"next_structure"`
	NextAnimal    uint64 `json:"next_animal"`
	NextCrop      uint64 `json:"next_crop"`
	NextNode      uint64 `json:"next_node"`
	NextPath      uint64 `json:"next_path"`
}

type WorkerV1 struct {
	ID          string       `json:"id"`
	Pos         [3]float64   `json:"pos"`
	Yaw         float64      `json:"yaw"`
	State       string       `json:"state"`
	HP          int          `json:"hp"`
	Path        [][3]float64 `json:"path,omitempty"`
	PathIndex   int          `json:"path_index,omitempty"`
	Target      string       `json:"target,omitempty"`
	Demolishing bool         `json:"demolishing,omitempty"`
	WorkTime    float64      `json:"work_time,omitempty"`
	Idle        string       `json:"idle,omitempty"`
	IdleTimer   float64      `json:"idle_timer,omitempty"`
	Weights     WeightsV1    `json:"weights"`
	Evacuating  bool         `json:"evacuating,omitempty"`
	PathReq     uint64       `json:"path_req,omitempty"`
}

type StructureV1 struct {
	ID        string         `json:"id"`
	Kind      string         `json:"kind"`
	Type      string         `json:"type"`
	Pos       [3]float64     `json:"pos"`
	Size      [3]float64     `json:"size"`
	Price     map[string]int `json:"price,omitempty"`
	Progress  float64        `json:"progress,omitempty"`
	Completed bool           `json:"completed,omitempty"`
	Walkable  bool           `json:"walkable,omitempty"`
	Crops     []string       `json:"crops,omitempty"`
}

type CropV1 struct {
	ID         string  `json:"id"`
	Type       string  `json:"type"`
	FarmID     string  `json:"farm_id"`
	PlantTime  float64 `json:"plant_time"`
	MatureTime float64 `json:"mature_time"`
	Fill       float64 `json:"fill"`
	IsMature   bool    `json:"is_mature,omitempty"`
}

type AnimalV1 struct {
	ID           string     `json:"id"`
	Type         string     `json:"type"`
	Pos          [3]float64 `json:"pos"`
	Yaw          float64    `json:"yaw"`
	State        string     `json:"state"`
	WanderTarget [3]float64 `json:"wander_target"`
	RunTarget    [3]float64 `json:"run_target"`
	RunSpeed     float64    `json:"run_speed,omitempty"`
	RunTimer     float64    `json:"run_timer,omitempty"`
	WaitTimer    float64    `json:"wait_timer,omitempty"`
}

type NodeV1 struct {
	ID   string     `json:"id"`
	Type string     `json:"type"`
	Pos  [3]float64 `json:"pos"`
}

type PathRequestV1 struct {
	ID       uint64     `json:"id"`
	AgentID  string     `json:"agent_id"`
	Purpose  string     `json:"purpose"`
	TargetID string     `json:"target_id,omitempty"`
	End      [3]float64 `json:"end"`
}

func WriteSnapshot(path string, snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}
	defer enc.Close()

	bw := bufio.NewWriterSize(enc, 256*1024)
	defer bw.Flush()

	hb, _ := json.Marshal(snap.Header)
	if _, err := bw.Write(hb); err != nil {
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		return fmt.Errorf("gob encode: %w", err)
	}
	return nil
}

func ReadSnapshot(path string) (SnapshotV1, error) {
	var snap SnapshotV1
	f, err := os.Open(path)
	if err != nil {
		return snap, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, err
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 256*1024)

	// Read header line (ignore it for now, gob also contains header).
	_, _ = br.ReadBytes('\n')

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, fmt.Errorf("gob decode: %w", err)
	}
	return snap, nil
}
