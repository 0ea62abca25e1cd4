package tuning

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Tuning holds the engine constants. Values missing from tuning.yaml keep their
// Defaults().
type Tuning struct {
	ProtocolVersion string `yaml:"protocol_version"`

	TickRateHz         int     `yaml:"tick_rate_hz"`
	MaxStepSecs        float64 `yaml:"max_step_secs"`
	SnapshotEveryTicks int     `yaml:"snapshot_every_ticks"`
	StateEveryTicks    int     `yaml:"state_every_ticks"`

	Work     WorkTuning     `yaml:"work"`
	Movement MovementTuning `yaml:"movement"`
	Idle     IdleTuning     `yaml:"idle"`
	Evacuate EvacuateTuning `yaml:"evacuate"`
	Pathing  PathingTuning  `yaml:"pathing"`
	Animals  AnimalTuning   `yaml:"animals"`
	Economy  EconomyTuning  `yaml:"economy"`
	Limits   LimitsTuning   `yaml:"limits"`
}

type WorkTuning struct {
	CrewCap          int     `yaml:"crew_cap"`
	CycleSecs        float64 `yaml:"cycle_secs"`
	ProgressPerCycle float64 `yaml:"progress_per_cycle"`
	HPPerCycle       int     `yaml:"hp_per_cycle"`
	TaskPollSecs     float64 `yaml:"task_poll_secs"`
	AssignRollChance float64 `yaml:"assign_roll_chance"`
	SiteJitter       float64 `yaml:"site_jitter"`
}

type MovementTuning struct {
	MoveSpeed         float64 `yaml:"move_speed"`
	WanderSpeedFactor float64 `yaml:"wander_speed_factor"`
	ArriveEpsilon     float64 `yaml:"arrive_epsilon"`
	GroundHeight      float64 `yaml:"ground_height"`
}

type IdleTuning struct {
	RestMinSecs  float64 `yaml:"rest_min_secs"`
	RestMaxSecs  float64 `yaml:"rest_max_secs"`
	CheerMinSecs float64 `yaml:"cheer_min_secs"`
	CheerMaxSecs float64 `yaml:"cheer_max_secs"`
	WanderRadius float64 `yaml:"wander_radius"`
	SpawnRadius  float64 `yaml:"spawn_radius"`
}

type EvacuateTuning struct {
	CellSize    float64 `yaml:"cell_size"`
	Cap         int     `yaml:"cap"`
	EverySecs   float64 `yaml:"every_secs"`
	Limit       float64 `yaml:"limit"`
	FallbackMin float64 `yaml:"fallback_min"`
	FallbackMax float64 `yaml:"fallback_max"`
}

type PathingTuning struct {
	WorldSize      float64 `yaml:"world_size"`
	CellSize       float64 `yaml:"cell_size"`
	ObstacleMargin float64 `yaml:"obstacle_margin"`
	FallbackSteps  int     `yaml:"fallback_steps"`
	Workers        int     `yaml:"workers"`
}

type AnimalTuning struct {
	WanderSpeed float64 `yaml:"wander_speed"`
	WanderMin   float64 `yaml:"wander_min"`
	WanderMax   float64 `yaml:"wander_max"`
	WaitMinSecs float64 `yaml:"wait_min_secs"`
	WaitMaxSecs float64 `yaml:"wait_max_secs"`
	RunSpeed    float64 `yaml:"run_speed"`
	RunSecs     float64 `yaml:"run_secs"`
	FrightenMin float64 `yaml:"frighten_min"`
	FrightenMax float64 `yaml:"frighten_max"`
}

type EconomyTuning struct {
	TrickleChance float64        `yaml:"trickle_chance"`
	ClaimAmount   int            `yaml:"claim_amount"`
	WorkerCost    map[string]int `yaml:"worker_cost"`
	AnimalCost    map[string]int `yaml:"animal_cost"`
}

// LimitsTuning caps how many ACT messages one session may send per window.
// A zero window disables the limit.
type LimitsTuning struct {
	ActWindowTicks int `yaml:"act_window_ticks"`
	ActMax         int `yaml:"act_max"`
}

func Defaults() Tuning {
	return Tuning{
		ProtocolVersion:    "1.0",
		TickRateHz:         20,
		MaxStepSecs:        0.05,
		SnapshotEveryTicks: 6000,
		StateEveryTicks:    5,
		Work: WorkTuning{
			CrewCap:          3,
			CycleSecs:        2,
			ProgressPerCycle: 0.25,
			HPPerCycle:       25,
			TaskPollSecs:     0.5,
			AssignRollChance: 0.02,
			SiteJitter:       1.5,
		},
		Movement: MovementTuning{
			MoveSpeed:         6,
			WanderSpeedFactor: 0.6,
			ArriveEpsilon:     0.05,
			GroundHeight:      0.7,
		},
		Idle: IdleTuning{
			RestMinSecs:  2,
			RestMaxSecs:  5,
			CheerMinSecs: 2,
			CheerMaxSecs: 4,
			WanderRadius: 4,
			SpawnRadius:  50,
		},
		Evacuate: EvacuateTuning{
			CellSize:    10,
			Cap:         2,
			EverySecs:   2,
			Limit:       145,
			FallbackMin: 20,
			FallbackMax: 50,
		},
		Pathing: PathingTuning{
			WorldSize:      300,
			CellSize:       2,
			ObstacleMargin: 0.5,
			FallbackSteps:  20,
			Workers:        2,
		},
		Animals: AnimalTuning{
			WanderSpeed: 3,
			WanderMin:   3,
			WanderMax:   8,
			WaitMinSecs: 2,
			WaitMaxSecs: 5,
			RunSpeed:    15,
			RunSecs:     2,
			FrightenMin: 5,
			FrightenMax: 10,
		},
		Economy: EconomyTuning{
			TrickleChance: 0.01,
			ClaimAmount:   1000,
			WorkerCost:    map[string]int{"food": 5, "gold": 5},
			AnimalCost:    map[string]int{"food": 10, "gold": 10},
		},
		Limits: LimitsTuning{
			ActWindowTicks: 20,
			ActMax:         40,
		},
	}
}

func Load(path string) (Tuning, error) {
	t := Defaults()
	raw, err := os.ReadFile(path)
	if err != nil {
		return t, err
	}
	if err := yaml.Unmarshal(raw, &t); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	if err := t.Validate(); err != nil {
		return t, fmt.Errorf("tuning.yaml: %w", err)
	}
	return t, nil
}

func (t Tuning) Validate() error {
	switch {
	case t.TickRateHz <= 0:
		return fmt.Errorf("tick_rate_hz must be > 0")
	case t.MaxStepSecs <= 0:
		return fmt.Errorf("max_step_secs must be > 0")
	case t.Work.CrewCap <= 0:
		return fmt.Errorf("work.crew_cap must be > 0")
	case t.Work.CycleSecs <= 0:
		return fmt.Errorf("work.cycle_secs must be > 0")
	case t.Work.ProgressPerCycle <= 0 || t.Work.ProgressPerCycle > 1:
		return fmt.Errorf("work.progress_per_cycle must be in (0,1]")
	case t.Work.HPPerCycle < 0:
		return fmt.Errorf("work.hp_per_cycle must be >= 0")
	case t.Work.TaskPollSecs <= 0:
		return fmt.Errorf("work.task_poll_secs must be > 0")
	case t.Movement.MoveSpeed <= 0:
		return fmt.Errorf("movement.move_speed must be > 0")
	case t.Evacuate.CellSize <= 0 || t.Evacuate.Cap <= 0 || t.Evacuate.EverySecs <= 0:
		return fmt.Errorf("evacuate: cell_size, cap and every_secs must be > 0")
	case t.Evacuate.FallbackMax < t.Evacuate.FallbackMin:
		return fmt.Errorf("evacuate.fallback_max must be >= fallback_min")
	case t.Pathing.WorldSize <= 0 || t.Pathing.CellSize <= 0:
		return fmt.Errorf("pathing: world_size and cell_size must be > 0")
	case t.Pathing.FallbackSteps <= 0:
		return fmt.Errorf("pathing.fallback_steps must be > 0")
	case t.Limits.ActWindowTicks < 0 || t.Limits.ActMax < 0:
		return fmt.Errorf("limits must be >= 0")
	}
	return nil
}
