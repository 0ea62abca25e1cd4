package world

// WorldMetrics is a thread-safe read-only view of key world runtime signals.
// It is updated from the world loop goroutine and read from HTTP handlers/tests.
type WorldMetrics struct {
	Tick uint64 `json:"tick"`

	Workers      int `json:"workers"`
	Structures   int `json:"structures"`
	Foundations  int `json:"foundations"`
	Animals      int `json:"animals"`
	Crops        int `json:"crops"`
	Nodes        int `json:"nodes"`
	Clients      int `json:"clients"`
	Level        int `json:"level"`
	PendingPaths int `json:"pending_paths"`

	Resources map[string]int `json:"resources"`

	QueueDepths QueueDepths `json:"queue_depths"`

	StepMS float64 `json:"step_ms"`
}

type QueueDepths struct {
	Inbox int `json:"inbox"`
	Join  int `json:"join"`
	Leave int `json:"leave"`
	Admin int `json:"admin"`
}

func (w *World) storeMetrics(tick uint64, stepMS float64) {
	foundations := 0
	for _, id := range w.structureOrder {
		if w.structures[id].Kind == KindFoundation {
			foundations++
		}
	}
	w.metrics.Store(WorldMetrics{
		Tick:         tick,
		Workers:      len(w.workerOrder),
		Structures:   len(w.structureOrder),
		Foundations:  foundations,
		Animals:      len(w.animalOrder),
		Crops:        len(w.cropOrder),
		Nodes:        len(w.nodeOrder),
		Clients:      len(w.clients),
		Level:        w.prog.Level,
		PendingPaths: len(w.pending),
		Resources:    w.store.Balance().Map(),
		QueueDepths: QueueDepths{
			Inbox: len(w.inbox),
			Join:  len(w.join),
			Leave: len(w.leave),
			Admin: len(w.admin),
		},
		StepMS: stepMS,
	})
}

func (w *World) Metrics() WorldMetrics {
	if w == nil {
		return WorldMetrics{}
	}
	v := w.metrics.Load()
	if v == nil {
		return WorldMetrics{}
	}
	m, ok := v.(WorldMetrics)
	if !ok {
		return WorldMetrics{}
	}
	return m
}
