package world

// Notice kinds.
const (
	NoticeNoResources         = "NO_RESOURCES"
	NoticeLocked              = "LOCKED"
	NoticeInvalid             = "INVALID"
	NoticeFoundationCompleted = "FOUNDATION_COMPLETED"
	NoticeBuilt               = "BUILT"
	NoticeWorkerDied          = "WORKER_DIED"
	NoticeLevelUp             = "LEVEL_UP"
	NoticeDemolished          = "DEMOLISHED"
	NoticeDemolishAssigned    = "DEMOLISH_ASSIGNED"
	NoticeAnimalFled          = "ANIMAL_FLED"
	NoticePlanted             = "PLANTED"
	NoticeHarvested           = "HARVESTED"
	NoticeNotMature           = "NOT_MATURE"
	NoticeFarmOccupied        = "FARM_OCCUPIED"
	NoticeGathered            = "GATHERED"
	NoticeClaimed             = "CLAIMED"
)

// Notice is a user-facing message produced by the simulation.
type Notice struct {
	Tick    uint64            `json:"tick"`
	Kind    string            `json:"kind"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Notifier receives notices synchronously on the world goroutine.
type Notifier interface {
	Notify(n Notice)
}

type NotifierFunc func(Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

func (w *World) notify(kind, msg string, fields map[string]string) {
	n := Notice{Tick: w.tick.Load(), Kind: kind, Message: msg, Fields: fields}
	w.noticeBuf = append(w.noticeBuf, n)
	if w.notifier != nil {
		w.notifier.Notify(n)
	}
}

// takeNotices returns and clears the notices raised since the last call.
func (w *World) takeNotices() []Notice {
	if len(w.noticeBuf) == 0 {
		return nil
	}
	out := w.noticeBuf
	w.noticeBuf = nil
	return out
}
