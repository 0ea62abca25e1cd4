package worldtest

import (
	"encoding/json"
	"fmt"
	"testing"

	"slowtown.ai/internal/persistence/snapshot"
	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/catalogs"
	world "slowtown.ai/internal/sim/world"
)

const sessionID = "S_test"

// Harness is a small black-box test helper for driving a world via exported APIs:
// - Act()/Step() issue ACT via StepOnce()
// - the session Out channel carries ACK/NOTIFY/STATE JSON
// - Snapshot/Debug* helpers provide deterministic preconditions
//
// It intentionally avoids touching world internals so tests can live outside the world package.
type Harness struct {
	T    *testing.T
	Cats *catalogs.Catalogs
	W    *world.World

	Welcome protocol.WelcomeMsg

	out       chan []byte
	nextAct   int
	acks      map[string]protocol.AckMsg
	notices   []protocol.NotifyMsg
	lastState protocol.StateMsg
}

func LoadCatalogs(t *testing.T) *catalogs.Catalogs {
	t.Helper()
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("load catalogs: %v", err)
	}
	return cats
}

func NewHarness(t *testing.T, cfg world.WorldConfig, cats *catalogs.Catalogs) *Harness {
	t.Helper()
	w, err := world.New(cfg, cats)
	if err != nil {
		t.Fatalf("world.New: %v", err)
	}
	return NewHarnessWithWorld(t, w, cats)
}

// NewHarnessWithWorld is like NewHarness, but uses an already-constructed world instance.
// This is useful for snapshot round-trip tests where the snapshot is imported before join.
func NewHarnessWithWorld(t *testing.T, w *world.World, cats *catalogs.Catalogs) *Harness {
	t.Helper()
	if w == nil {
		t.Fatalf("NewHarnessWithWorld: nil world")
	}
	h := &Harness{
		T:    t,
		Cats: cats,
		W:    w,
		out:  make(chan []byte, 4096),
		acks: map[string]protocol.AckMsg{},
	}
	resp := w.DebugJoin(world.JoinRequest{SessionID: sessionID, Name: "tester", Out: h.out})
	h.Welcome = resp.Welcome
	return h
}

// Act sends one action, steps once and returns its ACK.
func (h *Harness) Act(action string, params protocol.ActParams) protocol.AckMsg {
	h.T.Helper()
	h.nextAct++
	id := fmt.Sprintf("ACT_%d", h.nextAct)
	h.Step([]world.ActionEnvelope{{
		SessionID: sessionID,
		Act: protocol.ActMsg{
			Type:            protocol.TypeAct,
			ProtocolVersion: protocol.Version,
			Tick:            h.W.CurrentTick(),
			ID:              id,
			Action:          action,
			Params:          params,
		},
	}})
	ack, ok := h.acks[id]
	if !ok {
		h.T.Fatalf("no ACK for %s", id)
	}
	return ack
}

// MustAct is Act that fails the test on a rejected action.
func (h *Harness) MustAct(action string, params protocol.ActParams) {
	h.T.Helper()
	if ack := h.Act(action, params); !ack.Accepted {
		h.T.Fatalf("%s rejected: %s %s", action, ack.Code, ack.Message)
	}
}

func (h *Harness) Step(actions []world.ActionEnvelope) string {
	h.T.Helper()
	_, digest := h.W.StepOnce(actions)
	h.drain()
	return digest
}

// StepUntil steps until done holds, failing after maxTicks.
func (h *Harness) StepUntil(maxTicks int, done func() bool) {
	h.T.Helper()
	for i := 0; i < maxTicks; i++ {
		h.Step(nil)
		if done() {
			return
		}
	}
	h.T.Fatalf("condition not met after %d ticks", maxTicks)
}

func (h *Harness) LastState() protocol.StateMsg { return h.lastState }

// Notices returns every NOTIFY of the given kind seen so far.
func (h *Harness) Notices(kind string) []protocol.NotifyMsg {
	var out []protocol.NotifyMsg
	for _, n := range h.notices {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (h *Harness) Snapshot() (tick uint64, snap snapshot.SnapshotV1) {
	h.T.Helper()
	// Keep tick stable: export at currentTick-1 then import would restore to currentTick.
	cur := h.W.CurrentTick()
	if cur == 0 {
		return 0, h.W.ExportSnapshot(0)
	}
	tick = cur - 1
	return tick, h.W.ExportSnapshot(tick)
}

func (h *Harness) drain() {
	h.T.Helper()
	for {
		select {
		case b := <-h.out:
			h.handle(b)
		default:
			return
		}
	}
}

func (h *Harness) handle(b []byte) {
	h.T.Helper()
	base, err := protocol.DecodeBase(b)
	if err != nil {
		h.T.Fatalf("decode: %v", err)
	}
	switch base.Type {
	case protocol.TypeAck:
		var ack protocol.AckMsg
		if err := json.Unmarshal(b, &ack); err != nil {
			h.T.Fatalf("unmarshal ACK: %v", err)
		}
		h.acks[ack.AckFor] = ack
	case protocol.TypeNotify:
		var n protocol.NotifyMsg
		if err := json.Unmarshal(b, &n); err != nil {
			h.T.Fatalf("unmarshal NOTIFY: %v", err)
		}
		h.notices = append(h.notices, n)
	case protocol.TypeState:
		var st protocol.StateMsg
		if err := json.Unmarshal(b, &st); err != nil {
			h.T.Fatalf("unmarshal STATE: %v", err)
		}
		h.lastState = st
	}
}
