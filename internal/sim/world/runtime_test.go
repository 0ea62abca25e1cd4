package world

import (
	"encoding/json"
	"testing"

	"slowtown.ai/internal/protocol"
)

func act(id, action string, p protocol.ActParams) ActionEnvelope {
	return ActionEnvelope{
		SessionID: "s1",
		Act: protocol.ActMsg{
			Type:            protocol.TypeAct,
			ProtocolVersion: protocol.Version,
			ID:              id,
			Action:          action,
			Params:          p,
		},
	}
}

func join(t *testing.T, w *World, noState bool) chan []byte {
	t.Helper()
	out := make(chan []byte, 64)
	resp := w.handleJoin(JoinRequest{SessionID: "s1", Name: "bot", NoState: noState, Out: out})
	if resp.Welcome.WorldParams.CrewCap != 3 {
		t.Fatalf("welcome=%+v", resp.Welcome)
	}
	if len(resp.Catalogs) != 4 {
		t.Fatalf("catalogs=%d want 4", len(resp.Catalogs))
	}
	return out
}

func drainAcks(t *testing.T, out chan []byte) map[string]protocol.AckMsg {
	t.Helper()
	acks := map[string]protocol.AckMsg{}
	for {
		select {
		case b := <-out:
			var base protocol.BaseMessage
			if err := json.Unmarshal(b, &base); err != nil {
				t.Fatalf("bad message: %v", err)
			}
			if base.Type != protocol.TypeAck {
				continue
			}
			var ack protocol.AckMsg
			if err := json.Unmarshal(b, &ack); err != nil {
				t.Fatalf("bad ack: %v", err)
			}
			acks[ack.AckFor] = ack
		default:
			return acks
		}
	}
}

func TestDeterminism_FixedActionsSameDigest(t *testing.T) {
	w1 := newTestWorld(t, 42)
	w2 := newTestWorld(t, 42)
	pos := &[3]float64{10, 0, -10}

	for tick := 0; tick < 600; tick++ {
		var acts []ActionEnvelope
		switch tick {
		case 0:
			acts = []ActionEnvelope{
				act("a1", protocol.ActSpawnWorker, protocol.ActParams{}),
				act("a2", protocol.ActSpawnWorker, protocol.ActParams{}),
			}
		case 3:
			acts = []ActionEnvelope{act("a3", protocol.ActPlaceFoundation, protocol.ActParams{Pos: pos, Kind: "farm"})}
		case 40:
			acts = []ActionEnvelope{act("a4", protocol.ActSetSpeed, protocol.ActParams{Speed: 4})}
		}
		t1, d1 := w1.StepOnce(acts)
		t2, d2 := w2.StepOnce(acts)
		if t1 != t2 || d1 != d2 {
			t.Fatalf("tick %d: digest mismatch", tick)
		}
	}
}

func TestStepAcksEveryAction(t *testing.T) {
	w := newTestWorld(t, 1)
	out := join(t, w, true)

	w.StepOnce([]ActionEnvelope{
		act("ok", protocol.ActSpawnWorker, protocol.ActParams{}),
		act("locked", protocol.ActPlaceFoundation, protocol.ActParams{Pos: &[3]float64{}, Kind: "wall"}),
		act("nopos", protocol.ActPlaceFoundation, protocol.ActParams{Kind: "farm"}),
		act("speed", protocol.ActSetSpeed, protocol.ActParams{Speed: 3}),
		act("bogus", "FLY", protocol.ActParams{}),
	})
	acks := drainAcks(t, out)
	want := map[string]string{
		"ok":     "",
		"locked": protocol.ErrLocked,
		"nopos":  protocol.ErrBadRequest,
		"speed":  protocol.ErrBadRequest,
		"bogus":  protocol.ErrBadRequest,
	}
	for id, code := range want {
		ack, ok := acks[id]
		if !ok {
			t.Fatalf("missing ack for %s", id)
		}
		if ack.Code != code || ack.Accepted != (code == "") {
			t.Fatalf("ack %s=%+v want code %q", id, ack, code)
		}
	}
}

func TestStepRateLimitsSession(t *testing.T) {
	w := newTestWorld(t, 1)
	w.tune.Limits.ActWindowTicks = 10
	w.tune.Limits.ActMax = 2
	out := join(t, w, true)

	w.StepOnce([]ActionEnvelope{
		act("c1", protocol.ActClaimResources, protocol.ActParams{}),
		act("c2", protocol.ActClaimResources, protocol.ActParams{}),
		act("c3", protocol.ActClaimResources, protocol.ActParams{}),
	})
	acks := drainAcks(t, out)
	if acks["c3"].Code != protocol.ErrRateLimit {
		t.Fatalf("third act=%+v want rate limit", acks["c3"])
	}
	if acks["c2"].Code != "" {
		t.Fatalf("second act=%+v", acks["c2"])
	}
	if got := w.Resources().Gold; got != 100+2*1000 {
		t.Fatalf("gold=%d: limited act still applied", got)
	}
}

func TestStepBroadcastsState(t *testing.T) {
	w := newTestWorld(t, 1)
	out := join(t, w, false)
	w.StepOnce(nil)

	var st protocol.StateMsg
	found := false
	for len(out) > 0 {
		b := <-out
		var base protocol.BaseMessage
		_ = json.Unmarshal(b, &base)
		if base.Type == protocol.TypeState {
			if err := json.Unmarshal(b, &st); err != nil {
				t.Fatalf("decode state: %v", err)
			}
			found = true
		}
	}
	if !found {
		t.Fatalf("no STATE at tick 0")
	}
	if st.Player.Level != 1 || st.Resources.Food != 200 || len(st.Nodes) == 0 {
		t.Fatalf("state=%+v", st.Player)
	}
	if m := w.Metrics(); m.Tick != 1 || m.Clients != 1 {
		t.Fatalf("metrics=%+v", m)
	}
}
