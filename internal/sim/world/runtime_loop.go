package world

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"slowtown.ai/internal/protocol"
)

func (w *World) Run(ctx context.Context) error {
	interval := time.Second / time.Duration(w.tune.TickRateHz)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var pendingActions []ActionEnvelope
	var pendingJoins []JoinRequest
	var pendingLeaves []string
	var pendingAdmin []adminSnapshotReq

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.stop:
			return nil
		case req := <-w.join:
			pendingJoins = append(pendingJoins, req)
		case id := <-w.leave:
			pendingLeaves = append(pendingLeaves, id)
		case req := <-w.admin:
			pendingAdmin = append(pendingAdmin, req)
		case env := <-w.inbox:
			pendingActions = append(pendingActions, env)
		case <-ticker.C:
			for _, id := range pendingLeaves {
				delete(w.clients, id)
			}
			for _, req := range pendingJoins {
				resp := w.handleJoin(req)
				if req.Resp != nil {
					req.Resp <- resp
				}
			}
			w.step(pendingActions)
			w.handleAdminSnapshotRequests(pendingAdmin)
			pendingJoins = pendingJoins[:0]
			pendingLeaves = pendingLeaves[:0]
			pendingActions = pendingActions[:0]
			pendingAdmin = pendingAdmin[:0]
		}
	}
}

func (w *World) Stop() { close(w.stop) }

// StepOnce advances the world by a single tick using the same ordering semantics as the server.
// It is primarily intended for deterministic replays/tests.
func (w *World) StepOnce(actions []ActionEnvelope) (tick uint64, digest string) {
	tick = w.tick.Load()
	digest = w.step(actions)
	return tick, digest
}

// step applies actions in inbox order, advances the systems by one tick and
// publishes the results.
func (w *World) step(actions []ActionEnvelope) string {
	stepStart := time.Now()
	nowTick := w.tick.Load()

	recorded := make([]RecordedAction, 0, len(actions))
	for _, env := range actions {
		// Rate-limited actions never reach the sim, so replays skip them too.
		if cl := w.clients[env.SessionID]; cl != nil {
			lim := w.tune.Limits
			if ok, cool := cl.acts.Allow(nowTick, uint64(lim.ActWindowTicks), lim.ActMax); !ok {
				w.sendAck(env, nowTick, protocol.ErrRateLimit, fmt.Sprintf("rate limited; retry in %d ticks", cool))
				continue
			}
		}
		recorded = append(recorded, RecordedAction{SessionID: env.SessionID, Act: env.Act})
		code, msg := w.applyAct(env.Act)
		w.sendAck(env, nowTick, code, msg)
	}

	w.Update(1 / float64(w.tune.TickRateHz))

	notices := w.takeNotices()
	for _, n := range notices {
		if w.noticeLogger != nil {
			_ = w.noticeLogger.WriteNotice(n)
		}
	}
	w.broadcastNotices(notices)
	if every := w.tune.StateEveryTicks; every > 0 && nowTick%uint64(every) == 0 {
		w.broadcastState(nowTick)
	}

	digest := w.stateDigest(nowTick)
	if w.tickLogger != nil {
		_ = w.tickLogger.WriteTick(TickLogEntry{Tick: nowTick, Time: w.time, Actions: recorded, Digest: digest})
	}

	// Snapshot every N ticks, starting after tick 0.
	if w.snapshotSink != nil && nowTick != 0 && w.tune.SnapshotEveryTicks > 0 {
		if nowTick%uint64(w.tune.SnapshotEveryTicks) == 0 {
			snap := w.ExportSnapshot(nowTick)
			select {
			case w.snapshotSink <- snap:
			default:
				// Drop snapshot if sink is backed up.
			}
		}
	}

	stepMS := float64(time.Since(stepStart).Microseconds()) / 1000.0
	nextTick := w.tick.Add(1)
	w.storeMetrics(nextTick, stepMS)
	return digest
}

// Update advances every system by dt real seconds. dt is clamped to
// MaxStepSecs and then scaled by the speed multiplier.
func (w *World) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	if dt > w.tune.MaxStepSecs {
		dt = w.tune.MaxStepSecs
	}
	sdt := dt * float64(w.speed)
	w.time += sdt

	w.drainPaths()
	w.rollTrickle()
	if w.rng.Float64() < w.tune.Work.AssignRollChance {
		w.AssignWork()
	}
	w.pollTasks(sdt)
	w.updateWorkers(sdt)
	w.updateAnimals(sdt)
	w.updateCrops()
	w.tickEvacuation(sdt)
}

func (w *World) handleJoin(req JoinRequest) JoinResponse {
	if req.Out != nil && req.SessionID != "" {
		w.clients[req.SessionID] = &clientState{Name: req.Name, NoState: req.NoState, Out: req.Out}
	}
	return JoinResponse{
		Welcome:  w.welcome(req.SessionID, req.ResumeToken),
		Catalogs: w.catalogMsgs(),
	}
}

func (w *World) welcome(sessionID, resumeToken string) protocol.WelcomeMsg {
	d := w.catalogs.Digests()
	return protocol.WelcomeMsg{
		Type:            protocol.TypeWelcome,
		ProtocolVersion: protocol.Version,
		SessionID:       sessionID,
		ResumeToken:     resumeToken,
		WorldParams: protocol.WorldParams{
			WorldID:         w.cfg.ID,
			TickRateHz:      w.tune.TickRateHz,
			WorldSize:       w.tune.Pathing.WorldSize,
			CellSize:        w.tune.Pathing.CellSize,
			CrewCap:         w.tune.Work.CrewCap,
			StateEveryTicks: w.tune.StateEveryTicks,
			Seed:            w.cfg.Seed,
		},
		Catalogs: protocol.CatalogDigests{
			BuildingsDigest: d["buildings"],
			CropsDigest:     d["crops"],
			AnimalsDigest:   d["animals"],
			NodesDigest:     d["nodes"],
		},
	}
}

func (w *World) sendAck(env ActionEnvelope, tick uint64, code, msg string) {
	cl := w.clients[env.SessionID]
	if cl == nil || env.Act.ID == "" {
		return
	}
	b, err := json.Marshal(protocol.AckMsg{
		Type:            protocol.TypeAck,
		ProtocolVersion: protocol.Version,
		AckFor:          env.Act.ID,
		Accepted:        code == "",
		Code:            code,
		Message:         msg,
		ServerTick:      tick,
	})
	if err != nil {
		return
	}
	sendLatest(cl.Out, b)
}

func (w *World) broadcastNotices(notices []Notice) {
	if len(w.clients) == 0 {
		return
	}
	for _, n := range notices {
		b, err := json.Marshal(protocol.NotifyMsg{
			Type:            protocol.TypeNotify,
			ProtocolVersion: protocol.Version,
			Tick:            n.Tick,
			Kind:            n.Kind,
			Message:         n.Message,
			Fields:          n.Fields,
		})
		if err != nil {
			continue
		}
		for _, cl := range w.clients {
			sendLatest(cl.Out, b)
		}
	}
}

func (w *World) broadcastState(tick uint64) {
	var b []byte
	for _, cl := range w.clients {
		if cl.NoState {
			continue
		}
		if b == nil {
			var err error
			if b, err = json.Marshal(w.BuildState(tick)); err != nil {
				return
			}
		}
		sendLatest(cl.Out, b)
	}
}

func sendLatest(ch chan []byte, b []byte) {
	select {
	case ch <- b:
		return
	default:
	}
	// Drop one.
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- b:
	default:
	}
}
