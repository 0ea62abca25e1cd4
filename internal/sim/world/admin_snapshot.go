package world

import (
	"context"
	"errors"
)

type adminSnapshotReq struct {
	Resp chan adminSnapshotResp
}

type adminSnapshotResp struct {
	Tick uint64
	Err  string
}

// RequestSnapshot asks the world loop to export the last completed tick to
// the snapshot sink. Safe to call from other goroutines.
func (w *World) RequestSnapshot(ctx context.Context) (uint64, error) {
	if w == nil || w.admin == nil {
		return 0, errors.New("admin snapshot not available")
	}
	req := adminSnapshotReq{Resp: make(chan adminSnapshotResp, 1)}
	select {
	case w.admin <- req:
	case <-ctx.Done():
		return 0, ctx.Err()
	}
	select {
	case r := <-req.Resp:
		if r.Err != "" {
			return r.Tick, errors.New(r.Err)
		}
		return r.Tick, nil
	case <-ctx.Done():
		return 0, ctx.Err()
	}
}

// handleAdminSnapshotRequests answers every queued request with one export.
func (w *World) handleAdminSnapshotRequests(reqs []adminSnapshotReq) {
	if len(reqs) == 0 {
		return
	}
	var snapTick uint64
	if cur := w.tick.Load(); cur > 0 {
		snapTick = cur - 1
	}

	resp := adminSnapshotResp{Tick: snapTick}
	switch {
	case w.snapshotSink == nil:
		resp.Err = "snapshot sink not configured"
	default:
		select {
		case w.snapshotSink <- w.ExportSnapshot(snapTick):
		default:
			resp.Err = "snapshot sink backpressure"
		}
	}
	for _, r := range reqs {
		if r.Resp == nil {
			continue
		}
		select {
		case r.Resp <- resp:
		default:
		}
	}
}
