package indexdb

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"slowtown.ai/internal/persistence/snapshot"
	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/catalogs"
	"slowtown.ai/internal/sim/tuning"
	"slowtown.ai/internal/sim/world"
)

func openTemp(t *testing.T) *SQLiteIndex {
	t.Helper()
	s, err := OpenSQLite(filepath.Join(t.TempDir(), "index.sqlite"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func syncIndex(t *testing.T, s *SQLiteIndex) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Sync(ctx); err != nil {
		t.Fatalf("sync: %v", err)
	}
}

func count(t *testing.T, s *SQLiteIndex, q string, args ...any) int {
	t.Helper()
	var n int
	if err := s.DB().QueryRow(q, args...).Scan(&n); err != nil {
		t.Fatalf("%s: %v", q, err)
	}
	return n
}

func TestSQLiteIndex_TicksActionsNotices(t *testing.T) {
	s := openTemp(t)
	_ = s.WriteTick(world.TickLogEntry{
		Tick:   7,
		Time:   0.35,
		Digest: "abc",
		Actions: []world.RecordedAction{
			{SessionID: "S1", Act: protocol.ActMsg{ID: "a1", Action: protocol.ActSpawnWorker}},
			{SessionID: "S1", Act: protocol.ActMsg{ID: "a2", Action: protocol.ActClaimResources}},
		},
	})
	_ = s.WriteNotice(world.Notice{Tick: 7, Kind: world.NoticeBuilt, Message: "Farm built"})
	_ = s.WriteNotice(world.Notice{Tick: 7, Kind: world.NoticeLevelUp, Message: "Level up"})
	syncIndex(t, s)

	if n := count(t, s, `SELECT COUNT(*) FROM ticks WHERE digest='abc'`); n != 1 {
		t.Fatalf("ticks=%d", n)
	}
	if n := count(t, s, `SELECT COUNT(*) FROM actions WHERE tick=7`); n != 2 {
		t.Fatalf("actions=%d", n)
	}
	if n := count(t, s, `SELECT COUNT(*) FROM actions WHERE action=?`, protocol.ActClaimResources); n != 1 {
		t.Fatalf("claim actions=%d", n)
	}
	if n := count(t, s, `SELECT COUNT(*) FROM notices WHERE tick=7`); n != 2 {
		t.Fatalf("notices=%d", n)
	}
}

func TestSQLiteIndex_SnapshotsAndCatalogs(t *testing.T) {
	s := openTemp(t)
	cats, err := catalogs.Load("../../../configs")
	if err != nil {
		t.Fatalf("catalogs: %v", err)
	}
	if err := s.UpsertCatalogs("../../../configs", cats, tuning.Defaults()); err != nil {
		t.Fatalf("upsert catalogs: %v", err)
	}
	if n := count(t, s, `SELECT COUNT(*) FROM catalogs`); n != 5 {
		t.Fatalf("catalog rows=%d want 5", n)
	}
	var digest string
	if err := s.DB().QueryRow(`SELECT digest FROM catalogs WHERE name='buildings'`).Scan(&digest); err != nil {
		t.Fatal(err)
	}
	if digest != cats.Buildings.Digest {
		t.Fatalf("buildings digest=%s want %s", digest, cats.Buildings.Digest)
	}

	s.RecordSnapshot("/tmp/6000.snap.zst", snapshot.SnapshotV1{
		Header:  snapshot.Header{Version: snapshot.Version, Tick: 6000},
		Seed:    42,
		Player:  snapshot.PlayerV1{Level: 3},
		Workers: []snapshot.WorkerV1{{ID: "W1"}, {ID: "W2"}},
	})
	syncIndex(t, s)
	var level, workers int
	if err := s.DB().QueryRow(`SELECT level, workers FROM snapshots WHERE tick=6000`).Scan(&level, &workers); err != nil {
		t.Fatal(err)
	}
	if level != 3 || workers != 2 {
		t.Fatalf("snapshot row level=%d workers=%d", level, workers)
	}
}

func TestSQLiteIndex_QueueDropStats(t *testing.T) {
	s := &SQLiteIndex{ch: make(chan req, 1)}
	s.ch <- req{kind: reqTick, tick: world.TickLogEntry{Tick: 1}}

	_ = s.WriteTick(world.TickLogEntry{Tick: 2})
	_ = s.WriteNotice(world.Notice{Tick: 2})
	s.RecordSnapshot("/tmp/2.snap.zst", snapshot.SnapshotV1{})

	st := s.Stats()
	if st.DropTick != 1 || st.DropNotice != 1 || st.DropSnapshot != 1 {
		t.Fatalf("drops=%+v", st)
	}
	if st.QueueDepth != 1 || st.QueueCapacity != 1 {
		t.Fatalf("queue stats mismatch: depth=%d cap=%d", st.QueueDepth, st.QueueCapacity)
	}
}
