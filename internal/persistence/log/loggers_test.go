package log

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"slowtown.ai/internal/sim/world"
)

func TestTickLoggerRoundTrip(t *testing.T) {
	dir := t.TempDir()
	l := NewTickLogger(dir)
	for i := uint64(0); i < 3; i++ {
		if err := l.WriteTick(world.TickLogEntry{Tick: i, Time: float64(i) * 0.05, Digest: "d"}); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	got, err := ReadTicks(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 3 || got[2].Tick != 2 || got[2].Digest != "d" {
		t.Fatalf("entries=%+v", got)
	}
}

func TestWriterRotatesHourly(t *testing.T) {
	dir := t.TempDir()
	w := NewJSONLZstdWriter(filepath.Join(dir, "notices"), "notices")
	clock := time.Date(2024, 5, 1, 10, 59, 0, 0, time.UTC)
	w.now = func() time.Time { return clock }

	if err := w.Write(world.Notice{Tick: 1, Kind: world.NoticeBuilt}); err != nil {
		t.Fatal(err)
	}
	clock = clock.Add(2 * time.Minute)
	if err := w.Write(world.Notice{Tick: 2, Kind: world.NoticeLevelUp}); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := os.ReadDir(filepath.Join(dir, "notices"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("files=%d want 2", len(entries))
	}
	got, err := ReadNotices(dir)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if len(got) != 2 || got[0].Kind != world.NoticeBuilt || got[1].Kind != world.NoticeLevelUp {
		t.Fatalf("notices=%+v", got)
	}
}
