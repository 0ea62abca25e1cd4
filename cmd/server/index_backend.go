package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"slowtown.ai/internal/persistence/indexdb"
	"slowtown.ai/internal/persistence/snapshot"
	"slowtown.ai/internal/sim/catalogs"
	"slowtown.ai/internal/sim/tuning"
	"slowtown.ai/internal/sim/world"
)

type runtimeIndex interface {
	world.TickLogger
	world.NoticeLogger
	Close() error
	UpsertCatalogs(configDir string, cats *catalogs.Catalogs, tune tuning.Tuning) error
	RecordSnapshot(path string, snap snapshot.SnapshotV1)
	Stats() indexdb.Stats
}

func openRuntimeIndex(worldDir string, disableDB bool) (runtimeIndex, error) {
	if disableDB {
		return nil, nil
	}

	backend := strings.ToLower(strings.TrimSpace(os.Getenv("ST_INDEX_BACKEND")))
	if backend == "" {
		backend = "sqlite"
	}

	switch backend {
	case "none", "off", "disabled":
		return nil, nil
	case "sqlite":
		dbPath := filepath.Join(worldDir, "index", "world.sqlite")
		return indexdb.OpenSQLite(dbPath)
	default:
		return nil, fmt.Errorf("unsupported ST_INDEX_BACKEND: %s", backend)
	}
}

type multiTickLogger struct {
	a world.TickLogger
	b world.TickLogger
}

func (m multiTickLogger) WriteTick(entry world.TickLogEntry) error {
	if m.a != nil {
		_ = m.a.WriteTick(entry)
	}
	if m.b != nil {
		_ = m.b.WriteTick(entry)
	}
	return nil
}

type multiNoticeLogger struct {
	a world.NoticeLogger
	b world.NoticeLogger
}

func (m multiNoticeLogger) WriteNotice(n world.Notice) error {
	if m.a != nil {
		_ = m.a.WriteNotice(n)
	}
	if m.b != nil {
		_ = m.b.WriteNotice(n)
	}
	return nil
}

func envBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

func envInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return def
	}
	return n
}
