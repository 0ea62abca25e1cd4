package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	persistlog "slowtown.ai/internal/persistence/log"
	"slowtown.ai/internal/persistence/snapshot"
)

func main() {
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "inspect":
			inspectCmd(os.Args[2:])
			return
		case "notices":
			noticesCmd(os.Args[2:])
			return
		case "db":
			dbCmd(os.Args[2:])
			return
		case "state":
			stateCmd(os.Args[2:])
			return
		case "snapshot":
			snapshotCmd(os.Args[2:])
			return
		}
	}
	listCmd(os.Args[1:])
}

// listCmd prints worlds, or the snapshots of one world with their size and age.
func listCmd(args []string) {
	fs := flag.NewFlagSet("admin", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (optional)")
	_ = fs.Parse(args)

	base := filepath.Join(*dataDir, "worlds")
	if *worldID == "" {
		entries, err := os.ReadDir(base)
		if err != nil {
			fmt.Fprintln(os.Stderr, "read:", err)
			os.Exit(1)
		}
		for _, e := range entries {
			fmt.Println(e.Name())
		}
		return
	}

	snaps := listSnapshots(filepath.Join(base, *worldID))
	if len(snaps) == 0 {
		fmt.Println("no snapshots")
		return
	}
	for _, s := range snaps {
		fmt.Printf("%-10d %10s  %s\n", s.tick, humanize.Bytes(uint64(s.size)), humanize.Time(s.modTime))
	}
}

func inspectCmd(args []string) {
	fs := flag.NewFlagSet("inspect", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	snapPath := fs.String("snapshot", "", "snapshot path (optional; defaults to latest)")
	_ = fs.Parse(args)

	path := strings.TrimSpace(*snapPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -snapshot")
			os.Exit(2)
		}
		path = latestSnapshot(filepath.Join(*dataDir, "worlds", *worldID))
	}
	if path == "" {
		fmt.Fprintln(os.Stderr, "no snapshot found; provide -snapshot or run server until it writes one")
		os.Exit(2)
	}

	snap, err := snapshot.ReadSnapshot(path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "read snapshot:", err)
		os.Exit(1)
	}
	fmt.Printf("world=%s tick=%d seed=%d time=%.1fs speed=%dx\n", snap.Header.WorldID, snap.Header.Tick, snap.Seed, snap.Time, snap.Speed)
	fmt.Printf("player=%s level=%d exp=%d\n", snap.Player.Name, snap.Player.Level, snap.Player.Exp)
	r := snap.Resources
	fmt.Printf("resources stone=%s wood=%s food=%s gold=%s workers=%d\n",
		humanize.Comma(int64(r.Stone)), humanize.Comma(int64(r.Wood)), humanize.Comma(int64(r.Food)), humanize.Comma(int64(r.Gold)), r.Workers)

	foundations := 0
	for _, s := range snap.Structures {
		if s.Kind == "foundation" {
			foundations++
		}
	}
	fmt.Printf("workers=%d structures=%d (foundations=%d) crops=%d animals=%d nodes=%d pending_paths=%d\n",
		len(snap.Workers), len(snap.Structures), foundations, len(snap.Crops), len(snap.Animals), len(snap.Nodes), len(snap.PendingPaths))
}

func noticesCmd(args []string) {
	fs := flag.NewFlagSet("notices", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id")
	kind := fs.String("kind", "", "notice kind filter (optional)")
	limit := fs.Int("limit", 50, "print at most the last N notices")
	_ = fs.Parse(args)

	if strings.TrimSpace(*worldID) == "" {
		fmt.Fprintln(os.Stderr, "missing -world")
		os.Exit(2)
	}
	all, err := persistlog.ReadNotices(filepath.Join(*dataDir, "worlds", *worldID))
	if err != nil {
		fmt.Fprintln(os.Stderr, "read notices:", err)
		os.Exit(1)
	}
	var out []string
	for _, n := range all {
		if *kind != "" && n.Kind != *kind {
			continue
		}
		out = append(out, fmt.Sprintf("%-8d %-22s %s", n.Tick, n.Kind, n.Message))
	}
	if *limit > 0 && len(out) > *limit {
		out = out[len(out)-*limit:]
	}
	for _, line := range out {
		fmt.Println(line)
	}
}

type snapFile struct {
	tick    uint64
	path    string
	size    int64
	modTime time.Time
}

func listSnapshots(worldDir string) []snapFile {
	dir := filepath.Join(worldDir, "snapshots")
	ents, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}
	var out []snapFile
	for _, e := range ents {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".snap.zst") {
			continue
		}
		tick, err := strconv.ParseUint(strings.TrimSuffix(e.Name(), ".snap.zst"), 10, 64)
		if err != nil {
			continue
		}
		fi, err := e.Info()
		if err != nil {
			continue
		}
		out = append(out, snapFile{tick: tick, path: filepath.Join(dir, e.Name()), size: fi.Size(), modTime: fi.ModTime()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].tick < out[j].tick })
	return out
}

func latestSnapshot(worldDir string) string {
	snaps := listSnapshots(worldDir)
	if len(snaps) == 0 {
		return ""
	}
	return snaps[len(snaps)-1].path
}
