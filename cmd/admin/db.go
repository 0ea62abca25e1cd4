package main

import (
	"database/sql"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"
)

func dbCmd(args []string) {
	fs := flag.NewFlagSet("db", flag.ExitOnError)
	dataDir := fs.String("data", "./data", "runtime data directory")
	worldID := fs.String("world", "", "world id (required unless -db)")
	dbPath := fs.String("db", "", "sqlite db path (optional)")
	limit := fs.Int("limit", 20, "result limit")
	kind := fs.String("kind", "", "notice kind or action filter (notices, actions)")
	_ = fs.Parse(args)

	q := "snapshots"
	if fs.NArg() > 0 {
		q = strings.TrimSpace(fs.Arg(0))
	}
	if *limit <= 0 {
		*limit = 20
	}

	path := strings.TrimSpace(*dbPath)
	if path == "" {
		if strings.TrimSpace(*worldID) == "" {
			fmt.Fprintln(os.Stderr, "missing -world or -db")
			os.Exit(2)
		}
		path = filepath.Join(*dataDir, "worlds", *worldID, "index", "world.sqlite")
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		fmt.Fprintln(os.Stderr, "open:", err)
		os.Exit(1)
	}
	defer db.Close()

	switch q {
	case "snapshots":
		rows, err := db.Query(`SELECT tick,path,seed,level,workers,structures,crops,animals,resources_json FROM snapshots ORDER BY tick DESC LIMIT ?`, *limit)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick       int64           `json:"tick"`
				Path       string          `json:"path"`
				Seed       int64           `json:"seed"`
				Level      int             `json:"level"`
				Workers    int             `json:"workers"`
				Structures int             `json:"structures"`
				Crops      int             `json:"crops"`
				Animals    int             `json:"animals"`
				Resources  json.RawMessage `json:"resources"`
			}
			var res string
			if err := rows.Scan(&r.Tick, &r.Path, &r.Seed, &r.Level, &r.Workers, &r.Structures, &r.Crops, &r.Animals, &res); err != nil {
				fatal("scan", err)
			}
			r.Resources = json.RawMessage(res)
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	case "ticks":
		rows, err := db.Query(`SELECT tick,time,digest,actions FROM ticks ORDER BY tick DESC LIMIT ?`, *limit)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick    int64   `json:"tick"`
				Time    float64 `json:"time"`
				Digest  string  `json:"digest"`
				Actions int     `json:"actions"`
			}
			if err := rows.Scan(&r.Tick, &r.Time, &r.Digest, &r.Actions); err != nil {
				fatal("scan", err)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	case "actions":
		query := `SELECT tick,seq,session_id,action,act_json FROM actions ORDER BY tick DESC, seq DESC LIMIT ?`
		qargs := []any{*limit}
		if k := strings.TrimSpace(*kind); k != "" {
			query = `SELECT tick,seq,session_id,action,act_json FROM actions WHERE action=? ORDER BY tick DESC, seq DESC LIMIT ?`
			qargs = []any{k, *limit}
		}
		rows, err := db.Query(query, qargs...)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick      int64           `json:"tick"`
				Seq       int             `json:"seq"`
				SessionID string          `json:"session_id"`
				Action    string          `json:"action"`
				Act       json.RawMessage `json:"act"`
			}
			var act string
			if err := rows.Scan(&r.Tick, &r.Seq, &r.SessionID, &r.Action, &act); err != nil {
				fatal("scan", err)
			}
			r.Act = json.RawMessage(act)
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	case "notices":
		query := `SELECT tick,seq,kind,message FROM notices ORDER BY tick DESC, seq DESC LIMIT ?`
		qargs := []any{*limit}
		if k := strings.TrimSpace(*kind); k != "" {
			query = `SELECT tick,seq,kind,message FROM notices WHERE kind=? ORDER BY tick DESC, seq DESC LIMIT ?`
			qargs = []any{k, *limit}
		}
		rows, err := db.Query(query, qargs...)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Tick    int64  `json:"tick"`
				Seq     int    `json:"seq"`
				Kind    string `json:"kind"`
				Message string `json:"message"`
			}
			if err := rows.Scan(&r.Tick, &r.Seq, &r.Kind, &r.Message); err != nil {
				fatal("scan", err)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	case "catalogs":
		rows, err := db.Query(`SELECT name,digest,updated_at FROM catalogs ORDER BY name`)
		if err != nil {
			fatal("query", err)
		}
		defer rows.Close()
		for rows.Next() {
			var r struct {
				Name      string `json:"name"`
				Digest    string `json:"digest"`
				UpdatedAt string `json:"updated_at"`
			}
			if err := rows.Scan(&r.Name, &r.Digest, &r.UpdatedAt); err != nil {
				fatal("scan", err)
			}
			printJSON(r)
		}
		if err := rows.Err(); err != nil {
			fatal("rows", err)
		}

	default:
		fmt.Fprintln(os.Stderr, "unknown query:", q)
		fmt.Fprintln(os.Stderr, "usage: admin db [-data ./data] [-world WORLD|-db PATH] [-limit N] [-kind K] snapshots|ticks|actions|notices|catalogs")
		os.Exit(2)
	}
}

func fatal(what string, err error) {
	fmt.Fprintf(os.Stderr, "%s: %v\n", what, err)
	os.Exit(1)
}

func printJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}
