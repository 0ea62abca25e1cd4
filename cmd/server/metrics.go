package main

import (
	"fmt"
	"io"
	"sort"

	"slowtown.ai/internal/sim/world"
)

// writeMetrics renders the world metrics in the Prometheus text format.
func writeMetrics(out io.Writer, worldID string, w *world.World, idx runtimeIndex) {
	m := w.Metrics()
	tick := w.CurrentTick()
	if m.Tick != 0 {
		tick = m.Tick
	}

	fmt.Fprintf(out, "# HELP slowtown_world_tick Current world tick.\n")
	fmt.Fprintf(out, "# TYPE slowtown_world_tick gauge\n")
	fmt.Fprintf(out, "slowtown_world_tick{world=%q} %d\n", worldID, tick)

	fmt.Fprintf(out, "# HELP slowtown_world_entities Entity counts by kind.\n")
	fmt.Fprintf(out, "# TYPE slowtown_world_entities gauge\n")
	fmt.Fprintf(out, "slowtown_world_entities{world=%q,kind=%q} %d\n", worldID, "worker", m.Workers)
	fmt.Fprintf(out, "slowtown_world_entities{world=%q,kind=%q} %d\n", worldID, "structure", m.Structures)
	fmt.Fprintf(out, "slowtown_world_entities{world=%q,kind=%q} %d\n", worldID, "foundation", m.Foundations)
	fmt.Fprintf(out, "slowtown_world_entities{world=%q,kind=%q} %d\n", worldID, "animal", m.Animals)
	fmt.Fprintf(out, "slowtown_world_entities{world=%q,kind=%q} %d\n", worldID, "crop", m.Crops)
	fmt.Fprintf(out, "slowtown_world_entities{world=%q,kind=%q} %d\n", worldID, "node", m.Nodes)

	fmt.Fprintf(out, "# HELP slowtown_world_clients Current number of connected clients.\n")
	fmt.Fprintf(out, "# TYPE slowtown_world_clients gauge\n")
	fmt.Fprintf(out, "slowtown_world_clients{world=%q} %d\n", worldID, m.Clients)

	fmt.Fprintf(out, "# HELP slowtown_player_level Player level.\n")
	fmt.Fprintf(out, "# TYPE slowtown_player_level gauge\n")
	fmt.Fprintf(out, "slowtown_player_level{world=%q} %d\n", worldID, m.Level)

	fmt.Fprintf(out, "# HELP slowtown_world_pending_paths Path requests awaiting a planner result.\n")
	fmt.Fprintf(out, "# TYPE slowtown_world_pending_paths gauge\n")
	fmt.Fprintf(out, "slowtown_world_pending_paths{world=%q} %d\n", worldID, m.PendingPaths)

	fmt.Fprintf(out, "# HELP slowtown_resources Stored resources.\n")
	fmt.Fprintf(out, "# TYPE slowtown_resources gauge\n")
	names := make([]string, 0, len(m.Resources))
	for k := range m.Resources {
		names = append(names, k)
	}
	sort.Strings(names)
	for _, k := range names {
		fmt.Fprintf(out, "slowtown_resources{world=%q,resource=%q} %d\n", worldID, k, m.Resources[k])
	}

	fmt.Fprintf(out, "# HELP slowtown_world_queue_depth Channel backlog depth.\n")
	fmt.Fprintf(out, "# TYPE slowtown_world_queue_depth gauge\n")
	fmt.Fprintf(out, "slowtown_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "inbox", m.QueueDepths.Inbox)
	fmt.Fprintf(out, "slowtown_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "join", m.QueueDepths.Join)
	fmt.Fprintf(out, "slowtown_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "leave", m.QueueDepths.Leave)
	fmt.Fprintf(out, "slowtown_world_queue_depth{world=%q,queue=%q} %d\n", worldID, "admin", m.QueueDepths.Admin)

	fmt.Fprintf(out, "# HELP slowtown_world_step_ms Last tick step duration in milliseconds.\n")
	fmt.Fprintf(out, "# TYPE slowtown_world_step_ms gauge\n")
	fmt.Fprintf(out, "slowtown_world_step_ms{world=%q} %.3f\n", worldID, m.StepMS)

	if idx == nil {
		return
	}
	s := idx.Stats()
	fmt.Fprintf(out, "# HELP slowtown_index_queue_depth Index writer queue depth.\n")
	fmt.Fprintf(out, "# TYPE slowtown_index_queue_depth gauge\n")
	fmt.Fprintf(out, "slowtown_index_queue_depth %d\n", s.QueueDepth)

	fmt.Fprintf(out, "# HELP slowtown_index_dropped_total Index writes dropped because the queue was full.\n")
	fmt.Fprintf(out, "# TYPE slowtown_index_dropped_total counter\n")
	fmt.Fprintf(out, "slowtown_index_dropped_total{stream=%q} %d\n", "tick", s.DropTick)
	fmt.Fprintf(out, "slowtown_index_dropped_total{stream=%q} %d\n", "notice", s.DropNotice)
	fmt.Fprintf(out, "slowtown_index_dropped_total{stream=%q} %d\n", "snapshot", s.DropSnapshot)
}
