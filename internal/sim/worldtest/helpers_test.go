package worldtest

import (
	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/gameconfig"
	"slowtown.ai/internal/sim/tuning"
	world "slowtown.ai/internal/sim/world"
)

func testConfig(seed int64) world.WorldConfig {
	tune := tuning.Defaults()
	tune.Economy.TrickleChance = 0
	tune.StateEveryTicks = 1
	return world.WorldConfig{ID: "test", Seed: seed, Tuning: tune, Game: gameconfig.Defaults()}
}

func pos(x, z float64) *[3]float64 { return &[3]float64{x, 0, z} }

func structuresOfKind(st protocol.StateMsg, kind, typ string) []protocol.StructureView {
	var out []protocol.StructureView
	for _, s := range st.Structures {
		if s.Kind == kind && (typ == "" || s.Type == typ) {
			out = append(out, s)
		}
	}
	return out
}
