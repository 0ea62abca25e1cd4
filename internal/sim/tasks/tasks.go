// Package tasks holds the records that connect an agent to a pending path
// query. It is shared by the world and the planners, so it must not import
// either of them.
package tasks

import (
	"slowtown.ai/internal/sim/world/logic/mathx"
	"slowtown.ai/internal/sim/world/logic/pathfind"
)

type Purpose string

const (
	PurposeBuild    Purpose = "BUILD"
	PurposeDemolish Purpose = "DEMOLISH"
	PurposeWander   Purpose = "WANDER"
	PurposeEvacuate Purpose = "EVACUATE"
)

// Assignment reports whether p carries a crew reservation that must be
// revalidated when the path arrives.
func (p Purpose) Assignment() bool {
	return p == PurposeBuild || p == PurposeDemolish
}

// PathRequest is created on the sim goroutine. Obstacles are copied at submit
// time so planners never read live world state.
type PathRequest struct {
	ID        uint64
	AgentID   string
	Purpose   Purpose
	TargetID  string
	Start     mathx.Vec3
	End       mathx.Vec3
	Obstacles []pathfind.Box
}

// PathResult answers a PathRequest. A result whose ID no longer matches the
// agent's pending request is stale and must be dropped.
type PathResult struct {
	ID       uint64
	AgentID  string
	Purpose  Purpose
	TargetID string
	Path     []mathx.Vec3
	Fallback bool
	Err      string
}
