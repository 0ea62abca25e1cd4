package world

import (
	"strings"

	"slowtown.ai/internal/protocol"
	"slowtown.ai/internal/sim/world/logic/mathx"
)

const (
	codeBadRequest    = protocol.ErrBadRequest
	codeNoResource    = protocol.ErrNoResource
	codeLocked        = protocol.ErrLocked
	codeInvalidTarget = protocol.ErrInvalidTarget
	codeConflict      = protocol.ErrConflict
	codeNotReady      = protocol.ErrNotReady
	codeInternal      = protocol.ErrInternal
)

// applyAct dispatches one player action. Failures never abort the step; they
// come back as an ACK code (most also raise a notice).
func (w *World) applyAct(act protocol.ActMsg) (code, msg string) {
	p := act.Params
	pos := func() (mathx.Vec3, bool) {
		if p.Pos == nil {
			return mathx.Vec3{}, false
		}
		return mathx.Vec3{X: p.Pos[0], Y: p.Pos[1], Z: p.Pos[2]}, true
	}

	switch act.Action {
	case protocol.ActPlaceFoundation:
		at, ok := pos()
		if !ok {
			return codeBadRequest, "missing pos"
		}
		_, code = w.placeFoundation(at, strings.TrimSpace(p.Kind))
	case protocol.ActPlantCrop:
		_, code = w.plantCrop(p.TargetID, strings.TrimSpace(p.Kind))
	case protocol.ActHarvest:
		code = w.harvestCrop(p.TargetID)
	case protocol.ActSpawnWorker:
		_, code = w.spawnWorker()
	case protocol.ActSpawnAnimal:
		at, ok := pos()
		if !ok {
			return codeBadRequest, "missing pos"
		}
		_, code = w.spawnAnimal(at, strings.TrimSpace(p.Kind))
	case protocol.ActDemolish:
		_, code = w.assignDemolish(p.TargetID)
	case protocol.ActSetSpeed:
		if !w.SetSpeed(p.Speed) {
			code = codeBadRequest
		}
	case protocol.ActSetIdleWeights:
		if p.Weights == nil || !w.SetIdleWeights(p.Weights.Rest, p.Weights.Cheer, p.Weights.Wander) {
			code = codeBadRequest
		}
	case protocol.ActGather:
		code = w.gatherNode(p.TargetID)
	case protocol.ActFrighten:
		from, _ := pos()
		code = w.frightenAnimal(p.TargetID, from)
	case protocol.ActClaimResources:
		w.ClaimResources()
	case protocol.ActSetMode:
		if !w.SetPendingMode(PendingMode(p.Mode), p.Kind) {
			code = codeBadRequest
		}
	default:
		return codeBadRequest, "unknown action"
	}
	return code, ""
}
