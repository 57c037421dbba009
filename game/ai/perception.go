package ai

import "github.com/kasuganosora/swarmai/game/geom"

// perceive runs the vision and hearing channels for one agent and applies
// the resulting transitions. Vision is evaluated first; a confirmed
// sighting makes the heard noises of the same tick redundant. Commitment
// states still record sightings but never change state here.
func perceive(ctx *TickContext, a *Agent) {
	if seePlayer(ctx, a) {
		return
	}
	hearNoises(ctx, a)
}

// seePlayer checks the vision channel: range, field of view, then line of
// sight. On success the sighting memory is refreshed and a non-committed
// agent transitions to CHASE.
func seePlayer(ctx *TickContext, a *Agent) bool {
	if a.Blinded() {
		return false
	}
	player, ok := ctx.World.Player()
	if !ok {
		return false
	}

	view := ctx.Tuning.ViewRangeFor(a)
	if geom.Dist(a.Pos, player.Pos) > view {
		return false
	}
	toPlayer := player.Pos.Sub(a.Pos)
	halfFOV := ctx.Tuning.FOVDegrees / 2
	if geom.AngleBetween(a.Facing, toPlayer) > halfFOV {
		return false
	}
	if !ctx.World.LineOfSight(a.Pos, player.Pos) {
		return false
	}

	a.recordSighting(player.Pos, ctx.Tick)
	a.losLostTicks = 0
	if !a.State.IsCommitment() && a.State != StateChase {
		ctx.Logger.Debug("player sighted", zapInst(a))
		a.State = StateChase
	}
	return true
}

// hearNoises checks every noise of the tick against the agent's effective
// hearing radius. Hearing only rouses passive agents: IDLE or WANDER moves
// to SEARCH toward the loudest audible origin. A searching, chasing or
// committed agent ignores further noise, which also makes repeated noises
// at one origin idempotent.
func hearNoises(ctx *TickContext, a *Agent) {
	if a.State != StateIdle && a.State != StateWander {
		return
	}
	sens := a.Template.Hearing
	if a.Boss {
		sens *= ctx.Tuning.BossPerceptionMult
	}

	var best *NoiseEvent
	for i := range ctx.Noises {
		n := &ctx.Noises[i]
		r := n.Radius * sens
		if geom.Dist(a.Pos, n.Origin) > r {
			continue
		}
		if best == nil || n.Loudness > best.Loudness {
			best = n
		}
	}
	if best == nil {
		return
	}

	a.suspect(best.Origin)
	a.SearchTicks = ctx.Tuning.SearchTicks
	a.State = StateSearch
	ctx.Logger.Debug("noise heard", zapInst(a))
}
