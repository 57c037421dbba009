package ai

import (
	"math"

	"go.uber.org/zap"

	"github.com/kasuganosora/swarmai/game/events"
	"github.com/kasuganosora/swarmai/game/geom"
)

// Step advances one agent by one tick. The pipeline order is fixed: death
// sequence, status effects, perception, state behavior, movement. Each
// stage may short-circuit the rest.
func Step(ctx *TickContext, a *Agent) {
	if stepDeath(ctx, a) {
		return
	}
	stepStatus(ctx, a)
	if a.DeathPhase != PhaseAlive {
		return
	}
	perceive(ctx, a)

	switch a.State {
	case StateIdle:
		stepIdle(ctx, a)
	case StateWander:
		stepWander(ctx, a)
	case StateSearch:
		stepSearch(ctx, a)
	case StateChase:
		stepChase(ctx, a)
	case StateBiting:
		stepBiting(ctx, a)
	case StateExploding:
		stepExploding(ctx, a)
	case StateStunned:
		stepStunned(ctx, a)
	}

	integrate(ctx, a)
}

func stepIdle(ctx *TickContext, a *Agent) {
	a.Vel = geom.Vec3{}
	a.IdleTicks--
	if a.IdleTicks > 0 {
		return
	}
	a.WanderTarget = randomPointAround(ctx, a.SpawnAnchor, ctx.Tuning.WanderRadius)
	a.State = StateWander
}

func stepWander(ctx *TickContext, a *Agent) {
	if geom.Dist(a.Pos, a.WanderTarget) <= ctx.Tuning.ArriveDist {
		a.Vel = geom.Vec3{}
		a.IdleTicks = randomIdleTicks(ctx)
		a.State = StateIdle
		return
	}
	moveToward(ctx, a, a.WanderTarget)
}

func stepSearch(ctx *TickContext, a *Agent) {
	a.SearchTicks--
	if a.LastSeen == nil || a.SearchTicks <= 0 ||
		geom.Dist(a.Pos, *a.LastSeen) <= ctx.Tuning.ArriveDist {
		// Giving up forgets the suspicion; stale memory must not steer
		// later chases or stun recoveries.
		a.LastSeen = nil
		a.LastSeenTick = 0
		a.WanderTarget = randomPointAround(ctx, a.Pos, ctx.Tuning.WanderRadius)
		a.State = StateWander
		return
	}
	moveToward(ctx, a, *a.LastSeen)
}

func stepChase(ctx *TickContext, a *Agent) {
	if a.AttackCooldown > 0 {
		a.AttackCooldown--
	}

	player, ok := ctx.World.Player()
	if !ok {
		// Player left the arena: fall back to sweeping the last position.
		a.SearchTicks = ctx.Tuning.SearchTicks
		a.State = StateSearch
		return
	}

	if a.Template.CanFlee && !a.Boss && a.HP < a.MaxHP*ctx.Tuning.FleeHPFrac {
		if !a.Fleeing {
			ctx.Logger.Debug("agent fleeing", zapInst(a))
			a.Fleeing = true
		}
		away := a.Pos.Sub(player.Pos)
		moveToward(ctx, a, a.Pos.Add(away.Normalize().Scale(ctx.Tuning.WanderRadius)))
		return
	}
	a.Fleeing = false

	// The chase breaks only when line of sight is lost AND the player is
	// beyond view range, held for a grace window. Either contact alone
	// keeps the pursuit alive.
	los := !a.Blinded() && ctx.World.LineOfSight(a.Pos, player.Pos)
	lost := !los && geom.Dist(a.Pos, player.Pos) > ctx.Tuning.ViewRangeFor(a)
	if lost {
		a.losLostTicks++
		if a.losLostTicks > ctx.Tuning.ChaseGraceTicks {
			a.losLostTicks = 0
			a.SearchTicks = ctx.Tuning.SearchTicks
			a.State = StateSearch
			return
		}
		if a.LastSeen != nil {
			moveToward(ctx, a, *a.LastSeen)
		}
		return
	}
	a.losLostTicks = 0

	row := abilityFor(a, ctx.Tuning)
	dist := geom.Dist(a.Pos, player.Pos)

	if row.Kind == AbilitySelfDestruct {
		if dist <= row.TriggerRange {
			a.State = StateExploding
			a.FuseTicks = row.FuseTicks
			a.Vel = geom.Vec3{}
			ctx.Events.EmitEffect(events.EffectRequest{Kind: "fuse_flash", Origin: a.Pos})
			ctx.Logger.Debug("fuse armed", zapInst(a), zap.Int("fuse_ticks", row.FuseTicks))
			return
		}
		moveToward(ctx, a, player.Pos)
		return
	}

	if dist <= row.AttackRange && a.AttackCooldown == 0 {
		a.State = StateBiting
		a.CommitTicks = row.CommitTicks
		a.commitHit = false
		a.Vel = geom.Vec3{}
		a.Facing = player.Pos.Sub(a.Pos).Normalize()
		return
	}
	moveToward(ctx, a, player.Pos)
}

func stepBiting(ctx *TickContext, a *Agent) {
	a.Vel = geom.Vec3{}
	row := abilityFor(a, ctx.Tuning)

	player, hasPlayer := ctx.World.Player()
	if hasPlayer {
		a.Facing = player.Pos.Sub(a.Pos).Normalize()
	}

	a.CommitTicks--
	elapsed := row.CommitTicks - a.CommitTicks

	if elapsed == row.HitTick && !a.commitHit {
		a.commitHit = true
		landAttack(ctx, a, row)
	}

	if a.CommitTicks > 0 {
		return
	}
	a.AttackCooldown = row.CooldownTicks
	if hasPlayer && geom.Dist(a.Pos, player.Pos) <= ctx.Tuning.ViewRangeFor(a) {
		a.State = StateChase
	} else {
		a.SearchTicks = ctx.Tuning.SearchTicks
		a.State = StateSearch
	}
}

// landAttack applies bite or smash damage at the commitment's hit tick.
// The hit whiffs when the player has slipped out of range.
func landAttack(ctx *TickContext, a *Agent, row Ability) {
	player, ok := ctx.World.Player()
	if !ok {
		return
	}
	dist := geom.Dist(a.Pos, player.Pos)

	switch row.Kind {
	case AbilitySmash:
		if dist > row.SmashRadius {
			return
		}
		dir := player.Pos.Sub(a.Pos).Normalize()
		ctx.Events.EmitDamage(events.DamageEvent{
			Amount:    a.effectiveDamage(ctx.Tuning),
			Source:    a.DamageSource(),
			Origin:    a.Pos,
			Knockback: dir.Scale(row.Knockback),
		})
		for _, other := range ctx.World.NearbyAgents(a.Pos, row.SmashRadius) {
			if other.InstID == a.InstID {
				continue
			}
			push := other.Pos.Sub(a.Pos).Normalize().Scale(row.Knockback / 2)
			ctx.World.QueueImpulse(other.InstID, push)
		}
		ctx.Events.EmitEffect(events.EffectRequest{Kind: "ground_slam", Origin: a.Pos})
		ctx.Events.EmitNoise(a.Pos, row.SmashRadius*4, events.LoudnessLoud)
	default:
		if dist > row.AttackRange*1.25 {
			return
		}
		ctx.Events.EmitDamage(events.DamageEvent{
			Amount: a.effectiveDamage(ctx.Tuning),
			Source: a.DamageSource(),
			Origin: a.Pos,
		})
	}
}

func stepExploding(ctx *TickContext, a *Agent) {
	a.Vel = geom.Vec3{}
	a.FuseTicks--

	if a.FuseTicks > 0 {
		if ctx.Tuning.ExplosionFlashMod > 0 && a.FuseTicks%ctx.Tuning.ExplosionFlashMod == 0 {
			ctx.Events.EmitEffect(events.EffectRequest{Kind: "fuse_flash", Origin: a.Pos})
		}
		return
	}

	row := abilityFor(a, ctx.Tuning)
	if player, ok := ctx.World.Player(); ok {
		if geom.Dist(a.Pos, player.Pos) <= row.BlastRadius {
			dir := player.Pos.Sub(a.Pos)
			if !dir.IsZero() {
				dir = dir.Normalize()
			}
			ctx.Events.EmitDamage(events.DamageEvent{
				Amount:    row.BlastDamage,
				Source:    a.DamageSource(),
				Origin:    a.Pos,
				Knockback: dir.Scale(row.BlastRadius * 2),
			})
		}
	}
	for _, other := range ctx.World.NearbyAgents(a.Pos, row.BlastRadius) {
		if other.InstID == a.InstID {
			continue
		}
		push := other.Pos.Sub(a.Pos)
		if push.IsZero() {
			push = geom.V(1, 0, 0)
		}
		ctx.World.QueueImpulse(other.InstID, push.Normalize().Scale(row.BlastRadius*2))
	}
	ctx.Events.EmitEffect(events.EffectRequest{Kind: "explosion", Origin: a.Pos})
	ctx.Events.EmitNoise(a.Pos, row.BlastRadius*6, events.LoudnessLoud)
	ctx.Logger.Debug("detonated", zapInst(a))

	// Detonation is the terminal transition: no ash, no fall.
	a.HP = 0
	finishDeath(ctx, a)
}

func stepStunned(ctx *TickContext, a *Agent) {
	a.Vel = geom.Vec3{}
	a.StunTicks--
	if a.StunTicks > 0 {
		return
	}
	if a.sightingFresh(ctx.Tick, ctx.Tuning) {
		a.State = StateChase
		return
	}
	a.WanderTarget = randomPointAround(ctx, a.Pos, ctx.Tuning.WanderRadius)
	a.State = StateWander
}

// moveToward sets velocity and facing toward a target point at the agent's
// current speed.
func moveToward(ctx *TickContext, a *Agent, target geom.Vec3) {
	dir := target.Sub(a.Pos).Flat()
	if dir.IsZero() {
		a.Vel = geom.Vec3{}
		return
	}
	dir = dir.Normalize()
	a.Facing = dir
	a.Vel = dir.Scale(a.speed(ctx.Tuning))
}

// integrate applies velocity, resolves obstacle overlap, and nudges agents
// that have been pinned in place while trying to move.
func integrate(ctx *TickContext, a *Agent) {
	a.prevPos = a.Pos
	a.Pos = a.Pos.Add(a.Vel.Scale(ctx.Tuning.MoveStep))

	for _, ob := range ctx.World.NearbyObstacles(a.Pos, a.Template.Radius+obstaclePad) {
		if pushed, ok := ctx.World.ResolveCollision(a.Pos, a.Template.Radius, ob); ok {
			a.Pos = pushed
		}
	}

	if a.Vel.IsZero() {
		a.stuckTicks = 0
		return
	}
	if geom.Dist(a.Pos, a.prevPos) < a.speed(ctx.Tuning)*ctx.Tuning.MoveStep*0.1 {
		a.stuckTicks++
	} else {
		a.stuckTicks = 0
	}
	if a.stuckTicks >= stuckLimit {
		a.stuckTicks = 0
		angle := ctx.RNG.Float64() * 2 * math.Pi
		nudge := geom.V(math.Cos(angle), 0, math.Sin(angle))
		a.Pos = a.Pos.Add(nudge.Scale(a.Template.Radius))
	}
}

const (
	obstaclePad = 2.0 // obstacle query padding beyond the agent radius
	stuckLimit  = 8
)

func randomPointAround(ctx *TickContext, center geom.Vec3, radius float64) geom.Vec3 {
	angle := ctx.RNG.Float64() * 2 * math.Pi
	r := radius * math.Sqrt(ctx.RNG.Float64())
	return center.Add(geom.V(math.Cos(angle)*r, 0, math.Sin(angle)*r))
}

func randomIdleTicks(ctx *TickContext) int {
	span := ctx.Tuning.IdleMaxTicks - ctx.Tuning.IdleMinTicks
	if span <= 0 {
		return ctx.Tuning.IdleMinTicks
	}
	return ctx.Tuning.IdleMinTicks + ctx.RNG.Intn(span)
}
