package ai

import (
	"github.com/google/uuid"

	"github.com/kasuganosora/swarmai/game/events"
	"github.com/kasuganosora/swarmai/game/geom"
)

// enterDeath moves a live agent into the death sequence. A non-zero impulse
// selects the falling trajectory, otherwise the ash burn-down.
func (a *Agent) enterDeath(deathVel geom.Vec3, tuning *Tuning) {
	a.State = StateIdle
	a.Vel = geom.Vec3{}
	a.CommitTicks = 0
	a.StunTicks = 0
	a.FuseTicks = 0
	a.BurnTicks = 0
	a.AfterburnTicks = 0
	if deathVel.IsZero() {
		a.DeathPhase = PhaseDyingAsh
		a.DeathTicks = tuning.AshTicks
	} else {
		a.DeathPhase = PhaseFalling
		a.DeathTicks = tuning.FallTicks
		a.DeathVel = deathVel
	}
}

// stepDeath advances the death sequence one tick. It returns true while the
// agent is inside the sequencer so the behavior pipeline can skip it.
func stepDeath(ctx *TickContext, a *Agent) bool {
	switch a.DeathPhase {
	case PhaseAlive:
		return false
	case PhaseDyingAsh:
		a.DeathTicks--
		if a.DeathTicks <= 0 {
			finishDeath(ctx, a)
		}
	case PhaseFalling:
		// Carry remaining momentum with per-tick decay until settled.
		a.Pos = a.Pos.Add(a.DeathVel.Scale(1.0 / float64(ticksPerSecond)))
		a.DeathVel = a.DeathVel.Scale(0.85)
		a.DeathTicks--
		if a.DeathTicks <= 0 {
			finishDeath(ctx, a)
		}
	case PhaseDead:
	}
	return true
}

const ticksPerSecond = 20

// finishDeath settles the agent into the terminal phase and emits the
// one-shot completion events.
func finishDeath(ctx *TickContext, a *Agent) {
	a.DeathPhase = PhaseDead
	a.DeathVel = geom.Vec3{}
	a.DeadAtTick = ctx.Tick
	if a.lootEmitted {
		return
	}
	a.lootEmitted = true

	score := a.Template.Score
	if a.Boss {
		score *= int(ctx.Tuning.BossHPMult)
	}
	ctx.Events.EmitDeath(events.DeathEvent{
		ID:        uuid.New(),
		Pos:       a.Pos,
		Archetype: string(a.Template.Tag),
		Boss:      a.Boss,
		Score:     score,
	})
	ctx.Events.EmitEffect(events.EffectRequest{Kind: "blood_pool", Origin: a.Pos})
	if a.Boss {
		ctx.Events.EmitBossDefeated(events.BossDefeatedEvent{
			Pos:       a.Pos,
			Archetype: string(a.Template.Tag),
		})
	}
	ctx.Logger.Debug("agent died",
		zapInst(a),
	)
}
