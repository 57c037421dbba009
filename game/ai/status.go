package ai

import "github.com/kasuganosora/swarmai/game/geom"

// stepStatus advances every status-effect timer by one tick and applies
// periodic damage. Runs before perception so effect deaths are observed on
// the tick they happen.
func stepStatus(ctx *TickContext, a *Agent) {
	if a.BurnTicks > 0 {
		a.BurnTicks--
		a.TakeDamage(ctx.Tuning.BurnDamageTick, geom.Vec3{}, ctx.Tuning)
		if a.BurnTicks == 0 && a.DeathPhase == PhaseAlive {
			a.AfterburnTicks = ctx.Tuning.AfterburnTicks
		}
	} else if a.AfterburnTicks > 0 {
		a.AfterburnTicks--
		a.TakeDamage(ctx.Tuning.AfterburnDamage, geom.Vec3{}, ctx.Tuning)
	}

	if a.BlindTicks > 0 {
		a.BlindTicks--
	}
	if a.SlowTicks > 0 {
		a.SlowTicks--
	}
}
