package ai

import (
	"sync/atomic"

	"github.com/kasuganosora/swarmai/game/geom"
	"github.com/kasuganosora/swarmai/resource"
)

// instIDCounter generates unique agent instance IDs.
var instIDCounter int64

func nextInstID() int64 {
	return atomic.AddInt64(&instIDCounter, 1)
}

// Agent is the runtime state of one live hostile agent. All mutation is
// confined to the owning arena goroutine; no locking is needed.
type Agent struct {
	InstID     int64
	Template   *resource.ArchetypeStats
	Boss       bool
	SpawnGroup int

	Pos    geom.Vec3
	Facing geom.Vec3 // unit vector in the XZ plane
	Vel    geom.Vec3

	HP    float64
	MaxHP float64

	State        State
	SpawnAnchor  geom.Vec3
	WanderTarget geom.Vec3

	// LastSeen is position memory: set by a confirmed sighting, or set to a
	// noise origin as a coarse suspected location. LastSeenTick is advanced
	// only by vision; hearing never refreshes it.
	LastSeen     *geom.Vec3
	LastSeenTick int64

	IdleTicks   int
	SearchTicks int
	// losLostTicks counts consecutive CHASE ticks without line of sight and
	// beyond view range.
	losLostTicks int

	AttackCooldown int
	CommitTicks    int // remaining ticks of the current BITING window
	commitHit      bool
	FuseTicks      int // EXPLODING countdown
	StunTicks      int

	// Status-effect timers (tick counts).
	BurnTicks      int
	AfterburnTicks int
	BlindTicks     int
	SlowTicks      int

	DeathPhase DeathPhase
	DeathTicks int
	DeathVel   geom.Vec3
	DeadAtTick int64

	Fleeing     bool
	lootEmitted bool

	prevPos    geom.Vec3
	stuckTicks int
}

// NewAgent creates a fresh agent from a stat row in state IDLE with timers
// zeroed. The boss flag scales hp; damage and perception scaling are
// applied at use sites.
func NewAgent(template *resource.ArchetypeStats, pos geom.Vec3, boss bool, tuning *Tuning) *Agent {
	maxHP := template.MaxHP
	if boss {
		maxHP *= tuning.BossHPMult
	}
	return &Agent{
		InstID:      nextInstID(),
		Template:    template,
		Boss:        boss,
		Pos:         pos,
		Facing:      geom.V(0, 0, 1),
		HP:          maxHP,
		MaxHP:       maxHP,
		State:       StateIdle,
		SpawnAnchor: pos,
		IdleTicks:   tuning.IdleMinTicks,
	}
}

// Alive reports whether the death sequencer has not been entered.
func (a *Agent) Alive() bool { return a.DeathPhase == PhaseAlive }

// Archetype returns the agent's type tag.
func (a *Agent) Archetype() resource.Archetype { return a.Template.Tag }

// DamageSource returns the source label for damage events.
func (a *Agent) DamageSource() string {
	if a.Boss {
		return "Boss"
	}
	return string(a.Template.Tag)
}

// effectiveDamage returns the archetype damage, boss-scaled.
func (a *Agent) effectiveDamage(tuning *Tuning) float64 {
	if a.Boss {
		return a.Template.Damage * tuning.BossDamageMult
	}
	return a.Template.Damage
}

// TakeDamage applies damage with HP clamped to [0, MaxHP]. deathVel is the
// impulse carried into the death sequence; zero selects the ash sequence.
// An EXPLODING agent owns its terminal transition: hp reaching 0 during
// the countdown does not enter the death sequencer.
func (a *Agent) TakeDamage(amount float64, deathVel geom.Vec3, tuning *Tuning) {
	if a.DeathPhase != PhaseAlive {
		return
	}
	a.HP -= amount
	if a.HP < 0 {
		a.HP = 0
	}
	if a.HP > a.MaxHP {
		a.HP = a.MaxHP
	}
	if a.HP == 0 && a.State != StateExploding {
		a.enterDeath(deathVel, tuning)
	}
}

// Ignite starts or refreshes burning. Re-ignition keeps the larger of the
// current and new durations; there is no additive stacking.
func (a *Agent) Ignite(ticks int) {
	if a.DeathPhase != PhaseAlive {
		return
	}
	if ticks > a.BurnTicks {
		a.BurnTicks = ticks
	}
	a.AfterburnTicks = 0
}

// Blind disables the vision channel for the given duration.
func (a *Agent) Blind(ticks int) {
	if a.DeathPhase != PhaseAlive {
		return
	}
	if ticks > a.BlindTicks {
		a.BlindTicks = ticks
	}
}

// Slow multiplies movement speed by the configured slow factor for the
// given duration. Attack timing is unaffected.
func (a *Agent) Slow(ticks int) {
	if a.DeathPhase != PhaseAlive {
		return
	}
	if ticks > a.SlowTicks {
		a.SlowTicks = ticks
	}
}

// ApplyStun moves the agent to STUNNED from any non-terminal state.
// EXPLODING runs to completion and a dead agent cannot be stunned.
func (a *Agent) ApplyStun(ticks int) bool {
	if a.DeathPhase != PhaseAlive || a.State == StateExploding {
		return false
	}
	a.State = StateStunned
	a.StunTicks = ticks
	a.CommitTicks = 0
	a.commitHit = false
	a.Vel = geom.Vec3{}
	return true
}

// Blinded reports whether the vision channel is currently disabled.
func (a *Agent) Blinded() bool { return a.BlindTicks > 0 }

// speed returns the current movement speed in world units per second,
// after the slow factor.
func (a *Agent) speed(tuning *Tuning) float64 {
	s := a.Template.Speed
	if a.Boss {
		s *= tuning.BossAbilityMult
	}
	if a.SlowTicks > 0 {
		s *= tuning.SlowFactor
	}
	return s
}

// recordSighting stores a confirmed visual contact.
func (a *Agent) recordSighting(pos geom.Vec3, tick int64) {
	p := pos
	a.LastSeen = &p
	a.LastSeenTick = tick
}

// suspect stores a hearing-derived location without refreshing the
// sighting timestamp.
func (a *Agent) suspect(pos geom.Vec3) {
	p := pos
	a.LastSeen = &p
}

// sightingFresh reports whether the last confirmed sighting is recent
// enough to resume a chase.
func (a *Agent) sightingFresh(tick int64, tuning *Tuning) bool {
	return a.LastSeen != nil && a.LastSeenTick > 0 &&
		tick-a.LastSeenTick <= int64(tuning.FreshSightTicks)
}
