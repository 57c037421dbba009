package ai

import (
	"math/rand"

	"go.uber.org/zap"

	"github.com/kasuganosora/swarmai/game/events"
	"github.com/kasuganosora/swarmai/game/geom"
)

// State enumerates the primary behavioral states of an agent.
type State int

const (
	StateIdle State = iota
	StateWander
	StateSearch
	StateChase
	StateBiting
	StateExploding
	StateStunned
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateWander:
		return "wander"
	case StateSearch:
		return "search"
	case StateChase:
		return "chase"
	case StateBiting:
		return "biting"
	case StateExploding:
		return "exploding"
	case StateStunned:
		return "stunned"
	}
	return "unknown"
}

// IsCommitment reports whether the state runs to completion regardless of
// perception events.
func (s State) IsCommitment() bool {
	return s == StateBiting || s == StateExploding || s == StateStunned
}

// DeathPhase enumerates the secondary death state machine.
type DeathPhase int

const (
	PhaseAlive DeathPhase = iota
	PhaseDyingAsh
	PhaseFalling
	PhaseDead
)

func (p DeathPhase) String() string {
	switch p {
	case PhaseAlive:
		return "alive"
	case PhaseDyingAsh:
		return "dying_ash"
	case PhaseFalling:
		return "falling"
	case PhaseDead:
		return "dead"
	}
	return "unknown"
}

// PlayerInfo is the minimal player data the AI needs.
type PlayerInfo struct {
	Pos geom.Vec3
	HP  float64
}

// NoiseEvent is a broadcast sound: published once, read by every live agent
// during the relevant tick, then discarded. Never mutated by readers.
type NoiseEvent struct {
	Origin   geom.Vec3
	Radius   float64
	Loudness events.Loudness
	Tick     int64
}

// Obstacle is a static blocker, reduced to a circle in the movement plane.
type Obstacle struct {
	Center geom.Vec3
	Radius float64
}

// AgentInfo is the read-only neighbor view returned by spatial queries.
type AgentInfo struct {
	InstID int64
	Pos    geom.Vec3
	Radius float64
}

// Surroundings abstracts arena access for the AI layer. Implemented by
// *world.Arena — declared here as an interface to avoid import cycle.
// Results are tick-scoped snapshots and must not be cached across ticks.
type Surroundings interface {
	Player() (PlayerInfo, bool)
	NearbyObstacles(pos geom.Vec3, r float64) []Obstacle
	NearbyAgents(pos geom.Vec3, r float64) []AgentInfo
	LineOfSight(from, to geom.Vec3) bool
	// ResolveCollision returns the push-out vector for a circle overlapping
	// an obstacle, or ok=false when there is no overlap.
	ResolveCollision(pos geom.Vec3, radius float64, ob Obstacle) (geom.Vec3, bool)
	// QueueImpulse defers a knockback onto another agent to the next tick.
	QueueImpulse(instID int64, impulse geom.Vec3)
}

// Notifier receives the events this subsystem produces. Implemented by the
// arena, which forwards to the event bus and the noise bus.
type Notifier interface {
	EmitDamage(ev events.DamageEvent)
	EmitEffect(ev events.EffectRequest)
	EmitDeath(ev events.DeathEvent)
	EmitBossDefeated(ev events.BossDefeatedEvent)
	EmitNoise(origin geom.Vec3, radius float64, loudness events.Loudness)
}

// TickContext is passed to Step for every agent during a tick.
type TickContext struct {
	Tick   int64
	World  Surroundings
	Noises []NoiseEvent
	Events Notifier
	RNG    *rand.Rand
	Tuning *Tuning
	Logger *zap.Logger
}

// Tuning holds every behavior knob. Loaded from the ai section of the
// config file; see config.Load for defaults.
type Tuning struct {
	ViewRange       float64 `mapstructure:"view_range"`
	FOVDegrees      float64 `mapstructure:"fov_degrees"`
	ChaseGraceTicks int     `mapstructure:"chase_grace_ticks"`
	FreshSightTicks int     `mapstructure:"fresh_sight_ticks"`

	IdleMinTicks int     `mapstructure:"idle_min_ticks"`
	IdleMaxTicks int     `mapstructure:"idle_max_ticks"`
	WanderRadius float64 `mapstructure:"wander_radius"`
	ArriveDist   float64 `mapstructure:"arrive_dist"`
	SearchTicks  int     `mapstructure:"search_ticks"`

	MoveStep float64 `mapstructure:"move_step"` // world units per tick at speed 1.0

	BurnTicks         int     `mapstructure:"burn_ticks"`
	BurnDamageTick    float64 `mapstructure:"burn_damage_tick"`
	AfterburnTicks    int     `mapstructure:"afterburn_ticks"`
	AfterburnDamage   float64 `mapstructure:"afterburn_damage"`
	SlowFactor        float64 `mapstructure:"slow_factor"`
	FleeHPFrac        float64 `mapstructure:"flee_hp_frac"`
	ExplosionFlashMod int     `mapstructure:"explosion_flash_mod"`

	AshTicks          int `mapstructure:"ash_ticks"`
	FallTicks         int `mapstructure:"fall_ticks"`
	CleanupGraceTicks int `mapstructure:"cleanup_grace_ticks"`

	BossHPMult         float64 `mapstructure:"boss_hp_mult"`
	BossDamageMult     float64 `mapstructure:"boss_damage_mult"`
	BossPerceptionMult float64 `mapstructure:"boss_perception_mult"`
	BossAbilityMult    float64 `mapstructure:"boss_ability_mult"`
}

// DefaultTuning returns the baseline knob values.
func DefaultTuning() Tuning {
	return Tuning{
		ViewRange:       25,
		FOVDegrees:      120,
		ChaseGraceTicks: 30,
		FreshSightTicks: 100,

		IdleMinTicks: 40,
		IdleMaxTicks: 120,
		WanderRadius: 12,
		ArriveDist:   0.5,
		SearchTicks:  200,

		MoveStep: 0.05, // speed 1.0 = 1 world unit per second at 20 TPS

		BurnTicks:         80,
		BurnDamageTick:    0.5,
		AfterburnTicks:    60,
		AfterburnDamage:   0.15,
		SlowFactor:        0.5,
		FleeHPFrac:        0.15,
		ExplosionFlashMod: 4,

		AshTicks:          40,
		FallTicks:         30,
		CleanupGraceTicks: 100,

		BossHPMult:         3,
		BossDamageMult:     2,
		BossPerceptionMult: 1.5,
		BossAbilityMult:    1.5,
	}
}

func zapInst(a *Agent) zap.Field { return zap.Int64("inst_id", a.InstID) }

// ViewRangeFor returns the effective view range for an agent, widened for
// bosses.
func (t *Tuning) ViewRangeFor(a *Agent) float64 {
	if a.Boss {
		return t.ViewRange * t.BossPerceptionMult
	}
	return t.ViewRange
}
