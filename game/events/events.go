package events

import (
	"github.com/google/uuid"

	"github.com/kasuganosora/swarmai/game/geom"
)

// Event is emitted by the AI core for external consumers (player health,
// scoring/loot, mission flow, effects pipeline).
type Event interface {
	EventType() string
}

// Loudness categorizes a noise event.
type Loudness int

const (
	LoudnessSoft Loudness = iota
	LoudnessNormal
	LoudnessLoud
)

func (l Loudness) String() string {
	switch l {
	case LoudnessSoft:
		return "soft"
	case LoudnessNormal:
		return "normal"
	case LoudnessLoud:
		return "loud"
	}
	return "unknown"
}

// DamageEvent is consumed by the player-health system.
type DamageEvent struct {
	Amount    float64   `json:"amount"`
	Source    string    `json:"source"` // archetype tag, or "Boss"
	Origin    geom.Vec3 `json:"origin"`
	Knockback geom.Vec3 `json:"knockback,omitempty"`
}

func (DamageEvent) EventType() string { return "damage" }

// EffectRequest is a fire-and-forget particle/decal/audio cue.
type EffectRequest struct {
	Kind   string    `json:"kind"`
	Origin geom.Vec3 `json:"origin"`
}

func (EffectRequest) EventType() string { return "effect" }

// DeathEvent is consumed exactly once per agent by scoring/loot systems.
// The ID lets consumers deduplicate.
type DeathEvent struct {
	ID        uuid.UUID `json:"id"`
	Pos       geom.Vec3 `json:"pos"`
	Archetype string    `json:"archetype"`
	Boss      bool      `json:"boss"`
	Score     int       `json:"score"`
}

func (DeathEvent) EventType() string { return "death" }

// BossDefeatedEvent is consumed by mission-flow/cinematic consumers.
type BossDefeatedEvent struct {
	Pos       geom.Vec3 `json:"pos"`
	Archetype string    `json:"archetype"`
}

func (BossDefeatedEvent) EventType() string { return "boss_defeated" }

// SpawnEvent announces a newly registered agent.
type SpawnEvent struct {
	InstID    int64     `json:"inst_id"`
	Pos       geom.Vec3 `json:"pos"`
	Archetype string    `json:"archetype"`
	Boss      bool      `json:"boss"`
}

func (SpawnEvent) EventType() string { return "spawn" }
