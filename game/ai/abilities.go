package ai

import "github.com/kasuganosora/swarmai/resource"

// AbilityKind selects the attack behavior an archetype commits to when in
// range of the player.
type AbilityKind int

const (
	AbilityBite AbilityKind = iota
	AbilitySmash
	AbilitySelfDestruct
)

// Ability is the tuning row for one archetype's attack. Smash is a bite
// with splash and knockback; self-destruct replaces the bite entirely.
type Ability struct {
	Kind          AbilityKind
	AttackRange   float64
	CommitTicks   int     // BITING duration
	HitTick       int     // tick within the commitment when damage lands
	CooldownTicks int
	SmashRadius   float64 // splash radius, smash only
	Knockback     float64 // impulse magnitude, smash only
	TriggerRange  float64 // self-destruct arming distance
	FuseTicks     int     // self-destruct countdown
	BlastRadius   float64
	BlastDamage   float64
}

var baselineAbility = Ability{
	Kind:          AbilityBite,
	AttackRange:   1.4,
	CommitTicks:   16,
	HitTick:       10,
	CooldownTicks: 24,
}

var abilityRows = map[resource.Archetype]Ability{
	resource.ArchetypeWalker: baselineAbility,
	resource.ArchetypeRunner: {
		Kind:          AbilityBite,
		AttackRange:   1.4,
		CommitTicks:   10,
		HitTick:       6,
		CooldownTicks: 14,
	},
	resource.ArchetypeBrute: {
		Kind:          AbilitySmash,
		AttackRange:   2.2,
		CommitTicks:   24,
		HitTick:       16,
		CooldownTicks: 40,
		SmashRadius:   3.0,
		Knockback:     9.0,
	},
	resource.ArchetypeBomber: {
		Kind:         AbilitySelfDestruct,
		TriggerRange: 2.5,
		FuseTicks:    24,
		BlastRadius:  4.0,
		BlastDamage:  30,
	},
}

// abilityFor returns the attack row for an archetype, boss-amplified.
// Unknown tags get the baseline bite.
func abilityFor(a *Agent, tuning *Tuning) Ability {
	row, ok := abilityRows[a.Template.Tag]
	if !ok {
		row = baselineAbility
	}
	if a.Boss {
		row.SmashRadius *= tuning.BossAbilityMult
		row.Knockback *= tuning.BossAbilityMult
		row.BlastRadius *= tuning.BossAbilityMult
		row.BlastDamage *= tuning.BossDamageMult
	}
	return row
}
