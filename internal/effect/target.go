package effect

import (
	"time"

	"github.com/udisondev/idkfx/internal/attribute"
)

//go:generate mockgen -destination=mock/mock_host.go -package=effectmock github.com/udisondev/idkfx/internal/effect Host

// Combatant is what single-stage effects act on and read from.
type Combatant interface {
	Name() string
	Location() Vector

	// ApplyDamage deals amount to the combatant and returns the damage dealt.
	ApplyDamage(amount float64, source Combatant, reaction Reaction) float64
	// ApplyHealing heals the combatant and returns the amount healed.
	ApplyHealing(amount float64, source Combatant, reaction Reaction) float64

	ApplyModifier(t attribute.Type, v float64) float64
	ModifierBonus(t attribute.Type) float64
	ModifierMultiplierBonus(t attribute.Type) float64

	CurrentHealth() float64
	MissingHealth() float64
	// HealthPercent returns current/max health in [0, 1].
	HealthPercent() float64

	ApplyStatusEffect(s *StatusEffect, applier Combatant)
	HasStatusEffect(name string) bool
	StatusEffectStacks(name string) int
	// RemoveStatusEffects clears the named status effect and returns the
	// number of stacks removed.
	RemoveStatusEffects(name string) int

	Push(impulse Vector)
	// DisableItemByName disables an owned item for d. Returns false when the
	// item is not owned or already disabled.
	DisableItemByName(name string, d time.Duration) bool
}

// Host is what item effects and status persistent effects act on: the owner
// of attributes and of the per-location effect storage.
type Host interface {
	AlterAttribute(t attribute.Type, bonus, multiplierBonus float64)

	// AddEffectToLocation attaches bonus at loc. When *id is NoID a new
	// attachment is created and *id receives its id; otherwise the existing
	// attachment gains a stack.
	AddEffectToLocation(loc Location, bonus *MultiStageBonusEffect, id *ID)
	RemoveEffectFromLocation(loc Location, id ID)

	// AddPartialEffect taps effects at info.Location and returns the
	// attachment id.
	AddPartialEffect(info PartialEffectInfo, bonus *BonusEffect) (ID, error)
	AddPartialEffectStack(loc Location, id ID)
	RemovePartialEffect(loc Location, id ID)
}

// AbilityRegistry is implemented by characters that own abilities.
type AbilityRegistry interface {
	RegisterAbilityEffect(name string, e *MultiStageEffect)
	UnregisterAbilityEffect(name string)
	RegisterBasicAttackEffect(e *MultiStageEffect)
}

// Target is the full collaborator contract of the effect system.
type Target interface {
	Combatant
	Host
	AbilityRegistry
}
