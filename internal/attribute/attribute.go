package attribute

import "fmt"

// Type identifies a character attribute.
//
// Health and MovementSpeed carry a base value. The remaining types are pure
// modifiers applied to values produced elsewhere (damage dealt, healing done,
// damage received) or thresholds (Stun).
type Type uint8

const (
	Health Type = iota
	MovementSpeed
	Damage
	Healing
	DamageTaken
	Stun

	TypeCount
)

var typeNames = [TypeCount]string{
	Health:        "health",
	MovementSpeed: "movement_speed",
	Damage:        "damage",
	Healing:       "healing",
	DamageTaken:   "damage_taken",
	Stun:          "stun",
}

func (t Type) String() string {
	if t < TypeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("attribute(%d)", uint8(t))
}

// ParseType returns the Type with the given name.
func ParseType(name string) (Type, error) {
	for i, n := range typeNames {
		if n == name {
			return Type(i), nil
		}
	}
	return 0, fmt.Errorf("unknown attribute type: %q", name)
}

// CanHaveBaseValue reports whether attributes of type t carry a base value.
func CanHaveBaseValue(t Type) bool {
	return t == Health || t == MovementSpeed
}

// CanHaveBonus reports whether attributes of type t accept an additive bonus.
func CanHaveBonus(t Type) bool {
	return t != DamageTaken
}

// CanHaveMultiplierBonus reports whether attributes of type t accept a
// multiplicative bonus.
func CanHaveMultiplierBonus(t Type) bool {
	return t != Stun
}

const (
	minModifiedValue = 1.0
	minMultiplier    = 0.1

	// StunThreshold is the Stun bonus at which a character counts as stunned.
	StunThreshold = 1.0
)

// Attribute is a single stat: either a base-valued stat (Health, MovementSpeed)
// or a pure modifier (Damage, Healing, DamageTaken, Stun).
//
// Fields that are not meaningful for the attribute type are always zero.
type Attribute struct {
	typ             Type
	baseValue       float64
	bonus           float64
	multiplierBonus float64
}

// New creates an attribute of type t. baseValue is ignored for types that
// cannot have a base value.
func New(t Type, baseValue float64) Attribute {
	a := Attribute{typ: t}
	a.SetBaseValue(baseValue)
	return a
}

func (a *Attribute) Type() Type               { return a.typ }
func (a *Attribute) BaseValue() float64       { return a.baseValue }
func (a *Attribute) Bonus() float64           { return a.bonus }
func (a *Attribute) MultiplierBonus() float64 { return a.multiplierBonus }

// SetBaseValue sets the base value, or resets it to 0 when the type has none.
func (a *Attribute) SetBaseValue(v float64) {
	if !CanHaveBaseValue(a.typ) {
		v = 0
	}
	a.baseValue = v
}

// SetBonus sets the additive bonus, or resets it to 0 when not applicable.
func (a *Attribute) SetBonus(v float64) {
	if !CanHaveBonus(a.typ) {
		v = 0
	}
	a.bonus = v
}

// SetMultiplierBonus sets the multiplicative bonus, or resets it to 0 when
// not applicable.
func (a *Attribute) SetMultiplierBonus(v float64) {
	if !CanHaveMultiplierBonus(a.typ) {
		v = 0
	}
	a.multiplierBonus = v
}

// Alter adds bonus and multiplierBonus to the current values.
func (a *Attribute) Alter(bonus, multiplierBonus float64) {
	a.SetBonus(a.bonus + bonus)
	a.SetMultiplierBonus(a.multiplierBonus + multiplierBonus)
}

// ApplyModifier runs v through the attribute's bonus and multiplier bonus.
// The result is never below 1.0.
func (a *Attribute) ApplyModifier(v float64) float64 {
	added := max(v+a.bonus, minModifiedValue)
	mul := max(1.0+a.multiplierBonus, minMultiplier)
	return max(added*mul, minModifiedValue)
}

// Value returns the modified base value. Only meaningful for base-valued types.
func (a *Attribute) Value() float64 {
	return a.ApplyModifier(a.baseValue)
}
