package attribute

import (
	"fmt"
	"log/slog"
)

// StunListener is notified when the stunned state of a Set flips.
type StunListener interface {
	OnStunChanged(stunned bool)
}

// Set holds one attribute of every type for a single character.
//
// Not safe for concurrent use.
type Set struct {
	attrs    [TypeCount]Attribute
	stunned  bool
	listener StunListener
}

// NewSet creates a Set with the given base health and movement speed.
func NewSet(health, movementSpeed float64) *Set {
	s := &Set{}
	for t := range TypeCount {
		s.attrs[t] = New(t, 0)
	}
	s.attrs[Health].SetBaseValue(health)
	s.attrs[MovementSpeed].SetBaseValue(movementSpeed)
	return s
}

// SetStunListener installs l as the stun listener. Nil removes it.
func (s *Set) SetStunListener(l StunListener) {
	s.listener = l
}

// Get returns a copy of the attribute of type t.
func (s *Set) Get(t Type) Attribute {
	return s.attrs[t]
}

// Alter adds bonus and multiplierBonus to the attribute of type t.
func (s *Set) Alter(t Type, bonus, multiplierBonus float64) {
	s.attrs[t].Alter(bonus, multiplierBonus)

	slog.Debug("attribute altered",
		"attribute", t,
		"bonus", s.attrs[t].Bonus(),
		"multiplierBonus", s.attrs[t].MultiplierBonus())

	if t == Stun {
		s.updateStun()
	}
}

// Value returns the modified value of a base-valued attribute.
func (s *Set) Value(t Type) float64 {
	mustHaveBaseValue(t)
	return s.attrs[t].Value()
}

// ApplyModifier runs v through the modifier attribute of type t.
func (s *Set) ApplyModifier(t Type, v float64) float64 {
	return s.attrs[t].ApplyModifier(v)
}

// ModifierBonus returns the additive bonus of a modifier attribute.
// Panics if t is a base-valued attribute.
func (s *Set) ModifierBonus(t Type) float64 {
	mustBeModifier(t)
	return s.attrs[t].Bonus()
}

// ModifierMultiplierBonus returns the multiplicative bonus of a modifier
// attribute. Panics if t is a base-valued attribute.
func (s *Set) ModifierMultiplierBonus(t Type) float64 {
	mustBeModifier(t)
	return s.attrs[t].MultiplierBonus()
}

// IsStunned reports whether the accumulated Stun bonus reached StunThreshold.
func (s *Set) IsStunned() bool {
	return s.stunned
}

func (s *Set) updateStun() {
	stunned := s.attrs[Stun].Bonus() >= StunThreshold
	if stunned == s.stunned {
		return
	}
	s.stunned = stunned
	if s.listener != nil {
		s.listener.OnStunChanged(stunned)
	}
}

func mustBeModifier(t Type) {
	if CanHaveBaseValue(t) {
		panic(fmt.Sprintf("attribute: %s is not a modifier attribute", t))
	}
}

func mustHaveBaseValue(t Type) {
	if !CanHaveBaseValue(t) {
		panic(fmt.Sprintf("attribute: %s has no base value", t))
	}
}
