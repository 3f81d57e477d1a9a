package attribute

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyModifier_NoBonuses(t *testing.T) {
	a := New(Damage, 0)
	assert.Equal(t, 10.0, a.ApplyModifier(10))
}

func TestApplyModifier_Formula(t *testing.T) {
	a := New(Damage, 0)
	a.Alter(5, 0.5)

	// (10+5) * 1.5
	assert.InDelta(t, 22.5, a.ApplyModifier(10), 1e-9)
}

func TestApplyModifier_NeverBelowOne(t *testing.T) {
	bonuses := []float64{-1000, -10, -1, 0, 0.5, 3, 1000}
	multipliers := []float64{-50, -1, -0.95, -0.5, 0, 0.5, 10}
	values := []float64{-1e6, -10, 0, 0.2, 1, 10, 1e6}

	for _, typ := range []Type{Health, MovementSpeed, Damage, Healing, DamageTaken} {
		for _, b := range bonuses {
			for _, m := range multipliers {
				for _, v := range values {
					a := New(typ, v)
					a.Alter(b, m)
					got := a.ApplyModifier(v)
					if got < 1.0 || math.IsNaN(got) {
						t.Fatalf("%s: ApplyModifier(%v) with bonus=%v mul=%v = %v, want >= 1", typ, v, b, m, got)
					}
					if CanHaveBaseValue(typ) {
						assert.GreaterOrEqual(t, a.Value(), 1.0)
					}
				}
			}
		}
	}
}

func TestApplyModifier_MultiplierFloor(t *testing.T) {
	a := New(Healing, 0)
	a.Alter(0, -5)

	// multiplier clamps to 0.1: max(100*0.1, 1)
	assert.InDelta(t, 10.0, a.ApplyModifier(100), 1e-9)
}

func TestNonApplicableFieldsReset(t *testing.T) {
	dmg := New(Damage, 50)
	assert.Zero(t, dmg.BaseValue(), "modifier attributes have no base value")

	taken := New(DamageTaken, 0)
	taken.Alter(3, 0.2)
	assert.Zero(t, taken.Bonus())
	assert.InDelta(t, 0.2, taken.MultiplierBonus(), 1e-9)

	stun := New(Stun, 0)
	stun.Alter(0.6, 4)
	assert.InDelta(t, 0.6, stun.Bonus(), 1e-9)
	assert.Zero(t, stun.MultiplierBonus())

	hp := New(Health, 100)
	assert.Equal(t, 100.0, hp.BaseValue())
}

func TestParseType(t *testing.T) {
	for typ := range TypeCount {
		got, err := ParseType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}

	_, err := ParseType("mana")
	assert.Error(t, err)
}

type recordingListener struct {
	changes []bool
}

func (l *recordingListener) OnStunChanged(stunned bool) {
	l.changes = append(l.changes, stunned)
}

func TestSet_StunAccumulation(t *testing.T) {
	s := NewSet(100, 600)
	l := &recordingListener{}
	s.SetStunListener(l)

	s.Alter(Stun, 0.6, 0)
	assert.False(t, s.IsStunned(), "one 0.6 stun is below threshold")

	s.Alter(Stun, 0.6, 0)
	assert.True(t, s.IsStunned(), "two 0.6 stuns reach threshold")

	s.Alter(Stun, -0.6, 0)
	assert.False(t, s.IsStunned())

	assert.Equal(t, []bool{true, false}, l.changes)
}

func TestSet_ModifierBonusPanicsOnBaseValued(t *testing.T) {
	s := NewSet(100, 600)

	assert.Panics(t, func() { s.ModifierBonus(Health) })
	assert.Panics(t, func() { s.ModifierMultiplierBonus(MovementSpeed) })
	assert.Panics(t, func() { s.Value(Damage) })
	assert.NotPanics(t, func() { s.ModifierBonus(Damage) })
}

func TestSet_HealthValue(t *testing.T) {
	s := NewSet(100, 600)
	assert.Equal(t, 100.0, s.Value(Health))

	s.Alter(Health, 20, 0.5)
	assert.InDelta(t, 180.0, s.Value(Health), 1e-9)
}
