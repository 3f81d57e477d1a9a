package effect_test

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/udisondev/idkfx/internal/attribute"
	"github.com/udisondev/idkfx/internal/effect"
)

func TestSavedValues_Accumulates(t *testing.T) {
	s := effect.NewSavedValues(false)
	s.Save(1, 4)
	s.Save(1, 6)
	s.Save(effect.NoID, 100)

	v, err := s.Value(1)
	require.NoError(t, err)
	assert.Equal(t, 10.0, v)
	assert.Equal(t, 1, s.Len())

	s.Set(1, 2)
	v, err = s.Value(1)
	require.NoError(t, err)
	assert.Equal(t, 2.0, v)
}

func TestSavedValues_Missing(t *testing.T) {
	s := effect.NewSavedValues(true)
	_, err := s.Value(3)
	assert.ErrorIs(t, err, effect.ErrMissingSavedValue)
	assert.True(t, s.FromMultiHit())

	var absent *effect.SavedValues
	_, err = absent.Value(3)
	assert.ErrorIs(t, err, effect.ErrMissingSavedValue)
	assert.False(t, absent.Has(3))
}

func TestSimpleEffect_Value(t *testing.T) {
	local := effect.NewSavedValues(false)
	local.Save(1, 10)
	local.Save(2, 0.5)
	prev := effect.NewSavedValues(false)
	prev.Save(3, 20)

	e := effect.NewSimple(effect.Damage, 5).
		Use(1, 2).
		With(2, effect.UseInfo{Weight: 1, Mode: effect.UseMultiplicative, Local: true}).
		UsePrevious(3, 0.1).
		Build()

	tests := []struct {
		name      string
		perHit    float64
		modifiers bool
		bonus     float64
		mult      float64
		want      float64
	}{
		// (5 + 10*2 + 20*0.1) * (1 + 0.5)
		{name: "plain", perHit: 1, want: 40.5},
		// (5*0.5 + 20*0.5 + 2*0.5) * 1.5
		{name: "per hit", perHit: 0.5, want: 20.25},
		// (5 + 20 + 2 + 3) * (1 + 0.5 + 0.5)
		{name: "modifiers", perHit: 1, modifiers: true, bonus: 3, mult: 0.5, want: 60},
		// modifiers ignored when disabled
		{name: "modifiers off", perHit: 1, bonus: 3, mult: 0.5, want: 40.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			caster := newDummy("caster", 100)
			caster.bonus[attribute.Damage] = tt.bonus
			caster.multiplier[attribute.Damage] = tt.mult

			got, err := e.Value(&effect.ApplyParams{
				Applier:          caster,
				Target:           newDummy("target", 100),
				Local:            local,
				Previous:         prev,
				PerHitMultiplier: tt.perHit,
				ApplyModifiers:   tt.modifiers,
			})
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestSimpleEffect_Value_MultiHitStoreNotRescaled(t *testing.T) {
	prev := effect.NewSavedValues(true)
	prev.Save(1, 8)

	e := effect.NewSimple(effect.Healing, 0).UsePrevious(1, 0.5).Build()
	got, err := e.Value(&effect.ApplyParams{
		Target:           newDummy("t", 10),
		Previous:         prev,
		PerHitMultiplier: 0.25,
	})
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 1e-9)
}

func TestSimpleEffect_Value_ScaleByStacks(t *testing.T) {
	local := effect.NewSavedValues(false)
	local.Set(effect.StackID, 3)

	e := effect.NewSimple(effect.Damage, 4).ScaleByStacks().Build()
	got, err := e.Value(&effect.ApplyParams{Target: newDummy("t", 10), Local: local})
	require.NoError(t, err)
	assert.InDelta(t, 12.0, got, 1e-9)
}

func TestSimpleEffect_Value_MissingSavedValue(t *testing.T) {
	e := effect.NewSimple(effect.Damage, 1).Use(9, 1).Build()
	_, err := e.Value(&effect.ApplyParams{Target: newDummy("t", 10), Local: effect.NewSavedValues(false)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, effect.ErrMissingSavedValue))
}

func TestSimpleEffect_Apply_Queries(t *testing.T) {
	target := newDummy("target", 100)
	target.health = 25
	target.statuses["burn"] = 3

	local := effect.NewSavedValues(false)
	p := &effect.ApplyParams{Applier: target, Target: target, Local: local}

	effects := []*effect.SimpleEffect{
		effect.NewSimple(effect.GetMissingHealth, 0).Save(1).Build(),
		effect.NewSimple(effect.GetHealthPercent, 0).Save(2).Build(),
		effect.NewSimple(effect.GetStatusEffectStacks, 0).StatusEffect("burn").Save(3).Build(),
		effect.NewSimple(effect.RemoveStatusEffect, 0).StatusEffect("burn").Save(4).Build(),
	}
	for _, e := range effects {
		require.NoError(t, e.Apply(p))
	}

	want := map[effect.ID]float64{1: 75, 2: 0.25, 3: 3, 4: 3}
	for id, w := range want {
		v, err := local.Value(id)
		require.NoError(t, err)
		assert.InDelta(t, w, v, 1e-9, "id %s", id)
	}
	assert.False(t, target.HasStatusEffect("burn"))
}

func TestSimpleEffect_Apply_SavesDealtDamage(t *testing.T) {
	target := newDummy("target", 7)
	local := effect.NewSavedValues(false)

	e := effect.NewSimple(effect.Damage, 10).Save(1).BonusSave(2).Build()
	require.NoError(t, e.Apply(&effect.ApplyParams{Target: target, Local: local, Reaction: effect.ReactionHostile}))

	for _, id := range []effect.ID{1, 2} {
		v, err := local.Value(id)
		require.NoError(t, err)
		assert.Equal(t, 7.0, v)
	}
	assert.Equal(t, []effect.Reaction{effect.ReactionHostile}, target.reactions)
}

func TestSimpleEffect_Apply_Push(t *testing.T) {
	target := newDummy("target", 10)
	target.location = effect.Vector{X: 3, Y: 4, Z: 9}

	e := effect.NewSimple(effect.Push, 2).Build()
	require.NoError(t, e.Apply(&effect.ApplyParams{
		Target: target,
		Local:  effect.NewSavedValues(false),
	}))

	require.Len(t, target.pushes, 1)
	impulse := target.pushes[0]
	assert.InDelta(t, 0.6*2*effect.PushImpulseScale, impulse.X, 1e-9)
	assert.InDelta(t, 0.8*2*effect.PushImpulseScale, impulse.Y, 1e-9)
	assert.Zero(t, impulse.Z)
}

func TestSimpleEffect_Apply_DisableItem(t *testing.T) {
	target := newDummy("target", 10)
	target.items["shield"] = 0
	local := effect.NewSavedValues(false)

	e := effect.NewSimple(effect.DisableItem, 1.5).Item("shield").Save(1).Build()
	require.NoError(t, e.Apply(&effect.ApplyParams{Target: target, Local: local}))
	assert.Equal(t, 1500*time.Millisecond, target.items["shield"])

	missing := effect.NewSimple(effect.DisableItem, 1.5).Item("sword").Save(2).Build()
	require.NoError(t, missing.Apply(&effect.ApplyParams{Target: target, Local: local}))
	v, err := local.Value(2)
	require.NoError(t, err)
	assert.Zero(t, v)
}

func TestSimpleEffect_SwapIDs(t *testing.T) {
	e := effect.NewSimple(effect.Damage, 1).Save(1).BonusSave(2).Use(3, 1).Build()
	e.SwapIDs(map[effect.ID]effect.ID{1: 10, 3: 30})

	assert.Equal(t, effect.ID(10), e.SaveID)
	assert.True(t, e.BonusSaveIDs.Contains(2))
	assert.Contains(t, e.Uses, effect.ID(30))
	assert.NotContains(t, e.Uses, effect.ID(3))
}

func TestSimpleEffect_CloneIsDeep(t *testing.T) {
	e := effect.NewSimple(effect.Damage, 1).Use(3, 1).Build()
	cp := e.Clone().(*effect.SimpleEffect)
	cp.Uses[4] = effect.UseInfo{Weight: 1}
	assert.NotContains(t, e.Uses, effect.ID(4))
}
