package effect

import (
	"fmt"
	"log/slog"
)

// MultiStageEffect is an ability, basic attack or reactive effect: single
// stage effects in Self, Target and Callback stages plus the bonus effects
// attached to it at runtime.
type MultiStageEffect struct {
	Name string
	// CanHaveTargetEffects allows target-stage bonus effects even when the
	// effect has no target effects of its own.
	CanHaveTargetEffects bool

	stages   Container
	bonusIDs IDSet
}

// NewMultiStageEffect returns an empty effect.
func NewMultiStageEffect(name string) *MultiStageEffect {
	return &MultiStageEffect{Name: name}
}

// Effects returns the effects of stage st.
func (m *MultiStageEffect) Effects(st Stage) []SingleStage {
	return m.stages.Effects(st)
}

// AddEffects appends effects to stage st.
func (m *MultiStageEffect) AddEffects(st Stage, effects ...SingleStage) {
	m.stages.Add(st, effects...)
}

// HasTargetEffects reports whether the Target stage is non-empty.
func (m *MultiStageEffect) HasTargetEffects() bool {
	return m.stages.HasTargetEffects()
}

// BonusIDs returns the identities of the attached bonus effects.
func (m *MultiStageEffect) BonusIDs() IDSet {
	return m.bonusIDs
}

func (m *MultiStageEffect) allowsTargetEffects() bool {
	return m.CanHaveTargetEffects || m.stages.HasTargetEffects()
}

// Clone returns a deep copy, attached bonus effects included.
func (m *MultiStageEffect) Clone() *MultiStageEffect {
	return &MultiStageEffect{
		Name:                 m.Name,
		CanHaveTargetEffects: m.CanHaveTargetEffects,
		stages:               Container{m.stages.cloneStages()},
		bonusIDs:             m.bonusIDs,
	}
}

// Application is one cast of a MultiStageEffect. It owns the Self stage store
// shared by every target of the cast.
type Application struct {
	effect *MultiStageEffect
	caster Combatant
	origin Vector
	self   *SavedValues
}

// SelfValues returns the Self stage store.
func (a *Application) SelfValues() *SavedValues {
	return a.self
}

// ApplyEffectsToSelf applies the Self stage on caster with modifiers and
// returns the cast to apply the remaining stages per target.
func (m *MultiStageEffect) ApplyEffectsToSelf(caster Combatant, origin Vector) (*Application, error) {
	a := &Application{effect: m, caster: caster, origin: origin, self: NewSavedValues(false)}
	p := &ApplyParams{
		Applier:        caster,
		Target:         caster,
		Origin:         origin,
		Local:          a.self,
		ApplyModifiers: true,
		Reaction:       ReactionFriendly,
	}
	if err := applyAll(m.stages.stages[StageSelf], p); err != nil {
		return nil, fmt.Errorf("%s: self stage: %w", m.Name, err)
	}
	return a, nil
}

// ApplyEffectsToSelfWithValue applies the Self stage of a reactive effect.
// ConditionalEffectValueID holds value. Modifiers are not applied and nothing
// further is triggered.
func (m *MultiStageEffect) ApplyEffectsToSelfWithValue(self Combatant, value float64) error {
	store := NewSavedValues(false)
	store.Set(ConditionalEffectValueID, value)
	p := &ApplyParams{
		Applier:  self,
		Target:   self,
		Origin:   self.Location(),
		Local:    store,
		Reaction: ReactionNone,
	}
	if err := applyAll(m.stages.stages[StageSelf], p); err != nil {
		return fmt.Errorf("%s: reactive self stage: %w", m.Name, err)
	}
	return nil
}

// ApplyEffectsToTarget applies the Target stage on target and then the
// Callback stage on the caster. It may be called once per target and once per
// hit; every call gets its own Target and Callback stores.
func (a *Application) ApplyEffectsToTarget(target Combatant, perHitMultiplier float64) error {
	m := a.effect
	if perHitMultiplier == 0 {
		perHitMultiplier = 1
	}
	multiHit := perHitMultiplier != 1

	targetValues := NewSavedValues(multiHit)
	p := &ApplyParams{
		Applier:          a.caster,
		Target:           target,
		Origin:           a.origin,
		Local:            targetValues,
		Previous:         a.self,
		PerHitMultiplier: perHitMultiplier,
		ApplyModifiers:   true,
		Reaction:         ReactionHostile,
	}
	if err := applyAll(m.stages.stages[StageTarget], p); err != nil {
		return fmt.Errorf("%s: target stage: %w", m.Name, err)
	}

	if len(m.stages.stages[StageCallback]) == 0 {
		return nil
	}
	p = &ApplyParams{
		Applier:          a.caster,
		Target:           a.caster,
		Origin:           target.Location(),
		Local:            NewSavedValues(multiHit),
		Previous:         targetValues,
		PerHitMultiplier: perHitMultiplier,
		ApplyModifiers:   true,
		Reaction:         ReactionFriendly,
	}
	if err := applyAll(m.stages.stages[StageCallback], p); err != nil {
		return fmt.Errorf("%s: callback stage: %w", m.Name, err)
	}
	return nil
}

// Apply casts the effect from origin on every target.
func (m *MultiStageEffect) Apply(caster Combatant, targets []Combatant, origin Vector, perHitMultiplier float64) error {
	a, err := m.ApplyEffectsToSelf(caster, origin)
	if err != nil {
		return err
	}
	for _, t := range targets {
		if err := a.ApplyEffectsToTarget(t, perHitMultiplier); err != nil {
			return err
		}
	}
	return nil
}

// AddBonusEffects attaches bonus to m.
//
// When *id is NoID or newID is set, a copy of bonus is spliced in under a
// freshly allocated identity written to *id; colliding save ids of the copy
// are remapped first. Otherwise every attached bonus effect with identity *id
// gains a stack.
func (m *MultiStageEffect) AddBonusEffects(bonus *MultiStageBonusEffect, id *ID, newID bool) {
	if *id != NoID && !newID {
		n := addStacks(&m.stages.stageList, *id)
		slog.Debug("bonus effect stacked", "effect", m.Name, "id", *id, "matched", n)
		return
	}

	cp := bonus.Clone()
	mergeIDs(m.stages.collectIDs(), &cp.stages)

	bid := m.bonusIDs.Allocate()
	cp.stages.forEachBonus(func(b *BonusEffect) {
		b.BonusID = bid
		b.Stacks = 1
	})
	m.stages.AppendBonus(&cp.stages, !m.allowsTargetEffects())
	*id = bid

	slog.Debug("bonus effect attached", "effect", m.Name, "bonus", bonus.Name, "id", bid)
}

// RemoveBonusEffects strips every bonus effect with identity id.
func (m *MultiStageEffect) RemoveBonusEffects(id ID) {
	if id == NoID {
		return
	}
	n := m.stages.removeBonus(id)
	m.bonusIDs.Remove(id)
	slog.Debug("bonus effect removed", "effect", m.Name, "id", id, "removed", n)
}

// RemoveEffectsByUseID drops every effect reading id.
func (m *MultiStageEffect) RemoveEffectsByUseID(id ID) {
	m.stages.removeByUseID(id)
}

// Validate checks the stage wiring of m.
func (m *MultiStageEffect) Validate(opts ValidateOptions) Problems {
	var ps Problems
	if m.Name == "" {
		ps.warnf("multi-stage effect has no name")
	}
	if m.stages.IsEmpty() && !m.CanHaveTargetEffects {
		ps.warnf("multi-stage effect %q has no effects", m.Name)
	}
	ps.Merge("", validateStages(m.stages.singleStages(), opts))
	return ps
}

// addStacks increments every bonus effect with identity id. Returns the
// number of bonus effects touched.
func addStacks[T any](s *stageList[T], id ID) int {
	n := 0
	s.forEachBonus(func(b *BonusEffect) {
		if b.BonusID == id {
			b.AddStack()
			n++
		}
	})
	return n
}
