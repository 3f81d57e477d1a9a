package catalog

import (
	"errors"
	"fmt"

	"github.com/udisondev/idkfx/internal/attribute"
	"github.com/udisondev/idkfx/internal/effect"
)

// errStatusInStatus rejects status references while status effects are
// built. Status effects never nest.
var errStatusInStatus = errors.New("status effects cannot apply status effects")

// builder turns catalog documents into effect graphs.
type builder struct {
	// statuses resolves status references; nil while status effects
	// themselves are built.
	statuses map[string]*effect.StatusEffect
}

func (b *builder) effects(docs []effectDoc) ([]effect.SingleStage, error) {
	out := make([]effect.SingleStage, 0, len(docs))
	for i, d := range docs {
		e, err := b.effect(d)
		if err != nil {
			return nil, fmt.Errorf("effect %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *builder) effect(d effectDoc) (effect.SingleStage, error) {
	set := 0
	for _, ok := range []bool{d.Type != "", d.Group != nil, d.Complex != nil, d.Status != ""} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of type, group, complex or status must be set, got %d", set)
	}

	switch {
	case d.Type != "":
		return b.simple(d)

	case d.Group != nil:
		children, err := b.effects(d.Group)
		if err != nil {
			return nil, fmt.Errorf("group: %w", err)
		}
		g := effect.NewGroup(children...)
		if d.SelfContained {
			g.SelfContained()
		}
		return g.Build(), nil

	case d.Complex != nil:
		cond, err := condition(d.Complex.Condition)
		if err != nil {
			return nil, err
		}
		children, err := b.effects(d.Complex.Effects)
		if err != nil {
			return nil, fmt.Errorf("complex: %w", err)
		}
		return effect.NewComplex(cond, children...).Build(), nil

	default:
		if b.statuses == nil {
			return nil, errStatusInStatus
		}
		s, ok := b.statuses[d.Status]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownStatusEffect, d.Status)
		}
		return s.CloneStatus(), nil
	}
}

func (b *builder) simple(d effectDoc) (*effect.SimpleEffect, error) {
	t, err := effect.ParseEffectType(d.Type)
	if err != nil {
		return nil, err
	}
	sb := effect.NewSimple(t, d.Value)
	if d.Save != 0 {
		sb.Save(effect.ID(d.Save))
	}
	for _, id := range d.BonusSave {
		sb.BonusSave(effect.ID(id))
	}
	for _, u := range d.Uses {
		mode := effect.UseAdditive
		if u.Mode != "" {
			if mode, err = effect.ParseUseMode(u.Mode); err != nil {
				return nil, err
			}
		}
		// Zero weight means 1.
		weight := u.Weight
		if weight == 0 {
			weight = 1
		}
		sb.With(effect.ID(u.ID), effect.UseInfo{Weight: weight, Mode: mode, Local: !u.Previous})
	}
	if d.ScaleByStacks {
		sb.ScaleByStacks()
	}
	if d.StatusEffect != "" {
		sb.StatusEffect(d.StatusEffect)
	}
	if d.Item != "" {
		sb.Item(d.Item)
	}
	return sb.Build(), nil
}

func condition(d conditionDoc) (effect.Condition, error) {
	kind, err := effect.ParseConditionKind(d.Kind)
	if err != nil {
		return effect.Condition{}, err
	}
	switch kind {
	case effect.ConditionHealthPercent:
		cmp, err := effect.ParseComparator(d.Comparator)
		if err != nil {
			return effect.Condition{}, err
		}
		return effect.HealthCondition(cmp, d.Value), nil
	case effect.ConditionStatusEffectExists:
		return effect.StatusCondition(d.Status), nil
	}
	return effect.Condition{}, nil
}

func (b *builder) multi(name string, d multiDoc) (*effect.MultiStageEffect, error) {
	mb := effect.NewMultiStage(name)
	if d.CanHaveTargetEffects {
		mb.CanHaveTargetEffects()
	}
	for st, docs := range d.stages() {
		effects, err := b.effects(docs)
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", effect.Stage(st), err)
		}
		switch effect.Stage(st) {
		case effect.StageSelf:
			mb.Self(effects...)
		case effect.StageTarget:
			mb.Target(effects...)
		case effect.StageCallback:
			mb.Callback(effects...)
		}
	}
	return mb.Build(), nil
}

// bundle builds a bonus bundle. Every listed effect becomes its own bonus
// effect.
func (b *builder) bundle(name string, d multiDoc) (*effect.MultiStageBonusEffect, error) {
	mb := effect.NewMultiStageBonus(name)
	if d.CanHaveTargetEffects {
		mb.CanHaveTargetEffects()
	}
	for st, docs := range d.stages() {
		effects, err := b.effects(docs)
		if err != nil {
			return nil, fmt.Errorf("%s stage: %w", effect.Stage(st), err)
		}
		bonuses := make([]*effect.BonusEffect, len(effects))
		for i, e := range effects {
			bonuses[i] = effect.NewBonus(e).Build()
		}
		switch effect.Stage(st) {
		case effect.StageSelf:
			mb.Self(bonuses...)
		case effect.StageTarget:
			mb.Target(bonuses...)
		case effect.StageCallback:
			mb.Callback(bonuses...)
		}
	}
	return mb.Build(), nil
}

func (b *builder) itemEffects(docs []itemEffDoc) ([]effect.ItemEffect, error) {
	out := make([]effect.ItemEffect, 0, len(docs))
	for i, d := range docs {
		e, err := b.itemEffect(d)
		if err != nil {
			return nil, fmt.Errorf("item effect %d: %w", i, err)
		}
		out = append(out, e)
	}
	return out, nil
}

func (b *builder) itemEffect(d itemEffDoc) (effect.ItemEffect, error) {
	set := 0
	for _, ok := range []bool{d.Attribute != nil, d.AddEffect != nil, d.Partial != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return nil, fmt.Errorf("exactly one of attribute, add_effect or partial must be set, got %d", set)
	}

	switch {
	case d.Attribute != nil:
		t, err := attribute.ParseType(d.Attribute.Type)
		if err != nil {
			return nil, err
		}
		return effect.AlterAttribute(t, d.Attribute.Bonus, d.Attribute.Multiplier), nil

	case d.AddEffect != nil:
		loc, err := effect.ParseLocation(d.AddEffect.Location)
		if err != nil {
			return nil, err
		}
		name := d.AddEffect.Name
		if name == "" {
			name = loc.String()
		}
		bundle, err := b.bundle(name, d.AddEffect.multiDoc)
		if err != nil {
			return nil, fmt.Errorf("add_effect %s: %w", name, err)
		}
		return effect.AddEffectAt(loc, bundle), nil

	default:
		p := d.Partial
		loc, err := effect.ParseLocation(p.Location)
		if err != nil {
			return nil, err
		}
		st, err := effect.ParseStage(p.Stage)
		if err != nil {
			return nil, err
		}
		taps, err := effect.ParseEffectType(p.Taps)
		if err != nil {
			return nil, err
		}
		effects, err := b.effects(p.Effects)
		if err != nil {
			return nil, fmt.Errorf("partial: %w", err)
		}
		info := effect.PartialEffectInfo{Location: loc, Stage: st, TappedType: taps}
		return effect.AddPartialEffect(info, effect.NewBonus(effects...).Build()), nil
	}
}

func (b *builder) status(name string, d statusDoc) (*effect.StatusEffect, error) {
	duration := d.Duration
	if d.Permanent {
		duration = effect.PermanentDuration
	}
	sb := effect.NewStatus(name, duration)
	if d.TickInterval > 0 {
		sb.TickInterval(d.TickInterval)
	}
	if d.MaxStacks > 0 {
		sb.MaxStacks(d.MaxStacks)
	}
	if d.Refreshable {
		sb.Refreshable()
	}
	if len(d.Repeat) > 0 {
		effects, err := b.effects(d.Repeat)
		if err != nil {
			return nil, fmt.Errorf("repeat: %w", err)
		}
		sb.Repeat(effects...)
	}
	if len(d.Persist) > 0 {
		items, err := b.itemEffects(d.Persist)
		if err != nil {
			return nil, fmt.Errorf("persist: %w", err)
		}
		sb.Persist(items...)
	}
	return sb.Build(), nil
}

func (b *builder) item(d itemDoc) (effect.ItemEffect, error) {
	effects, err := b.itemEffects(d.Effects)
	if err != nil {
		return nil, err
	}
	switch len(effects) {
	case 0:
		return nil, errors.New("item has no effects")
	case 1:
		return effects[0], nil
	}
	return effect.Composite(effects...), nil
}
