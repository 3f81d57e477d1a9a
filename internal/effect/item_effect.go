package effect

import (
	"fmt"

	"github.com/udisondev/idkfx/internal/attribute"
)

// ItemEffect is a persistent modifier applied while an item is owned or a
// status effect is active.
//
// Implementations carry the ids of their attachments, so every owner needs
// its own Clone.
type ItemEffect interface {
	Apply(h Host) error
	// Remove reverses stacks applications.
	Remove(h Host, stacks int)
	Clone() ItemEffect
	Validate() Problems
}

// AttributeAlteringEffect nudges one attribute of the host.
type AttributeAlteringEffect struct {
	Attribute       attribute.Type
	Bonus           float64
	MultiplierBonus float64
}

func (e *AttributeAlteringEffect) Apply(h Host) error {
	h.AlterAttribute(e.Attribute, e.Bonus, e.MultiplierBonus)
	return nil
}

func (e *AttributeAlteringEffect) Remove(h Host, stacks int) {
	n := float64(max(stacks, 1))
	h.AlterAttribute(e.Attribute, -e.Bonus*n, -e.MultiplierBonus*n)
}

func (e *AttributeAlteringEffect) Clone() ItemEffect {
	cp := *e
	return &cp
}

func (e *AttributeAlteringEffect) Validate() Problems {
	var ps Problems
	if e.Attribute >= attribute.TypeCount {
		ps.errorf("unknown attribute %d", e.Attribute)
		return ps
	}
	if e.Bonus != 0 && !attribute.CanHaveBonus(e.Attribute) {
		ps.errorf("attribute %s has no bonus", e.Attribute)
	}
	if e.MultiplierBonus != 0 && !attribute.CanHaveMultiplierBonus(e.Attribute) {
		ps.errorf("attribute %s has no multiplier bonus", e.Attribute)
	}
	if e.Bonus == 0 && e.MultiplierBonus == 0 {
		ps.warnf("attribute %s is altered by nothing", e.Attribute)
	}
	return ps
}

// CompositeItemEffect applies its children in order and removes them in
// reverse.
type CompositeItemEffect struct {
	Effects []ItemEffect
}

func (e *CompositeItemEffect) Apply(h Host) error {
	for i, c := range e.Effects {
		if err := c.Apply(h); err != nil {
			return fmt.Errorf("item effect %d: %w", i, err)
		}
	}
	return nil
}

func (e *CompositeItemEffect) Remove(h Host, stacks int) {
	for i := len(e.Effects) - 1; i >= 0; i-- {
		e.Effects[i].Remove(h, stacks)
	}
}

func (e *CompositeItemEffect) Clone() ItemEffect {
	return e.cloneComposite()
}

func (e *CompositeItemEffect) cloneComposite() *CompositeItemEffect {
	cp := &CompositeItemEffect{Effects: make([]ItemEffect, len(e.Effects))}
	for i, c := range e.Effects {
		cp.Effects[i] = c.Clone()
	}
	return cp
}

func (e *CompositeItemEffect) Validate() Problems {
	var ps Problems
	if len(e.Effects) == 0 {
		ps.warnf("composite item effect is empty")
	}
	for i, c := range e.Effects {
		if c == nil {
			ps.errorf("item effect %d is nil", i)
			continue
		}
		ps.Merge(fmt.Sprintf("item effect %d", i), c.Validate())
	}
	return ps
}

// EffectAddingItemEffect attaches a bonus bundle at a location of the host.
type EffectAddingItemEffect struct {
	Location Location
	Effect   *MultiStageBonusEffect

	id ID
}

// ID returns the attachment id, or NoID when not applied.
func (e *EffectAddingItemEffect) ID() ID {
	return e.id
}

// Apply attaches the bundle on first use and adds a stack afterwards.
func (e *EffectAddingItemEffect) Apply(h Host) error {
	h.AddEffectToLocation(e.Location, e.Effect, &e.id)
	return nil
}

func (e *EffectAddingItemEffect) Remove(h Host, _ int) {
	if e.id == NoID {
		return
	}
	h.RemoveEffectFromLocation(e.Location, e.id)
	e.id = NoID
}

func (e *EffectAddingItemEffect) Clone() ItemEffect {
	cp := &EffectAddingItemEffect{Location: e.Location}
	if e.Effect != nil {
		cp.Effect = e.Effect.Clone()
	}
	return cp
}

func (e *EffectAddingItemEffect) Validate() Problems {
	var ps Problems
	if e.Location >= LocationCount {
		ps.errorf("unknown location %d", e.Location)
		return ps
	}
	if e.Effect == nil {
		ps.errorf("effect adding item effect has no effect")
		return ps
	}
	ps.Merge(e.Location.String(), e.Effect.Validate(ValidateOptions{Reactive: e.Location.IsReactive()}))
	return ps
}

// PartialEffectAddingItemEffect registers a partial effect at the basic
// attack or the abilities of the host.
type PartialEffectAddingItemEffect struct {
	Info   PartialEffectInfo
	Effect *BonusEffect

	id ID
}

// ID returns the attachment id, or NoID when not applied.
func (e *PartialEffectAddingItemEffect) ID() ID {
	return e.id
}

func (e *PartialEffectAddingItemEffect) Apply(h Host) error {
	if e.id != NoID {
		h.AddPartialEffectStack(e.Info.Location, e.id)
		return nil
	}
	id, err := h.AddPartialEffect(e.Info, e.Effect)
	if err != nil {
		return fmt.Errorf("add partial effect at %s: %w", e.Info.Location, err)
	}
	e.id = id
	return nil
}

func (e *PartialEffectAddingItemEffect) Remove(h Host, _ int) {
	if e.id == NoID {
		return
	}
	h.RemovePartialEffect(e.Info.Location, e.id)
	e.id = NoID
}

func (e *PartialEffectAddingItemEffect) Clone() ItemEffect {
	cp := &PartialEffectAddingItemEffect{Info: e.Info}
	if e.Effect != nil {
		cp.Effect = e.Effect.CloneBonus()
	}
	return cp
}

func (e *PartialEffectAddingItemEffect) Validate() Problems {
	return ValidatePartial(e.Info, e.Effect)
}

// itemContainsStatus reports whether a status effect appears anywhere in e.
func itemContainsStatus(e ItemEffect) bool {
	switch v := e.(type) {
	case *CompositeItemEffect:
		for _, c := range v.Effects {
			if c != nil && itemContainsStatus(c) {
				return true
			}
		}
	case *EffectAddingItemEffect:
		if v.Effect == nil {
			return false
		}
		for st := range StageCount {
			for _, b := range v.Effect.Effects(st) {
				if b != nil && containsStatusEffect(b) {
					return true
				}
			}
		}
	case *PartialEffectAddingItemEffect:
		return v.Effect != nil && containsStatusEffect(v.Effect)
	}
	return false
}
