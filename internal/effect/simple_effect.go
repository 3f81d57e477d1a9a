package effect

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/udisondev/idkfx/internal/attribute"
)

// PushImpulseScale converts a Push value into an impulse magnitude.
const PushImpulseScale = 100.0

// SimpleEffect is the terminal leaf: deal damage, heal, read a value off the
// target, remove a status, push, disable an item.
type SimpleEffect struct {
	Type      EffectType
	BaseValue float64

	// SaveID receives the computed value. NoID saves nothing.
	SaveID ID
	// BonusSaveIDs also receive the computed value. Partial effects register
	// their tap slots here.
	BonusSaveIDs IDSet
	Uses         map[ID]UseInfo

	// StatusEffectName is the argument of GetStatusEffectStacks and
	// RemoveStatusEffect.
	StatusEffectName string
	// ItemName is the argument of DisableItem.
	ItemName string
}

func (*SimpleEffect) sealed() {}

// Value computes the effect magnitude for p.
func (e *SimpleEffect) Value(p *ApplyParams) (float64, error) {
	perHit := p.perHit()
	bonus := 0.0
	multiplier := 1.0
	scale := 1.0

	for _, id := range e.sortedUses() {
		u := e.Uses[id]
		store := p.Previous
		if u.Local {
			store = p.Local
		}
		v, err := store.Value(id)
		if err != nil {
			return 0, fmt.Errorf("%s effect: %w", e.Type, err)
		}
		switch u.Mode {
		case UseAdditive:
			f := perHit
			if store.FromMultiHit() {
				f = 1
			}
			bonus += v * u.Weight * f
		case UseMultiplicative:
			multiplier += v * u.Weight
		case UseScale:
			scale *= v * u.Weight
		}
	}

	if p.ApplyModifiers && p.Applier != nil {
		if at, ok := e.modifierAttribute(); ok {
			bonus += p.Applier.ModifierBonus(at) * perHit
			multiplier += p.Applier.ModifierMultiplierBonus(at)
		}
	}

	return (e.BaseValue*perHit + bonus) * max(multiplier, 0) * scale, nil
}

func (e *SimpleEffect) modifierAttribute() (attribute.Type, bool) {
	switch e.Type {
	case Damage:
		return attribute.Damage, true
	case Healing:
		return attribute.Healing, true
	}
	return 0, false
}

func (e *SimpleEffect) sortedUses() []ID {
	return slices.Sorted(maps.Keys(e.Uses))
}

func (e *SimpleEffect) Apply(p *ApplyParams) error {
	var result float64

	switch e.Type {
	case Damage, Healing, Push, DisableItem:
		v, err := e.Value(p)
		if err != nil {
			return err
		}
		result = e.dispatch(p, v)
	case GetMissingHealth:
		result = p.Target.MissingHealth()
	case GetHealthPercent:
		result = p.Target.HealthPercent()
	case GetStatusEffectStacks:
		result = float64(p.Target.StatusEffectStacks(e.StatusEffectName))
	case RemoveStatusEffect:
		result = float64(p.Target.RemoveStatusEffects(e.StatusEffectName))
	default:
		panic(fmt.Sprintf("effect: unknown effect type %d", e.Type))
	}

	e.save(p.Local, result)
	return nil
}

func (e *SimpleEffect) dispatch(p *ApplyParams, v float64) float64 {
	switch e.Type {
	case Damage:
		if v <= 0 {
			return 0
		}
		return p.Target.ApplyDamage(v, p.Applier, p.Reaction)
	case Healing:
		if v <= 0 {
			return 0
		}
		return p.Target.ApplyHealing(v, p.Applier, p.Reaction)
	case Push:
		dir := p.Target.Location().Sub(p.Origin).Horizontal().Normalize()
		if dir.IsZero() || v == 0 {
			return 0
		}
		p.Target.Push(dir.Scale(v * PushImpulseScale))
		return v
	case DisableItem:
		d := time.Duration(v * float64(time.Second))
		if d <= 0 || !p.Target.DisableItemByName(e.ItemName, d) {
			return 0
		}
		slog.Debug("item disabled by effect", "item", e.ItemName, "target", p.Target.Name(), "duration", d)
		return v
	}
	return 0
}

func (e *SimpleEffect) save(s *SavedValues, v float64) {
	if s == nil {
		return
	}
	s.Save(e.SaveID, v)
	for _, id := range e.BonusSaveIDs.IDs() {
		s.Save(id, v)
	}
}

func (e *SimpleEffect) SaveIDs() IDSet {
	ids := e.BonusSaveIDs
	ids.Add(e.SaveID)
	return ids
}

func (e *SimpleEffect) UseIDs() UseIDs {
	var u UseIDs
	for id, info := range e.Uses {
		if info.Local {
			u.Local.Add(id)
		} else {
			u.Previous.Add(id)
		}
	}
	return u
}

// SavesBeforeUsing is true only for an empty set: a simple effect reads its
// uses before it writes anything.
func (e *SimpleEffect) SavesBeforeUsing(ids IDSet) bool {
	return ids.Intersect(e.UseIDs().Local).IsEmpty()
}

func (e *SimpleEffect) SwapIDs(m map[ID]ID) {
	if len(m) == 0 {
		return
	}
	e.SaveID = swapID(e.SaveID, m)
	e.BonusSaveIDs = swapSet(e.BonusSaveIDs, m)
	if len(e.Uses) > 0 {
		uses := make(map[ID]UseInfo, len(e.Uses))
		for id, u := range e.Uses {
			uses[swapID(id, m)] = u
		}
		e.Uses = uses
	}
}

func (e *SimpleEffect) CollectByType(t EffectType, out *[]*SimpleEffect) {
	if e.Type == t {
		*out = append(*out, e)
	}
}

func (e *SimpleEffect) RemoveByUseID(id ID) bool {
	_, ok := e.Uses[id]
	return ok
}

func (e *SimpleEffect) Clone() SingleStage {
	cp := *e
	cp.Uses = maps.Clone(e.Uses)
	return &cp
}

func (e *SimpleEffect) collectIDs(dst *IDSet) {
	dst.Add(e.SaveID)
	dst.Append(e.BonusSaveIDs)
	for id := range e.Uses {
		dst.Add(id)
	}
}

func (e *SimpleEffect) Validate() Problems {
	var ps Problems
	if e.Type >= effectTypeCount {
		ps.errorf("unknown effect type %d", e.Type)
		return ps
	}
	switch e.Type {
	case GetStatusEffectStacks, RemoveStatusEffect:
		if e.StatusEffectName == "" {
			ps.errorf("%s effect needs a status effect name", e.Type)
		}
	case DisableItem:
		if e.ItemName == "" {
			ps.errorf("disable_item effect needs an item name")
		}
	}
	switch e.Type {
	case GetMissingHealth, GetHealthPercent, GetStatusEffectStacks, RemoveStatusEffect:
		if e.SaveID == NoID && e.BonusSaveIDs.IsEmpty() && e.Type != RemoveStatusEffect {
			ps.warnf("%s effect saves its value nowhere", e.Type)
		}
		if len(e.Uses) > 0 {
			ps.warnf("%s effect ignores its use ids", e.Type)
		}
	case Damage, Healing, Push, DisableItem:
		if e.BaseValue == 0 && len(e.Uses) == 0 {
			ps.warnf("%s effect has neither a base value nor use ids", e.Type)
		}
	}
	if e.SaveID.IsReserved() {
		ps.errorf("%s effect saves into reserved id %s", e.Type, e.SaveID)
	}
	if e.Uses != nil {
		if u, ok := e.Uses[NoID]; ok {
			ps.errorf("%s effect uses id none (weight %v)", e.Type, u.Weight)
		}
	}
	return ps
}
