package effect

// SingleStage is one "what happens" primitive inside a stage.
//
// The set of implementations is closed: *SimpleEffect, *Group, *ComplexEffect,
// *BonusEffect and *StatusEffect.
type SingleStage interface {
	// Apply runs the effect.
	Apply(p *ApplyParams) error

	// SaveIDs returns the ids this effect writes, as visible to siblings.
	SaveIDs() IDSet
	// UseIDs returns the ids this effect reads, as visible to siblings.
	UseIDs() UseIDs
	// SavesBeforeUsing reports whether every id of ids that the effect reads
	// locally is written inside the effect before it is read.
	SavesBeforeUsing(ids IDSet) bool

	// SwapIDs remaps every save and use id through m.
	SwapIDs(m map[ID]ID)
	// CollectByType appends every SimpleEffect of type t to out.
	CollectByType(t EffectType, out *[]*SimpleEffect)
	// RemoveByUseID drops sub-effects reading id. Returns true when the
	// effect itself should be removed by its owner.
	RemoveByUseID(id ID) bool

	// Clone returns a deep copy.
	Clone() SingleStage
	// Validate checks the effect in isolation.
	Validate() Problems

	// collectIDs adds every id written or read anywhere inside the effect,
	// including ids hidden by self-contained groups.
	collectIDs(dst *IDSet)
	sealed()
}

func applyAll(effects []SingleStage, p *ApplyParams) error {
	for _, e := range effects {
		if err := e.Apply(p); err != nil {
			return err
		}
	}
	return nil
}

func cloneAll(effects []SingleStage) []SingleStage {
	if effects == nil {
		return nil
	}
	out := make([]SingleStage, len(effects))
	for i, e := range effects {
		if isNil(e) {
			out[i] = e
			continue
		}
		out[i] = e.Clone()
	}
	return out
}

// removeByUseID filters effects in place.
func removeByUseID(effects []SingleStage, id ID) []SingleStage {
	n := 0
	for _, e := range effects {
		if e.RemoveByUseID(id) {
			continue
		}
		effects[n] = e
		n++
	}
	clear(effects[n:])
	return effects[:n]
}

// containsStatusEffect reports whether a status effect appears anywhere in e.
func containsStatusEffect(e SingleStage) bool {
	switch v := e.(type) {
	case *StatusEffect:
		return true
	case *Group:
		return groupContainsStatus(v)
	case *ComplexEffect:
		return groupContainsStatus(&v.Group)
	case *BonusEffect:
		return groupContainsStatus(&v.Group)
	}
	return false
}

func groupContainsStatus(g *Group) bool {
	for _, c := range g.Effects {
		if !isNil(c) && containsStatusEffect(c) {
			return true
		}
	}
	return false
}
