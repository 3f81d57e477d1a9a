package effect

import (
	"errors"
	"fmt"
	"log/slog"
)

var (
	// ErrNoTappableEffects is returned when the previous stage has no effect
	// of the tapped type.
	ErrNoTappableEffects = errors.New("no effects to tap")
	// ErrInvalidPartialStage is returned for partial effects placed in the
	// Self stage, which has no previous stage.
	ErrInvalidPartialStage = errors.New("partial effects need a previous stage")
)

// PartialEffectInfo describes where a partial effect attaches and what it taps.
type PartialEffectInfo struct {
	Location Location
	// Stage receives the partial effect. It taps the stage before it.
	Stage      Stage
	TappedType EffectType
}

func (i PartialEffectInfo) validate() Problems {
	var ps Problems
	if !i.Location.SupportsPartialEffects() {
		ps.errorf("partial effects cannot attach at %s", i.Location)
	}
	if i.Stage == StageSelf || i.Stage >= StageCount {
		ps.errorf("partial effects cannot be placed in the %s stage", i.Stage)
	}
	if i.TappedType != Damage && i.TappedType != Healing {
		ps.errorf("partial effects can only tap damage or healing, not %s", i.TappedType)
	}
	return ps
}

// PartialIDs identifies one attached partial effect: the identity of the
// spliced bonus effect and the save id the tapped value flows through.
// Either both are set or neither is.
type PartialIDs struct {
	BonusID ID
	SaveID  ID
}

// IsSet reports whether the ids refer to an attachment. Panics on a half-set
// pair.
func (p PartialIDs) IsSet() bool {
	if (p.BonusID == NoID) != (p.SaveID == NoID) {
		panic(fmt.Sprintf("effect: half-set partial effect ids %+v", p))
	}
	return p.BonusID != NoID
}

// ValidatePartial checks a partial effect template for placement info.
// PartialEffectPlaceholderID counts as saved by the previous stage and must
// be read.
func ValidatePartial(info PartialEffectInfo, bonus *BonusEffect) Problems {
	ps := info.validate()
	if bonus == nil {
		ps.errorf("partial effect is nil")
		return ps
	}
	if !bonus.UseIDs().Previous.Contains(PartialEffectPlaceholderID) {
		ps.errorf("partial effect never reads the tapped value")
	}
	if containsStatusEffect(bonus) {
		ps.warnf("partial effect applies a status effect on every hit")
	}
	if ps.HasErrors() {
		return ps
	}
	w := stageWalker{prior: NewIDSet(PartialEffectPlaceholderID)}
	w.check(info.Stage, []SingleStage{bonus}, &ps)
	return ps
}

// singleGraph adapts one effect tree to id merging.
type singleGraph struct{ e SingleStage }

func (g singleGraph) collectIDs() IDSet {
	var ids IDSet
	g.e.collectIDs(&ids)
	return ids
}

func (g singleGraph) swapIDs(m map[ID]ID) { g.e.SwapIDs(m) }

// AddPartialEffect taps every effect of info.TappedType in the stage before
// info.Stage and splices a copy of bonus into info.Stage. The copy reads the
// tapped values through the returned save id.
func (m *MultiStageEffect) AddPartialEffect(info PartialEffectInfo, bonus *BonusEffect) (PartialIDs, error) {
	if info.Stage == StageSelf || info.Stage >= StageCount {
		return PartialIDs{}, fmt.Errorf("%s: %w", m.Name, ErrInvalidPartialStage)
	}
	taps := m.stages.collectByType(info.Stage-1, info.TappedType)
	if len(taps) == 0 {
		return PartialIDs{}, fmt.Errorf("%s: %s in %s stage: %w", m.Name, info.TappedType, info.Stage-1, ErrNoTappableEffects)
	}

	cp := bonus.CloneBonus()
	occupied := mergeIDs(m.stages.collectIDs(), singleGraph{cp})

	saveID := occupied.NextValidID()
	for _, t := range taps {
		t.BonusSaveIDs.Add(saveID)
	}
	cp.SwapIDs(map[ID]ID{PartialEffectPlaceholderID: saveID})

	bid := m.bonusIDs.Allocate()
	cp.BonusID = bid
	cp.Stacks = 1
	m.stages.Add(info.Stage, cp)

	ids := PartialIDs{BonusID: bid, SaveID: saveID}
	slog.Debug("partial effect attached",
		"effect", m.Name,
		"stage", info.Stage,
		"tapped", info.TappedType,
		"taps", len(taps),
		"bonus_id", bid,
		"save_id", saveID)
	return ids, nil
}

// AddPartialEffectStack adds a stack to an attached partial effect.
func (m *MultiStageEffect) AddPartialEffectStack(ids PartialIDs) {
	if !ids.IsSet() {
		return
	}
	addStacks(&m.stages.stageList, ids.BonusID)
}

// RemovePartialEffect reverses AddPartialEffect: the save id is unregistered
// from the tapped effects and the spliced copy is dropped.
func (m *MultiStageEffect) RemovePartialEffect(ids PartialIDs) {
	if !ids.IsSet() {
		return
	}
	for st := range StageCount {
		var simple []*SimpleEffect
		for _, t := range []EffectType{Damage, Healing} {
			simple = append(simple, m.stages.collectByType(st, t)...)
		}
		for _, e := range simple {
			e.BonusSaveIDs.Remove(ids.SaveID)
		}
	}
	m.stages.removeBonus(ids.BonusID)
	m.stages.removeByUseID(ids.SaveID)
	m.bonusIDs.Remove(ids.BonusID)

	slog.Debug("partial effect removed", "effect", m.Name, "bonus_id", ids.BonusID, "save_id", ids.SaveID)
}
