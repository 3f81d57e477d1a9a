package effect

import "log/slog"

// MultiStageBonusEffect is a bundle of bonus effects in three stages, the
// form items use to describe what they add to an ability or a reactive
// location.
type MultiStageBonusEffect struct {
	Name                 string
	CanHaveTargetEffects bool

	stages   BonusContainer
	bonusIDs IDSet
}

// NewMultiStageBonusEffect returns an empty bundle.
func NewMultiStageBonusEffect(name string) *MultiStageBonusEffect {
	return &MultiStageBonusEffect{Name: name}
}

// Effects returns the bonus effects of stage st.
func (m *MultiStageBonusEffect) Effects(st Stage) []*BonusEffect {
	return m.stages.Effects(st)
}

// AddEffects appends bonus effects to stage st.
func (m *MultiStageBonusEffect) AddEffects(st Stage, effects ...*BonusEffect) {
	m.stages.Add(st, effects...)
}

func (m *MultiStageBonusEffect) HasTargetEffects() bool {
	return m.stages.HasTargetEffects()
}

func (m *MultiStageBonusEffect) IsEmpty() bool {
	return m.stages.IsEmpty()
}

// Clone returns a deep copy.
func (m *MultiStageBonusEffect) Clone() *MultiStageBonusEffect {
	return &MultiStageBonusEffect{
		Name:                 m.Name,
		CanHaveTargetEffects: m.CanHaveTargetEffects,
		stages:               BonusContainer{m.stages.cloneStages()},
		bonusIDs:             m.bonusIDs,
	}
}

// AddBonusEffects merges bonus into m. See MultiStageEffect.AddBonusEffects.
func (m *MultiStageBonusEffect) AddBonusEffects(bonus *MultiStageBonusEffect, id *ID, newID bool) {
	if *id != NoID && !newID {
		addStacks(&m.stages.stageList, *id)
		return
	}

	cp := bonus.Clone()
	mergeIDs(m.stages.collectIDs(), &cp.stages)

	bid := m.bonusIDs.Allocate()
	cp.stages.forEachBonus(func(b *BonusEffect) {
		b.BonusID = bid
		b.Stacks = 1
	})
	m.stages.AppendBonus(&cp.stages, !(m.CanHaveTargetEffects || m.stages.HasTargetEffects()))
	*id = bid

	slog.Debug("bonus effect merged", "bundle", m.Name, "bonus", bonus.Name, "id", bid)
}

// RemoveBonusEffects strips every bonus effect with identity id.
func (m *MultiStageBonusEffect) RemoveBonusEffects(id ID) {
	if id == NoID {
		return
	}
	m.stages.removeBonus(id)
	m.bonusIDs.Remove(id)
}

// Validate checks the stage wiring of the bundle in isolation.
func (m *MultiStageBonusEffect) Validate(opts ValidateOptions) Problems {
	var ps Problems
	if m.stages.IsEmpty() {
		ps.errorf("bonus effect bundle %q is empty", m.Name)
		return ps
	}
	ps.Merge("", validateStages(m.stages.singleStages(), opts))
	return ps
}
