package effect

import (
	"time"

	"github.com/udisondev/idkfx/internal/attribute"
)

// Builders assemble effect templates. Build returns a deep copy, so a
// builder can be reused and tweaked without touching what it built before.

// SimpleBuilder builds a SimpleEffect.
type SimpleBuilder struct {
	e SimpleEffect
}

func NewSimple(t EffectType, baseValue float64) *SimpleBuilder {
	return &SimpleBuilder{e: SimpleEffect{Type: t, BaseValue: baseValue}}
}

// Save stores the computed value into id.
func (b *SimpleBuilder) Save(id ID) *SimpleBuilder {
	b.e.SaveID = id
	return b
}

// BonusSave also stores the computed value into id.
func (b *SimpleBuilder) BonusSave(id ID) *SimpleBuilder {
	b.e.BonusSaveIDs.Add(id)
	return b
}

// Use reads id from the current stage as an additive bonus.
func (b *SimpleBuilder) Use(id ID, weight float64) *SimpleBuilder {
	return b.With(id, UseInfo{Weight: weight, Mode: UseAdditive, Local: true})
}

// UsePrevious reads id from the previous stage as an additive bonus.
func (b *SimpleBuilder) UsePrevious(id ID, weight float64) *SimpleBuilder {
	return b.With(id, UseInfo{Weight: weight, Mode: UseAdditive})
}

// With reads id as described by info.
func (b *SimpleBuilder) With(id ID, info UseInfo) *SimpleBuilder {
	if b.e.Uses == nil {
		b.e.Uses = make(map[ID]UseInfo)
	}
	b.e.Uses[id] = info
	return b
}

// ScaleByStacks multiplies the value by the stack count of the enclosing
// bonus or status effect.
func (b *SimpleBuilder) ScaleByStacks() *SimpleBuilder {
	return b.With(StackID, UseInfo{Weight: 1, Mode: UseScale, Local: true})
}

func (b *SimpleBuilder) StatusEffect(name string) *SimpleBuilder {
	b.e.StatusEffectName = name
	return b
}

func (b *SimpleBuilder) Item(name string) *SimpleBuilder {
	b.e.ItemName = name
	return b
}

func (b *SimpleBuilder) Build() *SimpleEffect {
	return b.e.Clone().(*SimpleEffect)
}

// GroupBuilder builds a Group.
type GroupBuilder struct {
	g Group
}

func NewGroup(effects ...SingleStage) *GroupBuilder {
	return &GroupBuilder{g: Group{Effects: effects}}
}

func (b *GroupBuilder) Add(effects ...SingleStage) *GroupBuilder {
	b.g.Effects = append(b.g.Effects, effects...)
	return b
}

func (b *GroupBuilder) SelfContained() *GroupBuilder {
	b.g.SelfContained = true
	return b
}

func (b *GroupBuilder) Build() *Group {
	g := b.g.cloneGroup()
	return &g
}

// HealthCondition holds when the target health fraction relates to v as cmp
// accepts.
func HealthCondition(cmp Comparator, v float64) Condition {
	return Condition{Kind: ConditionHealthPercent, Comparator: cmp, Comparand: v}
}

// StatusCondition holds when the target has the named status effect.
func StatusCondition(name string) Condition {
	return Condition{Kind: ConditionStatusEffectExists, StatusEffectName: name}
}

// ComplexBuilder builds a ComplexEffect.
type ComplexBuilder struct {
	e ComplexEffect
}

func NewComplex(c Condition, effects ...SingleStage) *ComplexBuilder {
	return &ComplexBuilder{e: ComplexEffect{Condition: c, Group: Group{Effects: effects}}}
}

func (b *ComplexBuilder) Add(effects ...SingleStage) *ComplexBuilder {
	b.e.Effects = append(b.e.Effects, effects...)
	return b
}

func (b *ComplexBuilder) Build() *ComplexEffect {
	return b.e.Clone().(*ComplexEffect)
}

// BonusBuilder builds a BonusEffect with one stack.
type BonusBuilder struct {
	e BonusEffect
}

func NewBonus(effects ...SingleStage) *BonusBuilder {
	return &BonusBuilder{e: BonusEffect{Group: Group{Effects: effects}, Stacks: 1}}
}

func (b *BonusBuilder) Add(effects ...SingleStage) *BonusBuilder {
	b.e.Effects = append(b.e.Effects, effects...)
	return b
}

func (b *BonusBuilder) Build() *BonusEffect {
	return b.e.CloneBonus()
}

// StatusBuilder builds a StatusEffect.
type StatusBuilder struct {
	s StatusEffect
}

// NewStatus starts a status effect lasting d, or PermanentDuration.
func NewStatus(name string, d time.Duration) *StatusBuilder {
	return &StatusBuilder{s: StatusEffect{Name: name, Duration: d, MaxStacks: 1}}
}

func (b *StatusBuilder) TickInterval(d time.Duration) *StatusBuilder {
	b.s.TickInterval = d
	return b
}

func (b *StatusBuilder) MaxStacks(n int) *StatusBuilder {
	b.s.MaxStacks = n
	return b
}

func (b *StatusBuilder) Refreshable() *StatusBuilder {
	b.s.Refreshable = true
	return b
}

// Repeat adds effects applied on every tick. They run self-contained.
func (b *StatusBuilder) Repeat(effects ...SingleStage) *StatusBuilder {
	if b.s.Repeated == nil {
		b.s.Repeated = &Group{SelfContained: true}
	}
	b.s.Repeated.Effects = append(b.s.Repeated.Effects, effects...)
	return b
}

// Persist adds item effects applied while the status is active.
func (b *StatusBuilder) Persist(effects ...ItemEffect) *StatusBuilder {
	if b.s.Persistent == nil {
		b.s.Persistent = &CompositeItemEffect{}
	}
	b.s.Persistent.Effects = append(b.s.Persistent.Effects, effects...)
	return b
}

func (b *StatusBuilder) Build() *StatusEffect {
	return b.s.CloneStatus()
}

// MultiStageBuilder builds a MultiStageEffect.
type MultiStageBuilder struct {
	m MultiStageEffect
}

func NewMultiStage(name string) *MultiStageBuilder {
	return &MultiStageBuilder{m: MultiStageEffect{Name: name}}
}

func (b *MultiStageBuilder) Self(effects ...SingleStage) *MultiStageBuilder {
	b.m.AddEffects(StageSelf, effects...)
	return b
}

func (b *MultiStageBuilder) Target(effects ...SingleStage) *MultiStageBuilder {
	b.m.AddEffects(StageTarget, effects...)
	return b
}

func (b *MultiStageBuilder) Callback(effects ...SingleStage) *MultiStageBuilder {
	b.m.AddEffects(StageCallback, effects...)
	return b
}

func (b *MultiStageBuilder) CanHaveTargetEffects() *MultiStageBuilder {
	b.m.CanHaveTargetEffects = true
	return b
}

func (b *MultiStageBuilder) Build() *MultiStageEffect {
	return b.m.Clone()
}

// MultiStageBonusBuilder builds a MultiStageBonusEffect.
type MultiStageBonusBuilder struct {
	m MultiStageBonusEffect
}

func NewMultiStageBonus(name string) *MultiStageBonusBuilder {
	return &MultiStageBonusBuilder{m: MultiStageBonusEffect{Name: name}}
}

func (b *MultiStageBonusBuilder) Self(effects ...*BonusEffect) *MultiStageBonusBuilder {
	b.m.AddEffects(StageSelf, effects...)
	return b
}

func (b *MultiStageBonusBuilder) Target(effects ...*BonusEffect) *MultiStageBonusBuilder {
	b.m.AddEffects(StageTarget, effects...)
	return b
}

func (b *MultiStageBonusBuilder) Callback(effects ...*BonusEffect) *MultiStageBonusBuilder {
	b.m.AddEffects(StageCallback, effects...)
	return b
}

func (b *MultiStageBonusBuilder) CanHaveTargetEffects() *MultiStageBonusBuilder {
	b.m.CanHaveTargetEffects = true
	return b
}

func (b *MultiStageBonusBuilder) Build() *MultiStageBonusEffect {
	return b.m.Clone()
}

// AlterAttribute returns an item effect adding bonus and multiplierBonus to t.
func AlterAttribute(t attribute.Type, bonus, multiplierBonus float64) *AttributeAlteringEffect {
	return &AttributeAlteringEffect{Attribute: t, Bonus: bonus, MultiplierBonus: multiplierBonus}
}

// Composite bundles item effects.
func Composite(effects ...ItemEffect) *CompositeItemEffect {
	return &CompositeItemEffect{Effects: effects}
}

// AddEffectAt returns an item effect attaching bundle at loc.
func AddEffectAt(loc Location, bundle *MultiStageBonusEffect) *EffectAddingItemEffect {
	return &EffectAddingItemEffect{Location: loc, Effect: bundle}
}

// AddPartialEffect returns an item effect registering a partial effect.
func AddPartialEffect(info PartialEffectInfo, bonus *BonusEffect) *PartialEffectAddingItemEffect {
	return &PartialEffectAddingItemEffect{Info: info, Effect: bonus}
}
