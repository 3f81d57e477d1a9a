package effect

import (
	"time"
)

// PermanentDuration marks a status effect that never expires on its own.
const PermanentDuration time.Duration = -1

// DefaultTickInterval is used for repeated effects when TickInterval is unset.
const DefaultTickInterval = time.Second

// StatusEffect is a named, timed template handed to the target on apply.
//
// The target owns the running instance: it applies Persistent on activation,
// Repeated every tick and removes Persistent on expiry. A status effect never
// reports save or use ids.
type StatusEffect struct {
	Name         string
	Duration     time.Duration
	TickInterval time.Duration
	MaxStacks    int
	Refreshable  bool

	// Repeated is applied every tick while active. It must be self-contained.
	Repeated *Group
	// Persistent is applied once per stack on activation.
	Persistent *CompositeItemEffect
}

func (*StatusEffect) sealed() {}

// IsPermanent reports whether the status never expires.
func (s *StatusEffect) IsPermanent() bool {
	return s.Duration == PermanentDuration
}

// Interval returns the tick interval of the repeated effects.
func (s *StatusEffect) Interval() time.Duration {
	if s.TickInterval > 0 {
		return s.TickInterval
	}
	return DefaultTickInterval
}

// PerHitMultiplier scales repeated effects so that the configured magnitude
// is spread over the whole duration.
func (s *StatusEffect) PerHitMultiplier() float64 {
	if s.IsPermanent() || s.Duration <= 0 {
		return 1
	}
	return min(float64(s.Interval())/float64(s.Duration), 1)
}

func (s *StatusEffect) MaxStackCount() int {
	return max(s.MaxStacks, 1)
}

func (s *StatusEffect) Apply(p *ApplyParams) error {
	p.Target.ApplyStatusEffect(s, p.Applier)
	return nil
}

// ApplyRepeated runs one tick of the repeated effects on target. StackID is
// seeded with stacks.
func (s *StatusEffect) ApplyRepeated(applier, target Combatant, stacks int) error {
	if s.Repeated == nil {
		return nil
	}
	store := NewSavedValues(true)
	store.Set(StackID, float64(stacks))
	reaction := ReactionHostile
	if applier == nil || applier == target {
		reaction = ReactionFriendly
	}
	return s.Repeated.Apply(&ApplyParams{
		Applier:          applier,
		Target:           target,
		Origin:           target.Location(),
		Local:            store,
		PerHitMultiplier: s.PerHitMultiplier(),
		ApplyModifiers:   applier != nil,
		Reaction:         reaction,
	})
}

func (*StatusEffect) SaveIDs() IDSet              { return IDSet{} }
func (*StatusEffect) UseIDs() UseIDs              { return UseIDs{} }
func (*StatusEffect) SavesBeforeUsing(IDSet) bool { return true }
func (*StatusEffect) SwapIDs(map[ID]ID)           {}
func (*StatusEffect) RemoveByUseID(ID) bool       { return false }
func (*StatusEffect) collectIDs(*IDSet)           {}

// CollectByType does not descend: repeated effects run against their own store.
func (*StatusEffect) CollectByType(EffectType, *[]*SimpleEffect) {}

func (s *StatusEffect) Clone() SingleStage {
	return s.CloneStatus()
}

// CloneStatus returns a deep copy with the concrete type.
func (s *StatusEffect) CloneStatus() *StatusEffect {
	cp := *s
	if s.Repeated != nil {
		g := s.Repeated.cloneGroup()
		cp.Repeated = &g
	}
	if s.Persistent != nil {
		cp.Persistent = s.Persistent.cloneComposite()
	}
	return &cp
}

func (s *StatusEffect) Validate() Problems {
	var ps Problems
	if s.Name == "" {
		ps.errorf("status effect has no name")
	}
	switch {
	case s.Duration == PermanentDuration:
	case s.Duration <= 0:
		ps.errorf("status effect %q has non-positive duration %s", s.Name, s.Duration)
	}
	if s.TickInterval < 0 {
		ps.errorf("status effect %q has negative tick interval", s.Name)
	}
	if s.MaxStacks < 0 {
		ps.errorf("status effect %q has negative max stacks", s.Name)
	}
	if s.Repeated == nil && s.Persistent == nil {
		ps.warnf("status effect %q does nothing", s.Name)
	}
	if s.Repeated != nil {
		if !s.Repeated.SelfContained {
			ps.errorf("repeated effects of %q must be self-contained", s.Name)
		}
		if groupContainsStatus(s.Repeated) {
			ps.errorf("status effect %q nests another status effect", s.Name)
		}
		ps.Merge("repeated", s.Repeated.Validate())
	}
	if s.Persistent != nil {
		if itemContainsStatus(s.Persistent) {
			ps.errorf("status effect %q nests another status effect in its persistent effects", s.Name)
		}
		ps.Merge("persistent", s.Persistent.Validate())
	}
	return ps
}
