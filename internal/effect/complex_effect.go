package effect

import (
	"fmt"
	"math"
	"strings"
)

// ConditionKind selects what a Condition inspects.
type ConditionKind uint8

const (
	ConditionNone ConditionKind = iota
	ConditionHealthPercent
	ConditionStatusEffectExists

	conditionKindCount
)

var conditionKindNames = [conditionKindCount]string{"none", "health_percent", "status_effect_exists"}

func (k ConditionKind) String() string {
	if k < conditionKindCount {
		return conditionKindNames[k]
	}
	return fmt.Sprintf("condition(%d)", uint8(k))
}

// ParseConditionKind returns the ConditionKind with the given name.
func ParseConditionKind(name string) (ConditionKind, error) {
	for i, n := range conditionKindNames {
		if n == name {
			return ConditionKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown condition: %q", name)
}

// Comparator is a set of accepted orderings between a value and the comparand.
type Comparator uint8

const (
	CompareLess Comparator = 1 << iota
	CompareEqual
	CompareGreater

	compareAll = CompareLess | CompareEqual | CompareGreater
)

// ParseComparator accepts "<", "<=", "=", "==", ">=", ">" and "!=".
func ParseComparator(s string) (Comparator, error) {
	switch strings.TrimSpace(s) {
	case "<":
		return CompareLess, nil
	case "<=":
		return CompareLess | CompareEqual, nil
	case "=", "==":
		return CompareEqual, nil
	case ">=":
		return CompareGreater | CompareEqual, nil
	case ">":
		return CompareGreater, nil
	case "!=":
		return CompareLess | CompareGreater, nil
	}
	return 0, fmt.Errorf("unknown comparator: %q", s)
}

func (c Comparator) String() string {
	switch c {
	case CompareLess:
		return "<"
	case CompareLess | CompareEqual:
		return "<="
	case CompareEqual:
		return "="
	case CompareGreater | CompareEqual:
		return ">="
	case CompareGreater:
		return ">"
	case CompareLess | CompareGreater:
		return "!="
	}
	return fmt.Sprintf("comparator(%d)", uint8(c))
}

const compareEpsilon = 1e-6

// Matches reports whether v relates to comparand as accepted by c.
func (c Comparator) Matches(v, comparand float64) bool {
	switch {
	case math.Abs(v-comparand) <= compareEpsilon:
		return c&CompareEqual != 0
	case v < comparand:
		return c&CompareLess != 0
	default:
		return c&CompareGreater != 0
	}
}

// Condition gates a ComplexEffect.
type Condition struct {
	Kind ConditionKind
	// Comparand is a health fraction in [0, 1] for ConditionHealthPercent.
	Comparand  float64
	Comparator Comparator
	// StatusEffectName is checked by ConditionStatusEffectExists.
	StatusEffectName string
}

// Evaluate checks the condition against t.
func (c Condition) Evaluate(t Combatant) bool {
	switch c.Kind {
	case ConditionHealthPercent:
		return c.Comparator.Matches(t.HealthPercent(), c.Comparand)
	case ConditionStatusEffectExists:
		return t.HasStatusEffect(c.StatusEffectName)
	}
	return true
}

func (c Condition) validate() Problems {
	var ps Problems
	switch c.Kind {
	case ConditionNone:
	case ConditionHealthPercent:
		if c.Comparand < 0 || c.Comparand > 1 {
			ps.errorf("health percent comparand %v is outside [0, 1]", c.Comparand)
		}
		switch c.Comparator {
		case 0:
			ps.errorf("health percent condition has no comparator")
		case compareAll:
			ps.warnf("health percent condition is always true")
		}
		if c.Comparator&^compareAll != 0 {
			ps.errorf("invalid comparator bits %08b", uint8(c.Comparator))
		}
	case ConditionStatusEffectExists:
		if c.StatusEffectName == "" {
			ps.errorf("status effect condition needs a status effect name")
		}
	default:
		ps.errorf("unknown condition kind %d", c.Kind)
	}
	return ps
}

// ComplexEffect applies its group only when Condition holds for the target.
type ComplexEffect struct {
	Group
	Condition Condition
}

func (e *ComplexEffect) Apply(p *ApplyParams) error {
	if e.Condition.Evaluate(p.Target) {
		return e.Group.Apply(p)
	}
	// Closed gate: readers of the group's slots still find a value.
	if p.Local != nil {
		for _, id := range e.Group.SaveIDs().IDs() {
			p.Local.Save(id, 0)
		}
	}
	return nil
}

func (e *ComplexEffect) Clone() SingleStage {
	return &ComplexEffect{Group: e.cloneGroup(), Condition: e.Condition}
}

func (e *ComplexEffect) Validate() Problems {
	var ps Problems
	ps.Merge("condition", e.Condition.validate())
	ps.Merge("", e.Group.Validate())
	if e.Condition.Kind == ConditionNone {
		ps.warnf("complex effect without a condition behaves like a group")
	}
	return ps
}
