package catalog

import (
	"fmt"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/udisondev/idkfx/internal/effect"
)

// document is one catalog YAML file.
type document struct {
	StatusEffects map[string]statusDoc    `yaml:"status_effects"`
	Abilities     map[string]multiDoc     `yaml:"abilities"`
	BasicAttacks  map[string]multiDoc     `yaml:"basic_attacks"`
	Items         map[string]itemDoc      `yaml:"items"`
	Archetypes    map[string]archetypeDoc `yaml:"archetypes"`
}

type statusDoc struct {
	Duration     time.Duration `yaml:"duration"`
	Permanent    bool          `yaml:"permanent"`
	TickInterval time.Duration `yaml:"tick_interval"`
	MaxStacks    int           `yaml:"max_stacks"`
	Refreshable  bool          `yaml:"refreshable"`
	Repeat       []effectDoc   `yaml:"repeat"`
	Persist      []itemEffDoc  `yaml:"persist"`
}

// multiDoc describes an ability, a basic attack or a bonus bundle.
type multiDoc struct {
	CanHaveTargetEffects bool        `yaml:"can_have_target_effects"`
	Self                 []effectDoc `yaml:"self"`
	Target               []effectDoc `yaml:"target"`
	Callback             []effectDoc `yaml:"callback"`
}

func (d multiDoc) stages() [effect.StageCount][]effectDoc {
	return [effect.StageCount][]effectDoc{d.Self, d.Target, d.Callback}
}

type itemDoc struct {
	Effects []itemEffDoc `yaml:"effects"`
}

type archetypeDoc struct {
	Health        float64    `yaml:"health"`
	MovementSpeed float64    `yaml:"movement_speed"`
	BasicAttack   string     `yaml:"basic_attack"`
	Abilities     []string   `yaml:"abilities"`
	Items         []stackDoc `yaml:"items"`
}

type stackDoc struct {
	Name  string `yaml:"name"`
	Count int    `yaml:"count"`
}

// effectDoc is one single-stage effect. Exactly one of Type, Group,
// Complex or Status is set.
type effectDoc struct {
	Type          string      `yaml:"type"`
	Value         float64     `yaml:"value"`
	Save          idDoc       `yaml:"save"`
	BonusSave     []idDoc     `yaml:"bonus_save"`
	Uses          []useDoc    `yaml:"uses"`
	ScaleByStacks bool        `yaml:"scale_by_stacks"`
	StatusEffect  string      `yaml:"status_effect"`
	Item          string      `yaml:"item"`
	Group         []effectDoc `yaml:"group"`
	SelfContained bool        `yaml:"self_contained"`
	Complex       *complexDoc `yaml:"complex"`
	Status        string      `yaml:"status"`
}

type useDoc struct {
	ID       idDoc   `yaml:"id"`
	Weight   float64 `yaml:"weight"`
	Mode     string  `yaml:"mode"`     // additive (default), multiplicative, scale
	Previous bool    `yaml:"previous"` // read the previous stage's store
}

type complexDoc struct {
	Condition conditionDoc `yaml:"condition"`
	Effects   []effectDoc  `yaml:"effects"`
}

type conditionDoc struct {
	Kind       string  `yaml:"kind"`
	Comparator string  `yaml:"comparator"`
	Value      float64 `yaml:"value"`
	Status     string  `yaml:"status"`
}

// itemEffDoc is one item effect. Exactly one field is set.
type itemEffDoc struct {
	Attribute *attributeDoc `yaml:"attribute"`
	AddEffect *addEffectDoc `yaml:"add_effect"`
	Partial   *partialDoc   `yaml:"partial"`
}

type attributeDoc struct {
	Type       string  `yaml:"type"`
	Bonus      float64 `yaml:"bonus"`
	Multiplier float64 `yaml:"multiplier"`
}

type addEffectDoc struct {
	Location string `yaml:"location"`
	Name     string `yaml:"name"`
	multiDoc `yaml:",inline"`
}

type partialDoc struct {
	Location string      `yaml:"location"`
	Stage    string      `yaml:"stage"`
	Taps     string      `yaml:"taps"`
	Effects  []effectDoc `yaml:"effects"`
}

// idDoc is a saved value id: a number in [1, 252] or one of the reserved
// names stacks, conditional_value and tapped.
type idDoc effect.ID

var reservedIDNames = map[string]effect.ID{
	"stacks":            effect.StackID,
	"conditional_value": effect.ConditionalEffectValueID,
	"tapped":            effect.PartialEffectPlaceholderID,
}

func (i *idDoc) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind != yaml.ScalarNode {
		return fmt.Errorf("line %d: id must be a scalar", n.Line)
	}
	if id, ok := reservedIDNames[n.Value]; ok {
		*i = idDoc(id)
		return nil
	}
	v, err := strconv.Atoi(n.Value)
	if err != nil {
		return fmt.Errorf("line %d: invalid id %q", n.Line, n.Value)
	}
	if v < int(effect.MinValidID) || v >= int(effect.PartialEffectPlaceholderID) {
		return fmt.Errorf("line %d: id %d out of range", n.Line, v)
	}
	*i = idDoc(v)
	return nil
}
