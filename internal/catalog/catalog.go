// Package catalog loads effect definitions from YAML: status effects,
// abilities, basic attacks, items and character archetypes.
package catalog

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/udisondev/idkfx/internal/character"
	"github.com/udisondev/idkfx/internal/effect"
)

var (
	ErrUnknownStatusEffect = errors.New("unknown status effect")
	ErrUnknownAbility      = errors.New("unknown ability")
	ErrUnknownBasicAttack  = errors.New("unknown basic attack")
	ErrUnknownItem         = errors.New("unknown item")
	ErrUnknownArchetype    = errors.New("unknown archetype")
	ErrDuplicate           = errors.New("duplicate definition")
)

// ItemStack is a number of copies of a catalog item.
type ItemStack struct {
	Name  string
	Count int
}

// Archetype is a character template.
type Archetype struct {
	Name          string
	Health        float64
	MovementSpeed float64
	BasicAttack   string
	Abilities     []string
	Items         []ItemStack
}

// Catalog holds built effect templates. Accessors return copies; the
// templates are never handed out.
//
// A Catalog is immutable after loading and safe for concurrent use.
type Catalog struct {
	version      string
	statuses     map[string]*effect.StatusEffect
	abilities    map[string]*effect.MultiStageEffect
	basicAttacks map[string]*effect.MultiStageEffect
	items        map[string]effect.ItemEffect
	archetypes   map[string]Archetype
}

// Version returns the hex BLAKE2b-256 digest of the catalog sources.
func (c *Catalog) Version() string {
	return c.version
}

func (c *Catalog) StatusEffect(name string) (*effect.StatusEffect, error) {
	s, ok := c.statuses[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStatusEffect, name)
	}
	return s.CloneStatus(), nil
}

func (c *Catalog) Ability(name string) (*effect.MultiStageEffect, error) {
	m, ok := c.abilities[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAbility, name)
	}
	return m.Clone(), nil
}

func (c *Catalog) BasicAttack(name string) (*effect.MultiStageEffect, error) {
	m, ok := c.basicAttacks[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBasicAttack, name)
	}
	return m.Clone(), nil
}

// NewItem instantiates the named item for one owner. Every owner needs its
// own instance: item effects track their attachment ids.
func (c *Catalog) NewItem(name string) (*character.Item, error) {
	e, ok := c.items[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownItem, name)
	}
	return &character.Item{Name: name, Effect: e.Clone()}, nil
}

func (c *Catalog) Archetype(name string) (Archetype, error) {
	a, ok := c.archetypes[name]
	if !ok {
		return Archetype{}, fmt.Errorf("%w: %q", ErrUnknownArchetype, name)
	}
	a.Abilities = slices.Clone(a.Abilities)
	a.Items = slices.Clone(a.Items)
	return a, nil
}

func (c *Catalog) StatusEffectNames() []string { return slices.Sorted(maps.Keys(c.statuses)) }
func (c *Catalog) AbilityNames() []string      { return slices.Sorted(maps.Keys(c.abilities)) }
func (c *Catalog) BasicAttackNames() []string  { return slices.Sorted(maps.Keys(c.basicAttacks)) }
func (c *Catalog) ItemNames() []string         { return slices.Sorted(maps.Keys(c.items)) }
func (c *Catalog) ArchetypeNames() []string    { return slices.Sorted(maps.Keys(c.archetypes)) }

// NewCharacter creates a character from an archetype: basic attack,
// abilities and starting items.
func (c *Catalog) NewCharacter(name, archetype string) (*character.Character, error) {
	a, err := c.Archetype(archetype)
	if err != nil {
		return nil, err
	}
	ch := character.New(name, a.Health, a.MovementSpeed)
	if a.BasicAttack != "" {
		attack, err := c.BasicAttack(a.BasicAttack)
		if err != nil {
			return nil, fmt.Errorf("archetype %s: %w", archetype, err)
		}
		ch.RegisterBasicAttackEffect(attack)
	}
	for _, ability := range a.Abilities {
		if err := c.Learn(ch, ability); err != nil {
			return nil, fmt.Errorf("archetype %s: %w", archetype, err)
		}
	}
	for _, st := range a.Items {
		if err := c.Equip(ch, st.Name, st.Count); err != nil {
			return nil, fmt.Errorf("archetype %s: %w", archetype, err)
		}
	}
	return ch, nil
}

// Learn registers the named ability on ch.
func (c *Catalog) Learn(ch *character.Character, ability string) error {
	m, err := c.Ability(ability)
	if err != nil {
		return err
	}
	ch.RegisterAbilityEffect(ability, m)
	return nil
}

// Equip gives ch count copies of the named item.
func (c *Catalog) Equip(ch *character.Character, item string, count int) error {
	it, err := c.NewItem(item)
	if err != nil {
		return err
	}
	if err := ch.AddItem(it, count); err != nil {
		return fmt.Errorf("equip %s: %w", item, err)
	}
	return nil
}

// Validate checks every template. Loading does not validate; callers
// decide whether warnings matter.
func (c *Catalog) Validate() effect.Problems {
	var ps effect.Problems
	for _, name := range c.StatusEffectNames() {
		ps.Merge("status effect "+name, c.statuses[name].Validate())
	}
	for _, name := range c.BasicAttackNames() {
		ps.Merge("basic attack "+name, c.basicAttacks[name].Validate(effect.ValidateOptions{}))
	}
	for _, name := range c.AbilityNames() {
		ps.Merge("ability "+name, c.abilities[name].Validate(effect.ValidateOptions{}))
	}
	for _, name := range c.ItemNames() {
		ps.Merge("item "+name, c.items[name].Validate())
	}
	return ps
}
