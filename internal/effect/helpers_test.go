package effect_test

import (
	"time"

	"github.com/udisondev/idkfx/internal/attribute"
	"github.com/udisondev/idkfx/internal/effect"
)

// dummy is a minimal combatant that records what happens to it.
type dummy struct {
	name      string
	location  effect.Vector
	health    float64
	maxHealth float64

	bonus      map[attribute.Type]float64
	multiplier map[attribute.Type]float64

	damageTaken []float64
	healed      []float64
	reactions   []effect.Reaction
	statuses    map[string]int
	applied     []*effect.StatusEffect
	pushes      []effect.Vector
	items       map[string]time.Duration
}

func newDummy(name string, health float64) *dummy {
	return &dummy{
		name:       name,
		health:     health,
		maxHealth:  health,
		bonus:      make(map[attribute.Type]float64),
		multiplier: make(map[attribute.Type]float64),
		statuses:   make(map[string]int),
		items:      make(map[string]time.Duration),
	}
}

func (d *dummy) Name() string            { return d.name }
func (d *dummy) Location() effect.Vector { return d.location }

func (d *dummy) ApplyDamage(amount float64, _ effect.Combatant, r effect.Reaction) float64 {
	dealt := min(amount, d.health)
	d.health -= dealt
	d.damageTaken = append(d.damageTaken, dealt)
	d.reactions = append(d.reactions, r)
	return dealt
}

func (d *dummy) ApplyHealing(amount float64, _ effect.Combatant, r effect.Reaction) float64 {
	healed := min(amount, d.maxHealth-d.health)
	d.health += healed
	d.healed = append(d.healed, healed)
	d.reactions = append(d.reactions, r)
	return healed
}

func (d *dummy) ApplyModifier(_ attribute.Type, v float64) float64 { return v }
func (d *dummy) ModifierBonus(t attribute.Type) float64            { return d.bonus[t] }
func (d *dummy) ModifierMultiplierBonus(t attribute.Type) float64  { return d.multiplier[t] }

func (d *dummy) CurrentHealth() float64 { return d.health }
func (d *dummy) MissingHealth() float64 { return d.maxHealth - d.health }
func (d *dummy) HealthPercent() float64 { return d.health / d.maxHealth }

func (d *dummy) ApplyStatusEffect(s *effect.StatusEffect, _ effect.Combatant) {
	d.applied = append(d.applied, s)
	d.statuses[s.Name] = min(d.statuses[s.Name]+1, s.MaxStackCount())
}

func (d *dummy) HasStatusEffect(name string) bool { return d.statuses[name] > 0 }
func (d *dummy) StatusEffectStacks(name string) int {
	return d.statuses[name]
}

func (d *dummy) RemoveStatusEffects(name string) int {
	n := d.statuses[name]
	delete(d.statuses, name)
	return n
}

func (d *dummy) Push(impulse effect.Vector) { d.pushes = append(d.pushes, impulse) }

func (d *dummy) DisableItemByName(name string, dur time.Duration) bool {
	if _, ok := d.items[name]; !ok {
		return false
	}
	d.items[name] = dur
	return true
}

func totalDamage(d *dummy) float64 {
	sum := 0.0
	for _, v := range d.damageTaken {
		sum += v
	}
	return sum
}
