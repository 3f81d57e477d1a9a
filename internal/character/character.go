package character

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/udisondev/idkfx/internal/attribute"
	"github.com/udisondev/idkfx/internal/effect"
)

var (
	ErrDead           = errors.New("character is dead")
	ErrStunned        = errors.New("character is stunned")
	ErrUnknownAbility = errors.New("unknown ability")
	ErrNoBasicAttack  = errors.New("no basic attack registered")
)

// Listener observes state changes of a character.
type Listener interface {
	StunChanged(c *Character, stunned bool)
	Died(c *Character, killer effect.Combatant)
}

// Character is the in-process target of the effect system: health,
// attributes, status effects, inventory and the effects attached to its
// basic attack, abilities and reactive locations.
//
// Not safe for concurrent use. At runtime only the simulation goroutine
// touches characters.
type Character struct {
	name     string
	location effect.Vector
	attrs    *attribute.Set
	health   float64
	dead     bool
	listener Listener

	statuses  *statusManager
	inventory *inventory
	locations [effect.LocationCount]*locationStore
}

var _ effect.Target = (*Character)(nil)

// New creates a character at full health.
func New(name string, health, movementSpeed float64) *Character {
	c := &Character{
		name:  name,
		attrs: attribute.NewSet(health, movementSpeed),
	}
	c.attrs.SetStunListener(c)
	c.health = c.MaxHealth()
	c.statuses = newStatusManager(c)
	c.inventory = newInventory(c)
	for loc := range effect.LocationCount {
		c.locations[loc] = newLocationStore(loc)
	}
	return c
}

// SetListener installs l. Nil removes it.
func (c *Character) SetListener(l Listener) {
	c.listener = l
}

func (c *Character) Name() string            { return c.name }
func (c *Character) Location() effect.Vector { return c.location }

func (c *Character) SetLocation(v effect.Vector) {
	c.location = v
}

// Attributes returns the attribute set. Callers must not keep it across ticks.
func (c *Character) Attributes() *attribute.Set {
	return c.attrs
}

func (c *Character) MaxHealth() float64     { return c.attrs.Value(attribute.Health) }
func (c *Character) MovementSpeed() float64 { return c.attrs.Value(attribute.MovementSpeed) }
func (c *Character) CurrentHealth() float64 { return c.health }
func (c *Character) MissingHealth() float64 { return c.MaxHealth() - c.health }
func (c *Character) IsDead() bool           { return c.dead }
func (c *Character) IsStunned() bool        { return c.attrs.IsStunned() }

// HealthPercent returns current/max health in [0, 1].
func (c *Character) HealthPercent() float64 {
	maxHealth := c.MaxHealth()
	if maxHealth <= 0 {
		return 0
	}
	return c.health / maxHealth
}

// ApplyDamage runs amount through the DamageTaken modifier and subtracts it
// from health. Unless reaction is ReactionNone the on-take-damage effects
// fire. Lethal damage fires on-death effects, and the on-kill effects of a
// hostile source.
func (c *Character) ApplyDamage(amount float64, source effect.Combatant, reaction effect.Reaction) float64 {
	if c.dead || amount <= 0 {
		return 0
	}
	amount = c.attrs.ApplyModifier(attribute.DamageTaken, amount)
	dealt := min(amount, c.health)
	c.health -= dealt

	slog.Debug("damage taken",
		"character", c.name,
		"amount", dealt,
		"health", c.health)

	if reaction != effect.ReactionNone && dealt > 0 {
		c.trigger(effect.LocationOnTakeDamage, dealt)
	}
	if c.health <= 0 && !c.dead {
		c.die(source, reaction, dealt)
	}
	return dealt
}

func (c *Character) die(source effect.Combatant, reaction effect.Reaction, dealt float64) {
	c.health = 0
	c.dead = true

	slog.Info("character died", "character", c.name)

	c.trigger(effect.LocationOnDeath, dealt)
	if killer, ok := source.(*Character); ok && killer != c && reaction == effect.ReactionHostile {
		killer.trigger(effect.LocationOnKill, dealt)
	}
	c.statuses.clear()
	if c.listener != nil {
		c.listener.Died(c, source)
	}
}

// ApplyHealing adds amount to health, capped by missing health. Unless
// reaction is ReactionNone the on-heal effects fire.
func (c *Character) ApplyHealing(amount float64, _ effect.Combatant, reaction effect.Reaction) float64 {
	if c.dead || amount <= 0 {
		return 0
	}
	healed := min(amount, c.MissingHealth())
	c.health += healed
	if reaction != effect.ReactionNone && healed > 0 {
		c.trigger(effect.LocationOnHeal, healed)
	}
	return healed
}

func (c *Character) ApplyModifier(t attribute.Type, v float64) float64 {
	return c.attrs.ApplyModifier(t, v)
}

func (c *Character) ModifierBonus(t attribute.Type) float64 {
	return c.attrs.ModifierBonus(t)
}

func (c *Character) ModifierMultiplierBonus(t attribute.Type) float64 {
	return c.attrs.ModifierMultiplierBonus(t)
}

// AlterAttribute changes an attribute. Current health is clamped to a
// lowered maximum.
func (c *Character) AlterAttribute(t attribute.Type, bonus, multiplierBonus float64) {
	c.attrs.Alter(t, bonus, multiplierBonus)
	if t == attribute.Health {
		c.health = min(c.health, c.MaxHealth())
	}
}

// OnStunChanged implements attribute.StunListener.
func (c *Character) OnStunChanged(stunned bool) {
	slog.Debug("stun changed", "character", c.name, "stunned", stunned)
	if c.listener != nil {
		c.listener.StunChanged(c, stunned)
	}
}

// Push displaces the character by impulse/PushImpulseScale. There is no
// physics simulation.
func (c *Character) Push(impulse effect.Vector) {
	if c.dead {
		return
	}
	c.location = c.location.Add(impulse.Scale(1 / effect.PushImpulseScale))
}

func (c *Character) ApplyStatusEffect(s *effect.StatusEffect, applier effect.Combatant) {
	if c.dead {
		return
	}
	c.statuses.apply(s, applier)
}

func (c *Character) HasStatusEffect(name string) bool   { return c.statuses.has(name) }
func (c *Character) StatusEffectStacks(name string) int { return c.statuses.stacks(name) }
func (c *Character) RemoveStatusEffects(name string) int {
	return c.statuses.remove(name)
}

// StatusEffects returns the active status effects.
func (c *Character) StatusEffects() []StatusInfo {
	return c.statuses.active()
}

// Tick advances status effects and item disables by dt.
func (c *Character) Tick(dt time.Duration) {
	if dt <= 0 {
		return
	}
	c.statuses.tick(dt)
	c.inventory.tick(dt)
}

// BasicAttack applies the basic attack to targets.
func (c *Character) BasicAttack(targets ...effect.Combatant) error {
	if err := c.canAct(); err != nil {
		return err
	}
	m := c.locations[effect.LocationBasicAttack].members[basicAttackKey]
	if m == nil {
		return ErrNoBasicAttack
	}
	return m.Apply(c, targets, c.location, 1)
}

// CastAbility applies the named ability to targets. perHitMultiplier scales
// every hit of a multi-hit cast; 0 means 1.
func (c *Character) CastAbility(name string, targets []effect.Combatant, perHitMultiplier float64) error {
	if err := c.canAct(); err != nil {
		return err
	}
	m := c.locations[effect.LocationAbilities].members[name]
	if m == nil {
		return fmt.Errorf("%w: %s", ErrUnknownAbility, name)
	}
	return m.Apply(c, targets, c.location, perHitMultiplier)
}

func (c *Character) canAct() error {
	if c.dead {
		return ErrDead
	}
	if c.IsStunned() {
		return ErrStunned
	}
	return nil
}

// trigger applies the reactive effects at loc with value as the conditional
// value.
func (c *Character) trigger(loc effect.Location, value float64) {
	m := c.locations[loc].members[loc.String()]
	if m == nil || len(m.Effects(effect.StageSelf)) == 0 {
		return
	}
	if err := m.ApplyEffectsToSelfWithValue(c, value); err != nil {
		slog.Warn("reactive effect failed",
			"character", c.name,
			"location", loc,
			"error", err)
	}
}
