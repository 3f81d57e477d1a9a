package effect

import (
	"fmt"
	"math"
)

// EffectType is what a SimpleEffect does.
type EffectType uint8

const (
	Damage EffectType = iota
	Healing
	GetMissingHealth
	GetHealthPercent
	GetStatusEffectStacks
	RemoveStatusEffect
	Push
	DisableItem

	effectTypeCount
)

var effectTypeNames = [effectTypeCount]string{
	Damage:                "damage",
	Healing:               "healing",
	GetMissingHealth:      "get_missing_health",
	GetHealthPercent:      "get_health_percent",
	GetStatusEffectStacks: "get_status_effect_stacks",
	RemoveStatusEffect:    "remove_status_effect",
	Push:                  "push",
	DisableItem:           "disable_item",
}

func (t EffectType) String() string {
	if t < effectTypeCount {
		return effectTypeNames[t]
	}
	return fmt.Sprintf("effect_type(%d)", uint8(t))
}

// ParseEffectType returns the EffectType with the given name.
func ParseEffectType(name string) (EffectType, error) {
	for i, n := range effectTypeNames {
		if n == name {
			return EffectType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown effect type: %q", name)
}

// Stage is one of the three ordered phases of a multi-stage effect.
type Stage uint8

const (
	StageSelf Stage = iota
	StageTarget
	StageCallback

	StageCount
)

var stageNames = [StageCount]string{"self", "target", "callback"}

func (s Stage) String() string {
	if s < StageCount {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", uint8(s))
}

// ParseStage returns the Stage with the given name.
func ParseStage(name string) (Stage, error) {
	for i, n := range stageNames {
		if n == name {
			return Stage(i), nil
		}
	}
	return 0, fmt.Errorf("unknown stage: %q", name)
}

// Location is where an item attaches bonus effects on a character.
type Location uint8

const (
	LocationBasicAttack Location = iota
	LocationAbilities
	LocationOnTakeDamage
	LocationOnHeal
	LocationOnDeath
	LocationOnKill

	LocationCount
)

var locationNames = [LocationCount]string{
	"basic_attack", "abilities", "on_take_damage", "on_heal", "on_death", "on_kill",
}

func (l Location) String() string {
	if l < LocationCount {
		return locationNames[l]
	}
	return fmt.Sprintf("location(%d)", uint8(l))
}

// ParseLocation returns the Location with the given name.
func ParseLocation(name string) (Location, error) {
	for i, n := range locationNames {
		if n == name {
			return Location(i), nil
		}
	}
	return 0, fmt.Errorf("unknown location: %q", name)
}

// IsReactive reports whether effects at l fire in response to an event and
// only have a Self stage.
func (l Location) IsReactive() bool {
	return l >= LocationOnTakeDamage && l < LocationCount
}

// SupportsPartialEffects reports whether partial effects can attach at l.
func (l Location) SupportsPartialEffects() bool {
	return l == LocationBasicAttack || l == LocationAbilities
}

// Reaction controls which reactive effects a damage or heal may trigger.
type Reaction uint8

const (
	// ReactionNone triggers nothing. Used by reactive effects themselves.
	ReactionNone Reaction = iota
	// ReactionFriendly triggers on-damage/on-heal effects of the receiver.
	ReactionFriendly
	// ReactionHostile additionally credits kills to the source.
	ReactionHostile
)

// UseMode is how a referenced saved value contributes to a SimpleEffect.
type UseMode uint8

const (
	// UseAdditive adds value*weight (scaled by the per-hit multiplier).
	UseAdditive UseMode = iota
	// UseMultiplicative adds value*weight to the multiplier.
	UseMultiplicative
	// UseScale multiplies the final result by value*weight.
	UseScale
)

var useModeNames = [...]string{"additive", "multiplicative", "scale"}

func (m UseMode) String() string {
	if int(m) < len(useModeNames) {
		return useModeNames[m]
	}
	return fmt.Sprintf("use_mode(%d)", uint8(m))
}

// ParseUseMode returns the UseMode with the given name.
func ParseUseMode(name string) (UseMode, error) {
	for i, n := range useModeNames {
		if n == name {
			return UseMode(i), nil
		}
	}
	return 0, fmt.Errorf("unknown use mode: %q", name)
}

// UseInfo describes how a SimpleEffect reads one saved value.
type UseInfo struct {
	Weight float64
	Mode   UseMode
	// Local reads the current stage store; otherwise the previous stage store.
	Local bool
}

// UseIDs is the set of ids an effect reads, split by store.
type UseIDs struct {
	Local    IDSet
	Previous IDSet
}

// Append adds every id of other.
func (u *UseIDs) Append(other UseIDs) {
	u.Local.Append(other.Local)
	u.Previous.Append(other.Previous)
}

// All returns local and previous ids together.
func (u UseIDs) All() IDSet {
	return u.Local.Union(u.Previous)
}

// Vector is a position or direction in world space.
type Vector struct {
	X, Y, Z float64
}

func (v Vector) Add(o Vector) Vector        { return Vector{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vector) Sub(o Vector) Vector        { return Vector{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }
func (v Vector) Scale(f float64) Vector     { return Vector{v.X * f, v.Y * f, v.Z * f} }
func (v Vector) Length() float64            { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }
func (v Vector) Horizontal() Vector         { return Vector{v.X, v.Y, 0} }
func (v Vector) IsZero() bool               { return v == Vector{} }
func (v Vector) DistanceTo(o Vector) float64 { return v.Sub(o).Length() }

// Normalize returns the unit vector of v, or the zero vector.
func (v Vector) Normalize() Vector {
	l := v.Length()
	if l == 0 {
		return Vector{}
	}
	return v.Scale(1 / l)
}

// ApplyParams carries everything a single-stage effect needs to apply.
type ApplyParams struct {
	// Applier owns the effect (the caster). Its modifiers are folded into
	// damage and healing values.
	Applier Combatant
	// Target receives the effect.
	Target Combatant
	// Origin is the position the effect emanates from.
	Origin Vector

	Local    *SavedValues
	Previous *SavedValues

	PerHitMultiplier float64
	ApplyModifiers   bool
	Reaction         Reaction
}

func (p *ApplyParams) perHit() float64 {
	if p.PerHitMultiplier == 0 {
		return 1
	}
	return p.PerHitMultiplier
}
