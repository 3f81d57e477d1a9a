package sim

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/udisondev/idkfx/internal/character"
	"github.com/udisondev/idkfx/internal/effect"
)

// Duel is a Tickable fighting two characters. Every tick is one round:
// each living, unstunned side acts once, rotating through its abilities
// and its basic attack. Characters must be registered separately so their
// statuses and item disables advance.
type Duel struct {
	sides  [2]*character.Character
	rounds int
	round  int

	done     chan struct{}
	doneOnce sync.Once
	result   Result
}

// Result summarizes a finished duel.
type Result struct {
	Rounds int
	Winner string // empty on a draw
	Health [2]float64
}

// Action is one thing a side did in a round.
type Action struct {
	Round  int
	Actor  string
	Action string
	Err    error
}

// NewDuel creates a duel of at most rounds rounds. Zero rounds means until
// one side dies.
func NewDuel(a, b *character.Character, rounds int) *Duel {
	return &Duel{
		sides:  [2]*character.Character{a, b},
		rounds: rounds,
		done:   make(chan struct{}),
	}
}

// Done is closed when the duel ends.
func (d *Duel) Done() <-chan struct{} {
	return d.done
}

// Result returns the outcome. Valid after Done is closed.
func (d *Duel) Result() Result {
	return d.result
}

// Tick plays one round.
func (d *Duel) Tick(time.Duration) {
	if d.finished() {
		return
	}
	d.round++

	for i, actor := range d.sides {
		target := d.sides[1-i]
		if actor.IsDead() || target.IsDead() {
			break
		}
		act := d.act(actor, target)
		if act.Err != nil {
			slog.Info("turn skipped",
				"round", act.Round,
				"actor", act.Actor,
				"action", act.Action,
				"reason", act.Err)
			continue
		}
		slog.Info("turn",
			"round", act.Round,
			"actor", act.Actor,
			"action", act.Action,
			"target", target.Name(),
			"target_health", target.CurrentHealth())
	}

	a, b := d.sides[0], d.sides[1]
	if a.IsDead() || b.IsDead() || (d.rounds > 0 && d.round >= d.rounds) {
		d.finish()
	}
}

// act picks the round's action: abilities in name order, then the basic
// attack, cycling.
func (d *Duel) act(actor, target *character.Character) Action {
	abilities := actor.Abilities()
	act := Action{Round: d.round, Actor: actor.Name()}

	slot := (d.round - 1) % (len(abilities) + 1)
	if slot < len(abilities) {
		act.Action = abilities[slot]
		act.Err = actor.CastAbility(act.Action, []effect.Combatant{target}, 1)
	} else {
		act.Action = "basic_attack"
		act.Err = actor.BasicAttack(target)
	}
	if errors.Is(act.Err, character.ErrNoBasicAttack) && len(abilities) > 0 {
		act.Action = abilities[0]
		act.Err = actor.CastAbility(act.Action, []effect.Combatant{target}, 1)
	}
	return act
}

func (d *Duel) finished() bool {
	select {
	case <-d.done:
		return true
	default:
		return false
	}
}

func (d *Duel) finish() {
	d.doneOnce.Do(func() {
		a, b := d.sides[0], d.sides[1]
		d.result = Result{
			Rounds: d.round,
			Health: [2]float64{a.CurrentHealth(), b.CurrentHealth()},
		}
		switch {
		case a.IsDead() && !b.IsDead():
			d.result.Winner = b.Name()
		case b.IsDead() && !a.IsDead():
			d.result.Winner = a.Name()
		}
		close(d.done)
	})
}
