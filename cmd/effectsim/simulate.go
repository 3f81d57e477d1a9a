package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/idkfx/internal/catalog"
	"github.com/udisondev/idkfx/internal/character"
	"github.com/udisondev/idkfx/internal/loadout"
	"github.com/udisondev/idkfx/internal/sim"
)

func (a *app) simulateCmd() *cobra.Command {
	var attacker, defender string
	var rounds int

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Fight two loadouts or archetypes",
		Long: `simulate restores two characters and runs a duel on the tick loop.
A name that is not a stored loadout is built fresh from the archetype of
that name.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if attacker == defender {
				return fmt.Errorf("attacker and defender must differ, both are %q", attacker)
			}
			if !cmd.Flags().Changed("rounds") {
				rounds = a.cfg.Simulation.Rounds
			}
			s, c, closeRepo, err := a.openService(cmd.Context())
			if err != nil {
				return err
			}
			defer closeRepo()
			return a.simulate(cmd, s, c, attacker, defender, rounds)
		},
	}

	cmd.Flags().StringVar(&attacker, "attacker", "", "attacking loadout or archetype")
	cmd.Flags().StringVar(&defender, "defender", "", "defending loadout or archetype")
	cmd.Flags().IntVar(&rounds, "rounds", 0, "maximum rounds, 0 fights to the death (default from config)")
	_ = cmd.MarkFlagRequired("attacker")
	_ = cmd.MarkFlagRequired("defender")
	return cmd
}

func (a *app) simulate(cmd *cobra.Command, s *loadout.Service, c *catalog.Catalog, attacker, defender string, rounds int) error {
	ctx := cmd.Context()

	atk, err := restore(ctx, s, c, attacker)
	if err != nil {
		return err
	}
	def, err := restore(ctx, s, c, defender)
	if err != nil {
		return err
	}

	mgr := sim.NewTickManager(a.cfg.Simulation.TickInterval)
	duel := sim.NewDuel(atk, def, rounds)
	mgr.Register("duel", duel)
	mgr.Register(atk.Name(), atk)
	mgr.Register(def.Name(), def)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return mgr.Start(gctx, a.cfg.Simulation.Pace)
	})
	g.Go(func() error {
		select {
		case <-duel.Done():
			mgr.Stop()
			return nil
		case <-gctx.Done():
			return gctx.Err()
		}
	})
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("running duel: %w", err)
	}

	res := duel.Result()
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "rounds: %d\n", res.Rounds)
	fmt.Fprintf(out, "%s: %.1f/%.1f\n", atk.Name(), res.Health[0], atk.MaxHealth())
	fmt.Fprintf(out, "%s: %.1f/%.1f\n", def.Name(), res.Health[1], def.MaxHealth())
	if res.Winner == "" {
		fmt.Fprintln(out, "result: draw")
	} else {
		fmt.Fprintf(out, "result: %s wins\n", res.Winner)
	}
	return nil
}

// restore builds a character from a stored loadout, falling back to the
// archetype with that name.
func restore(ctx context.Context, s *loadout.Service, c *catalog.Catalog, name string) (*character.Character, error) {
	ch, _, err := s.Restore(ctx, name)
	if err == nil {
		return ch, nil
	}
	if !errors.Is(err, loadout.ErrNotFound) {
		return nil, err
	}

	ch, err = c.NewCharacter(name, name)
	if err != nil {
		return nil, fmt.Errorf("%s is neither a loadout nor an archetype: %w", name, err)
	}
	slog.Info("using archetype", "name", name)
	return ch, nil
}
