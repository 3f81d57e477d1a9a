package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/idkfx/internal/character"
	"github.com/udisondev/idkfx/internal/loadout"
)

func (a *app) loadoutCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "loadout",
		Short: "Manage persisted character loadouts",
	}

	var count int
	equip := &cobra.Command{
		Use:   "equip NAME ITEM",
		Short: "Add copies of an item",
		Args:  cobra.ExactArgs(2),
		RunE: a.mutate(func(ctx context.Context, s *loadout.Service, args []string) (*loadout.Loadout, error) {
			return s.Equip(ctx, args[0], args[1], count)
		}),
	}
	equip.Flags().IntVarP(&count, "count", "n", 1, "number of copies")

	cmd.AddCommand(
		&cobra.Command{
			Use:   "create NAME ARCHETYPE",
			Short: "Create a loadout from an archetype",
			Args:  cobra.ExactArgs(2),
			RunE: a.mutate(func(ctx context.Context, s *loadout.Service, args []string) (*loadout.Loadout, error) {
				return s.Create(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "show NAME",
			Short: "Show a loadout and the character it builds",
			Args:  cobra.ExactArgs(1),
			RunE: a.withService(func(cmd *cobra.Command, s *loadout.Service, args []string) error {
				ch, l, err := s.Restore(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				if err := printLoadout(cmd.OutOrStdout(), l); err != nil {
					return err
				}
				printCharacter(cmd.OutOrStdout(), ch)
				return nil
			}),
		},
		equip,
		&cobra.Command{
			Use:   "unequip NAME ITEM",
			Short: "Remove every added copy of an item",
			Args:  cobra.ExactArgs(2),
			RunE: a.mutate(func(ctx context.Context, s *loadout.Service, args []string) (*loadout.Loadout, error) {
				return s.Unequip(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "learn NAME ABILITY",
			Short: "Add an ability",
			Args:  cobra.ExactArgs(2),
			RunE: a.mutate(func(ctx context.Context, s *loadout.Service, args []string) (*loadout.Loadout, error) {
				return s.Learn(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "forget NAME ABILITY",
			Short: "Remove a learned ability",
			Args:  cobra.ExactArgs(2),
			RunE: a.mutate(func(ctx context.Context, s *loadout.Service, args []string) (*loadout.Loadout, error) {
				return s.Forget(ctx, args[0], args[1])
			}),
		},
		&cobra.Command{
			Use:   "delete NAME",
			Short: "Delete a loadout",
			Args:  cobra.ExactArgs(1),
			RunE: a.withService(func(cmd *cobra.Command, s *loadout.Service, args []string) error {
				return s.Delete(cmd.Context(), args[0])
			}),
		},
		&cobra.Command{
			Use:   "list",
			Short: "List loadout names",
			Args:  cobra.NoArgs,
			RunE: a.withService(func(cmd *cobra.Command, s *loadout.Service, _ []string) error {
				names, err := s.List(cmd.Context())
				if err != nil {
					return err
				}
				for _, name := range names {
					fmt.Fprintln(cmd.OutOrStdout(), name)
				}
				return nil
			}),
		},
	)
	return cmd
}

type serviceFunc func(cmd *cobra.Command, s *loadout.Service, args []string) error

// withService opens the catalog and storage for the duration of fn.
func (a *app) withService(fn serviceFunc) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		s, _, closeRepo, err := a.openService(cmd.Context())
		if err != nil {
			return err
		}
		defer closeRepo()
		return fn(cmd, s, args)
	}
}

// mutate runs a loadout change and prints the result.
func (a *app) mutate(fn func(context.Context, *loadout.Service, []string) (*loadout.Loadout, error)) func(*cobra.Command, []string) error {
	return a.withService(func(cmd *cobra.Command, s *loadout.Service, args []string) error {
		l, err := fn(cmd.Context(), s, args)
		if err != nil {
			return err
		}
		return printLoadout(cmd.OutOrStdout(), l)
	})
}

func printLoadout(w io.Writer, l *loadout.Loadout) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(l); err != nil {
		return fmt.Errorf("encoding loadout %s: %w", l.Name, err)
	}
	return nil
}

func printCharacter(w io.Writer, ch *character.Character) {
	fmt.Fprintf(w, "health:    %.1f/%.1f\n", ch.CurrentHealth(), ch.MaxHealth())
	fmt.Fprintf(w, "speed:     %.1f\n", ch.MovementSpeed())
	fmt.Fprintf(w, "abilities: %s\n", strings.Join(ch.Abilities(), ", "))

	items := ch.Items()
	parts := make([]string, 0, len(items))
	for _, it := range items {
		parts = append(parts, fmt.Sprintf("%s x%d", it.Name, it.Count))
	}
	fmt.Fprintf(w, "items:     %s\n", strings.Join(parts, ", "))
}
