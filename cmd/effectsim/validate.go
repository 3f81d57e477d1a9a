package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/udisondev/idkfx/internal/catalog"
)

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load the catalog and report authoring problems",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			c, err := catalog.Load(cmd.Context(), a.cfg.CatalogDir)
			if err != nil {
				return fmt.Errorf("loading catalog: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "catalog %s (version %s)\n", a.cfg.CatalogDir, c.Version())
			fmt.Fprintf(out, "  status effects: %s\n", strings.Join(c.StatusEffectNames(), ", "))
			fmt.Fprintf(out, "  basic attacks:  %s\n", strings.Join(c.BasicAttackNames(), ", "))
			fmt.Fprintf(out, "  abilities:      %s\n", strings.Join(c.AbilityNames(), ", "))
			fmt.Fprintf(out, "  items:          %s\n", strings.Join(c.ItemNames(), ", "))
			fmt.Fprintf(out, "  archetypes:     %s\n", strings.Join(c.ArchetypeNames(), ", "))

			ps := c.Validate()
			for _, p := range ps {
				fmt.Fprintln(out, p)
			}
			if ps.HasErrors() {
				return fmt.Errorf("catalog has %d errors", len(ps.Errors()))
			}
			fmt.Fprintln(out, "ok")
			return nil
		},
	}
}
