package main

import (
	"github.com/spf13/cobra"

	"github.com/udisondev/idkfx/internal/db"
)

func (a *app) migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply PostgreSQL migrations for loadout storage",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return db.RunMigrations(cmd.Context(), a.cfg.Database.DSN())
		},
	}
}
