package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"learningpal/internal/config"
	"learningpal/internal/platform/database"
	"learningpal/internal/repository"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database tables for the configured database",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			db, err := database.New(cmd.Context(), database.Options{
				Driver: cfg.Database.Driver,
				DSN:    cfg.DSN(),
				Quiet:  true,
			})
			if err != nil {
				return err
			}
			defer database.Close(db)

			if err := repository.AutoMigrate(db); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "migrated %s database\n", cfg.Database.Driver)
			return err
		},
	}
}
