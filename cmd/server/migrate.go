package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alejogim/sistema-de-reserva/internal/database"
)

func newMigrateCmd() *cobra.Command {
	var seed bool

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create the schema and optionally seed the default admin and sample services",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx := context.Background()
			db, err := openDB(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			if seed {
				created, err := database.Seed(ctx, db, seedOptions(cfg))
				if err != nil {
					return err
				}
				if created {
					fmt.Fprintf(cmd.OutOrStdout(), "created admin %q\n", cfg.DefaultAdmin.Username)
				}
			}
			fmt.Fprintln(cmd.OutOrStdout(), "schema up to date")
			return nil
		},
	}
	cmd.Flags().BoolVar(&seed, "seed", true, "insert the default admin and sample services when missing")
	return cmd
}
