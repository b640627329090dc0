package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alejogim/sistema-de-reserva/internal/repository"
	"github.com/alejogim/sistema-de-reserva/internal/service"
)

func newAdminCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "admin",
		Short: "Manage admin accounts",
	}
	cmd.AddCommand(newAdminSetPasswordCmd())
	return cmd
}

func newAdminSetPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "set-password <username> <password>",
		Short: "Reset an admin password",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			username, password := args[0], args[1]
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

			admins := service.NewAdminService(repository.NewAdminRepo(db), log, service.AdminConfig{
				JWTSecret:  cfg.JWTSecret,
				BcryptCost: cfg.BcryptCost,
			})
			if err := admins.SetPassword(ctx, username, password); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "password updated for %q\n", username)
			return nil
		},
	}
}
