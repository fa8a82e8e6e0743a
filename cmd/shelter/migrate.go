package main

import (
	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			pool, err := openDatabase(ctx, cfg, log)
			if err != nil {
				log.Error().Err(err).Msg("migration failed")
				return err
			}
			pool.Close()
			log.Info().Msg("database is up to date")
			return nil
		},
	}
}
