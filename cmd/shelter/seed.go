package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/petshelter/adoption-system/internal/infrastructure/db/postgres"
	"github.com/petshelter/adoption-system/internal/infrastructure/seed"
	"github.com/petshelter/adoption-system/pkg/logger"
)

func newSeedCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert users and animals from a YAML file",
		Long: `Insert users and animals from a YAML file.

Existing usernames and existing name/species pairs are skipped, so the
command can be run repeatedly against the same database.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			cfg, log, err := bootstrap(ctx)
			if err != nil {
				return err
			}
			if file == "" {
				file = cfg.SeedFile
			}
			if file == "" {
				return errors.New("seed: --file or SEED_FILE is required")
			}

			f, err := seed.Load(file)
			if err != nil {
				return err
			}

			pool, err := openDatabase(ctx, cfg, log)
			if err != nil {
				return err
			}
			defer pool.Close()

			seeder := seed.NewSeeder(
				postgres.NewUserRepository(pool),
				postgres.NewAnimalRepository(pool),
				logger.Component("seed"),
			)
			_, err = seeder.Apply(ctx, f)
			return err
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "path to the seed YAML file (defaults to SEED_FILE)")
	return cmd
}
