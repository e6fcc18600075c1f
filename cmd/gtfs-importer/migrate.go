package main

import (
	"github.com/spf13/cobra"
	"github.com/spritesoftware/node-gtfs/internal/store"
	"github.com/spritesoftware/node-gtfs/pkg/migrations"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		zap.S().Info("Initializing data store")
		db, err := store.InitDB(cfg)
		if err != nil {
			zap.S().Errorw("initializing data store", "error", err)
			return err
		}

		s := store.NewStore(db)
		defer s.Close()

		if err := s.InitialMigration(); err != nil {
			zap.S().Errorw("running initial migration", "error", err)
			return err
		}

		if cfg.Service.MigrationFolder != "" {
			if err := migrations.MigrateStore(db, cfg.Service.MigrationFolder); err != nil {
				zap.S().Errorw("running migrations", "folder", cfg.Service.MigrationFolder, "error", err)
				return err
			}
		}

		zap.S().Info("Db migrated")
		return nil
	},
}
