package main

import (
	"github.com/spf13/cobra"
	"github.com/spritesoftware/node-gtfs/internal/config"
	"github.com/spritesoftware/node-gtfs/pkg/log"
	"go.uber.org/zap"
)

var (
	agenciesFile string
)

var rootCmd = &cobra.Command{
	Use:           "gtfs-importer",
	Short:         "Import GTFS static feeds into the database",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(importCmd)

	rootCmd.PersistentFlags().StringVarP(&agenciesFile, "agencies", "a", "", "Path to the agency list (defaults to GTFS_AGENCIES_FILE)")
}

// setup loads the configuration and installs the global logger.
func setup() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, err
	}

	lvl, lvlErr := log.ParseLevel(cfg.Service.LogLevel)
	logger := log.InitLog(lvl)
	undo := zap.ReplaceGlobals(logger)
	if lvlErr != nil {
		zap.S().Named("setup").Warnw("falling back to info logging", "error", lvlErr)
	}

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}
