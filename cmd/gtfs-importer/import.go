package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spritesoftware/node-gtfs/internal/archive"
	"github.com/spritesoftware/node-gtfs/internal/config"
	"github.com/spritesoftware/node-gtfs/internal/importer"
	"github.com/spritesoftware/node-gtfs/internal/store"
	"github.com/spritesoftware/node-gtfs/pkg/metrics"
	"go.uber.org/zap"
)

var interval time.Duration

var importCmd = &cobra.Command{
	Use:   "import",
	Short: "Import every configured agency",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, cleanup, err := setup()
		if err != nil {
			return err
		}
		defer cleanup()

		if agenciesFile == "" {
			agenciesFile = cfg.Service.AgenciesFile
		}
		agencies, err := config.LoadAgencies(agenciesFile, cfg.Service.DefaultURLTemplate)
		if err != nil {
			zap.S().Errorw("reading agency list", "file", agenciesFile, "error", err)
			return err
		}
		zap.S().Infow("agencies loaded", "count", len(agencies))

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

		if err := os.MkdirAll(cfg.Service.WorkspaceDir, 0o755); err != nil {
			return fmt.Errorf("creating workspace: %w", err)
		}

		ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGHUP, syscall.SIGTERM, syscall.SIGQUIT)
		defer cancel()

		if cfg.Service.MetricsAddress != "" {
			listener, err := net.Listen("tcp", cfg.Service.MetricsAddress)
			if err != nil {
				return fmt.Errorf("creating metrics listener: %w", err)
			}
			go func() {
				if err := metrics.NewServer(cfg.Service.MetricsAddress, listener).Run(ctx); err != nil {
					zap.S().Errorw("metrics server stopped", "error", err)
				}
			}()
		}

		fetcher := archive.NewFetcher(
			archive.WithEndpoint(cfg.Service.S3.Endpoint),
			archive.WithAccessKey(cfg.Service.S3.AccessKey),
			archive.WithSecretKey(cfg.Service.S3.SecretKey),
			archive.WithSSL(cfg.Service.S3.UseSSL),
		)
		queue := importer.NewQueue(
			importer.NewPipeline(s, fetcher, cfg.Service.WorkspaceDir),
			cfg.Service.MaxConcurrentAgencies,
		)

		if interval <= 0 {
			summary := queue.Run(ctx, agencies)
			logSummary(summary)
			return nil
		}

		importer.NewScheduler(queue, agencies, interval).Run(ctx, logSummary)
		return nil
	},
}

func init() {
	addImportFlags(importCmd.Flags())
}

func addImportFlags(fs *pflag.FlagSet) {
	fs.DurationVar(&interval, "interval", 0, "Repeat the import on this interval until interrupted")
}

func logSummary(summary importer.Summary) {
	for _, res := range summary.Results {
		if res.Err != nil {
			zap.S().Warnw("agency failed", "agency", res.Agency.Key, "stage", res.FailedStage, "error", res.Err)
		}
	}
	zap.S().Infow("import pass finished", "attempted", summary.Attempted, "succeeded", summary.Succeeded, "failed", summary.Failed)
}
