package patternbase

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/soundprediction/patternbase"
	"github.com/soundprediction/patternbase/pkg/config"
	pblogger "github.com/soundprediction/patternbase/pkg/logger"
	"github.com/soundprediction/patternbase/pkg/seed"
	"github.com/soundprediction/patternbase/pkg/server"
	"github.com/soundprediction/patternbase/pkg/snapshot"
	"github.com/soundprediction/patternbase/pkg/telemetry"
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Start the Patternbase HTTP server",
	Long: `Start the Patternbase HTTP server to provide REST API access to the
knowledge base.

The server provides endpoints for:
- Relevance-ranked search across patterns and examples
- Record lookup by variant, category, server type, or difficulty
- Ingesting record documents
- Store and cache statistics
- Health checks

Configuration can be provided through config files, environment variables, or command-line flags.`,
	RunE: runServer,
}

var (
	serverHost string
	serverPort int
	serverMode string
)

func init() {
	rootCmd.AddCommand(serverCmd)

	// Server-specific flags
	serverCmd.Flags().StringVar(&serverHost, "host", "localhost", "Server host")
	serverCmd.Flags().IntVar(&serverPort, "port", 8080, "Server port")
	serverCmd.Flags().StringVar(&serverMode, "mode", "debug", "Server mode (debug, release, test)")

	// Store flags
	serverCmd.Flags().StringSlice("seed", nil, "Seed file (YAML or JSON) loaded at startup; repeatable")
	serverCmd.Flags().String("snapshot-path", "", "Badger directory for store snapshots (empty disables)")

	// Cache flags
	serverCmd.Flags().Int("cache-size", 0, "Maximum cached query results (0 uses the default)")
	serverCmd.Flags().Duration("cache-ttl", 0, "Cached result lifetime (0 uses the default)")

	// Telemetry flags
	serverCmd.Flags().String("telemetry-parquet-path", "", "Directory for search telemetry parquet files")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	overrideConfigWithFlags(cmd, cfg)

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := pblogger.New(cfg.Log.Level, cfg.Log.Format)

	// Search telemetry
	var recorder *telemetry.Recorder
	if cfg.Telemetry.ParquetPath != "" {
		recorder, err = telemetry.NewRecorder(cfg.Telemetry.ParquetPath, logger)
		if err != nil {
			logger.Warn("telemetry disabled", "error", err)
			recorder = nil
		} else {
			logger.Info("search telemetry enabled", "path", cfg.Telemetry.ParquetPath)
		}
	}

	opts := &patternbase.Options{
		CacheSize:     cfg.Cache.MaxSize,
		CacheTTL:      cfg.Cache.TTL,
		SweepInterval: cfg.Cache.SweepInterval,
		Logger:        logger,
	}
	if recorder != nil {
		opts.Observer = recorder
	}
	client := patternbase.NewClient(opts)
	defer client.Close()

	// Restore from snapshot, then layer seed files on top.
	var snap *snapshot.Store
	if cfg.Snapshot.Path != "" {
		snap, err = snapshot.Open(cfg.Snapshot.Path, logger)
		if err != nil {
			return fmt.Errorf("failed to open snapshot: %w", err)
		}
		defer snap.Close()

		if _, err := snap.Load(client.Store()); err != nil {
			return fmt.Errorf("failed to restore snapshot: %w", err)
		}
	}
	if len(cfg.Seed.Paths) > 0 {
		added, err := seed.Populate(client.Store(), cfg.Seed.Paths, logger)
		if err != nil {
			return fmt.Errorf("failed to load seed files: %w", err)
		}
		logger.Info("seed records loaded", "count", added)
	}

	srv := server.New(cfg, client)
	srv.Setup()

	// Handle signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		logger.Info("server listening", "host", cfg.Server.Host, "port", cfg.Server.Port)
		if err := srv.Start(); err != nil {
			serverErrChan <- err
		}
	}()

	select {
	case err := <-serverErrChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("shutting down", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Stop(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}

		if snap != nil {
			if err := snap.Save(client.Store()); err != nil {
				logger.Error("snapshot save failed", "error", err)
			}
		}
		if recorder != nil {
			if err := recorder.Close(); err != nil {
				logger.Error("telemetry flush failed", "error", err)
			}
		}

		logger.Info("server stopped gracefully")
		return nil
	}
}

func overrideConfigWithFlags(cmd *cobra.Command, cfg *config.Config) {
	// Server flags
	if cmd.Flags().Changed("host") {
		cfg.Server.Host = serverHost
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port = serverPort
	}
	if cmd.Flags().Changed("mode") {
		cfg.Server.Mode = serverMode
	}

	// Store flags
	if cmd.Flags().Changed("seed") {
		cfg.Seed.Paths, _ = cmd.Flags().GetStringSlice("seed")
	}
	if cmd.Flags().Changed("snapshot-path") {
		cfg.Snapshot.Path, _ = cmd.Flags().GetString("snapshot-path")
	}

	// Cache flags
	if cmd.Flags().Changed("cache-size") {
		cfg.Cache.MaxSize, _ = cmd.Flags().GetInt("cache-size")
	}
	if cmd.Flags().Changed("cache-ttl") {
		cfg.Cache.TTL, _ = cmd.Flags().GetDuration("cache-ttl")
	}

	// Telemetry flags
	if cmd.Flags().Changed("telemetry-parquet-path") {
		cfg.Telemetry.ParquetPath, _ = cmd.Flags().GetString("telemetry-parquet-path")
	}
}
