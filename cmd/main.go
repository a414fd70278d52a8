// Package main provides the CLI entrypoint for the QR Guard service.
// It wires subcommands (serve, detect), loads configuration, and initializes
// logging.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"qrguard/internal/config"
	"qrguard/internal/detector"
	"qrguard/pkg/logger"
)

// getDetector loads the frozen model artifacts and builds the phishing
// detector. A missing or corrupt artifact is fatal; the detector has no
// fallback scoring path.
func getDetector(ctx context.Context, cfg *config.Config) *detector.Detector {
	det, err := detector.NewFromArtifacts(detector.NewOptions(cfg))
	if err != nil {
		logger.Fatal(ctx, "could not load detector models", zap.Error(err))
	}

	return det
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use: "qrguard",
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	log.Println("loading config ...")
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file", err)
	}

	logger.Setup(cfg.Environment)

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			_ = logger.Get(ctx).Sync()

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		serveCommand(cfg),
		detectCommand(cfg),
	)

	err = rootCmd.Execute()
	_ = logger.Get(ctx).Sync()
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
