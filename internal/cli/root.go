// Package cli implements the day-intake CLI commands.
package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rcliao/day-intake/internal/config"
	"github.com/rcliao/day-intake/internal/embedding"
	"github.com/rcliao/day-intake/internal/ingest"
	"github.com/rcliao/day-intake/internal/logger"
	"github.com/rcliao/day-intake/internal/store"
)

var (
	configPath string
	indexDir   string
	formatFlag string
	verbose    bool
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "day-intake",
	Short: "Date-anchored primary-source intake",
	Long: "Build a searchable index over a tagged corpus of diaries, letters, orders and journals,\n" +
		"then assemble a bucketed intake document of excerpts for a single date.",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.Init(verbose)
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: ./day-intake.yaml or ~/.config/day-intake/config.yaml)")
	RootCmd.PersistentFlags().StringVar(&indexDir, "index-dir", "", "Index directory (overrides config)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "json", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging on stderr")
}

func loadConfig() *config.AppConfig {
	var (
		cfg *config.AppConfig
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, _, err = config.LoadDefault()
	}
	if err != nil {
		exitErr("load config", err)
	}
	if indexDir != "" {
		cfg.IndexDir = indexDir
	}
	return cfg
}

func newEmbedder(cfg *config.AppConfig) embedding.Embedder {
	emb, err := embedding.NewFromConfig(cfg.Embedder)
	if err != nil {
		exitErr("embedder", err)
	}
	return emb
}

func catalogPath(cfg *config.AppConfig) string {
	return filepath.Join(cfg.IndexDir, ingest.CatalogFile)
}

func openStore(cfg *config.AppConfig) (*store.SQLiteStore, error) {
	path := catalogPath(cfg)
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("no catalog at %s, run build first: %w", path, err)
	}
	return store.NewSQLiteStore(path)
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
