// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the hoax-insight CLI.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/hoax-insight/internal/config"
	"github.com/pdiddy/hoax-insight/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// cfg holds the configuration loaded before any subcommand runs.
var cfg *config.Config

// rootCmd is the base command for the hoax-insight CLI.
var rootCmd = &cobra.Command{
	Use:   "hoax-insight",
	Short: "Relevant date and location extraction for Indonesian hoax articles",
	Long: `hoax-insight enriches fact-check articles about Indonesian hoaxes with the
date the claim circulated and the place it concerns, resolved to a province.

Use extract to try the pipelines on raw text, enrich to process the article
database into a local index, and articles to query, summarise or export it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfgFile, _ := cmd.Flags().GetString("config")
		c, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		if level, _ := cmd.Flags().GetString("log-level"); level != "" {
			c.Log.Level = level
		}
		if err := config.InitLogger(c.Log); err != nil {
			return err
		}

		secretsDir, _ := cmd.Flags().GetString("secrets-dir")
		s, err := secrets.Load(secretsDir)
		if err != nil {
			return err
		}
		if len(s) > 0 {
			zap.L().Debug("loaded secrets", zap.Strings("keys", s.Keys()))
		}
		c.ApplySecrets(s)

		cfg = c
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./hoax-insight.yaml or ~/.config/hoax-insight/hoax-insight.yaml)")
	rootCmd.PersistentFlags().String("secrets-dir", ".secrets", "directory of secret files (database-url, classifier-api-key)")
	rootCmd.PersistentFlags().String("log-level", "", "override log.level: debug, info, warn, error")
}

// signalContext cancels on SIGINT or SIGTERM.
func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if os.Getenv("HOAX_INSIGHT_DEBUG") != "" {
			zap.L().Error("command failed", zap.String("trace", eris.ToString(err, true)))
		}
		os.Exit(1)
	}
}
