// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/hoax-insight/internal/dates"
	"github.com/pdiddy/hoax-insight/internal/enrich"
	"github.com/pdiddy/hoax-insight/internal/location"
	"github.com/pdiddy/hoax-insight/internal/source"
	"github.com/pdiddy/hoax-insight/internal/store"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich",
	Short: "Enrich source articles and save them to the local index",
	Long: `Enrich loads articles from the configured source, derives the relevant
date, location and province of each, and upserts the results into the
SQLite index under <store-dir>/index/. Articles whose text is unchanged since
the last run are skipped unless --force is given.`,
	RunE: runEnrich,
}

func runEnrich(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	force, _ := cmd.Flags().GetBool("force")
	enrichCfg := cfg.Enrich
	if cmd.Flags().Changed("workers") {
		enrichCfg.Workers, _ = cmd.Flags().GetInt("workers")
	}
	if cmd.Flags().Changed("text-field") {
		field, _ := cmd.Flags().GetString("text-field")
		enrichCfg.TextField = types.TextField(field)
	}

	src, err := source.New(ctx, sourceConfig(cmd))
	if err != nil {
		return err
	}
	defer src.Close()

	articles, err := src.Articles(ctx)
	if err != nil {
		return err
	}

	st, err := store.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	locations, err := location.NewFromConfig(cfg.Locations)
	if err != nil {
		return err
	}
	en := enrich.New(dates.New(cfg.Dates), locations, enrichCfg)

	pending := articles
	if !force {
		stored, err := st.Hashes(ctx)
		if err != nil {
			return err
		}
		pending = en.Pending(articles, stored)
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%d article(s) loaded, %d to enrich\n", len(articles), len(pending))
	if len(pending) == 0 {
		return nil
	}

	enriched, err := en.EnrichAll(ctx, pending)
	if err != nil {
		return err
	}

	summary, err := st.Save(ctx, enriched, force, out)
	if err != nil {
		return err
	}
	zap.L().Info("enrich finished",
		zap.Int("indexed", summary.Indexed),
		zap.Int("updated", summary.Updated),
		zap.Int("skipped", summary.Skipped),
		zap.Int("failed", summary.Failed),
	)
	if summary.Failed > 0 {
		return fmt.Errorf("%d article(s) failed to save", summary.Failed)
	}
	return nil
}

// sourceConfig applies source flag overrides to the loaded config.
func sourceConfig(cmd *cobra.Command) types.SourceConfig {
	sc := cfg.Source
	if cmd.Flags().Changed("source") {
		driver, _ := cmd.Flags().GetString("source")
		sc.Driver = types.SourceDriver(driver)
	}
	if path, _ := cmd.Flags().GetString("source-path"); path != "" {
		sc.Path = path
		if !cmd.Flags().Changed("source") {
			sc.Driver = types.SourceFile
		}
	}
	return sc
}

func addSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("source", "", "article source driver: postgres or file (default from config)")
	cmd.Flags().String("source-path", "", "YAML or JSON article file; implies --source file")
}

func init() {
	enrichCmd.Flags().Bool("force", false, "re-enrich and overwrite articles even when unchanged")
	enrichCmd.Flags().Int("workers", 0, "number of concurrent workers (default from config, else CPU count)")
	enrichCmd.Flags().String("text-field", "", "text to analyse: content or title_content")
	addSourceFlags(enrichCmd)
	addStoreFlags(enrichCmd)

	rootCmd.AddCommand(enrichCmd)
}
