// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hoax-insight/internal/store"
	"github.com/pdiddy/hoax-insight/pkg/types"
)

var articlesCmd = &cobra.Command{
	Use:   "articles",
	Short: "Query the enriched article index (retrieve, stats, export)",
	Long: `Articles reads the local SQLite index written by enrich. Use subcommands
to search it, summarise it, or export it.`,
}

// --- retrieve subcommand ---

var articlesRetrieveCmd = &cobra.Command{
	Use:   "retrieve [query]",
	Short: "Search enriched articles with full-text search and filters",
	Long: `Retrieve searches article titles and content with full-text search,
structured filters (province, category, classification, relevant-date
range), or a combination of both. Results are ordered by relevant date,
newest first.`,
	RunE: runArticlesRetrieve,
}

func runArticlesRetrieve(cmd *cobra.Command, args []string) error {
	st, err := store.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	opts := queryOptsFromFlags(cmd, args)
	results, err := st.Retrieve(cmd.Context(), opts)
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatRetrieveOutput(cmd.OutOrStdout(), results, opts.IsEmpty(), jsonOutput)
}

// formatRetrieveOutput prints results. unfiltered marks a query with no
// search terms or filters, whose empty result means an empty index.
func formatRetrieveOutput(w io.Writer, results []types.EnrichedArticle, unfiltered, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		if unfiltered {
			fmt.Fprintln(w, "The index is empty. Run enrich first.")
		} else {
			fmt.Fprintln(w, "No results found.")
		}
		return nil
	}

	fmt.Fprintf(w, "%-8s  %-10s  %-18s  %-20s  %s\n",
		"ID", "Date", "Location", "Province", "Title")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for _, r := range results {
		fmt.Fprintf(w, "%-8d  %-10s  %-18s  %-20s  %s\n",
			r.ID, dash(r.RelevantDate), truncate(dash(r.RelevantLocation), 18),
			truncate(dash(r.RelevantProvince), 20), truncate(r.Title, 50))
	}

	fmt.Fprintf(w, "\n%d results\n", len(results))
	return nil
}

// --- stats subcommand ---

var articlesStatsCmd = &cobra.Command{
	Use:   "stats [query]",
	Short: "Summarise enriched articles by province, month and label",
	Long: `Stats reports how many articles matched, how many have a relevant date
and location, the relevant-date range, and counts by province, month,
classification and category. It takes the same filters as retrieve.`,
	RunE: runArticlesStats,
}

func runArticlesStats(cmd *cobra.Command, args []string) error {
	st, err := store.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	stats, err := st.Stats(cmd.Context(), queryOptsFromFlags(cmd, args))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatStatsOutput(cmd.OutOrStdout(), stats, jsonOutput)
}

func formatStatsOutput(w io.Writer, s store.Stats, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	}

	fmt.Fprintf(w, "Articles:       %d\n", s.Total)
	fmt.Fprintf(w, "With date:      %d (%s)\n", s.WithDate, percent(s.WithDate, s.Total))
	fmt.Fprintf(w, "With location:  %d (%s)\n", s.WithLocation, percent(s.WithLocation, s.Total))
	fmt.Fprintf(w, "Sources:        %d\n", s.UniqueSources)
	fmt.Fprintf(w, "References:     %d\n", s.TotalReferences)
	fmt.Fprintf(w, "Per day:        %.2f\n", s.AvgPerDay)
	if s.Earliest != "" {
		fmt.Fprintf(w, "Date range:     %s .. %s\n", s.Earliest, s.Latest)
	}

	groups := []struct {
		title  string
		counts []store.Count
	}{
		{"By province", s.ByProvince},
		{"By month", s.ByMonth},
		{"By classification", s.ByClassification},
		{"By category", s.ByCategory},
		{"By truth category", s.ByTruthCategory},
	}
	for _, g := range groups {
		if len(g.counts) == 0 {
			continue
		}
		fmt.Fprintf(w, "\n%s\n", g.title)
		for _, c := range g.counts {
			fmt.Fprintf(w, "  %-30s  %d\n", truncate(c.Key, 30), c.Count)
		}
	}

	if s.Total > 0 && len(s.Completeness) > 0 {
		fmt.Fprintf(w, "\nCompleteness\n")
		for _, c := range s.Completeness {
			fmt.Fprintf(w, "  %-30s  %d (%s)\n", c.Key, c.Count, percent(c.Count, s.Total))
		}
	}
	return nil
}

// --- export subcommand ---

var articlesExportCmd = &cobra.Command{
	Use:   "export [query]",
	Short: "Export enriched articles to YAML or JSON",
	Long: `Export writes the index (or a filtered subset) to
<store-dir>/index/export.yaml or export.json. Supports the same filter
flags as retrieve for partial exports.`,
	RunE: runArticlesExport,
}

func runArticlesExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	st, err := store.Open(storeConfig(cmd))
	if err != nil {
		return err
	}
	defer st.Close()

	opts := queryOptsFromFlags(cmd, args)

	var path string
	switch format {
	case "yaml", "":
		path, err = st.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = st.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported to %s\n", path)
	return nil
}

// --- shared helpers ---

// storeConfig applies store flag overrides to the loaded config.
func storeConfig(cmd *cobra.Command) types.StoreConfig {
	sc := cfg.Store
	if cmd.Flags().Changed("store-dir") {
		sc.Dir, _ = cmd.Flags().GetString("store-dir")
	}
	if cmd.Flags().Changed("max-results") {
		sc.MaxResults, _ = cmd.Flags().GetInt("max-results")
	}
	return sc
}

func addStoreFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().String("store-dir", "", "base directory for the index (contains index/); default from config")
	cmd.PersistentFlags().Int("max-results", 20, "default maximum number of query results")
}

func queryOptsFromFlags(cmd *cobra.Command, args []string) store.QueryOptions {
	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) > 0 {
		queryText = strings.Join(args, " ")
	}

	province, _ := cmd.Flags().GetString("province")
	category, _ := cmd.Flags().GetString("category")
	classification, _ := cmd.Flags().GetString("classification")
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	undated, _ := cmd.Flags().GetBool("undated")
	limit, _ := cmd.Flags().GetInt("limit")

	return store.QueryOptions{
		Query:          queryText,
		Province:       province,
		Category:       category,
		Classification: classification,
		From:           from,
		To:             to,
		IncludeUndated: undated,
		MaxResults:     limit,
	}
}

func addFilterFlags(cmd *cobra.Command) {
	cmd.Flags().String("query", "", "full-text search query over title and content")
	cmd.Flags().String("province", "", "filter by relevant province, e.g. \"Jawa Timur\"")
	cmd.Flags().String("category", "", "filter by category")
	cmd.Flags().String("classification", "", "filter by classification")
	cmd.Flags().String("from", "", "earliest relevant date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "latest relevant date (YYYY-MM-DD)")
	cmd.Flags().Bool("undated", false, "keep articles without a relevant date when --from or --to is set")
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func percent(n, total int) string {
	if total == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.0f%%", 100*float64(n)/float64(total))
}

func init() {
	// Shared flags on the parent command, inherited by subcommands.
	addStoreFlags(articlesCmd)

	// Retrieve flags.
	addFilterFlags(articlesRetrieveCmd)
	articlesRetrieveCmd.Flags().Int("limit", 0, "maximum results (0 = use default)")
	articlesRetrieveCmd.Flags().Bool("json", false, "output results as JSON")

	// Stats flags.
	addFilterFlags(articlesStatsCmd)
	articlesStatsCmd.Flags().Bool("json", false, "output statistics as JSON")

	// Export flags.
	addFilterFlags(articlesExportCmd)
	articlesExportCmd.Flags().String("format", "yaml", "export format: yaml or json")

	// Wire subcommands.
	articlesCmd.AddCommand(articlesRetrieveCmd)
	articlesCmd.AddCommand(articlesStatsCmd)
	articlesCmd.AddCommand(articlesExportCmd)

	rootCmd.AddCommand(articlesCmd)
}
