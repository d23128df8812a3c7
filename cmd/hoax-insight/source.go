package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hoax-insight/internal/source"
)

var sourceCmd = &cobra.Command{
	Use:   "source",
	Short: "Inspect the article source",
}

var sourceCheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that the article source is reachable and holds articles",
	Long: `Check connects to the configured source and counts its articles. The
status is healthy, empty, or error. The command fails on error.`,
	RunE: runSourceCheck,
}

func runSourceCheck(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	var health source.Health
	src, err := source.New(ctx, sourceConfig(cmd))
	if err != nil {
		health = source.Health{Status: source.StatusError, Message: err.Error()}
	} else {
		defer src.Close()
		health = src.Check(ctx)
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(health); err != nil {
			return err
		}
	} else {
		fmt.Fprintf(out, "Status:    %s\n", health.Status)
		fmt.Fprintf(out, "Articles:  %d\n", health.Articles)
		fmt.Fprintf(out, "Message:   %s\n", health.Message)
	}

	if health.Status == source.StatusError {
		return fmt.Errorf("source check failed")
	}
	return nil
}

func init() {
	addSourceFlags(sourceCheckCmd)
	sourceCheckCmd.Flags().Bool("json", false, "output as JSON")

	sourceCmd.AddCommand(sourceCheckCmd)
	rootCmd.AddCommand(sourceCmd)
}
