package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/hoax-insight/internal/classify"
)

var classifyCmd = &cobra.Command{
	Use:   "classify [message...]",
	Short: "Classify messages with the external hoax classifier",
	Long: `Classify sends messages to the classification service configured under
classifier.endpoint and prints the verdict and confidence for each. With
arguments the whole argument list is one message; otherwise each non-empty
line of stdin is classified as a separate message.`,
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	ctx, stop := signalContext(cmd)
	defer stop()

	client, err := classify.New(cfg.Classifier)
	if err != nil {
		return err
	}

	messages := []string{strings.Join(args, " ")}
	if len(args) == 0 {
		messages, err = readLines(cmd.InOrStdin())
		if err != nil {
			return err
		}
	}

	results, err := client.ClassifyBatch(ctx, messages)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	fmt.Fprintf(out, "%-12s  %-10s  %s\n", "Category", "Confidence", "Message")
	fmt.Fprintln(out, strings.Repeat("-", 80))
	for i, r := range results {
		fmt.Fprintf(out, "%-12s  %-10.2f  %s\n", r.Category, r.Confidence, truncate(messages[i], 54))
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			lines = append(lines, line)
		}
	}
	return lines, sc.Err()
}

func init() {
	classifyCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(classifyCmd)
}
