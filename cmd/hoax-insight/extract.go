package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/pdiddy/hoax-insight/internal/dates"
	"github.com/pdiddy/hoax-insight/internal/location"
)

var extractCmd = &cobra.Command{
	Use:   "extract [text...]",
	Short: "Extract dates and locations from a piece of text",
	Long: `Extract runs the date and location pipelines on text given as
arguments, read from --file, or piped on stdin, and prints every date and
location found together with the relevant date, location and province.`,
	RunE: runExtract,
}

// extraction is the output of one extract run.
type extraction struct {
	AllDates         []string `json:"all_dates"`
	RelevantDate     string   `json:"relevant_date,omitempty"`
	AllLocations     []string `json:"all_locations"`
	RelevantLocation string   `json:"relevant_location,omitempty"`
	RelevantProvince string   `json:"relevant_province,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	text, err := extractInput(cmd, args)
	if err != nil {
		return err
	}

	d := dates.New(cfg.Dates)
	l, err := location.NewFromConfig(cfg.Locations)
	if err != nil {
		return err
	}

	out := extraction{
		AllDates:     d.AllDates(text),
		AllLocations: l.AllLocations(text),
	}
	out.RelevantDate, _ = d.RelevantDate(text)
	out.RelevantLocation, _ = l.RelevantLocation(text)
	out.RelevantProvince, _ = l.RelevantProvince(text)

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatExtraction(cmd.OutOrStdout(), out, jsonOutput)
}

func extractInput(cmd *cobra.Command, args []string) (string, error) {
	path, _ := cmd.Flags().GetString("file")
	switch {
	case path != "":
		data, err := os.ReadFile(path)
		if err != nil {
			return "", eris.Wrapf(err, "reading %s", path)
		}
		return string(data), nil
	case len(args) > 0:
		return strings.Join(args, " "), nil
	default:
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return "", eris.Wrap(err, "reading stdin")
		}
		return string(data), nil
	}
}

func formatExtraction(w io.Writer, e extraction, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(e)
	}

	row := func(label, value string) {
		if value == "" {
			value = "-"
		}
		fmt.Fprintf(w, "%-18s  %s\n", label, value)
	}
	row("All dates", strings.Join(e.AllDates, ", "))
	row("Relevant date", e.RelevantDate)
	row("All locations", strings.Join(e.AllLocations, ", "))
	row("Relevant location", e.RelevantLocation)
	row("Relevant province", e.RelevantProvince)
	return nil
}

func init() {
	extractCmd.Flags().String("file", "", "read text from a file instead of arguments")
	extractCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(extractCmd)
}
