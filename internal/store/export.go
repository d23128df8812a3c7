// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"go.yaml.in/yaml/v3"
)

// ExportEntry is the exported view of an enriched article. Article bodies
// are left out.
type ExportEntry struct {
	ID               int64    `json:"id" yaml:"id"`
	Title            string   `json:"title" yaml:"title"`
	SourceURL        string   `json:"source_url,omitempty" yaml:"source_url,omitempty"`
	RelevantDate     string   `json:"relevant_date,omitempty" yaml:"relevant_date,omitempty"`
	RelevantLocation string   `json:"relevant_location,omitempty" yaml:"relevant_location,omitempty"`
	RelevantProvince string   `json:"relevant_province,omitempty" yaml:"relevant_province,omitempty"`
	Categories       []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Classifications  []string `json:"classifications,omitempty" yaml:"classifications,omitempty"`
	TruthCategory    string   `json:"truth_category" yaml:"truth_category"`
	AllDates         []string `json:"all_dates,omitempty" yaml:"all_dates,omitempty"`
	AllLocations     []string `json:"all_locations,omitempty" yaml:"all_locations,omitempty"`
}

const exportLimit = 1_000_000

// ExportYAML writes matching articles to <dir>/index/export.yaml and
// returns the file path. It takes the same filters as Retrieve.
func (s *Store) ExportYAML(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return "", eris.Wrap(err, "store: marshaling YAML")
	}
	return s.writeExport("export.yaml", data)
}

// ExportJSON writes matching articles to <dir>/index/export.json and
// returns the file path.
func (s *Store) ExportJSON(ctx context.Context, opts QueryOptions) (string, error) {
	entries, err := s.exportEntries(ctx, opts)
	if err != nil {
		return "", err
	}

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return "", eris.Wrap(err, "store: marshaling JSON")
	}
	return s.writeExport("export.json", data)
}

func (s *Store) writeExport(name string, data []byte) (string, error) {
	path := filepath.Join(s.dir, indexDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", eris.Wrapf(err, "store: writing %s", name)
	}
	return path, nil
}

func (s *Store) exportEntries(ctx context.Context, opts QueryOptions) ([]ExportEntry, error) {
	opts.MaxResults = exportLimit
	results, err := s.Retrieve(ctx, opts)
	if err != nil {
		return nil, eris.Wrap(err, "store: querying for export")
	}

	entries := make([]ExportEntry, len(results))
	for i, r := range results {
		entries[i] = ExportEntry{
			ID:               r.ID,
			Title:            r.Title,
			SourceURL:        r.SourceURL,
			RelevantDate:     r.RelevantDate,
			RelevantLocation: r.RelevantLocation,
			RelevantProvince: r.RelevantProvince,
			Categories:       r.Categories,
			Classifications:  r.Classifications,
			TruthCategory:    r.TruthCategory(),
			AllDates:         r.AllDates,
			AllLocations:     r.AllLocations,
		}
	}
	return entries, nil
}
