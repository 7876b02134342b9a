// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stats summarizes the label distribution of a corpus.
package stats

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/smoking-convert/pkg/types"
)

// LabelCount is the number of records carrying one label.
type LabelCount struct {
	Label string  `json:"label" yaml:"label"`
	Count int     `json:"count" yaml:"count"`
	Share float64 `json:"share" yaml:"share"`
}

// Summary describes one corpus file.
type Summary struct {
	Source      string       `json:"source,omitempty" yaml:"source,omitempty"`
	Records     int          `json:"records" yaml:"records"`
	DistinctIDs int          `json:"distinct_ids" yaml:"distinct_ids"`
	Labels      []LabelCount `json:"labels" yaml:"labels"`
}

// Summarize counts records per label. Labels are ordered by descending
// count, ties broken by name.
func Summarize(source string, ds types.Dataset) Summary {
	counts := make(map[string]int)
	ids := make(map[string]struct{}, len(ds))
	for _, r := range ds {
		counts[r.Label]++
		ids[r.ID] = struct{}{}
	}

	labels := make([]LabelCount, 0, len(counts))
	for label, n := range counts {
		labels = append(labels, LabelCount{
			Label: label,
			Count: n,
			Share: float64(n) / float64(len(ds)),
		})
	}
	sort.Slice(labels, func(i, j int) bool {
		if labels[i].Count != labels[j].Count {
			return labels[i].Count > labels[j].Count
		}
		return labels[i].Label < labels[j].Label
	})

	return Summary{
		Source:      source,
		Records:     len(ds),
		DistinctIDs: len(ids),
		Labels:      labels,
	}
}

// Write prints s in the given format.
func Write(w io.Writer, s Summary, format types.StatsFormat) error {
	switch format {
	case types.StatsTable, "":
		return writeTable(w, s)
	case types.StatsYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(s); err != nil {
			return fmt.Errorf("marshaling YAML: %w", err)
		}
		return enc.Close()
	case types.StatsJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(s)
	default:
		return fmt.Errorf("unsupported format %q: use table, yaml or json", format)
	}
}

func writeTable(w io.Writer, s Summary) error {
	if s.Source != "" {
		fmt.Fprintf(w, "%s\n\n", s.Source)
	}
	fmt.Fprintf(w, "%-20s  %6s  %6s\n", "Label", "Count", "Share")
	fmt.Fprintln(w, strings.Repeat("-", 36))
	for _, l := range s.Labels {
		label := l.Label
		if label == "" {
			label = "(none)"
		}
		fmt.Fprintf(w, "%-20s  %6d  %5.1f%%\n", label, l.Count, l.Share*100)
	}
	_, err := fmt.Fprintf(w, "\n%d records, %d distinct ids\n", s.Records, s.DistinctIDs)
	return err
}
