// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/spf13/cobra"

	"github.com/pdiddy/smoking-convert/internal/convert"
	"github.com/pdiddy/smoking-convert/internal/stats"
	"github.com/pdiddy/smoking-convert/pkg/types"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Print the label distribution of a corpus file",
	Long: `Stats counts records per smoking-status label. The input may be a
corpus XML file or a file previously written by the json, jsonl or sqlite
commands; the reader is chosen by extension.`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringP("input", "i", "", "corpus XML, .json, .jsonl or .db file (required)")
	statsCmd.Flags().String("format", "table", "output format: table, yaml or json")
	statsCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	input, _ := cmd.Flags().GetString("input")
	format, _ := cmd.Flags().GetString("format")

	ds, err := convert.ReadFile(cmd.Context(), input)
	if err != nil {
		return err
	}
	return stats.Write(cmd.OutOrStdout(), stats.Summarize(input, ds), types.StatsFormat(format))
}
