// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/smoking-convert/internal/convert"
	"github.com/pdiddy/smoking-convert/internal/store"
	"github.com/pdiddy/smoking-convert/pkg/types"
)

var jsonCmd = &cobra.Command{
	Use:   "json",
	Short: "Convert a corpus file to one JSON object of parallel arrays",
	Long: `JSON writes {"text": [...], "label": [...], "id": [...]} to
<input-basename>.json in the output directory. The three arrays are
index-aligned and keep the document order of the RECORD elements.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, types.FormatJSON)
	},
}

var jsonlCmd = &cobra.Command{
	Use:   "jsonl",
	Short: "Convert a corpus file to JSON Lines",
	Long: `JSONL writes one {"text", "label", "id"} object per RECORD, one per
line, to <input-basename>.jsonl in the output directory. See
http://jsonlines.org/ for the format.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, types.FormatJSONL)
	},
}

var sqliteCmd = &cobra.Command{
	Use:   "sqlite",
	Short: "Convert a corpus file to a SQLite database",
	Long: `SQLite writes a records(position, id, text, label) table to
<input-basename>.db in the output directory. An existing database at that
path is replaced.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runConvert(cmd, types.FormatSQLite)
	},
}

func init() {
	for _, c := range []*cobra.Command{jsonCmd, jsonlCmd, sqliteCmd} {
		c.Flags().StringP("input", "i", "", "path to the Smoking Status Challenge XML file (required)")
		c.Flags().StringP("output", "o", "", "directory to write the output file into (default: current directory)")
		c.MarkFlagRequired("input")

		rootCmd.AddCommand(c)
	}
}

// sinkFor returns the sink that writes format.
func sinkFor(format types.Format) (convert.Sink, error) {
	switch format {
	case types.FormatJSON:
		return convert.NewFileSink(convert.AggregateEncoder{}), nil
	case types.FormatJSONL:
		return convert.NewFileSink(convert.LinesEncoder{}), nil
	case types.FormatSQLite:
		return store.Sink{}, nil
	default:
		return nil, fmt.Errorf("unsupported format %q", format)
	}
}

func runConvert(cmd *cobra.Command, format types.Format) error {
	sink, err := sinkFor(format)
	if err != nil {
		return err
	}
	cfg := convertConfig(cmd, format)
	_, err = convert.Convert(cmd.Context(), sink, cfg, cmd.OutOrStdout())
	return err
}

// convertConfig resolves flags against the config file and environment.
// An explicit --output flag wins over the configured default.
func convertConfig(cmd *cobra.Command, format types.Format) types.ConvertConfig {
	input, _ := cmd.Flags().GetString("input")
	output, _ := cmd.Flags().GetString("output")
	if !cmd.Flags().Changed("output") {
		output = viper.GetString(keyOutput)
	}

	return types.ConvertConfig{
		Input:     input,
		OutputDir: output,
		Format:    format,
	}
}
