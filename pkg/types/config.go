// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Format identifies an output format for a converted corpus file.
type Format string

const (
	FormatJSON   Format = "json"
	FormatJSONL  Format = "jsonl"
	FormatSQLite Format = "sqlite"
)

// StatsFormat selects how the stats command prints a summary.
type StatsFormat string

const (
	StatsTable StatsFormat = "table"
	StatsYAML  StatsFormat = "yaml"
	StatsJSON  StatsFormat = "json"
)

// ConvertConfig holds the settings for a single conversion run.
type ConvertConfig struct {
	// Input is the path to the source corpus XML file.
	Input string `json:"input" yaml:"input"`

	// OutputDir is the directory the output file is written into
	// (default "."). It must already exist.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Format selects the serializer.
	Format Format `json:"format" yaml:"format"`
}

// DefaultOutputDir is used when no output directory is configured.
const DefaultOutputDir = "."

// OutputDirOrDefault returns OutputDir, or DefaultOutputDir when unset.
func (c ConvertConfig) OutputDirOrDefault() string {
	if c.OutputDir == "" {
		return DefaultOutputDir
	}
	return c.OutputDir
}
