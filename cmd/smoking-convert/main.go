// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the smoking-convert CLI, which turns
// the n2c2 2006 Smoking Status Challenge XML corpus into JSON, JSON Lines
// or SQLite files.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/smoking-convert/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Config keys. Each can be set in the config file or through the
// SMOKING_CONVERT_ environment prefix (e.g. SMOKING_CONVERT_OUTPUT).
const (
	keyOutput  = "output"
	keyVerbose = "verbose"
)

// rootCmd is the base command for the smoking-convert CLI.
var rootCmd = &cobra.Command{
	Use:   "smoking-convert",
	Short: "Convert the n2c2 2006 Smoking Status corpus into record formats",
	Long: `smoking-convert reads an n2c2 2006 Smoking Status Challenge XML file and
extracts the text, smoking-status label and id of every RECORD.

Each output format is a subcommand: json writes one object of parallel
arrays, jsonl writes one object per line, and sqlite writes a records
table. The output file takes the input's base name with a new extension.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger.SetVerbose(viper.GetBool(keyVerbose))
		if f := viper.ConfigFileUsed(); f != "" {
			logger.Debug("using config file %s", f)
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./smoking-convert.yaml or ~/.config/smoking-convert/config.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "print debug logging to stderr")
	viper.BindPFlag(keyVerbose, rootCmd.PersistentFlags().Lookup("verbose"))
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("smoking-convert")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "smoking-convert"))
		}
	}

	viper.SetEnvPrefix("SMOKING_CONVERT")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			logger.Warn("reading config: %v", err)
		}
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
