// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns a Smoking Status corpus XML file into a record
// oriented output file. Loading and extraction are shared; the output format
// is chosen by the Sink passed to Convert.
package convert

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/pdiddy/smoking-convert/internal/extract"
	"github.com/pdiddy/smoking-convert/internal/logger"
	"github.com/pdiddy/smoking-convert/pkg/types"
)

// Sink persists a dataset at a path. File-based encoders and the SQLite
// store implement it.
type Sink interface {
	// Ext returns the output file extension, including the dot.
	Ext() string

	// Write stores ds at path, replacing any existing file. Implementations
	// must not leave a partial file at path on failure.
	Write(ctx context.Context, path string, ds types.Dataset) error
}

// OutputPath derives the output file path for input: the base name of input
// with its last extension replaced by ext, joined with outDir. Names without
// an extension (including dotfiles such as ".xml") get ext appended.
func OutputPath(input, outDir, ext string) string {
	base := filepath.Base(input)
	stem := base
	if e := filepath.Ext(base); e != "" && e != "." && e != base {
		stem = strings.TrimSuffix(base, e)
	}
	return filepath.Join(outDir, stem+ext)
}

// Convert loads cfg.Input, extracts its records and writes them through s
// into cfg.OutputDir. It returns the path written. Nothing is written when
// loading or extraction fails. A status line is printed to w on success.
func Convert(ctx context.Context, s Sink, cfg types.ConvertConfig, w io.Writer) (string, error) {
	if cfg.Input == "" {
		return "", fmt.Errorf("input file required")
	}

	ds, err := extract.File(cfg.Input)
	if err != nil {
		return "", err
	}

	if err := ctx.Err(); err != nil {
		return "", err
	}

	out := OutputPath(cfg.Input, cfg.OutputDirOrDefault(), s.Ext())
	logger.Debug("writing %d records to %s", len(ds), out)

	if err := s.Write(ctx, out, ds); err != nil {
		return "", fmt.Errorf("writing %s: %w", out, err)
	}

	fmt.Fprintf(w, "converted: %s -> %s (%d records)\n", cfg.Input, out, len(ds))
	return out, nil
}
