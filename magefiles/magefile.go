//go:build mage

// Package main contains Mage build targets for smoking-convert developer tooling.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const (
	binDir  = "bin"
	binName = "smoking-convert"
	cmdPkg  = "./cmd/smoking-convert"

	// corpusDir holds the challenge XML files; convertedDir receives output.
	corpusDir    = "data"
	convertedDir = "data/converted"
)

// binPath is the path of the built CLI binary.
var binPath = filepath.Join(binDir, binName)

// Build compiles the CLI binary into bin/.
func Build() error {
	if err := os.MkdirAll(binDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", binDir, err)
	}
	version, err := sh.Output("git", "describe", "--tags", "--always", "--dirty")
	if err != nil {
		version = "dev"
	}
	ldflags := "-X main.version=" + strings.TrimSpace(version)
	if err := sh.RunV("go", "build", "-ldflags", ldflags, "-o", binPath, cmdPkg); err != nil {
		return fmt.Errorf("go build: %w", err)
	}
	fmt.Printf("Built %s\n", binPath)
	return nil
}

// Test runs the unit tests.
func Test() error {
	return sh.RunV("go", "test", "./...")
}

// Convert runs every output format over each corpus XML file in data/,
// writing results to data/converted/.
func Convert() error {
	mg.Deps(Build)

	files, err := filepath.Glob(filepath.Join(corpusDir, "*.xml"))
	if err != nil {
		return err
	}
	if len(files) == 0 {
		fmt.Printf("No .xml files found in %s\n", corpusDir)
		return nil
	}
	if err := os.MkdirAll(convertedDir, 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", convertedDir, err)
	}

	for _, f := range files {
		for _, format := range []string{"json", "jsonl", "sqlite"} {
			if err := sh.RunV(binPath, format, "-i", f, "-o", convertedDir); err != nil {
				return fmt.Errorf("%s %s: %w", format, f, err)
			}
		}
	}
	return nil
}

// Stats prints the label distribution of each corpus XML file in data/.
func Stats() error {
	mg.Deps(Build)

	files, err := filepath.Glob(filepath.Join(corpusDir, "*.xml"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := sh.RunV(binPath, "stats", "-i", f); err != nil {
			return err
		}
		fmt.Println()
	}
	return nil
}

// Clean removes build output and converted files.
func Clean() error {
	for _, dir := range []string{binDir, convertedDir} {
		if err := sh.Rm(dir); err != nil {
			return err
		}
	}
	return nil
}
