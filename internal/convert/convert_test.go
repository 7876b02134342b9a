// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/smoking-convert/internal/extract"
	"github.com/pdiddy/smoking-convert/internal/store"
	"github.com/pdiddy/smoking-convert/pkg/types"
)

const twoRecordDoc = `<?xml version="1.0" encoding="UTF-8"?>
<ROOT>
<RECORD ID="1"><TEXT>pt denies smoking</TEXT><SMOKING STATUS="NON-SMOKER"/></RECORD>
<RECORD ID="2"><TEXT>pt smokes 1ppd</TEXT><SMOKING STATUS="CURRENT SMOKER"/></RECORD>
</ROOT>`

// setupInput writes doc under a nested input directory and returns its path
// and a separate, existing output directory.
func setupInput(t *testing.T, name, doc string) (input, outDir string) {
	t.Helper()
	tmpDir := t.TempDir()
	inDir := filepath.Join(tmpDir, "input", "deeply", "nested")
	outDir = filepath.Join(tmpDir, "out")
	require.NoError(t, os.MkdirAll(inDir, 0o755))
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	input = filepath.Join(inDir, name)
	require.NoError(t, os.WriteFile(input, []byte(doc), 0o644))
	return input, outDir
}

func readLines(t *testing.T, path string) []string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines []string
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	require.NoError(t, sc.Err())
	return lines
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		outDir string
		ext    string
		want   string
	}{
		{name: "replaces extension", input: "input/foo.xml", outDir: "output_dir", ext: ".json", want: filepath.Join("output_dir", "foo.json")},
		{name: "ignores input depth", input: "a/b/c/d/foo.xml", outDir: "output_dir", ext: ".jsonl", want: filepath.Join("output_dir", "foo.jsonl")},
		{name: "absolute input", input: "/data/n2c2/foo.xml", outDir: "out", ext: ".db", want: filepath.Join("out", "foo.db")},
		{name: "only last extension", input: "smokers.train.xml", outDir: "out", ext: ".json", want: filepath.Join("out", "smokers.train.json")},
		{name: "no extension", input: "dir/foo", outDir: "out", ext: ".json", want: filepath.Join("out", "foo.json")},
		{name: "dotfile", input: "dir/.xml", outDir: "out", ext: ".json", want: filepath.Join("out", ".xml.json")},
		{name: "current directory", input: "input/foo.xml", outDir: ".", ext: ".json", want: "foo.json"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.input, tt.outDir, tt.ext))
		})
	}
}

func TestConvert_Aggregate(t *testing.T) {
	input, outDir := setupInput(t, "doc.xml", twoRecordDoc)
	var log bytes.Buffer

	out, err := Convert(context.Background(), NewFileSink(AggregateEncoder{}),
		types.ConvertConfig{Input: input, OutputDir: outDir}, &log)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "doc.json"), out)
	assert.Contains(t, log.String(), "converted:")
	assert.Contains(t, log.String(), "(2 records)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.JSONEq(t, `{"text": ["pt denies smoking", "pt smokes 1ppd"], "label": ["NON-SMOKER", "CURRENT SMOKER"], "id": ["1", "2"]}`,
		string(data))
}

func TestConvert_Lines(t *testing.T) {
	input, outDir := setupInput(t, "doc.xml", twoRecordDoc)
	var log bytes.Buffer

	out, err := Convert(context.Background(), NewFileSink(LinesEncoder{}),
		types.ConvertConfig{Input: input, OutputDir: outDir}, &log)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "doc.jsonl"), out)

	lines := readLines(t, out)
	require.Len(t, lines, 2)
	assert.JSONEq(t, `{"text": "pt denies smoking", "label": "NON-SMOKER", "id": "1"}`, lines[0])
	assert.JSONEq(t, `{"text": "pt smokes 1ppd", "label": "CURRENT SMOKER", "id": "2"}`, lines[1])

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(string(data), "}\n"), "every line is newline terminated")
}

func TestConvert_LinesMatchAggregate(t *testing.T) {
	input := filepath.Join("testdata", "smokers_sample.xml")
	outDir := t.TempDir()
	ctx := context.Background()
	cfg := types.ConvertConfig{Input: input, OutputDir: outDir}
	var log bytes.Buffer

	aggPath, err := Convert(ctx, NewFileSink(AggregateEncoder{}), cfg, &log)
	require.NoError(t, err)
	linesPath, err := Convert(ctx, NewFileSink(LinesEncoder{}), cfg, &log)
	require.NoError(t, err)

	data, err := os.ReadFile(aggPath)
	require.NoError(t, err)
	var cols types.Columns
	require.NoError(t, json.Unmarshal(data, &cols))

	const n = 4
	require.Len(t, cols.Text, n)
	require.Len(t, cols.Label, n)
	require.Len(t, cols.ID, n)
	assert.Equal(t, []string{"11", "12", "13", "14"}, cols.ID)
	assert.Equal(t, []string{"CURRENT SMOKER", "NON-SMOKER", "PAST SMOKER", "UNKNOWN"}, cols.Label)

	lines := readLines(t, linesPath)
	require.Len(t, lines, n)
	for i, line := range lines {
		var r types.Record
		require.NoError(t, json.Unmarshal([]byte(line), &r))
		assert.Equal(t, types.Record{Text: cols.Text[i], Label: cols.Label[i], ID: cols.ID[i]}, r, "line %d", i)
	}

	assert.Contains(t, cols.Text[0], "Drinks < 2 beers/week & denies drug use.")
	assert.Contains(t, string(data), "< 2 beers/week & denies", "HTML characters are not escaped")
}

func TestConvert_SQLite(t *testing.T) {
	input, outDir := setupInput(t, "doc.xml", twoRecordDoc)
	var log bytes.Buffer
	ctx := context.Background()

	out, err := Convert(ctx, store.Sink{}, types.ConvertConfig{Input: input, OutputDir: outDir}, &log)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(outDir, "doc.db"), out)

	got, err := ReadFile(ctx, out)
	require.NoError(t, err)
	assert.Equal(t, types.Dataset{
		{Text: "pt denies smoking", Label: "NON-SMOKER", ID: "1"},
		{Text: "pt smokes 1ppd", Label: "CURRENT SMOKER", ID: "2"},
	}, got)
}

func TestConvert_Failures(t *testing.T) {
	sinks := []Sink{
		NewFileSink(AggregateEncoder{}),
		NewFileSink(LinesEncoder{}),
		store.Sink{},
	}

	tests := []struct {
		name    string
		doc     string
		wantIs  error
		wantMsg string
	}{
		{
			name:   "record missing TEXT",
			doc:    `<ROOT><RECORD ID="1"><TEXT>a</TEXT><SMOKING STATUS="X"/></RECORD><RECORD ID="2"><SMOKING STATUS="Y"/></RECORD></ROOT>`,
			wantIs: extract.ErrMissingChild,
		},
		{
			name:   "record missing SMOKING",
			doc:    `<ROOT><RECORD ID="1"><TEXT>a</TEXT></RECORD></ROOT>`,
			wantIs: extract.ErrMissingChild,
		},
		{
			name:    "malformed XML",
			doc:     `<ROOT><RECORD ID="1"><TEXT>a</RECORD></ROOT>`,
			wantMsg: "parsing XML",
		},
	}

	for _, tt := range tests {
		for _, sink := range sinks {
			t.Run(tt.name+sink.Ext(), func(t *testing.T) {
				input, outDir := setupInput(t, "doc.xml", tt.doc)
				var log bytes.Buffer

				_, err := Convert(context.Background(), sink, types.ConvertConfig{Input: input, OutputDir: outDir}, &log)
				require.Error(t, err)
				if tt.wantIs != nil {
					assert.ErrorIs(t, err, tt.wantIs)
				}
				if tt.wantMsg != "" {
					assert.Contains(t, err.Error(), tt.wantMsg)
				}

				entries, err := os.ReadDir(outDir)
				require.NoError(t, err)
				assert.Empty(t, entries, "no output file on failure")
				assert.Empty(t, log.String())
			})
		}
	}
}

func TestConvert_MissingInput(t *testing.T) {
	var log bytes.Buffer
	_, err := Convert(context.Background(), NewFileSink(AggregateEncoder{}),
		types.ConvertConfig{Input: filepath.Join(t.TempDir(), "nope.xml"), OutputDir: t.TempDir()}, &log)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestConvert_EmptyInputPath(t *testing.T) {
	_, err := Convert(context.Background(), NewFileSink(AggregateEncoder{}), types.ConvertConfig{}, &bytes.Buffer{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "input file required")
}

func TestConvert_MissingOutputDir(t *testing.T) {
	input, outDir := setupInput(t, "doc.xml", twoRecordDoc)
	missing := filepath.Join(outDir, "not", "created")
	var log bytes.Buffer

	_, err := Convert(context.Background(), NewFileSink(LinesEncoder{}),
		types.ConvertConfig{Input: input, OutputDir: missing}, &log)
	require.Error(t, err)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.NoDirExists(t, missing)
}

func TestConvert_Overwrites(t *testing.T) {
	input, outDir := setupInput(t, "doc.xml", twoRecordDoc)
	existing := filepath.Join(outDir, "doc.json")
	require.NoError(t, os.WriteFile(existing, []byte("stale"), 0o644))

	_, err := Convert(context.Background(), NewFileSink(AggregateEncoder{}),
		types.ConvertConfig{Input: input, OutputDir: outDir}, &bytes.Buffer{})
	require.NoError(t, err)

	data, err := os.ReadFile(existing)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "stale")
}

func TestConvert_Cancelled(t *testing.T) {
	input, outDir := setupInput(t, "doc.xml", twoRecordDoc)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Convert(ctx, NewFileSink(AggregateEncoder{}), types.ConvertConfig{Input: input, OutputDir: outDir}, &bytes.Buffer{})
	assert.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(outDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
