// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/smoking-convert/internal/extract"
	"github.com/pdiddy/smoking-convert/internal/store"
	"github.com/pdiddy/smoking-convert/pkg/types"
)

// Encoder serializes a dataset to a byte stream.
type Encoder interface {
	Format() types.Format
	Ext() string
	Encode(w io.Writer, ds types.Dataset) error
}

// AggregateEncoder writes one JSON object of index-aligned arrays:
// {"text": [...], "label": [...], "id": [...]}.
type AggregateEncoder struct{}

func (AggregateEncoder) Format() types.Format { return types.FormatJSON }
func (AggregateEncoder) Ext() string          { return ".json" }

func (AggregateEncoder) Encode(w io.Writer, ds types.Dataset) error {
	return newJSONEncoder(w).Encode(ds.Columns())
}

// LinesEncoder writes one {"text", "label", "id"} object per line.
type LinesEncoder struct{}

func (LinesEncoder) Format() types.Format { return types.FormatJSONL }
func (LinesEncoder) Ext() string          { return ".jsonl" }

func (LinesEncoder) Encode(w io.Writer, ds types.Dataset) error {
	enc := newJSONEncoder(w)
	for i, r := range ds {
		if err := enc.Encode(r); err != nil {
			return fmt.Errorf("encoding record %d (ID %q): %w", i, r.ID, err)
		}
	}
	return nil
}

// newJSONEncoder returns an encoder that leaves <, > and & unescaped so
// clinical text reads the same in the output as in the corpus.
func newJSONEncoder(w io.Writer) *json.Encoder {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return enc
}

// FileSink writes the output of an Encoder to a file.
type FileSink struct {
	Encoder Encoder
}

// NewFileSink returns a Sink that encodes with e.
func NewFileSink(e Encoder) *FileSink {
	return &FileSink{Encoder: e}
}

func (s *FileSink) Ext() string { return s.Encoder.Ext() }

// Write encodes ds in full, then replaces path atomically.
func (s *FileSink) Write(ctx context.Context, path string, ds types.Dataset) error {
	var buf bytes.Buffer
	if err := s.Encoder.Encode(&buf, ds); err != nil {
		return fmt.Errorf("encoding %s: %w", s.Encoder.Format(), err)
	}
	return WriteFileAtomic(ctx, path, buf.Bytes(), 0o644)
}

// DecodeAggregate reads a document written by AggregateEncoder.
func DecodeAggregate(r io.Reader) (types.Dataset, error) {
	var c types.Columns
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, fmt.Errorf("decoding aggregate JSON: %w", err)
	}
	if len(c.Text) != len(c.Label) || len(c.Text) != len(c.ID) {
		return nil, fmt.Errorf("decoding aggregate JSON: column lengths differ (text %d, label %d, id %d)",
			len(c.Text), len(c.Label), len(c.ID))
	}
	return c.Records(), nil
}

// DecodeLines reads a document written by LinesEncoder.
func DecodeLines(r io.Reader) (types.Dataset, error) {
	dec := json.NewDecoder(r)
	ds := types.Dataset{}
	for dec.More() {
		var rec types.Record
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("decoding JSON line %d: %w", len(ds)+1, err)
		}
		ds = append(ds, rec)
	}
	return ds, nil
}

// ReadFile loads a dataset from a corpus XML file or from a previously
// converted .json, .jsonl or .db file, chosen by extension.
func ReadFile(ctx context.Context, path string) (types.Dataset, error) {
	var decode func(io.Reader) (types.Dataset, error)
	switch filepath.Ext(path) {
	case ".json":
		decode = DecodeAggregate
	case ".jsonl":
		decode = DecodeLines
	case store.Ext:
		return store.ReadFile(ctx, path)
	default:
		return extract.File(path)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	ds, err := decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

var errEmptyPath = errors.New("empty output path")

// WriteFileAtomic writes data to a temp file beside path and renames it into
// place. The parent directory must exist. On failure the temp file is
// removed and path is left untouched.
func WriteFileAtomic(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	if path == "" {
		return errEmptyPath
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".tmp-"+filepath.Base(path)+"-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return err
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return nil
}
