// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns parsed Smoking Status corpus documents into records.
// Each RECORD element contributes its ID attribute, the body of its first
// TEXT child and the STATUS attribute of its first SMOKING child.
package extract

import (
	"errors"
	"fmt"

	"github.com/pdiddy/smoking-convert/internal/logger"
	"github.com/pdiddy/smoking-convert/internal/xmltree"
	"github.com/pdiddy/smoking-convert/pkg/types"
)

// Element and attribute names of the corpus schema.
const (
	elemText    = "TEXT"
	elemSmoking = "SMOKING"
	attrID      = "ID"
	attrStatus  = "STATUS"
)

// ErrMissingChild is matched by every SchemaError.
var ErrMissingChild = errors.New("missing required child")

// SchemaError reports a RECORD that lacks a required child element.
type SchemaError struct {
	// Index is the zero-based position of the record in the document.
	Index int
	// ID is the record's ID attribute, if it has one.
	ID string
	// Missing names the absent child element.
	Missing string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("record %d (ID %q): %s <%s>", e.Index, e.ID, ErrMissingChild, e.Missing)
}

func (e *SchemaError) Is(target error) bool { return target == ErrMissingChild }

// Record extracts a single record from a RECORD element at position index.
// Absent ID or STATUS attributes yield empty strings; labels and ids are
// not validated.
func Record(index int, n *xmltree.Node) (types.Record, error) {
	id, _ := n.Attr(attrID)

	text, ok := n.FirstChild(elemText)
	if !ok {
		return types.Record{}, &SchemaError{Index: index, ID: id, Missing: elemText}
	}
	smoking, ok := n.FirstChild(elemSmoking)
	if !ok {
		return types.Record{}, &SchemaError{Index: index, ID: id, Missing: elemSmoking}
	}
	label, _ := smoking.Attr(attrStatus)

	return types.Record{Text: text.Text, Label: label, ID: id}, nil
}

// Records extracts every element in order. The first schema violation
// aborts extraction.
func Records(nodes []*xmltree.Node) (types.Dataset, error) {
	ds := make(types.Dataset, 0, len(nodes))
	for i, n := range nodes {
		r, err := Record(i, n)
		if err != nil {
			return nil, err
		}
		ds = append(ds, r)
	}
	return ds, nil
}

// File loads the corpus file at path and extracts its records.
func File(path string) (types.Dataset, error) {
	root, err := xmltree.Load(path)
	if err != nil {
		return nil, err
	}
	nodes := xmltree.Records(root)
	logger.Debug("%s: %d RECORD elements under <%s>", path, len(nodes), root.Name)

	ds, err := Records(nodes)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", path, err)
	}
	return ds, nil
}
