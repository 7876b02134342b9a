// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// Record is one clinical document from the Smoking Status corpus.
// Field order matches the output objects: text, label, id.
type Record struct {
	// Text is the document body, copied verbatim from the TEXT element.
	Text string `json:"text" yaml:"text"`

	// Label is the smoking-status category from SMOKING/@STATUS
	// (e.g. "NON-SMOKER", "CURRENT SMOKER").
	Label string `json:"label" yaml:"label"`

	// ID is the RECORD/@ID attribute.
	ID string `json:"id" yaml:"id"`
}

// Dataset is an ordered sequence of records in source document order.
type Dataset []Record

// Columns is the aggregate form of a Dataset: three index-aligned arrays
// where Text[i], Label[i] and ID[i] describe the same record.
type Columns struct {
	Text  []string `json:"text" yaml:"text"`
	Label []string `json:"label" yaml:"label"`
	ID    []string `json:"id" yaml:"id"`
}

// Len returns the number of records.
func (d Dataset) Len() int { return len(d) }

// Columns splits the dataset into parallel arrays. The arrays are never nil,
// so an empty dataset encodes as empty JSON arrays rather than null.
func (d Dataset) Columns() Columns {
	c := Columns{
		Text:  make([]string, 0, len(d)),
		Label: make([]string, 0, len(d)),
		ID:    make([]string, 0, len(d)),
	}
	for _, r := range d {
		c.Text = append(c.Text, r.Text)
		c.Label = append(c.Label, r.Label)
		c.ID = append(c.ID, r.ID)
	}
	return c
}

// Records rebuilds a Dataset from its aggregate form. Columns of unequal
// length are truncated to the shortest.
func (c Columns) Records() Dataset {
	n := min(len(c.Text), len(c.Label), len(c.ID))
	d := make(Dataset, n)
	for i := 0; i < n; i++ {
		d[i] = Record{Text: c.Text[i], Label: c.Label[i], ID: c.ID[i]}
	}
	return d
}
