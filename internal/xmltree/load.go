// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package xmltree

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// MaxDepth bounds element nesting. Corpus files are three levels deep.
const MaxDepth = 256

var (
	// ErrEntitiesForbidden is returned when a DOCTYPE declares entities.
	ErrEntitiesForbidden = errors.New("entity declarations are forbidden")

	// ErrTooDeep is returned when nesting exceeds MaxDepth.
	ErrTooDeep = errors.New("element nesting too deep")
)

// ParseError reports a document that is not well-formed or that uses a
// forbidden construct.
type ParseError struct {
	// Path is the file being parsed; empty when parsing a reader.
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Path == "" {
		return "parsing XML: " + e.Err.Error()
	}
	return fmt.Sprintf("parsing XML %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Load opens path and parses it. A missing file returns the underlying
// os error (errors.Is(err, fs.ErrNotExist) holds); content errors are
// returned as *ParseError.
func Load(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}
		return nil, err
	}
	return root, nil
}

// Parse reads a complete XML document from r and returns its root element.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true
	// No Entity map and no CharsetReader: only the five predefined entities
	// are understood, and nothing outside r is ever read.

	var (
		root  *Node
		stack []*Node
		// sawChild marks, per open element, whether a child element has
		// started; text after that point is tail text and is dropped.
		sawChild []bool
	)

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &ParseError{Err: err}
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if len(stack) == 0 && root != nil {
				return nil, &ParseError{Err: fmt.Errorf("unexpected element <%s> after document root", t.Name.Local)}
			}
			if len(stack) >= MaxDepth {
				return nil, &ParseError{Err: ErrTooDeep}
			}
			n := &Node{Name: t.Name.Local}
			for _, a := range t.Attr {
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
				sawChild[len(sawChild)-1] = true
			}
			stack = append(stack, n)
			sawChild = append(sawChild, false)

		case xml.EndElement:
			stack = stack[:len(stack)-1]
			sawChild = sawChild[:len(sawChild)-1]

		case xml.CharData:
			if len(stack) == 0 || sawChild[len(sawChild)-1] {
				continue
			}
			top := stack[len(stack)-1]
			top.Text += string(t)

		case xml.Directive:
			if isEntityDeclaration(t) {
				return nil, &ParseError{Err: ErrEntitiesForbidden}
			}
		}
	}

	if root == nil {
		return nil, &ParseError{Err: errors.New("no root element")}
	}
	return root, nil
}

// isEntityDeclaration reports whether a directive declares entities, either
// as a bare <!ENTITY ...> or inside a DOCTYPE internal subset.
func isEntityDeclaration(d xml.Directive) bool {
	s := strings.ToUpper(string(bytes.TrimSpace(d)))
	return strings.HasPrefix(s, "ENTITY") || strings.Contains(s, "<!ENTITY")
}

// Records returns the RECORD elements that are direct children of root,
// in document order.
func Records(root *Node) []*Node {
	return root.ChildrenNamed("RECORD")
}
