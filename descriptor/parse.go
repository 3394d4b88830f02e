package descriptor

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// ErrEmptyDocument is returned when a document contains no root element.
var ErrEmptyDocument = errors.New("descriptor: document has no root element")

// DocumentSuffix is the file suffix LoadDir picks up.
const DocumentSuffix = ".hbm.xml"

// Parse reads one mapping document and returns its root element.
// Namespace prefixes are resolved to URIs; comments, processing instructions
// and directives are dropped.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	var (
		root  *Node
		stack []*Node
		text  []*strings.Builder
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("descriptor: %w", err)
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &Node{
				LocalName:    t.Name.Local,
				NamespaceURI: t.Name.Space,
			}
			n.Kind = Classify(n.NamespaceURI, n.LocalName)
			for _, a := range t.Attr {
				// Namespace declarations and qualified attributes are not mapping data.
				if a.Name.Space != "" || a.Name.Local == "xmlns" {
					continue
				}
				n.Attrs = append(n.Attrs, Attr{Name: a.Name.Local, Value: a.Value})
			}
			if len(stack) == 0 {
				if root != nil {
					return nil, fmt.Errorf("descriptor: multiple root elements")
				}
				root = n
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, n)
			}
			stack = append(stack, n)
			text = append(text, &strings.Builder{})
		case xml.EndElement:
			top := stack[len(stack)-1]
			top.Text = strings.TrimSpace(text[len(text)-1].String())
			stack = stack[:len(stack)-1]
			text = text[:len(text)-1]
		case xml.CharData:
			if len(text) > 0 {
				text[len(text)-1].Write(t)
			}
		}
	}
	if root == nil {
		return nil, ErrEmptyDocument
	}
	return root, nil
}

// ParseString is Parse over an in-memory document.
func ParseString(doc string) (*Node, error) {
	return Parse(strings.NewReader(doc))
}

// ParseFile parses the mapping document at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	root, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return root, nil
}

// Document is a parsed mapping file.
type Document struct {
	Path string
	Root *Node
}

// LoadDir walks root and parses every file ending in DocumentSuffix,
// in lexical path order.
func LoadDir(root string) ([]Document, error) {
	var docs []Document
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() || !strings.HasSuffix(strings.ToLower(d.Name()), DocumentSuffix) {
			return nil
		}
		node, err := ParseFile(path)
		if err != nil {
			return err
		}
		docs = append(docs, Document{Path: path, Root: node})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return docs, nil
}
