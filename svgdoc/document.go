// Package svgdoc parses SVG files into an element tree, and drives
// the conversion contexts of svgconv over it: it decodes the
// attributes (transforms, paints, lengths, path data...) and
// reduces every shape to move, line, cubic and close commands.
package svgdoc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/net/html/charset"
)

var (
	errEmptyDocument = errors.New("invalid svg: no root element")
	errNotSVG        = errors.New("invalid svg: root element must be <svg>")
)

// Node is an element of the document tree.
type Node struct {
	// Name is the local name of the element (namespaces are ignored).
	Name     string
	Attrs    []xml.Attr
	Children []*Node
}

// ID returns the id attribute of the element.
func (n *Node) ID() string {
	v, _ := n.attr("id")
	return v
}

func (n *Node) attr(name string) (string, bool) {
	for _, attr := range n.Attrs {
		if attr.Name.Local == name {
			return attr.Value, true
		}
	}
	return "", false
}

// Document is a parsed SVG file.
type Document struct {
	Root *Node
	ids  map[string]*Node
}

// Parse reads an SVG document. Only the element structure is kept:
// text content, comments and processing instructions are discarded.
func Parse(r io.Reader) (*Document, error) {
	decoder := xml.NewDecoder(r)
	decoder.CharsetReader = charset.NewReaderLabel

	doc := &Document{ids: make(map[string]*Node)}
	var stack []*Node
	for {
		t, err := decoder.Token()
		if err != nil {
			if err == io.EOF {
				break
			}
			return nil, fmt.Errorf("invalid svg: %w", err)
		}
		switch se := t.(type) {
		case xml.StartElement:
			node := &Node{Name: se.Name.Local, Attrs: se.Copy().Attr}
			if len(stack) == 0 {
				if doc.Root != nil {
					return nil, errors.New("invalid svg: multiple root elements")
				}
				doc.Root = node
			} else {
				parent := stack[len(stack)-1]
				parent.Children = append(parent.Children, node)
			}
			// the first element wins for duplicated ids
			if id := node.ID(); id != "" {
				if _, has := doc.ids[id]; !has {
					doc.ids[id] = node
				}
			}
			stack = append(stack, node)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		}
	}
	if doc.Root == nil {
		return nil, errEmptyDocument
	}
	if doc.Root.Name != "svg" {
		return nil, errNotSVG
	}
	return doc, nil
}

// ParseFile reads the SVG document in the named file.
func ParseFile(filename string) (*Document, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(f)
}

// FindByID returns the element with the given id.
func (doc *Document) FindByID(id string) (*Node, bool) {
	n, ok := doc.ids[id]
	return n, ok
}
