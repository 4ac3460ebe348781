package metadata

import (
	"strings"

	"github.com/beevik/etree"
)

// FieldInstance is one occurrence of a field in a document.
type FieldInstance struct {
	Name  string
	Value string
}

// Document is a metadata document: a root tag and its ordered field instances.
type Document struct {
	Root   string
	Fields []FieldInstance
}

// NewDocument returns an empty document with the given root tag.
func NewDocument(root string) *Document {
	return &Document{Root: root}
}

// Len returns the number of field instances.
func (d *Document) Len() int {
	return len(d.Fields)
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := &Document{Root: d.Root, Fields: make([]FieldInstance, len(d.Fields))}
	copy(c.Fields, d.Fields)
	return c
}

// Index returns the position of the first instance of name, or -1.
func (d *Document) Index(name string) int {
	for i, f := range d.Fields {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// Count returns the number of instances of name.
func (d *Document) Count(name string) int {
	n := 0
	for _, f := range d.Fields {
		if f.Name == name {
			n++
		}
	}
	return n
}

// Values returns the values of name in document order.
func (d *Document) Values(name string) []string {
	var values []string
	for _, f := range d.Fields {
		if f.Name == name {
			values = append(values, f.Value)
		}
	}
	return values
}

// Value returns the first value of name.
func (d *Document) Value(name string) (string, bool) {
	if i := d.Index(name); i >= 0 {
		return d.Fields[i].Value, true
	}
	return "", false
}

func (d *Document) insert(at int, fi FieldInstance) {
	if at < 0 || at > len(d.Fields) {
		at = len(d.Fields)
	}
	d.Fields = append(d.Fields, FieldInstance{})
	copy(d.Fields[at+1:], d.Fields[at:])
	d.Fields[at] = fi
}

// removeWhere drops every instance for which drop returns true and returns the count removed.
func (d *Document) removeWhere(drop func(FieldInstance) bool) int {
	kept := d.Fields[:0]
	removed := 0
	for _, f := range d.Fields {
		if drop(f) {
			removed++
			continue
		}
		kept = append(kept, f)
	}
	clear(d.Fields[len(kept):])
	d.Fields = kept
	return removed
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Parse reads a flat metadata document. Child elements of the root become
// field instances; deeper nesting is ignored.
func Parse(text string) (*Document, error) {
	tree, err := readTree(text)
	if err != nil {
		return nil, err
	}
	root := tree.Root()
	doc := NewDocument(root.Tag)
	for _, child := range root.ChildElements() {
		doc.Fields = append(doc.Fields, FieldInstance{Name: child.Tag, Value: child.Text()})
	}
	return doc, nil
}

func readTree(text string) (*etree.Document, error) {
	tree := etree.NewDocument()
	if err := tree.ReadFromString(text); err != nil {
		return nil, wrapXMLError(err)
	}
	if tree.Root() == nil {
		return nil, &DocumentParseError{Message: "no root element"}
	}
	return tree, nil
}

// Render returns the indented text form of the document. Parse(Render(d))
// reproduces d for documents whose values are not whitespace-only.
func Render(d *Document) (string, error) {
	tree := buildTree(d)
	tree.Indent(2)
	out, err := tree.WriteToString()
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// RenderCompact returns the document on a single line, as sent to stores.
func RenderCompact(d *Document) (string, error) {
	return buildTree(d).WriteToString()
}

func buildTree(d *Document) *etree.Document {
	tree := etree.NewDocument()
	root := tree.CreateElement(d.Root)
	for _, f := range d.Fields {
		el := root.CreateElement(f.Name)
		if f.Value != "" {
			el.SetText(f.Value)
		}
	}
	return tree
}
