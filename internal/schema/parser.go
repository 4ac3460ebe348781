package schema

import (
	"encoding/xml"
	"errors"
	"strconv"
	"strings"

	"github.com/beevik/etree"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// Option configures Parse.
type Option func(*parser)

// WithRootElement sets the name of the document wrapper element, which is
// excluded from the catalog. Defaults to kmeta.RootElement.
func WithRootElement(name string) Option {
	return func(p *parser) {
		if name != "" {
			p.root = name
		}
	}
}

type parser struct {
	root        string
	simpleTypes map[string]*etree.Element
}

// Parse reads XSD text into a Schema.
//
// Only well-formedness is fatal: missing or malformed occurrence attributes fall
// back to the XSD default of exactly one, and unresolvable restrictions leave a
// field unrestricted.
func Parse(text string, opts ...Option) (*Schema, error) {
	p := &parser{root: kmeta.RootElement, simpleTypes: make(map[string]*etree.Element)}
	for _, opt := range opts {
		opt(p)
	}

	doc := etree.NewDocument()
	if err := doc.ReadFromString(text); err != nil {
		return nil, newParseError(err)
	}
	top := doc.Root()
	if top == nil {
		return nil, &ParseError{Message: "no root element"}
	}

	s := &Schema{root: p.root, index: make(map[string]int)}

	walk(top, func(el *etree.Element) {
		if isXSD(el, "simpleType") {
			if name := el.SelectAttrValue("name", ""); name != "" {
				if _, seen := p.simpleTypes[name]; !seen {
					p.simpleTypes[name] = el
				}
			}
		}
	})

	if seq := firstSequence(top); seq != nil {
		for _, child := range seq.ChildElements() {
			if !isXSD(child, "element") {
				continue
			}
			name := child.SelectAttrValue("name", "")
			if name == "" {
				name = localName(child.SelectAttrValue("ref", ""))
			}
			if name != "" {
				s.sequence = append(s.sequence, name)
			}
		}
	}
	positions := make(map[string]int, len(s.sequence))
	for i, name := range s.sequence {
		if _, ok := positions[name]; !ok {
			positions[name] = i
		}
	}

	walk(top, func(el *etree.Element) {
		if !isXSD(el, "element") {
			return
		}
		name := el.SelectAttrValue("name", "")
		if name == "" || name == p.root {
			return
		}
		if _, dup := s.index[name]; dup {
			return
		}
		f := Field{
			Name:         name,
			MinOccurs:    parseOccurs(el.SelectAttrValue("minOccurs", ""), false),
			MaxOccurs:    parseOccurs(el.SelectAttrValue("maxOccurs", ""), true),
			Position:     NoPosition,
			restrictions: p.restrictions(el),
		}
		if pos, ok := positions[name]; ok {
			f.Position = pos
		}
		s.index[name] = len(s.fields)
		s.fields = append(s.fields, f)
	})

	return s, nil
}

// restrictions resolves the enumerated values of an element declaration.
//
// Resolution order:
//  1. simpleType nested directly under the element
//  2. named simpleType referenced by the element's type attribute
//  3. the first simpleType sibling that follows the declaration in the same
//     parent, shared by every element declared before it (heuristic: XSD does
//     not bind anonymous siblings to elements)
func (p *parser) restrictions(el *etree.Element) []string {
	for _, child := range el.ChildElements() {
		if isXSD(child, "simpleType") {
			return enumerations(child)
		}
	}

	if typ := el.SelectAttrValue("type", ""); typ != "" {
		if st, ok := p.simpleTypes[localName(typ)]; ok {
			return enumerations(st)
		}
	}

	parent := el.Parent()
	if parent == nil {
		return nil
	}
	following := false
	for _, sib := range parent.ChildElements() {
		if sib == el {
			following = true
			continue
		}
		if following && isXSD(sib, "simpleType") {
			return enumerations(sib)
		}
	}
	return nil
}

func enumerations(simpleType *etree.Element) []string {
	var values []string
	for _, r := range simpleType.ChildElements() {
		if !isXSD(r, "restriction") {
			continue
		}
		for _, e := range r.ChildElements() {
			if isXSD(e, "enumeration") {
				if attr := e.SelectAttr("value"); attr != nil {
					values = append(values, attr.Value)
				}
			}
		}
		break
	}
	return values
}

// firstSequence returns the first sequence (document order) whose parent is a complexType.
func firstSequence(top *etree.Element) *etree.Element {
	var found *etree.Element
	walk(top, func(el *etree.Element) {
		if found != nil || !isXSD(el, "sequence") {
			return
		}
		if parent := el.Parent(); parent != nil && isXSD(parent, "complexType") {
			found = el
		}
	})
	return found
}

// parseOccurs reads minOccurs/maxOccurs. Absent or malformed values mean 1.
func parseOccurs(raw string, allowUnbounded bool) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 1
	}
	if allowUnbounded && raw == "unbounded" {
		return Unbounded
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 1
	}
	return n
}

// walk visits el and its descendants in document order.
func walk(el *etree.Element, fn func(*etree.Element)) {
	fn(el)
	for _, child := range el.ChildElements() {
		walk(child, fn)
	}
}

// isXSD reports whether el is the XSD construct local. Elements with an
// undeclared prefix or no namespace are accepted as well.
func isXSD(el *etree.Element, local string) bool {
	if el.Tag != local {
		return false
	}
	switch el.NamespaceURI() {
	case kmeta.XSDNamespace, "":
		return true
	}
	return false
}

func localName(qname string) string {
	if i := strings.LastIndexByte(qname, ':'); i >= 0 {
		return qname[i+1:]
	}
	return qname
}

func newParseError(err error) *ParseError {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &ParseError{Line: syntaxErr.Line, Message: syntaxErr.Msg, Err: err}
	}
	return &ParseError{Message: err.Error(), Err: err}
}
