package metadata

import (
	"errors"

	"github.com/beevik/etree"

	"github.com/kaltura/kal-metadata-utils/internal/schema"
	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

var errNilDocument = errors.New("metadata document is nil")

// Editor applies schema-checked changes to documents. The schema is passed to
// every call; the Editor itself only carries the logger used to report anomalies.
type Editor struct {
	logger kmeta.Logger
}

// NewEditor creates an Editor.
// Panics if logger is nil.
func NewEditor(logger kmeta.Logger) *Editor {
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Editor{logger: logger}
}

// Merge pours the values of an existing document into a fresh template of s.
//
// For each template field the first element with the same tag anywhere in the
// existing document supplies the value. Fields without a non-blank value are
// removed when optional and kept empty when required. If nothing survives, the
// unconditional template is returned instead.
func (e *Editor) Merge(existing string, s *schema.Schema) (*Document, error) {
	tree, err := readTree(existing)
	if err != nil {
		return nil, err
	}

	first := make(map[string]*etree.Element)
	counts := make(map[string]int)
	var order []string
	var visit func(el *etree.Element)
	visit = func(el *etree.Element) {
		for _, child := range el.ChildElements() {
			if _, seen := first[child.Tag]; !seen {
				first[child.Tag] = child
				order = append(order, child.Tag)
			}
			counts[child.Tag]++
			visit(child)
		}
	}
	visit(tree.Root())

	for _, name := range order {
		if _, ok := s.Lookup(name); !ok {
			e.logger.Warn("existing document element %q is not declared by the schema; dropping it", name)
		} else if counts[name] > 1 {
			e.logger.Warn("existing document has %d values for %q; keeping the first", counts[name], name)
		}
	}

	doc := BuildTemplate(s)
	doc.removeWhere(func(fi FieldInstance) bool {
		if el, ok := first[fi.Name]; ok && !isBlank(el.Text()) {
			return false
		}
		f, _ := s.Lookup(fi.Name)
		return f.Optional()
	})
	for i := range doc.Fields {
		if el, ok := first[doc.Fields[i].Name]; ok && !isBlank(el.Text()) {
			doc.Fields[i].Value = el.Text()
		}
	}

	if doc.Len() == 0 {
		e.logger.Verbose("merged document is empty; using the schema template")
		return BuildTemplate(s), nil
	}
	return doc, nil
}

// SetValue writes value into field under the constraints of s.
//
// Single-valued fields are overwritten in place or inserted at their schema
// position. Multi-valued fields gain a new instance unless one already holds
// exactly value; afterwards blank instances of the field are removed.
// A value outside a non-empty restriction list returns *InvalidValueError and
// leaves doc untouched. Fields unknown to s are written as single-valued and
// unrestricted, with a warning.
func (e *Editor) SetValue(doc *Document, s *schema.Schema, field, value string) error {
	if doc == nil {
		return errNilDocument
	}

	f := e.lookup(s, field)
	if !f.Allows(value) {
		return &InvalidValueError{Field: field, Value: value, Allowed: f.Restrictions()}
	}

	if f.MultiValued() {
		present := false
		for _, v := range doc.Values(field) {
			if v == value {
				present = true
				break
			}
		}
		if !present {
			doc.insert(e.insertPosition(doc, s, field), FieldInstance{Name: field, Value: value})
		}
		doc.removeWhere(func(fi FieldInstance) bool {
			return fi.Name == field && isBlank(fi.Value)
		})
		return nil
	}

	if i := doc.Index(field); i >= 0 {
		doc.Fields[i].Value = value
		return nil
	}
	doc.insert(e.insertPosition(doc, s, field), FieldInstance{Name: field, Value: value})
	return nil
}

// RemoveValue removes the instances of field holding value, or every instance
// when value is empty. A required field is never removed entirely: its last
// instance is blanked instead. Returns the number of values cleared.
func (e *Editor) RemoveValue(doc *Document, s *schema.Schema, field, value string) (int, error) {
	if doc == nil {
		return 0, errNilDocument
	}
	f := e.lookup(s, field)

	match := func(fi FieldInstance) bool {
		return fi.Name == field && (value == "" || fi.Value == value)
	}
	matched := 0
	for _, fi := range doc.Fields {
		if match(fi) {
			matched++
		}
	}
	if matched == 0 {
		return 0, nil
	}

	if !f.Optional() && matched == doc.Count(field) {
		keep := doc.Index(field)
		doc.Fields[keep].Value = ""
		removed := 0
		for i := len(doc.Fields) - 1; i > keep; i-- {
			if match(doc.Fields[i]) {
				doc.Fields = append(doc.Fields[:i], doc.Fields[i+1:]...)
				removed++
			}
		}
		return removed + 1, nil
	}

	return doc.removeWhere(match), nil
}

// Prune removes blank instances of optional fields and of fields the schema
// does not declare. Required fields keep their (possibly empty) element.
// Returns the number of instances removed.
func (e *Editor) Prune(doc *Document, s *schema.Schema) int {
	if doc == nil {
		return 0
	}
	return doc.removeWhere(func(fi FieldInstance) bool {
		if !isBlank(fi.Value) {
			return false
		}
		f, ok := s.Lookup(fi.Name)
		return !ok || f.Optional()
	})
}

func (e *Editor) lookup(s *schema.Schema, field string) schema.Field {
	if f, ok := s.Lookup(field); ok {
		return f
	}
	e.logger.Warn("field %q is not declared by the schema; writing it without constraints", field)
	return schema.Field{Name: field, MinOccurs: 1, MaxOccurs: 1, Position: schema.NoPosition}
}

// insertPosition returns the index at which a new instance of field belongs.
//
// For fields of the ordered group it is the number of instances of all earlier
// group fields, plus the instances of field itself so that a multi-valued run
// keeps insertion order. Fields outside the group go after their existing run,
// or at the end of the document.
func (e *Editor) insertPosition(doc *Document, s *schema.Schema, field string) int {
	pos := 0
	for _, name := range s.Sequence() {
		if name == field {
			return pos + doc.Count(field)
		}
		pos += doc.Count(name)
	}

	last := -1
	for i, fi := range doc.Fields {
		if fi.Name == field {
			last = i
		}
	}
	if last >= 0 {
		return last + 1
	}
	e.logger.Verbose("field %q has no schema position; appending at the end", field)
	return doc.Len()
}
