package schema

import "slices"

const (
	// Unbounded is the MaxOccurs value of maxOccurs="unbounded".
	Unbounded = -1

	// NoPosition marks a field that is not part of the ordered group.
	NoPosition = -1
)

// Field is one field declaration of the schema.
type Field struct {
	Name      string
	MinOccurs int
	MaxOccurs int
	// Position is the index in the schema's ordered group, or NoPosition.
	Position int

	restrictions []string
}

// Optional reports whether the field may be absent (minOccurs="0").
func (f Field) Optional() bool {
	return f.MinOccurs == 0
}

// MultiValued reports whether the field may occur more than once.
func (f Field) MultiValued() bool {
	return f.MaxOccurs == Unbounded || f.MaxOccurs > 1
}

// Restricted reports whether the field has an enumerated value list.
func (f Field) Restricted() bool {
	return len(f.restrictions) > 0
}

// Restrictions returns the allowed values in schema order.
func (f Field) Restrictions() []string {
	return slices.Clone(f.restrictions)
}

// Allows reports whether value is acceptable for the field.
// Unrestricted fields accept any value.
func (f Field) Allows(value string) bool {
	if len(f.restrictions) == 0 {
		return true
	}
	return slices.Contains(f.restrictions, value)
}

// DefaultValue returns the first enumerated value, if any.
func (f Field) DefaultValue() (string, bool) {
	if len(f.restrictions) == 0 {
		return "", false
	}
	return f.restrictions[0], true
}

// Schema is the field catalog of a metadata profile.
type Schema struct {
	root     string
	fields   []Field
	index    map[string]int
	sequence []string
}

// Root returns the document root element name.
func (s *Schema) Root() string {
	return s.root
}

// Len returns the number of fields in the catalog.
func (s *Schema) Len() int {
	return len(s.fields)
}

// Fields returns the catalog in schema declaration order.
func (s *Schema) Fields() []Field {
	return slices.Clone(s.fields)
}

// Lookup returns the field declared with name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Sequence returns the names of the ordered group in order.
func (s *Schema) Sequence() []string {
	return slices.Clone(s.sequence)
}

// Position returns the ordered-group index of name, or NoPosition.
func (s *Schema) Position(name string) int {
	if f, ok := s.Lookup(name); ok {
		return f.Position
	}
	return NoPosition
}

// Ordered returns the catalog in canonical document order: fields of the
// ordered group by position, then the remaining fields in declaration order.
func (s *Schema) Ordered() []Field {
	out := make([]Field, 0, len(s.fields))
	for _, name := range s.sequence {
		if f, ok := s.Lookup(name); ok {
			out = append(out, f)
		}
	}
	for _, f := range s.fields {
		if f.Position == NoPosition {
			out = append(out, f)
		}
	}
	return out
}
