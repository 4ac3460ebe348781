package metadata

import "github.com/kaltura/kal-metadata-utils/internal/schema"

// BuildTemplate returns the unconditional empty skeleton of s: one instance with
// empty text per field, in canonical order (see schema.Schema.Ordered).
func BuildTemplate(s *schema.Schema) *Document {
	doc := NewDocument(s.Root())
	for _, f := range s.Ordered() {
		doc.Fields = append(doc.Fields, FieldInstance{Name: f.Name})
	}
	return doc
}
