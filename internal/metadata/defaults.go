package metadata

import "github.com/kaltura/kal-metadata-utils/internal/schema"

// ApplyDefaults fills single-valued restricted fields that are blank with their
// first enumerated value. When skipOptional is true, the remaining optional
// fields are set to empty text (present but intentionally blank). Fields whose
// instance is absent from doc are skipped.
func ApplyDefaults(doc *Document, s *schema.Schema, skipOptional bool) {
	if doc == nil {
		return
	}
	for _, f := range s.Fields() {
		i := doc.Index(f.Name)
		if i < 0 {
			continue
		}
		if def, ok := f.DefaultValue(); ok && !f.MultiValued() {
			if isBlank(doc.Fields[i].Value) {
				doc.Fields[i].Value = def
			}
		} else if f.Optional() && skipOptional {
			doc.Fields[i].Value = ""
		}
	}
}
