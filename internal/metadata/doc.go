// Package metadata builds and edits custom-metadata documents governed by a
// profile schema.
//
// # Overview
//
// A metadata document is a flat list of field elements under a single root:
//
//	<metadata>
//	  <Email>someone@test.com</Email>
//	  <Email>someone@example.com</Email>
//	  <Format>Go-Pro camera</Format>
//	</metadata>
//
// The schema (see package schema) decides which fields exist, in which order they
// appear, how many times each may occur and which values a field accepts.
//
// # Operations
//
//   - BuildTemplate: empty skeleton with one instance per schema field
//   - Editor.Merge: existing document values poured into a fresh, ordered template
//   - Editor.SetValue: constraint-checked insert or overwrite of one value
//   - Editor.RemoveValue / Editor.Prune: removal of values and empty elements
//   - ApplyDefaults: first enumerated value for restricted fields
//   - Render / Parse: indented text form and its inverse
//   - Validate: report how a document departs from its schema
//
// # Ordering
//
// Field instances always follow the schema's ordered group. Instances of a
// multi-valued field form one contiguous run in insertion order. Fields outside
// the ordered group follow the ordered fields.
//
// # Usage
//
//	s, _ := schema.Parse(xsdText)
//	ed := metadata.NewEditor(logger)
//	doc := metadata.BuildTemplate(s)
//	metadata.ApplyDefaults(doc, s, true)
//	if err := ed.SetValue(doc, s, "Format", "Drone"); errors.Is(err, kmeta.ErrInvalidValue) {
//	    // doc unchanged; continue with other edits
//	}
//	text, _ := metadata.Render(doc)
//
// Documents are not safe for concurrent mutation; a Schema may be shared.
package metadata
