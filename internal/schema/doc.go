// Package schema turns metadata profile XSD text into a read-only field catalog.
//
// # Supported XSD subset
//
//   - element declarations anywhere in the schema, with optional minOccurs/maxOccurs
//   - enumerations in a simpleType/restriction nested under the element, in a named
//     simpleType referenced by the element's type attribute, or in a simpleType that
//     directly follows the element declaration
//   - one ordered group (the first sequence inside a complexType) defining field order
//
// Everything else in the schema is ignored. Facets other than enumeration, imports,
// choice and all groups are not interpreted.
//
// # Usage
//
//	s, err := schema.Parse(xsdText)
//	if err != nil {
//	    return err // errors.Is(err, kmeta.ErrSchemaParse)
//	}
//	f, ok := s.Lookup("Format")
//	if ok && f.Restricted() && !f.Allows("Drone") {
//	    ...
//	}
//
// # Thread Safety
//
// A Schema is immutable after Parse and safe for concurrent use.
package schema
