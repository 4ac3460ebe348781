// Package edits turns command-line assignments and edits files into an
// ordered list of field edits.
//
// Command-line form:
//
//	--set Email=a@example.com --set Categories=Nature --remove Categories=Old
//
// File form (YAML); entries are applied in document order:
//
//	set:
//	  Email: a@example.com
//	  Categories: [Nature, Testimonials]
//	remove:
//	  Categories: Old
//
// Order matters: values of multi-valued fields are inserted in the order the
// edits are applied.
package edits
