package metadata

import (
	"fmt"
	"strings"

	"github.com/kaltura/kal-metadata-utils/internal/schema"
)

// ValidationResult contains the outcome of document validation.
// If Valid is false, Errors contains human-readable error messages.
type ValidationResult struct {
	Valid  bool
	Errors []string
}

// AddError appends an error message to the validation result and marks it as invalid.
func (v *ValidationResult) AddError(format string, args ...interface{}) {
	v.Valid = false
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}

// HasErrors returns true if the validation result contains errors.
func (v *ValidationResult) HasErrors() bool {
	return len(v.Errors) > 0
}

// ErrorString returns all validation errors joined with semicolons.
// Returns empty string if no errors.
func (v *ValidationResult) ErrorString() string {
	return strings.Join(v.Errors, "; ")
}

// Validate checks doc against the subset of s this package enforces:
//   - every field is declared by the schema
//   - required fields are present
//   - single-valued fields occur at most once, bounded fields at most maxOccurs times
//   - restricted fields hold allowed values (blank values are reported too)
//   - instances follow schema order and multi-valued runs are contiguous
func Validate(doc *Document, s *schema.Schema) ValidationResult {
	result := ValidationResult{Valid: true, Errors: []string{}}

	if doc.Root != s.Root() {
		result.AddError("root element is <%s>, expected <%s>", doc.Root, s.Root())
	}

	for _, fi := range doc.Fields {
		f, ok := s.Lookup(fi.Name)
		if !ok {
			result.AddError("field %q is not declared by the schema", fi.Name)
			continue
		}
		if f.Restricted() && !f.Allows(fi.Value) {
			result.AddError("field %q has value %q, allowed: %s",
				fi.Name, fi.Value, strings.Join(quoteAll(f.Restrictions()), ", "))
		}
	}

	for _, f := range s.Fields() {
		n := doc.Count(f.Name)
		if n < f.MinOccurs {
			result.AddError("field %q occurs %d time(s), minOccurs is %d", f.Name, n, f.MinOccurs)
		}
		if f.MaxOccurs != schema.Unbounded && n > f.MaxOccurs {
			result.AddError("field %q occurs %d time(s), maxOccurs is %d", f.Name, n, f.MaxOccurs)
		}
	}

	lastPos := -1
	closed := make(map[string]bool)
	prev := ""
	for i, fi := range doc.Fields {
		if fi.Name != prev {
			if closed[fi.Name] {
				result.AddError("instances of field %q are not contiguous (index %d)", fi.Name, i)
			}
			if prev != "" {
				closed[prev] = true
			}
			prev = fi.Name
		}
		pos := s.Position(fi.Name)
		if pos == schema.NoPosition {
			continue
		}
		if pos < lastPos {
			result.AddError("field %q at index %d is out of schema order", fi.Name, i)
		}
		lastPos = pos
	}

	return result
}
