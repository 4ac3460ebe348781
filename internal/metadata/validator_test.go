package metadata

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_AllValid(t *testing.T) {
	s := mustSchema(t, profileXSD)
	doc := &Document{Root: "metadata", Fields: []FieldInstance{
		{Name: "Email", Value: "a@test.com"},
		{Name: "Email", Value: "b@test.com"},
		{Name: "Format", Value: "Phone"},
		{Name: "Notes", Value: "n"},
	}}

	result := Validate(doc, s)
	assert.True(t, result.Valid, result.ErrorString())
	assert.False(t, result.HasErrors())
	assert.Equal(t, "", result.ErrorString())
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	s := mustSchema(t, profileXSD)
	doc := &Document{Root: "record", Fields: []FieldInstance{
		{Name: "Notes", Value: "n1"},
		{Name: "Email", Value: "a"},
		{Name: "Notes", Value: "n2"},
		{Name: "Stray", Value: "x"},
	}}

	result := Validate(doc, s)
	assert.False(t, result.Valid)

	text := result.ErrorString()
	for _, want := range []string{
		"root element is <record>",
		`"Stray" is not declared`,
		`"Format" occurs 0 time(s), minOccurs is 1`,
		`"Notes" occurs 2 time(s), maxOccurs is 1`,
		`"Email" at index 1 is out of schema order`,
		`"Notes" are not contiguous`,
	} {
		assert.Contains(t, text, want)
	}
	assert.Equal(t, len(result.Errors)-1, strings.Count(text, "; "))
}

func TestValidate_RestrictionViolation(t *testing.T) {
	s := mustSchema(t, profileXSD)
	doc := &Document{Root: "metadata", Fields: []FieldInstance{{Name: "Format", Value: "Drone"}}}

	result := Validate(doc, s)
	assert.False(t, result.Valid)
	assert.Contains(t, result.ErrorString(), `"Format" has value "Drone"`)
}

func TestValidationResult_AddError(t *testing.T) {
	result := ValidationResult{Valid: true, Errors: []string{}}

	result.AddError("First error")
	assert.False(t, result.Valid)
	assert.Len(t, result.Errors, 1)

	result.AddError("Second error: %s", "details")
	assert.Len(t, result.Errors, 2)
	assert.Contains(t, result.Errors[1], "details")
	assert.Equal(t, "First error; Second error: details", result.ErrorString())
}
