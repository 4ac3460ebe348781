package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildTemplate(t *testing.T) {
	s := mustSchema(t, profileXSD)

	doc := BuildTemplate(s)

	assert.Equal(t, "metadata", doc.Root)
	assert.Equal(t, []string{"Email", "Format", "Categories", "Notes"}, names(doc))
	for _, f := range doc.Fields {
		assert.Empty(t, f.Value, f.Name)
	}
}

func TestBuildTemplate_UnpositionedFieldsLast(t *testing.T) {
	s := mustSchema(t, `<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <xsd:element name="Extra" minOccurs="0"/>
  <xsd:element name="metadata">
    <xsd:complexType>
      <xsd:sequence>
        <xsd:element name="B"/>
        <xsd:element name="A"/>
      </xsd:sequence>
    </xsd:complexType>
  </xsd:element>
</xsd:schema>`)

	doc := BuildTemplate(s)
	assert.Equal(t, []string{"B", "A", "Extra"}, names(doc))
	requireOrdered(t, doc, s)
}

func TestBuildTemplate_RoundTripThroughMerge(t *testing.T) {
	s := mustSchema(t, profileXSD)
	ed, _ := newTestEditor()

	template := BuildTemplate(s)
	text, err := Render(template)
	require.NoError(t, err)

	merged, err := ed.Merge(text, s)
	require.NoError(t, err)

	again, err := Render(merged)
	require.NoError(t, err)

	// All optional fields are blank, so the merge drops them and keeps only the
	// required ones; merging its own output again is a fixed point.
	assert.Equal(t, []string{"Format"}, names(merged))
	mergedAgain, err := ed.Merge(again, s)
	require.NoError(t, err)
	assert.Equal(t, merged, mergedAgain)
}

func TestBuildTemplate_AllOptionalRoundTrip(t *testing.T) {
	s := mustSchema(t, `<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <xsd:element name="metadata">
    <xsd:complexType>
      <xsd:sequence>
        <xsd:element name="A" minOccurs="0"/>
        <xsd:element name="B" minOccurs="0" maxOccurs="unbounded"/>
      </xsd:sequence>
    </xsd:complexType>
  </xsd:element>
</xsd:schema>`)
	ed, _ := newTestEditor()

	template := BuildTemplate(s)
	text, err := Render(template)
	require.NoError(t, err)

	merged, err := ed.Merge(text, s)
	require.NoError(t, err)
	assert.Equal(t, template, merged, "empty merge result falls back to the template")
}
