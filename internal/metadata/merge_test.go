package metadata

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

func TestMerge_CopiesValuesInSchemaOrder(t *testing.T) {
	s := mustSchema(t, profileXSD)
	ed, _ := newTestEditor()

	existing := `<metadata>
  <Notes>hello</Notes>
  <Format>Phone</Format>
  <Email>a@test.com</Email>
</metadata>`

	doc, err := ed.Merge(existing, s)
	require.NoError(t, err)

	assert.Equal(t, []FieldInstance{
		{Name: "Email", Value: "a@test.com"},
		{Name: "Format", Value: "Phone"},
		{Name: "Notes", Value: "hello"},
	}, doc.Fields)
	requireOrdered(t, doc, s)
}

// Scenario C: an optional field missing from the existing document is absent,
// not present-but-empty.
func TestMerge_DropsMissingOptionalFields(t *testing.T) {
	s := mustSchema(t, profileXSD)
	ed, _ := newTestEditor()

	doc, err := ed.Merge(`<metadata><Format>Phone</Format><Notes>   </Notes></metadata>`, s)
	require.NoError(t, err)

	assert.Equal(t, -1, doc.Index("Email"))
	assert.Equal(t, -1, doc.Index("Categories"))
	assert.Equal(t, -1, doc.Index("Notes"), "blank optional values are dropped too")
	assert.Equal(t, []string{"Format"}, names(doc))
}

func TestMerge_KeepsRequiredFieldsEmpty(t *testing.T) {
	s := mustSchema(t, profileXSD)
	ed, _ := newTestEditor()

	doc, err := ed.Merge(`<metadata><Email>a@test.com</Email></metadata>`, s)
	require.NoError(t, err)

	assert.Equal(t, []FieldInstance{
		{Name: "Email", Value: "a@test.com"},
		{Name: "Format", Value: ""},
	}, doc.Fields)
}

func TestMerge_FindsNestedElements(t *testing.T) {
	s := mustSchema(t, profileXSD)
	ed, _ := newTestEditor()

	doc, err := ed.Merge(`<metadata><group><Format>Phone</Format></group></metadata>`, s)
	require.NoError(t, err)

	v, ok := doc.Value("Format")
	require.True(t, ok)
	assert.Equal(t, "Phone", v)
}

func TestMerge_FirstMatchWinsAndWarns(t *testing.T) {
	s := mustSchema(t, profileXSD)
	ed, logs := newTestEditor()

	doc, err := ed.Merge(`<metadata>
  <Email>first@test.com</Email>
  <Email>second@test.com</Email>
  <Format>Phone</Format>
  <Legacy>x</Legacy>
</metadata>`, s)
	require.NoError(t, err)

	assert.Equal(t, []string{"first@test.com"}, doc.Values("Email"))
	assert.Equal(t, -1, doc.Index("Legacy"))
	assert.Equal(t, 1, logs.FilterMessageSnippet(`2 values for "Email"`).Len())
	assert.Equal(t, 1, logs.FilterMessageSnippet(`"Legacy" is not declared`).Len())
}

func TestMerge_EmptyResultFallsBackToTemplate(t *testing.T) {
	s := mustSchema(t, `<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <xsd:element name="metadata">
    <xsd:complexType>
      <xsd:sequence>
        <xsd:element name="A" minOccurs="0"/>
        <xsd:element name="B" minOccurs="0"/>
      </xsd:sequence>
    </xsd:complexType>
  </xsd:element>
</xsd:schema>`)
	ed, _ := newTestEditor()

	doc, err := ed.Merge(`<metadata/>`, s)
	require.NoError(t, err)
	assert.Equal(t, BuildTemplate(s), doc)
}

func TestMerge_NotWellFormed(t *testing.T) {
	s := mustSchema(t, profileXSD)
	ed, _ := newTestEditor()

	doc, err := ed.Merge(`<metadata><Email>`, s)
	require.Error(t, err)
	assert.Nil(t, doc)
	assert.True(t, errors.Is(err, kmeta.ErrDocumentParse))
}
