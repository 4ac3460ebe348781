package metadata

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kaltura/kal-metadata-utils/internal/logging"
	"github.com/kaltura/kal-metadata-utils/internal/schema"
)

// profileXSD declares Email (optional, unbounded), Format (required, restricted),
// Categories (optional, unbounded) and Notes (optional, single).
const profileXSD = `<?xml version="1.0"?>
<xsd:schema xmlns:xsd="http://www.w3.org/2001/XMLSchema">
  <xsd:element name="metadata">
    <xsd:complexType>
      <xsd:sequence>
        <xsd:element name="Email" minOccurs="0" maxOccurs="unbounded" type="textType"/>
        <xsd:element name="Format" minOccurs="1" maxOccurs="1">
          <xsd:simpleType>
            <xsd:restriction base="listType">
              <xsd:enumeration value="Go-Pro camera"/>
              <xsd:enumeration value="Phone"/>
            </xsd:restriction>
          </xsd:simpleType>
        </xsd:element>
        <xsd:element name="Categories" minOccurs="0" maxOccurs="unbounded" type="textType"/>
        <xsd:element name="Notes" minOccurs="0" maxOccurs="1" type="textType"/>
      </xsd:sequence>
    </xsd:complexType>
  </xsd:element>
  <xsd:complexType name="textType">
    <xsd:simpleContent>
      <xsd:extension base="xsd:string"/>
    </xsd:simpleContent>
  </xsd:complexType>
  <xsd:simpleType name="listType">
    <xsd:restriction base="xsd:string"/>
  </xsd:simpleType>
</xsd:schema>`

func mustSchema(t *testing.T, text string) *schema.Schema {
	t.Helper()
	s, err := schema.Parse(text)
	require.NoError(t, err)
	return s
}

func newTestEditor() (*Editor, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return NewEditor(logging.NewZapLogger(zap.New(core))), logs
}

func names(doc *Document) []string {
	out := make([]string, len(doc.Fields))
	for i, f := range doc.Fields {
		out[i] = f.Name
	}
	return out
}

// requireOrdered asserts the ordering invariant: non-decreasing schema positions
// and contiguous runs per field name.
func requireOrdered(t *testing.T, doc *Document, s *schema.Schema) {
	t.Helper()
	result := Validate(doc, s)
	for _, msg := range result.Errors {
		require.NotContains(t, msg, "out of schema order")
		require.NotContains(t, msg, "not contiguous")
	}
}
