package cli

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kaltura/kal-metadata-utils/internal/metadata"
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

// executeCommand runs a fresh command tree and returns what it wrote to stdout.
func executeCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("KMETA_NON_INTERACTIVE", "1")

	root := NewRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func readFile(t *testing.T, p string) string {
	t.Helper()
	data, err := os.ReadFile(p)
	require.NoError(t, err)
	return string(data)
}

func mustParse(t *testing.T, text string) *metadata.Document {
	t.Helper()
	doc, err := metadata.Parse(text)
	require.NoError(t, err, text)
	return doc
}
