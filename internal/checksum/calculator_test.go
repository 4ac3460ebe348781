package checksum

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSHA256_CalculateRaw(t *testing.T) {
	calc := New()

	assert.Equal(t,
		"e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
		calc.CalculateRaw(nil))

	a := calc.CalculateRaw([]byte("<metadata><A>x</A></metadata>"))
	assert.Len(t, a, 64)
	assert.Equal(t, a, calc.CalculateRaw([]byte("<metadata><A>x</A></metadata>")))
	assert.NotEqual(t, a, calc.CalculateRaw([]byte("<metadata>\n  <A>x</A>\n</metadata>")))
}

func TestSHA256_Normalize(t *testing.T) {
	calc := New()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"compact unchanged", "<metadata><A>x</A></metadata>", "<metadata><A>x</A></metadata>"},
		{"indentation removed", "<metadata>\n  <A>x</A>\n  <B/>\n</metadata>\n", "<metadata><A>x</A><B/></metadata>"},
		{"declaration removed", `<?xml version="1.0" encoding="UTF-8"?>` + "\n<metadata/>", "<metadata/>"},
		{"comment removed", "<metadata><!-- note --><A>x</A></metadata>", "<metadata><A>x</A></metadata>"},
		{"text whitespace kept", "<A>two   words</A>", "<A>two   words</A>"},
		{"tab in text kept", "<A>a\tb</A>", "<A>a\tb</A>"},
		{"edge whitespace in text kept", "<A> a </A>", "<A> a </A>"},
		{"surrounding whitespace removed", "\n  <metadata/>\n", "<metadata/>"},
		{"case preserved", "<A>Phone</A>", "<A>Phone</A>"},
		{"cdata kept", "<A><![CDATA[<!-- kept -->]]></A>", "<A><![CDATA[<!-- kept -->]]></A>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, calc.normalize(tt.input))
		})
	}
}

func TestSHA256_Equal(t *testing.T) {
	calc := New()

	pretty := []byte("<?xml version=\"1.0\"?>\n<metadata>\n  <Email>a@test.com</Email>\n  <Format>Phone</Format>\n</metadata>\n")
	compact := []byte("<metadata><Email>a@test.com</Email><Format>Phone</Format></metadata>")
	changed := []byte("<metadata><Email>a@test.com</Email><Format>phone</Format></metadata>")

	assert.True(t, calc.Equal(pretty, compact))
	assert.False(t, calc.Equal(compact, changed))
}

func TestSHA256_EqualKeepsValueWhitespace(t *testing.T) {
	calc := New()

	single := []byte("<metadata><Notes>a b</Notes></metadata>")
	assert.False(t, calc.Equal(single, []byte("<metadata><Notes>a  b</Notes></metadata>")))
	assert.False(t, calc.Equal(single, []byte("<metadata><Notes>a\tb</Notes></metadata>")))
	assert.True(t, calc.Equal(single, []byte("<metadata>\n  <Notes>a b</Notes>\n</metadata>")))
}

func TestSHA256_ImplementsCalculator(t *testing.T) {
	var _ Calculator = New()
}
