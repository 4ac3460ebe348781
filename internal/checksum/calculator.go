package checksum

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"unicode"
)

// Calculator is an interface for computing document checksums.
type Calculator interface {
	// CalculateRaw computes a checksum of the raw, unmodified content.
	CalculateRaw(content []byte) string

	// CalculateNormalized computes a checksum of normalized XML content.
	CalculateNormalized(content []byte) string
}

// SHA256 implements checksum calculation using SHA-256.
// Normalization:
//  1. Drop processing instructions (<?xml ...?>) and comments
//  2. Drop whitespace-only runs between tags and around the document
//
// Whitespace inside text and letter case are kept as-is: both are part of a
// field value.
//
// SHA256 is a zero-size type and is safe for concurrent use by multiple goroutines.
type SHA256 struct{}

// New creates a new SHA-256 based calculator.
func New() SHA256 {
	return SHA256{}
}

// CalculateRaw computes SHA-256 of raw content.
func (c SHA256) CalculateRaw(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// CalculateNormalized computes SHA-256 of normalized content.
func (c SHA256) CalculateNormalized(content []byte) string {
	normalized := c.normalize(string(content))
	hash := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(hash[:])
}

// Equal reports whether a and b normalize to the same content.
func (c SHA256) Equal(a, b []byte) bool {
	return c.CalculateNormalized(a) == c.CalculateNormalized(b)
}

func (c SHA256) normalize(content string) string {
	cleaned := c.removeMarkup(content)

	var b strings.Builder
	b.Grow(len(cleaned))

	start := -1
	var last rune
	for i, r := range cleaned {
		if unicode.IsSpace(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 && last != 0 && !(last == '>' && r == '<') {
			b.WriteString(cleaned[start:i])
		}
		start = -1
		b.WriteRune(r)
		last = r
	}

	return b.String()
}

type scanState int

const (
	ssNormal scanState = iota
	ssComment
	ssInstruction
	ssCDATA
)

// removeMarkup removes comments and processing instructions. CDATA sections
// are copied unchanged.
func (c SHA256) removeMarkup(content string) string {
	var b strings.Builder
	b.Grow(len(content))

	state := ssNormal
	i := 0
	for i < len(content) {
		switch state {
		case ssNormal:
			switch {
			case strings.HasPrefix(content[i:], "<!--"):
				state = ssComment
				b.WriteByte(' ')
				i += 4
			case strings.HasPrefix(content[i:], "<?"):
				state = ssInstruction
				b.WriteByte(' ')
				i += 2
			case strings.HasPrefix(content[i:], "<![CDATA["):
				state = ssCDATA
				b.WriteString("<![CDATA[")
				i += 9
			default:
				b.WriteByte(content[i])
				i++
			}

		case ssComment:
			if strings.HasPrefix(content[i:], "-->") {
				state = ssNormal
				i += 3
			} else {
				i++
			}

		case ssInstruction:
			if strings.HasPrefix(content[i:], "?>") {
				state = ssNormal
				i += 2
			} else {
				i++
			}

		case ssCDATA:
			if strings.HasPrefix(content[i:], "]]>") {
				state = ssNormal
				b.WriteString("]]>")
				i += 3
			} else {
				b.WriteByte(content[i])
				i++
			}
		}
	}

	return b.String()
}
