package metadata

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strings"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// InvalidValueError reports a value outside a field's enumerated restriction.
// The document is left unmodified when it is returned.
type InvalidValueError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("value %q is not allowed for field %q (allowed: %s)",
		e.Value, e.Field, strings.Join(quoteAll(e.Allowed), ", "))
}

// Unwrap lets errors.Is match kmeta.ErrInvalidValue.
func (e *InvalidValueError) Unwrap() error {
	return kmeta.ErrInvalidValue
}

// DocumentParseError reports document text that could not be read as XML.
type DocumentParseError struct {
	Line    int // Line number (0 if unknown)
	Message string
	Err     error
}

func (e *DocumentParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse metadata document (line %d): %s", e.Line, e.Message)
	}
	return "parse metadata document: " + e.Message
}

// Unwrap lets errors.Is match kmeta.ErrDocumentParse and the underlying cause.
func (e *DocumentParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{kmeta.ErrDocumentParse}
	}
	return []error{kmeta.ErrDocumentParse, e.Err}
}

// wrapXMLError converts etree/xml read errors to DocumentParseError with line numbers.
func wrapXMLError(err error) error {
	var syntaxErr *xml.SyntaxError
	if errors.As(err, &syntaxErr) {
		return &DocumentParseError{Line: syntaxErr.Line, Message: syntaxErr.Msg, Err: err}
	}
	return &DocumentParseError{Message: err.Error(), Err: err}
}

func quoteAll(values []string) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = fmt.Sprintf("%q", v)
	}
	return out
}
