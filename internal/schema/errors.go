package schema

import (
	"fmt"

	"github.com/kaltura/kal-metadata-utils/pkg/kmeta"
)

// ParseError reports schema text that could not be read as XML.
type ParseError struct {
	Line    int // Line number (0 if unknown)
	Message string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("parse schema (line %d): %s", e.Line, e.Message)
	}
	return "parse schema: " + e.Message
}

// Unwrap lets errors.Is match kmeta.ErrSchemaParse and the underlying cause.
func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{kmeta.ErrSchemaParse}
	}
	return []error{kmeta.ErrSchemaParse, e.Err}
}
