package kmeta

import (
	"errors"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	err := editor.SetValue(doc, s, "Format", "Drone")
//	if errors.Is(err, kmeta.ErrInvalidValue) {
//	    // log and continue with the next edit
//	}
var (
	// ErrSchemaParse indicates the schema text is not well-formed XML.
	ErrSchemaParse = errors.New("schema parse error")

	// ErrDocumentParse indicates an existing metadata document is not well-formed XML.
	ErrDocumentParse = errors.New("document parse error")

	// ErrInvalidValue indicates a value outside a field's enumerated restriction.
	ErrInvalidValue = errors.New("invalid value")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrStoreFailed indicates the metadata store rejected or failed a request.
	ErrStoreFailed = errors.New("metadata store request failed")

	// ErrNotFound indicates the requested profile or document does not exist.
	ErrNotFound = errors.New("not found")

	// ErrApprovalDenied indicates the user declined the upsert.
	ErrApprovalDenied = errors.New("approval denied")

	// ErrUsage indicates invalid command line usage.
	ErrUsage = errors.New("usage error")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrUsage):
		return ExitUsageError
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrApprovalDenied):
		return ExitApprovalDenied
	case errors.Is(err, ErrSchemaParse), errors.Is(err, ErrDocumentParse):
		return ExitParseError
	case errors.Is(err, ErrInvalidValue):
		return ExitInvalidValue
	case errors.Is(err, ErrStoreFailed), errors.Is(err, ErrNotFound):
		return ExitStoreError
	}

	return ExitGeneralError
}
