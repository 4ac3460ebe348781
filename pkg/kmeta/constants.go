package kmeta

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Command completed successfully
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration or credentials
	ExitStoreError     = 11 // Remote or local store request failed
	ExitApprovalDenied = 12 // User declined the upsert
	ExitParseError     = 13 // Schema or document is not well-formed
	ExitInvalidValue   = 14 // One or more edits violated a restriction
)

const (
	// RootElement is the wrapper element of every metadata document.
	// It is excluded from the field catalog.
	RootElement = "metadata"

	// XSDNamespace is the XML Schema namespace URI.
	XSDNamespace = "http://www.w3.org/2001/XMLSchema"

	// DefaultServiceURL is the API endpoint used when none is configured.
	DefaultServiceURL = "https://www.kaltura.com/"

	// DefaultSessionUserID identifies the tool in admin sessions.
	DefaultSessionUserID = "metadata-tester"

	// DefaultSessionPrivileges disables entitlement checks for the admin session.
	DefaultSessionPrivileges = "*,disableentitlement"

	// DefaultSessionExpiry is the lifetime of an admin session.
	DefaultSessionExpiry = 24 * time.Hour

	// DefaultTimeout bounds a whole apply run.
	DefaultTimeout = 2 * time.Minute

	// DefaultRequestTimeout bounds a single API request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 200 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 10 * time.Second

	// DefaultRetryMaxAttempts is the default maximum number of retry attempts.
	DefaultRetryMaxAttempts = 3

	// DefaultSchemaCacheSize is the number of parsed profiles kept in memory.
	DefaultSchemaCacheSize = 32
)
