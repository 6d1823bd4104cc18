package deckpack

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess          = 0  // Operation completed successfully
	ExitGeneralError     = 1  // Unknown or unclassified error
	ExitUsageError       = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic            = 3  // Internal panic (unexpected crash)
	ExitConfigError      = 10 // Invalid configuration or parameters
	ExitArchiveCorrupt   = 11 // Input is not a readable package archive
	ExitPartMissing      = 12 // A named part or duplication source is missing
	ExitValidationFailed = 13 // Validation reported structural or schema errors
)

const (
	// FirstSlideID is the numeric id assigned to the first slide of a
	// presentation when the ordered slide list is empty. PowerPoint
	// allocates slide ids starting at 256.
	FirstSlideID = 256

	// MaxErrorDetailLength is the maximum number of characters shown per
	// schema error detail line. Longer libxml2 messages are truncated to
	// keep diagnostics readable.
	MaxErrorDetailLength = 200

	// MaxErrorDetailsPerPart is the number of schema error detail lines
	// reported per invalid part.
	MaxErrorDetailsPerPart = 3
)
