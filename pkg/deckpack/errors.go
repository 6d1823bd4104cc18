package deckpack

import "errors"

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	pkg, err := engine.Unpack(data)
//	if errors.Is(err, deckpack.ErrArchiveCorrupt) {
//	    // Reject the upload instead of retrying
//	}
var (
	// ErrArchiveCorrupt indicates the byte buffer is not a readable zip
	// archive or a contained entry could not be read.
	ErrArchiveCorrupt = errors.New("archive corrupt")

	// ErrSourceNotFound indicates the slide named as a duplication source
	// does not exist in the package.
	ErrSourceNotFound = errors.New("source slide not found")

	// ErrPartNotFound indicates a required package part is missing.
	ErrPartNotFound = errors.New("part not found")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrValidationFailed indicates a validation run reported structural
	// or schema errors. The ValidationResult carries the details; this
	// sentinel only classifies the outcome for exit-code mapping.
	ErrValidationFailed = errors.New("validation failed")
)

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrArchiveCorrupt):
		return ExitArchiveCorrupt
	case errors.Is(err, ErrSourceNotFound), errors.Is(err, ErrPartNotFound):
		return ExitPartMissing
	case errors.Is(err, ErrValidationFailed):
		return ExitValidationFailed
	}

	return ExitGeneralError
}
