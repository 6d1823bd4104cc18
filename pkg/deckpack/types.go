package deckpack

// ValidationResult is the outcome of one validation run over a package.
// It is produced fresh per call and never persisted. Overall validity is the
// conjunction of the structural and schema sections: a section is valid
// exactly when its error list is empty.
type ValidationResult struct {
	// Valid is true when both error lists are empty.
	Valid bool

	// Repairs is the number of auto-repairs applied before validation
	// (currently: restored whitespace-preservation flags). Non-fatal.
	Repairs int

	// StructuralErrors lists consistency violations across the part tree.
	StructuralErrors []string

	// SchemaErrors lists violations of the standards schemas, after
	// baseline subtraction and benign-error filtering.
	SchemaErrors []string
}

// DuplicationResult identifies a freshly cloned slide. The caller is
// expected to register it in the ordered slide list via InsertSlide.
type DuplicationResult struct {
	// NewFilename is the slide part filename, e.g. "slide6.xml".
	NewFilename string

	// NewSlideID is the numeric id for the ordered slide list entry.
	// Globally unique across the presentation.
	NewSlideID int

	// NewRelationshipID is the relationship id reaching the slide part
	// from the presentation's relationships file, e.g. "rId7".
	NewRelationshipID string
}

// SlideEntry is one entry of the ordered slide list as it appears in the
// presentation's primary document part.
type SlideEntry struct {
	// SlideID is the numeric slide id, globally unique.
	SlideID int

	// RelationshipID reaches the slide part via the presentation's
	// relationships file.
	RelationshipID string
}
