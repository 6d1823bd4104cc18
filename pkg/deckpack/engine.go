package deckpack

// Engine is the synchronous API consumed by the orchestration layer around
// the integrity engine. One invocation processes one package start to finish
// with no internal parallelism; multiple packages may be processed
// concurrently provided each call owns an independent Package.
type Engine interface {
	// Unpack decodes a zip byte buffer into a part tree.
	// Returns ErrArchiveCorrupt if the buffer is not a valid archive.
	Unpack(data []byte) (*Package, error)

	// PrettifyAll re-serializes every XML part with two-space indentation
	// and escapes smart-quote code points to numeric character references,
	// producing the editable form. Binary parts pass through unchanged.
	PrettifyAll(pkg *Package)

	// DuplicateSlide clones a slide part plus its non-notes relationships,
	// allocates fresh identifiers and registers the clone in the manifest
	// and the presentation's relationships file. It does not touch the
	// ordered slide list. Returns ErrSourceNotFound if the source slide
	// filename is absent.
	DuplicateSlide(pkg *Package, sourceFilename string) (DuplicationResult, error)

	// InsertSlide inserts an entry into the ordered slide list at a
	// 1-based position clamped to the valid range. A negative position
	// appends.
	InsertSlide(pkg *Package, slideID int, relID string, position int) error

	// RemoveSlide detaches a slide from the ordered slide list. The
	// physical part becomes an orphan and is swept by the next Clean.
	RemoveSlide(pkg *Package, filename string) error

	// Clean deletes every part unreachable from the ordered slide list
	// (slides, relationship files, media, charts, diagrams, notes,
	// themes) and keeps the manifest in sync. Returns the removed paths.
	Clean(pkg *Package) []string

	// Validate runs the auto-repair pass, the structural check battery
	// and schema validation. If baseline is non-nil, schema errors
	// already present in the baseline are suppressed and only newly
	// introduced errors are reported. The baseline is never mutated.
	Validate(pkg *Package, baseline *Package) ValidationResult

	// CondenseAndRepack restores smart quotes, condenses every XML part
	// to its canonical form and repacks the tree into deterministic zip
	// bytes.
	CondenseAndRepack(pkg *Package) ([]byte, error)
}
