// Package engine composes the integrity pipeline behind the public
// deckpack.Engine contract: unpack, prettify, slide operations, orphan
// sweep, repair, validation, condense and repack.
//
// An Engine holds no per-package state; every method operates on the
// caller-owned part tree and runs to completion synchronously. The only
// shared state is the process-wide, read-only compiled-schema cache.
package engine

import (
	"github.com/vvka-141/deckpack/internal/archive"
	"github.com/vvka-141/deckpack/internal/normalize"
	"github.com/vvka-141/deckpack/internal/reclaim"
	"github.com/vvka-141/deckpack/internal/schema"
	"github.com/vvka-141/deckpack/internal/slides"
	"github.com/vvka-141/deckpack/internal/structure"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// Options configures an Engine.
type Options struct {
	// SchemaDir is the directory holding the .xsd bundle. Empty disables
	// schema validation (the structural phase still runs).
	SchemaDir string

	// Logger receives diagnostics. Nil defaults to a no-op logger.
	Logger deckpack.Logger

	// DisableRepair turns off the whitespace auto-repair pass that
	// normally precedes validation.
	DisableRepair bool
}

// Engine implements deckpack.Engine.
type Engine struct {
	validator *schema.Validator
	log       deckpack.Logger
	repair    bool
}

var _ deckpack.Engine = (*Engine)(nil)

// New creates an Engine. The schema directory is taken as-is; use
// schema.FindSchemaDir to locate one.
func New(opts Options) *Engine {
	log := opts.Logger
	if log == nil {
		log = nopLogger{}
	}
	return &Engine{
		validator: schema.NewValidator(opts.SchemaDir, log),
		log:       log,
		repair:    !opts.DisableRepair,
	}
}

// Unpack decodes zip bytes into a part tree.
func (e *Engine) Unpack(data []byte) (*deckpack.Package, error) {
	pkg, err := archive.Unpack(data)
	if err != nil {
		return nil, err
	}
	e.log.Verbose("unpacked %d parts", pkg.Len())
	return pkg, nil
}

// PrettifyAll rewrites every XML part into the editable form.
func (e *Engine) PrettifyAll(pkg *deckpack.Package) {
	normalize.PrettifyAll(pkg)
}

// DuplicateSlide clones a slide and registers it everywhere except the
// ordered slide list.
func (e *Engine) DuplicateSlide(pkg *deckpack.Package, sourceFilename string) (deckpack.DuplicationResult, error) {
	res, err := slides.Duplicate(pkg, sourceFilename)
	if err != nil {
		return res, err
	}
	e.log.Verbose("duplicated %s as %s (slide id %d, %s)",
		sourceFilename, res.NewFilename, res.NewSlideID, res.NewRelationshipID)
	return res, nil
}

// InsertSlide inserts an entry into the ordered slide list at a 1-based
// clamped position; a negative position appends.
func (e *Engine) InsertSlide(pkg *deckpack.Package, slideID int, relID string, position int) error {
	return slides.Insert(pkg, slideID, relID, position)
}

// RemoveSlide detaches a slide from the ordered slide list.
func (e *Engine) RemoveSlide(pkg *deckpack.Package, filename string) error {
	return slides.Remove(pkg, filename)
}

// Clean sweeps orphaned parts and returns the removed paths.
func (e *Engine) Clean(pkg *deckpack.Package) []string {
	removed := reclaim.Clean(pkg)
	if len(removed) > 0 {
		e.log.Verbose("clean removed %d parts", len(removed))
	}
	return removed
}

// Validate runs auto-repair, the structural battery and schema validation.
// A well-formedness failure short-circuits everything downstream of it.
func (e *Engine) Validate(pkg *deckpack.Package, baseline *deckpack.Package) deckpack.ValidationResult {
	repairs := 0
	if e.repair {
		repairs = schema.RepairWhitespace(pkg)
	}

	structural := structure.Check(pkg)
	result := deckpack.ValidationResult{
		Repairs:          repairs,
		StructuralErrors: structural.Errors,
	}
	if !structural.WellFormed {
		return result
	}

	result.SchemaErrors = e.validator.CheckPackage(pkg, baseline)
	result.Valid = len(result.StructuralErrors) == 0 && len(result.SchemaErrors) == 0
	return result
}

// CondenseAndRepack converts every XML part to canonical form and writes
// deterministic zip bytes. The tree itself is condensed in place; a
// failure before the final write leaves no output.
func (e *Engine) CondenseAndRepack(pkg *deckpack.Package) ([]byte, error) {
	normalize.CondenseAll(pkg)
	return archive.Repack(pkg)
}

type nopLogger struct{}

func (nopLogger) Verbose(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})    {}
func (nopLogger) Error(string, ...interface{})   {}
