package schema

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/lestrrat-go/libxml2"
	"github.com/lestrrat-go/libxml2/xsd"

	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// benignErrors are known-benign schema error substrings, filtered
// unconditionally:
//   - hyphenationZone: a word-processing extension absent from the
//     standards schemas
//   - purl.org/dc/terms: the Dublin Core namespace used by core.xml
//   - xml:space: always-valid built-in attribute the schemas do not
//     declare; the auto-repair pass adds it
var benignErrors = []string{
	"hyphenationZone",
	"purl.org/dc/terms",
	"{http://www.w3.org/XML/1998/namespace}space",
}

// Validator checks parts against the standards schema for their part type,
// optionally suppressing errors already present in a baseline package.
type Validator struct {
	schemaDir string
	log       deckpack.Logger
}

// NewValidator creates a validator loading schemas from schemaDir. An empty
// schemaDir disables the schema phase entirely (every part degrades to
// skip).
func NewValidator(schemaDir string, log deckpack.Logger) *Validator {
	return &Validator{schemaDir: schemaDir, log: log}
}

// CheckPackage validates every XML part with a known schema. If baseline is
// non-nil, errors also produced by the same part of the baseline are
// suppressed, so only newly introduced errors surface. Returns the
// formatted schema diagnostics: a summary line per invalid part plus capped
// detail lines.
func (v *Validator) CheckPackage(pkg, baseline *deckpack.Package) []string {
	if v.schemaDir == "" {
		v.log.Verbose("schema validation skipped: no schemas directory")
		return nil
	}

	var out []string
	for _, p := range pkg.XMLPaths() {
		relFile, ok := FileFor(p)
		if !ok {
			continue
		}
		sch, ok := loadSchema(v.schemaDir, relFile)
		if !ok {
			v.log.Verbose("schema %s unavailable, skipping %s", relFile, p)
			continue
		}

		data, _ := pkg.Part(p)
		current := v.validatePart(sch, p, data)
		if len(current) == 0 {
			continue
		}

		if baseline != nil {
			if baseData, ok := baseline.Part(p); ok {
				for e := range v.validatePart(sch, p, baseData) {
					delete(current, e)
				}
			}
		}

		for e := range current {
			for _, benign := range benignErrors {
				if strings.Contains(e, benign) {
					delete(current, e)
					break
				}
			}
		}
		if len(current) == 0 {
			continue
		}

		out = append(out, fmt.Sprintf("schema — %s: %d error(s)", p, len(current)))
		details := make([]string, 0, len(current))
		for e := range current {
			details = append(details, e)
		}
		sort.Strings(details)
		if len(details) > deckpack.MaxErrorDetailsPerPart {
			details = details[:deckpack.MaxErrorDetailsPerPart]
		}
		for _, d := range details {
			out = append(out, "  -> "+truncate(d, deckpack.MaxErrorDetailLength))
		}
	}
	return out
}

// ValidateSlide validates a single slide document against the
// presentation schema, with the same strip passes and benign-error filter
// as the package run. Used by callers that want to reject a candidate
// slide before it ever lands in a package. Degrades to valid when the
// schema is unavailable.
func (v *Validator) ValidateSlide(slideXML []byte) (bool, string) {
	if _, err := libxml2.Parse(slideXML); err != nil {
		return false, fmt.Sprintf("malformed xml: %v", err)
	}
	if v.schemaDir == "" {
		return true, ""
	}
	sch, ok := loadSchema(v.schemaDir, schemaFiles["ppt"])
	if !ok {
		return true, ""
	}

	errSet := v.validatePart(sch, "ppt/slides/slide.xml", slideXML)
	var real []string
	for e := range errSet {
		benign := false
		for _, b := range benignErrors {
			if strings.Contains(e, b) {
				benign = true
				break
			}
		}
		if !benign {
			real = append(real, e)
		}
	}
	if len(real) == 0 {
		return true, ""
	}
	sort.Strings(real)
	if len(real) > deckpack.MaxErrorDetailsPerPart {
		real = real[:deckpack.MaxErrorDetailsPerPart]
	}
	return false, strings.Join(real, " | ")
}

// validatePart returns the set of schema error messages for one part.
// Failures of the strip-and-parse pipeline count as errors for the part;
// they are subtracted the same way when the baseline shows them too.
func (v *Validator) validatePart(sch *xsd.Schema, partPath string, data []byte) map[string]struct{} {
	errSet := make(map[string]struct{})

	prepared, err := prepare(partPath, data)
	if err != nil {
		errSet[err.Error()] = struct{}{}
		return errSet
	}

	doc, err := libxml2.Parse(prepared)
	if err != nil {
		errSet[err.Error()] = struct{}{}
		return errSet
	}
	defer doc.Free()

	if err := sch.Validate(doc); err != nil {
		var sv xsd.SchemaValidationError
		if errors.As(err, &sv) {
			for _, e := range sv.Errors() {
				errSet[e.Error()] = struct{}{}
			}
		} else {
			errSet[err.Error()] = struct{}{}
		}
	}
	return errSet
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
