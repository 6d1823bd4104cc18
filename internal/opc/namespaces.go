// Package opc implements the Open Packaging Conventions layer of a
// presentation package: namespace vocabulary, relationship files, target
// resolution and the reference graph between parts.
package opc

import "github.com/vvka-141/deckpack/internal/xmltree"

// Namespace URIs of the package and document schemas.
const (
	NSPackageRels    = "http://schemas.openxmlformats.org/package/2006/relationships"
	NSOfficeRels     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	NSContentTypes   = "http://schemas.openxmlformats.org/package/2006/content-types"
	NSPresentationML = "http://schemas.openxmlformats.org/presentationml/2006/main"
	NSDrawingML      = "http://schemas.openxmlformats.org/drawingml/2006/main"
	NSMarkupCompat   = "http://schemas.openxmlformats.org/markup-compatibility/2006"
)

// Relationship type URIs the engine dispatches on.
const (
	RelTypeSlide       = NSOfficeRels + "/slide"
	RelTypeSlideLayout = NSOfficeRels + "/slideLayout"
	RelTypeNotesSlide  = NSOfficeRels + "/notesSlide"
)

// ContentTypeSlide is the manifest content type of a slide part.
const ContentTypeSlide = "application/vnd.openxmlformats-officedocument.presentationml.slide+xml"

// StandardNamespaces is the set of namespaces the public document schemas
// describe. Anything outside this set is a vendor extension and is stripped
// before schema validation of main-document parts.
var StandardNamespaces = map[string]struct{}{
	"http://schemas.openxmlformats.org/officeDocument/2006/math":          {},
	"http://schemas.openxmlformats.org/officeDocument/2006/relationships": {},
	"http://schemas.openxmlformats.org/schemaLibrary/2006/main":           {},
	"http://schemas.openxmlformats.org/drawingml/2006/main":               {},
	"http://schemas.openxmlformats.org/drawingml/2006/chart":              {},
	"http://schemas.openxmlformats.org/drawingml/2006/chartDrawing":       {},
	"http://schemas.openxmlformats.org/drawingml/2006/diagram":            {},
	"http://schemas.openxmlformats.org/drawingml/2006/picture":            {},
	"http://schemas.openxmlformats.org/drawingml/2006/spreadsheetDrawing": {},
	"http://schemas.openxmlformats.org/drawingml/2006/wordprocessingDrawing": {},
	"http://schemas.openxmlformats.org/wordprocessingml/2006/main":           {},
	"http://schemas.openxmlformats.org/presentationml/2006/main":             {},
	"http://schemas.openxmlformats.org/spreadsheetml/2006/main":              {},
	"http://schemas.openxmlformats.org/officeDocument/2006/sharedTypes":      {},
	xmltree.XMLNamespace: {},
}
