// Package normalize converts package parts between the condensed canonical
// form stored in archives and the pretty-printed form handed to editors.
//
// Normalization is deliberately permissive: a part that does not parse as
// XML is passed through untouched, since media parts are legitimately
// binary. Validation, by contrast, treats a parse failure as an error; that
// asymmetry is intentional.
package normalize

import (
	"strings"

	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// smartQuoteReplacements maps the four smart-quote code points to numeric
// character references. The editing pipeline around the engine is
// character-sensitive to these, so they travel as references in the
// editable form.
var smartQuoteReplacements = [][2]string{
	{"“", "&#x201C;"}, // left double quotation mark
	{"”", "&#x201D;"}, // right double quotation mark
	{"‘", "&#x2018;"}, // left single quotation mark
	{"’", "&#x2019;"}, // right single quotation mark
}

// EscapeSmartQuotes replaces smart-quote code points with numeric character
// references. Idempotent: the references contain no smart-quote code
// points.
func EscapeSmartQuotes(data []byte) []byte {
	s := string(data)
	for _, r := range smartQuoteReplacements {
		s = strings.ReplaceAll(s, r[0], r[1])
	}
	return []byte(s)
}

// RestoreSmartQuotes replaces the numeric character references back with
// the original code points. Exact inverse of EscapeSmartQuotes.
func RestoreSmartQuotes(data []byte) []byte {
	s := string(data)
	for _, r := range smartQuoteReplacements {
		s = strings.ReplaceAll(s, r[1], r[0])
	}
	return []byte(s)
}

// Prettify re-serializes an XML part with two-space indentation. Parts that
// do not parse are returned unchanged.
func Prettify(data []byte) []byte {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return data
	}
	return doc.Indent()
}

// Condense removes whitespace-only text nodes and comments from every
// element except visible-text runs (local name "t"), then serializes
// compactly. Content inside run elements is never altered. Parts that do
// not parse are returned unchanged.
func Condense(data []byte) []byte {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return data
	}
	root := doc.Root()
	root.Walk(func(n *xmltree.Node) {
		if n.Local == "t" {
			return
		}
		n.FilterChildren(func(c *xmltree.Node) bool {
			switch c.Kind {
			case xmltree.KindComment:
				return false
			case xmltree.KindText:
				return strings.TrimSpace(c.Data) != ""
			}
			return true
		})
	})
	// Prolog comments are formatting too.
	kept := doc.Nodes[:0]
	for _, n := range doc.Nodes {
		if n.Kind == xmltree.KindComment {
			continue
		}
		if n.Kind == xmltree.KindText && strings.TrimSpace(n.Data) == "" {
			continue
		}
		kept = append(kept, n)
	}
	doc.Nodes = kept
	return doc.Bytes()
}

// PrettifyAll rewrites every XML part of a package into the editable form:
// pretty-printed with smart quotes escaped. Applied immediately after
// unpack, before external edits land.
func PrettifyAll(pkg *deckpack.Package) {
	for _, p := range pkg.XMLPaths() {
		data, _ := pkg.Part(p)
		pkg.SetPart(p, EscapeSmartQuotes(Prettify(data)))
	}
}

// CondenseAll rewrites every XML part of a package into the canonical form:
// smart quotes restored, whitespace condensed.
func CondenseAll(pkg *deckpack.Package) {
	for _, p := range pkg.XMLPaths() {
		data, _ := pkg.Part(p)
		pkg.SetPart(p, Condense(RestoreSmartQuotes(data)))
	}
}
