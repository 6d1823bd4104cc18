package schema

import (
	"regexp"
	"strings"

	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/internal/xmltree"
)

var templateTagPattern = regexp.MustCompile(`\{\{[^}]*\}\}`)

// stripTemplateTags removes {{...}} templating placeholders from text
// content outside visible-text runs. The placeholders drive the templating
// layer upstream but are not valid against the schemas.
func stripTemplateTags(root *xmltree.Node) {
	root.Walk(func(n *xmltree.Node) {
		if n.Local == "t" {
			return
		}
		for _, c := range n.Children {
			if c.Kind == xmltree.KindText && templateTagPattern.MatchString(c.Data) {
				c.Data = templateTagPattern.ReplaceAllString(c.Data, "")
			}
		}
	})
}

// stripIgnorable removes the markup-compatibility Ignorable attribute from
// the root element; the schemas do not describe it.
func stripIgnorable(root *xmltree.Node) {
	root.RemoveAttr(opc.NSMarkupCompat, "Ignorable")
}

// stripNonStandard removes attributes and elements whose namespace is not
// part of the standard document schemas. Vendor extensions live in
// namespaces the public schemas cannot describe; validating them produces
// only false positives. Applied to main-document parts only.
func stripNonStandard(root *xmltree.Node) {
	root.Walk(func(n *xmltree.Node) {
		kept := n.Attrs[:0]
		for _, a := range n.Attrs {
			if !a.IsNamespaceDecl() && a.Space != "" {
				if _, ok := opc.StandardNamespaces[a.Space]; !ok {
					continue
				}
			}
			kept = append(kept, a)
		}
		n.Attrs = kept
	})
	removeNonStandardElements(root)
}

func removeNonStandardElements(n *xmltree.Node) {
	n.FilterChildren(func(c *xmltree.Node) bool {
		if c.Kind != xmltree.KindElement || c.Space == "" {
			return true
		}
		_, ok := opc.StandardNamespaces[c.Space]
		return ok
	})
	for _, c := range n.Children {
		if c.Kind == xmltree.KindElement {
			removeNonStandardElements(c)
		}
	}
}

// prepare parses a part and applies the strip passes: template
// placeholders, the Ignorable attribute, and (for main-document parts)
// vendor-extension namespaces. Returns the serialized document ready for
// schema validation.
func prepare(partPath string, data []byte) ([]byte, error) {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, err
	}
	root := doc.Root()
	stripTemplateTags(root)
	stripIgnorable(root)
	if strings.HasPrefix(partPath, "ppt/") {
		stripNonStandard(root)
	}
	return doc.Bytes(), nil
}
