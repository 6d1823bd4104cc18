package schema

import (
	"strings"

	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// RepairWhitespace sets xml:space="preserve" on every visible-text run
// whose text begins or ends with a space or tab and lacks the flag.
// Without it the rendering application silently drops those spaces on
// open. Mutates the package in place and returns the number of repairs;
// the count is a diagnostic, never a failure.
func RepairWhitespace(pkg *deckpack.Package) int {
	repairs := 0
	for _, p := range pkg.XMLPaths() {
		data, _ := pkg.Part(p)
		doc, err := xmltree.Parse(data)
		if err != nil {
			continue
		}
		modified := false
		doc.Root().Walk(func(n *xmltree.Node) {
			if n.Local != "t" {
				return
			}
			text := n.Text()
			if text == "" || !hasEdgeSpace(text) {
				return
			}
			if v, _ := n.Attr(xmltree.XMLNamespace, "space"); v != "preserve" {
				n.SetAttr(xmltree.XMLNamespace, "xml", "space", "preserve")
				repairs++
				modified = true
			}
		})
		if modified {
			pkg.SetPart(p, doc.Indent())
		}
	}
	return repairs
}

func hasEdgeSpace(s string) bool {
	return strings.HasPrefix(s, " ") || strings.HasPrefix(s, "\t") ||
		strings.HasSuffix(s, " ") || strings.HasSuffix(s, "\t")
}
