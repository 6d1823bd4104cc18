// Package slides implements slide-level operations: the ordered slide list
// of the presentation part, slide duplication and detachment.
package slides

import (
	"fmt"
	"strconv"

	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// List returns the ordered slide list of the presentation part.
func List(pkg *deckpack.Package) ([]deckpack.SlideEntry, error) {
	doc, err := presentationDoc(pkg)
	if err != nil {
		return nil, err
	}
	var entries []deckpack.SlideEntry
	for _, n := range slideIDNodes(doc) {
		entries = append(entries, entryOf(n))
	}
	return entries, nil
}

// Insert adds an entry to the ordered slide list at a 1-based position
// clamped to the valid range. A negative position appends.
func Insert(pkg *deckpack.Package, slideID int, relID string, position int) error {
	doc, err := presentationDoc(pkg)
	if err != nil {
		return err
	}
	list := slideIDList(doc)
	if list == nil {
		return fmt.Errorf("%w: presentation has no slide id list", deckpack.ErrPartNotFound)
	}

	entries := list.Elements()
	idx := len(entries)
	if position >= 0 {
		idx = position - 1
		if idx < 0 {
			idx = 0
		}
		if idx > len(entries) {
			idx = len(entries)
		}
	}

	entry := &xmltree.Node{
		Kind:   xmltree.KindElement,
		Space:  opc.NSPresentationML,
		Prefix: listPrefix(list, entries),
		Local:  "sldId",
		Attrs: []xmltree.Attr{
			{Local: "id", Value: strconv.Itoa(slideID)},
			{Space: opc.NSOfficeRels, Prefix: "r", Local: "id", Value: relID},
		},
	}

	// Rebuild the list from its element entries; whitespace between them
	// is formatting and is regenerated on serialization.
	rebuilt := make([]*xmltree.Node, 0, len(entries)+1)
	rebuilt = append(rebuilt, entries[:idx]...)
	rebuilt = append(rebuilt, entry)
	rebuilt = append(rebuilt, entries[idx:]...)
	list.Children = make([]*xmltree.Node, len(rebuilt))
	for i, n := range rebuilt {
		list.Children[i] = n
	}

	pkg.SetPart(deckpack.PresentationPath, doc.Indent())
	return nil
}

// Remove detaches a slide from the ordered slide list. The physical part is
// left in place and becomes an orphan for the next clean pass.
func Remove(pkg *deckpack.Package, filename string) error {
	doc, err := presentationDoc(pkg)
	if err != nil {
		return err
	}
	list := slideIDList(doc)
	if list == nil {
		return fmt.Errorf("%w: presentation has no slide id list", deckpack.ErrPartNotFound)
	}

	rids := relationshipIDsFor(pkg, filename)
	if len(rids) == 0 {
		return fmt.Errorf("%w: %s", deckpack.ErrSourceNotFound, filename)
	}

	removed := list.FilterChildren(func(c *xmltree.Node) bool {
		if !c.Is(opc.NSPresentationML, "sldId") {
			return true
		}
		rid, _ := c.Attr(opc.NSOfficeRels, "id")
		_, drop := rids[rid]
		return !drop
	})
	if removed == 0 {
		return fmt.Errorf("%w: %s is not in the slide list", deckpack.ErrSourceNotFound, filename)
	}

	pkg.SetPart(deckpack.PresentationPath, doc.Indent())
	return nil
}

// NextSlideID allocates the next numeric slide id: maximum existing plus
// one, or the fixed floor when the list is empty.
func NextSlideID(pkg *deckpack.Package) (int, error) {
	doc, err := presentationDoc(pkg)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, n := range slideIDNodes(doc) {
		if v, ok := n.AttrByLocal("id"); ok {
			if id, err := strconv.Atoi(v); err == nil && id > max {
				max = id
			}
		}
	}
	if max == 0 {
		return deckpack.FirstSlideID, nil
	}
	return max + 1, nil
}

// relationshipIDsFor maps a slide filename to the relationship ids reaching
// it from the presentation's relationships file.
func relationshipIDsFor(pkg *deckpack.Package, filename string) map[string]struct{} {
	out := make(map[string]struct{})
	data, ok := pkg.Part(deckpack.PresentationRelsPath)
	if !ok {
		return out
	}
	rels, err := opc.ParseRels(deckpack.PresentationRelsPath, data)
	if err != nil {
		return out
	}
	want := deckpack.SlidesDir + "/" + filename
	for _, r := range rels {
		if !r.External && r.TargetPath == want {
			out[r.ID] = struct{}{}
		}
	}
	return out
}

func presentationDoc(pkg *deckpack.Package) (*xmltree.Document, error) {
	data, ok := pkg.Part(deckpack.PresentationPath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", deckpack.ErrPartNotFound, deckpack.PresentationPath)
	}
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", deckpack.PresentationPath, err)
	}
	return doc, nil
}

func slideIDList(doc *xmltree.Document) *xmltree.Node {
	lists := doc.Root().FindAll(opc.NSPresentationML, "sldIdLst")
	if len(lists) == 0 {
		return nil
	}
	return lists[0]
}

func slideIDNodes(doc *xmltree.Document) []*xmltree.Node {
	list := slideIDList(doc)
	if list == nil {
		return nil
	}
	var out []*xmltree.Node
	for _, c := range list.Elements() {
		if c.Is(opc.NSPresentationML, "sldId") {
			out = append(out, c)
		}
	}
	return out
}

func entryOf(n *xmltree.Node) deckpack.SlideEntry {
	e := deckpack.SlideEntry{}
	if v, ok := n.AttrByLocal("id"); ok {
		e.SlideID, _ = strconv.Atoi(v)
	}
	e.RelationshipID, _ = n.Attr(opc.NSOfficeRels, "id")
	return e
}

// listPrefix picks the prefix for a new slide list entry: match the
// existing entries, falling back to the list element's own prefix.
func listPrefix(list *xmltree.Node, entries []*xmltree.Node) string {
	for _, e := range entries {
		if e.Prefix != "" {
			return e.Prefix
		}
	}
	return list.Prefix
}
