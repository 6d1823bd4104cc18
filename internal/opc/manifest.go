package opc

import (
	"fmt"
	"strings"

	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// Manifest wraps the parsed content-type manifest part.
type Manifest struct {
	doc *xmltree.Document
}

// LoadManifest parses the [Content_Types].xml part of a package.
func LoadManifest(pkg *deckpack.Package) (*Manifest, error) {
	data, ok := pkg.Part(deckpack.ManifestPath)
	if !ok {
		return nil, fmt.Errorf("%w: %s", deckpack.ErrPartNotFound, deckpack.ManifestPath)
	}
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", deckpack.ManifestPath, err)
	}
	return &Manifest{doc: doc}, nil
}

// Overrides returns the set of part paths with an Override entry, in
// normalized form (no leading slash).
func (m *Manifest) Overrides() map[string]struct{} {
	out := make(map[string]struct{})
	for _, n := range m.doc.Root().FindAll(NSContentTypes, "Override") {
		if part, ok := n.AttrByLocal("PartName"); ok && part != "" {
			out[strings.TrimPrefix(part, "/")] = struct{}{}
		}
	}
	return out
}

// HasOverride reports whether a part path has an Override entry.
func (m *Manifest) HasOverride(partPath string) bool {
	_, ok := m.Overrides()[deckpack.NormalizePath(partPath)]
	return ok
}

// AddOverride appends an Override entry for a part.
func (m *Manifest) AddOverride(partPath, contentType string) {
	root := m.doc.Root()
	root.Children = append(root.Children, &xmltree.Node{
		Kind:  xmltree.KindElement,
		Space: NSContentTypes,
		Local: "Override",
		Attrs: []xmltree.Attr{
			{Local: "PartName", Value: "/" + deckpack.NormalizePath(partPath)},
			{Local: "ContentType", Value: contentType},
		},
	})
}

// RemoveStaleOverrides deletes every Override entry whose part no longer
// exists in the package. Returns the number removed.
func (m *Manifest) RemoveStaleOverrides(pkg *deckpack.Package) int {
	root := m.doc.Root()
	return root.FilterChildren(func(c *xmltree.Node) bool {
		if !c.Is(NSContentTypes, "Override") {
			return true
		}
		part, _ := c.AttrByLocal("PartName")
		return pkg.HasPart(strings.TrimPrefix(part, "/"))
	})
}

// Store serializes the manifest back into the package.
func (m *Manifest) Store(pkg *deckpack.Package) {
	pkg.SetPart(deckpack.ManifestPath, m.doc.Bytes())
}
