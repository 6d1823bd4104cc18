package opc

import (
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// Relationship is one directed, typed link from a part to another part or
// to an external resource.
type Relationship struct {
	// RelsPath is the relationships file declaring the link.
	RelsPath string

	// Owner is the part the relationships file belongs to; empty for the
	// package root .rels.
	Owner string

	// ID is the relationship id, unique within one relationships file.
	ID string

	// Type is the relationship type URI.
	Type string

	// Target is the target as written in the file.
	Target string

	// External marks scheme-prefixed targets, which are never resolved
	// against the part tree.
	External bool

	// TargetPath is the resolved absolute part path; empty for external
	// targets.
	TargetPath string
}

// IsRelsPath reports whether a part path names a relationships file.
func IsRelsPath(p string) bool {
	return strings.HasSuffix(p, ".rels")
}

// OwnerOf returns the part a relationships file belongs to. The package
// root "_rels/.rels" has no owning part, reported as "".
func OwnerOf(relsPath string) string {
	dir := path.Dir(relsPath) // ".../_rels"
	base := strings.TrimSuffix(path.Base(relsPath), ".rels")
	parent := path.Dir(dir)
	if base == "" || base == "." {
		return ""
	}
	if parent == "." {
		return base
	}
	return parent + "/" + base
}

// RelsPathFor returns the relationships file path for a part.
func RelsPathFor(partPath string) string {
	dir := path.Dir(partPath)
	if dir == "." {
		return "_rels/" + path.Base(partPath) + ".rels"
	}
	return dir + "/_rels/" + path.Base(partPath) + ".rels"
}

// IsExternalTarget reports whether a relationship target points outside the
// package (scheme-prefixed, e.g. http or mailto).
func IsExternalTarget(target string) bool {
	return strings.Contains(target, "://") || strings.HasPrefix(target, "mailto:")
}

// ResolveTarget resolves a Target attribute to an absolute part path using
// the standard resolution rules: a leading "/" is root-relative, the
// package root ".rels" resolves against the root, everything else resolves
// against the directory of the relationships file's owning part.
func ResolveTarget(relsPath, target string) string {
	if strings.HasPrefix(target, "/") {
		return deckpack.NormalizePath(target)
	}
	owner := OwnerOf(relsPath)
	if owner == "" {
		return deckpack.NormalizePath(target)
	}
	return deckpack.NormalizePath(path.Join(path.Dir(owner), target))
}

// ParseRels decodes one relationships part.
func ParseRels(relsPath string, data []byte) ([]Relationship, error) {
	doc, err := xmltree.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", relsPath, err)
	}
	var rels []Relationship
	for _, n := range doc.Root().FindAll(NSPackageRels, "Relationship") {
		id, _ := n.AttrByLocal("Id")
		typ, _ := n.AttrByLocal("Type")
		target, _ := n.AttrByLocal("Target")
		mode, _ := n.AttrByLocal("TargetMode")
		r := Relationship{
			RelsPath: relsPath,
			Owner:    OwnerOf(relsPath),
			ID:       id,
			Type:     typ,
			Target:   target,
			External: mode == "External" || IsExternalTarget(target),
		}
		if !r.External && target != "" {
			r.TargetPath = ResolveTarget(relsPath, target)
		}
		rels = append(rels, r)
	}
	return rels, nil
}

// Graph is the reference graph between parts, built from every
// relationships file of a package.
type Graph struct {
	rels   []Relationship
	byRels map[string][]Relationship
}

// BuildGraph scans every relationships part of the package. Relationships
// files that fail to parse contribute nothing; the structural validator is
// responsible for reporting them.
func BuildGraph(pkg *deckpack.Package) *Graph {
	g := &Graph{byRels: make(map[string][]Relationship)}
	for _, p := range pkg.Paths() {
		if !IsRelsPath(p) {
			continue
		}
		data, _ := pkg.Part(p)
		rels, err := ParseRels(p, data)
		if err != nil {
			continue
		}
		g.rels = append(g.rels, rels...)
		g.byRels[p] = rels
	}
	return g
}

// All returns every relationship in the package.
func (g *Graph) All() []Relationship {
	return g.rels
}

// FromFile returns the relationships declared by one relationships file.
func (g *Graph) FromFile(relsPath string) []Relationship {
	return g.byRels[deckpack.NormalizePath(relsPath)]
}

// ReferencedPaths returns the closure of every part path any relationships
// file points to. External targets are excluded.
func (g *Graph) ReferencedPaths() map[string]struct{} {
	out := make(map[string]struct{})
	for _, r := range g.rels {
		if r.External || r.TargetPath == "" {
			continue
		}
		out[r.TargetPath] = struct{}{}
	}
	return out
}

var ridPattern = regexp.MustCompile(`^rId(\d+)$`)

// NextRelationshipID allocates a fresh id for a relationships file: the
// maximum existing numeric suffix plus one, or rId1 when none exist.
func NextRelationshipID(rels []Relationship) string {
	max := 0
	for _, r := range rels {
		if m := ridPattern.FindStringSubmatch(r.ID); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return "rId" + strconv.Itoa(max+1)
}

// AppendRelationship adds a relationship element to a parsed relationships
// document, reusing the document's default namespace.
func AppendRelationship(doc *xmltree.Document, id, relType, target string) {
	root := doc.Root()
	rel := &xmltree.Node{
		Kind:  xmltree.KindElement,
		Space: NSPackageRels,
		Local: "Relationship",
		Attrs: []xmltree.Attr{
			{Local: "Id", Value: id},
			{Local: "Type", Value: relType},
			{Local: "Target", Value: target},
		},
	}
	root.Children = append(root.Children, rel)
}

// RemoveRelationships deletes every relationship of a parsed relationships
// document for which remove returns true. Returns the number removed.
func RemoveRelationships(doc *xmltree.Document, remove func(id, relType, target string) bool) int {
	root := doc.Root()
	return root.FilterChildren(func(c *xmltree.Node) bool {
		if !c.Is(NSPackageRels, "Relationship") {
			return true
		}
		id, _ := c.AttrByLocal("Id")
		typ, _ := c.AttrByLocal("Type")
		target, _ := c.AttrByLocal("Target")
		return !remove(id, typ, target)
	})
}
