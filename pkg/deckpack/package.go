package deckpack

import (
	"path"
	"sort"
	"strings"
)

// Well-known part paths inside a presentation package.
const (
	// ManifestPath is the content-type manifest declaring every other part.
	ManifestPath = "[Content_Types].xml"

	// PresentationPath is the primary document part holding the ordered
	// slide list.
	PresentationPath = "ppt/presentation.xml"

	// PresentationRelsPath is the relationships file of the primary
	// document part.
	PresentationRelsPath = "ppt/_rels/presentation.xml.rels"

	// SlidesDir is the directory holding slide parts.
	SlidesDir = "ppt/slides"

	// SlideRelsDir is the directory holding per-slide relationships files.
	SlideRelsDir = "ppt/slides/_rels"
)

// Package is the in-memory part tree of one presentation archive: a mapping
// from part path (e.g. "ppt/slides/slide3.xml") to raw bytes.
//
// Paths are normalized to forward slashes without a leading slash. Iteration
// via Paths is deterministic (sorted). A Package holds no global state and is
// not safe for concurrent mutation; each engine invocation must own its own
// Package.
type Package struct {
	parts map[string][]byte
}

// NewPackage creates an empty part tree.
func NewPackage() *Package {
	return &Package{parts: make(map[string][]byte)}
}

// NormalizePath converts a part path to its canonical form: forward slashes,
// no leading slash, cleaned of "." and ".." segments.
func NormalizePath(p string) string {
	p = strings.ReplaceAll(p, "\\", "/")
	p = path.Clean("/" + p)
	return strings.TrimPrefix(p, "/")
}

// Part returns the bytes of a part and whether it exists.
func (p *Package) Part(partPath string) ([]byte, bool) {
	data, ok := p.parts[NormalizePath(partPath)]
	return data, ok
}

// SetPart stores or replaces a part.
func (p *Package) SetPart(partPath string, data []byte) {
	p.parts[NormalizePath(partPath)] = data
}

// DeletePart removes a part. It returns true if the part existed.
func (p *Package) DeletePart(partPath string) bool {
	key := NormalizePath(partPath)
	_, ok := p.parts[key]
	delete(p.parts, key)
	return ok
}

// HasPart reports whether a part exists.
func (p *Package) HasPart(partPath string) bool {
	_, ok := p.parts[NormalizePath(partPath)]
	return ok
}

// Len returns the number of parts.
func (p *Package) Len() int {
	return len(p.parts)
}

// Paths returns every part path in sorted order.
func (p *Package) Paths() []string {
	paths := make([]string, 0, len(p.parts))
	for k := range p.parts {
		paths = append(paths, k)
	}
	sort.Strings(paths)
	return paths
}

// XMLPaths returns every part path ending in .xml or .rels, sorted. These are
// the parts the normalizer and validators operate on; everything else is
// treated as binary media.
func (p *Package) XMLPaths() []string {
	var paths []string
	for k := range p.parts {
		if strings.HasSuffix(k, ".xml") || strings.HasSuffix(k, ".rels") {
			paths = append(paths, k)
		}
	}
	sort.Strings(paths)
	return paths
}

// Clone returns a deep copy of the part tree. Used to keep a baseline
// package untouched while a candidate is mutated.
func (p *Package) Clone() *Package {
	clone := NewPackage()
	for k, v := range p.parts {
		data := make([]byte, len(v))
		copy(data, v)
		clone.parts[k] = data
	}
	return clone
}
