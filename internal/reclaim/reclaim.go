// Package reclaim sweeps parts unreachable from the ordered slide list:
// detached slides, their relationship files, and any resource nothing
// references anymore. Removing one file can orphan its own dependents, so
// the resource sweep iterates to a fixpoint.
package reclaim

import (
	"path"
	"strings"

	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// TrashDir is a scratch directory some editors leave behind; its contents
// are always swept.
const TrashDir = "[trash]"

// resourceDirs are the ppt/ subdirectories swept for unreferenced files.
var resourceDirs = []string{"media", "embeddings", "charts", "diagrams", "tags", "drawings", "ink"}

// relsSweepDirs are the subdirectories whose relationship files are removed
// when their owning resource is gone or unreferenced by any slide.
var relsSweepDirs = []string{"charts", "diagrams", "drawings"}

// Clean removes every orphaned part and keeps the manifest in sync.
// It returns the removed part paths in removal order. Running Clean twice
// in a row removes nothing the second time.
func Clean(pkg *deckpack.Package) []string {
	var removed []string

	removed = append(removed, removeOrphanSlides(pkg)...)
	removed = append(removed, removeTrash(pkg)...)

	for {
		batch := removeOrphanRels(pkg)
		graph := opc.BuildGraph(pkg)
		batch = append(batch, removeOrphanResources(pkg, graph.ReferencedPaths())...)
		if len(batch) == 0 {
			break
		}
		removed = append(removed, batch...)
	}

	if len(removed) > 0 {
		if manifest, err := opc.LoadManifest(pkg); err == nil {
			if manifest.RemoveStaleOverrides(pkg) > 0 {
				manifest.Store(pkg)
			}
		}
	}

	return removed
}

// listedSlides returns the slide filenames reachable from the ordered slide
// list: the presentation's sldId entries joined with its relationships
// file.
func listedSlides(pkg *deckpack.Package) map[string]struct{} {
	out := make(map[string]struct{})

	relsData, ok := pkg.Part(deckpack.PresentationRelsPath)
	if !ok {
		return out
	}
	rels, err := opc.ParseRels(deckpack.PresentationRelsPath, relsData)
	if err != nil {
		return out
	}
	ridToSlide := make(map[string]string)
	for _, r := range rels {
		if strings.Contains(r.Type, "slide") && strings.HasPrefix(r.Target, "slides/") {
			ridToSlide[r.ID] = strings.TrimPrefix(r.Target, "slides/")
		}
	}

	presData, ok := pkg.Part(deckpack.PresentationPath)
	if !ok {
		return out
	}
	doc, err := xmltree.Parse(presData)
	if err != nil {
		return out
	}
	for _, n := range doc.Root().FindAll(opc.NSPresentationML, "sldId") {
		rid, _ := n.Attr(opc.NSOfficeRels, "id")
		if name, ok := ridToSlide[rid]; ok {
			out[name] = struct{}{}
		}
	}
	return out
}

// removeOrphanSlides deletes every slide part not present in the ordered
// slide list, together with its relationships file, and prunes the
// presentation's relationships entries pointing at removed slides.
func removeOrphanSlides(pkg *deckpack.Package) []string {
	listed := listedSlides(pkg)
	var removed []string

	prefix := deckpack.SlidesDir + "/"
	for _, p := range pkg.Paths() {
		if !strings.HasPrefix(p, prefix) || strings.Contains(p, "/_rels/") {
			continue
		}
		name := path.Base(p)
		if !strings.HasPrefix(name, "slide") || !strings.HasSuffix(name, ".xml") {
			continue
		}
		if _, ok := listed[name]; ok {
			continue
		}
		pkg.DeletePart(p)
		removed = append(removed, p)

		relsPath := deckpack.SlideRelsDir + "/" + name + ".rels"
		if pkg.DeletePart(relsPath) {
			removed = append(removed, relsPath)
		}
	}

	if len(removed) > 0 {
		pruneSlideRelationships(pkg, listed)
	}
	return removed
}

func pruneSlideRelationships(pkg *deckpack.Package, listed map[string]struct{}) {
	data, ok := pkg.Part(deckpack.PresentationRelsPath)
	if !ok {
		return
	}
	doc, err := xmltree.Parse(data)
	if err != nil {
		return
	}
	n := opc.RemoveRelationships(doc, func(_, _, target string) bool {
		if !strings.HasPrefix(target, "slides/") {
			return false
		}
		_, ok := listed[strings.TrimPrefix(target, "slides/")]
		return !ok
	})
	if n > 0 {
		pkg.SetPart(deckpack.PresentationRelsPath, doc.Indent())
	}
}

func removeTrash(pkg *deckpack.Package) []string {
	var removed []string
	for _, p := range pkg.Paths() {
		if strings.HasPrefix(p, TrashDir+"/") {
			pkg.DeletePart(p)
			removed = append(removed, p)
		}
	}
	return removed
}

// slideReferencedPaths returns the targets of the slide relationship files
// only. Chart, diagram and drawing relationship files are kept solely for
// resources a slide still reaches.
func slideReferencedPaths(pkg *deckpack.Package) map[string]struct{} {
	out := make(map[string]struct{})
	prefix := deckpack.SlideRelsDir + "/"
	for _, p := range pkg.Paths() {
		if !strings.HasPrefix(p, prefix) || !opc.IsRelsPath(p) {
			continue
		}
		data, _ := pkg.Part(p)
		rels, err := opc.ParseRels(p, data)
		if err != nil {
			continue
		}
		for _, r := range rels {
			if !r.External && r.TargetPath != "" {
				out[r.TargetPath] = struct{}{}
			}
		}
	}
	return out
}

// removeOrphanRels deletes relationship files of chart, diagram and drawing
// resources whose owning part is gone or no longer reachable from a slide.
func removeOrphanRels(pkg *deckpack.Package) []string {
	slideReferenced := slideReferencedPaths(pkg)
	var removed []string

	for _, dir := range relsSweepDirs {
		prefix := "ppt/" + dir + "/_rels/"
		for _, p := range pkg.Paths() {
			if !strings.HasPrefix(p, prefix) || !opc.IsRelsPath(p) {
				continue
			}
			owner := opc.OwnerOf(p)
			_, referenced := slideReferenced[owner]
			if pkg.HasPart(owner) && referenced {
				continue
			}
			pkg.DeletePart(p)
			removed = append(removed, p)
		}
	}
	return removed
}

// removeOrphanResources deletes unreferenced resource files, orphan themes
// with their relationship files, and orphan notes slides.
func removeOrphanResources(pkg *deckpack.Package, referenced map[string]struct{}) []string {
	var removed []string

	remove := func(p string) {
		if pkg.DeletePart(p) {
			removed = append(removed, p)
		}
	}

	for _, dir := range resourceDirs {
		prefix := "ppt/" + dir + "/"
		for _, p := range pkg.Paths() {
			if !strings.HasPrefix(p, prefix) || strings.Contains(p, "/_rels/") {
				continue
			}
			if _, ok := referenced[p]; !ok {
				remove(p)
			}
		}
	}

	for _, p := range pkg.Paths() {
		if !strings.HasPrefix(p, "ppt/theme/theme") || !strings.HasSuffix(p, ".xml") || strings.Contains(p, "/_rels/") {
			continue
		}
		if _, ok := referenced[p]; !ok {
			remove(p)
			remove("ppt/theme/_rels/" + path.Base(p) + ".rels")
		}
	}

	notesPrefix := "ppt/notesSlides/"
	for _, p := range pkg.Paths() {
		if !strings.HasPrefix(p, notesPrefix) || strings.Contains(p, "/_rels/") || !strings.HasSuffix(p, ".xml") {
			continue
		}
		if _, ok := referenced[p]; !ok {
			remove(p)
		}
	}
	for _, p := range pkg.Paths() {
		if !strings.HasPrefix(p, notesPrefix+"_rels/") || !opc.IsRelsPath(p) {
			continue
		}
		if !pkg.HasPart(opc.OwnerOf(p)) {
			remove(p)
		}
	}

	return removed
}
