// Package structure runs the battery of consistency checks over a part
// tree. The checks are independent: all of them run and all errors are
// collected. The one exception is well-formedness: when any XML part fails
// to parse, every later check (and the schema phase) is skipped, because
// they all assume a parse tree.
package structure

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

// Result is the outcome of the structural phase.
type Result struct {
	// Errors are the collected violations.
	Errors []string

	// WellFormed is false when any XML part failed to parse. The schema
	// phase must not run in that case.
	WellFormed bool
}

// importantRoots are the root element local names whose parts must be
// declared in the manifest. Document properties are exempt.
var importantRoots = map[string]struct{}{
	"sld":          {},
	"sldLayout":    {},
	"sldMaster":    {},
	"presentation": {},
	"theme":        {},
}

// fileScopeIDs are element local names whose id attribute must be unique
// within their file; globalScopeIDs across the whole package.
var (
	fileScopeIDs   = map[string]struct{}{"sldid": {}, "sp": {}, "pic": {}, "cxnsp": {}, "grpsp": {}}
	globalScopeIDs = map[string]struct{}{"sldmasterid": {}, "sldlayoutid": {}}
)

// Check runs every structural check and collects the violations.
func Check(pkg *deckpack.Package) Result {
	docs := make(map[string]*xmltree.Document)
	var parseErrors []string

	for _, p := range pkg.XMLPaths() {
		data, _ := pkg.Part(p)
		doc, err := xmltree.Parse(data)
		if err != nil {
			parseErrors = append(parseErrors, fmt.Sprintf("malformed xml — %s: %v", p, err))
			continue
		}
		docs[p] = doc
	}
	if len(parseErrors) > 0 {
		return Result{Errors: parseErrors, WellFormed: false}
	}

	var errs []string
	errs = append(errs, checkNamespaces(docs)...)
	errs = append(errs, checkUniqueIDs(docs)...)
	errs = append(errs, checkReferences(pkg, docs)...)
	errs = append(errs, checkManifest(pkg, docs)...)
	errs = append(errs, checkLayoutLinkage(pkg, docs)...)
	errs = append(errs, checkSingleLayout(docs)...)
	errs = append(errs, checkNotesExclusivity(docs)...)
	return Result{Errors: errs, WellFormed: true}
}

// checkNamespaces verifies that compatibility Ignorable attributes only
// list prefixes declared in the root element's scope.
func checkNamespaces(docs map[string]*xmltree.Document) []string {
	var errs []string
	for _, p := range sortedPaths(docs) {
		root := docs[p].Root()
		declared := make(map[string]struct{})
		for _, a := range root.Attrs {
			if a.Prefix == "xmlns" {
				declared[a.Local] = struct{}{}
			}
		}
		for _, a := range root.Attrs {
			if a.IsNamespaceDecl() || !strings.HasSuffix(a.Local, "Ignorable") {
				continue
			}
			for _, prefix := range strings.Fields(a.Value) {
				if _, ok := declared[prefix]; !ok {
					errs = append(errs, fmt.Sprintf(
						"undeclared namespace — %s: prefix %q listed in %s but not declared",
						p, prefix, a.Name()))
				}
			}
		}
	}
	return errs
}

// checkUniqueIDs verifies shape-like ids are unique per file and slide
// master/layout ids are unique across the package.
func checkUniqueIDs(docs map[string]*xmltree.Document) []string {
	type seen struct {
		file string
		tag  string
	}
	var errs []string
	globalIDs := make(map[string]seen)

	for _, p := range sortedPaths(docs) {
		fileIDs := make(map[string]string)
		docs[p].Root().Walk(func(n *xmltree.Node) {
			tag := strings.ToLower(n.Local)
			_, fileScoped := fileScopeIDs[tag]
			_, globalScoped := globalScopeIDs[tag]
			if !fileScoped && !globalScoped {
				return
			}
			id, ok := n.AttrByLocal("id")
			if !ok {
				return
			}
			if globalScoped {
				if prev, dup := globalIDs[id]; dup {
					errs = append(errs, fmt.Sprintf(
						"duplicate id (global) — %s: <%s> id=%q already used in %s (<%s>)",
						p, n.Tag(), id, prev.file, prev.tag))
				} else {
					globalIDs[id] = seen{file: p, tag: n.Tag()}
				}
				return
			}
			if prev, dup := fileIDs[id]; dup {
				errs = append(errs, fmt.Sprintf(
					"duplicate id (file) — %s: <%s> id=%q already used by <%s>",
					p, n.Tag(), id, prev))
			} else {
				fileIDs[id] = n.Tag()
			}
		})
	}
	return errs
}

// checkReferences verifies every internal relationship target resolves to
// an existing part.
func checkReferences(pkg *deckpack.Package, docs map[string]*xmltree.Document) []string {
	var errs []string
	for _, p := range sortedPaths(docs) {
		if !opc.IsRelsPath(p) {
			continue
		}
		data, _ := pkg.Part(p)
		rels, err := opc.ParseRels(p, data)
		if err != nil {
			continue
		}
		for _, r := range rels {
			if r.External || r.Target == "" {
				continue
			}
			if !pkg.HasPart(r.TargetPath) {
				errs = append(errs, fmt.Sprintf(
					"broken reference — %s: %q does not exist", p, r.Target))
			}
		}
	}
	return errs
}

// checkManifest verifies every part whose root element is an important kind
// has a manifest override entry.
func checkManifest(pkg *deckpack.Package, docs map[string]*xmltree.Document) []string {
	manifest, err := opc.LoadManifest(pkg)
	if err != nil {
		return []string{fmt.Sprintf("%s unreadable: %v", deckpack.ManifestPath, err)}
	}
	declared := manifest.Overrides()

	var errs []string
	for _, p := range sortedPaths(docs) {
		if opc.IsRelsPath(p) || p == deckpack.ManifestPath || strings.HasPrefix(p, "docProps/") {
			continue
		}
		if strings.Contains(p, "/_rels/") {
			continue
		}
		root := docs[p].Root()
		if _, important := importantRoots[root.Local]; !important {
			continue
		}
		if _, ok := declared[p]; !ok {
			errs = append(errs, fmt.Sprintf(
				"missing content type — %s (root <%s>) not declared in %s",
				p, root.Local, deckpack.ManifestPath))
		}
	}
	return errs
}

// checkLayoutLinkage verifies every slide master's layout references
// resolve to slide-layout relationships in its relationships file.
func checkLayoutLinkage(pkg *deckpack.Package, docs map[string]*xmltree.Document) []string {
	var errs []string
	for _, p := range sortedPaths(docs) {
		if !strings.HasPrefix(p, "ppt/slideMasters/") || strings.Contains(p, "/_rels/") || !strings.HasSuffix(p, ".xml") {
			continue
		}
		relsPath := opc.RelsPathFor(p)
		relsData, ok := pkg.Part(relsPath)
		if !ok {
			errs = append(errs, fmt.Sprintf("missing relationships file for %s", p))
			continue
		}
		rels, err := opc.ParseRels(relsPath, relsData)
		if err != nil {
			continue
		}
		validRIDs := make(map[string]struct{})
		for _, r := range rels {
			if strings.Contains(r.Type, "slideLayout") {
				validRIDs[r.ID] = struct{}{}
			}
		}
		for _, n := range docs[p].Root().FindAll(opc.NSPresentationML, "sldLayoutId") {
			rid, ok := n.Attr(opc.NSOfficeRels, "id")
			if !ok {
				continue
			}
			if _, valid := validRIDs[rid]; !valid {
				errs = append(errs, fmt.Sprintf(
					"invalid layout id — %s: r:id=%q not found in relationships", p, rid))
			}
		}
	}
	return errs
}

// checkSingleLayout verifies no slide references more than one layout.
func checkSingleLayout(docs map[string]*xmltree.Document) []string {
	var errs []string
	for _, p := range sortedPaths(docs) {
		if !strings.HasPrefix(p, deckpack.SlideRelsDir+"/") || !opc.IsRelsPath(p) {
			continue
		}
		count := 0
		for _, n := range docs[p].Root().FindAll(opc.NSPackageRels, "Relationship") {
			if typ, _ := n.AttrByLocal("Type"); strings.Contains(typ, "slideLayout") {
				count++
			}
		}
		if count > 1 {
			errs = append(errs, fmt.Sprintf(
				"duplicate layouts — %s: %d slideLayout relationships (expected 1)", p, count))
		}
	}
	return errs
}

// checkNotesExclusivity verifies a notes-slide part is referenced by at
// most one slide.
func checkNotesExclusivity(docs map[string]*xmltree.Document) []string {
	refs := make(map[string][]string)
	for _, p := range sortedPaths(docs) {
		if !strings.HasPrefix(p, deckpack.SlideRelsDir+"/") || !opc.IsRelsPath(p) {
			continue
		}
		slide := strings.TrimSuffix(strings.TrimSuffix(path.Base(p), ".rels"), ".xml")
		for _, n := range docs[p].Root().FindAll(opc.NSPackageRels, "Relationship") {
			typ, _ := n.AttrByLocal("Type")
			if !strings.Contains(typ, "notesSlide") {
				continue
			}
			target, _ := n.AttrByLocal("Target")
			target = strings.ReplaceAll(target, "../", "")
			refs[target] = append(refs[target], slide)
		}
	}

	targets := make([]string, 0, len(refs))
	for t := range refs {
		targets = append(targets, t)
	}
	sort.Strings(targets)

	var errs []string
	for _, t := range targets {
		if slides := refs[t]; len(slides) > 1 {
			errs = append(errs, fmt.Sprintf(
				"shared notes slide — %s referenced by %d slides: %s",
				t, len(slides), strings.Join(slides, ", ")))
		}
	}
	return errs
}

func sortedPaths(docs map[string]*xmltree.Document) []string {
	paths := make([]string, 0, len(docs))
	for p := range docs {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
