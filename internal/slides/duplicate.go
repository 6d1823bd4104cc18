package slides

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

var slideNamePattern = regexp.MustCompile(`^slide(\d+)\.xml$`)

// Duplicate clones a slide part: the part bytes verbatim, its relationships
// minus any notes-slide link (two slides must never share one notes part),
// a manifest override for the clone, and a fresh relationship from the
// presentation part. The ordered slide list is not touched; the caller
// inserts the returned identifiers via Insert.
func Duplicate(pkg *deckpack.Package, sourceFilename string) (deckpack.DuplicationResult, error) {
	var res deckpack.DuplicationResult

	sourcePath := deckpack.SlidesDir + "/" + sourceFilename
	sourceData, ok := pkg.Part(sourcePath)
	if !ok {
		return res, fmt.Errorf("%w: %s", deckpack.ErrSourceNotFound, sourceFilename)
	}

	destFilename := nextSlideFilename(pkg)
	destPath := deckpack.SlidesDir + "/" + destFilename

	clone := make([]byte, len(sourceData))
	copy(clone, sourceData)
	pkg.SetPart(destPath, clone)

	if err := copyRelationships(pkg, sourceFilename, destFilename); err != nil {
		return res, err
	}

	if err := registerInManifest(pkg, destPath); err != nil {
		return res, err
	}

	rid, err := registerInPresentationRels(pkg, destFilename)
	if err != nil {
		return res, err
	}

	slideID, err := NextSlideID(pkg)
	if err != nil {
		return res, err
	}

	res.NewFilename = destFilename
	res.NewSlideID = slideID
	res.NewRelationshipID = rid
	return res, nil
}

// nextSlideFilename allocates the next unused slideN.xml name: maximum
// existing N plus one, starting at 1.
func nextSlideFilename(pkg *deckpack.Package) string {
	max := 0
	prefix := deckpack.SlidesDir + "/"
	for _, p := range pkg.Paths() {
		if !strings.HasPrefix(p, prefix) {
			continue
		}
		if m := slideNamePattern.FindStringSubmatch(strings.TrimPrefix(p, prefix)); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > max {
				max = n
			}
		}
	}
	return "slide" + strconv.Itoa(max+1) + ".xml"
}

// copyRelationships copies the source slide's relationships file, dropping
// notes-slide relationships. A source without a relationships file is
// legal.
func copyRelationships(pkg *deckpack.Package, sourceFilename, destFilename string) error {
	sourceRels := deckpack.SlideRelsDir + "/" + sourceFilename + ".rels"
	data, ok := pkg.Part(sourceRels)
	if !ok {
		return nil
	}
	doc, err := xmltree.Parse(data)
	if err != nil {
		return fmt.Errorf("parse %s: %w", sourceRels, err)
	}
	opc.RemoveRelationships(doc, func(_, relType, _ string) bool {
		return strings.Contains(relType, "notesSlide")
	})
	pkg.SetPart(deckpack.SlideRelsDir+"/"+destFilename+".rels", doc.Indent())
	return nil
}

func registerInManifest(pkg *deckpack.Package, destPath string) error {
	manifest, err := opc.LoadManifest(pkg)
	if err != nil {
		return err
	}
	if !manifest.HasOverride(destPath) {
		manifest.AddOverride(destPath, opc.ContentTypeSlide)
		manifest.Store(pkg)
	}
	return nil
}

func registerInPresentationRels(pkg *deckpack.Package, destFilename string) (string, error) {
	data, ok := pkg.Part(deckpack.PresentationRelsPath)
	if !ok {
		return "", fmt.Errorf("%w: %s", deckpack.ErrPartNotFound, deckpack.PresentationRelsPath)
	}
	rels, err := opc.ParseRels(deckpack.PresentationRelsPath, data)
	if err != nil {
		return "", err
	}

	target := "slides/" + destFilename
	for _, r := range rels {
		if r.Target == target {
			return r.ID, nil
		}
	}

	rid := opc.NextRelationshipID(rels)
	doc, err := xmltree.Parse(data)
	if err != nil {
		return "", fmt.Errorf("parse %s: %w", deckpack.PresentationRelsPath, err)
	}
	opc.AppendRelationship(doc, rid, opc.RelTypeSlide, target)
	pkg.SetPart(deckpack.PresentationRelsPath, doc.Indent())
	return rid, nil
}
