package opc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/deckpack/internal/xmltree"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

func relsXML(body string) []byte {
	return []byte(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?><Relationships xmlns="` + NSPackageRels + `">` + body + `</Relationships>`)
}

func TestOwnerOf(t *testing.T) {
	tests := []struct {
		relsPath string
		want     string
	}{
		{"_rels/.rels", ""},
		{"ppt/_rels/presentation.xml.rels", "ppt/presentation.xml"},
		{"ppt/slides/_rels/slide1.xml.rels", "ppt/slides/slide1.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.relsPath, func(t *testing.T) {
			assert.Equal(t, tt.want, OwnerOf(tt.relsPath))
		})
	}
}

func TestRelsPathFor(t *testing.T) {
	assert.Equal(t, "ppt/slides/_rels/slide1.xml.rels", RelsPathFor("ppt/slides/slide1.xml"))
	assert.Equal(t, "_rels/root.xml.rels", RelsPathFor("root.xml"))
}

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name     string
		relsPath string
		target   string
		want     string
	}{
		{"relative to owner dir", "ppt/_rels/presentation.xml.rels", "slides/slide1.xml", "ppt/slides/slide1.xml"},
		{"parent traversal", "ppt/slides/_rels/slide1.xml.rels", "../media/image1.png", "ppt/media/image1.png"},
		{"root relative", "ppt/slides/_rels/slide1.xml.rels", "/docProps/app.xml", "docProps/app.xml"},
		{"package root rels", "_rels/.rels", "ppt/presentation.xml", "ppt/presentation.xml"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveTarget(tt.relsPath, tt.target))
		})
	}
}

func TestParseRels(t *testing.T) {
	data := relsXML(`<Relationship Id="rId1" Type="` + RelTypeSlideLayout + `" Target="../slideLayouts/slideLayout1.xml"/>` +
		`<Relationship Id="rId2" Type="http://hyperlink" Target="https://example.com/" TargetMode="External"/>`)

	rels, err := ParseRels("ppt/slides/_rels/slide1.xml.rels", data)
	require.NoError(t, err)
	require.Len(t, rels, 2)

	assert.Equal(t, "rId1", rels[0].ID)
	assert.Equal(t, "ppt/slides/slide1.xml", rels[0].Owner)
	assert.False(t, rels[0].External)
	assert.Equal(t, "ppt/slideLayouts/slideLayout1.xml", rels[0].TargetPath)

	assert.True(t, rels[1].External)
	assert.Empty(t, rels[1].TargetPath)
}

func TestBuildGraph_SkipsUnparseable(t *testing.T) {
	pkg := deckpack.NewPackage()
	pkg.SetPart("ppt/_rels/presentation.xml.rels", relsXML(`<Relationship Id="rId1" Type="`+RelTypeSlide+`" Target="slides/slide1.xml"/>`))
	pkg.SetPart("ppt/slides/_rels/slide1.xml.rels", []byte("<broken"))

	g := BuildGraph(pkg)
	assert.Len(t, g.All(), 1)
	assert.Empty(t, g.FromFile("ppt/slides/_rels/slide1.xml.rels"))

	refs := g.ReferencedPaths()
	_, ok := refs["ppt/slides/slide1.xml"]
	assert.True(t, ok)
}

func TestNextRelationshipID(t *testing.T) {
	tests := []struct {
		name string
		ids  []string
		want string
	}{
		{"empty", nil, "rId1"},
		{"sequential", []string{"rId1", "rId2"}, "rId3"},
		{"gap", []string{"rId1", "rId7"}, "rId8"},
		{"non numeric ignored", []string{"rIdX", "rId3"}, "rId4"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var rels []Relationship
			for _, id := range tt.ids {
				rels = append(rels, Relationship{ID: id})
			}
			assert.Equal(t, tt.want, NextRelationshipID(rels))
		})
	}
}

func TestAppendAndRemoveRelationships(t *testing.T) {
	doc, err := xmltree.Parse(relsXML(`<Relationship Id="rId1" Type="T1" Target="a.xml"/>`))
	require.NoError(t, err)

	AppendRelationship(doc, "rId2", "T2", "b.xml")

	rels, err := ParseRels("ppt/_rels/presentation.xml.rels", doc.Bytes())
	require.NoError(t, err)
	require.Len(t, rels, 2)
	assert.Equal(t, "b.xml", rels[1].Target)

	removed := RemoveRelationships(doc, func(id, relType, target string) bool {
		return target == "a.xml"
	})
	assert.Equal(t, 1, removed)

	rels, err = ParseRels("ppt/_rels/presentation.xml.rels", doc.Bytes())
	require.NoError(t, err)
	require.Len(t, rels, 1)
	assert.Equal(t, "rId2", rels[0].ID)
}

func TestManifestOverrides(t *testing.T) {
	pkg := deckpack.NewPackage()
	pkg.SetPart(deckpack.ManifestPath, []byte(`<?xml version="1.0"?><Types xmlns="`+NSContentTypes+`">`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Override PartName="/ppt/slides/slide1.xml" ContentType="`+ContentTypeSlide+`"/>`+
		`<Override PartName="/ppt/slides/slide2.xml" ContentType="`+ContentTypeSlide+`"/>`+
		`</Types>`))
	pkg.SetPart("ppt/slides/slide1.xml", []byte("<p:sld/>"))

	m, err := LoadManifest(pkg)
	require.NoError(t, err)

	assert.True(t, m.HasOverride("ppt/slides/slide1.xml"))
	assert.True(t, m.HasOverride("/ppt/slides/slide2.xml"))
	assert.False(t, m.HasOverride("ppt/slides/slide3.xml"))

	m.AddOverride("ppt/slides/slide3.xml", ContentTypeSlide)
	assert.True(t, m.HasOverride("ppt/slides/slide3.xml"))

	// slide2 and slide3 have no backing part.
	removed := m.RemoveStaleOverrides(pkg)
	assert.Equal(t, 2, removed)

	m.Store(pkg)
	reloaded, err := LoadManifest(pkg)
	require.NoError(t, err)
	assert.True(t, reloaded.HasOverride("ppt/slides/slide1.xml"))
	assert.False(t, reloaded.HasOverride("ppt/slides/slide2.xml"))
}

func TestLoadManifest_Missing(t *testing.T) {
	_, err := LoadManifest(deckpack.NewPackage())
	assert.ErrorIs(t, err, deckpack.ErrPartNotFound)
}
