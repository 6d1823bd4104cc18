package slides

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/internal/testing/fixtures"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

func slideIDs(t *testing.T, pkg *deckpack.Package) []int {
	t.Helper()
	entries, err := List(pkg)
	require.NoError(t, err)
	ids := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.SlideID
	}
	return ids
}

func TestList(t *testing.T) {
	pkg := fixtures.NewDeck(3).Package()

	entries, err := List(pkg)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, deckpack.SlideEntry{SlideID: 256, RelationshipID: "rId1"}, entries[0])
	assert.Equal(t, deckpack.SlideEntry{SlideID: 258, RelationshipID: "rId3"}, entries[2])
}

func TestList_NoPresentation(t *testing.T) {
	_, err := List(deckpack.NewPackage())
	assert.ErrorIs(t, err, deckpack.ErrPartNotFound)
}

func TestInsert_Positions(t *testing.T) {
	tests := []struct {
		name     string
		position int
		want     []int
	}{
		{"append on negative", -1, []int{256, 257, 258, 999}},
		{"front", 1, []int{999, 256, 257, 258}},
		{"middle", 3, []int{256, 257, 999, 258}},
		{"zero clamps to front", 0, []int{999, 256, 257, 258}},
		{"past end clamps to append", 10000, []int{256, 257, 258, 999}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkg := fixtures.NewDeck(3).Package()
			require.NoError(t, Insert(pkg, 999, "rId99", tt.position))
			assert.Equal(t, tt.want, slideIDs(t, pkg))
		})
	}
}

func TestInsert_EmptyList(t *testing.T) {
	pkg := fixtures.NewDeck(0).Package()
	require.NoError(t, Insert(pkg, 256, "rId1", -1))
	assert.Equal(t, []int{256}, slideIDs(t, pkg))
}

func TestRemove(t *testing.T) {
	pkg := fixtures.NewDeck(3).Package()

	require.NoError(t, Remove(pkg, "slide2.xml"))
	assert.Equal(t, []int{256, 258}, slideIDs(t, pkg))

	// The part itself stays behind for the sweep.
	assert.True(t, pkg.HasPart("ppt/slides/slide2.xml"))
}

func TestRemove_NotFound(t *testing.T) {
	pkg := fixtures.NewDeck(2).Package()
	err := Remove(pkg, "slide9.xml")
	assert.ErrorIs(t, err, deckpack.ErrSourceNotFound)
}

func TestNextSlideID(t *testing.T) {
	check := func(pkg *deckpack.Package, want int) {
		got, err := NextSlideID(pkg)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	check(fixtures.NewDeck(3).Package(), 259)
	check(fixtures.NewDeck(0).Package(), deckpack.FirstSlideID)
}

func TestDuplicate(t *testing.T) {
	deck := fixtures.NewDeck(3)
	deck.AddNotes(2)
	pkg := deck.Package()

	res, err := Duplicate(pkg, "slide2.xml")
	require.NoError(t, err)

	assert.Equal(t, "slide4.xml", res.NewFilename)
	assert.Equal(t, 259, res.NewSlideID)
	assert.Equal(t, "rId101", res.NewRelationshipID)

	// Byte-for-byte clone of the part.
	src, _ := pkg.Part("ppt/slides/slide2.xml")
	dst, ok := pkg.Part("ppt/slides/slide4.xml")
	require.True(t, ok)
	assert.Equal(t, src, dst)

	// Relationships copied minus the notes link.
	relsData, ok := pkg.Part("ppt/slides/_rels/slide4.xml.rels")
	require.True(t, ok)
	rels, err := opc.ParseRels("ppt/slides/_rels/slide4.xml.rels", relsData)
	require.NoError(t, err)
	var types []string
	for _, r := range rels {
		types = append(types, r.Type)
	}
	assert.Contains(t, types, opc.RelTypeSlideLayout)
	assert.NotContains(t, types, opc.RelTypeNotesSlide)

	// Registered in the manifest and the presentation relationships.
	manifest, err := opc.LoadManifest(pkg)
	require.NoError(t, err)
	assert.True(t, manifest.HasOverride("ppt/slides/slide4.xml"))

	presRels, _ := pkg.Part(deckpack.PresentationRelsPath)
	parsed, err := opc.ParseRels(deckpack.PresentationRelsPath, presRels)
	require.NoError(t, err)
	found := false
	for _, r := range parsed {
		if r.ID == "rId101" {
			found = true
			assert.Equal(t, "slides/slide4.xml", r.Target)
			assert.Equal(t, opc.RelTypeSlide, r.Type)
		}
	}
	assert.True(t, found, "presentation relationship for the clone not found")

	// The ordered slide list is the caller's job.
	assert.Equal(t, []int{256, 257, 258}, slideIDs(t, pkg))
}

func TestDuplicate_ThenInsert(t *testing.T) {
	pkg := fixtures.NewDeck(3).Package()

	res, err := Duplicate(pkg, "slide1.xml")
	require.NoError(t, err)
	require.NoError(t, Insert(pkg, res.NewSlideID, res.NewRelationshipID, 2))

	assert.Equal(t, []int{256, 259, 257, 258}, slideIDs(t, pkg))
}

func TestDuplicate_SourceMissing(t *testing.T) {
	pkg := fixtures.NewDeck(2).Package()
	_, err := Duplicate(pkg, "slide7.xml")
	assert.ErrorIs(t, err, deckpack.ErrSourceNotFound)
}

func TestDuplicate_SourceWithoutRels(t *testing.T) {
	pkg := fixtures.NewDeck(2).Package()
	pkg.DeletePart("ppt/slides/_rels/slide2.xml.rels")

	res, err := Duplicate(pkg, "slide2.xml")
	require.NoError(t, err)
	assert.Equal(t, "slide3.xml", res.NewFilename)
	assert.False(t, pkg.HasPart("ppt/slides/_rels/slide3.xml.rels"))
}
