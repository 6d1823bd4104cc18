package engine

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/deckpack/internal/archive"
	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/internal/slides"
	"github.com/vvka-141/deckpack/internal/testing/fixtures"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

func TestEngine_ImplementsContract(t *testing.T) {
	var _ deckpack.Engine = New(Options{})
}

func TestUnpack_Corrupt(t *testing.T) {
	eng := New(Options{})
	_, err := eng.Unpack([]byte("not a zip"))
	assert.ErrorIs(t, err, deckpack.ErrArchiveCorrupt)
}

// The full editing cycle: unpack, prettify, duplicate, reorder, clean,
// condense, repack, unpack again.
func TestEngine_EditingCycle(t *testing.T) {
	deck := fixtures.NewDeck(5)
	deck.AddNotes(2)
	original, err := archive.Repack(deck.Package())
	require.NoError(t, err)

	eng := New(Options{})

	pkg, err := eng.Unpack(original)
	require.NoError(t, err)
	eng.PrettifyAll(pkg)

	res, err := eng.DuplicateSlide(pkg, "slide2.xml")
	require.NoError(t, err)
	assert.Equal(t, "slide6.xml", res.NewFilename)
	assert.Equal(t, 261, res.NewSlideID)

	require.NoError(t, eng.InsertSlide(pkg, res.NewSlideID, res.NewRelationshipID, 3))

	removed := eng.Clean(pkg)
	assert.Empty(t, removed, "a fresh deck plus a registered clone has no orphans")

	repacked, err := eng.CondenseAndRepack(pkg)
	require.NoError(t, err)

	final, err := eng.Unpack(repacked)
	require.NoError(t, err)

	entries, err := slides.List(final)
	require.NoError(t, err)
	require.Len(t, entries, 6)
	assert.Equal(t, 261, entries[2].SlideID, "clone sits at position 3")

	// The clone's notes link must not have traveled with the copy.
	relsData, ok := final.Part("ppt/slides/_rels/slide6.xml.rels")
	require.True(t, ok)
	rels, err := opc.ParseRels("ppt/slides/_rels/slide6.xml.rels", relsData)
	require.NoError(t, err)
	for _, r := range rels {
		assert.NotEqual(t, opc.RelTypeNotesSlide, r.Type)
	}

	result := eng.Validate(final, nil)
	assert.True(t, result.Valid, "errors: %v", result.StructuralErrors)
}

func TestEngine_RemoveThenClean(t *testing.T) {
	deck := fixtures.NewDeck(3)
	deck.AddNotes(3)
	pkg := deck.Package()
	eng := New(Options{})

	require.NoError(t, eng.RemoveSlide(pkg, "slide3.xml"))

	// Detaching leaves the part in place until the sweep.
	assert.True(t, pkg.HasPart("ppt/slides/slide3.xml"))

	removed := eng.Clean(pkg)
	assert.Contains(t, removed, "ppt/slides/slide3.xml")
	assert.Contains(t, removed, "ppt/notesSlides/notesSlide3.xml")

	entries, err := slides.List(pkg)
	require.NoError(t, err)
	assert.Len(t, entries, 2)

	result := eng.Validate(pkg, nil)
	assert.True(t, result.Valid, "errors: %v", result.StructuralErrors)
}

func TestValidate_MalformedSkipsSchemaPhase(t *testing.T) {
	pkg := fixtures.NewDeck(2).Package()
	pkg.SetPart("ppt/slides/slide2.xml", []byte("<p:sld><broken"))

	eng := New(Options{})
	result := eng.Validate(pkg, nil)

	assert.False(t, result.Valid)
	require.Len(t, result.StructuralErrors, 1)
	assert.Contains(t, result.StructuralErrors[0], "malformed xml")
	assert.Empty(t, result.SchemaErrors)
}

func TestValidate_ReportsRepairs(t *testing.T) {
	pkg := fixtures.NewDeck(1).Package()
	slide, _ := pkg.Part("ppt/slides/slide1.xml")
	patched := strings.Replace(string(slide), "<a:t>Slide 1</a:t>", "<a:t>Slide 1 </a:t>", 1)
	pkg.SetPart("ppt/slides/slide1.xml", []byte(patched))

	eng := New(Options{})
	result := eng.Validate(pkg, nil)

	assert.Equal(t, 1, result.Repairs)
	assert.True(t, result.Valid)

	data, _ := pkg.Part("ppt/slides/slide1.xml")
	assert.Contains(t, string(data), `xml:space="preserve"`)
}

func TestValidate_RepairDisabled(t *testing.T) {
	pkg := fixtures.NewDeck(1).Package()
	slide, _ := pkg.Part("ppt/slides/slide1.xml")
	patched := strings.Replace(string(slide), "<a:t>Slide 1</a:t>", "<a:t>Slide 1 </a:t>", 1)
	pkg.SetPart("ppt/slides/slide1.xml", []byte(patched))

	eng := New(Options{DisableRepair: true})
	result := eng.Validate(pkg, nil)

	assert.Equal(t, 0, result.Repairs)
	data, _ := pkg.Part("ppt/slides/slide1.xml")
	assert.NotContains(t, string(data), `xml:space="preserve"`)
}

func TestValidate_BaselineNotMutated(t *testing.T) {
	pkg := fixtures.NewDeck(1).Package()
	baseline := pkg.Clone()
	snapshot := baseline.Clone()

	eng := New(Options{})
	eng.Validate(pkg, baseline)

	require.Equal(t, snapshot.Len(), baseline.Len())
	for _, p := range snapshot.Paths() {
		want, _ := snapshot.Part(p)
		got, _ := baseline.Part(p)
		assert.Equal(t, want, got, "baseline part %s changed", p)
	}
}
