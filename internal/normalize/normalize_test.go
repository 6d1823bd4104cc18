package normalize

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/deckpack/pkg/deckpack"
)

func TestSmartQuotes_RoundTrip(t *testing.T) {
	src := []byte(`<a:t>“Hello” and ‘bye’</a:t>`)

	escaped := EscapeSmartQuotes(src)
	assert.Equal(t, `<a:t>&#x201C;Hello&#x201D; and &#x2018;bye&#x2019;</a:t>`, string(escaped))

	restored := RestoreSmartQuotes(escaped)
	assert.Equal(t, src, restored)
}

func TestEscapeSmartQuotes_Idempotent(t *testing.T) {
	src := []byte(`<a:t>“x”</a:t>`)
	once := EscapeSmartQuotes(src)
	twice := EscapeSmartQuotes(once)
	assert.Equal(t, once, twice)
}

func TestPrettify_PassesThroughNonXML(t *testing.T) {
	binary := []byte{0x89, 0x50, 0x4e, 0x47, 0x00, 0x01}
	assert.Equal(t, binary, Prettify(binary))

	truncated := []byte(`<p:sld><p:cSld>`)
	assert.Equal(t, truncated, Prettify(truncated))
}

func TestPrettify_Indents(t *testing.T) {
	src := []byte(`<p:sld xmlns:p="P"><p:cSld><p:spTree/></p:cSld></p:sld>`)
	want := `<p:sld xmlns:p="P">
  <p:cSld>
    <p:spTree/>
  </p:cSld>
</p:sld>
`
	assert.Equal(t, want, string(Prettify(src)))
}

func TestCondense_RemovesFormattingWhitespace(t *testing.T) {
	src := []byte(`<p:sld xmlns:p="P">
  <!-- layout note -->
  <p:cSld>
    <p:spTree/>
  </p:cSld>
</p:sld>
`)
	want := `<p:sld xmlns:p="P"><p:cSld><p:spTree/></p:cSld></p:sld>`
	assert.Equal(t, want, string(Condense(src)))
}

func TestCondense_NeverTouchesTextRuns(t *testing.T) {
	src := []byte(`<a:r xmlns:a="A">
  <a:t>  kept   spacing  </a:t>
</a:r>
`)
	want := `<a:r xmlns:a="A"><a:t>  kept   spacing  </a:t></a:r>`
	assert.Equal(t, want, string(Condense(src)))
}

func TestCondense_Idempotent(t *testing.T) {
	src := []byte(`<p:sld xmlns:p="P"><p:cSld><p:spTree/></p:cSld></p:sld>`)
	once := Condense(src)
	assert.Equal(t, once, Condense(once))
}

func TestPrettifyCondense_FullCycle(t *testing.T) {
	canonical := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?><p:sld xmlns:p="P" xmlns:a="A"><p:cSld><a:r><a:t>“Quoted” text</a:t></a:r></p:cSld></p:sld>`

	pkg := deckpack.NewPackage()
	pkg.SetPart("ppt/slides/slide1.xml", []byte(canonical))
	pkg.SetPart("ppt/media/image1.png", []byte{0x89, 0x50})

	PrettifyAll(pkg)
	edited, _ := pkg.Part("ppt/slides/slide1.xml")
	assert.Contains(t, string(edited), "&#x201C;Quoted&#x201D;")
	assert.NotContains(t, string(edited), "“")

	CondenseAll(pkg)
	back, _ := pkg.Part("ppt/slides/slide1.xml")
	require.Equal(t, canonical, string(back))

	img, _ := pkg.Part("ppt/media/image1.png")
	assert.Equal(t, []byte{0x89, 0x50}, img)
}
