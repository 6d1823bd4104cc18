package schema

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/deckpack/internal/logging"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

func TestFileFor(t *testing.T) {
	tests := []struct {
		partPath string
		want     string
		ok       bool
	}{
		{"ppt/slides/slide1.xml", "ISO-IEC29500-4_2016/pml.xsd", true},
		{"ppt/presentation.xml", "ISO-IEC29500-4_2016/pml.xsd", true},
		{"[Content_Types].xml", "ecma/fouth-edition/opc-contentTypes.xsd", true},
		{"docProps/app.xml", "ISO-IEC29500-4_2016/shared-documentPropertiesExtended.xsd", true},
		{"docProps/core.xml", "ecma/fouth-edition/opc-coreProperties.xsd", true},
		{"_rels/.rels", "ecma/fouth-edition/opc-relationships.xsd", true},
		{"ppt/slides/_rels/slide1.xml.rels", "ecma/fouth-edition/opc-relationships.xsd", true},
		{"ppt/charts/chart1.xml", "ISO-IEC29500-4_2016/dml-chart.xsd", true},
		{"ppt/theme/theme1.xml", "ISO-IEC29500-4_2016/dml-main.xsd", true},
		{"docProps/thumbnail.jpeg", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.partPath, func(t *testing.T) {
			got, ok := FileFor(tt.partPath)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindSchemaDir(t *testing.T) {
	dir := t.TempDir()

	t.Run("explicit", func(t *testing.T) {
		got, err := FindSchemaDir(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean(dir), got)
	})

	t.Run("environment", func(t *testing.T) {
		t.Setenv(EnvSchemaDir, dir)
		got, err := FindSchemaDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean(dir), got)
	})

	t.Run("explicit wins over environment", func(t *testing.T) {
		other := t.TempDir()
		t.Setenv(EnvSchemaDir, other)
		got, err := FindSchemaDir(dir)
		require.NoError(t, err)
		assert.Equal(t, filepath.Clean(dir), got)
	})

	t.Run("not found", func(t *testing.T) {
		t.Setenv(EnvSchemaDir, "")
		_, err := FindSchemaDir(filepath.Join(dir, "missing"))
		assert.ErrorIs(t, err, ErrNoSchemaDir)
	})

	t.Run("file is not a directory", func(t *testing.T) {
		t.Setenv(EnvSchemaDir, "")
		f := filepath.Join(dir, "schemas.txt")
		require.NoError(t, os.WriteFile(f, []byte("x"), 0644))
		_, err := FindSchemaDir(f)
		assert.ErrorIs(t, err, ErrNoSchemaDir)
	})
}

func TestPrepare_StripsTemplateTags(t *testing.T) {
	src := []byte(`<p:sld xmlns:p="P" xmlns:a="A"><p:meta>{{for slide in deck}}</p:meta><a:t>{{kept}} in runs</a:t></p:sld>`)

	out, err := prepare("ppt/slides/slide1.xml", src)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "{{for slide in deck}}")
	assert.Contains(t, s, "{{kept}} in runs")
}

func TestPrepare_StripsIgnorable(t *testing.T) {
	src := []byte(`<p:sld xmlns:p="P" xmlns:mc="http://schemas.openxmlformats.org/markup-compatibility/2006" mc:Ignorable="p14"><p:cSld/></p:sld>`)

	out, err := prepare("ppt/slides/slide1.xml", src)
	require.NoError(t, err)
	assert.NotContains(t, string(out), "Ignorable")
}

func TestPrepare_StripsVendorNamespaces(t *testing.T) {
	src := []byte(`<p:sld xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:v="urn:schemas-microsoft-com:vml">` +
		`<p:cSld vendorHint="x"/>` +
		`<v:shape id="s1"/>` +
		`</p:sld>`)

	out, err := prepare("ppt/slides/slide1.xml", src)
	require.NoError(t, err)

	s := string(out)
	assert.NotContains(t, s, "v:shape")
	assert.Contains(t, s, "p:cSld")
	// Unprefixed attributes have no namespace and are kept.
	assert.Contains(t, s, `vendorHint="x"`)
}

func TestPrepare_KeepsVendorNamespacesOutsidePPT(t *testing.T) {
	src := []byte(`<Properties xmlns="NS" xmlns:v="urn:vendor"><v:extra/></Properties>`)

	out, err := prepare("docProps/app.xml", src)
	require.NoError(t, err)
	assert.Contains(t, string(out), "v:extra")
}

func TestPrepare_Malformed(t *testing.T) {
	_, err := prepare("ppt/slides/slide1.xml", []byte("<broken"))
	assert.Error(t, err)
}

func TestRepairWhitespace(t *testing.T) {
	pkg := deckpack.NewPackage()
	pkg.SetPart("ppt/slides/slide1.xml", []byte(
		`<p:sld xmlns:p="P" xmlns:a="A"><a:r><a:t> leading</a:t></a:r>`+
			`<a:r><a:t>trailing </a:t></a:r>`+
			`<a:r><a:t>untouched</a:t></a:r>`+
			`<a:r><a:t xml:space="preserve"> already flagged </a:t></a:r></p:sld>`))

	repairs := RepairWhitespace(pkg)
	assert.Equal(t, 2, repairs)

	data, _ := pkg.Part("ppt/slides/slide1.xml")
	assert.Equal(t, 4, strings.Count(string(data), `xml:space="preserve"`))

	// Second pass finds nothing left to repair.
	assert.Equal(t, 0, RepairWhitespace(pkg))
}

func TestRepairWhitespace_SkipsNonParsing(t *testing.T) {
	pkg := deckpack.NewPackage()
	pkg.SetPart("ppt/slides/slide1.xml", []byte("<broken"))
	assert.Equal(t, 0, RepairWhitespace(pkg))
}

func TestRepairWhitespace_TabEdges(t *testing.T) {
	pkg := deckpack.NewPackage()
	pkg.SetPart("ppt/slides/slide1.xml", []byte(
		`<p:sld xmlns:p="P" xmlns:a="A"><a:t>`+"\t"+`tab lead</a:t></p:sld>`))

	assert.Equal(t, 1, RepairWhitespace(pkg))
}

// writeSlideSchema installs a small presentation schema under dir at the
// mapped pml.xsd location. Both optional children require a name attribute,
// so documents omitting it produce one schema error per element.
func writeSlideSchema(t *testing.T, dir string) {
	t.Helper()
	schemaPath := filepath.Join(dir, "ISO-IEC29500-4_2016", "pml.xsd")
	require.NoError(t, os.MkdirAll(filepath.Dir(schemaPath), 0755))
	require.NoError(t, os.WriteFile(schemaPath, []byte(
		`<?xml version="1.0" encoding="UTF-8"?>`+"\n"+
			`<xs:schema xmlns:xs="http://www.w3.org/2001/XMLSchema"`+"\n"+
			`           targetNamespace="http://schemas.openxmlformats.org/presentationml/2006/main"`+"\n"+
			`           elementFormDefault="qualified">`+"\n"+
			`  <xs:element name="sld">`+"\n"+
			`    <xs:complexType>`+"\n"+
			`      <xs:sequence>`+"\n"+
			`        <xs:element name="cSld" minOccurs="0">`+"\n"+
			`          <xs:complexType><xs:attribute name="name" use="required"/></xs:complexType>`+"\n"+
			`        </xs:element>`+"\n"+
			`        <xs:element name="timing" minOccurs="0">`+"\n"+
			`          <xs:complexType><xs:attribute name="name" use="required"/></xs:complexType>`+"\n"+
			`        </xs:element>`+"\n"+
			`      </xs:sequence>`+"\n"+
			`    </xs:complexType>`+"\n"+
			`  </xs:element>`+"\n"+
			`</xs:schema>`+"\n"), 0644))
}

func TestCheckPackage_BaselineSubtraction(t *testing.T) {
	dir := t.TempDir()
	writeSlideSchema(t, dir)
	t.Setenv(EnvSchemaDir, dir)
	schemaDir, err := FindSchemaDir("")
	require.NoError(t, err)

	const pml = "http://schemas.openxmlformats.org/presentationml/2006/main"
	baseline := deckpack.NewPackage()
	baseline.SetPart("ppt/slides/slide1.xml", []byte(
		`<p:sld xmlns:p="`+pml+`"><p:cSld/></p:sld>`))
	candidate := deckpack.NewPackage()
	candidate.SetPart("ppt/slides/slide1.xml", []byte(
		`<p:sld xmlns:p="`+pml+`"><p:cSld/><p:timing/></p:sld>`))

	v := NewValidator(schemaDir, logging.NewNullLogger())

	// Without a baseline both missing attributes surface.
	full := v.CheckPackage(candidate, nil)
	require.Len(t, full, 3)
	assert.Equal(t, "schema — ppt/slides/slide1.xml: 2 error(s)", full[0])

	// The baseline already carries the cSld error, so only the new
	// timing error remains.
	diff := v.CheckPackage(candidate, baseline)
	require.Len(t, diff, 2)
	assert.Equal(t, "schema — ppt/slides/slide1.xml: 1 error(s)", diff[0])
	assert.True(t, strings.HasPrefix(diff[1], "  -> "))
	assert.Contains(t, diff[1], "timing")
	assert.NotContains(t, diff[1], "cSld")

	// A candidate identical to the baseline reports nothing.
	assert.Empty(t, v.CheckPackage(baseline.Clone(), baseline))
}

func TestValidateSlide_MalformedXML(t *testing.T) {
	v := NewValidator("", logging.NewNullLogger())

	ok, msg := v.ValidateSlide([]byte("<p:sld"))
	assert.False(t, ok)
	assert.Contains(t, msg, "malformed xml")
}

func TestValidateSlide_NoSchemaDirDegradesToValid(t *testing.T) {
	v := NewValidator("", logging.NewNullLogger())

	ok, msg := v.ValidateSlide([]byte(`<p:sld xmlns:p="P"><p:cSld/></p:sld>`))
	assert.True(t, ok)
	assert.Empty(t, msg)
}
