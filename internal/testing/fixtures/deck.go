// Package fixtures builds minimal but structurally consistent presentation
// packages for tests: a manifest, the package root relationships, a
// presentation part with its ordered slide list, slides with their
// relationship files, one master/layout/theme chain and a referenced image.
package fixtures

import (
	"fmt"
	"strings"

	"github.com/vvka-141/deckpack/internal/opc"
	"github.com/vvka-141/deckpack/pkg/deckpack"
)

const (
	nsP = opc.NSPresentationML
	nsA = opc.NSDrawingML
	nsR = opc.NSOfficeRels
	nsC = "http://schemas.openxmlformats.org/drawingml/2006/chart"
)

const (
	contentTypePresentation = "application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"
	contentTypeLayout       = "application/vnd.openxmlformats-officedocument.presentationml.slideLayout+xml"
	contentTypeMaster       = "application/vnd.openxmlformats-officedocument.presentationml.slideMaster+xml"
	contentTypeTheme        = "application/vnd.openxmlformats-officedocument.theme+xml"
	contentTypeChart        = "application/vnd.openxmlformats-officedocument.drawingml.chart+xml"
	contentTypeNotes        = "application/vnd.openxmlformats-officedocument.presentationml.notesSlide+xml"
)

// Deck is a presentation package under construction.
type Deck struct {
	pkg *deckpack.Package
}

// NewDeck builds a package with numSlides slides. Slide n is listed in the
// ordered slide list with id 255+n via relationship rId<n>; slide 1
// references the package's single image.
func NewDeck(numSlides int) *Deck {
	d := &Deck{pkg: deckpack.NewPackage()}

	var overrides, sldIds, presRels strings.Builder
	for i := 1; i <= numSlides; i++ {
		overrides.WriteString(fmt.Sprintf(
			`<Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, i, opc.ContentTypeSlide))
		sldIds.WriteString(fmt.Sprintf(`<p:sldId id="%d" r:id="rId%d"/>`, 255+i, i))
		presRels.WriteString(fmt.Sprintf(
			`<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i, opc.RelTypeSlide, i))
	}

	d.pkg.SetPart(deckpack.ManifestPath, []byte(xmlDecl+
		`<Types xmlns="`+opc.NSContentTypes+`">`+
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`+
		`<Default Extension="xml" ContentType="application/xml"/>`+
		`<Default Extension="png" ContentType="image/png"/>`+
		`<Override PartName="/ppt/presentation.xml" ContentType="`+contentTypePresentation+`"/>`+
		`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="`+contentTypeMaster+`"/>`+
		`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="`+contentTypeLayout+`"/>`+
		`<Override PartName="/ppt/theme/theme1.xml" ContentType="`+contentTypeTheme+`"/>`+
		overrides.String()+
		`</Types>`))

	d.pkg.SetPart("_rels/.rels", relationships(
		`<Relationship Id="rId1" Type="`+nsR+`/officeDocument" Target="ppt/presentation.xml"/>`))

	d.pkg.SetPart(deckpack.PresentationPath, []byte(xmlDecl+
		`<p:presentation xmlns:p="`+nsP+`" xmlns:r="`+nsR+`">`+
		`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId100"/></p:sldMasterIdLst>`+
		`<p:sldIdLst>`+sldIds.String()+`</p:sldIdLst>`+
		`</p:presentation>`))

	d.pkg.SetPart(deckpack.PresentationRelsPath, relationships(
		presRels.String()+
			`<Relationship Id="rId100" Type="`+nsR+`/slideMaster" Target="slideMasters/slideMaster1.xml"/>`))

	for i := 1; i <= numSlides; i++ {
		d.pkg.SetPart(fmt.Sprintf("%s/slide%d.xml", deckpack.SlidesDir, i), slideXML(i))
		rels := `<Relationship Id="rId1" Type="` + opc.RelTypeSlideLayout + `" Target="../slideLayouts/slideLayout1.xml"/>`
		if i == 1 {
			rels += `<Relationship Id="rId2" Type="` + nsR + `/image" Target="../media/image1.png"/>`
		}
		d.pkg.SetPart(fmt.Sprintf("%s/slide%d.xml.rels", deckpack.SlideRelsDir, i), relationships(rels))
	}

	d.pkg.SetPart("ppt/slideLayouts/slideLayout1.xml", []byte(xmlDecl+
		`<p:sldLayout xmlns:p="`+nsP+`" xmlns:a="`+nsA+`"><p:cSld><p:spTree/></p:cSld></p:sldLayout>`))
	d.pkg.SetPart("ppt/slideLayouts/_rels/slideLayout1.xml.rels", relationships(
		`<Relationship Id="rId1" Type="`+nsR+`/slideMaster" Target="../slideMasters/slideMaster1.xml"/>`))

	d.pkg.SetPart("ppt/slideMasters/slideMaster1.xml", []byte(xmlDecl+
		`<p:sldMaster xmlns:p="`+nsP+`" xmlns:r="`+nsR+`">`+
		`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`+
		`</p:sldMaster>`))
	d.pkg.SetPart("ppt/slideMasters/_rels/slideMaster1.xml.rels", relationships(
		`<Relationship Id="rId1" Type="`+nsR+`/slideLayout" Target="../slideLayouts/slideLayout1.xml"/>`+
			`<Relationship Id="rId2" Type="`+nsR+`/theme" Target="../theme/theme1.xml"/>`))

	d.pkg.SetPart("ppt/theme/theme1.xml", []byte(xmlDecl+
		`<a:theme xmlns:a="`+nsA+`" name="Office"/>`))

	d.pkg.SetPart("ppt/media/image1.png", []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a})

	return d
}

// Package returns the package under construction.
func (d *Deck) Package() *deckpack.Package {
	return d.pkg
}

// AddNotes attaches a notes slide to slide n.
func (d *Deck) AddNotes(n int) {
	notesPath := fmt.Sprintf("ppt/notesSlides/notesSlide%d.xml", n)
	d.pkg.SetPart(notesPath, []byte(xmlDecl+
		`<p:notes xmlns:p="`+nsP+`" xmlns:a="`+nsA+`"><p:cSld><p:spTree/></p:cSld></p:notes>`))
	d.pkg.SetPart(fmt.Sprintf("ppt/notesSlides/_rels/notesSlide%d.xml.rels", n), relationships(
		fmt.Sprintf(`<Relationship Id="rId1" Type="%s/slide" Target="../slides/slide%d.xml"/>`, nsR, n)))

	relsPath := fmt.Sprintf("%s/slide%d.xml.rels", deckpack.SlideRelsDir, n)
	d.appendRelationship(relsPath, opc.RelTypeNotesSlide, fmt.Sprintf("../notesSlides/notesSlide%d.xml", n))

	manifest, err := opc.LoadManifest(d.pkg)
	if err == nil {
		manifest.AddOverride(notesPath, contentTypeNotes)
		manifest.Store(d.pkg)
	}
}

// AddChart attaches a chart to slide n; the chart itself references a second
// image, so sweeping the slide must cascade through the chart to the image.
func (d *Deck) AddChart(n int) {
	d.pkg.SetPart("ppt/charts/chart1.xml", []byte(xmlDecl+
		`<c:chartSpace xmlns:c="`+nsC+`"><c:chart/></c:chartSpace>`))
	d.pkg.SetPart("ppt/charts/_rels/chart1.xml.rels", relationships(
		`<Relationship Id="rId1" Type="`+nsR+`/image" Target="../media/image2.png"/>`))
	d.pkg.SetPart("ppt/media/image2.png", []byte{0x89, 0x50, 0x4e, 0x47})

	relsPath := fmt.Sprintf("%s/slide%d.xml.rels", deckpack.SlideRelsDir, n)
	d.appendRelationship(relsPath, nsR+"/chart", "../charts/chart1.xml")

	manifest, err := opc.LoadManifest(d.pkg)
	if err == nil {
		manifest.AddOverride("ppt/charts/chart1.xml", contentTypeChart)
		manifest.Store(d.pkg)
	}
}

// AddTrash drops a leftover file into the editor scratch directory.
func (d *Deck) AddTrash() {
	d.pkg.SetPart("[trash]/old-slide.xml", []byte("<p:sld/>"))
}

func (d *Deck) appendRelationship(relsPath, relType, target string) {
	data, ok := d.pkg.Part(relsPath)
	if !ok {
		d.pkg.SetPart(relsPath, relationships(""))
		data, _ = d.pkg.Part(relsPath)
	}
	rels, _ := opc.ParseRels(relsPath, data)
	id := opc.NextRelationshipID(rels)
	s := string(data)
	s = strings.Replace(s, "</Relationships>",
		`<Relationship Id="`+id+`" Type="`+relType+`" Target="`+target+`"/></Relationships>`, 1)
	d.pkg.SetPart(relsPath, []byte(s))
}

const xmlDecl = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>`

func relationships(body string) []byte {
	return []byte(xmlDecl + `<Relationships xmlns="` + opc.NSPackageRels + `">` + body + `</Relationships>`)
}

func slideXML(n int) []byte {
	return []byte(xmlDecl +
		`<p:sld xmlns:p="` + nsP + `" xmlns:a="` + nsA + `" xmlns:r="` + nsR + `">` +
		`<p:cSld><p:spTree><p:sp><p:txBody><a:p><a:r>` +
		fmt.Sprintf(`<a:t>Slide %d</a:t>`, n) +
		`</a:r></a:p></p:txBody></p:sp></p:spTree></p:cSld>` +
		`</p:sld>`)
}
