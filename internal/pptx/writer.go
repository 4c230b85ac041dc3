// Package pptx writes minimal Office Open XML presentations.
//
// Only the parts the slide generator needs are emitted: a presentation
// with a fixed slide size, one blank master/layout/theme chain, picture
// shapes, and plain textboxes. Lengths are centimeters at the API
// surface and EMUs on the wire (360000 EMU per centimeter; stroke
// widths and font sizes are in points).
package pptx

import (
	"archive/zip"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	emuPerCm    = 360000
	emuPerPoint = 12700
)

func cmToEMU(cm float64) int64 {
	return int64(math.Round(cm * emuPerCm))
}

func ptToEMU(pt float64) int64 {
	return int64(math.Round(pt * emuPerPoint))
}

var xmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// mediaPart is one embedded image file, deduplicated by source path.
type mediaPart struct {
	srcPath     string
	name        string // archive filename, e.g. image1.png
	ext         string // without the dot
	contentType string
}

type slideRel struct {
	id     string
	relTyp string
	target string
}

type slide struct {
	shapes      []string
	rels        []slideRel
	nextShapeID int
}

// Writer accumulates slides and media parts in memory (image bytes are
// streamed from disk only at Save) and writes the finished package as a
// ZIP archive.
type Writer struct {
	slideW     int64
	slideH     int64
	slides     []*slide
	media      []*mediaPart
	mediaIndex map[string]int
}

// New creates a writer for the given slide size in centimeters.
func New(widthCm, heightCm float64) *Writer {
	return &Writer{
		slideW:     cmToEMU(widthCm),
		slideH:     cmToEMU(heightCm),
		mediaIndex: make(map[string]int),
	}
}

// AddSlide appends a blank slide and returns its index.
func (w *Writer) AddSlide() int {
	// Shape id 1 is the group; content starts at 2.
	w.slides = append(w.slides, &slide{nextShapeID: 2})
	return len(w.slides) - 1
}

// SlideCount returns the number of slides added so far.
func (w *Writer) SlideCount() int {
	return len(w.slides)
}

// PlacePicture puts the image file at path onto the slide at the given
// position and size in centimeters. A positive borderPt draws a gray
// stroke of that width in points around the picture. The image bytes
// are not read until Save; the file is probed now so an unreadable or
// unsupported image fails this placement alone.
func (w *Writer) PlacePicture(slideIdx int, path string, leftCm, topCm, widthCm, heightCm, borderPt float64) error {
	s, err := w.slideAt(slideIdx)
	if err != nil {
		return err
	}

	media, err := w.addMedia(path)
	if err != nil {
		return err
	}

	relID := fmt.Sprintf("rId%d", len(s.rels)+2) // rId1 points at the layout
	s.rels = append(s.rels, slideRel{id: relID, relTyp: relTypeImage, target: "../media/" + media.name})

	var border string
	if borderPt > 0 {
		border = fmt.Sprintf(`<a:ln w="%d"><a:solidFill><a:srgbClr val="B4B4B4"/></a:solidFill></a:ln>`, ptToEMU(borderPt))
	}

	shapeID := s.nextShapeID
	s.nextShapeID++
	s.shapes = append(s.shapes, fmt.Sprintf(
		`<p:pic>`+
			`<p:nvPicPr><p:cNvPr id="%d" name="%s"/><p:cNvPicPr/><p:nvPr/></p:nvPicPr>`+
			`<p:blipFill><a:blip r:embed="%s"/><a:stretch><a:fillRect/></a:stretch></p:blipFill>`+
			`<p:spPr>`+
			`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`+
			`%s`+
			`</p:spPr>`+
			`</p:pic>`,
		shapeID, xmlEscaper.Replace(filepath.Base(path)), relID,
		cmToEMU(leftCm), cmToEMU(topCm), cmToEMU(widthCm), cmToEMU(heightCm),
		border,
	))
	return nil
}

// PlaceTextBox puts a single-run textbox onto the slide. Position and
// size are centimeters, the font size is points, and rgbHex is a
// six-digit color like "808080".
func (w *Writer) PlaceTextBox(slideIdx int, text string, leftCm, topCm, widthCm, heightCm, fontPt float64, rgbHex string) error {
	s, err := w.slideAt(slideIdx)
	if err != nil {
		return err
	}

	shapeID := s.nextShapeID
	s.nextShapeID++
	s.shapes = append(s.shapes, fmt.Sprintf(
		`<p:sp>`+
			`<p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`+
			`<p:spPr>`+
			`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`+
			`<a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`+
			`<a:noFill/>`+
			`</p:spPr>`+
			`<p:txBody><a:bodyPr wrap="none" rtlCol="0"/><a:lstStyle/>`+
			`<a:p><a:r><a:rPr lang="en-US" sz="%d" dirty="0"><a:solidFill><a:srgbClr val="%s"/></a:solidFill></a:rPr>`+
			`<a:t>%s</a:t></a:r></a:p>`+
			`</p:txBody>`+
			`</p:sp>`,
		shapeID, shapeID,
		cmToEMU(leftCm), cmToEMU(topCm), cmToEMU(widthCm), cmToEMU(heightCm),
		int(math.Round(fontPt*100)), rgbHex, xmlEscaper.Replace(text),
	))
	return nil
}

// Save writes the complete package to path.
func (w *Writer) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", w.contentTypesXML()},
		{"_rels/.rels", packageRelsXML},
		{"ppt/presentation.xml", w.presentationXML()},
		{"ppt/_rels/presentation.xml.rels", w.presentationRelsXML()},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", slideLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", slideLayoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for i, s := range w.slides {
		parts = append(parts,
			struct{ name, content string }{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s)},
			struct{ name, content string }{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), slideRelsXML(s)},
		)
	}

	for _, part := range parts {
		entry, err := zw.Create(part.name)
		if err != nil {
			return fmt.Errorf("failed to create archive entry %s: %w", part.name, err)
		}
		if _, err := entry.Write([]byte(part.content)); err != nil {
			return fmt.Errorf("failed to write archive entry %s: %w", part.name, err)
		}
	}

	for _, media := range w.media {
		if err := copyMedia(zw, media); err != nil {
			return err
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish archive: %w", err)
	}
	return nil
}

func copyMedia(zw *zip.Writer, media *mediaPart) error {
	src, err := os.Open(media.srcPath)
	if err != nil {
		return fmt.Errorf("failed to read media %s: %w", media.srcPath, err)
	}
	defer src.Close()

	entry, err := zw.Create("ppt/media/" + media.name)
	if err != nil {
		return fmt.Errorf("failed to create media entry %s: %w", media.name, err)
	}
	if _, err := io.Copy(entry, src); err != nil {
		return fmt.Errorf("failed to embed media %s: %w", media.srcPath, err)
	}
	return nil
}

func (w *Writer) slideAt(idx int) (*slide, error) {
	if idx < 0 || idx >= len(w.slides) {
		return nil, fmt.Errorf("no slide at index %d", idx)
	}
	return w.slides[idx], nil
}

// addMedia registers the image file for embedding, reusing the existing
// part when the same path was placed before.
func (w *Writer) addMedia(path string) (*mediaPart, error) {
	if idx, ok := w.mediaIndex[path]; ok {
		return w.media[idx], nil
	}

	ext := strings.ToLower(filepath.Ext(path))
	contentType, ok := imageContentTypes[ext]
	if !ok {
		return nil, fmt.Errorf("unsupported image type %q", ext)
	}

	// Probe readability now so a bad file fails its own placement
	// instead of the final save.
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open media %s: %w", path, err)
	}
	f.Close()

	media := &mediaPart{
		srcPath:     path,
		name:        fmt.Sprintf("image%d%s", len(w.media)+1, ext),
		ext:         strings.TrimPrefix(ext, "."),
		contentType: contentType,
	}
	w.mediaIndex[path] = len(w.media)
	w.media = append(w.media, media)
	return media, nil
}

func (w *Writer) contentTypesXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	b.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	b.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)

	seen := map[string]string{}
	for _, media := range w.media {
		seen[media.ext] = media.contentType
	}
	exts := make([]string, 0, len(seen))
	for ext := range seen {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fmt.Fprintf(&b, `<Default Extension="%s" ContentType="%s"/>`, ext, seen[ext])
	}

	fmt.Fprintf(&b, `<Override PartName="/ppt/presentation.xml" ContentType="%s"/>`, ctPresentation)
	fmt.Fprintf(&b, `<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="%s"/>`, ctSlideMaster)
	fmt.Fprintf(&b, `<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="%s"/>`, ctSlideLayout)
	fmt.Fprintf(&b, `<Override PartName="/ppt/theme/theme1.xml" ContentType="%s"/>`, ctTheme)
	for i := range w.slides {
		fmt.Fprintf(&b, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%s"/>`, i+1, ctSlide)
	}
	b.WriteString(`</Types>`)
	return b.String()
}

func (w *Writer) presentationXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:presentation xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsDrawingML, nsRelationships, nsPresentationML)
	b.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst>`)
	if len(w.slides) > 0 {
		b.WriteString(`<p:sldIdLst>`)
		for i := range w.slides {
			fmt.Fprintf(&b, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, i+2)
		}
		b.WriteString(`</p:sldIdLst>`)
	}
	fmt.Fprintf(&b, `<p:sldSz cx="%d" cy="%d"/>`, w.slideW, w.slideH)
	b.WriteString(`<p:notesSz cx="6858000" cy="9144000"/>`)
	b.WriteString(`</p:presentation>`)
	return b.String()
}

func (w *Writer) presentationRelsXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsPackageRels)
	fmt.Fprintf(&b, `<Relationship Id="rId1" Type="%s" Target="slideMasters/slideMaster1.xml"/>`, relTypeSlideMaster)
	for i := range w.slides {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="slides/slide%d.xml"/>`, i+2, relTypeSlide, i+1)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

func slideXML(s *slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sld xmlns:a="%s" xmlns:r="%s" xmlns:p="%s">`, nsDrawingML, nsRelationships, nsPresentationML)
	b.WriteString(`<p:cSld><p:spTree>`)
	b.WriteString(`<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>`)
	b.WriteString(`<p:grpSpPr><a:xfrm><a:off x="0" y="0"/><a:ext cx="0" cy="0"/><a:chOff x="0" y="0"/><a:chExt cx="0" cy="0"/></a:xfrm></p:grpSpPr>`)
	for _, shape := range s.shapes {
		b.WriteString(shape)
	}
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr>`)
	b.WriteString(`</p:sld>`)
	return b.String()
}

func slideRelsXML(s *slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<Relationships xmlns="%s">`, nsPackageRels)
	fmt.Fprintf(&b, `<Relationship Id="rId1" Type="%s" Target="../slideLayouts/slideLayout1.xml"/>`, relTypeSlideLayout)
	for _, rel := range s.rels {
		fmt.Fprintf(&b, `<Relationship Id="%s" Type="%s" Target="%s"/>`, rel.id, rel.relTyp, rel.target)
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}
