package pptx

import (
	"archive/zip"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writePNG(t *testing.T, dir, name string, width, height int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("Failed to create fixture: %v", err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewRGBA(image.Rect(0, 0, width, height))); err != nil {
		t.Fatalf("Failed to encode fixture: %v", err)
	}
	return path
}

// readArchive returns the archive's entries keyed by name.
func readArchive(t *testing.T, path string) map[string]string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("Failed to open archive: %v", err)
	}
	defer zr.Close()

	entries := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("Failed to open entry %s: %v", f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("Failed to read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(data)
	}
	return entries
}

func TestSaveProducesRequiredParts(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "photo.png", 100, 100)

	w := New(42, 29.7)
	slide := w.AddSlide()
	if err := w.PlacePicture(slide, img, 6.0, 5.5, 18.69, 18.69, 1.0); err != nil {
		t.Fatalf("PlacePicture failed: %v", err)
	}
	if err := w.PlaceTextBox(slide, "1", 39.5, 28.7, 2.0, 0.6, 8, "808080"); err != nil {
		t.Fatalf("PlaceTextBox failed: %v", err)
	}

	out := filepath.Join(dir, "deck.pptx")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	entries := readArchive(t, out)
	required := []string{
		"[Content_Types].xml",
		"_rels/.rels",
		"ppt/presentation.xml",
		"ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml",
		"ppt/slideLayouts/slideLayout1.xml",
		"ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml",
		"ppt/slides/_rels/slide1.xml.rels",
		"ppt/media/image1.png",
	}
	for _, name := range required {
		if _, ok := entries[name]; !ok {
			t.Errorf("Archive is missing %s", name)
		}
	}

	if !strings.Contains(entries["[Content_Types].xml"], `Extension="png"`) {
		t.Error("Content types do not declare the png default")
	}
	// 42 cm at 360000 EMU/cm.
	if !strings.Contains(entries["ppt/presentation.xml"], `cx="15120000"`) {
		t.Error("Presentation does not carry the 42 cm slide width")
	}
}

func TestPicturePositionAndBorder(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "photo.png", 100, 100)

	w := New(42, 29.7)
	slide := w.AddSlide()
	if err := w.PlacePicture(slide, img, 1.0, 2.0, 10.0, 5.0, 1.0); err != nil {
		t.Fatalf("PlacePicture failed: %v", err)
	}

	out := filepath.Join(dir, "deck.pptx")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	slideXML := readArchive(t, out)["ppt/slides/slide1.xml"]

	for _, fragment := range []string{
		`<a:off x="360000" y="720000"/>`,
		`<a:ext cx="3600000" cy="1800000"/>`,
		`<a:ln w="12700">`, // 1 pt stroke
		`val="B4B4B4"`,
		`r:embed="rId2"`,
	} {
		if !strings.Contains(slideXML, fragment) {
			t.Errorf("Slide XML is missing %s", fragment)
		}
	}
}

func TestZeroBorderOmitsStroke(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "photo.png", 100, 100)

	w := New(42, 29.7)
	slide := w.AddSlide()
	if err := w.PlacePicture(slide, img, 1, 1, 5, 5, 0); err != nil {
		t.Fatalf("PlacePicture failed: %v", err)
	}

	out := filepath.Join(dir, "deck.pptx")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if strings.Contains(readArchive(t, out)["ppt/slides/slide1.xml"], "<a:ln ") {
		t.Error("Expected no stroke element when border width is zero")
	}
}

func TestMediaDeduplication(t *testing.T) {
	dir := t.TempDir()
	img := writePNG(t, dir, "photo.png", 100, 100)

	w := New(42, 29.7)
	first := w.AddSlide()
	second := w.AddSlide()
	if err := w.PlacePicture(first, img, 1, 1, 5, 5, 0); err != nil {
		t.Fatalf("PlacePicture failed: %v", err)
	}
	if err := w.PlacePicture(second, img, 1, 1, 5, 5, 0); err != nil {
		t.Fatalf("PlacePicture failed: %v", err)
	}

	out := filepath.Join(dir, "deck.pptx")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries := readArchive(t, out)

	mediaCount := 0
	for name := range entries {
		if strings.HasPrefix(name, "ppt/media/") {
			mediaCount++
		}
	}
	if mediaCount != 1 {
		t.Errorf("Expected 1 deduplicated media part, got %d", mediaCount)
	}
	if !strings.Contains(entries["ppt/slides/_rels/slide2.xml.rels"], "image1.png") {
		t.Error("Second slide does not reference the shared media part")
	}
}

func TestPlacePictureRejectsMissingFile(t *testing.T) {
	w := New(42, 29.7)
	slide := w.AddSlide()

	if err := w.PlacePicture(slide, filepath.Join(t.TempDir(), "absent.png"), 1, 1, 5, 5, 0); err == nil {
		t.Error("Expected an error for a missing image file")
	}
	if err := w.PlacePicture(slide, "diagram.svg", 1, 1, 5, 5, 0); err == nil {
		t.Error("Expected an error for an unsupported extension")
	}
}

func TestTextBoxEscapesContent(t *testing.T) {
	dir := t.TempDir()

	w := New(42, 29.7)
	slide := w.AddSlide()
	if err := w.PlaceTextBox(slide, "a < b & c", 1, 1, 5, 1, 8, "808080"); err != nil {
		t.Fatalf("PlaceTextBox failed: %v", err)
	}

	out := filepath.Join(dir, "deck.pptx")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	slideXML := readArchive(t, out)["ppt/slides/slide1.xml"]
	if !strings.Contains(slideXML, "<a:t>a &lt; b &amp; c</a:t>") {
		t.Error("Text content was not escaped")
	}
	if !strings.Contains(slideXML, `sz="800"`) {
		t.Error("Font size not written in hundredths of a point")
	}
}

func TestPresentationListsSlidesInOrder(t *testing.T) {
	dir := t.TempDir()

	w := New(42, 29.7)
	w.AddSlide()
	w.AddSlide()
	w.AddSlide()
	if w.SlideCount() != 3 {
		t.Fatalf("Expected 3 slides, got %d", w.SlideCount())
	}

	out := filepath.Join(dir, "deck.pptx")
	if err := w.Save(out); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	entries := readArchive(t, out)

	pres := entries["ppt/presentation.xml"]
	first := strings.Index(pres, `r:id="rId2"`)
	second := strings.Index(pres, `r:id="rId3"`)
	third := strings.Index(pres, `r:id="rId4"`)
	if first < 0 || second < first || third < second {
		t.Error("Slide references are missing or out of order")
	}
	for _, name := range []string{"ppt/slides/slide1.xml", "ppt/slides/slide2.xml", "ppt/slides/slide3.xml"} {
		if _, ok := entries[name]; !ok {
			t.Errorf("Archive is missing %s", name)
		}
	}
}
