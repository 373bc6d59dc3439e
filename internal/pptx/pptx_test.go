package pptx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestPNG(t *testing.T, dir, name string, w, h int) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func readParts(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip: %v", err)
	}
	parts := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		b, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatal(err)
		}
		parts[f.Name] = string(b)
	}
	return parts
}

func wellFormed(t *testing.T, name, content string) {
	t.Helper()
	dec := xml.NewDecoder(strings.NewReader(content))
	for {
		_, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return
		}
		if err != nil {
			t.Fatalf("%s is not well-formed XML: %v", name, err)
		}
	}
}

func TestWriteToProducesValidPackage(t *testing.T) {
	dir := t.TempDir()
	img := writeTestPNG(t, dir, "page_1.png", 200, 100)

	p := &Presentation{
		FontFace:  "Malgun Gothic",
		TitleSize: 18,
		BodySize:  12,
		Slides: []Slide{
			{Layout: LayoutTitle, Title: "Contents", Body: []string{"1. Intro & <Setup>", "2. Usage"}},
			{Layout: LayoutContent, Title: "Intro & <Setup>", Body: []string{"- one", "", "- two"}, Image: img},
			{Layout: LayoutContent, Title: "Intro & <Setup> (continued)", Body: []string{"- three"}, Image: img},
			{Layout: LayoutContent, Title: "Usage", Body: []string{"개요"}},
		},
	}
	var buf bytes.Buffer
	n, err := p.WriteTo(&buf)
	if err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if n != int64(buf.Len()) {
		t.Errorf("WriteTo reported %d bytes, buffer has %d", n, buf.Len())
	}

	parts := readParts(t, buf.Bytes())
	for _, name := range []string{
		"[Content_Types].xml", "_rels/.rels", "docProps/core.xml", "docProps/app.xml",
		"ppt/presentation.xml", "ppt/_rels/presentation.xml.rels",
		"ppt/slideMasters/slideMaster1.xml", "ppt/slideLayouts/slideLayout1.xml",
		"ppt/slideLayouts/slideLayout2.xml", "ppt/theme/theme1.xml",
		"ppt/slides/slide1.xml", "ppt/slides/slide4.xml", "ppt/media/image1.png",
	} {
		if _, ok := parts[name]; !ok {
			t.Errorf("missing part %s", name)
		}
	}
	for name, content := range parts {
		if strings.HasSuffix(name, ".xml") || strings.HasSuffix(name, ".rels") {
			wellFormed(t, name, content)
		}
	}

	if _, ok := parts["ppt/media/image2.png"]; ok {
		t.Error("expected a shared image to be stored once")
	}
	if !strings.Contains(parts["ppt/presentation.xml"], `cx="9144000" cy="6858000" type="screen4x3"`) {
		t.Error("expected 4:3 slide size")
	}
	if strings.Count(parts["ppt/presentation.xml"], "<p:sldId ") != 4 {
		t.Error("expected 4 slide ids")
	}

	if !strings.Contains(parts["ppt/slides/_rels/slide1.xml.rels"], "slideLayout1.xml") {
		t.Error("overview should use the title layout")
	}
	if !strings.Contains(parts["ppt/slides/_rels/slide2.xml.rels"], "slideLayout2.xml") {
		t.Error("content slide should use the content layout")
	}

	s2 := parts["ppt/slides/slide2.xml"]
	if !strings.Contains(s2, "Intro &amp; &lt;Setup&gt;") {
		t.Error("expected escaped title text")
	}
	if !strings.Contains(s2, `<a:off x="5029200" y="1371600"/><a:ext cx="2743200" cy="1371600"/>`) {
		t.Errorf("unexpected picture frame in slide 2:\n%s", s2)
	}
	if !strings.Contains(s2, `sz="1800"`) || !strings.Contains(s2, `sz="1200"`) {
		t.Error("expected title and body sizes")
	}
	if !strings.Contains(s2, `<a:latin typeface="Malgun Gothic"/>`) {
		t.Error("expected font face on runs")
	}
	if strings.Contains(parts["ppt/slides/slide4.xml"], "<p:pic>") {
		t.Error("slide without image should carry no picture")
	}
	if !strings.Contains(parts["ppt/slides/slide4.xml"], "개요") {
		t.Error("expected non-ASCII body text verbatim")
	}
	if !strings.Contains(parts["[Content_Types].xml"], `Extension="png"`) {
		t.Error("expected png content type")
	}
}

func TestWriteToRejectsEmptyDeck(t *testing.T) {
	if _, err := (&Presentation{}).WriteTo(io.Discard); err == nil {
		t.Fatal("expected error for empty deck")
	}
}

func TestWriteToMissingImage(t *testing.T) {
	p := &Presentation{Slides: []Slide{{Layout: LayoutContent, Title: "x", Image: filepath.Join(t.TempDir(), "nope.png")}}}
	if _, err := p.WriteTo(io.Discard); err == nil {
		t.Fatal("expected error for missing image")
	}
}

func TestSaveUnwritablePath(t *testing.T) {
	p := &Presentation{Slides: []Slide{{Layout: LayoutTitle, Title: "x"}}}
	if err := p.Save(filepath.Join(t.TempDir(), "no", "such", "dir", "deck.pptx")); err == nil {
		t.Fatal("expected error for unwritable path")
	}
}

func TestSaveWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deck.pptx")
	p := &Presentation{Slides: []Slide{{Layout: LayoutTitle, Title: "only"}}}
	if err := p.Save(path); err != nil {
		t.Fatalf("Save: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	parts := readParts(t, data)
	if !strings.Contains(parts["ppt/slides/slide1.xml"], "only") {
		t.Error("expected slide text in saved deck")
	}
}

func TestScaledHeight(t *testing.T) {
	tests := []struct {
		w, h int
		want int64
	}{
		{100, 100, ImageWidth},
		{200, 100, ImageWidth / 2},
		{100, 300, ImageWidth * 3},
		{0, 10, ImageWidth},
	}
	for _, tc := range tests {
		if got := scaledHeight(tc.w, tc.h, ImageWidth); got != tc.want {
			t.Errorf("scaledHeight(%d, %d) = %d, want %d", tc.w, tc.h, got, tc.want)
		}
	}
}
