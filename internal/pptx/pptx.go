// Package pptx writes a minimal PowerPoint (OOXML) package: a 4:3 deck
// with a title layout, a title+body layout and optional pictures.
package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"os"
	"strings"
	"time"
)

const (
	MediaType = "application/vnd.openxmlformats-officedocument.presentationml.presentation"

	emuPerInch int64 = 914400

	// 4:3, 10in x 7.5in.
	SlideCX = 10 * emuPerInch
	SlideCY = 15 * emuPerInch / 2

	ImageLeft  = 11 * emuPerInch / 2
	ImageTop   = 3 * emuPerInch / 2
	ImageWidth = 3 * emuPerInch
)

type Layout int

const (
	// LayoutTitle is a centered title with a subtitle block.
	LayoutTitle Layout = iota
	// LayoutContent is a title with a body placeholder.
	LayoutContent
)

// Slide is one slide. Image is a PNG or JPEG path, empty for none.
type Slide struct {
	Layout Layout   `json:"layout"`
	Title  string   `json:"title"`
	Body   []string `json:"body,omitempty"`
	Image  string   `json:"image,omitempty"`
}

// Presentation is a deck ready to be written. Sizes are in points; zero
// leaves the layout default.
type Presentation struct {
	Slides    []Slide
	FontFace  string
	TitleSize int
	BodySize  int
	Author    string
	Created   time.Time
}

type media struct {
	name   string // ppt/media/imageN.ext
	data   []byte
	cx, cy int64
}

// WriteTo encodes the package into w.
func (p *Presentation) WriteTo(w io.Writer) (int64, error) {
	if len(p.Slides) == 0 {
		return 0, errors.New("presentation has no slides")
	}
	images, slideMedia, err := p.loadMedia()
	if err != nil {
		return 0, err
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	created := p.Created
	if created.IsZero() {
		created = time.Now()
	}

	parts := []struct{ name, body string }{
		{"[Content_Types].xml", contentTypesXML(len(p.Slides), images)},
		{"_rels/.rels", rootRelsXML},
		{"docProps/core.xml", corePropsXML(p.Author, created)},
		{"docProps/app.xml", appPropsXML(len(p.Slides))},
		{"ppt/presentation.xml", presentationXML(len(p.Slides))},
		{"ppt/_rels/presentation.xml.rels", presentationRelsXML(len(p.Slides))},
		{"ppt/slideMasters/slideMaster1.xml", slideMasterXML},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", slideMasterRelsXML},
		{"ppt/slideLayouts/slideLayout1.xml", titleLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", layoutRelsXML},
		{"ppt/slideLayouts/slideLayout2.xml", contentLayoutXML},
		{"ppt/slideLayouts/_rels/slideLayout2.xml.rels", layoutRelsXML},
		{"ppt/theme/theme1.xml", themeXML},
	}
	for _, part := range parts {
		if err := writeZipTextFile(zw, part.name, part.body); err != nil {
			_ = zw.Close()
			return 0, err
		}
	}

	for i, s := range p.Slides {
		n := i + 1
		m := slideMedia[i]
		if err := writeZipTextFile(zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), p.slideXML(s, m)); err != nil {
			_ = zw.Close()
			return 0, err
		}
		if err := writeZipTextFile(zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), slideRelsXML(s.Layout, m)); err != nil {
			_ = zw.Close()
			return 0, err
		}
	}
	for _, m := range images {
		if err := writeZipBytes(zw, m.name, m.data); err != nil {
			_ = zw.Close()
			return 0, err
		}
	}
	if err := zw.Close(); err != nil {
		return 0, err
	}
	return buf.WriteTo(w)
}

// Save writes the deck to path.
func (p *Presentation) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create deck: %w", err)
	}
	if _, err := p.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("write deck %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close deck %s: %w", path, err)
	}
	return nil
}

// loadMedia reads every distinct image once. slideMedia[i] is nil for a
// slide without a picture.
func (p *Presentation) loadMedia() ([]*media, []*media, error) {
	var all []*media
	byPath := map[string]*media{}
	slideMedia := make([]*media, len(p.Slides))
	for i, s := range p.Slides {
		if s.Image == "" {
			continue
		}
		if m, ok := byPath[s.Image]; ok {
			slideMedia[i] = m
			continue
		}
		data, err := os.ReadFile(s.Image)
		if err != nil {
			return nil, nil, fmt.Errorf("read image: %w", err)
		}
		cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
		if err != nil {
			return nil, nil, fmt.Errorf("decode image %s: %w", s.Image, err)
		}
		ext, ok := extensionForFormat(format)
		if !ok {
			return nil, nil, fmt.Errorf("unsupported image type %q (expected png or jpeg)", format)
		}
		m := &media{
			name: fmt.Sprintf("ppt/media/image%d.%s", len(all)+1, ext),
			data: data,
			cx:   ImageWidth,
			cy:   scaledHeight(cfg.Width, cfg.Height, ImageWidth),
		}
		all = append(all, m)
		byPath[s.Image] = m
		slideMedia[i] = m
	}
	return all, slideMedia, nil
}

func extensionForFormat(format string) (string, bool) {
	switch strings.ToLower(format) {
	case "png":
		return "png", true
	case "jpeg", "jpg":
		return "jpeg", true
	}
	return "", false
}

// scaledHeight keeps the aspect ratio for a picture width cx in EMU.
func scaledHeight(w, h int, cx int64) int64 {
	if w <= 0 || h <= 0 {
		return cx
	}
	return cx * int64(h) / int64(w)
}

func writeZipTextFile(writer *zip.Writer, name string, content string) error {
	w, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := io.Copy(w, strings.NewReader(content)); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}

func writeZipBytes(writer *zip.Writer, name string, payload []byte) error {
	w, err := writer.Create(name)
	if err != nil {
		return fmt.Errorf("create zip entry %s: %w", name, err)
	}
	if _, err := w.Write(payload); err != nil {
		return fmt.Errorf("write zip entry %s: %w", name, err)
	}
	return nil
}
