// Package handout renders an assembled deck as a PDF, one page per slide.
package handout

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/thywilljoshua/pdf-to-slides/internal/pptx"
)

type Options struct {
	// FontPath is a UTF-8 TrueType font. Without it the core Helvetica
	// font is used and text outside cp1252 is lost.
	FontPath string
}

const (
	emuPerPoint = 12700
	margin      = 36.0
	fontFamily  = "deck"
)

func Write(p *pptx.Presentation, path string, opts Options) error {
	if len(p.Slides) == 0 {
		return errors.New("presentation has no slides")
	}
	pageW := float64(pptx.SlideCX) / emuPerPoint
	pageH := float64(pptx.SlideCY) / emuPerPoint

	// "P" keeps Wd/Ht as given; the page is already wider than tall.
	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           gofpdf.SizeType{Wd: pageW, Ht: pageH},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(false, margin)

	family := "Helvetica"
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	if opts.FontPath != "" {
		pdf.AddUTF8Font(fontFamily, "", opts.FontPath)
		pdf.AddUTF8Font(fontFamily, "B", opts.FontPath)
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("load handout font: %w", err)
		}
		family = fontFamily
		tr = func(s string) string { return s }
	}

	titleSize := float64(p.TitleSize)
	if titleSize <= 0 {
		titleSize = 18
	}
	bodySize := float64(p.BodySize)
	if bodySize <= 0 {
		bodySize = 12
	}

	imgX := float64(pptx.ImageLeft) / emuPerPoint
	imgY := float64(pptx.ImageTop) / emuPerPoint
	imgW := float64(pptx.ImageWidth) / emuPerPoint

	for i, s := range p.Slides {
		pdf.AddPage()

		size := titleSize
		if s.Layout == pptx.LayoutTitle {
			size = titleSize * 1.5
		}
		pdf.SetFont(family, "B", size)
		pdf.SetXY(margin, margin)
		pdf.MultiCell(pageW-2*margin, size*1.3, tr(s.Title), "", "L", false)

		bodyW := pageW - 2*margin
		if s.Image != "" {
			bodyW = imgX - margin - margin/2
		}
		pdf.SetFont(family, "", bodySize)
		pdf.SetXY(margin, imgY)
		pdf.MultiCell(bodyW, bodySize*1.4, tr(strings.Join(s.Body, "\n")), "", "L", false)

		if s.Image != "" {
			imageType := strings.TrimPrefix(strings.ToUpper(filepath.Ext(s.Image)), ".")
			if imageType == "JPEG" {
				imageType = "JPG"
			}
			// Zero height keeps the aspect ratio.
			pdf.ImageOptions(s.Image, imgX, imgY, imgW, 0, false, gofpdf.ImageOptions{ImageType: imageType}, 0, "")
		}
		if err := pdf.Error(); err != nil {
			return fmt.Errorf("render slide %d: %w", i+1, err)
		}
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("write handout %s: %w", path, err)
	}
	return nil
}
