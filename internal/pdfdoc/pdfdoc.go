// Package pdfdoc pulls text and per-page raster images out of a PDF.
package pdfdoc

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gen2brain/go-fitz"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/unicode/norm"

	"github.com/thywilljoshua/pdf-to-slides/internal/config"
)

const (
	DefaultDPI      = 300
	DefaultImageDir = "extracted_images"
)

var ErrNotPDF = errors.New("not a PDF file")

// PageImages maps a 1-based page number to its image files.
type PageImages map[int][]string

// First returns the first image of page, if any.
func (m PageImages) First(page int) (string, bool) {
	imgs := m[page]
	if len(imgs) == 0 {
		return "", false
	}
	return imgs[0], true
}

type Options struct {
	DPI        int
	ImageDir   string
	SkipImages bool
	// TextBackend is "fitz" (default) or "ledongthuc". Images always
	// come from fitz.
	TextBackend string
}

type Document struct {
	Path   string     `json:"path"`
	Text   string     `json:"-"`
	Pages  []string   `json:"-"`
	Images PageImages `json:"images,omitempty"`
}

// CheckPDF verifies path exists and sniffs as a PDF.
func CheckPDF(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	mt, err := mimetype.DetectFile(path)
	if err != nil {
		return fmt.Errorf("detect file type: %w", err)
	}
	log.Debug().Str("mime", mt.String()).Str("file", path).Msg("detected file type")
	if !mt.Is("application/pdf") {
		return fmt.Errorf("%s: %w (detected %s)", path, ErrNotPDF, mt.String())
	}
	return nil
}

// Extract reads the text of every page in order and, unless SkipImages is
// set, renders each page to ImageDir/page_{n}.png.
func Extract(path string, opts Options) (*Document, error) {
	if opts.DPI <= 0 {
		opts.DPI = DefaultDPI
	}
	if opts.ImageDir == "" {
		opts.ImageDir = DefaultImageDir
	}

	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()

	n := doc.NumPage()
	out := &Document{Path: path, Images: PageImages{}}

	switch opts.TextBackend {
	case "", config.BackendFitz:
		out.Pages = make([]string, n)
		for i := 0; i < n; i++ {
			text, err := doc.Text(i)
			if err != nil {
				return nil, fmt.Errorf("extract text of page %d: %w", i+1, err)
			}
			out.Pages[i] = text
		}
	case config.BackendLedongthuc:
		pages, err := plainTextPages(path)
		if err != nil {
			return nil, err
		}
		out.Pages = pages
	default:
		return nil, fmt.Errorf("unknown text backend %q", opts.TextBackend)
	}
	for i, p := range out.Pages {
		out.Pages[i] = norm.NFC.String(p)
	}
	out.Text = joinPages(out.Pages)

	if !opts.SkipImages {
		if err := os.MkdirAll(opts.ImageDir, 0o755); err != nil {
			return nil, fmt.Errorf("create image dir: %w", err)
		}
		for i := 0; i < n; i++ {
			img, err := doc.ImageDPI(i, float64(opts.DPI))
			if err != nil {
				return nil, fmt.Errorf("failed to render page %d: %w", i+1, err)
			}
			imgPath := filepath.Join(opts.ImageDir, PageImageName(i+1))
			if err := writePNG(imgPath, img); err != nil {
				return nil, err
			}
			out.Images[i+1] = []string{imgPath}
			log.Debug().Int("page", i+1).Int("width", img.Bounds().Dx()).Int("height", img.Bounds().Dy()).Str("file", imgPath).Msg("rendered page")
		}
	}

	log.Info().Str("pdf", path).Int("pages", n).Int("chars", len([]rune(out.Text))).Int("images", len(out.Images)).Msg("extracted document")
	return out, nil
}

// PageImageName is the file name used for a rendered page.
func PageImageName(page int) string {
	return fmt.Sprintf("page_%d.png", page)
}

// PageCount opens the document with fitz and returns its page count.
func PageCount(path string) (int, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF: %w", err)
	}
	defer doc.Close()
	return doc.NumPage(), nil
}

// joinPages concatenates pages, keeping a line break between them.
func joinPages(pages []string) string {
	var b strings.Builder
	for _, p := range pages {
		b.WriteString(p)
		if p != "" && !strings.HasSuffix(p, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image: %w", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return f.Close()
}
