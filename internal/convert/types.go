package convert

import (
	"context"

	"github.com/thywilljoshua/pdf-to-slides/internal/jsonfix"
	"github.com/thywilljoshua/pdf-to-slides/internal/pptx"
)

// SlideContent is the title and generated body for one template item.
type SlideContent struct {
	Title string
	Body  string
}

// Asker answers a prompt with text, never an error. ai.Adapter is the
// production implementation.
type Asker interface {
	Ask(ctx context.Context, prompt string) string
}

type TemplateResult struct {
	Output    string        `json:"output"`
	Items     int           `json:"items"`
	Requested int           `json:"requested,omitempty"`
	Pages     int           `json:"pages,omitempty"`
	TextChars int           `json:"text_chars,omitempty"`
	Repaired  bool          `json:"repaired"`
	Fixes     []jsonfix.Fix `json:"fixes,omitempty"`
}

type DeckRequest struct {
	PDFPath      string
	TemplatePath string
	OutPath      string
	Examples     int
	// Compare puts the template's answer under the model's on each slide.
	Compare     bool
	HandoutPath string
	HandoutFont string
}

type DeckResult struct {
	Output       string `json:"output"`
	Handout      string `json:"handout,omitempty"`
	Slides       int    `json:"slides"`
	Items        int    `json:"items"`
	Examples     int    `json:"examples"`
	Placeholders int    `json:"placeholders"`
	Pages        int    `json:"pages"`
	Images       int    `json:"images_extracted"`
	ImageDir     string `json:"image_dir"`
	TextChars    int    `json:"text_chars"`

	Deck *pptx.Presentation `json:"-"`
}
