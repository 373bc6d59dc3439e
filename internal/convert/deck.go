package convert

import (
	"fmt"

	"github.com/thywilljoshua/pdf-to-slides/internal/pdfdoc"
	"github.com/thywilljoshua/pdf-to-slides/internal/pptx"
)

type AssembleOptions struct {
	MaxChars        int
	OverviewTitle   string
	ContinuedSuffix string
	FontFace        string
	TitleSize       int
	BodySize        int
}

// Assemble lays out one overview slide listing every title, then the
// chunked body of each item. Item i (zero-based) takes the image of page
// i+1; this pairing only holds when items follow the document page order.
func Assemble(contents []SlideContent, images pdfdoc.PageImages, opts AssembleOptions) *pptx.Presentation {
	p := &pptx.Presentation{
		FontFace:  opts.FontFace,
		TitleSize: opts.TitleSize,
		BodySize:  opts.BodySize,
	}

	overview := pptx.Slide{Layout: pptx.LayoutTitle, Title: opts.OverviewTitle}
	for i, c := range contents {
		overview.Body = append(overview.Body, fmt.Sprintf("%d. %s", i+1, c.Title))
	}
	p.Slides = append(p.Slides, overview)

	for i, c := range contents {
		img, _ := images.First(i + 1)
		chunks := SplitSlides(c.Body, opts.MaxChars)
		if len(chunks) == 0 {
			// An item still gets its slide when the body is empty.
			chunks = []string{""}
		}
		for j, chunk := range chunks {
			title := c.Title
			if j > 0 {
				title += opts.ContinuedSuffix
			}
			p.Slides = append(p.Slides, pptx.Slide{
				Layout: pptx.LayoutContent,
				Title:  title,
				Body:   lines(chunk),
				Image:  img,
			})
		}
	}
	return p
}

// WriteDeck saves p to path. A failure here is fatal for the run.
func WriteDeck(p *pptx.Presentation, path string) error {
	return p.Save(path)
}
