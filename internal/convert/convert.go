package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"

	"github.com/thywilljoshua/pdf-to-slides/internal/ai"
	"github.com/thywilljoshua/pdf-to-slides/internal/config"
	"github.com/thywilljoshua/pdf-to-slides/internal/handout"
	"github.com/thywilljoshua/pdf-to-slides/internal/jsonfix"
	"github.com/thywilljoshua/pdf-to-slides/internal/pdfdoc"
	"github.com/thywilljoshua/pdf-to-slides/internal/prompt"
	"github.com/thywilljoshua/pdf-to-slides/internal/template"
)

// RawSuffix is appended to the template path for the saved model reply when
// it cannot be repaired.
const RawSuffix = ".raw.txt"

// GenerateTemplate asks the model for cfg.Template.Items Q&A entries about
// the document and saves them to out. A provider error or an unrepairable
// reply aborts the run; the reply is then kept next to out for manual fixing.
func GenerateTemplate(ctx context.Context, pdfPath, out string, provider ai.Provider, cfg config.Config) (TemplateResult, error) {
	if out == "" {
		out = cfg.Template.Output
	}
	if err := pdfdoc.CheckPDF(pdfPath); err != nil {
		return TemplateResult{}, err
	}

	pages, err := ProbePages(pdfPath)
	if err != nil {
		return TemplateResult{}, err
	}
	warnPagePairing(cfg.Template.Items, pages)

	doc, err := pdfdoc.Extract(pdfPath, pdfdoc.Options{SkipImages: true, TextBackend: cfg.Deck.TextBackend})
	if err != nil {
		return TemplateResult{}, err
	}
	if strings.TrimSpace(doc.Text) == "" {
		log.Warn().Str("pdf", pdfPath).Msg("document has no extractable text")
	}

	p := prompt.Generation(doc.Text, cfg.Template.Items, cfg.Template.SourceChars)
	log.Info().Str("provider", provider.Name()).Int("items", cfg.Template.Items).Int("tokens", prompt.EstimateTokens(p)).Msg("requesting template")
	raw, err := provider.Complete(ctx, p)
	if err != nil {
		return TemplateResult{}, fmt.Errorf("generate template: %w", err)
	}

	res, err := saveModelOutput(raw, out, cfg)
	if err != nil {
		return res, err
	}
	res.Requested = cfg.Template.Items
	res.Pages = pages
	res.TextChars = utf8.RuneCountInString(doc.Text)
	if res.Items != res.Requested {
		log.Warn().Int("requested", res.Requested).Int("returned", res.Items).Msg("model returned a different number of items")
	}
	return res, nil
}

// RepairTemplate runs recovery on a saved model reply and saves the result.
func RepairTemplate(raw io.Reader, out string, cfg config.Config) (TemplateResult, error) {
	if out == "" {
		out = cfg.Template.Output
	}
	b, err := io.ReadAll(raw)
	if err != nil {
		return TemplateResult{}, fmt.Errorf("read model output: %w", err)
	}
	return saveModelOutput(string(b), out, cfg)
}

func saveModelOutput(raw, out string, cfg config.Config) (TemplateResult, error) {
	items, rep, err := template.FromModelOutput(raw)
	if rep.Attempted {
		log.Warn().Strs("fixes", fixNames(rep.Fixes)).Bool("ok", err == nil).Msg("model output needed JSON repair")
	}
	var rerr *jsonfix.RepairError
	if errors.As(err, &rerr) {
		rawPath := out + RawSuffix
		if werr := os.WriteFile(rawPath, []byte(raw), 0o644); werr != nil {
			log.Error().Err(werr).Str("file", rawPath).Msg("could not save model output")
		} else {
			log.Error().Str("file", rawPath).Msg("saved model output for manual correction")
		}
		log.Error().Str("repaired", rerr.Repaired).Msg("repaired text still does not parse")
		return TemplateResult{Fixes: rep.Fixes, Repaired: true}, fmt.Errorf("recover template JSON (raw reply saved to %s): %w", rawPath, err)
	}
	if err != nil {
		return TemplateResult{}, err
	}

	if err := template.Save(items, out, cfg.Template.Variable); err != nil {
		return TemplateResult{}, err
	}
	log.Info().Str("file", out).Int("items", len(items)).Msg("saved template")
	return TemplateResult{Output: out, Items: len(items), Repaired: rep.Attempted, Fixes: rep.Fixes}, nil
}

// BuildDeck answers every template item with the model, using the first
// examples as few-shot context, and writes the deck. A failed answer
// becomes placeholder text on its slide.
func BuildDeck(ctx context.Context, req DeckRequest, asker Asker, cfg config.Config) (DeckResult, error) {
	switch {
	case req.PDFPath == "":
		return DeckResult{}, errors.New("no PDF file given")
	case req.TemplatePath == "":
		return DeckResult{}, errors.New("no template file given")
	case req.OutPath == "":
		return DeckResult{}, errors.New("no output deck path given")
	case req.Examples < 1:
		return DeckResult{}, fmt.Errorf("few-shot example count must be at least 1, got %d", req.Examples)
	}
	if err := pdfdoc.CheckPDF(req.PDFPath); err != nil {
		return DeckResult{}, err
	}

	items, err := template.Load(req.TemplatePath)
	if err != nil {
		return DeckResult{}, err
	}
	if req.Examples > cfg.Deck.MaxExamples {
		log.Info().Int("requested", req.Examples).Int("max", cfg.Deck.MaxExamples).Msg("too many examples, limiting")
	}
	examples := prompt.SelectExamples(items, req.Examples, cfg.Deck.MaxExamples)

	doc, err := pdfdoc.Extract(req.PDFPath, pdfdoc.Options{
		DPI:         cfg.Deck.DPI,
		ImageDir:    cfg.Deck.ImageDir,
		TextBackend: cfg.Deck.TextBackend,
	})
	if err != nil {
		return DeckResult{}, err
	}
	warnPagePairing(len(items), len(doc.Pages))

	res := DeckResult{
		Output:    req.OutPath,
		Items:     len(items),
		Examples:  len(examples),
		Pages:     len(doc.Pages),
		Images:    len(doc.Images),
		ImageDir:  cfg.Deck.ImageDir,
		TextChars: utf8.RuneCountInString(doc.Text),
	}

	contents := make([]SlideContent, 0, len(items))
	for i, it := range items {
		title := it.DisplayTitle()
		log.Info().Int("item", i+1).Str("title", title).Msg("generating answer")
		answer := asker.Ask(ctx, prompt.FewShot(examples, it.Question))
		if ai.IsPlaceholder(answer) {
			res.Placeholders++
		}
		body := answer
		if req.Compare {
			body = prompt.Compare(answer, it.OriginalAnswer())
		}
		contents = append(contents, SlideContent{Title: title, Body: body})
	}

	deck := Assemble(contents, doc.Images, AssembleOptions{
		MaxChars:        cfg.Deck.MaxChars,
		OverviewTitle:   cfg.Deck.OverviewTitle,
		ContinuedSuffix: cfg.Deck.ContinuedSuffix,
		FontFace:        cfg.Deck.FontFace,
		TitleSize:       cfg.Deck.TitleSize,
		BodySize:        cfg.Deck.BodySize,
	})
	res.Slides = len(deck.Slides)
	res.Deck = deck
	if err := WriteDeck(deck, req.OutPath); err != nil {
		return res, err
	}
	log.Info().Str("file", req.OutPath).Int("slides", res.Slides).Msg("saved deck")

	if req.HandoutPath != "" {
		if err := handout.Write(deck, req.HandoutPath, handout.Options{FontPath: req.HandoutFont}); err != nil {
			return res, err
		}
		res.Handout = req.HandoutPath
		log.Info().Str("file", req.HandoutPath).Msg("saved handout")
	}
	return res, nil
}

func fixNames(fixes []jsonfix.Fix) []string {
	out := make([]string, len(fixes))
	for i, f := range fixes {
		out[i] = string(f)
	}
	return out
}
