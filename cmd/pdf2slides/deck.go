package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-slides/internal/ai"
	"github.com/thywilljoshua/pdf-to-slides/internal/convert"
)

func deckCmd(g *globals) *cobra.Command {
	var req convert.DeckRequest
	var maxChars int
	var dpi int
	var imageDir string
	var textBackend string

	cmd := &cobra.Command{
		Use:   "deck <pdf>",
		Short: "Answer every template question with the model and write a PPTX deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.PDFPath = args[0]
			cfg := g.cfg
			flags := cmd.Flags()
			if flags.Changed("max-chars") {
				cfg.Deck.MaxChars = maxChars
			}
			if flags.Changed("dpi") {
				cfg.Deck.DPI = dpi
			}
			if flags.Changed("image-dir") {
				cfg.Deck.ImageDir = imageDir
			}
			if flags.Changed("text-backend") {
				cfg.Deck.TextBackend = textBackend
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			provider, err := ai.New(cmd.Context(), cfg.LLM)
			if err != nil {
				return err
			}
			res, err := convert.BuildDeck(cmd.Context(), req, ai.NewAdapter(provider), cfg)
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVarP(&req.TemplatePath, "template", "t", "", "Q&A template file")
	f.IntVarP(&req.Examples, "examples", "e", 0, "number of template items used as few-shot examples")
	f.StringVarP(&req.OutPath, "out", "o", "", "deck file to write (.pptx)")
	f.BoolVar(&req.Compare, "compare", false, "show the template answer under the model answer")
	f.StringVar(&req.HandoutPath, "handout", "", "also write a PDF handout of the deck")
	f.StringVar(&req.HandoutFont, "handout-font", "", "TTF font for the handout (needed for non-Latin text)")
	f.IntVar(&maxChars, "max-chars", 800, "maximum characters per slide body")
	f.IntVar(&dpi, "dpi", 300, "page render resolution")
	f.StringVar(&imageDir, "image-dir", "extracted_images", "directory for rendered page images")
	f.StringVar(&textBackend, "text-backend", "fitz", "text extractor: fitz|ledongthuc")
	for _, name := range []string{"template", "examples", "out"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
