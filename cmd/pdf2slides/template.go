package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/pdf-to-slides/internal/ai"
	"github.com/thywilljoshua/pdf-to-slides/internal/convert"
)

func templateCmd(g *globals) *cobra.Command {
	var out string
	var items int
	var sourceChars int
	var variable string

	cmd := &cobra.Command{
		Use:   "template <pdf>",
		Short: "Ask the model for a Q&A template describing the PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := g.cfg
			if cmd.Flags().Changed("items") {
				cfg.Template.Items = items
			}
			if cmd.Flags().Changed("source-chars") {
				cfg.Template.SourceChars = sourceChars
			}
			if cmd.Flags().Changed("variable") {
				cfg.Template.Variable = variable
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			provider, err := ai.New(cmd.Context(), cfg.LLM)
			if err != nil {
				return err
			}
			res, err := convert.GenerateTemplate(cmd.Context(), args[0], out, provider, cfg)
			if err != nil {
				return err
			}
			b, _ := json.MarshalIndent(res, "", "  ")
			fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "template file to write (default: generated_prompt_templates.py)")
	cmd.Flags().IntVarP(&items, "items", "n", 5, "number of Q&A items to request")
	cmd.Flags().IntVar(&sourceChars, "source-chars", 2000, "leading characters of document text sent to the model")
	cmd.Flags().StringVar(&variable, "variable", "prompt_templates", "variable name written before the JSON array")
	return cmd
}
