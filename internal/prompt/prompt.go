// Package prompt builds the text sent to the language model.
package prompt

import (
	"fmt"
	"strings"

	"github.com/thywilljoshua/pdf-to-slides/internal/template"
)

const fewShotInstruction = "The following are example Q&A pairs based on the document:"

// FewShot renders examples as Q/A blocks after a fixed instruction and
// leaves an empty answer slot for question.
func FewShot(examples []template.Item, question string) string {
	var b strings.Builder
	b.WriteString(fewShotInstruction)
	b.WriteString("\n\n")
	for _, ex := range examples {
		fmt.Fprintf(&b, "Q: %s\nA: %s\n\n", ex.Question, ex.Answer)
	}
	fmt.Fprintf(&b, "Q: %s\nA:", question)
	return b.String()
}

// EstimateTokens is a whitespace word count, not a real tokenizer.
func EstimateTokens(prompt string) int {
	return len(strings.Fields(prompt))
}

// SelectExamples returns the first min(requested, len(items), max) items.
func SelectExamples(items []template.Item, requested, max int) []template.Item {
	n := requested
	if n > len(items) {
		n = len(items)
	}
	if max >= 0 && n > max {
		n = max
	}
	if n <= 0 {
		return nil
	}
	return items[:n]
}

// Generation asks for items Q&A entries over the first sourceChars runes
// of text.
func Generation(text string, items, sourceChars int) string {
	excerpt := text
	if sourceChars > 0 {
		if r := []rune(text); len(r) > sourceChars {
			excerpt = string(r[:sourceChars])
		}
	}
	return fmt.Sprintf(`The following is the text of the input document:

------------------------------
%s
------------------------------

Based on this document, create a list of %d Q&A items that can be used to build slides.

Each item follows the JSON format below, and 'answer' should be written as a slide outline.
In particular, write 'answer' as multi-line text with real line breaks so it reads well.

Requirements:
- The output must be a JSON array
- 'answer' must use markdown structure
- Every item must include title, question and answer

[{"title": "...", "question": "...", "answer": "..."}]
`, excerpt, items)
}

// Compare puts the model's answer next to the template's answer.
func Compare(generated, original string) string {
	return fmt.Sprintf("[Model answer]\n%s\n\n[Template answer]\n%s", generated, original)
}
