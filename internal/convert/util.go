package convert

import (
	"strings"
	"unicode/utf8"
)

// SplitSlides groups the lines of text into chunks of fewer than maxChars
// runes. A line is never split, so a chunk holding one oversized line may
// exceed maxChars. Chunks are trimmed and never empty.
func SplitSlides(text string, maxChars int) []string {
	var chunks []string
	var cur strings.Builder
	curLen := 0

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			chunks = append(chunks, s)
		}
		cur.Reset()
		curLen = 0
	}

	for _, line := range strings.Split(text, "\n") {
		n := utf8.RuneCountInString(line)
		if curLen+n+1 >= maxChars {
			flush()
		}
		cur.WriteString(line)
		cur.WriteByte('\n')
		curLen += n + 1
	}
	flush()
	return chunks
}

// lines splits a chunk into slide paragraphs.
func lines(chunk string) []string {
	if chunk == "" {
		return nil
	}
	return strings.Split(chunk, "\n")
}
