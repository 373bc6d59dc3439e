package jsonfix

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Fix names one repair pass.
type Fix string

const (
	FixSmartQuotes      Fix = "smart-quotes"
	FixFieldSeparators  Fix = "field-separators"
	FixAnswerNewlines   Fix = "answer-newlines"
	FixControlChars     Fix = "control-chars"
	FixObjectSeparators Fix = "object-separators"
	FixTrailingCommas   Fix = "trailing-commas"
)

// AnswerKey is the field whose free text gets newline normalization.
const AnswerKey = "answer"

type pass struct {
	fix Fix
	fn  func(string) string
}

// Order matters: quotes must be straight before any structure is visible,
// and answer values must be single-line before objects are separated.
var passes = []pass{
	{FixSmartQuotes, normalizeQuotes},
	{FixFieldSeparators, insertFieldSeparators},
	{FixAnswerNewlines, escapeAnswerValues},
	{FixControlChars, escapeControlChars},
	{FixObjectSeparators, insertObjectSeparators},
	{FixTrailingCommas, dropTrailingCommas},
}

// Repair applies every pass in order and reports the ones that changed
// something. Well-formed JSON comes back unchanged.
func Repair(candidate string) (string, []Fix) {
	var fixes []Fix
	s := candidate
	for _, p := range passes {
		out := p.fn(s)
		if out != s {
			fixes = append(fixes, p.fix)
			s = out
		}
	}
	return s, fixes
}

// normalizeQuotes turns typographic quotes into ASCII ones. Inside a string
// opened with a straight quote they are content, unless a closing curly
// quote is followed by structure, in which case it is the delimiter.
func normalizeQuotes(s string) string {
	if !strings.ContainsAny(s, "“”‘’") {
		return s
	}
	const (
		outside = iota
		inStraight
		inCurly
	)
	rs := []rune(s)
	var b strings.Builder
	b.Grow(len(s))
	state := outside
	escaped := false
	for i, r := range rs {
		switch state {
		case outside:
			switch r {
			case '"':
				state = inStraight
			case '“', '”':
				r = '"'
				state = inCurly
			case '‘', '’':
				r = '\''
			}
		case inStraight:
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else if r == '"' {
				state = outside
			} else if (r == '”' || r == '’') && closesString(rs, i+1) {
				r = '"'
				state = outside
			}
		case inCurly:
			if escaped {
				escaped = false
			} else if r == '\\' {
				escaped = true
			} else {
				switch r {
				case '“', '”', '"':
					r = '"'
					state = outside
				case '‘', '’':
					r = '\''
				}
			}
		}
		b.WriteRune(r)
	}
	return b.String()
}

// closesString reports whether the text from rs[i] reads like the rest of a
// JSON container after a string: ':', '}' or ']', or a ',' leading to the
// next key or element. End of input counts too.
func closesString(rs []rune, i int) bool {
	j := skipSpace(rs, i)
	if j == len(rs) {
		return true
	}
	switch rs[j] {
	case ':', '}', ']':
		return true
	case ',':
		k := skipSpace(rs, j+1)
		if k == len(rs) {
			return true
		}
		switch rs[k] {
		case '"', '“', '”', '{', '[', ']', '}':
			return true
		}
	}
	return false
}

func skipSpace(rs []rune, i int) int {
	for i < len(rs) && (rs[i] == ' ' || rs[i] == '\t' || rs[i] == '\n' || rs[i] == '\r') {
		i++
	}
	return i
}

// insertFieldSeparators adds the comma a model dropped between two fields,
// e.g. `"question": "..." "answer": "..."`.
func insertFieldSeparators(s string) string {
	toks := lex(s)
	infos := analyze(toks)
	after := map[int]bool{}
	for _, in := range infos {
		if in.missingField && in.prev >= 0 {
			after[in.prev] = true
		}
	}
	return withCommasAfter(toks, after)
}

// insertObjectSeparators adds the comma between adjacent objects in an array.
func insertObjectSeparators(s string) string {
	toks := lex(s)
	infos := analyze(toks)
	after := map[int]bool{}
	for i, in := range infos {
		if in.missingElement && toks[i].text == "{" && in.prev >= 0 && toks[in.prev].text == "}" {
			after[in.prev] = true
		}
	}
	return withCommasAfter(toks, after)
}

func withCommasAfter(toks []token, after map[int]bool) string {
	if len(after) == 0 {
		return join(toks)
	}
	out := make([]token, 0, len(toks)+len(after))
	for i, t := range toks {
		out = append(out, t)
		if after[i] {
			out = append(out, token{tokPunct, ","})
		}
	}
	return join(out)
}

func dropTrailingCommas(s string) string {
	toks := lex(s)
	infos := analyze(toks)
	out := toks[:0:0]
	changed := false
	for i, t := range toks {
		if infos[i].trailing {
			changed = true
			continue
		}
		out = append(out, t)
	}
	if !changed {
		return s
	}
	return join(out)
}

// escapeAnswerValues makes multi-line answer text JSON-safe: CR dropped,
// LF escaped, TAB dropped, surrounding whitespace trimmed. Values without
// raw control characters are left as they are.
func escapeAnswerValues(s string) string {
	toks := lex(s)
	infos := analyze(toks)
	changed := false
	for i, t := range toks {
		if t.kind != tokString || infos[i].role != roleValue || infos[i].key != AnswerKey {
			continue
		}
		body, closed := stringBody(t.text)
		if !strings.ContainsAny(body, "\r\n\t") {
			continue
		}
		body = strings.ReplaceAll(body, "\r", "")
		body = strings.ReplaceAll(body, "\n", `\n`)
		body = strings.ReplaceAll(body, "\t", "")
		body = strings.TrimSpace(body)
		toks[i].text = quoteBody(body, closed)
		changed = true
	}
	if !changed {
		return s
	}
	return join(toks)
}

// escapeControlChars escapes raw control characters in all remaining
// strings without altering their logical value.
func escapeControlChars(s string) string {
	toks := lex(s)
	changed := false
	for i, t := range toks {
		if t.kind != tokString {
			continue
		}
		body, closed := stringBody(t.text)
		if !hasControl(body) {
			continue
		}
		var b strings.Builder
		for _, r := range body {
			switch {
			case r == '\n':
				b.WriteString(`\n`)
			case r == '\r':
				b.WriteString(`\r`)
			case r == '\t':
				b.WriteString(`\t`)
			case r < 0x20:
				fmt.Fprintf(&b, `\u%04x`, r)
			default:
				b.WriteRune(r)
			}
		}
		toks[i].text = quoteBody(b.String(), closed)
		changed = true
	}
	if !changed {
		return s
	}
	return join(toks)
}

func hasControl(s string) bool {
	for i := 0; i < len(s); {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r < 0x20 {
			return true
		}
		i += size
	}
	return false
}

// stringBody strips the quotes of a string token; closed is false for a
// string that ran to the end of input.
func stringBody(text string) (string, bool) {
	body := text[1:]
	if len(text) >= 2 && strings.HasSuffix(text, `"`) && !escapedQuoteAtEnd(text) {
		return body[:len(body)-1], true
	}
	return body, false
}

func escapedQuoteAtEnd(text string) bool {
	n := 0
	for i := len(text) - 2; i >= 1 && text[i] == '\\'; i-- {
		n++
	}
	return n%2 == 1
}

func quoteBody(body string, closed bool) string {
	if closed {
		return `"` + body + `"`
	}
	return `"` + body
}
