package jsonfix

import "strconv"

type tokenKind int

const (
	tokSpace tokenKind = iota
	tokPunct
	tokString
	tokBare
)

type token struct {
	kind tokenKind
	text string
}

// lex splits s into whitespace, structural punctuation, strings and bare
// words. A string runs to the next unescaped quote, raw newlines included;
// an unterminated string swallows the rest of the input.
func lex(s string) []token {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case isSpace(c):
			j := i
			for j < len(s) && isSpace(s[j]) {
				j++
			}
			toks = append(toks, token{tokSpace, s[i:j]})
			i = j
		case isPunct(c):
			toks = append(toks, token{tokPunct, s[i : i+1]})
			i++
		case c == '"':
			j := i + 1
			escaped := false
			for j < len(s) {
				if escaped {
					escaped = false
				} else if s[j] == '\\' {
					escaped = true
				} else if s[j] == '"' {
					j++
					break
				}
				j++
			}
			toks = append(toks, token{tokString, s[i:j]})
			i = j
		default:
			j := i
			for j < len(s) && !isSpace(s[j]) && !isPunct(s[j]) && s[j] != '"' {
				j++
			}
			toks = append(toks, token{tokBare, s[i:j]})
			i = j
		}
	}
	return toks
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }

func isPunct(c byte) bool {
	switch c {
	case '{', '}', '[', ']', ':', ',':
		return true
	}
	return false
}

type role int

const (
	roleNone role = iota
	roleKey
	roleValue
)

// info is what the structural walk learned about one token.
type info struct {
	role role
	key  string // for values: the key they belong to
	prev int    // index of the previous significant token, -1 if none

	missingField   bool // key arriving where a comma was due
	missingElement bool // array element arriving where a comma was due
	trailing       bool // comma directly before a closing bracket
}

type frameState int

const (
	objExpectKey frameState = iota
	objExpectColon
	objExpectValue
	objExpectComma
	arrExpectValue
	arrExpectComma
)

type frame struct {
	state     frameState
	key       string
	lastComma int
}

// analyze walks the tokens with a per-container state machine. It never
// fails; tokens that fit no state are left unannotated.
func analyze(toks []token) []info {
	infos := make([]info, len(toks))
	var stack []*frame
	prev := -1

	top := func() *frame {
		if len(stack) == 0 {
			return nil
		}
		return stack[len(stack)-1]
	}
	// valueDone advances the enclosing frame after a complete value.
	valueDone := func() {
		if f := top(); f != nil {
			switch f.state {
			case objExpectValue:
				f.state = objExpectComma
			case arrExpectValue:
				f.state = arrExpectComma
			}
		}
	}
	open := func(c string) {
		if c == "{" {
			stack = append(stack, &frame{state: objExpectKey, lastComma: -1})
		} else {
			stack = append(stack, &frame{state: arrExpectValue, lastComma: -1})
		}
	}

	for i, t := range toks {
		if t.kind == tokSpace {
			continue
		}
		infos[i].prev = prev
		f := top()

		switch {
		case f == nil:
			if t.kind == tokPunct && (t.text == "{" || t.text == "[") {
				open(t.text)
			}

		case f.state == objExpectKey || f.state == objExpectComma:
			switch {
			case t.kind == tokString:
				infos[i].role = roleKey
				infos[i].missingField = f.state == objExpectComma
				f.key = unquote(t.text)
				f.state = objExpectColon
			case t.text == ",":
				f.lastComma = i
				f.state = objExpectKey
			case t.text == "}":
				if f.state == objExpectKey && f.lastComma >= 0 && prev == f.lastComma {
					infos[f.lastComma].trailing = true
				}
				stack = stack[:len(stack)-1]
				valueDone()
			}

		case f.state == objExpectColon:
			if t.text == ":" {
				f.state = objExpectValue
			}

		case f.state == objExpectValue:
			switch {
			case t.kind == tokString || t.kind == tokBare:
				infos[i].role = roleValue
				infos[i].key = f.key
				f.state = objExpectComma
			case t.text == "{" || t.text == "[":
				open(t.text)
			case t.text == "}":
				stack = stack[:len(stack)-1]
				valueDone()
			}

		case f.state == arrExpectValue || f.state == arrExpectComma:
			switch {
			case t.text == ",":
				f.lastComma = i
				f.state = arrExpectValue
			case t.text == "]":
				if f.state == arrExpectValue && f.lastComma >= 0 && prev == f.lastComma {
					infos[f.lastComma].trailing = true
				}
				stack = stack[:len(stack)-1]
				valueDone()
			case t.text == "{" || t.text == "[":
				infos[i].missingElement = f.state == arrExpectComma
				f.state = arrExpectValue
				open(t.text)
			case t.kind == tokString || t.kind == tokBare:
				infos[i].role = roleValue
				infos[i].missingElement = f.state == arrExpectComma
				f.state = arrExpectComma
			}
		}
		prev = i
	}
	return infos
}

// unquote returns the logical key text, falling back to the raw body.
func unquote(s string) string {
	if v, err := strconv.Unquote(s); err == nil {
		return v
	}
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func join(toks []token) string {
	n := 0
	for _, t := range toks {
		n += len(t.text)
	}
	b := make([]byte, 0, n)
	for _, t := range toks {
		b = append(b, t.text...)
	}
	return string(b)
}
