package template

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/thywilljoshua/pdf-to-slides/internal/jsonfix"
)

// Item is one title/question/answer triple driving a deck section.
type Item struct {
	Title    string `json:"title"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

const (
	DefaultVariable = "prompt_templates"
	untitled        = "Untitled"
	noAnswer        = "(none)"
)

var ErrEmpty = errors.New("template contains no items")

// FormatError reports a template file whose array does not parse.
type FormatError struct {
	Path string
	Err  error
}

func (e *FormatError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("template JSON is malformed: %v", e.Err)
	}
	return fmt.Sprintf("template %s: JSON is malformed: %v", e.Path, e.Err)
}

func (e *FormatError) Unwrap() error { return e.Err }

func (it Item) DisplayTitle() string {
	if t := strings.TrimSpace(it.Title); t != "" {
		return t
	}
	return untitled
}

func (it Item) OriginalAnswer() string {
	if strings.TrimSpace(it.Answer) != "" {
		return it.Answer
	}
	return noAnswer
}

// Save writes items as `<variable> = [...]`, indented by four spaces with
// non-ASCII text kept literal.
func Save(items []Item, path, variable string) error {
	if variable == "" {
		variable = DefaultVariable
	}
	if items == nil {
		items = []Item{}
	}
	var buf bytes.Buffer
	buf.WriteString(variable)
	buf.WriteString(" = ")
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(items); err != nil {
		return fmt.Errorf("encode template: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create template %s: %w", path, err)
	}
	defer f.Close()
	if _, err := f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write template %s: %w", path, err)
	}
	return f.Close()
}

// Load reads a template file. There is no repair on load.
func Load(path string) ([]Item, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read template: %w", err)
	}
	items, err := Parse(string(b))
	var ferr *FormatError
	if errors.As(err, &ferr) {
		ferr.Path = path
	}
	return items, err
}

// Parse decodes the first '[' … last ']' span of content.
func Parse(content string) ([]Item, error) {
	start := strings.Index(content, "[")
	end := strings.LastIndex(content, "]")
	if start == -1 || end < start {
		return nil, &FormatError{Err: errors.New("no JSON array found")}
	}
	var items []Item
	if err := json.Unmarshal([]byte(content[start:end+1]), &items); err != nil {
		return nil, &FormatError{Err: err}
	}
	if len(items) == 0 {
		return nil, ErrEmpty
	}
	return items, nil
}

// FromModelOutput recovers items from a raw model response, repairing the
// JSON when needed.
func FromModelOutput(raw string) ([]Item, jsonfix.Report, error) {
	var items []Item
	rep, err := jsonfix.Recover(raw, &items)
	if err != nil {
		return nil, rep, err
	}
	if len(items) == 0 {
		return nil, rep, ErrEmpty
	}
	return items, rep, nil
}
