package jsonfix

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

type item struct {
	Title    string `json:"title"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"prose around array", "Sure! Here you go:\n[1, 2]\nHope this helps.", "[1, 2]"},
		{"code fence", "```json\n[{\"a\": [1]}]\n```", `[{"a": [1]}]`},
		{"no brackets", `{"a": 1}`, `{"a": 1}`},
		{"closing before opening", "] nothing [", "] nothing ["},
		{"empty", "", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Extract(tc.raw); got != tc.want {
				t.Errorf("Extract(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestRepairIsNoOpOnWellFormedJSON(t *testing.T) {
	inputs := []string{
		`[]`,
		`[{"title": "A", "question": "Q", "answer": "line1\nline2"}]`,
		`[{"title":"A","question":"Q","answer":"x"},{"title":"B","question":"Q2","answer":"y"}]`,
		"[\n    {\n        \"title\": \"제목\",\n        \"question\": \"질문?\",\n        \"answer\": \"- 항목\\n- 항목 2\"\n    }\n]",
		`[{"title": "He said “hi” and ‘bye’", "question": "q", "answer": "a"}]`,
		`[{"title": "esc \"quoted\" \\ backslash", "nested": {"k": [1, 2.5, true, null]}, "answer": "}{"}]`,
		`[{"answer": "  padded  "}]`,
	}
	for _, in := range inputs {
		out, fixes := Repair(in)
		if out != in {
			t.Errorf("expected fixed point for %q, got %q", in, out)
		}
		if len(fixes) != 0 {
			t.Errorf("expected no fixes for %q, got %v", in, fixes)
		}
	}
}

func TestRecoverMissingCommasAndRawNewline(t *testing.T) {
	raw := "[{\"title\":\"A\"\"question\":\"Q\"\"answer\":\"line1\nline2\"}]"

	var items []item
	rep, err := Recover(raw, &items)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	want := item{Title: "A", Question: "Q", Answer: "line1\nline2"}
	if items[0] != want {
		t.Errorf("got %+v, want %+v", items[0], want)
	}
	if !rep.Attempted {
		t.Error("expected repair to be attempted")
	}
	if !strings.Contains(rep.Repaired, `"line1\nline2"`) {
		t.Errorf("expected escaped newline in wire form, got %q", rep.Repaired)
	}
	if !hasFix(rep.Fixes, FixFieldSeparators) || !hasFix(rep.Fixes, FixAnswerNewlines) {
		t.Errorf("expected field-separators and answer-newlines fixes, got %v", rep.Fixes)
	}
}

func TestRecoverSmartQuotesNewlinesAndObjectComma(t *testing.T) {
	raw := "Here is the list:\n" +
		"[\n" +
		"  {“title”: “Intro”, “question”: “What is it?”, “answer”: “- one\n- two”}\n" +
		"  {\"title\": \"Usage\", \"question\": \"How?\" \"answer\": \"\tstep 1\r\nstep 2  \"}\n" +
		"]\nThanks!"

	var items []item
	rep, err := Recover(raw, &items)
	if err != nil {
		t.Fatalf("Recover: %v\nrepaired: %s", err, rep.Repaired)
	}
	want := []item{
		{Title: "Intro", Question: "What is it?", Answer: "- one\n- two"},
		{Title: "Usage", Question: "How?", Answer: "step 1\nstep 2"},
	}
	if !reflect.DeepEqual(items, want) {
		t.Errorf("got %+v\nwant %+v", items, want)
	}
	for _, f := range []Fix{FixSmartQuotes, FixFieldSeparators, FixAnswerNewlines, FixObjectSeparators} {
		if !hasFix(rep.Fixes, f) {
			t.Errorf("expected fix %s in %v", f, rep.Fixes)
		}
	}
}

func TestRecoverStrictPathSkipsRepair(t *testing.T) {
	var items []item
	rep, err := Recover(`noise [{"title":"T","question":"Q","answer":"A"}] noise`, &items)
	if err != nil {
		t.Fatalf("Recover: %v", err)
	}
	if rep.Attempted || rep.Repaired != "" || len(rep.Fixes) != 0 {
		t.Errorf("expected strict parse without repair, got %+v", rep)
	}
	if len(items) != 1 || items[0].Title != "T" {
		t.Errorf("unexpected items %+v", items)
	}
}

func TestRecoverTrailingCommaAndControlChars(t *testing.T) {
	raw := "[{\"title\": \"a\tb\", \"question\": \"q\", \"answer\": \"x\",},]"
	var items []item
	rep, err := Recover(raw, &items)
	if err != nil {
		t.Fatalf("Recover: %v\nrepaired: %s", err, rep.Repaired)
	}
	if len(items) != 1 || items[0].Title != "a\tb" {
		t.Errorf("expected title with logical tab preserved, got %+v", items)
	}
	if !hasFix(rep.Fixes, FixTrailingCommas) || !hasFix(rep.Fixes, FixControlChars) {
		t.Errorf("expected trailing-commas and control-chars fixes, got %v", rep.Fixes)
	}
}

func TestRecoverFailsClosed(t *testing.T) {
	raw := `[{"title": "A", "question": ]`
	var items []item
	rep, err := Recover(raw, &items)
	if err == nil {
		t.Fatal("expected error for unrecoverable input")
	}
	var rerr *RepairError
	if !errors.As(err, &rerr) {
		t.Fatalf("expected *RepairError, got %T", err)
	}
	if rerr.Repaired == "" || rerr.Repaired != rep.Repaired {
		t.Errorf("expected repaired text surfaced, got %q / %q", rerr.Repaired, rep.Repaired)
	}
	if rerr.Cause == nil || rerr.Err == nil {
		t.Error("expected both strict and repaired parse errors")
	}
}

func TestRecoverNoBracketsFails(t *testing.T) {
	var items []item
	_, err := Recover("I could not produce any questions.", &items)
	if err == nil {
		t.Fatal("expected error without any JSON array")
	}
}

func TestNormalizeQuotes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"curly string next to straight content", `[“a”, "b “c”"]`, `["a", "b “c”"]`},
		{"straight open curly close before comma", `{"t": "A”, "q": "Q"}`, `{"t": "A", "q": "Q"}`},
		{"straight open curly close before brace", `{"a": "x’}`, `{"a": "x"}`},
		{"straight open curly close before colon", `{"t”: "A"}`, `{"t": "A"}`},
		{"curly close followed by prose stays content", `["12”, roughly"]`, `["12”, roughly"]`},
		{"curly close followed by straight quote stays content", `["say “hi”"]`, `["say “hi”"]`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := normalizeQuotes(tc.in); got != tc.want {
				t.Errorf("normalizeQuotes(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestRecoverMixedQuoteDelimiters(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want item
	}{
		{"straight open curly close", "[{\"title\": \"A”, \"question\": \"Q\", \"answer\": \"x\"}]", item{"A", "Q", "x"}},
		{"curly open straight close", "[{\"title\": “A\", \"question\": \"Q\", \"answer\": \"x\"}]", item{"A", "Q", "x"}},
		{"single curly close on last value", "[{\"title\": \"A\", \"question\": \"Q\", \"answer\": \"x’}]", item{"A", "Q", "x"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var items []item
			rep, err := Recover(tc.raw, &items)
			if err != nil {
				t.Fatalf("Recover: %v\nrepaired: %s", err, rep.Repaired)
			}
			if len(items) != 1 || items[0] != tc.want {
				t.Errorf("got %+v, want %+v", items, tc.want)
			}
			if !hasFix(rep.Fixes, FixSmartQuotes) || hasFix(rep.Fixes, FixFieldSeparators) {
				t.Errorf("fixes = %v, want smart-quotes only", rep.Fixes)
			}
		})
	}
}

func TestLexUnterminatedString(t *testing.T) {
	toks := lex(`["abc`)
	if len(toks) != 2 || toks[1].kind != tokString || toks[1].text != `"abc` {
		t.Fatalf("unexpected tokens %+v", toks)
	}
}

func hasFix(fixes []Fix, f Fix) bool {
	for _, x := range fixes {
		if x == f {
			return true
		}
	}
	return false
}
