// Package jsonfix recovers a JSON array from noisy language-model output:
// strict parse first, one bounded repair round, then fail closed.
package jsonfix

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Report describes what Recover did to get a parse.
type Report struct {
	Candidate string
	Repaired  string
	Fixes     []Fix
	// Attempted is true when the strict parse failed and repair ran.
	Attempted bool
}

// RepairError means the repaired candidate still did not parse. Repaired
// holds the text for manual correction.
type RepairError struct {
	Candidate string
	Repaired  string
	Fixes     []Fix
	Cause     error // strict parse error
	Err       error // parse error after repair
}

func (e *RepairError) Error() string {
	return fmt.Sprintf("json repair failed after %v: %v (strict parse: %v)", e.Fixes, e.Err, e.Cause)
}

func (e *RepairError) Unwrap() error { return e.Err }

// Extract returns the span from the first '[' to the last ']' inclusive,
// or the input unchanged when there is no such span.
func Extract(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start == -1 || end == -1 || end < start {
		return raw
	}
	return raw[start : end+1]
}

// Recover extracts the JSON candidate from raw and decodes it into v,
// repairing it once when the strict parse fails.
func Recover(raw string, v any) (Report, error) {
	rep := Report{Candidate: Extract(raw)}
	strictErr := json.Unmarshal([]byte(rep.Candidate), v)
	if strictErr == nil {
		return rep, nil
	}

	rep.Attempted = true
	rep.Repaired, rep.Fixes = Repair(rep.Candidate)
	if err := json.Unmarshal([]byte(rep.Repaired), v); err != nil {
		return rep, &RepairError{
			Candidate: rep.Candidate,
			Repaired:  rep.Repaired,
			Fixes:     rep.Fixes,
			Cause:     strictErr,
			Err:       err,
		}
	}
	return rep, nil
}
