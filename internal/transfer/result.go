package transfer

import "fmt"

// RowError explains why a line was skipped.
type RowError struct {
	Line   int    `json:"line"`
	Reason string `json:"reason"`
}

// Result summarises one import.
type Result struct {
	Imported int        `json:"imported"`
	Skipped  int        `json:"skipped"`
	Errors   []RowError `json:"errors"`
}

// NewResult returns an empty result with a non-nil error list.
func NewResult() *Result {
	return &Result{Errors: []RowError{}}
}

// Skip counts a skipped line and records why.
func (r *Result) Skip(line int, format string, args ...any) {
	r.Skipped++
	r.Errors = append(r.Errors, RowError{Line: line, Reason: fmt.Sprintf(format, args...)})
}
