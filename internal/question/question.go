// Package question defines the question-bank record types and the
// shuffle/remap transform applied each time a question is shown.
package question

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// OptionCount is the number of answer options every record carries.
const OptionCount = 4

// Record is a question at rest. Options[0] is the correct answer for every
// record produced by ingestion; CorrectIndex is kept so the same shape can
// describe a presented question.
type Record struct {
	ID           string   `json:"id"`
	TopicID      string   `json:"topicId"`
	Prompt       string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation,omitempty"`
	Subject      string   `json:"subject,omitempty"`
}

// Presented is a Record whose options were permuted for one display.
// It is never persisted or cached.
type Presented Record

var (
	ErrOptionCount      = errors.New("question must have exactly 4 options")
	ErrCorrectIndex     = errors.New("correct index out of range")
	ErrDuplicateOptions = errors.New("options are not pairwise distinct")
)

// Correct returns the text of the correct option, or "" if CorrectIndex is
// out of range.
func (r Record) Correct() string {
	if r.CorrectIndex < 0 || r.CorrectIndex >= len(r.Options) {
		return ""
	}
	return r.Options[r.CorrectIndex]
}

// Validate checks the structural invariants of a record.
func (r Record) Validate() error {
	if len(r.Options) != OptionCount {
		return fmt.Errorf("%s: %w (got %d)", r.ID, ErrOptionCount, len(r.Options))
	}
	if r.CorrectIndex < 0 || r.CorrectIndex >= len(r.Options) {
		return fmt.Errorf("%s: %w (%d)", r.ID, ErrCorrectIndex, r.CorrectIndex)
	}
	return DistinctOptions(r.Options)
}

// DistinctOptions reports ErrDuplicateOptions when two options are the same
// text. Comparison is on the NFC form with surrounding space trimmed, so
// visually identical strings with different encodings collide.
func DistinctOptions(options []string) error {
	seen := make(map[string]int, len(options))
	for i, opt := range options {
		key := norm.NFC.String(strings.TrimSpace(opt))
		if j, ok := seen[key]; ok {
			return fmt.Errorf("%w: option %d repeats option %d (%q)", ErrDuplicateOptions, i, j, opt)
		}
		seen[key] = i
	}
	return nil
}
