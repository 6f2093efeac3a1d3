// Package ingest turns the question-bank SQL export into per-topic record
// modules and a JSON snapshot.
package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cpacc-prep/studybank/internal/question"
)

// FieldCount is the number of values every INSERT row must carry.
const FieldCount = 12

// IDPrefix is prepended to the numeric source ID to form a record ID.
const IDPrefix = "q"

// Column order of the questions table and of every VALUES list.
var Columns = []string{
	"id",
	"category_code",
	"category_name",
	"subcategory_code",
	"subcategory_name",
	"subject",
	"question_text",
	"correct_answer",
	"distractor_1",
	"distractor_2",
	"distractor_3",
	"rationale",
}

// Row is one validated INSERT row tagged with its resolved topic.
type Row struct {
	SourceID        string
	CategoryCode    string
	CategoryName    string
	SubCategoryCode string
	SubCategoryName string
	Subject         string
	Question        string
	Correct         string
	Distractors     [3]string
	Rationale       string

	TopicID string
	Line    int
}

func rowFromFields(f []Field) Row {
	return Row{
		SourceID:        f[0].Value,
		CategoryCode:    f[1].Value,
		CategoryName:    f[2].Value,
		SubCategoryCode: strings.ToUpper(f[3].Value),
		SubCategoryName: f[4].Value,
		Subject:         optional(f[5]),
		Question:        f[6].Value,
		Correct:         f[7].Value,
		Distractors:     [3]string{f[8].Value, f[9].Value, f[10].Value},
		Rationale:       optional(f[11]),
	}
}

// Options returns the four options with the correct answer first.
func (r Row) Options() []string {
	return []string{r.Correct, r.Distractors[0], r.Distractors[1], r.Distractors[2]}
}

// Record converts the row to its at-rest shape.
func (r Row) Record() question.Record {
	return question.Record{
		ID:           IDPrefix + r.SourceID,
		TopicID:      r.TopicID,
		Prompt:       r.Question,
		Options:      r.Options(),
		CorrectIndex: 0,
		Explanation:  r.Rationale,
		Subject:      r.Subject,
	}
}

// parseSourceID parses a source ID as a positive int64. The canonical form
// of the ID is strconv.FormatInt of the result.
func parseSourceID(s string) (int64, error) {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, err
	}
	if n <= 0 {
		return 0, fmt.Errorf("source id %d is not positive", n)
	}
	return n, nil
}

// values returns the row in Columns order for bulk loading.
func (r Row) values() ([]any, error) {
	id, err := parseSourceID(r.SourceID)
	if err != nil {
		return nil, fmt.Errorf("row %q: %w", r.SourceID, err)
	}
	return []any{
		id,
		r.CategoryCode,
		r.CategoryName,
		r.SubCategoryCode,
		r.SubCategoryName,
		nullIfEmpty(r.Subject),
		r.Question,
		r.Correct,
		r.Distractors[0],
		r.Distractors[1],
		r.Distractors[2],
		nullIfEmpty(r.Rationale),
	}, nil
}

// optional maps an unquoted SQL NULL to the empty string. A quoted 'NULL'
// is ordinary text.
func optional(f Field) string {
	if !f.Quoted && strings.EqualFold(f.Value, "NULL") {
		return ""
	}
	return f.Value
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
