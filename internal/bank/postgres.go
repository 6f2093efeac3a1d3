package bank

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/cpacc-prep/studybank/internal/ingest"
	"github.com/cpacc-prep/studybank/internal/question"
	"github.com/cpacc-prep/studybank/internal/topics"
)

const queryTimeout = 3 * time.Second

// Querier is satisfied by *pgxpool.Pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// PostgresSource reads the questions table seeded by cmd/ingest.
type PostgresSource struct {
	db     Querier
	topics topics.Map
}

// NewPostgresSource creates a source over db. The topic map translates
// between topic slugs and the stored sub-category codes.
func NewPostgresSource(db Querier, m topics.Map) *PostgresSource {
	return &PostgresSource{db: db, topics: m}
}

// selectSQL builds the query and its arguments. Rows come back in random
// order; the limit is applied by the database.
func selectSQL(code string, limit int) (string, []any) {
	var (
		b    strings.Builder
		args []any
	)
	b.WriteString(`SELECT id, subcategory_code, subject, question_text, correct_answer,
	       distractor_1, distractor_2, distractor_3, rationale
	FROM questions`)
	if code != "" {
		args = append(args, code)
		fmt.Fprintf(&b, "\n\tWHERE subcategory_code = $%d", len(args))
	}
	b.WriteString("\n\tORDER BY random()")
	if limit > 0 {
		args = append(args, limit)
		fmt.Fprintf(&b, "\n\tLIMIT $%d", len(args))
	}
	return b.String(), args
}

func (s *PostgresSource) Questions(ctx context.Context, topicID string, limit int) ([]question.Record, error) {
	if s == nil || s.db == nil {
		return nil, fmt.Errorf("postgres source is not configured")
	}

	code := ""
	if topicID != "" {
		t, ok := s.topics.Lookup(topicID)
		if !ok {
			return nil, fmt.Errorf("unknown topic %q", topicID)
		}
		code = t.Code
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	sql, args := selectSQL(code, limit)
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query questions: %w", err)
	}
	defer rows.Close()

	var out []question.Record
	for rows.Next() {
		var (
			id                 int64
			row                ingest.Row
			subject, rationale *string
		)
		if err := rows.Scan(
			&id,
			&row.SubCategoryCode,
			&subject,
			&row.Question,
			&row.Correct,
			&row.Distractors[0],
			&row.Distractors[1],
			&row.Distractors[2],
			&rationale,
		); err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}

		topic, ok := s.topics.TopicFor(row.SubCategoryCode)
		if !ok {
			// Seeding only stores mapped codes; a miss means the table was
			// edited by hand.
			continue
		}
		row.SourceID = strconv.FormatInt(id, 10)
		row.TopicID = topic
		if subject != nil {
			row.Subject = *subject
		}
		if rationale != nil {
			row.Rationale = *rationale
		}
		out = append(out, row.Record())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}
