// Package feedback stores free-text feedback sent from the study app.
package feedback

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

const dbTimeout = 5 * time.Second

// Request is the body of a feedback submission.
type Request struct {
	Name       string `json:"name" validate:"omitempty,max=100"`
	Email      string `json:"email" validate:"omitempty,email,max=254"`
	Message    string `json:"message" validate:"required,min=3,max=4000"`
	QuestionID string `json:"questionId" validate:"omitempty,max=32"`
}

// Normalize trims surrounding space from every field.
func (r Request) Normalize() Request {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = strings.TrimSpace(r.Email)
	r.Message = strings.TrimSpace(r.Message)
	r.QuestionID = strings.TrimSpace(r.QuestionID)
	return r
}

// Submission is a stored feedback entry.
type Submission struct {
	ID         string    `json:"id"`
	Name       string    `json:"name,omitempty"`
	Email      string    `json:"email,omitempty"`
	Message    string    `json:"message"`
	QuestionID string    `json:"questionId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// NewSubmission assigns an ID and timestamp to a validated request.
func NewSubmission(r Request) Submission {
	return Submission{
		ID:         uuid.NewString(),
		Name:       r.Name,
		Email:      r.Email,
		Message:    r.Message,
		QuestionID: r.QuestionID,
		CreatedAt:  time.Now().UTC(),
	}
}

// Store persists submissions.
type Store interface {
	Save(ctx context.Context, s Submission) (string, error)
}

// MemoryStore keeps submissions in memory. Used in tests and when no
// database is configured.
type MemoryStore struct {
	mu          sync.Mutex
	submissions []Submission
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		submissions: []Submission{},
	}
}

func (m *MemoryStore) Save(_ context.Context, s Submission) (string, error) {
	if s.Message == "" {
		return "", fmt.Errorf("message is required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	m.mu.Lock()
	m.submissions = append(m.submissions, s)
	m.mu.Unlock()

	return s.ID, nil
}

func (m *MemoryStore) Submissions() []Submission {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Submission{}, m.submissions...)
}

// Execer is satisfied by *pgxpool.Pool.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore inserts submissions into the feedback table.
type PostgresStore struct {
	db Execer
}

func NewPostgresStore(db Execer) *PostgresStore {
	return &PostgresStore{db: db}
}

func (p *PostgresStore) Save(ctx context.Context, s Submission) (string, error) {
	if p == nil || p.db == nil {
		return "", fmt.Errorf("feedback store pool is nil")
	}
	if s.Message == "" {
		return "", fmt.Errorf("message is required")
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	ctx, cancel := context.WithTimeout(ctx, dbTimeout)
	defer cancel()

	_, err := p.db.Exec(ctx,
		`INSERT INTO feedback (id, name, email, message, question_id, created_at)
		 VALUES ($1::uuid, $2, $3, $4, $5, $6)`,
		s.ID,
		nullIfEmpty(s.Name),
		nullIfEmpty(s.Email),
		s.Message,
		nullIfEmpty(s.QuestionID),
		s.CreatedAt,
	)
	if err != nil {
		return "", fmt.Errorf("insert feedback: %w", err)
	}

	slog.Debug("feedback saved",
		"id", s.ID,
		"question_id", s.QuestionID,
	)
	return s.ID, nil
}

func nullIfEmpty(v string) any {
	if v == "" {
		return nil
	}
	return v
}
