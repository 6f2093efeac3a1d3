// Package bank selects questions for a quiz from a primary store, falling
// back to a small built-in set when the store is unavailable or empty.
package bank

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/cpacc-prep/studybank/internal/ingest"
	"github.com/cpacc-prep/studybank/internal/question"
)

// Source returns at-rest records for one topic, or for every topic when
// topicID is empty. limit <= 0 means no limit. Row order is the source's
// business; the sources here return it randomised.
type Source interface {
	Questions(ctx context.Context, topicID string, limit int) ([]question.Record, error)
}

// MemorySource serves a fixed slice of records.
type MemorySource struct {
	mu       sync.Mutex
	records  []question.Record
	shuffler question.Shuffler
}

// NewMemorySource copies recs. A nil shuffler keeps insertion order, which
// tests rely on.
func NewMemorySource(recs []question.Record, s question.Shuffler) *MemorySource {
	return &MemorySource{
		records:  slices.Clone(recs),
		shuffler: s,
	}
}

// FromSnapshot loads a questions.json snapshot written by cmd/ingest.
func FromSnapshot(path string) (*MemorySource, error) {
	snap, err := ingest.ReadSnapshot(path)
	if err != nil {
		return nil, err
	}
	if len(snap.Questions) != snap.Total {
		return nil, fmt.Errorf("snapshot %s: total %d but %d questions", path, snap.Total, len(snap.Questions))
	}
	return NewMemorySource(snap.Questions, question.DefaultShuffler), nil
}

func (m *MemorySource) Questions(_ context.Context, topicID string, limit int) ([]question.Record, error) {
	out := filterTopic(m.records, topicID)
	if m.shuffler != nil {
		m.mu.Lock()
		m.shuffler.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
		m.mu.Unlock()
	}
	return truncate(out, limit), nil
}

// Len returns the number of stored records.
func (m *MemorySource) Len() int { return len(m.records) }

// filterTopic always returns a fresh slice.
func filterTopic(recs []question.Record, topicID string) []question.Record {
	out := make([]question.Record, 0, len(recs))
	for _, r := range recs {
		if topicID == "" || r.TopicID == topicID {
			out = append(out, r)
		}
	}
	return out
}

func truncate(recs []question.Record, limit int) []question.Record {
	if limit > 0 && len(recs) > limit {
		return recs[:limit]
	}
	return recs
}
