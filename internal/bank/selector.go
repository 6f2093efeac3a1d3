package bank

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cpacc-prep/studybank/internal/question"
	"github.com/cpacc-prep/studybank/internal/topics"
)

// ErrInvalidLimit is returned for a negative limit.
var ErrInvalidLimit = errors.New("limit must not be negative")

// Request is one selection. Topic may be a topic slug or a sub-category
// code; empty means every topic. Limit 0 means no limit.
type Request struct {
	Topic string
	Limit int
}

// Result carries the selected records and whether they came from the
// fallback set.
type Result struct {
	Questions []question.Record
	Topic     string
	Fallback  bool
}

// Selector picks questions from a primary source, substituting the fallback
// source when the primary fails or has nothing for the request.
type Selector struct {
	primary  Source
	fallback Source
	topics   topics.Map
	log      *slog.Logger
}

// NewSelector creates a selector. primary may be nil, in which case every
// request is served from fallback. A nil fallback uses Static().
func NewSelector(primary, fallback Source, m topics.Map, log *slog.Logger) *Selector {
	if fallback == nil {
		fallback = Static()
	}
	if log == nil {
		log = slog.Default()
	}
	return &Selector{primary: primary, fallback: fallback, topics: m, log: log}
}

// Resolve maps a requested topic to a known slug. Unknown topics resolve to
// "" (every topic) rather than to an empty quiz.
func (s *Selector) Resolve(topic string) string {
	if topic == "" {
		return ""
	}
	if s.topics.Has(topic) {
		return topic
	}
	if id, ok := s.topics.TopicFor(topic); ok {
		return id
	}
	s.log.Warn("unknown topic filter, selecting from all topics", "topic", topic)
	return ""
}

// Select never fails because of the store. The only error is an invalid
// request.
func (s *Selector) Select(ctx context.Context, req Request) (Result, error) {
	if req.Limit < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidLimit, req.Limit)
	}
	topic := s.Resolve(req.Topic)

	if s.primary != nil {
		recs, err := s.primary.Questions(ctx, topic, req.Limit)
		switch {
		case err != nil:
			s.log.Warn("question store failed, using fallback", "topic", topic, "error", err)
		case len(recs) == 0:
			s.log.Info("question store returned no rows, using fallback", "topic", topic)
		default:
			return Result{Questions: truncate(recs, req.Limit), Topic: topic}, nil
		}
	}

	recs, err := s.fallback.Questions(ctx, topic, req.Limit)
	if err != nil {
		s.log.Error("fallback source failed", "topic", topic, "error", err)
		recs = nil
	}
	return Result{
		Questions: truncate(recs, req.Limit),
		Topic:     topic,
		Fallback:  true,
	}, nil
}
