package bank

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cpacc-prep/studybank/internal/question"
)

func rec(id, topic string) question.Record {
	return question.Record{
		ID:      id,
		TopicID: topic,
		Prompt:  "Prompt " + id,
		Options: []string{"right " + id, "w1", "w2", "w3"},
	}
}

func ids(recs []question.Record) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.ID
	}
	return out
}

// reverse is a deterministic Shuffler.
type reverse struct{}

func (reverse) Shuffle(n int, swap func(i, j int)) {
	for i := 0; i < n/2; i++ {
		swap(i, n-1-i)
	}
}

// fakeSource records calls and returns canned data.
type fakeSource struct {
	recs  []question.Record
	err   error
	calls []string
}

func (f *fakeSource) Questions(_ context.Context, topicID string, limit int) ([]question.Record, error) {
	f.calls = append(f.calls, fmt.Sprintf("%s/%d", topicID, limit))
	if f.err != nil {
		return nil, f.err
	}
	return filterTopic(f.recs, topicID), nil
}

var errUnreachable = errors.New("dial tcp: connection refused")

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
