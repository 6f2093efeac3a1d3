package ingest

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/cpacc-prep/studybank/internal/topics"
)

// ErrCountMismatch is the run-level failure: the emitted record count
// differs from the expected total.
var ErrCountMismatch = errors.New("emitted question count does not match expected total")

// Options configures one ingestion run.
type Options struct {
	Topics        topics.Map
	ExpectedTotal int
	Logger        *slog.Logger
}

// Result is everything a run produced.
type Result struct {
	Parse   ParseResult
	Buckets []Bucket
	Files   map[string][]byte
	Total   int
}

// CheckTotal returns ErrCountMismatch when got != want.
func CheckTotal(got, want int) error {
	if got != want {
		return fmt.Errorf("%w: emitted %d, expected %d", ErrCountMismatch, got, want)
	}
	return nil
}

// Run parses an SQL export, partitions it by topic and renders every output
// file. On a count mismatch the full Result is still returned together with
// an error wrapping ErrCountMismatch, so callers can report what was built.
func Run(r io.Reader, e *Emitter, opts Options) (Result, error) {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	parsed, err := ParseSQL(r, opts.Topics, log)
	if err != nil {
		return Result{}, err
	}

	buckets := Partition(parsed.Rows)
	files, err := e.Render(buckets)
	if err != nil {
		return Result{}, fmt.Errorf("rendering output: %w", err)
	}

	res := Result{
		Parse:   parsed,
		Buckets: buckets,
		Files:   files,
		Total:   Total(buckets),
	}

	log.Info("ingestion parsed",
		"candidates", parsed.Candidates,
		"accepted", len(parsed.Rows),
		"skipped", parsed.SkippedTotal(),
		"topics", len(buckets),
	)

	return res, CheckTotal(res.Total, opts.ExpectedTotal)
}
