// Command ingest converts the question-bank SQL export into per-topic
// TypeScript modules and a JSON snapshot, and optionally seeds Postgres.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"
	"time"

	"github.com/cpacc-prep/studybank/internal/ingest"
	"github.com/cpacc-prep/studybank/internal/platform/config"
	"github.com/cpacc-prep/studybank/internal/platform/database"
	"github.com/cpacc-prep/studybank/internal/topics"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	log := cfg.Log.NewLogger(stderr)
	slog.SetDefault(log)

	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", cfg.Ingest.Input, "SQL export to read")
	out := fs.String("out", cfg.Ingest.OutputDir, "Directory for generated modules")
	expected := fs.Int("expected", cfg.Ingest.ExpectedTotal, "Expected number of emitted questions")
	topicsPath := fs.String("topics", cfg.Ingest.TopicsPath, "Topic map YAML (default: built-in table)")
	check := fs.Bool("check", false, "Report generated files that would change, write nothing")
	seed := fs.Bool("seed", false, "Replace the questions table with the accepted rows")
	dbURL := fs.String("db", cfg.Database.URL, "Database URL used with -seed")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	m, err := topics.Load(*topicsPath)
	if err != nil {
		log.Error("failed to load topics", "error", err)
		return 1
	}

	f, err := os.Open(*input)
	if err != nil {
		log.Error("failed to open input", "error", err)
		return 1
	}
	defer f.Close()

	e, err := ingest.NewEmitter()
	if err != nil {
		log.Error("failed to prepare templates", "error", err)
		return 1
	}

	res, err := ingest.Run(f, e, ingest.Options{Topics: m, ExpectedTotal: *expected, Logger: log})
	reportSkipped(log, res.Parse)
	if errors.Is(err, ingest.ErrCountMismatch) {
		log.Error("aborting, nothing written", "error", err)
		return 1
	}
	if err != nil {
		log.Error("ingestion failed", "error", err)
		return 1
	}

	if *check {
		changed, err := ingest.Diff(*out, res.Files)
		if err != nil {
			log.Error("failed to compare output", "error", err)
			return 1
		}
		for _, name := range changed {
			fmt.Fprintf(stdout, "would change: %s\n", name)
		}
		if len(changed) > 0 {
			return 1
		}
		fmt.Fprintf(stdout, "%s is up to date (%d questions)\n", *out, res.Total)
		return 0
	}

	if err := ingest.Write(*out, res.Files); err != nil {
		log.Error("failed to write output", "error", err)
		return 1
	}
	log.Info("ingestion complete", "dir", *out, "questions", res.Total, "topics", len(res.Buckets))

	if *seed {
		if err := seedDatabase(cfg.Database, *dbURL, res.Parse.Rows); err != nil {
			log.Error("seeding failed", "error", err)
			return 1
		}
	}

	fmt.Fprintf(stdout, "wrote %d questions in %d topics to %s\n", res.Total, len(res.Buckets), *out)
	return 0
}

func reportSkipped(log *slog.Logger, p ingest.ParseResult) {
	reasons := make([]string, 0, len(p.Skipped))
	for r := range p.Skipped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		log.Warn("rows skipped", "reason", r, "count", p.Skipped[ingest.SkipReason(r)])
	}
}

func seedDatabase(c config.DatabaseConfig, url string, rows []ingest.Row) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	c.URL = url
	db, err := database.New(ctx, c)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		return err
	}
	_, err = ingest.Seed(ctx, db.Pool, rows)
	return err
}
