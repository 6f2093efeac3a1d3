package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
)

const (
	questionsTable = "questions"
	seedTimeout    = 30 * time.Second
)

// TxStarter is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxStarter interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Seed replaces the contents of the questions table with rows inside one
// transaction.
func Seed(ctx context.Context, db TxStarter, rows []Row) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, seedTimeout)
	defer cancel()

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("begin seed: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM `+questionsTable); err != nil {
		return 0, fmt.Errorf("clear questions: %w", err)
	}

	src := make([][]any, 0, len(rows))
	for _, r := range rows {
		vals, err := r.values()
		if err != nil {
			return 0, fmt.Errorf("seed: %w", err)
		}
		src = append(src, vals)
	}

	n, err := tx.CopyFrom(ctx, pgx.Identifier{questionsTable}, Columns, pgx.CopyFromRows(src))
	if err != nil {
		return 0, fmt.Errorf("copy questions: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("commit seed: %w", err)
	}

	slog.Info("questions seeded", "rows", n)
	return n, nil
}
