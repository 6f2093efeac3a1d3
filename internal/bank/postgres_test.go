package bank

import (
	"slices"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	"github.com/cpacc-prep/studybank/internal/ingest"
	"github.com/cpacc-prep/studybank/internal/platform/database"
	"github.com/cpacc-prep/studybank/internal/topics"
)

func TestSelectSQL(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		limit    int
		contains []string
		absent   []string
		args     int
	}{
		{"all", "", 0, []string{"ORDER BY random()"}, []string{"WHERE", "LIMIT"}, 0},
		{"topic", "1A", 0, []string{"WHERE subcategory_code = $1"}, []string{"LIMIT"}, 1},
		{"limit", "", 5, []string{"LIMIT $1"}, []string{"WHERE"}, 1},
		{"topic and limit", "2C", 5, []string{"subcategory_code = $1", "LIMIT $2"}, nil, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := selectSQL(tt.code, tt.limit)
			for _, s := range tt.contains {
				if !strings.Contains(sql, s) {
					t.Errorf("sql missing %q:\n%s", s, sql)
				}
			}
			for _, s := range tt.absent {
				if strings.Contains(sql, s) {
					t.Errorf("sql should not contain %q:\n%s", s, sql)
				}
			}
			if len(args) != tt.args {
				t.Errorf("args = %v, want %d", args, tt.args)
			}
		})
	}
}

func TestPostgresSource_NoPool(t *testing.T) {
	src := NewPostgresSource(nil, topics.Default())
	if _, err := src.Questions(t.Context(), "", 0); err == nil {
		t.Error("Questions() without a pool should fail")
	}
}

func TestPostgresSource_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container test in short mode")
	}

	ctx := t.Context()
	ctr, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("cpacc"),
		postgres.WithUsername("cpacc"),
		postgres.WithPassword("cpacc"),
		postgres.BasicWaitStrategies(),
	)
	testcontainers.CleanupContainer(t, ctr)
	if err != nil {
		t.Fatalf("start postgres: %v", err)
	}

	url, err := ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatal(err)
	}
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Fatal(err)
	}
	defer pool.Close()

	db := &database.DB{Pool: pool}
	if err := db.EnsureSchema(ctx); err != nil {
		t.Fatal(err)
	}

	rows := []ingest.Row{
		{SourceID: "101", CategoryCode: "Domain 1", CategoryName: "D1", SubCategoryCode: "1A", SubCategoryName: "Models",
			Question: "Q1?", Correct: "a", Distractors: [3]string{"b", "c", "d"}, Rationale: "Because.", TopicID: "1a-theoretical-models"},
		{SourceID: "102", CategoryCode: "Domain 1", CategoryName: "D1", SubCategoryCode: "1A", SubCategoryName: "Models",
			Subject: "Purpose", Question: "Q2?", Correct: "e", Distractors: [3]string{"f", "g", "h"}, TopicID: "1a-theoretical-models"},
		{SourceID: "300", CategoryCode: "Domain 3", CategoryName: "D3", SubCategoryCode: "3B", SubCategoryName: "Laws",
			Question: "Q3?", Correct: "w", Distractors: [3]string{"x", "y", "z"}, TopicID: "3b-accessibility-laws"},
	}
	n, err := ingest.Seed(ctx, pool, rows)
	if err != nil || n != 3 {
		t.Fatalf("Seed() = %d, %v", n, err)
	}

	src := NewPostgresSource(pool, topics.Default())

	all, err := src.Questions(ctx, "", 0)
	if err != nil {
		t.Fatalf("Questions() error = %v", err)
	}
	got := ids(all)
	slices.Sort(got)
	if !slices.Equal(got, []string{"q101", "q102", "q300"}) {
		t.Errorf("all = %v", got)
	}

	one, err := src.Questions(ctx, "1a-theoretical-models", 1)
	if err != nil || len(one) != 1 || one[0].TopicID != "1a-theoretical-models" {
		t.Fatalf("Questions(1a, 1) = %+v, %v", one, err)
	}

	laws, _ := src.Questions(ctx, "3b-accessibility-laws", 0)
	if len(laws) != 1 || laws[0].Correct() != "w" || laws[0].Explanation != "" {
		t.Errorf("Questions(3b) = %+v", laws)
	}
}
