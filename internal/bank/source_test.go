package bank

import (
	"path/filepath"
	"slices"
	"testing"

	"github.com/cpacc-prep/studybank/internal/ingest"
	"github.com/cpacc-prep/studybank/internal/question"
)

func TestMemorySource_FilterAndLimit(t *testing.T) {
	src := NewMemorySource([]question.Record{
		rec("q1", "1a-theoretical-models"),
		rec("q2", "2c-universal-design"),
		rec("q3", "1a-theoretical-models"),
		rec("q4", "1a-theoretical-models"),
	}, nil)

	tests := []struct {
		name  string
		topic string
		limit int
		want  []string
	}{
		{"all", "", 0, []string{"q1", "q2", "q3", "q4"}},
		{"topic", "1a-theoretical-models", 0, []string{"q1", "q3", "q4"}},
		{"topic limited", "1a-theoretical-models", 2, []string{"q1", "q3"}},
		{"limit above size", "2c-universal-design", 10, []string{"q2"}},
		{"negative limit is none", "", -1, []string{"q1", "q2", "q3", "q4"}},
		{"topic absent", "3b-accessibility-laws", 0, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := src.Questions(t.Context(), tt.topic, tt.limit)
			if err != nil {
				t.Fatalf("Questions() error = %v", err)
			}
			if !slices.Equal(ids(got), tt.want) {
				t.Errorf("Questions() = %v, want %v", ids(got), tt.want)
			}
		})
	}
}

func TestMemorySource_ShufflesCopy(t *testing.T) {
	src := NewMemorySource([]question.Record{rec("q1", "t"), rec("q2", "t"), rec("q3", "t")}, reverse{})

	got, _ := src.Questions(t.Context(), "", 2)
	if !slices.Equal(ids(got), []string{"q3", "q2"}) {
		t.Errorf("Questions() = %v, want shuffled then limited [q3 q2]", ids(got))
	}

	again, _ := src.Questions(t.Context(), "", 0)
	if !slices.Equal(ids(again), []string{"q3", "q2", "q1"}) {
		t.Errorf("stored order changed: %v", ids(again))
	}
}

func TestFromSnapshot(t *testing.T) {
	rows := []ingest.Row{
		{SourceID: "101", SubCategoryCode: "1A", Question: "Q?", Correct: "a", Distractors: [3]string{"b", "c", "d"}, TopicID: "1a-theoretical-models"},
		{SourceID: "200", SubCategoryCode: "2C", Question: "R?", Correct: "w", Distractors: [3]string{"x", "y", "z"}, TopicID: "2c-universal-design"},
	}
	e, err := ingest.NewEmitter()
	if err != nil {
		t.Fatal(err)
	}
	files, err := e.Render(ingest.Partition(rows))
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	if err := ingest.Write(dir, files); err != nil {
		t.Fatal(err)
	}

	src, err := FromSnapshot(filepath.Join(dir, ingest.SnapshotFile))
	if err != nil {
		t.Fatalf("FromSnapshot() error = %v", err)
	}
	if src.Len() != 2 {
		t.Fatalf("Len() = %d, want 2", src.Len())
	}
	got, _ := src.Questions(t.Context(), "2c-universal-design", 0)
	if len(got) != 1 || got[0].ID != "q200" || got[0].Correct() != "w" {
		t.Errorf("Questions(2c) = %+v", got)
	}
}

func TestFromSnapshot_Missing(t *testing.T) {
	if _, err := FromSnapshot(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("FromSnapshot() should fail for a missing file")
	}
}

func TestStatic(t *testing.T) {
	src := Static()

	all, err := src.Questions(t.Context(), "", 0)
	if err != nil || len(all) == 0 {
		t.Fatalf("Static() all = %d records, err %v", len(all), err)
	}
	for _, r := range all {
		if err := r.Validate(); err != nil {
			t.Errorf("fallback record invalid: %v", err)
		}
	}

	one, _ := src.Questions(t.Context(), "2c-universal-design", 0)
	if len(one) != 1 || one[0].TopicID != "2c-universal-design" {
		t.Errorf("topic with fallback records = %v", ids(one))
	}

	none, _ := src.Questions(t.Context(), "1e-disability-etiquette", 2)
	if len(none) != 2 {
		t.Errorf("topic without fallback records returned %d, want whole set limited to 2", len(none))
	}
}
