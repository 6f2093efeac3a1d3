package question

import (
	"errors"
	"math/rand/v2"
	"slices"
	"strings"
	"testing"
)

// permute moves original index p[i] to position i using swaps only.
type permute []int

func (p permute) Shuffle(n int, swap func(i, j int)) {
	cur := make([]int, n)
	for i := range cur {
		cur[i] = i
	}
	for i := 0; i < n; i++ {
		j := slices.Index(cur, p[i])
		if j != i {
			swap(i, j)
			cur[i], cur[j] = cur[j], cur[i]
		}
	}
}

func sampleRecord() Record {
	return Record{
		ID:           "q101",
		TopicID:      "1a-theoretical-models",
		Prompt:       "Q text?",
		Options:      []string{"Correct.", "Wrong1.", "Wrong2.", "Wrong3."},
		CorrectIndex: 0,
		Explanation:  "Because.",
		Subject:      "Purpose",
	}
}

func TestPresent_RemapsCorrectIndex(t *testing.T) {
	rec := sampleRecord()

	got, err := Present(rec, permute{2, 0, 3, 1})
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}

	want := []string{"Wrong2.", "Correct.", "Wrong3.", "Wrong1."}
	if !slices.Equal(got.Options, want) {
		t.Fatalf("Options = %v, want %v", got.Options, want)
	}
	if got.CorrectIndex != 1 {
		t.Errorf("CorrectIndex = %d, want 1", got.CorrectIndex)
	}
	if got.ID != rec.ID || got.TopicID != rec.TopicID || got.Prompt != rec.Prompt {
		t.Errorf("identity fields changed: %+v", got)
	}
}

func TestPresent_FollowsValueNotPosition(t *testing.T) {
	rec := sampleRecord()
	rec.Options = []string{"Wrong1.", "Wrong2.", "Correct.", "Wrong3."}
	rec.CorrectIndex = 2

	got, err := Present(rec, permute{3, 2, 1, 0})
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if got.Options[got.CorrectIndex] != "Correct." {
		t.Errorf("Options[%d] = %q, want Correct.", got.CorrectIndex, got.Options[got.CorrectIndex])
	}
}

func TestPresent_DoesNotMutateInput(t *testing.T) {
	rec := sampleRecord()
	before := slices.Clone(rec.Options)
	backing := &rec.Options[0]

	rng := rand.New(rand.NewPCG(7, 11))
	for range 100 {
		if _, err := Present(rec, rng); err != nil {
			t.Fatalf("Present() error = %v", err)
		}
	}

	if !slices.Equal(rec.Options, before) {
		t.Errorf("input options changed: %v, want %v", rec.Options, before)
	}
	if &rec.Options[0] != backing {
		t.Error("input options slice was replaced")
	}
	if rec.CorrectIndex != 0 {
		t.Errorf("input CorrectIndex = %d, want 0", rec.CorrectIndex)
	}
}

func TestPresent_UniformOverAllOrderings(t *testing.T) {
	const (
		runs      = 24000
		orderings = 24
		// chi-square critical value, 23 degrees of freedom, p = 0.001
		critical = 49.73
	)

	rec := sampleRecord()
	rng := rand.New(rand.NewPCG(20240601, 42))
	counts := make(map[string]int, orderings)

	for range runs {
		p, err := Present(rec, rng)
		if err != nil {
			t.Fatalf("Present() error = %v", err)
		}
		if p.Options[p.CorrectIndex] != "Correct." {
			t.Fatalf("Options[CorrectIndex] = %q, want Correct.", p.Options[p.CorrectIndex])
		}
		counts[strings.Join(p.Options, "|")]++
	}

	if len(counts) != orderings {
		t.Fatalf("saw %d distinct orderings, want %d", len(counts), orderings)
	}

	expected := float64(runs) / orderings
	var chi2 float64
	for _, c := range counts {
		d := float64(c) - expected
		chi2 += d * d / expected
	}
	if chi2 > critical {
		t.Errorf("chi-square = %.2f exceeds %.2f; counts = %v", chi2, critical, counts)
	}
}

func TestPresent_DefaultShuffler(t *testing.T) {
	p, err := Present(sampleRecord(), nil)
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if p.Options[p.CorrectIndex] != "Correct." {
		t.Errorf("Options[CorrectIndex] = %q, want Correct.", p.Options[p.CorrectIndex])
	}
}

func TestPresent_DuplicateOptionsPickFirstMatch(t *testing.T) {
	rec := sampleRecord()
	rec.Options = []string{"Same", "Other", "Same", "Else"}

	// the duplicate at index 2 moves in front of the original correct option
	got, err := Present(rec, permute{2, 0, 1, 3})
	if err != nil {
		t.Fatalf("Present() error = %v", err)
	}
	if got.CorrectIndex != 0 {
		t.Errorf("CorrectIndex = %d, want 0 (first match)", got.CorrectIndex)
	}
}

func TestPresent_InvalidCorrectIndex(t *testing.T) {
	rec := sampleRecord()
	rec.CorrectIndex = 4

	if _, err := Present(rec, nil); !errors.Is(err, ErrCorrectIndex) {
		t.Errorf("Present() error = %v, want ErrCorrectIndex", err)
	}
}

func TestPresentAll(t *testing.T) {
	a := sampleRecord()
	b := sampleRecord()
	b.ID = "q102"

	got, err := PresentAll([]Record{a, b}, rand.New(rand.NewPCG(1, 2)))
	if err != nil {
		t.Fatalf("PresentAll() error = %v", err)
	}
	if len(got) != 2 || got[0].ID != "q101" || got[1].ID != "q102" {
		t.Errorf("PresentAll() = %+v, want q101, q102 in order", got)
	}

	b.CorrectIndex = -1
	if _, err := PresentAll([]Record{a, b}, nil); !errors.Is(err, ErrCorrectIndex) {
		t.Errorf("PresentAll() error = %v, want ErrCorrectIndex", err)
	}
}
