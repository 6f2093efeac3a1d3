package question

import (
	"fmt"
	"math/rand/v2"
	"slices"
)

// Shuffler permutes n elements through swap. *rand.Rand from math/rand/v2
// satisfies it.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

type globalShuffler struct{}

func (globalShuffler) Shuffle(n int, swap func(i, j int)) { rand.Shuffle(n, swap) }

// DefaultShuffler uses the math/rand/v2 top-level generator.
var DefaultShuffler Shuffler = globalShuffler{}

// Present returns a copy of rec with its options in uniformly random order
// and CorrectIndex pointing at the original correct option's new position.
// rec is not modified. A nil s uses DefaultShuffler.
//
// The result must be held by the caller for as long as the question is on
// screen; calling Present again reorders the options.
//
// The new index is found by value. With duplicate options (rejected at
// ingestion) the first matching position wins.
func Present(rec Record, s Shuffler) (Presented, error) {
	if rec.CorrectIndex < 0 || rec.CorrectIndex >= len(rec.Options) {
		return Presented{}, ErrCorrectIndex
	}
	if s == nil {
		s = DefaultShuffler
	}

	correct := rec.Options[rec.CorrectIndex]
	options := slices.Clone(rec.Options)
	s.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	out := Presented(rec)
	out.Options = options
	out.CorrectIndex = slices.Index(options, correct)
	return out, nil
}

// PresentAll presents every record, skipping none. The first invalid record
// aborts with its error.
func PresentAll(recs []Record, s Shuffler) ([]Presented, error) {
	out := make([]Presented, 0, len(recs))
	for _, rec := range recs {
		p, err := Present(rec, s)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", rec.ID, err)
		}
		out = append(out, p)
	}
	return out, nil
}
