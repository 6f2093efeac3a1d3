package bank

import (
	"context"

	"github.com/cpacc-prep/studybank/internal/question"
)

// StaticSource is the fallback set. A topic with no fallback records gets
// the whole set so the caller never sees an empty quiz.
type StaticSource struct {
	mem *MemorySource
}

// NewStaticSource wraps recs as a fallback source.
func NewStaticSource(recs []question.Record, s question.Shuffler) *StaticSource {
	return &StaticSource{mem: NewMemorySource(recs, s)}
}

// Static returns the built-in fallback set.
func Static() *StaticSource {
	return NewStaticSource(fallbackRecords, nil)
}

func (s *StaticSource) Questions(ctx context.Context, topicID string, limit int) ([]question.Record, error) {
	out, err := s.mem.Questions(ctx, topicID, limit)
	if err != nil || len(out) > 0 || topicID == "" {
		return out, err
	}
	return s.mem.Questions(ctx, "", limit)
}

// One question per domain, good enough to exercise the quiz flow offline.
var fallbackRecords = []question.Record{
	{
		ID:      "fallback-1",
		TopicID: "1a-theoretical-models",
		Prompt:  "Which model of disability locates disability in the interaction between a person and barriers in society?",
		Options: []string{
			"The social model",
			"The medical model",
			"The charity model",
			"The economic model",
		},
		Explanation: "The social model treats disability as the result of environmental and attitudinal barriers.",
		Subject:     "Models of disability",
	},
	{
		ID:      "fallback-2",
		TopicID: "2c-universal-design",
		Prompt:  "Which principle of universal design calls for use with a minimum of fatigue?",
		Options: []string{
			"Low physical effort",
			"Flexibility in use",
			"Perceptible information",
			"Tolerance for error",
		},
		Explanation: "Principle 6, low physical effort, targets efficient and comfortable use.",
		Subject:     "Universal design principles",
	},
	{
		ID:      "fallback-3",
		TopicID: "3c-accessibility-standards",
		Prompt:  "What are the four WCAG principles commonly abbreviated as?",
		Options: []string{
			"POUR",
			"CRUD",
			"SOLID",
			"ACID",
		},
		Explanation: "Perceivable, operable, understandable and robust.",
		Subject:     "WCAG",
	},
	{
		ID:      "fallback-4",
		TopicID: "3a-disability-rights",
		Prompt:  "Which UN treaty sets out the rights of persons with disabilities?",
		Options: []string{
			"CRPD",
			"UDHR",
			"CEDAW",
			"ICERD",
		},
		Explanation: "The Convention on the Rights of Persons with Disabilities was adopted in 2006.",
		Subject:     "International conventions",
	},
}
