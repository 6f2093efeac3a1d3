package topics

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Map is an immutable code -> topic table. The zero value is empty.
type Map struct {
	byCode map[string]Topic
	byID   map[string]Topic
	codes  []string
}

// New builds a Map. Codes are a digit followed by a letter and are stored
// upper-case; each topic slug must start with its code in lower case so the
// code can be recovered from the slug alone.
func New(list []Topic) (Map, error) {
	m := Map{
		byCode: make(map[string]Topic, len(list)),
		byID:   make(map[string]Topic, len(list)),
	}
	for _, t := range list {
		t.Code = strings.ToUpper(strings.TrimSpace(t.Code))
		t.ID = strings.TrimSpace(t.ID)

		if !validCode(t.Code) {
			return Map{}, fmt.Errorf("invalid sub-category code %q", t.Code)
		}
		if CodeOf(t.ID) != t.Code {
			return Map{}, fmt.Errorf("topic %q does not start with code %s", t.ID, strings.ToLower(t.Code))
		}
		if _, dup := m.byCode[t.Code]; dup {
			return Map{}, fmt.Errorf("duplicate sub-category code %s", t.Code)
		}
		if _, dup := m.byID[t.ID]; dup {
			return Map{}, fmt.Errorf("duplicate topic id %s", t.ID)
		}
		m.byCode[t.Code] = t
		m.byID[t.ID] = t
		m.codes = append(m.codes, t.Code)
	}
	sort.Strings(m.codes)
	return m, nil
}

// Default returns the built-in CPACC topic table.
func Default() Map {
	m, err := New(defaultTopics)
	if err != nil {
		panic(fmt.Sprintf("topics: built-in table: %v", err))
	}
	return m
}

// Load reads a YAML topic map. An empty path returns Default.
func Load(path string) (Map, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Map{}, fmt.Errorf("reading topic map: %w", err)
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return Map{}, fmt.Errorf("parsing topic map %s: %w", path, err)
	}
	if len(f.Topics) == 0 {
		return Map{}, fmt.Errorf("topic map %s has no topics", path)
	}

	m, err := New(f.Topics)
	if err != nil {
		return Map{}, fmt.Errorf("topic map %s: %w", path, err)
	}

	slog.Info("topic map loaded", "path", path, "topics", m.Len())
	return m, nil
}

// TopicFor resolves a sub-category code (case-insensitive) to its topic slug.
func (m Map) TopicFor(code string) (string, bool) {
	t, ok := m.byCode[strings.ToUpper(strings.TrimSpace(code))]
	return t.ID, ok
}

// Lookup returns the topic with the given slug.
func (m Map) Lookup(id string) (Topic, bool) {
	t, ok := m.byID[id]
	return t, ok
}

// Has reports whether id is a known topic slug.
func (m Map) Has(id string) bool {
	_, ok := m.byID[id]
	return ok
}

// All returns the topics ordered by code.
func (m Map) All() []Topic {
	out := make([]Topic, 0, len(m.codes))
	for _, c := range m.codes {
		out = append(out, m.byCode[c])
	}
	return out
}

// Len returns the number of topics.
func (m Map) Len() int { return len(m.codes) }

// CodeOf derives the upper-case sub-category code from a topic slug's first
// two characters. It returns "" for slugs shorter than two bytes.
func CodeOf(topicID string) string {
	if len(topicID) < 2 {
		return ""
	}
	return strings.ToUpper(topicID[:2])
}

func validCode(code string) bool {
	return len(code) == 2 &&
		code[0] >= '0' && code[0] <= '9' &&
		code[1] >= 'A' && code[1] <= 'Z'
}
