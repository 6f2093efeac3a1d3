package ingest

import (
	"bytes"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"

	"github.com/xeipuuv/gojsonschema"

	"github.com/cpacc-prep/studybank/internal/question"
)

// Generated file names.
const (
	TypesFile    = "types.ts"
	IndexFile    = "index.ts"
	SnapshotFile = "questions.json"

	topicFileSuffix = "-questions.ts"
	generatedHeader = "// Code generated by cmd/ingest. DO NOT EDIT.\n\n"
)

//go:embed templates
var templateFS embed.FS

// Snapshot is the JSON form of a full ingestion run.
type Snapshot struct {
	Total     int               `json:"total"`
	Counts    map[string]int    `json:"counts"`
	Questions []question.Record `json:"questions"`
}

// Emitter renders buckets into TypeScript modules and a JSON snapshot.
type Emitter struct {
	tmpl   *template.Template
	schema *gojsonschema.Schema
}

type topicView struct {
	Var     string
	Module  string
	Records []question.Record
}

type countView struct {
	Code string
	N    int
}

// NewEmitter parses the embedded templates and snapshot schema.
func NewEmitter() (*Emitter, error) {
	tmpl, err := template.New("ingest").
		Funcs(template.FuncMap{"lit": literal}).
		ParseFS(templateFS, "templates/*.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parsing templates: %w", err)
	}

	raw, err := templateFS.ReadFile("templates/snapshot.schema.json")
	if err != nil {
		return nil, fmt.Errorf("reading snapshot schema: %w", err)
	}
	schema, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return nil, fmt.Errorf("compiling snapshot schema: %w", err)
	}

	return &Emitter{tmpl: tmpl, schema: schema}, nil
}

// Render produces every generated file keyed by file name. The same buckets
// always render to the same bytes.
func (e *Emitter) Render(buckets []Bucket) (map[string][]byte, error) {
	files := make(map[string][]byte, len(buckets)+3)

	types, err := e.execute("types.ts.tmpl", nil)
	if err != nil {
		return nil, err
	}
	files[TypesFile] = types

	views := make([]topicView, 0, len(buckets))
	for _, b := range buckets {
		v := topicView{
			Var:     "topic" + b.Name() + "Questions",
			Module:  b.Name() + strings.TrimSuffix(topicFileSuffix, ".ts"),
			Records: b.Records,
		}
		out, err := e.execute("topic.ts.tmpl", v)
		if err != nil {
			return nil, fmt.Errorf("topic %s: %w", b.TopicID, err)
		}
		files[v.Module+".ts"] = out
		views = append(views, v)
	}

	counts := Counts(buckets)
	index, err := e.execute("index.ts.tmpl", map[string]any{
		"Topics": views,
		"Counts": sortedCounts(counts),
		"Total":  Total(buckets),
	})
	if err != nil {
		return nil, err
	}
	files[IndexFile] = index

	snap, err := e.snapshot(buckets, counts)
	if err != nil {
		return nil, err
	}
	files[SnapshotFile] = snap

	return files, nil
}

func (e *Emitter) execute(name string, data any) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(generatedHeader)
	if err := e.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return nil, fmt.Errorf("rendering %s: %w", name, err)
	}
	return buf.Bytes(), nil
}

func (e *Emitter) snapshot(buckets []Bucket, counts map[string]int) ([]byte, error) {
	snap := Snapshot{
		Total:     Total(buckets),
		Counts:    counts,
		Questions: make([]question.Record, 0, Total(buckets)),
	}
	for _, b := range buckets {
		snap.Questions = append(snap.Questions, b.Records...)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := e.Validate(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Validate checks a snapshot document against the embedded schema.
func (e *Emitter) Validate(doc []byte) error {
	res, err := e.schema.Validate(gojsonschema.NewBytesLoader(doc))
	if err != nil {
		return fmt.Errorf("validating snapshot: %w", err)
	}
	if res.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(res.Errors()))
	for _, re := range res.Errors() {
		msgs = append(msgs, re.String())
	}
	return fmt.Errorf("snapshot does not match schema: %s", strings.Join(msgs, "; "))
}

// ReadSnapshot loads a questions.json written by a previous run.
func ReadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Snapshot{}, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return Snapshot{}, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return snap, nil
}

// Write replaces the generated files in dir. Topic modules from earlier
// runs that are not part of files are removed.
func Write(dir string, files map[string][]byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output dir: %w", err)
	}

	for _, name := range sortedNames(files) {
		if err := writeFileAtomic(filepath.Join(dir, name), files[name]); err != nil {
			return err
		}
	}

	stale, err := staleTopicFiles(dir, files)
	if err != nil {
		return err
	}
	for _, name := range stale {
		if err := os.Remove(filepath.Join(dir, name)); err != nil {
			return fmt.Errorf("removing stale %s: %w", name, err)
		}
	}
	return nil
}

// Diff lists the files in dir that Write would create, change or remove.
func Diff(dir string, files map[string][]byte) ([]string, error) {
	var changed []string
	for _, name := range sortedNames(files) {
		existing, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		if err != nil || !bytes.Equal(existing, files[name]) {
			changed = append(changed, name)
		}
	}

	stale, err := staleTopicFiles(dir, files)
	if err != nil {
		return nil, err
	}
	changed = append(changed, stale...)
	sort.Strings(changed)
	return changed, nil
}

func staleTopicFiles(dir string, files map[string][]byte) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("listing output dir: %w", err)
	}

	var stale []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, topicFileSuffix) {
			continue
		}
		if _, ok := files[name]; !ok {
			stale = append(stale, name)
		}
	}
	return stale, nil
}

func writeFileAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", filepath.Base(path), err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return fmt.Errorf("chmod %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func literal(s string) string {
	return "'" + EscapeLiteral(s) + "'"
}

func sortedCounts(counts map[string]int) []countView {
	out := make([]countView, 0, len(counts))
	for code, n := range counts {
		out = append(out, countView{Code: code, N: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}

func sortedNames(files map[string][]byte) []string {
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
