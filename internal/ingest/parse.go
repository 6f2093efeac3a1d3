package ingest

import (
	"bufio"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/cpacc-prep/studybank/internal/question"
	"github.com/cpacc-prep/studybank/internal/topics"
)

const (
	insertKeyword = "INSERT INTO"
	previewLen    = 80
	maxLineBytes  = 4 << 20
)

var valuesPattern = regexp.MustCompile(`(?i)VALUES\s*\((.*)\);\s*$`)

// SkipReason classifies a rejected row.
type SkipReason string

const (
	SkipMalformed        SkipReason = "malformed"
	SkipFieldCount       SkipReason = "field_count"
	SkipBadID            SkipReason = "bad_id"
	SkipDuplicateID      SkipReason = "duplicate_id"
	SkipUnknownCode      SkipReason = "unknown_code"
	SkipEmptyField       SkipReason = "empty_field"
	SkipDuplicateOptions SkipReason = "duplicate_options"
)

// ParseResult holds the accepted rows of one export plus a tally of what
// was dropped.
type ParseResult struct {
	Rows       []Row
	Candidates int
	Skipped    map[SkipReason]int
}

// SkippedTotal returns the number of rejected INSERT lines.
func (r ParseResult) SkippedTotal() int {
	n := 0
	for _, c := range r.Skipped {
		n += c
	}
	return n
}

// ParseSQL reads one SQL statement per line and returns the validated rows
// of every INSERT statement. Malformed rows are logged and skipped; only
// read errors are returned.
func ParseSQL(r io.Reader, m topics.Map, log *slog.Logger) (ParseResult, error) {
	if log == nil {
		log = slog.Default()
	}

	res := ParseResult{Skipped: make(map[SkipReason]int)}
	seen := make(map[string]int)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), maxLineBytes)

	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if !hasInsertPrefix(line) {
			continue
		}
		res.Candidates++

		row, reason, ok := parseLine(line, lineNo, m, seen, log)
		if !ok {
			res.Skipped[reason]++
			continue
		}
		seen[row.SourceID] = lineNo
		res.Rows = append(res.Rows, row)
	}
	if err := sc.Err(); err != nil {
		return res, fmt.Errorf("reading SQL at line %d: %w", lineNo, err)
	}

	return res, nil
}

func parseLine(line string, lineNo int, m topics.Map, seen map[string]int, log *slog.Logger) (Row, SkipReason, bool) {
	match := valuesPattern.FindStringSubmatch(line)
	if match == nil {
		log.Warn("skipping statement without VALUES (...);", "line", lineNo, "preview", preview(line))
		return Row{}, SkipMalformed, false
	}

	fields, err := SplitFields(match[1])
	if err != nil {
		log.Warn("skipping unparsable row", "line", lineNo, "error", err, "preview", preview(line))
		return Row{}, SkipMalformed, false
	}

	if len(fields) != FieldCount {
		log.Warn("skipping row with wrong field count",
			"line", lineNo,
			"source_id", leadingID(fields),
			"fields", len(fields),
			"want", FieldCount,
			"preview", preview(line),
		)
		return Row{}, SkipFieldCount, false
	}

	row := rowFromFields(fields)
	row.Line = lineNo

	id, err := parseSourceID(row.SourceID)
	if err != nil {
		log.Warn("skipping row with bad id", "line", lineNo, "source_id", row.SourceID, "error", err)
		return Row{}, SkipBadID, false
	}
	// 101 and 0101 name the same question.
	row.SourceID = strconv.FormatInt(id, 10)

	if first, dup := seen[row.SourceID]; dup {
		log.Warn("skipping duplicate id", "line", lineNo, "source_id", row.SourceID, "first_line", first)
		return Row{}, SkipDuplicateID, false
	}

	topicID, ok := m.TopicFor(row.SubCategoryCode)
	if !ok {
		log.Warn("skipping row with unknown sub-category code",
			"line", lineNo,
			"source_id", row.SourceID,
			"code", row.SubCategoryCode,
		)
		return Row{}, SkipUnknownCode, false
	}
	row.TopicID = topicID

	if field := emptyRequired(row); field != "" {
		log.Warn("skipping row with empty field", "line", lineNo, "source_id", row.SourceID, "field", field)
		return Row{}, SkipEmptyField, false
	}

	if err := question.DistinctOptions(row.Options()); err != nil {
		log.Warn("skipping row with repeated options", "line", lineNo, "source_id", row.SourceID, "error", err)
		return Row{}, SkipDuplicateOptions, false
	}

	return row, "", true
}

func emptyRequired(r Row) string {
	if strings.TrimSpace(r.Question) == "" {
		return "question_text"
	}
	for i, opt := range r.Options() {
		if strings.TrimSpace(opt) == "" {
			return Columns[7+i]
		}
	}
	return ""
}

func hasInsertPrefix(line string) bool {
	return len(line) >= len(insertKeyword) && strings.EqualFold(line[:len(insertKeyword)], insertKeyword)
}

func leadingID(fields []Field) string {
	if len(fields) == 0 {
		return ""
	}
	return fields[0].Value
}

// preview cuts line to at most previewLen bytes on a rune boundary.
func preview(line string) string {
	if len(line) <= previewLen {
		return line
	}
	cut := previewLen
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + "..."
}
