package ingest

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// SheetRowError describes a spreadsheet row that was not converted.
type SheetRowError struct {
	Row   int
	ID    string
	Error string
}

// SheetReport summarises one spreadsheet conversion.
type SheetReport struct {
	TotalRows   int
	WrittenRows int
	Errors      []SheetRowError
}

// SheetToSQL reads the first worksheet of an .xlsx question bank and writes
// a DELETE followed by one INSERT per data row. The header row must name
// every column in Columns (case and surrounding space ignored; spaces match
// underscores). Line breaks inside cells become single spaces so that every
// statement stays on one line.
func SheetToSQL(r io.Reader, w io.Writer) (SheetReport, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return SheetReport{}, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return SheetReport{}, errors.New("spreadsheet has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return SheetReport{}, fmt.Errorf("read rows: %w", err)
	}
	if len(rows) < 2 {
		return SheetReport{}, errors.New("no data rows found")
	}

	header := map[string]int{}
	for i, h := range rows[0] {
		header[headerKey(h)] = i
	}
	for _, col := range Columns {
		if _, ok := header[col]; !ok {
			return SheetReport{}, fmt.Errorf("missing required column: %s", col)
		}
	}

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "DELETE FROM %s;\n", questionsTable)
	prefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES (", questionsTable, strings.Join(Columns, ", "))

	report := SheetReport{Errors: make([]SheetRowError, 0)}
	for i := 1; i < len(rows); i++ {
		row := rows[i]
		get := func(key string) string {
			idx := header[key]
			if idx >= len(row) {
				return ""
			}
			return strings.TrimSpace(flatten(row[idx]))
		}
		if isBlank(row) {
			continue
		}
		report.TotalRows++

		id := get("id")
		if _, err := strconv.ParseUint(id, 10, 64); err != nil {
			report.Errors = append(report.Errors, SheetRowError{Row: i + 1, ID: id, Error: "id must be a positive integer"})
			continue
		}

		values := make([]string, 0, len(Columns))
		values = append(values, id)
		for _, col := range Columns[1:] {
			v := get(col)
			if v == "" && (col == "subject" || col == "rationale") {
				values = append(values, "NULL")
				continue
			}
			values = append(values, QuoteLiteral(v))
		}

		bw.WriteString(prefix)
		bw.WriteString(strings.Join(values, ", "))
		bw.WriteString(");\n")
		report.WrittenRows++
	}

	if err := bw.Flush(); err != nil {
		return report, fmt.Errorf("write SQL: %w", err)
	}
	return report, nil
}

func headerKey(h string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(h)), " ", "_")
}

func flatten(s string) string {
	s = strings.ReplaceAll(s, "\r\n", " ")
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "\r", " ")
}

func isBlank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
