package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/cpacc-prep/studybank/internal/ingest"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := make([]any, len(ingest.Columns))
	for i, c := range ingest.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		t.Fatal(err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatal(err)
		}
	}
	if err := f.SaveAs(path); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "bank.xlsx")
	writeWorkbook(t, in, [][]any{
		{101, "Domain 1", "D1", "1A", "Models", "Purpose", "Q?", "a", "b", "c", "d", "Because."},
		{"x", "Domain 1", "D1", "1A", "Models", "", "Q?", "a", "b", "c", "d", ""},
	})

	var stdout, stderr bytes.Buffer
	if code := run([]string{"-input", in, "-verbose"}, &stdout, &stderr); code != 0 {
		t.Fatalf("run() = %d, stderr:\n%s", code, stderr.String())
	}

	sql, err := os.ReadFile(filepath.Join(dir, "questions.sql"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(sql), "VALUES (101, 'Domain 1'") {
		t.Errorf("sql:\n%s", sql)
	}
	if !strings.Contains(stdout.String(), "Wrote 1 of 2 rows") {
		t.Errorf("stdout = %q", stdout.String())
	}
	if !strings.Contains(stderr.String(), `row 3 (id "x")`) {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_Errors(t *testing.T) {
	dir := t.TempDir()
	empty := filepath.Join(dir, "empty.xlsx")
	writeWorkbook(t, empty, [][]any{{"x", "D", "D", "1A", "M", "", "Q?", "a", "b", "c", "d", ""}})

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"no input", nil, 1},
		{"missing file", []string{"-input", filepath.Join(dir, "nope.xlsx")}, 1},
		{"nothing converted", []string{"-input", empty}, 1},
		{"bad flag", []string{"-bogus"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := run(tt.args, &bytes.Buffer{}, &bytes.Buffer{}); got != tt.want {
				t.Errorf("run() = %d, want %d", got, tt.want)
			}
		})
	}
	if _, err := os.Stat(filepath.Join(dir, "questions.sql")); !os.IsNotExist(err) {
		t.Errorf("no SQL should be written on failure, stat err = %v", err)
	}
}
