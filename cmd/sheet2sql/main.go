// Command sheet2sql converts the question-bank spreadsheet into the SQL
// export read by cmd/ingest.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cpacc-prep/studybank/internal/ingest"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("sheet2sql", flag.ContinueOnError)
	fs.SetOutput(stderr)
	input := fs.String("input", "", "Path to the .xlsx question bank")
	output := fs.String("output", "", "Path to the SQL file to write (default: questions.sql next to the input)")
	verbose := fs.Bool("verbose", false, "List every skipped row")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *input == "" {
		fmt.Fprintf(stderr, "Error: input file required\n")
		fmt.Fprintf(stderr, "Usage: sheet2sql -input <xlsx-file> [-output <sql-file>] [-verbose]\n")
		return 1
	}
	if *output == "" {
		*output = filepath.Join(filepath.Dir(*input), "questions.sql")
	}

	in, err := os.Open(*input)
	if err != nil {
		fmt.Fprintf(stderr, "Error: cannot read input file: %v\n", err)
		return 1
	}
	defer in.Close()

	tmp, err := os.CreateTemp(filepath.Dir(*output), ".sheet2sql.*")
	if err != nil {
		fmt.Fprintf(stderr, "Error: cannot create output: %v\n", err)
		return 1
	}
	defer os.Remove(tmp.Name())

	report, err := ingest.SheetToSQL(in, tmp)
	if cerr := tmp.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		fmt.Fprintf(stderr, "Error converting spreadsheet: %v\n", err)
		return 1
	}
	if report.WrittenRows == 0 {
		fmt.Fprintf(stderr, "Error: no rows converted (%d skipped)\n", len(report.Errors))
		return 1
	}
	if err := os.Rename(tmp.Name(), *output); err != nil {
		fmt.Fprintf(stderr, "Error writing %s: %v\n", *output, err)
		return 1
	}

	if *verbose {
		for _, e := range report.Errors {
			fmt.Fprintf(stderr, "row %d (id %q): %s\n", e.Row, e.ID, e.Error)
		}
	}
	fmt.Fprintf(stdout, "Wrote %d of %d rows to %s\n", report.WrittenRows, report.TotalRows, *output)
	if len(report.Errors) > 0 {
		fmt.Fprintf(stdout, "Skipped %d rows\n", len(report.Errors))
	}
	return 0
}
