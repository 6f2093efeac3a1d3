package ingest

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
)

// insertLine renders one export row the way the spreadsheet dump does.
func insertLine(id int, code, question, correct string, wrong ...string) string {
	values := []string{
		fmt.Sprint(id),
		QuoteLiteral("Domain " + code[:1]),
		QuoteLiteral("Category"),
		QuoteLiteral(code),
		QuoteLiteral("Sub-category"),
		QuoteLiteral("Purpose"),
		QuoteLiteral(question),
		QuoteLiteral(correct),
	}
	for _, w := range wrong {
		values = append(values, QuoteLiteral(w))
	}
	values = append(values, QuoteLiteral("Because."))
	return fmt.Sprintf("INSERT INTO questions (%s) VALUES (%s);", strings.Join(Columns, ", "), strings.Join(values, ", "))
}

func sqlExport(lines ...string) string {
	return "DELETE FROM questions;\n" + strings.Join(lines, "\n") + "\n"
}

func captureLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})), &buf
}
