package config

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNewLogger_Format(t *testing.T) {
	var buf bytes.Buffer
	LogConfig{Level: "info", Format: "json"}.NewLogger(&buf).Info("hello", "line", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("json output not decodable: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "hello" || entry["line"] != float64(3) {
		t.Errorf("entry = %v", entry)
	}

	buf.Reset()
	LogConfig{Level: "info", Format: "text"}.NewLogger(&buf).Info("hello", "line", 3)
	if !strings.Contains(buf.String(), "msg=hello line=3") {
		t.Errorf("text output = %q", buf.String())
	}
}

func TestNewLogger_Level(t *testing.T) {
	tests := []struct {
		level     string
		wantDebug bool
		wantWarn  bool
	}{
		{"debug", true, true},
		{"info", false, true},
		{"WARN", false, true},
		{"error", false, false},
		{"bogus", false, true},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			log := LogConfig{Level: tt.level, Format: "text"}.NewLogger(&buf)

			log.Debug("d")
			if got := strings.Contains(buf.String(), "msg=d"); got != tt.wantDebug {
				t.Errorf("debug logged = %v, want %v", got, tt.wantDebug)
			}
			log.Warn("w")
			if got := strings.Contains(buf.String(), "msg=w"); got != tt.wantWarn {
				t.Errorf("warn logged = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}
