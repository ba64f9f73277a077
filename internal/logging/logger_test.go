package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{" warn ", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"INFO", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q): wanted %v, got %v", tt.in, tt.want, got)
		}
	}
}

func TestNew(t *testing.T) {
	t.Run("should write json and respect level", func(t *testing.T) {
		var buf bytes.Buffer
		logger := New(&buf, LevelWarn)

		logger.Info("hidden")
		logger.Warn("shown", "route", "/booking")

		var entry map[string]any
		if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
			t.Fatalf("wanted a single json line\ngot: %q (%v)", buf.String(), err)
		}
		if entry["msg"] != "shown" {
			t.Fatalf("wanted: %q\ngot: %v", "shown", entry["msg"])
		}
		if entry["route"] != "/booking" {
			t.Fatalf("wanted: %q\ngot: %v", "/booking", entry["route"])
		}
	})
}
