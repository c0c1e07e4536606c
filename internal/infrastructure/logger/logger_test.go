package logger

import (
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"info", zerolog.InfoLevel},
		{"warn", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"unknown", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		if got := parseLevel(tt.input); got != tt.want {
			t.Fatalf("parseLevel(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestNewLoggerLevel(t *testing.T) {
	log := New(Config{Format: "json", Level: "warn"})

	if log.GetLevel() != zerolog.WarnLevel {
		t.Fatalf("expected warn level, got %v", log.GetLevel())
	}
}

func TestJSONOutput(t *testing.T) {
	var buf strings.Builder
	log := zerolog.New(&buf)

	log.Info().Str("voucher", "CT/20251215/001").Msg("posted")

	output := buf.String()
	if !strings.HasPrefix(output, "{") {
		t.Fatalf("expected json output, got %q", output)
	}
	if !strings.Contains(output, `"voucher":"CT/20251215/001"`) {
		t.Fatalf("expected voucher field, got %q", output)
	}
}
