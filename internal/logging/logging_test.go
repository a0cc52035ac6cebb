package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_TagsComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	New("runner").Info("grading started")

	out := buf.String()
	if !strings.Contains(out, "component=runner") {
		t.Errorf("expected component=runner, got: %s", out)
	}
	if !strings.Contains(out, "grading started") {
		t.Errorf("expected the message, got: %s", out)
	}
}

func TestInit_Formats(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"text", "level=INFO"},
		{"json", `"level":"INFO"`},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			var buf bytes.Buffer
			Init(slog.LevelInfo, tt.format, &buf)

			New("check").Info("format sample")

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("%s output missing %q: %s", tt.format, tt.want, buf.String())
			}
		})
	}
}

func TestInit_LevelGating(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	logger := New("loader")
	logger.Info("suppressed")
	logger.Warn("visible")

	out := buf.String()
	if strings.Contains(out, "suppressed") {
		t.Error("info should be gated at warn level")
	}
	if !strings.Contains(out, "visible") {
		t.Error("warn should pass at warn level")
	}
}
