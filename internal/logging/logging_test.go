package logging

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"DEBUG", zapcore.DebugLevel},
		{" warn ", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"", zapcore.InfoLevel},
		{"verbose", zapcore.InfoLevel},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNew_FiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New("warn", &buf)

	log.Info("hidden")
	log.Warn("plugin skipped", zap.String("path", "bad.lua"))

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info message should be filtered at warn level:\n%s", out)
	}
	for _, want := range []string{"WARN - calc - plugin skipped", `"path": "bad.lua"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestNew_DefaultsToInfo(t *testing.T) {
	var buf bytes.Buffer
	log := New("nonsense", &buf)
	log.Debug("debug line")
	log.Info("info line")

	out := buf.String()
	if strings.Contains(out, "debug line") {
		t.Error("debug line logged at default level")
	}
	if !strings.Contains(out, "info line") {
		t.Error("info line missing at default level")
	}
}
