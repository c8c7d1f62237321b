package app

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLogLevel_String(t *testing.T) {
	tests := []struct {
		level    LogLevel
		expected string
	}{
		{LogLevelDebug, "DEBUG"},
		{LogLevelInfo, "INFO"},
		{LogLevelWarn, "WARN"},
		{LogLevelError, "ERROR"},
		{LogLevel(99), "UNKNOWN"},
	}

	for _, tt := range tests {
		if got := tt.level.String(); got != tt.expected {
			t.Errorf("LogLevel(%d).String() = %q, want %q", tt.level, got, tt.expected)
		}
	}
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected LogLevel
	}{
		{"debug", LogLevelDebug},
		{"DEBUG", LogLevelDebug},
		{"info", LogLevelInfo},
		{"warn", LogLevelWarn},
		{"Warning", LogLevelWarn},
		{"error", LogLevelError},
		{"unknown", LogLevelInfo},
		{"", LogLevelInfo},
	}

	for _, tt := range tests {
		if got := ParseLogLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLogLevel(%q) = %v, want %v", tt.input, got, tt.expected)
		}
	}
}

func TestLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelWarn, Output: &buf, Prefix: "test"})

	logger.Debug("hidden")
	logger.Info("hidden")
	logger.Warn("careful %d", 1)
	logger.Error("broken")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("output contains filtered lines: %q", out)
	}
	if !strings.Contains(out, "[WARN] test: careful 1") {
		t.Errorf("output missing warning: %q", out)
	}
	if !strings.Contains(out, "[ERROR] test: broken") {
		t.Errorf("output missing error: %q", out)
	}
}

func TestLogger_Fields(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(LoggerConfig{Level: LogLevelDebug, Output: &buf})

	child := logger.WithComponent("lua").WithField("attempt", 2)
	child.Info("loaded")

	if got := buf.String(); !strings.HasSuffix(got, "loaded {attempt=2, component=lua}\n") {
		t.Errorf("line = %q, want sorted fields", got)
	}

	// Children share the parent's level.
	buf.Reset()
	logger.SetLevel(LogLevelError)
	child.Info("dropped")
	if buf.Len() != 0 {
		t.Errorf("child logged after parent level change: %q", buf.String())
	}
	if child.Level() != LogLevelError {
		t.Errorf("child.Level() = %v, want ERROR", child.Level())
	}
}

func TestNullLogger(t *testing.T) {
	NullLogger().Error("nothing %s", "here")
}

func TestOpenLogFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "keycalc.log")
	f, err := OpenLogFile(path)
	if err != nil {
		t.Fatalf("OpenLogFile() error = %v", err)
	}
	logger := NewLogger(LoggerConfig{Output: f})
	logger.Info("to disk")
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "to disk") {
		t.Errorf("log file = %q", data)
	}
}
