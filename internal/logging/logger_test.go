package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevelFallsBackToInfo(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"bogus":   slog.LevelInfo,
		" DEBUG ": slog.LevelDebug,
	}
	for input, want := range cases {
		if got := parseLevel(input); got != want {
			t.Fatalf("parseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleHandlerLiftsComponent(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	NewComponentLogger(logger, "store").Info("record upserted", String(FieldFile, "a.mp3"))

	line := buf.String()
	if !strings.Contains(line, "[store]") {
		t.Fatalf("component not lifted into prefix: %q", line)
	}
	if !strings.Contains(line, "record upserted") {
		t.Fatalf("missing message: %q", line)
	}
	if !strings.Contains(line, "file=a.mp3") {
		t.Fatalf("missing attr: %q", line)
	}
	if strings.Contains(line, "component=") {
		t.Fatalf("component should not repeat as a field: %q", line)
	}
}

func TestConsoleHandlerHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	levelVar := new(slog.LevelVar)
	levelVar.Set(slog.LevelWarn)
	logger := slog.New(newConsoleHandler(&buf, levelVar))

	logger.Info("quiet")
	logger.Warn("loud")

	if strings.Contains(buf.String(), "quiet") {
		t.Fatalf("info line should be suppressed: %q", buf.String())
	}
	if !strings.Contains(buf.String(), "loud") {
		t.Fatalf("warn line missing: %q", buf.String())
	}
}

func TestNopLoggerDiscards(t *testing.T) {
	logger := NewNop()
	logger.Error("must not panic", Error(nil))
}
