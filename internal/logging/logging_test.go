package logging

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNew_HasComponent(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelDebug, "text", &buf)

	logger := New("matcher")
	logger.Info("hello")

	output := buf.String()
	if !strings.Contains(output, "component=matcher") {
		t.Errorf("expected component=matcher in output, got: %s", output)
	}
	if !strings.Contains(output, "hello") {
		t.Errorf("expected 'hello' in output, got: %s", output)
	}
}

func TestInit_AutoFallsBackToJSON(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelInfo, "auto", &buf)

	slog.Info("sample done", "sample", "s1")
	if !strings.Contains(buf.String(), `"sample":"s1"`) {
		t.Errorf("expected JSON output for non-terminal writer, got: %s", buf.String())
	}
}

func TestInit_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	Init(slog.LevelWarn, "text", &buf)

	slog.Info("quiet")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn level, got: %s", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	l, err := ParseLevel("debug")
	if err != nil || l != slog.LevelDebug {
		t.Fatalf("ParseLevel(debug) = %v, %v", l, err)
	}
	if _, err := ParseLevel("loud"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
