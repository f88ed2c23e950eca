package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func TestInitProductionWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	flush := InitWriter(&buf, false, "")
	defer flush()

	slog.Debug("hidden")
	slog.Info("goal created", "goal_id", 7)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1 (debug filtered): %q", len(lines), buf.String())
	}

	var entry map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &entry); err != nil {
		t.Fatalf("not JSON: %v", err)
	}
	if entry["msg"] != "goal created" || entry["goal_id"] != float64(7) {
		t.Errorf("entry = %v", entry)
	}
}

func TestInitDevelopmentWritesText(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, true, "")()

	slog.Debug("visible", "owner", "0xabc")
	if !strings.Contains(buf.String(), "msg=visible owner=0xabc") {
		t.Errorf("text output = %q", buf.String())
	}
}
