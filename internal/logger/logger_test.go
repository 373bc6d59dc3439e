package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog/log"
)

func TestInitJSONWithRunID(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Level: "debug", Out: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	log.Debug().Int("page", 1).Msg("rendered")

	var ev map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &ev); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if ev["message"] != "rendered" {
		t.Errorf("expected message=rendered, got %v", ev["message"])
	}
	if id, _ := ev["run_id"].(string); len(id) != 36 {
		t.Errorf("expected uuid run_id, got %v", ev["run_id"])
	}
}

func TestInitLevelFallback(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(Options{Level: "chatty", Out: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	defer Close()

	log.Debug().Msg("hidden")
	log.Info().Msg("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Error("expected debug to be filtered at fallback info level")
	}
	if !strings.Contains(out, "shown") {
		t.Error("expected info message")
	}
}

func TestInitWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "run.log")
	var buf bytes.Buffer
	if err := Init(Options{Level: "info", File: path, MaxSizeMB: 1, Out: &buf}); err != nil {
		t.Fatalf("Init: %v", err)
	}
	log.Info().Msg("to file")
	Close()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	if !strings.Contains(string(b), "to file") {
		t.Errorf("expected message in log file, got %q", string(b))
	}
}
