package logging_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyreel/internal/logging"
	"storyreel/internal/testsupport"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigWritesStateLog(t *testing.T) {
	cfg := testsupport.NewConfig(t)

	logger, err := logging.NewFromConfig(cfg, nil)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("watcher started")

	if !strings.Contains(readLog(t, cfg.LogPath()), "watcher started") {
		t.Fatal("expected message in state log file")
	}
}

func TestConsoleHeaderCarriesComponentAndGeneration(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := logging.WithGeneration(context.Background(), 7)
	logging.WithContext(ctx, logging.NewComponentLogger(logger, "recompute")).
		Info("schedule ready", logging.String(logging.FieldPhase, "ready"), logging.Int("entries", 12))

	content := readLog(t, logPath)
	for _, want := range []string{"INFO [recompute] Gen #7 (ready) – schedule ready", "    - entries: 12"} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, ".go:") {
		t.Fatalf("expected no caller information in info logs, got %q", content)
	}
}

func TestConsoleInfoHidesExtraFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	attrs := make([]logging.Attr, 0, 8)
	for _, key := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		attrs = append(attrs, logging.String(key, "v"))
	}
	logger.Info("many fields", logging.Args(attrs...)...)

	if content := readLog(t, logPath); !strings.Contains(content, "+ 2 more fields hidden") {
		t.Fatalf("expected hidden field summary, got %q", content)
	}
}

func TestConsoleWarningPinsHintAndRunID(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	attrs := []logging.Attr{logging.String(logging.FieldRunID, "1a2b3c4d-5e6f-7081-92a3-b4c5d6e7f809")}
	for _, key := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		attrs = append(attrs, logging.String(key, "v"))
	}
	logging.WarnWithContext(logger, "footage too short", "insufficient_footage", attrs...)

	content := readLog(t, logPath)
	for _, want := range []string{
		"WARN run 1a2b3c4d – footage too short",
		"    - h: v",
		"    > hint: check logs for details",
		"    > impact: schedule computed with warnings",
	} {
		if !strings.Contains(content, want) {
			t.Fatalf("expected %q in %q", want, content)
		}
	}
	if strings.Contains(content, "5e6f") {
		t.Fatalf("expected truncated run id, got %q", content)
	}
}

func TestJSONFormatRenamesKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.WarnWithContext(logger, "footage too short", "insufficient_footage")

	line := bytes.TrimSpace([]byte(readLog(t, logPath)))
	var payload map[string]any
	if err := json.Unmarshal(line, &payload); err != nil {
		t.Fatalf("decode json log: %v (%s)", err, line)
	}
	if payload["level"] != "warn" {
		t.Fatalf("level = %v, want warn", payload["level"])
	}
	if _, ok := payload["ts"]; !ok {
		t.Fatal("expected ts key")
	}
	if payload[logging.FieldEventType] != "insufficient_footage" {
		t.Fatalf("event_type = %v", payload[logging.FieldEventType])
	}
	if payload[logging.FieldErrorHint] == nil || payload[logging.FieldImpact] == nil {
		t.Fatalf("expected default hint and impact, got %v", payload)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestErrorWithContextKeepsProvidedHint(t *testing.T) {
	hub := logging.NewStreamHub(8)
	logger, err := logging.New(logging.Options{
		Format:      "json",
		OutputPaths: []string{filepath.Join(t.TempDir(), "x.log")},
		Stream:      hub,
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logging.ErrorWithContext(logger, "alignment failed", "alignment_failure",
		logging.String(logging.FieldErrorHint, "check the story title"),
		logging.Error(errors.New("boom")))

	events, _ := hub.Tail(1)
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	if got := events[0].Fields[logging.FieldErrorHint]; got != "check the story title" {
		t.Fatalf("error_hint = %q", got)
	}
	if events[0].Fields["error"] != "boom" {
		t.Fatalf("error field = %q", events[0].Fields["error"])
	}
}
