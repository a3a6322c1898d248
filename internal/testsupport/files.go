package testsupport

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"storyreel/internal/config"
)

// WriteFile writes data to path, creating parent directories.
func WriteFile(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// TranscriptWord is a fixture word for WriteTranscript.
type TranscriptWord struct {
	StartInSeconds float64 `json:"startInSeconds"`
	Text           string  `json:"text"`
}

// Words builds fixture words spaced step seconds apart starting at start.
func Words(start, step float64, texts ...string) []TranscriptWord {
	words := make([]TranscriptWord, 0, len(texts))
	for i, text := range texts {
		words = append(words, TranscriptWord{StartInSeconds: start + float64(i)*step, Text: text})
	}
	return words
}

// WriteTranscript writes a transcript document to the configured transcript path.
func WriteTranscript(t testing.TB, cfg *config.Config, words []TranscriptWord) {
	t.Helper()

	if words == nil {
		words = []TranscriptWord{}
	}
	writeJSON(t, cfg.Paths.TranscriptFile, map[string]any{"transcription": words})
}

// WriteStory writes a story document to the configured story path.
func WriteStory(t testing.TB, cfg *config.Config, title, content string, tags ...string) {
	t.Helper()

	if tags == nil {
		tags = []string{}
	}
	writeJSON(t, cfg.Paths.StoryFile, map[string]any{
		"title":   title,
		"content": content,
		"tags":    tags,
	})
}

func writeJSON(t testing.TB, path string, v any) {
	t.Helper()

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		t.Fatalf("encode %s: %v", path, err)
	}
	WriteFile(t, path, data)
}
