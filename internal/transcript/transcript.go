package transcript

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"storyreel/internal/captions"
)

// ErrUnavailable indicates the transcript resource does not exist or holds no
// transcription array.
var ErrUnavailable = errors.New("transcript unavailable")

// Transcript is a decoded transcript resource.
type Transcript struct {
	Tokens []captions.Token
	// Skipped counts tokens rejected as malformed.
	Skipped int
	// Fingerprint is the SHA-256 of the raw resource bytes.
	Fingerprint string
	Path        string
	ModTime     time.Time
}

type document struct {
	Transcription []json.RawMessage `json:"transcription"`
}

type rawToken struct {
	StartInSeconds json.RawMessage `json:"startInSeconds"`
	Text           json.RawMessage `json:"text"`
}

// Load reads and decodes the transcript at path.
func Load(path string) (Transcript, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Transcript{}, fmt.Errorf("%w: no transcript path configured", ErrUnavailable)
	}
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Transcript{}, fmt.Errorf("%w: %s", ErrUnavailable, path)
		}
		return Transcript{}, fmt.Errorf("stat transcript: %w", err)
	}
	if info.IsDir() {
		return Transcript{}, fmt.Errorf("transcript path %q is a directory", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Transcript{}, fmt.Errorf("%w: %s", ErrUnavailable, path)
		}
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	tr, err := Parse(data)
	if err != nil {
		return Transcript{}, fmt.Errorf("%s: %w", path, err)
	}
	tr.Path = path
	tr.ModTime = info.ModTime()
	return tr, nil
}

// Decode reads a transcript document from r.
func Decode(r io.Reader) (Transcript, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Transcript{}, fmt.Errorf("read transcript: %w", err)
	}
	return Parse(data)
}

// Parse decodes a transcript document held in memory.
func Parse(data []byte) (Transcript, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Transcript{}, fmt.Errorf("%w: empty document", ErrUnavailable)
	}
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Transcript{}, fmt.Errorf("parse transcript: %w", err)
	}
	if doc.Transcription == nil {
		return Transcript{}, fmt.Errorf("%w: document has no transcription array", ErrUnavailable)
	}

	tr := Transcript{
		Tokens:      make([]captions.Token, 0, len(doc.Transcription)),
		Fingerprint: Fingerprint(data),
	}
	for _, raw := range doc.Transcription {
		tok, ok := decodeToken(raw)
		if !ok {
			tr.Skipped++
			continue
		}
		tr.Tokens = append(tr.Tokens, tok)
	}
	return tr, nil
}

func decodeToken(raw json.RawMessage) (captions.Token, bool) {
	var fields rawToken
	if err := json.Unmarshal(raw, &fields); err != nil {
		return captions.Token{}, false
	}
	if isNull(fields.StartInSeconds) || isNull(fields.Text) {
		return captions.Token{}, false
	}
	var start float64
	if err := json.Unmarshal(fields.StartInSeconds, &start); err != nil {
		return captions.Token{}, false
	}
	if !captions.ValidTimestamp(start) {
		return captions.Token{}, false
	}
	var text string
	if err := json.Unmarshal(fields.Text, &text); err != nil {
		return captions.Token{}, false
	}
	return captions.Token{StartInSeconds: start, Text: text}, true
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Fingerprint returns the hex SHA-256 of data.
func Fingerprint(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
