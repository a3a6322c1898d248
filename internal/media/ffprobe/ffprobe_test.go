package ffprobe

import (
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"
)

const sampleOutput = `{
  "streams": [
    {"index": 0, "codec_name": "aac", "codec_type": "audio", "duration": "3999.1"},
    {"index": 1, "codec_name": "h264", "codec_type": "video", "width": 1080, "height": 1920,
     "r_frame_rate": "30000/1001", "duration": "3999.5"}
  ],
  "format": {"filename": "video.mp4", "duration": "4000.000000", "format_name": "mov,mp4"}
}`

func TestFootageFromResult(t *testing.T) {
	result, err := Parse([]byte(sampleOutput))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	footage, err := result.Footage()
	if err != nil {
		t.Fatalf("Footage failed: %v", err)
	}
	if footage.DurationSeconds != 4000 {
		t.Fatalf("duration = %v, want 4000", footage.DurationSeconds)
	}
	if footage.Width != 1080 || footage.Height != 1920 {
		t.Fatalf("unexpected dimensions %dx%d", footage.Width, footage.Height)
	}
	if math.Abs(footage.FrameRate-29.97) > 0.01 {
		t.Fatalf("frame rate = %v", footage.FrameRate)
	}
	if footage.Frames(30) != 120000 {
		t.Fatalf("Frames(30) = %d", footage.Frames(30))
	}
}

func TestFootageFallsBackToVideoStream(t *testing.T) {
	result := Result{
		Streams: []Stream{{CodecType: "video", Duration: "12.5"}},
		Format:  Format{Duration: "N/A"},
	}
	footage, err := result.Footage()
	if err != nil {
		t.Fatalf("Footage failed: %v", err)
	}
	if footage.DurationSeconds != 12.5 {
		t.Fatalf("duration = %v, want 12.5", footage.DurationSeconds)
	}
}

func TestFootageWithoutDuration(t *testing.T) {
	cases := []Result{
		{},
		{Format: Format{Duration: "bad"}},
		{Format: Format{Duration: "-3"}},
	}
	for _, result := range cases {
		if _, err := result.Footage(); !errors.Is(err, ErrNoDuration) {
			t.Fatalf("expected ErrNoDuration for %#v, got %v", result, err)
		}
	}
}

func TestParseRate(t *testing.T) {
	tests := map[string]float64{
		"30/1": 30,
		"25":   25,
		"0/0":  0,
		"":     0,
		"x/1":  0,
		"60/2": 30,
	}
	for input, want := range tests {
		if got := parseRate(input); got != want {
			t.Errorf("parseRate(%q) = %v, want %v", input, got, want)
		}
	}
}

func stubFFprobe(t *testing.T, script string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "ffprobe"), []byte(script), 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestProbeRunsBinary(t *testing.T) {
	stubFFprobe(t, "#!/bin/sh\ncat <<'EOF'\n"+sampleOutput+"\nEOF\n")

	footage, err := Probe(context.Background(), "video.mp4")
	if err != nil {
		t.Fatalf("Probe failed: %v", err)
	}
	if footage.Path != "video.mp4" || footage.DurationSeconds != 4000 {
		t.Fatalf("unexpected footage: %#v", footage)
	}
}

func TestProbeReportsFailure(t *testing.T) {
	stubFFprobe(t, "#!/bin/sh\necho 'no such file' >&2\nexit 1\n")

	if _, err := Probe(context.Background(), "missing.mp4"); err == nil {
		t.Fatal("expected error from failing ffprobe")
	}
	if _, err := Inspect(context.Background(), " "); err == nil {
		t.Fatal("expected error for empty path")
	}
}

func TestInspectHonorsCancelledContext(t *testing.T) {
	stubFFprobe(t, "#!/bin/sh\ncat <<'EOF'\n"+sampleOutput+"\nEOF\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Inspect(ctx, "video.mp4"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
