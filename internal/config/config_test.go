package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"storyreel/internal/captions"
	"storyreel/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(tempHome, ".local", "share", "storyreel")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.TranscriptFile) || !strings.HasSuffix(cfg.Paths.TranscriptFile, filepath.Join("public", "audio", "audio.json")) {
		t.Fatalf("unexpected transcript path: %q", cfg.Paths.TranscriptFile)
	}
	if cfg.Render.FPS != 30 {
		t.Fatalf("unexpected fps: %d", cfg.Render.FPS)
	}
	if cfg.Render.FallbackTitleFrames != 120 {
		t.Fatalf("unexpected fallback title frames: %d", cfg.Render.FallbackTitleFrames)
	}
	if cfg.Boundary() != captions.BoundaryAfterAnchor {
		t.Fatalf("unexpected boundary: %v", cfg.Boundary())
	}
	if cfg.Paths.APIBind != "" {
		t.Fatalf("expected API disabled by default, got %q", cfg.Paths.APIBind)
	}
	if cfg.TimelinePath() != filepath.Join(cfg.Paths.OutputDir, "timeline.json") {
		t.Fatalf("unexpected timeline path: %q", cfg.TimelinePath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{cfg.Paths.OutputDir, cfg.Paths.StateDir} {
		info, err := os.Stat(dir)
		if err != nil || !info.IsDir() {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
	}
}

func TestLoadCustomPath(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "storyreel.toml")

	type payload struct {
		Paths struct {
			TranscriptFile string `toml:"transcript_file"`
			StateDir       string `toml:"state_dir"`
		} `toml:"paths"`
		Render struct {
			FPS                    int     `toml:"fps"`
			TargetDurationFrames   int     `toml:"target_duration_frames"`
			BackgroundVideoSeconds float64 `toml:"background_video_seconds"`
			CaptionBoundary        string  `toml:"caption_boundary"`
		} `toml:"render"`
		Logging struct {
			Format string `toml:"format"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.TranscriptFile = filepath.Join(tempDir, "captions.json")
	custom.Paths.StateDir = filepath.Join(tempDir, "state")
	custom.Render.FPS = 60
	custom.Render.TargetDurationFrames = 3600
	custom.Render.BackgroundVideoSeconds = 900
	custom.Render.CaptionBoundary = " AT_ANCHOR "
	custom.Logging.Format = "JSON"

	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Render.FPS != 60 || cfg.Render.TargetDurationFrames != 3600 || cfg.Render.BackgroundVideoSeconds != 900 {
		t.Fatalf("render section not applied: %+v", cfg.Render)
	}
	if cfg.Boundary() != captions.BoundaryAtAnchor {
		t.Fatalf("boundary not normalized: %q", cfg.Render.CaptionBoundary)
	}
	if cfg.Logging.Format != "json" {
		t.Fatalf("log format not normalized: %q", cfg.Logging.Format)
	}
	if cfg.HistoryPath() != filepath.Join(tempDir, "state", "history.db") {
		t.Fatalf("unexpected history path: %q", cfg.HistoryPath())
	}
	if cfg.Watch.PollIntervalMS != config.Default().Watch.PollIntervalMS {
		t.Fatalf("watch defaults lost: %+v", cfg.Watch)
	}
}

func TestEnvFallbackDoesNotOverrideFile(t *testing.T) {
	tempDir := t.TempDir()
	t.Setenv("STORYREEL_TRANSCRIPT", filepath.Join(tempDir, "from-env.json"))

	configPath := filepath.Join(tempDir, "storyreel.toml")
	body := "[paths]\ntranscript_file = \"" + filepath.ToSlash(filepath.Join(tempDir, "from-file.json")) + "\"\n"
	if err := os.WriteFile(configPath, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if filepath.Base(cfg.Paths.TranscriptFile) != "from-file.json" {
		t.Fatalf("file value should win, got %q", cfg.Paths.TranscriptFile)
	}

	emptyPath := filepath.Join(tempDir, "empty.toml")
	if err := os.WriteFile(emptyPath, []byte("[render]\nfps = 25\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, _, _, err = config.Load(emptyPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if filepath.Base(cfg.Paths.TranscriptFile) != "from-env.json" {
		t.Fatalf("env fallback not applied, got %q", cfg.Paths.TranscriptFile)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"fps", func(c *config.Config) { c.Render.FPS = 0 }, "render.fps"},
		{"target", func(c *config.Config) { c.Render.TargetDurationFrames = -1 }, "render.target_duration_frames"},
		{"footage", func(c *config.Config) { c.Render.BackgroundVideoSeconds = -5 }, "render.background_video_seconds"},
		{"footage too long", func(c *config.Config) { c.Render.BackgroundVideoSeconds = 1e300 }, "render.background_video_seconds"},
		{"fps too high", func(c *config.Config) { c.Render.FPS = 100000 }, "render.fps"},
		{"boundary", func(c *config.Config) { c.Render.CaptionBoundary = "sideways" }, "render.caption_boundary"},
		{"poll", func(c *config.Config) { c.Watch.PollIntervalMS = 0 }, "watch.poll_interval_ms"},
		{"background", func(c *config.Config) { c.Paths.BackgroundVideo = "" }, "paths.background_video"},
		{"transcript", func(c *config.Config) { c.Paths.TranscriptFile = "" }, "paths.transcript_file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			cfg.Paths.StoryFile = "/tmp/annotate.json"
			cfg.Paths.TranscriptFile = "/tmp/audio.json"
			cfg.Paths.BackgroundVideo = "/tmp/video.mp4"
			if err := cfg.Validate(); err != nil {
				t.Fatalf("baseline config invalid: %v", err)
			}
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("Validate() = %v, want mention of %s", err, tt.want)
			}
		})
	}
}

func TestCreateSampleRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample: %v", err)
	}
	t.Chdir(t.TempDir())
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("sample config should load: %v", err)
	}
	if !exists || cfg.Render.FPS != 30 {
		t.Fatalf("unexpected sample load: exists=%v fps=%d", exists, cfg.Render.FPS)
	}
}
