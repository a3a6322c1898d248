package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeRender()
	c.normalizeWatch()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	envFallback(&c.Paths.StoryFile, "STORYREEL_STORY", defaultStoryFile)
	envFallback(&c.Paths.TranscriptFile, "STORYREEL_TRANSCRIPT", defaultTranscriptFile)
	envFallback(&c.Paths.BackgroundVideo, "STORYREEL_BACKGROUND", defaultBackgroundVideo)
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}

	var err error
	if c.Paths.StoryFile, err = expandPath(strings.TrimSpace(c.Paths.StoryFile)); err != nil {
		return fmt.Errorf("paths.story_file: %w", err)
	}
	if c.Paths.TranscriptFile, err = expandPath(strings.TrimSpace(c.Paths.TranscriptFile)); err != nil {
		return fmt.Errorf("paths.transcript_file: %w", err)
	}
	if c.Paths.BackgroundVideo, err = expandPath(strings.TrimSpace(c.Paths.BackgroundVideo)); err != nil {
		return fmt.Errorf("paths.background_video: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(strings.TrimSpace(c.Paths.OutputDir)); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	envFallback(&c.Paths.APIToken, "STORYREEL_API_TOKEN", "")
	return nil
}

// envFallback fills an empty field from the environment, then from def.
// Values set in the config file always win.
func envFallback(field *string, key, def string) {
	if strings.TrimSpace(*field) != "" {
		return
	}
	if value, ok := os.LookupEnv(key); ok && strings.TrimSpace(value) != "" {
		*field = strings.TrimSpace(value)
		return
	}
	*field = def
}

func (c *Config) normalizeRender() {
	c.Render.CaptionBoundary = strings.ToLower(strings.TrimSpace(c.Render.CaptionBoundary))
	if c.Render.CaptionBoundary == "" {
		c.Render.CaptionBoundary = defaultCaptionBoundary
	}
	if c.Render.FallbackTitleFrames < 0 {
		c.Render.FallbackTitleFrames = 0
	}
	if c.Render.TailPaddingFrames < 0 {
		c.Render.TailPaddingFrames = 0
	}
}

func (c *Config) normalizeWatch() {
	if c.Watch.PollIntervalMS <= 0 {
		c.Watch.PollIntervalMS = defaultPollIntervalMS
	}
	if c.Watch.DebounceMS < 0 {
		c.Watch.DebounceMS = 0
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
