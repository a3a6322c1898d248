package config

import (
	"errors"
	"fmt"
	"strings"

	"storyreel/internal/captions"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateRender(); err != nil {
		return err
	}
	if err := c.validateWatch(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StoryFile) == "" {
		return errors.New("paths.story_file must be set (or export STORYREEL_STORY)")
	}
	if strings.TrimSpace(c.Paths.TranscriptFile) == "" {
		return errors.New("paths.transcript_file must be set (or export STORYREEL_TRANSCRIPT)")
	}
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		return errors.New("paths.output_dir must be set")
	}
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if c.Render.BackgroundVideoSeconds == 0 && strings.TrimSpace(c.Paths.BackgroundVideo) == "" {
		return errors.New("paths.background_video must be set when render.background_video_seconds is 0")
	}
	return nil
}

func (c *Config) validateRender() error {
	if c.Render.FPS <= 0 || c.Render.FPS > captions.MaxFPS {
		return fmt.Errorf("render.fps must be in 1..%d", captions.MaxFPS)
	}
	if c.Render.TargetDurationFrames < 0 {
		return errors.New("render.target_duration_frames must be >= 0 (0 derives it from the transcript)")
	}
	seconds := c.Render.BackgroundVideoSeconds
	if seconds != 0 && !captions.ValidTimestamp(seconds) {
		return fmt.Errorf("render.background_video_seconds must be in 0..%d (0 probes the background video)", captions.MaxTimestampSeconds)
	}
	if _, err := captions.ParseBoundary(c.Render.CaptionBoundary); err != nil {
		return fmt.Errorf("render.caption_boundary: %w", err)
	}
	return nil
}

func (c *Config) validateWatch() error {
	if c.Watch.PollIntervalMS <= 0 {
		return errors.New("watch.poll_interval_ms must be positive")
	}
	if c.Watch.DebounceMS < 0 {
		return errors.New("watch.debounce_ms must be >= 0")
	}
	return nil
}

// Boundary returns the parsed caption boundary.
func (c *Config) Boundary() captions.Boundary {
	b, _ := captions.ParseBoundary(c.Render.CaptionBoundary)
	return b
}
