package captions

import (
	"fmt"
	"math"
)

// Token is one timestamped unit of transcribed speech.
type Token struct {
	StartInSeconds float64 `json:"startInSeconds"`
	Text           string  `json:"text"`
}

const (
	// MaxTimestampSeconds bounds token timestamps and footage length so frame
	// indices stay well inside int range.
	MaxTimestampSeconds = 24 * 60 * 60
	// MaxFPS bounds the composition frame rate.
	MaxFPS = 1000
)

// ValidTimestamp reports whether seconds can be placed on a timeline.
func ValidTimestamp(seconds float64) bool {
	return !math.IsNaN(seconds) && seconds >= 0 && seconds <= MaxTimestampSeconds
}

// RenderConfig describes the composition being rendered.
type RenderConfig struct {
	FPS                            int     `json:"fps"`
	TargetDurationInFrames         int     `json:"targetDurationInFrames"`
	BackgroundVideoLengthInSeconds float64 `json:"backgroundVideoLengthInSeconds"`
}

// Validate reports whether the configuration can drive a schedule.
func (c RenderConfig) Validate() error {
	if c.FPS <= 0 || c.FPS > MaxFPS {
		return fmt.Errorf("%w: fps must be in 1..%d, got %d", ErrInvalidConfig, MaxFPS, c.FPS)
	}
	if c.TargetDurationInFrames <= 0 {
		return fmt.Errorf("%w: target duration must be positive, got %d frames", ErrInvalidConfig, c.TargetDurationInFrames)
	}
	if c.TargetDurationInFrames > MaxTimestampSeconds*c.FPS {
		return fmt.Errorf("%w: target duration exceeds %d seconds, got %d frames", ErrInvalidConfig, MaxTimestampSeconds, c.TargetDurationInFrames)
	}
	if !ValidTimestamp(c.BackgroundVideoLengthInSeconds) || c.BackgroundVideoLengthInSeconds == 0 {
		return fmt.Errorf("%w: background video length must be in (0, %d] seconds, got %v", ErrInvalidConfig, MaxTimestampSeconds, c.BackgroundVideoLengthInSeconds)
	}
	return nil
}

// TitleCard is the intro overlay shown before captions begin.
type TitleCard struct {
	DurationInFrames int `json:"durationInFrames"`
}

// VideoWindow is the crop region selected from the background footage.
type VideoWindow struct {
	StartFrame int `json:"startFrame"`
	EndFrame   int `json:"endFrame"`
}

// Frames returns the window length.
func (w VideoWindow) Frames() int {
	return w.EndFrame - w.StartFrame
}

// Entry is a single caption's on-screen interval.
type Entry struct {
	FromFrame        int    `json:"fromFrame"`
	DurationInFrames int    `json:"durationInFrames"`
	Text             string `json:"text"`
}

// EndFrame returns the first frame after the caption disappears.
func (e Entry) EndFrame() int {
	return e.FromFrame + e.DurationInFrames
}

// Timeline is the complete schedule consumed by the renderer.
type Timeline struct {
	TitleCard         TitleCard   `json:"titleCard"`
	Window            VideoWindow `json:"window"`
	Entries           []Entry     `json:"entries"`
	CaptionsAvailable bool        `json:"captionsAvailable"`
}

// Boundary selects which token opens the caption sequence.
type Boundary int

const (
	// BoundaryAfterAnchor starts captions at the token following the anchor,
	// the same token whose start ends the title card.
	BoundaryAfterAnchor Boundary = iota
	// BoundaryAtAnchor also captions the anchor token itself, so the tail of
	// the spoken title shows under the title card.
	BoundaryAtAnchor
)

func (b Boundary) String() string {
	switch b {
	case BoundaryAtAnchor:
		return "at_anchor"
	default:
		return "after_anchor"
	}
}

// ParseBoundary maps a configuration value to a Boundary.
func ParseBoundary(value string) (Boundary, error) {
	switch value {
	case "", "after_anchor":
		return BoundaryAfterAnchor, nil
	case "at_anchor":
		return BoundaryAtAnchor, nil
	default:
		return BoundaryAfterAnchor, fmt.Errorf("unknown caption boundary %q", value)
	}
}

// frameAt converts a timestamp to the nearest frame index.
func frameAt(seconds float64, fps int) int {
	return int(math.Round(seconds * float64(fps)))
}

func usable(tok Token) bool {
	return ValidTimestamp(tok.StartInSeconds)
}

// Sanitize drops tokens whose timestamps cannot be scheduled and returns the
// kept tokens together with the number dropped. The input is not modified.
func Sanitize(tokens []Token) ([]Token, int) {
	kept := make([]Token, 0, len(tokens))
	for _, tok := range tokens {
		if usable(tok) {
			kept = append(kept, tok)
		}
	}
	return kept, len(tokens) - len(kept)
}

// CompositionFrames returns the composition length needed to play every
// token: the last token's start rounded up to a frame plus padding. The
// boolean is false when there is no usable token.
func CompositionFrames(tokens []Token, fps, paddingFrames int) (int, bool) {
	if fps <= 0 {
		return 0, false
	}
	last := -1.0
	for _, tok := range tokens {
		if usable(tok) && tok.StartInSeconds > last {
			last = tok.StartInSeconds
		}
	}
	if last < 0 {
		return 0, false
	}
	return int(math.Ceil(last*float64(fps))) + paddingFrames, true
}
