package recompute

import (
	"time"

	"storyreel/internal/captions"
)

// Snapshot is one finished computation as published to the timeline file,
// the history store and the HTTP API.
type Snapshot struct {
	Generation            uint64            `json:"generation"`
	RunID                 string            `json:"runId,omitempty"`
	Title                 string            `json:"title"`
	Status                captions.Status   `json:"status"`
	Error                 string            `json:"error,omitempty"`
	Warnings              []string          `json:"warnings,omitempty"`
	FPS                   int               `json:"fps"`
	DurationInFrames      int               `json:"durationInFrames"`
	Timeline              captions.Timeline `json:"timeline"`
	SkippedTokens         int               `json:"skippedTokens"`
	TranscriptFingerprint string            `json:"transcriptFingerprint,omitempty"`
	PublishText           string            `json:"publishText,omitempty"`
	ComputedAt            time.Time         `json:"computedAt"`

	Result captions.Result `json:"-"`
}

// Renderable reports whether the timeline may be handed to a renderer.
func (s Snapshot) Renderable() bool {
	return s.Status != captions.StatusFailed
}

func newSnapshot(gen uint64, in inputs, res captions.Result, now time.Time) Snapshot {
	snap := Snapshot{
		Generation:            gen,
		Title:                 in.story.Title,
		Status:                res.Status,
		FPS:                   in.render.FPS,
		DurationInFrames:      in.render.TargetDurationInFrames,
		Timeline:              res.Timeline,
		SkippedTokens:         in.skipped + res.Skipped,
		TranscriptFingerprint: in.fingerprint,
		PublishText:           in.story.PublishText(),
		ComputedAt:            now.UTC(),
		Result:                res,
	}
	if res.Err != nil {
		snap.Error = res.Err.Error()
	}
	for _, warning := range res.Warnings {
		snap.Warnings = append(snap.Warnings, warning.Error())
	}
	return snap
}
