package captions

import (
	"errors"
	"fmt"
)

// Status is the outcome class of one schedule computation.
type Status int

const (
	StatusReady Status = iota
	StatusFallback
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusFallback:
		return "fallback"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// MarshalText encodes the status by name.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a status name written by MarshalText.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "ready":
		*s = StatusReady
	case "fallback":
		*s = StatusFallback
	case "failed":
		*s = StatusFailed
	default:
		return fmt.Errorf("unknown status %q", text)
	}
	return nil
}

// Phase names a step in a schedule computation.
type Phase string

const (
	PhaseIdle       Phase = "idle"
	PhaseLoading    Phase = "loading"
	PhaseAligning   Phase = "aligning"
	PhaseScheduling Phase = "scheduling"
	PhaseReady      Phase = "ready"
	PhaseFallback   Phase = "fallback"
	PhaseFailed     Phase = "failed"
)

// Terminal reports whether no further phase follows.
func (p Phase) Terminal() bool {
	return p == PhaseReady || p == PhaseFallback || p == PhaseFailed
}

// PhaseFor maps a final status to its terminal phase.
func PhaseFor(status Status) Phase {
	switch status {
	case StatusReady:
		return PhaseReady
	case StatusFallback:
		return PhaseFallback
	default:
		return PhaseFailed
	}
}

// Input carries everything one computation needs.
type Input struct {
	Title      string
	Transcript []Token
	Config     RenderConfig
	// FallbackTitleFrames sizes the title card when no transcript is available.
	FallbackTitleFrames int
	// AllowShortFootage turns insufficient footage into a warning; the caller
	// is expected to loop the background.
	AllowShortFootage bool
	Boundary          Boundary
	// Observe, when set, is told about each phase entered.
	Observe func(Phase)
}

// Result is the output of Assemble. Timeline is populated for every status
// except an invalid configuration; on StatusFailed it must not be rendered.
type Result struct {
	Status   Status
	Timeline Timeline
	Err      error
	Warnings []error
	// Anchor is the transcript index that ended the spoken title, -1 if none.
	Anchor int
	// Skipped counts tokens dropped for unusable timestamps.
	Skipped int
}

// Assemble computes a Timeline. A missing or empty transcript yields
// StatusFallback with no captions. A title that cannot be aligned, or
// footage that is too short without AllowShortFootage, yields StatusFailed.
func Assemble(in Input) Result {
	observe := in.Observe
	if observe == nil {
		observe = func(Phase) {}
	}
	res := Result{Anchor: -1, Timeline: Timeline{Entries: []Entry{}}}
	finish := func(status Status) Result {
		res.Status = status
		observe(PhaseFor(status))
		return res
	}

	if err := in.Config.Validate(); err != nil {
		res.Err = err
		return finish(StatusFailed)
	}

	window, windowErr := SelectWindow(in.Title, in.Config)
	res.Timeline.Window = window
	var footageErr error
	if windowErr != nil {
		if !errors.Is(windowErr, ErrInsufficientFootage) {
			res.Err = windowErr
			return finish(StatusFailed)
		}
		if in.AllowShortFootage {
			res.Warnings = append(res.Warnings, windowErr)
		} else {
			footageErr = windowErr
		}
	}

	tokens, skipped := Sanitize(in.Transcript)
	res.Skipped = skipped
	if len(tokens) == 0 {
		fallback := in.FallbackTitleFrames
		if fallback < 0 {
			fallback = 0
		}
		res.Timeline.TitleCard = TitleCard{DurationInFrames: fallback}
		res.Warnings = append(res.Warnings, ErrTranscriptUnavailable)
		if footageErr != nil {
			res.Err = footageErr
			return finish(StatusFailed)
		}
		return finish(StatusFallback)
	}

	observe(PhaseAligning)
	anchor, err := LocateAnchor(tokens, in.Title)
	if err != nil {
		res.Err = err
		return finish(StatusFailed)
	}
	res.Anchor = anchor
	card, err := TitleCardFor(tokens, anchor, in.Config.FPS)
	if err != nil {
		res.Err = err
		return finish(StatusFailed)
	}

	observe(PhaseScheduling)
	res.Timeline.TitleCard = card
	res.Timeline.Entries = ScheduleCaptions(CaptionSource(tokens, anchor, in.Boundary), in.Config.FPS)
	res.Timeline.CaptionsAvailable = true

	if footageErr != nil {
		res.Err = footageErr
		return finish(StatusFailed)
	}
	return finish(StatusReady)
}
