package captions

import (
	"errors"
	"fmt"
)

var (
	// ErrAlignmentFailure marks a title that cannot be located in the transcript.
	ErrAlignmentFailure = errors.New("alignment failure")
	// ErrInsufficientFootage marks background footage shorter than the composition.
	ErrInsufficientFootage = errors.New("insufficient footage")
	// ErrTranscriptUnavailable marks a missing or empty transcript.
	ErrTranscriptUnavailable = errors.New("transcript unavailable")
	// ErrInvalidConfig marks render settings that cannot produce a schedule.
	ErrInvalidConfig = errors.New("invalid render config")
)

// AlignmentError describes why the spoken title could not be anchored.
type AlignmentError struct {
	Word   string
	Index  int
	Reason string
}

func (e *AlignmentError) Error() string {
	if e.Word == "" {
		return fmt.Sprintf("%s: %s", ErrAlignmentFailure, e.Reason)
	}
	if e.Index >= 0 {
		return fmt.Sprintf("%s: %s (word %q at token %d)", ErrAlignmentFailure, e.Reason, e.Word, e.Index)
	}
	return fmt.Sprintf("%s: %s (word %q)", ErrAlignmentFailure, e.Reason, e.Word)
}

func (e *AlignmentError) Unwrap() error { return ErrAlignmentFailure }

// FootageError reports how much footage was available against what the
// composition needs.
type FootageError struct {
	AvailableFrames float64
	RequiredFrames  int
}

func (e *FootageError) Error() string {
	return fmt.Sprintf("%s: background has %.1f frames, composition needs %d", ErrInsufficientFootage, e.AvailableFrames, e.RequiredFrames)
}

func (e *FootageError) Unwrap() error { return ErrInsufficientFootage }
