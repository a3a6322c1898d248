// Package transcript loads the timestamped transcript produced by the
// transcription step.
//
// The resource is a JSON object with a "transcription" array of
// {startInSeconds, text} tokens; other top-level keys written by the
// transcriber are ignored. A missing file is reported as ErrUnavailable so
// callers can fall back to a caption-free render. Individual tokens with a
// missing or non-numeric timestamp, a negative timestamp, or non-string text
// are skipped and counted rather than failing the load.
package transcript
