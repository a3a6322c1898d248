package api

import (
	"storyreel/internal/captions"
	"storyreel/internal/history"
	"storyreel/internal/logging"
)

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// HealthResponse reports engine progress.
type HealthResponse struct {
	Status     string `json:"status"`
	Generation uint64 `json:"generation"`
	Phase      string `json:"phase"`
	Published  uint64 `json:"published"`
}

// RecomputeResponse is returned when a new generation starts.
type RecomputeResponse struct {
	Generation uint64 `json:"generation"`
}

// HistoryRun describes a recorded run in a transport-friendly format.
type HistoryRun struct {
	RunID                 string               `json:"runId"`
	Generation            uint64               `json:"generation"`
	Title                 string               `json:"title"`
	Status                string               `json:"status"`
	Error                 string               `json:"error,omitempty"`
	TranscriptFingerprint string               `json:"transcriptFingerprint,omitempty"`
	TitleFrames           int                  `json:"titleFrames"`
	Window                captions.VideoWindow `json:"window"`
	EntryCount            int                  `json:"entryCount"`
	SkippedTokens         int                  `json:"skippedTokens"`
	CreatedAt             string               `json:"createdAt,omitempty"`
	Timeline              *captions.Timeline   `json:"timeline,omitempty"`
}

// HistoryListResponse wraps recorded runs.
type HistoryListResponse struct {
	Runs []HistoryRun `json:"runs"`
}

// LogsResponse wraps buffered log events and the cursor for the next poll.
type LogsResponse struct {
	Events []logging.LogEvent `json:"events"`
	Next   uint64             `json:"next"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error string `json:"error"`
}

// FromHistoryRun converts a stored run to its API representation.
func FromHistoryRun(run history.Run) HistoryRun {
	dto := HistoryRun{
		RunID:                 run.RunID,
		Generation:            run.Generation,
		Title:                 run.Title,
		Status:                run.Status,
		Error:                 run.ErrorMessage,
		TranscriptFingerprint: run.TranscriptFingerprint,
		TitleFrames:           run.TitleFrames,
		Window:                captions.VideoWindow{StartFrame: run.WindowStart, EndFrame: run.WindowEnd},
		EntryCount:            run.EntryCount,
		SkippedTokens:         run.SkippedTokens,
	}
	if !run.CreatedAt.IsZero() {
		dto.CreatedAt = run.CreatedAt.UTC().Format(dateTimeFormat)
	}
	return dto
}

// FromHistoryRuns converts a slice of runs, never returning nil.
func FromHistoryRuns(runs []history.Run) []HistoryRun {
	out := make([]HistoryRun, 0, len(runs))
	for _, run := range runs {
		out = append(out, FromHistoryRun(run))
	}
	return out
}
