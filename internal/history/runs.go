package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"storyreel/internal/captions"
)

// ErrNotFound is returned when a lookup matches no recorded run.
var ErrNotFound = errors.New("history run not found")

// Run is one recorded schedule computation.
type Run struct {
	ID                    int64     `json:"id"`
	RunID                 string    `json:"runId"`
	Generation            uint64    `json:"generation"`
	Title                 string    `json:"title"`
	Status                string    `json:"status"`
	ErrorMessage          string    `json:"error,omitempty"`
	TranscriptFingerprint string    `json:"transcriptFingerprint,omitempty"`
	TitleFrames           int       `json:"titleFrames"`
	WindowStart           int       `json:"windowStart"`
	WindowEnd             int       `json:"windowEnd"`
	EntryCount            int       `json:"entryCount"`
	SkippedTokens         int       `json:"skippedTokens"`
	TimelineJSON          string    `json:"-"`
	CreatedAt             time.Time `json:"createdAt"`
}

// Timeline decodes the stored timeline snapshot.
func (r Run) Timeline() (captions.Timeline, error) {
	var tl captions.Timeline
	if strings.TrimSpace(r.TimelineJSON) == "" {
		return tl, fmt.Errorf("run %s has no timeline snapshot", r.RunID)
	}
	if err := json.Unmarshal([]byte(r.TimelineJSON), &tl); err != nil {
		return tl, fmt.Errorf("decode timeline for run %s: %w", r.RunID, err)
	}
	return tl, nil
}

// NewRun captures a computation result. The run ID is freshly generated.
func NewRun(generation uint64, title, fingerprint string, res captions.Result) (Run, error) {
	payload, err := json.Marshal(res.Timeline)
	if err != nil {
		return Run{}, fmt.Errorf("encode timeline: %w", err)
	}
	run := Run{
		RunID:                 uuid.NewString(),
		Generation:            generation,
		Title:                 title,
		Status:                res.Status.String(),
		TranscriptFingerprint: fingerprint,
		TitleFrames:           res.Timeline.TitleCard.DurationInFrames,
		WindowStart:           res.Timeline.Window.StartFrame,
		WindowEnd:             res.Timeline.Window.EndFrame,
		EntryCount:            len(res.Timeline.Entries),
		SkippedTokens:         res.Skipped,
		TimelineJSON:          string(payload),
	}
	if res.Err != nil {
		run.ErrorMessage = res.Err.Error()
	}
	return run, nil
}

// Record inserts a run and returns it with its database ID and timestamp set.
func (s *Store) Record(ctx context.Context, run Run) (Run, error) {
	if strings.TrimSpace(run.RunID) == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	res, err := s.exec(ctx, `INSERT INTO runs (
            run_id, generation, title, status, error_message, transcript_fingerprint,
            title_frames, window_start, window_end, entry_count, skipped_tokens, timeline_json, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.RunID,
		int64(run.Generation),
		run.Title,
		run.Status,
		nullableString(run.ErrorMessage),
		nullableString(run.TranscriptFingerprint),
		run.TitleFrames,
		run.WindowStart,
		run.WindowEnd,
		run.EntryCount,
		run.SkippedTokens,
		nullableString(run.TimelineJSON),
		run.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Run{}, fmt.Errorf("insert run: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return Run{}, fmt.Errorf("read run id: %w", err)
	}
	run.ID = id
	return run, nil
}

const selectColumns = `id, run_id, generation, title, status, error_message, transcript_fingerprint,
    title_frames, window_start, window_end, entry_count, skipped_tokens, timeline_json, created_at`

// List returns the most recent runs, newest first. A limit <= 0 returns all.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	query := "SELECT " + selectColumns + " FROM runs ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := withBusyRetry(ctx, func(ctx context.Context) (*sql.Rows, error) {
		return s.db.QueryContext(ctx, query, args...)
	})
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Latest returns the newest run recorded for title.
func (s *Store) Latest(ctx context.Context, title string) (Run, error) {
	return s.queryOne(ctx, "WHERE title = ? ORDER BY id DESC LIMIT 1", title)
}

// Get returns the run with the given run ID.
func (s *Store) Get(ctx context.Context, runID string) (Run, error) {
	return s.queryOne(ctx, "WHERE run_id = ?", runID)
}

func (s *Store) queryOne(ctx context.Context, clause string, args ...any) (Run, error) {
	run, err := withBusyRetry(ctx, func(ctx context.Context) (Run, error) {
		return scanRun(s.db.QueryRowContext(ctx, "SELECT "+selectColumns+" FROM runs "+clause, args...))
	})
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, ErrNotFound
	}
	return run, err
}

// Clear deletes every recorded run and reports how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	res, err := s.exec(ctx, "DELETE FROM runs")
	if err != nil {
		return 0, fmt.Errorf("clear runs: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count cleared runs: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var (
		run         Run
		generation  int64
		errMsg      sql.NullString
		fingerprint sql.NullString
		timeline    sql.NullString
		createdAt   string
	)
	if err := sc.Scan(
		&run.ID,
		&run.RunID,
		&generation,
		&run.Title,
		&run.Status,
		&errMsg,
		&fingerprint,
		&run.TitleFrames,
		&run.WindowStart,
		&run.WindowEnd,
		&run.EntryCount,
		&run.SkippedTokens,
		&timeline,
		&createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	run.Generation = uint64(generation)
	run.ErrorMessage = errMsg.String
	run.TranscriptFingerprint = fingerprint.String
	run.TimelineJSON = timeline.String
	if ts, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
		run.CreatedAt = ts
	}
	return run, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
