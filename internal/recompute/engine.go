package recompute

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"storyreel/internal/captions"
	"storyreel/internal/config"
	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/media/ffprobe"
	"storyreel/internal/story"
	"storyreel/internal/transcript"
)

// ErrSuperseded is returned when a newer generation started before this one
// could publish.
var ErrSuperseded = errors.New("computation superseded by a newer generation")

// ErrInputsUnavailable wraps failures to read the story, transcript or
// background footage. Such a generation publishes a failed snapshot.
var ErrInputsUnavailable = errors.New("schedule inputs unavailable")

// ProbeFunc measures the background footage.
type ProbeFunc func(ctx context.Context, path string) (ffprobe.Footage, error)

// Observer is told about every phase entered by the newest generation.
type Observer func(generation uint64, phase captions.Phase)

// Engine runs schedule computations for one configuration.
type Engine struct {
	cfg          *config.Config
	logger       *slog.Logger
	tracker      *Tracker
	history      *history.Store
	timelinePath string
	probe        ProbeFunc
	observer     Observer
	now          func() time.Time

	publishMu sync.Mutex
	mu        sync.RWMutex
	latest    *Snapshot
	footage   footageCache
	wg        sync.WaitGroup
}

// Option configures optional Engine behavior.
type Option func(*Engine)

// WithHistory records every published snapshot in store.
func WithHistory(store *history.Store) Option {
	return func(e *Engine) { e.history = store }
}

// WithTimelineFile writes every published snapshot to path.
func WithTimelineFile(path string) Option {
	return func(e *Engine) { e.timelinePath = path }
}

// WithProbe replaces the ffprobe footage measurement.
func WithProbe(probe ProbeFunc) Option {
	return func(e *Engine) {
		if probe != nil {
			e.probe = probe
		}
	}
}

// WithObserver registers a phase observer.
func WithObserver(observer Observer) Option {
	return func(e *Engine) { e.observer = observer }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

// New constructs an Engine.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Engine {
	e := &Engine{
		cfg:     cfg,
		logger:  logging.NewComponentLogger(logger, "recompute"),
		tracker: &Tracker{},
		probe:   ffprobe.Probe,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Recompute runs a new generation to completion. A result overtaken by a
// newer generation is returned together with ErrSuperseded and is not
// published.
func (e *Engine) Recompute(ctx context.Context) (Snapshot, error) {
	return e.run(ctx, e.tracker.Begin())
}

// Trigger starts a new generation in the background and returns it.
func (e *Engine) Trigger(ctx context.Context) uint64 {
	gen := e.tracker.Begin()
	e.wg.Add(1)
	go func() {
		defer e.wg.Done()
		_, _ = e.run(ctx, gen)
	}()
	return gen
}

// Wait blocks until every triggered generation has finished.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Latest returns the last published snapshot.
func (e *Engine) Latest() (Snapshot, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.latest == nil {
		return Snapshot{}, false
	}
	return *e.latest, true
}

// Phase returns the phase of the newest generation.
func (e *Engine) Phase() captions.Phase {
	return e.tracker.Phase()
}

// Generation returns the newest generation started.
func (e *Engine) Generation() uint64 {
	return e.tracker.Latest()
}

func (e *Engine) run(ctx context.Context, gen uint64) (Snapshot, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = logging.WithGeneration(ctx, gen)
	logger := logging.WithContext(ctx, e.logger)
	e.observe(logger, gen, captions.PhaseLoading)

	in, err := e.load(ctx, logger)
	if ctxErr := ctx.Err(); ctxErr != nil {
		e.observe(logger, gen, captions.PhaseFailed)
		return Snapshot{Generation: gen, Status: captions.StatusFailed, Error: ctxErr.Error()}, ctxErr
	}
	if err != nil {
		e.observe(logger, gen, captions.PhaseFailed)
		loadErr := fmt.Errorf("%w: %w", ErrInputsUnavailable, err)
		res := captions.Result{
			Status:   captions.StatusFailed,
			Err:      loadErr,
			Anchor:   -1,
			Timeline: captions.Timeline{Entries: []captions.Entry{}},
		}
		snap, pubErr := e.publish(ctx, logger, newSnapshot(gen, in, res, e.now()))
		if pubErr != nil {
			return snap, pubErr
		}
		return snap, loadErr
	}

	if !e.tracker.Current(gen) {
		logger.Debug("skipping superseded generation before scheduling")
		return Snapshot{Generation: gen}, ErrSuperseded
	}

	input := in.assemblerInput(e.cfg)
	input.Observe = func(phase captions.Phase) { e.observe(logger, gen, phase) }
	res := captions.Assemble(input)

	return e.publish(ctx, logger, newSnapshot(gen, in, res, e.now()))
}

func (e *Engine) observe(logger *slog.Logger, gen uint64, phase captions.Phase) {
	if !e.tracker.Observe(gen, phase) {
		return
	}
	logger.Debug("phase changed", logging.String(logging.FieldPhase, string(phase)))
	if e.observer != nil {
		e.observer(gen, phase)
	}
}

func (e *Engine) publish(ctx context.Context, logger *slog.Logger, snap Snapshot) (Snapshot, error) {
	e.publishMu.Lock()
	defer e.publishMu.Unlock()

	if !e.tracker.Commit(snap.Generation) {
		logging.WarnWithContext(logger, "discarding superseded schedule", "stale_result",
			logging.Uint64("newest_generation", e.tracker.Latest()),
			logging.String(logging.FieldErrorHint, "none; the newer generation publishes instead"),
			logging.String(logging.FieldImpact, "result of an outdated transcript ignored"),
		)
		return snap, ErrSuperseded
	}

	if e.history != nil {
		run, err := history.NewRun(snap.Generation, snap.Title, snap.TranscriptFingerprint, snap.Result)
		if err == nil {
			run.SkippedTokens = snap.SkippedTokens
			snap.RunID = run.RunID
			logger = logger.With(logging.String(logging.FieldRunID, run.RunID))
			_, err = e.history.Record(ctx, run)
		}
		if err != nil {
			logging.WarnWithContext(logger, "history record failed", "history_write_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check state_dir permissions or run `storyreel history clear`"),
				logging.String(logging.FieldImpact, "run missing from history"),
			)
		}
	}

	if e.timelinePath != "" {
		if err := WriteTimelineFile(e.timelinePath, snap); err != nil {
			logging.ErrorWithContext(logger, "timeline write failed", "timeline_write_failed",
				logging.Error(err),
				logging.String("path", e.timelinePath),
				logging.String(logging.FieldErrorHint, "check output_dir permissions"),
			)
			return snap, fmt.Errorf("write timeline: %w", err)
		}
	}

	e.mu.Lock()
	stored := snap
	e.latest = &stored
	e.mu.Unlock()

	logResult(logger, snap)
	return snap, nil
}

func logResult(logger *slog.Logger, snap Snapshot) {
	res := snap.Result
	attrs := []logging.Attr{
		logging.String(logging.FieldPhase, string(captions.PhaseFor(res.Status))),
		logging.Int("title_frames", res.Timeline.TitleCard.DurationInFrames),
		logging.Int("window_start", res.Timeline.Window.StartFrame),
		logging.Int("window_end", res.Timeline.Window.EndFrame),
		logging.Int("entries", len(res.Timeline.Entries)),
	}
	switch res.Status {
	case captions.StatusReady:
		logger.Info("schedule ready", logging.Args(attrs...)...)
		if errors.Is(errors.Join(res.Warnings...), captions.ErrInsufficientFootage) {
			logging.WarnWithContext(logger, "background footage shorter than the composition", "insufficient_footage",
				logging.String(logging.FieldErrorHint, "use longer background footage"),
				logging.String(logging.FieldImpact, "background video loops during the render"),
			)
		}
	case captions.StatusFallback:
		logging.WarnWithContext(logger, "transcript unavailable; rendering without captions", "transcript_unavailable",
			append(attrs,
				logging.String(logging.FieldErrorHint, "run transcription to produce the transcript file"),
				logging.String(logging.FieldImpact, "video renders with a no-captions indicator"),
			)...,
		)
	default:
		hint := "check logs for details"
		eventType := "schedule_failed"
		switch {
		case errors.Is(res.Err, captions.ErrAlignmentFailure):
			hint = "check that the story title is spoken at the start of the narration"
			eventType = "alignment_failure"
		case errors.Is(res.Err, captions.ErrInsufficientFootage):
			hint = "use longer background footage or enable render.loop_short_footage"
			eventType = "insufficient_footage"
		case errors.Is(res.Err, ErrInputsUnavailable):
			hint = "check the story, transcript and background video paths"
			eventType = "load_failed"
		}
		logging.ErrorWithContext(logger, "schedule failed; rendering blocked", eventType,
			append(attrs, logging.Error(res.Err), logging.String(logging.FieldErrorHint, hint))...,
		)
	}
	if snap.SkippedTokens > 0 {
		logging.WarnWithContext(logger, "skipped malformed transcript tokens", "malformed_tokens",
			logging.Int("skipped", snap.SkippedTokens),
			logging.String(logging.FieldErrorHint, "inspect the transcript for missing or negative timestamps"),
			logging.String(logging.FieldImpact, "those words get no caption"),
		)
	}
}

type footageCache struct {
	mu      sync.Mutex
	path    string
	modTime time.Time
	size    int64
	seconds float64
}

func (c *footageCache) lookup(path string, info os.FileInfo) (float64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.path != path || !c.modTime.Equal(info.ModTime()) || c.size != info.Size() {
		return 0, false
	}
	return c.seconds, true
}

func (c *footageCache) store(path string, info os.FileInfo, seconds float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.path = path
	c.modTime = info.ModTime()
	c.size = info.Size()
	c.seconds = seconds
}

func (e *Engine) footageSeconds(ctx context.Context, logger *slog.Logger) (float64, error) {
	if seconds := e.cfg.Render.BackgroundVideoSeconds; seconds > 0 {
		return seconds, nil
	}
	path := e.cfg.Paths.BackgroundVideo
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("background video: %w", err)
	}
	if seconds, ok := e.footage.lookup(path, info); ok {
		return seconds, nil
	}
	footage, err := e.probe(ctx, path)
	if err != nil {
		return 0, fmt.Errorf("probe background video: %w", err)
	}
	e.footage.store(path, info, footage.DurationSeconds)
	logger.Info("background footage probed",
		logging.String("path", path),
		logging.Float64("duration_seconds", footage.DurationSeconds),
		logging.Int("width", footage.Width),
		logging.Int("height", footage.Height),
	)
	return footage.DurationSeconds, nil
}

func (e *Engine) load(ctx context.Context, logger *slog.Logger) (inputs, error) {
	var in inputs

	st, err := story.Load(e.cfg.Paths.StoryFile)
	if err != nil {
		return in, fmt.Errorf("load story: %w", err)
	}
	in.story = st

	tr, err := transcript.Load(e.cfg.Paths.TranscriptFile)
	switch {
	case errors.Is(err, transcript.ErrUnavailable):
		logger.Debug("transcript unavailable", logging.Error(err))
	case err != nil:
		return in, fmt.Errorf("load transcript: %w", err)
	default:
		in.tokens = tr.Tokens
		in.skipped = tr.Skipped
		in.fingerprint = tr.Fingerprint
	}

	fps := e.cfg.Render.FPS
	target := e.cfg.Render.TargetDurationFrames
	if target <= 0 {
		frames, ok := captions.CompositionFrames(in.tokens, fps, e.cfg.Render.TailPaddingFrames)
		result := "transcript"
		if !ok {
			frames = e.cfg.Render.FallbackTitleFrames + e.cfg.Render.TailPaddingFrames
			result = "fallback"
		}
		target = frames
		logger.Debug("composition length derived",
			logging.Args(append(logging.DecisionAttrs("composition_length", result, "target_duration_frames is 0"),
				logging.Int("frames", frames))...)...,
		)
	}

	seconds, err := e.footageSeconds(ctx, logger)
	if err != nil {
		return in, err
	}

	in.render = captions.RenderConfig{
		FPS:                            fps,
		TargetDurationInFrames:         target,
		BackgroundVideoLengthInSeconds: seconds,
	}
	return in, nil
}

type inputs struct {
	story       story.Story
	tokens      []captions.Token
	skipped     int
	fingerprint string
	render      captions.RenderConfig
}

func (in inputs) assemblerInput(cfg *config.Config) captions.Input {
	return captions.Input{
		Title:               in.story.Title,
		Transcript:          in.tokens,
		Config:              in.render,
		FallbackTitleFrames: cfg.Render.FallbackTitleFrames,
		AllowShortFootage:   cfg.Render.LoopShortFootage,
		Boundary:            cfg.Boundary(),
	}
}
