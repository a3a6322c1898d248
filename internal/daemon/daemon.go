package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"github.com/gofrs/flock"

	"storyreel/internal/config"
	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/preflight"
	"storyreel/internal/recompute"
)

// ErrAlreadyRunning is returned when another watcher holds the state lock.
var ErrAlreadyRunning = errors.New("another storyreel watcher is already running")

// Daemon owns the watch loop, the state lock and the optional API server.
type Daemon struct {
	cfg     *config.Config
	logger  *slog.Logger
	engine  *recompute.Engine
	history *history.Store
	logs    *logging.StreamHub

	lockPath string
	lock     *flock.Flock
	api      atomic.Pointer[apiServer]

	running atomic.Bool
}

// Option configures optional Daemon behavior.
type Option func(*Daemon)

// WithHistory exposes the history store over the API.
func WithHistory(store *history.Store) Option {
	return func(d *Daemon) { d.history = store }
}

// WithLogStream exposes buffered log events over the API.
func WithLogStream(hub *logging.StreamHub) Option {
	return func(d *Daemon) { d.logs = hub }
}

// New constructs a daemon around an engine.
func New(cfg *config.Config, engine *recompute.Engine, logger *slog.Logger, opts ...Option) (*Daemon, error) {
	if cfg == nil || engine == nil {
		return nil, errors.New("daemon requires config and recompute engine")
	}
	lockPath := cfg.LockPath()
	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		engine:   engine,
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// LockPath returns the flock file guarding the state directory.
func (d *Daemon) LockPath() string {
	return d.lockPath
}

// Running reports whether Run is active.
func (d *Daemon) Running() bool {
	return d.running.Load()
}

// APIAddress returns the bound API address, or "" when the API is disabled
// or not yet listening.
func (d *Daemon) APIAddress() string {
	return d.api.Load().address()
}

// Run watches until ctx is cancelled. The initial generation is triggered
// immediately so the timeline reflects the files present at startup.
func (d *Daemon) Run(ctx context.Context) error {
	if !d.running.CompareAndSwap(false, true) {
		return errors.New("daemon already running")
	}
	defer d.running.Store(false)

	if err := os.MkdirAll(filepath.Dir(d.lockPath), 0o755); err != nil {
		return fmt.Errorf("ensure lock directory: %w", err)
	}
	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return fmt.Errorf("%w (lock %s)", ErrAlreadyRunning, d.lockPath)
	}
	defer func() {
		if err := d.lock.Unlock(); err != nil {
			d.logger.Warn("failed to release watcher lock", logging.Error(err))
		}
	}()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	srv, err := newAPIServer(ctx, d.cfg, d.engine, d.history, d.logs, d.logger)
	if err != nil {
		return err
	}
	if err := srv.start(ctx); err != nil {
		return err
	}
	d.api.Store(srv)
	defer func() {
		srv.stop()
		d.api.Store(nil)
	}()

	d.logger.Info("storyreel watcher started",
		logging.String("lock", d.lockPath),
		logging.String("story", d.cfg.Paths.StoryFile),
		logging.String("transcript", d.cfg.Paths.TranscriptFile),
		logging.Duration("poll_interval", d.cfg.PollInterval()),
		logging.Duration("debounce", d.cfg.Debounce()),
	)

	d.logPreflight()

	w := newWatcher([]string{d.cfg.Paths.StoryFile, d.cfg.Paths.TranscriptFile}, d.cfg.PollInterval(), d.cfg.Debounce())
	w.prime()
	d.trigger(ctx, "startup")
	w.run(ctx, func(changed []string) {
		d.trigger(ctx, "file change", logging.Any("changed", changed))
	})

	d.engine.Wait()
	d.logger.Info("storyreel watcher stopped")
	return nil
}

func (d *Daemon) trigger(ctx context.Context, reason string, attrs ...logging.Attr) {
	gen := d.engine.Trigger(ctx)
	attrs = append(attrs,
		logging.Uint64(logging.FieldGeneration, gen),
		logging.String("reason", reason),
	)
	d.logger.Info("recompute triggered", logging.Args(attrs...)...)
}

// logPreflight reports missing inputs once at startup. Failures are logged,
// not returned.
func (d *Daemon) logPreflight() {
	for _, res := range preflight.RunAll(d.cfg) {
		switch {
		case res.Passed:
			d.logger.Debug("preflight passed", logging.String("check", res.Name), logging.String("detail", res.Detail))
		case res.Optional:
			d.logger.Info("preflight degraded", logging.String("check", res.Name), logging.String("detail", res.Detail))
		default:
			logging.WarnWithContext(d.logger, "preflight failed", "preflight_failed",
				logging.String("check", res.Name),
				logging.String("detail", res.Detail),
				logging.String(logging.FieldErrorHint, "fix the path in the config; the watcher retries on the next change"),
				logging.String(logging.FieldImpact, "schedules fail until resolved"),
			)
		}
	}
}
