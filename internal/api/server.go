package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"storyreel/internal/captions"
	"storyreel/internal/history"
	"storyreel/internal/logging"
	"storyreel/internal/recompute"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 500
)

// Engine is the slice of recompute.Engine the API needs.
type Engine interface {
	Latest() (recompute.Snapshot, bool)
	Phase() captions.Phase
	Generation() uint64
	Trigger(ctx context.Context) uint64
}

// HistoryReader is the slice of history.Store the API needs.
type HistoryReader interface {
	List(ctx context.Context, limit int) ([]history.Run, error)
	Get(ctx context.Context, runID string) (history.Run, error)
}

// Options wires the router to its collaborators. History and Logs are optional.
type Options struct {
	Engine  Engine
	History HistoryReader
	Logs    *logging.StreamHub
	Token   string
	Logger  *slog.Logger
	// BaseContext outlives requests; generations started over HTTP run under it.
	BaseContext context.Context
}

type handlers struct {
	opts   Options
	logger *slog.Logger
}

// NewRouter constructs a gin engine with the storyreel routes registered.
func NewRouter(opts Options) *gin.Engine {
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	h := &handlers{opts: opts, logger: logging.NewComponentLogger(opts.Logger, "api")}

	r := gin.New()
	r.Use(gin.Recovery(), requestID(), bearerAuth(opts.Token))

	r.GET("/api/health", h.health)
	r.GET("/api/timeline", h.timeline)
	r.POST("/api/recompute", h.recompute)
	r.GET("/api/history", h.historyList)
	r.GET("/api/history/:runId", h.historyRun)
	r.GET("/api/logs", h.logs)
	return r
}

func (h *handlers) health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Phase: string(captions.PhaseIdle)}
	if h.opts.Engine != nil {
		resp.Generation = h.opts.Engine.Generation()
		resp.Phase = string(h.opts.Engine.Phase())
		if snap, ok := h.opts.Engine.Latest(); ok {
			resp.Published = snap.Generation
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (h *handlers) timeline(c *gin.Context) {
	if h.opts.Engine == nil {
		writeError(c, http.StatusServiceUnavailable, "engine unavailable")
		return
	}
	snap, ok := h.opts.Engine.Latest()
	if !ok {
		writeError(c, http.StatusNotFound, "no timeline computed yet")
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (h *handlers) recompute(c *gin.Context) {
	if h.opts.Engine == nil {
		writeError(c, http.StatusServiceUnavailable, "engine unavailable")
		return
	}
	gen := h.opts.Engine.Trigger(h.opts.BaseContext)
	logging.WithContext(c.Request.Context(), h.logger).Info("recompute requested",
		logging.Uint64(logging.FieldGeneration, gen),
	)
	c.JSON(http.StatusAccepted, RecomputeResponse{Generation: gen})
}

func (h *handlers) historyList(c *gin.Context) {
	if h.opts.History == nil {
		c.JSON(http.StatusOK, HistoryListResponse{Runs: []HistoryRun{}})
		return
	}
	limit, err := queryInt(c, "limit", defaultHistoryLimit)
	if err != nil || limit <= 0 {
		writeError(c, http.StatusBadRequest, "limit must be a positive integer")
		return
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	runs, err := h.opts.History.List(c.Request.Context(), limit)
	if err != nil {
		h.internalError(c, "history list failed", err)
		return
	}
	c.JSON(http.StatusOK, HistoryListResponse{Runs: FromHistoryRuns(runs)})
}

func (h *handlers) historyRun(c *gin.Context) {
	if h.opts.History == nil {
		writeError(c, http.StatusNotFound, "history unavailable")
		return
	}
	run, err := h.opts.History.Get(c.Request.Context(), c.Param("runId"))
	if errors.Is(err, history.ErrNotFound) {
		writeError(c, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		h.internalError(c, "history lookup failed", err)
		return
	}
	dto := FromHistoryRun(run)
	if tl, err := run.Timeline(); err == nil {
		dto.Timeline = &tl
	}
	c.JSON(http.StatusOK, dto)
}

func (h *handlers) logs(c *gin.Context) {
	since, err := queryInt(c, "since", 0)
	if err != nil || since < 0 {
		writeError(c, http.StatusBadRequest, "since must be a non-negative integer")
		return
	}
	limit, err := queryInt(c, "limit", 0)
	if err != nil || limit < 0 {
		writeError(c, http.StatusBadRequest, "limit must be a non-negative integer")
		return
	}
	events, next, err := h.opts.Logs.Fetch(c.Request.Context(), uint64(since), limit, false)
	if err != nil {
		h.internalError(c, "log fetch failed", err)
		return
	}
	if events == nil {
		events = []logging.LogEvent{}
	}
	c.JSON(http.StatusOK, LogsResponse{Events: events, Next: next})
}

func (h *handlers) internalError(c *gin.Context, msg string, err error) {
	logging.ErrorWithContext(logging.WithContext(c.Request.Context(), h.logger), msg, "api_error",
		logging.Error(err),
		logging.String("path", c.FullPath()),
	)
	writeError(c, http.StatusInternalServerError, msg)
}

func queryInt(c *gin.Context, key string, def int) (int, error) {
	raw, ok := c.GetQuery(key)
	if !ok || raw == "" {
		return def, nil
	}
	return strconv.Atoi(raw)
}

func writeError(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: msg})
}
