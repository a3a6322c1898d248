package recompute

import (
	"sync"

	"storyreel/internal/captions"
)

// Tracker hands out generations and decides which completions may publish.
// The zero value is ready to use.
type Tracker struct {
	mu        sync.Mutex
	latest    uint64
	published uint64
	phase     captions.Phase
}

// Begin starts a new generation and returns it.
func (t *Tracker) Begin() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.latest++
	t.phase = captions.PhaseLoading
	return t.latest
}

// Current reports whether gen is the newest generation started.
func (t *Tracker) Current(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return gen == t.latest
}

// Latest returns the newest generation started, 0 before the first.
func (t *Tracker) Latest() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.latest
}

// Published returns the generation of the last committed result.
func (t *Tracker) Published() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.published
}

// Observe records phase for gen. Phases of older generations are ignored.
func (t *Tracker) Observe(gen uint64, phase captions.Phase) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.latest {
		return false
	}
	t.phase = phase
	return true
}

// Phase returns the phase of the newest generation.
func (t *Tracker) Phase() captions.Phase {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.latest == 0 {
		return captions.PhaseIdle
	}
	return t.phase
}

// Commit marks gen as published if it is still the newest generation.
func (t *Tracker) Commit(gen uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if gen != t.latest || gen <= t.published {
		return false
	}
	t.published = gen
	return true
}
