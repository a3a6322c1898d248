package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"storyreel/internal/captions"
	"storyreel/internal/recompute"
)

func TestWatchPublishesAndStopsOnCancel(t *testing.T) {
	env := setupCLITestEnv(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cmd := newRootCommand()
	var stdout bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stdout)
	cmd.SetArgs([]string{"--config", env.configPath, "watch"})

	done := make(chan error, 1)
	go func() { done <- cmd.ExecuteContext(ctx) }()

	deadline := time.Now().Add(5 * time.Second)
	for {
		snap, err := recompute.ReadTimelineFile(env.cfg.TimelinePath())
		if err == nil && snap.Status == captions.StatusReady {
			break
		}
		if time.Now().After(deadline) {
			cancel()
			t.Fatalf("timeline not published: %v", err)
		}
		time.Sleep(20 * time.Millisecond)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("watch returned %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
