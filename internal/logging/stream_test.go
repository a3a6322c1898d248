package logging

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"
)

func TestStreamHandlerCarriesWithAttrs(t *testing.T) {
	hub := NewStreamHub(16)
	logger := slog.New(newStreamHandler(slog.NewTextHandler(io.Discard, nil), hub)).
		With(slog.String(FieldComponent, "watcher")).
		With(slog.Uint64(FieldGeneration, 4))

	logger.Info("transcript changed", slog.String(FieldPhase, "loading"), slog.String("path", "audio.json"))

	events, next := hub.Tail(10)
	if len(events) != 1 || next != 1 {
		t.Fatalf("expected 1 event at seq 1, got %d (next=%d)", len(events), next)
	}
	evt := events[0]
	if evt.Component != "watcher" || evt.Generation != 4 || evt.Phase != "loading" {
		t.Fatalf("unexpected event: %#v", evt)
	}
	if evt.Fields["path"] != "audio.json" {
		t.Fatalf("expected path field, got %#v", evt.Fields)
	}
}

func TestStreamHubEvictsOldest(t *testing.T) {
	hub := NewStreamHub(2)
	for i := 0; i < 3; i++ {
		hub.Publish(LogEvent{Message: "m"})
	}
	events, next := hub.Tail(0)
	if len(events) != 2 || events[0].Sequence != 2 || next != 3 {
		t.Fatalf("unexpected buffer: %#v next=%d", events, next)
	}
}

func TestStreamHubFetchSince(t *testing.T) {
	hub := NewStreamHub(8)
	hub.Publish(LogEvent{Message: "one"})
	hub.Publish(LogEvent{Message: "two"})

	events, next, err := hub.Fetch(context.Background(), 1, 0, false)
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if len(events) != 1 || events[0].Message != "two" || next != 2 {
		t.Fatalf("unexpected fetch: %#v next=%d", events, next)
	}

	events, _, err = hub.Fetch(context.Background(), 2, 0, false)
	if err != nil || len(events) != 0 {
		t.Fatalf("expected no events past the end, got %#v err=%v", events, err)
	}
}

func TestStreamHubFetchWaitWakesOnPublish(t *testing.T) {
	hub := NewStreamHub(8)
	done := make(chan []LogEvent, 1)
	go func() {
		events, _, _ := hub.Fetch(context.Background(), 0, 0, true)
		done <- events
	}()
	time.Sleep(20 * time.Millisecond)
	hub.Publish(LogEvent{Message: "late"})

	select {
	case events := <-done:
		if len(events) != 1 || events[0].Message != "late" {
			t.Fatalf("unexpected events: %#v", events)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Fetch did not wake on publish")
	}
}

func TestStreamHubFetchWaitHonoursCancel(t *testing.T) {
	hub := NewStreamHub(8)
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, _, err := hub.Fetch(ctx, 0, 0, true); err == nil {
		t.Fatal("expected context error")
	}
}
