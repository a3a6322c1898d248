package main

import (
	"encoding/json"
	"strings"
	"testing"

	"storyreel/internal/api"
	"storyreel/internal/captions"
	"storyreel/internal/recompute"
	"storyreel/internal/testsupport"
)

func TestScheduleWritesTimelineAndHistory(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"schedule"}, env.configPath)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	requireContains(t, out, "[ready] "+scenarioTitle)
	requireContains(t, out, "78284-80184")
	requireContains(t, out, "Last week she")
	requireContains(t, out, env.cfg.TimelinePath())

	written, err := recompute.ReadTimelineFile(env.cfg.TimelinePath())
	if err != nil {
		t.Fatalf("read timeline: %v", err)
	}
	if written.Status != captions.StatusReady || written.Timeline.TitleCard.DurationInFrames != 90 {
		t.Fatalf("unexpected timeline: %+v", written)
	}

	out, _, err = runCLI(t, []string{"history", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	var runs []api.HistoryRun
	if err := json.Unmarshal([]byte(out), &runs); err != nil {
		t.Fatalf("decode history: %v\n%s", err, out)
	}
	if len(runs) != 1 || runs[0].RunID != written.RunID || runs[0].EntryCount != 2 {
		t.Fatalf("unexpected history: %+v", runs)
	}

	out, _, err = runCLI(t, []string{"history", "show", written.RunID}, env.configPath)
	if err != nil {
		t.Fatalf("history show: %v", err)
	}
	requireContains(t, out, written.RunID)
	requireContains(t, out, "did something crazy")

	out, _, err = runCLI(t, []string{"history", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("history clear: %v", err)
	}
	requireContains(t, out, "Removed 1 runs")

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history after clear: %v", err)
	}
	requireContains(t, out, "No runs recorded")
}

func TestScheduleJSONDryRun(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"schedule", "--json", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	var snap recompute.Snapshot
	if err := json.Unmarshal([]byte(out), &snap); err != nil {
		t.Fatalf("decode snapshot: %v\n%s", err, out)
	}
	if snap.Status != captions.StatusReady || snap.RunID != "" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if len(snap.Timeline.Entries) != 2 {
		t.Fatalf("entries = %+v", snap.Timeline.Entries)
	}
	if _, err := recompute.ReadTimelineFile(env.cfg.TimelinePath()); err == nil {
		t.Fatal("dry run should not write timeline.json")
	}
}

func TestScheduleFailsOnMisalignedTitle(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteTranscript(t, env.cfg, testsupport.Words(0, 1, "completely", "different", "words"))

	out, _, err := runCLI(t, []string{"schedule"}, env.configPath)
	if err == nil {
		t.Fatal("expected schedule to fail")
	}
	if !strings.Contains(err.Error(), "schedule failed") {
		t.Fatalf("unexpected error: %v", err)
	}
	requireContains(t, out, "[failed]")
}

func TestScheduleFallbackWithoutTranscript(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.WriteTranscript(t, env.cfg, nil)

	out, _, err := runCLI(t, []string{"schedule"}, env.configPath)
	if err != nil {
		t.Fatalf("schedule: %v", err)
	}
	requireContains(t, out, "[fallback]")
	requireContains(t, out, renderField("Captions", "no"))
}
