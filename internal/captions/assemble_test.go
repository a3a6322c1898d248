package captions

import (
	"errors"
	"math"
	"reflect"
	"testing"
)

func TestAssembleRoommateScenario(t *testing.T) {
	var phases []Phase
	res := Assemble(Input{
		Title:               roommateTitle,
		Transcript:          roommateTranscript(),
		Config:              roommateConfig(),
		FallbackTitleFrames: 120,
		Observe:             func(p Phase) { phases = append(phases, p) },
	})
	if res.Status != StatusReady {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if res.Anchor != 1 {
		t.Fatalf("anchor = %d, want 1", res.Anchor)
	}
	if res.Timeline.TitleCard.DurationInFrames != 90 {
		t.Fatalf("title card = %d, want 90", res.Timeline.TitleCard.DurationInFrames)
	}
	if !res.Timeline.CaptionsAvailable {
		t.Fatal("expected captions available")
	}
	want := []Entry{
		{FromFrame: 90, DurationInFrames: 30, Text: "Last week she"},
		{FromFrame: 135, DurationInFrames: 30, Text: "did something crazy"},
	}
	if !reflect.DeepEqual(res.Timeline.Entries, want) {
		t.Fatalf("entries = %+v, want %+v", res.Timeline.Entries, want)
	}
	wantPhases := []Phase{PhaseAligning, PhaseScheduling, PhaseReady}
	if !reflect.DeepEqual(phases, wantPhases) {
		t.Fatalf("phases = %v, want %v", phases, wantPhases)
	}
}

func TestAssembleAtAnchorBoundary(t *testing.T) {
	res := Assemble(Input{
		Title:      roommateTitle,
		Transcript: roommateTranscript(),
		Config:     roommateConfig(),
		Boundary:   BoundaryAtAnchor,
	})
	if res.Status != StatusReady {
		t.Fatalf("status = %v, err = %v", res.Status, res.Err)
	}
	if res.Timeline.TitleCard.DurationInFrames != 90 {
		t.Fatalf("title card = %d, want 90", res.Timeline.TitleCard.DurationInFrames)
	}
	first := res.Timeline.Entries[0]
	want := Entry{FromFrame: 36, DurationInFrames: 30, Text: "about my roommate situation"}
	if first != want {
		t.Fatalf("first entry = %+v, want %+v", first, want)
	}
}

func TestAssembleFallback(t *testing.T) {
	for name, transcript := range map[string][]Token{
		"absent":        nil,
		"empty":         {},
		"all malformed": {{StartInSeconds: math.NaN(), Text: "x"}, {StartInSeconds: -2, Text: "y"}},
	} {
		t.Run(name, func(t *testing.T) {
			var phases []Phase
			res := Assemble(Input{
				Title:               roommateTitle,
				Transcript:          transcript,
				Config:              roommateConfig(),
				FallbackTitleFrames: 120,
				Observe:             func(p Phase) { phases = append(phases, p) },
			})
			if res.Status != StatusFallback {
				t.Fatalf("status = %v, want fallback (err %v)", res.Status, res.Err)
			}
			if res.Err != nil {
				t.Fatalf("fallback must not carry an error, got %v", res.Err)
			}
			if len(res.Timeline.Entries) != 0 || res.Timeline.Entries == nil {
				t.Fatalf("expected empty non-nil entries, got %#v", res.Timeline.Entries)
			}
			if res.Timeline.CaptionsAvailable {
				t.Fatal("captions must be unavailable")
			}
			if res.Timeline.TitleCard.DurationInFrames != 120 {
				t.Fatalf("title card = %d, want fallback 120", res.Timeline.TitleCard.DurationInFrames)
			}
			if res.Timeline.Window.Frames() < roommateConfig().TargetDurationInFrames {
				t.Fatalf("fallback still needs a window, got %+v", res.Timeline.Window)
			}
			if len(res.Warnings) != 1 || !errors.Is(res.Warnings[0], ErrTranscriptUnavailable) {
				t.Fatalf("warnings = %v", res.Warnings)
			}
			if !reflect.DeepEqual(phases, []Phase{PhaseFallback}) {
				t.Fatalf("phases = %v", phases)
			}
		})
	}
}

func TestAssembleAlignmentFailures(t *testing.T) {
	tests := []struct {
		name   string
		title  string
		tokens []Token
	}{
		{"no matching token", "My landlord", roommateTranscript()},
		{"anchor is last token", "did something crazy", roommateTranscript()},
		{"single token", roommateTitle, []Token{{StartInSeconds: 0, Text: "my roommate"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Assemble(Input{Title: tt.title, Transcript: tt.tokens, Config: roommateConfig()})
			if res.Status != StatusFailed {
				t.Fatalf("status = %v, want failed", res.Status)
			}
			if !errors.Is(res.Err, ErrAlignmentFailure) {
				t.Fatalf("err = %v, want alignment failure", res.Err)
			}
			if len(res.Timeline.Entries) != 0 {
				t.Fatalf("failed alignment must not schedule captions: %+v", res.Timeline.Entries)
			}
		})
	}
}

func TestAssembleInsufficientFootage(t *testing.T) {
	cfg := RenderConfig{FPS: 30, TargetDurationInFrames: 1800, BackgroundVideoLengthInSeconds: 20}

	res := Assemble(Input{Title: roommateTitle, Transcript: roommateTranscript(), Config: cfg})
	if res.Status != StatusFailed || !errors.Is(res.Err, ErrInsufficientFootage) {
		t.Fatalf("status = %v err = %v, want failed insufficient footage", res.Status, res.Err)
	}
	if res.Timeline.Window.StartFrame != 0 {
		t.Fatalf("start frame = %d, want 0", res.Timeline.Window.StartFrame)
	}
	if len(res.Timeline.Entries) == 0 {
		t.Fatal("timeline should still be computed for caller policy")
	}

	looped := Assemble(Input{Title: roommateTitle, Transcript: roommateTranscript(), Config: cfg, AllowShortFootage: true})
	if looped.Status != StatusReady {
		t.Fatalf("status = %v, want ready when short footage allowed", looped.Status)
	}
	if len(looped.Warnings) != 1 || !errors.Is(looped.Warnings[0], ErrInsufficientFootage) {
		t.Fatalf("warnings = %v", looped.Warnings)
	}
}

func TestAssembleAlignmentBeatsFootage(t *testing.T) {
	cfg := RenderConfig{FPS: 30, TargetDurationInFrames: 1800, BackgroundVideoLengthInSeconds: 20}
	res := Assemble(Input{Title: "nothing matches here", Transcript: roommateTranscript(), Config: cfg})
	if !errors.Is(res.Err, ErrAlignmentFailure) {
		t.Fatalf("err = %v, want alignment failure", res.Err)
	}
}

func TestAssembleInvalidConfig(t *testing.T) {
	res := Assemble(Input{Title: roommateTitle, Transcript: roommateTranscript()})
	if res.Status != StatusFailed || !errors.Is(res.Err, ErrInvalidConfig) {
		t.Fatalf("status = %v err = %v", res.Status, res.Err)
	}
}

func TestAssembleSkipsMalformedTokens(t *testing.T) {
	tokens := []Token{
		{StartInSeconds: 0, Text: "I need advice"},
		{StartInSeconds: math.Inf(1), Text: "broken"},
		{StartInSeconds: 1.2, Text: "about my roommate situation"},
		{StartInSeconds: 3.0, Text: "Last week she"},
	}
	res := Assemble(Input{Title: roommateTitle, Transcript: tokens, Config: roommateConfig()})
	if res.Status != StatusReady {
		t.Fatalf("status = %v err = %v", res.Status, res.Err)
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", res.Skipped)
	}
	if res.Timeline.TitleCard.DurationInFrames != 90 {
		t.Fatalf("title card = %d, want 90", res.Timeline.TitleCard.DurationInFrames)
	}
}

func TestAssembleSkipsOutOfRangeTimestamps(t *testing.T) {
	tokens := append(roommateTranscript(), Token{StartInSeconds: 1e300, Text: "garbage"})
	res := Assemble(Input{Title: roommateTitle, Transcript: tokens, Config: roommateConfig()})
	if res.Status != StatusReady {
		t.Fatalf("status = %v err = %v", res.Status, res.Err)
	}
	if res.Skipped != 1 {
		t.Fatalf("skipped = %d, want 1", res.Skipped)
	}
	want := []Entry{
		{FromFrame: 90, DurationInFrames: 30, Text: "Last week she"},
		{FromFrame: 135, DurationInFrames: 30, Text: "did something crazy"},
	}
	if !reflect.DeepEqual(res.Timeline.Entries, want) {
		t.Fatalf("entries = %+v, want %+v", res.Timeline.Entries, want)
	}
	for _, e := range res.Timeline.Entries {
		if e.DurationInFrames <= 0 || e.DurationInFrames > roommateConfig().FPS {
			t.Fatalf("entry %+v breaks the one-second cap", e)
		}
	}
}

func TestAssembleDeterministic(t *testing.T) {
	in := Input{Title: roommateTitle, Transcript: roommateTranscript(), Config: roommateConfig()}
	a := Assemble(in)
	b := Assemble(in)
	if !reflect.DeepEqual(a.Timeline, b.Timeline) {
		t.Fatalf("timelines differ: %+v vs %+v", a.Timeline, b.Timeline)
	}
}

func TestStatusText(t *testing.T) {
	for status, want := range map[Status]string{StatusReady: "ready", StatusFallback: "fallback", StatusFailed: "failed"} {
		text, _ := status.MarshalText()
		if string(text) != want {
			t.Fatalf("MarshalText(%d) = %q, want %q", status, text, want)
		}
		if PhaseFor(status) != Phase(want) || !PhaseFor(status).Terminal() {
			t.Fatalf("PhaseFor(%v) = %v", status, PhaseFor(status))
		}
	}
}
