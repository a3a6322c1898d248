package main

import (
	"encoding/json"
	"testing"

	"storyreel/internal/preflight"
	"storyreel/internal/testsupport"
)

func TestDoctorCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err != nil {
		t.Fatalf("doctor: %v", err)
	}
	requireContains(t, out, "[OK] \""+scenarioTitle+"\"")
	requireContains(t, out, "[OK] 4 tokens")
	// The background video length is configured, so a missing file only warns.
	requireContains(t, out, "[WARN]")
}

func TestDoctorCommandFailsOnMissingStory(t *testing.T) {
	env := setupCLITestEnv(t)
	env.cfg.Paths.StoryFile = env.cfg.Paths.StoryFile + ".missing"
	configPath := testsupport.WriteConfigFile(t, env.cfg)

	out, _, err := runCLI(t, []string{"doctor", "--json"}, configPath)
	if err == nil || err.Error() != "1 check failed" {
		t.Fatalf("expected one failed check, got %v", err)
	}
	var results []preflight.Result
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if results[0].Name != "Story" || results[0].Passed {
		t.Fatalf("unexpected story result: %+v", results[0])
	}
}
