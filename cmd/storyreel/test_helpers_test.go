package main

import (
	"bytes"
	"strings"
	"testing"

	"storyreel/internal/config"
	"storyreel/internal/testsupport"
)

const scenarioTitle = "I need advice about my roommate"

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	cfg.Paths.APIBind = ""
	testsupport.WriteStory(t, cfg, scenarioTitle, "Long story short.", "aita", "room mates")
	testsupport.WriteTranscript(t, cfg, []testsupport.TranscriptWord{
		{StartInSeconds: 0.0, Text: "I need advice"},
		{StartInSeconds: 1.2, Text: "about my roommate situation"},
		{StartInSeconds: 3.0, Text: "Last week she"},
		{StartInSeconds: 4.5, Text: "did something crazy"},
	})

	return &cliTestEnv{
		cfg:        cfg,
		configPath: testsupport.WriteConfigFile(t, cfg),
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
