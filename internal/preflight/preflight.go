package preflight

import (
	"storyreel/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name     string `json:"name"`
	Passed   bool   `json:"passed"`
	Optional bool   `json:"optional,omitempty"`
	Detail   string `json:"detail"`
}

// Blocking reports whether the result should stop a schedule.
func (r Result) Blocking() bool {
	return !r.Passed && !r.Optional
}

// RunAll executes every check that applies to cfg.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckStory("Story", cfg.Paths.StoryFile),
		CheckTranscript("Transcript", cfg.Paths.TranscriptFile),
	}

	probed := cfg.Render.BackgroundVideoSeconds <= 0
	video := CheckReadableFile("Background video", cfg.Paths.BackgroundVideo)
	if !probed {
		// The configured length is used; the file is only needed by the renderer.
		video.Optional = true
	}
	results = append(results, video)
	if probed {
		results = append(results, CheckBinary("FFprobe", cfg.FFprobeBinary(), "Required to measure the background video"))
	}

	results = append(results,
		CheckDirectoryAccess("Output directory", cfg.Paths.OutputDir),
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir),
	)
	return results
}

// Blocking returns the results that prevent a schedule.
func Blocking(results []Result) []Result {
	var out []Result
	for _, r := range results {
		if r.Blocking() {
			out = append(out, r)
		}
	}
	return out
}
