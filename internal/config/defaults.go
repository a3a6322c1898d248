package config

const (
	defaultStoryFile           = "annotate.json"
	defaultTranscriptFile      = "public/audio/audio.json"
	defaultBackgroundVideo     = "public/video.mp4"
	defaultOutputDir           = "out"
	defaultStateDir            = "~/.local/share/storyreel"
	defaultFPS                 = 30
	defaultFallbackTitleFrames = 120
	defaultTailPaddingFrames   = 40
	defaultCaptionBoundary     = "after_anchor"
	defaultPollIntervalMS      = 500
	defaultDebounceMS          = 250
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// Default returns a Config populated with repository defaults. The input
// resource paths stay empty so environment fallbacks can fill them during
// normalization before the built-in locations apply.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			StateDir:  defaultStateDir,
		},
		Render: Render{
			FPS:                 defaultFPS,
			FallbackTitleFrames: defaultFallbackTitleFrames,
			TailPaddingFrames:   defaultTailPaddingFrames,
			CaptionBoundary:     defaultCaptionBoundary,
		},
		Watch: Watch{
			PollIntervalMS: defaultPollIntervalMS,
			DebounceMS:     defaultDebounceMS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
