package captions

import (
	"hash/fnv"
	"math"
)

// OverlapBuffer is the trailing slack, in frames, added past the target
// duration so transitions never run off the end of the crop.
const OverlapBuffer = 100

// TitleSeed maps a title to a value in [0, 1). The mapping is FNV-1a over the
// UTF-8 bytes followed by the SplitMix64 finalizer, keeping the top 53 bits so
// the result is exact in a float64 and identical on every platform.
func TitleSeed(title string) float64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(title))
	x := h.Sum64()
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return float64(x>>11) / (1 << 53)
}

// SelectWindow picks the crop window for title. The start frame is spread
// over the footage that remains after reserving the target duration; the end
// frame adds OverlapBuffer but never passes the last available frame.
//
// When the footage is shorter than the target the window starts at 0 and a
// *FootageError is returned alongside it so the caller can decide whether to
// loop the footage or reject the story. On that path EndFrame is target plus
// OverlapBuffer and may lie past the last available frame.
func SelectWindow(title string, cfg RenderConfig) (VideoWindow, error) {
	if err := cfg.Validate(); err != nil {
		return VideoWindow{}, err
	}
	available := cfg.BackgroundVideoLengthInSeconds * float64(cfg.FPS)
	span := available - float64(cfg.TargetDurationInFrames)
	if span < 0 {
		window := VideoWindow{StartFrame: 0, EndFrame: cfg.TargetDurationInFrames + OverlapBuffer}
		return window, &FootageError{AvailableFrames: available, RequiredFrames: cfg.TargetDurationInFrames}
	}

	start := int(math.Floor(TitleSeed(title) * span))
	end := start + cfg.TargetDurationInFrames + OverlapBuffer
	if limit := int(math.Floor(available)); end > limit {
		end = limit
	}
	return VideoWindow{StartFrame: start, EndFrame: end}, nil
}
