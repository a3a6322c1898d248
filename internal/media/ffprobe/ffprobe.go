package ffprobe

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

// DefaultTimeout bounds a probe when the context carries no deadline.
const DefaultTimeout = 30 * time.Second

// ErrNoDuration is returned when ffprobe reports no usable duration.
var ErrNoDuration = errors.New("ffprobe reported no duration")

// Result represents the parsed output from an ffprobe inspection.
type Result struct {
	Streams []Stream `json:"streams"`
	Format  Format   `json:"format"`
}

// Stream describes a single stream in the media container.
type Stream struct {
	Index      int    `json:"index"`
	CodecName  string `json:"codec_name"`
	CodecType  string `json:"codec_type"`
	Duration   string `json:"duration"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	RFrameRate string `json:"r_frame_rate"`
}

// Format captures container-level metadata extracted by ffprobe.
type Format struct {
	Filename   string `json:"filename"`
	Duration   string `json:"duration"`
	FormatName string `json:"format_name"`
}

// Footage summarizes a background video.
type Footage struct {
	Path            string  `json:"path"`
	DurationSeconds float64 `json:"durationSeconds"`
	Width           int     `json:"width"`
	Height          int     `json:"height"`
	FrameRate       float64 `json:"frameRate"`
}

// Frames returns the footage length at fps, rounded down.
func (f Footage) Frames(fps int) int {
	return int(math.Floor(f.DurationSeconds * float64(fps)))
}

// Inspect runs the ffprobe found on PATH against path and decodes the JSON
// response. The probe is bounded by the context deadline, or DefaultTimeout
// when there is none.
func Inspect(ctx context.Context, path string) (Result, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Result{}, errors.New("ffprobe inspect: empty path")
	}
	if err := ctx.Err(); err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect: %w", err)
	}
	timeout := DefaultTimeout
	if deadline, ok := ctx.Deadline(); ok {
		timeout = time.Until(deadline)
		if timeout <= 0 {
			return Result{}, fmt.Errorf("ffprobe inspect: %w", context.DeadlineExceeded)
		}
	}
	if strings.HasPrefix(path, "-") {
		path = "./" + path
	}

	output, err := ffmpeg.ProbeWithTimeout(path, timeout, ffmpeg.KwArgs{"v": "error", "hide_banner": ""})
	if err != nil {
		return Result{}, fmt.Errorf("ffprobe inspect %s: %w", path, err)
	}
	return Parse([]byte(output))
}

// Parse decodes ffprobe JSON output.
func Parse(output []byte) (Result, error) {
	var result Result
	if err := json.Unmarshal(output, &result); err != nil {
		return Result{}, fmt.Errorf("ffprobe parse: %w", err)
	}
	return result, nil
}

// Probe inspects path and summarizes it as Footage.
func Probe(ctx context.Context, path string) (Footage, error) {
	result, err := Inspect(ctx, path)
	if err != nil {
		return Footage{}, err
	}
	footage, err := result.Footage()
	if err != nil {
		return Footage{}, fmt.Errorf("%s: %w", path, err)
	}
	footage.Path = path
	return footage, nil
}

// Footage extracts the footage summary from the probe result.
func (r Result) Footage() (Footage, error) {
	video, hasVideo := r.firstVideo()
	duration := parseFloat(r.Format.Duration)
	if !usableDuration(duration) && hasVideo {
		duration = parseFloat(video.Duration)
	}
	if !usableDuration(duration) {
		return Footage{}, ErrNoDuration
	}
	footage := Footage{DurationSeconds: duration}
	if hasVideo {
		footage.Width = video.Width
		footage.Height = video.Height
		footage.FrameRate = parseRate(video.RFrameRate)
	}
	return footage, nil
}

// DurationSeconds returns the container duration in seconds, or 0 when unavailable.
func (r Result) DurationSeconds() float64 {
	return parseFloat(r.Format.Duration)
}

func (r Result) firstVideo() (Stream, bool) {
	for _, stream := range r.Streams {
		if strings.EqualFold(stream.CodecType, "video") {
			return stream, true
		}
	}
	return Stream{}, false
}

func usableDuration(value float64) bool {
	return value > 0 && !math.IsNaN(value) && !math.IsInf(value, 0)
}

func parseFloat(value string) float64 {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" || cleaned == "N/A" {
		return 0
	}
	if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
		return parsed
	}
	return math.NaN()
}

// parseRate reads ffprobe's "num/den" rates.
func parseRate(value string) float64 {
	num, den, found := strings.Cut(strings.TrimSpace(value), "/")
	if !found {
		return parseFloat(num)
	}
	n, d := parseFloat(num), parseFloat(den)
	if d == 0 || math.IsNaN(n) || math.IsNaN(d) {
		return 0
	}
	return n / d
}
