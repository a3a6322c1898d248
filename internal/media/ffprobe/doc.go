// Package ffprobe inspects the background footage with ffprobe.
//
// The caption scheduler needs to know how long the background video is
// before it can choose a crop window. When the configuration does not pin
// that length, Probe runs ffprobe and reads the container duration, falling
// back to the first video stream when the container omits it.
package ffprobe
