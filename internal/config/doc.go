// Package config loads, normalizes, and validates storyreel configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// STORYREEL_TRANSCRIPT. The Config type centralizes every knob the CLI and the
// watcher need: where the story, transcript and footage live, the render
// settings fed to the caption scheduler, and logging behaviour.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
