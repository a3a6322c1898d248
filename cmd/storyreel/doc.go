// Package main hosts the storyreel CLI.
//
// The Cobra command tree computes caption timelines once (schedule), watches
// the transcript and recomputes on change (watch), previews the background
// crop for a title (window), and inspects the history database. Configuration
// is resolved once per invocation; a .env file in the working directory is
// loaded first so STORYREEL_* overrides can live next to the project.
//
// Keep this package thin: behaviour belongs in internal/recompute and friends,
// the commands only wire and print.
package main
