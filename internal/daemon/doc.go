// Package daemon runs the long-lived watcher behind `storyreel watch`.
//
// It takes a flock on the state directory so only one watcher serves a given
// history database, polls the story and transcript files for changes, and
// starts a new recompute generation once a change has settled for the
// debounce interval. The recompute engine discards results of superseded
// generations, so the watcher never waits for a computation to finish before
// triggering the next one.
//
// When paths.api_bind is set the daemon also serves the HTTP API for the
// lifetime of the watch.
package daemon
