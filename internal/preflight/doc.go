// Package preflight checks that the files, directories and binaries a
// schedule needs are in place before anything is computed.
//
// The watcher runs RunAll at startup and logs each failure; the CLI "doctor"
// command prints the same results. Checks marked Optional describe degraded
// output (a title-card-only video, for instance) rather than a hard stop.
package preflight
