// Package recompute runs schedule computations against the configured story,
// transcript and background footage.
//
// Each call to Recompute or Trigger starts a new generation. Loading the
// inputs is the only slow step; when it finishes the Engine asks its Tracker
// whether the generation is still the newest one. Results from superseded
// generations are discarded and reported as ErrSuperseded, so a slow load can
// never overwrite the schedule produced for a later transcript change.
//
// Published snapshots are written to the timeline file and recorded in the
// history store when those are configured.
package recompute
