// Package logging builds the slog loggers used across storyreel.
//
// Two output formats are supported: a console format for people watching the
// watcher in a terminal and a JSON format for log shipping. Both honour the
// standard field names defined in context.go (component, generation, run_id,
// event_type, error_hint, impact, decision_type) so a recompute can be traced
// end to end. A StreamHub can be attached to keep recent events in memory for
// the HTTP API.
package logging
