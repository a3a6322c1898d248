// Package api serves the watcher's HTTP surface with gin.
//
// Routes:
//
//	GET  /api/health           generation, phase and last published generation
//	GET  /api/timeline         last published snapshot (404 until one exists)
//	POST /api/recompute        start a new generation, returns its number
//	GET  /api/history          recent runs from the history store
//	GET  /api/history/:runId   one run including its stored timeline
//	GET  /api/logs             recent log events (?since=<seq>&limit=<n>)
//
// DTOs use camelCase JSON tags and RFC3339 timestamps with milliseconds. When
// a token is configured every route requires "Authorization: Bearer <token>".
package api
