// Package history records finished schedule computations in SQLite.
//
// Every computation, whether Ready, Fallback or Failed, is stored with a
// random run ID, the generation that produced it, the transcript fingerprint
// and the serialized timeline. The history backs the `storyreel history`
// command and the /api/history endpoint, and makes it possible to confirm
// that re-renders of the same story reused the same crop window.
//
// The schema is versioned; a mismatch is reported as ErrSchemaMismatch and the
// operator is expected to clear the database. Writes retry briefly when SQLite
// reports the database as busy, which happens when the CLI and the watcher
// touch the same file.
package history
