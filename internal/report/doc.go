// Package report persists batch run history in SQLite: one row per run
// and one per terminal job, surfaced by the history command. The store is
// advisory; a failure to record history never fails a batch.
package report
