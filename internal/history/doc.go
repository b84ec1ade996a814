// Package history persists one ledger row per processed media file in
// SQLite.
//
// The ledger records what a batch did with each file: the outcome status,
// the subtitle path, the resolved language and script, caption counts, and
// the error that stopped it. It is an audit trail rather than a work queue;
// nothing reads it back to decide what to process, except the CLI history
// command. Schema changes are added as new files under migrations/ and are
// applied in order when the store opens.
package history
