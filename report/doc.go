// Package report renders the evaluation summary of a session into a
// human-readable planning report and provides storage backends for
// persisting reports per session.
//
// The Store interface keeps callers independent of the persistence layer:
// the in-memory implementation serves tests and single-process runs, the
// file implementation mirrors the JSON-per-session layout used for
// long-lived installations. Swap in a database-backed store without
// touching calling code.
package report
