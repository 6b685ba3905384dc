// Package session provides SessionStore implementations: a process-local
// in-memory store for tests and demos, and a JSON file store that persists
// one file per session for simple durable setups.
package session
