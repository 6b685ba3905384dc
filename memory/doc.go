// Package memory provides long-term memory across planning sessions:
// compact per-run summaries that accumulate over time and simple pattern
// aggregation over them (averages, best score). Backends: in-memory for
// tests and a JSON file for persistence between runs.
package memory
