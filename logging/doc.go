// Package logging provides a minimal logging interface and adapters for TerraMesh.
//
// The Logger interface defines the standard logging methods (Debug, Info, Warn, Error)
// that the bus and stage agents use for observability. This package includes:
//
//   - Logger interface for dependency injection
//   - SlogAdapter wrapping Go's structured logging
//   - NoOpLogger for silent operation (testing, minimal setups)
//   - MeshLogger with contextual helpers (component, session)
//
// Usage:
//
//	logger := logging.NewSlogLogger(logging.LogLevelInfo, "text", false)
//	b := bus.New(func(o *bus.Options) { o.Logger = logger })
//
// The design intentionally keeps the interface minimal to avoid vendor lock-in
// while supporting structured logging where available.
package logging
