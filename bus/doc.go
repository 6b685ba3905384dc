// Package bus implements the dispatch kernel of TerraMesh: a FIFO envelope
// queue paired with a named agent registry, driven by a single-threaded run
// loop. The loop delivers one envelope per step, recycles envelopes that do
// not match the active session filter to the tail of the queue, and contains
// handler failures and unknown receivers as recorded faults instead of
// letting them unwind the run.
package bus
