// Package evaluation implements the fan-in side of the pipeline: a
// per-session counting barrier that recognizes when all expected partial
// results have arrived, and the pure scoring/aggregation functions applied
// to the accumulated batch when the barrier fires.
//
// The barrier state is owned exclusively by the evaluation stage and only
// reachable through its narrow accessors (UpsertCount, Append). Aggregation
// is deterministic: the resulting summary depends only on the batch
// contents, never on arrival order.
package evaluation
