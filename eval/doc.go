// Package eval benchmarks the full planning pipeline against a static
// baseline heuristic over a fixed list of goal cases. The baseline deploys
// the cheapest intervention per sector at low scale and is scored with the
// same scoring function as the pipeline, so the comparison isolates what
// the multi-stage planning actually contributes.
package eval
