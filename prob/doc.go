// SPDX-License-Identifier: MIT

// Package prob holds the two value types every other package trades in:
//
//   - Dist[T]    – a probability distribution (prior) over n secrets.
//   - Channel[T] – an n×m row-stochastic matrix, secrets on rows, observables on columns.
//
// Both are read-only values: nothing in this module mutates them after
// construction, and every transformation (Clone, Deterministic, ...) returns a
// new value. Validity is an explicit query (IsProb, IsChannel) rather than a
// construction-time guarantee, so callers can hold and inspect malformed inputs.
//
// The package also reads and writes the plain text representation used by
// external loaders: rows of whitespace-separated numbers, one row per secret.
package prob
