// Package rete defines the data handed across the boundary between the
// pattern-matching engine and the inspection layer.
//
// The engine itself (alpha/beta network evaluation, truth maintenance,
// accumulator execution) lives outside this repository. What crosses the
// boundary is a single immutable Session snapshot:
//
//   - The rule base: compiled productions and queries, plus the id-to-node
//     table describing the discrimination network.
//   - Working memory: per-node match elements, per-node tokens, the
//     insertion groups attributed to each (production node, token) pair,
//     and the element sets consumed by accumulator nodes.
//
// Everything in this package is read-only from the inspector's point of
// view. Correctness of a single inspection assumes the caller does not
// mutate the snapshot concurrently; distinct snapshots are fully
// independent.
package rete
