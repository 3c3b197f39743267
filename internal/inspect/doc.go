// Package inspect reconstructs provenance from a rule session snapshot.
//
// Given one immutable rete.Session it answers two questions:
//
//   - For every rule and query match: which facts, through which
//     conditions and bindings, caused it?
//   - For every fact a rule inserted: which match(es) justified the
//     insertion?
//
// The entry point is Inspect, which folds the whole snapshot into one
// InspectionSnapshot. Everything here is a pure projection: no call
// mutates the session, no call depends on time or randomness, and a
// fixed snapshot always produces the same result.
package inspect
