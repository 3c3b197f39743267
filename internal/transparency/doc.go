// Package transparency renders inspection results for humans.
//
// The renderer answers "why did this rule fire" in plain text:
//
//   - Per rule: identity, action body, then each match's bindings and
//     the condition-level facts behind it
//   - Per query: the same, minus the action line
//   - Accumulator conditions show the aggregation result together with
//     its source condition
//
// Output is advisory. Content, ordering and determinism for a fixed
// snapshot are contractual; the exact byte layout is not.
package transparency
