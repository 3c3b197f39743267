package inspect

import "retrospect/internal/rete"

// ConditionClass is the semantic role a network node plays when
// reconstructing condition-level matches.
type ConditionClass int

const (
	// ClassNone covers every node kind with no condition-level meaning
	// to the inspector, including kinds added to the engine after this
	// layer was written. Such nodes are silently excluded downstream.
	ClassNone ConditionClass = iota
	ClassJoin
	ClassNegation
)

// Classify maps a node to its condition class. Classification is total:
// only the fixed known subset of kinds classifies to join or negation,
// everything else degrades to ClassNone rather than failing.
func Classify(n rete.Node) ConditionClass {
	switch n.Kind {
	case rete.KindRootJoin, rete.KindJoin, rete.KindHashJoin:
		return ClassJoin
	case rete.KindNegation, rete.KindNegationFilter:
		return ClassNegation
	default:
		return ClassNone
	}
}
