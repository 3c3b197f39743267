package rete

// NodeKind identifies the concrete variant of a network node. The
// vocabulary is closed but grows with the engine; KindUnsupported is the
// explicit arm for variants this layer does not recognize, and it is the
// zero value so an unmapped kind degrades rather than misclassifies.
type NodeKind int

const (
	KindUnsupported NodeKind = iota
	KindRootJoin
	KindJoin
	KindHashJoin
	KindNegation
	KindNegationFilter
	KindAccumulate
	KindAccumulateFilter
	KindAlpha
	KindProduction
	KindQuery
)

// String returns the wire name of the kind.
func (k NodeKind) String() string {
	switch k {
	case KindRootJoin:
		return "root-join"
	case KindJoin:
		return "join"
	case KindHashJoin:
		return "hash-join"
	case KindNegation:
		return "negation"
	case KindNegationFilter:
		return "negation-filter"
	case KindAccumulate:
		return "accumulate"
	case KindAccumulateFilter:
		return "accumulate-filter"
	case KindAlpha:
		return "alpha"
	case KindProduction:
		return "production"
	case KindQuery:
		return "query"
	default:
		return "unsupported"
	}
}

// Node is one entry in the rule base's id-to-node table.
//
// Condition is the declared condition the node implements, set for
// condition-bearing kinds. Accumulator is set only for the accumulate
// kinds and carries the aggregation function plus its source condition.
type Node struct {
	ID          int64
	Kind        NodeKind
	Condition   *Condition
	Accumulator *Accumulator
}
