package inspect

import (
	"sort"

	"retrospect/internal/rete"
)

// ConditionFacts pairs one distinct declared condition with every fact
// currently held by the nodes implementing it.
type ConditionFacts struct {
	Condition rete.Condition `json:"condition"`
	Facts     []rete.Fact    `json:"facts"`
}

// ConditionMatches aggregates, per distinct declared condition, the
// facts working memory holds for it. Negation nodes contribute under
// their condition wrapped with the negation marker.
//
// Multiple nodes sharing a condition (condition deduplication across
// rules) concatenate their facts without deduplication: duplicate counts
// are debugging-relevant. Nodes are visited in id order so a fixed
// snapshot renders identically, but the per-condition multiset does not
// depend on visitation order.
func ConditionMatches(rb *rete.RuleBase, mem rete.Memory) map[string]ConditionFacts {
	ids := make([]int64, 0, len(rb.Nodes))
	for id := range rb.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	out := make(map[string]ConditionFacts)
	for _, id := range ids {
		node := rb.Nodes[id]
		if node.Condition == nil {
			continue
		}

		var cond rete.Condition
		switch Classify(node) {
		case ClassJoin:
			cond = *node.Condition
		case ClassNegation:
			cond = *node.Condition
			cond.Negated = true
		default:
			continue
		}

		key := cond.Key()
		entry, ok := out[key]
		if !ok {
			entry = ConditionFacts{Condition: cond}
		}
		entry.Facts = append(entry.Facts, mem.ElementsAll(id)...)
		out[key] = entry
	}
	return out
}
