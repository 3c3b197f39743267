package inspect

import (
	"sort"

	"retrospect/internal/rete"
)

// Justification names the (rule, explanation) pair causally responsible
// for inserting a fact.
type Justification struct {
	Rule        string      `json:"rule"`
	Explanation Explanation `json:"explanation"`
}

// Justifications indexes insertion provenance per fact: for every
// production node, for every token recorded as causing insertions, for
// every fact in every insertion group, one justification keyed by the
// fact's key.
//
// The index is an append-only multimap. A fact independently produced by
// several rules, or by several matches of one rule, carries all of its
// justifications; nothing is overwritten. Facts with no recorded
// rule-caused insertion (direct assertions) are absent entirely.
func Justifications(s *rete.Session) (map[string][]Justification, error) {
	tr := NewTranslator(s)

	names := make([]string, 0, len(s.RuleBase.ProductionNodes))
	for name := range s.RuleBase.ProductionNodes {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make(map[string][]Justification)
	for _, name := range names {
		nodeID := s.RuleBase.ProductionNodes[name]
		for _, ins := range s.Memory.InsertionsAll(nodeID) {
			ex, err := tr.ExplainToken(ins.Token)
			if err != nil {
				return nil, err
			}
			for _, group := range ins.Groups {
				for _, f := range group {
					out[f.Key()] = append(out[f.Key()], Justification{Rule: name, Explanation: ex})
				}
			}
		}
	}
	return out, nil
}
