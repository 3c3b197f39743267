package inspect

import (
	"fmt"

	"retrospect/internal/rete"
)

// FactInsertion records one fact a rule inserted together with the
// explanation of the match that caused it.
type FactInsertion struct {
	Explanation Explanation `json:"explanation"`
	Fact        rete.Fact   `json:"fact"`
}

// InspectionSnapshot is the aggregate result of inspecting one session:
// every reconstruction the renderer or a caller may want, built fresh
// per call with no persisted identity.
type InspectionSnapshot struct {
	// RuleMatches and QueryMatches hold one Explanation per token
	// currently held by each rule's/query's terminal node. A rule with
	// zero matching tokens is present with an empty list.
	RuleMatches  map[string][]Explanation `json:"rule_matches"`
	QueryMatches map[string][]Explanation `json:"query_matches"`

	// ConditionMatches aggregates working-memory facts per distinct
	// declared condition, keyed by Condition.Key().
	ConditionMatches map[string]ConditionFacts `json:"condition_matches"`

	// Insertions lists, per rule identity, every individually inserted
	// fact with its causing explanation.
	Insertions map[string][]FactInsertion `json:"insertions"`

	// FactJustifications maps Fact.Key() to the justifications for that
	// fact's insertion.
	FactJustifications map[string][]Justification `json:"fact_justifications"`

	// Rules and Queries carry the declarations, keyed by identity, so
	// consumers can render actions and conditions without the session.
	Rules   map[string]rete.Rule  `json:"rules"`
	Queries map[string]rete.Query `json:"queries"`
}

// WhyFact returns the justifications recorded for a fact's insertion,
// nil when the fact was asserted directly.
func (s *InspectionSnapshot) WhyFact(f rete.Fact) []Justification {
	return s.FactJustifications[f.Key()]
}

// FactsFor returns the facts working memory held for a declared
// condition, nil when no node implements it.
func (s *InspectionSnapshot) FactsFor(c rete.Condition) []rete.Fact {
	if entry, ok := s.ConditionMatches[c.Key()]; ok {
		return entry.Facts
	}
	return nil
}

// Inspect reconstructs provenance for a whole session snapshot. It is
// deterministic for a fixed snapshot and linear in tokens x conditions
// plus network nodes.
func Inspect(s *rete.Session) (*InspectionSnapshot, error) {
	tr := NewTranslator(s)
	snap := &InspectionSnapshot{
		RuleMatches:  make(map[string][]Explanation),
		QueryMatches: make(map[string][]Explanation),
		Insertions:   make(map[string][]FactInsertion),
		Rules:        make(map[string]rete.Rule),
		Queries:      make(map[string]rete.Query),
	}

	for _, rule := range s.RuleBase.Productions {
		id := rule.Identity()
		nodeID, ok := s.RuleBase.ProductionNodes[id]
		if !ok {
			return nil, fmt.Errorf("rule %q has no production node: %w", id, rete.ErrStateInconsistency)
		}
		snap.Rules[id] = rule

		matches, err := tr.Explain(s.Memory.TokensAll(nodeID))
		if err != nil {
			return nil, err
		}
		snap.RuleMatches[id] = matches

		for _, ins := range s.Memory.InsertionsAll(nodeID) {
			ex, err := tr.ExplainToken(ins.Token)
			if err != nil {
				return nil, err
			}
			for _, group := range ins.Groups {
				for _, f := range group {
					snap.Insertions[id] = append(snap.Insertions[id], FactInsertion{Explanation: ex, Fact: f})
				}
			}
		}
	}

	for _, query := range s.RuleBase.Queries {
		id := query.Identity()
		nodeID, ok := s.RuleBase.QueryNodes[id]
		if !ok {
			return nil, fmt.Errorf("query %q has no query node: %w", id, rete.ErrStateInconsistency)
		}
		snap.Queries[id] = query

		matches, err := tr.Explain(s.Memory.TokensAll(nodeID))
		if err != nil {
			return nil, err
		}
		snap.QueryMatches[id] = matches
	}

	snap.ConditionMatches = ConditionMatches(s.RuleBase, s.Memory)

	justifications, err := Justifications(s)
	if err != nil {
		return nil, err
	}
	snap.FactJustifications = justifications

	return snap, nil
}
