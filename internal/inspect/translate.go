package inspect

import (
	"strings"

	"retrospect/internal/rete"
)

// ConditionMatch pairs one declared condition with the fact that matched
// it. For accumulator conditions Fact is the aggregation result and
// Accumulated lists the facts consumed to produce it, in consumption
// order; non-accumulator matches never populate Accumulated.
type ConditionMatch struct {
	Condition   rete.Condition `json:"condition"`
	Fact        rete.Fact      `json:"fact"`
	Accumulated []rete.Fact    `json:"accumulated,omitempty"`
}

// Explanation is the structured provenance of one rule or query match:
// one ConditionMatch per declared condition, in declaration order, plus
// the user-declared variable bindings. Engine-synthesized bindings are
// excluded.
type Explanation struct {
	Matches  []ConditionMatch `json:"matches"`
	Bindings map[string]any   `json:"bindings"`
}

// Translator converts raw engine tokens into Explanations against one
// session snapshot.
type Translator struct {
	session *rete.Session
}

// NewTranslator returns a translator bound to a session.
func NewTranslator(s *rete.Session) *Translator {
	return &Translator{session: s}
}

// Explain translates tokens one-to-one, preserving input order.
func (t *Translator) Explain(tokens []rete.Token) ([]Explanation, error) {
	out := make([]Explanation, 0, len(tokens))
	for _, tok := range tokens {
		ex, err := t.ExplainToken(tok)
		if err != nil {
			return nil, err
		}
		out = append(out, ex)
	}
	return out, nil
}

// ExplainToken translates one token. Each (fact, node) pair becomes one
// ConditionMatch; a pair referencing a node id absent from the rule
// base's node table fails with rete.ErrStateInconsistency.
func (t *Translator) ExplainToken(tok rete.Token) (Explanation, error) {
	matches := make([]ConditionMatch, 0, len(tok.Matches))
	for _, el := range tok.Matches {
		node, err := t.session.RuleBase.Node(el.NodeID)
		if err != nil {
			return Explanation{}, err
		}

		m := ConditionMatch{Fact: el.Fact}
		if acc := node.Accumulator; acc != nil {
			// The token's fact is the aggregation result; the elements
			// it was reduced from come from the engine's accumulator
			// memory for this specific token.
			cond := rete.Condition{Accumulator: &rete.Accumulator{Fn: acc.Fn}}
			if acc.From != nil {
				from := *acc.From
				cond.Accumulator.From = &from
			}
			m.Condition = cond
			m.Accumulated = t.session.Memory.AccumConsumed(el.NodeID, tok)
		} else if node.Condition != nil {
			m.Condition = *node.Condition
		}
		matches = append(matches, m)
	}

	return Explanation{Matches: matches, Bindings: userBindings(tok.Bindings)}, nil
}

// userBindings keeps only bindings a user authored, dropping both
// explicitly tagged synthetic bindings and names carrying the reserved
// rete.GenPrefix convention.
func userBindings(bindings []rete.Binding) map[string]any {
	out := make(map[string]any, len(bindings))
	for _, b := range bindings {
		if b.Synthetic || strings.HasPrefix(b.Name, rete.GenPrefix) {
			continue
		}
		out[b.Name] = b.Value
	}
	return out
}
