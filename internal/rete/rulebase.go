package rete

import (
	"errors"
	"fmt"
	"strings"
)

// ErrStateInconsistency signals a broken invariant in the supplied
// snapshot, e.g. a token referencing a node id absent from the rule
// base's node table. It is never swallowed: a snapshot that disagrees
// with itself cannot be explained.
var ErrStateInconsistency = errors.New("session state inconsistency")

// Rule is one compiled production: ordered conditions plus the action
// body fired on a complete match. Name may be empty for anonymous rules.
type Rule struct {
	Name       string      `json:"name,omitempty"`
	Conditions []Condition `json:"conditions"`
	Action     string      `json:"action,omitempty"`
}

// Identity returns the rule's name, or a label derived from its
// conditions when it was declared anonymously.
func (r Rule) Identity() string {
	if r.Name != "" {
		return r.Name
	}
	return derivedIdentity("rule", r.Conditions)
}

// Query is one compiled query definition.
type Query struct {
	Name       string      `json:"name,omitempty"`
	Conditions []Condition `json:"conditions"`
	Params     []string    `json:"params,omitempty"`
}

// Identity returns the query's name, or a label derived from its
// conditions when unnamed.
func (q Query) Identity() string {
	if q.Name != "" {
		return q.Name
	}
	return derivedIdentity("query", q.Conditions)
}

func derivedIdentity(kind string, conditions []Condition) string {
	labels := make([]string, len(conditions))
	for i, c := range conditions {
		labels[i] = c.label()
	}
	return fmt.Sprintf("%s(%s)", kind, strings.Join(labels, ", "))
}

// RuleBase is the compiled form of the loaded productions and queries:
// the declarations themselves, the terminal node implementing each, and
// the full id-to-node table of the discrimination network.
type RuleBase struct {
	Productions []Rule
	Queries     []Query

	// ProductionNodes and QueryNodes map Identity() to terminal node id.
	ProductionNodes map[string]int64
	QueryNodes      map[string]int64

	Nodes map[int64]Node
}

// Node resolves a node id against the network table. A miss is a state
// inconsistency, not a recoverable condition.
func (rb *RuleBase) Node(id int64) (Node, error) {
	n, ok := rb.Nodes[id]
	if !ok {
		return Node{}, fmt.Errorf("node %d missing from network table: %w", id, ErrStateInconsistency)
	}
	return n, nil
}
