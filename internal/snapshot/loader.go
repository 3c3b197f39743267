// Package snapshot parses dumped engine state into a rete.Session.
//
// The dump format is YAML: the network's id-to-node table, the compiled
// rules and queries with their terminal node ids, and working memory
// (per-node elements, tokens, insertion groups, accumulator consumption
// sets). Node kinds the inspector does not recognize load as
// unsupported nodes rather than failing; the network vocabulary grows
// faster than this tool.
package snapshot

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"retrospect/internal/rete"
)

type fileSpec struct {
	Session string      `yaml:"session"`
	Nodes   []nodeSpec  `yaml:"nodes"`
	Rules   []ruleSpec  `yaml:"rules"`
	Queries []querySpec `yaml:"queries"`
	Memory  memorySpec  `yaml:"memory"`
}

type nodeSpec struct {
	ID          int64      `yaml:"id"`
	Kind        string     `yaml:"kind"`
	Condition   *condSpec  `yaml:"condition"`
	Accumulator *accumSpec `yaml:"accumulator"`
}

type condSpec struct {
	Type        string     `yaml:"type"`
	Constraints []string   `yaml:"constraints"`
	Original    []string   `yaml:"original"`
	Negated     bool       `yaml:"negated"`
	Accumulator *accumSpec `yaml:"accumulator"`
}

type accumSpec struct {
	Fn   string    `yaml:"fn"`
	From *condSpec `yaml:"from"`
}

type ruleSpec struct {
	Name       string     `yaml:"name"`
	Node       int64      `yaml:"node"`
	Action     string     `yaml:"action"`
	Conditions []condSpec `yaml:"conditions"`
}

type querySpec struct {
	Name       string     `yaml:"name"`
	Node       int64      `yaml:"node"`
	Params     []string   `yaml:"params"`
	Conditions []condSpec `yaml:"conditions"`
}

type factSpec struct {
	Type   string         `yaml:"type"`
	Fields map[string]any `yaml:"fields"`
	Value  any            `yaml:"value"`
}

type bindingSpec struct {
	Name      string `yaml:"name"`
	Value     any    `yaml:"value"`
	Synthetic bool   `yaml:"synthetic"`
}

type elementSpec struct {
	Node int64    `yaml:"node"`
	Fact factSpec `yaml:"fact"`
}

type tokenSpec struct {
	Matches  []elementSpec `yaml:"matches"`
	Bindings []bindingSpec `yaml:"bindings"`
}

type insertionSpec struct {
	Token  tokenSpec    `yaml:"token"`
	Groups [][]factSpec `yaml:"groups"`
}

type accumulatedSpec struct {
	Node  int64      `yaml:"node"`
	Token tokenSpec  `yaml:"token"`
	Facts []factSpec `yaml:"facts"`
}

type memorySpec struct {
	Elements    map[int64][]factSpec      `yaml:"elements"`
	Tokens      map[int64][]tokenSpec     `yaml:"tokens"`
	Insertions  map[int64][]insertionSpec `yaml:"insertions"`
	Accumulated []accumulatedSpec         `yaml:"accumulated"`
}

// nodeKinds maps the dump's kind names onto the recognized vocabulary.
// Anything not listed loads as rete.KindUnsupported.
var nodeKinds = map[string]rete.NodeKind{
	"root-join":         rete.KindRootJoin,
	"join":              rete.KindJoin,
	"hash-join":         rete.KindHashJoin,
	"negation":          rete.KindNegation,
	"negation-filter":   rete.KindNegationFilter,
	"accumulate":        rete.KindAccumulate,
	"accumulate-filter": rete.KindAccumulateFilter,
	"alpha":             rete.KindAlpha,
	"production":        rete.KindProduction,
	"query":             rete.KindQuery,
}

// Load reads and parses a session dump from disk.
func Load(path string) (*rete.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot %s: %w", path, err)
	}
	sess, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %w", path, err)
	}
	return sess, nil
}

// Parse builds a session from dump bytes.
func Parse(data []byte) (*rete.Session, error) {
	var spec fileSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, err
	}

	rb := &rete.RuleBase{
		ProductionNodes: make(map[string]int64),
		QueryNodes:      make(map[string]int64),
		Nodes:           make(map[int64]rete.Node, len(spec.Nodes)),
	}

	for _, ns := range spec.Nodes {
		node := rete.Node{
			ID:          ns.ID,
			Kind:        nodeKinds[ns.Kind],
			Condition:   buildCondition(ns.Condition),
			Accumulator: buildAccumulator(ns.Accumulator),
		}
		rb.Nodes[ns.ID] = node
	}

	for _, rs := range spec.Rules {
		rule := rete.Rule{
			Name:       rs.Name,
			Action:     rs.Action,
			Conditions: buildConditions(rs.Conditions),
		}
		rb.Productions = append(rb.Productions, rule)
		rb.ProductionNodes[rule.Identity()] = rs.Node
	}

	for _, qs := range spec.Queries {
		query := rete.Query{
			Name:       qs.Name,
			Params:     qs.Params,
			Conditions: buildConditions(qs.Conditions),
		}
		rb.Queries = append(rb.Queries, query)
		rb.QueryNodes[query.Identity()] = qs.Node
	}

	mem := rete.NewSnapshotMemory()
	for nodeID, facts := range spec.Memory.Elements {
		mem.AddElements(nodeID, buildFacts(facts)...)
	}
	for nodeID, tokens := range spec.Memory.Tokens {
		for _, ts := range tokens {
			mem.AddToken(nodeID, buildToken(ts))
		}
	}
	for nodeID, insertions := range spec.Memory.Insertions {
		for _, ins := range insertions {
			tok := buildToken(ins.Token)
			for _, group := range ins.Groups {
				mem.AddInsertion(nodeID, tok, buildFacts(group))
			}
		}
	}
	for _, acc := range spec.Memory.Accumulated {
		mem.SetAccumConsumed(acc.Node, buildToken(acc.Token), buildFacts(acc.Facts))
	}

	return &rete.Session{RuleBase: rb, Memory: mem}, nil
}

func buildCondition(cs *condSpec) *rete.Condition {
	if cs == nil {
		return nil
	}
	return &rete.Condition{
		Type:                cs.Type,
		Constraints:         cs.Constraints,
		OriginalConstraints: cs.Original,
		Negated:             cs.Negated,
		Accumulator:         buildAccumulator(cs.Accumulator),
	}
}

func buildConditions(specs []condSpec) []rete.Condition {
	out := make([]rete.Condition, len(specs))
	for i := range specs {
		out[i] = *buildCondition(&specs[i])
	}
	return out
}

func buildAccumulator(as *accumSpec) *rete.Accumulator {
	if as == nil {
		return nil
	}
	return &rete.Accumulator{Fn: as.Fn, From: buildCondition(as.From)}
}

func buildFact(fs factSpec) rete.Fact {
	if fs.Type == "" {
		return rete.Value{V: fs.Value}
	}
	return rete.GenericFact{Type: fs.Type, Fields: fs.Fields}
}

func buildFacts(specs []factSpec) []rete.Fact {
	if specs == nil {
		return nil
	}
	out := make([]rete.Fact, len(specs))
	for i, fs := range specs {
		out[i] = buildFact(fs)
	}
	return out
}

func buildToken(ts tokenSpec) rete.Token {
	tok := rete.Token{
		Matches:  make([]rete.Element, len(ts.Matches)),
		Bindings: make([]rete.Binding, len(ts.Bindings)),
	}
	for i, el := range ts.Matches {
		tok.Matches[i] = rete.Element{Fact: buildFact(el.Fact), NodeID: el.Node}
	}
	for i, b := range ts.Bindings {
		tok.Bindings[i] = rete.Binding{Name: b.Name, Value: b.Value, Synthetic: b.Synthetic}
	}
	return tok
}
