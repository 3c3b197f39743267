package rete

import "fmt"

// TokenInsertions records the facts a production node inserted when a
// given token fired. Each activation contributes one group; a token that
// fired more than once carries multiple groups.
type TokenInsertions struct {
	Token  Token
	Groups [][]Fact
}

// Memory is the inspector's read-only view of the engine's working
// memory at snapshot time.
type Memory interface {
	// ElementsAll returns the facts currently held by a condition node,
	// in the order the node holds them.
	ElementsAll(nodeID int64) []Fact

	// TokensAll returns the tokens currently held by a node.
	TokensAll(nodeID int64) []Token

	// InsertionsAll returns, per token, the insertion groups attributed
	// to a production node.
	InsertionsAll(nodeID int64) []TokenInsertions

	// AccumConsumed returns the facts an accumulator node consumed to
	// produce its result for the given token, in consumption order.
	// Nil when the accumulator consumed nothing.
	AccumConsumed(nodeID int64, tok Token) []Fact
}

// SnapshotMemory is the map-backed Memory a dumped session is loaded
// into. It is append-only during construction and read-only afterwards.
type SnapshotMemory struct {
	elements    map[int64][]Fact
	tokens      map[int64][]Token
	insertions  map[int64][]TokenInsertions
	accumulated map[string][]Fact
}

// NewSnapshotMemory returns an empty snapshot memory.
func NewSnapshotMemory() *SnapshotMemory {
	return &SnapshotMemory{
		elements:    make(map[int64][]Fact),
		tokens:      make(map[int64][]Token),
		insertions:  make(map[int64][]TokenInsertions),
		accumulated: make(map[string][]Fact),
	}
}

// AddElements appends facts to a node's element memory.
func (m *SnapshotMemory) AddElements(nodeID int64, facts ...Fact) {
	m.elements[nodeID] = append(m.elements[nodeID], facts...)
}

// AddToken appends a token to a node's token memory.
func (m *SnapshotMemory) AddToken(nodeID int64, tok Token) {
	m.tokens[nodeID] = append(m.tokens[nodeID], tok)
}

// AddInsertion records one insertion group a production node produced
// for a token. Groups for the same token accumulate on one entry.
func (m *SnapshotMemory) AddInsertion(nodeID int64, tok Token, group []Fact) {
	hash := tok.Hash()
	entries := m.insertions[nodeID]
	for i := range entries {
		if entries[i].Token.Hash() == hash {
			entries[i].Groups = append(entries[i].Groups, group)
			return
		}
	}
	m.insertions[nodeID] = append(entries, TokenInsertions{Token: tok, Groups: [][]Fact{group}})
}

// SetAccumConsumed records the element set an accumulator node consumed
// for a token.
func (m *SnapshotMemory) SetAccumConsumed(nodeID int64, tok Token, facts []Fact) {
	m.accumulated[accumKey(nodeID, tok)] = facts
}

func (m *SnapshotMemory) ElementsAll(nodeID int64) []Fact { return m.elements[nodeID] }

func (m *SnapshotMemory) TokensAll(nodeID int64) []Token { return m.tokens[nodeID] }

func (m *SnapshotMemory) InsertionsAll(nodeID int64) []TokenInsertions {
	return m.insertions[nodeID]
}

func (m *SnapshotMemory) AccumConsumed(nodeID int64, tok Token) []Fact {
	return m.accumulated[accumKey(nodeID, tok)]
}

func accumKey(nodeID int64, tok Token) string {
	return fmt.Sprintf("%d|%s", nodeID, tok.Hash())
}

// Session is one immutable engine snapshot: the compiled rule base plus
// the working memory state captured against it.
type Session struct {
	RuleBase *RuleBase
	Memory   Memory
}
