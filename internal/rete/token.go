package rete

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenPrefix marks binding names the engine synthesized for its own join
// bookkeeping. The prefix is a documented contract with the engine: any
// binding whose name starts with it was never authored by a user and is
// filtered out of explanations. Engines that can afford it should set
// Binding.Synthetic instead; the prefix is honored either way.
const GenPrefix = "__gen_"

// Binding is one bound variable carried by a token.
type Binding struct {
	Name      string
	Value     any
	Synthetic bool // set by the engine for join variables it introduced
}

// Element is one (fact, node) pair inside a token: the fact matched the
// condition implemented by the identified network node.
type Element struct {
	Fact   Fact
	NodeID int64
}

// Token is the engine's record of a partial or complete match: the facts
// joined so far, in condition order, plus the variables they bound.
type Token struct {
	Matches  []Element
	Bindings []Binding
}

// Hash returns a stable identifier for the token, derived from its
// (node, fact) chain. Used to key per-token engine state such as
// accumulator consumption sets.
func (t Token) Hash() string {
	keys := make([]string, len(t.Matches))
	for i, el := range t.Matches {
		keys[i] = fmt.Sprintf("%d=%s", el.NodeID, el.Fact.Key())
	}
	sum := sha1.Sum([]byte(strings.Join(keys, "|")))
	return hex.EncodeToString(sum[:])
}
