package rete

import (
	"fmt"
	"sort"
	"strings"
)

// Fact is anything the engine holds in working memory. Key must be unique
// within a snapshot; it is used to index provenance and to hash tokens.
type Fact interface {
	Key() string
	String() string
}

// GenericFact is a typed record fact: a fact type plus named fields.
type GenericFact struct {
	Type   string         `json:"type"`
	Fields map[string]any `json:"fields,omitempty"`
}

// String returns the canonical rendering, e.g. `Cold{temperature: -10}`.
// Fields are sorted by name so the rendering is stable.
func (f GenericFact) String() string {
	if len(f.Fields) == 0 {
		return f.Type
	}
	names := make([]string, 0, len(f.Fields))
	for name := range f.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %v", name, f.Fields[name])
	}
	return fmt.Sprintf("%s{%s}", f.Type, strings.Join(parts, ", "))
}

// Key returns the canonical rendering; two facts with identical type and
// fields are the same fact for provenance purposes.
func (f GenericFact) Key() string { return f.String() }

// Value is a scalar flowing through the network as a fact, most commonly
// an accumulator's aggregation result.
type Value struct {
	V any `json:"value"`
}

func (v Value) String() string { return fmt.Sprintf("%v", v.V) }

func (v Value) Key() string { return v.String() }
