package rete

import (
	"strings"
)

// Condition describes one declared pattern condition of a rule or query.
//
// Constraints always carries the compiled constraint expressions the
// network actually evaluates. OriginalConstraints, when present, carries
// the human-authored form before expansion; explanation output prefers
// it. Negated marks a condition satisfied by the absence of a matching
// fact. Accumulator, when set, makes this an aggregating condition and
// Type is empty.
type Condition struct {
	Type                string       `json:"type,omitempty"`
	Constraints         []string     `json:"constraints,omitempty"`
	OriginalConstraints []string     `json:"original_constraints,omitempty"`
	Negated             bool         `json:"negated,omitempty"`
	Accumulator         *Accumulator `json:"accumulator,omitempty"`
}

// Accumulator names an aggregation function and the source condition
// whose matches it reduces to a single value.
type Accumulator struct {
	Fn   string     `json:"fn"`
	From *Condition `json:"from,omitempty"`
}

// ConstraintText returns the authored constraint form when the engine
// preserved it, falling back to the compiled form.
func (c Condition) ConstraintText() []string {
	if len(c.OriginalConstraints) > 0 {
		return c.OriginalConstraints
	}
	return c.Constraints
}

// Key returns a canonical string for the condition, usable as a map key.
// Two nodes implementing the same declared condition produce equal keys.
func (c Condition) Key() string {
	var sb strings.Builder
	if c.Negated {
		sb.WriteString("not ")
	}
	if c.Accumulator != nil {
		sb.WriteString(c.Accumulator.Fn)
		sb.WriteString(" from ")
		if c.Accumulator.From != nil {
			sb.WriteString(c.Accumulator.From.Key())
		}
		return sb.String()
	}
	sb.WriteString(c.Type)
	sb.WriteString("[")
	sb.WriteString(strings.Join(c.ConstraintText(), ", "))
	sb.WriteString("]")
	return sb.String()
}

// label is the short form used when deriving identities for unnamed
// rules and queries.
func (c Condition) label() string {
	if c.Accumulator != nil {
		src := ""
		if c.Accumulator.From != nil {
			src = c.Accumulator.From.Type
		}
		return c.Accumulator.Fn + "(" + src + ")"
	}
	if c.Negated {
		return "not " + c.Type
	}
	return c.Type
}
