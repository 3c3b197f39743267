package transparency

import (
	"fmt"
	"sort"
	"strings"

	"retrospect/internal/inspect"
)

// RuleFilter decides whether a rule or query identity is rendered.
type RuleFilter func(identity string) bool

// Renderer builds human-readable session explanations from an
// InspectionSnapshot.
type Renderer struct {
	filter RuleFilter
}

// NewRenderer creates a renderer that accepts every rule.
func NewRenderer() *Renderer {
	return &Renderer{filter: func(string) bool { return true }}
}

// SetRuleFilter restricts rendering to rules and queries the filter
// accepts.
func (r *Renderer) SetRuleFilter(f RuleFilter) {
	if f == nil {
		f = func(string) bool { return true }
	}
	r.filter = f
}

// ExplainSession renders every matched rule and query that passes the
// filter. Rules and queries with zero explanations are omitted; a filter
// rejecting everything yields empty output.
func (r *Renderer) ExplainSession(snap *inspect.InspectionSnapshot) string {
	var sb strings.Builder

	for _, identity := range sortedKeys(snap.RuleMatches) {
		explanations := snap.RuleMatches[identity]
		if len(explanations) == 0 || !r.filter(identity) {
			continue
		}
		rule := snap.Rules[identity]

		sb.WriteString(fmt.Sprintf("rule %s\n", identity))
		if rule.Action != "" {
			sb.WriteString("  executed\n")
			sb.WriteString("    " + rule.Action + "\n")
		}
		for _, ex := range explanations {
			writeExplanation(&sb, ex)
		}
		sb.WriteString("\n")
	}

	for _, identity := range sortedKeys(snap.QueryMatches) {
		explanations := snap.QueryMatches[identity]
		if len(explanations) == 0 || !r.filter(identity) {
			continue
		}

		sb.WriteString(fmt.Sprintf("query %s\n", identity))
		for _, ex := range explanations {
			writeExplanation(&sb, ex)
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeExplanation(sb *strings.Builder, ex inspect.Explanation) {
	sb.WriteString("  with bindings\n")
	sb.WriteString("    " + formatBindings(ex.Bindings) + "\n")
	sb.WriteString("  because\n")
	for _, m := range ex.Matches {
		sb.WriteString("    " + describeMatch(m) + "\n")
	}
}

// describeMatch formats one condition-level match. Missing metadata
// never fails rendering; empty pieces render as empty.
func describeMatch(m inspect.ConditionMatch) string {
	cond := m.Condition
	if acc := cond.Accumulator; acc != nil {
		srcType, srcWhere := "", ""
		if acc.From != nil {
			srcType = acc.From.Type
			srcWhere = strings.Join(acc.From.ConstraintText(), ", ")
		}
		return fmt.Sprintf("%v accumulated with %s from %s where [%s]", m.Fact, acc.Fn, srcType, srcWhere)
	}
	return fmt.Sprintf("%v is a %s where [%s]", m.Fact, cond.Type, strings.Join(cond.ConstraintText(), ", "))
}

func formatBindings(bindings map[string]any) string {
	names := make([]string, 0, len(bindings))
	for name := range bindings {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %v", name, bindings[name])
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
