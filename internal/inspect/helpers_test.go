package inspect

import (
	"testing"

	"go.uber.org/goleak"

	"retrospect/internal/rete"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func coldFact(temperature int) rete.GenericFact {
	return rete.GenericFact{Type: "Cold", Fields: map[string]any{"temperature": temperature}}
}

func coldCondition() rete.Condition {
	return rete.Condition{
		Type:                "Cold",
		Constraints:         []string{"(< temperature 0)"},
		OriginalConstraints: []string{"temperature < 0"},
	}
}

// testSession builds one session with a plain rule, an accumulator rule
// and a query:
//
//	rule temperature-alert:  Cold[temperature < 0]       => insert Alert
//	rule coldest-report:     min from Cold[temperature < 0]
//	query get-cold:          Cold[temperature < 0]
//
// Working memory holds Cold{-10} and Cold{-5}; the alert token matched
// Cold{-10} binding t = -10, and the accumulator reduced both Cold
// facts to -10.
func testSession() *rete.Session {
	cold := coldCondition()
	minAccum := rete.Accumulator{Fn: "min", From: &cold}

	rb := &rete.RuleBase{
		Productions: []rete.Rule{
			{Name: "temperature-alert", Conditions: []rete.Condition{cold}, Action: "(insert Alert)"},
			{Name: "coldest-report", Conditions: []rete.Condition{{Accumulator: &minAccum}}, Action: "(report m)"},
		},
		Queries: []rete.Query{
			{Name: "get-cold", Conditions: []rete.Condition{cold}, Params: []string{"t"}},
		},
		ProductionNodes: map[string]int64{
			"temperature-alert": 10,
			"coldest-report":    11,
		},
		QueryNodes: map[string]int64{"get-cold": 12},
		Nodes: map[int64]rete.Node{
			1:  {ID: 1, Kind: rete.KindJoin, Condition: &cold},
			3:  {ID: 3, Kind: rete.KindAccumulate, Accumulator: &minAccum},
			10: {ID: 10, Kind: rete.KindProduction},
			11: {ID: 11, Kind: rete.KindProduction},
			12: {ID: 12, Kind: rete.KindQuery},
		},
	}

	alertToken := rete.Token{
		Matches: []rete.Element{{Fact: coldFact(-10), NodeID: 1}},
		Bindings: []rete.Binding{
			{Name: "t", Value: -10},
			{Name: rete.GenPrefix + "join_0", Value: -10},
		},
	}
	coldestToken := rete.Token{
		Matches:  []rete.Element{{Fact: rete.Value{V: -10}, NodeID: 3}},
		Bindings: []rete.Binding{{Name: "m", Value: -10}},
	}

	mem := rete.NewSnapshotMemory()
	mem.AddElements(1, coldFact(-10), coldFact(-5))
	mem.AddToken(10, alertToken)
	mem.AddToken(11, coldestToken)
	mem.AddToken(12, alertToken)
	mem.AddInsertion(10, alertToken, []rete.Fact{
		rete.GenericFact{Type: "Alert", Fields: map[string]any{"temperature": -10}},
	})
	mem.SetAccumConsumed(3, coldestToken, []rete.Fact{coldFact(-10), coldFact(-5)})

	return &rete.Session{RuleBase: rb, Memory: mem}
}
