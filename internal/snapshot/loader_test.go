package snapshot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"retrospect/internal/inspect"
	"retrospect/internal/rete"
)

const sessionDump = `
session: weather
nodes:
  - id: 1
    kind: join
    condition:
      type: Cold
      constraints: ["(< temperature 0)"]
      original: ["temperature < 0"]
  - id: 2
    kind: negation
    condition:
      type: Windy
      constraints: ["speed > 30"]
  - id: 3
    kind: accumulate
    accumulator:
      fn: min
      from:
        type: Cold
        original: ["temperature < 0"]
  - id: 9
    kind: grouped-beta-split
  - id: 10
    kind: production
  - id: 12
    kind: query
rules:
  - name: temperature-alert
    node: 10
    action: "(insert Alert)"
    conditions:
      - type: Cold
        original: ["temperature < 0"]
queries:
  - name: get-cold
    node: 12
    params: [t]
    conditions:
      - type: Cold
        original: ["temperature < 0"]
memory:
  elements:
    1:
      - type: Cold
        fields: {temperature: -10}
      - type: Cold
        fields: {temperature: -5}
  tokens:
    10:
      - matches:
          - node: 1
            fact: {type: Cold, fields: {temperature: -10}}
        bindings:
          - {name: t, value: -10}
          - {name: __gen_join_0, value: -10}
    12:
      - matches:
          - node: 1
            fact: {type: Cold, fields: {temperature: -10}}
        bindings:
          - {name: t, value: -10}
  insertions:
    10:
      - token:
          matches:
            - node: 1
              fact: {type: Cold, fields: {temperature: -10}}
        groups:
          - [{type: Alert, fields: {temperature: -10}}]
  accumulated:
    - node: 3
      token:
        matches:
          - node: 3
            fact: {value: -10}
      facts:
        - {type: Cold, fields: {temperature: -10}}
        - {type: Cold, fields: {temperature: -5}}
`

func TestParse(t *testing.T) {
	sess, err := Parse([]byte(sessionDump))
	require.NoError(t, err)

	rb := sess.RuleBase
	require.Len(t, rb.Productions, 1)
	require.Len(t, rb.Queries, 1)
	assert.Equal(t, int64(10), rb.ProductionNodes["temperature-alert"])
	assert.Equal(t, int64(12), rb.QueryNodes["get-cold"])

	t.Run("node kinds map onto the vocabulary", func(t *testing.T) {
		node, err := rb.Node(1)
		require.NoError(t, err)
		assert.Equal(t, rete.KindJoin, node.Kind)
		require.NotNil(t, node.Condition)
		assert.Equal(t, []string{"temperature < 0"}, node.Condition.ConstraintText())

		neg, err := rb.Node(2)
		require.NoError(t, err)
		assert.Equal(t, rete.KindNegation, neg.Kind)

		acc, err := rb.Node(3)
		require.NoError(t, err)
		require.NotNil(t, acc.Accumulator)
		assert.Equal(t, "min", acc.Accumulator.Fn)
	})

	t.Run("unrecognized kinds load as unsupported", func(t *testing.T) {
		node, err := rb.Node(9)
		require.NoError(t, err)
		assert.Equal(t, rete.KindUnsupported, node.Kind)
	})

	t.Run("memory round-trips", func(t *testing.T) {
		assert.Len(t, sess.Memory.ElementsAll(1), 2)
		require.Len(t, sess.Memory.TokensAll(10), 1)
		require.Len(t, sess.Memory.InsertionsAll(10), 1)
	})
}

func TestParsedSessionInspects(t *testing.T) {
	sess, err := Parse([]byte(sessionDump))
	require.NoError(t, err)

	snap, err := inspect.Inspect(sess)
	require.NoError(t, err)

	matches := snap.RuleMatches["temperature-alert"]
	require.Len(t, matches, 1)
	assert.Equal(t, map[string]any{"t": -10}, matches[0].Bindings)

	alert := rete.GenericFact{Type: "Alert", Fields: map[string]any{"temperature": -10}}
	assert.NotEmpty(t, snap.WhyFact(alert))
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sessionDump), 0o644))

	sess, err := Load(path)
	require.NoError(t, err)
	assert.NotNil(t, sess.RuleBase)

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
