package prefabs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseGraphYAML(t *testing.T) {
	g, err := ParseGraph([]byte(`
nodes:
  - {id: e, type: Event, label: On Tick}
  - {id: a, type: Action, label: Move Right}
  - {id: b, type: Action, label: Move Up}
wires:
  - {id: w1, from_node: e, from_pin: exec_out, to_node: a}
  - {id: w2, from_node: e, from_pin: value_out, to_node: b}
  - {id: w3, from_node: e, from_pin: Exec, to_node: ghost}
`))
	require.NoError(t, err)

	targets := g.ExecTargets("e")
	require.Len(t, targets, 1, "data pins and dangling wires are skipped")
	assert.Equal(t, "a", targets[0].ID)
}

func TestParseGraphCamelCaseJSON(t *testing.T) {
	g, err := ParseGraph([]byte(`{
  "nodes": [
    {"id": "e", "type": "Event", "label": "Start"},
    {"id": "d", "type": "Narrative", "label": "Show Dialog", "data": {"text": "hi", "actor": "ME"}}
  ],
  "wires": [{"id": "w", "fromNode": "e", "fromPin": "exec-0", "toNode": "d", "toPin": "exec-in"}]
}`))
	require.NoError(t, err)

	targets := g.ExecTargets("e")
	require.Len(t, targets, 1)
	assert.Equal(t, "hi", targets[0].DataString("text", "default"))
	assert.Equal(t, "fallback", targets[0].DataString("missing", "fallback"))
}

func TestNewGraphRejectsDuplicateIDs(t *testing.T) {
	_, err := NewGraph([]GraphNode{{ID: "x"}, {ID: "x"}}, nil)
	require.ErrorIs(t, err, ErrInvalidGraph)

	_, err = ParseGraph([]byte("nodes: [oops"))
	require.ErrorIs(t, err, ErrInvalidGraph)
}

func TestValidateReportsIssues(t *testing.T) {
	g, err := NewGraph(
		[]GraphNode{
			{ID: "lonely", Type: NodeEvent},
			{ID: "weird", Type: "Quest"},
		},
		[]Wire{{ID: "w", FromNode: "lonely", FromPin: "value", ToNode: "nowhere"}},
	)
	require.NoError(t, err)

	issues := g.Validate()
	var errs, warns int
	for _, issue := range issues {
		switch issue.Severity {
		case SeverityError:
			errs++
		case SeverityWarn:
			warns++
		}
	}
	assert.Equal(t, 1, errs)
	assert.Equal(t, 2, warns)
}

func TestEmptyGraphLookupsAreNoops(t *testing.T) {
	g := EmptyGraph()
	_, ok := g.Node("anything")
	assert.False(t, ok)
	assert.Empty(t, g.ExecTargets("anything"))

	var nilGraph *Graph
	assert.Empty(t, nilGraph.ExecTargets("x"))
}

func TestEmbeddedGraphIsValid(t *testing.T) {
	g, err := LoadGraph("graph.yaml")
	require.NoError(t, err)
	for _, issue := range g.Validate() {
		t.Errorf("unexpected issue: %+v", issue)
	}
}
