package routefinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSimpleGraph(t *testing.T) *CompiledGraph {
	t.Helper()
	g := NewGraph().
		AndGate("start", 0, "Start").
		Item("room", 0, "Room").
		AndGate("goal", 0, "Goal").
		ReusableKey("k0", 0).
		Door("start", "room", KeyMultiset{}, nil).
		Door("room", "goal", NewKeyMultiset("k0"), nil).
		SetStart("start")

	compiled, err := g.Build()
	require.NoError(t, err)
	return compiled
}

func TestCompiledGraph_Start(t *testing.T) {
	compiled := buildSimpleGraph(t)
	assert.Equal(t, NodeID("start"), compiled.Start())
}

func TestCompiledGraph_NodeIDs(t *testing.T) {
	compiled := buildSimpleGraph(t)
	ids := compiled.NodeIDs()
	assert.Len(t, ids, 3)
}

func TestCompiledGraph_Node_NotFound(t *testing.T) {
	compiled := buildSimpleGraph(t)
	_, ok := compiled.Node("missing")
	assert.False(t, ok)
}

func TestCompiledGraph_Keys(t *testing.T) {
	compiled := buildSimpleGraph(t)
	keys := compiled.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, KeyID("k0"), keys[0].ID)
}

func TestCompiledGraph_EdgesFrom_TwoWayBothEndpoints(t *testing.T) {
	compiled := buildSimpleGraph(t)

	fromStart := compiled.EdgesFrom("start")
	require.Len(t, fromStart, 1)

	fromRoom := compiled.EdgesFrom("room")
	require.Len(t, fromRoom, 2, "two-way edges are valid sources from either endpoint")
}

func TestCompiledGraph_EdgesTo(t *testing.T) {
	compiled := buildSimpleGraph(t)

	toGoal := compiled.EdgesTo("goal")
	require.Len(t, toGoal, 1)
	assert.Equal(t, NodeID("goal"), toGoal[0].Dest)
}

func TestCompiledGraph_String(t *testing.T) {
	compiled := buildSimpleGraph(t)
	s := compiled.String()
	assert.Contains(t, s, "nodes=3")
	assert.Contains(t, s, "edges=2")
	assert.Contains(t, s, "keys=1")
}

func TestCompiledGraph_ReachableFromStart(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("isolated", 0, "").
		SetStart("start")

	compiled, err := g.Build()
	require.NoError(t, err)

	reachable := compiled.reachableFromStart()
	assert.True(t, reachable["start"])
	assert.False(t, reachable["isolated"])
}

func TestGraph_Build_EdgeSliceIndependentOfBuilder(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("goal", 0, "").
		Door("start", "goal", KeyMultiset{}, []NodeID{"start"}).
		SetStart("start")

	compiled, err := g.Build()
	require.NoError(t, err)

	g.AddEdge("start", "goal", TwoWay, KeyMultiset{}, nil)

	assert.Len(t, compiled.Edges(), 1, "edges added to the builder after Build() must not affect the compiled graph")
}
