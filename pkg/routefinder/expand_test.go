package routefinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSatisfied_NodeRequirement(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("gate", 0, "").
		AndGate("goal", 0, "").
		Door("start", "gate", KeyMultiset{}, nil).
		Door("gate", "goal", KeyMultiset{}, []NodeID{"gate"}).
		SetStart("start")
	compiled, err := g.Build()
	require.NoError(t, err)

	edge := compiled.EdgesFrom("gate")[1]
	require.Equal(t, NodeID("goal"), edge.Dest)

	state := newEmptyState(compiled)
	assert.False(t, isSatisfied(state, edge))

	state = state.visitNode("gate")
	assert.True(t, isSatisfied(state, edge))
}

func TestIsSatisfied_ReusableKeyNeedsOnlyOne(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("goal", 0, "").
		ReusableKey("k0", 0).
		Door("start", "goal", NewKeyMultiset("k0", "k0"), nil).
		SetStart("start")
	compiled, err := g.Build()
	require.NoError(t, err)

	edge := compiled.EdgesFrom("start")[0]
	state := newEmptyState(compiled)
	state.keys = NewKeyMultiset("k0")

	assert.True(t, isSatisfied(state, edge))
}

func TestIsSatisfied_ConsumableNeedsDeclaredCount(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("goal", 0, "").
		ConsumableKey("bomb", 0).
		Door("start", "goal", NewKeyMultiset("bomb", "bomb"), nil).
		SetStart("start")
	compiled, err := g.Build()
	require.NoError(t, err)

	edge := compiled.EdgesFrom("start")[0]
	state := newEmptyState(compiled)
	state.keys = NewKeyMultiset("bomb")

	assert.False(t, isSatisfied(state, edge))

	state.keys = NewKeyMultiset("bomb", "bomb")
	assert.True(t, isSatisfied(state, edge))
}

func TestConsumedKeys_OnlyConsumable(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("goal", 0, "").
		ReusableKey("reuse", 0).
		ConsumableKey("burn", 0).
		Door("start", "goal", NewKeyMultiset("reuse", "burn"), nil).
		SetStart("start")
	compiled, err := g.Build()
	require.NoError(t, err)

	edge := compiled.EdgesFrom("start")[0]
	consumed := consumedKeys(compiled, edge)

	assert.Equal(t, 0, consumed.Count("reuse"))
	assert.Equal(t, 1, consumed.Count("burn"))
}

func TestMinOccurrences_GrowsAlongChain(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("mid", 0, "").
		AndGate("goal", 0, "").
		RemovableKey("k0", 0).
		Door("start", "mid", NewKeyMultiset("k0"), nil).
		Door("mid", "goal", NewKeyMultiset("k0", "k0"), nil).
		SetStart("start")
	compiled, err := g.Build()
	require.NoError(t, err)

	assert.Equal(t, 0, minOccurrences(compiled, "k0", "start", map[NodeID]int{}, map[NodeID]bool{}))
	assert.Equal(t, 1, minOccurrences(compiled, "k0", "mid", map[NodeID]int{}, map[NodeID]bool{}))
	assert.Equal(t, 3, minOccurrences(compiled, "k0", "goal", map[NodeID]int{}, map[NodeID]bool{}))
}

func TestExpand_PromotesSatisfiedEdgesToFixedPoint(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		Item("chest", 0, "").
		AndGate("goal", 0, "").
		ReusableKey("k0", 0).
		Door("start", "chest", KeyMultiset{}, nil).
		Door("chest", "goal", NewKeyMultiset("k0"), nil).
		SetStart("start")
	compiled, err := g.Build()
	require.NoError(t, err)

	state := newEmptyState(compiled).visitNode("start")
	state = expand(state)

	assert.True(t, state.Visited("chest"))
	assert.False(t, state.Visited("goal"), "goal requires k0, which has not been placed yet")
}

func TestExpand_DefersOneWayEdges(t *testing.T) {
	g := NewGraph().
		AndGate("start", 0, "").
		AndGate("branch", 0, "").
		AddOneWayEdge("start", "branch", KeyMultiset{}, nil).
		SetStart("start")
	compiled, err := g.Build()
	require.NoError(t, err)

	state := newEmptyState(compiled).visitNode("start")
	state = expand(state)

	assert.False(t, state.Visited("branch"))
	assert.NotEmpty(t, state.oneWay)
}
