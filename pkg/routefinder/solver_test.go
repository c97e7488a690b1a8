package routefinder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSolve_OkWhenOnlyOrderIsForced(t *testing.T) {
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

	placements := map[NodeID][]KeyID{"chest": {"k0"}}
	assert.Equal(t, SolveOk, solve(compiled, placements))
}

func TestSolve_PotentialSoftlock_SharedConsumableKey(t *testing.T) {
	g := NewGraph().
		AndGate("hub", 0, "").
		Item("supply", 0, "").
		AndGate("door-a", 0, "").
		AndGate("door-b", 0, "").
		ConsumableKey("bomb", 0).
		Door("hub", "supply", KeyMultiset{}, nil).
		Door("supply", "door-a", NewKeyMultiset("bomb"), nil).
		Door("supply", "door-b", NewKeyMultiset("bomb"), nil).
		SetStart("hub")
	compiled, err := g.Build()
	require.NoError(t, err)

	placements := map[NodeID][]KeyID{"supply": {"bomb"}}
	result := solve(compiled, placements)

	assert.NotEqual(t, SolveOk, result&PotentialSoftlock, "a pessimistic player spends bomb on one door and can never reach the other")
}

func TestSolve_NoSoftlockWhenEnoughCopies(t *testing.T) {
	g := NewGraph().
		AndGate("hub", 0, "").
		Item("supply-a", 0, "").
		Item("supply-b", 0, "").
		AndGate("door-a", 0, "").
		AndGate("door-b", 0, "").
		ConsumableKey("bomb", 0).
		Door("hub", "supply-a", KeyMultiset{}, nil).
		Door("hub", "supply-b", KeyMultiset{}, nil).
		Door("supply-a", "door-a", NewKeyMultiset("bomb"), nil).
		Door("supply-b", "door-b", NewKeyMultiset("bomb"), nil).
		SetStart("hub")
	compiled, err := g.Build()
	require.NoError(t, err)

	placements := map[NodeID][]KeyID{"supply-a": {"bomb"}, "supply-b": {"bomb"}}
	assert.Equal(t, SolveOk, solve(compiled, placements))
}

func TestSolverState_Signature_OrderIndependent(t *testing.T) {
	a := solverState{visited: map[NodeID]bool{"x": true, "y": true}, keys: NewKeyMultiset("k0", "k1")}
	b := solverState{visited: map[NodeID]bool{"y": true, "x": true}, keys: NewKeyMultiset("k1", "k0")}

	assert.Equal(t, a.signature(), b.signature())
}

func TestSolverState_Signature_DistinguishesCounts(t *testing.T) {
	a := solverState{visited: map[NodeID]bool{"x": true}, keys: NewKeyMultiset("k0")}
	b := solverState{visited: map[NodeID]bool{"x": true}, keys: NewKeyMultiset("k0", "k0")}

	assert.NotEqual(t, a.signature(), b.signature())
}
