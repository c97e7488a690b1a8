package routefinder

import "sort"

// RouteSolverResult is a bitmask describing issues the route solver found
// in a finished placement (spec §4.6).
type RouteSolverResult int

const (
	// SolveOk indicates no issue was found.
	SolveOk RouteSolverResult = 0
	// PotentialSoftlock indicates some pessimistic pickup order reaches a
	// state where no further edge can be unlocked while nodes remain
	// unvisited.
	PotentialSoftlock RouteSolverResult = 1 << iota
)

// solverBudget caps the number of distinct states the pessimistic-player
// search explores, per spec §4.6's "implementations may approximate with
// a bounded search" — large graphs with many independent forks would
// otherwise make the existential search over pickup orders exponential.
const solverBudget = 20000

// solverState is the pessimistic player's view: which nodes have been
// reached and which keys have been picked up so far. Unlike the driver's
// State, a finished placement has no segment boundaries left to respect —
// every item's key is already fixed, so the solver only has to ask "in
// what order could a player reach them".
type solverState struct {
	visited map[NodeID]bool
	keys    KeyMultiset
}

func (s solverState) signature() string {
	ids := make([]string, 0, len(s.visited))
	for id := range s.visited {
		ids = append(ids, string(id))
	}
	sort.Strings(ids)
	sig := ""
	for _, id := range ids {
		sig += id + ","
	}
	sig += "|"
	for _, kid := range s.keys.SortedIDs() {
		sig += string(kid) + "=" + itoa(s.keys.Count(kid)) + ","
	}
	return sig
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// solve runs the pessimistic-player simulation against a finished
// placement: itemToKey is the flattened item -> placed keys assignment (as
// exposed by Route.GetItemContents/GetItemsContainingKey), already decided
// by the driver. The solver asks whether ANY order of visiting nodes and
// collecting keys could strand the player with unvisited nodes remaining
// and no edge left to unlock (spec §4.6).
func solve(graph *CompiledGraph, itemToKey map[NodeID][]KeyID) RouteSolverResult {
	start := solverState{visited: map[NodeID]bool{graph.start: true}, keys: KeyMultiset{}}
	start = grantItemKeys(start, graph.start, itemToKey)

	seen := make(map[string]bool)
	budget := solverBudget
	if explorePessimistic(graph, itemToKey, start, seen, &budget) {
		return PotentialSoftlock
	}
	return SolveOk
}

// grantItemKeys adds whatever keys are placed at n (if n is an Item) to
// state's held multiset — a pessimistic player always picks up a key the
// moment its item becomes reachable.
func grantItemKeys(state solverState, n NodeID, itemToKey map[NodeID][]KeyID) solverState {
	for _, kid := range itemToKey[n] {
		state.keys = state.keys.Add(kid)
	}
	return state
}

// edgeReady reports whether e can be crossed from state: every required
// node already visited, and every required key held in at least
// neededCount quantity.
func edgeReady(graph *CompiledGraph, state solverState, e Edge) bool {
	for _, n := range e.ReqNodes {
		if !state.visited[n] {
			return false
		}
	}
	for _, kid := range e.Keys.SortedIDs() {
		if state.keys.Count(kid) < neededCount(graph, kid, e) {
			return false
		}
	}
	return true
}

// allVisited reports whether every node in the graph is in state.visited.
func allSolverNodesVisited(graph *CompiledGraph, state solverState) bool {
	for _, id := range graph.NodeIDs() {
		if !state.visited[id] {
			return false
		}
	}
	return true
}

// explorePessimistic performs the existential DFS: it returns true as soon
// as it finds one reachable dead-end-with-nodes-remaining state.
func explorePessimistic(graph *CompiledGraph, itemToKey map[NodeID][]KeyID, state solverState, seen map[string]bool, budget *int) bool {
	if *budget <= 0 {
		return false
	}
	sig := state.signature()
	if seen[sig] {
		return false
	}
	seen[sig] = true
	*budget--

	var candidates []Edge
	taken := make(map[EdgeID]bool)
	for n := range state.visited {
		for _, e := range graph.EdgesFrom(n) {
			if taken[e.ID] {
				continue
			}
			other := otherEndpoint(e, n)
			if state.visited[other] {
				continue
			}
			if !edgeReady(graph, state, e) {
				continue
			}
			taken[e.ID] = true
			candidates = append(candidates, e)
		}
	}

	if len(candidates) == 0 {
		return !allSolverNodesVisited(graph, state)
	}

	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })

	for _, e := range candidates {
		next := solverState{
			visited: cloneVisited(state.visited),
			keys:    state.keys.Clone(),
		}
		other := otherSideOf(e, next.visited)
		next.visited[other] = true
		spent := consumedKeys(graph, e)
		for _, kid := range spent.SortedIDs() {
			next.keys = next.keys.RemoveMany(kid, spent.Count(kid))
		}
		next = grantItemKeys(next, other, itemToKey)

		if explorePessimistic(graph, itemToKey, next, seen, budget) {
			return true
		}
	}
	return false
}

func cloneVisited(v map[NodeID]bool) map[NodeID]bool {
	out := make(map[NodeID]bool, len(v))
	for k := range v {
		out[k] = true
	}
	return out
}

// otherSideOf returns whichever endpoint of e is not already visited.
func otherSideOf(e Edge, visited map[NodeID]bool) NodeID {
	if visited[e.Source] {
		return e.Dest
	}
	return e.Source
}
