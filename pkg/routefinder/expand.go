package routefinder

import "sort"

// otherEndpoint returns the endpoint of e opposite n, panicking if n is not
// one of e's endpoints (an internal invariant: callers only pass edges
// already known to touch n).
func otherEndpoint(e Edge, n NodeID) NodeID {
	other, ok := e.Inverse(n)
	if !ok {
		panic(&InvariantViolationError{What: "otherEndpoint", Detail: "edge " + string(e.ID) + " does not touch " + string(n)})
	}
	return other
}

// neededCount returns how many tokens of kid must be held to satisfy e's
// requirement on kid (spec §4.4): reusable keys need just one (owning once
// covers any multiplicity); consumable keys need the edge's own declared
// count; removable keys need min_occurrences(kid, e) — the minimum
// cumulative count of kid on any path from start to e's destination, which
// grows edge over edge along a chain even though no single edge debits
// more than its own declared count (see consumedKeys).
func neededCount(graph *CompiledGraph, kid KeyID, e Edge) int {
	key, ok := graph.Key(kid)
	if !ok {
		return e.Keys.Count(kid)
	}
	switch key.Kind {
	case Reusable:
		return 1
	case Removable:
		return minOccurrences(graph, kid, e.Dest, make(map[NodeID]int), make(map[NodeID]bool))
	default:
		return e.Keys.Count(kid)
	}
}

// isSatisfied reports whether every required node of e is visited and
// every required key is held in sufficient quantity (spec §4.4).
func isSatisfied(state *State, e Edge) bool {
	for _, n := range e.ReqNodes {
		if !state.Visited(n) {
			return false
		}
	}
	for _, kid := range e.Keys.SortedIDs() {
		need := neededCount(state.graph, kid, e)
		if state.keys.Count(kid) < need {
			return false
		}
	}
	return true
}

// consumedKeys returns the keys debited from the held multiset when e is
// taken: only consumable required keys are spent, at the edge's own
// declared multiplicity. Reusable keys persist for the rest of the
// segment; removable keys also persist once held — it is the rising
// min_occurrences threshold in neededCount, not debiting, that forces a
// removable key to be placed again further down a chain (spec §4.4, §9
// "Removable key" glossary entry).
func consumedKeys(graph *CompiledGraph, e Edge) KeyMultiset {
	out := KeyMultiset{}
	for _, kid := range e.Keys.SortedIDs() {
		key, ok := graph.Key(kid)
		if ok && key.Kind != Consumable {
			continue
		}
		out = out.AddRange(kid, e.Keys.Count(kid))
	}
	return out
}

// minOccurrences computes the minimum cumulative count of kid on any path
// from start to target, summing required_keys occurrences of kid along
// each path's edges (spec §4.4). Memoized in the cache and inProgress maps
// the caller passes in (neededCount passes fresh ones on every call);
// cyclic re-entry contributes nothing to the minimum.
func minOccurrences(graph *CompiledGraph, kid KeyID, target NodeID, cache map[NodeID]int, inProgress map[NodeID]bool) int {
	const unreachable = 1 << 30

	if target == graph.start {
		return 0
	}
	if v, ok := cache[target]; ok {
		return v
	}
	if inProgress[target] {
		return unreachable
	}
	inProgress[target] = true

	best := unreachable
	for _, e := range graph.EdgesTo(target) {
		other := otherEndpoint(e, target)
		sub := minOccurrences(graph, kid, other, cache, inProgress)
		if sub >= unreachable {
			continue
		}
		total := sub + e.Keys.Count(kid)
		if total < best {
			best = total
		}
	}

	delete(inProgress, target)
	if best >= unreachable {
		best = 0
	}
	cache[target] = best
	return best
}

// expand iterates the expansion engine to a fixed point: repeatedly
// promote every currently-satisfied edge in next, discovering newly
// reachable nodes and deferring OneWay/NoReturn edges, until a full pass
// adds nothing (spec §4.4).
func expand(state *State) *State {
	for {
		var satisfied []Edge
		for _, e := range state.Next() {
			if isSatisfied(state, e) {
				satisfied = append(satisfied, e)
			}
		}
		if len(satisfied) == 0 {
			return state
		}

		sort.Slice(satisfied, func(i, j int) bool { return satisfied[i].ID < satisfied[j].ID })

		for _, e := range satisfied {
			if _, stillNext := state.next[e.ID]; !stillNext {
				continue // already promoted earlier in this pass via a rejoin
			}

			srcVisited := state.Visited(e.Source)
			dstVisited := state.Visited(e.Dest)

			state = state.useKey(e.ID, consumedKeys(state.graph, e))

			switch {
			case srcVisited && !dstVisited:
				if e.Kind == OneWayEdge || e.Kind == NoReturnEdge {
					state = state.addOneWay(e)
				} else {
					state = state.visitNode(e.Dest)
				}
			case !srcVisited && dstVisited:
				state = state.visitNode(e.Source)
			}
		}
	}
}
