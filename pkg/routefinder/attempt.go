package routefinder

import "sort"

// Each placement attempt below is a forward action (place the required
// keys, then take the edge) with an implicit compensation. Unlike the
// teacher's saga package, compensation here needs no explicit rollback
// handler — failure just means the speculative state produced by the
// attempt is discarded and the driver continues from the snapshot it
// started from (spec §9: persistent snapshots make undo free).

// missingKeys returns, for each distinct key e requires, how many more
// tokens state must still acquire to satisfy e (spec §4.5 step 4).
func missingKeys(state *State, e Edge) KeyMultiset {
	out := KeyMultiset{}
	for _, kid := range e.Keys.SortedIDs() {
		need := neededCount(state.graph, kid, e)
		held := state.keys.Count(kid)
		if held < need {
			out = out.AddRange(kid, need-held)
		}
	}
	return out
}

// lookaheadKeys augments missing with consumable tokens that other pending
// edges in next would also need, so a single attempt reserves enough
// slots for every imminent use rather than exhausting spare items on the
// first edge and starving the next one (spec §9's "consumable multiplicity
// look-ahead" — required for scenario 5, SingleUseKey_DoorAfterDoor, and
// related tests).
func lookaheadKeys(state *State, chosen Edge) KeyMultiset {
	out := missingKeys(state, chosen)
	demand := make(map[KeyID]int)
	for _, kid := range chosen.Keys.SortedIDs() {
		demand[kid] = neededCount(state.graph, kid, chosen)
	}
	for _, e := range state.Next() {
		if e.ID == chosen.ID {
			continue
		}
		for _, kid := range e.Keys.SortedIDs() {
			key, ok := state.graph.Key(kid)
			if !ok || key.Kind != Consumable {
				continue
			}
			demand[kid] += neededCount(state.graph, kid, e)
			held := state.keys.Count(kid)
			alreadyPlanned := out.Count(kid)
			if held+alreadyPlanned < demand[kid] {
				out = out.AddRange(kid, demand[kid]-held-alreadyPlanned)
			}
		}
	}
	return out
}

// attemptPlacement tries once to satisfy chosen by assigning required to
// spare item slots (shuffled in a stable order, greedily matched to the
// first zone-compatible slot), then taking chosen the way expand takes a
// satisfied edge (debit consumable keys, then visit the far side or defer a
// OneWay/NoReturn edge). It returns ok=false and
// the original state unchanged if there are not enough compatible slots
// (spec §4.5 step 4).
func attemptPlacement(state *State, chosen Edge, required KeyMultiset, r *rng) (out *State, ok bool) {
	spares := append([]NodeID(nil), state.SpareItems()...)
	sort.Slice(spares, func(i, j int) bool { return spares[i] < spares[j] })
	r.shuffle(len(spares), func(i, j int) { spares[i], spares[j] = spares[j], spares[i] })

	used := make(map[NodeID]bool, len(spares))
	out = state

	for _, kid := range required.SortedIDs() {
		key, found := state.graph.Key(kid)
		if !found {
			return state, false
		}
		for n := required.Count(kid); n > 0; n-- {
			slot, found := firstCompatibleSlot(out, spares, used, key)
			if !found {
				return state, false
			}
			used[slot] = true
			out = out.placeKey(slot, kid)
		}
	}

	if !isSatisfied(out, chosen) {
		return state, false
	}
	srcVisited := out.Visited(chosen.Source)
	dstVisited := out.Visited(chosen.Dest)
	out = out.useKey(chosen.ID, consumedKeys(out.graph, chosen))
	switch {
	case srcVisited && !dstVisited:
		if chosen.Kind == OneWayEdge || chosen.Kind == NoReturnEdge {
			out = out.addOneWay(chosen)
		} else {
			out = out.visitNode(chosen.Dest)
		}
	case !srcVisited && dstVisited:
		out = out.visitNode(chosen.Source)
	}
	return out, true
}

// firstCompatibleSlot returns the first not-yet-used spare item (in
// spares' shuffled order) whose zone accepts key.
func firstCompatibleSlot(state *State, spares []NodeID, used map[NodeID]bool, key Key) (NodeID, bool) {
	for _, n := range spares {
		if used[n] {
			continue
		}
		node, ok := state.graph.Node(n)
		if !ok {
			continue
		}
		if key.CompatibleWith(node) {
			return n, true
		}
	}
	return "", false
}
