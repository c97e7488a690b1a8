package routefinder

import (
	"github.com/holdfast-games/routefinder/pkg/routefinder/trace"
)

// State is a persistent (copy-on-write) snapshot of search progress within
// one segment (spec §3, §4.2). Every mutator returns a new State; the
// receiver is left unmodified so the driver can cheaply backtrack by
// discarding a snapshot and resuming from an earlier one.
type State struct {
	graph *CompiledGraph

	visited     map[NodeID]bool
	keys        KeyMultiset
	next        map[EdgeID]Edge
	oneWay      map[EdgeID]Edge
	spareItems  map[NodeID]bool
	itemToKey   map[NodeID][]KeyID
	parent      *State
	log         []trace.Entry
}

// newEmptyState builds a segment root with no parent and nothing visited.
func newEmptyState(g *CompiledGraph) *State {
	return &State{
		graph:      g,
		visited:    make(map[NodeID]bool),
		keys:       KeyMultiset{},
		next:       make(map[EdgeID]Edge),
		oneWay:     make(map[EdgeID]Edge),
		spareItems: make(map[NodeID]bool),
		itemToKey:  make(map[NodeID][]KeyID),
	}
}

// clone makes a shallow defensive copy of every mutable collection so a
// mutator can modify the copy without aliasing the receiver (spec §9:
// naive deep-copy would be too slow on large graphs, but our maps are
// small enough per segment that a shallow per-mutation copy is adequate;
// the persistent sharing lives at the *State level, not within one map).
func (s *State) clone() *State {
	n := &State{
		graph:      s.graph,
		visited:    make(map[NodeID]bool, len(s.visited)),
		keys:       s.keys.Clone(),
		next:       make(map[EdgeID]Edge, len(s.next)),
		oneWay:     make(map[EdgeID]Edge, len(s.oneWay)),
		spareItems: make(map[NodeID]bool, len(s.spareItems)),
		itemToKey:  make(map[NodeID][]KeyID, len(s.itemToKey)),
		parent:     s.parent,
		log:        s.log,
	}
	for k, v := range s.visited {
		n.visited[k] = v
	}
	for k, v := range s.next {
		n.next[k] = v
	}
	for k, v := range s.oneWay {
		n.oneWay[k] = v
	}
	for k, v := range s.spareItems {
		n.spareItems[k] = v
	}
	for k, v := range s.itemToKey {
		n.itemToKey[k] = append([]KeyID(nil), v...)
	}
	return n
}

// clear resets to a fresh segment with no parent, seeded with the given
// visited set, held keys, and pending edges (spec §4.2).
func (s *State) clear(visited map[NodeID]bool, keys KeyMultiset, next map[EdgeID]Edge) *State {
	n := newEmptyState(s.graph)
	for id := range visited {
		n.visited[id] = true
	}
	n.keys = keys.Clone()
	for id, e := range next {
		n.next[id] = e
	}
	return n
}

// fork is like clear, but records the receiver as the new segment's
// parent so a later rejoin can merge back upward.
func (s *State) fork(visited map[NodeID]bool, keys KeyMultiset, next map[EdgeID]Edge) *State {
	n := s.clear(visited, keys, next)
	n.parent = s
	return n
}

// ancestorVisited reports whether n is visited in the receiver or any
// ancestor, and returns the closest such ancestor (the receiver itself if
// it holds n).
func (s *State) ancestorVisited(n NodeID) (*State, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if cur.visited[n] {
			return cur, true
		}
	}
	return nil, false
}

// visitNode marks n visited, queues its applicable outgoing edges, and
// collects any key already assigned to it. If n is already visited in an
// ancestor segment, this is a rejoin: merge the current (forked) state
// back into that ancestor instead (spec §4.2).
func (s *State) visitNode(n NodeID) *State {
	if ancestor, ok := s.ancestorVisited(n); ok && ancestor != s {
		return s.join(ancestor)
	}

	node, ok := s.graph.Node(n)
	if !ok {
		panic(&InvariantViolationError{What: "visit_node", Detail: "unknown node " + string(n)})
	}

	out := s.clone()
	out.visited[n] = true

	if node.IsItem() {
		if assigned, has := out.itemToKey[n]; has {
			for _, kid := range assigned {
				out.keys = out.keys.Add(kid)
			}
		} else {
			out.spareItems[n] = true
		}
	}

	for _, e := range s.graph.EdgesFrom(n) {
		dest, _ := e.Inverse(n)
		if out.visited[dest] {
			delete(out.next, e.ID)
			continue
		}
		out.next[e.ID] = e
	}

	return out
}

// placeKey removes item from spareItems, records the placement, and adds
// key to the held multiset.
func (s *State) placeKey(item NodeID, key KeyID) *State {
	if !s.spareItems[item] {
		panic(&InvariantViolationError{What: "place_key", Detail: "item not in spare_items: " + string(item)})
	}

	out := s.clone()
	delete(out.spareItems, item)
	out.itemToKey[item] = append(out.itemToKey[item], key)
	out.keys = out.keys.Add(key)
	return out
}

// useKey removes edge from next and spends consumedKeys occurrences from
// the held multiset.
func (s *State) useKey(edge EdgeID, consumedKeys KeyMultiset) *State {
	out := s.clone()
	delete(out.next, edge)
	for _, id := range consumedKeys.SortedIDs() {
		out.keys = out.keys.RemoveMany(id, consumedKeys.Count(id))
	}
	return out
}

// addOneWay records a deferred OneWay/NoReturn edge for later expansion.
func (s *State) addOneWay(e Edge) *State {
	out := s.clone()
	out.oneWay[e.ID] = e
	return out
}

// removeOneWay drops a deferred edge once its segment has been processed.
func (s *State) removeOneWay(e EdgeID) *State {
	out := s.clone()
	delete(out.oneWay, e)
	return out
}

// join merges the receiver (a forked descendant) back into ancestor:
// union visited/keys/next/one_way/spare_items upward across every parent
// between the receiver and ancestor, then adopt ancestor's parent (spec
// §4.2, §9: iterate rather than recurse to avoid deep call stacks on long
// fork chains).
func (s *State) join(ancestor *State) *State {
	out := ancestor.clone()

	for cur := s; cur != nil && cur != ancestor; cur = cur.parent {
		for id := range cur.visited {
			out.visited[id] = true
		}
		for _, kid := range cur.keys.SortedIDs() {
			out.keys = out.keys.AddRange(kid, cur.keys.Count(kid))
		}
		for id, e := range cur.next {
			out.next[id] = e
		}
		for id, e := range cur.oneWay {
			out.oneWay[id] = e
		}
		for id := range cur.spareItems {
			out.spareItems[id] = true
		}
		for item, kids := range cur.itemToKey {
			out.itemToKey[item] = append(out.itemToKey[item], kids...)
		}
	}

	out.parent = ancestor.parent
	return out
}

// logEntry appends a trace entry to the in-memory log (the optional
// durable trace.Store is written separately by the driver).
func (s *State) logEntry(e trace.Entry) *State {
	out := s.clone()
	out.log = append(append([]trace.Entry(nil), s.log...), e)
	return out
}

// Log returns the append-only debug trace recorded so far.
func (s *State) Log() []trace.Entry {
	out := make([]trace.Entry, len(s.log))
	copy(out, s.log)
	return out
}

// Visited reports whether n has been marked reachable in this state or an
// ancestor.
func (s *State) Visited(n NodeID) bool {
	_, ok := s.ancestorVisited(n)
	return ok
}

// Keys returns the multiset of keys currently held.
func (s *State) Keys() KeyMultiset {
	return s.keys.Clone()
}

// Next returns the edges known but not yet satisfied.
func (s *State) Next() []Edge {
	out := make([]Edge, 0, len(s.next))
	for _, e := range s.next {
		out = append(out, e)
	}
	return out
}

// SpareItems returns the visited Item nodes with no key placed yet.
func (s *State) SpareItems() []NodeID {
	out := make([]NodeID, 0, len(s.spareItems))
	for id := range s.spareItems {
		out = append(out, id)
	}
	return out
}

// ItemToKey returns a copy of the item -> placed-keys map.
func (s *State) ItemToKey() map[NodeID][]KeyID {
	out := make(map[NodeID][]KeyID, len(s.itemToKey))
	for item, kids := range s.itemToKey {
		out[item] = append([]KeyID(nil), kids...)
	}
	return out
}
