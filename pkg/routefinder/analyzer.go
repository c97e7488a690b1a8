package routefinder

// analyzer computes guaranteed requirements for a target node: the nodes
// and reusable keys mandatory on every path from start (spec §4.3). It is
// built fresh each time the driver calls guaranteed() from do_subgraph,
// since keyReq depends on which items currently host which keys — and
// that assignment grows as the search places keys (see hostsOf below).
type analyzer struct {
	graph *CompiledGraph
	hosts map[KeyID][]NodeID

	nodeReqCache      map[NodeID]RequirementSet
	nodeReqInProgress map[NodeID]bool
	keyReqCache       map[KeyID]RequirementSet
	keyReqInProgress  map[KeyID]bool
}

// hostsOf collects, for every key, the item nodes where it is currently
// placed according to state and every ancestor in its fork chain. This is
// the analyzer's only dependency on a live State: "items hosting k" in
// spec §4.3 step 2 only makes sense relative to placements already made,
// not the static graph alone.
func hostsOf(state *State) map[KeyID][]NodeID {
	hosts := make(map[KeyID][]NodeID)
	for cur := state; cur != nil; cur = cur.parent {
		for item, kids := range cur.itemToKey {
			for _, kid := range kids {
				hosts[kid] = append(hosts[kid], item)
			}
		}
	}
	return hosts
}

// newAnalyzer builds an analyzer scoped to state's current placement
// history.
func newAnalyzer(graph *CompiledGraph, state *State) *analyzer {
	return &analyzer{
		graph:             graph,
		hosts:             hostsOf(state),
		nodeReqCache:      make(map[NodeID]RequirementSet),
		nodeReqInProgress: make(map[NodeID]bool),
		keyReqCache:       make(map[KeyID]RequirementSet),
		keyReqInProgress:  make(map[KeyID]bool),
	}
}

// nodeReq computes the guaranteed requirement set for n: the intersection,
// over every incoming applicable edge, of (nodeReq(other) ∪ e.Requires()),
// plus a soft self-membership marker. start is seeded directly as
// {Node(start, soft=true)} (spec §4.3 step 1). Cyclic re-entry contributes
// the identity element (an absent/zero-value set), not an empty one.
func (a *analyzer) nodeReq(n NodeID) RequirementSet {
	if cached, ok := a.nodeReqCache[n]; ok {
		return cached
	}
	if n == a.graph.start {
		result := NewRequirementSet(SoftNodeRequirement(n))
		a.nodeReqCache[n] = result
		return result
	}
	if a.nodeReqInProgress[n] {
		return RequirementSet{}
	}

	a.nodeReqInProgress[n] = true
	var acc RequirementSet
	for _, e := range a.graph.EdgesTo(n) {
		other := otherEndpoint(e, n)
		sub := a.nodeReq(other)
		if sub.items == nil {
			continue // cyclic re-entry: identity for the intersection
		}
		contribution := sub.Union(NewRequirementSet(e.Requires()...))
		acc = acc.Intersect(contribution)
	}
	acc = acc.Add(SoftNodeRequirement(n))
	delete(a.nodeReqInProgress, n)

	a.nodeReqCache[n] = acc
	return acc
}

// substituteKeys replaces every Key requirement in rs with the union of
// its own keyReq, keeping the original key requirement alongside (spec
// §4.3 step 2's "substitute keys ... recursively").
func (a *analyzer) substituteKeys(rs RequirementSet) RequirementSet {
	var out RequirementSet
	for _, r := range rs.Items() {
		if r.Kind == NodeReq {
			out = out.Add(r)
			continue
		}
		out = out.Union(a.keyReq(r.Key))
		out = out.Add(r)
	}
	return out
}

// keyReq computes the guaranteed requirement set for key k: the
// intersection, over every item currently hosting k, of nodeReq(item) with
// its own key requirements substituted recursively. Cyclic re-entry yields
// the identity (spec §4.3 step 2).
func (a *analyzer) keyReq(k KeyID) RequirementSet {
	if cached, ok := a.keyReqCache[k]; ok {
		return cached
	}
	if a.keyReqInProgress[k] {
		return RequirementSet{}
	}

	a.keyReqInProgress[k] = true
	var acc RequirementSet
	for _, item := range a.hosts[k] {
		contribution := a.substituteKeys(a.nodeReq(item))
		acc = acc.Intersect(contribution)
	}
	delete(a.keyReqInProgress, k)

	a.keyReqCache[k] = acc
	return acc
}

// guaranteed computes the seed visited-set and seed keys for a new
// segment rooted at root: fold nodeReq(root) through keyReq, keeping only
// hard node requirements and reusable-key requirements (spec §4.3 step 3).
func (a *analyzer) guaranteed(root NodeID) (map[NodeID]bool, KeyMultiset) {
	visited := make(map[NodeID]bool)
	keys := KeyMultiset{}

	var fold func(RequirementSet)
	fold = func(rs RequirementSet) {
		for _, r := range rs.Items() {
			switch r.Kind {
			case NodeReq:
				if !r.Soft {
					visited[r.Node] = true
				}
			case KeyReq:
				key, ok := a.graph.Key(r.Key)
				if !ok || key.Kind != Reusable {
					continue
				}
				if keys.Has(r.Key) {
					continue
				}
				keys = keys.Add(r.Key)
				fold(a.keyReq(r.Key))
			}
		}
	}

	fold(a.nodeReq(root))
	return visited, keys
}
