package routefinder

import "github.com/holdfast-games/routefinder/pkg/routefinder/registry"

// CompiledGraph is an immutable route-finder input graph.
// It is created by calling Build() on a Graph builder.
//
// CompiledGraph is safe for concurrent use: a single instance may back
// multiple concurrent Find() calls since the search never mutates it.
type CompiledGraph struct {
	nodes *registry.Registry[NodeID, Node]
	keys  *registry.Registry[KeyID, Key]
	edges []Edge
	start NodeID

	// Pre-computed for efficient lookup (spec §4.1).
	edgesFrom map[NodeID][]Edge
	edgesTo   map[NodeID][]Edge
}

// Start returns the start node ID.
func (cg *CompiledGraph) Start() NodeID {
	return cg.start
}

// NodeIDs returns all node identifiers in the graph. Order is not
// guaranteed.
func (cg *CompiledGraph) NodeIDs() []NodeID {
	return cg.nodes.Keys()
}

// HasNode reports whether a node exists in the graph.
func (cg *CompiledGraph) HasNode(id NodeID) bool {
	return cg.nodes.Has(id)
}

// Node returns the node for id, and whether it was found.
func (cg *CompiledGraph) Node(id NodeID) (Node, bool) {
	return cg.nodes.Get(id)
}

// Key returns the key for id, and whether it was found.
func (cg *CompiledGraph) Key(id KeyID) (Key, bool) {
	return cg.keys.Get(id)
}

// Keys returns every key registered on the graph. Order is not
// guaranteed.
func (cg *CompiledGraph) Keys() []Key {
	ids := cg.keys.Keys()
	out := make([]Key, 0, len(ids))
	for _, id := range ids {
		k, _ := cg.keys.Get(id)
		out = append(out, k)
	}
	return out
}

// Edges returns every edge in the graph, in build order.
func (cg *CompiledGraph) Edges() []Edge {
	out := make([]Edge, len(cg.edges))
	copy(out, cg.edges)
	return out
}

// EdgesFrom returns the edges whose source-side (respecting edge
// direction) is n; for two-way edges both endpoints are valid sources
// (spec §4.1).
func (cg *CompiledGraph) EdgesFrom(n NodeID) []Edge {
	out := make([]Edge, len(cg.edgesFrom[n]))
	copy(out, cg.edgesFrom[n])
	return out
}

// EdgesTo returns the edges whose destination-side is n.
func (cg *CompiledGraph) EdgesTo(n NodeID) []Edge {
	out := make([]Edge, len(cg.edgesTo[n]))
	copy(out, cg.edgesTo[n])
	return out
}
