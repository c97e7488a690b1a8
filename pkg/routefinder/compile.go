package routefinder

import (
	"errors"
	"fmt"

	"github.com/holdfast-games/routefinder/pkg/routefinder/registry"
)

// Build validates the graph and creates an immutable CompiledGraph.
// Returns an error if validation fails. Multiple errors are joined
// together.
//
// Validation checks (in order):
//  1. Start node must be set
//  2. Start node must reference an existing node
//  3. All edge sources and destinations must reference existing nodes
//  4. All edge required_keys must reference existing keys
//  5. All edge required_nodes must reference existing nodes
func (g *Graph) Build() (*CompiledGraph, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var errs []error

	if g.start == "" {
		errs = append(errs, &BuildError{Op: "start", Err: ErrNoStart})
	} else if !g.nodes.Has(g.start) {
		errs = append(errs, &BuildError{ID: string(g.start), Op: "start", Err: ErrStartNotFound})
	}

	for _, e := range g.edges {
		if !g.nodes.Has(e.Source) {
			errs = append(errs, &BuildError{ID: string(e.Source), Op: "edge-source", Err: ErrNodeNotFound})
		}
		if !g.nodes.Has(e.Dest) {
			errs = append(errs, &BuildError{ID: string(e.Dest), Op: "edge-dest", Err: ErrNodeNotFound})
		}
		for _, id := range e.Keys.SortedIDs() {
			if !g.keys.Has(id) {
				errs = append(errs, &BuildError{ID: string(id), Op: "edge-key", Err: ErrKeyNotFound})
			}
		}
		for _, n := range e.ReqNodes {
			if !g.nodes.Has(n) {
				errs = append(errs, &BuildError{ID: string(n), Op: "edge-req-node", Err: ErrNodeNotFound})
			}
		}
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	return g.buildCompiledGraph(), nil
}

// buildCompiledGraph creates the immutable CompiledGraph from the builder
// state, pre-computing the edges_from/edges_to indices (spec §4.1).
func (g *Graph) buildCompiledGraph() *CompiledGraph {
	nodes := registry.New[NodeID, Node]()
	for _, id := range g.nodes.Keys() {
		n, _ := g.nodes.Get(id)
		nodes.Register(id, n)
	}

	keys := registry.New[KeyID, Key]()
	for _, id := range g.keys.Keys() {
		k, _ := g.keys.Get(id)
		keys.Register(id, k)
	}

	edges := make([]Edge, len(g.edges))
	copy(edges, g.edges)

	edgesFrom := make(map[NodeID][]Edge)
	edgesTo := make(map[NodeID][]Edge)
	for _, e := range edges {
		edgesFrom[e.Source] = append(edgesFrom[e.Source], e)
		edgesTo[e.Dest] = append(edgesTo[e.Dest], e)
		if e.Kind == TwoWay {
			// Two-way edges are valid sources/sinks from either endpoint.
			edgesFrom[e.Dest] = append(edgesFrom[e.Dest], e)
			edgesTo[e.Source] = append(edgesTo[e.Source], e)
		}
	}

	return &CompiledGraph{
		nodes:     nodes,
		keys:      keys,
		edges:     edges,
		start:     g.start,
		edgesFrom: edgesFrom,
		edgesTo:   edgesTo,
	}
}

// reachableFromStart returns the set of node IDs reachable from start by
// following every edge irrespective of lock state, for diagnostics
// (e.g. warning about nodes the graph can never possibly expose).
func (cg *CompiledGraph) reachableFromStart() map[NodeID]bool {
	reachable := make(map[NodeID]bool)
	if cg.start == "" {
		return reachable
	}

	queue := []NodeID{cg.start}
	reachable[cg.start] = true
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, e := range cg.edgesFrom[current] {
			next, ok := e.Inverse(current)
			if !ok {
				next = e.Dest
			}
			if !reachable[next] {
				reachable[next] = true
				queue = append(queue, next)
			}
		}
	}
	return reachable
}

// String renders a short diagnostic summary, used by BuildError callers
// that want a one-line description without importing fmt themselves.
func (cg *CompiledGraph) String() string {
	return fmt.Sprintf("CompiledGraph{nodes=%d, edges=%d, keys=%d, start=%s}",
		cg.nodes.Len(), len(cg.edges), cg.keys.Len(), cg.start)
}
