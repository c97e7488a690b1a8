package routefinder

import (
	"fmt"
	"strings"
	"sync"

	"github.com/holdfast-games/routefinder/pkg/routefinder/registry"
)

// Graph is a mutable builder for constructing a route-finder input graph.
// Use NewGraph to create a builder, then chain AddNode/AddEdge/AddKey (or
// the convenience helpers) to define rooms, doors, and keys, and call
// Build() to validate and freeze it into a CompiledGraph.
//
// Graph is NOT safe for concurrent use during building. Build a graph from
// a single goroutine, then share the resulting CompiledGraph freely — it is
// immutable.
//
// Example:
//
//	g := routefinder.NewGraph().
//	    AndGate("R0", 0, "Start Room").
//	    AndGate("R1", 0, "Second Room").
//	    Door("R0", "R1", routefinder.KeyMultiset{}, nil).
//	    SetStart("R0")
//
//	compiled, err := g.Build()
type Graph struct {
	mu        sync.RWMutex
	nodes     *registry.Registry[NodeID, Node]
	keys      *registry.Registry[KeyID, Key]
	edges     []Edge
	edgeIDSeq int
	start     NodeID
}

// NewGraph creates a new graph builder.
func NewGraph() *Graph {
	return &Graph{
		nodes: registry.New[NodeID, Node](),
		keys:  registry.New[KeyID, Key](),
	}
}

// AddNode registers a node of the given kind.
// Returns the graph for method chaining.
//
// Panics if id is empty, contains whitespace, or is already registered.
func (g *Graph) AddNode(id NodeID, kind NodeKind, group uint64, label string) *Graph {
	if id == "" {
		panic("routefinder: node ID cannot be empty")
	}
	if strings.ContainsAny(string(id), " \t\n\r") {
		panic("routefinder: node ID cannot contain whitespace")
	}

	if g.nodes.Has(id) {
		panic(fmt.Sprintf("routefinder: duplicate node ID: %s", id))
	}

	g.nodes.Register(id, Node{ID: id, Kind: kind, Group: group, Label: label})
	return g
}

// AddKey registers a key of the given kind.
// Returns the graph for method chaining.
//
// Panics if id is empty, quantity is less than 1, or id is already
// registered.
func (g *Graph) AddKey(id KeyID, kind KeyKind, group uint64, quantity int) *Graph {
	if id == "" {
		panic("routefinder: key ID cannot be empty")
	}
	if quantity < 1 {
		panic("routefinder: key quantity must be at least 1")
	}

	if g.keys.Has(id) {
		panic(fmt.Sprintf("routefinder: duplicate key ID: %s", id))
	}

	g.keys.Register(id, Key{ID: id, Kind: kind, Group: group, Quantity: quantity})
	return g
}

// AddEdge adds a directed edge from source to dest requiring the given
// key multiset and node set. Edge endpoint validation happens at Build()
// time, so edges may be added in any order relative to their nodes.
// Returns the graph for method chaining.
func (g *Graph) AddEdge(source, dest NodeID, kind EdgeKind, requiredKeys KeyMultiset, requiredNodes []NodeID) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.edgeIDSeq++
	g.edges = append(g.edges, Edge{
		ID:       EdgeID(fmt.Sprintf("e%d", g.edgeIDSeq)),
		Source:   source,
		Dest:     dest,
		Kind:     kind,
		Keys:     requiredKeys,
		ReqNodes: append([]NodeID(nil), requiredNodes...),
	})
	return g
}

// SetStart designates the start node. Must be called before Build().
// Returns the graph for method chaining.
func (g *Graph) SetStart(id NodeID) *Graph {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.start = id
	return g
}

// --- Convenience helpers (spec §6's add_node/add_edge shorthand) ---

// AndGate adds a node reachable only when every incoming edge is
// satisfied (conjunctive requirements).
func (g *Graph) AndGate(id NodeID, group uint64, label string) *Graph {
	return g.AddNode(id, AndGate, group, label)
}

// OrGate adds a node reachable via any single satisfied incoming edge.
func (g *Graph) OrGate(id NodeID, group uint64, label string) *Graph {
	return g.AddNode(id, OrGate, group, label)
}

// Item adds a node that can host a key placement.
func (g *Graph) Item(id NodeID, group uint64, label string) *Graph {
	return g.AddNode(id, Item, group, label)
}

// OneWayNode adds a node entered through a fork that may rejoin its parent
// segment.
func (g *Graph) OneWayNode(id NodeID, group uint64, label string) *Graph {
	return g.AddNode(id, OneWay, group, label)
}

// NoReturnNode adds a node that starts a fresh segment with no rejoin.
func (g *Graph) NoReturnNode(id NodeID, group uint64, label string) *Graph {
	return g.AddNode(id, NoReturn, group, label)
}

// ReusableKey adds a key that persists through the segment and all
// descendant segments once obtained.
func (g *Graph) ReusableKey(id KeyID, group uint64) *Graph {
	return g.AddKey(id, Reusable, group, 1)
}

// ConsumableKey adds a key that is spent upon traversing its unlocking
// edge.
func (g *Graph) ConsumableKey(id KeyID, group uint64) *Graph {
	return g.AddKey(id, Consumable, group, 1)
}

// RemovableKey adds a key required in a count equal to the minimum
// multiplicity on any path from start to the gated node.
func (g *Graph) RemovableKey(id KeyID, group uint64) *Graph {
	return g.AddKey(id, Removable, group, 1)
}

// Door adds a two-way edge gated by the given required keys (and
// optionally required nodes), traversable in either direction once
// opened.
func (g *Graph) Door(source, dest NodeID, requiredKeys KeyMultiset, requiredNodes []NodeID) *Graph {
	return g.AddEdge(source, dest, TwoWay, requiredKeys, requiredNodes)
}

// BlockedDoor adds a NoReturn edge: once the destination is entered, the
// source side becomes unreachable from it.
func (g *Graph) BlockedDoor(source, dest NodeID, requiredKeys KeyMultiset, requiredNodes []NodeID) *Graph {
	return g.AddEdge(source, dest, NoReturnEdge, requiredKeys, requiredNodes)
}

// AddOneWayEdge adds a one-way edge that opens a fork which may rejoin its
// parent segment.
func (g *Graph) AddOneWayEdge(source, dest NodeID, requiredKeys KeyMultiset, requiredNodes []NodeID) *Graph {
	return g.AddEdge(source, dest, OneWayEdge, requiredKeys, requiredNodes)
}
