package routefinder

import (
	"fmt"
	"sort"
	"strings"

	"github.com/holdfast-games/routefinder/pkg/routefinder/trace"
)

// Route is the read-only result of a completed Find run (spec §6).
type Route struct {
	graph      *CompiledGraph
	placements map[NodeID][]KeyID
	allVisited bool
	traceStore trace.Store
	runID      string
}

// AllNodesVisited reports whether the search reached every node in the
// graph without a dead end.
func (r *Route) AllNodesVisited() bool {
	return r.allVisited
}

// Graph returns the graph this route was computed against.
func (r *Route) Graph() *CompiledGraph {
	return r.graph
}

// GetItemContents returns the key placed at item, and whether one exists.
// When item hosts more than one key across the run (spec §6, e.g. a
// reusable key replaced across NoReturn segments), it returns the first
// one placed.
func (r *Route) GetItemContents(item NodeID) (KeyID, bool) {
	kids := r.placements[item]
	if len(kids) == 0 {
		return "", false
	}
	return kids[0], true
}

// GetItemsContainingKey returns every item node at which key was placed,
// which may span multiple segments (spec §6).
func (r *Route) GetItemsContainingKey(key KeyID) []NodeID {
	var out []NodeID
	for item, kids := range r.placements {
		for _, kid := range kids {
			if kid == key {
				out = append(out, item)
				break
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Solve runs the route solver (spec §4.6) against this route's finished
// placement and returns its result bitmask.
func (r *Route) Solve() RouteSolverResult {
	return solve(r.graph, r.placements)
}

// RunID returns the run identifier this route was produced under, for
// correlating with a configured trace.Store.
func (r *Route) RunID() string {
	return r.runID
}

// Dump renders a best-effort textual summary of the route: every node,
// its kind, and the key placed there if it is an Item (spec §6's optional
// textual dump; no mermaid renderer is provided — see SPEC_FULL.md).
func (r *Route) Dump() string {
	var b strings.Builder
	ids := r.graph.NodeIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	fmt.Fprintf(&b, "route (all_nodes_visited=%v)\n", r.allVisited)
	for _, id := range ids {
		node, _ := r.graph.Node(id)
		fmt.Fprintf(&b, "  %s [%s]", id, node.Kind)
		if kids := r.placements[id]; len(kids) > 0 {
			names := make([]string, len(kids))
			for i, kid := range kids {
				names[i] = string(kid)
			}
			fmt.Fprintf(&b, " -> %s", strings.Join(names, ","))
		}
		b.WriteString("\n")
	}
	return b.String()
}
