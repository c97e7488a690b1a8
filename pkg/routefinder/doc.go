/*
Package routefinder places keys into item slots across a directed graph of
rooms, locked edges, and item locations so that every reachable node can be
visited without softlock. It is a randomization engine: given a graph and a
seed, it searches for a concrete *route* — an assignment of keys to item
slots plus the implied traversal order — that is provably solvable.

# Overview

Build a graph of AndGate/OrGate/Item/OneWay/NoReturn nodes connected by
doors that require keys or previously-visited nodes, then run Find to
search for a route:

	g := routefinder.NewGraph().
	    AndGate("R0", 0, "Start Room").
	    Item("I0a", 0, "Chest A").
	    Item("I0b", 0, "Chest B").
	    AndGate("R1", 0, "Second Room").
	    ReusableKey("K0", 0).
	    Door("R0", "I0a", routefinder.KeyMultiset{}, nil).
	    Door("R0", "I0b", routefinder.KeyMultiset{}, nil).
	    Door("R0", "R1", routefinder.NewKeyMultiset("K0"), nil).
	    SetStart("R0")

	compiled, err := g.Build()
	if err != nil {
	    log.Fatal(err)
	}

	ctx := routefinder.NewContext(context.Background())
	route, err := routefinder.Find(ctx, compiled, routefinder.WithSeed(42))
	if err != nil {
	    log.Fatal(err)
	}
	fmt.Println(route.AllNodesVisited())

# Node and edge kinds

AndGate requires every incoming edge's source side to be reachable and
satisfied; OrGate requires just one. OneWay opens a fork into a nested
segment that may rejoin its parent if traversal re-encounters an
ancestor-visited node; NoReturn starts a fresh segment with no rejoin.
Edges carry a multiset of required keys and a set of required nodes that
must already be visited.

# Keys

Reusable keys persist through a segment and its descendants once obtained.
Consumable keys are spent when their unlocking edge is taken. Removable
keys are required in a count equal to the minimum multiplicity on any path
from start to the gated node. Every placement must respect zone
compatibility: item.Group & key.Group == key.Group.

# Determinism

All non-determinism flows from a single seeded PRNG passed via WithSeed.
Two Find calls against the same graph with the same seed produce identical
routes. The global math/rand source is read only to pick a default seed
when WithSeed is not given.

# Error handling

Find never returns an error for ordinary unsolvability — it returns a
Route with AllNodesVisited() == false. It does return an error for
DepthLimitError (the configured recursion bound was exceeded) and
CancellationError (the context was cancelled). An InvariantViolationError
(an internal bug, not caused by the input graph) is raised as a panic
value rather than returned.

# Observability

Enable logging and tracing:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	store, err := trace.NewSQLiteStore("./trace.db")
	if err != nil {
	    log.Fatal(err)
	}
	defer store.Close()

	ctx := routefinder.NewContext(context.Background(),
	    routefinder.WithLogger(logger),
	    routefinder.WithTrace(store))

	route, err := routefinder.Find(ctx, compiled, routefinder.WithSeed(42))

Logs include structured fields: run_id, depth, attempt. OpenTelemetry
metrics: routefinder.placement.attempts, routefinder.find.depth,
routefinder.search.dead_ends, etc. OpenTelemetry tracing:
routefinder.find > routefinder.segment.{id} spans.

# Thread safety

  - Graph is NOT safe for concurrent use during construction
  - CompiledGraph IS safe for concurrent use (immutable)
  - Context IS safe for concurrent use
  - trace.Store implementations are safe for concurrent use

# Subpackages

  - trace: optional durable persistence of a run's debug trace
  - query: named read-only queries over a finished Route
  - registry: a small generic key/value registry used internally
  - observability: logging, metrics, and tracing helpers
  - config: YAML-loadable tuning defaults
*/
package routefinder
