package routefinder

import (
	"sort"
	"time"

	"github.com/holdfast-games/routefinder/pkg/routefinder/observability"
	"github.com/holdfast-games/routefinder/pkg/routefinder/trace"
)

// accumulator tracks facts that outlive a single segment: placements and
// visited nodes from segments the driver has permanently left behind via a
// NoReturn transition. A NoReturn segment's State is discarded once its
// own fulfill call returns (spec §3: "the destination begins a fresh
// subgraph segment (no rejoin)"), so nothing else keeps its item_to_key or
// visited contents reachable — accumulator is the side channel Route uses
// to report placements that span segments (spec §6's
// get_items_containing_key "may span segments").
type accumulator struct {
	placements map[NodeID][]KeyID
	visited    map[NodeID]bool
}

func newAccumulator() *accumulator {
	return &accumulator{placements: make(map[NodeID][]KeyID), visited: make(map[NodeID]bool)}
}

// merge records state's placements and visited nodes together with those
// of every fork parent above it, since a OneWay fork that never rejoins
// keeps its parent segment's progress only through the parent link.
func (a *accumulator) merge(state *State) {
	for cur := state; cur != nil; cur = cur.parent {
		for item, kids := range cur.ItemToKey() {
			a.placements[item] = append(a.placements[item], kids...)
		}
		for n := range cur.visited {
			a.visited[n] = true
		}
	}
}

// Find searches graph for a complete key placement, starting from its
// start node, using the given options (spec §4.5, §6).
func Find(ctx Context, graph *CompiledGraph, opts ...FindOption) (*Route, error) {
	cfg := defaultFindConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	r := newRNG(cfg.seed)
	acc := newAccumulator()

	spanBase, span := cfg.spans.StartFindSpan(ctx, ctx.RunID(), cfg.seed)
	findCtx := withBase(ctx, spanBase)
	observability.LogFindStart(ctx.Logger(), ctx.RunID(), cfg.seed)
	start := time.Now()

	state := newEmptyState(graph).visitNode(graph.Start())
	result, depth, err := fulfill(findCtx, &cfg, acc, state, 0, r)

	cfg.spans.EndSpanWithError(span, err)
	if err != nil {
		observability.LogFindError(ctx.Logger(), ctx.RunID(), err, time.Since(start).Seconds()*1000, depth)
		return nil, err
	}

	acc.merge(result)
	allVisited := len(acc.visited) == len(graph.NodeIDs())

	cfg.metrics.RecordFind(ctx, allVisited, time.Since(start), depth)
	observability.LogFindComplete(ctx.Logger(), ctx.RunID(), time.Since(start).Seconds()*1000, allVisited, len(acc.placements))

	return &Route{
		graph:      graph,
		placements: acc.placements,
		allVisited: allVisited,
		traceStore: ctx.Trace(),
		runID:      ctx.RunID(),
	}, nil
}

// fulfill is the backtracking search driver (spec §4.5): expand to a fixed
// point, prefer unexplored OneWay forks, then rank and attempt remaining
// edges, and finally step through any pending NoReturn transitions. It
// returns the depth at which the search concluded alongside the resulting
// state, so callers can report accurate depth-tagged observability on both
// the success and failure paths.
func fulfill(ctx Context, cfg *findConfig, acc *accumulator, state *State, depth int, r *rng) (*State, int, error) {
	if err := ctx.Err(); err != nil {
		return state, depth, &CancellationError{Depth: depth, Cause: err, Best: state}
	}
	if depth > cfg.depthLimit {
		return state, depth, &DepthLimitError{Limit: cfg.depthLimit, Depth: depth, Best: state}
	}

	ctx = withDepth(ctx, depth)
	state = expand(state)

	if e, ok := pickOneWay(state, r); ok {
		state = state.removeOneWay(e.ID)
		next := doSubgraph(ctx, cfg, acc, state, e.Dest, true, depth+1, r)
		return fulfill(ctx, cfg, acc, next, depth+1, r)
	}

	if pending := state.Next(); len(pending) > 0 {
		result, ok := tryEdges(ctx, cfg, acc, state, pending, depth, r)
		if ok {
			return fulfill(ctx, cfg, acc, result, depth+1, r)
		}

		observability.LogDeadEnd(ctx.Logger(), depth, len(pending))
		cfg.metrics.RecordDeadEnd(ctx, depth)
		if cfg.deadEndCallback != nil {
			cfg.deadEndCallback(result)
		}
		return result, depth, nil
	}

	if e, ok := pickNoReturn(state, r); ok {
		state = state.removeOneWay(e.ID)
		acc.merge(state)
		next := doSubgraph(ctx, cfg, acc, state, e.Dest, false, depth+1, r)
		return fulfill(ctx, cfg, acc, next, depth+1, r)
	}

	return state, depth, nil
}

// doSubgraph seeds a new segment rooted at start: its guaranteed
// requirements (spec §4.3) become the segment's initial visited set and
// held keys, then start itself is pushed in via visit_node (spec §4.5).
func doSubgraph(ctx Context, cfg *findConfig, acc *accumulator, state *State, start NodeID, fork bool, depth int, r *rng) *State {
	spanBase, span := cfg.spans.StartSegmentSpan(ctx, string(start))
	segCtx := withBase(ctx, spanBase)
	observability.LogSegmentStart(ctx.Logger(), string(start), fork)

	analyzer := newAnalyzer(state.graph, state)
	visited, keys := analyzer.guaranteed(start)

	next := make(map[EdgeID]Edge)
	var seg *State
	if fork {
		seg = state.fork(visited, keys, next)
	} else {
		seg = state.clear(visited, keys, next)
	}
	seg = seg.visitNode(start)

	result, _, err := fulfill(segCtx, cfg, acc, seg, depth, r)
	cfg.spans.EndSpanWithError(span, err)
	return result
}

// pickOneWay returns one OneWay (non-NoReturn) edge from state's deferred
// set, in a stable-then-shuffled order, if any exist.
func pickOneWay(state *State, r *rng) (Edge, bool) {
	var candidates []Edge
	for _, e := range state.oneWay {
		if e.Kind == OneWayEdge {
			candidates = append(candidates, e)
		}
	}
	return pickShuffled(candidates, r)
}

// pickNoReturn returns one NoReturn edge from state's deferred set, in a
// stable-then-shuffled order, if any exist. Only one is ever taken per
// fulfill call: NoReturn transitions are mutually exclusive exits from an
// exhausted segment, not independent branches to explore in parallel, so
// picking one (rather than iterating every pending NoReturn edge from the
// same now-finished segment) is the only coherent continuation for a
// single-threaded search.
func pickNoReturn(state *State, r *rng) (Edge, bool) {
	var candidates []Edge
	for _, e := range state.oneWay {
		if e.Kind == NoReturnEdge {
			candidates = append(candidates, e)
		}
	}
	return pickShuffled(candidates, r)
}

func pickShuffled(candidates []Edge, r *rng) (Edge, bool) {
	if len(candidates) == 0 {
		return Edge{}, false
	}
	sort.Slice(candidates, func(i, j int) bool { return candidates[i].ID < candidates[j].ID })
	r.shuffle(len(candidates), func(i, j int) { candidates[i], candidates[j] = candidates[j], candidates[i] })
	return candidates[0], true
}

// rankEdges orders pending edges by fewest not-yet-held reusable keys
// among their requirements first (stable, deterministic under seed);
// edges tied on that score are shuffled (spec §4.5 step 3).
func rankEdges(state *State, edges []Edge, r *rng) []Edge {
	sort.Slice(edges, func(i, j int) bool { return edges[i].ID < edges[j].ID })

	score := func(e Edge) int {
		n := 0
		for _, kid := range e.Keys.SortedIDs() {
			key, ok := state.graph.Key(kid)
			if ok && key.Kind == Reusable && state.keys.Count(kid) == 0 {
				n++
			}
		}
		return n
	}

	sort.SliceStable(edges, func(i, j int) bool { return score(edges[i]) < score(edges[j]) })

	// Shuffle within each tied-score run.
	i := 0
	for i < len(edges) {
		j := i + 1
		for j < len(edges) && score(edges[j]) == score(edges[i]) {
			j++
		}
		run := edges[i:j]
		r.shuffle(len(run), func(a, b int) { run[a], run[b] = run[b], run[a] })
		i = j
	}
	return edges
}

// tryEdges ranks the candidate edges and, for each in turn, attempts up to
// 10 placements (spec §4.5 step 4) until one succeeds and passes softlock
// validation. It returns the resulting state and true on success, or the
// best (most item_to_key assignments) attempted state and false if every
// candidate edge exhausted its attempts.
func tryEdges(ctx Context, cfg *findConfig, acc *accumulator, state *State, pending []Edge, depth int, r *rng) (*State, bool) {
	ranked := rankEdges(state, pending, r)

	var best *State
	bestCount := -1

	for _, e := range ranked {
		for attempt := 1; attempt <= 10; attempt++ {
			attemptCtx := withAttempt(ctx, attempt)
			required := lookaheadKeys(state, e)
			candidate, ok := attemptPlacement(state, e, required, r)
			observability.LogPlacement(attemptCtx.Logger(), string(e.ID), attempt, ok)
			cfg.metrics.RecordPlacementAttempt(attemptCtx, string(e.ID), 0, ok)
			if !ok {
				continue
			}

			if closesSegment(candidate) && solve(candidate.graph, mergedPlacements(acc, candidate))&PotentialSoftlock != 0 {
				count := len(candidate.ItemToKey())
				if count > bestCount {
					best, bestCount = candidate, count
				}
				continue
			}

			flushTrace(attemptCtx, depth, candidate)
			return candidate, true
		}

		count := len(state.ItemToKey())
		if count > bestCount {
			best, bestCount = state, count
		}
	}

	if best == nil {
		best = state
	}
	return best, false
}

// closesSegment reports whether candidate appears to have exhausted its
// segment's normal (non-deferred) edges, making it a natural point to
// validate against softlock (spec §4.5's "after each speculative placement
// that appears to close out a segment").
func closesSegment(state *State) bool {
	return len(state.next) == 0
}

// mergedPlacements returns acc's committed placements unioned with
// state's own in-progress item_to_key, for solver validation of a
// candidate that hasn't been committed to acc yet.
func mergedPlacements(acc *accumulator, state *State) map[NodeID][]KeyID {
	out := make(map[NodeID][]KeyID, len(acc.placements))
	for item, kids := range acc.placements {
		out[item] = append(out[item], kids...)
	}
	for item, kids := range state.ItemToKey() {
		out[item] = append(out[item], kids...)
	}
	return out
}

// flushTrace appends a debug trace entry for a committed placement, when
// a trace.Store is configured.
func flushTrace(ctx Context, depth int, state *State) {
	store := ctx.Trace()
	if store == nil {
		return
	}
	entry := trace.New(ctx.RunID(), depth, "place_key")
	if err := store.Append(ctx.RunID(), entry); err != nil {
		observability.LogTraceError(ctx.Logger(), "append", err)
	}
}
