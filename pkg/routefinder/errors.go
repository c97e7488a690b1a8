// Package routefinder places keys into item slots across a directed graph
// of rooms, locked edges, and item locations such that every reachable node
// can be visited without softlock.
package routefinder

import (
	"errors"
	"fmt"
)

// Sentinel errors for graph building.
var (
	// ErrNoStart indicates SetStart() was not called before Build().
	ErrNoStart = errors.New("start node not set")

	// ErrStartNotFound indicates the start node references a non-existent node.
	ErrStartNotFound = errors.New("start node not found")

	// ErrNodeNotFound indicates an edge references a non-existent node.
	ErrNodeNotFound = errors.New("node not found")

	// ErrKeyNotFound indicates an edge references a non-existent key.
	ErrKeyNotFound = errors.New("key not found")

	// ErrDuplicateID indicates a node, edge, or key ID was registered twice.
	ErrDuplicateID = errors.New("duplicate ID")

	// ErrZoneMismatch indicates a key was placed in an item outside its zone.
	ErrZoneMismatch = errors.New("key is not compatible with item's zone")
)

// Sentinel errors for the search.
var (
	// ErrNilContext indicates Find was called with a nil context.
	ErrNilContext = errors.New("context cannot be nil")

	// ErrMaxDepth indicates the search recursion exceeded the configured bound.
	ErrMaxDepth = errors.New("exceeded maximum search depth")
)

// DepthLimitError reports that speculative recursion exceeded the
// configured depth bound (spec §7). The best state found so far is
// attached for diagnostics.
type DepthLimitError struct {
	// Limit is the configured depth bound.
	Limit int
	// Depth is the depth at which the limit was hit.
	Depth int
	// Best is the best partial State found before the limit was hit.
	Best *State
}

// Error implements the error interface.
func (e *DepthLimitError) Error() string {
	return fmt.Sprintf("search exceeded depth limit %d at depth %d", e.Limit, e.Depth)
}

// Unwrap returns ErrMaxDepth for errors.Is support.
func (e *DepthLimitError) Unwrap() error {
	return ErrMaxDepth
}

// CancellationError reports that the cooperative cancellation signal
// tripped during fulfill (spec §5, §7).
type CancellationError struct {
	// Depth is the recursion depth at cancellation.
	Depth int
	// Cause is the underlying cancellation cause.
	Cause error
	// Best is the best partial State found before cancellation.
	Best *State
}

// Error implements the error interface.
func (e *CancellationError) Error() string {
	return fmt.Sprintf("search cancelled at depth %d: %v", e.Depth, e.Cause)
}

// Unwrap returns the underlying cause for errors.Is/As support.
func (e *CancellationError) Unwrap() error {
	return e.Cause
}

// InvariantViolationError indicates an internal bug: spare_items containing
// an already-assigned item, or a join target missing from the parent chain
// (spec §7). Callers should treat this as fatal and attach the diagnostic
// to a bug report; the search never raises it for ordinary unsolvability.
type InvariantViolationError struct {
	// What names the invariant that was violated.
	What string
	// Detail gives additional diagnostic context.
	Detail string
}

// Error implements the error interface.
func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("invariant violation: %s: %s", e.What, e.Detail)
}

// BuildError wraps graph-construction errors with the node/edge/key ID
// involved, mirroring how the search's own errors carry positional context.
type BuildError struct {
	// ID is the node, edge, or key identifier involved.
	ID string
	// Op names what was being validated ("edge-source", "edge-dest", "start").
	Op string
	// Err is the underlying sentinel error.
	Err error
}

// Error implements the error interface.
func (e *BuildError) Error() string {
	return fmt.Sprintf("build %s %q: %v", e.Op, e.ID, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *BuildError) Unwrap() error {
	return e.Err
}
