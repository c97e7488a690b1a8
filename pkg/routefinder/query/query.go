// Package query provides read-only introspection over a finished
// routefinder.Route.
//
// Queries never mutate a Route; they only read the placement a Find run
// already committed to. This mirrors the teacher package's read-only
// query boundary over a running workflow, narrowed to the single
// already-finished Route this domain produces (spec §6).
package query

import (
	"errors"
	"fmt"
	"sync"

	"github.com/holdfast-games/routefinder/pkg/routefinder"
)

// Handler answers one query against route, given optional args.
type Handler func(route *routefinder.Route, args any) (any, error)

// Registry manages query handlers by name.
type Registry struct {
	handlers map[string]Handler
	mu       sync.RWMutex
}

// NewRegistry creates an empty query registry.
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register adds a handler for queryName.
func (r *Registry) Register(queryName string, handler Handler) error {
	if queryName == "" {
		return errors.New("query name is required")
	}
	if handler == nil {
		return errors.New("handler is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.handlers[queryName]; exists {
		return fmt.Errorf("handler for query %q already registered", queryName)
	}
	r.handlers[queryName] = handler
	return nil
}

// MustRegister registers a handler, panicking on error.
func (r *Registry) MustRegister(queryName string, handler Handler) {
	if err := r.Register(queryName, handler); err != nil {
		panic(err)
	}
}

// Get returns the handler registered for queryName.
func (r *Registry) Get(queryName string) (Handler, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	handler, exists := r.handlers[queryName]
	return handler, exists
}

// List returns every registered query name.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	return names
}

// Unregister removes the handler for queryName, if any.
func (r *Registry) Unregister(queryName string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.handlers, queryName)
}

// ErrQueryNotFound is returned when no handler exists for a query name.
var ErrQueryNotFound = errors.New("query not found")

// Executor runs registered queries against a Route.
type Executor struct {
	registry *Registry
}

// NewExecutor creates an executor bound to registry.
func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs queryName against route.
func (e *Executor) Execute(route *routefinder.Route, queryName string, args any) (any, error) {
	if queryName == "" {
		return nil, errors.New("query name is required")
	}
	handler, exists := e.registry.Get(queryName)
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrQueryNotFound, queryName)
	}
	return handler(route, args)
}

// Built-in query names (spec §6).
const (
	QueryItemContents       = "item_contents"       // args: item id (string) -> key id or ""
	QueryItemsContainingKey = "items_containing_key" // args: key id (string) -> []item id
	QueryAllNodesVisited    = "all_nodes_visited"    // -> bool
	QuerySolve              = "solve"                // -> routefinder.RouteSolverResult
	QueryDump               = "dump"                 // -> string
)

// RegisterBuiltins registers the standard read-only queries.
func RegisterBuiltins(registry *Registry) error {
	builtins := map[string]Handler{
		QueryItemContents: func(route *routefinder.Route, args any) (any, error) {
			item, ok := args.(string)
			if !ok || item == "" {
				return nil, errors.New("item_contents requires a non-empty item id argument")
			}
			kid, found := route.GetItemContents(routefinder.NodeID(item))
			if !found {
				return "", nil
			}
			return string(kid), nil
		},
		QueryItemsContainingKey: func(route *routefinder.Route, args any) (any, error) {
			key, ok := args.(string)
			if !ok || key == "" {
				return nil, errors.New("items_containing_key requires a non-empty key id argument")
			}
			items := route.GetItemsContainingKey(routefinder.KeyID(key))
			out := make([]string, len(items))
			for i, n := range items {
				out[i] = string(n)
			}
			return out, nil
		},
		QueryAllNodesVisited: func(route *routefinder.Route, _ any) (any, error) {
			return route.AllNodesVisited(), nil
		},
		QuerySolve: func(route *routefinder.Route, _ any) (any, error) {
			return route.Solve(), nil
		},
		QueryDump: func(route *routefinder.Route, _ any) (any, error) {
			return route.Dump(), nil
		},
	}

	for name, handler := range builtins {
		if err := registry.Register(name, handler); err != nil {
			return fmt.Errorf("failed to register builtin query %q: %w", name, err)
		}
	}
	return nil
}

// Result wraps a query result with metadata.
type Result struct {
	// QueryName is the query that was executed.
	QueryName string `json:"query_name"`

	// RunID identifies the route that was queried.
	RunID string `json:"run_id"`

	// Value is the query result.
	Value any `json:"value"`

	// Error contains error details if the query failed.
	Error string `json:"error,omitempty"`
}

// ExecuteMultiple runs multiple queries against route, collecting results
// (including failures) instead of stopping at the first error.
func (e *Executor) ExecuteMultiple(route *routefinder.Route, queries map[string]any) []Result {
	results := make([]Result, 0, len(queries))

	for queryName, args := range queries {
		result := Result{QueryName: queryName, RunID: route.RunID()}

		value, err := e.Execute(route, queryName, args)
		if err != nil {
			result.Error = err.Error()
		} else {
			result.Value = value
		}

		results = append(results, result)
	}

	return results
}
