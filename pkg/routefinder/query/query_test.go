package query_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/holdfast-games/routefinder/pkg/routefinder"
	"github.com/holdfast-games/routefinder/pkg/routefinder/query"
)

func buildRoute(t *testing.T) *routefinder.Route {
	t.Helper()

	g := routefinder.NewGraph().
		AndGate("start", 0, "Start").
		Item("chest", 0, "Chest").
		AndGate("goal", 0, "Goal").
		ReusableKey("k0", 0).
		Door("start", "chest", routefinder.KeyMultiset{}, nil).
		Door("chest", "goal", routefinder.NewKeyMultiset().Add("k0"), nil).
		SetStart("start")

	compiled, err := g.Build()
	require.NoError(t, err)

	route, err := routefinder.Find(routefinder.NewContext(context.Background()), compiled, routefinder.WithSeed(1))
	require.NoError(t, err)
	return route
}

func TestRegistry_Register(t *testing.T) {
	registry := query.NewRegistry()

	handler := func(_ *routefinder.Route, _ any) (any, error) {
		return "result", nil
	}

	err := registry.Register("test-query", handler)
	require.NoError(t, err)

	err = registry.Register("test-query", handler)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "already registered")
}

func TestRegistry_Register_Validation(t *testing.T) {
	registry := query.NewRegistry()

	t.Run("empty name", func(t *testing.T) {
		err := registry.Register("", func(_ *routefinder.Route, _ any) (any, error) { return "ok", nil })
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "name is required")
	})

	t.Run("nil handler", func(t *testing.T) {
		err := registry.Register("test", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "handler is required")
	})
}

func TestRegistry_MustRegister(t *testing.T) {
	registry := query.NewRegistry()

	registry.MustRegister("test", func(_ *routefinder.Route, _ any) (any, error) { return "ok", nil })

	assert.Panics(t, func() {
		registry.MustRegister("test", func(_ *routefinder.Route, _ any) (any, error) { return "ok", nil })
	})
}

func TestRegistry_Get(t *testing.T) {
	registry := query.NewRegistry()

	expected := "test-result"
	handler := func(_ *routefinder.Route, _ any) (any, error) {
		return expected, nil
	}

	_ = registry.Register("test-query", handler)

	gotHandler, exists := registry.Get("test-query")
	assert.True(t, exists)
	require.NotNil(t, gotHandler)

	result, err := gotHandler(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, expected, result)

	_, exists = registry.Get("nonexistent")
	assert.False(t, exists)
}

func TestRegistry_List(t *testing.T) {
	registry := query.NewRegistry()

	_ = registry.Register("query-a", func(_ *routefinder.Route, _ any) (any, error) { return "ok", nil })
	_ = registry.Register("query-b", func(_ *routefinder.Route, _ any) (any, error) { return "ok", nil })

	names := registry.List()
	assert.Len(t, names, 2)
	assert.Contains(t, names, "query-a")
	assert.Contains(t, names, "query-b")
}

func TestRegistry_Unregister(t *testing.T) {
	registry := query.NewRegistry()

	_ = registry.Register("test-query", func(_ *routefinder.Route, _ any) (any, error) { return "ok", nil })
	registry.Unregister("test-query")

	_, exists := registry.Get("test-query")
	assert.False(t, exists)
}

func TestExecutor_Execute_Validation(t *testing.T) {
	registry := query.NewRegistry()
	executor := query.NewExecutor(registry)

	route := buildRoute(t)

	t.Run("missing query name", func(t *testing.T) {
		_, err := executor.Execute(route, "", nil)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "query name is required")
	})

	t.Run("unknown query", func(t *testing.T) {
		_, err := executor.Execute(route, "unknown", nil)
		assert.ErrorIs(t, err, query.ErrQueryNotFound)
	})
}

func TestRegisterBuiltins(t *testing.T) {
	registry := query.NewRegistry()
	require.NoError(t, query.RegisterBuiltins(registry))

	route := buildRoute(t)

	t.Run("all_nodes_visited", func(t *testing.T) {
		handler, exists := registry.Get(query.QueryAllNodesVisited)
		require.True(t, exists)

		result, err := handler(route, nil)
		require.NoError(t, err)
		assert.Equal(t, true, result)
	})

	t.Run("item_contents", func(t *testing.T) {
		handler, exists := registry.Get(query.QueryItemContents)
		require.True(t, exists)

		result, err := handler(route, "chest")
		require.NoError(t, err)
		assert.Equal(t, "k0", result)
	})

	t.Run("item_contents - empty item id", func(t *testing.T) {
		handler, exists := registry.Get(query.QueryItemContents)
		require.True(t, exists)

		_, err := handler(route, "")
		assert.Error(t, err)
	})

	t.Run("items_containing_key", func(t *testing.T) {
		handler, exists := registry.Get(query.QueryItemsContainingKey)
		require.True(t, exists)

		result, err := handler(route, "k0")
		require.NoError(t, err)
		assert.Equal(t, []string{"chest"}, result)
	})

	t.Run("solve", func(t *testing.T) {
		handler, exists := registry.Get(query.QuerySolve)
		require.True(t, exists)

		result, err := handler(route, nil)
		require.NoError(t, err)
		assert.Equal(t, routefinder.SolveOk, result)
	})

	t.Run("dump", func(t *testing.T) {
		handler, exists := registry.Get(query.QueryDump)
		require.True(t, exists)

		result, err := handler(route, nil)
		require.NoError(t, err)
		assert.Contains(t, result.(string), "start")
	})
}

func TestExecutor_ExecuteMultiple(t *testing.T) {
	registry := query.NewRegistry()
	require.NoError(t, query.RegisterBuiltins(registry))
	executor := query.NewExecutor(registry)

	route := buildRoute(t)

	queries := map[string]any{
		query.QueryAllNodesVisited: nil,
		query.QueryItemContents:    "chest",
		"unknown_query":            nil,
	}

	results := executor.ExecuteMultiple(route, queries)
	assert.Len(t, results, 3)

	resultMap := make(map[string]query.Result)
	for _, r := range results {
		resultMap[r.QueryName] = r
	}

	assert.Equal(t, true, resultMap[query.QueryAllNodesVisited].Value)
	assert.Equal(t, "k0", resultMap[query.QueryItemContents].Value)
	assert.Contains(t, resultMap["unknown_query"].Error, "not found")
}

func TestQueryConstants(t *testing.T) {
	assert.Equal(t, "item_contents", query.QueryItemContents)
	assert.Equal(t, "items_containing_key", query.QueryItemsContainingKey)
	assert.Equal(t, "all_nodes_visited", query.QueryAllNodesVisited)
	assert.Equal(t, "solve", query.QuerySolve)
	assert.Equal(t, "dump", query.QueryDump)
}
