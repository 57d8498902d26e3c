package dag

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	g := New()
	require.NotNil(t, g)
	assert.NotNil(t, g.nodes)
	assert.Empty(t, g.nodes)
}

func TestAddNode(t *testing.T) {
	g := New()

	g.AddNode("feed")
	assert.Len(t, g.nodes, 1)
	feed, ok := g.nodes["feed"]
	require.True(t, ok)
	assert.Equal(t, "feed", feed.id)
	assert.NotNil(t, feed.deps)
	assert.NotNil(t, feed.dependents)

	g.AddNode("feed") // Test idempotency
	assert.Len(t, g.nodes, 1)

	g.AddNode("product")
	assert.Len(t, g.nodes, 2)
	_, ok = g.nodes["product"]
	assert.True(t, ok)
}

func TestAddEdge(t *testing.T) {
	t.Run("success case", func(t *testing.T) {
		g := New()
		g.AddNode("feed")
		g.AddNode("pump")

		err := g.AddEdge("feed", "pump") // pump depends on feed
		require.NoError(t, err)

		feed := g.nodes["feed"]
		pump := g.nodes["pump"]

		assert.Contains(t, feed.dependents, "pump")
		assert.Equal(t, pump, feed.dependents["pump"])
		assert.Contains(t, pump.deps, "feed")
		assert.Equal(t, feed, pump.deps["feed"])
	})

	t.Run("error cases", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")

		err := g.AddEdge("dne", "a")
		assert.ErrorContains(t, err, "source node not found")

		err = g.AddEdge("a", "dne")
		assert.ErrorContains(t, err, "destination node not found")

		err = g.AddEdge("a", "a")
		assert.ErrorContains(t, err, "self-referential edge")
	})
}

func TestDependencies(t *testing.T) {
	g := New()
	g.AddNode("mixer")
	g.AddNode("methanol_feed")
	g.AddNode("ethanol_feed")
	require.NoError(t, g.AddEdge("methanol_feed", "mixer"))
	require.NoError(t, g.AddEdge("ethanol_feed", "mixer"))

	deps, err := g.Dependencies("mixer")
	require.NoError(t, err)
	assert.Equal(t, []string{"ethanol_feed", "methanol_feed"}, deps)

	deps, err = g.Dependencies("methanol_feed")
	require.NoError(t, err)
	assert.Empty(t, deps)

	_, err = g.Dependencies("dne")
	assert.ErrorContains(t, err, "node not found")
}

func TestLen(t *testing.T) {
	g := New()
	assert.Equal(t, 0, g.Len())
	g.AddNode("feed")
	g.AddNode("product")
	g.AddNode("feed") // duplicate, not counted twice
	assert.Equal(t, 2, g.Len())
}

func TestDetectCycles(t *testing.T) {
	t.Run("empty graph has no cycles", func(t *testing.T) {
		g := New()
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("valid dag has no cycles", func(t *testing.T) {
		g := New()
		g.AddNode("feed")
		g.AddNode("compressor")
		g.AddNode("cooler")
		g.AddNode("product")
		require.NoError(t, g.AddEdge("feed", "compressor"))
		require.NoError(t, g.AddEdge("compressor", "cooler"))
		require.NoError(t, g.AddEdge("feed", "cooler")) // Transitive edge
		require.NoError(t, g.AddEdge("cooler", "product"))
		assert.NoError(t, g.DetectCycles())
	})

	t.Run("recycle loop is detected", func(t *testing.T) {
		g := New()
		g.AddNode("mixer")
		g.AddNode("reactor")
		g.AddNode("splitter")
		require.NoError(t, g.AddEdge("mixer", "reactor"))
		require.NoError(t, g.AddEdge("reactor", "splitter"))
		require.NoError(t, g.AddEdge("splitter", "mixer")) // Recycle back to the start
		err := g.DetectCycles()
		assert.Error(t, err)
		assert.ErrorContains(t, err, "cycle detected")
	})

	t.Run("cycle in a disjoint component is detected", func(t *testing.T) {
		g := New()
		// Component 1 (valid)
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))

		// Component 2 (has a cycle)
		g.AddNode("x")
		g.AddNode("y")
		g.AddNode("z")
		require.NoError(t, g.AddEdge("x", "y"))
		require.NoError(t, g.AddEdge("y", "z"))
		require.NoError(t, g.AddEdge("z", "y")) // Cycle

		err := g.DetectCycles()
		assert.Error(t, err)
		assert.ErrorContains(t, err, "cycle detected")
	})
}

func TestTopologicalOrder(t *testing.T) {
	t.Run("sources come before sinks", func(t *testing.T) {
		g := New()
		g.AddNode("product")
		g.AddNode("pump")
		g.AddNode("feed")
		require.NoError(t, g.AddEdge("feed", "pump"))
		require.NoError(t, g.AddEdge("pump", "product"))

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"feed", "pump", "product"}, order)
	})

	t.Run("ties break lexicographically", func(t *testing.T) {
		g := New()
		g.AddNode("mixer")
		g.AddNode("methanol_feed")
		g.AddNode("ethanol_feed")
		require.NoError(t, g.AddEdge("methanol_feed", "mixer"))
		require.NoError(t, g.AddEdge("ethanol_feed", "mixer"))

		order, err := g.TopologicalOrder()
		require.NoError(t, err)
		assert.Equal(t, []string{"ethanol_feed", "methanol_feed", "mixer"}, order)
	})

	t.Run("cycle yields an error", func(t *testing.T) {
		g := New()
		g.AddNode("a")
		g.AddNode("b")
		require.NoError(t, g.AddEdge("a", "b"))
		require.NoError(t, g.AddEdge("b", "a"))

		_, err := g.TopologicalOrder()
		assert.ErrorContains(t, err, "cycle")
	})
}
