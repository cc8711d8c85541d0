package synthetic

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	d := Generate(5, 4, 7)
	require.NoError(t, d.Check())
	assert.Len(t, d.Graphs, 5)
	assert.Len(t, d.Points, 20)

	for _, g := range d.Graphs {
		assert.Len(t, g.Nodes, 4)
		// two relations per neighbouring pair
		assert.Len(t, g.Edges, 6)
		for _, n := range g.Nodes {
			assert.Len(t, n.Attrs, 3)
		}
	}
}

func TestGenerateIsDeterministic(t *testing.T) {
	a, b := Generate(3, 3, 42), Generate(3, 3, 42)
	assert.Equal(t, a.Points, b.Points)
	for id, g := range a.Graphs {
		assert.Equal(t, g.Nodes, b.Graphs[id].Nodes)
		assert.Equal(t, g.Edges, b.Graphs[id].Edges)
	}
}
