package graph

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scene() *Graph {
	return &Graph{
		ID: "g0",
		Nodes: []Node{
			{ID: 0, Name: "cube", Attrs: []string{"red", "cube"}},
			{ID: 1, Name: "ball", Attrs: []string{"blue", "sphere"}},
			{ID: 2, Name: "cone", Attrs: []string{"red", "cone"}},
		},
		Edges: []Edge{
			{From: 0, To: 1, Relation: "left"},
			{From: 1, To: 0, Relation: "right"},
			{From: 2, To: 1, Relation: "left"},
		},
	}
}

func TestQueries(t *testing.T) {
	g := scene()
	require.NoError(t, g.Validate())
	assert.Equal(t, 3, g.Len())
	assert.Equal(t, []int{1}, g.Related(0, "left"))
	assert.Empty(t, g.Related(0, "right"))
	assert.Equal(t, []int{0, 2}, g.Neighbors(1))
	assert.Equal(t, []string{"blue", "cone", "cube", "red", "sphere"}, g.Attributes())
	assert.Equal(t, []string{"left", "right"}, g.Relations())
	assert.True(t, g.Nodes[0].HasAttr("red"))
	assert.False(t, g.Nodes[1].HasAttr("red"))
}

func TestValidate(t *testing.T) {
	g := scene()
	g.Edges = append(g.Edges, Edge{From: 0, To: 7, Relation: "left"})
	assert.ErrorIs(t, g.Validate(), ErrUnknownNode)

	g = scene()
	g.Nodes[1].ID = 5
	assert.Error(t, g.Validate())
}

func TestReadWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scenes.json")
	require.NoError(t, WriteFile(path, []*Graph{scene()}))

	list, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "g0", list[0].ID)
	assert.Equal(t, []int{1}, list[0].Related(2, "left"))

	yml := filepath.Join(dir, "single.yaml")
	require.NoError(t, os.WriteFile(yml, []byte("nodes:\n  - id: 0\n    attrs: [red]\nedges: []\n"), 0o644))
	list, err = ReadFile(yml)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "single", list[0].ID)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0o644))
	_, err = ReadFile(bad)
	assert.Error(t, err)
}
