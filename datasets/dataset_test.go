package datasets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/refrl/graph"
)

func write(t *testing.T, dir, name, content string) string {
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	gdir := filepath.Join(dir, "graphs")
	require.NoError(t, os.Mkdir(gdir, 0o755))
	write(t, gdir, "a.json", `{"nodes":[{"id":0,"attrs":["red"]},{"id":1,"attrs":["blue"]}],"edges":[{"from":0,"to":1,"relation":"left"}]}`)
	write(t, gdir, "b.yaml", "nodes:\n  - id: 0\n    attrs: [green]\n")
	write(t, gdir, "notes.txt", "ignored")
	points := write(t, dir, "points.jsonl", `{"id":"p0","graph":"a","target":1}

{"graph":"b","target":0}
`)

	d, err := Load(points, gdir)
	require.NoError(t, err)
	assert.Len(t, d.Graphs, 2)
	require.Len(t, d.Points, 2)
	assert.Equal(t, DataPoint{ID: "p0", GraphID: "a", Target: 1}, d.Points[0])
	assert.Equal(t, "1", d.Points[1].ID)
	assert.Equal(t, []string{"a", "b"}, []string{d.GraphList()[0].ID, d.GraphList()[1].ID})
}

func TestLoadPointsFormats(t *testing.T) {
	dir := t.TempDir()
	for name, content := range map[string]string{
		"p.json": `[{"id":"x","graph":"g","target":2}]`,
		"p.yaml": "- id: x\n  graph: g\n  target: 2\n",
	} {
		pts, err := LoadPoints(write(t, dir, name, content))
		require.NoError(t, err, name)
		assert.Equal(t, []DataPoint{{ID: "x", GraphID: "g", Target: 2}}, pts, name)
	}
	_, err := LoadPoints(write(t, dir, "bad.jsonl", "{"))
	assert.Error(t, err)
}

func TestCheck(t *testing.T) {
	g := &graph.Graph{ID: "g", Nodes: []graph.Node{{ID: 0}}}
	d := &Dataset{Graphs: map[string]*graph.Graph{"g": g}}

	d.Points = []DataPoint{{ID: "a", GraphID: "h"}}
	assert.ErrorIs(t, d.Check(), ErrUnknownGraph)

	d.Points = []DataPoint{{ID: "a", GraphID: "g", Target: 1}}
	assert.ErrorIs(t, d.Check(), ErrTargetRange)

	d.Points = []DataPoint{{ID: "a", GraphID: "g"}}
	assert.NoError(t, d.Check())
}

func TestSplit(t *testing.T) {
	d := &Dataset{Points: make([]DataPoint, 10)}
	train, test := d.Split(0.8)
	assert.Len(t, train, 8)
	assert.Len(t, test, 2)

	train, test = d.Split(1)
	assert.Len(t, train, 10)
	assert.Empty(t, test)

	train, test = d.Split(0)
	assert.Empty(t, train)
	assert.Len(t, test, 10)
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	g := &graph.Graph{ID: "g", Nodes: []graph.Node{{ID: 0, Attrs: []string{"red"}}}}
	require.NoError(t, g.Validate())
	d := &Dataset{
		Points: []DataPoint{{ID: "a", GraphID: "g"}},
		Graphs: map[string]*graph.Graph{"g": g},
	}
	points, graphs := filepath.Join(dir, "p.jsonl"), filepath.Join(dir, "g.json")
	require.NoError(t, d.Save(points, graphs))

	back, err := Load(points, graphs)
	require.NoError(t, err)
	assert.Equal(t, d.Points, back.Points)
	assert.Equal(t, g.Nodes, back.Graphs["g"].Nodes)
}

func TestDuplicateGraph(t *testing.T) {
	dir := t.TempDir()
	write(t, dir, "a.json", `{"id":"same","nodes":[]}`)
	write(t, dir, "b.json", `{"id":"same","nodes":[]}`)
	_, err := LoadGraphs(dir)
	assert.ErrorIs(t, err, ErrDuplicateGraph)
}
