package gnn

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/encoder"
	"github.com/neurlang/refrl/graph"
)

func scene(t *testing.T) *graph.Graph {
	g := &graph.Graph{
		ID: "scene",
		Nodes: []graph.Node{
			{ID: 0, Attrs: []string{"red", "cube"}},
			{ID: 1, Attrs: []string{"blue", "cube"}},
			{ID: 2},
		},
		Edges: []graph.Edge{{From: 0, To: 1, Relation: "left"}},
	}
	require.NoError(t, g.Validate())
	return g
}

func TestEncodeShapes(t *testing.T) {
	g := scene(t)
	enc, err := encoder.FromGraphs(g)
	require.NoError(t, err)
	net := New(enc, 4, 2, rand.New(rand.NewSource(1)))

	st := net.Encode(g)
	require.Len(t, st.Nodes, 3)
	for _, n := range st.Nodes {
		assert.Len(t, n, 4)
		for _, x := range n {
			assert.LessOrEqual(t, x.Data, 1.0)
			assert.GreaterOrEqual(t, x.Data, -1.0)
		}
	}
	assert.Len(t, st.Global, 4)
	assert.Equal(t, st.Global, st.Hidden)

	// embeddings plus two layers of two square matrices
	assert.Len(t, net.Parameters(), enc.Size()*4+2*2*16)
}

func TestGradientsReachEmbeddings(t *testing.T) {
	g := scene(t)
	enc := encoder.MustNew(g.Attributes(), g.Relations())
	net := New(enc, 3, 1, rand.New(rand.NewSource(2)))

	st := net.Encode(g)
	autograd.Sum(st.Global...).Backward()

	var touched bool
	for _, x := range net.Embedding(enc.Attr("red")) {
		touched = touched || x.Grad != 0
	}
	assert.True(t, touched)

	// relations are not node inputs
	for _, x := range net.Embedding(enc.Rel("left")) {
		assert.Zero(t, x.Grad)
	}
}

func TestNext(t *testing.T) {
	st := &State{Nodes: []autograd.Vec{autograd.NewVec(1)}, Global: autograd.NewVec(1)}
	st.Hidden = st.Global
	next := st.Next(autograd.NewVec(2))
	assert.Equal(t, 1.0, st.Hidden[0].Data)
	assert.Equal(t, 2.0, next.Hidden[0].Data)
	assert.Equal(t, st.Nodes, next.Nodes)
}
