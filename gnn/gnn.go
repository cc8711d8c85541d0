// Package gnn implements the graph encoder shared by the policies.
package gnn

import (
	"math"
	"math/rand"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/encoder"
	"github.com/neurlang/refrl/graph"
)

// State is the encoded environment state threaded through an episode.
// A nil *State means the environment has not been encoded yet.
type State struct {
	// Nodes holds one embedding per graph node.
	Nodes []autograd.Vec
	// Global is the mean of the node embeddings.
	Global autograd.Vec
	// Hidden is the decoder hidden vector, Global for a freshly encoded graph.
	Hidden autograd.Vec
}

// Next returns a copy of s with the hidden vector replaced.
func (s *State) Next(hidden autograd.Vec) *State {
	return &State{Nodes: s.Nodes, Global: s.Global, Hidden: hidden}
}

type layer struct {
	self  autograd.Matrix
	neigh autograd.Matrix
}

// GNN embeds attributes and relations and runs rounds of mean neighbour message passing.
type GNN struct {
	enc    *encoder.AttrEncoder
	dim    int
	embed  autograd.Matrix
	layers []layer
}

// New creates a GNN with dim wide embeddings and the given number of message passing rounds.
func New(enc *encoder.AttrEncoder, dim, layers int, rng *rand.Rand) *GNN {
	std := 1 / math.Sqrt(float64(dim))
	g := &GNN{
		enc:   enc,
		dim:   dim,
		embed: autograd.NewMatrix(enc.Size(), dim, std, rng),
	}
	for i := 0; i < layers; i++ {
		g.layers = append(g.layers, layer{
			self:  autograd.NewMatrix(dim, dim, std, rng),
			neigh: autograd.NewMatrix(dim, dim, std, rng),
		})
	}
	return g
}

// Dim is the embedding width.
func (g *GNN) Dim() int {
	return g.dim
}

// Encoder returns the attribute encoder the embedding table is indexed by.
func (g *GNN) Encoder() *encoder.AttrEncoder {
	return g.enc
}

// Embedding returns the row of the embedding table for id.
func (g *GNN) Embedding(id int) autograd.Vec {
	return g.embed[id]
}

// Encode embeds every node of gr as the mean of its attribute embeddings and refines
// the embeddings by message passing along the edges in both directions.
func (g *GNN) Encode(gr *graph.Graph) *State {
	h := make([]autograd.Vec, gr.Len())
	for i, n := range gr.Nodes {
		if len(n.Attrs) == 0 {
			h[i] = autograd.Zeros(g.dim)
			continue
		}
		rows := make([]autograd.Vec, len(n.Attrs))
		for j, a := range n.Attrs {
			rows[j] = g.embed[g.enc.Attr(a)]
		}
		h[i] = autograd.Mean(rows)
	}

	for _, l := range g.layers {
		next := make([]autograd.Vec, len(h))
		for i := range h {
			pre := l.self.MatVec(h[i])
			if nb := gr.Neighbors(i); len(nb) > 0 {
				msgs := make([]autograd.Vec, len(nb))
				for j, n := range nb {
					msgs[j] = h[n]
				}
				pre = autograd.AddVec(pre, l.neigh.MatVec(autograd.Mean(msgs)))
			}
			next[i] = autograd.TanhVec(pre)
		}
		h = next
	}

	global := autograd.Mean(h)
	if global == nil {
		global = autograd.Zeros(g.dim)
	}
	return &State{Nodes: h, Global: global, Hidden: global}
}

// Parameters returns the embedding table followed by the layer weights.
func (g *GNN) Parameters() (o []*autograd.Value) {
	o = append(o, g.embed.Parameters()...)
	for _, l := range g.layers {
		o = append(o, l.self.Parameters()...)
		o = append(o, l.neigh.Parameters()...)
	}
	return
}
