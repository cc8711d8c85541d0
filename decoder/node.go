package decoder

import (
	"errors"
	"math/rand"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/clause"
	"github.com/neurlang/refrl/gnn"
	"github.com/neurlang/refrl/graph"
)

// ErrNoAttributes is returned when the vocabulary has no attribute to select.
var ErrNoAttributes = errors.New("decoder: vocabulary has no attributes")

// NodeDecoder selects a node of the graph by attention against the node embeddings
// and then one of the attributes of that node.
type NodeDecoder struct {
	net *gnn.GNN
	rng *rand.Rand

	node   autograd.Matrix
	attr   autograd.Matrix
	hidden autograd.Matrix
	pred   autograd.Matrix
}

// NewNodeDecoder creates the decoder.
func NewNodeDecoder(net *gnn.GNN, rng *rand.Rand) (*NodeDecoder, error) {
	if len(net.Encoder().Attributes()) == 0 {
		return nil, ErrNoAttributes
	}
	dim := net.Dim()
	std := stddev(dim)
	return &NodeDecoder{
		net:    net,
		rng:    rng,
		node:   autograd.NewMatrix(dim, dim, std, rng),
		attr:   autograd.NewMatrix(dim, dim, std, rng),
		hidden: autograd.NewMatrix(dim, dim, std, rng),
		pred:   autograd.NewMatrix(dim, dim, std, rng),
	}, nil
}

// Decode selects a node and an attribute. A non-nil ref attribute clause restricts the
// decision to nodes carrying ref's predicate and scores that predicate.
// Nodes without attributes offer every attribute of the vocabulary.
func (d *NodeDecoder) Decode(st *gnn.State, g *graph.Graph, ref *clause.Clause, eps float64) (*autograd.Value, clause.Clause, *gnn.State) {
	var nodes []int
	for i, n := range g.Nodes {
		if ref != nil && ref.Kind == clause.Attr && !n.HasAttr(ref.Predicate) {
			continue
		}
		nodes = append(nodes, i)
	}
	if len(nodes) == 0 {
		for i := range g.Nodes {
			nodes = append(nodes, i)
		}
	}

	q := d.node.MatVec(st.Hidden)
	keys := make([]autograd.Vec, len(nodes))
	for i, n := range nodes {
		keys[i] = st.Nodes[n]
	}
	nlogp := autograd.LogSoftmax(score(q, keys))
	ni := choose(d.rng, nlogp, eps)
	picked := st.Nodes[nodes[ni]]

	enc := d.net.Encoder()
	names := g.Nodes[nodes[ni]].Attrs
	if len(names) == 0 {
		names = enc.Attributes()
	}
	rows := make([]autograd.Vec, len(names))
	for i, a := range names {
		rows[i] = d.net.Embedding(enc.Attr(a))
	}
	alogp := autograd.LogSoftmax(score(d.attr.MatVec(autograd.AddVec(st.Hidden, picked)), rows))
	ai := -1
	if ref != nil && ref.Kind == clause.Attr {
		for i, a := range names {
			if a == ref.Predicate {
				ai = i
			}
		}
	}
	if ai < 0 {
		ai = choose(d.rng, alogp, eps)
	}

	logp := autograd.Add(nlogp[ni], alogp[ai])
	c := clause.NewAttr(names[ai])

	next := autograd.AddVec(d.hidden.MatVec(st.Hidden), d.pred.MatVec(rows[ai]))
	next = autograd.TanhVec(autograd.AddVec(next, picked))
	return logp, c, st.Next(next)
}

// Parameters returns the decoder weights.
func (d *NodeDecoder) Parameters() (o []*autograd.Value) {
	for _, m := range []autograd.Matrix{d.node, d.attr, d.hidden, d.pred} {
		o = append(o, m.Parameters()...)
	}
	return
}
