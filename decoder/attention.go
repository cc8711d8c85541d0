package decoder

import (
	"math/rand"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/clause"
	"github.com/neurlang/refrl/gnn"
)

// AttClauseDecoder decodes the clause kind from the hidden vector and then the predicate
// by attention between the hidden query and the embeddings of the action space.
type AttClauseDecoder struct {
	net *gnn.GNN
	rng *rand.Rand

	kind   autograd.Matrix
	attn   autograd.Matrix
	query  autograd.Matrix
	hidden autograd.Matrix
	pred   autograd.Matrix

	// action space per kind, as embedding ids
	ids   [len(clause.Kinds)][]int
	names [len(clause.Kinds)][]string
}

// NewAttClauseDecoder creates the decoder over the action space of net's encoder.
func NewAttClauseDecoder(net *gnn.GNN, rng *rand.Rand) *AttClauseDecoder {
	dim := net.Dim()
	std := stddev(dim)
	d := &AttClauseDecoder{
		net:    net,
		rng:    rng,
		kind:   autograd.NewMatrix(len(clause.Kinds), dim, std, rng),
		attn:   autograd.NewMatrix(dim, dim, std, rng),
		query:  autograd.NewMatrix(dim, dim, std, rng),
		hidden: autograd.NewMatrix(dim, dim, std, rng),
		pred:   autograd.NewMatrix(dim, dim, std, rng),
	}
	enc := net.Encoder()
	for _, a := range enc.Attributes() {
		d.ids[clause.Attr] = append(d.ids[clause.Attr], enc.Attr(a))
		d.names[clause.Attr] = append(d.names[clause.Attr], a)
	}
	for _, r := range enc.Relations() {
		d.ids[clause.Rel] = append(d.ids[clause.Rel], enc.Rel(r))
		d.names[clause.Rel] = append(d.names[clause.Rel], r)
	}
	return d
}

// Decode returns the log-probability of the decoded clause, the clause and the next state.
// Kinds without any predicate are never chosen.
func (d *AttClauseDecoder) Decode(st *gnn.State, eps float64) (*autograd.Value, clause.Clause, *gnn.State) {
	var kinds []clause.Kind
	var klogits autograd.Vec
	all := d.kind.MatVec(st.Hidden)
	for _, k := range clause.Kinds {
		if len(d.ids[k]) > 0 {
			kinds = append(kinds, k)
			klogits = append(klogits, all[k])
		}
	}
	klogp := autograd.LogSoftmax(klogits)
	ki := choose(d.rng, klogp, eps)
	kind := kinds[ki]

	hq := d.query.MatVec(st.Hidden)
	if len(st.Nodes) > 0 {
		hq = autograd.AddVec(hq, attend(d.attn.MatVec(st.Hidden), st.Nodes))
	}
	q := autograd.TanhVec(hq)

	rows := make([]autograd.Vec, len(d.ids[kind]))
	for i, id := range d.ids[kind] {
		rows[i] = d.net.Embedding(id)
	}
	plogp := autograd.LogSoftmax(score(q, rows))
	pi := choose(d.rng, plogp, eps)

	logp := autograd.Add(klogp[ki], plogp[pi])
	c := clause.Clause{Kind: kind, Predicate: d.names[kind][pi]}

	next := autograd.AddVec(d.hidden.MatVec(st.Hidden), d.pred.MatVec(rows[pi]))
	next = autograd.TanhVec(autograd.AddVec(next, st.Global))
	return logp, c, st.Next(next)
}

// Parameters returns the decoder weights. The embeddings belong to the GNN.
func (d *AttClauseDecoder) Parameters() (o []*autograd.Value) {
	for _, m := range []autograd.Matrix{d.kind, d.attn, d.query, d.hidden, d.pred} {
		o = append(o, m.Parameters()...)
	}
	return
}
