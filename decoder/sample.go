// Package decoder turns an encoded environment state into the next clause.
//
// Both decoders return the log-probability of the decision they made, the clause and
// the next state. With probability eps the decision is uniform, otherwise greedy.
package decoder

import (
	"math"
	"math/rand"

	"github.com/neurlang/refrl/autograd"
)

// choose picks an index of logp epsilon-greedily.
func choose(rng *rand.Rand, logp autograd.Vec, eps float64) int {
	if eps > 0 && rng.Float64() < eps {
		return rng.Intn(len(logp))
	}
	return logp.Argmax()
}

// attend computes the softmax attention of query over keys and the weighted sum of keys.
func attend(query autograd.Vec, keys []autograd.Vec) autograd.Vec {
	scores := make(autograd.Vec, len(keys))
	for i, k := range keys {
		scores[i] = autograd.Dot(query, k)
	}
	return autograd.Weighted(autograd.Softmax(scores), keys)
}

// score computes the logits of query against every row.
func score(query autograd.Vec, rows []autograd.Vec) autograd.Vec {
	o := make(autograd.Vec, len(rows))
	for i, r := range rows {
		o[i] = autograd.Dot(query, r)
	}
	return o
}

func stddev(dim int) float64 {
	return 1 / math.Sqrt(float64(dim))
}
