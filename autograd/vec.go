package autograd

import "math"
import "math/rand"

// Vec is a vector of values.
type Vec []*Value

// NewVec creates a vector of leaves holding data.
func NewVec(data ...float64) Vec {
	o := make(Vec, len(data))
	for i, x := range data {
		o[i] = New(x)
	}
	return o
}

// Zeros creates a constant zero vector.
func Zeros(n int) Vec {
	o := make(Vec, n)
	for i := range o {
		o[i] = Const(0)
	}
	return o
}

// Data copies the forward values of v.
func (v Vec) Data() []float64 {
	o := make([]float64, len(v))
	for i, x := range v {
		o[i] = x.Data
	}
	return o
}

// Argmax returns the index of the largest element, the first one on ties.
func (v Vec) Argmax() (best int) {
	for i := range v {
		if v[i].Data > v[best].Data {
			best = i
		}
	}
	return
}

// AddVec adds a and b elementwise.
func AddVec(a, b Vec) Vec {
	o := make(Vec, len(a))
	for i := range a {
		o[i] = Add(a[i], b[i])
	}
	return o
}

// TanhVec applies tanh elementwise.
func TanhVec(a Vec) Vec {
	o := make(Vec, len(a))
	for i := range a {
		o[i] = Tanh(a[i])
	}
	return o
}

// ScaleVec multiplies every element of a by s.
func ScaleVec(a Vec, s *Value) Vec {
	o := make(Vec, len(a))
	for i := range a {
		o[i] = Mul(a[i], s)
	}
	return o
}

// Mean averages equally sized vectors. It returns nil for no input.
func Mean(vs []Vec) Vec {
	if len(vs) == 0 {
		return nil
	}
	o := make(Vec, len(vs[0]))
	col := make([]*Value, len(vs))
	for d := range o {
		for i := range vs {
			col[i] = vs[i][d]
		}
		o[d] = Scale(Sum(append([]*Value(nil), col...)...), 1/float64(len(vs)))
	}
	return o
}

// Weighted computes Σ w[i] * vs[i].
func Weighted(w Vec, vs []Vec) Vec {
	o := make(Vec, len(vs[0]))
	terms := make([]*Value, len(vs))
	for d := range o {
		for i := range vs {
			terms[i] = Mul(w[i], vs[i][d])
		}
		o[d] = Sum(append([]*Value(nil), terms...)...)
	}
	return o
}

// LogSumExp computes log Σ exp(x) stably.
func LogSumExp(x Vec) *Value {
	m := math.Inf(-1)
	for _, v := range x {
		m = math.Max(m, v.Data)
	}
	exps := make([]*Value, len(x))
	shift := Const(m)
	for i, v := range x {
		exps[i] = Exp(Sub(v, shift))
	}
	return Add(Log(Sum(exps...)), shift)
}

// LogSoftmax normalizes logits into log-probabilities.
func LogSoftmax(logits Vec) Vec {
	lse := LogSumExp(logits)
	o := make(Vec, len(logits))
	for i, l := range logits {
		o[i] = Sub(l, lse)
	}
	return o
}

// Softmax normalizes logits into probabilities.
func Softmax(logits Vec) Vec {
	ls := LogSoftmax(logits)
	o := make(Vec, len(ls))
	for i, l := range ls {
		o[i] = Exp(l)
	}
	return o
}

// Matrix is a row-major matrix of values.
type Matrix []Vec

// NewMatrix creates a rows x cols matrix of leaves drawn from N(0, std²).
func NewMatrix(rows, cols int, std float64, rng *rand.Rand) Matrix {
	m := make(Matrix, rows)
	for r := range m {
		m[r] = make(Vec, cols)
		for c := range m[r] {
			m[r][c] = New(rng.NormFloat64() * std)
		}
	}
	return m
}

// MatVec computes m·x.
func (m Matrix) MatVec(x Vec) Vec {
	o := make(Vec, len(m))
	for r, row := range m {
		o[r] = Dot(row, x)
	}
	return o
}

// Parameters flattens the matrix in row-major order.
func (m Matrix) Parameters() (o []*Value) {
	for _, row := range m {
		o = append(o, row...)
	}
	return
}
