// Package optim implements the Adam optimizer over autograd parameters.
package optim

import "errors"
import "math"

import "github.com/neurlang/refrl/autograd"
import "github.com/neurlang/refrl/vec"

// ErrStateMismatch is returned when a restored state does not fit the parameters.
var ErrStateMismatch = errors.New("optimizer state does not match parameter count")

// Adam keeps first and second moment estimates for every parameter.
type Adam struct {
	LR    float64 // learning rate
	Beta1 float64 // first moment decay
	Beta2 float64 // second moment decay
	Eps   float64 // denominator epsilon

	// MaxGradNorm rescales the gradient when its norm is larger. Zero disables clipping.
	MaxGradNorm float64

	params []*autograd.Value
	m, v   []float64
	t      int
}

// State is the serializable part of Adam.
type State struct {
	Step int       `json:"step"`
	M    []float64 `json:"m"`
	V    []float64 `json:"v"`
}

// NewAdam creates an optimizer with the usual defaults for params.
func NewAdam(params []*autograd.Value, lr float64) *Adam {
	return &Adam{
		LR:     lr,
		Beta1:  0.9,
		Beta2:  0.999,
		Eps:    1e-8,
		params: params,
		m:      make([]float64, len(params)),
		v:      make([]float64, len(params)),
	}
}

// Steps reports how many updates were applied.
func (a *Adam) Steps() int {
	return a.t
}

// ZeroGrad clears the gradient of every parameter.
func (a *Adam) ZeroGrad() {
	for _, p := range a.params {
		p.Grad = 0
	}
}

// GradNorm returns the euclidean norm of the accumulated gradient.
func (a *Adam) GradNorm() float64 {
	g := make([]float64, len(a.params))
	for i, p := range a.params {
		g[i] = p.Grad
	}
	return vec.Norm2(g)
}

// Step applies one update using the accumulated gradients. Gradients are left untouched.
func (a *Adam) Step() {
	g := make([]float64, len(a.params))
	for i, p := range a.params {
		g[i] = p.Grad
	}
	if a.MaxGradNorm > 0 {
		if n := vec.Norm2(g); n > a.MaxGradNorm {
			vec.Scale(a.MaxGradNorm/n, g)
		}
	}
	a.t++
	c1 := 1 - math.Pow(a.Beta1, float64(a.t))
	c2 := 1 - math.Pow(a.Beta2, float64(a.t))
	for i, p := range a.params {
		a.m[i] = a.Beta1*a.m[i] + (1-a.Beta1)*g[i]
		a.v[i] = a.Beta2*a.v[i] + (1-a.Beta2)*g[i]*g[i]
		mHat := a.m[i] / c1
		vHat := a.v[i] / c2
		p.Data -= a.LR * mHat / (math.Sqrt(vHat) + a.Eps)
	}
}

// State snapshots the moments.
func (a *Adam) State() State {
	return State{
		Step: a.t,
		M:    append([]float64(nil), a.m...),
		V:    append([]float64(nil), a.v...),
	}
}

// SetState restores moments saved by State.
func (a *Adam) SetState(s State) error {
	if len(s.M) != len(a.params) || len(s.V) != len(a.params) {
		return ErrStateMismatch
	}
	a.t = s.Step
	copy(a.m, s.M)
	copy(a.v, s.V)
	return nil
}
