// Package autograd implements a scalar reverse-mode automatic differentiation engine.
//
// Every operation allocates a new Value that remembers its children and the local
// partial derivatives with respect to them. Backward walks the resulting graph in
// reverse topological order and accumulates gradients into the leaves.
package autograd

import "math"

import "github.com/neurlang/refrl/vec"

// Value is one node of the computation graph.
type Value struct {
	Data float64
	Grad float64

	children []*Value
	local    []float64
}

// New creates a leaf value (a parameter or a constant).
func New(x float64) *Value {
	return &Value{Data: x}
}

// Const is an alias of New used where the value never receives a meaningful gradient.
func Const(x float64) *Value {
	return &Value{Data: x}
}

// IsLeaf reports whether v was not produced by an operation.
func (v *Value) IsLeaf() bool {
	return len(v.children) == 0
}

func Add(a, b *Value) *Value {
	return &Value{Data: a.Data + b.Data, children: []*Value{a, b}, local: []float64{1, 1}}
}

func Sub(a, b *Value) *Value {
	return &Value{Data: a.Data - b.Data, children: []*Value{a, b}, local: []float64{1, -1}}
}

func Mul(a, b *Value) *Value {
	return &Value{Data: a.Data * b.Data, children: []*Value{a, b}, local: []float64{b.Data, a.Data}}
}

// Scale multiplies a by the constant k.
func Scale(a *Value, k float64) *Value {
	return &Value{Data: a.Data * k, children: []*Value{a}, local: []float64{k}}
}

func Neg(a *Value) *Value {
	return Scale(a, -1)
}

func Div(a, b *Value) *Value {
	return &Value{Data: a.Data / b.Data, children: []*Value{a, b},
		local: []float64{1 / b.Data, -a.Data / (b.Data * b.Data)}}
}

func Pow(a *Value, p float64) *Value {
	return &Value{Data: math.Pow(a.Data, p), children: []*Value{a}, local: []float64{p * math.Pow(a.Data, p-1)}}
}

func Log(a *Value) *Value {
	return &Value{Data: math.Log(a.Data), children: []*Value{a}, local: []float64{1 / a.Data}}
}

func Exp(a *Value) *Value {
	e := math.Exp(a.Data)
	return &Value{Data: e, children: []*Value{a}, local: []float64{e}}
}

func Tanh(a *Value) *Value {
	t := math.Tanh(a.Data)
	return &Value{Data: t, children: []*Value{a}, local: []float64{1 - t*t}}
}

func ReLU(a *Value) *Value {
	if a.Data > 0 {
		return &Value{Data: a.Data, children: []*Value{a}, local: []float64{1}}
	}
	return &Value{Data: 0, children: []*Value{a}, local: []float64{0}}
}

// Sum adds all values in a single node.
func Sum(vs ...*Value) *Value {
	if len(vs) == 0 {
		return Const(0)
	}
	out := &Value{children: vs, local: make([]float64, len(vs))}
	for i, v := range vs {
		out.Data += v.Data
		out.local[i] = 1
	}
	return out
}

// Dot computes a·b in a single node. a and b must have the same length.
func Dot(a, b Vec) *Value {
	if len(a) != len(b) {
		panic("autograd: dot of vectors with different lengths")
	}
	ad, bd := a.Data(), b.Data()
	out := &Value{
		Data:     vec.Dot(ad, bd),
		children: make([]*Value, 0, 2*len(a)),
		local:    make([]float64, 0, 2*len(a)),
	}
	out.children = append(out.children, a...)
	out.children = append(out.children, b...)
	out.local = append(out.local, bd...)
	out.local = append(out.local, ad...)
	return out
}

// Backward sets the gradient of v to one and propagates it to every node v depends on.
// Gradients accumulate, callers zero the parameters between updates.
func (v *Value) Backward() {
	topo := topological(v)
	v.Grad = 1
	for i := len(topo) - 1; i >= 0; i-- {
		n := topo[i]
		if n.Grad == 0 {
			continue
		}
		for j, ch := range n.children {
			ch.Grad += n.local[j] * n.Grad
		}
	}
}

// topological orders the graph below root so every node comes after its children.
// The walk is iterative, long episodes produce deep graphs.
func topological(root *Value) (topo []*Value) {
	type frame struct {
		v    *Value
		next int
	}
	visited := map[*Value]struct{}{root: {}}
	stack := []frame{{v: root}}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.v.children) {
			ch := top.v.children[top.next]
			top.next++
			if _, ok := visited[ch]; !ok {
				visited[ch] = struct{}{}
				stack = append(stack, frame{v: ch})
			}
			continue
		}
		topo = append(topo, top.v)
		stack = stack[:len(stack)-1]
	}
	return
}
