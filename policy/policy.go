// Package policy maps environment states to clause decisions and records the
// trajectory of the running episode.
package policy

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/clause"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/decoder"
	"github.com/neurlang/refrl/env"
	"github.com/neurlang/refrl/gnn"
	"github.com/neurlang/refrl/reward"
)

// ErrUnknownPolicy is returned by New for an unsupported policy name.
var ErrUnknownPolicy = errors.New("unknown policy")

// Policy is an episode scoped decision maker.
type Policy interface {
	Parameters() []*autograd.Value
	// Reset clears the trajectory and sets the exploration rate.
	Reset(eps float64)
	// Apply decides one clause, steps e and records the outcome.
	Apply(e env.Environment) env.Environment
	Trajectory() *Trajectory
	Eps() float64
}

// Decider produces the log-probability, the clause and the next state for e.
type Decider interface {
	Decide(e env.Environment, eps float64) (*autograd.Value, clause.Clause, *gnn.State)
}

// Base implements the trajectory bookkeeping of Policy on top of a Decider.
type Base struct {
	decider Decider
	reward  config.RewardType
	params  []*autograd.Value

	eps  float64
	traj Trajectory
}

// NewBase creates a policy around d. params are the trainable weights behind d.
func NewBase(d Decider, rt config.RewardType, params []*autograd.Value) *Base {
	return &Base{decider: d, reward: rt, params: params}
}

func (b *Base) Parameters() []*autograd.Value {
	return b.params
}

func (b *Base) Eps() float64 {
	return b.eps
}

func (b *Base) Trajectory() *Trajectory {
	return &b.traj
}

func (b *Base) Reset(eps float64) {
	b.traj.Reset()
	b.eps = eps
}

// Apply records the decision and its reward. A failed finish under only_success
// erases the credit of every earlier step.
func (b *Base) Apply(e env.Environment) env.Environment {
	logp, c, next := b.decider.Decide(e, b.eps)
	b.traj.LogProbs = append(b.traj.LogProbs, logp)
	e.AddClause(c)
	r := e.Step()
	e.SetState(next)
	if e.IsFinished() && b.reward == config.OnlySuccess && r == reward.Failure {
		b.traj.ZeroRewards()
	}
	b.traj.Rewards = append(b.traj.Rewards, r)
	return e
}

// encode returns the state of e, encoding the graph first when it is unset.
func encode(net *gnn.GNN, e env.Environment) *gnn.State {
	if st := e.State(); st != nil {
		return st
	}
	st := net.Encode(e.Graph())
	e.SetState(st)
	return st
}

// AttentionPolicy decodes clauses by attention over the action space.
type AttentionPolicy struct {
	*Base
	net *gnn.GNN
	dec *decoder.AttClauseDecoder
}

// NewAttentionPolicy creates the policy over net.
func NewAttentionPolicy(net *gnn.GNN, rt config.RewardType, rng *rand.Rand) *AttentionPolicy {
	p := &AttentionPolicy{net: net, dec: decoder.NewAttClauseDecoder(net, rng)}
	p.Base = NewBase(p, rt, append(net.Parameters(), p.dec.Parameters()...))
	return p
}

func (p *AttentionPolicy) Decide(e env.Environment, eps float64) (*autograd.Value, clause.Clause, *gnn.State) {
	return p.dec.Decode(encode(p.net, e), eps)
}

// NodeSelPolicy selects a node and one of its attributes, with no reference clause.
type NodeSelPolicy struct {
	*Base
	net *gnn.GNN
	dec *decoder.NodeDecoder
}

// NewNodeSelPolicy creates the policy over net.
func NewNodeSelPolicy(net *gnn.GNN, rt config.RewardType, rng *rand.Rand) (*NodeSelPolicy, error) {
	dec, err := decoder.NewNodeDecoder(net, rng)
	if err != nil {
		return nil, err
	}
	p := &NodeSelPolicy{net: net, dec: dec}
	p.Base = NewBase(p, rt, append(net.Parameters(), dec.Parameters()...))
	return p, nil
}

func (p *NodeSelPolicy) Decide(e env.Environment, eps float64) (*autograd.Value, clause.Clause, *gnn.State) {
	return p.dec.Decode(encode(p.net, e), e.Graph(), nil, eps)
}

// New creates the policy called name.
func New(name string, net *gnn.GNN, rt config.RewardType, rng *rand.Rand) (Policy, error) {
	switch name {
	case config.Attention:
		return NewAttentionPolicy(net, rt, rng), nil
	case config.NodeSel:
		p, err := NewNodeSelPolicy(net, rt, rng)
		if err != nil {
			return nil, err
		}
		return p, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
	}
}
