// Package envtest provides a scripted environment and a fixed decider for testing
// episode handling without a model.
package envtest

import (
	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/clause"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/datasets"
	"github.com/neurlang/refrl/encoder"
	"github.com/neurlang/refrl/env"
	"github.com/neurlang/refrl/gnn"
	"github.com/neurlang/refrl/graph"
	"github.com/neurlang/refrl/reward"
)

// Scripted plays a Script.
type Scripted struct {
	Script

	DP datasets.DataPoint
	G  *graph.Graph

	state    *gnn.State
	clauses  []clause.Clause
	steps    int
	finished bool
	success  bool
}

// Script returns Rewards one per step and finishes after FinishAt steps (0 never finishes).
// Final is the FinalReward and Sub the RetrainList.
type Script struct {
	Rewards  []float64
	FinishAt int
	Final    float64
	Sub      []env.SubProblem
}

// Factory creates a Scripted environment from script for every episode.
// The script is chosen by the data point, falling back to the "" entry.
func Factory(scripts map[string]Script) env.Factory {
	return func(dp datasets.DataPoint, g *graph.Graph, _ config.Config, _ *encoder.AttrEncoder) env.Environment {
		s, ok := scripts[dp.ID]
		if !ok {
			s = scripts[""]
		}
		return &Scripted{Script: s, DP: dp, G: g}
	}
}

func (s *Scripted) State() *gnn.State { return s.state }
func (s *Scripted) SetState(st *gnn.State) { s.state = st }
func (s *Scripted) Graph() *graph.Graph { return s.G }
func (s *Scripted) DataPoint() datasets.DataPoint { return s.DP }
func (s *Scripted) AddClause(c clause.Clause) { s.clauses = append(s.clauses, c) }
func (s *Scripted) Clauses() []clause.Clause { return s.clauses }
func (s *Scripted) IsFinished() bool { return s.finished }
func (s *Scripted) Success() bool { return s.success }
func (s *Scripted) FinalReward() float64 { return s.Final }
func (s *Scripted) RetrainList() []env.SubProblem { return s.Sub }

// Steps is the number of Step calls so far.
func (s *Scripted) Steps() int {
	return s.steps
}

func (s *Scripted) Step() float64 {
	var r float64
	if s.steps < len(s.Rewards) {
		r = s.Rewards[s.steps]
	}
	s.steps++
	if s.FinishAt > 0 && s.steps >= s.FinishAt {
		s.finished = true
		s.success = r == reward.Success
	}
	return r
}

// Decider decides Clause with log-probability LogProb every time.
type Decider struct {
	LogProb float64
	Clause  clause.Clause

	// Calls counts decisions, LastEps is the exploration rate of the latest one.
	Calls   int
	LastEps float64
}

// Decide returns a fresh leaf holding LogProb and a fresh empty state.
func (d *Decider) Decide(e env.Environment, eps float64) (*autograd.Value, clause.Clause, *gnn.State) {
	d.Calls++
	d.LastEps = eps
	return autograd.New(d.LogProb), d.Clause, &gnn.State{}
}

// Parameters has nothing to train.
func (d *Decider) Parameters() []*autograd.Value {
	return nil
}
