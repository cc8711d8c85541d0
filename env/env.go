// Package env implements the referring-expression environment.
//
// An environment holds the candidate objects that satisfy every clause decoded so far.
// Each step applies the newest clause and rewards how it changed the candidates.
package env

import (
	"fmt"

	"github.com/neurlang/refrl/clause"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/datasets"
	"github.com/neurlang/refrl/encoder"
	"github.com/neurlang/refrl/gnn"
	"github.com/neurlang/refrl/graph"
	"github.com/neurlang/refrl/reward"
)

// SubProblem is a deferred sub-goal: a data point to solve in the same graph, and the
// clauses that led to it.
type SubProblem struct {
	DataPoint datasets.DataPoint
	Clauses   []clause.Clause
}

// Environment is what a policy steps through.
type Environment interface {
	// State is nil until the policy encodes the graph.
	State() *gnn.State
	SetState(*gnn.State)
	Graph() *graph.Graph
	DataPoint() datasets.DataPoint
	AddClause(clause.Clause)
	Clauses() []clause.Clause
	// Step applies the newest clause and returns its reward.
	Step() float64
	IsFinished() bool
	Success() bool
	// FinalReward is the terminal reward of an episode cut short.
	FinalReward() float64
	RetrainList() []SubProblem
}

// Factory creates a fresh environment for one episode.
type Factory func(dp datasets.DataPoint, g *graph.Graph, cfg config.Config, enc *encoder.AttrEncoder) Environment

// Env is the candidate narrowing environment.
type Env struct {
	dp    datasets.DataPoint
	g     *graph.Graph
	enc   *encoder.AttrEncoder
	dense bool

	state   *gnn.State
	clauses []clause.Clause
	applied int

	candidates []int
	finished   bool
	success    bool

	deferred []SubProblem
	anchors  map[int]struct{}
}

// New creates an environment where every object of g is a candidate.
func New(dp datasets.DataPoint, g *graph.Graph, cfg config.Config, enc *encoder.AttrEncoder) *Env {
	e := &Env{
		dp:      dp,
		g:       g,
		enc:     enc,
		dense:   cfg.RewardType == config.Dense,
		anchors: map[int]struct{}{dp.Target: {}},
	}
	for i := range g.Nodes {
		e.candidates = append(e.candidates, i)
	}
	return e
}

// NewEnvironment is New as a Factory.
func NewEnvironment(dp datasets.DataPoint, g *graph.Graph, cfg config.Config, enc *encoder.AttrEncoder) Environment {
	return New(dp, g, cfg, enc)
}

func (e *Env) State() *gnn.State { return e.state }
func (e *Env) SetState(s *gnn.State) { e.state = s }
func (e *Env) Graph() *graph.Graph { return e.g }
func (e *Env) DataPoint() datasets.DataPoint { return e.dp }
func (e *Env) AddClause(c clause.Clause) { e.clauses = append(e.clauses, c) }
func (e *Env) Clauses() []clause.Clause { return e.clauses }
func (e *Env) IsFinished() bool { return e.finished }
func (e *Env) Success() bool { return e.success }
func (e *Env) RetrainList() []SubProblem { return e.deferred }

// Candidates returns the objects satisfying every applied clause.
func (e *Env) Candidates() []int {
	return e.candidates
}

// Step applies every clause added since the previous step. Losing the target fails the
// episode and isolating it succeeds. The episode also fails once no clause of the
// vocabulary can separate the target from the other candidates. Otherwise the dense
// reward is the fraction of candidates removed.
func (e *Env) Step() float64 {
	if e.finished {
		return 0
	}
	old := len(e.candidates)
	for ; e.applied < len(e.clauses); e.applied++ {
		e.apply(e.clauses[e.applied])
	}

	if !e.contains(e.dp.Target) {
		e.finished = true
		return reward.Failure
	}
	if len(e.candidates) == 1 {
		e.finished, e.success = true, true
		return reward.Success
	}
	if !e.separable() {
		e.finished = true
		return reward.Failure
	}
	if !e.dense || old == 0 {
		return 0
	}
	return float64(old-len(e.candidates)) / float64(old)
}

// FinalReward is Success when only the target remains, Failure otherwise.
func (e *Env) FinalReward() float64 {
	if len(e.candidates) == 1 && e.candidates[0] == e.dp.Target {
		return reward.Success
	}
	return reward.Failure
}

func (e *Env) apply(c clause.Clause) {
	keep := e.candidates[:0]
	for _, n := range e.candidates {
		if e.satisfies(n, c) {
			keep = append(keep, n)
		}
	}
	e.candidates = keep

	if c.Kind != clause.Rel {
		return
	}
	// the anchor the target relates to must be identified in turn
	for _, anchor := range e.g.Related(e.dp.Target, c.Predicate) {
		if _, ok := e.anchors[anchor]; ok {
			continue
		}
		e.anchors[anchor] = struct{}{}
		e.deferred = append(e.deferred, SubProblem{
			DataPoint: datasets.DataPoint{
				ID:      fmt.Sprintf("%s/%s/%d", e.dp.ID, c.Predicate, anchor),
				GraphID: e.dp.GraphID,
				Target:  anchor,
			},
			Clauses: append([]clause.Clause(nil), e.clauses[:e.applied+1]...),
		})
	}
}

func (e *Env) satisfies(n int, c clause.Clause) bool {
	if c.Kind == clause.Rel {
		return len(e.g.Related(n, c.Predicate)) > 0
	}
	return e.g.Nodes[n].HasAttr(c.Predicate)
}

func (e *Env) contains(n int) bool {
	for _, c := range e.candidates {
		if c == n {
			return true
		}
	}
	return false
}

// separable reports whether some predicate of the vocabulary holds for the target but
// not for every other candidate.
func (e *Env) separable() bool {
	if e.enc == nil {
		return true
	}
	try := func(c clause.Clause) bool {
		if !e.satisfies(e.dp.Target, c) {
			return false
		}
		for _, n := range e.candidates {
			if !e.satisfies(n, c) {
				return true
			}
		}
		return false
	}
	for _, a := range e.enc.Attributes() {
		if try(clause.NewAttr(a)) {
			return true
		}
	}
	for _, r := range e.enc.Relations() {
		if try(clause.NewRel(r)) {
			return true
		}
	}
	return false
}
