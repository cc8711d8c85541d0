package trainer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/datasets"
	"github.com/neurlang/refrl/env"
	"github.com/neurlang/refrl/graph"
	"github.com/neurlang/refrl/reward"
)

// Budget bounds the recursive sub-problems of one top level data point.
type Budget struct {
	max  int
	used int
}

// NewBudget allows max recursive invocations.
func NewBudget(max int) *Budget {
	return &Budget{max: max}
}

// Take consumes one unit, it reports false once the budget is spent.
func (b *Budget) Take() bool {
	if b.used >= b.max {
		return false
	}
	b.used++
	return true
}

// Used is the number of units consumed.
func (b *Budget) Used() int {
	return b.used
}

// Episode resets the policy and steps a fresh environment until it finishes or
// EpisodeLength decisions were made. The trajectory stays in the policy.
func (r *RefRL) Episode(dp datasets.DataPoint, g *graph.Graph, eps float64) (env.Environment, []env.SubProblem) {
	r.Policy.Reset(eps)
	e := r.NewEnv(dp, g, r.Config, r.Encoder)

	var steps int
	for !e.IsFinished() {
		if steps >= r.Config.EpisodeLength {
			r.exhaust(dp, e)
			break
		}
		steps++
		e = r.Policy.Apply(e)
	}
	episodeSteps.Observe(float64(steps))

	if logger := r.log(); logger.Enabled(context.Background(), slog.LevelDebug) {
		traj := r.Policy.Trajectory()
		clauses := make([]string, len(e.Clauses()))
		for i, c := range e.Clauses() {
			clauses[i] = c.String()
		}
		logger.Debug("episode",
			"data_point", dp.ID,
			"rewards", traj.Rewards,
			"log_probs", autograd.Vec(traj.LogProbs).Data(),
			"clauses", clauses,
			"success", e.Success())
	}
	return e, e.RetrainList()
}

// exhaust closes an episode that ran out of steps with a synthetic terminal entry.
func (r *RefRL) exhaust(dp datasets.DataPoint, e env.Environment) {
	traj := r.Policy.Trajectory()
	final := e.FinalReward()
	if r.Config.RewardType == config.OnlySuccess {
		if final == reward.Failure {
			traj.ZeroRewards()
			traj.Pad(reward.Failure)
		} else {
			traj.Pad(reward.Success)
		}
	} else {
		traj.Pad(final)
	}
	stepBudgetExhausted.Inc()
	r.log().Warn("running out of steps", "data_point", dp.ID, "steps", r.Config.EpisodeLength, "final_reward", final)
}

// FitOne runs the episode of dp and, with SubLoss enabled, the episodes of its deferred
// sub-problems on the resulting graph. The loss sums the episode losses. A sub-problem
// refused by the budget ends the recursion with the losses collected so far.
func (r *RefRL) FitOne(b *Budget, dp datasets.DataPoint, g *graph.Graph, eps float64) (env.Environment, *autograd.Value, error) {
	return r.fitOne(b, dp, g, eps, false)
}

// fitOne returns a nil environment when a recursive call finds the budget spent.
func (r *RefRL) fitOne(b *Budget, dp datasets.DataPoint, g *graph.Graph, eps float64, recursive bool) (env.Environment, *autograd.Value, error) {
	if recursive && !b.Take() {
		return nil, nil, nil
	}

	e, retrain := r.Episode(dp, g, eps)
	traj := r.Policy.Trajectory()
	loss, err := reward.PolicyGradientLoss(traj.Rewards, traj.LogProbs, r.Config.Gamma)
	if err != nil {
		return e, nil, fmt.Errorf("data point %s: %w", dp.ID, err)
	}
	if !r.Config.SubLoss {
		return e, loss, nil
	}

	losses := []*autograd.Value{loss}
	for _, sub := range retrain {
		r.log().Debug("sub-problem", "data_point", sub.DataPoint.ID, "parent", dp.ID, "clauses", len(sub.Clauses))
		se, sl, err := r.fitOne(b, sub.DataPoint, e.Graph(), eps, true)
		if err != nil {
			return e, nil, err
		}
		if se == nil {
			subProblemBudgetExhausted.Inc()
			r.log().Warn("running out of budget", "data_point", dp.ID, "budget", b.max)
			break
		}
		losses = append(losses, sl)
	}
	return e, autograd.Sum(losses...), nil
}
