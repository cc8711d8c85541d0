package policy

import "github.com/neurlang/refrl/autograd"

// PadLogProb is the constant log-probability recorded for a synthetic terminal step.
const PadLogProb = 1.0

// Trajectory is the episode history of a policy.
type Trajectory struct {
	LogProbs []*autograd.Value
	Rewards  []float64
}

// Len is the number of recorded decisions.
func (t *Trajectory) Len() int {
	return len(t.LogProbs)
}

// Aligned reports whether every decision has its reward.
func (t *Trajectory) Aligned() bool {
	return len(t.LogProbs) == len(t.Rewards)
}

// ZeroRewards clears every recorded reward to 0.
func (t *Trajectory) ZeroRewards() {
	for i := range t.Rewards {
		t.Rewards[i] = 0
	}
}

// Pad appends a synthetic terminal step with reward r and a constant log-probability.
func (t *Trajectory) Pad(r float64) {
	t.LogProbs = append(t.LogProbs, autograd.Const(PadLogProb))
	t.Rewards = append(t.Rewards, r)
}

// Reset empties both histories.
func (t *Trajectory) Reset() {
	t.LogProbs = nil
	t.Rewards = nil
}
