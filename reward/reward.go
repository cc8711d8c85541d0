// Package reward computes discounted returns and the policy-gradient loss.
package reward

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/stat"

	"github.com/neurlang/refrl/autograd"
)

const (
	// Success is the terminal reward of an episode that singled out its target.
	Success = 1.0
	// Failure is the terminal reward of an episode that lost or never isolated its target.
	Failure = -1.0
)

// ErrMisalignedTrajectory is returned when rewards and log-probabilities differ in length.
var ErrMisalignedTrajectory = errors.New("rewards and log-probabilities differ in length")

// stdEps below which returns are only centered
const stdEps = 1e-9

// DiscountedReturns computes G[t] = r[t] + gamma * G[t+1].
func DiscountedReturns(rewards []float64, gamma float64) []float64 {
	g := make([]float64, len(rewards))
	var run float64
	for t := len(rewards) - 1; t >= 0; t-- {
		run = rewards[t] + gamma*run
		g[t] = run
	}
	return g
}

// Normalize subtracts the mean and divides by the standard deviation in place.
// A single return is left untouched. Constant returns are only centered.
func Normalize(g []float64) {
	if len(g) < 2 {
		return
	}
	mean, std := stat.MeanStdDev(g, nil)
	for i := range g {
		g[i] -= mean
		if std > stdEps {
			g[i] /= std
		}
	}
}

// PolicyGradientLoss computes -Σ G[t] * logp[t] with normalized discounted returns.
// An empty trajectory yields a zero loss.
func PolicyGradientLoss(rewards []float64, logps []*autograd.Value, gamma float64) (*autograd.Value, error) {
	if len(rewards) != len(logps) {
		return nil, fmt.Errorf("%w: %d rewards, %d log-probabilities", ErrMisalignedTrajectory, len(rewards), len(logps))
	}
	if len(rewards) == 0 {
		return autograd.Const(0), nil
	}
	g := DiscountedReturns(rewards, gamma)
	Normalize(g)

	terms := make([]*autograd.Value, len(g))
	for t := range g {
		terms[t] = autograd.Scale(logps[t], -g[t])
	}
	return autograd.Sum(terms...), nil
}
