package trainer

import (
	"context"
	"fmt"
	"math"

	"github.com/neurlang/refrl/checkpoint"
	"github.com/neurlang/refrl/env"
	"github.com/neurlang/refrl/parallel"
	"github.com/neurlang/refrl/reward"
)

type dummy struct{}

func (d dummy) MustPutUint16(n int, value uint16) {}
func (d dummy) Sum() [32]byte {
	return [32]byte{}
}

// EvaluateFuncHasher digests the per-sample evaluation outcomes.
type EvaluateFuncHasher interface {
	MustPutUint16(n int, value uint16)
	Sum() [32]byte
}

// Report summarizes an evaluation pass.
type Report struct {
	Split   string
	Success int
	Total   int
	AvgLoss float64
	// Digest changes whenever any sample changes outcome or clause count.
	Digest [32]byte
	// Regressed counts training samples solved during the last training iteration
	// but failed now.
	Regressed int
}

// sampleSize calculates the statistically sufficient sample size
// for a given dataset size N and significance level (0–100).
func sampleSize(N int, significance byte) int {

	// Convert significance level to Z-score
	z := zScoreFromAlpha(100 - significance)

	// Assume worst-case proportion p = 0.5 for max variability
	p := 0.5
	e := float64(100-significance) * 0.01

	numerator := math.Pow(z, 2) * p * (1 - p)
	denominator := math.Pow(e, 2)

	// Initial sample size without population correction
	ss := numerator / denominator

	// Apply finite population correction
	correctedSS := ss * float64(N) / (float64(N) - 1 + ss)

	if int(correctedSS) > N {
		return N
	}

	return int(correctedSS)
}

// zScoreFromAlpha returns the Z-score for a given alpha level
// Common: 90% => 1.645, 95% => 1.96, 99% => 2.576
func zScoreFromAlpha(alpha byte) float64 {
	switch {
	case alpha <= 1:
		return 2.576 // 99% confidence
	case alpha <= 5:
		return 1.96 // 95% confidence
	case alpha <= 10:
		return 1.645 // 90% confidence
	default:
		return 1.96 // default fallback
	}
}

// outcome packs the success bit and the clause count of an episode.
func outcome(e env.Environment) uint16 {
	var o = uint16(len(e.Clauses())) << 1
	if e.Success() {
		o |= 1
	}
	return o
}

// Test evaluates the split greedily TestIter times. The loss is computed for reporting
// only, nothing is backpropagated.
func (r *RefRL) Test(ctx context.Context, split string) (rep Report, err error) {
	rep.Split = split
	points := r.TestData
	switch split {
	case Train:
		points = r.TrainData
	case Test:
	default:
		return rep, fmt.Errorf("%w: %q", ErrUnknownSplit, split)
	}
	if sig := r.Config.TestSignificance; sig > 0 && len(points) > 0 {
		points = points[:sampleSize(len(points), byte(sig))]
	}
	r.log().Info("testing", "split", split, "samples", len(points), "passes", r.Config.TestIter)

	var h EvaluateFuncHasher = dummy{}
	if len(points) > 0 {
		h = parallel.NewUint16Hasher(len(points) * r.Config.TestIter)
	}

	var totalLoss float64
	for it := 0; it < r.Config.TestIter; it++ {
		for i, dp := range points {
			if err := ctx.Err(); err != nil {
				return rep, err
			}
			g, err := r.graph(dp)
			if err != nil {
				return rep, err
			}
			rep.Total++

			e, _ := r.Episode(dp, g, 0)
			traj := r.Policy.Trajectory()
			loss, err := reward.PolicyGradientLoss(traj.Rewards, traj.LogProbs, r.Config.Gamma)
			if err != nil {
				return rep, fmt.Errorf("data point %s: %w", dp.ID, err)
			}
			totalLoss += loss.Data

			episodesTotal.WithLabelValues(split).Inc()
			if e.Success() {
				rep.Success++
				successTotal.WithLabelValues(split).Inc()
			} else if split == Train && checkpoint.Solved(r.solved, dp.ID) {
				rep.Regressed++
			}
			h.MustPutUint16(it*len(points)+i, outcome(e))
		}
	}
	if rep.Total > 0 {
		rep.AvgLoss = totalLoss / float64(rep.Total)
	}
	rep.Digest = h.Sum()
	averageLoss.WithLabelValues(split).Set(rep.AvgLoss)

	r.log().Info("testing done",
		"split", split,
		"success", rep.Success,
		"total", rep.Total,
		"avg_loss", rep.AvgLoss,
		"regressed", rep.Regressed,
		"digest", fmt.Sprintf("%x", rep.Digest))
	return rep, nil
}
