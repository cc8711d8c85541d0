package trainer

import (
	"context"
	"errors"

	"github.com/neurlang/refrl/checkpoint"
)

// Fit runs EpisodeIter training iterations over the training split. Iterations already
// finished according to r.Iteration are skipped, their epsilon decay still applies.
// Every sample is backpropagated as soon as its loss is known, the optimizer steps on
// every BatchSize-th sample and the state is saved every SaveNum-th sample. The sample
// count continues from r.Samples. A cancelled run saves before it returns.
func (r *RefRL) Fit(ctx context.Context) error {
	cfg := r.Config
	eps := cfg.Eps
	total := r.Samples

	for it := 0; it < cfg.EpisodeIter; it++ {
		if r.Iteration > it {
			eps *= cfg.EpsDecay
			continue
		}
		epsilon.Set(eps)
		r.log().Info("training iteration", "iteration", it, "eps", eps, "samples", len(r.TrainData))

		var success, n int
		var totalLoss float64
		outcomes := make(map[string]bool, len(r.TrainData))

		for _, dp := range r.TrainData {
			if err := ctx.Err(); err != nil {
				if serr := r.Save(eps, total); serr != nil {
					return errors.Join(err, serr)
				}
				return err
			}
			g, err := r.graph(dp)
			if err != nil {
				return err
			}
			total++
			r.Samples = total

			e, loss, err := r.FitOne(NewBudget(cfg.MaxSubProblems), dp, g, eps)
			if err != nil {
				return err
			}
			n++
			totalLoss += loss.Data
			outcomes[dp.ID] = e.Success()
			episodesTotal.WithLabelValues(Train).Inc()
			if e.Success() {
				success++
				successTotal.WithLabelValues(Train).Inc()
			}

			loss.Backward()
			if total%cfg.BatchSize == 0 {
				r.Optimizer.Step()
				r.Optimizer.ZeroGrad()
				optimizerSteps.Inc()
			}
			if total%cfg.SaveNum == 0 {
				if err := r.Save(eps, total); err != nil {
					return err
				}
			}
		}

		var avg float64
		if n > 0 {
			avg = totalLoss / float64(n)
		}
		averageLoss.WithLabelValues(Train).Set(avg)
		r.log().Info("training iteration done", "iteration", it, "success", success, "total", n, "avg_loss", avg)

		r.solved = checkpoint.MakeSolved(outcomes)
		r.Iteration++
		eps *= cfg.EpsDecay
	}
	return r.Save(eps, total)
}
