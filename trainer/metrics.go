package trainer

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// episodesTotal counts top level episodes by split
	episodesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refrl_episodes_total",
		Help: "Total top level episodes by split",
	}, []string{"split"})

	// successTotal counts successful top level episodes by split
	successTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refrl_episode_success_total",
		Help: "Total successful top level episodes by split",
	}, []string{"split"})

	// stepBudgetExhausted counts episodes cut at the step cap
	stepBudgetExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refrl_step_budget_exhausted_total",
		Help: "Total episodes that ran out of steps",
	})

	// subProblemBudgetExhausted counts recursions refused by the sub-problem budget
	subProblemBudgetExhausted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refrl_sub_problem_budget_exhausted_total",
		Help: "Total sub-problem recursions refused by the budget",
	})

	// optimizerSteps counts applied Adam updates
	optimizerSteps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refrl_optimizer_steps_total",
		Help: "Total optimizer updates",
	})

	// checkpointsTotal counts saved training states
	checkpointsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refrl_checkpoints_total",
		Help: "Total saved checkpoints",
	})

	// episodeSteps tracks decisions per episode, padding excluded
	episodeSteps = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "refrl_episode_steps",
		Help:    "Decoded clauses per episode",
		Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
	})

	// epsilon is the exploration rate of the current training iteration
	epsilon = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "refrl_epsilon",
		Help: "Current exploration rate",
	})

	// averageLoss is the average loss of the latest pass by split
	averageLoss = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "refrl_average_loss",
		Help: "Average loss of the latest pass by split",
	}, []string{"split"})
)
