package trainer

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/neurlang/refrl/checkpoint"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/datasets"
	"github.com/neurlang/refrl/encoder"
	"github.com/neurlang/refrl/env"
	"github.com/neurlang/refrl/gnn"
	"github.com/neurlang/refrl/graph"
	"github.com/neurlang/refrl/optim"
	"github.com/neurlang/refrl/policy"
)

// Split names accepted by Test.
const (
	Train = "train"
	Test  = "test"
)

// ErrUnknownSplit is returned by Test for a split other than Train or Test.
var ErrUnknownSplit = errors.New("unknown split")

// RefRL is one training run: the model, its optimizer and the data it learns from.
type RefRL struct {
	Config    config.Config
	Policy    policy.Policy
	Optimizer *optim.Adam
	Encoder   *encoder.AttrEncoder

	Graphs    map[string]*graph.Graph
	TrainData []datasets.DataPoint
	TestData  []datasets.DataPoint

	// NewEnv creates the environment of every episode.
	NewEnv env.Factory
	// Store persists the training state, nil disables checkpoints.
	Store  checkpoint.Store
	Logger *slog.Logger

	// Iteration is the number of finished training iterations.
	Iteration int
	// Samples is the number of training samples processed, it drives the batch
	// and save cadence across resumes.
	Samples int
	RunID     string

	// solved filter of the latest finished iteration
	solved []byte
}

// New builds the model described by cfg over the vocabulary of data.
func New(cfg config.Config, data *datasets.Dataset, store checkpoint.Store, logger *slog.Logger) (*RefRL, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	enc, err := encoder.FromGraphs(data.GraphList()...)
	if err != nil {
		return nil, fmt.Errorf("building vocabulary: %w", err)
	}
	rng := rand.New(rand.NewSource(cfg.Seed))
	net := gnn.New(enc, cfg.HiddenDim, cfg.GNNLayers, rng)
	p, err := policy.New(cfg.Policy, net, cfg.RewardType, rng)
	if err != nil {
		return nil, err
	}
	opt := optim.NewAdam(p.Parameters(), cfg.LR)
	opt.MaxGradNorm = cfg.MaxGradNorm

	train, test := data.Split(cfg.TrainFraction)
	if logger == nil {
		logger = slog.Default()
	}
	r := &RefRL{
		Config:    cfg,
		Policy:    p,
		Optimizer: opt,
		Encoder:   enc,
		Graphs:    data.Graphs,
		TrainData: train,
		TestData:  test,
		NewEnv:    env.NewEnvironment,
		Store:     store,
		Logger:    logger,
		RunID:     uuid.NewString(),
	}
	logger.Info("model ready",
		"run_id", r.RunID,
		"policy", cfg.Policy,
		"vocabulary", enc.Vocabulary(),
		"parameters", len(p.Parameters()),
		"train", len(train),
		"test", len(test))
	return r, nil
}

func (r *RefRL) log() *slog.Logger {
	if r.Logger == nil {
		return slog.Default()
	}
	return r.Logger
}

func (r *RefRL) graph(dp datasets.DataPoint) (*graph.Graph, error) {
	g, ok := r.Graphs[dp.GraphID]
	if !ok {
		return nil, fmt.Errorf("%w: %s -> %s", datasets.ErrUnknownGraph, dp.ID, dp.GraphID)
	}
	return g, nil
}
