// Package checkpoint persists the full training state so runs can resume.
package checkpoint

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/encoder"
	"github.com/neurlang/refrl/optim"
)

var (
	// ErrNotFound is returned by Load when nothing was saved yet.
	ErrNotFound = errors.New("checkpoint not found")
	// ErrShape is returned when a checkpoint does not fit the model.
	ErrShape = errors.New("checkpoint does not match the model")
	// ErrNoHistory is returned when a store keeps only the latest state.
	ErrNoHistory = errors.New("checkpoint store keeps no iteration history")
)

// TrainingState is everything needed to continue a run.
type TrainingState struct {
	RunID     string  `json:"run_id"`
	Iteration int     `json:"iteration"`
	Samples   int     `json:"samples"`
	Eps       float64 `json:"eps"`

	Policy    string `json:"policy"`
	HiddenDim int    `json:"hidden_dim"`
	GNNLayers int    `json:"gnn_layers"`

	// Attributes and Relations are the vocabulary the embedding rows are indexed by.
	Attributes []string `json:"attributes,omitempty"`
	Relations  []string `json:"relations,omitempty"`

	Params    []float64   `json:"params"`
	Optimizer optim.State `json:"optimizer"`

	// Solved is a quaternary filter of the training samples solved in the last iteration.
	Solved []byte `json:"solved,omitempty"`

	SavedAt time.Time `json:"saved_at"`
}

// Capture copies the forward values of params into the state.
func (s *TrainingState) Capture(params []*autograd.Value) {
	s.Params = make([]float64, len(params))
	for i, p := range params {
		s.Params[i] = p.Data
	}
}

// Restore copies the saved values into params.
func (s *TrainingState) Restore(params []*autograd.Value) error {
	if len(s.Params) != len(params) {
		return fmt.Errorf("%w: %d saved parameters, model has %d", ErrShape, len(s.Params), len(params))
	}
	for i, p := range params {
		p.Data = s.Params[i]
	}
	return nil
}

// Compatible checks that the state was produced by a model built from cfg.
func (s *TrainingState) Compatible(cfg config.Config) error {
	if s.Policy != cfg.Policy || s.HiddenDim != cfg.HiddenDim || s.GNNLayers != cfg.GNNLayers {
		return fmt.Errorf("%w: saved %s/%d/%d, configured %s/%d/%d", ErrShape,
			s.Policy, s.HiddenDim, s.GNNLayers, cfg.Policy, cfg.HiddenDim, cfg.GNNLayers)
	}
	return nil
}

// CaptureVocabulary records the names behind the embedding table of enc.
func (s *TrainingState) CaptureVocabulary(enc *encoder.AttrEncoder) {
	s.Attributes = append([]string(nil), enc.Attributes()...)
	s.Relations = append([]string(nil), enc.Relations()...)
}

// SameVocabulary checks that enc assigns the saved names the same ids.
// A state saved without a vocabulary matches any encoder.
func (s *TrainingState) SameVocabulary(enc *encoder.AttrEncoder) error {
	if len(s.Attributes)+len(s.Relations) == 0 {
		return nil
	}
	if !equal(s.Attributes, enc.Attributes()) || !equal(s.Relations, enc.Relations()) {
		return fmt.Errorf("%w: saved vocabulary %v/%v, dataset has %v/%v", ErrShape,
			s.Attributes, s.Relations, enc.Attributes(), enc.Relations())
	}
	return nil
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Store saves and loads the latest training state.
type Store interface {
	Save(s *TrainingState) error
	Load() (*TrainingState, error)
	Close() error
}

// History is implemented by stores that also keep one state per iteration.
type History interface {
	LoadIteration(it int) (*TrainingState, error)
	Iterations() ([]int, error)
}

// Open opens the store selected by cfg at cfg.ModelPath.
func Open(cfg config.Config, logger *slog.Logger) (Store, error) {
	switch cfg.Store {
	case config.BadgerStore:
		return OpenBadger(BadgerConfig{Path: cfg.ModelPath, SyncWrites: true, Logger: logger})
	default:
		return &FileStore{Path: cfg.ModelPath}, nil
	}
}
