package trainer

import (
	"errors"
	"fmt"

	"github.com/neurlang/refrl/checkpoint"
)

// Save persists the parameters, the optimizer moments, the iteration and eps.
// Without a store it does nothing.
func (r *RefRL) Save(eps float64, samples int) error {
	if r.Store == nil {
		return nil
	}
	st := &checkpoint.TrainingState{
		RunID:     r.RunID,
		Iteration: r.Iteration,
		Samples:   samples,
		Eps:       eps,
		Policy:    r.Config.Policy,
		HiddenDim: r.Config.HiddenDim,
		GNNLayers: r.Config.GNNLayers,
		Optimizer: r.Optimizer.State(),
		Solved:    r.solved,
	}
	st.Capture(r.Policy.Parameters())
	if r.Encoder != nil {
		st.CaptureVocabulary(r.Encoder)
	}
	if err := r.Store.Save(st); err != nil {
		return err
	}
	checkpointsTotal.Inc()
	r.log().Debug("checkpoint saved", "iteration", r.Iteration, "samples", samples)
	return nil
}

// Resume restores the latest saved state. A missing checkpoint starts a fresh run.
func (r *RefRL) Resume() error {
	if r.Store == nil {
		return nil
	}
	st, err := r.Store.Load()
	if errors.Is(err, checkpoint.ErrNotFound) {
		r.log().Info("no checkpoint, starting fresh", "run_id", r.RunID)
		return nil
	}
	if err != nil {
		return err
	}
	return r.ResumeFrom(st)
}

// ResumeIteration restores the state saved during iteration it. The store must keep
// an iteration history.
func (r *RefRL) ResumeIteration(it int) error {
	h, ok := r.Store.(checkpoint.History)
	if !ok {
		return fmt.Errorf("%w: %s store", checkpoint.ErrNoHistory, r.Config.Store)
	}
	st, err := h.LoadIteration(it)
	if errors.Is(err, checkpoint.ErrNotFound) {
		its, lerr := h.Iterations()
		if lerr != nil {
			return lerr
		}
		return fmt.Errorf("iteration %d: %w, saved iterations %v", it, err, its)
	}
	if err != nil {
		return err
	}
	return r.ResumeFrom(st)
}

// ResumeFrom restores st after checking it fits the model and its vocabulary.
func (r *RefRL) ResumeFrom(st *checkpoint.TrainingState) error {
	if err := st.Compatible(r.Config); err != nil {
		return err
	}
	if r.Encoder != nil {
		if err := st.SameVocabulary(r.Encoder); err != nil {
			return err
		}
	}
	if err := st.Restore(r.Policy.Parameters()); err != nil {
		return err
	}
	if err := r.Optimizer.SetState(st.Optimizer); err != nil {
		return err
	}
	r.Iteration = st.Iteration
	r.Samples = st.Samples
	r.solved = st.Solved
	if st.RunID != "" {
		r.RunID = st.RunID
	}
	r.log().Info("resumed", "run_id", r.RunID, "iteration", r.Iteration, "samples", st.Samples, "saved_at", st.SavedAt)
	return nil
}
