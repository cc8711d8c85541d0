package checkpoint

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/refrl/autograd"
	"github.com/neurlang/refrl/config"
	"github.com/neurlang/refrl/encoder"
	"github.com/neurlang/refrl/optim"
)

func state() *TrainingState {
	return &TrainingState{
		RunID:     "run",
		Iteration: 3,
		Samples:   120,
		Eps:       0.25,
		Policy:    config.Attention,
		HiddenDim: 16,
		GNNLayers: 2,
		Params:    []float64{0.5, -1.5},
		Optimizer: optim.State{Step: 7, M: []float64{0.1, 0.2}, V: []float64{0.3, 0.4}},
		Solved:    []byte{1, 2, 3},
	}
}

func roundTrip(t *testing.T, s Store) {
	_, err := s.Load()
	assert.ErrorIs(t, err, ErrNotFound)

	want := state()
	require.NoError(t, s.Save(want))
	got, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, want.Params, got.Params)
	assert.Equal(t, want.Optimizer, got.Optimizer)
	assert.Equal(t, want.Solved, got.Solved)
	assert.Equal(t, want.Iteration, got.Iteration)
	assert.Equal(t, want.Eps, got.Eps)
	assert.False(t, got.SavedAt.IsZero())
}

func TestFileStore(t *testing.T) {
	s := &FileStore{Path: filepath.Join(t.TempDir(), "model.ckpt.zlib")}
	roundTrip(t, s)
	assert.NoError(t, s.Close())
}

func TestBadgerStore(t *testing.T) {
	s, err := OpenBadger(BadgerConfig{InMemory: true})
	require.NoError(t, err)
	defer s.Close()
	roundTrip(t, s)

	st := state()
	for _, it := range []int{10, 2} {
		st.Iteration = it
		require.NoError(t, s.Save(st))
	}
	its, err := s.Iterations()
	require.NoError(t, err)
	assert.Equal(t, []int{2, 3, 10}, its)

	back, err := s.LoadIteration(10)
	require.NoError(t, err)
	assert.Equal(t, 10, back.Iteration)
	latest, err := s.Load()
	require.NoError(t, err)
	assert.Equal(t, 2, latest.Iteration)

	_, err = s.LoadIteration(99)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestOpenBadgerNeedsPath(t *testing.T) {
	_, err := OpenBadger(BadgerConfig{})
	assert.Error(t, err)
}

func TestOpenSelectsStore(t *testing.T) {
	cfg := config.Default()
	cfg.ModelPath = filepath.Join(t.TempDir(), "m.zlib")
	s, err := Open(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &FileStore{}, s)

	cfg.Store = config.BadgerStore
	cfg.ModelPath = filepath.Join(t.TempDir(), "db")
	s, err = Open(cfg, nil)
	require.NoError(t, err)
	assert.IsType(t, &BadgerStore{}, s)
	require.NoError(t, s.Close())
}

func TestCaptureRestore(t *testing.T) {
	params := autograd.NewVec(1, 2, 3)
	var s TrainingState
	s.Capture(params)
	params[1].Data = 42
	require.NoError(t, s.Restore(params))
	assert.Equal(t, []float64{1, 2, 3}, params.Data())

	assert.ErrorIs(t, s.Restore(params[:2]), ErrShape)
}

func TestCompatible(t *testing.T) {
	cfg := config.Default()
	s := state()
	s.Policy, s.HiddenDim, s.GNNLayers = cfg.Policy, cfg.HiddenDim, cfg.GNNLayers
	assert.NoError(t, s.Compatible(cfg))
	cfg.HiddenDim++
	assert.ErrorIs(t, s.Compatible(cfg), ErrShape)
}

func TestSameVocabulary(t *testing.T) {
	var s TrainingState
	assert.NoError(t, s.SameVocabulary(encoder.MustNew([]string{"green"}, nil)))

	s.CaptureVocabulary(encoder.MustNew([]string{"red", "blue"}, []string{"left"}))
	assert.Equal(t, []string{"blue", "red"}, s.Attributes)
	assert.Equal(t, []string{"left"}, s.Relations)
	assert.NoError(t, s.SameVocabulary(encoder.MustNew([]string{"red", "blue"}, []string{"left"})))
	assert.ErrorIs(t, s.SameVocabulary(encoder.MustNew([]string{"green", "blue"}, []string{"left"})), ErrShape)
	assert.ErrorIs(t, s.SameVocabulary(encoder.MustNew([]string{"red", "blue"}, []string{"right"})), ErrShape)
}

func TestBadgerIsHistory(t *testing.T) {
	var _ History = &BadgerStore{}
	var s Store = &FileStore{}
	_, ok := s.(History)
	assert.False(t, ok)
}

func TestSolved(t *testing.T) {
	outcomes := map[string]bool{}
	for i := 0; i < 200; i++ {
		outcomes[fmt.Sprintf("scene%04d/%d", i/5, i%5)] = i%3 == 0
	}
	filter := MakeSolved(outcomes)
	require.NotEmpty(t, filter)
	for id, ok := range outcomes {
		assert.Equal(t, ok, Solved(filter, id), id)
	}

	assert.Nil(t, MakeSolved(nil))
	assert.False(t, Solved(nil, "x"))
}
