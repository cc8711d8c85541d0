package reward

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/neurlang/refrl/autograd"
)

func TestDiscountedReturns(t *testing.T) {
	tests := []struct {
		name    string
		rewards []float64
		gamma   float64
		want    []float64
	}{
		{"empty", nil, 0.9, []float64{}},
		{"undiscounted", []float64{0, 0, 1}, 1, []float64{1, 1, 1}},
		{"half", []float64{1, 0, 4}, 0.5, []float64{2, 2, 4}},
		{"myopic", []float64{0.1, 0.2, 0.3}, 0, []float64{0.1, 0.2, 0.3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DiscountedReturns(tt.rewards, tt.gamma)
			require.Len(t, got, len(tt.want))
			for i := range got {
				assert.InDelta(t, tt.want[i], got[i], 1e-12)
			}
		})
	}
}

func TestNormalize(t *testing.T) {
	g := []float64{5}
	Normalize(g)
	assert.Equal(t, []float64{5}, g)

	g = []float64{2, 2, 2}
	Normalize(g)
	assert.Equal(t, []float64{0, 0, 0}, g)

	// sample standard deviation of {1, 3} is sqrt(2)
	g = []float64{1, 3}
	Normalize(g)
	assert.InDelta(t, -1/math.Sqrt2, g[0], 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, g[1], 1e-12)
}

func TestPolicyGradientLoss(t *testing.T) {
	a, b := autograd.New(-1), autograd.New(-2)
	// returns {1, 0} normalize to {1/√2, -1/√2}
	loss, err := PolicyGradientLoss([]float64{1, 0}, []*autograd.Value{a, b}, 0.5)
	require.NoError(t, err)
	assert.InDelta(t, -1/math.Sqrt2, loss.Data, 1e-12)

	loss.Backward()
	assert.InDelta(t, -1/math.Sqrt2, a.Grad, 1e-12)
	assert.InDelta(t, 1/math.Sqrt2, b.Grad, 1e-12)
}

func TestPolicyGradientLossSingleStep(t *testing.T) {
	lp := autograd.New(-0.5)
	loss, err := PolicyGradientLoss([]float64{Failure}, []*autograd.Value{lp}, 0.99)
	require.NoError(t, err)
	assert.InDelta(t, -0.5, loss.Data, 1e-12)
}

func TestPolicyGradientLossEdges(t *testing.T) {
	loss, err := PolicyGradientLoss(nil, nil, 0.9)
	require.NoError(t, err)
	assert.Zero(t, loss.Data)

	_, err = PolicyGradientLoss([]float64{1}, nil, 0.9)
	assert.ErrorIs(t, err, ErrMisalignedTrajectory)
}
