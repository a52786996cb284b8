package coherence

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RMahshie/beamsway/internal/sway"
)

func TestThetaMax_Decreasing(t *testing.T) {
	prev := math.Inf(1)
	for n := 1; n <= 256; n++ {
		v, err := ThetaMax(n)
		require.NoError(t, err)
		assert.Less(t, v, prev, "antennas=%d", n)
		prev = v
	}
}

func TestThetaMax_Value(t *testing.T) {
	v, err := ThetaMax(60)
	require.NoError(t, err)
	assert.InDelta(t, DefaultAlpha*math.Asin(0.891/60)*180/math.Pi, v, 1e-12)

	one, err := ThetaMax(1)
	require.NoError(t, err)
	assert.InDelta(t, DefaultAlpha*math.Asin(0.891)*180/math.Pi, one, 1e-12)
}

func TestThetaMax_Invalid(t *testing.T) {
	for _, n := range []int{0, -1} {
		_, err := ThetaMax(n)
		require.Error(t, err)
		assert.True(t, errors.Is(err, sway.ErrConfig))
	}
	_, err := ThetaMaxAlpha(10, 0)
	assert.True(t, errors.Is(err, sway.ErrConfig))
}

func TestThresholdCurve(t *testing.T) {
	out, err := ThresholdCurve([]int{20, 40, 60}, DefaultAlpha)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Greater(t, out[0], out[1])
	assert.Greater(t, out[1], out[2])

	_, err = ThresholdCurve([]int{20, 0}, DefaultAlpha)
	assert.Error(t, err)
}

func TestAntennaCount(t *testing.T) {
	tests := []struct {
		length float64
		want   int
	}{
		{0.10, 60},
		{0.20, 120},
		{0.30, 180},
	}
	for _, tt := range tests {
		got, err := AntennaCount(tt.length, 90e9)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := AntennaCount(0, 90e9)
	assert.True(t, errors.Is(err, sway.ErrConfig))
}

func TestFirstPassage(t *testing.T) {
	tests := []struct {
		name   string
		theta  []float64
		limit  float64
		want   float64
		wantOK bool
	}{
		{"crosses upward", []float64{0, 0.1, 0.3, 0.6, 0.2}, 0.5, 0.3, true},
		{"crosses downward", []float64{1, 0.9, 0.4}, 0.5, 0.2, true},
		{"exact limit counts", []float64{0, 0.5}, 0.5, 0.1, true},
		{"relative to first sample", []float64{2, 2.2, 2.4}, 0.5, 0, false},
		{"never crosses", []float64{0, 0.1, -0.1}, 0.5, 0, false},
		{"empty", nil, 0.5, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := FirstPassage(tt.theta, tt.limit, 10)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.InDelta(t, tt.want, got, 1e-12)
			} else {
				assert.True(t, IsUnbounded(got))
			}
		})
	}
}

func TestMeanCrossing_ExcludesUnbounded(t *testing.T) {
	samples := []float64{1.0, Unbounded, 2.0, Unbounded, 3.0}
	assert.InDelta(t, 2.0, MeanCrossing(samples), 1e-12)
	assert.Equal(t, 3, CountCrossings(samples))
}

func TestMeanCrossing_AllUnbounded(t *testing.T) {
	assert.True(t, IsUnbounded(MeanCrossing([]float64{Unbounded, Unbounded})))
	assert.True(t, IsUnbounded(MeanCrossing(nil)))
}

func TestMovingAverage_ShrinkingEdges(t *testing.T) {
	got := MovingAverage([]float64{1, 2, 3, 4, 5, 6, 7}, 5)
	want := []float64{2, 2.5, 3, 4, 5, 5.5, 6}

	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-12, "index %d", i)
	}
}

func TestMovingAverage_UnboundedDominates(t *testing.T) {
	got := MovingAverage([]float64{1, 1, 1, 1, 1, 1, 1, 1, Unbounded}, 5)

	for i := 0; i <= 5; i++ {
		assert.InDelta(t, 1.0, got[i], 1e-12, "index %d", i)
	}
	for i := 6; i <= 8; i++ {
		assert.True(t, IsUnbounded(got[i]), "index %d", i)
	}
}

func TestMovingAverage_ShortInput(t *testing.T) {
	got := MovingAverage([]float64{4, 8}, 5)
	assert.Equal(t, []float64{6, 6}, got)
	assert.Empty(t, MovingAverage(nil, 5))
	assert.Equal(t, []float64{1, 2}, MovingAverage([]float64{1, 2}, 1))
}

func TestSeedFor(t *testing.T) {
	seen := make(map[uint64]struct{})
	for a := 0; a < 3; a++ {
		for u := 0; u < 15; u++ {
			for r := 0; r < 20; r++ {
				s := SeedFor(42, a, u, r)
				_, dup := seen[s]
				require.False(t, dup, "duplicate seed at (%d,%d,%d)", a, u, r)
				seen[s] = struct{}{}
			}
		}
	}
	assert.Equal(t, SeedFor(42, 1, 2, 3), SeedFor(42, 1, 2, 3))
	assert.NotEqual(t, SeedFor(42, 1, 2, 3), SeedFor(43, 1, 2, 3))
}
