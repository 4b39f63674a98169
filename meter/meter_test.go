package meter

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCounter_Increment(t *testing.T) {
	tests := []struct {
		name  string
		start int64
		inc   []int64
		want  int64
	}{
		{"zero_start", 0, []int64{1, 2, 3}, 6},
		{"custom_start", 10, []int64{5}, 15},
		{"zero_increment", 4, []int64{0, 0}, 4},
		{"negative_start", -3, []int64{3}, 0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCounter(tc.start)
			for _, v := range tc.inc {
				before := c.Reading().Measure()
				c.Increment(v)
				require.Equal(t, before+v, c.Reading().Measure())
			}
			require.Equal(t, tc.want, c.Reading().Measure())
		})
	}
}

func TestCounter_IncrementPanics(t *testing.T) {
	tests := []struct {
		name    string
		start   int64
		inc     int64
		wantErr error
	}{
		{"negative", 5, -1, ErrNegativeIncrement},
		{"min_int", 0, math.MinInt64, ErrNegativeIncrement},
		{"overflow_by_one", math.MaxInt64, 1, ErrCounterOverflow},
		{"overflow_large", 1, math.MaxInt64, ErrCounterOverflow},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCounter(tc.start)
			require.PanicsWithError(t, tc.wantErr.Error(), func() { c.Increment(tc.inc) })
			require.Equal(t, tc.start, c.Reading().Measure())
		})
	}
}

func TestCounter_IncrementUpToMax(t *testing.T) {
	tests := []struct {
		name  string
		start int64
		inc   int64
	}{
		{"from_zero", 0, math.MaxInt64},
		{"from_negative", math.MinInt64, math.MaxInt64},
		{"last_step", math.MaxInt64 - 1, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			c := NewCounter(tc.start)
			require.NotPanics(t, func() { c.Increment(tc.inc) })
			require.Equal(t, tc.start+tc.inc, c.Reading().Measure())
		})
	}
}

func TestGauge_Count(t *testing.T) {
	g := NewGauge(3)
	g.Update(4)
	g.Update(-2)

	require.Equal(t, int64(5), g.Count().Measure())
	require.Equal(t, int64(0), g.Reading().Measure())
	require.Equal(t, int64(0), g.Count().Measure())
}

func TestGauge_Adjust(t *testing.T) {
	for _, v := range []int64{0, 1, -1, math.MaxInt64, math.MinInt64} {
		g := NewGauge(99)
		g.Adjust(v)
		require.Equal(t, v, g.Reading().Measure())
	}
}

func TestGauge_Reset(t *testing.T) {
	g := NewGauge(-8)
	g.Reset()
	require.Zero(t, g.Reading().Measure())
}

func TestGauge_ReadingHasNoSideEffect(t *testing.T) {
	g := NewGauge(12)
	require.Equal(t, g.Reading(), g.Reading())
	require.Equal(t, int64(12), g.Reading().Measure())
}
