package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate(t *testing.T) {
	tests := []struct {
		kg   float64
		want Rating
	}{
		{0, RatingExcellent},
		{167, RatingExcellent},
		{167.01, RatingGood},
		{400, RatingGood},
		{667, RatingAverage},
		{667.5, RatingHigh},
		{2000, RatingHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Rate(tt.kg), "%g kg", tt.kg)
	}
}

func TestCompare(t *testing.T) {
	got := Compare(500)
	require.Len(t, got, 3)

	assert.Equal(t, "Global Average", got[0].Name)
	assert.InDelta(t, -333, got[0].DifferenceKg, 1e-9)
	assert.True(t, got[0].Below)

	assert.Equal(t, "Paris Agreement Target", got[2].Name)
	assert.InDelta(t, 333, got[2].DifferenceKg, 1e-9)
	assert.InDelta(t, 500.0/167*100, got[2].PercentOf, 1e-9)
	assert.False(t, got[2].Below)
}

func TestReductionNeededPct(t *testing.T) {
	tests := []struct {
		name          string
		total, target float64
		want          float64
	}{
		{"already below", 150, ParisTargetMonthlyKg, 0},
		{"at target", 167, 167, 0},
		{"half", 334, 167, 50},
		{"zero total", 0, 167, 0},
		{"zero target", 100, 0, 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ReductionNeededPct(tt.total, tt.target), 1e-9)
		})
	}
}
