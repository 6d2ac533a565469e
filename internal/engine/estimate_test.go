package engine

import (
	"bytes"
	"context"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEstimate_CoarseDiet(t *testing.T) {
	e := newTestEngine(t)

	got := e.Estimate(context.Background(), Request{
		Transport:    TransportInput{KmCar: 100, CarFuelType: "petrol"},
		Energy:       EnergyInput{EnergyElectricity: 100},
		DietCategory: "vegan",
	})

	assert.InDelta(t, 46.2, got.Transport.TotalKg, 1e-9)
	assert.InDelta(t, 2, got.Energy.TotalKg, 1e-9)
	assert.InDelta(t, 87, got.Food.TotalKg, 1e-9)
	assert.InDelta(t, 135.2, got.Summary.TotalKg, 1e-9)
	assert.Nil(t, got.Food.Breakdown, "coarse diet has no breakdown")
}

func TestEstimate_DetailedFoodWins(t *testing.T) {
	e := newTestEngine(t)

	got := e.Estimate(context.Background(), Request{
		DietCategory: "high_meat",
		DetailedFood: &DetailedFoodInput{Servings: map[string]float64{FoodBeef: 1}},
	})

	assert.InDelta(t, 6.6, got.Food.TotalKg, 1e-9)
	require.Contains(t, got.Food.Breakdown, ReductionPctKey)
}

func TestEstimate_LogsFallbacksAtDebug(t *testing.T) {
	e := newTestEngine(t)

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)
	ctx := logger.WithContext(context.Background())

	e.Estimate(ctx, Request{
		Transport:    TransportInput{CarFuelType: "hydrogen"},
		Energy:       EnergyInput{"solar": 1},
		DietCategory: "paleo",
	})

	out := buf.String()
	assert.Contains(t, out, "unknown car fuel type")
	assert.Contains(t, out, "unknown energy source")
	assert.Contains(t, out, "unknown diet category")
	assert.Contains(t, out, "estimate computed")
}

func TestEstimate_ConcurrentCallers(t *testing.T) {
	e := newTestEngine(t)
	req := Request{
		Transport:    TransportInput{KmCar: 10, CarFuelType: "diesel", LongFlights: 1},
		Energy:       EnergyInput{EnergyGas: 50, EnergyOil: 5},
		DietCategory: "average",
	}
	want := e.Estimate(context.Background(), req).Summary.TotalKg

	var wg sync.WaitGroup
	results := make([]float64, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = e.Estimate(context.Background(), req).Summary.TotalKg
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}
