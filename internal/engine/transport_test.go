package engine

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/factors"
)

func TestTransport_Scenarios(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		in            TransportInput
		wantTotal     float64
		wantBreakdown map[string]float64
	}{
		{
			name:      "petrol car only",
			in:        TransportInput{KmCar: 100, CarFuelType: "petrol"},
			wantTotal: 100 * 2.31 * 0.2,
			wantBreakdown: map[string]float64{
				TransportCar: 46.2, TransportBus: 0, TransportTrain: 0, TransportFlights: 0,
			},
		},
		{
			name:      "diesel car",
			in:        TransportInput{KmCar: 200, CarFuelType: "diesel"},
			wantTotal: 200 * 2.68 * 0.15,
			wantBreakdown: map[string]float64{
				TransportCar: 80.4, TransportBus: 0, TransportTrain: 0, TransportFlights: 0,
			},
		},
		{
			name:      "electric car has zero tailpipe emissions",
			in:        TransportInput{KmCar: 1000, CarFuelType: "electric"},
			wantTotal: 0,
			wantBreakdown: map[string]float64{
				TransportCar: 0, TransportBus: 0, TransportTrain: 0, TransportFlights: 0,
			},
		},
		{
			name: "every mode",
			in: TransportInput{
				KmCar: 100, CarFuelType: "petrol",
				KmBus: 50, BusFuelType: "diesel",
				KmTrain: 300, TrainType: "electric",
				ShortFlights: 1, MediumFlights: 0.5, LongFlights: 0.25,
			},
			wantTotal: 46.2 + 5.25 + 10.5 + (150 + 200 + 275),
			wantBreakdown: map[string]float64{
				TransportCar: 46.2, TransportBus: 5.25, TransportTrain: 10.5, TransportFlights: 625,
			},
		},
		{
			name: "unknown fuel and train types contribute zero",
			in: TransportInput{
				KmCar: 100, CarFuelType: "hydrogen",
				KmBus: 100, BusFuelType: "steam",
				KmTrain: 100, TrainType: "maglev",
			},
			wantTotal: 0,
			wantBreakdown: map[string]float64{
				TransportCar: 0, TransportBus: 0, TransportTrain: 0, TransportFlights: 0,
			},
		},
		{
			name:      "negative distance is computed, not rejected",
			in:        TransportInput{KmBus: -10, BusFuelType: "diesel"},
			wantTotal: -1.05,
			wantBreakdown: map[string]float64{
				TransportCar: 0, TransportBus: -1.05, TransportTrain: 0, TransportFlights: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Transport(ctx, tt.in)

			assert.Equal(t, DomainTransport, got.Domain)
			assert.InDelta(t, tt.wantTotal, got.TotalKg, 1e-9)
			if diff := cmp.Diff(tt.wantBreakdown, got.Breakdown, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
			}
			assert.Equal(t, tt.in.CarFuelType, got.Inputs["car_fuel_type"])
		})
	}
}

func TestTransport_Additivity(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	inputs := []TransportInput{
		{KmCar: 12.5, CarFuelType: "petrol", KmBus: 7, BusFuelType: "biofuel", KmTrain: 40, TrainType: "diesel", ShortFlights: 2},
		{KmCar: 0, KmBus: 1000, BusFuelType: "electric", LongFlights: 3},
		{KmCar: 999, CarFuelType: "diesel", MediumFlights: 1, LongFlights: 1},
	}

	for _, in := range inputs {
		got := e.Transport(ctx, in)
		sum := got.Breakdown[TransportCar] + got.Breakdown[TransportBus] +
			got.Breakdown[TransportTrain] + got.Breakdown[TransportFlights]
		assert.InDelta(t, sum, got.TotalKg, 1e-9)
	}
}

func TestTransport_Monotonic(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	base := TransportInput{
		KmCar: 10, CarFuelType: "petrol",
		KmBus: 10, BusFuelType: "diesel",
		KmTrain: 10, TrainType: "diesel",
		ShortFlights: 1, MediumFlights: 1, LongFlights: 1,
	}
	baseline := e.Transport(ctx, base).TotalKg

	bumps := map[string]func(*TransportInput){
		"km_car":         func(in *TransportInput) { in.KmCar += 5 },
		"km_bus":         func(in *TransportInput) { in.KmBus += 5 },
		"km_train":       func(in *TransportInput) { in.KmTrain += 5 },
		"short_flights":  func(in *TransportInput) { in.ShortFlights++ },
		"medium_flights": func(in *TransportInput) { in.MediumFlights++ },
		"long_flights":   func(in *TransportInput) { in.LongFlights++ },
	}

	for name, bump := range bumps {
		t.Run(name, func(t *testing.T) {
			in := base
			bump(&in)
			assert.GreaterOrEqual(t, e.Transport(ctx, in).TotalKg, baseline)
		})
	}
}

func TestTransport_GridIntensity(t *testing.T) {
	table, err := factors.Parse([]byte(`
transport:
  car:
    electric: 0.0
car_fuel_consumption:
  electric: 0.15
diet:
  average: 5.0
energy:
  electricity: 0.4
grid_intensity_kg_per_kwh: 0.4
`), "test")
	require.NoError(t, err)
	e, err := New(table)
	require.NoError(t, err)

	got := e.Transport(context.Background(), TransportInput{KmCar: 100, CarFuelType: ElectricFuel})
	assert.InDelta(t, 100*0.15*0.4, got.TotalKg, 1e-9)
}
