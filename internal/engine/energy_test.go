package engine

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
)

func TestEnergy(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	tests := []struct {
		name          string
		in            EnergyInput
		wantTotal     float64
		wantBreakdown map[string]float64
	}{
		{
			name:          "electricity only",
			in:            EnergyInput{EnergyElectricity: 100, EnergyOil: 0, EnergyGas: 0, EnergyWood: 0},
			wantTotal:     100 * 0.02,
			wantBreakdown: map[string]float64{EnergyElectricity: 2, EnergyOil: 0, EnergyGas: 0, EnergyWood: 0},
		},
		{
			name:          "every source",
			in:            EnergyInput{EnergyElectricity: 100, EnergyOil: 200, EnergyGas: 200, EnergyWood: 75},
			wantTotal:     2 + 53.4 + 50 + 1.35,
			wantBreakdown: map[string]float64{EnergyElectricity: 2, EnergyOil: 53.4, EnergyGas: 50, EnergyWood: 1.35},
		},
		{
			name:          "unknown source contributes zero",
			in:            EnergyInput{"solar": 500, EnergyGas: 10},
			wantTotal:     2.5,
			wantBreakdown: map[string]float64{"solar": 0, EnergyGas: 2.5},
		},
		{
			name:          "empty input",
			in:            EnergyInput{},
			wantTotal:     0,
			wantBreakdown: map[string]float64{},
		},
		{
			name:          "nil input",
			in:            nil,
			wantTotal:     0,
			wantBreakdown: map[string]float64{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Energy(ctx, tt.in)
			assert.Equal(t, DomainEnergy, got.Domain)
			assert.InDelta(t, tt.wantTotal, got.TotalKg, 1e-9)
			if diff := cmp.Diff(tt.wantBreakdown, got.Breakdown, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
				t.Errorf("breakdown mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestEnergy_OrderIndependent(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	a := EnergyInput{}
	a[EnergyWood] = 0.1
	a[EnergyElectricity] = 123.456
	a[EnergyGas] = 7.77
	a[EnergyOil] = 1e6

	b := EnergyInput{}
	b[EnergyOil] = 1e6
	b[EnergyGas] = 7.77
	b[EnergyElectricity] = 123.456
	b[EnergyWood] = 0.1

	want := e.Energy(ctx, a).TotalKg
	for range 20 {
		assert.Equal(t, want, e.Energy(ctx, b).TotalKg, "totals must match exactly")
	}
}

func TestEnergy_Linear(t *testing.T) {
	e := newTestEngine(t)
	ctx := context.Background()

	in := EnergyInput{EnergyElectricity: 300, EnergyGas: 40}
	doubled := EnergyInput{EnergyElectricity: 600, EnergyGas: 80}

	assert.InDelta(t, 2*e.Energy(ctx, in).TotalKg, e.Energy(ctx, doubled).TotalKg, 1e-9)
}
