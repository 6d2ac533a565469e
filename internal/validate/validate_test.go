package validate

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/factors"
)

func defaultTable(t *testing.T) *factors.Table {
	t.Helper()
	table, err := factors.LoadDefault()
	require.NoError(t, err)
	return table
}

func fields(r Result) []string {
	out := make([]string, 0, len(r.Errors))
	for _, e := range r.Errors {
		out = append(out, e.Field)
	}
	return out
}

func TestTransport(t *testing.T) {
	table := defaultTable(t)

	tests := []struct {
		name         string
		in           engine.TransportInput
		wantFields   []string
		wantWarnings int
	}{
		{
			name:       "valid month",
			in:         engine.TransportInput{KmCar: 500, CarFuelType: "Petrol", KmBus: 20, BusFuelType: "diesel", ShortFlights: 1},
			wantFields: []string{},
		},
		{
			name:       "nothing entered",
			in:         engine.TransportInput{},
			wantFields: []string{},
		},
		{
			name:       "negative distance",
			in:         engine.TransportInput{KmTrain: -1, TrainType: "electric"},
			wantFields: []string{"km_train"},
		},
		{
			name:       "implausible distance",
			in:         engine.TransportInput{KmCar: 10001, CarFuelType: "diesel"},
			wantFields: []string{"km_car"},
		},
		{
			name:       "too many flights",
			in:         engine.TransportInput{LongFlights: 11},
			wantFields: []string{"long_flights"},
		},
		{
			name:       "unknown car fuel",
			in:         engine.TransportInput{KmCar: 10, CarFuelType: "hydrogen"},
			wantFields: []string{"car_fuel_type"},
		},
		{
			name:       "car distance without fuel",
			in:         engine.TransportInput{KmCar: 10},
			wantFields: []string{"car_fuel_type"},
		},
		{
			name:         "unknown bus fuel is a warning",
			in:           engine.TransportInput{KmBus: 10, BusFuelType: "steam"},
			wantFields:   []string{},
			wantWarnings: 1,
		},
		{
			name:       "nan distance",
			in:         engine.TransportInput{KmBus: math.NaN(), BusFuelType: "diesel"},
			wantFields: []string{"km_bus"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := tt.in
			r := Transport(&in, table)
			assert.ElementsMatch(t, tt.wantFields, fields(r))
			assert.Len(t, r.Warnings, tt.wantWarnings)
			assert.Equal(t, len(tt.wantFields) == 0, r.Valid())
		})
	}
}

func TestTransport_Normalizes(t *testing.T) {
	in := engine.TransportInput{KmCar: 1, CarFuelType: " Gasoline ", BusFuelType: "BIO", TrainType: "Electric"}
	r := Transport(&in, nil)

	require.True(t, r.Valid())
	assert.Equal(t, "petrol", in.CarFuelType)
	assert.Equal(t, "biofuel", in.BusFuelType)
	assert.Equal(t, "electric", in.TrainType)
}

func TestEnergy(t *testing.T) {
	table := defaultTable(t)

	in := engine.EnergyInput{"kwh_Electricity": 100, " gas ": 5, "solar": 1}
	r := Energy(&in, table)

	require.True(t, r.Valid())
	assert.Equal(t, engine.EnergyInput{"electricity": 100, "gas": 5, "solar": 1}, in)
	require.Len(t, r.Warnings, 1)
	assert.Equal(t, "kwh_solar", r.Warnings[0].Field)

	in = engine.EnergyInput{"oil": 5001, "wood": -2}
	r = Energy(&in, table)
	assert.ElementsMatch(t, []string{"kwh_oil", "kwh_wood"}, fields(r))
}

func TestDietCategory(t *testing.T) {
	for _, c := range []string{"vegan", "High_Meat", " average "} {
		cat := c
		assert.True(t, DietCategory(&cat).Valid(), c)
	}

	cat := "Vegan"
	DietCategory(&cat)
	assert.Equal(t, "vegan", cat)

	bad := "carnivore"
	r := DietCategory(&bad)
	require.False(t, r.Valid())
	assert.Equal(t, "diet_type", r.Errors[0].Field)
	assert.Contains(t, r.Errors[0].Message, "carnivore")
}

func TestDetailedFood(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		in := engine.DetailedFoodInput{
			Servings:   map[string]float64{"Beef": 8, "milk": 2, "eggs": 30},
			LocalPct:   50,
			OrganicPct: 100,
		}
		r := DetailedFood(&in)
		assert.True(t, r.Valid())
		assert.Contains(t, in.Servings, "beef")
	})

	t.Run("out of range", func(t *testing.T) {
		in := engine.DetailedFoodInput{
			Servings:   map[string]float64{"beef": 60, "milk": 20, "tofu": -1},
			LocalPct:   101,
			OrganicPct: -5,
		}
		r := DetailedFood(&in)
		assert.ElementsMatch(t,
			[]string{"servings.beef", "servings.milk", "servings.tofu", "local_pct", "organic_pct"},
			fields(r))
	})

	t.Run("serving ceiling applies to every field", func(t *testing.T) {
		tests := []struct {
			item    string
			qty     float64
			wantErr bool
		}{
			{"beef", 30, false},
			{"beef", 31, true},
			{"milk", 30, false},
			{"milk", 31, true},
			{"legumes", 30.5, true},
		}
		for _, tt := range tests {
			in := engine.DetailedFoodInput{Servings: map[string]float64{tt.item: tt.qty}}
			r := DetailedFood(&in)
			assert.Equal(t, tt.wantErr, !r.Valid(), "%s=%g", tt.item, tt.qty)
			if tt.wantErr {
				assert.Equal(t, "servings."+tt.item, r.Errors[0].Field)
			}
		}
	})

	t.Run("unknown item warns", func(t *testing.T) {
		in := engine.DetailedFoodInput{Servings: map[string]float64{"lamb": 4}}
		r := DetailedFood(&in)
		assert.True(t, r.Valid())
		require.Len(t, r.Warnings, 1)
		assert.Equal(t, "servings.lamb", r.Warnings[0].Field)
	})
}

func TestRequest(t *testing.T) {
	table := defaultTable(t)

	req := engine.Request{
		Transport:    engine.TransportInput{KmCar: -5, CarFuelType: "petrol"},
		Energy:       engine.EnergyInput{"electricity": 10},
		DietCategory: "nope",
	}
	r := Request(&req, table)
	assert.ElementsMatch(t, []string{"km_car", "diet_type"}, fields(r))

	err := r.Err()
	require.Error(t, err)
	var fe FieldError
	require.True(t, errors.As(err, &fe))
	assert.Equal(t, "km_car", fe.Field)

	detailed := engine.Request{
		DietCategory: "ignored when detailed",
		DetailedFood: &engine.DetailedFoodInput{Servings: map[string]float64{"beef": 1}},
	}
	assert.True(t, Request(&detailed, table).Valid())
	assert.NoError(t, Request(&detailed, table).Err())
}

func TestMonthly(t *testing.T) {
	assert.True(t, Monthly("total", 500).Valid())
	assert.Empty(t, Monthly("total", 500).Warnings)
	assert.Len(t, Monthly("total", 20000).Warnings, 1)
	assert.False(t, Monthly("total", -1).Valid())
}
