package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/engine"
)

func domains(s []Suggestion) []engine.Domain {
	out := make([]engine.Domain, len(s))
	for i, v := range s {
		out[i] = v.Domain
	}
	return out
}

func TestSuggest(t *testing.T) {
	t.Run("transport heavy", func(t *testing.T) {
		got := Suggest(engine.Aggregate(300, 50, 90))
		assert.Equal(t, []engine.Domain{engine.DomainTransport, engine.DomainTransport}, domains(got))
	})

	t.Run("every threshold", func(t *testing.T) {
		got := Suggest(engine.Aggregate(200, 200, 200))
		assert.Equal(t,
			[]engine.Domain{engine.DomainTransport, engine.DomainEnergy, engine.DomainFood},
			domains(got), "no single domain dominates an even split")
	})

	t.Run("food dominant", func(t *testing.T) {
		got := Suggest(engine.Aggregate(10, 10, 130))
		assert.Equal(t, []engine.Domain{engine.DomainFood, engine.DomainFood}, domains(got))
	})

	t.Run("low month gets encouragement", func(t *testing.T) {
		got := Suggest(engine.Aggregate(30, 30, 30))
		require.Len(t, got, 1)
		assert.Empty(t, got[0].Domain)
	})

	t.Run("zero month", func(t *testing.T) {
		got := Suggest(engine.Aggregate(0, 0, 0))
		require.Len(t, got, 1)
		assert.Empty(t, got[0].Domain)
	})
}

func TestFoodTips(t *testing.T) {
	tests := []struct {
		kg   float64
		want FoodTier
	}{
		{87, FoodTierLow},
		{100, FoodTierLow},
		{100.1, FoodTierModerate},
		{150, FoodTierModerate},
		{216, FoodTierHigh},
	}
	for _, tt := range tests {
		tier, tips := FoodTips(tt.kg)
		assert.Equal(t, tt.want, tier, "%g kg", tt.kg)
		assert.Len(t, tips, 3)
	}
}
