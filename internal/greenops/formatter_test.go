package greenops

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{18248, "18,248"},
		{-1234567, "-1,234,567"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatNumber(tt.in))
	}
}

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		name      string
		in        float64
		precision int
		want      string
	}{
		{"two decimals", 1234.567, 2, "1,234.57"},
		{"one decimal", 135.2, 1, "135.2"},
		{"pads zeros", 12, 2, "12.00"},
		{"no decimals", 1234.4, 0, "1,234"},
		{"negative precision treated as zero", 99.6, -1, "100"},
		{"millions", 1234567.891, 1, "1,234,567.9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatFloat(tt.in, tt.precision))
		})
	}
}

func TestFormatKg(t *testing.T) {
	assert.Equal(t, "1,080.5 kg CO₂", FormatKg(1080.54, 1))
}

func TestFormatLarge(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{999_999, "999,999"},
		{1_000_000, "~1.0 million"},
		{2_500_000, "~2.5 million"},
		{1_500_000_000, "~1.5 billion"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatLarge(tt.in))
	}
}
