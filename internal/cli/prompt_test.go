package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompter_Float(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    float64
		wantOut string
		wantErr error
	}{
		{name: "plain", input: "12.5\n", want: 12.5},
		{name: "empty is zero", input: "\n", want: 0},
		{name: "negative re-prompts", input: "-1\n3\n", want: 3, wantOut: "non-negative"},
		{name: "garbage re-prompts", input: "ten\nNaN\n10\n", want: 10, wantOut: "valid number"},
		{name: "eof", input: "", wantErr: ErrInputClosed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Float("km? ")
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
			assert.Contains(t, out.String(), "km? ")
			assert.Contains(t, out.String(), tt.wantOut)
		})
	}
}

func TestPrompter_Int(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("1.5\n-2\n2\n"), &out)

	got, err := p.Int("flights? ")
	require.NoError(t, err)
	assert.Equal(t, 2, got)
	assert.Contains(t, out.String(), "whole number")
	assert.Contains(t, out.String(), "non-negative")
}

func TestPrompter_Choice(t *testing.T) {
	options := []string{"high_meat", "average", "vegan"}

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"by number", "1\n", "high_meat"},
		{"by name", "VEGAN\n", "vegan"},
		{"retry", "0\nfoo\n2\n", "average"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			p := NewPrompter(strings.NewReader(tt.input), &out)

			got, err := p.Choice("Diet:", options)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "1. High meat")
		})
	}

	_, err := NewPrompter(strings.NewReader(""), &bytes.Buffer{}).Choice("Diet:", options)
	require.ErrorIs(t, err, ErrInputClosed)
}
