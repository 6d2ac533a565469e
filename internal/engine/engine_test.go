package engine

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rshade/carbonfocus/internal/factors"
)

// newTestEngine returns an Engine over the embedded default table.
func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	table, err := factors.LoadDefault()
	require.NoError(t, err)
	e, err := New(table)
	require.NoError(t, err)
	return e
}

// dietFactor reads a diet factor from the engine's table, failing the test if it is absent.
func dietFactor(t *testing.T, e *Engine, category string) float64 {
	t.Helper()
	f, ok := e.Table().DietFactor(category)
	require.True(t, ok, "diet category %q missing from table", category)
	return f
}

func TestNew_NilTable(t *testing.T) {
	e, err := New(nil)
	require.ErrorIs(t, err, ErrNilTable)
	require.Nil(t, e)
}
