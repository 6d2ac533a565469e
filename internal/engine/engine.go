// Package engine turns monthly activity quantities into kg CO2 estimates.
//
// An Engine wraps an immutable factors.Table and exposes one method per
// activity domain. Every method is a pure function of its arguments and the
// table: there is no shared mutable state, so a single Engine may be used by
// any number of goroutines. Inputs are never rejected here; negative or
// implausible values are a caller-side validation concern (see package
// validate), and unknown keys degrade to documented defaults.
package engine

import (
	"errors"

	"github.com/rshade/carbonfocus/internal/factors"
)

// Domain identifies an activity domain.
type Domain string

// Activity domains.
const (
	DomainTransport Domain = "transport"
	DomainEnergy    Domain = "energy"
	DomainFood      Domain = "food"
)

// Domains lists the activity domains in display order.
func Domains() []Domain {
	return []Domain{DomainTransport, DomainEnergy, DomainFood}
}

// ErrNilTable is returned by New when no table is supplied.
var ErrNilTable = errors.New("engine requires a coefficient table")

// Result is the outcome of a single engine call. All values are kg CO2 per month.
type Result struct {
	Domain    Domain             `json:"domain"`
	TotalKg   float64            `json:"total_kg"`
	Breakdown map[string]float64 `json:"breakdown,omitempty"`
	Inputs    map[string]any     `json:"inputs,omitempty"`
}

// Engine computes emissions against a fixed coefficient table.
type Engine struct {
	table *factors.Table
}

// New returns an Engine backed by table.
func New(table *factors.Table) (*Engine, error) {
	if table == nil {
		return nil, ErrNilTable
	}
	return &Engine{table: table}, nil
}

// Table returns the coefficient table the engine reads from.
func (e *Engine) Table() *factors.Table { return e.table }
