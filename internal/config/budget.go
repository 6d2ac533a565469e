package config

import (
	"errors"
	"fmt"
	"sort"
)

// Budget validation limits.
const (
	MaxThresholdPercent = 1000.0 // Allow alerts up to 1000% for extreme overshoot
	MinThresholdPercent = 0.0
)

// Exit code limits (Unix standard).
const (
	MinExitCode = 0
	MaxExitCode = 255
)

// Budget validation errors.
var (
	ErrBudgetAmountNegative     = errors.New("budget monthly_kg cannot be negative")
	ErrAlertThresholdOutOfRange = errors.New("alert threshold must be between 0 and 1000")
	ErrExitCodeOutOfRange       = errors.New("exit code must be between 0 and 255")
)

// AlertConfig defines a share of the carbon budget that triggers an alert.
type AlertConfig struct {
	// Threshold is the percentage of budget consumed that triggers this alert (e.g., 80.0 for 80%).
	Threshold float64 `yaml:"threshold" json:"threshold"`
	// Label is shown when the alert fires.
	Label string `yaml:"label,omitempty" json:"label,omitempty"`
}

// Validate checks if the alert configuration is valid.
func (a AlertConfig) Validate() error {
	if a.Threshold < MinThresholdPercent || a.Threshold > MaxThresholdPercent {
		return fmt.Errorf("%w: got %.2f", ErrAlertThresholdOutOfRange, a.Threshold)
	}
	return nil
}

// BudgetConfig is a household's monthly CO2 allowance in kilograms.
type BudgetConfig struct {
	// MonthlyKg is the allowance per month. Use 0 to disable the budget.
	MonthlyKg float64       `yaml:"monthly_kg"       json:"monthly_kg"`
	Alerts    []AlertConfig `yaml:"alerts,omitempty" json:"alerts,omitempty"`

	// ExitOnThreshold makes the CLI exit non-zero when an alert fires.
	ExitOnThreshold bool `yaml:"exit_on_threshold,omitempty" json:"exit_on_threshold,omitempty"`
	// ExitCode defaults to 1 when unset. An explicit 0 means warn only.
	ExitCode *int `yaml:"exit_code,omitempty" json:"exit_code,omitempty"`
}

// IsEnabled returns true if a budget is configured (MonthlyKg > 0).
func (b BudgetConfig) IsEnabled() bool {
	return b.MonthlyKg > 0
}

// GetExitCode returns the configured exit code, defaulting to 1 if not set.
func (b BudgetConfig) GetExitCode() int {
	if b.ExitCode != nil {
		return *b.ExitCode
	}
	return 1
}

// Validate checks if the budget configuration is valid.
// Returns nil if the budget is disabled or if all validations pass.
func (b BudgetConfig) Validate() error {
	if b.MonthlyKg < 0 {
		return ErrBudgetAmountNegative
	}
	if !b.IsEnabled() {
		return nil
	}

	for i, alert := range b.Alerts {
		if err := alert.Validate(); err != nil {
			return fmt.Errorf("alert[%d]: %w", i, err)
		}
	}

	if b.ExitOnThreshold && b.ExitCode != nil {
		if code := *b.ExitCode; code < MinExitCode || code > MaxExitCode {
			return fmt.Errorf("%w: got %d", ErrExitCodeOutOfRange, code)
		}
	}

	return nil
}

// BudgetStatus is the outcome of checking a monthly total against the budget.
type BudgetStatus struct {
	MonthlyKg   float64       `json:"monthly_kg"`
	UsedPercent float64       `json:"used_percent"`
	RemainingKg float64       `json:"remaining_kg"`
	Triggered   []AlertConfig `json:"triggered,omitempty"`
}

// Exceeded reports whether the month's total is over the budget.
func (s BudgetStatus) Exceeded() bool {
	return s.UsedPercent > 100
}

// Evaluate compares a monthly total against the budget. Triggered alerts are
// ordered by threshold. A disabled budget yields a zero status.
func (b BudgetConfig) Evaluate(monthlyKg float64) BudgetStatus {
	if !b.IsEnabled() {
		return BudgetStatus{}
	}

	used := monthlyKg / b.MonthlyKg * 100
	status := BudgetStatus{
		MonthlyKg:   b.MonthlyKg,
		UsedPercent: used,
		RemainingKg: b.MonthlyKg - monthlyKg,
	}
	for _, a := range b.Alerts {
		if used >= a.Threshold {
			status.Triggered = append(status.Triggered, a)
		}
	}
	sort.SliceStable(status.Triggered, func(i, j int) bool {
		return status.Triggered[i].Threshold < status.Triggered[j].Threshold
	})
	return status
}
