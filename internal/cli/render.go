package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rshade/carbonfocus/internal/engine"
	"github.com/rshade/carbonfocus/internal/greenops"
)

// Terminal palette.
const (
	colorHeader  = lipgloss.Color("39")
	colorBorder  = lipgloss.Color("240")
	colorLabel   = lipgloss.Color("245")
	colorValue   = lipgloss.Color("255")
	colorMuted   = lipgloss.Color("241")
	colorOK      = lipgloss.Color("42")
	colorNotice  = lipgloss.Color("220")
	colorWarning = lipgloss.Color("208")
	colorDanger  = lipgloss.Color("196")
)

const labelWidth = 22

// ratingColor maps a rating band to a colour.
func ratingColor(r greenops.Rating) lipgloss.Color {
	switch r {
	case greenops.RatingExcellent:
		return colorOK
	case greenops.RatingGood:
		return colorNotice
	case greenops.RatingAverage:
		return colorWarning
	default:
		return colorDanger
	}
}

// renderReport writes the human-readable calculate output.
func renderReport(w io.Writer, r CalculationReport, precision int) {
	var sb strings.Builder

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(colorHeader).
		Border(lipgloss.NormalBorder()).
		BorderForeground(colorBorder).
		Padding(0, 1)
	headerStyle := lipgloss.NewStyle().Foreground(colorHeader).Bold(true)
	labelStyle := lipgloss.NewStyle().Foreground(colorLabel).Width(labelWidth)
	valueStyle := lipgloss.NewStyle().Foreground(colorValue).Bold(true)
	muted := lipgloss.NewStyle().Foreground(colorMuted).Italic(true)

	row := func(label, value string) {
		sb.WriteString(labelStyle.Render(label))
		sb.WriteString(valueStyle.Render(value))
		sb.WriteString("\n")
	}

	sb.WriteString(titleStyle.Render("Monthly Emission Summary"))
	sb.WriteString("\n\n")

	for _, d := range engine.Domains() {
		kg, pct := domainTotals(r.Summary, d)
		row(displayName(string(d))+":", fmt.Sprintf("%s (%s%%)",
			greenops.FormatKg(kg, precision), greenops.FormatFloat(pct, 0)))
	}
	row("Total:", greenops.FormatKg(r.Summary.TotalKg, precision))
	if r.Summary.TotalKg > 0 {
		row("Largest source:", displayName(string(r.LargestSource)))
	}
	row("Annual projection:", greenops.FormatKg(r.AnnualProjection, precision))
	row("Daily average:", greenops.FormatKg(r.DailyAverage, precision))

	ratingStyle := lipgloss.NewStyle().Foreground(ratingColor(r.Rating)).Bold(true)
	sb.WriteString(labelStyle.Render("Rating:"))
	sb.WriteString(ratingStyle.Render(string(r.Rating)))
	sb.WriteString("\n")

	if len(r.Equivalencies) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("Equivalent to"))
		sb.WriteString("\n")
		for _, eq := range r.Equivalencies {
			sb.WriteString(fmt.Sprintf("  ~%s %s\n", eq.FormattedValue, eq.Label))
		}
	}

	sb.WriteString("\n")
	sb.WriteString(headerStyle.Render("Benchmarks"))
	sb.WriteString("\n")
	for _, c := range r.Benchmarks {
		sb.WriteString(fmt.Sprintf("  %-24s %s  ", c.Name, greenops.FormatKg(c.MonthlyKg, 0)))
		if c.Below {
			sb.WriteString(lipgloss.NewStyle().Foreground(colorOK).Render("below"))
		} else {
			cut := greenops.ReductionNeededPct(r.Summary.TotalKg, c.MonthlyKg)
			sb.WriteString(lipgloss.NewStyle().Foreground(colorWarning).
				Render(fmt.Sprintf("cut %s%% to reach", greenops.FormatFloat(cut, 0))))
		}
		sb.WriteString("\n")
	}

	if r.Budget != nil {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("Carbon budget"))
		sb.WriteString("\n")
		color := colorOK
		if r.Budget.Exceeded() {
			color = colorDanger
		} else if len(r.Budget.Triggered) > 0 {
			color = colorWarning
		}
		used := lipgloss.NewStyle().Foreground(color).Bold(true).
			Render(greenops.FormatFloat(r.Budget.UsedPercent, 1) + "%")
		sb.WriteString(fmt.Sprintf("  %s of %s used, %s remaining\n",
			used, greenops.FormatKg(r.Budget.MonthlyKg, precision), greenops.FormatKg(r.Budget.RemainingKg, precision)))
		for _, a := range r.Budget.Triggered {
			label := a.Label
			if label == "" {
				label = fmt.Sprintf("%g%% threshold reached", a.Threshold)
			}
			sb.WriteString("  ! " + label + "\n")
		}
	}

	if len(r.Suggestions) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render("Suggestions"))
		sb.WriteString("\n")
		for _, s := range r.Suggestions {
			sb.WriteString("  - " + s.Text + "\n")
		}
	}

	if len(r.FoodTips) > 0 {
		sb.WriteString("\n")
		sb.WriteString(headerStyle.Render(fmt.Sprintf("Food tips (%s impact)", r.FoodTier)))
		sb.WriteString("\n")
		for _, tip := range r.FoodTips {
			sb.WriteString("  - " + tip + "\n")
		}
	}

	for _, warn := range r.Warnings {
		sb.WriteString("\n")
		sb.WriteString(muted.Render(fmt.Sprintf("note: %s: %s", warn.Field, warn.Message)))
	}
	if len(r.Warnings) > 0 {
		sb.WriteString("\n")
	}

	_, _ = io.WriteString(w, sb.String())
}

func domainTotals(s engine.Summary, d engine.Domain) (float64, float64) {
	switch d {
	case engine.DomainTransport:
		return s.TransportKg, s.Percentages[d]
	case engine.DomainEnergy:
		return s.EnergyKg, s.Percentages[d]
	default:
		return s.FoodKg, s.Percentages[d]
	}
}
