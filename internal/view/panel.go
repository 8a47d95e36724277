package view

import (
	"github.com/charmbracelet/lipgloss"

	"nutriproof/internal/grade"
	"nutriproof/internal/schemas"
)

// Panel renders the full results view: grade, chart and result cards. Each
// render replaces the chart held by the panel.
type Panel struct {
	Field    grade.FieldPolicy
	BarWidth int

	slot ChartSlot
}

func (p *Panel) Render(report grade.Report, results []schemas.FactCheckResult) string {
	chart := NewChart(grade.Chart(report.Counts), p.BarWidth)
	p.slot.Replace(chart)

	field := p.Field
	if field == "" {
		field = grade.FieldAuto
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		RenderReport(report), "",
		chart.Render(), "",
		RenderResults(results, field),
	)
}

// Chart returns the chart from the latest render, if any.
func (p *Panel) Chart() *Chart { return p.slot.Current() }

// Close releases the panel's chart.
func (p *Panel) Close() { p.slot.Release() }
