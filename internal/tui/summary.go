package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type SummaryRow struct {
	Label string
	Value string
	// Alert renders the value in the warning color.
	Alert bool
}

// RenderSummary lays rows out as an aligned two-column table.
func RenderSummary(rows []SummaryRow) string {
	labelWidth, valueWidth := 0, 0
	for _, row := range rows {
		labelWidth = max(labelWidth, lipgloss.Width(row.Label))
		valueWidth = max(valueWidth, lipgloss.Width(row.Value))
	}

	rule := ruleStyle.Render(strings.Repeat("─", labelWidth+valueWidth+3))
	var b strings.Builder
	b.WriteString(rule)
	for _, row := range rows {
		style := valueStyle
		if row.Alert {
			style = alertStyle
		}
		b.WriteString("\n")
		b.WriteString(summaryLabelStyle.Width(labelWidth).Render(row.Label))
		b.WriteString(ruleStyle.Render(" │ "))
		b.WriteString(style.Render(row.Value))
	}
	b.WriteString("\n")
	b.WriteString(rule)
	return b.String()
}

var (
	summaryLabelStyle = lipgloss.NewStyle().Foreground(ColorInk)
	valueStyle        = lipgloss.NewStyle().Foreground(ColorSuccess).Bold(true)
	alertStyle        = lipgloss.NewStyle().Foreground(ColorWarn).Bold(true)
	ruleStyle         = lipgloss.NewStyle().Foreground(ColorDim)
)
