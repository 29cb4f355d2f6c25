// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// EvaluationRow represents one gated opportunity in the list.
type EvaluationRow struct {
	Timestamp  string
	Pair       string
	Route      string // "pancakeswap-v3/2500 -> uniswap-v3/500"
	Amount     string
	ProfitUSD  float64
	GasCostUSD float64
	Verdict    string
	Actionable bool
	Attempt    int
}

// EvaluationsComponent renders the evaluation history, newest first.
type EvaluationsComponent struct {
	rows    []EvaluationRow
	maxRows int
}

// NewEvaluationsComponent creates a new evaluations component.
func NewEvaluationsComponent(maxRows int) *EvaluationsComponent {
	return &EvaluationsComponent{
		rows:    make([]EvaluationRow, 0),
		maxRows: maxRows,
	}
}

// Add prepends a new evaluation to the list.
func (e *EvaluationsComponent) Add(row EvaluationRow) {
	e.rows = append([]EvaluationRow{row}, e.rows...)
	if len(e.rows) > e.maxRows {
		e.rows = e.rows[:e.maxRows]
	}
}

// Clear clears all evaluations.
func (e *EvaluationsComponent) Clear() {
	e.rows = make([]EvaluationRow, 0)
}

// Len returns how many evaluations are held.
func (e *EvaluationsComponent) Len() int {
	return len(e.rows)
}

// View renders the evaluations component.
func (e *EvaluationsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0B90B"))
	executableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#10B981"))
	acceptableStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))
	rejectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#EF4444"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("EVALUATIONS"))
	sb.WriteString("\n\n")

	if len(e.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  No evaluations yet..."))
		return sb.String()
	}

	for _, row := range e.rows {
		var style lipgloss.Style
		var icon string
		switch row.Verdict {
		case "EXECUTABLE":
			style, icon = executableStyle, "✓"
		case "ACCEPTABLE_LOSS":
			style, icon = acceptableStyle, "~"
		default:
			style, icon = rejectedStyle, "✗"
		}

		sb.WriteString(fmt.Sprintf("  %s %s %s  %s\n",
			mutedStyle.Render(row.Timestamp),
			style.Render(icon+" "+row.Verdict),
			fmt.Sprintf("$%+.2f", row.ProfitUSD),
			mutedStyle.Render(fmt.Sprintf("gas $%.2f · attempt %d", row.GasCostUSD, row.Attempt)),
		))
		sb.WriteString(mutedStyle.Render(fmt.Sprintf("    %s · %s · %s\n", row.Pair, row.Amount, row.Route)))
	}

	return sb.String()
}
