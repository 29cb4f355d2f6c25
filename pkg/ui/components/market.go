// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// MarketComponent renders the current market snapshot panel.
type MarketComponent struct {
	gasGwei    float64
	gasSource  string
	bnbUSD     float64
	rateSource string
	fetchedAt  time.Time
}

// NewMarketComponent creates a new market component.
func NewMarketComponent() *MarketComponent {
	return &MarketComponent{}
}

// Update replaces the displayed snapshot.
func (m *MarketComponent) Update(gasGwei float64, gasSource string, bnbUSD float64, rateSource string, fetchedAt time.Time) {
	m.gasGwei = gasGwei
	m.gasSource = gasSource
	m.bnbUSD = bnbUSD
	m.rateSource = rateSource
	m.fetchedAt = fetchedAt
}

// Degraded reports whether any displayed value is a hardcoded default.
func (m *MarketComponent) Degraded() bool {
	return m.gasSource == "default" || m.rateSource == "default"
}

// View renders the market component.
func (m *MarketComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0B90B"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
	warnStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F59E0B"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render("MARKET"))
	sb.WriteString("\n\n")

	if m.fetchedAt.IsZero() {
		sb.WriteString(mutedStyle.Render("  Waiting for first refresh..."))
		return sb.String()
	}

	sourceTag := func(source string) string {
		if source == "primary" {
			return ""
		}
		return " " + warnStyle.Render("("+source+")")
	}

	sb.WriteString(fmt.Sprintf("  BNB/USD:  $%.2f%s\n", m.bnbUSD, sourceTag(m.rateSource)))
	sb.WriteString(fmt.Sprintf("  Gas:      %.2f gwei%s\n", m.gasGwei, sourceTag(m.gasSource)))
	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  Updated:  %s ago\n", time.Since(m.fetchedAt).Round(time.Second))))
	if m.Degraded() {
		sb.WriteString(warnStyle.Render("  ⚠ degraded: using defaults\n"))
	}

	return sb.String()
}
