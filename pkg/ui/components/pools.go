// Package components provides reusable TUI components.
package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PoolRow represents one discovered pool.
type PoolRow struct {
	Venue   string
	FeeTier uint32
	Rate    string
	Address string
}

// PoolsComponent renders the discovered pool table for the current pair.
type PoolsComponent struct {
	pair string
	rows []PoolRow
}

// NewPoolsComponent creates a new pools component.
func NewPoolsComponent() *PoolsComponent {
	return &PoolsComponent{}
}

// Update replaces the pool table with a fresh discovery result.
func (p *PoolsComponent) Update(pair string, rows []PoolRow) {
	p.pair = pair
	p.rows = rows
}

// View renders the pools component.
func (p *PoolsComponent) View() string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#F0B90B"))
	mutedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))

	var sb strings.Builder
	title := "POOLS"
	if p.pair != "" {
		title = "POOLS · " + p.pair
	}
	sb.WriteString(headerStyle.Render(title))
	sb.WriteString("\n\n")

	if len(p.rows) == 0 {
		sb.WriteString(mutedStyle.Render("  Waiting for discovery..."))
		return sb.String()
	}

	sb.WriteString(mutedStyle.Render(fmt.Sprintf("  %-16s %-8s %-18s %s\n", "Venue", "Tier", "Rate", "Pool")))
	for _, row := range p.rows {
		shortAddr := row.Address
		if len(shortAddr) > 10 {
			shortAddr = shortAddr[:6] + ".." + shortAddr[len(shortAddr)-4:]
		}
		sb.WriteString(fmt.Sprintf("  %-16s %-8s %-18s %s\n",
			row.Venue,
			fmt.Sprintf("%.2f%%", float64(row.FeeTier)/10000),
			row.Rate,
			mutedStyle.Render(shortAddr),
		))
	}

	return sb.String()
}
