// Package ui provides the Bubble Tea TUI for the detection engine.
package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/avilla-f/flasharb/pkg/ui/components"
)

// Phase represents the current UI phase.
type Phase string

const (
	PhaseWelcome   Phase = "welcome"
	PhaseDashboard Phase = "dashboard"
)

// WelcomeDuration is how long the welcome screen shows before auto-advancing.
const WelcomeDuration = 2 * time.Second

// ErrorEntry represents an error with timestamp.
type ErrorEntry struct {
	Message   string
	Timestamp time.Time
}

// Model is the main Bubble Tea model for the TUI.
type Model struct {
	// Components
	market      *components.MarketComponent
	pools       *components.PoolsComponent
	evaluations *components.EvaluationsComponent

	// Phase state
	phase        Phase
	welcomeStart time.Time

	// State
	quitting   bool
	paused     bool
	width      int
	height     int
	lastUpdate time.Time
	errors     []ErrorEntry // Persistent error panel (last 3)
	logs       []string     // Recent log messages

	// Activity tracking
	sessionCount    uint64
	evaluationCount uint64
	executableCount uint64
}

// New creates a new TUI model.
func New() Model {
	return Model{
		market:       components.NewMarketComponent(),
		pools:        components.NewPoolsComponent(),
		evaluations:  components.NewEvaluationsComponent(50),
		phase:        PhaseWelcome,
		welcomeStart: time.Now(),
		logs:         make([]string, 0, 5),
		errors:       make([]ErrorEntry, 0, 3),
	}
}

// Init initializes the TUI model.
func (m Model) Init() tea.Cmd {
	return tickCmd()
}

// tickCmd returns a command that sends a tick every 100ms for smooth animations.
func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return TickMsg{}
	})
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit
		}
		// During welcome phase, any other key skips to the dashboard.
		if m.phase == PhaseWelcome {
			m.phase = PhaseDashboard
			return m, tickCmd()
		}
		switch msg.String() {
		case "c":
			m.evaluations.Clear()
			return m, nil
		case "p":
			m.paused = !m.paused
			return m, nil
		case "e":
			m.errors = make([]ErrorEntry, 0, 3)
			return m, nil
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case TickMsg:
		if m.phase == PhaseWelcome && time.Since(m.welcomeStart) >= WelcomeDuration {
			m.phase = PhaseDashboard
		}
		return m, tickCmd()

	case EvaluationMsg:
		if m.paused {
			return m, nil
		}
		route := fmt.Sprintf("%s/%d -> %s/%d", msg.SellVenue, msg.SellTier, msg.BuyVenue, msg.BuyTier)
		m.evaluations.Add(components.EvaluationRow{
			Timestamp:  msg.Timestamp.Format("15:04:05"),
			Pair:       msg.Pair,
			Route:      route,
			Amount:     msg.Amount,
			ProfitUSD:  msg.ProfitUSD,
			GasCostUSD: msg.GasCostUSD,
			Verdict:    msg.Verdict,
			Actionable: msg.Actionable,
			Attempt:    msg.Attempt,
		})
		m.evaluationCount++
		if msg.Verdict == "EXECUTABLE" {
			m.executableCount++
		}
		m.lastUpdate = time.Now()

	case MarketMsg:
		m.market.Update(msg.GasGwei, msg.GasSource, msg.BNBUSD, msg.RateSource, msg.FetchedAt)
		m.lastUpdate = time.Now()

	case PoolsMsg:
		rows := make([]components.PoolRow, 0, len(msg.Pools))
		for _, p := range msg.Pools {
			rows = append(rows, components.PoolRow{
				Venue:   p.Venue,
				FeeTier: p.FeeTier,
				Rate:    p.Rate,
				Address: p.Address,
			})
		}
		m.pools.Update(msg.Pair, rows)
		m.sessionCount++
		m.lastUpdate = time.Now()

	case LogMsg:
		m.logs = addLog(m.logs, msg.Level, msg.Message)

	case ErrorMsg:
		m.logs = addLog(m.logs, "error", msg.Error.Error())
		m.errors = append(m.errors, ErrorEntry{
			Message:   msg.Error.Error(),
			Timestamp: time.Now(),
		})
		if len(m.errors) > 3 {
			m.errors = m.errors[len(m.errors)-3:]
		}
	}

	return m, nil
}

// addLog adds a log message and returns the updated slice (keeps last 5).
func addLog(logs []string, level, message string) []string {
	timestamp := time.Now().Format("15:04:05")
	logLine := fmt.Sprintf("[%s] %s: %s", timestamp, level, message)
	logs = append(logs, logLine)
	if len(logs) > 5 {
		logs = logs[len(logs)-5:]
	}
	return logs
}

// View renders the TUI.
func (m Model) View() string {
	if m.quitting {
		return "\n  Goodbye!\n\n"
	}

	if m.phase == PhaseWelcome {
		return m.renderWelcomeScreen()
	}

	var b strings.Builder

	title := TitleStyle.Render(" ⚡ Flash-Loan Arbitrage Scanner · BSC ")
	b.WriteString(title)
	b.WriteString("\n\n")

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")

	// Left column: market snapshot above the pool table. Right column:
	// evaluation history.
	var leftContent strings.Builder
	leftContent.WriteString(m.market.View())
	leftContent.WriteString("\n")
	leftContent.WriteString(m.pools.View())
	leftCol := leftContent.String()
	rightCol := m.evaluations.View()

	if m.width > 100 {
		left := BoxStyle.Width(m.width/2 - 2).Render(leftCol)
		right := BoxStyle.Width(m.width/2 - 2).Render(rightCol)
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	} else {
		b.WriteString(BoxStyle.Width(m.width - 4).Render(leftCol))
		b.WriteString("\n")
		b.WriteString(BoxStyle.Width(m.width - 4).Render(rightCol))
	}

	b.WriteString("\n\n")

	// Persistent error panel (show last 3 errors)
	if len(m.errors) > 0 {
		errorStyle := lipgloss.NewStyle().Foreground(ColorDanger)
		errorHeader := lipgloss.NewStyle().Bold(true).Foreground(ColorDanger)
		mutedError := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))

		b.WriteString(errorHeader.Render("ERRORS"))
		b.WriteString(mutedError.Render(" (e: clear)"))
		b.WriteString("\n")
		for _, err := range m.errors {
			ago := time.Since(err.Timestamp).Round(time.Second)
			b.WriteString(errorStyle.Render(fmt.Sprintf("  • %s ", err.Message)))
			b.WriteString(mutedError.Render(fmt.Sprintf("(%s ago)", ago)))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	helpText := "q: quit • c: clear • p: pause • e: clear errors"
	if m.paused {
		pauseStyle := lipgloss.NewStyle().Bold(true).Foreground(ColorWarning)
		b.WriteString(pauseStyle.Render("⏸ PAUSED"))
		b.WriteString(" • ")
	}
	b.WriteString(HelpStyle.Render(helpText))

	return b.String()
}

// renderWelcomeScreen renders the animated welcome screen.
func (m Model) renderWelcomeScreen() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPrimary)

	mutedStyle := lipgloss.NewStyle().Foreground(ColorMuted)
	greenStyle := lipgloss.NewStyle().Foreground(ColorSuccess)

	elapsed := time.Since(m.welcomeStart)
	dotCount := int(elapsed.Milliseconds()/300) % 4
	dots := strings.Repeat(".", dotCount)

	var sb strings.Builder
	sb.WriteString("\n\n\n\n")

	logo := `
   ███████╗██╗      █████╗ ███████╗██╗  ██╗ █████╗ ██████╗ ██████╗
   ██╔════╝██║     ██╔══██╗██╔════╝██║  ██║██╔══██╗██╔══██╗██╔══██╗
   █████╗  ██║     ███████║███████╗███████║███████║██████╔╝██████╔╝
   ██╔══╝  ██║     ██╔══██║╚════██║██╔══██║██╔══██║██╔══██╗██╔══██╗
   ██║     ███████╗██║  ██║███████║██║  ██║██║  ██║██║  ██║██████╔╝
   ╚═╝     ╚══════╝╚═╝  ╚═╝╚══════╝╚═╝  ╚═╝╚═╝  ╚═╝╚═╝  ╚═╝╚═════╝
`
	sb.WriteString(titleStyle.Render(logo))
	sb.WriteString("\n")

	subtitle := "        F L A S H - L O A N   A R B I T R A G E   S C A N N E R"
	sb.WriteString(mutedStyle.Render(subtitle))
	sb.WriteString("\n\n\n")

	loading := fmt.Sprintf("                  Initializing%s", dots)
	sb.WriteString(greenStyle.Render(loading))
	sb.WriteString("\n\n")

	hint := "            Press any key to skip, or wait..."
	sb.WriteString(mutedStyle.Render(hint))
	sb.WriteString("\n")

	return sb.String()
}

func (m Model) renderStatusBar() string {
	var parts []string

	if m.sessionCount > 0 {
		scanStyle := lipgloss.NewStyle().Foreground(ColorSuccess)
		parts = append(parts, scanStyle.Render(fmt.Sprintf("Sessions: %d", m.sessionCount)))
	}
	if m.evaluationCount > 0 {
		parts = append(parts, fmt.Sprintf("Evaluations: %d", m.evaluationCount))
	}
	if m.executableCount > 0 {
		parts = append(parts, ExecutableStyle.Render(fmt.Sprintf("Executable: %d", m.executableCount)))
	}

	if !m.lastUpdate.IsZero() {
		ago := time.Since(m.lastUpdate).Round(time.Second)
		parts = append(parts, MutedValue.Render(fmt.Sprintf("Updated: %s ago", ago)))
	}
	if len(parts) == 0 {
		parts = append(parts, MutedValue.Render("Waiting for first session..."))
	}

	return strings.Join(parts, "  │  ")
}

// Program holds the Bubble Tea program instance for external access.
var Program *tea.Program

// Run starts the Bubble Tea program and blocks until it exits.
func Run() error {
	Program = tea.NewProgram(New(), tea.WithAltScreen())
	_, err := Program.Run()
	return err
}

// Send sends a message to the running program.
func Send(msg tea.Msg) {
	if Program != nil {
		Program.Send(msg)
	}
}
