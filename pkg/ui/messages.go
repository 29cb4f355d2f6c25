// Package ui provides the Bubble Tea TUI for the detection engine.
package ui

import "time"

// Message types for TUI updates. All values arrive pre-calculated by the
// domain; the UI never does math of its own.

// EvaluationMsg is sent when the gate classifies an opportunity.
type EvaluationMsg struct {
	Timestamp  time.Time
	Pair       string
	SellVenue  string
	SellTier   uint32
	BuyVenue   string
	BuyTier    uint32
	Amount     string
	ProfitUSD  float64
	GasCostUSD float64
	Verdict    string
	Actionable bool
	Attempt    int
}

// MarketMsg is sent when the market snapshot refreshes.
type MarketMsg struct {
	GasGwei    float64
	GasSource  string
	BNBUSD     float64
	RateSource string
	FetchedAt  time.Time
}

// PoolRowMsg is one discovered pool for the pools panel.
type PoolRowMsg struct {
	Venue   string
	FeeTier uint32
	Rate    string
	Address string
}

// PoolsMsg is sent after discovery fans out across venues and tiers.
type PoolsMsg struct {
	Pair  string
	Pools []PoolRowMsg
}

// LogMsg is sent to display a log message in the UI.
type LogMsg struct {
	Level   string // "info", "warn", "error"
	Message string
}

// ErrorMsg is sent when an error occurs.
type ErrorMsg struct {
	Error error
}

// TickMsg is sent periodically for UI updates.
type TickMsg struct{}
