// Package infra contains infrastructure adapters for the arbitrage context.
package infra

import (
	"context"
	"time"

	"github.com/avilla-f/flasharb/business/arbitrage/app"
	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
	marketDomain "github.com/avilla-f/flasharb/business/market/domain"
	"github.com/avilla-f/flasharb/pkg/ui"
)

// TUIReporter implements app.Reporter by forwarding events to the Bubble
// Tea dashboard. The program itself is run by main; this adapter only
// translates domain values into display messages.
type TUIReporter struct{}

// NewTUIReporter creates a new TUIReporter.
func NewTUIReporter() *TUIReporter {
	return &TUIReporter{}
}

// Start initializes the TUI reporter. The Bubble Tea program lifecycle is
// owned by the caller.
func (r *TUIReporter) Start(ctx context.Context) error {
	return nil
}

// ReportEvaluation sends a gated evaluation to the dashboard.
func (r *TUIReporter) ReportEvaluation(ev *app.Evaluation) {
	opp := ev.Opportunity
	profitUSD, _ := ev.ProfitUSD.Float64()
	gasUSD, _ := ev.GasCostUSD.Float64()

	ui.Send(ui.EvaluationMsg{
		Timestamp:  time.Now(),
		Pair:       ev.Pair,
		SellVenue:  opp.SellPool.Venue,
		SellTier:   opp.SellPool.FeeTier,
		BuyVenue:   opp.BuyPool.Venue,
		BuyTier:    opp.BuyPool.FeeTier,
		Amount:     opp.Amount.String(),
		ProfitUSD:  profitUSD,
		GasCostUSD: gasUSD,
		Verdict:    string(ev.Verdict),
		Actionable: ev.Verdict.Actionable(),
		Attempt:    ev.Attempt,
	})
}

// UpdateMarket sends a market snapshot to the dashboard.
func (r *TUIReporter) UpdateMarket(snap marketDomain.Snapshot) {
	gasGwei, _ := snap.GasPriceGwei().Float64()
	bnbUSD, _ := snap.BNBUSD.Float64()

	ui.Send(ui.MarketMsg{
		GasGwei:    gasGwei,
		GasSource:  string(snap.GasSource),
		BNBUSD:     bnbUSD,
		RateSource: string(snap.RateSource),
		FetchedAt:  snap.FetchedAt,
	})
}

// UpdatePools sends a discovery result to the dashboard.
func (r *TUIReporter) UpdatePools(pair string, pools []discoveryDomain.Pool) {
	rows := make([]ui.PoolRowMsg, 0, len(pools))
	for _, p := range pools {
		rows = append(rows, ui.PoolRowMsg{
			Venue:   p.Venue,
			FeeTier: p.FeeTier,
			Rate:    p.Rate.StringFixed(8),
			Address: p.Address.Hex(),
		})
	}
	ui.Send(ui.PoolsMsg{Pair: pair, Pools: rows})
}

// Stop gracefully shuts down the TUI reporter.
func (r *TUIReporter) Stop() error {
	return nil
}
