// Package app contains application services and port definitions for the
// arbitrage context.
package app

import (
	"context"

	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
	marketDomain "github.com/avilla-f/flasharb/business/market/domain"
	"github.com/avilla-f/flasharb/internal/asset"
)

// PoolFinder discovers candidate pools for a borrow/target pair.
type PoolFinder interface {
	DiscoverPools(ctx context.Context, borrow, target *asset.Asset) ([]discoveryDomain.Pool, error)
}

// MarketFeed supplies the latest market snapshot. Implementations never
// block; a degraded snapshot built from defaults is always available.
type MarketFeed interface {
	Latest() marketDomain.Snapshot
}

// Reporter defines the interface for surfacing detection results.
type Reporter interface {
	// Start initializes the reporter.
	Start(ctx context.Context) error

	// ReportEvaluation sends a gated evaluation to be displayed/logged.
	ReportEvaluation(ev *Evaluation)

	// UpdateMarket updates the current market data display.
	UpdateMarket(snap marketDomain.Snapshot)

	// UpdatePools updates the discovered pool display for a pair.
	UpdatePools(pair string, pools []discoveryDomain.Pool)

	// Stop gracefully shuts down the reporter.
	Stop() error
}

// nopReporter discards everything. Used when no reporter is wired.
type nopReporter struct{}

func (nopReporter) Start(context.Context) error                { return nil }
func (nopReporter) ReportEvaluation(*Evaluation)               {}
func (nopReporter) UpdateMarket(marketDomain.Snapshot)         {}
func (nopReporter) UpdatePools(string, []discoveryDomain.Pool) {}
func (nopReporter) Stop() error                                { return nil }
