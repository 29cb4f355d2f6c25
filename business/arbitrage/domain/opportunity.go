// Package domain contains the core domain types for the arbitrage context:
// candidate opportunities, profit ranking, verdicts, and session state.
package domain

import (
	"fmt"

	"github.com/shopspring/decimal"

	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
)

// Opportunity represents one candidate flash-loan round trip: borrow the
// base asset, swap it for the quote asset in the sell pool (the higher
// rate), swap back in the buy pool (the lower rate), repay principal plus
// the flash-loan fee. Profit is denominated in the borrow asset.
type Opportunity struct {
	SellPool discoveryDomain.Pool
	BuyPool  discoveryDomain.Pool
	Amount   decimal.Decimal
	Profit   decimal.Decimal
}

// Spread returns the raw rate gap between the two legs.
func (o Opportunity) Spread() decimal.Decimal {
	return o.SellPool.Rate.Sub(o.BuyPool.Rate)
}

// IsProfitable returns true if the round trip nets out positive after fees.
func (o Opportunity) IsProfitable() bool {
	return o.Profit.IsPositive()
}

// String returns a compact human-readable summary.
func (o Opportunity) String() string {
	return fmt.Sprintf("sell %s/%d @ %s -> buy %s/%d @ %s: profit %s",
		o.SellPool.Venue, o.SellPool.FeeTier, o.SellPool.Rate,
		o.BuyPool.Venue, o.BuyPool.FeeTier, o.BuyPool.Rate,
		o.Profit,
	)
}
