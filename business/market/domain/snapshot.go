// Package domain contains the market data model: a point-in-time snapshot
// of the chain gas price and the BNB/USD reference rate.
package domain

import (
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// Source records where a snapshot value came from.
type Source string

const (
	SourcePrimary  Source = "primary"
	SourceFallback Source = "fallback"
	SourceDefault  Source = "default"
)

// weiPerBNB is 1e18, the wei denomination of one BNB.
var weiPerBNB = decimal.New(1, 18)

// Snapshot is an immutable view of market conditions at a point in time.
type Snapshot struct {
	GasPriceWei *big.Int
	GasSource   Source
	BNBUSD      decimal.Decimal
	RateSource  Source
	FetchedAt   time.Time
}

// GasPriceGwei returns the gas price in gwei for display.
func (s Snapshot) GasPriceGwei() decimal.Decimal {
	if s.GasPriceWei == nil {
		return decimal.Zero
	}
	return decimal.NewFromBigInt(s.GasPriceWei, -9)
}

// GasCostUSD converts a gas unit budget into its USD cost at the snapshot's
// gas price and BNB/USD rate.
func (s Snapshot) GasCostUSD(gasUnits uint64) decimal.Decimal {
	if s.GasPriceWei == nil {
		return decimal.Zero
	}

	costWei := new(big.Int).Mul(s.GasPriceWei, new(big.Int).SetUint64(gasUnits))
	costBNB := decimal.NewFromBigInt(costWei, 0).Div(weiPerBNB)

	return costBNB.Mul(s.BNBUSD)
}

// Degraded reports whether any snapshot value fell back to a built-in default.
func (s Snapshot) Degraded() bool {
	return s.GasSource == SourceDefault || s.RateSource == SourceDefault
}

// Age returns how long ago the snapshot was taken.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.FetchedAt)
}
