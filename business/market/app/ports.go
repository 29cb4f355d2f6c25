// Package app contains application services and port definitions for the market context.
package app

import (
	"context"
	"math/big"

	"github.com/shopspring/decimal"
)

// GasPriceSource defines the interface for chain gas price providers.
type GasPriceSource interface {
	// GasPriceWei retrieves the current suggested gas price in wei.
	GasPriceWei(ctx context.Context) (*big.Int, error)
}

// RateSource defines the interface for BNB/USD reference rate providers.
type RateSource interface {
	// Name identifies the provider in logs and snapshots.
	Name() string

	// BNBUSD retrieves the current BNB/USD rate.
	BNBUSD(ctx context.Context) (decimal.Decimal, error)
}
