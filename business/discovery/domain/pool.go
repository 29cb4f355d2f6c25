// Package domain contains the pool discovery model: venue pools and the
// conversion from on-chain sqrt prices to decimal exchange rates.
package domain

import (
	"bytes"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Pool is a discovered concentrated-liquidity pool holding the borrow and
// target assets, with its spot rate already oriented borrow -> target.
type Pool struct {
	Venue          string
	Address        common.Address
	FeeTier        uint32
	Rate           decimal.Decimal // target tokens per one borrow token
	BorrowIsToken0 bool
}

// Key returns a stable identifier for logging and caching.
func (p Pool) Key() string {
	return fmt.Sprintf("%s/%s/%d", p.Venue, p.Address.Hex(), p.FeeTier)
}

// FeeRate returns the pool fee as a fraction (fee tier 2500 -> 0.0025).
func (p Pool) FeeRate() decimal.Decimal {
	return decimal.New(int64(p.FeeTier), -6)
}

// String returns a human-readable representation.
func (p Pool) String() string {
	return fmt.Sprintf("%s fee=%d rate=%s", p.Venue, p.FeeTier, p.Rate.String())
}

// SortTokens returns the pair in the factory's canonical order, lower
// address first. Pools store their tokens this way, so lookups for (a, b)
// and (b, a) resolve to the same pool.
func SortTokens(a, b common.Address) (common.Address, common.Address) {
	if bytes.Compare(a.Bytes(), b.Bytes()) > 0 {
		return b, a
	}
	return a, b
}
