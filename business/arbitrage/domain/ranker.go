// Package domain contains the core domain types for the arbitrage context.
package domain

import (
	"sort"

	"github.com/shopspring/decimal"

	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
)

// divPrecision bounds the decimal places kept when dividing by a pool rate.
const divPrecision = 36

// DefaultFlashFeeRate is the fraction of the principal charged by the
// flash-loan provider, 9 bps on PancakeSwap V3.
var DefaultFlashFeeRate = decimal.New(9, -4)

// RoundTripProfit computes the net outcome of borrowing amount, selling it
// into sell (the higher-rate pool), buying it back from buy (the lower-rate
// pool), and repaying the principal plus the flash-loan fee. The result is
// denominated in the borrow asset and may be negative.
func RoundTripProfit(sell, buy discoveryDomain.Pool, amount, flashFeeRate decimal.Decimal) decimal.Decimal {
	one := decimal.New(1, 0)

	// Leg 1: borrow asset -> quote asset in the sell pool.
	received := amount.Mul(sell.Rate).Mul(one.Sub(sell.FeeRate()))

	// Leg 2: quote asset -> borrow asset in the buy pool.
	returned := received.DivRound(buy.Rate, divPrecision).Mul(one.Sub(buy.FeeRate()))

	flashLoanCost := amount.Mul(flashFeeRate)

	return returned.Sub(amount).Sub(flashLoanCost)
}

// Rank enumerates every ordered pool pair whose sell rate exceeds its buy
// rate, computes the round-trip profit for each, and returns the candidates
// sorted by profit, best first. Ties keep the pair enumeration order, which
// is itself deterministic because discovery sorts pools by venue and tier.
//
// Returns nil when fewer than two pools exist or the amount is not positive.
func Rank(pools []discoveryDomain.Pool, amount, flashFeeRate decimal.Decimal) []Opportunity {
	if len(pools) < 2 || !amount.IsPositive() {
		return nil
	}

	opps := make([]Opportunity, 0, len(pools)*(len(pools)-1)/2)
	for i, sell := range pools {
		for j, buy := range pools {
			if i == j || !sell.Rate.GreaterThan(buy.Rate) {
				continue
			}
			// Discovery never emits non-positive rates, but a zero buy
			// rate here would divide by zero in RoundTripProfit.
			if !buy.Rate.IsPositive() {
				continue
			}
			opps = append(opps, Opportunity{
				SellPool: sell,
				BuyPool:  buy,
				Amount:   amount,
				Profit:   RoundTripProfit(sell, buy, amount, flashFeeRate),
			})
		}
	}

	sort.SliceStable(opps, func(a, b int) bool {
		return opps[a].Profit.GreaterThan(opps[b].Profit)
	})
	return opps
}
