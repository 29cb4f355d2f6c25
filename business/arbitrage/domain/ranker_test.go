package domain

import (
	"testing"

	"github.com/shopspring/decimal"

	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
)

func mkPool(venue string, feeTier uint32, rate string) discoveryDomain.Pool {
	return discoveryDomain.Pool{
		Venue:   venue,
		FeeTier: feeTier,
		Rate:    decimal.RequireFromString(rate),
	}
}

func TestRoundTripProfit(t *testing.T) {
	tests := []struct {
		name       string
		sell       discoveryDomain.Pool
		buy        discoveryDomain.Pool
		amount     string
		wantProfit string
	}{
		{
			// 100 borrowed, sold at 1.02, bought back at 1.00, no swap
			// fees: 102 returned, minus principal and the 9 bps flash fee.
			name:       "zero_fee_spread",
			sell:       mkPool("pancakeswap-v3", 0, "1.02"),
			buy:        mkPool("uniswap-v3", 0, "1.00"),
			amount:     "100",
			wantProfit: "1.91",
		},
		{
			// Thin spread eaten by two 5 bps swap fees plus the flash fee.
			name:       "thin_spread_small_loss",
			sell:       mkPool("pancakeswap-v3", 500, "1.001"),
			buy:        mkPool("uniswap-v3", 500, "1.00"),
			amount:     "100",
			wantProfit: "-0.090074975",
		},
		{
			// Equal rates can never beat the flash fee.
			name:       "flat_rates_lose_flash_fee",
			sell:       mkPool("pancakeswap-v3", 0, "1.00"),
			buy:        mkPool("uniswap-v3", 0, "1.00"),
			amount:     "100",
			wantProfit: "-0.09",
		},
		{
			// 1000 * 1.05 * 0.9975 * 0.9995 - 1000 - 0.9
			name:       "wide_spread_with_fees",
			sell:       mkPool("pancakeswap-v3", 2500, "1.05"),
			buy:        mkPool("uniswap-v3", 500, "1.00"),
			amount:     "1000",
			wantProfit: "45.9513125",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			amount := decimal.RequireFromString(tt.amount)
			got := RoundTripProfit(tt.sell, tt.buy, amount, DefaultFlashFeeRate)

			want := decimal.RequireFromString(tt.wantProfit)
			if !got.Equal(want) {
				t.Fatalf("profit = %s, want %s", got, want)
			}
		})
	}
}

func TestRank_OrdersByProfitDescending(t *testing.T) {
	pools := []discoveryDomain.Pool{
		mkPool("pancakeswap-v3", 500, "1.00"),
		mkPool("pancakeswap-v3", 2500, "1.03"),
		mkPool("uniswap-v3", 500, "1.01"),
	}
	amount := decimal.NewFromInt(100)

	opps := Rank(pools, amount, DefaultFlashFeeRate)

	// Rates 1.00 < 1.01 < 1.03 give exactly three ordered pairs.
	if len(opps) != 3 {
		t.Fatalf("len(opps) = %d, want 3", len(opps))
	}
	for i, opp := range opps {
		if !opp.SellPool.Rate.GreaterThan(opp.BuyPool.Rate) {
			t.Errorf("opps[%d]: sell rate %s not above buy rate %s",
				i, opp.SellPool.Rate, opp.BuyPool.Rate)
		}
		if opp.SellPool.Key() == opp.BuyPool.Key() {
			t.Errorf("opps[%d]: sell and buy are the same pool", i)
		}
		if i > 0 && opp.Profit.GreaterThan(opps[i-1].Profit) {
			t.Errorf("opps[%d].Profit = %s ranked above %s", i, opps[i-1].Profit, opp.Profit)
		}
	}

	// Best candidate sells at the widest spread: 1.03 against 1.00.
	best := opps[0]
	if !best.SellPool.Rate.Equal(decimal.RequireFromString("1.03")) ||
		!best.BuyPool.Rate.Equal(decimal.RequireFromString("1.00")) {
		t.Errorf("best pair = sell %s / buy %s, want 1.03/1.00",
			best.SellPool.Rate, best.BuyPool.Rate)
	}
}

func TestRank_InputOrderIndependent(t *testing.T) {
	a := mkPool("pancakeswap-v3", 500, "1.00")
	b := mkPool("pancakeswap-v3", 2500, "1.03")
	c := mkPool("uniswap-v3", 500, "1.01")
	amount := decimal.NewFromInt(250)

	first := Rank([]discoveryDomain.Pool{a, b, c}, amount, DefaultFlashFeeRate)
	second := Rank([]discoveryDomain.Pool{c, a, b}, amount, DefaultFlashFeeRate)

	if len(first) != len(second) {
		t.Fatalf("lengths differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !first[i].Profit.Equal(second[i].Profit) {
			t.Errorf("profit[%d] differs: %s vs %s", i, first[i].Profit, second[i].Profit)
		}
	}
}

func TestRank_DegenerateInputs(t *testing.T) {
	pool := mkPool("pancakeswap-v3", 500, "1.00")
	amount := decimal.NewFromInt(100)

	if got := Rank(nil, amount, DefaultFlashFeeRate); got != nil {
		t.Errorf("Rank(nil pools) = %v, want nil", got)
	}
	if got := Rank([]discoveryDomain.Pool{pool}, amount, DefaultFlashFeeRate); got != nil {
		t.Errorf("Rank(single pool) = %v, want nil", got)
	}
	pools := []discoveryDomain.Pool{pool, mkPool("uniswap-v3", 500, "1.05")}
	if got := Rank(pools, decimal.Zero, DefaultFlashFeeRate); got != nil {
		t.Errorf("Rank(zero amount) = %v, want nil", got)
	}
	if got := Rank(pools, decimal.NewFromInt(-5), DefaultFlashFeeRate); got != nil {
		t.Errorf("Rank(negative amount) = %v, want nil", got)
	}

	// Identical rates everywhere: no pair diverges, no candidates.
	flat := []discoveryDomain.Pool{
		mkPool("pancakeswap-v3", 500, "1.00"),
		mkPool("uniswap-v3", 500, "1.00"),
		mkPool("uniswap-v3", 3000, "1.00"),
	}
	if got := Rank(flat, amount, DefaultFlashFeeRate); len(got) != 0 {
		t.Errorf("Rank(flat rates) returned %d candidates, want 0", len(got))
	}
}

func TestRank_SkipsZeroRatePool(t *testing.T) {
	// A zero-rate pool must never become a buy leg: the round trip
	// divides by the buy rate.
	pools := []discoveryDomain.Pool{
		mkPool("pancakeswap-v3", 500, "0"),
		mkPool("uniswap-v3", 500, "1.00"),
	}

	got := Rank(pools, decimal.NewFromInt(100), DefaultFlashFeeRate)
	if len(got) != 0 {
		t.Fatalf("returned %d candidates over a zero-rate pool, want 0", len(got))
	}
}
