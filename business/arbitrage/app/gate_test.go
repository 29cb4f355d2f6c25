package app_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/business/arbitrage/app"
	"github.com/avilla-f/flasharb/business/arbitrage/domain"
	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
	marketDomain "github.com/avilla-f/flasharb/business/market/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/asset"
)

func testSnapshot() marketDomain.Snapshot {
	return marketDomain.Snapshot{
		GasPriceWei: big.NewInt(3_000_000_000), // 3 gwei
		GasSource:   marketDomain.SourcePrimary,
		BNBUSD:      decimal.NewFromInt(600),
		RateSource:  marketDomain.SourcePrimary,
		FetchedAt:   time.Now().UTC(),
	}
}

func testOpportunity(profit string) domain.Opportunity {
	return domain.Opportunity{
		SellPool: discoveryDomain.Pool{
			Venue:   "pancakeswap-v3",
			Address: common.HexToAddress("0x1111111111111111111111111111111111111111"),
			FeeTier: 500,
			Rate:    decimal.RequireFromString("1.02"),
		},
		BuyPool: discoveryDomain.Pool{
			Venue:   "uniswap-v3",
			Address: common.HexToAddress("0x2222222222222222222222222222222222222222"),
			FeeTier: 500,
			Rate:    decimal.RequireFromString("1.00"),
		},
		Amount: decimal.NewFromInt(100),
		Profit: decimal.RequireFromString(profit),
	}
}

func TestGate_Evaluate(t *testing.T) {
	tests := []struct {
		name        string
		profit      string
		wantVerdict domain.Verdict
	}{
		{"positive_profit", "1.91", domain.VerdictExecutable},
		{"tiny_positive_profit", "0.000001", domain.VerdictExecutable},
		{"zero_profit", "0", domain.VerdictAcceptableLoss},
		{"small_loss_within_tolerance", "-0.090074975", domain.VerdictAcceptableLoss},
		{"loss_at_tolerance_boundary", "-1.00", domain.VerdictAcceptableLoss},
		{"loss_beyond_tolerance", "-1.01", domain.VerdictRejected},
		{"deep_loss", "-25", domain.VerdictRejected},
	}

	gate := app.NewGate(decimal.RequireFromString("1.00"), 650_000)
	snap := testSnapshot()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := gate.Evaluate(testOpportunity(tt.profit), snap, 1)

			if ev.Verdict != tt.wantVerdict {
				t.Errorf("Verdict = %s, want %s", ev.Verdict, tt.wantVerdict)
			}
			if !ev.ProfitUSD.Equal(decimal.RequireFromString(tt.profit)) {
				t.Errorf("ProfitUSD = %s, want %s", ev.ProfitUSD, tt.profit)
			}
			// 650k units at 3 gwei with BNB at $600: 0.00195 BNB = $1.17.
			if !ev.GasCostUSD.Equal(decimal.RequireFromString("1.17")) {
				t.Errorf("GasCostUSD = %s, want 1.17", ev.GasCostUSD)
			}
		})
	}
}

func TestEvaluation_ExecutionRequest(t *testing.T) {
	gate := app.NewGate(decimal.RequireFromString("1.00"), 650_000)
	snap := testSnapshot()

	ev := gate.Evaluate(testOpportunity("1.91"), snap, 1)
	req, err := ev.ExecutionRequest(asset.WBNB)
	if err != nil {
		t.Fatalf("ExecutionRequest: %v", err)
	}

	if req.SellPool != ev.Opportunity.SellPool.Address {
		t.Errorf("SellPool = %s, want %s", req.SellPool.Hex(), ev.Opportunity.SellPool.Address.Hex())
	}
	if req.BuyPool != ev.Opportunity.BuyPool.Address {
		t.Errorf("BuyPool = %s, want %s", req.BuyPool.Hex(), ev.Opportunity.BuyPool.Address.Hex())
	}

	// 100 WBNB at 18 decimals.
	wantRaw, _ := new(big.Int).SetString("100000000000000000000", 10)
	if req.AmountRaw.Cmp(wantRaw) != 0 {
		t.Errorf("AmountRaw = %s, want %s", req.AmountRaw, wantRaw)
	}
	if req.Verdict != domain.VerdictExecutable {
		t.Errorf("Verdict = %s, want %s", req.Verdict, domain.VerdictExecutable)
	}
}

func TestEvaluation_ExecutionRequest_RejectedVerdict(t *testing.T) {
	gate := app.NewGate(decimal.RequireFromString("1.00"), 650_000)
	ev := gate.Evaluate(testOpportunity("-50"), testSnapshot(), 1)

	_, err := ev.ExecutionRequest(asset.WBNB)
	if apperror.GetCode(err) != apperror.CodeInvalidInput {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeInvalidInput)
	}
}
