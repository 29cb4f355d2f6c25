package domain_test

import (
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/business/market/domain"
)

func TestSnapshot_GasCostUSD(t *testing.T) {
	// 3 gwei, 650k gas, BNB at $600:
	// 650000 * 3e9 wei = 1.95e15 wei = 0.00195 BNB = $1.17
	snap := domain.Snapshot{
		GasPriceWei: big.NewInt(3_000_000_000),
		BNBUSD:      decimal.NewFromInt(600),
	}

	got := snap.GasCostUSD(650_000)
	want := decimal.RequireFromString("1.17")
	if !got.Equal(want) {
		t.Errorf("expected %s, got %s", want.String(), got.String())
	}
}

func TestSnapshot_GasPriceGwei(t *testing.T) {
	snap := domain.Snapshot{GasPriceWei: big.NewInt(5_500_000_000)}

	want := decimal.RequireFromString("5.5")
	if !snap.GasPriceGwei().Equal(want) {
		t.Errorf("expected %s gwei, got %s", want.String(), snap.GasPriceGwei().String())
	}
}

func TestSnapshot_NilGasPrice(t *testing.T) {
	var snap domain.Snapshot

	if !snap.GasCostUSD(650_000).IsZero() {
		t.Error("expected zero cost for nil gas price")
	}
	if !snap.GasPriceGwei().IsZero() {
		t.Error("expected zero gwei for nil gas price")
	}
}

func TestSnapshot_Degraded(t *testing.T) {
	healthy := domain.Snapshot{GasSource: domain.SourcePrimary, RateSource: domain.SourceFallback}
	if healthy.Degraded() {
		t.Error("primary/fallback snapshot should not be degraded")
	}

	degraded := domain.Snapshot{GasSource: domain.SourcePrimary, RateSource: domain.SourceDefault}
	if !degraded.Degraded() {
		t.Error("default-sourced snapshot should be degraded")
	}
}

func TestSnapshot_Age(t *testing.T) {
	now := time.Now()
	snap := domain.Snapshot{FetchedAt: now.Add(-30 * time.Second)}

	if age := snap.Age(now); age != 30*time.Second {
		t.Errorf("expected 30s age, got %s", age)
	}
}
