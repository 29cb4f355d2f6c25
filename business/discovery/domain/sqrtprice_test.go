package domain_test

import (
	"math/big"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/business/discovery/domain"
)

// q96 is 2^96, the sqrt price for a 1:1 pool.
var q96 = new(big.Int).Lsh(big.NewInt(1), 96)

func TestPriceFromSqrt_Parity(t *testing.T) {
	rate, err := domain.PriceFromSqrt(q96, 18, 18, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !rate.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected rate 1, got %s", rate.String())
	}
}

func TestPriceFromSqrt_Orientation(t *testing.T) {
	// sqrt price of 2 means token1/token0 price of 4.
	sqrt := new(big.Int).Mul(q96, big.NewInt(2))

	tests := []struct {
		name           string
		borrowIsToken0 bool
		want           decimal.Decimal
	}{
		{"borrow is token0", true, decimal.NewFromInt(4)},
		{"borrow is token1", false, decimal.RequireFromString("0.25")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := domain.PriceFromSqrt(sqrt, 18, 18, tt.borrowIsToken0)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !rate.Equal(tt.want) {
				t.Errorf("expected %s, got %s", tt.want.String(), rate.String())
			}
		})
	}
}

func TestPriceFromSqrt_InversionSymmetry(t *testing.T) {
	// The two orientations of the same pool must multiply to 1.
	sqrt := new(big.Int).Mul(q96, big.NewInt(3))

	forward, err := domain.PriceFromSqrt(sqrt, 18, 18, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	backward, err := domain.PriceFromSqrt(sqrt, 18, 18, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	product := forward.Mul(backward)
	tolerance := decimal.RequireFromString("0.000000000001")
	if product.Sub(decimal.NewFromInt(1)).Abs().GreaterThan(tolerance) {
		t.Errorf("expected product ~1, got %s", product.String())
	}
}

func TestPriceFromSqrt_Invalid(t *testing.T) {
	if _, err := domain.PriceFromSqrt(nil, 18, 18, true); err == nil {
		t.Error("expected error for nil sqrt price")
	}
	if _, err := domain.PriceFromSqrt(big.NewInt(0), 18, 18, true); err == nil {
		t.Error("expected error for zero sqrt price")
	}
	if _, err := domain.PriceFromSqrt(big.NewInt(-1), 18, 18, true); err == nil {
		t.Error("expected error for negative sqrt price")
	}
}

func TestPriceFromSqrt_UnderflowBothOrientations(t *testing.T) {
	// A sqrt price this small squares to below 10^-36 and rounds to a
	// zero rate, which must be rejected rather than admitted.
	tiny := big.NewInt(1)

	for _, borrowIsToken0 := range []bool{true, false} {
		if _, err := domain.PriceFromSqrt(tiny, 18, 18, borrowIsToken0); err == nil {
			t.Errorf("borrowIsToken0=%v: expected error for underflowing price, got nil", borrowIsToken0)
		}
	}
}

func TestPool_FeeRate(t *testing.T) {
	tests := []struct {
		feeTier uint32
		want    string
	}{
		{100, "0.0001"},
		{500, "0.0005"},
		{2500, "0.0025"},
		{3000, "0.003"},
		{10000, "0.01"},
	}

	for _, tt := range tests {
		p := domain.Pool{FeeTier: tt.feeTier}
		if !p.FeeRate().Equal(decimal.RequireFromString(tt.want)) {
			t.Errorf("fee tier %d: expected %s, got %s", tt.feeTier, tt.want, p.FeeRate().String())
		}
	}
}
