package asset_test

import (
	"math/big"
	"testing"

	"github.com/avilla-f/flasharb/internal/asset"
	"github.com/shopspring/decimal"
)

var oneWBNBWei, _ = new(big.Int).SetString("1000000000000000000", 10)

func TestAmount_Basic(t *testing.T) {
	oneWBNB := asset.NewAmount(asset.WBNB, oneWBNBWei)

	if oneWBNB.IsZero() {
		t.Error("expected non-zero amount")
	}

	d := oneWBNB.ToDecimal()
	if !d.Equal(decimal.NewFromInt(1)) {
		t.Errorf("expected 1, got %s", d.String())
	}

	if oneWBNB.String() != "1 WBNB" {
		t.Errorf("expected '1 WBNB', got '%s'", oneWBNB.String())
	}
}

func TestAmount_Add(t *testing.T) {
	oneWBNB := asset.NewAmount(asset.WBNB, oneWBNBWei)
	twoWBNB := asset.NewAmount(asset.WBNB, new(big.Int).Mul(oneWBNBWei, big.NewInt(2)))

	sum, err := oneWBNB.Add(twoWBNB)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := decimal.NewFromInt(3)
	if !sum.ToDecimal().Equal(expected) {
		t.Errorf("expected 3, got %s", sum.ToDecimal().String())
	}
}

func TestAmount_CannotAddDifferentAssets(t *testing.T) {
	oneWBNB := asset.NewAmount(asset.WBNB, oneWBNBWei)
	oneUSDT := asset.NewAmount(asset.USDT, oneWBNBWei)

	_, err := oneWBNB.Add(oneUSDT)
	if err == nil {
		t.Error("expected error when adding different assets")
	}
}

func TestAmount_SubNegativeError(t *testing.T) {
	oneWBNB := asset.NewAmount(asset.WBNB, oneWBNBWei)
	twoWBNB := asset.NewAmount(asset.WBNB, new(big.Int).Mul(oneWBNBWei, big.NewInt(2)))

	_, err := oneWBNB.Sub(twoWBNB)
	if err == nil {
		t.Error("expected error for negative result")
	}
}

func TestParseDecimal(t *testing.T) {
	// Parse "1.5" WBNB
	d := decimal.NewFromFloat(1.5)
	amount, err := asset.ParseDecimal(asset.WBNB, d)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should be 1.5e18 wei
	expected := big.NewInt(0)
	expected.SetString("1500000000000000000", 10)

	if amount.Raw().Cmp(expected) != 0 {
		t.Errorf("expected %s, got %s", expected.String(), amount.Raw().String())
	}
}

func TestAssetID_Identity(t *testing.T) {
	cake := asset.NewTokenAssetID(asset.ChainIDBSC, asset.AddrCAKEBSC)
	cake2 := asset.NewTokenAssetID(asset.ChainIDBSC, asset.AddrCAKEBSC)

	if !cake.Equals(cake2) {
		t.Error("same asset should have equal IDs")
	}

	// Same address on a different chain is a different asset
	cakeEthereum := asset.NewTokenAssetID(asset.ChainIDEthereum, asset.AddrCAKEBSC)

	if cake.Equals(cakeEthereum) {
		t.Error("different chains should have different IDs")
	}
}

func TestRegistry(t *testing.T) {
	r := asset.DefaultRegistry()

	wbnb, ok := r.GetToken(asset.ChainIDBSC, asset.AddrWBNBBSC)
	if !ok {
		t.Fatal("WBNB not found in registry")
	}
	if wbnb.Symbol() != "WBNB" {
		t.Errorf("expected WBNB, got %s", wbnb.Symbol())
	}

	// BSC-pegged USDC keeps 18 decimals
	usdc, ok := r.GetBySymbolAndChain("USDC", asset.ChainIDBSC)
	if !ok {
		t.Fatal("USDC not found in registry")
	}
	if usdc.Decimals() != 18 {
		t.Errorf("expected 18 decimals, got %d", usdc.Decimals())
	}
}
