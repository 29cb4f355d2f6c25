package asset

import "github.com/ethereum/go-ethereum/common"

// Chain IDs
const (
	ChainIDEthereum = 1
	ChainIDBSC      = 56
)

// Well-known token addresses on BNB Smart Chain
var (
	AddrCAKEBSC   = common.HexToAddress("0x0E09FaBB73Bd3Ade0a17ECC321fD13a19e81cE82")
	AddrWBNBBSC   = common.HexToAddress("0xbb4CdB9CBd36B01bD1cBaEBF2De08d9173bc095c")
	AddrBTCBBSC   = common.HexToAddress("0x7130d2A12B9BCbFAe4f2634d864A1Ee1Ce3Ead9c")
	AddrETHBSC    = common.HexToAddress("0x2170Ed0880ac9A755fd29B2688956BD959F933F8")
	AddrUSDCBSC   = common.HexToAddress("0x8AC76a51cc950d9822D68b83fE1Ad97B32Cd580d")
	AddrUSDTBSC   = common.HexToAddress("0x55d398326f99059fF775485246999027B3197955")
	AddrFDUSDBSC  = common.HexToAddress("0xc5f0f7b66764F6ec8C8Dff7BA683102295E16409")
	AddrWSTETHBSC = common.HexToAddress("0x26c5e01524d2E6280A48F2c50fF6De7e52E9611C")
)

// Well-known AssetIDs on BNB Smart Chain
var (
	IDBSCBNB    = NewNativeAssetID(ChainIDBSC)
	IDBSCCAKE   = NewTokenAssetID(ChainIDBSC, AddrCAKEBSC)
	IDBSCWBNB   = NewTokenAssetID(ChainIDBSC, AddrWBNBBSC)
	IDBSCBTCB   = NewTokenAssetID(ChainIDBSC, AddrBTCBBSC)
	IDBSCETH    = NewTokenAssetID(ChainIDBSC, AddrETHBSC)
	IDBSCUSDC   = NewTokenAssetID(ChainIDBSC, AddrUSDCBSC)
	IDBSCUSDT   = NewTokenAssetID(ChainIDBSC, AddrUSDTBSC)
	IDBSCFDUSD  = NewTokenAssetID(ChainIDBSC, AddrFDUSDBSC)
	IDBSCWSTETH = NewTokenAssetID(ChainIDBSC, AddrWSTETHBSC)
)

// Well-known Assets (pre-created instances). All BSC pegged tokens keep
// 18 decimals, including USDC and USDT, unlike their Ethereum originals.
var (
	BNB    = NewAssetWithName(IDBSCBNB, "BNB", "BNB", 18)
	CAKE   = NewAssetWithName(IDBSCCAKE, "CAKE", "PancakeSwap Token", 18)
	WBNB   = NewAssetWithName(IDBSCWBNB, "WBNB", "Wrapped BNB", 18)
	BTCB   = NewAssetWithName(IDBSCBTCB, "BTCB", "Bitcoin BEP20", 18)
	ETH    = NewAssetWithName(IDBSCETH, "ETH", "Ethereum Token", 18)
	USDC   = NewAssetWithName(IDBSCUSDC, "USDC", "USD Coin", 18)
	USDT   = NewAssetWithName(IDBSCUSDT, "USDT", "Tether USD", 18)
	FDUSD  = NewAssetWithName(IDBSCFDUSD, "FDUSD", "First Digital USD", 18)
	WSTETH = NewAssetWithName(IDBSCWSTETH, "wstETH", "Wrapped liquid staked Ether", 18)
)

// DefaultRegistry returns a registry pre-populated with the supported
// BNB Smart Chain assets.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	r.Register(BNB)
	r.Register(CAKE)
	r.Register(WBNB)
	r.Register(BTCB)
	r.Register(ETH)
	r.Register(USDC)
	r.Register(USDT)
	r.Register(FDUSD)
	r.Register(WSTETH)

	return r
}

// MustNewToken creates a new token asset with the given parameters.
// This is a convenience function for registering custom tokens.
func MustNewToken(chainID uint64, address common.Address, symbol, name string, decimals uint8) *Asset {
	id := NewTokenAssetID(chainID, address)
	return NewAssetWithName(id, symbol, name, decimals)
}
