// Package app contains application services and port definitions for the discovery context.
package app

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// PoolState is the raw on-chain state required to price a pool.
type PoolState struct {
	SqrtPriceX96 *big.Int
	Token0       common.Address
	Token1       common.Address
	FeeTier      uint32
}

// PoolStateReader defines the interface for reading pool existence and state
// from a concentrated-liquidity venue.
type PoolStateReader interface {
	// PoolFor resolves the pool address for a token pair and fee tier.
	// Returns the zero address when the factory has no such pool.
	PoolFor(ctx context.Context, factory, tokenA, tokenB common.Address, feeTier uint32) (common.Address, error)

	// ReadState reads the current sqrt price and token ordering of a pool.
	ReadState(ctx context.Context, pool common.Address) (PoolState, error)
}
