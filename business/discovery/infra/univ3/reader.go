// Package univ3 implements the PoolStateReader port against V3-style
// factory and pool contracts over JSON-RPC.
package univ3

import (
	"context"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/avilla-f/flasharb/business/discovery/app"
	"github.com/avilla-f/flasharb/business/discovery/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/cache"
	"github.com/avilla-f/flasharb/internal/circuitbreaker"
	"github.com/avilla-f/flasharb/internal/logger"
)

const (
	tracerName = "univ3"
	meterName  = "univ3"
)

// Ensure Reader implements PoolStateReader.
var _ app.PoolStateReader = (*Reader)(nil)

// readerMetrics holds OTEL metric instruments.
type readerMetrics struct {
	callsTotal  metric.Int64Counter
	callLatency metric.Float64Histogram
	callErrors  metric.Int64Counter
	cacheHits   metric.Int64Counter
}

// Reader reads pool addresses and state from V3-style contracts.
type Reader struct {
	client     *ethclient.Client
	factoryABI abi.ABI
	poolABI    abi.ABI

	// Pool addresses are immutable once deployed, so factory lookups are
	// cached aggressively.
	poolCache    *cache.Cache[string, common.Address]
	poolCacheTTL time.Duration

	logger logger.LoggerInterface
	cb     *circuitbreaker.CircuitBreaker[[]byte]

	tracer  trace.Tracer
	metrics *readerMetrics
}

// NewReader creates a new Reader bound to an RPC client.
func NewReader(client *ethclient.Client, poolCacheTTL time.Duration, log logger.LoggerInterface) (*Reader, error) {
	factoryABI, err := abi.JSON(strings.NewReader(FactoryABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse factory ABI: %w", err)
	}

	poolABI, err := abi.JSON(strings.NewReader(PoolABI))
	if err != nil {
		return nil, fmt.Errorf("failed to parse pool ABI: %w", err)
	}

	r := &Reader{
		client:       client,
		factoryABI:   factoryABI,
		poolABI:      poolABI,
		poolCache:    cache.New[string, common.Address](5 * time.Minute),
		poolCacheTTL: poolCacheTTL,
		logger:       log,
		tracer:       otel.Tracer(tracerName),
	}

	cbCfg := circuitbreaker.DefaultConfig("univ3-reader")
	r.cb = circuitbreaker.New[[]byte](cbCfg)

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("failed to init metrics: %w", err)
	}

	return r, nil
}

func (r *Reader) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	r.metrics = &readerMetrics{}

	r.metrics.callsTotal, err = meter.Int64Counter(
		"univ3_calls_total",
		metric.WithDescription("Total contract call requests"),
	)
	if err != nil {
		return err
	}

	r.metrics.callLatency, err = meter.Float64Histogram(
		"univ3_call_latency_ms",
		metric.WithDescription("Contract call latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return err
	}

	r.metrics.callErrors, err = meter.Int64Counter(
		"univ3_call_errors_total",
		metric.WithDescription("Total contract call errors"),
	)
	if err != nil {
		return err
	}

	r.metrics.cacheHits, err = meter.Int64Counter(
		"univ3_pool_cache_hits_total",
		metric.WithDescription("Pool address cache hits"),
	)
	if err != nil {
		return err
	}

	return nil
}

// PoolFor resolves the pool address for a token pair and fee tier.
// Returns the zero address when the factory has no such pool.
func (r *Reader) PoolFor(ctx context.Context, factory, tokenA, tokenB common.Address, feeTier uint32) (common.Address, error) {
	// Canonical order means both orientations of a pair share one cache
	// entry and one on-chain lookup.
	tokenA, tokenB = domain.SortTokens(tokenA, tokenB)

	cacheKey := fmt.Sprintf("%s/%s/%s/%d", factory.Hex(), tokenA.Hex(), tokenB.Hex(), feeTier)
	if addr, ok := r.poolCache.Get(ctx, cacheKey); ok {
		r.metrics.cacheHits.Add(ctx, 1)
		return addr, nil
	}

	ctx, span := r.tracer.Start(ctx, "univ3.pool_for",
		trace.WithAttributes(
			attribute.String("factory", factory.Hex()),
			attribute.Int("fee_tier", int(feeTier)),
		),
	)
	defer span.End()

	callData, err := r.factoryABI.Pack("getPool", tokenA, tokenB, big.NewInt(int64(feeTier)))
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to encode getPool: %w", err)
	}

	result, err := r.call(ctx, factory, callData)
	if err != nil {
		span.SetStatus(codes.Error, "getPool failed")
		return common.Address{}, apperror.External(apperror.CodeContractCallFailed,
			fmt.Sprintf("getPool failed for fee tier %d", feeTier), err)
	}

	outputs, err := r.factoryABI.Unpack("getPool", result)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode getPool: %w", err)
	}
	addr := outputs[0].(common.Address)

	span.SetAttributes(attribute.String("pool", addr.Hex()))
	span.SetStatus(codes.Ok, "pool resolved")

	// Cache hits and misses alike: a missing pool stays missing.
	r.poolCache.Set(ctx, cacheKey, addr, r.poolCacheTTL)

	return addr, nil
}

// ReadState reads the current sqrt price and token ordering of a pool.
// The four views are fetched concurrently.
func (r *Reader) ReadState(ctx context.Context, pool common.Address) (app.PoolState, error) {
	ctx, span := r.tracer.Start(ctx, "univ3.read_state",
		trace.WithAttributes(attribute.String("pool", pool.Hex())),
	)
	defer span.End()

	var state app.PoolState

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		sqrt, err := r.readSlot0SqrtPrice(gctx, pool)
		if err != nil {
			return err
		}
		state.SqrtPriceX96 = sqrt
		return nil
	})

	g.Go(func() error {
		addr, err := r.readAddressView(gctx, pool, "token0")
		if err != nil {
			return err
		}
		state.Token0 = addr
		return nil
	})

	g.Go(func() error {
		addr, err := r.readAddressView(gctx, pool, "token1")
		if err != nil {
			return err
		}
		state.Token1 = addr
		return nil
	})

	g.Go(func() error {
		fee, err := r.readFee(gctx, pool)
		if err != nil {
			return err
		}
		state.FeeTier = fee
		return nil
	})

	if err := g.Wait(); err != nil {
		span.SetStatus(codes.Error, "state read failed")
		return app.PoolState{}, apperror.External(apperror.CodePoolStateReadFailed, pool.Hex(), err)
	}

	span.SetStatus(codes.Ok, "state read")

	r.logger.Debug(ctx, "pool state read",
		"pool", pool.Hex(),
		"sqrt_price", state.SqrtPriceX96.String(),
		"fee_tier", state.FeeTier,
	)

	return state, nil
}

// readSlot0SqrtPrice decodes only the leading uint160 word of slot0, since
// the venues disagree on the shape of its remaining fields.
func (r *Reader) readSlot0SqrtPrice(ctx context.Context, pool common.Address) (*big.Int, error) {
	result, err := r.call(ctx, pool, slot0Selector)
	if err != nil {
		return nil, err
	}
	if len(result) < 32 {
		return nil, apperror.New(apperror.CodeInvalidPoolState,
			apperror.WithContext(fmt.Sprintf("slot0 returned %d bytes", len(result))))
	}
	return new(big.Int).SetBytes(result[:32]), nil
}

func (r *Reader) readAddressView(ctx context.Context, pool common.Address, method string) (common.Address, error) {
	callData, err := r.poolABI.Pack(method)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to encode %s: %w", method, err)
	}

	result, err := r.call(ctx, pool, callData)
	if err != nil {
		return common.Address{}, err
	}

	outputs, err := r.poolABI.Unpack(method, result)
	if err != nil {
		return common.Address{}, fmt.Errorf("failed to decode %s: %w", method, err)
	}
	return outputs[0].(common.Address), nil
}

func (r *Reader) readFee(ctx context.Context, pool common.Address) (uint32, error) {
	callData, err := r.poolABI.Pack("fee")
	if err != nil {
		return 0, fmt.Errorf("failed to encode fee: %w", err)
	}

	result, err := r.call(ctx, pool, callData)
	if err != nil {
		return 0, err
	}

	outputs, err := r.poolABI.Unpack("fee", result)
	if err != nil {
		return 0, fmt.Errorf("failed to decode fee: %w", err)
	}
	return uint32(outputs[0].(*big.Int).Uint64()), nil
}

// call executes a read-only contract call through the circuit breaker.
func (r *Reader) call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	start := time.Now()
	r.metrics.callsTotal.Add(ctx, 1)

	result, err := r.cb.Execute(func() ([]byte, error) {
		return r.client.CallContract(ctx, ethereum.CallMsg{
			To:   &to,
			Data: data,
		}, nil)
	})

	r.metrics.callLatency.Record(ctx, float64(time.Since(start).Milliseconds()))
	if err != nil {
		r.metrics.callErrors.Add(ctx, 1)
		return nil, err
	}

	return result, nil
}

// Close releases the pool address cache.
func (r *Reader) Close() {
	r.poolCache.Close()
}
