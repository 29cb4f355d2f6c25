// Package bnbgas implements the GasPriceSource port against a BSC JSON-RPC node.
package bnbgas

import (
	"context"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/ethereum/go-ethereum/ethclient"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/cache"
	"github.com/avilla-f/flasharb/internal/circuitbreaker"
	"github.com/avilla-f/flasharb/internal/logger"
)

const (
	tracerName = "bnbgas"
	meterName  = "bnbgas"
)

// OracleConfig holds configuration for the gas oracle.
type OracleConfig struct {
	RPCURL      string        // BSC RPC endpoint
	CacheTTL    time.Duration // How long to cache gas prices
	MaxGasPrice *big.Int      // Maximum acceptable gas price (safety)
}

// DefaultOracleConfig returns sensible defaults for BSC's ~3s block time.
func DefaultOracleConfig(rpcURL string) OracleConfig {
	maxGas := new(big.Int)
	maxGas.SetString("100000000000", 10) // 100 gwei max

	return OracleConfig{
		RPCURL:      rpcURL,
		CacheTTL:    3 * time.Second, // ~1 block
		MaxGasPrice: maxGas,
	}
}

// oracleMetrics holds OTEL metric instruments.
type oracleMetrics struct {
	fetches     metric.Int64Counter
	gwei        metric.Float64Gauge
	cacheHits   metric.Int64Counter
	cacheMisses metric.Int64Counter
}

// Oracle implements the GasPriceSource port using go-ethereum.
type Oracle struct {
	config OracleConfig
	logger logger.LoggerInterface

	client   *ethclient.Client
	clientMu sync.RWMutex

	priceCache    *cache.Cache[string, *big.Int]
	priceCacheTTL time.Duration

	cb *circuitbreaker.CircuitBreaker[*big.Int]

	tracer  trace.Tracer
	metrics *oracleMetrics
}

// NewOracle creates a new gas oracle instance.
func NewOracle(cfg OracleConfig, log logger.LoggerInterface) (*Oracle, error) {
	o := &Oracle{
		config:        cfg,
		logger:        log,
		priceCache:    cache.New[string, *big.Int](5 * time.Minute),
		priceCacheTTL: cfg.CacheTTL,
		tracer:        otel.Tracer(tracerName),
	}

	if err := o.initMetrics(); err != nil {
		return nil, fmt.Errorf("init metrics: %w", err)
	}

	o.cb = circuitbreaker.New[*big.Int](circuitbreaker.DefaultConfig("bnb-gas-oracle"))

	return o, nil
}

func (o *Oracle) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	o.metrics = &oracleMetrics{}

	o.metrics.fetches, err = meter.Int64Counter(
		"gas_price_fetches_total",
		metric.WithDescription("Total gas price fetch attempts"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return err
	}

	o.metrics.gwei, err = meter.Float64Gauge(
		"gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	o.metrics.cacheHits, err = meter.Int64Counter(
		"gas_cache_hits_total",
		metric.WithDescription("Gas price cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return err
	}

	o.metrics.cacheMisses, err = meter.Int64Counter(
		"gas_cache_misses_total",
		metric.WithDescription("Gas price cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Connect establishes the connection to the RPC node.
func (o *Oracle) Connect(ctx context.Context) error {
	ctx, span := o.tracer.Start(ctx, "gas.connect",
		trace.WithAttributes(attribute.String("url", o.config.RPCURL)),
	)
	defer span.End()

	client, err := ethclient.DialContext(ctx, o.config.RPCURL)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dial failed")
		return apperror.New(apperror.CodeChainConnectionFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to connect gas oracle"))
	}

	o.clientMu.Lock()
	o.client = client
	o.clientMu.Unlock()

	span.SetStatus(codes.Ok, "connected")
	o.logger.Info(ctx, "gas oracle connected", "url", o.config.RPCURL)

	return nil
}

// WithClient attaches an already-dialed RPC client, sharing the connection
// with the pool state reader.
func (o *Oracle) WithClient(client *ethclient.Client) *Oracle {
	o.clientMu.Lock()
	o.client = client
	o.clientMu.Unlock()
	return o
}

// GasPriceWei retrieves the current suggested gas price with caching.
func (o *Oracle) GasPriceWei(ctx context.Context) (*big.Int, error) {
	ctx, span := o.tracer.Start(ctx, "gas.get_price")
	defer span.End()

	if wei, found := o.priceCache.Get(ctx, "current"); found {
		o.metrics.cacheHits.Add(ctx, 1)
		span.AddEvent("cache_hit")
		return new(big.Int).Set(wei), nil
	}

	o.metrics.cacheMisses.Add(ctx, 1)
	o.metrics.fetches.Add(ctx, 1)

	o.clientMu.RLock()
	client := o.client
	o.clientMu.RUnlock()

	if client == nil {
		err := apperror.New(apperror.CodeChainConnectionFailed,
			apperror.WithContext("gas oracle not connected"))
		span.RecordError(err)
		return nil, err
	}

	wei, err := o.cb.Execute(func() (*big.Int, error) {
		return client.SuggestGasPrice(ctx)
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "fetch failed")
		return nil, apperror.New(apperror.CodeGasPriceFetchFailed,
			apperror.WithCause(err),
			apperror.WithContext("failed to get gas price"))
	}

	// Safety check
	if o.config.MaxGasPrice != nil && wei.Cmp(o.config.MaxGasPrice) > 0 {
		span.AddEvent("gas_price_exceeded_max",
			trace.WithAttributes(attribute.String("wei", wei.String())))
		o.logger.Warn(ctx, "gas price exceeds max", "wei", wei.String())
		wei = new(big.Int).Set(o.config.MaxGasPrice)
	}

	o.priceCache.Set(ctx, "current", new(big.Int).Set(wei), o.priceCacheTTL)

	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9)).Float64()
	o.metrics.gwei.Record(ctx, gwei)

	span.SetAttributes(attribute.Float64("gwei", gwei))
	span.SetStatus(codes.Ok, "fetched")

	return wei, nil
}

// Close closes the gas oracle.
func (o *Oracle) Close() error {
	o.clientMu.Lock()
	defer o.clientMu.Unlock()

	if o.client != nil {
		o.client.Close()
		o.client = nil
	}

	o.priceCache.Close()

	return nil
}
