package app

import (
	"context"
	"math/big"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/avilla-f/flasharb/business/market/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/logger"
)

const (
	tracerName = "market"
	meterName  = "market"
)

// FeedConfig holds market data feed settings.
type FeedConfig struct {
	RefreshInterval time.Duration
	DefaultGasWei   *big.Int
	DefaultBNBUSD   decimal.Decimal
}

// feedMetrics holds OTEL metric instruments.
type feedMetrics struct {
	refreshes    metric.Int64Counter
	fallbacks    metric.Int64Counter
	bnbUSD       metric.Float64Gauge
	gasPriceGwei metric.Float64Gauge
}

// Feed keeps a fresh market snapshot available to the detection engine.
// Values degrade gracefully: gas falls back to a configured default, the
// BNB/USD rate walks primary -> fallback -> default.
type Feed struct {
	cfg      FeedConfig
	gas      GasPriceSource
	primary  RateSource
	fallback RateSource
	logger   logger.LoggerInterface

	latest atomic.Pointer[domain.Snapshot]

	tracer  trace.Tracer
	metrics *feedMetrics
}

// NewFeed creates a new market data feed.
func NewFeed(cfg FeedConfig, gas GasPriceSource, primary, fallback RateSource, log logger.LoggerInterface) (*Feed, error) {
	if cfg.RefreshInterval <= 0 {
		return nil, apperror.Validation(apperror.CodeInvalidInput, "refresh interval must be positive")
	}

	f := &Feed{
		cfg:      cfg,
		gas:      gas,
		primary:  primary,
		fallback: fallback,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}

	if err := f.initMetrics(); err != nil {
		return nil, err
	}

	return f, nil
}

func (f *Feed) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	f.metrics = &feedMetrics{}

	f.metrics.refreshes, err = meter.Int64Counter(
		"market_refreshes_total",
		metric.WithDescription("Total market snapshot refreshes"),
	)
	if err != nil {
		return err
	}

	f.metrics.fallbacks, err = meter.Int64Counter(
		"market_fallbacks_total",
		metric.WithDescription("Refreshes that fell back past the primary source"),
	)
	if err != nil {
		return err
	}

	f.metrics.bnbUSD, err = meter.Float64Gauge(
		"market_bnb_usd",
		metric.WithDescription("Current BNB/USD reference rate"),
	)
	if err != nil {
		return err
	}

	f.metrics.gasPriceGwei, err = meter.Float64Gauge(
		"market_gas_price_gwei",
		metric.WithDescription("Current gas price in gwei"),
		metric.WithUnit("gwei"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Start refreshes once immediately, then on every tick until ctx is done.
func (f *Feed) Start(ctx context.Context) {
	f.Refresh(ctx)

	ticker := time.NewTicker(f.cfg.RefreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			f.logger.Info(ctx, "market feed stopping", "reason", ctx.Err())
			return
		case <-ticker.C:
			f.Refresh(ctx)
		}
	}
}

// Latest returns the most recent snapshot. Before the first refresh it
// returns a snapshot built entirely from configured defaults.
func (f *Feed) Latest() domain.Snapshot {
	if snap := f.latest.Load(); snap != nil {
		return *snap
	}
	return f.defaultSnapshot()
}

// Refresh fetches fresh market data. It never fails: each value degrades
// to its fallback chain and the snapshot records where values came from.
func (f *Feed) Refresh(ctx context.Context) domain.Snapshot {
	ctx, span := f.tracer.Start(ctx, "market.refresh")
	defer span.End()

	f.metrics.refreshes.Add(ctx, 1)

	snap := domain.Snapshot{FetchedAt: time.Now()}
	snap.GasPriceWei, snap.GasSource = f.fetchGasPrice(ctx)
	snap.BNBUSD, snap.RateSource = f.fetchBNBUSD(ctx)

	if snap.Degraded() {
		span.AddEvent("snapshot_degraded")
	}

	gwei, _ := snap.GasPriceGwei().Float64()
	f.metrics.gasPriceGwei.Record(ctx, gwei)
	usd, _ := snap.BNBUSD.Float64()
	f.metrics.bnbUSD.Record(ctx, usd)

	f.latest.Store(&snap)

	span.SetAttributes(
		attribute.String("gas_source", string(snap.GasSource)),
		attribute.String("rate_source", string(snap.RateSource)),
	)
	span.SetStatus(codes.Ok, "refreshed")

	f.logger.Debug(ctx, "market snapshot refreshed",
		"gas_gwei", snap.GasPriceGwei().String(),
		"gas_source", snap.GasSource,
		"bnb_usd", snap.BNBUSD.String(),
		"rate_source", snap.RateSource,
	)

	return snap
}

func (f *Feed) fetchGasPrice(ctx context.Context) (*big.Int, domain.Source) {
	wei, err := f.gas.GasPriceWei(ctx)
	if err != nil || wei == nil || wei.Sign() <= 0 {
		f.logger.Warn(ctx, "gas price unavailable, using default",
			"default_wei", f.cfg.DefaultGasWei.String(),
			"error", err,
		)
		return new(big.Int).Set(f.cfg.DefaultGasWei), domain.SourceDefault
	}
	return wei, domain.SourcePrimary
}

func (f *Feed) fetchBNBUSD(ctx context.Context) (decimal.Decimal, domain.Source) {
	rate, err := f.primary.BNBUSD(ctx)
	if err == nil && rate.IsPositive() {
		return rate, domain.SourcePrimary
	}

	f.metrics.fallbacks.Add(ctx, 1)
	f.logger.Warn(ctx, "primary rate source failed, trying fallback",
		"primary", f.primary.Name(),
		"error", err,
	)

	rate, err = f.fallback.BNBUSD(ctx)
	if err == nil && rate.IsPositive() {
		return rate, domain.SourceFallback
	}

	f.logger.Warn(ctx, "fallback rate source failed, using default",
		"fallback", f.fallback.Name(),
		"default", f.cfg.DefaultBNBUSD.String(),
		"error", err,
	)
	return f.cfg.DefaultBNBUSD, domain.SourceDefault
}

func (f *Feed) defaultSnapshot() domain.Snapshot {
	return domain.Snapshot{
		GasPriceWei: new(big.Int).Set(f.cfg.DefaultGasWei),
		GasSource:   domain.SourceDefault,
		BNBUSD:      f.cfg.DefaultBNBUSD,
		RateSource:  domain.SourceDefault,
		FetchedAt:   time.Now(),
	}
}
