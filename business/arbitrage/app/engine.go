// Package app contains application services and port definitions for the
// arbitrage context.
package app

import (
	"context"
	"sync/atomic"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/avilla-f/flasharb/business/arbitrage/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/asset"
	"github.com/avilla-f/flasharb/internal/logger"
)

const (
	tracerName = "arbitrage"
	meterName  = "arbitrage"
)

// EngineConfig holds detection engine settings.
type EngineConfig struct {
	FlashFeeRate decimal.Decimal
	MaxAttempts  int
}

// engineMetrics holds OTEL metric instruments.
type engineMetrics struct {
	sessions    metric.Int64Counter
	candidates  metric.Int64Counter
	evaluations metric.Int64Counter
	bestProfit  metric.Float64Gauge
}

// Engine orchestrates one detection cycle: discover pools for a pair, rank
// the divergent combinations, and gate them one attempt at a time.
type Engine struct {
	cfg      EngineConfig
	pools    PoolFinder
	market   MarketFeed
	gate     *Gate
	reporter Reporter
	logger   logger.LoggerInterface

	// generation increments on every Detect call. A detection run that
	// finishes after a newer run started is discarded as stale.
	generation atomic.Uint64

	tracer  trace.Tracer
	metrics *engineMetrics
}

// NewEngine creates a detection Engine. reporter may be nil.
func NewEngine(
	cfg EngineConfig,
	pools PoolFinder,
	market MarketFeed,
	gate *Gate,
	reporter Reporter,
	log logger.LoggerInterface,
) (*Engine, error) {
	if reporter == nil {
		reporter = nopReporter{}
	}

	e := &Engine{
		cfg:      cfg,
		pools:    pools,
		market:   market,
		gate:     gate,
		reporter: reporter,
		logger:   log,
		tracer:   otel.Tracer(tracerName),
	}

	if err := e.initMetrics(); err != nil {
		return nil, err
	}

	return e, nil
}

func (e *Engine) initMetrics() error {
	meter := otel.Meter(meterName)
	var err error

	e.metrics = &engineMetrics{}

	e.metrics.sessions, err = meter.Int64Counter(
		"arbitrage.sessions.total",
		metric.WithDescription("Total detection sessions started"),
	)
	if err != nil {
		return err
	}

	e.metrics.candidates, err = meter.Int64Counter(
		"arbitrage.candidates.total",
		metric.WithDescription("Total ranked opportunity candidates"),
	)
	if err != nil {
		return err
	}

	e.metrics.evaluations, err = meter.Int64Counter(
		"arbitrage.evaluations.total",
		metric.WithDescription("Total gated evaluations by verdict"),
	)
	if err != nil {
		return err
	}

	e.metrics.bestProfit, err = meter.Float64Gauge(
		"arbitrage.best_profit",
		metric.WithDescription("Top-ranked profit of the latest session, in borrow units"),
	)
	if err != nil {
		return err
	}

	return nil
}

// Detect discovers pools for the pair, ranks every divergent combination,
// and returns a fresh session carrying the attempt budget. A zero-candidate
// session is a valid result; callers learn the reason from NextAttempt.
func (e *Engine) Detect(ctx context.Context, borrow, target *asset.Asset, amount decimal.Decimal) (*domain.Session, error) {
	if !amount.IsPositive() {
		return nil, apperror.Validation(
			apperror.CodeInvalidTradeAmount,
			"trade amount must be positive",
		)
	}

	ctx, span := e.tracer.Start(ctx, "arbitrage.detect",
		trace.WithAttributes(
			attribute.String("pair.borrow", borrow.Symbol()),
			attribute.String("pair.target", target.Symbol()),
			attribute.String("trade.amount", amount.String()),
		),
	)
	defer span.End()

	gen := e.generation.Add(1)
	e.metrics.sessions.Add(ctx, 1)

	pools, err := e.pools.DiscoverPools(ctx, borrow, target)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "pool discovery failed")
		return nil, err
	}

	if e.generation.Load() != gen {
		span.SetStatus(codes.Error, "superseded by newer session")
		return nil, apperror.New(apperror.CodeStaleSession,
			apperror.WithContext(borrow.Symbol()+"/"+target.Symbol()),
		)
	}

	pair := borrow.Symbol() + "/" + target.Symbol()
	e.reporter.UpdatePools(pair, pools)

	opps := domain.Rank(pools, amount, e.cfg.FlashFeeRate)
	e.metrics.candidates.Add(ctx, int64(len(opps)))
	if len(opps) > 0 {
		best, _ := opps[0].Profit.Float64()
		e.metrics.bestProfit.Record(ctx, best)
	}

	e.logger.Info(ctx, "detection session ranked",
		"pair", pair,
		"pools", len(pools),
		"candidates", len(opps),
		"generation", gen,
	)
	span.SetAttributes(
		attribute.Int("pools.count", len(pools)),
		attribute.Int("candidates.count", len(opps)),
	)

	return domain.NewSession(borrow, target, amount, opps, len(pools), gen, e.cfg.MaxAttempts), nil
}

// Evaluate consumes one attempt from the session and gates the next ranked
// opportunity against the current market snapshot. Budget exhaustion comes
// back as an error without any network traffic.
func (e *Engine) Evaluate(ctx context.Context, s *domain.Session) (*Evaluation, error) {
	opp, err := s.NextAttempt()
	if err != nil {
		return nil, err
	}

	ctx, span := e.tracer.Start(ctx, "arbitrage.evaluate",
		trace.WithAttributes(attribute.Int("attempt", s.Attempts())),
	)
	defer span.End()

	snap := e.market.Latest()
	e.reporter.UpdateMarket(snap)

	ev := e.gate.Evaluate(opp, snap, s.Attempts())
	ev.Pair = s.Borrow.Symbol() + "/" + s.Target.Symbol()

	e.metrics.evaluations.Add(ctx, 1,
		metric.WithAttributes(attribute.String("verdict", string(ev.Verdict))),
	)
	span.SetAttributes(
		attribute.String("verdict", string(ev.Verdict)),
		attribute.String("profit.usd", ev.ProfitUSD.String()),
	)

	e.logger.Info(ctx, "opportunity evaluated",
		"attempt", ev.Attempt,
		"verdict", string(ev.Verdict),
		"profit_usd", ev.ProfitUSD.String(),
		"gas_cost_usd", ev.GasCostUSD.String(),
		"sell_pool", ev.Opportunity.SellPool.Key(),
		"buy_pool", ev.Opportunity.BuyPool.Key(),
	)

	e.reporter.ReportEvaluation(&ev)

	return &ev, nil
}

// Run performs a full cycle for one pair: detect, then evaluate ranked
// candidates until one is actionable or the attempt budget drains. The
// terminal budget errors are returned as-is so callers can treat them as
// quiet outcomes rather than faults.
func (e *Engine) Run(ctx context.Context, borrow, target *asset.Asset, amount decimal.Decimal) (*Evaluation, error) {
	session, err := e.Detect(ctx, borrow, target, amount)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		ev, err := e.Evaluate(ctx, session)
		if err != nil {
			return nil, err
		}
		if ev.Verdict.Actionable() {
			return ev, nil
		}

		e.logger.Debug(ctx, "candidate rejected, trying next",
			"attempt", ev.Attempt,
			"remaining", session.Remaining(),
		)
	}
}
