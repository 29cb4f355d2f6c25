package app_test

import (
	"context"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/business/arbitrage/app"
	"github.com/avilla-f/flasharb/business/arbitrage/domain"
	discoveryDomain "github.com/avilla-f/flasharb/business/discovery/domain"
	marketDomain "github.com/avilla-f/flasharb/business/market/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/asset"
)

// mockLogger implements logger.LoggerInterface for testing.
type mockLogger struct{}

func (m *mockLogger) Debug(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Info(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Warn(ctx context.Context, msg string, args ...any)               {}
func (m *mockLogger) Error(ctx context.Context, msg string, args ...any)              {}
func (m *mockLogger) Debugc(ctx context.Context, caller int, msg string, args ...any) {}
func (m *mockLogger) Infoc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Warnc(ctx context.Context, caller int, msg string, args ...any)  {}
func (m *mockLogger) Errorc(ctx context.Context, caller int, msg string, args ...any) {}

// mockPoolFinder returns a canned pool set or error. onDiscover, when set,
// runs inside the discovery call, before it returns.
type mockPoolFinder struct {
	pools      []discoveryDomain.Pool
	err        error
	calls      int
	onDiscover func()
}

func (m *mockPoolFinder) DiscoverPools(_ context.Context, _, _ *asset.Asset) ([]discoveryDomain.Pool, error) {
	m.calls++
	if m.onDiscover != nil {
		m.onDiscover()
	}
	return m.pools, m.err
}

// mockFeed returns a fixed snapshot.
type mockFeed struct {
	snap marketDomain.Snapshot
}

func (m *mockFeed) Latest() marketDomain.Snapshot { return m.snap }

// recordingReporter captures everything the engine reports.
type recordingReporter struct {
	evaluations []app.Evaluation
	poolUpdates int
}

func (r *recordingReporter) Start(context.Context) error { return nil }
func (r *recordingReporter) ReportEvaluation(ev *app.Evaluation) {
	r.evaluations = append(r.evaluations, *ev)
}
func (r *recordingReporter) UpdateMarket(marketDomain.Snapshot) {}
func (r *recordingReporter) UpdatePools(string, []discoveryDomain.Pool) {
	r.poolUpdates++
}
func (r *recordingReporter) Stop() error { return nil }

func enginePool(venue string, feeTier uint32, addr byte, rate string) discoveryDomain.Pool {
	var a common.Address
	a[19] = addr
	return discoveryDomain.Pool{
		Venue:   venue,
		Address: a,
		FeeTier: feeTier,
		Rate:    decimal.RequireFromString(rate),
	}
}

func newTestEngine(t *testing.T, finder *mockPoolFinder, reporter app.Reporter) *app.Engine {
	t.Helper()
	cfg := app.EngineConfig{
		FlashFeeRate: domain.DefaultFlashFeeRate,
		MaxAttempts:  3,
	}
	gate := app.NewGate(decimal.RequireFromString("1.00"), 650_000)
	feed := &mockFeed{snap: testSnapshot()}

	engine, err := app.NewEngine(cfg, finder, feed, gate, reporter, &mockLogger{})
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	return engine
}

func TestEngine_Detect_RejectsBadAmount(t *testing.T) {
	finder := &mockPoolFinder{}
	engine := newTestEngine(t, finder, nil)

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		_, err := engine.Detect(context.Background(), asset.WBNB, asset.USDT, amount)
		if apperror.GetCode(err) != apperror.CodeInvalidTradeAmount {
			t.Errorf("amount %s: code = %s, want %s", amount, apperror.GetCode(err), apperror.CodeInvalidTradeAmount)
		}
	}
	if finder.calls != 0 {
		t.Errorf("discovery called %d times for invalid amounts, want 0", finder.calls)
	}
}

func TestEngine_Run_FindsExecutable(t *testing.T) {
	finder := &mockPoolFinder{pools: []discoveryDomain.Pool{
		enginePool("pancakeswap-v3", 500, 0x01, "1.00"),
		enginePool("uniswap-v3", 500, 0x02, "1.02"),
	}}
	reporter := &recordingReporter{}
	engine := newTestEngine(t, finder, reporter)

	ev, err := engine.Run(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if ev.Verdict != domain.VerdictExecutable {
		t.Fatalf("Verdict = %s, want %s", ev.Verdict, domain.VerdictExecutable)
	}
	// Sell where the rate is high, buy back where it is low.
	if ev.Opportunity.SellPool.Venue != "uniswap-v3" || ev.Opportunity.BuyPool.Venue != "pancakeswap-v3" {
		t.Errorf("pair = sell %s / buy %s, want uniswap-v3/pancakeswap-v3",
			ev.Opportunity.SellPool.Venue, ev.Opportunity.BuyPool.Venue)
	}
	// 100 * 1.02 * 0.9995 / 1.00 * 0.9995 - 100 - 0.09
	wantProfit := decimal.NewFromInt(100).
		Mul(decimal.RequireFromString("1.02")).
		Mul(decimal.RequireFromString("0.9995")).
		Mul(decimal.RequireFromString("0.9995")).
		Sub(decimal.RequireFromString("100.09"))
	if !ev.Opportunity.Profit.Equal(wantProfit) {
		t.Errorf("Profit = %s, want %s", ev.Opportunity.Profit, wantProfit)
	}

	if len(reporter.evaluations) != 1 {
		t.Errorf("reported %d evaluations, want 1", len(reporter.evaluations))
	}
	if reporter.poolUpdates != 1 {
		t.Errorf("pool updates = %d, want 1", reporter.poolUpdates)
	}
}

func TestEngine_Run_NoPools(t *testing.T) {
	engine := newTestEngine(t, &mockPoolFinder{}, nil)

	_, err := engine.Run(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(100))
	if apperror.GetCode(err) != apperror.CodeNoLiquidityRoute {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeNoLiquidityRoute)
	}
}

func TestEngine_Run_FlatRates(t *testing.T) {
	finder := &mockPoolFinder{pools: []discoveryDomain.Pool{
		enginePool("pancakeswap-v3", 500, 0x01, "1.00"),
		enginePool("uniswap-v3", 500, 0x02, "1.00"),
	}}
	engine := newTestEngine(t, finder, nil)

	_, err := engine.Run(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(100))
	if apperror.GetCode(err) != apperror.CodeNoProfitableRoute {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeNoProfitableRoute)
	}
}

func TestEngine_Run_BudgetDrainsOnDeepLosses(t *testing.T) {
	// Four pools close enough that every combination loses more than the
	// tolerance at this trade size, so the engine burns all three attempts.
	finder := &mockPoolFinder{pools: []discoveryDomain.Pool{
		enginePool("pancakeswap-v3", 10000, 0x01, "1.000"),
		enginePool("pancakeswap-v3", 10000, 0x02, "1.001"),
		enginePool("uniswap-v3", 10000, 0x03, "1.002"),
		enginePool("uniswap-v3", 10000, 0x04, "1.003"),
	}}
	reporter := &recordingReporter{}
	engine := newTestEngine(t, finder, reporter)

	_, err := engine.Run(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(10_000))
	if apperror.GetCode(err) != apperror.CodeAttemptBudgetDrained {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeAttemptBudgetDrained)
	}
	if len(reporter.evaluations) != 3 {
		t.Fatalf("evaluated %d candidates, want 3", len(reporter.evaluations))
	}
	for i, ev := range reporter.evaluations {
		if ev.Verdict != domain.VerdictRejected {
			t.Errorf("evaluation %d verdict = %s, want %s", i, ev.Verdict, domain.VerdictRejected)
		}
	}
}

func TestEngine_Evaluate_NoNetworkAfterBudget(t *testing.T) {
	finder := &mockPoolFinder{pools: []discoveryDomain.Pool{
		enginePool("pancakeswap-v3", 10000, 0x01, "1.000"),
		enginePool("pancakeswap-v3", 10000, 0x02, "1.001"),
		enginePool("uniswap-v3", 10000, 0x03, "1.002"),
		enginePool("uniswap-v3", 10000, 0x04, "1.003"),
	}}
	engine := newTestEngine(t, finder, nil)

	session, err := engine.Detect(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(10_000))
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := engine.Evaluate(context.Background(), session); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}

	callsBefore := finder.calls
	_, err = engine.Evaluate(context.Background(), session)
	if apperror.GetCode(err) != apperror.CodeAttemptBudgetDrained {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeAttemptBudgetDrained)
	}
	if finder.calls != callsBefore {
		t.Error("drained session must not touch discovery again")
	}
}

func TestEngine_Detect_SupersededSessionDiscarded(t *testing.T) {
	finder := &mockPoolFinder{pools: []discoveryDomain.Pool{
		enginePool("pancakeswap-v3", 500, 0x01, "1.00"),
		enginePool("uniswap-v3", 500, 0x02, "1.02"),
	}}
	engine := newTestEngine(t, finder, nil)

	// A newer detection starts while the first one is still in flight. The
	// first call must come back stale instead of overwriting the newer one.
	fired := false
	finder.onDiscover = func() {
		if fired {
			return
		}
		fired = true
		if _, err := engine.Detect(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(50)); err != nil {
			t.Errorf("inner Detect: %v", err)
		}
	}

	_, err := engine.Detect(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(100))
	if apperror.GetCode(err) != apperror.CodeStaleSession {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeStaleSession)
	}
}

func TestEngine_Detect_PropagatesDiscoveryError(t *testing.T) {
	finder := &mockPoolFinder{
		err: apperror.External(apperror.CodeChainConnectionFailed, "rpc unreachable", nil),
	}
	engine := newTestEngine(t, finder, nil)

	_, err := engine.Detect(context.Background(), asset.WBNB, asset.USDT, decimal.NewFromInt(100))
	if apperror.GetCode(err) != apperror.CodeChainConnectionFailed {
		t.Fatalf("code = %s, want %s", apperror.GetCode(err), apperror.CodeChainConnectionFailed)
	}
}
