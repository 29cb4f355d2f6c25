// Package main is the entry point for the BSC flash-loan arbitrage scanner.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"math/big"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	arbitrageApp "github.com/avilla-f/flasharb/business/arbitrage/app"
	arbitrageInfra "github.com/avilla-f/flasharb/business/arbitrage/infra"
	discoveryApp "github.com/avilla-f/flasharb/business/discovery/app"
	"github.com/avilla-f/flasharb/business/discovery/infra/univ3"
	marketApp "github.com/avilla-f/flasharb/business/market/app"
	"github.com/avilla-f/flasharb/business/market/infra/bnbgas"
	"github.com/avilla-f/flasharb/business/market/infra/pricefeed"
	"github.com/avilla-f/flasharb/internal/apm"
	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/asset"
	"github.com/avilla-f/flasharb/internal/config"
	"github.com/avilla-f/flasharb/internal/health"
	"github.com/avilla-f/flasharb/internal/logger"
	"github.com/avilla-f/flasharb/internal/metrics"
	"github.com/avilla-f/flasharb/pkg/ui"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type scanOptions struct {
	borrow   string
	target   string
	amount   string
	interval time.Duration
}

func main() {
	// Load .env file if present (ignore error if not found)
	_ = godotenv.Load()

	// Parse flags
	configPath := flag.String("config", "", "Path to configuration file")
	cliMode := flag.Bool("cli", false, "Run in CLI mode with logs (no TUI)")
	showVersion := flag.Bool("version", false, "Show version information")
	borrowFlag := flag.String("borrow", "WBNB", "Symbol of the asset to flash-borrow")
	targetFlag := flag.String("target", "USDT", "Symbol of the asset to arbitrage against")
	amountFlag := flag.String("amount", "100", "Borrow amount in whole units")
	intervalFlag := flag.Duration("interval", 10*time.Second, "Delay between detection sessions")
	flag.Parse()

	if *showVersion {
		fmt.Printf("flasharb %s (commit: %s, built: %s)\n", version, commit, buildDate)
		os.Exit(0)
	}

	// TUI is the default, CLI is for debugging
	tuiMode := !*cliMode

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		if !tuiMode {
			fmt.Fprintf(os.Stderr, "received shutdown signal: %v\n", sig)
		}
		cancel()
	}()

	opts := scanOptions{
		borrow:   *borrowFlag,
		target:   *targetFlag,
		amount:   *amountFlag,
		interval: *intervalFlag,
	}

	if err := run(ctx, *configPath, tuiMode, opts); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, configPath string, tuiMode bool, opts scanOptions) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = tuiMode

	// Setup logger (only log to stderr in CLI mode)
	logLevel := logger.LevelInfo
	switch cfg.App.LogLevel {
	case "debug":
		logLevel = logger.LevelDebug
	case "warn":
		logLevel = logger.LevelWarn
	case "error":
		logLevel = logger.LevelError
	}

	var log *logger.Logger
	if tuiMode {
		// In TUI mode, suppress logs (discard output)
		log = logger.New(io.Discard, logLevel, cfg.App.Name, nil)
	} else {
		log = logger.New(os.Stderr, logLevel, cfg.App.Name, nil)
		log.Info(ctx, "starting flash-loan arbitrage scanner",
			"version", version,
			"environment", cfg.App.Environment,
		)
	}

	// Initialize observability if enabled
	var traceProvider apm.TraceProvider
	if cfg.Telemetry.Enabled {
		if cfg.Telemetry.ServiceName != "" {
			os.Setenv("OTEL_SERVICE_NAME", cfg.Telemetry.ServiceName)
		}
		if cfg.Telemetry.OTLPEndpoint != "" {
			os.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Telemetry.OTLPEndpoint)
		}

		traceProvider = apm.NewTraceProvider(log, apm.WithProvider(apm.ZipkinProvider, log))
		log.Info(ctx, "tracing initialized", "provider", "zipkin", "endpoint", cfg.Telemetry.OTLPEndpoint)

		metrics.NewMetricProvider(
			metrics.WithServiceName(cfg.Telemetry.ServiceName),
			metrics.WithProviderConfig(metrics.ProviderCfg{
				Provider: metrics.PrometheusProvider,
			}),
		)

		port := cfg.Telemetry.PrometheusPort
		if port == 0 {
			port = 9090
		}
		go metrics.ServePrometheusMetrics(metrics.WithPort(strconv.Itoa(port)))
		log.Info(ctx, "prometheus metrics server started", "port", port)
	}
	defer func() {
		if traceProvider != nil {
			traceProvider.Stop()
		}
	}()

	// Start health check server
	healthServer := health.NewServer(8081, version)
	if err := healthServer.Start(); err != nil {
		log.Warn(ctx, "failed to start health server", "error", err)
	} else {
		log.Info(ctx, "health server started", "port", 8081)
	}
	defer healthServer.Stop(ctx)

	// Resolve the trading pair before dialing anything.
	registry := asset.DefaultRegistry()
	borrow, ok := registry.GetBySymbolAndChain(strings.ToUpper(opts.borrow), cfg.Chain.ChainID)
	if !ok {
		return fmt.Errorf("unsupported borrow asset %q on chain %d", opts.borrow, cfg.Chain.ChainID)
	}
	target, ok := registry.GetBySymbolAndChain(strings.ToUpper(opts.target), cfg.Chain.ChainID)
	if !ok {
		return fmt.Errorf("unsupported target asset %q on chain %d", opts.target, cfg.Chain.ChainID)
	}
	amount, err := decimal.NewFromString(opts.amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", opts.amount, err)
	}

	// One shared RPC client for pool reads and the gas oracle.
	dialCtx, dialCancel := context.WithTimeout(ctx, cfg.Chain.RequestTimeout)
	defer dialCancel()
	client, err := ethclient.DialContext(dialCtx, cfg.Chain.HTTPURL)
	if err != nil {
		return apperror.External(apperror.CodeChainConnectionFailed, cfg.Chain.HTTPURL, err)
	}
	defer client.Close()

	// Discovery context
	reader, err := univ3.NewReader(client, cfg.Discovery.PoolCacheTTL, log)
	if err != nil {
		return fmt.Errorf("failed to create pool reader: %w", err)
	}
	defer reader.Close()

	venues := make([]discoveryApp.Venue, 0, len(cfg.Venues))
	for _, v := range cfg.Venues {
		venues = append(venues, discoveryApp.Venue{
			Name:    v.Name,
			Factory: v.FactoryAddressHex(),
		})
	}
	discovery := discoveryApp.NewDiscoveryService(reader, venues, cfg.Discovery.FeeTiers, cfg.Discovery.MaxInFlight, log)

	// Market context
	oracle, err := bnbgas.NewOracle(bnbgas.DefaultOracleConfig(cfg.Chain.HTTPURL), log)
	if err != nil {
		return fmt.Errorf("failed to create gas oracle: %w", err)
	}
	oracle.WithClient(client)
	defer oracle.Close()

	binance, err := pricefeed.NewBinanceSource(cfg.Market.PrimaryURL, cfg.Market.RequestTimeout, log)
	if err != nil {
		return fmt.Errorf("failed to create primary rate source: %w", err)
	}
	coingecko, err := pricefeed.NewCoinGeckoSource(cfg.Market.FallbackURL, cfg.Market.RequestTimeout, log)
	if err != nil {
		return fmt.Errorf("failed to create fallback rate source: %w", err)
	}

	feed, err := marketApp.NewFeed(marketApp.FeedConfig{
		RefreshInterval: cfg.Market.RefreshInterval,
		DefaultGasWei:   defaultGasWei(cfg.Market.DefaultGasGwei),
		DefaultBNBUSD:   cfg.Market.DefaultBNBUSDDecimal(),
	}, oracle, binance, coingecko, log)
	if err != nil {
		return fmt.Errorf("failed to create market feed: %w", err)
	}
	go feed.Start(ctx)

	healthServer.RegisterCheck("rpc", func(ctx context.Context) (bool, string) {
		if _, err := client.ChainID(ctx); err != nil {
			return false, err.Error()
		}
		return true, "connected"
	})
	healthServer.RegisterCheck("market", func(ctx context.Context) (bool, string) {
		snap := feed.Latest()
		if snap.Degraded() {
			return false, fmt.Sprintf("degraded: gas=%s rate=%s", snap.GasSource, snap.RateSource)
		}
		return true, "fresh"
	})

	// Arbitrage context
	var reporter arbitrageApp.Reporter
	if tuiMode {
		reporter = arbitrageInfra.NewTUIReporter()
	} else {
		reporter = arbitrageInfra.NewConsoleReporter()
	}

	gate := arbitrageApp.NewGate(cfg.Engine.AcceptableLossUSDDecimal(), cfg.Engine.GasUnits)
	engine, err := arbitrageApp.NewEngine(arbitrageApp.EngineConfig{
		FlashFeeRate: cfg.Engine.FlashFeeRateDecimal(),
		MaxAttempts:  cfg.Engine.MaxAttempts,
	}, discovery, feed, gate, reporter, log)
	if err != nil {
		return fmt.Errorf("failed to create engine: %w", err)
	}

	if err := reporter.Start(ctx); err != nil {
		return fmt.Errorf("failed to start reporter: %w", err)
	}
	defer reporter.Stop()

	if tuiMode {
		return runTUI(ctx, engine, borrow, target, amount, opts.interval, log)
	}
	return runCLI(ctx, engine, borrow, target, amount, opts.interval, log)
}

func defaultGasWei(gwei float64) *big.Int {
	wei := gwei * 1e9
	return big.NewInt(int64(wei))
}

func runCLI(
	ctx context.Context,
	engine *arbitrageApp.Engine,
	borrow, target *asset.Asset,
	amount decimal.Decimal,
	interval time.Duration,
	log *logger.Logger,
) error {
	log.Info(ctx, "beginning detection loop",
		"borrow", borrow.Symbol(),
		"target", target.Symbol(),
		"amount", amount.String(),
		"interval", interval.String(),
	)

	scanLoop(ctx, engine, borrow, target, amount, interval, log)

	log.Info(ctx, "shutting down")
	return nil
}

func runTUI(
	ctx context.Context,
	engine *arbitrageApp.Engine,
	borrow, target *asset.Asset,
	amount decimal.Decimal,
	interval time.Duration,
	log *logger.Logger,
) error {
	// Create and start the TUI program immediately (shows welcome screen).
	p := tea.NewProgram(ui.New(), tea.WithAltScreen())
	ui.Program = p

	// Run the detection loop in the background.
	scanCtx, scanCancel := context.WithCancel(ctx)
	defer scanCancel()
	go func() {
		// Give the welcome screen its moment before first network traffic.
		select {
		case <-time.After(ui.WelcomeDuration):
		case <-scanCtx.Done():
			return
		}
		scanLoop(scanCtx, engine, borrow, target, amount, interval, log)
	}()

	// Quit the TUI when the outer context is cancelled.
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

// scanLoop runs detection sessions until the context is cancelled. Budget
// and route outcomes are expected states, not faults; everything else is
// logged and retried next tick.
func scanLoop(
	ctx context.Context,
	engine *arbitrageApp.Engine,
	borrow, target *asset.Asset,
	amount decimal.Decimal,
	interval time.Duration,
	log *logger.Logger,
) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		runSession(ctx, engine, borrow, target, amount, log)

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func runSession(
	ctx context.Context,
	engine *arbitrageApp.Engine,
	borrow, target *asset.Asset,
	amount decimal.Decimal,
	log *logger.Logger,
) {
	ev, err := engine.Run(ctx, borrow, target, amount)
	if err != nil {
		switch apperror.GetCode(err) {
		case apperror.CodeNoLiquidityRoute,
			apperror.CodeNoProfitableRoute,
			apperror.CodeAttemptBudgetDrained,
			apperror.CodeStaleSession:
			log.Debug(ctx, "session ended without actionable route", "reason", string(apperror.GetCode(err)))
		default:
			if ctx.Err() == nil {
				log.Error(ctx, "detection session failed", "error", err)
				ui.Send(ui.ErrorMsg{Error: err})
			}
		}
		return
	}

	req, err := ev.ExecutionRequest(borrow)
	if err != nil {
		log.Error(ctx, "failed to build execution request", "error", err)
		return
	}

	// Detection only: the request is logged for a downstream executor.
	log.Info(ctx, "actionable route found",
		"verdict", string(req.Verdict),
		"sell_pool", req.SellPool.Hex(),
		"buy_pool", req.BuyPool.Hex(),
		"amount_raw", req.AmountRaw.String(),
		"profit_usd", ev.ProfitUSD.String(),
	)
}
