package app_test

import (
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/business/market/app"
	"github.com/avilla-f/flasharb/business/market/domain"
	"github.com/avilla-f/flasharb/internal/apperror"
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

type mockGasSource struct {
	wei *big.Int
	err error
}

func (m *mockGasSource) GasPriceWei(context.Context) (*big.Int, error) {
	return m.wei, m.err
}

type mockRateSource struct {
	name string
	rate decimal.Decimal
	err  error
}

func (m *mockRateSource) Name() string { return m.name }
func (m *mockRateSource) BNBUSD(context.Context) (decimal.Decimal, error) {
	return m.rate, m.err
}

func feedConfig() app.FeedConfig {
	return app.FeedConfig{
		RefreshInterval: time.Minute,
		DefaultGasWei:   big.NewInt(3_000_000_000),
		DefaultBNBUSD:   decimal.NewFromInt(600),
	}
}

func TestNewFeed_RejectsNonPositiveInterval(t *testing.T) {
	cfg := feedConfig()
	cfg.RefreshInterval = 0

	_, err := app.NewFeed(cfg, &mockGasSource{}, &mockRateSource{}, &mockRateSource{}, &mockLogger{})
	if err == nil {
		t.Fatal("expected error for zero refresh interval")
	}
	if got := apperror.GetCode(err); got != apperror.CodeInvalidInput {
		t.Fatalf("got code %s, want %s", got, apperror.CodeInvalidInput)
	}
}

func TestFeed_Refresh_PrimarySources(t *testing.T) {
	gas := &mockGasSource{wei: big.NewInt(5_000_000_000)}
	primary := &mockRateSource{name: "binance", rate: decimal.RequireFromString("612.50")}
	fallback := &mockRateSource{name: "coingecko", err: errors.New("unused")}

	feed, err := app.NewFeed(feedConfig(), gas, primary, fallback, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := feed.Refresh(context.Background())

	if snap.GasSource != domain.SourcePrimary {
		t.Errorf("expected primary gas source, got %s", snap.GasSource)
	}
	if snap.RateSource != domain.SourcePrimary {
		t.Errorf("expected primary rate source, got %s", snap.RateSource)
	}
	if !snap.BNBUSD.Equal(decimal.RequireFromString("612.50")) {
		t.Errorf("unexpected rate %s", snap.BNBUSD.String())
	}
	if snap.Degraded() {
		t.Error("snapshot should not be degraded")
	}
}

func TestFeed_Refresh_FallbackChain(t *testing.T) {
	tests := []struct {
		name       string
		primary    *mockRateSource
		fallback   *mockRateSource
		wantRate   string
		wantSource domain.Source
	}{
		{
			name:       "primary down, fallback serves",
			primary:    &mockRateSource{name: "binance", err: errors.New("503")},
			fallback:   &mockRateSource{name: "coingecko", rate: decimal.RequireFromString("598.20")},
			wantRate:   "598.20",
			wantSource: domain.SourceFallback,
		},
		{
			name:       "both down, default serves",
			primary:    &mockRateSource{name: "binance", err: errors.New("503")},
			fallback:   &mockRateSource{name: "coingecko", err: errors.New("timeout")},
			wantRate:   "600",
			wantSource: domain.SourceDefault,
		},
		{
			name:       "primary returns junk, fallback serves",
			primary:    &mockRateSource{name: "binance", rate: decimal.Zero},
			fallback:   &mockRateSource{name: "coingecko", rate: decimal.RequireFromString("601")},
			wantRate:   "601",
			wantSource: domain.SourceFallback,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gas := &mockGasSource{wei: big.NewInt(3_000_000_000)}
			feed, err := app.NewFeed(feedConfig(), gas, tt.primary, tt.fallback, &mockLogger{})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			snap := feed.Refresh(context.Background())

			if snap.RateSource != tt.wantSource {
				t.Errorf("expected source %s, got %s", tt.wantSource, snap.RateSource)
			}
			if !snap.BNBUSD.Equal(decimal.RequireFromString(tt.wantRate)) {
				t.Errorf("expected rate %s, got %s", tt.wantRate, snap.BNBUSD.String())
			}
		})
	}
}

func TestFeed_Refresh_GasDefault(t *testing.T) {
	gas := &mockGasSource{err: errors.New("rpc down")}
	primary := &mockRateSource{name: "binance", rate: decimal.NewFromInt(610)}
	fallback := &mockRateSource{name: "coingecko", rate: decimal.NewFromInt(609)}

	feed, err := app.NewFeed(feedConfig(), gas, primary, fallback, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := feed.Refresh(context.Background())

	if snap.GasSource != domain.SourceDefault {
		t.Errorf("expected default gas source, got %s", snap.GasSource)
	}
	if snap.GasPriceWei.Cmp(big.NewInt(3_000_000_000)) != 0 {
		t.Errorf("expected default gas price, got %s", snap.GasPriceWei.String())
	}
	if !snap.Degraded() {
		t.Error("default-sourced snapshot should report degraded")
	}
}

func TestFeed_Latest_BeforeFirstRefresh(t *testing.T) {
	feed, err := app.NewFeed(feedConfig(),
		&mockGasSource{wei: big.NewInt(1)},
		&mockRateSource{name: "binance"},
		&mockRateSource{name: "coingecko"},
		&mockLogger{},
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	snap := feed.Latest()
	if snap.GasSource != domain.SourceDefault || snap.RateSource != domain.SourceDefault {
		t.Error("expected all-default snapshot before first refresh")
	}
}
