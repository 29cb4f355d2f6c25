package pricefeed_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/business/market/infra/pricefeed"
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

func TestBinanceSource_BNBUSD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/ticker/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("symbol"); got != "BNBUSDT" {
			t.Errorf("unexpected symbol %s", got)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"BNBUSDT","price":"612.34000000"}`))
	}))
	defer server.Close()

	src, err := pricefeed.NewBinanceSource(server.URL, 2*time.Second, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rate, err := src.BNBUSD(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("612.34")) {
		t.Errorf("expected 612.34, got %s", rate.String())
	}
}

func TestBinanceSource_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	src, err := pricefeed.NewBinanceSource(server.URL, 2*time.Second, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := src.BNBUSD(context.Background()); err == nil {
		t.Error("expected error for 429 response")
	}
}

func TestBinanceSource_BadPayload(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"symbol":"BNBUSDT","price":"not-a-number"}`))
	}))
	defer server.Close()

	src, err := pricefeed.NewBinanceSource(server.URL, 2*time.Second, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := src.BNBUSD(context.Background()); err == nil {
		t.Error("expected error for unparseable price")
	}
}

func TestCoinGeckoSource_BNBUSD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/simple/price" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("ids") != "binancecoin" || q.Get("vs_currencies") != "usd" {
			t.Errorf("unexpected query %s", r.URL.RawQuery)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"binancecoin":{"usd":598.27}}`))
	}))
	defer server.Close()

	src, err := pricefeed.NewCoinGeckoSource(server.URL, 2*time.Second, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	rate, err := src.BNBUSD(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !rate.Equal(decimal.RequireFromString("598.27")) {
		t.Errorf("expected 598.27, got %s", rate.String())
	}
}

func TestCoinGeckoSource_MissingCoin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	src, err := pricefeed.NewCoinGeckoSource(server.URL, 2*time.Second, &mockLogger{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := src.BNBUSD(context.Background()); err == nil {
		t.Error("expected error for empty payload")
	}
}
