// Package pricefeed implements the RateSource port against public ticker APIs.
package pricefeed

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/avilla-f/flasharb/internal/apperror"
	"github.com/avilla-f/flasharb/internal/httpclient"
	"github.com/avilla-f/flasharb/internal/logger"
	"github.com/avilla-f/flasharb/internal/ratelimit"
)

const (
	binanceTickerEndpoint = "/api/v3/ticker/price"
	binanceSymbol         = "BNBUSDT"
)

// BinanceSource fetches the BNB/USD rate from the Binance spot ticker.
// USDT is taken as the USD proxy.
type BinanceSource struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
}

// NewBinanceSource creates a Binance-backed rate source.
func NewBinanceSource(baseURL string, timeout time.Duration, log logger.LoggerInterface) (*BinanceSource, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("binance"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build binance client: %w", err)
	}

	return &BinanceSource{
		client: client,
		// Spot ticker weight is tiny; this is well inside public limits.
		limiter: ratelimit.New(60),
		logger:  log,
	}, nil
}

// Name identifies the provider in logs and snapshots.
func (s *BinanceSource) Name() string {
	return "binance"
}

// tickerResponse is the Binance /ticker/price payload.
type tickerResponse struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// BNBUSD retrieves the current BNBUSDT spot price.
func (s *BinanceSource) BNBUSD(ctx context.Context) (decimal.Decimal, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return decimal.Decimal{}, err
	}

	var out tickerResponse
	resp, err := s.client.NewRequest().
		SetQueryParam("symbol", binanceSymbol).
		SetResult(&out).
		Get(ctx, binanceTickerEndpoint)
	if err != nil {
		return decimal.Decimal{}, apperror.External(apperror.CodePriceFetchFailed, "binance ticker", err)
	}
	if resp.IsError() {
		return decimal.Decimal{}, apperror.New(apperror.CodePriceFetchFailed,
			apperror.WithContext(fmt.Sprintf("binance ticker returned %d", resp.StatusCode)))
	}

	rate, err := decimal.NewFromString(out.Price)
	if err != nil {
		return decimal.Decimal{}, apperror.New(apperror.CodeInvalidPriceData,
			apperror.WithCause(err),
			apperror.WithContext(fmt.Sprintf("unparseable price %q", out.Price)))
	}
	if !rate.IsPositive() {
		return decimal.Decimal{}, apperror.New(apperror.CodeInvalidPriceData,
			apperror.WithContext("non-positive price"))
	}

	s.logger.Debug(ctx, "binance rate fetched", "symbol", out.Symbol, "price", out.Price)

	return rate, nil
}
