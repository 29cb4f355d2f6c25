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

const coingeckoSimplePriceEndpoint = "/api/v3/simple/price"

// CoinGeckoSource fetches the BNB/USD rate from the CoinGecko simple price API.
// It serves as the fallback when Binance is unreachable.
type CoinGeckoSource struct {
	client  httpclient.Client
	limiter *ratelimit.Limiter
	logger  logger.LoggerInterface
}

// NewCoinGeckoSource creates a CoinGecko-backed rate source.
func NewCoinGeckoSource(baseURL string, timeout time.Duration, log logger.LoggerInterface) (*CoinGeckoSource, error) {
	client, err := httpclient.NewInstrumentedClient(
		httpclient.WithProviderName("coingecko"),
		httpclient.WithBaseURL(baseURL),
		httpclient.WithRequestTimeout(timeout),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build coingecko client: %w", err)
	}

	return &CoinGeckoSource{
		client: client,
		// Public CoinGecko allows roughly 10-30 calls per minute.
		limiter: ratelimit.New(10),
		logger:  log,
	}, nil
}

// Name identifies the provider in logs and snapshots.
func (s *CoinGeckoSource) Name() string {
	return "coingecko"
}

// simplePriceResponse is the CoinGecko /simple/price payload.
type simplePriceResponse struct {
	Binancecoin struct {
		USD decimal.Decimal `json:"usd"`
	} `json:"binancecoin"`
}

// BNBUSD retrieves the current binancecoin/usd price.
func (s *CoinGeckoSource) BNBUSD(ctx context.Context) (decimal.Decimal, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return decimal.Decimal{}, err
	}

	var out simplePriceResponse
	resp, err := s.client.NewRequest().
		SetQueryParam("ids", "binancecoin").
		SetQueryParam("vs_currencies", "usd").
		SetResult(&out).
		Get(ctx, coingeckoSimplePriceEndpoint)
	if err != nil {
		return decimal.Decimal{}, apperror.External(apperror.CodePriceFetchFailed, "coingecko simple price", err)
	}
	if resp.IsError() {
		return decimal.Decimal{}, apperror.New(apperror.CodePriceFetchFailed,
			apperror.WithContext(fmt.Sprintf("coingecko returned %d", resp.StatusCode)))
	}

	rate := out.Binancecoin.USD
	if !rate.IsPositive() {
		return decimal.Decimal{}, apperror.New(apperror.CodeInvalidPriceData,
			apperror.WithContext("missing or non-positive binancecoin price"))
	}

	s.logger.Debug(ctx, "coingecko rate fetched", "price", rate.String())

	return rate, nil
}
