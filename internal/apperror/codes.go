package apperror

// Code represents a unique error code for the application
type Code string

// General error codes
const (
	// General validation
	CodeRequiredField Code = "REQUIRED_FIELD"
	CodeInvalidInput  Code = "INVALID_INPUT"
	CodeInvalidFormat Code = "INVALID_FORMAT"
	CodeInvalidState  Code = "INVALID_STATE"
	CodeNotFound      Code = "NOT_FOUND"

	// Configuration
	CodeConfigurationError Code = "CONFIGURATION_ERROR"

	// External service errors
	CodeExternalServiceError Code = "EXTERNAL_SERVICE_ERROR"
	CodeServiceTimeout       Code = "SERVICE_TIMEOUT"
	CodeServiceUnavailable   Code = "SERVICE_UNAVAILABLE"
	CodeRateLimitExceeded    Code = "RATE_LIMIT_EXCEEDED"

	// System errors
	CodeInternalError Code = "INTERNAL_ERROR"
	CodeUnknownError  Code = "UNKNOWN_ERROR"
)

// Flash-loan arbitrage error codes
const (
	// Chain/RPC errors
	CodeChainConnectionFailed Code = "CHAIN_CONNECTION_FAILED"
	CodeChainRPCError         Code = "CHAIN_RPC_ERROR"
	CodeContractCallFailed    Code = "CONTRACT_CALL_FAILED"
	CodeGasPriceFetchFailed   Code = "GAS_PRICE_FETCH_FAILED"

	// Pool discovery errors
	CodePoolNotFound        Code = "POOL_NOT_FOUND"
	CodePoolStateReadFailed Code = "POOL_STATE_READ_FAILED"
	CodeInvalidPoolState    Code = "INVALID_POOL_STATE"
	CodeInvalidSqrtPrice    Code = "INVALID_SQRT_PRICE"
	CodeUnsupportedAsset    Code = "UNSUPPORTED_ASSET"

	// Market data errors
	CodeMarketFeedUnavailable Code = "MARKET_FEED_UNAVAILABLE"
	CodePriceFetchFailed      Code = "PRICE_FETCH_FAILED"
	CodeInvalidPriceData      Code = "INVALID_PRICE_DATA"

	// Detection errors
	CodeNoLiquidityRoute     Code = "NO_LIQUIDITY_ROUTE"
	CodeNoProfitableRoute    Code = "NO_PROFITABLE_ROUTE"
	CodeInvalidTradeAmount   Code = "INVALID_TRADE_AMOUNT"
	CodeStaleSession         Code = "STALE_SESSION"
	CodeAttemptBudgetDrained Code = "ATTEMPT_BUDGET_DRAINED"

	// Cache errors
	CodeCacheMiss    Code = "CACHE_MISS"
	CodeCacheExpired Code = "CACHE_EXPIRED"

	// Circuit breaker errors
	CodeCircuitOpen     Code = "CIRCUIT_OPEN"
	CodeCircuitHalfOpen Code = "CIRCUIT_HALF_OPEN"
)
