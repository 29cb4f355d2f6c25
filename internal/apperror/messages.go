package apperror

// messages maps error codes to human-readable messages
var messages = map[Code]string{
	// General validation
	CodeRequiredField: "Required field is missing",
	CodeInvalidInput:  "Invalid input provided",
	CodeInvalidFormat: "Invalid data format",
	CodeInvalidState:  "Invalid state for this operation",
	CodeNotFound:      "Resource not found",

	// Configuration
	CodeConfigurationError: "Configuration error",

	// External service errors
	CodeExternalServiceError: "External service error",
	CodeServiceTimeout:       "Service request timeout",
	CodeServiceUnavailable:   "Service temporarily unavailable",
	CodeRateLimitExceeded:    "Rate limit exceeded",

	// System errors
	CodeInternalError: "Internal server error",
	CodeUnknownError:  "An unknown error occurred",

	// Chain/RPC errors
	CodeChainConnectionFailed: "Failed to connect to chain RPC node",
	CodeChainRPCError:         "Chain RPC call failed",
	CodeContractCallFailed:    "Smart contract call failed",
	CodeGasPriceFetchFailed:   "Failed to fetch gas price",

	// Pool discovery errors
	CodePoolNotFound:        "Pool does not exist for pair and fee tier",
	CodePoolStateReadFailed: "Failed to read pool state",
	CodeInvalidPoolState:    "Pool state is invalid or uninitialized",
	CodeInvalidSqrtPrice:    "Pool sqrt price is zero or malformed",
	CodeUnsupportedAsset:    "Asset is not in the supported registry",

	// Market data errors
	CodeMarketFeedUnavailable: "Market data feed unavailable",
	CodePriceFetchFailed:      "Failed to fetch reference price",
	CodeInvalidPriceData:      "Reference price data is invalid",

	// Detection errors
	CodeNoLiquidityRoute:     "No pool pair with a positive rate spread",
	CodeNoProfitableRoute:    "No combination clears the profit gate",
	CodeInvalidTradeAmount:   "Trade amount must be positive",
	CodeStaleSession:         "Detection session superseded by a newer scan",
	CodeAttemptBudgetDrained: "Retry attempt budget exhausted",

	// Cache errors
	CodeCacheMiss:    "Cache miss",
	CodeCacheExpired: "Cache entry expired",

	// Circuit breaker errors
	CodeCircuitOpen:     "Circuit breaker is open",
	CodeCircuitHalfOpen: "Circuit breaker is half-open",
}
