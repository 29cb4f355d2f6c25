// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Chain     ChainConfig     `mapstructure:"chain"`
	Venues    []VenueConfig   `mapstructure:"venues"`
	Discovery DiscoveryConfig `mapstructure:"discovery"`
	Market    MarketConfig    `mapstructure:"market"`
	Engine    EngineConfig    `mapstructure:"engine"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
	TUIMode     bool   `mapstructure:"-"` // Set at runtime, not from config file
}

// ChainConfig holds RPC node configuration for the target chain.
type ChainConfig struct {
	HTTPURL        string        `mapstructure:"http_url"`
	ChainID        uint64        `mapstructure:"chain_id"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// VenueConfig identifies one concentrated-liquidity venue by its factory.
type VenueConfig struct {
	Name           string `mapstructure:"name"`
	FactoryAddress string `mapstructure:"factory_address"`
}

// FactoryAddressHex returns the factory address as common.Address.
func (c *VenueConfig) FactoryAddressHex() common.Address {
	return common.HexToAddress(c.FactoryAddress)
}

// DiscoveryConfig holds pool discovery settings.
type DiscoveryConfig struct {
	FeeTiers     []uint32      `mapstructure:"fee_tiers"`
	PoolCacheTTL time.Duration `mapstructure:"pool_cache_ttl"`
	MaxInFlight  int           `mapstructure:"max_in_flight"`
}

// MarketConfig holds market data feed settings.
type MarketConfig struct {
	RefreshInterval time.Duration `mapstructure:"refresh_interval"`
	RequestTimeout  time.Duration `mapstructure:"request_timeout"`
	PrimaryURL      string        `mapstructure:"primary_url"`
	FallbackURL     string        `mapstructure:"fallback_url"`
	DefaultBNBUSD   float64       `mapstructure:"default_bnb_usd"`
	DefaultGasGwei  float64       `mapstructure:"default_gas_gwei"`
}

// DefaultBNBUSDDecimal returns the fallback BNB/USD rate as decimal.Decimal.
func (c *MarketConfig) DefaultBNBUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.DefaultBNBUSD)
}

// EngineConfig holds detection and profit gate settings.
type EngineConfig struct {
	FlashFeeRate      float64 `mapstructure:"flash_fee_rate"`
	AcceptableLossUSD float64 `mapstructure:"acceptable_loss_usd"`
	MaxAttempts       int     `mapstructure:"max_attempts"`
	GasUnits          uint64  `mapstructure:"gas_units"`
}

// FlashFeeRateDecimal returns the flash loan fee rate as decimal.Decimal.
func (c *EngineConfig) FlashFeeRateDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.FlashFeeRate)
}

// AcceptableLossUSDDecimal returns the loss tolerance as decimal.Decimal.
func (c *EngineConfig) AcceptableLossUSDDecimal() decimal.Decimal {
	return decimal.NewFromFloat(c.AcceptableLossUSD)
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	OTLPHeaders    string `mapstructure:"otlp_headers"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	// Environment variables
	v.SetEnvPrefix("FLARB")
	v.AutomaticEnv()

	// Bind env vars to config keys
	bindEnvVars(v)

	// Set defaults
	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "FLARB_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "FLARB_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "FLARB_LOG_LEVEL", "LOG_LEVEL")

	// Chain
	v.BindEnv("chain.http_url", "FLARB_CHAIN_HTTP_URL", "CHAIN_HTTP_URL")
	v.BindEnv("chain.chain_id", "FLARB_CHAIN_ID", "CHAIN_ID")

	// Market
	v.BindEnv("market.primary_url", "FLARB_MARKET_PRIMARY_URL")
	v.BindEnv("market.fallback_url", "FLARB_MARKET_FALLBACK_URL")
	v.BindEnv("market.refresh_interval", "FLARB_MARKET_REFRESH_INTERVAL")

	// Engine
	v.BindEnv("engine.acceptable_loss_usd", "FLARB_ACCEPTABLE_LOSS_USD")
	v.BindEnv("engine.max_attempts", "FLARB_MAX_ATTEMPTS")

	// Telemetry
	v.BindEnv("telemetry.enabled", "FLARB_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "FLARB_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "FLARB_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "flasharb")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// BSC mainnet defaults
	v.SetDefault("chain.http_url", "https://bsc-dataseed.binance.org")
	v.SetDefault("chain.chain_id", 56)
	v.SetDefault("chain.request_timeout", "10s")

	// Venue defaults: PancakeSwap V3 and Uniswap V3 factories on BSC
	v.SetDefault("venues", []map[string]any{
		{"name": "pancakeswap-v3", "factory_address": "0x0BFbCF9fa4f9C56B0F40a671Ad40E0805A091865"},
		{"name": "uniswap-v3", "factory_address": "0xdB1d10011AD0Ff90774D0C6Bb92e5C5c8b4461F7"},
	})

	// Discovery defaults
	v.SetDefault("discovery.fee_tiers", []uint32{100, 500, 2500, 3000, 10000})
	v.SetDefault("discovery.pool_cache_ttl", "10m")
	v.SetDefault("discovery.max_in_flight", 8)

	// Market defaults
	v.SetDefault("market.refresh_interval", "30s")
	v.SetDefault("market.request_timeout", "5s")
	v.SetDefault("market.primary_url", "https://api.binance.com")
	v.SetDefault("market.fallback_url", "https://api.coingecko.com")
	v.SetDefault("market.default_bnb_usd", 600)
	v.SetDefault("market.default_gas_gwei", 3)

	// Engine defaults
	v.SetDefault("engine.flash_fee_rate", 0.0009)
	v.SetDefault("engine.acceptable_loss_usd", 1.0)
	v.SetDefault("engine.max_attempts", 3)
	v.SetDefault("engine.gas_units", 650000)

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "flasharb")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Chain.HTTPURL == "" {
		return fmt.Errorf("chain.http_url is required")
	}
	if len(c.Venues) == 0 {
		return fmt.Errorf("at least one venue is required")
	}
	for _, venue := range c.Venues {
		if !common.IsHexAddress(venue.FactoryAddress) {
			return fmt.Errorf("invalid factory address for venue %s: %s", venue.Name, venue.FactoryAddress)
		}
	}
	if len(c.Discovery.FeeTiers) == 0 {
		return fmt.Errorf("discovery.fee_tiers cannot be empty")
	}
	if c.Market.RefreshInterval <= 0 {
		return fmt.Errorf("market.refresh_interval must be positive")
	}
	if c.Engine.MaxAttempts < 1 {
		return fmt.Errorf("engine.max_attempts must be at least 1")
	}
	if c.Engine.AcceptableLossUSD < 0 {
		return fmt.Errorf("engine.acceptable_loss_usd cannot be negative")
	}
	return nil
}
