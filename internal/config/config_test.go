package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Chain.ChainID != 56 {
		t.Errorf("chain id: got %d, want 56", cfg.Chain.ChainID)
	}
	if len(cfg.Venues) != 2 {
		t.Fatalf("venues: got %d, want 2", len(cfg.Venues))
	}
	if cfg.Venues[0].Name != "pancakeswap-v3" {
		t.Errorf("first venue: got %s", cfg.Venues[0].Name)
	}
	if len(cfg.Discovery.FeeTiers) != 5 {
		t.Errorf("fee tiers: got %v", cfg.Discovery.FeeTiers)
	}
	if cfg.Engine.MaxAttempts != 3 {
		t.Errorf("max attempts: got %d, want 3", cfg.Engine.MaxAttempts)
	}
	if got := cfg.Engine.FlashFeeRateDecimal().String(); got != "0.0009" {
		t.Errorf("flash fee rate: got %s, want 0.0009", got)
	}
	if got := cfg.Market.DefaultBNBUSDDecimal().String(); got != "600" {
		t.Errorf("default bnb/usd: got %s, want 600", got)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("FLARB_CHAIN_HTTP_URL", "http://localhost:8545")
	t.Setenv("FLARB_MAX_ATTEMPTS", "5")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Chain.HTTPURL != "http://localhost:8545" {
		t.Errorf("http url: got %s", cfg.Chain.HTTPURL)
	}
	if cfg.Engine.MaxAttempts != 5 {
		t.Errorf("max attempts: got %d, want 5", cfg.Engine.MaxAttempts)
	}
}

func TestConfig_Validate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			Chain: ChainConfig{HTTPURL: "https://bsc-dataseed.binance.org", ChainID: 56},
			Venues: []VenueConfig{
				{Name: "pancakeswap-v3", FactoryAddress: "0x0BFbCF9fa4f9C56B0F40a671Ad40E0805A091865"},
			},
			Discovery: DiscoveryConfig{FeeTiers: []uint32{500}},
			Market:    MarketConfig{RefreshInterval: 30 * time.Second},
			Engine:    EngineConfig{MaxAttempts: 3, AcceptableLossUSD: 1},
		}
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*Config) {},
		},
		{
			name:    "missing rpc url",
			mutate:  func(c *Config) { c.Chain.HTTPURL = "" },
			wantErr: "http_url",
		},
		{
			name:    "no venues",
			mutate:  func(c *Config) { c.Venues = nil },
			wantErr: "venue",
		},
		{
			name:    "bad factory address",
			mutate:  func(c *Config) { c.Venues[0].FactoryAddress = "not-an-address" },
			wantErr: "invalid factory address",
		},
		{
			name:    "no fee tiers",
			mutate:  func(c *Config) { c.Discovery.FeeTiers = nil },
			wantErr: "fee_tiers",
		},
		{
			name:    "zero refresh interval",
			mutate:  func(c *Config) { c.Market.RefreshInterval = 0 },
			wantErr: "refresh_interval",
		},
		{
			name:    "zero attempts",
			mutate:  func(c *Config) { c.Engine.MaxAttempts = 0 },
			wantErr: "max_attempts",
		},
		{
			name:    "negative loss tolerance",
			mutate:  func(c *Config) { c.Engine.AcceptableLossUSD = -0.5 },
			wantErr: "acceptable_loss_usd",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
