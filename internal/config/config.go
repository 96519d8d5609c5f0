// Package config holds runtime configuration. A Config is built
// explicitly in main and passed down; nothing reads it globally.
package config

import (
	"fmt"
	"os"
	"time"
)

// Network selects the Solana cluster.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
)

// Cluster default endpoints, overridable via env or flags.
const (
	mainnetRPC = "https://api.mainnet-beta.solana.com"
	mainnetWS  = "wss://api.mainnet-beta.solana.com"
	devnetRPC  = "https://api.devnet.solana.com"
	devnetWS   = "wss://api.devnet.solana.com"
)

// Config is the full runtime configuration.
type Config struct {
	Network Network
	RPCURL  string
	WSURL   string

	PostgresDSN   string // empty selects in-memory stores
	ClickhouseDSN string // empty disables the snapshot archive

	MetricsAddr string

	LogLevel  string
	LogFormat string

	// MonitorInterval is how often open positions are re-evaluated.
	MonitorInterval time.Duration

	// DedupSize bounds the discovery seen-mint cache.
	DedupSize int
}

// Default returns the configuration for a cluster.
func Default(network Network) Config {
	cfg := Config{
		Network:         network,
		MetricsAddr:     ":9090",
		LogLevel:        "info",
		LogFormat:       "json",
		MonitorInterval: 15 * time.Second,
		DedupSize:       100_000,
	}

	switch network {
	case NetworkDevnet:
		cfg.RPCURL = devnetRPC
		cfg.WSURL = devnetWS
	default:
		cfg.Network = NetworkMainnet
		cfg.RPCURL = mainnetRPC
		cfg.WSURL = mainnetWS
	}

	return cfg
}

// FromEnv overlays environment variables onto the config. Callers load
// .env first (godotenv) so a local file and real env behave the same.
func (c Config) FromEnv() Config {
	if v := os.Getenv("SOLANA_NETWORK"); v != "" {
		base := Default(Network(v))
		base.PostgresDSN = c.PostgresDSN
		base.ClickhouseDSN = c.ClickhouseDSN
		base.MetricsAddr = c.MetricsAddr
		base.LogLevel = c.LogLevel
		base.LogFormat = c.LogFormat
		base.MonitorInterval = c.MonitorInterval
		base.DedupSize = c.DedupSize
		c = base
	}
	if v := os.Getenv("SOLANA_RPC_URL"); v != "" {
		c.RPCURL = v
	}
	if v := os.Getenv("SOLANA_WS_URL"); v != "" {
		c.WSURL = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.PostgresDSN = v
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		c.ClickhouseDSN = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.LogLevel = v
	}
	return c
}

// Validate checks the config for unusable values.
func (c Config) Validate() error {
	if c.RPCURL == "" {
		return fmt.Errorf("rpc url is required")
	}
	if c.WSURL == "" {
		return fmt.Errorf("ws url is required")
	}
	if c.Network != NetworkMainnet && c.Network != NetworkDevnet {
		return fmt.Errorf("unknown network %q", c.Network)
	}
	if c.MonitorInterval <= 0 {
		return fmt.Errorf("monitor interval must be positive, got %v", c.MonitorInterval)
	}
	if c.DedupSize <= 0 {
		return fmt.Errorf("dedup size must be positive, got %d", c.DedupSize)
	}
	return nil
}
