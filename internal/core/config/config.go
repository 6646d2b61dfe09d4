package config

import (
	"time"

	redisclient "github.com/vietddude/bitcoin-adapter/internal/infra/redis"
	"github.com/vietddude/bitcoin-adapter/internal/infra/storage/postgres"
)

// UTXO backend kinds
const (
	BackendEsplora  = "esplora"
	BackendBitcoind = "bitcoind"
	BackendPostgres = "postgres"
)

// AppConfig represents the top-level configuration.
type AppConfig struct {
	Server     ServerConfig       `yaml:"server"`
	Logging    LoggingConfig      `yaml:"logging"`
	Network    NetworkConfig      `yaml:"network"`
	Connectors []ConnectorConfig  `yaml:"connectors"`
	UTXO       UTXOConfig         `yaml:"utxo"`
	Redis      redisclient.Config `yaml:"redis"`
	Database   postgres.Config    `yaml:"database"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `yaml:"port"`
	RequestTimeout  time.Duration `yaml:"request_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

// NetworkConfig selects the default network.
type NetworkConfig struct {
	Default string `yaml:"default"` // CAIP-2 chain id
}

// ConnectorConfig declares a wallet connector.
type ConnectorConfig struct {
	ID        string          `yaml:"id"`
	Type      string          `yaml:"type"`   // sats-connect, leather, okx
	Chains    []string        `yaml:"chains"` // CAIP-2 chain ids; empty = default network
	Transport TransportConfig `yaml:"transport"`
}

// TransportConfig describes how to reach the wallet bridge.
type TransportConfig struct {
	Kind    string        `yaml:"kind"` // websocket, http
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// UTXOConfig holds the UTXO query backends.
type UTXOConfig struct {
	Backends []BackendConfig `yaml:"backends"`
	Cache    CacheConfig     `yaml:"cache"`
	Retry    RetryConfig     `yaml:"retry"`
}

// BackendConfig binds a backend to a chain.
type BackendConfig struct {
	Chain     string           `yaml:"chain"`
	Kind      string           `yaml:"kind"` // esplora, bitcoind, postgres
	Providers []ProviderConfig `yaml:"providers"`
}

// ProviderConfig holds settings for a remote endpoint.
type ProviderConfig struct {
	Name    string        `yaml:"name"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// CacheConfig controls the redis UTXO cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	TTL     time.Duration `yaml:"ttl"`
}

// RetryConfig controls retries against UTXO providers.
type RetryConfig struct {
	MaxAttempts  int           `yaml:"max_attempts"`
	InitialDelay time.Duration `yaml:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay"`
}

// UsesPostgres reports whether any backend reads from the database.
func (c *AppConfig) UsesPostgres() bool {
	for _, b := range c.UTXO.Backends {
		if b.Kind == BackendPostgres {
			return true
		}
	}
	return false
}
