package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/vietddude/bitcoin-adapter/internal/connector"
	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
	"github.com/vietddude/bitcoin-adapter/internal/infra/transport"
)

// Load reads configuration from a YAML file.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes YAML configuration, applies defaults and validates it.
func Parse(data []byte) (*AppConfig, error) {
	var cfg AppConfig
	// Expand environment variables in the YAML content
	expandedData := os.ExpandEnv(string(data))
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.setDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

func (c *AppConfig) setDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.RequestTimeout == 0 {
		c.Server.RequestTimeout = 60 * time.Second
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}

	for i := range c.Connectors {
		t := &c.Connectors[i].Transport
		if t.Kind == "" {
			t.Kind = transport.KindWebSocket
		}
		if t.Timeout == 0 {
			t.Timeout = 2 * time.Minute
		}
	}

	for i := range c.UTXO.Backends {
		for j := range c.UTXO.Backends[i].Providers {
			p := &c.UTXO.Backends[i].Providers[j]
			if p.Timeout == 0 {
				p.Timeout = 15 * time.Second
			}
			if p.Name == "" {
				p.Name = fmt.Sprintf("%s-%d", c.UTXO.Backends[i].Kind, j)
			}
		}
	}

	if c.UTXO.Cache.TTL == 0 {
		c.UTXO.Cache.TTL = 30 * time.Second
	}
	if c.UTXO.Retry.MaxAttempts == 0 {
		c.UTXO.Retry.MaxAttempts = 3
	}
	if c.UTXO.Retry.InitialDelay == 0 {
		c.UTXO.Retry.InitialDelay = 500 * time.Millisecond
	}
	if c.UTXO.Retry.MaxDelay == 0 {
		c.UTXO.Retry.MaxDelay = 10 * time.Second
	}
}

// Validate checks cross-field constraints.
func (c *AppConfig) Validate() error {
	var errs []error

	if c.Network.Default != "" {
		if _, err := domain.ParseChainID(c.Network.Default); err != nil {
			errs = append(errs, fmt.Errorf("network.default: %w", err))
		}
	}

	seen := make(map[string]bool)
	for i, cc := range c.Connectors {
		if cc.ID == "" {
			errs = append(errs, fmt.Errorf("connectors[%d]: id is required", i))
		} else if seen[cc.ID] {
			errs = append(errs, fmt.Errorf("connectors[%d]: duplicate id %q", i, cc.ID))
		}
		seen[cc.ID] = true

		switch cc.Type {
		case connector.TypeSatsConnect, connector.TypeLeather, connector.TypeOKX:
		default:
			errs = append(errs, fmt.Errorf("connector %q: unknown type %q", cc.ID, cc.Type))
		}
		for _, ch := range cc.Chains {
			if _, err := domain.ParseChainID(ch); err != nil {
				errs = append(errs, fmt.Errorf("connector %q: %w", cc.ID, err))
			}
		}
		switch cc.Transport.Kind {
		case transport.KindWebSocket, transport.KindHTTP:
		default:
			errs = append(errs, fmt.Errorf("connector %q: unknown transport %q", cc.ID, cc.Transport.Kind))
		}
		if cc.Transport.URL == "" {
			errs = append(errs, fmt.Errorf("connector %q: transport url is required", cc.ID))
		}
	}

	chains := make(map[string]bool)
	for i, b := range c.UTXO.Backends {
		id, err := domain.ParseChainID(b.Chain)
		if err != nil {
			errs = append(errs, fmt.Errorf("utxo.backends[%d]: %w", i, err))
		} else if !id.IsBip122() {
			errs = append(errs, fmt.Errorf("utxo.backends[%d]: %s is not a bitcoin chain", i, id))
		}
		if chains[b.Chain] {
			errs = append(errs, fmt.Errorf("utxo.backends[%d]: duplicate chain %s", i, b.Chain))
		}
		chains[b.Chain] = true

		switch b.Kind {
		case BackendEsplora, BackendBitcoind:
			if len(b.Providers) == 0 {
				errs = append(errs, fmt.Errorf("utxo.backends[%d]: %s needs at least one provider", i, b.Kind))
			}
			for j, p := range b.Providers {
				if p.URL == "" {
					errs = append(errs, fmt.Errorf("utxo.backends[%d].providers[%d]: url is required", i, j))
				}
			}
		case BackendPostgres:
			if c.Database.URL == "" {
				errs = append(errs, fmt.Errorf("utxo.backends[%d]: postgres backend needs database.url", i))
			}
		default:
			errs = append(errs, fmt.Errorf("utxo.backends[%d]: unknown kind %q", i, b.Kind))
		}
	}

	if c.UTXO.Cache.Enabled && c.Redis.URL == "" {
		errs = append(errs, errors.New("utxo.cache: enabled but redis.url is empty"))
	}

	return errors.Join(errs...)
}
