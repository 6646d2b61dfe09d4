package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/vietddude/bitcoin-adapter/internal/core/domain"
)

// Client wraps Redis operations for the UTXO cache.
type Client struct {
	rdb *redis.Client
}

// Config holds Redis connection configuration.
type Config struct {
	URL      string `yaml:"url"`
	Password string `yaml:"password"`
}

// NewClient creates a new Redis client.
func NewClient(cfg Config) (*Client, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	if cfg.Password != "" {
		opts.Password = cfg.Password
	}

	rdb := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &Client{rdb: rdb}, nil
}

// Close closes the Redis connection.
func (c *Client) Close() error {
	return c.rdb.Close()
}

// Health pings the server.
func (c *Client) Health(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

func utxoKey(chain domain.ChainID, address string) string {
	return fmt.Sprintf("utxos:%s:%s", chain, address)
}

// GetUTXOs returns the cached outputs of address. found is false on a miss.
func (c *Client) GetUTXOs(
	ctx context.Context,
	chain domain.ChainID,
	address string,
) (utxos []domain.UTXO, found bool, err error) {
	val, err := c.rdb.Get(ctx, utxoKey(chain, address)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get failed: %w", err)
	}
	if err := json.Unmarshal(val, &utxos); err != nil {
		return nil, false, fmt.Errorf("invalid cached utxos: %w", err)
	}
	return utxos, true, nil
}

// SetUTXOs caches the outputs of address for ttl.
func (c *Client) SetUTXOs(
	ctx context.Context,
	chain domain.ChainID,
	address string,
	utxos []domain.UTXO,
	ttl time.Duration,
) error {
	if utxos == nil {
		utxos = []domain.UTXO{}
	}
	val, err := json.Marshal(utxos)
	if err != nil {
		return fmt.Errorf("marshal utxos: %w", err)
	}
	if err := c.rdb.Set(ctx, utxoKey(chain, address), val, ttl).Err(); err != nil {
		return fmt.Errorf("set failed: %w", err)
	}
	return nil
}
