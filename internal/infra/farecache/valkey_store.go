package farecache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/flight-fare/internal/domain/fare"
)

// ValkeyCache stores quoted prices in a Valkey-compatible database.
type ValkeyCache struct {
	client valkey.Client
	prefix string
}

// NewValkeyCache constructs a cache backed by Valkey.
func NewValkeyCache(client valkey.Client, prefix string) *ValkeyCache {
	if prefix == "" {
		prefix = "fare"
	}
	return &ValkeyCache{client: client, prefix: prefix}
}

func (c *ValkeyCache) Get(ctx context.Context, key string) (fare.Price, bool, error) {
	cmd := c.client.B().Get().Key(c.entryKey(key)).Build()
	payload, err := c.client.Do(ctx, cmd).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return 0, false, nil
		}
		return 0, false, err
	}
	price, err := strconv.ParseFloat(payload, 64)
	if err != nil {
		return 0, false, err
	}
	return fare.Price(price), true, nil
}

func (c *ValkeyCache) Set(ctx context.Context, key string, price fare.Price, ttl time.Duration) error {
	value := strconv.FormatFloat(float64(price), 'f', -1, 64)
	builder := c.client.B().Set().Key(c.entryKey(key)).Value(value)
	var cmd valkey.Completed
	if ttl > 0 {
		if ttl < time.Second {
			ttl = time.Second
		}
		cmd = builder.Ex(ttl).Build()
	} else {
		cmd = builder.Build()
	}
	return c.client.Do(ctx, cmd).Error()
}

// entryKey hashes the vector key so entries stay short and uniform.
func (c *ValkeyCache) entryKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return c.prefix + ":price:" + hex.EncodeToString(sum[:16])
}

var _ fare.PriceCache = (*ValkeyCache)(nil)
