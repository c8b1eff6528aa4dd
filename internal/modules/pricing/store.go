// README: Quote cache backed by Redis; quotes are deterministic so identical requests share an entry.
package pricing

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "charter:quote:"

// QuoteCache stores computed quotes. Failures never fail a quote.
type QuoteCache interface {
	Get(ctx context.Context, key string) (Quote, bool, error)
	Set(ctx context.Context, key string, q Quote) error
}

// RedisClient is the subset of *redis.Client the cache uses.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type Store struct {
	redis RedisClient
	ttl   time.Duration
}

func NewStore(client RedisClient, ttl time.Duration) *Store {
	return &Store{redis: client, ttl: ttl}
}

func (s *Store) Get(ctx context.Context, key string) (Quote, bool, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return Quote{}, false, nil
	}
	if err != nil {
		return Quote{}, false, fmt.Errorf("reading cached quote: %w", err)
	}
	var q Quote
	if err := json.Unmarshal(data, &q); err != nil {
		return Quote{}, false, fmt.Errorf("decoding cached quote: %w", err)
	}
	return q, true, nil
}

func (s *Store) Set(ctx context.Context, key string, q Quote) error {
	data, err := json.Marshal(q)
	if err != nil {
		return fmt.Errorf("encoding quote: %w", err)
	}
	return s.redis.Set(ctx, key, data, s.ttl).Err()
}

// cacheKey hashes the request, the options and the reference data fingerprint, since
// each of them changes the result.
func cacheKey(req Request, opts Options, fingerprint string) string {
	data, _ := json.Marshal(struct {
		Request     Request `json:"request"`
		Options     Options `json:"options"`
		Fingerprint string  `json:"reference"`
	}{req, opts, fingerprint})
	sum := sha256.Sum256(data)
	return quoteKeyPrefix + hex.EncodeToString(sum[:])
}
