package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/authplug/broker/internal/ports"
	"github.com/redis/go-redis/v9"
)

// RedisExchangeCodeStore stores single-use exchange codes. Codes are only
// ever consumed via GETDEL, never read in place.
type RedisExchangeCodeStore struct {
	client *redis.Client
}

// NewRedisExchangeCodeStore creates the exchange-code cache adapter.
func NewRedisExchangeCodeStore(client *redis.Client) *RedisExchangeCodeStore {
	return &RedisExchangeCodeStore{client: client}
}

func exchangeKey(code string) string {
	return "auth:exchange:" + code
}

func (s *RedisExchangeCodeStore) Put(ctx context.Context, code string, grant ports.ExchangeGrant, ttl time.Duration) error {
	raw, err := json.Marshal(grant)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, exchangeKey(code), raw, ttl).Err()
}

func (s *RedisExchangeCodeStore) Take(ctx context.Context, code string) (*ports.ExchangeGrant, error) {
	raw, err := s.client.GetDel(ctx, exchangeKey(code)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.ExchangeGrant
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
