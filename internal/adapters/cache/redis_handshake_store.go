package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/authplug/broker/internal/ports"
	"github.com/redis/go-redis/v9"
)

// RedisRegistrationHandshakeStore stores pending user registrations.
// Take uses GETDEL so consumption is atomic: two racing completions can
// never both observe the handshake.
type RedisRegistrationHandshakeStore struct {
	client *redis.Client
}

// NewRedisRegistrationHandshakeStore creates the pending-registration cache adapter.
func NewRedisRegistrationHandshakeStore(client *redis.Client) *RedisRegistrationHandshakeStore {
	return &RedisRegistrationHandshakeStore{client: client}
}

func registrationKey(token string) string {
	return "auth:handshake:registration:" + token
}

func (s *RedisRegistrationHandshakeStore) Put(ctx context.Context, token string, value ports.RegistrationHandshake, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, registrationKey(token), raw, ttl).Err()
}

func (s *RedisRegistrationHandshakeStore) Get(ctx context.Context, token string) (*ports.RegistrationHandshake, error) {
	raw, err := s.client.Get(ctx, registrationKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.RegistrationHandshake
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisRegistrationHandshakeStore) Take(ctx context.Context, token string) (*ports.RegistrationHandshake, error) {
	raw, err := s.client.GetDel(ctx, registrationKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.RegistrationHandshake
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisRegistrationHandshakeStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, registrationKey(token)).Err()
}

// RedisLoginHandshakeStore stores pending login challenges, namespaced by
// handshake kind so a user-login token cannot complete an admin login.
type RedisLoginHandshakeStore struct {
	client *redis.Client
}

// NewRedisLoginHandshakeStore creates the pending-login cache adapter.
func NewRedisLoginHandshakeStore(client *redis.Client) *RedisLoginHandshakeStore {
	return &RedisLoginHandshakeStore{client: client}
}

func loginKey(kind ports.HandshakeKind, token string) string {
	return "auth:handshake:" + string(kind) + ":" + token
}

func (s *RedisLoginHandshakeStore) Put(ctx context.Context, kind ports.HandshakeKind, token string, value ports.LoginHandshake, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, loginKey(kind, token), raw, ttl).Err()
}

func (s *RedisLoginHandshakeStore) Get(ctx context.Context, kind ports.HandshakeKind, token string) (*ports.LoginHandshake, error) {
	raw, err := s.client.Get(ctx, loginKey(kind, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.LoginHandshake
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisLoginHandshakeStore) Take(ctx context.Context, kind ports.HandshakeKind, token string) (*ports.LoginHandshake, error) {
	raw, err := s.client.GetDel(ctx, loginKey(kind, token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.LoginHandshake
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisLoginHandshakeStore) Delete(ctx context.Context, kind ports.HandshakeKind, token string) error {
	return s.client.Del(ctx, loginKey(kind, token)).Err()
}

// RedisTenantHandshakeStore stores pending company registrations.
type RedisTenantHandshakeStore struct {
	client *redis.Client
}

// NewRedisTenantHandshakeStore creates the pending-tenant cache adapter.
func NewRedisTenantHandshakeStore(client *redis.Client) *RedisTenantHandshakeStore {
	return &RedisTenantHandshakeStore{client: client}
}

func tenantKey(token string) string {
	return "auth:handshake:tenant:" + token
}

func (s *RedisTenantHandshakeStore) Put(ctx context.Context, token string, value ports.TenantHandshake, ttl time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, tenantKey(token), raw, ttl).Err()
}

func (s *RedisTenantHandshakeStore) Get(ctx context.Context, token string) (*ports.TenantHandshake, error) {
	raw, err := s.client.Get(ctx, tenantKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.TenantHandshake
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisTenantHandshakeStore) Take(ctx context.Context, token string) (*ports.TenantHandshake, error) {
	raw, err := s.client.GetDel(ctx, tenantKey(token)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var out ports.TenantHandshake
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *RedisTenantHandshakeStore) Delete(ctx context.Context, token string) error {
	return s.client.Del(ctx, tenantKey(token)).Err()
}
