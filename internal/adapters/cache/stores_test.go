package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

func newTestClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestRegistrationStorePutGetTake(t *testing.T) {
	t.Parallel()

	_, client := newTestClient(t)
	store := NewRedisRegistrationHandshakeStore(client)
	ctx := context.Background()

	staged := ports.RegistrationHandshake{
		Email:       "user@example.com",
		TenantID:    uuid.New(),
		TOTPSecret:  "SECRET",
		RedirectURL: "https://app.example.com/cb",
		ExpiresAt:   time.Now().UTC().Add(10 * time.Minute),
	}
	if err := store.Put(ctx, "token-1", staged, 10*time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// Get leaves the entry in place.
	got, err := store.Get(ctx, "token-1")
	if err != nil || got == nil {
		t.Fatalf("get failed: %v, %v", got, err)
	}
	if got.Email != staged.Email || got.TenantID != staged.TenantID {
		t.Fatalf("unexpected payload: %+v", got)
	}
	if got, err = store.Get(ctx, "token-1"); err != nil || got == nil {
		t.Fatalf("second get should still find the entry: %v, %v", got, err)
	}

	taken, err := store.Take(ctx, "token-1")
	if err != nil || taken == nil {
		t.Fatalf("take failed: %v, %v", taken, err)
	}
	// Take consumes: a second take and any later get miss.
	if again, err := store.Take(ctx, "token-1"); err != nil || again != nil {
		t.Fatalf("expected nil on second take, got %v, %v", again, err)
	}
	if gone, err := store.Get(ctx, "token-1"); err != nil || gone != nil {
		t.Fatalf("expected nil get after take, got %v, %v", gone, err)
	}
}

func TestRegistrationStoreExpiry(t *testing.T) {
	t.Parallel()

	mr, client := newTestClient(t)
	store := NewRedisRegistrationHandshakeStore(client)
	ctx := context.Background()

	if err := store.Put(ctx, "token-ttl", ports.RegistrationHandshake{Email: "ttl@example.com"}, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)

	if got, err := store.Get(ctx, "token-ttl"); err != nil || got != nil {
		t.Fatalf("expected expired entry to be gone, got %v, %v", got, err)
	}
	if got, err := store.Take(ctx, "token-ttl"); err != nil || got != nil {
		t.Fatalf("expected expired take to be nil, got %v, %v", got, err)
	}
}

func TestLoginStoreKindsAreIsolated(t *testing.T) {
	t.Parallel()

	_, client := newTestClient(t)
	store := NewRedisLoginHandshakeStore(client)
	ctx := context.Background()

	staged := ports.LoginHandshake{
		IdentityID: uuid.New(),
		Email:      "user@example.com",
		TenantID:   uuid.New(),
		Role:       domain.RoleAdmin,
		TOTPSecret: "SECRET",
		ExpiresAt:  time.Now().UTC().Add(5 * time.Minute),
	}
	if err := store.Put(ctx, ports.HandshakeAdminLogin, "token-a", staged, 5*time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	// An admin handshake token must not resolve under the user-login kind.
	if got, err := store.Get(ctx, ports.HandshakeLogin, "token-a"); err != nil || got != nil {
		t.Fatalf("expected kind isolation, got %v, %v", got, err)
	}

	got, err := store.Get(ctx, ports.HandshakeAdminLogin, "token-a")
	if err != nil || got == nil {
		t.Fatalf("get failed: %v, %v", got, err)
	}
	if got.Role != domain.RoleAdmin || got.IdentityID != staged.IdentityID {
		t.Fatalf("unexpected payload: %+v", got)
	}

	if taken, err := store.Take(ctx, ports.HandshakeAdminLogin, "token-a"); err != nil || taken == nil {
		t.Fatalf("take failed: %v, %v", taken, err)
	}
	if again, err := store.Take(ctx, ports.HandshakeAdminLogin, "token-a"); err != nil || again != nil {
		t.Fatalf("expected nil on second take, got %v, %v", again, err)
	}
}

func TestTenantStoreRoundTrip(t *testing.T) {
	t.Parallel()

	_, client := newTestClient(t)
	store := NewRedisTenantHandshakeStore(client)
	ctx := context.Background()

	staged := ports.TenantHandshake{
		CompanyName:  "Initech",
		Email:        "founder@example.com",
		PasswordHash: "hash",
		TOTPSecret:   "SECRET",
		ExpiresAt:    time.Now().UTC().Add(10 * time.Minute),
	}
	if err := store.Put(ctx, "token-t", staged, 10*time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	taken, err := store.Take(ctx, "token-t")
	if err != nil || taken == nil {
		t.Fatalf("take failed: %v, %v", taken, err)
	}
	if taken.CompanyName != "Initech" {
		t.Fatalf("unexpected payload: %+v", taken)
	}
	if again, err := store.Take(ctx, "token-t"); err != nil || again != nil {
		t.Fatalf("expected nil on second take, got %v, %v", again, err)
	}
}

func TestExchangeStoreSingleUse(t *testing.T) {
	t.Parallel()

	mr, client := newTestClient(t)
	store := NewRedisExchangeCodeStore(client)
	ctx := context.Background()

	grant := ports.ExchangeGrant{
		IdentityID: uuid.New(),
		Email:      "user@example.com",
		TenantID:   uuid.New(),
		Role:       domain.RoleUser,
		ExpiresAt:  time.Now().UTC().Add(5 * time.Minute),
	}
	if err := store.Put(ctx, "code-1", grant, 5*time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	taken, err := store.Take(ctx, "code-1")
	if err != nil || taken == nil {
		t.Fatalf("take failed: %v, %v", taken, err)
	}
	if taken.IdentityID != grant.IdentityID || taken.Role != grant.Role {
		t.Fatalf("unexpected grant: %+v", taken)
	}
	if again, err := store.Take(ctx, "code-1"); err != nil || again != nil {
		t.Fatalf("expected nil on second take, got %v, %v", again, err)
	}

	if err := store.Put(ctx, "code-ttl", grant, time.Minute); err != nil {
		t.Fatalf("put failed: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if expired, err := store.Take(ctx, "code-ttl"); err != nil || expired != nil {
		t.Fatalf("expected expired code to be gone, got %v, %v", expired, err)
	}
}
