package ports

import (
	"context"
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/google/uuid"
)

// HandshakeKind tags the flow a staged handshake belongs to. Stores namespace
// their keys by kind so tokens from one flow can never be replayed in another.
type HandshakeKind string

const (
	HandshakeRegistration HandshakeKind = "registration"
	HandshakeLogin        HandshakeKind = "login"
	HandshakeAdminLogin   HandshakeKind = "admin"
	HandshakeTenant       HandshakeKind = "tenant"
)

// RegistrationHandshake is the staged state between registration start and
// TOTP enrollment verification. Nothing is written to the durable store until
// the code is verified.
type RegistrationHandshake struct {
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	TenantID     uuid.UUID `json:"tenant_id"`
	TOTPSecret   string    `json:"totp_secret"`
	RedirectURL  string    `json:"redirect_url"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// LoginHandshake is the staged state between credential verification and the
// TOTP challenge, for both end-user and admin logins. RedirectURL is empty
// for admin logins, which never leave the first-party dashboard.
type LoginHandshake struct {
	IdentityID  uuid.UUID   `json:"identity_id"`
	Email       string      `json:"email"`
	TenantID    uuid.UUID   `json:"tenant_id"`
	Role        domain.Role `json:"role"`
	TOTPSecret  string      `json:"totp_secret"`
	RedirectURL string      `json:"redirect_url,omitempty"`
	ExpiresAt   time.Time   `json:"expires_at"`
}

// TenantHandshake is the staged state for company registration: the tenant,
// its admin identity, and the admin's TOTP enrollment all materialize only
// after the code is verified.
type TenantHandshake struct {
	CompanyName  string    `json:"company_name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	TOTPSecret   string    `json:"totp_secret"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// RegistrationHandshakeStore persists pending registrations.
//
// Get leaves the entry in place so a wrong TOTP code can be retried within
// the TTL. Take is the atomic consume: it returns the payload to exactly one
// caller and deletes it in the same operation, so a double-submit can never
// complete the flow twice. A Take miss is indistinguishable from expiry.
type RegistrationHandshakeStore interface {
	Put(ctx context.Context, token string, value RegistrationHandshake, ttl time.Duration) error
	Get(ctx context.Context, token string) (*RegistrationHandshake, error)
	Take(ctx context.Context, token string) (*RegistrationHandshake, error)
	Delete(ctx context.Context, token string) error
}

// LoginHandshakeStore persists pending logins, keyed per handshake kind.
type LoginHandshakeStore interface {
	Put(ctx context.Context, kind HandshakeKind, token string, value LoginHandshake, ttl time.Duration) error
	Get(ctx context.Context, kind HandshakeKind, token string) (*LoginHandshake, error)
	Take(ctx context.Context, kind HandshakeKind, token string) (*LoginHandshake, error)
	Delete(ctx context.Context, kind HandshakeKind, token string) error
}

// TenantHandshakeStore persists pending company registrations.
type TenantHandshakeStore interface {
	Put(ctx context.Context, token string, value TenantHandshake, ttl time.Duration) error
	Get(ctx context.Context, token string) (*TenantHandshake, error)
	Take(ctx context.Context, token string) (*TenantHandshake, error)
	Delete(ctx context.Context, token string) error
}

// ExchangeGrant is the identity snapshot bound to a single-use exchange code.
// The snapshot carries everything token issuance needs so the exchange
// endpoint avoids a durable-store lookup.
type ExchangeGrant struct {
	IdentityID uuid.UUID   `json:"identity_id"`
	Email      string      `json:"email"`
	TenantID   uuid.UUID   `json:"tenant_id"`
	Role       domain.Role `json:"role"`
	ExpiresAt  time.Time   `json:"expires_at"`
}

// ExchangeCodeStore persists single-use exchange codes. There is no Get:
// codes are only ever consumed, and Take guarantees at-most-once redemption.
type ExchangeCodeStore interface {
	Put(ctx context.Context, code string, grant ExchangeGrant, ttl time.Duration) error
	Take(ctx context.Context, code string) (*ExchangeGrant, error)
}
