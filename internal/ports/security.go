package ports

import (
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/google/uuid"
)

type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TOTPProvider wraps time-based one-time-password enrollment and
// verification. Verify must accept codes from adjacent time steps so a code
// typed at a step boundary is not falsely rejected.
type TOTPProvider interface {
	GenerateSecret() (string, error)
	EnrollmentURI(account, secret string) string
	Verify(secret, code string, at time.Time) bool
}

// AccessClaims are the signed claims embedded in access and admin session
// tokens. Role and tenant are trusted as of issuance; they are not
// re-validated against the durable store until the next refresh.
type AccessClaims struct {
	IdentityID uuid.UUID   `json:"identity_id"`
	Email      string      `json:"email"`
	TenantID   uuid.UUID   `json:"tenant_id"`
	Role       domain.Role `json:"role"`
	IssuedAt   time.Time   `json:"issued_at"`
	ExpiresAt  time.Time   `json:"expires_at"`
	KeyID      string      `json:"kid"`
}

type TokenSigner interface {
	Sign(claims AccessClaims) (string, error)
	ParseAndValidate(token string) (AccessClaims, error)
	PublicJWKs() ([]map[string]any, error)
}
