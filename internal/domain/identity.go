package domain

import (
	"time"

	"github.com/google/uuid"
)

// Role is the membership role binding an identity to a tenant.
// Roles are fixed at membership creation; no operation updates them.
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// Tenant is a registered customer application. Tenants own their allow-listed
// redirect origins and their membership roster, nothing else.
type Tenant struct {
	TenantID  uuid.UUID
	Name      string
	CreatedAt time.Time
}

// Identity is the canonical authentication record for one person.
// It is shared across every tenant the person is a member of, which is why
// the TOTP secret lives here and not on the membership: 2FA is
// identity-scoped, not tenant-scoped.
type Identity struct {
	IdentityID   uuid.UUID
	Email        string
	PasswordHash string
	TOTPSecret   string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TwoFactorEnrolled reports whether the identity completed TOTP enrollment.
func (i Identity) TwoFactorEnrolled() bool {
	return i.TOTPSecret != ""
}

// Membership binds one identity to one tenant with a role.
type Membership struct {
	MembershipID uuid.UUID
	IdentityID   uuid.UUID
	TenantID     uuid.UUID
	Role         Role
	CreatedAt    time.Time
}

// AllowedOrigin is a permitted redirect destination for a tenant.
// Only scheme+host+port are stored; path and query never participate in
// allow-list checks.
type AllowedOrigin struct {
	OriginID  uuid.UUID
	TenantID  uuid.UUID
	Origin    string
	CreatedAt time.Time
}

// RefreshToken is the durable record of a long-lived opaque credential.
// Only the SHA-256 fingerprint of the raw value is stored. Rotation revokes
// the predecessor and records the successor hash, forming an audit chain.
type RefreshToken struct {
	TokenID    uuid.UUID
	TokenHash  string
	IdentityID uuid.UUID
	TenantID   uuid.UUID
	ExpiresAt  time.Time
	Revoked    bool
	ReplacedBy *string
	CreatedAt  time.Time
}
