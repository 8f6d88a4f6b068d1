package ports

import (
	"context"
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/google/uuid"
)

// TenantRepository reads tenant records and creates them together with their
// founding admin. The transactional create exists because a tenant without an
// admin identity is unreachable from the dashboard.
type TenantRepository interface {
	GetByID(ctx context.Context, tenantID uuid.UUID) (domain.Tenant, error)
	// CreateWithAdminTx atomically creates the tenant, its admin identity, the
	// admin membership, and the registration outbox event.
	CreateWithAdminTx(ctx context.Context, params CreateTenantTxParams, event OutboxEvent) (domain.Tenant, domain.Identity, error)
}

// CreateTenantTxParams captures atomic tenant-creation inputs.
type CreateTenantTxParams struct {
	Name            string
	AdminEmail      string
	PasswordHash    string
	TOTPSecret      string
	RegisteredAtUTC time.Time
}

// CreateIdentityTxParams captures atomic identity-creation inputs.
// The membership is part of the same transaction so an identity can never
// exist without a tenant binding.
type CreateIdentityTxParams struct {
	Email           string
	PasswordHash    string
	TOTPSecret      string
	TenantID        uuid.UUID
	Role            domain.Role
	RegisteredAtUTC time.Time
}

// IdentityRepository defines persistence for authentication identities.
type IdentityRepository interface {
	// CreateWithMembershipTx atomically creates the identity, its first
	// membership, and the registration outbox event.
	CreateWithMembershipTx(ctx context.Context, params CreateIdentityTxParams, event OutboxEvent) (domain.Identity, error)
	GetByEmail(ctx context.Context, email string) (domain.Identity, error)
	GetByID(ctx context.Context, identityID uuid.UUID) (domain.Identity, error)
	UpdatePassword(ctx context.Context, identityID uuid.UUID, passwordHash string, updatedAt time.Time) error
}

// MembershipRepository manages identity-tenant bindings.
// Roles are fixed at creation; there is intentionally no update method.
type MembershipRepository interface {
	Get(ctx context.Context, identityID, tenantID uuid.UUID) (domain.Membership, error)
	// Create inserts a membership; a concurrent duplicate insert must surface
	// domain.ErrConflict so callers can re-read instead of failing the flow.
	Create(ctx context.Context, identityID, tenantID uuid.UUID, role domain.Role, createdAt time.Time) (domain.Membership, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]MemberRecord, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
}

// MemberRecord is the joined membership+identity view used by the dashboard.
type MemberRecord struct {
	IdentityID uuid.UUID
	Email      string
	Role       domain.Role
	JoinedAt   time.Time
}

// AllowedOriginRepository owns the per-tenant redirect allow-list.
type AllowedOriginRepository interface {
	Exists(ctx context.Context, tenantID uuid.UUID, origin string) (bool, error)
	ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.AllowedOrigin, error)
	CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error)
	// Create enforces (tenant, origin) uniqueness via domain.ErrConflict.
	Create(ctx context.Context, tenantID uuid.UUID, origin string, createdAt time.Time) (domain.AllowedOrigin, error)
	// Delete removes an origin owned by the tenant; unknown ids surface
	// domain.ErrNotFound.
	Delete(ctx context.Context, tenantID, originID uuid.UUID) error
}

// CreateRefreshTokenParams captures inputs for a new refresh-token row.
type CreateRefreshTokenParams struct {
	TokenHash  string
	IdentityID uuid.UUID
	TenantID   uuid.UUID
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// RefreshTokenRepository manages the durable rotation chain.
// Rotation must be a single transaction: a crash between revoking the
// predecessor and creating the successor would otherwise leave either zero or
// two live tokens for one chain.
type RefreshTokenRepository interface {
	Create(ctx context.Context, params CreateRefreshTokenParams) (domain.RefreshToken, error)
	// GetActiveByHash returns the non-revoked row for a hash; revoked or
	// unknown hashes surface domain.ErrNotFound.
	GetActiveByHash(ctx context.Context, tokenHash string) (domain.RefreshToken, error)
	// RotateTx atomically creates the successor and revokes the predecessor,
	// recording the successor hash on the revoked row.
	RotateTx(ctx context.Context, predecessorID uuid.UUID, successor CreateRefreshTokenParams) (domain.RefreshToken, error)
	// Revoke marks a non-revoked row revoked by hash. It is idempotent:
	// absent or already-revoked hashes are not an error.
	Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error
}

// OutboxEvent is the write-side event payload prior to storage.
// It is adapter-neutral to keep application code independent of broker specifics.
type OutboxEvent struct {
	EventID      uuid.UUID
	EventType    string
	PartitionKey string
	Payload      []byte
	OccurredAt   time.Time
}

// OutboxRecord represents durable outbox state, including retry/error metadata.
type OutboxRecord struct {
	OutboxID       uuid.UUID
	EventType      string
	PartitionKey   string
	Payload        []byte
	RetryCount     int
	LastError      *string
	CreatedAt      time.Time
	PublishedAt    *time.Time
	LastErrorAt    *time.Time
	FirstSeenAt    time.Time
	ClaimToken     *string
	ClaimUntil     *time.Time
	DeadLetteredAt *time.Time
}

// OutboxRepository controls publish-retry workflow for broker events.
// This explicit contract enables transactional outbox patterns without leaking DB details.
type OutboxRepository interface {
	Enqueue(ctx context.Context, event OutboxEvent) error
	ClaimUnpublished(ctx context.Context, limit int, claimToken string, claimUntil time.Time) ([]OutboxRecord, error)
	MarkPublished(ctx context.Context, outboxID uuid.UUID, claimToken string, at time.Time) error
	MarkFailed(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
	MarkDeadLettered(ctx context.Context, outboxID uuid.UUID, claimToken, errMsg string, at time.Time) error
}
