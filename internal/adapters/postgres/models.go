package postgres

import (
	"time"

	"github.com/google/uuid"
)

type tenantModel struct {
	TenantID  uuid.UUID `gorm:"column:tenant_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name      string    `gorm:"column:name"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (tenantModel) TableName() string { return "tenants" }

type identityModel struct {
	IdentityID   uuid.UUID `gorm:"column:identity_id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string    `gorm:"column:email"`
	PasswordHash string    `gorm:"column:password_hash"`
	TOTPSecret   string    `gorm:"column:totp_secret"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}

func (identityModel) TableName() string { return "identities" }

type membershipModel struct {
	MembershipID uuid.UUID `gorm:"column:membership_id;type:uuid;default:gen_random_uuid();primaryKey"`
	IdentityID   uuid.UUID `gorm:"column:identity_id"`
	TenantID     uuid.UUID `gorm:"column:tenant_id"`
	Role         string    `gorm:"column:role"`
	CreatedAt    time.Time `gorm:"column:created_at"`
}

func (membershipModel) TableName() string { return "memberships" }

type allowedOriginModel struct {
	OriginID  uuid.UUID `gorm:"column:origin_id;type:uuid;default:gen_random_uuid();primaryKey"`
	TenantID  uuid.UUID `gorm:"column:tenant_id"`
	Origin    string    `gorm:"column:origin"`
	CreatedAt time.Time `gorm:"column:created_at"`
}

func (allowedOriginModel) TableName() string { return "allowed_origins" }

type refreshTokenModel struct {
	TokenID    uuid.UUID  `gorm:"column:token_id;type:uuid;default:gen_random_uuid();primaryKey"`
	TokenHash  string     `gorm:"column:token_hash"`
	IdentityID uuid.UUID  `gorm:"column:identity_id"`
	TenantID   uuid.UUID  `gorm:"column:tenant_id"`
	ExpiresAt  time.Time  `gorm:"column:expires_at"`
	Revoked    bool       `gorm:"column:revoked"`
	ReplacedBy *string    `gorm:"column:replaced_by"`
	RevokedAt  *time.Time `gorm:"column:revoked_at"`
	CreatedAt  time.Time  `gorm:"column:created_at"`
}

func (refreshTokenModel) TableName() string { return "refresh_tokens" }

type authOutboxModel struct {
	OutboxID       uuid.UUID  `gorm:"column:outbox_id;type:uuid;primaryKey"`
	EventType      string     `gorm:"column:event_type"`
	PartitionKey   string     `gorm:"column:partition_key"`
	Payload        string     `gorm:"column:payload;type:jsonb"`
	CreatedAt      time.Time  `gorm:"column:created_at"`
	FirstSeenAt    time.Time  `gorm:"column:first_seen_at"`
	PublishedAt    *time.Time `gorm:"column:published_at"`
	RetryCount     int        `gorm:"column:retry_count"`
	LastError      *string    `gorm:"column:last_error"`
	LastErrorAt    *time.Time `gorm:"column:last_error_at"`
	ClaimToken     *string    `gorm:"column:claim_token"`
	ClaimUntil     *time.Time `gorm:"column:claim_until"`
	DeadLetteredAt *time.Time `gorm:"column:dead_lettered_at"`
}

func (authOutboxModel) TableName() string { return "auth_outbox" }
