package postgres

import (
	"errors"

	"github.com/authplug/broker/internal/ports"
	"gorm.io/gorm"
)

type Repositories struct {
	Tenants       ports.TenantRepository
	Identities    ports.IdentityRepository
	Memberships   ports.MembershipRepository
	Origins       ports.AllowedOriginRepository
	RefreshTokens ports.RefreshTokenRepository
	Outbox        ports.OutboxRepository
}

func NewRepositories(db *gorm.DB) Repositories {
	return Repositories{
		Tenants:       &tenantRepository{db: db},
		Identities:    &identityRepository{db: db},
		Memberships:   &membershipRepository{db: db},
		Origins:       &originRepository{db: db},
		RefreshTokens: &refreshTokenRepository{db: db},
		Outbox:        &outboxRepository{db: db},
	}
}

func isUniqueViolation(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
