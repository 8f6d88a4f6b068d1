package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type membershipRepository struct {
	db *gorm.DB
}

func (r *membershipRepository) Get(ctx context.Context, identityID, tenantID uuid.UUID) (domain.Membership, error) {
	var rec membershipModel
	if err := r.db.WithContext(ctx).
		Where("identity_id = ?", identityID).
		Where("tenant_id = ?", tenantID).
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Membership{}, domain.ErrNotFound
		}
		return domain.Membership{}, err
	}
	return toDomainMembership(rec), nil
}

func (r *membershipRepository) Create(ctx context.Context, identityID, tenantID uuid.UUID, role domain.Role, createdAt time.Time) (domain.Membership, error) {
	rec := membershipModel{
		IdentityID: identityID,
		TenantID:   tenantID,
		Role:       string(role),
		CreatedAt:  createdAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.Membership{}, domain.ErrConflict
		}
		return domain.Membership{}, err
	}
	return toDomainMembership(rec), nil
}

func (r *membershipRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]ports.MemberRecord, error) {
	var rows []struct {
		IdentityID uuid.UUID `gorm:"column:identity_id"`
		Email      string    `gorm:"column:email"`
		Role       string    `gorm:"column:role"`
		JoinedAt   time.Time `gorm:"column:joined_at"`
	}
	if err := r.db.WithContext(ctx).
		Table("memberships").
		Select("memberships.identity_id, identities.email, memberships.role, memberships.created_at AS joined_at").
		Joins("JOIN identities ON identities.identity_id = memberships.identity_id").
		Where("memberships.tenant_id = ?", tenantID).
		Order("memberships.created_at ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	result := make([]ports.MemberRecord, 0, len(rows))
	for _, row := range rows {
		result = append(result, ports.MemberRecord{
			IdentityID: row.IdentityID,
			Email:      row.Email,
			Role:       domain.Role(row.Role),
			JoinedAt:   row.JoinedAt,
		})
	}
	return result, nil
}

func (r *membershipRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&membershipModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
