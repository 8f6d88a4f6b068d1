package postgres

import (
	"context"
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type originRepository struct {
	db *gorm.DB
}

func (r *originRepository) Exists(ctx context.Context, tenantID uuid.UUID, origin string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&allowedOriginModel{}).
		Where("tenant_id = ?", tenantID).
		Where("origin = ?", origin).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *originRepository) ListByTenant(ctx context.Context, tenantID uuid.UUID) ([]domain.AllowedOrigin, error) {
	var rows []allowedOriginModel
	if err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	result := make([]domain.AllowedOrigin, 0, len(rows))
	for _, row := range rows {
		result = append(result, toDomainOrigin(row))
	}
	return result, nil
}

func (r *originRepository) CountByTenant(ctx context.Context, tenantID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&allowedOriginModel{}).
		Where("tenant_id = ?", tenantID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func (r *originRepository) Create(ctx context.Context, tenantID uuid.UUID, origin string, createdAt time.Time) (domain.AllowedOrigin, error) {
	rec := allowedOriginModel{
		TenantID:  tenantID,
		Origin:    origin,
		CreatedAt: createdAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.AllowedOrigin{}, domain.ErrConflict
		}
		return domain.AllowedOrigin{}, err
	}
	return toDomainOrigin(rec), nil
}

func (r *originRepository) Delete(ctx context.Context, tenantID, originID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Where("origin_id = ?", originID).
		Delete(&allowedOriginModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
