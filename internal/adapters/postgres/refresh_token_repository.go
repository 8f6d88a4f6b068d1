package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type refreshTokenRepository struct {
	db *gorm.DB
}

func (r *refreshTokenRepository) Create(ctx context.Context, params ports.CreateRefreshTokenParams) (domain.RefreshToken, error) {
	rec := refreshTokenModel{
		TokenHash:  params.TokenHash,
		IdentityID: params.IdentityID,
		TenantID:   params.TenantID,
		ExpiresAt:  params.ExpiresAt,
		CreatedAt:  params.CreatedAt,
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.RefreshToken{}, domain.ErrConflict
		}
		return domain.RefreshToken{}, err
	}
	return toDomainRefreshToken(rec), nil
}

func (r *refreshTokenRepository) GetActiveByHash(ctx context.Context, tokenHash string) (domain.RefreshToken, error) {
	var rec refreshTokenModel
	if err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Where("revoked = FALSE").
		Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.RefreshToken{}, domain.ErrNotFound
		}
		return domain.RefreshToken{}, err
	}
	return toDomainRefreshToken(rec), nil
}

// RotateTx creates the successor and revokes the predecessor in one
// transaction. The predecessor row is locked and re-checked inside the
// transaction so two concurrent rotations of the same token cannot both
// succeed.
func (r *refreshTokenRepository) RotateTx(ctx context.Context, predecessorID uuid.UUID, successor ports.CreateRefreshTokenParams) (domain.RefreshToken, error) {
	var result domain.RefreshToken
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var predecessor refreshTokenModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("token_id = ?", predecessorID).
			Where("revoked = FALSE").
			Take(&predecessor).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrNotFound
			}
			return err
		}

		rec := refreshTokenModel{
			TokenHash:  successor.TokenHash,
			IdentityID: successor.IdentityID,
			TenantID:   successor.TenantID,
			ExpiresAt:  successor.ExpiresAt,
			CreatedAt:  successor.CreatedAt,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		if err := tx.Model(&refreshTokenModel{}).
			Where("token_id = ?", predecessor.TokenID).
			Updates(map[string]any{
				"revoked":     true,
				"revoked_at":  successor.CreatedAt,
				"replaced_by": rec.TokenHash,
			}).Error; err != nil {
			return err
		}

		result = toDomainRefreshToken(rec)
		return nil
	})
	if err != nil {
		return domain.RefreshToken{}, err
	}
	return result, nil
}

func (r *refreshTokenRepository) Revoke(ctx context.Context, tokenHash string, revokedAt time.Time) error {
	return r.db.WithContext(ctx).
		Model(&refreshTokenModel{}).
		Where("token_hash = ?", tokenHash).
		Where("revoked = FALSE").
		Updates(map[string]any{
			"revoked":    true,
			"revoked_at": revokedAt,
		}).Error
}
