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

type identityRepository struct {
	db *gorm.DB
}

func (r *identityRepository) CreateWithMembershipTx(ctx context.Context, params ports.CreateIdentityTxParams, outboxEvent ports.OutboxEvent) (domain.Identity, error) {
	var result domain.Identity
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rec := identityModel{
			Email:        params.Email,
			PasswordHash: params.PasswordHash,
			TOTPSecret:   params.TOTPSecret,
			CreatedAt:    params.RegisteredAtUTC,
			UpdatedAt:    params.RegisteredAtUTC,
		}
		if err := tx.Create(&rec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		membership := membershipModel{
			IdentityID: rec.IdentityID,
			TenantID:   params.TenantID,
			Role:       string(params.Role),
			CreatedAt:  params.RegisteredAtUTC,
		}
		if err := tx.Create(&membership).Error; err != nil {
			return err
		}

		outbox := authOutboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: rec.IdentityID.String(),
			Payload:      outboxPayload(outboxEvent.Payload),
			CreatedAt:    outboxEvent.OccurredAt,
			FirstSeenAt:  outboxEvent.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}

		result = toDomainIdentity(rec)
		return nil
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return result, nil
}

func (r *identityRepository) GetByEmail(ctx context.Context, email string) (domain.Identity, error) {
	var rec identityModel
	if err := r.db.WithContext(ctx).Where("email = ?", email).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Identity{}, domain.ErrNotFound
		}
		return domain.Identity{}, err
	}
	return toDomainIdentity(rec), nil
}

func (r *identityRepository) GetByID(ctx context.Context, identityID uuid.UUID) (domain.Identity, error) {
	var rec identityModel
	if err := r.db.WithContext(ctx).Where("identity_id = ?", identityID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Identity{}, domain.ErrNotFound
		}
		return domain.Identity{}, err
	}
	return toDomainIdentity(rec), nil
}

func (r *identityRepository) UpdatePassword(ctx context.Context, identityID uuid.UUID, passwordHash string, updatedAt time.Time) error {
	res := r.db.WithContext(ctx).
		Model(&identityModel{}).
		Where("identity_id = ?", identityID).
		Updates(map[string]any{
			"password_hash": passwordHash,
			"updated_at":    updatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}
