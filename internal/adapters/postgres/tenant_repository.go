package postgres

import (
	"context"
	"errors"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type tenantRepository struct {
	db *gorm.DB
}

func (r *tenantRepository) GetByID(ctx context.Context, tenantID uuid.UUID) (domain.Tenant, error) {
	var rec tenantModel
	if err := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID).Take(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Tenant{}, domain.ErrNotFound
		}
		return domain.Tenant{}, err
	}
	return toDomainTenant(rec), nil
}

func (r *tenantRepository) CreateWithAdminTx(ctx context.Context, params ports.CreateTenantTxParams, outboxEvent ports.OutboxEvent) (domain.Tenant, domain.Identity, error) {
	var (
		tenant   domain.Tenant
		identity domain.Identity
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tenantRec := tenantModel{
			Name:      params.Name,
			CreatedAt: params.RegisteredAtUTC,
		}
		if err := tx.Create(&tenantRec).Error; err != nil {
			return err
		}

		identityRec := identityModel{
			Email:        params.AdminEmail,
			PasswordHash: params.PasswordHash,
			TOTPSecret:   params.TOTPSecret,
			CreatedAt:    params.RegisteredAtUTC,
			UpdatedAt:    params.RegisteredAtUTC,
		}
		if err := tx.Create(&identityRec).Error; err != nil {
			if isUniqueViolation(err) {
				return domain.ErrConflict
			}
			return err
		}

		membershipRec := membershipModel{
			IdentityID: identityRec.IdentityID,
			TenantID:   tenantRec.TenantID,
			Role:       string(domain.RoleAdmin),
			CreatedAt:  params.RegisteredAtUTC,
		}
		if err := tx.Create(&membershipRec).Error; err != nil {
			return err
		}

		outbox := authOutboxModel{
			OutboxID:     outboxEvent.EventID,
			EventType:    outboxEvent.EventType,
			PartitionKey: tenantRec.TenantID.String(),
			Payload:      outboxPayload(outboxEvent.Payload),
			CreatedAt:    outboxEvent.OccurredAt,
			FirstSeenAt:  outboxEvent.OccurredAt,
		}
		if err := tx.Create(&outbox).Error; err != nil {
			return err
		}

		tenant = toDomainTenant(tenantRec)
		identity = toDomainIdentity(identityRec)
		return nil
	})
	if err != nil {
		return domain.Tenant{}, domain.Identity{}, err
	}
	return tenant, identity, nil
}

func outboxPayload(raw []byte) string {
	if len(raw) == 0 {
		return "{}"
	}
	return string(raw)
}
