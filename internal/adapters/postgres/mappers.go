package postgres

import (
	"github.com/authplug/broker/internal/domain"
)

func toDomainTenant(row tenantModel) domain.Tenant {
	return domain.Tenant{
		TenantID:  row.TenantID,
		Name:      row.Name,
		CreatedAt: row.CreatedAt,
	}
}

func toDomainIdentity(row identityModel) domain.Identity {
	return domain.Identity{
		IdentityID:   row.IdentityID,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		TOTPSecret:   row.TOTPSecret,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func toDomainMembership(row membershipModel) domain.Membership {
	return domain.Membership{
		MembershipID: row.MembershipID,
		IdentityID:   row.IdentityID,
		TenantID:     row.TenantID,
		Role:         domain.Role(row.Role),
		CreatedAt:    row.CreatedAt,
	}
}

func toDomainOrigin(row allowedOriginModel) domain.AllowedOrigin {
	return domain.AllowedOrigin{
		OriginID:  row.OriginID,
		TenantID:  row.TenantID,
		Origin:    row.Origin,
		CreatedAt: row.CreatedAt,
	}
}

func toDomainRefreshToken(row refreshTokenModel) domain.RefreshToken {
	return domain.RefreshToken{
		TokenID:    row.TokenID,
		TokenHash:  row.TokenHash,
		IdentityID: row.IdentityID,
		TenantID:   row.TenantID,
		ExpiresAt:  row.ExpiresAt,
		Revoked:    row.Revoked,
		ReplacedBy: row.ReplacedBy,
		CreatedAt:  row.CreatedAt,
	}
}
