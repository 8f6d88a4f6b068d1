package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
)

// Dashboard operations. Every method takes the validated session claims; the
// HTTP adapter has already enforced the admin role, and tenant scoping comes
// from the claims rather than the request so an admin can only ever see
// their own tenant.

func (s *Service) Profile(ctx context.Context, claims ports.AccessClaims) (AdminProfile, error) {
	tenant, err := s.tenants.GetByID(ctx, claims.TenantID)
	if err != nil {
		return AdminProfile{}, fmt.Errorf("load tenant: %w", err)
	}
	return AdminProfile{
		IdentityID:  claims.IdentityID,
		Email:       claims.Email,
		TenantID:    claims.TenantID,
		Role:        claims.Role,
		CompanyName: tenant.Name,
	}, nil
}

func (s *Service) Stats(ctx context.Context, claims ports.AccessClaims) (TenantStats, error) {
	members, err := s.memberships.CountByTenant(ctx, claims.TenantID)
	if err != nil {
		return TenantStats{}, fmt.Errorf("count members: %w", err)
	}
	origins, err := s.origins.CountByTenant(ctx, claims.TenantID)
	if err != nil {
		return TenantStats{}, fmt.Errorf("count origins: %w", err)
	}
	return TenantStats{TotalMembers: members, TotalOrigins: origins}, nil
}

func (s *Service) ListMembers(ctx context.Context, claims ports.AccessClaims) ([]MemberItem, error) {
	records, err := s.memberships.ListByTenant(ctx, claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list members: %w", err)
	}
	items := make([]MemberItem, 0, len(records))
	for _, r := range records {
		items = append(items, MemberItem{
			IdentityID: r.IdentityID,
			Email:      r.Email,
			Role:       r.Role,
			JoinedAt:   r.JoinedAt,
		})
	}
	return items, nil
}

// ChangePassword re-verifies the current password before accepting the new
// one. Session tokens and refresh tokens issued earlier stay valid; password
// change is not a revocation event.
func (s *Service) ChangePassword(ctx context.Context, claims ports.AccessClaims, req ChangePasswordRequest) error {
	if err := requireFields("current_password", req.CurrentPassword); err != nil {
		return err
	}
	if err := domain.ValidatePassword(req.NewPassword); err != nil {
		return err
	}

	identity, err := s.identities.GetByID(ctx, claims.IdentityID)
	if err != nil {
		return fmt.Errorf("load identity: %w", err)
	}
	if err := s.hasher.Compare(identity.PasswordHash, req.CurrentPassword); err != nil {
		return domain.ErrInvalidCredentials
	}

	newHash, err := s.hasher.Hash(req.NewPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.identities.UpdatePassword(ctx, identity.IdentityID, newHash, s.nowFn()); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

func (s *Service) ListOrigins(ctx context.Context, claims ports.AccessClaims) ([]OriginItem, error) {
	origins, err := s.origins.ListByTenant(ctx, claims.TenantID)
	if err != nil {
		return nil, fmt.Errorf("list origins: %w", err)
	}
	items := make([]OriginItem, 0, len(origins))
	for _, o := range origins {
		items = append(items, OriginItem{
			OriginID:  o.OriginID,
			Origin:    o.Origin,
			CreatedAt: o.CreatedAt,
		})
	}
	return items, nil
}

// AddOrigin normalizes the submitted URL to its origin before storing it, so
// the allow-list never contains paths, queries, or non-http schemes.
func (s *Service) AddOrigin(ctx context.Context, claims ports.AccessClaims, rawURL string) (OriginItem, error) {
	origin, err := NormalizeOrigin(rawURL)
	if err != nil {
		return OriginItem{}, err
	}
	created, err := s.origins.Create(ctx, claims.TenantID, origin, s.nowFn())
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return OriginItem{}, fmt.Errorf("%w: origin already allowed", domain.ErrConflict)
		}
		return OriginItem{}, fmt.Errorf("create origin: %w", err)
	}
	return OriginItem{
		OriginID:  created.OriginID,
		Origin:    created.Origin,
		CreatedAt: created.CreatedAt,
	}, nil
}

func (s *Service) RemoveOrigin(ctx context.Context, claims ports.AccessClaims, originID uuid.UUID) error {
	if err := s.origins.Delete(ctx, claims.TenantID, originID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("%w: origin not found", domain.ErrNotFound)
		}
		return fmt.Errorf("delete origin: %w", err)
	}
	return nil
}
