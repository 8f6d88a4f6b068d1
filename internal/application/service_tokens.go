package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
)

// Exchange redeems a single-use exchange code for a short-lived access token.
// The code is consumed atomically, so a replayed redemption loses the race
// and gets the same answer as an expired code.
func (s *Service) Exchange(ctx context.Context, req ExchangeRequest) (ExchangeResponse, error) {
	if err := requireFields("exchange_code", req.ExchangeCode); err != nil {
		return ExchangeResponse{}, err
	}

	grant, err := s.exchange.Take(ctx, req.ExchangeCode)
	if err != nil {
		return ExchangeResponse{}, fmt.Errorf("consume exchange code: %w", err)
	}
	if grant == nil {
		return ExchangeResponse{}, fmt.Errorf("%w: invalid or expired exchange code", domain.ErrUnauthorized)
	}
	// The code is bound to the tenant that issued it. A mismatched claim
	// burns the code rather than leaving it redeemable.
	if grant.TenantID != req.TenantID {
		return ExchangeResponse{}, fmt.Errorf("%w: invalid or expired exchange code", domain.ErrUnauthorized)
	}

	now := s.nowFn()
	access, err := s.signer.Sign(ports.AccessClaims{
		IdentityID: grant.IdentityID,
		Email:      grant.Email,
		TenantID:   grant.TenantID,
		Role:       grant.Role,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.cfg.AccessTokenTTL),
	})
	if err != nil {
		return ExchangeResponse{}, fmt.Errorf("sign access token: %w", err)
	}

	return ExchangeResponse{
		AccessToken: access,
		ExpiresIn:   ttlSeconds(s.cfg.AccessTokenTTL),
		Identity: IdentitySummary{
			IdentityID: grant.IdentityID,
			Email:      grant.Email,
			TenantID:   grant.TenantID,
			Role:       grant.Role,
		},
	}, nil
}

// Rotate exchanges a valid refresh token for a new access token and a
// successor refresh token. The predecessor is revoked in the same database
// transaction that creates the successor.
//
// An expired token is reported without being rotated; revoked and unknown
// tokens are indistinguishable to the caller.
func (s *Service) Rotate(ctx context.Context, rawRefreshToken string) (RotateResponse, error) {
	if err := requireFields("refresh_token", rawRefreshToken); err != nil {
		return RotateResponse{}, fmt.Errorf("%w: missing refresh token", domain.ErrUnauthorized)
	}

	current, err := s.refreshTokens.GetActiveByHash(ctx, hashToken(rawRefreshToken))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return RotateResponse{}, fmt.Errorf("%w: invalid or revoked refresh token", domain.ErrTokenRevoked)
		}
		return RotateResponse{}, fmt.Errorf("lookup refresh token: %w", err)
	}

	now := s.nowFn()
	if now.After(current.ExpiresAt) {
		return RotateResponse{}, fmt.Errorf("%w: refresh token expired", domain.ErrTokenExpired)
	}

	// Role and email come from the durable store, not the old token, so a
	// rotation picks up any membership change made since issuance.
	membership, err := s.memberships.Get(ctx, current.IdentityID, current.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return RotateResponse{}, fmt.Errorf("%w: membership no longer exists", domain.ErrForbidden)
		}
		return RotateResponse{}, fmt.Errorf("lookup membership: %w", err)
	}
	identity, err := s.identities.GetByID(ctx, current.IdentityID)
	if err != nil {
		return RotateResponse{}, fmt.Errorf("load identity: %w", err)
	}

	rawSuccessor := randomHex(32)
	successor, err := s.refreshTokens.RotateTx(ctx, current.TokenID, ports.CreateRefreshTokenParams{
		TokenHash:  hashToken(rawSuccessor),
		IdentityID: current.IdentityID,
		TenantID:   current.TenantID,
		ExpiresAt:  now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt:  now,
	})
	if err != nil {
		return RotateResponse{}, fmt.Errorf("rotate refresh token: %w", err)
	}

	access, err := s.signer.Sign(ports.AccessClaims{
		IdentityID: identity.IdentityID,
		Email:      identity.Email,
		TenantID:   current.TenantID,
		Role:       membership.Role,
		IssuedAt:   now,
		ExpiresAt:  now.Add(s.cfg.RefreshedAccessTokenTTL),
	})
	if err != nil {
		return RotateResponse{}, fmt.Errorf("sign access token: %w", err)
	}

	s.enqueueEvent(ctx, "refresh_token.rotated", identity.Email, map[string]any{
		"identity_id": identity.IdentityID,
		"tenant_id":   current.TenantID,
		"rotated_at":  now,
	})

	return RotateResponse{
		AccessToken: access,
		ExpiresIn:   ttlSeconds(s.cfg.RefreshedAccessTokenTTL),
		Identity: IdentitySummary{
			IdentityID: identity.IdentityID,
			Email:      identity.Email,
			TenantID:   current.TenantID,
			Role:       membership.Role,
		},
		RefreshToken:          rawSuccessor,
		RefreshTokenExpiresAt: successor.ExpiresAt,
	}, nil
}

// Logout revokes the presented refresh token. It is idempotent: absent,
// expired, and already-revoked tokens all succeed, because the caller's goal
// is a dead session either way.
func (s *Service) Logout(ctx context.Context, rawRefreshToken string) error {
	if rawRefreshToken == "" {
		return nil
	}
	if err := s.refreshTokens.Revoke(ctx, hashToken(rawRefreshToken), s.nowFn()); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// ValidateAccessToken parses and validates a signed access or admin session
// token. Used by the HTTP admin middleware and the internal gRPC surface.
func (s *Service) ValidateAccessToken(_ context.Context, token string) (ports.AccessClaims, error) {
	claims, err := s.signer.ParseAndValidate(token)
	if err != nil {
		return ports.AccessClaims{}, fmt.Errorf("%w: %v", domain.ErrUnauthorized, err)
	}
	return claims, nil
}

// PublicJWKs exposes the active verification keys so resource servers can
// validate access tokens offline.
func (s *Service) PublicJWKs(_ context.Context) ([]map[string]any, error) {
	keys, err := s.signer.PublicJWKs()
	if err != nil {
		return nil, fmt.Errorf("export jwks: %w", err)
	}
	return keys, nil
}
