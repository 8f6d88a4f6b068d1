package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
)

// StartLogin verifies first-factor credentials and stages the TOTP challenge.
// Unknown email and wrong password produce the same sentinel so responses
// cannot be used to probe which accounts exist.
func (s *Service) StartLogin(ctx context.Context, req StartLoginRequest) (StartLoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return StartLoginResponse{}, err
	}
	if err := requireFields("password", req.Password, "redirect_url", req.RedirectURL); err != nil {
		return StartLoginResponse{}, err
	}

	if _, err := s.tenants.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return StartLoginResponse{}, fmt.Errorf("%w: tenant not found", domain.ErrNotFound)
		}
		return StartLoginResponse{}, fmt.Errorf("load tenant: %w", err)
	}
	if !s.gate.Allowed(ctx, req.TenantID, req.RedirectURL) {
		return StartLoginResponse{}, domain.ErrRedirectNotAllowed
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return StartLoginResponse{}, domain.ErrInvalidCredentials
		}
		return StartLoginResponse{}, fmt.Errorf("lookup identity: %w", err)
	}
	if err := s.hasher.Compare(identity.PasswordHash, req.Password); err != nil {
		return StartLoginResponse{}, domain.ErrInvalidCredentials
	}
	if !identity.TwoFactorEnrolled() {
		return StartLoginResponse{}, domain.ErrTwoFactorNotEnrolled
	}

	membership, err := s.ensureMembership(ctx, identity.IdentityID, req.TenantID)
	if err != nil {
		return StartLoginResponse{}, err
	}

	token := randomHex(32)
	handshake := ports.LoginHandshake{
		IdentityID:  identity.IdentityID,
		Email:       identity.Email,
		TenantID:    req.TenantID,
		Role:        membership.Role,
		TOTPSecret:  identity.TOTPSecret,
		RedirectURL: req.RedirectURL,
		ExpiresAt:   s.nowFn().Add(s.cfg.LoginHandshakeTTL),
	}
	if err := s.logins.Put(ctx, ports.HandshakeLogin, token, handshake, s.cfg.LoginHandshakeTTL); err != nil {
		return StartLoginResponse{}, fmt.Errorf("stage login: %w", err)
	}

	return StartLoginResponse{
		HandshakeToken: token,
		ExpiresIn:      ttlSeconds(s.cfg.LoginHandshakeTTL),
	}, nil
}

// CompleteLogin verifies the TOTP challenge and issues the flow artifact.
// Same consume ordering as registration: verify against the staged copy,
// then Take, so retries survive a wrong code but completion happens once.
func (s *Service) CompleteLogin(ctx context.Context, req CompleteHandshakeRequest) (CompleteFlowResponse, error) {
	if err := requireFields("handshake_token", req.HandshakeToken, "totp_code", req.TOTPCode); err != nil {
		return CompleteFlowResponse{}, err
	}

	staged, err := s.logins.Get(ctx, ports.HandshakeLogin, req.HandshakeToken)
	if err != nil {
		return CompleteFlowResponse{}, fmt.Errorf("load login handshake: %w", err)
	}
	if staged == nil {
		return CompleteFlowResponse{}, domain.ErrHandshakeExpired
	}
	if !s.totp.Verify(staged.TOTPSecret, req.TOTPCode, s.nowFn()) {
		return CompleteFlowResponse{}, fmt.Errorf("%w: invalid verification code", domain.ErrInvalidCredentials)
	}

	consumed, err := s.logins.Take(ctx, ports.HandshakeLogin, req.HandshakeToken)
	if err != nil {
		return CompleteFlowResponse{}, fmt.Errorf("consume login handshake: %w", err)
	}
	if consumed == nil {
		return CompleteFlowResponse{}, domain.ErrHandshakeExpired
	}

	rawRefresh, refresh, err := s.issueRefreshToken(ctx, consumed.IdentityID, consumed.TenantID)
	if err != nil {
		return CompleteFlowResponse{}, err
	}

	code, err := s.stageExchangeCode(ctx, ports.ExchangeGrant{
		IdentityID: consumed.IdentityID,
		Email:      consumed.Email,
		TenantID:   consumed.TenantID,
		Role:       consumed.Role,
	})
	if err != nil {
		return CompleteFlowResponse{}, err
	}

	s.enqueueEvent(ctx, "identity.login.succeeded", consumed.Email, map[string]any{
		"identity_id":  consumed.IdentityID,
		"tenant_id":    consumed.TenantID,
		"logged_in_at": s.nowFn(),
	})

	return CompleteFlowResponse{
		ExchangeCode: code,
		RedirectURL:  consumed.RedirectURL,
		Identity: IdentitySummary{
			IdentityID: consumed.IdentityID,
			Email:      consumed.Email,
			TenantID:   consumed.TenantID,
			Role:       consumed.Role,
		},
		RefreshToken:          rawRefresh,
		RefreshTokenExpiresAt: refresh.ExpiresAt,
	}, nil
}

// StartAdminLogin stages the TOTP challenge for a dashboard session.
// Membership and role checks run before the password comparison is reported
// so the caller cannot distinguish "wrong password" from "not an admin here".
func (s *Service) StartAdminLogin(ctx context.Context, req StartAdminLoginRequest) (StartLoginResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return StartLoginResponse{}, err
	}
	if err := requireFields("password", req.Password); err != nil {
		return StartLoginResponse{}, err
	}

	identity, err := s.identities.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return StartLoginResponse{}, domain.ErrInvalidCredentials
		}
		return StartLoginResponse{}, fmt.Errorf("lookup identity: %w", err)
	}

	membership, err := s.memberships.Get(ctx, identity.IdentityID, req.TenantID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return StartLoginResponse{}, domain.ErrInvalidCredentials
		}
		return StartLoginResponse{}, fmt.Errorf("lookup membership: %w", err)
	}
	if membership.Role != domain.RoleAdmin {
		return StartLoginResponse{}, domain.ErrInvalidCredentials
	}

	if err := s.hasher.Compare(identity.PasswordHash, req.Password); err != nil {
		return StartLoginResponse{}, domain.ErrInvalidCredentials
	}
	if !identity.TwoFactorEnrolled() {
		return StartLoginResponse{}, domain.ErrTwoFactorNotEnrolled
	}

	token := randomHex(32)
	handshake := ports.LoginHandshake{
		IdentityID: identity.IdentityID,
		Email:      identity.Email,
		TenantID:   req.TenantID,
		Role:       domain.RoleAdmin,
		TOTPSecret: identity.TOTPSecret,
		ExpiresAt:  s.nowFn().Add(s.cfg.LoginHandshakeTTL),
	}
	if err := s.logins.Put(ctx, ports.HandshakeAdminLogin, token, handshake, s.cfg.LoginHandshakeTTL); err != nil {
		return StartLoginResponse{}, fmt.Errorf("stage admin login: %w", err)
	}

	return StartLoginResponse{
		HandshakeToken: token,
		ExpiresIn:      ttlSeconds(s.cfg.LoginHandshakeTTL),
	}, nil
}

// CompleteAdminLogin verifies the challenge and signs the dashboard session
// token. Admin sessions skip the exchange-code hop entirely.
func (s *Service) CompleteAdminLogin(ctx context.Context, req CompleteHandshakeRequest) (CompleteAdminLoginResponse, error) {
	if err := requireFields("handshake_token", req.HandshakeToken, "totp_code", req.TOTPCode); err != nil {
		return CompleteAdminLoginResponse{}, err
	}

	staged, err := s.logins.Get(ctx, ports.HandshakeAdminLogin, req.HandshakeToken)
	if err != nil {
		return CompleteAdminLoginResponse{}, fmt.Errorf("load admin login handshake: %w", err)
	}
	if staged == nil {
		return CompleteAdminLoginResponse{}, domain.ErrHandshakeExpired
	}
	if !s.totp.Verify(staged.TOTPSecret, req.TOTPCode, s.nowFn()) {
		return CompleteAdminLoginResponse{}, fmt.Errorf("%w: invalid verification code", domain.ErrInvalidCredentials)
	}

	consumed, err := s.logins.Take(ctx, ports.HandshakeAdminLogin, req.HandshakeToken)
	if err != nil {
		return CompleteAdminLoginResponse{}, fmt.Errorf("consume admin login handshake: %w", err)
	}
	if consumed == nil {
		return CompleteAdminLoginResponse{}, domain.ErrHandshakeExpired
	}

	now := s.nowFn()
	expiresAt := now.Add(s.cfg.AdminSessionTTL)
	session, err := s.signer.Sign(ports.AccessClaims{
		IdentityID: consumed.IdentityID,
		Email:      consumed.Email,
		TenantID:   consumed.TenantID,
		Role:       consumed.Role,
		IssuedAt:   now,
		ExpiresAt:  expiresAt,
	})
	if err != nil {
		return CompleteAdminLoginResponse{}, fmt.Errorf("sign admin session: %w", err)
	}

	return CompleteAdminLoginResponse{
		Identity: IdentitySummary{
			IdentityID: consumed.IdentityID,
			Email:      consumed.Email,
			TenantID:   consumed.TenantID,
			Role:       consumed.Role,
		},
		SessionToken:          session,
		SessionTokenExpiresAt: expiresAt,
	}, nil
}

// ensureMembership returns the identity's membership in the tenant, creating
// a user-role one on first cross-tenant login. A concurrent create is folded
// into a re-read.
func (s *Service) ensureMembership(ctx context.Context, identityID, tenantID uuid.UUID) (domain.Membership, error) {
	membership, err := s.memberships.Get(ctx, identityID, tenantID)
	if err == nil {
		return membership, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return domain.Membership{}, fmt.Errorf("lookup membership: %w", err)
	}

	membership, err = s.memberships.Create(ctx, identityID, tenantID, domain.RoleUser, s.nowFn())
	if err == nil {
		return membership, nil
	}
	if errors.Is(err, domain.ErrConflict) {
		membership, err = s.memberships.Get(ctx, identityID, tenantID)
		if err != nil {
			return domain.Membership{}, fmt.Errorf("reload membership: %w", err)
		}
		return membership, nil
	}
	return domain.Membership{}, fmt.Errorf("create membership: %w", err)
}
