package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
)

// StartRegistration validates the request, verifies the redirect origin, and
// stages the pending registration. No durable record is written here; an
// abandoned registration evaporates with its TTL.
func (s *Service) StartRegistration(ctx context.Context, req StartRegistrationRequest) (StartRegistrationResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return StartRegistrationResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return StartRegistrationResponse{}, err
	}
	if err := requireFields("redirect_url", req.RedirectURL); err != nil {
		return StartRegistrationResponse{}, err
	}

	if _, err := s.tenants.GetByID(ctx, req.TenantID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return StartRegistrationResponse{}, fmt.Errorf("%w: tenant not found", domain.ErrNotFound)
		}
		return StartRegistrationResponse{}, fmt.Errorf("load tenant: %w", err)
	}

	// Redirect gate runs before any identity-bearing state is staged.
	if !s.gate.Allowed(ctx, req.TenantID, req.RedirectURL) {
		return StartRegistrationResponse{}, domain.ErrRedirectNotAllowed
	}

	if _, err := s.identities.GetByEmail(ctx, email); err == nil {
		return StartRegistrationResponse{}, fmt.Errorf("%w: email already registered", domain.ErrConflict)
	} else if !errors.Is(err, domain.ErrNotFound) {
		return StartRegistrationResponse{}, fmt.Errorf("lookup identity: %w", err)
	}

	passwordHash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return StartRegistrationResponse{}, fmt.Errorf("hash password: %w", err)
	}
	secret, err := s.totp.GenerateSecret()
	if err != nil {
		return StartRegistrationResponse{}, fmt.Errorf("generate totp secret: %w", err)
	}

	token := randomHex(32)
	handshake := ports.RegistrationHandshake{
		Email:        email,
		PasswordHash: passwordHash,
		TenantID:     req.TenantID,
		TOTPSecret:   secret,
		RedirectURL:  req.RedirectURL,
		ExpiresAt:    s.nowFn().Add(s.cfg.RegistrationHandshakeTTL),
	}
	if err := s.registrations.Put(ctx, token, handshake, s.cfg.RegistrationHandshakeTTL); err != nil {
		return StartRegistrationResponse{}, fmt.Errorf("stage registration: %w", err)
	}

	return StartRegistrationResponse{
		HandshakeToken: token,
		EnrollmentURI:  s.totp.EnrollmentURI(email, secret),
		ExpiresIn:      ttlSeconds(s.cfg.RegistrationHandshakeTTL),
	}, nil
}

// CompleteRegistration verifies the enrollment code and materializes the
// identity, membership, refresh token, and exchange code.
//
// A wrong code leaves the handshake staged so the caller can retry within the
// TTL; the consuming Take happens only after verification succeeds, which
// guarantees at most one completion per handshake even under a double-submit.
func (s *Service) CompleteRegistration(ctx context.Context, req CompleteHandshakeRequest) (CompleteFlowResponse, error) {
	if err := requireFields("handshake_token", req.HandshakeToken, "totp_code", req.TOTPCode); err != nil {
		return CompleteFlowResponse{}, err
	}

	staged, err := s.registrations.Get(ctx, req.HandshakeToken)
	if err != nil {
		return CompleteFlowResponse{}, fmt.Errorf("load registration handshake: %w", err)
	}
	if staged == nil {
		return CompleteFlowResponse{}, domain.ErrHandshakeExpired
	}
	if !s.totp.Verify(staged.TOTPSecret, req.TOTPCode, s.nowFn()) {
		return CompleteFlowResponse{}, fmt.Errorf("%w: invalid verification code", domain.ErrInvalidCredentials)
	}

	consumed, err := s.registrations.Take(ctx, req.HandshakeToken)
	if err != nil {
		return CompleteFlowResponse{}, fmt.Errorf("consume registration handshake: %w", err)
	}
	if consumed == nil {
		// Lost the consume race to a concurrent submit.
		return CompleteFlowResponse{}, domain.ErrHandshakeExpired
	}

	now := s.nowFn()
	identity, err := s.identities.CreateWithMembershipTx(ctx, ports.CreateIdentityTxParams{
		Email:           consumed.Email,
		PasswordHash:    consumed.PasswordHash,
		TOTPSecret:      consumed.TOTPSecret,
		TenantID:        consumed.TenantID,
		Role:            domain.RoleUser,
		RegisteredAtUTC: now,
	}, s.registrationEvent(consumed.Email, consumed.TenantID.String(), now))
	if err != nil {
		return CompleteFlowResponse{}, fmt.Errorf("create identity: %w", err)
	}

	rawRefresh, refresh, err := s.issueRefreshToken(ctx, identity.IdentityID, consumed.TenantID)
	if err != nil {
		return CompleteFlowResponse{}, err
	}

	code, err := s.stageExchangeCode(ctx, ports.ExchangeGrant{
		IdentityID: identity.IdentityID,
		Email:      identity.Email,
		TenantID:   consumed.TenantID,
		Role:       domain.RoleUser,
	})
	if err != nil {
		return CompleteFlowResponse{}, err
	}

	return CompleteFlowResponse{
		ExchangeCode: code,
		RedirectURL:  consumed.RedirectURL,
		Identity: IdentitySummary{
			IdentityID: identity.IdentityID,
			Email:      identity.Email,
			TenantID:   consumed.TenantID,
			Role:       domain.RoleUser,
		},
		RefreshToken:          rawRefresh,
		RefreshTokenExpiresAt: refresh.ExpiresAt,
	}, nil
}
