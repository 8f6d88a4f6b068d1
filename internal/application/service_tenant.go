package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
)

// StartTenantRegistration stages a new company signup together with its
// founding admin. Like user registration, nothing durable exists until the
// admin proves TOTP enrollment.
func (s *Service) StartTenantRegistration(ctx context.Context, req StartTenantRegistrationRequest) (StartRegistrationResponse, error) {
	email, err := normalizeEmail(req.Email)
	if err != nil {
		return StartRegistrationResponse{}, err
	}
	if err := requireFields("company_name", req.CompanyName); err != nil {
		return StartRegistrationResponse{}, err
	}
	if err := domain.ValidatePassword(req.Password); err != nil {
		return StartRegistrationResponse{}, err
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
	handshake := ports.TenantHandshake{
		CompanyName:  req.CompanyName,
		Email:        email,
		PasswordHash: passwordHash,
		TOTPSecret:   secret,
		ExpiresAt:    s.nowFn().Add(s.cfg.RegistrationHandshakeTTL),
	}
	if err := s.tenantRegs.Put(ctx, token, handshake, s.cfg.RegistrationHandshakeTTL); err != nil {
		return StartRegistrationResponse{}, fmt.Errorf("stage tenant registration: %w", err)
	}

	return StartRegistrationResponse{
		HandshakeToken: token,
		EnrollmentURI:  s.totp.EnrollmentURI(email, secret),
		ExpiresIn:      ttlSeconds(s.cfg.RegistrationHandshakeTTL),
	}, nil
}

// CompleteTenantRegistration verifies the founding admin's enrollment code
// and materializes the tenant, admin identity, and admin membership in one
// transaction.
func (s *Service) CompleteTenantRegistration(ctx context.Context, req CompleteHandshakeRequest) (CompleteTenantRegistrationResponse, error) {
	if err := requireFields("handshake_token", req.HandshakeToken, "totp_code", req.TOTPCode); err != nil {
		return CompleteTenantRegistrationResponse{}, err
	}

	staged, err := s.tenantRegs.Get(ctx, req.HandshakeToken)
	if err != nil {
		return CompleteTenantRegistrationResponse{}, fmt.Errorf("load tenant handshake: %w", err)
	}
	if staged == nil {
		return CompleteTenantRegistrationResponse{}, domain.ErrHandshakeExpired
	}
	if !s.totp.Verify(staged.TOTPSecret, req.TOTPCode, s.nowFn()) {
		return CompleteTenantRegistrationResponse{}, fmt.Errorf("%w: invalid verification code", domain.ErrInvalidCredentials)
	}

	consumed, err := s.tenantRegs.Take(ctx, req.HandshakeToken)
	if err != nil {
		return CompleteTenantRegistrationResponse{}, fmt.Errorf("consume tenant handshake: %w", err)
	}
	if consumed == nil {
		return CompleteTenantRegistrationResponse{}, domain.ErrHandshakeExpired
	}

	now := s.nowFn()
	payload, _ := json.Marshal(map[string]any{
		"company_name":  consumed.CompanyName,
		"admin_email":   consumed.Email,
		"registered_at": now,
	})
	tenant, identity, err := s.tenants.CreateWithAdminTx(ctx, ports.CreateTenantTxParams{
		Name:            consumed.CompanyName,
		AdminEmail:      consumed.Email,
		PasswordHash:    consumed.PasswordHash,
		TOTPSecret:      consumed.TOTPSecret,
		RegisteredAtUTC: now,
	}, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "tenant.registered",
		PartitionKey: consumed.Email,
		Payload:      payload,
		OccurredAt:   now,
	})
	if err != nil {
		return CompleteTenantRegistrationResponse{}, fmt.Errorf("create tenant: %w", err)
	}

	return CompleteTenantRegistrationResponse{
		TenantID:   tenant.TenantID,
		IdentityID: identity.IdentityID,
	}, nil
}
