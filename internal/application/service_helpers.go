package application

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
)

// normalizeEmail canonicalizes and validates email format before persistence/comparison.
func normalizeEmail(email string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(email))
	if trimmed == "" {
		return "", fmt.Errorf("%w: email is required", domain.ErrInvalidInput)
	}
	if _, err := mail.ParseAddress(trimmed); err != nil {
		return "", fmt.Errorf("%w: invalid email", domain.ErrInvalidInput)
	}
	return trimmed, nil
}

// hashToken stores one-way token fingerprints instead of raw secrets.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(token)))
	return hex.EncodeToString(sum[:])
}

// randomHex returns a cryptographically random hex token.
func randomHex(bytesLen int) string {
	raw := make([]byte, bytesLen)
	_, _ = rand.Read(raw)
	return hex.EncodeToString(raw)
}

// issueRefreshToken mints a fresh opaque refresh token and stores its hash.
// The raw value exists only in the return path to the cookie.
func (s *Service) issueRefreshToken(ctx context.Context, identityID, tenantID uuid.UUID) (raw string, token domain.RefreshToken, err error) {
	raw = randomHex(32)
	now := s.nowFn()
	token, err = s.refreshTokens.Create(ctx, ports.CreateRefreshTokenParams{
		TokenHash:  hashToken(raw),
		IdentityID: identityID,
		TenantID:   tenantID,
		ExpiresAt:  now.Add(s.cfg.RefreshTokenTTL),
		CreatedAt:  now,
	})
	if err != nil {
		return "", domain.RefreshToken{}, fmt.Errorf("create refresh token: %w", err)
	}
	return raw, token, nil
}

// stageExchangeCode binds an identity snapshot to a fresh single-use code.
func (s *Service) stageExchangeCode(ctx context.Context, grant ports.ExchangeGrant) (string, error) {
	code := randomHex(32)
	grant.ExpiresAt = s.nowFn().Add(s.cfg.ExchangeCodeTTL)
	if err := s.exchange.Put(ctx, code, grant, s.cfg.ExchangeCodeTTL); err != nil {
		return "", fmt.Errorf("stage exchange code: %w", err)
	}
	return code, nil
}

// enqueueEvent records a broker event best-effort. Flow outcomes never
// depend on event delivery.
func (s *Service) enqueueEvent(ctx context.Context, eventType, partitionKey string, payload map[string]any) {
	raw, _ := json.Marshal(payload)
	if err := s.outbox.Enqueue(ctx, ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    eventType,
		PartitionKey: partitionKey,
		Payload:      raw,
		OccurredAt:   s.nowFn(),
	}); err != nil {
		slog.Default().WarnContext(ctx, "failed to enqueue broker event",
			"service", "authplug-broker",
			"module", "application",
			"layer", "application",
			"operation", "enqueue_event",
			"outcome", "failure",
			"event_type", eventType,
			"error", err,
		)
	}
}

// registrationEvent builds the outbox payload written inside the same
// transaction as the new identity.
func (s *Service) registrationEvent(email, tenantID string, at time.Time) ports.OutboxEvent {
	payload, _ := json.Marshal(map[string]any{
		"email":         email,
		"tenant_id":     tenantID,
		"registered_at": at,
	})
	return ports.OutboxEvent{
		EventID:      uuid.New(),
		EventType:    "identity.registered",
		PartitionKey: email,
		Payload:      payload,
		OccurredAt:   at,
	}
}

func requireFields(pairs ...string) error {
	for i := 0; i+1 < len(pairs); i += 2 {
		if strings.TrimSpace(pairs[i+1]) == "" {
			return fmt.Errorf("%w: %s is required", domain.ErrInvalidInput, pairs[i])
		}
	}
	return nil
}

func ttlSeconds(d time.Duration) int64 {
	return int64(d.Seconds())
}
