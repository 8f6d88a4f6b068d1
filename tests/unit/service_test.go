package unit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/authplug/broker/internal/application"
	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
)

const (
	validTOTPCode = "123456"
	wrongTOTPCode = "999999"
	testPassword  = "SecurePass123!"
	testOrigin    = "https://app.example.com"
	testRedirect  = "https://app.example.com/auth/callback"
)

func TestRegistrationFlowIssuesExchangeCodeAndRefreshToken(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)

	startRes, err := f.service.StartRegistration(ctx, application.StartRegistrationRequest{
		TenantID:    tenantID,
		Email:       "user@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("start registration failed: %v", err)
	}
	if startRes.HandshakeToken == "" {
		t.Fatalf("expected handshake token")
	}
	if startRes.EnrollmentURI == "" {
		t.Fatalf("expected enrollment uri")
	}

	completeRes, err := f.service.CompleteRegistration(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	})
	if err != nil {
		t.Fatalf("complete registration failed: %v", err)
	}
	if completeRes.ExchangeCode == "" {
		t.Fatalf("expected exchange code")
	}
	if completeRes.RedirectURL != testRedirect {
		t.Fatalf("expected staged redirect url, got %s", completeRes.RedirectURL)
	}
	if completeRes.RefreshToken == "" {
		t.Fatalf("expected raw refresh token for the cookie")
	}
	if completeRes.Identity.Role != domain.RoleUser {
		t.Fatalf("expected user role, got %s", completeRes.Identity.Role)
	}

	exchangeRes, err := f.service.Exchange(ctx, application.ExchangeRequest{
		TenantID:     tenantID,
		ExchangeCode: completeRes.ExchangeCode,
	})
	if err != nil {
		t.Fatalf("exchange failed: %v", err)
	}
	if exchangeRes.AccessToken == "" {
		t.Fatalf("expected access token")
	}
	if exchangeRes.Identity.IdentityID != completeRes.Identity.IdentityID {
		t.Fatalf("exchange returned a different identity")
	}
}

func TestRegistrationRejectsUnlistedRedirect(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)

	_, err := f.service.StartRegistration(ctx, application.StartRegistrationRequest{
		TenantID:    tenantID,
		Email:       "user@example.com",
		Password:    testPassword,
		RedirectURL: "https://evil.example.net/callback",
	})
	if !errors.Is(err, domain.ErrRedirectNotAllowed) {
		t.Fatalf("expected redirect rejection, got %v", err)
	}
	if f.registrations.len() != 0 {
		t.Fatalf("expected no handshake staged after redirect rejection")
	}
}

func TestRegistrationDuplicateEmailConflict(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	f.seedIdentity("taken@example.com", testPassword, "SEED-SECRET")

	_, err := f.service.StartRegistration(ctx, application.StartRegistrationRequest{
		TenantID:    tenantID,
		Email:       "taken@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate email, got %v", err)
	}
}

func TestCompleteRegistrationWrongCodeIsRetryable(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)

	startRes, err := f.service.StartRegistration(ctx, application.StartRegistrationRequest{
		TenantID:    tenantID,
		Email:       "retry@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("start registration failed: %v", err)
	}

	_, err = f.service.CompleteRegistration(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       wrongTOTPCode,
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials on wrong code, got %v", err)
	}

	// The wrong code must not consume the handshake.
	if _, err := f.service.CompleteRegistration(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	}); err != nil {
		t.Fatalf("retry with correct code failed: %v", err)
	}
}

func TestCompleteRegistrationConsumesHandshakeOnce(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)

	startRes, err := f.service.StartRegistration(ctx, application.StartRegistrationRequest{
		TenantID:    tenantID,
		Email:       "once@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("start registration failed: %v", err)
	}

	if _, err := f.service.CompleteRegistration(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	}); err != nil {
		t.Fatalf("first completion failed: %v", err)
	}
	if _, err := f.service.CompleteRegistration(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	}); !errors.Is(err, domain.ErrHandshakeExpired) {
		t.Fatalf("expected handshake expired on replay, got %v", err)
	}
}

func TestRegistrationEmitsOutboxEventInCreateTx(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)

	startRes, err := f.service.StartRegistration(ctx, application.StartRegistrationRequest{
		TenantID:    tenantID,
		Email:       "events@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("start registration failed: %v", err)
	}
	if _, err := f.service.CompleteRegistration(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	}); err != nil {
		t.Fatalf("complete registration failed: %v", err)
	}

	f.identities.mu.Lock()
	defer f.identities.mu.Unlock()
	if len(f.identities.events) == 0 {
		t.Fatalf("expected registration outbox event captured in create tx")
	}
	event := f.identities.events[len(f.identities.events)-1]
	if event.EventType != "identity.registered" {
		t.Fatalf("expected identity.registered, got %s", event.EventType)
	}
	var payload map[string]any
	if err := json.Unmarshal(event.Payload, &payload); err != nil {
		t.Fatalf("invalid event payload: %v", err)
	}
	if _, ok := payload["registered_at"]; !ok {
		t.Fatalf("expected registered_at in payload")
	}
}

func TestLoginFlowAndExchangeSingleUse(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("login@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	startRes, err := f.service.StartLogin(ctx, application.StartLoginRequest{
		TenantID:    tenantID,
		Email:       "login@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("start login failed: %v", err)
	}

	completeRes, err := f.service.CompleteLogin(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	})
	if err != nil {
		t.Fatalf("complete login failed: %v", err)
	}

	if _, err := f.service.Exchange(ctx, application.ExchangeRequest{
		TenantID:     tenantID,
		ExchangeCode: completeRes.ExchangeCode,
	}); err != nil {
		t.Fatalf("first exchange failed: %v", err)
	}
	if _, err := f.service.Exchange(ctx, application.ExchangeRequest{
		TenantID:     tenantID,
		ExchangeCode: completeRes.ExchangeCode,
	}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized on replayed exchange code, got %v", err)
	}
}

func TestExchangeTenantMismatchBurnsCode(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	otherTenant := f.seedTenantWithOrigin("Other", "https://other.example.com")
	identity := f.seedIdentity("burn@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	startRes, err := f.service.StartLogin(ctx, application.StartLoginRequest{
		TenantID:    tenantID,
		Email:       "burn@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("start login failed: %v", err)
	}
	completeRes, err := f.service.CompleteLogin(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	})
	if err != nil {
		t.Fatalf("complete login failed: %v", err)
	}

	if _, err := f.service.Exchange(ctx, application.ExchangeRequest{
		TenantID:     otherTenant,
		ExchangeCode: completeRes.ExchangeCode,
	}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected unauthorized on tenant mismatch, got %v", err)
	}
	// A mismatched claim consumes the code; it must not be redeemable afterwards.
	if _, err := f.service.Exchange(ctx, application.ExchangeRequest{
		TenantID:     tenantID,
		ExchangeCode: completeRes.ExchangeCode,
	}); !errors.Is(err, domain.ErrUnauthorized) {
		t.Fatalf("expected burned code to stay unredeemable, got %v", err)
	}
}

func TestLoginHidesAccountExistence(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("exists@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	_, unknownErr := f.service.StartLogin(ctx, application.StartLoginRequest{
		TenantID:    tenantID,
		Email:       "nobody@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	_, wrongPassErr := f.service.StartLogin(ctx, application.StartLoginRequest{
		TenantID:    tenantID,
		Email:       "exists@example.com",
		Password:    "WrongPass123!",
		RedirectURL: testRedirect,
	})
	if !errors.Is(unknownErr, domain.ErrInvalidCredentials) || !errors.Is(wrongPassErr, domain.ErrInvalidCredentials) {
		t.Fatalf("expected identical generic errors, got %v and %v", unknownErr, wrongPassErr)
	}
}

func TestLoginRequiresEnrolledTwoFactor(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("nomfa@example.com", testPassword, "")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	_, err := f.service.StartLogin(ctx, application.StartLoginRequest{
		TenantID:    tenantID,
		Email:       "nomfa@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if !errors.Is(err, domain.ErrTwoFactorNotEnrolled) {
		t.Fatalf("expected two-factor enrollment error, got %v", err)
	}
}

func TestLoginCreatesMembershipOnFirstCrossTenantLogin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	homeTenant := f.seedTenantWithOrigin("Home", "https://home.example.com")
	newTenant := f.seedTenantWithOrigin("New", testOrigin)
	identity := f.seedIdentity("roaming@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, homeTenant, domain.RoleAdmin)

	startRes, err := f.service.StartLogin(ctx, application.StartLoginRequest{
		TenantID:    newTenant,
		Email:       "roaming@example.com",
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("cross-tenant login failed: %v", err)
	}
	if startRes.HandshakeToken == "" {
		t.Fatalf("expected handshake token")
	}

	membership, err := f.memberships.Get(ctx, identity.IdentityID, newTenant)
	if err != nil {
		t.Fatalf("expected membership created on first login: %v", err)
	}
	if membership.Role != domain.RoleUser {
		t.Fatalf("expected user role for auto-created membership, got %s", membership.Role)
	}
}

func TestRotationRevokesPredecessor(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("rotate@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	first := f.loginAndComplete(t, tenantID, "rotate@example.com")

	rotated, err := f.service.Rotate(ctx, first.RefreshToken)
	if err != nil {
		t.Fatalf("rotate failed: %v", err)
	}
	if rotated.RefreshToken == "" || rotated.RefreshToken == first.RefreshToken {
		t.Fatalf("expected a fresh successor refresh token")
	}
	if rotated.AccessToken == "" {
		t.Fatalf("expected access token from rotation")
	}

	if _, err := f.service.Rotate(ctx, first.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected revoked error on predecessor reuse, got %v", err)
	}
	if _, err := f.service.Rotate(ctx, rotated.RefreshToken); err != nil {
		t.Fatalf("successor rotation failed: %v", err)
	}
}

func TestRotateExpiredTokenReportedWithoutRotation(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("expired@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	raw := "expired-raw-token"
	f.refreshTokens.insert(domain.RefreshToken{
		TokenID:    uuid.New(),
		TokenHash:  sha256Hex(raw),
		IdentityID: identity.IdentityID,
		TenantID:   tenantID,
		ExpiresAt:  time.Now().UTC().Add(-time.Hour),
		CreatedAt:  time.Now().UTC().Add(-48 * time.Hour),
	})

	if _, err := f.service.Rotate(ctx, raw); !errors.Is(err, domain.ErrTokenExpired) {
		t.Fatalf("expected token expired, got %v", err)
	}
	// Expiry must not rotate or revoke the row.
	if _, err := f.refreshTokens.GetActiveByHash(ctx, sha256Hex(raw)); err != nil {
		t.Fatalf("expected expired row to remain unrevoked: %v", err)
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("logout@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	flow := f.loginAndComplete(t, tenantID, "logout@example.com")

	if err := f.service.Logout(ctx, flow.RefreshToken); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := f.service.Logout(ctx, flow.RefreshToken); err != nil {
		t.Fatalf("repeated logout should succeed: %v", err)
	}
	if err := f.service.Logout(ctx, "never-issued"); err != nil {
		t.Fatalf("logout of unknown token should succeed: %v", err)
	}
	if _, err := f.service.Rotate(ctx, flow.RefreshToken); !errors.Is(err, domain.ErrTokenRevoked) {
		t.Fatalf("expected revoked error after logout, got %v", err)
	}
}

func TestAdminLoginRequiresAdminRole(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("member@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleUser)

	_, err := f.service.StartAdminLogin(ctx, application.StartAdminLoginRequest{
		TenantID: tenantID,
		Email:    "member@example.com",
		Password: testPassword,
	})
	// Non-admins get the same generic error as wrong credentials.
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected generic credential error for non-admin, got %v", err)
	}
}

func TestAdminLoginFlowIssuesSessionToken(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("admin@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleAdmin)

	startRes, err := f.service.StartAdminLogin(ctx, application.StartAdminLoginRequest{
		TenantID: tenantID,
		Email:    "admin@example.com",
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("start admin login failed: %v", err)
	}

	completeRes, err := f.service.CompleteAdminLogin(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	})
	if err != nil {
		t.Fatalf("complete admin login failed: %v", err)
	}
	if completeRes.SessionToken == "" {
		t.Fatalf("expected session token")
	}

	claims, err := f.service.ValidateAccessToken(ctx, completeRes.SessionToken)
	if err != nil {
		t.Fatalf("validate session token failed: %v", err)
	}
	if claims.Role != domain.RoleAdmin || claims.TenantID != tenantID {
		t.Fatalf("unexpected session claims: %+v", claims)
	}
}

func TestAdminLoginHandshakeNotRedeemableAsUserLogin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("cross@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleAdmin)

	startRes, err := f.service.StartAdminLogin(ctx, application.StartAdminLoginRequest{
		TenantID: tenantID,
		Email:    "cross@example.com",
		Password: testPassword,
	})
	if err != nil {
		t.Fatalf("start admin login failed: %v", err)
	}

	if _, err := f.service.CompleteLogin(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	}); !errors.Is(err, domain.ErrHandshakeExpired) {
		t.Fatalf("expected admin handshake to be invisible to the user flow, got %v", err)
	}
}

func TestTenantRegistrationCreatesTenantAndFoundingAdmin(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()

	startRes, err := f.service.StartTenantRegistration(ctx, application.StartTenantRegistrationRequest{
		CompanyName: "Initech",
		Email:       "founder@example.com",
		Password:    testPassword,
	})
	if err != nil {
		t.Fatalf("start tenant registration failed: %v", err)
	}
	if startRes.EnrollmentURI == "" {
		t.Fatalf("expected enrollment uri for founding admin")
	}

	completeRes, err := f.service.CompleteTenantRegistration(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	})
	if err != nil {
		t.Fatalf("complete tenant registration failed: %v", err)
	}
	if completeRes.TenantID == uuid.Nil || completeRes.IdentityID == uuid.Nil {
		t.Fatalf("expected tenant and identity ids")
	}

	membership, err := f.memberships.Get(ctx, completeRes.IdentityID, completeRes.TenantID)
	if err != nil {
		t.Fatalf("expected admin membership: %v", err)
	}
	if membership.Role != domain.RoleAdmin {
		t.Fatalf("expected admin role for founder, got %s", membership.Role)
	}

	f.tenants.mu.Lock()
	defer f.tenants.mu.Unlock()
	if len(f.tenants.events) == 0 || f.tenants.events[len(f.tenants.events)-1].EventType != "tenant.registered" {
		t.Fatalf("expected tenant.registered outbox event")
	}
}

func TestChangePasswordVerifiesCurrent(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("pw@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleAdmin)

	claims := ports.AccessClaims{
		IdentityID: identity.IdentityID,
		Email:      identity.Email,
		TenantID:   tenantID,
		Role:       domain.RoleAdmin,
	}

	err := f.service.ChangePassword(ctx, claims, application.ChangePasswordRequest{
		CurrentPassword: "WrongPass123!",
		NewPassword:     "NextPass456!",
	})
	if !errors.Is(err, domain.ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for wrong current password, got %v", err)
	}

	if err := f.service.ChangePassword(ctx, claims, application.ChangePasswordRequest{
		CurrentPassword: testPassword,
		NewPassword:     "NextPass456!",
	}); err != nil {
		t.Fatalf("change password failed: %v", err)
	}

	updated, err := f.identities.GetByID(ctx, identity.IdentityID)
	if err != nil {
		t.Fatalf("reload identity failed: %v", err)
	}
	if updated.PasswordHash != "hash:NextPass456!" {
		t.Fatalf("expected updated password hash, got %s", updated.PasswordHash)
	}
}

func TestAddOriginNormalizesAndRejectsDuplicates(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	identity := f.seedIdentity("origins@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(identity.IdentityID, tenantID, domain.RoleAdmin)

	claims := ports.AccessClaims{
		IdentityID: identity.IdentityID,
		TenantID:   tenantID,
		Role:       domain.RoleAdmin,
	}

	created, err := f.service.AddOrigin(ctx, claims, "https://new.example.com/some/path?x=1")
	if err != nil {
		t.Fatalf("add origin failed: %v", err)
	}
	if created.Origin != "https://new.example.com" {
		t.Fatalf("expected normalized origin, got %s", created.Origin)
	}

	if _, err := f.service.AddOrigin(ctx, claims, "https://new.example.com"); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict on duplicate origin, got %v", err)
	}
	if _, err := f.service.AddOrigin(ctx, claims, "javascript:alert(1)"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for non-http scheme, got %v", err)
	}

	if err := f.service.RemoveOrigin(ctx, claims, created.OriginID); err != nil {
		t.Fatalf("remove origin failed: %v", err)
	}
	if err := f.service.RemoveOrigin(ctx, claims, created.OriginID); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found on repeated removal, got %v", err)
	}
}

func TestDashboardStatsAndMembers(t *testing.T) {
	t.Parallel()

	f := newFixture()
	ctx := context.Background()
	tenantID := f.seedTenantWithOrigin("Acme", testOrigin)
	admin := f.seedIdentity("stats-admin@example.com", testPassword, "SEED-SECRET")
	member := f.seedIdentity("stats-user@example.com", testPassword, "SEED-SECRET")
	f.seedMembership(admin.IdentityID, tenantID, domain.RoleAdmin)
	f.seedMembership(member.IdentityID, tenantID, domain.RoleUser)

	claims := ports.AccessClaims{IdentityID: admin.IdentityID, TenantID: tenantID, Role: domain.RoleAdmin}

	stats, err := f.service.Stats(ctx, claims)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalMembers != 2 {
		t.Fatalf("expected 2 members, got %d", stats.TotalMembers)
	}
	if stats.TotalOrigins != 1 {
		t.Fatalf("expected 1 origin, got %d", stats.TotalOrigins)
	}

	members, err := f.service.ListMembers(ctx, claims)
	if err != nil {
		t.Fatalf("list members failed: %v", err)
	}
	if len(members) != 2 {
		t.Fatalf("expected 2 member records, got %d", len(members))
	}

	profile, err := f.service.Profile(ctx, claims)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.CompanyName != "Acme" {
		t.Fatalf("expected company name in profile, got %s", profile.CompanyName)
	}
}

func (f *fixture) loginAndComplete(t *testing.T, tenantID uuid.UUID, email string) application.CompleteFlowResponse {
	t.Helper()
	ctx := context.Background()

	startRes, err := f.service.StartLogin(ctx, application.StartLoginRequest{
		TenantID:    tenantID,
		Email:       email,
		Password:    testPassword,
		RedirectURL: testRedirect,
	})
	if err != nil {
		t.Fatalf("start login failed: %v", err)
	}
	completeRes, err := f.service.CompleteLogin(ctx, application.CompleteHandshakeRequest{
		HandshakeToken: startRes.HandshakeToken,
		TOTPCode:       validTOTPCode,
	})
	if err != nil {
		t.Fatalf("complete login failed: %v", err)
	}
	return completeRes
}

func sha256Hex(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

func newFixture() *fixture {
	memberships := &fakeMemberships{items: map[string]domain.Membership{}}
	identities := &fakeIdentities{
		byEmail:     map[string]domain.Identity{},
		byID:        map[uuid.UUID]domain.Identity{},
		memberships: memberships,
	}
	tenants := &fakeTenants{
		byID:        map[uuid.UUID]domain.Tenant{},
		identities:  identities,
		memberships: memberships,
	}
	origins := &fakeOrigins{}
	refreshTokens := &fakeRefreshTokens{byID: map[uuid.UUID]domain.RefreshToken{}}
	outbox := &fakeOutbox{}
	registrations := &fakeRegistrationStore{items: map[string]ports.RegistrationHandshake{}}
	logins := &fakeLoginStore{items: map[string]ports.LoginHandshake{}}
	tenantRegs := &fakeTenantRegStore{items: map[string]ports.TenantHandshake{}}
	exchange := &fakeExchangeStore{items: map[string]ports.ExchangeGrant{}}

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			TOTPIssuer:               "AuthPlug",
			RegistrationHandshakeTTL: 10 * time.Minute,
			LoginHandshakeTTL:        5 * time.Minute,
			ExchangeCodeTTL:          5 * time.Minute,
			AccessTokenTTL:           15 * time.Minute,
			RefreshedAccessTokenTTL:  time.Hour,
			RefreshTokenTTL:          30 * 24 * time.Hour,
			AdminSessionTTL:          8 * time.Hour,
		},
		Tenants:       tenants,
		Identities:    identities,
		Memberships:   memberships,
		Origins:       origins,
		RefreshTokens: refreshTokens,
		Outbox:        outbox,
		Registrations: registrations,
		Logins:        logins,
		TenantRegs:    tenantRegs,
		Exchange:      exchange,
		Hasher:        &fakeHasher{},
		TOTP:          &fakeTOTP{},
		TokenSigner:   &fakeSigner{tokens: map[string]ports.AccessClaims{}},
	})

	return &fixture{
		service:       svc,
		tenants:       tenants,
		identities:    identities,
		memberships:   memberships,
		origins:       origins,
		refreshTokens: refreshTokens,
		outbox:        outbox,
		registrations: registrations,
		logins:        logins,
		tenantRegs:    tenantRegs,
		exchange:      exchange,
	}
}

type fixture struct {
	service       *application.Service
	tenants       *fakeTenants
	identities    *fakeIdentities
	memberships   *fakeMemberships
	origins       *fakeOrigins
	refreshTokens *fakeRefreshTokens
	outbox        *fakeOutbox
	registrations *fakeRegistrationStore
	logins        *fakeLoginStore
	tenantRegs    *fakeTenantRegStore
	exchange      *fakeExchangeStore
}

func (f *fixture) seedTenantWithOrigin(name, origin string) uuid.UUID {
	f.tenants.mu.Lock()
	tenant := domain.Tenant{TenantID: uuid.New(), Name: name, CreatedAt: time.Now().UTC()}
	f.tenants.byID[tenant.TenantID] = tenant
	f.tenants.mu.Unlock()

	f.origins.mu.Lock()
	f.origins.items = append(f.origins.items, domain.AllowedOrigin{
		OriginID:  uuid.New(),
		TenantID:  tenant.TenantID,
		Origin:    origin,
		CreatedAt: time.Now().UTC(),
	})
	f.origins.mu.Unlock()
	return tenant.TenantID
}

func (f *fixture) seedIdentity(email, password, totpSecret string) domain.Identity {
	f.identities.mu.Lock()
	defer f.identities.mu.Unlock()
	identity := domain.Identity{
		IdentityID:   uuid.New(),
		Email:        email,
		PasswordHash: "hash:" + password,
		TOTPSecret:   totpSecret,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	f.identities.byEmail[email] = identity
	f.identities.byID[identity.IdentityID] = identity
	return identity
}

func (f *fixture) seedMembership(identityID, tenantID uuid.UUID, role domain.Role) {
	f.memberships.mu.Lock()
	defer f.memberships.mu.Unlock()
	f.memberships.items[identityID.String()+":"+tenantID.String()] = domain.Membership{
		MembershipID: uuid.New(),
		IdentityID:   identityID,
		TenantID:     tenantID,
		Role:         role,
		CreatedAt:    time.Now().UTC(),
	}
}

type fakeTenants struct {
	mu          sync.Mutex
	byID        map[uuid.UUID]domain.Tenant
	identities  *fakeIdentities
	memberships *fakeMemberships
	events      []ports.OutboxEvent
}

func (f *fakeTenants) GetByID(_ context.Context, tenantID uuid.UUID) (domain.Tenant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	tenant, ok := f.byID[tenantID]
	if !ok {
		return domain.Tenant{}, domain.ErrNotFound
	}
	return tenant, nil
}

func (f *fakeTenants) CreateWithAdminTx(ctx context.Context, params ports.CreateTenantTxParams, event ports.OutboxEvent) (domain.Tenant, domain.Identity, error) {
	identity, err := f.identities.CreateWithMembershipTx(ctx, ports.CreateIdentityTxParams{
		Email:           params.AdminEmail,
		PasswordHash:    params.PasswordHash,
		TOTPSecret:      params.TOTPSecret,
		TenantID:        uuid.Nil,
		Role:            domain.RoleAdmin,
		RegisteredAtUTC: params.RegisteredAtUTC,
	}, ports.OutboxEvent{})
	if err != nil {
		return domain.Tenant{}, domain.Identity{}, err
	}

	f.mu.Lock()
	tenant := domain.Tenant{TenantID: uuid.New(), Name: params.Name, CreatedAt: params.RegisteredAtUTC}
	f.byID[tenant.TenantID] = tenant
	f.events = append(f.events, event)
	f.mu.Unlock()

	f.memberships.mu.Lock()
	f.memberships.items[identity.IdentityID.String()+":"+tenant.TenantID.String()] = domain.Membership{
		MembershipID: uuid.New(),
		IdentityID:   identity.IdentityID,
		TenantID:     tenant.TenantID,
		Role:         domain.RoleAdmin,
		CreatedAt:    params.RegisteredAtUTC,
	}
	f.memberships.mu.Unlock()

	return tenant, identity, nil
}

type fakeIdentities struct {
	mu          sync.Mutex
	byEmail     map[string]domain.Identity
	byID        map[uuid.UUID]domain.Identity
	memberships *fakeMemberships
	events      []ports.OutboxEvent
}

func (f *fakeIdentities) CreateWithMembershipTx(_ context.Context, params ports.CreateIdentityTxParams, event ports.OutboxEvent) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byEmail[params.Email]; ok {
		return domain.Identity{}, domain.ErrConflict
	}
	identity := domain.Identity{
		IdentityID:   uuid.New(),
		Email:        params.Email,
		PasswordHash: params.PasswordHash,
		TOTPSecret:   params.TOTPSecret,
		CreatedAt:    params.RegisteredAtUTC,
		UpdatedAt:    params.RegisteredAtUTC,
	}
	f.byEmail[identity.Email] = identity
	f.byID[identity.IdentityID] = identity
	if event.EventType != "" {
		f.events = append(f.events, event)
	}

	if params.TenantID != uuid.Nil {
		f.memberships.mu.Lock()
		f.memberships.items[identity.IdentityID.String()+":"+params.TenantID.String()] = domain.Membership{
			MembershipID: uuid.New(),
			IdentityID:   identity.IdentityID,
			TenantID:     params.TenantID,
			Role:         params.Role,
			CreatedAt:    params.RegisteredAtUTC,
		}
		f.memberships.mu.Unlock()
	}
	return identity, nil
}

func (f *fakeIdentities) GetByEmail(_ context.Context, email string) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.byEmail[email]
	if !ok {
		return domain.Identity{}, domain.ErrNotFound
	}
	return identity, nil
}

func (f *fakeIdentities) GetByID(_ context.Context, identityID uuid.UUID) (domain.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.byID[identityID]
	if !ok {
		return domain.Identity{}, domain.ErrNotFound
	}
	return identity, nil
}

func (f *fakeIdentities) UpdatePassword(_ context.Context, identityID uuid.UUID, passwordHash string, updatedAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	identity, ok := f.byID[identityID]
	if !ok {
		return domain.ErrNotFound
	}
	identity.PasswordHash = passwordHash
	identity.UpdatedAt = updatedAt
	f.byID[identityID] = identity
	f.byEmail[identity.Email] = identity
	return nil
}

type fakeMemberships struct {
	mu    sync.Mutex
	items map[string]domain.Membership
}

func (f *fakeMemberships) Get(_ context.Context, identityID, tenantID uuid.UUID) (domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	membership, ok := f.items[identityID.String()+":"+tenantID.String()]
	if !ok {
		return domain.Membership{}, domain.ErrNotFound
	}
	return membership, nil
}

func (f *fakeMemberships) Create(_ context.Context, identityID, tenantID uuid.UUID, role domain.Role, createdAt time.Time) (domain.Membership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := identityID.String() + ":" + tenantID.String()
	if _, ok := f.items[key]; ok {
		return domain.Membership{}, domain.ErrConflict
	}
	membership := domain.Membership{
		MembershipID: uuid.New(),
		IdentityID:   identityID,
		TenantID:     tenantID,
		Role:         role,
		CreatedAt:    createdAt,
	}
	f.items[key] = membership
	return membership, nil
}

func (f *fakeMemberships) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]ports.MemberRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []ports.MemberRecord
	for _, m := range f.items {
		if m.TenantID == tenantID {
			out = append(out, ports.MemberRecord{
				IdentityID: m.IdentityID,
				Role:       m.Role,
				JoinedAt:   m.CreatedAt,
			})
		}
	}
	return out, nil
}

func (f *fakeMemberships) CountByTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, m := range f.items {
		if m.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

type fakeOrigins struct {
	mu    sync.Mutex
	items []domain.AllowedOrigin
}

func (f *fakeOrigins) Exists(_ context.Context, tenantID uuid.UUID, origin string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.TenantID == tenantID && o.Origin == origin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrigins) ListByTenant(_ context.Context, tenantID uuid.UUID) ([]domain.AllowedOrigin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.AllowedOrigin
	for _, o := range f.items {
		if o.TenantID == tenantID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrigins) CountByTenant(_ context.Context, tenantID uuid.UUID) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var count int64
	for _, o := range f.items {
		if o.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (f *fakeOrigins) Create(_ context.Context, tenantID uuid.UUID, origin string, createdAt time.Time) (domain.AllowedOrigin, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.items {
		if o.TenantID == tenantID && o.Origin == origin {
			return domain.AllowedOrigin{}, domain.ErrConflict
		}
	}
	created := domain.AllowedOrigin{
		OriginID:  uuid.New(),
		TenantID:  tenantID,
		Origin:    origin,
		CreatedAt: createdAt,
	}
	f.items = append(f.items, created)
	return created, nil
}

func (f *fakeOrigins) Delete(_ context.Context, tenantID, originID uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.items {
		if o.TenantID == tenantID && o.OriginID == originID {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeRefreshTokens struct {
	mu   sync.Mutex
	byID map[uuid.UUID]domain.RefreshToken
}

func (f *fakeRefreshTokens) insert(token domain.RefreshToken) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[token.TokenID] = token
}

func (f *fakeRefreshTokens) Create(_ context.Context, params ports.CreateRefreshTokenParams) (domain.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := domain.RefreshToken{
		TokenID:    uuid.New(),
		TokenHash:  params.TokenHash,
		IdentityID: params.IdentityID,
		TenantID:   params.TenantID,
		ExpiresAt:  params.ExpiresAt,
		CreatedAt:  params.CreatedAt,
	}
	f.byID[token.TokenID] = token
	return token, nil
}

func (f *fakeRefreshTokens) GetActiveByHash(_ context.Context, tokenHash string) (domain.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, token := range f.byID {
		if token.TokenHash == tokenHash && !token.Revoked {
			return token, nil
		}
	}
	return domain.RefreshToken{}, domain.ErrNotFound
}

func (f *fakeRefreshTokens) RotateTx(_ context.Context, predecessorID uuid.UUID, successor ports.CreateRefreshTokenParams) (domain.RefreshToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	predecessor, ok := f.byID[predecessorID]
	if !ok || predecessor.Revoked {
		return domain.RefreshToken{}, domain.ErrNotFound
	}
	next := domain.RefreshToken{
		TokenID:    uuid.New(),
		TokenHash:  successor.TokenHash,
		IdentityID: successor.IdentityID,
		TenantID:   successor.TenantID,
		ExpiresAt:  successor.ExpiresAt,
		CreatedAt:  successor.CreatedAt,
	}
	f.byID[next.TokenID] = next

	replacedBy := next.TokenHash
	predecessor.Revoked = true
	predecessor.ReplacedBy = &replacedBy
	f.byID[predecessorID] = predecessor
	return next, nil
}

func (f *fakeRefreshTokens) Revoke(_ context.Context, tokenHash string, _ time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for id, token := range f.byID {
		if token.TokenHash == tokenHash && !token.Revoked {
			token.Revoked = true
			f.byID[id] = token
		}
	}
	return nil
}

type fakeOutbox struct {
	mu     sync.Mutex
	events []ports.OutboxEvent
}

func (f *fakeOutbox) Enqueue(_ context.Context, event ports.OutboxEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return nil
}
func (f *fakeOutbox) ClaimUnpublished(context.Context, int, string, time.Time) ([]ports.OutboxRecord, error) {
	return nil, nil
}
func (f *fakeOutbox) MarkPublished(context.Context, uuid.UUID, string, time.Time) error { return nil }
func (f *fakeOutbox) MarkFailed(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}
func (f *fakeOutbox) MarkDeadLettered(context.Context, uuid.UUID, string, string, time.Time) error {
	return nil
}

type fakeRegistrationStore struct {
	mu    sync.Mutex
	items map[string]ports.RegistrationHandshake
}

func (f *fakeRegistrationStore) len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

func (f *fakeRegistrationStore) Put(_ context.Context, token string, value ports.RegistrationHandshake, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[token] = value
	return nil
}

func (f *fakeRegistrationStore) Get(_ context.Context, token string) (*ports.RegistrationHandshake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[token]
	if !ok {
		return nil, nil
	}
	cp := item
	return &cp, nil
}

func (f *fakeRegistrationStore) Take(_ context.Context, token string) (*ports.RegistrationHandshake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[token]
	if !ok {
		return nil, nil
	}
	delete(f.items, token)
	cp := item
	return &cp, nil
}

func (f *fakeRegistrationStore) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, token)
	return nil
}

type fakeLoginStore struct {
	mu    sync.Mutex
	items map[string]ports.LoginHandshake
}

func loginKey(kind ports.HandshakeKind, token string) string {
	return string(kind) + ":" + token
}

func (f *fakeLoginStore) Put(_ context.Context, kind ports.HandshakeKind, token string, value ports.LoginHandshake, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[loginKey(kind, token)] = value
	return nil
}

func (f *fakeLoginStore) Get(_ context.Context, kind ports.HandshakeKind, token string) (*ports.LoginHandshake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[loginKey(kind, token)]
	if !ok {
		return nil, nil
	}
	cp := item
	return &cp, nil
}

func (f *fakeLoginStore) Take(_ context.Context, kind ports.HandshakeKind, token string) (*ports.LoginHandshake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	key := loginKey(kind, token)
	item, ok := f.items[key]
	if !ok {
		return nil, nil
	}
	delete(f.items, key)
	cp := item
	return &cp, nil
}

func (f *fakeLoginStore) Delete(_ context.Context, kind ports.HandshakeKind, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, loginKey(kind, token))
	return nil
}

type fakeTenantRegStore struct {
	mu    sync.Mutex
	items map[string]ports.TenantHandshake
}

func (f *fakeTenantRegStore) Put(_ context.Context, token string, value ports.TenantHandshake, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[token] = value
	return nil
}

func (f *fakeTenantRegStore) Get(_ context.Context, token string) (*ports.TenantHandshake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[token]
	if !ok {
		return nil, nil
	}
	cp := item
	return &cp, nil
}

func (f *fakeTenantRegStore) Take(_ context.Context, token string) (*ports.TenantHandshake, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[token]
	if !ok {
		return nil, nil
	}
	delete(f.items, token)
	cp := item
	return &cp, nil
}

func (f *fakeTenantRegStore) Delete(_ context.Context, token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.items, token)
	return nil
}

type fakeExchangeStore struct {
	mu    sync.Mutex
	items map[string]ports.ExchangeGrant
}

func (f *fakeExchangeStore) Put(_ context.Context, code string, grant ports.ExchangeGrant, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.items[code] = grant
	return nil
}

func (f *fakeExchangeStore) Take(_ context.Context, code string) (*ports.ExchangeGrant, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	item, ok := f.items[code]
	if !ok {
		return nil, nil
	}
	delete(f.items, code)
	cp := item
	return &cp, nil
}

type fakeHasher struct{}

func (f *fakeHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (f *fakeHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return errors.New("hash mismatch")
	}
	return nil
}

type fakeTOTP struct{}

func (f *fakeTOTP) GenerateSecret() (string, error) { return "FAKESECRETBASE32", nil }

func (f *fakeTOTP) EnrollmentURI(account, secret string) string {
	return "otpauth://totp/AuthPlug:" + account + "?secret=" + secret
}

func (f *fakeTOTP) Verify(secret, code string, _ time.Time) bool {
	return secret != "" && code == validTOTPCode
}

type fakeSigner struct {
	mu     sync.Mutex
	tokens map[string]ports.AccessClaims
}

func (f *fakeSigner) Sign(claims ports.AccessClaims) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	token := uuid.NewString()
	f.tokens[token] = claims
	return token, nil
}

func (f *fakeSigner) ParseAndValidate(token string) (ports.AccessClaims, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	claims, ok := f.tokens[token]
	if !ok {
		return ports.AccessClaims{}, domain.ErrUnauthorized
	}
	return claims, nil
}

func (f *fakeSigner) PublicJWKs() ([]map[string]any, error) {
	return []map[string]any{{"kid": "fake"}}, nil
}
