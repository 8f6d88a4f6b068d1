package application

import (
	"time"

	"github.com/authplug/broker/internal/domain"
	"github.com/google/uuid"
)

type Config struct {
	TOTPIssuer string

	RegistrationHandshakeTTL time.Duration
	LoginHandshakeTTL        time.Duration
	ExchangeCodeTTL          time.Duration

	AccessTokenTTL          time.Duration
	RefreshedAccessTokenTTL time.Duration
	RefreshTokenTTL         time.Duration
	AdminSessionTTL         time.Duration
}

// IdentitySummary is the caller-facing identity snapshot returned with every
// issued access token.
type IdentitySummary struct {
	IdentityID uuid.UUID   `json:"id"`
	Email      string      `json:"email"`
	TenantID   uuid.UUID   `json:"tenant_id"`
	Role       domain.Role `json:"role"`
}

type StartRegistrationRequest struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	RedirectURL string    `json:"redirect_url"`
}

type StartRegistrationResponse struct {
	HandshakeToken string `json:"handshake_token"`
	EnrollmentURI  string `json:"enrollment_uri"`
	ExpiresIn      int64  `json:"expires_in"`
}

type CompleteHandshakeRequest struct {
	HandshakeToken string `json:"handshake_token"`
	TOTPCode       string `json:"totp_code"`
}

// CompleteFlowResponse is the final artifact of registration and login
// completion. RefreshToken is handed to the HTTP adapter for the httpOnly
// cookie and never serialized into the response body.
type CompleteFlowResponse struct {
	ExchangeCode string          `json:"exchange_code"`
	RedirectURL  string          `json:"redirect_url"`
	Identity     IdentitySummary `json:"identity"`

	RefreshToken          string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
}

type StartLoginRequest struct {
	TenantID    uuid.UUID `json:"tenant_id"`
	Email       string    `json:"email"`
	Password    string    `json:"password"`
	RedirectURL string    `json:"redirect_url"`
}

type StartLoginResponse struct {
	HandshakeToken string `json:"handshake_token"`
	ExpiresIn      int64  `json:"expires_in"`
}

type StartAdminLoginRequest struct {
	TenantID uuid.UUID `json:"tenant_id"`
	Email    string    `json:"email"`
	Password string    `json:"password"`
}

// CompleteAdminLoginResponse carries the signed dashboard session token.
// Admins interact with the first-party dashboard directly, so there is no
// exchange-code hop; the adapter sets SessionToken as a cookie.
type CompleteAdminLoginResponse struct {
	Identity IdentitySummary `json:"identity"`

	SessionToken          string    `json:"-"`
	SessionTokenExpiresAt time.Time `json:"-"`
}

type ExchangeRequest struct {
	TenantID     uuid.UUID `json:"tenant_id"`
	ExchangeCode string    `json:"exchange_code"`
}

type ExchangeResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int64           `json:"expires_in"`
	Identity    IdentitySummary `json:"identity"`
}

type RotateResponse struct {
	AccessToken string          `json:"access_token"`
	ExpiresIn   int64           `json:"expires_in"`
	Identity    IdentitySummary `json:"identity"`

	RefreshToken          string    `json:"-"`
	RefreshTokenExpiresAt time.Time `json:"-"`
}

type StartTenantRegistrationRequest struct {
	CompanyName string `json:"company_name"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

type CompleteTenantRegistrationResponse struct {
	TenantID   uuid.UUID `json:"tenant_id"`
	IdentityID uuid.UUID `json:"identity_id"`
}

type AdminProfile struct {
	IdentityID  uuid.UUID   `json:"identity_id"`
	Email       string      `json:"email"`
	TenantID    uuid.UUID   `json:"tenant_id"`
	Role        domain.Role `json:"role"`
	CompanyName string      `json:"company_name"`
}

type TenantStats struct {
	TotalMembers int64 `json:"total_members"`
	TotalOrigins int64 `json:"total_origins"`
}

type MemberItem struct {
	IdentityID uuid.UUID   `json:"id"`
	Email      string      `json:"email"`
	Role       domain.Role `json:"role"`
	JoinedAt   time.Time   `json:"joined_at"`
}

type OriginItem struct {
	OriginID  uuid.UUID `json:"id"`
	Origin    string    `json:"origin"`
	CreatedAt time.Time `json:"created_at"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}
