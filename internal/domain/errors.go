package domain

import "errors"

var (
	// ErrNotFound is returned when the requested resource does not exist.
	// Keeping this sentinel in domain allows adapters to map it consistently to 404/NOT_FOUND.
	ErrNotFound = errors.New("resource not found")
	// ErrInvalidCredentials hides whether email, password, or TOTP code failed.
	// The reason is to prevent account-enumeration side channels.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrTwoFactorNotEnrolled signals a login for an identity that never
	// completed TOTP enrollment. No fallback login path exists for such accounts.
	ErrTwoFactorNotEnrolled = errors.New("2fa setup is not complete for this account")
	// ErrRedirectNotAllowed is returned before any handshake state is staged
	// so a pending-session token never reaches an unapproved origin.
	ErrRedirectNotAllowed = errors.New("redirect url is not allowed for this tenant")
	// ErrHandshakeExpired covers absent, expired, and already-consumed
	// handshake tokens alike; callers are told to restart the flow.
	ErrHandshakeExpired = errors.New("session expired or invalid, restart the flow")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrInvalidInput     = errors.New("invalid input")
	ErrConflict         = errors.New("conflict")
	ErrTokenExpired     = errors.New("token expired")
	// ErrTokenRevoked is returned for refresh tokens that were rotated away or
	// revoked by logout. A revoked token is never reactivated.
	ErrTokenRevoked = errors.New("token revoked")
)
