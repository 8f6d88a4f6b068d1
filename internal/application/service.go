package application

import (
	"time"

	"github.com/authplug/broker/internal/ports"
)

// Service is the handshake orchestrator. Every inbound operation enters here;
// the service coordinates the redirect gate, the credential primitives, the
// ephemeral handshake stores, and the durable identity store, and produces
// the flow's final artifact.
//
// The service holds no mutable state of its own: all staging lives in the
// injected stores, so multiple broker instances can run concurrently.
type Service struct {
	cfg           Config
	tenants       ports.TenantRepository
	identities    ports.IdentityRepository
	memberships   ports.MembershipRepository
	origins       ports.AllowedOriginRepository
	refreshTokens ports.RefreshTokenRepository
	outbox        ports.OutboxRepository
	registrations ports.RegistrationHandshakeStore
	logins        ports.LoginHandshakeStore
	tenantRegs    ports.TenantHandshakeStore
	exchange      ports.ExchangeCodeStore
	gate          *OriginGate
	hasher        ports.PasswordHasher
	totp          ports.TOTPProvider
	signer        ports.TokenSigner
	nowFn         func() time.Time
}

type Dependencies struct {
	Config        Config
	Tenants       ports.TenantRepository
	Identities    ports.IdentityRepository
	Memberships   ports.MembershipRepository
	Origins       ports.AllowedOriginRepository
	RefreshTokens ports.RefreshTokenRepository
	Outbox        ports.OutboxRepository
	Registrations ports.RegistrationHandshakeStore
	Logins        ports.LoginHandshakeStore
	TenantRegs    ports.TenantHandshakeStore
	Exchange      ports.ExchangeCodeStore
	Hasher        ports.PasswordHasher
	TOTP          ports.TOTPProvider
	TokenSigner   ports.TokenSigner
}

func NewService(deps Dependencies) *Service {
	return &Service{
		cfg:           deps.Config,
		tenants:       deps.Tenants,
		identities:    deps.Identities,
		memberships:   deps.Memberships,
		origins:       deps.Origins,
		refreshTokens: deps.RefreshTokens,
		outbox:        deps.Outbox,
		registrations: deps.Registrations,
		logins:        deps.Logins,
		tenantRegs:    deps.TenantRegs,
		exchange:      deps.Exchange,
		gate:          NewOriginGate(deps.Origins),
		hasher:        deps.Hasher,
		totp:          deps.TOTP,
		signer:        deps.TokenSigner,
		nowFn:         func() time.Time { return time.Now().UTC() },
	}
}
