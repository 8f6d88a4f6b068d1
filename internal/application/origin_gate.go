package application

import (
	"context"
	"fmt"
	"net/url"

	"github.com/authplug/broker/internal/domain"
	"github.com/authplug/broker/internal/ports"
	"github.com/google/uuid"
)

// OriginGate validates candidate return URLs against a tenant's allow-list.
// Comparison is by origin only (scheme+host+port); path and query are
// ignored. The gate fails closed: parse errors, unexpected schemes, and
// store errors all reject.
type OriginGate struct {
	origins ports.AllowedOriginRepository
}

func NewOriginGate(origins ports.AllowedOriginRepository) *OriginGate {
	return &OriginGate{origins: origins}
}

// Allowed reports whether the candidate URL's origin is registered for the
// tenant. It is side-effect-free and is called before any identity-bearing
// state is staged.
func (g *OriginGate) Allowed(ctx context.Context, tenantID uuid.UUID, candidate string) bool {
	origin, err := NormalizeOrigin(candidate)
	if err != nil {
		return false
	}
	ok, err := g.origins.Exists(ctx, tenantID, origin)
	if err != nil {
		return false
	}
	return ok
}

// NormalizeOrigin extracts the scheme+host[:port] origin from a URL.
// Non-http(s) schemes and host-less URLs are rejected so entries like
// "javascript:" or bare paths can never land on an allow-list.
func NormalizeOrigin(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: invalid url", domain.ErrInvalidInput)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: unsupported url scheme", domain.ErrInvalidInput)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: url host is required", domain.ErrInvalidInput)
	}
	return u.Scheme + "://" + u.Host, nil
}
