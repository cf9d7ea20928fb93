//go:build unit || e2e

package authtest

import (
	"testing"
	"time"

	"omiam-waitlist/internal/domain/staff"
	"omiam-waitlist/internal/pkg/config"
	"omiam-waitlist/internal/pkg/jwt"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type JWTHelper struct {
	cfg config.JWTConfig
}

func NewJWTHelper(cfg config.JWTConfig) *JWTHelper {
	return &JWTHelper{cfg: cfg}
}

// GenerateToken signs a staff token the way the service's own issuer would.
func (h *JWTHelper) GenerateToken(t *testing.T, staffID uuid.UUID, role staff.Role) string {
	t.Helper()
	duration, err := time.ParseDuration(h.cfg.Duration)
	require.NoError(t, err)
	return h.sign(t, duration, staffID, role)
}

// CreateExpiredToken returns a token that expired well outside the validation leeway.
func (h *JWTHelper) CreateExpiredToken(t *testing.T, staffID uuid.UUID, role staff.Role) string {
	t.Helper()
	return h.sign(t, -time.Minute, staffID, role)
}

func (h *JWTHelper) sign(t *testing.T, ttl time.Duration, staffID uuid.UUID, role staff.Role) string {
	t.Helper()
	token, err := jwt.NewService(h.cfg.Secret, ttl).GenerateToken(staffID, role)
	require.NoError(t, err, "failed to sign %s token", role)
	return token
}
