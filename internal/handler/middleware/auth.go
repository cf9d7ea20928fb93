package middleware

import (
	"net/http"
	"strings"

	"omiam-waitlist/internal/domain/staff"
	"omiam-waitlist/internal/handler/httperr"
	"omiam-waitlist/internal/pkg/errs"
	"omiam-waitlist/internal/usecase"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	ctxStaffIDKey   = "staff_id"
	ctxStaffRoleKey = "staff_role"
)

var (
	errMissingToken      = errs.New("missing bearer token")
	errMissingStaffRole  = errs.New("staff role not set, RequireAuth must run first")
	errInsufficientLevel = errs.New("staff role below required level")
)

// AuthMiddleware guards the staff side of the waitlist. Guests create entries anonymously.
type AuthMiddleware struct {
	tokenValidator usecase.TokenValidator
}

func NewAuthMiddleware(tokenValidator usecase.TokenValidator) *AuthMiddleware {
	return &AuthMiddleware{tokenValidator: tokenValidator}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c.GetHeader("Authorization"))
		if !ok {
			httperr.AbortWithError(c, http.StatusUnauthorized, errMissingToken, "Access token required", nil)
			return
		}

		staffID, role, err := m.tokenValidator.ValidateToken(token)
		if err != nil {
			httperr.AbortWithError(c, http.StatusUnauthorized, err, "Invalid or expired token", nil)
			return
		}

		c.Set(ctxStaffIDKey, staffID)
		c.Set(ctxStaffRoleKey, role)
		c.Next()
	}
}

// RequireRoleAtLeast must run after RequireAuth.
func (m *AuthMiddleware) RequireRoleAtLeast(minRole staff.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := GetStaffRole(c)
		if !ok {
			httperr.AbortWithError(c, http.StatusInternalServerError, errMissingStaffRole, "Internal server error", nil)
			return
		}
		if !role.AtLeast(minRole) {
			err := errs.Wrapf(errInsufficientLevel, "%s < %s", role, minRole)
			httperr.AbortWithError(c, http.StatusForbidden, err, "Insufficient permissions", nil)
			return
		}
		c.Next()
	}
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func GetStaffID(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ctxStaffIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

func GetStaffRole(c *gin.Context) (staff.Role, bool) {
	v, exists := c.Get(ctxStaffRoleKey)
	if !exists {
		return "", false
	}
	role, ok := v.(staff.Role)
	return role, ok
}
