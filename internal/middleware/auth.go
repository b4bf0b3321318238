package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/dnothi-api/internal/models"
	"github.com/noah-isme/dnothi-api/internal/policy"
	appErrors "github.com/noah-isme/dnothi-api/pkg/errors"
	"github.com/noah-isme/dnothi-api/pkg/response"
)

// ContextUserKey is the gin context key storing JWT claims.
const ContextUserKey = "currentUser"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// UserLoader resolves the live account row backing a token.
type UserLoader interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Auth protects routes by requiring a valid token, accepted either from the
// Authorization bearer header or from the token cookie. The account is
// re-checked against the database on every request so that deactivation or
// deletion takes effect immediately, not at token expiry.
func Auth(validator tokenValidator, users UserLoader, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing authentication token"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		user, err := users.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account no longer exists"))
			c.Abort()
			return
		}
		if !user.IsActive {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "account is deactivated"))
			c.Abort()
			return
		}

		// Role comes from the live row, not the token, so role changes also
		// take effect immediately.
		claims.Role = user.Role
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

func extractToken(c *gin.Context, cookieName string) string {
	if header := c.GetHeader("Authorization"); header != "" {
		parts := strings.SplitN(header, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	if cookieName != "" {
		if token, err := c.Cookie(cookieName); err == nil && token != "" {
			return token
		}
	}
	return ""
}

// CurrentUser returns the claims stored by Auth.
func CurrentUser(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextUserKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}

// CallerFrom builds the policy caller identity from the request context.
func CallerFrom(c *gin.Context) (policy.Caller, bool) {
	claims, ok := CurrentUser(c)
	if !ok {
		return policy.Caller{}, false
	}
	return policy.Caller{ID: claims.UserID, Role: claims.Role}, true
}

// MetaFrom captures request provenance for audit records.
func MetaFrom(c *gin.Context) models.RequestMeta {
	return models.RequestMeta{IP: c.ClientIP(), UserAgent: c.GetHeader("User-Agent")}
}
