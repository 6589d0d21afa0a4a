package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
	"github.com/dormdesk/dormdesk-api/pkg/response"
)

// ContextUserKey is the gin context key holding the session claims.
const ContextUserKey = "sessionClaims"

// TokenValidator parses and validates a session token.
type TokenValidator interface {
	ValidateToken(token string) (*models.SessionClaims, error)
}

// Session requires a valid session token, taken from the Authorization
// bearer header or the session cookie, and stores the claims in the
// request context.
func Session(validator TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token == "" {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "missing session token"))
			c.Abort()
			return
		}
		claims, err := validator.ValidateToken(token)
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, claims)
		c.Next()
	}
}

// OptionalSession resolves the session when a token is present but lets
// anonymous requests through. Invalid tokens are treated as anonymous.
func OptionalSession(validator TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, cookieName)
		if token != "" {
			if claims, err := validator.ValidateToken(token); err == nil {
				c.Set(ContextUserKey, claims)
			}
		}
		c.Next()
	}
}

// ClaimsFromContext returns the session claims stored by the session
// middleware, or nil for anonymous requests.
func ClaimsFromContext(c *gin.Context) *models.SessionClaims {
	value, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.SessionClaims)
	if !ok {
		return nil
	}
	return claims
}

func extractToken(c *gin.Context, cookieName string) string {
	header := c.GetHeader("Authorization")
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	if cookieName != "" {
		if cookie, err := c.Cookie(cookieName); err == nil {
			return cookie
		}
	}
	return ""
}
