package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/meetcapture/backend/internal/auth"
	"github.com/meetcapture/backend/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for user email in gin context.
	ContextUserEmail = "user_email"
	// ContextTokenID is the key for the token's jti in gin context.
	ContextTokenID = "token_id"
)

// JWT returns a middleware that validates the bearer token, rejects
// revoked sessions, and sets user claims in context.
func JWT(jwtService *auth.JWTService, sessions *auth.SessionStore) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		if sessions != nil && sessions.IsRevoked(c.Request.Context(), claims.ID) {
			response.Unauthorized(c, "session logged out")
			c.Abort()
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextUserEmail, claims.Email)
		c.Set(ContextTokenID, claims.ID)
		c.Next()
	}
}
