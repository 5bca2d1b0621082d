package middlewares

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vaultdeck/vaultdeck/internal/actorctx"
	"github.com/vaultdeck/vaultdeck/internal/auth"
	"github.com/vaultdeck/vaultdeck/internal/domain/user"
)

// Keep these interfaces small so tests can fake them easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// IdentityResolver re-checks the token subject against the user store on
// every request. A token whose subject has been deleted is dead, no matter
// how much lifetime its exp claim has left.
type IdentityResolver interface {
	Resolve(ctx context.Context, subject string) (user.User, error)
}

type AuthMiddleware struct {
	jwt      TokenVerifier
	resolver IdentityResolver
}

func NewAuthMiddleware(jwt TokenVerifier, resolver IdentityResolver) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt, resolver: resolver}
}

func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(authHeader, "Bearer ") {
			abortUnauthorized(c, "Missing or invalid Authorization header")
			return
		}

		raw := strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer"))
		if raw == "" {
			abortUnauthorized(c, "Missing or invalid access token")
			return
		}

		claims, err := m.jwt.VerifyAccessToken(raw)
		if err != nil {
			// expired and malformed collapse to the same client answer
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		u, err := m.resolver.Resolve(c.Request.Context(), claims.UserID)
		if err != nil {
			abortUnauthorized(c, "Invalid or expired access token")
			return
		}

		// The resolved id is the only identity downstream handlers may use.
		// Client-supplied user ids in bodies or query strings carry no
		// authority.
		c.Set(CtxUserID, u.ID)
		c.Set(CtxEmail, u.Email)
		c.Set(CtxRole, u.Role)

		// also on the plain request context, for code below the HTTP layer
		c.Request = c.Request.WithContext(actorctx.WithUserID(c.Request.Context(), u.ID))

		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"error": gin.H{
			"code":    "unauthorized",
			"message": message,
		},
	})
}

// Helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxUserID)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func RoleFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(CtxRole)
	if !ok {
		return "", false
	}
	role, ok := v.(string)
	return role, ok
}
