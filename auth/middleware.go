package auth

import (
	"net/http"
	"strings"

	"center-hub/domain"

	"github.com/gin-gonic/gin"
)

// IdentityKey is where the middleware stores the authenticated identity in
// the gin context.
const IdentityKey = "auth_identity"

// Middleware validates the bearer credential on incoming requests.
//
// The token is read from the Authorization header, or from the "token" query
// parameter as a fallback: the browser EventSource API cannot set headers, so
// SSE handshakes have no other place to put it.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := bearerToken(c)
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization token is missing"})
			return
		}

		identity, err := ValidateToken(tokenStr)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(IdentityKey, identity)
		c.Next()
	}
}

// IdentityFrom retrieves the identity injected by Middleware.
func IdentityFrom(c *gin.Context) (domain.Identity, bool) {
	v, ok := c.Get(IdentityKey)
	if !ok {
		return domain.Identity{}, false
	}
	identity, ok := v.(domain.Identity)
	return identity, ok
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		return strings.TrimPrefix(header, "Bearer ")
	}
	return c.Query("token")
}
