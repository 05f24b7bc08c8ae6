package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lshigami/Marmoset/internal/dto"
	"github.com/lshigami/Marmoset/internal/model"
	"github.com/lshigami/Marmoset/internal/service"
)

const identityKey = "identity"

// RequireAuth parses the Bearer token and stores the verified identity in the
// context. Missing, malformed or expired credentials all abort with 401.
func RequireAuth(tokens service.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Missing Authorization header"})
			return
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Authorization header must be a Bearer token"})
			return
		}
		identity, err := tokens.Parse(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Invalid or expired token"})
			return
		}
		c.Set(identityKey, *identity)
		c.Next()
	}
}

// RequireRoles allows only the listed roles past. Must run after RequireAuth.
func RequireRoles(roles ...model.UserRole) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, dto.ErrorResponse{Message: "Not authenticated"})
			return
		}
		for _, role := range roles {
			if identity.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, dto.ErrorResponse{Message: "Insufficient role"})
	}
}

// IdentityFrom fetches the verified identity stored by RequireAuth.
func IdentityFrom(c *gin.Context) (service.Identity, bool) {
	v, exists := c.Get(identityKey)
	if !exists {
		return service.Identity{}, false
	}
	identity, ok := v.(service.Identity)
	return identity, ok
}
