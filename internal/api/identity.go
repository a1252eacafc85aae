package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/marcosfaria19/clarohub-sub000/internal/model"
)

// IdentityClaims are the token fields the flow cares about. Tokens are
// issued and verified by the hub gateway in front of this service; here the
// claims are only decoded, never re-verified.
type IdentityClaims struct {
	Name              string `json:"name"`
	PreferredUsername string `json:"preferred_username"`
	jwt.RegisteredClaims
}

const userContextKey = "flow_user"

// IdentityMiddleware extracts the acting user from the bearer token and
// stores it on the context. Requests without a decodable identity are
// rejected before reaching any handler.
func IdentityMiddleware() gin.HandlerFunc {
	parser := jwt.NewParser()

	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			Error(c, http.StatusUnauthorized, "missing bearer token", "")
			c.Abort()
			return
		}

		claims := &IdentityClaims{}
		_, _, err := parser.ParseUnverified(strings.TrimPrefix(header, "Bearer "), claims)
		if err != nil || claims.Subject == "" {
			Error(c, http.StatusUnauthorized, "invalid token", "")
			c.Abort()
			return
		}

		name := claims.Name
		if name == "" {
			name = claims.PreferredUsername
		}

		c.Set(userContextKey, model.UserRef{ID: claims.Subject, Name: name})
		c.Set("user_id", claims.Subject)
		c.Next()
	}
}

// CurrentUser returns the identity stored by IdentityMiddleware.
func CurrentUser(c *gin.Context) (model.UserRef, bool) {
	value, ok := c.Get(userContextKey)
	if !ok {
		return model.UserRef{}, false
	}
	user, ok := value.(model.UserRef)
	return user, ok
}
