package api_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/marcosfaria19/clarohub-sub000/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func identityRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/whoami", api.IdentityMiddleware(), func(c *gin.Context) {
		user, ok := api.CurrentUser(c)
		if !ok {
			api.Error(c, http.StatusInternalServerError, "no identity on context", "")
			return
		}
		api.Success(c, user)
	})
	return router
}

func signToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte("test-secret"))
	require.NoError(t, err)
	return signed
}

// TestIdentityMiddleware_ValidToken tests claim extraction from the bearer
// token. The signature is not checked; the gateway already did that.
func TestIdentityMiddleware_ValidToken(t *testing.T) {
	router := identityRouter()

	token := signToken(t, jwt.MapClaims{"sub": "u1", "name": "Ana Souza"})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"u1"`)
	assert.Contains(t, w.Body.String(), `"name":"Ana Souza"`)
}

// TestIdentityMiddleware_PreferredUsername tests the name fallback.
func TestIdentityMiddleware_PreferredUsername(t *testing.T) {
	router := identityRouter()

	token := signToken(t, jwt.MapClaims{"sub": "u1", "preferred_username": "ana.souza"})
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"name":"ana.souza"`)
}

// TestIdentityMiddleware_Rejections tests missing, malformed and
// subject-less tokens.
func TestIdentityMiddleware_Rejections(t *testing.T) {
	router := identityRouter()

	cases := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"not bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
		{"no subject", "Bearer " + signToken(t, jwt.MapClaims{"name": "Ana"})},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			assert.Equal(t, http.StatusUnauthorized, w.Code)
		})
	}
}
