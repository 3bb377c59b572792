package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinebook/internal/shared/config"
)

func signToken(t *testing.T, secret, tokenType string, expiresIn time.Duration) string {
	t.Helper()
	claims := adminClaims{
		Username:  "admin",
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func newGuardedRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.GET("/guarded", JWTAuthWithConfig(cfg), func(c *gin.Context) {
		username, _ := c.Get("admin_username")
		c.JSON(http.StatusOK, gin.H{"username": username})
	})
	return engine
}

func TestJWTAuth(t *testing.T) {
	cfg := &config.Config{Admin: config.AdminConfig{JWTSecret: "test-secret"}}
	engine := newGuardedRouter(cfg)

	request := func(authHeader string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		engine.ServeHTTP(w, req)
		return w
	}

	t.Run("ValidToken", func(t *testing.T) {
		token := signToken(t, "test-secret", "access", time.Hour)
		w := request("Bearer " + token)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin")
	})

	t.Run("MissingHeader", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request("").Code)
	})

	t.Run("NotBearer", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request("Basic abc").Code)
	})

	t.Run("ExpiredToken", func(t *testing.T) {
		token := signToken(t, "test-secret", "access", -time.Minute)
		assert.Equal(t, http.StatusUnauthorized, request("Bearer "+token).Code)
	})

	t.Run("WrongSecret", func(t *testing.T) {
		token := signToken(t, "other-secret", "access", time.Hour)
		assert.Equal(t, http.StatusUnauthorized, request("Bearer "+token).Code)
	})

	t.Run("WrongTokenType", func(t *testing.T) {
		token := signToken(t, "test-secret", "refresh", time.Hour)
		assert.Equal(t, http.StatusUnauthorized, request("Bearer "+token).Code)
	})
}

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(RequestID())
	engine.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	t.Run("Generated", func(t *testing.T) {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
	})

	t.Run("Propagated", func(t *testing.T) {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "abc-123")
		engine.ServeHTTP(w, req)
		assert.Equal(t, "abc-123", w.Header().Get("X-Request-ID"))
	})
}
