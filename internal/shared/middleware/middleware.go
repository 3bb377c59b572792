package middleware

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/logger"
)

type adminClaims struct {
	Username  string `json:"username"`
	TokenType string `json:"type"`
	jwt.RegisteredClaims
}

// JWTAuthWithConfig guards admin routes. It accepts a Bearer token signed
// with the configured secret and stores the admin username on the context.
func JWTAuthWithConfig(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Authorization header required", nil, nil)
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(header, "Bearer ")
		token, err := jwt.ParseWithClaims(tokenString, &adminClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return []byte(cfg.Admin.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		claims, ok := token.Claims.(*adminClaims)
		if !ok || claims.TokenType != "access" {
			response.RespondJSON(c, "error", http.StatusUnauthorized, "Invalid or expired token", nil, nil)
			c.Abort()
			return
		}

		c.Set("admin_username", claims.Username)
		c.Next()
	}
}

// RequestID tags every request with an id for log correlation.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("request_id", requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}

// RequestLogger emits one structured line per request.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		latency := time.Since(start)
		if status := c.Writer.Status(); status >= http.StatusInternalServerError && len(c.Errors) > 0 {
			log.LogHTTPError(c, c.Errors.Last(), status)
			return
		}
		log.LogHTTPRequest(c, latency)
	}
}

// Recovery converts panics into 500 responses without leaking internals.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		log.WithFields(map[string]interface{}{
			"panic": fmt.Sprintf("%v", recovered),
			"path":  c.Request.URL.Path,
		}).Error("Recovered from panic")
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Internal server error", nil, nil)
		c.Abort()
	})
}
