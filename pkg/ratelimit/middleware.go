package ratelimit

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/utils/response"
	"cinebook/pkg/logger"
)

// routeType buckets paths so each traffic class gets its own quota. Seat
// reservation and booking creation are the hot, abuse prone paths.
func routeType(method, path string) string {
	switch {
	case strings.HasPrefix(path, "/api/v1/admin/login"):
		return "auth"
	case strings.HasPrefix(path, "/api/v1/admin"):
		return "admin"
	case path == "/api/v1/reserve-seats",
		path == "/api/v1/verify-payment-otp",
		strings.HasPrefix(path, "/api/v1/bookings") && method == http.MethodPost:
		return "booking"
	case method == http.MethodGet:
		return "public"
	}
	return "default"
}

func limitFor(cfg *config.Config, rt string) int {
	switch rt {
	case "auth":
		return cfg.RateLimit.AuthRequests
	case "admin":
		return cfg.RateLimit.AdminRequests
	case "booking":
		return cfg.RateLimit.BookingRequests
	case "public":
		return cfg.RateLimit.PublicRequests
	}
	return cfg.RateLimit.DefaultRequests
}

// Middleware enforces per IP, per route-class limits. Redis being unreachable
// fails open so the site stays up.
func Middleware(limiter *Limiter, cfg *config.Config, log *logger.Logger) gin.HandlerFunc {
	whitelist := make(map[string]bool, len(cfg.RateLimit.WhitelistedIPs))
	for _, ip := range cfg.RateLimit.WhitelistedIPs {
		whitelist[ip] = true
	}

	return func(c *gin.Context) {
		if !cfg.RateLimit.Enabled {
			c.Next()
			return
		}

		ip := c.ClientIP()
		if whitelist[ip] {
			c.Next()
			return
		}

		rt := routeType(c.Request.Method, c.Request.URL.Path)
		limit := limitFor(cfg, rt)
		allowed, remaining, err := limiter.Allow(c.Request.Context(), ip+":"+rt, limit)
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, failing open")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))

		if !allowed {
			log.LogRateLimitExceeded(c.Request.Context(), ip, rt)
			response.RespondJSON(c, "error", http.StatusTooManyRequests, "Too many requests, slow down", nil, nil)
			c.Abort()
			return
		}
		c.Next()
	}
}
