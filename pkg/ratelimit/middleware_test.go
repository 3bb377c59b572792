package ratelimit

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRouteType(t *testing.T) {
	cases := []struct {
		method string
		path   string
		want   string
	}{
		{http.MethodPost, "/api/v1/admin/login", "auth"},
		{http.MethodGet, "/api/v1/admin/bookings", "admin"},
		{http.MethodPut, "/api/v1/admin/bookings/abc/action", "admin"},
		{http.MethodPost, "/api/v1/reserve-seats", "booking"},
		{http.MethodPost, "/api/v1/verify-payment-otp", "booking"},
		{http.MethodPost, "/api/v1/bookings", "booking"},
		{http.MethodGet, "/api/v1/showtimes", "public"},
		{http.MethodGet, "/api/v1/seats/showtime/abc", "public"},
		{http.MethodPost, "/api/v1/bookings/abc/cancel", "booking"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, routeType(tc.method, tc.path), "%s %s", tc.method, tc.path)
	}
}
