package bookings

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// stubService overrides only what the handler under test touches; anything
// else panics through the embedded nil interface.
type stubService struct {
	Service
	booking *Booking
	err     error
}

func (s *stubService) GetBooking(ctx context.Context, id string) (*Booking, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.booking, nil
}

func newTestEngine(svc Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	ctrl := &Controller{service: svc, maxUpload: 1 << 20}
	engine := gin.New()
	engine.GET("/payment-proof/:id", ctrl.GetPaymentProof)
	engine.GET("/download-ticket/:id", ctrl.DownloadTicket)
	return engine
}

func TestGetPaymentProof(t *testing.T) {
	bookingID := uuid.NewString()

	t.Run("RedirectsToStoredProof", func(t *testing.T) {
		engine := newTestEngine(&stubService{booking: &Booking{
			Status:       StatusPendingVerification,
			PaymentProof: "/uploads/" + bookingID + ".png",
		}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payment-proof/"+bookingID, nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/uploads/"+bookingID+".png", w.Header().Get("Location"))
	})

	t.Run("NothingUploadedYet", func(t *testing.T) {
		engine := newTestEngine(&stubService{booking: &Booking{Status: StatusPendingPayment}})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payment-proof/"+bookingID, nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("UnknownBooking", func(t *testing.T) {
		engine := newTestEngine(&stubService{err: ErrBookingNotFound})

		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/payment-proof/"+bookingID, nil)
		engine.ServeHTTP(w, req)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestDownloadTicket(t *testing.T) {
	engine := newTestEngine(&stubService{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/download-ticket/"+uuid.NewString(), nil)
	engine.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotImplemented, w.Code)
}
