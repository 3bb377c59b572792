package bookings

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/seats"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/utils/response"
	"cinebook/internal/showtimes"
	"cinebook/internal/verification"
)

type Controller struct {
	service   Service
	maxUpload int64
}

func NewController(service Service, cfg *config.Config) *Controller {
	return &Controller{service: service, maxUpload: cfg.Upload.MaxSize}
}

func (ctrl *Controller) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	booking, err := ctrl.service.CreateBooking(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, showtimes.ErrShowtimeNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Showtime not found", nil, nil)
		case errors.Is(err, seats.ErrInvalidSeat):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, seats.ErrSeatConflict):
			response.RespondJSON(c, "error", http.StatusConflict, "One or more seats are no longer available", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create booking", nil, nil)
		}
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Booking created successfully", booking, nil)
}

func (ctrl *Controller) GetBooking(c *gin.Context) {
	booking, err := ctrl.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch booking", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking fetched successfully", booking, nil)
}

// LookupBooking finds a customer's latest booking by email, falling back to
// phone. Used by clients that lost the booking id.
func (ctrl *Controller) LookupBooking(c *gin.Context) {
	email := c.Query("email")
	phone := c.Query("phone")
	if email == "" && phone == "" {
		response.RespondJSON(c, "error", http.StatusBadRequest, "email or phone is required", nil, nil)
		return
	}

	booking, err := ctrl.service.GetBookingByContact(c.Request.Context(), email, phone)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch booking", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking fetched successfully", booking, nil)
}

// GetPaymentProof redirects to the stored receipt for a booking. Proofs live
// at their storage URL (Cloudinary or /uploads), never in the database.
func (ctrl *Controller) GetPaymentProof(c *gin.Context) {
	booking, err := ctrl.service.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch booking", nil, nil)
		return
	}
	if booking.PaymentProof == "" {
		response.RespondJSON(c, "error", http.StatusNotFound, "No payment proof uploaded for this booking", nil, nil)
		return
	}
	c.Redirect(http.StatusFound, booking.PaymentProof)
}

// DownloadTicket is the placeholder for PDF ticket generation.
func (ctrl *Controller) DownloadTicket(c *gin.Context) {
	response.RespondJSON(c, "error", http.StatusNotImplemented, "Ticket download is not available yet", nil, nil)
}

func (ctrl *Controller) UploadPaymentProof(c *gin.Context) {
	file, header, err := c.Request.FormFile("payment_proof")
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "payment_proof file is required", nil, nil)
		return
	}
	defer file.Close()

	if header.Size > ctrl.maxUpload {
		response.RespondJSON(c, "error", http.StatusRequestEntityTooLarge, "File exceeds upload limit", nil, nil)
		return
	}

	booking, err := ctrl.service.AttachPaymentProof(c.Request.Context(), c.Param("id"), header.Filename, file, header.Size)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrInvalidTransition):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to upload payment proof", nil, nil)
		}
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment proof uploaded, verification code sent", gin.H{
		"booking":      booking,
		"requires_otp": true,
	}, nil)
}

func (ctrl *Controller) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	booking, err := ctrl.service.VerifyPayment(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, verification.ErrInvalidCode):
			response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid or expired verification code", nil, nil)
		case errors.Is(err, ErrInvalidTransition):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to verify payment", nil, nil)
		}
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Payment verified successfully", booking, nil)
}

func (ctrl *Controller) CancelBooking(c *gin.Context) {
	booking, err := ctrl.service.CancelBooking(c.Request.Context(), c.Param("id"), "customer")
	if err != nil {
		ctrl.respondTransitionError(c, err, "Failed to cancel booking")
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking cancelled successfully", booking, nil)
}

// Admin handlers

func (ctrl *Controller) ListBookings(c *gin.Context) {
	bookings, err := ctrl.service.ListBookings(c.Request.Context(), c.Query("status"))
	if err != nil {
		if errors.Is(err, ErrInvalidStatus) {
			response.RespondJSON(c, "error", http.StatusBadRequest, "Unknown status filter", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list bookings", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Bookings fetched successfully", bookings, nil)
}

func (ctrl *Controller) Decide(c *gin.Context) {
	var req AdminDecisionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	booking, err := ctrl.service.Decide(c.Request.Context(), c.Param("id"), req.Action, req.Remarks, adminActor(c))
	if err != nil {
		ctrl.respondTransitionError(c, err, "Failed to apply decision")
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Decision applied successfully", booking, nil)
}

func (ctrl *Controller) ConfirmBooking(c *gin.Context) {
	booking, err := ctrl.service.ConfirmBooking(c.Request.Context(), c.Param("id"), adminActor(c))
	if err != nil {
		ctrl.respondTransitionError(c, err, "Failed to confirm booking")
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Booking confirmed successfully", booking, nil)
}

// ForceStatus is the audited override for stuck bookings. It accepts any
// valid status regardless of the lifecycle.
func (ctrl *Controller) ForceStatus(c *gin.Context) {
	var req ForceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	booking, err := ctrl.service.ForceSetStatus(c.Request.Context(), c.Param("id"), req, adminActor(c))
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
		case errors.Is(err, ErrInvalidStatus):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to set status", nil, nil)
		}
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Status set successfully", booking, nil)
}

func (ctrl *Controller) GetAuditTrail(c *gin.Context) {
	audits, err := ctrl.service.GetAuditTrail(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch audit trail", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Audit trail fetched successfully", audits, nil)
}

func (ctrl *Controller) GetStats(c *gin.Context) {
	stats, err := ctrl.service.GetStats(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch stats", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Stats fetched successfully", stats, nil)
}

func (ctrl *Controller) GetAnalytics(c *gin.Context) {
	analytics, err := ctrl.service.GetAnalytics(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch analytics", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Analytics fetched successfully", analytics, nil)
}

func (ctrl *Controller) respondTransitionError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrBookingNotFound):
		response.RespondJSON(c, "error", http.StatusNotFound, "Booking not found", nil, nil)
	case errors.Is(err, ErrInvalidTransition):
		response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
	default:
		response.RespondJSON(c, "error", http.StatusInternalServerError, fallback, nil, nil)
	}
}

func adminActor(c *gin.Context) string {
	if username, exists := c.Get("admin_username"); exists {
		if s, ok := username.(string); ok && s != "" {
			return s
		}
	}
	return "admin"
}
