package bookings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"

	"cinebook/internal/notifications"
	"cinebook/internal/seats"
	"cinebook/internal/shared/types"
	"cinebook/internal/showtimes"
	"cinebook/internal/storage"
	"cinebook/internal/verification"
	"cinebook/pkg/logger"
)

var (
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidTransition = errors.New("transition not allowed from current status")
	ErrInvalidStatus     = errors.New("unknown booking status")
)

type Service interface {
	CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error)
	GetBooking(ctx context.Context, id string) (*Booking, error)
	GetBookingByContact(ctx context.Context, email, phone string) (*Booking, error)
	ListBookings(ctx context.Context, status string) ([]Booking, error)
	AttachPaymentProof(ctx context.Context, id, filename string, file io.Reader, size int64) (*Booking, error)
	VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*Booking, error)
	Decide(ctx context.Context, id, action, remarks, actor string) (*Booking, error)
	ConfirmBooking(ctx context.Context, id, actor string) (*Booking, error)
	CancelBooking(ctx context.Context, id, actor string) (*Booking, error)
	ForceSetStatus(ctx context.Context, id string, req ForceStatusRequest, actor string) (*Booking, error)
	GetAuditTrail(ctx context.Context, id string) ([]StatusAudit, error)
	GetStats(ctx context.Context) (*BookingStats, error)
	GetAnalytics(ctx context.Context) ([]ShowtimeAnalytics, error)
}

type service struct {
	repo      Repository
	showtimes showtimes.Service
	codes     verification.Service
	notifier  notifications.Publisher
	proofs    storage.Store
	logger    *logger.Logger
}

func NewService(repo Repository, showtimeService showtimes.Service, codes verification.Service, notifier notifications.Publisher, proofs storage.Store, log *logger.Logger) Service {
	return &service{
		repo:      repo,
		showtimes: showtimeService,
		codes:     codes,
		notifier:  notifier,
		proofs:    proofs,
		logger:    log,
	}
}

// CreateBooking turns a seat claim into a pending_payment booking. Requested
// seats are validated against the auditorium layout first, so a direct booking
// cannot land on a disabled or nonexistent seat. The final conflict check runs
// inside the repository transaction under the showtime advisory lock.
func (s *service) CreateBooking(ctx context.Context, req CreateBookingRequest) (*Booking, error) {
	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, showtimes.ErrShowtimeNotFound
	}

	layout, err := s.showtimes.GetLayout(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	seatIDs, err := seats.NormalizeSeats(req.Seats, layout)
	if err != nil {
		return nil, err
	}

	booking := &Booking{
		ShowtimeID:    showtimeID,
		CustomerName:  strings.TrimSpace(req.CustomerName),
		CustomerEmail: strings.ToLower(strings.TrimSpace(req.CustomerEmail)),
		CustomerPhone: strings.TrimSpace(req.CustomerPhone),
		Seats:         types.StringList(seatIDs),
		TotalAmount:   int64(len(seatIDs)) * layout.Price,
		Status:        StatusPendingPayment,
	}

	if err := s.repo.CreateWithSeatCheck(ctx, booking, req.HolderID); err != nil {
		return nil, err
	}

	s.logger.LogBookingCreated(ctx, booking.ID.String(), req.ShowtimeID, booking.TotalAmount)
	return booking, nil
}

func (s *service) GetBooking(ctx context.Context, id string) (*Booking, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	booking, err := s.repo.GetByID(ctx, bookingID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *service) GetBookingByContact(ctx context.Context, email, phone string) (*Booking, error) {
	booking, err := s.repo.GetByContact(ctx, strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(phone))
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return booking, nil
}

func (s *service) ListBookings(ctx context.Context, status string) ([]Booking, error) {
	filter := Status(status)
	if status != "" && !filter.Valid() {
		return nil, ErrInvalidStatus
	}
	return s.repo.GetAll(ctx, filter)
}

// AttachPaymentProof stores the uploaded receipt, moves the booking to
// pending_verification and mails the customer a one time code.
func (s *service) AttachPaymentProof(ctx context.Context, id, filename string, file io.Reader, size int64) (*Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(StatusPendingVerification) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, booking.Status)
	}

	proofURL, err := s.proofs.SavePaymentProof(ctx, booking.ID.String(), filename, file, size)
	if err != nil {
		return nil, fmt.Errorf("failed to store payment proof: %w", err)
	}

	if err := s.transition(ctx, booking, StatusPendingVerification, map[string]interface{}{
		"payment_proof": proofURL,
	}, "customer", false, ""); err != nil {
		return nil, err
	}

	code, err := s.codes.Issue(ctx, booking.CustomerEmail, booking.ID)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, notifications.EmailNotification{
		Type:      notifications.TypeOTPIssued,
		Recipient: booking.CustomerEmail,
		Data: map[string]interface{}{
			"customer_name": booking.CustomerName,
			"code":          code,
			"booking_id":    booking.ID.String(),
		},
	})

	booking.Status = StatusPendingVerification
	booking.PaymentProof = proofURL
	return booking, nil
}

// VerifyPayment consumes the one time code and promotes the booking to the
// admin approval queue. The booking is located by the customer's email, with
// phone as a fallback.
func (s *service) VerifyPayment(ctx context.Context, req VerifyPaymentRequest) (*Booking, error) {
	if req.Email == "" && req.Phone == "" {
		return nil, ErrBookingNotFound
	}
	booking, err := s.GetBookingByContact(ctx, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(StatusPendingApproval) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTransition, booking.Status)
	}

	if err := s.codes.Verify(ctx, booking.CustomerEmail, req.Code, booking.ID); err != nil {
		return nil, err
	}

	if err := s.transition(ctx, booking, StatusPendingApproval, nil, "customer", false, ""); err != nil {
		return nil, err
	}

	s.publish(ctx, notifications.EmailNotification{
		Type: notifications.TypeBookingPendingApproval,
		Data: map[string]interface{}{
			"booking_id":     booking.ID.String(),
			"customer_name":  booking.CustomerName,
			"customer_email": booking.CustomerEmail,
			"seats":          []string(booking.Seats),
			"total_amount":   booking.TotalAmount,
		},
	})

	booking.Status = StatusPendingApproval
	return booking, nil
}

// Decide applies an admin approval or rejection on a pending_approval booking.
func (s *service) Decide(ctx context.Context, id, action, remarks, actor string) (*Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	var next Status
	var notifType notifications.Type
	switch action {
	case "approve":
		next = StatusApproved
		notifType = notifications.TypeBookingApproved
	case "reject":
		next = StatusAdminRejected
		notifType = notifications.TypeBookingRejected
	default:
		return nil, fmt.Errorf("%w: action %q", ErrInvalidTransition, action)
	}
	if !booking.Status.CanTransition(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}

	updates := map[string]interface{}{"admin_remarks": remarks}
	if err := s.transition(ctx, booking, next, updates, actor, false, remarks); err != nil {
		return nil, err
	}

	s.publish(ctx, notifications.EmailNotification{
		Type:      notifType,
		Recipient: booking.CustomerEmail,
		Data: map[string]interface{}{
			"booking_id":    booking.ID.String(),
			"customer_name": booking.CustomerName,
			"seats":         []string(booking.Seats),
			"remarks":       remarks,
		},
	})

	booking.Status = next
	booking.AdminRemarks = remarks
	return booking, nil
}

func (s *service) ConfirmBooking(ctx context.Context, id, actor string) (*Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(StatusConfirmed) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, StatusConfirmed)
	}
	if err := s.transition(ctx, booking, StatusConfirmed, nil, actor, false, ""); err != nil {
		return nil, err
	}
	booking.Status = StatusConfirmed
	return booking, nil
}

// CancelBooking releases the seats. Allowed from any non terminal state.
func (s *service) CancelBooking(ctx context.Context, id, actor string) (*Booking, error) {
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}
	if !booking.Status.CanTransition(StatusCancelled) {
		return nil, fmt.Errorf("%w: %s is terminal", ErrInvalidTransition, booking.Status)
	}
	if err := s.transition(ctx, booking, StatusCancelled, nil, actor, false, ""); err != nil {
		return nil, err
	}
	booking.Status = StatusCancelled
	return booking, nil
}

// ForceSetStatus bypasses the lifecycle entirely. Every use leaves a forced
// audit row naming the operator and their reason.
func (s *service) ForceSetStatus(ctx context.Context, id string, req ForceStatusRequest, actor string) (*Booking, error) {
	next := Status(req.Status)
	if !next.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidStatus, req.Status)
	}
	booking, err := s.GetBooking(ctx, id)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{"admin_remarks": req.Remarks}
	if err := s.transitionTo(ctx, booking, next, updates, actor, true, req.Remarks); err != nil {
		return nil, err
	}

	booking.Status = next
	booking.AdminRemarks = req.Remarks
	return booking, nil
}

func (s *service) GetAuditTrail(ctx context.Context, id string) ([]StatusAudit, error) {
	bookingID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrBookingNotFound
	}
	return s.repo.ListAudits(ctx, bookingID)
}

func (s *service) GetStats(ctx context.Context) (*BookingStats, error) {
	return s.repo.GetStats(ctx)
}

// GetAnalytics reports occupancy and revenue per active showtime. Only
// approved and confirmed bookings count as sold.
func (s *service) GetAnalytics(ctx context.Context) ([]ShowtimeAnalytics, error) {
	items, err := s.showtimes.ListShowtimes(ctx)
	if err != nil {
		return nil, err
	}

	analytics := make([]ShowtimeAnalytics, 0, len(items))
	for _, st := range items {
		bookings, err := s.repo.GetByShowtime(ctx, st.ID, []Status{StatusApproved, StatusConfirmed})
		if err != nil {
			return nil, err
		}

		var sold int
		var revenue int64
		for _, b := range bookings {
			sold += len(b.Seats)
			revenue += b.TotalAmount
		}

		capacity := 0
		if st.Theater != nil {
			capacity = st.Theater.SeatCount()
		}
		rate := 0.0
		if capacity > 0 {
			rate = float64(sold) / float64(capacity) * 100
		}

		analytics = append(analytics, ShowtimeAnalytics{
			ShowtimeID:    st.ID.String(),
			Movie:         st.MovieTitle,
			ShowDate:      st.ShowDate,
			ShowTime:      st.ShowTime,
			SeatsSold:     sold,
			SeatCapacity:  capacity,
			OccupancyRate: rate,
			Revenue:       revenue,
		})
	}
	return analytics, nil
}

func (s *service) transition(ctx context.Context, booking *Booking, next Status, extra map[string]interface{}, actor string, forced bool, remarks string) error {
	if !booking.Status.CanTransition(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, booking.Status, next)
	}
	return s.transitionTo(ctx, booking, next, extra, actor, forced, remarks)
}

func (s *service) transitionTo(ctx context.Context, booking *Booking, next Status, extra map[string]interface{}, actor string, forced bool, remarks string) error {
	updates := map[string]interface{}{
		"status":     next,
		"updated_by": actor,
	}
	for k, v := range extra {
		updates[k] = v
	}
	audit := &StatusAudit{
		BookingID:  booking.ID,
		FromStatus: booking.Status,
		ToStatus:   next,
		Actor:      actor,
		Forced:     forced,
		Remarks:    remarks,
	}
	if err := s.repo.UpdateStatus(ctx, booking.ID, updates, audit); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ErrBookingNotFound
		}
		return err
	}
	s.logger.LogBookingTransition(ctx, booking.ID.String(), string(booking.Status), string(next))
	return nil
}

// publish dispatches a notification without failing the request path.
func (s *service) publish(ctx context.Context, n notifications.EmailNotification) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.Publish(ctx, n); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to publish notification", err, map[string]interface{}{
			"type": string(n.Type),
		})
	}
}
