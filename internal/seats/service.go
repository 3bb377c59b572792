package seats

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"cinebook/internal/shared/config"
	"cinebook/internal/showtimes"
	"cinebook/pkg/logger"
)

var (
	ErrSeatConflict = errors.New("one or more seats are no longer available")
	ErrInvalidSeat  = errors.New("seat does not exist in this auditorium")
	ErrHoldLimit    = errors.New("too many concurrent reservations from this client")
)

// OccupancySource reports seats already attached to live bookings for a
// showtime. Implemented by the booking domain so seat state stays one
// directional.
type OccupancySource interface {
	BookedSeats(ctx context.Context, showtimeID uuid.UUID) (BookedPartition, error)
}

type Service interface {
	Reserve(ctx context.Context, req ReserveSeatsRequest, holderIP string) (*ReserveSeatsResponse, error)
	Resolve(ctx context.Context, showtimeID string) (*AvailabilityPartition, error)
	HeldBy(ctx context.Context, showtimeID uuid.UUID, holderID string) (map[string]bool, error)
	Release(ctx context.Context, showtimeID uuid.UUID, holderID string) error
}

type service struct {
	repo       Repository
	showtimes  showtimes.Service
	bookings   OccupancySource
	holdTTL    time.Duration
	maxPerIP   int
	logger     *logger.Logger
	timeSource func() time.Time
}

func NewService(repo Repository, showtimeService showtimes.Service, bookings OccupancySource, cfg *config.Config, log *logger.Logger) Service {
	return &service{
		repo:       repo,
		showtimes:  showtimeService,
		bookings:   bookings,
		holdTTL:    cfg.Booking.HoldTTL,
		maxPerIP:   cfg.Booking.MaxHoldsPerIP,
		logger:     log,
		timeSource: time.Now,
	}
}

// Reserve claims seats for a holder, replacing any seats that holder already
// had on the same showtime. The per client ceiling is checked before seat
// conflicts so a greedy client gets throttled even when its seats are free.
func (s *service) Reserve(ctx context.Context, req ReserveSeatsRequest, holderIP string) (*ReserveSeatsResponse, error) {
	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		return nil, showtimes.ErrShowtimeNotFound
	}

	layout, err := s.showtimes.GetLayout(ctx, req.ShowtimeID)
	if err != nil {
		return nil, err
	}

	seatIDs, err := NormalizeSeats(req.Seats, layout)
	if err != nil {
		return nil, err
	}

	now := s.timeSource()

	active, err := s.repo.CountActiveShowtimesByIP(ctx, holderIP, now)
	if err != nil {
		return nil, err
	}
	held, err := s.HeldBy(ctx, showtimeID, req.HolderID)
	if err != nil {
		return nil, err
	}
	// Replacing holds on a showtime the client already occupies does not
	// consume a new slot.
	if int(active) >= s.maxPerIP && len(held) == 0 {
		s.logger.LogRateLimitExceeded(ctx, holderIP, "seat-holds")
		return nil, ErrHoldLimit
	}

	partition, err := s.resolveForShowtime(ctx, showtimeID, layout, now)
	if err != nil {
		return nil, err
	}
	taken := partition.Unavailable(held)
	var conflicts []string
	for _, seat := range seatIDs {
		if taken[seat] {
			conflicts = append(conflicts, seat)
		}
	}
	if len(conflicts) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrSeatConflict, conflicts)
	}

	expiresAt := now.Add(s.holdTTL)
	if err := s.repo.ReplaceHolds(ctx, showtimeID, req.HolderID, holderIP, seatIDs, expiresAt); err != nil {
		return nil, err
	}

	s.logger.LogSeatsReserved(ctx, req.ShowtimeID, req.HolderID, seatIDs)
	return &ReserveSeatsResponse{
		ShowtimeID: req.ShowtimeID,
		Seats:      seatIDs,
		ExpiresAt:  expiresAt,
	}, nil
}

// Resolve computes the full availability partition for a showtime. Purely a
// read: expired holds are filtered by timestamp, never mutated here.
func (s *service) Resolve(ctx context.Context, showtimeID string) (*AvailabilityPartition, error) {
	id, err := uuid.Parse(showtimeID)
	if err != nil {
		return nil, showtimes.ErrShowtimeNotFound
	}
	layout, err := s.showtimes.GetLayout(ctx, showtimeID)
	if err != nil {
		return nil, err
	}
	return s.resolveForShowtime(ctx, id, layout, s.timeSource())
}

func (s *service) resolveForShowtime(ctx context.Context, showtimeID uuid.UUID, layout *showtimes.Layout, now time.Time) (*AvailabilityPartition, error) {
	booked, err := s.bookings.BookedSeats(ctx, showtimeID)
	if err != nil {
		return nil, err
	}

	holds, err := s.repo.ListActiveHolds(ctx, showtimeID, now)
	if err != nil {
		return nil, err
	}

	// A seat that just got booked may still carry a stale hold row, booked
	// buckets win over reserved.
	bookedSet := make(map[string]bool)
	for _, bucket := range [][]string{booked.PendingPayment, booked.PendingApproval, booked.Approved, booked.Confirmed} {
		for _, seat := range bucket {
			bookedSet[seat] = true
		}
	}
	reservedSet := make(map[string]bool)
	for _, h := range holds {
		if !bookedSet[h.SeatID] {
			reservedSet[h.SeatID] = true
		}
	}

	partition := &AvailabilityPartition{
		ShowtimeID:           showtimeID.String(),
		PendingPaymentSeats:  sortedOrEmpty(booked.PendingPayment),
		PendingApprovalSeats: sortedOrEmpty(booked.PendingApproval),
		ApprovedSeats:        sortedOrEmpty(booked.Approved),
		ConfirmedSeats:       sortedOrEmpty(booked.Confirmed),
		ReservedSeats:        sortedKeys(reservedSet),
		DisabledSeats:        sortedOrEmpty(layout.NonSelectableSeats),
	}
	return partition, nil
}

func (s *service) HeldBy(ctx context.Context, showtimeID uuid.UUID, holderID string) (map[string]bool, error) {
	holds, err := s.repo.ListActiveHolds(ctx, showtimeID, s.timeSource())
	if err != nil {
		return nil, err
	}
	own := make(map[string]bool)
	for _, h := range holds {
		if h.HolderID == holderID {
			own[h.SeatID] = true
		}
	}
	return own, nil
}

// Release drops the holder's claim on a showtime without waiting for expiry.
// A release is already a write moment, so expired rows get swept along.
func (s *service) Release(ctx context.Context, showtimeID uuid.UUID, holderID string) error {
	if err := s.repo.DeleteForHolder(ctx, showtimeID, holderID); err != nil {
		return err
	}
	if _, err := s.repo.DeleteExpired(ctx, s.timeSource()); err != nil {
		s.logger.ErrorWithContext(ctx, "Failed to sweep expired holds", err, nil)
	}
	return nil
}

// NormalizeSeats validates seat ids against the auditorium geometry and
// rejects disabled seats, collapsing duplicates. Every path that attaches
// seats to a claim, hold or booking, goes through this.
func NormalizeSeats(requested []string, layout *showtimes.Layout) ([]string, error) {
	valid := seatUniverse(layout)
	seen := make(map[string]bool)
	out := make([]string, 0, len(requested))
	for _, seat := range requested {
		if !valid[seat] {
			return nil, fmt.Errorf("%w: %s", ErrInvalidSeat, seat)
		}
		if layout.NonSelectableSeats.Contains(seat) {
			return nil, fmt.Errorf("%w: %s is not selectable", ErrInvalidSeat, seat)
		}
		if seen[seat] {
			continue
		}
		seen[seat] = true
		out = append(out, seat)
	}
	sort.Strings(out)
	return out, nil
}

// seatUniverse enumerates every seat id the layout defines. Rows map to
// letters starting at A, columns run across both aisles.
func seatUniverse(layout *showtimes.Layout) map[string]bool {
	universe := make(map[string]bool, layout.Rows*(layout.LeftCols+layout.RightCols))
	for row := 0; row < layout.Rows; row++ {
		letter := string(rune('A' + row))
		for col := 1; col <= layout.LeftCols+layout.RightCols; col++ {
			universe[fmt.Sprintf("%s%d", letter, col)] = true
		}
	}
	return universe
}

func sortedOrEmpty(seats []string) []string {
	out := make([]string, len(seats))
	copy(out, seats)
	sort.Strings(out)
	return out
}

func sortedKeys(set map[string]bool) []string {
	out := make([]string, 0, len(set))
	for seat := range set {
		out = append(out, seat)
	}
	sort.Strings(out)
	return out
}
