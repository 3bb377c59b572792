package seats

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cinebook/internal/shared/types"
	"cinebook/internal/showtimes"
	"cinebook/pkg/logger"
)

type mockSeatRepo struct {
	mock.Mock
}

func (m *mockSeatRepo) ReplaceHolds(ctx context.Context, showtimeID uuid.UUID, holderID, holderIP string, seatIDs []string, expiresAt time.Time) error {
	args := m.Called(ctx, showtimeID, holderID, holderIP, seatIDs, expiresAt)
	return args.Error(0)
}

func (m *mockSeatRepo) ListActiveHolds(ctx context.Context, showtimeID uuid.UUID, now time.Time) ([]SeatHold, error) {
	args := m.Called(ctx, showtimeID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]SeatHold), args.Error(1)
}

func (m *mockSeatRepo) CountActiveShowtimesByIP(ctx context.Context, holderIP string, now time.Time) (int64, error) {
	args := m.Called(ctx, holderIP, now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockSeatRepo) DeleteForHolder(ctx context.Context, showtimeID uuid.UUID, holderID string) error {
	args := m.Called(ctx, showtimeID, holderID)
	return args.Error(0)
}

func (m *mockSeatRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

type mockOccupancy struct {
	mock.Mock
}

func (m *mockOccupancy) BookedSeats(ctx context.Context, showtimeID uuid.UUID) (BookedPartition, error) {
	args := m.Called(ctx, showtimeID)
	return args.Get(0).(BookedPartition), args.Error(1)
}

// stubShowtimes serves one fixed layout for any id.
type stubShowtimes struct {
	layout *showtimes.Layout
}

func (s *stubShowtimes) CreateShowtime(ctx context.Context, req showtimes.CreateShowtimeRequest) (*showtimes.Showtime, error) {
	return nil, nil
}
func (s *stubShowtimes) GetShowtime(ctx context.Context, id string) (*showtimes.Showtime, error) {
	return nil, nil
}
func (s *stubShowtimes) GetLayout(ctx context.Context, id string) (*showtimes.Layout, error) {
	return s.layout, nil
}
func (s *stubShowtimes) ListShowtimes(ctx context.Context) ([]showtimes.ShowtimeListItem, error) {
	return nil, nil
}
func (s *stubShowtimes) ListByMovie(ctx context.Context, movieID string) ([]showtimes.ShowtimeListItem, error) {
	return nil, nil
}
func (s *stubShowtimes) UpdatePrice(ctx context.Context, id string, price int64) error { return nil }
func (s *stubShowtimes) DeactivateShowtime(ctx context.Context, id string) error       { return nil }

func testLayout() *showtimes.Layout {
	return &showtimes.Layout{
		Rows:               11,
		LeftCols:           8,
		RightCols:          6,
		Price:              50000,
		NonSelectableSeats: types.StringList{"A1", "A14"},
	}
}

func newTestService(repo Repository, occupancy OccupancySource) *service {
	return &service{
		repo:       repo,
		showtimes:  &stubShowtimes{layout: testLayout()},
		bookings:   occupancy,
		holdTTL:    5 * time.Minute,
		maxPerIP:   4,
		logger:     logger.GetDefault(),
		timeSource: time.Now,
	}
}

func TestResolvePartition(t *testing.T) {
	showtimeID := uuid.New()
	now := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

	repo := new(mockSeatRepo)
	occupancy := new(mockOccupancy)
	svc := newTestService(repo, occupancy)
	svc.timeSource = func() time.Time { return now }

	occupancy.On("BookedSeats", mock.Anything, showtimeID).Return(BookedPartition{
		PendingPayment:  []string{"B2", "B3"},
		PendingApproval: []string{"C4"},
		Approved:        []string{"D5"},
		Confirmed:       []string{"E6", "E7"},
	}, nil)
	repo.On("ListActiveHolds", mock.Anything, showtimeID, now).Return([]SeatHold{
		{SeatID: "F8", HolderID: "holder-1"},
		{SeatID: "B2", HolderID: "holder-2"}, // stale hold on a booked seat
	}, nil)

	partition, err := svc.Resolve(context.Background(), showtimeID.String())
	assert.NoError(t, err)
	assert.Equal(t, []string{"B2", "B3"}, partition.PendingPaymentSeats)
	assert.Equal(t, []string{"C4"}, partition.PendingApprovalSeats)
	assert.Equal(t, []string{"D5"}, partition.ApprovedSeats)
	assert.Equal(t, []string{"E6", "E7"}, partition.ConfirmedSeats)
	assert.Equal(t, []string{"F8"}, partition.ReservedSeats, "booked bucket wins over a stale hold")
	assert.Equal(t, []string{"A1", "A14"}, partition.DisabledSeats)

	// Every seat appears in exactly one bucket.
	seen := make(map[string]int)
	for _, bucket := range [][]string{
		partition.PendingPaymentSeats, partition.PendingApprovalSeats,
		partition.ApprovedSeats, partition.ConfirmedSeats,
		partition.ReservedSeats, partition.DisabledSeats,
	} {
		for _, seat := range bucket {
			seen[seat]++
		}
	}
	for seat, count := range seen {
		assert.Equal(t, 1, count, "seat %s appears in %d buckets", seat, count)
	}
}

func TestReserve(t *testing.T) {
	showtimeID := uuid.New()
	now := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)
	ctx := context.Background()

	baseRequest := ReserveSeatsRequest{
		ShowtimeID: showtimeID.String(),
		HolderID:   "holder-aaaa",
		Seats:      []string{"G3", "G4"},
	}

	t.Run("Success", func(t *testing.T) {
		repo := new(mockSeatRepo)
		occupancy := new(mockOccupancy)
		svc := newTestService(repo, occupancy)
		svc.timeSource = func() time.Time { return now }

		repo.On("CountActiveShowtimesByIP", mock.Anything, "10.0.0.1", now).Return(int64(0), nil)
		repo.On("ListActiveHolds", mock.Anything, showtimeID, now).Return([]SeatHold{}, nil)
		occupancy.On("BookedSeats", mock.Anything, showtimeID).Return(BookedPartition{}, nil)
		repo.On("ReplaceHolds", mock.Anything, showtimeID, "holder-aaaa", "10.0.0.1",
			[]string{"G3", "G4"}, now.Add(5*time.Minute)).Return(nil)

		result, err := svc.Reserve(ctx, baseRequest, "10.0.0.1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"G3", "G4"}, result.Seats)
		assert.Equal(t, now.Add(5*time.Minute), result.ExpiresAt)
		repo.AssertExpectations(t)
	})

	t.Run("ConflictWithForeignHold", func(t *testing.T) {
		repo := new(mockSeatRepo)
		occupancy := new(mockOccupancy)
		svc := newTestService(repo, occupancy)
		svc.timeSource = func() time.Time { return now }

		repo.On("CountActiveShowtimesByIP", mock.Anything, "10.0.0.1", now).Return(int64(0), nil)
		repo.On("ListActiveHolds", mock.Anything, showtimeID, now).Return([]SeatHold{
			{SeatID: "G3", HolderID: "someone-else"},
		}, nil)
		occupancy.On("BookedSeats", mock.Anything, showtimeID).Return(BookedPartition{}, nil)

		_, err := svc.Reserve(ctx, baseRequest, "10.0.0.1")
		assert.ErrorIs(t, err, ErrSeatConflict)
	})

	t.Run("ReReserveOwnSeatsAllowed", func(t *testing.T) {
		repo := new(mockSeatRepo)
		occupancy := new(mockOccupancy)
		svc := newTestService(repo, occupancy)
		svc.timeSource = func() time.Time { return now }

		repo.On("CountActiveShowtimesByIP", mock.Anything, "10.0.0.1", now).Return(int64(1), nil)
		repo.On("ListActiveHolds", mock.Anything, showtimeID, now).Return([]SeatHold{
			{SeatID: "G3", HolderID: "holder-aaaa"},
			{SeatID: "G5", HolderID: "holder-aaaa"},
		}, nil)
		occupancy.On("BookedSeats", mock.Anything, showtimeID).Return(BookedPartition{}, nil)
		repo.On("ReplaceHolds", mock.Anything, showtimeID, "holder-aaaa", "10.0.0.1",
			[]string{"G3", "G4"}, now.Add(5*time.Minute)).Return(nil)

		result, err := svc.Reserve(ctx, baseRequest, "10.0.0.1")
		assert.NoError(t, err)
		assert.Equal(t, []string{"G3", "G4"}, result.Seats)
	})

	t.Run("ConflictWithBookedSeat", func(t *testing.T) {
		repo := new(mockSeatRepo)
		occupancy := new(mockOccupancy)
		svc := newTestService(repo, occupancy)
		svc.timeSource = func() time.Time { return now }

		repo.On("CountActiveShowtimesByIP", mock.Anything, "10.0.0.1", now).Return(int64(0), nil)
		repo.On("ListActiveHolds", mock.Anything, showtimeID, now).Return([]SeatHold{}, nil)
		occupancy.On("BookedSeats", mock.Anything, showtimeID).Return(BookedPartition{
			Confirmed: []string{"G4"},
		}, nil)

		_, err := svc.Reserve(ctx, baseRequest, "10.0.0.1")
		assert.ErrorIs(t, err, ErrSeatConflict)
	})

	t.Run("HoldCeiling", func(t *testing.T) {
		repo := new(mockSeatRepo)
		occupancy := new(mockOccupancy)
		svc := newTestService(repo, occupancy)
		svc.timeSource = func() time.Time { return now }

		repo.On("CountActiveShowtimesByIP", mock.Anything, "10.0.0.1", now).Return(int64(4), nil)
		repo.On("ListActiveHolds", mock.Anything, showtimeID, now).Return([]SeatHold{}, nil)

		_, err := svc.Reserve(ctx, baseRequest, "10.0.0.1")
		assert.ErrorIs(t, err, ErrHoldLimit)
		repo.AssertNotCalled(t, "ReplaceHolds", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("UnknownSeatRejected", func(t *testing.T) {
		repo := new(mockSeatRepo)
		svc := newTestService(repo, new(mockOccupancy))

		req := baseRequest
		req.Seats = []string{"Z99"}
		_, err := svc.Reserve(ctx, req, "10.0.0.1")
		assert.ErrorIs(t, err, ErrInvalidSeat)
	})

	t.Run("DisabledSeatRejected", func(t *testing.T) {
		repo := new(mockSeatRepo)
		svc := newTestService(repo, new(mockOccupancy))

		req := baseRequest
		req.Seats = []string{"A1"}
		_, err := svc.Reserve(ctx, req, "10.0.0.1")
		assert.ErrorIs(t, err, ErrInvalidSeat)
	})
}

func TestRelease(t *testing.T) {
	showtimeID := uuid.New()
	now := time.Date(2026, 3, 1, 19, 0, 0, 0, time.UTC)

	repo := new(mockSeatRepo)
	svc := newTestService(repo, new(mockOccupancy))
	svc.timeSource = func() time.Time { return now }

	repo.On("DeleteForHolder", mock.Anything, showtimeID, "holder-aaaa").Return(nil)
	repo.On("DeleteExpired", mock.Anything, now).Return(int64(3), nil)

	assert.NoError(t, svc.Release(context.Background(), showtimeID, "holder-aaaa"))
	repo.AssertExpectations(t)
}

func TestSeatUniverse(t *testing.T) {
	universe := seatUniverse(testLayout())
	assert.Len(t, universe, 11*14)
	assert.True(t, universe["A1"])
	assert.True(t, universe["K14"])
	assert.False(t, universe["L1"])
	assert.False(t, universe["A15"])
}

func TestUnavailableExcludesOwnHolds(t *testing.T) {
	partition := &AvailabilityPartition{
		ConfirmedSeats: []string{"B1"},
		ReservedSeats:  []string{"C1", "C2"},
		DisabledSeats:  []string{"A1"},
	}
	taken := partition.Unavailable(map[string]bool{"C1": true})
	assert.True(t, taken["B1"])
	assert.True(t, taken["A1"])
	assert.True(t, taken["C2"])
	assert.False(t, taken["C1"], "holder's own seat must not block them")
}
