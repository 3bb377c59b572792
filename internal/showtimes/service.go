package showtimes

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"cinebook/internal/movies"
	"cinebook/internal/theaters"
	"cinebook/pkg/cache"
)

var (
	ErrShowtimeNotFound = errors.New("showtime not found")
	ErrInvalidShowtime  = errors.New("invalid showtime data")
)

const (
	listCacheKey = "showtimes:active"
	listCacheTTL = 2 * time.Minute
)

type Service interface {
	CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error)
	GetShowtime(ctx context.Context, id string) (*Showtime, error)
	GetLayout(ctx context.Context, id string) (*Layout, error)
	ListShowtimes(ctx context.Context) ([]ShowtimeListItem, error)
	ListByMovie(ctx context.Context, movieID string) ([]ShowtimeListItem, error)
	UpdatePrice(ctx context.Context, id string, price int64) error
	DeactivateShowtime(ctx context.Context, id string) error
}

type service struct {
	repo         Repository
	movieService movies.Service
	theaterSvc   theaters.Service
	cache        cache.Service
}

func NewService(repo Repository, movieService movies.Service, theaterSvc theaters.Service, cacheService cache.Service) Service {
	return &service{
		repo:         repo,
		movieService: movieService,
		theaterSvc:   theaterSvc,
		cache:        cacheService,
	}
}

func (s *service) CreateShowtime(ctx context.Context, req CreateShowtimeRequest) (*Showtime, error) {
	movieID, err := uuid.Parse(req.MovieID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad movie id", ErrInvalidShowtime)
	}
	theaterID, err := uuid.Parse(req.TheaterID)
	if err != nil {
		return nil, fmt.Errorf("%w: bad theater id", ErrInvalidShowtime)
	}

	// Both sides must exist and be active before the showtime is visible.
	if _, err := s.movieService.GetMovie(ctx, req.MovieID); err != nil {
		return nil, err
	}
	if _, err := s.theaterSvc.GetTheater(ctx, req.TheaterID); err != nil {
		return nil, err
	}

	showtime := &Showtime{
		MovieID:   movieID,
		TheaterID: theaterID,
		ShowDate:  req.ShowDate,
		ShowTime:  normalizeClock(req.ShowTime),
		Price:     req.Price,
		IsActive:  true,
	}

	if err := s.repo.Create(ctx, showtime); err != nil {
		return nil, err
	}

	s.invalidateListCache(ctx)
	return showtime, nil
}

func (s *service) GetShowtime(ctx context.Context, id string) (*Showtime, error) {
	showtimeID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrShowtimeNotFound
	}

	showtime, err := s.repo.GetByID(ctx, showtimeID)
	if err != nil {
		if strings.Contains(err.Error(), "not found") {
			return nil, ErrShowtimeNotFound
		}
		return nil, err
	}
	return showtime, nil
}

// GetLayout resolves the auditorium geometry a showtime is sold against. The
// seat engine treats this snapshot as authoritative for seat validation.
func (s *service) GetLayout(ctx context.Context, id string) (*Layout, error) {
	showtime, err := s.GetShowtime(ctx, id)
	if err != nil {
		return nil, err
	}
	if showtime.Theater == nil || showtime.Movie == nil {
		return nil, fmt.Errorf("showtime %s has dangling references", id)
	}

	return &Layout{
		ShowtimeID:         showtime.ID.String(),
		Movie:              showtime.Movie.Title,
		MoviePoster:        showtime.Movie.PosterURL,
		Theater:            showtime.Theater.Name,
		Address:            showtime.Theater.Address,
		ShowDate:           showtime.ShowDate,
		ShowTime:           showtime.ShowTime,
		Price:              showtime.Price,
		Rows:               showtime.Theater.Rows,
		LeftCols:           showtime.Theater.LeftCols,
		RightCols:          showtime.Theater.RightCols,
		NonSelectableSeats: showtime.Theater.NonSelectableSeats,
	}, nil
}

func (s *service) ListShowtimes(ctx context.Context) ([]ShowtimeListItem, error) {
	var items []ShowtimeListItem
	err := s.cache.GetOrSet(ctx, listCacheKey, &items, listCacheTTL, func() (interface{}, error) {
		showtimes, err := s.repo.GetAllActive(ctx)
		if err != nil {
			return nil, err
		}
		return toListItems(showtimes), nil
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

func (s *service) ListByMovie(ctx context.Context, movieID string) ([]ShowtimeListItem, error) {
	id, err := uuid.Parse(movieID)
	if err != nil {
		return nil, movies.ErrMovieNotFound
	}
	showtimes, err := s.repo.GetByMovie(ctx, id)
	if err != nil {
		return nil, err
	}
	return toListItems(showtimes), nil
}

func (s *service) UpdatePrice(ctx context.Context, id string, price int64) error {
	showtimeID, err := uuid.Parse(id)
	if err != nil {
		return ErrShowtimeNotFound
	}
	if price < 0 {
		return fmt.Errorf("%w: negative price", ErrInvalidShowtime)
	}
	if err := s.repo.Update(ctx, showtimeID, map[string]interface{}{"price": price}); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ErrShowtimeNotFound
		}
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *service) DeactivateShowtime(ctx context.Context, id string) error {
	showtimeID, err := uuid.Parse(id)
	if err != nil {
		return ErrShowtimeNotFound
	}
	if err := s.repo.Deactivate(ctx, showtimeID); err != nil {
		if strings.Contains(err.Error(), "not found") {
			return ErrShowtimeNotFound
		}
		return err
	}
	s.invalidateListCache(ctx)
	return nil
}

func (s *service) invalidateListCache(ctx context.Context) {
	// Listing cache is best effort, a stale entry self heals within the TTL.
	_ = s.cache.Delete(ctx, listCacheKey)
}

func toListItems(showtimes []Showtime) []ShowtimeListItem {
	items := make([]ShowtimeListItem, 0, len(showtimes))
	for _, st := range showtimes {
		item := ShowtimeListItem{Showtime: st}
		if st.Movie != nil {
			item.MovieTitle = st.Movie.Title
			item.PosterURL = st.Movie.PosterURL
		}
		if st.Theater != nil {
			item.TheaterName = st.Theater.Name
			item.Address = st.Theater.Address
		}
		items = append(items, item)
	}
	return items
}

// normalizeClock pads "9:30" to "09:30" so string ordering matches clock order.
func normalizeClock(t string) string {
	if len(t) == 4 && strings.Index(t, ":") == 1 {
		return "0" + t
	}
	return t
}
