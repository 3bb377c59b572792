package movies

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrMovieNotFound = errors.New("movie not found")

type Service interface {
	CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error)
	GetMovie(ctx context.Context, id string) (*Movie, error)
	ListMovies(ctx context.Context) ([]Movie, error)
	UpdateMovie(ctx context.Context, id string, req UpdateMovieRequest) (*Movie, error)
	DeleteMovie(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateMovie(ctx context.Context, req CreateMovieRequest) (*Movie, error) {
	movie := &Movie{
		Title:           req.Title,
		PosterURL:       req.PosterURL,
		DurationMinutes: req.DurationMinutes,
		Genre:           req.Genre,
		Rating:          req.Rating,
		Description:     req.Description,
		IsActive:        true,
	}
	if movie.DurationMinutes == 0 {
		movie.DurationMinutes = 120
	}

	if err := s.repo.Create(ctx, movie); err != nil {
		return nil, fmt.Errorf("failed to create movie: %w", err)
	}
	return movie, nil
}

func (s *service) GetMovie(ctx context.Context, id string) (*Movie, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID: %w", err)
	}

	movie, err := s.repo.GetByID(ctx, movieID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMovieNotFound
		}
		return nil, fmt.Errorf("failed to get movie: %w", err)
	}
	return movie, nil
}

func (s *service) ListMovies(ctx context.Context) ([]Movie, error) {
	return s.repo.GetAllActive(ctx)
}

func (s *service) UpdateMovie(ctx context.Context, id string, req UpdateMovieRequest) (*Movie, error) {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid movie ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Title != nil {
		updates["title"] = *req.Title
	}
	if req.PosterURL != nil {
		updates["poster_url"] = *req.PosterURL
	}
	if req.DurationMinutes != nil {
		updates["duration_minutes"] = *req.DurationMinutes
	}
	if req.Genre != nil {
		updates["genre"] = *req.Genre
	}
	if req.Rating != nil {
		updates["rating"] = *req.Rating
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, movieID, updates); err != nil {
			return nil, fmt.Errorf("failed to update movie: %w", err)
		}
	}

	return s.GetMovie(ctx, id)
}

func (s *service) DeleteMovie(ctx context.Context, id string) error {
	movieID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid movie ID: %w", err)
	}
	return s.repo.Deactivate(ctx, movieID)
}
