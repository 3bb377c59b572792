package theaters

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cinebook/internal/shared/types"
)

var ErrTheaterNotFound = errors.New("theater not found")

type Service interface {
	CreateTheater(ctx context.Context, req CreateTheaterRequest) (*Theater, error)
	GetTheater(ctx context.Context, id string) (*Theater, error)
	ListTheaters(ctx context.Context) ([]Theater, error)
	UpdateTheater(ctx context.Context, id string, req UpdateTheaterRequest) (*Theater, error)
	DeleteTheater(ctx context.Context, id string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateTheater(ctx context.Context, req CreateTheaterRequest) (*Theater, error) {
	theater := &Theater{
		Name:               req.Name,
		Address:            req.Address,
		Rows:               req.Rows,
		LeftCols:           req.LeftCols,
		RightCols:          req.RightCols,
		NonSelectableSeats: types.StringList(req.NonSelectableSeats),
		IsActive:           true,
	}
	// Default layout matches the reference auditorium
	if theater.Rows == 0 {
		theater.Rows = 11
	}
	if theater.LeftCols == 0 && theater.RightCols == 0 {
		theater.LeftCols = 8
		theater.RightCols = 6
	}

	if err := s.repo.Create(ctx, theater); err != nil {
		return nil, fmt.Errorf("failed to create theater: %w", err)
	}
	return theater, nil
}

func (s *service) GetTheater(ctx context.Context, id string) (*Theater, error) {
	theaterID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid theater ID: %w", err)
	}

	theater, err := s.repo.GetByID(ctx, theaterID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTheaterNotFound
		}
		return nil, fmt.Errorf("failed to get theater: %w", err)
	}
	return theater, nil
}

func (s *service) ListTheaters(ctx context.Context) ([]Theater, error) {
	return s.repo.GetAllActive(ctx)
}

func (s *service) UpdateTheater(ctx context.Context, id string, req UpdateTheaterRequest) (*Theater, error) {
	theaterID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("invalid theater ID: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Rows != nil {
		updates["rows"] = *req.Rows
	}
	if req.LeftCols != nil {
		updates["left_cols"] = *req.LeftCols
	}
	if req.RightCols != nil {
		updates["right_cols"] = *req.RightCols
	}
	if req.NonSelectableSeats != nil {
		updates["non_selectable_seats"] = types.StringList(req.NonSelectableSeats)
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, theaterID, updates); err != nil {
			return nil, fmt.Errorf("failed to update theater: %w", err)
		}
	}

	return s.GetTheater(ctx, id)
}

func (s *service) DeleteTheater(ctx context.Context, id string) error {
	theaterID, err := uuid.Parse(id)
	if err != nil {
		return fmt.Errorf("invalid theater ID: %w", err)
	}
	return s.repo.Deactivate(ctx, theaterID)
}
