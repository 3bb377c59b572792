package showtimes

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, showtime *Showtime) error
	GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error)
	GetAllActive(ctx context.Context) ([]Showtime, error)
	GetByMovie(ctx context.Context, movieID uuid.UUID) ([]Showtime, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Deactivate(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, showtime *Showtime) error {
	if err := r.db.WithContext(ctx).Create(showtime).Error; err != nil {
		return fmt.Errorf("failed to create showtime: %w", err)
	}
	return nil
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Showtime, error) {
	var showtime Showtime
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Theater").
		Where("id = ?", id).
		First(&showtime).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("showtime not found")
		}
		return nil, fmt.Errorf("failed to get showtime: %w", err)
	}
	return &showtime, nil
}

func (r *repository) GetAllActive(ctx context.Context) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Theater").
		Where("is_active = ?", true).
		Order("show_date ASC, show_time ASC").
		Find(&showtimes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get showtimes: %w", err)
	}
	return showtimes, nil
}

func (r *repository) GetByMovie(ctx context.Context, movieID uuid.UUID) ([]Showtime, error) {
	var showtimes []Showtime
	err := r.db.WithContext(ctx).
		Preload("Movie").
		Preload("Theater").
		Where("movie_id = ? AND is_active = ?", movieID, true).
		Order("show_date ASC, show_time ASC").
		Find(&showtimes).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get showtimes for movie: %w", err)
	}
	return showtimes, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := r.db.WithContext(ctx).Model(&Showtime{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update showtime: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("showtime not found")
	}
	return nil
}

func (r *repository) Deactivate(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Model(&Showtime{}).Where("id = ?", id).Update("is_active", false)
	if result.Error != nil {
		return fmt.Errorf("failed to deactivate showtime: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("showtime not found")
	}
	return nil
}
