package movies

import (
	"time"

	"github.com/google/uuid"
)

// Movie is a catalog entry referenced by showtimes
type Movie struct {
	ID              uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Title           string    `json:"title" gorm:"not null;size:255"`
	PosterURL       string    `json:"poster_url" gorm:"size:500"`
	DurationMinutes int       `json:"duration_minutes" gorm:"default:120;check:duration_minutes > 0"`
	Genre           string    `json:"genre" gorm:"size:100"`
	Rating          string    `json:"rating" gorm:"size:20"`
	Description     string    `json:"description" gorm:"type:text"`
	IsActive        bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt       time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt       time.Time `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Movie) TableName() string {
	return "movies"
}

type CreateMovieRequest struct {
	Title           string `json:"title" binding:"required,min=1,max=255"`
	PosterURL       string `json:"poster_url" binding:"omitempty,url"`
	DurationMinutes int    `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	Genre           string `json:"genre" binding:"max=100"`
	Rating          string `json:"rating" binding:"max=20"`
	Description     string `json:"description" binding:"max=2000"`
}

type UpdateMovieRequest struct {
	Title           *string `json:"title" binding:"omitempty,min=1,max=255"`
	PosterURL       *string `json:"poster_url" binding:"omitempty,url"`
	DurationMinutes *int    `json:"duration_minutes" binding:"omitempty,min=1,max=600"`
	Genre           *string `json:"genre" binding:"omitempty,max=100"`
	Rating          *string `json:"rating" binding:"omitempty,max=20"`
	Description     *string `json:"description" binding:"omitempty,max=2000"`
}
