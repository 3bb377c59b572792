package showtimes

import (
	"time"

	"github.com/google/uuid"

	"cinebook/internal/movies"
	"cinebook/internal/shared/types"
	"cinebook/internal/theaters"
)

// Showtime binds a movie to a theater at a date and time with a flat per-seat
// price. Immutable once created except for the active flag; the seat layout is
// inherited from the theater at read time.
type Showtime struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	MovieID   uuid.UUID `json:"movie_id" gorm:"type:uuid;index;not null"`
	TheaterID uuid.UUID `json:"theater_id" gorm:"type:uuid;index;not null"`
	ShowDate  string    `json:"show_date" gorm:"size:10;not null;index"`
	ShowTime  string    `json:"show_time" gorm:"size:8;not null"`
	Price     int64     `json:"price" gorm:"not null;check:price >= 0"`
	IsActive  bool      `json:"is_active" gorm:"default:true;index"`
	CreatedAt time.Time `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt time.Time `json:"updated_at" gorm:"autoUpdateTime"`

	// Relationships
	Movie   *movies.Movie     `json:"movie,omitempty" gorm:"foreignKey:MovieID;constraint:OnDelete:RESTRICT;"`
	Theater *theaters.Theater `json:"theater,omitempty" gorm:"foreignKey:TheaterID;constraint:OnDelete:RESTRICT;"`
}

// TableName specifies the table name for GORM
func (Showtime) TableName() string {
	return "showtimes"
}

// Layout is the showtime-scoped view of the auditorium handed to the seat
// engine and to clients rendering the seating chart.
type Layout struct {
	ShowtimeID         string           `json:"showtime_id"`
	Movie              string           `json:"movie"`
	MoviePoster        string           `json:"movie_poster"`
	Theater            string           `json:"theater"`
	Address            string           `json:"address"`
	ShowDate           string           `json:"show_date"`
	ShowTime           string           `json:"showtime"`
	Price              int64            `json:"price"`
	Rows               int              `json:"rows"`
	LeftCols           int              `json:"left_cols"`
	RightCols          int              `json:"right_cols"`
	NonSelectableSeats types.StringList `json:"non_selectable"`
}

type ShowtimeListItem struct {
	Showtime
	MovieTitle  string `json:"movie_title"`
	PosterURL   string `json:"poster_url"`
	TheaterName string `json:"theater_name"`
	Address     string `json:"address"`
}

type CreateShowtimeRequest struct {
	MovieID   string `json:"movie_id" binding:"required,uuid"`
	TheaterID string `json:"theater_id" binding:"required,uuid"`
	ShowDate  string `json:"show_date" binding:"required,datetime=2006-01-02"`
	ShowTime  string `json:"show_time" binding:"required"`
	Price     int64  `json:"price" binding:"required,min=0"`
}
