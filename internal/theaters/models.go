package theaters

import (
	"time"

	"github.com/google/uuid"

	"cinebook/internal/shared/types"
)

// Theater carries the seat layout every showtime inherits: row count, the
// left/right column split, and seats that can never be selected. The split is
// opaque metadata for the seating chart; the engine only derives seat
// identifiers from it.
type Theater struct {
	ID                 uuid.UUID        `json:"id" gorm:"type:uuid;default:uuid_generate_v4();primaryKey"`
	Name               string           `json:"name" gorm:"not null;size:255"`
	Address            string           `json:"address" gorm:"size:500"`
	Rows               int              `json:"rows" gorm:"default:11;check:rows > 0"`
	LeftCols           int              `json:"left_cols" gorm:"default:8;check:left_cols >= 0"`
	RightCols          int              `json:"right_cols" gorm:"default:6;check:right_cols >= 0"`
	NonSelectableSeats types.StringList `json:"non_selectable_seats" gorm:"type:jsonb"`
	IsActive           bool             `json:"is_active" gorm:"default:true;index"`
	CreatedAt          time.Time        `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt          time.Time        `json:"updated_at" gorm:"autoUpdateTime"`
}

// TableName specifies the table name for GORM
func (Theater) TableName() string {
	return "theaters"
}

// SeatCount returns the total number of physical seats in the layout
func (t *Theater) SeatCount() int {
	return t.Rows * (t.LeftCols + t.RightCols)
}

type CreateTheaterRequest struct {
	Name               string   `json:"name" binding:"required,min=1,max=255"`
	Address            string   `json:"address" binding:"max=500"`
	Rows               int      `json:"rows" binding:"omitempty,min=1,max=100"`
	LeftCols           int      `json:"left_cols" binding:"omitempty,min=0,max=50"`
	RightCols          int      `json:"right_cols" binding:"omitempty,min=0,max=50"`
	NonSelectableSeats []string `json:"non_selectable_seats"`
}

type UpdateTheaterRequest struct {
	Name               *string  `json:"name" binding:"omitempty,min=1,max=255"`
	Address            *string  `json:"address" binding:"omitempty,max=500"`
	Rows               *int     `json:"rows" binding:"omitempty,min=1,max=100"`
	LeftCols           *int     `json:"left_cols" binding:"omitempty,min=0,max=50"`
	RightCols          *int     `json:"right_cols" binding:"omitempty,min=0,max=50"`
	NonSelectableSeats []string `json:"non_selectable_seats"`
}
