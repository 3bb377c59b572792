package database

import (
	"fmt"

	"gorm.io/gorm"

	"cinebook/internal/bookings"
	"cinebook/internal/movies"
	"cinebook/internal/seats"
	"cinebook/internal/settings"
	"cinebook/internal/showtimes"
	"cinebook/internal/theaters"
	"cinebook/internal/verification"
)

// Migrate creates or updates every table the application owns. Order matters
// for the foreign keys.
func Migrate(db *gorm.DB) error {
	models := []interface{}{
		&movies.Movie{},
		&theaters.Theater{},
		&showtimes.Showtime{},
		&seats.SeatHold{},
		&bookings.Booking{},
		&bookings.StatusAudit{},
		&verification.VerificationCode{},
		&settings.AdminSettings{},
	}
	if err := db.AutoMigrate(models...); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}
