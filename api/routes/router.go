// api/routes/router.go
package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cinebook/internal/auth"
	"cinebook/internal/bookings"
	"cinebook/internal/movies"
	"cinebook/internal/notifications"
	"cinebook/internal/seats"
	"cinebook/internal/settings"
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/database"
	"cinebook/internal/showtimes"
	"cinebook/internal/storage"
	"cinebook/internal/theaters"
	"cinebook/internal/verification"
	"cinebook/pkg/cache"
	"cinebook/pkg/logger"
)

// Router holds all route dependencies
type Router struct {
	config   *config.Config
	conns    *database.Connections
	cache    cache.Service
	notifier notifications.Publisher
	proofs   storage.Store
	logger   *logger.Logger

	// services shared between domains
	movieService    movies.Service
	theaterService  theaters.Service
	showtimeService showtimes.Service
	bookingRepo     bookings.Repository
}

// NewRouter creates a new router instance
func NewRouter(cfg *config.Config, conns *database.Connections, cacheService cache.Service, notifier notifications.Publisher, proofs storage.Store, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		conns:    conns,
		cache:    cacheService,
		notifier: notifier,
		proofs:   proofs,
		logger:   log,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes(engine *gin.Engine) {
	r.setupHealthRoutes(engine)

	api := engine.Group("/api/v1")
	{
		r.setupAuthRoutes(api)

		// Catalog first: showtimes depend on movies and theaters.
		r.setupCatalogRoutes(api)

		// Bookings before seats: the seat engine reads booked seats through
		// the booking repository.
		r.setupBookingRoutes(api)

		r.setupSettingsRoutes(api)
	}
}

func (r *Router) setupHealthRoutes(engine *gin.Engine) {
	engine.GET("/health", func(c *gin.Context) {
		if err := r.conns.HealthCheck(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":    "unhealthy",
				"error":     err.Error(),
				"timestamp": time.Now(),
				"service":   "cinebook-backend",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
			"service":   "cinebook-backend",
		})
	})

	engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})
}

func (r *Router) setupAuthRoutes(rg *gin.RouterGroup) {
	authService := auth.NewService(r.config, r.logger)
	authController := auth.NewController(authService)
	auth.SetupAuthRoutes(rg, r.config, authController)
}

func (r *Router) setupCatalogRoutes(rg *gin.RouterGroup) {
	movieRepo := movies.NewRepository(r.conns.DB)
	r.movieService = movies.NewService(movieRepo)
	movieController := movies.NewController(r.movieService)
	movies.SetupMovieRoutes(rg, r.config, movieController)

	theaterRepo := theaters.NewRepository(r.conns.DB)
	r.theaterService = theaters.NewService(theaterRepo)
	theaterController := theaters.NewController(r.theaterService)
	theaters.SetupTheaterRoutes(rg, r.config, theaterController)

	showtimeRepo := showtimes.NewRepository(r.conns.DB)
	r.showtimeService = showtimes.NewService(showtimeRepo, r.movieService, r.theaterService, r.cache)
	showtimeController := showtimes.NewController(r.showtimeService)
	showtimes.SetupShowtimeRoutes(rg, r.config, showtimeController)
}

func (r *Router) setupBookingRoutes(rg *gin.RouterGroup) {
	r.bookingRepo = bookings.NewRepository(r.conns.DB)

	seatRepo := seats.NewRepository(r.conns.DB)
	seatService := seats.NewService(seatRepo, r.showtimeService, r.bookingRepo, r.config, r.logger)
	seatController := seats.NewController(seatService, r.showtimeService)
	seats.SetupSeatRoutes(rg, seatController)

	verificationRepo := verification.NewRepository(r.conns.DB)
	verificationService := verification.NewService(verificationRepo, r.config)

	bookingService := bookings.NewService(r.bookingRepo, r.showtimeService, verificationService, r.notifier, r.proofs, r.logger)
	bookingController := bookings.NewController(bookingService, r.config)
	bookings.SetupBookingRoutes(rg, r.config, bookingController)
}

func (r *Router) setupSettingsRoutes(rg *gin.RouterGroup) {
	settingsService := settings.NewService(r.conns.DB, r.config)
	settingsController := settings.NewController(settingsService)
	settings.SetupSettingsRoutes(rg, r.config, settingsController)
}
