package showtimes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/movies"
	"cinebook/internal/shared/utils/response"
	"cinebook/internal/theaters"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) ListShowtimes(c *gin.Context) {
	if movieID := c.Query("movie_id"); movieID != "" {
		items, err := ctrl.service.ListByMovie(c.Request.Context(), movieID)
		if err != nil {
			if errors.Is(err, movies.ErrMovieNotFound) {
				response.RespondJSON(c, "error", http.StatusNotFound, "Movie not found", nil, nil)
				return
			}
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch showtimes", nil, nil)
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Showtimes fetched successfully", items, nil)
		return
	}

	items, err := ctrl.service.ListShowtimes(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch showtimes", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Showtimes fetched successfully", items, nil)
}

func (ctrl *Controller) GetShowtime(c *gin.Context) {
	showtime, err := ctrl.service.GetShowtime(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch showtime", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Showtime fetched successfully", showtime, nil)
}

func (ctrl *Controller) CreateShowtime(c *gin.Context) {
	var req CreateShowtimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	showtime, err := ctrl.service.CreateShowtime(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, movies.ErrMovieNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Movie not found", nil, nil)
		case errors.Is(err, theaters.ErrTheaterNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Theater not found", nil, nil)
		case errors.Is(err, ErrInvalidShowtime):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to create showtime", nil, nil)
		}
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Showtime created successfully", showtime, nil)
}

type updatePriceRequest struct {
	Price int64 `json:"price" binding:"min=0"`
}

func (ctrl *Controller) UpdatePrice(c *gin.Context) {
	var req updatePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	if err := ctrl.service.UpdatePrice(c.Request.Context(), c.Param("id"), req.Price); err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to update showtime", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Showtime updated successfully", nil, nil)
}

func (ctrl *Controller) DeactivateShowtime(c *gin.Context) {
	if err := ctrl.service.DeactivateShowtime(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrShowtimeNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to deactivate showtime", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Showtime deactivated successfully", nil, nil)
}
