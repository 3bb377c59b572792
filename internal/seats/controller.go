package seats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"cinebook/internal/shared/utils/response"
	"cinebook/internal/showtimes"
)

type Controller struct {
	service   Service
	showtimes showtimes.Service
}

func NewController(service Service, showtimeService showtimes.Service) *Controller {
	return &Controller{service: service, showtimes: showtimeService}
}

// ReserveSeats handles POST /reserve-seats. Conflicts come back as 409 with
// the contested seats in the message, the hold ceiling as 429.
func (ctrl *Controller) ReserveSeats(c *gin.Context) {
	var req ReserveSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	result, err := ctrl.service.Reserve(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		switch {
		case errors.Is(err, showtimes.ErrShowtimeNotFound):
			response.RespondJSON(c, "error", http.StatusNotFound, "Showtime not found", nil, nil)
		case errors.Is(err, ErrInvalidSeat):
			response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		case errors.Is(err, ErrSeatConflict):
			response.RespondJSON(c, "error", http.StatusConflict, err.Error(), nil, nil)
		case errors.Is(err, ErrHoldLimit):
			response.RespondJSON(c, "error", http.StatusTooManyRequests, "Too many active reservations, complete or let one expire first", nil, nil)
		default:
			response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to reserve seats", nil, nil)
		}
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seats reserved successfully", result, nil)
}

// ReleaseSeats handles DELETE /reserve-seats, dropping the holder's claim
// before it expires on its own. Releasing seats never held is not an error.
func (ctrl *Controller) ReleaseSeats(c *gin.Context) {
	var req ReleaseSeatsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	showtimeID, err := uuid.Parse(req.ShowtimeID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusNotFound, "Showtime not found", nil, nil)
		return
	}

	if err := ctrl.service.Release(c.Request.Context(), showtimeID, req.HolderID); err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to release seats", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Seats released successfully", nil, nil)
}

// GetSeatMap handles GET /seats/showtime/:id, returning the layout together
// with the availability partition.
func (ctrl *Controller) GetSeatMap(c *gin.Context) {
	showtimeID := c.Param("id")

	layout, err := ctrl.showtimes.GetLayout(c.Request.Context(), showtimeID)
	if err != nil {
		if errors.Is(err, showtimes.ErrShowtimeNotFound) {
			response.RespondJSON(c, "error", http.StatusNotFound, "Showtime not found", nil, nil)
			return
		}
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch seat map", nil, nil)
		return
	}

	partition, err := ctrl.service.Resolve(c.Request.Context(), showtimeID)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to resolve availability", nil, nil)
		return
	}

	response.RespondJSON(c, "success", http.StatusOK, "Seat map fetched successfully", gin.H{
		"layout":       layout,
		"availability": partition,
	}, nil)
}
