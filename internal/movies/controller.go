package movies

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/utils/response"
)

type Controller interface {
	ListMovies(c *gin.Context)
	CreateMovie(c *gin.Context)
	UpdateMovie(c *gin.Context)
	DeleteMovie(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListMovies(c *gin.Context) {
	movies, err := ctrl.service.ListMovies(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list movies", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Movies retrieved successfully", movies, nil)
}

func (ctrl *controller) CreateMovie(c *gin.Context) {
	var req CreateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := ctrl.service.CreateMovie(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Movie created successfully", movie, nil)
}

func (ctrl *controller) UpdateMovie(c *gin.Context) {
	var req UpdateMovieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	movie, err := ctrl.service.UpdateMovie(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrMovieNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Movie updated successfully", movie, nil)
}

func (ctrl *controller) DeleteMovie(c *gin.Context) {
	if err := ctrl.service.DeleteMovie(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Movie deleted successfully", nil, nil)
}
