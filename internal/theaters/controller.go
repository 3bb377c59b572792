package theaters

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/utils/response"
)

type Controller interface {
	ListTheaters(c *gin.Context)
	CreateTheater(c *gin.Context)
	UpdateTheater(c *gin.Context)
	DeleteTheater(c *gin.Context)
}

type controller struct {
	service Service
}

func NewController(service Service) Controller {
	return &controller{service: service}
}

func (ctrl *controller) ListTheaters(c *gin.Context) {
	theaters, err := ctrl.service.ListTheaters(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to list theaters", nil, err.Error())
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theaters retrieved successfully", theaters, nil)
}

func (ctrl *controller) CreateTheater(c *gin.Context) {
	var req CreateTheaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	theater, err := ctrl.service.CreateTheater(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusCreated, "Theater created successfully", theater, nil)
}

func (ctrl *controller) UpdateTheater(c *gin.Context) {
	var req UpdateTheaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request body", nil, err.Error())
		return
	}

	theater, err := ctrl.service.UpdateTheater(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		statusCode := http.StatusBadRequest
		if errors.Is(err, ErrTheaterNotFound) {
			statusCode = http.StatusNotFound
		}
		response.RespondJSON(c, "error", statusCode, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theater updated successfully", theater, nil)
}

func (ctrl *controller) DeleteTheater(c *gin.Context) {
	if err := ctrl.service.DeleteTheater(c.Request.Context(), c.Param("id")); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, err.Error(), nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Theater deleted successfully", nil, nil)
}
