package settings

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/middleware"
	"cinebook/internal/shared/utils/response"
)

type Controller struct {
	service Service
}

func NewController(service Service) *Controller {
	return &Controller{service: service}
}

func (ctrl *Controller) GetSettings(c *gin.Context) {
	settings, err := ctrl.service.Get(c.Request.Context())
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to fetch settings", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Settings fetched successfully", settings, nil)
}

func (ctrl *Controller) UpdateSettings(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondJSON(c, "error", http.StatusBadRequest, "Invalid request payload", nil, err.Error())
		return
	}

	settings, err := ctrl.service.Update(c.Request.Context(), req)
	if err != nil {
		response.RespondJSON(c, "error", http.StatusInternalServerError, "Failed to update settings", nil, nil)
		return
	}
	response.RespondJSON(c, "success", http.StatusOK, "Settings updated successfully", settings, nil)
}

func SetupSettingsRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	admin := rg.Group("/admin/settings")
	admin.Use(middleware.JWTAuthWithConfig(cfg))
	{
		admin.GET("", controller.GetSettings)
		admin.PUT("", controller.UpdateSettings)
	}
}
