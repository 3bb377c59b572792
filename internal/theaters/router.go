package theaters

import (
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupTheaterRoutes(router *gin.RouterGroup, cfg *config.Config, controller Controller) {
	admin := router.Group("/admin/theaters")
	admin.Use(middleware.JWTAuthWithConfig(cfg))
	{
		admin.GET("", controller.ListTheaters)
		admin.POST("", controller.CreateTheater)
		admin.PUT("/:id", controller.UpdateTheater)
		admin.DELETE("/:id", controller.DeleteTheater)
	}
}
