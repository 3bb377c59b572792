package showtimes

import (
	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/middleware"
)

func SetupShowtimeRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	public := rg.Group("/showtimes")
	{
		public.GET("", controller.ListShowtimes)
		public.GET("/:id", controller.GetShowtime)
	}

	admin := rg.Group("/admin/showtimes")
	admin.Use(middleware.JWTAuthWithConfig(cfg))
	{
		admin.POST("", controller.CreateShowtime)
		admin.PUT("/:id", controller.UpdatePrice)
		admin.DELETE("/:id", controller.DeactivateShowtime)
	}
}
