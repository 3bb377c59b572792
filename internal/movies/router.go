package movies

import (
	"cinebook/internal/shared/config"
	"cinebook/internal/shared/middleware"

	"github.com/gin-gonic/gin"
)

func SetupMovieRoutes(router *gin.RouterGroup, cfg *config.Config, controller Controller) {
	router.GET("/movies", controller.ListMovies)

	admin := router.Group("/admin/movies")
	admin.Use(middleware.JWTAuthWithConfig(cfg))
	{
		admin.GET("", controller.ListMovies)
		admin.POST("", controller.CreateMovie)
		admin.PUT("/:id", controller.UpdateMovie)
		admin.DELETE("/:id", controller.DeleteMovie)
	}
}
