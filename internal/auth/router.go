package auth

import (
	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/middleware"
)

func SetupAuthRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	admin := rg.Group("/admin")
	{
		admin.POST("/login", controller.Login)
		admin.GET("/me", middleware.JWTAuthWithConfig(cfg), controller.Me)
		admin.POST("/logout", middleware.JWTAuthWithConfig(cfg), controller.Logout)
	}
}
