package seats

import (
	"github.com/gin-gonic/gin"
)

func SetupSeatRoutes(rg *gin.RouterGroup, controller *Controller) {
	rg.POST("/reserve-seats", controller.ReserveSeats)
	rg.DELETE("/reserve-seats", controller.ReleaseSeats)
	rg.GET("/seats/showtime/:id", controller.GetSeatMap)
	rg.GET("/showtime/:id", controller.GetSeatMap)
}
