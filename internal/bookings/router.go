package bookings

import (
	"github.com/gin-gonic/gin"

	"cinebook/internal/shared/config"
	"cinebook/internal/shared/middleware"
)

func SetupBookingRoutes(rg *gin.RouterGroup, cfg *config.Config, controller *Controller) {
	public := rg.Group("/bookings")
	{
		public.POST("", controller.CreateBooking)
		public.GET("/lookup", controller.LookupBooking)
		public.GET("/:id", controller.GetBooking)
		public.POST("/:id/payment-proof", controller.UploadPaymentProof)
		public.POST("/:id/cancel", controller.CancelBooking)
	}
	rg.POST("/verify-payment-otp", controller.VerifyPayment)
	rg.GET("/payment-proof/:id", controller.GetPaymentProof)
	rg.GET("/download-ticket/:id", controller.DownloadTicket)

	admin := rg.Group("/admin")
	admin.Use(middleware.JWTAuthWithConfig(cfg))
	{
		admin.GET("/bookings", controller.ListBookings)
		admin.GET("/bookings/:id/audit", controller.GetAuditTrail)
		admin.POST("/bookings/:id/decision", controller.Decide)
		admin.POST("/bookings/:id/confirm", controller.ConfirmBooking)
		admin.PUT("/bookings/:id/action", controller.ForceStatus)
		admin.GET("/stats", controller.GetStats)
		admin.GET("/analytics", controller.GetAnalytics)
	}
}
