package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sentra-dev/sentra/internal/handlers"
	"github.com/sentra-dev/sentra/internal/middleware"
	"github.com/sentra-dev/sentra/internal/types"
)

func NewRouter(h *handlers.Handler) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws", h.WebSocket)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.CreateUser)
			auth.POST("/login", handlers.LoginUser)
			auth.POST("/logout", handlers.LogoutUser)
			auth.GET("/me", middleware.AuthMiddleware(), handlers.Me)
		}

		accidents := api.Group("/accidents")
		{
			// Detection pipeline entry point; triggers the alert fan-out.
			accidents.POST("", h.CreateAccident)
			accidents.GET("", h.GetAccidents)
			accidents.GET("/:accident_id", h.GetAccident)
			accidents.GET("/:accident_id/notifications", h.GetAccidentNotifications)

			// Anyone holding a contact address may claim or reject.
			accidents.POST("/:accident_id/claim", h.ClaimAccident)
			accidents.POST("/:accident_id/reject", h.RejectAccident)
		}

		// Button presses from Telegram arrive here.
		api.POST("/telegram/webhook", h.TelegramWebhook)

		api.GET("/stats", h.GetStats)

		cameras := api.Group("/cameras", middleware.AuthMiddleware())
		{
			cameras.GET("", h.GetCameras)
			cameras.POST("", h.CreateCamera)
			cameras.GET("/:camera_id/contacts/:channel", h.ListContacts)
			cameras.POST("/:camera_id/contacts/:channel", h.AddContact)
		}

		api.DELETE("/contacts/:contact_id", middleware.AuthMiddleware(), h.RemoveContact)
	}

	return r
}
