package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	config "github.com/ieee-vbit/registration-backend-go/config"
	controllers "github.com/ieee-vbit/registration-backend-go/controllers"
	middleware "github.com/ieee-vbit/registration-backend-go/middleware"
)

func SetupRoutes(r *gin.Engine, cfg *config.Config) {
	// public
	r.POST("/auth/login", controllers.Login(cfg))

	public := r.Group("/public")
	{
		public.GET("/active-event", controllers.GetActiveEvent(cfg))
		public.GET("/active-event/form", controllers.GetActiveEventForm(cfg))
		public.POST("/register", controllers.SubmitRegistration(cfg))
	}

	// payment order creation is restricted to the trusted origins
	payments := r.Group("/payments")
	payments.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: []string{"POST", "OPTIONS"},
		AllowHeaders: []string{"Content-Type"},
	}))
	{
		payments.POST("/order", controllers.CreatePaymentOrder(cfg))
	}

	// protected
	auth := middleware.AuthMiddleware(cfg)

	admin := r.Group("/admin")
	admin.Use(auth)
	{
		events := admin.Group("/events")
		{
			events.POST("", controllers.CreateEvent(cfg))
			events.GET("", controllers.ListEvents(cfg))
			events.GET("/:id", controllers.GetEvent(cfg))
			events.PATCH("/:id", controllers.UpdateEvent(cfg))
			events.DELETE("/:id", controllers.DeleteEvent(cfg))
			events.PATCH("/:id/status", controllers.ToggleEventStatus(cfg))
			events.POST("/:id/activate", controllers.ActivateEvent(cfg))

			events.GET("/:id/registrations", controllers.ListRegistrations(cfg))
			events.GET("/:id/registrations/export", controllers.ExportRegistrations(cfg))
			events.POST("/:id/registrations/:regId/verify", controllers.VerifyRegistration(cfg))
		}

		past := admin.Group("/past-events")
		{
			past.POST("", controllers.CreatePastEvents(cfg))
			past.GET("", controllers.ListPastEvents(cfg))
			past.DELETE("/:id", controllers.DeletePastEvent(cfg))
		}
	}
}
