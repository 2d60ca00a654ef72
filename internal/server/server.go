package server

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/nadhifr/karcis/config"
	"github.com/nadhifr/karcis/internal/handlers"
	"github.com/nadhifr/karcis/internal/middleware"
	"github.com/nadhifr/karcis/internal/services"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	codec := services.NewTicketCodec(cfg.TicketSecret)
	orderService := services.NewOrderService(db, codec, services.LogDispatcher{}, cfg.TaxRate, cfg.ServiceFee)

	r := gin.Default()

	setupRoutes(r, db, orderService, codec)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	return r.Run(":" + port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, orderService *services.OrderService, codec *services.TicketCodec) {
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(middleware.OrderServiceMiddleware(orderService))
	r.Use(middleware.TicketCodecMiddleware(codec))

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		eventPublic := public.Group("/events")
		{
			eventPublic.GET("", handlers.ListEvents)
			eventPublic.GET("/:id", handlers.GetEvent)
			eventPublic.GET("/:id/ticket-types", handlers.ListTicketTypes)
		}

		public.POST("/orders", handlers.CreateOrder)
		public.POST("/payments/callback", handlers.PaymentCallback)
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		eventProtected := protected.Group("/events")
		{
			eventProtected.POST("", handlers.CreateEvent)
			eventProtected.PUT("/:id", handlers.UpdateEvent)
			eventProtected.DELETE("/:id", handlers.DeleteEvent)
		}

		ticketTypes := protected.Group("/ticket-types")
		{
			ticketTypes.POST("", handlers.CreateTicketType)
			ticketTypes.GET("/:id", handlers.GetTicketType)
			ticketTypes.PUT("/:id", handlers.UpdateTicketType)
			ticketTypes.DELETE("/:id", handlers.DeleteTicketType)
		}

		promos := protected.Group("/promo-codes")
		{
			promos.POST("", handlers.CreatePromoCode)
			promos.GET("", handlers.ListPromoCodes)
			promos.GET("/:id", handlers.GetPromoCode)
			promos.PUT("/:id", handlers.UpdatePromoCode)
			promos.DELETE("/:id", handlers.DeletePromoCode)
		}

		protected.GET("/orders/:id", handlers.GetOrder)
		protected.GET("/tickets/:id/qr", handlers.GenerateTicketQR)
		protected.POST("/tickets/validate", handlers.ValidateTicket)
	}
}
