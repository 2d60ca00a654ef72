package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/nadhifr/karcis/internal/services"
)

func OrderServiceMiddleware(orderService *services.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("order_service", orderService)
		c.Next()
	}
}

func GetOrderService(c *gin.Context) *services.OrderService {
	svc, exists := c.Get("order_service")
	if !exists {
		return nil
	}
	return svc.(*services.OrderService)
}

func TicketCodecMiddleware(codec *services.TicketCodec) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("ticket_codec", codec)
		c.Next()
	}
}

func GetTicketCodec(c *gin.Context) *services.TicketCodec {
	codec, exists := c.Get("ticket_codec")
	if !exists {
		return nil
	}
	return codec.(*services.TicketCodec)
}
