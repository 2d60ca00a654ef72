package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/nadhifr/karcis/internal/helpers"
	"github.com/nadhifr/karcis/internal/middleware"
	"github.com/nadhifr/karcis/internal/models"
	"github.com/nadhifr/karcis/internal/services"
)

// CreateOrder is the single checkout entry point: a cart of ticket-type
// lines plus an optional promo code in, a priced order with issued tickets
// out, or a structured failure with a reason code.
func CreateOrder(c *gin.Context) {
	var req services.OrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	orderService := middleware.GetOrderService(c)
	if orderService == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Order service not available.")
		return
	}

	order, err := orderService.CreateOrder(c.Request.Context(), req)
	if err != nil {
		helpers.RespondWithOrderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Order created successfully.",
		"order":   order,
	})
}

// GetOrder returns an order with its tickets to the event's organizer.
// Orders carry customer identity and signed QR payloads, so callers outside
// the owning event are refused.
func GetOrder(c *gin.Context) {
	orderID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var order models.Order
	if err := gormDB.Preload("Tickets").Preload("Event").Where("id = ?", orderID).First(&order).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Order not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving order.")
		return
	}

	ownerID, ok := userID.(uuid.UUID)
	if !ok || order.Event.UserID != ownerID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this order.")
		return
	}

	c.JSON(http.StatusOK, order)
}

// GenerateTicketQR renders a ticket's stored payload as a PNG for the
// event's organizer. The payload was signed at issuance; rendering can
// always be retried, a ticket without a rendered image is still valid. The
// PNG is a valid check-in credential, so only the owning organizer may
// fetch it.
func GenerateTicketQR(c *gin.Context) {
	ticketIDStr := c.Param("id")
	ticketID, err := uuid.Parse(ticketIDStr)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid ticket ID.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticket models.Ticket
	if err := gormDB.Preload("TicketType.Event").First(&ticket, "id = ?", ticketID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	ownerID, ok := userID.(uuid.UUID)
	if !ok || ticket.TicketType.Event.UserID != ownerID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to view this ticket.")
		return
	}

	if ticket.IsUsed {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used.")
		return
	}

	qrImage, err := qrcode.Encode(ticket.QRPayload, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

// ValidateTicket is the organizer's check-in: verify the scanned payload's
// signature, confirm event ownership, and mark the ticket used exactly
// once. The used guard sits in the WHERE clause so two scanners racing on
// the same ticket admit one attendee.
func ValidateTicket(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	codec := middleware.GetTicketCodec(c)
	if codec == nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Ticket codec not available.")
		return
	}

	var validationRequest struct {
		QRData string `json:"qr_data" binding:"required"`
	}
	if err := c.ShouldBindJSON(&validationRequest); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid request payload.")
		return
	}

	ticketID, err := codec.Verify(validationRequest.QRData)
	if err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Invalid QR code.")
		return
	}

	var ticket models.Ticket
	if err := gormDB.Preload("TicketType.Event").First(&ticket, "id = ?", ticketID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket not found.")
		return
	}

	ownerID, ok := userID.(uuid.UUID)
	if !ok || ticket.TicketType.Event.UserID != ownerID {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to validate this ticket.")
		return
	}

	result := gormDB.Model(&models.Ticket{}).
		Where("id = ? AND is_used = ?", ticket.ID, false).
		Update("is_used", true)
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to validate ticket.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusForbidden, "Ticket already used.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket validated successfully.",
		"ticket": gin.H{
			"ticket_no":      ticket.TicketNo,
			"event_title":    ticket.TicketType.Event.Title,
			"ticket_type":    ticket.TicketType.Name,
			"attendee_name":  ticket.AttendeeName,
			"attendee_email": ticket.AttendeeEmail,
		},
	})
}
