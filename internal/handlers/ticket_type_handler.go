package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nadhifr/karcis/internal/helpers"
	"github.com/nadhifr/karcis/internal/models"
	"github.com/nadhifr/karcis/internal/services"
)

type TicketTypeRequest struct {
	Name       string          `json:"name" binding:"required"`
	Price      decimal.Decimal `json:"price" binding:"required"`
	Quantity   *int            `json:"quantity"`
	SalesStart *time.Time      `json:"sales_start"`
	SalesEnd   *time.Time      `json:"sales_end"`
	EventID    uuid.UUID       `json:"event_id" binding:"required"`
}

func CreateTicketType(c *gin.Context) {
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", req.EventID, userID).First(&event).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to modify it.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error verifying event ownership.")
		return
	}

	ticketType := models.TicketType{
		ID:         uuid.New(),
		Name:       req.Name,
		Price:      req.Price,
		Quantity:   req.Quantity,
		SalesStart: req.SalesStart,
		SalesEnd:   req.SalesEnd,
		EventID:    req.EventID,
	}

	if err := gormDB.Create(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create ticket type.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Ticket type created successfully.",
		"ticket_type_id": ticketType.ID,
	})
}

func GetTicketType(c *gin.Context) {
	ticketTypeID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketType models.TicketType
	if err := gormDB.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket type.")
		return
	}

	c.JSON(http.StatusOK, ticketType)
}

// ListTicketTypes is the public catalog for one event, annotated with
// availability so the storefront can grey out closed or sold-out types.
func ListTicketTypes(c *gin.Context) {
	eventID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketTypes []models.TicketType
	if err := gormDB.Where("event_id = ?", eventID).Order("price ASC").Find(&ticketTypes).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving ticket types.")
		return
	}

	now := time.Now()
	catalog := make([]gin.H, 0, len(ticketTypes))
	for _, ticketType := range ticketTypes {
		salesOpen := services.SalesWindowState(&ticketType, now) == services.WindowOpen
		catalog = append(catalog, gin.H{
			"ticket_type": ticketType,
			"remaining":   ticketType.Remaining(),
			"sales_open":  salesOpen,
			"available":   salesOpen && ticketType.Remaining() != 0,
		})
	}

	c.JSON(http.StatusOK, gin.H{"ticket_types": catalog})
}

func UpdateTicketType(c *gin.Context) {
	ticketTypeID := c.Param("id")
	var req TicketTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketType models.TicketType
	if err := gormDB.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", ticketType.EventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this ticket type.")
		return
	}

	if req.Quantity != nil && *req.Quantity < ticketType.QuantitySold {
		helpers.RespondWithError(c, http.StatusBadRequest, "Quantity cannot be reduced below the number already sold.")
		return
	}

	ticketType.Name = req.Name
	ticketType.Price = req.Price
	ticketType.Quantity = req.Quantity
	ticketType.SalesStart = req.SalesStart
	ticketType.SalesEnd = req.SalesEnd

	if err := gormDB.Save(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Ticket type updated successfully.",
		"ticket_type": ticketType,
	})
}

func DeleteTicketType(c *gin.Context) {
	ticketTypeID := c.Param("id")

	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User ID not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var ticketType models.TicketType
	if err := gormDB.Where("id = ?", ticketTypeID).First(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Ticket type not found.")
		return
	}

	var event models.Event
	if err := gormDB.Where("id = ? AND user_id = ?", ticketType.EventID, userID).First(&event).Error; err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this ticket type.")
		return
	}

	if ticketType.QuantitySold > 0 {
		helpers.RespondWithError(c, http.StatusBadRequest, "Ticket type has sold tickets and cannot be deleted.")
		return
	}

	if err := gormDB.Delete(&ticketType).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete ticket type.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Ticket type deleted successfully.",
	})
}
