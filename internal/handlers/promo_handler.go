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
)

type PromoCodeRequest struct {
	Code           string           `json:"code" binding:"required"`
	EventID        uuid.UUID        `json:"event_id" binding:"required"`
	DiscountType   string           `json:"discount_type" binding:"required,oneof=percentage fixed free"`
	DiscountValue  decimal.Decimal  `json:"discount_value"`
	MaxUses        *int             `json:"max_uses"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidUntil     *time.Time       `json:"valid_until"`
	MinOrderAmount *decimal.Decimal `json:"min_order_amount"`
	Active         *bool            `json:"active"`
	TicketTypeIDs  []uuid.UUID      `json:"ticket_type_ids"`
}

func verifyEventOwnership(gormDB *gorm.DB, eventID, userID interface{}) (*models.Event, error) {
	var event models.Event
	err := gormDB.Where("id = ? AND user_id = ?", eventID, userID).First(&event).Error
	if err != nil {
		return nil, err
	}
	return &event, nil
}

func restrictedTicketTypes(gormDB *gorm.DB, eventID uuid.UUID, ids []uuid.UUID) ([]models.TicketType, bool) {
	if len(ids) == 0 {
		return nil, true
	}
	var ticketTypes []models.TicketType
	if err := gormDB.Where("event_id = ? AND id IN ?", eventID, ids).Find(&ticketTypes).Error; err != nil {
		return nil, false
	}
	// every requested restriction must belong to the event
	return ticketTypes, len(ticketTypes) == len(ids)
}

func CreatePromoCode(c *gin.Context) {
	var req PromoCodeRequest
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

	if _, err := verifyEventOwnership(gormDB, req.EventID, userID); err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "Event not found or you don't have permission to modify it.")
		return
	}

	ticketTypes, ok := restrictedTicketTypes(gormDB, req.EventID, req.TicketTypeIDs)
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Restricted ticket types must belong to the event.")
		return
	}

	active := true
	if req.Active != nil {
		active = *req.Active
	}

	promo := models.PromoCode{
		ID:             uuid.New(),
		Code:           models.NormalizePromoCode(req.Code),
		EventID:        req.EventID,
		DiscountType:   req.DiscountType,
		DiscountValue:  req.DiscountValue,
		MaxUses:        req.MaxUses,
		ValidFrom:      req.ValidFrom,
		ValidUntil:     req.ValidUntil,
		MinOrderAmount: req.MinOrderAmount,
		Active:         active,
		TicketTypes:    ticketTypes,
	}

	if err := gormDB.Create(&promo).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create promo code.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":       "Promo code created successfully.",
		"promo_code_id": promo.ID,
	})
}

func ListPromoCodes(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.PromoCode{})
	if eventID := c.Query("event_id"); eventID != "" {
		query = query.Where("event_id = ?", eventID)
	}

	var promos []models.PromoCode
	if err := query.Order("created_at DESC").Find(&promos).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving promo codes.")
		return
	}

	c.JSON(http.StatusOK, gin.H{"promo_codes": promos})
}

func GetPromoCode(c *gin.Context) {
	promoID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var promo models.PromoCode
	if err := gormDB.Preload("TicketTypes").Where("id = ?", promoID).First(&promo).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Promo code not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving promo code.")
		return
	}

	c.JSON(http.StatusOK, promo)
}

func UpdatePromoCode(c *gin.Context) {
	promoID := c.Param("id")

	var req PromoCodeRequest
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

	var promo models.PromoCode
	if err := gormDB.Where("id = ?", promoID).First(&promo).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Promo code not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding promo code.")
		return
	}

	if _, err := verifyEventOwnership(gormDB, promo.EventID, userID); err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to modify this promo code.")
		return
	}

	ticketTypes, ok := restrictedTicketTypes(gormDB, promo.EventID, req.TicketTypeIDs)
	if !ok {
		helpers.RespondWithError(c, http.StatusBadRequest, "Restricted ticket types must belong to the event.")
		return
	}

	promo.Code = models.NormalizePromoCode(req.Code)
	promo.DiscountType = req.DiscountType
	promo.DiscountValue = req.DiscountValue
	promo.MaxUses = req.MaxUses
	promo.ValidFrom = req.ValidFrom
	promo.ValidUntil = req.ValidUntil
	promo.MinOrderAmount = req.MinOrderAmount
	if req.Active != nil {
		promo.Active = *req.Active
	}

	if err := gormDB.Save(&promo).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update promo code.")
		return
	}

	if err := gormDB.Model(&promo).Association("TicketTypes").Replace(ticketTypes); err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update ticket type restriction.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "Promo code updated successfully.",
		"promo_code": promo,
	})
}

func DeletePromoCode(c *gin.Context) {
	promoID := c.Param("id")

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

	var promo models.PromoCode
	if err := gormDB.Where("id = ?", promoID).First(&promo).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Promo code not found.")
		return
	}

	if _, err := verifyEventOwnership(gormDB, promo.EventID, userID); err != nil {
		helpers.RespondWithError(c, http.StatusForbidden, "You don't have permission to delete this promo code.")
		return
	}

	if err := gormDB.Delete(&promo).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete promo code.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Promo code deleted successfully.",
	})
}
