package services

import (
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nadhifr/karcis/internal/models"
)

// ReserveInventory claims quantity units against a ticket type's capacity
// with a single conditional update: the capacity check lives in the WHERE
// clause, so under concurrent buyers the database decides who wins and
// quantity_sold can never exceed quantity. A nil quantity is unlimited and
// skips the check.
func ReserveInventory(tx *gorm.DB, ticketType *models.TicketType, quantity int) error {
	if quantity <= 0 {
		return newOrderError(CodeInvalidQuantity, "Quantity for %s must be at least 1.", ticketType.Name)
	}

	result := tx.Model(&models.TicketType{}).
		Where("id = ? AND (quantity IS NULL OR quantity_sold + ? <= quantity)", ticketType.ID, quantity).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold + ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("reserve inventory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return newOrderError(CodeInsufficientInventory, "Not enough tickets available for %s.", ticketType.Name)
	}
	return nil
}

// ReleaseInventory is the compensating decrement for a reservation that
// will not be kept, e.g. an admin cancellation. Reservations made inside a
// failed order transaction are released by the rollback itself and do not
// come through here. The floor guard keeps a double release from driving
// the counter negative.
func ReleaseInventory(tx *gorm.DB, ticketTypeID uuid.UUID, quantity int) error {
	result := tx.Model(&models.TicketType{}).
		Where("id = ? AND quantity_sold >= ?", ticketTypeID, quantity).
		UpdateColumn("quantity_sold", gorm.Expr("quantity_sold - ?", quantity))
	if result.Error != nil {
		return fmt.Errorf("release inventory: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("release inventory: no reservation of %d units to release", quantity)
	}
	return nil
}
