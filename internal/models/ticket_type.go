package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// TicketType is a purchasable category within an event. A nil Quantity
// means unlimited inventory; QuantitySold only ever moves through the
// inventory ledger's conditional updates.
type TicketType struct {
	gorm.Model
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name         string          `gorm:"not null" json:"name"`
	Price        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity     *int            `json:"quantity"`
	QuantitySold int             `gorm:"not null;default:0" json:"quantity_sold"`
	SalesStart   *time.Time      `json:"sales_start"`
	SalesEnd     *time.Time      `json:"sales_end"`
	EventID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Event        Event           `json:"-"`
}

func (ticketType *TicketType) BeforeCreate(tx *gorm.DB) (err error) {
	if ticketType.ID == uuid.Nil {
		ticketType.ID = uuid.New()
	}
	return
}

// Remaining reports how many units are still available, or -1 for
// unlimited ticket types.
func (ticketType *TicketType) Remaining() int {
	if ticketType.Quantity == nil {
		return -1
	}
	remaining := *ticketType.Quantity - ticketType.QuantitySold
	if remaining < 0 {
		return 0
	}
	return remaining
}
