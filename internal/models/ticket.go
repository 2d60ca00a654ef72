package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Ticket is one purchased seat. PricePaid is the promo-adjusted unit price
// actually charged, not the catalog price. Immutable once created except
// for the check-in flag.
type Ticket struct {
	gorm.Model
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	TicketNo      string          `gorm:"not null;unique" json:"ticket_no"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Order         Order           `json:"-"`
	TicketTypeID  uuid.UUID       `gorm:"type:uuid;not null;index" json:"ticket_type_id"`
	TicketType    TicketType      `json:"-"`
	AttendeeName  string          `gorm:"not null" json:"attendee_name"`
	AttendeeEmail string          `gorm:"not null" json:"attendee_email"`
	PricePaid     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price_paid"`
	QRPayload     string          `gorm:"not null" json:"qr_payload"`
	IsUsed        bool            `gorm:"not null;default:false" json:"is_used"`
}

func (ticket *Ticket) BeforeCreate(tx *gorm.DB) (err error) {
	if ticket.ID == uuid.Nil {
		ticket.ID = uuid.New()
	}
	return
}
