package models

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusCancelled = "cancelled"
)

// Order is one checkout transaction. Amounts are computed once at creation
// and never re-priced; Status only moves forward.
type Order struct {
	gorm.Model
	ID             uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	EventID        uuid.UUID       `gorm:"type:uuid;not null;index" json:"event_id"`
	Event          Event           `json:"-"`
	CustomerName   string          `gorm:"not null" json:"customer_name"`
	CustomerEmail  string          `gorm:"not null" json:"customer_email"`
	CustomerPhone  string          `json:"customer_phone"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"discount_amount"`
	TaxAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	FeeAmount      decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"fee_amount"`
	TotalAmount    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status         string          `gorm:"not null;default:'pending'" json:"status"`
	PaymentMethod  string          `json:"payment_method"`
	PaymentRef     *string         `json:"payment_ref"`
	PromoCodeID    *uuid.UUID      `gorm:"type:uuid" json:"promo_code_id"`
	PromoCode      *PromoCode      `json:"-"`
	Tickets        []Ticket        `json:"tickets,omitempty"`
}

func (order *Order) BeforeCreate(tx *gorm.DB) (err error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	return
}
