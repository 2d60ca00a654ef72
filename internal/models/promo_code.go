package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed"
	DiscountFree       = "free"
)

// PromoCode is a discount token scoped to one event, optionally restricted
// to a subset of its ticket types. UsedCount only ever moves through the
// promo service's conditional claim.
type PromoCode struct {
	gorm.Model
	ID             uuid.UUID        `gorm:"type:uuid;primary_key" json:"id"`
	Code           string           `gorm:"not null;uniqueIndex:idx_event_code" json:"code"`
	EventID        uuid.UUID        `gorm:"type:uuid;not null;uniqueIndex:idx_event_code" json:"event_id"`
	Event          Event            `json:"-"`
	DiscountType   string           `gorm:"not null" json:"discount_type"`
	DiscountValue  decimal.Decimal  `gorm:"type:decimal(12,2);not null" json:"discount_value"`
	MaxUses        *int             `json:"max_uses"`
	UsedCount      int              `gorm:"not null;default:0" json:"used_count"`
	ValidFrom      *time.Time       `json:"valid_from"`
	ValidUntil     *time.Time       `json:"valid_until"`
	MinOrderAmount *decimal.Decimal `gorm:"type:decimal(12,2)" json:"min_order_amount"`
	Active         bool             `gorm:"not null;default:true" json:"active"`
	TicketTypes    []TicketType     `gorm:"many2many:promo_code_ticket_types;" json:"ticket_types,omitempty"`
}

func (promo *PromoCode) BeforeCreate(tx *gorm.DB) (err error) {
	if promo.ID == uuid.Nil {
		promo.ID = uuid.New()
	}
	promo.Code = NormalizePromoCode(promo.Code)
	return
}

// NormalizePromoCode is the canonical form used for both storage and lookup.
func NormalizePromoCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// RestrictedTo reports whether the code only applies to specific ticket
// types; an empty association means it covers the whole event.
func (promo *PromoCode) RestrictedTo() map[uuid.UUID]bool {
	if len(promo.TicketTypes) == 0 {
		return nil
	}
	restricted := make(map[uuid.UUID]bool, len(promo.TicketTypes))
	for _, tt := range promo.TicketTypes {
		restricted[tt.ID] = true
	}
	return restricted
}
