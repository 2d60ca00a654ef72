package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nadhifr/karcis/internal/models"
)

// PromoOutcome is the result of resolving a code against an order context.
// Applied is false for unknown, inactive or ineligible codes; the order
// proceeds at full price in that case.
type PromoOutcome struct {
	Applied  bool
	Promo    *models.PromoCode
	Discount decimal.Decimal
}

// LookupPromo finds a code by (event, normalized code). An unknown code is
// not an error: it resolves to nil so the caller can degrade to no
// discount. Only storage failures propagate.
func LookupPromo(tx *gorm.DB, eventID uuid.UUID, code string) (*models.PromoCode, error) {
	normalized := models.NormalizePromoCode(code)
	if normalized == "" {
		return nil, nil
	}

	var promo models.PromoCode
	err := tx.Preload("TicketTypes").
		Where("event_id = ? AND code = ?", eventID, normalized).
		First(&promo).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("lookup promo code: %w", err)
	}
	return &promo, nil
}

// PromoEligible runs the eligibility chain: active flag, validity window,
// remaining uses, minimum order amount against the full order subtotal.
func PromoEligible(promo *models.PromoCode, subtotal decimal.Decimal, now time.Time) bool {
	if !promo.Active {
		return false
	}
	if promo.ValidFrom != nil && now.Before(*promo.ValidFrom) {
		return false
	}
	if promo.ValidUntil != nil && now.After(*promo.ValidUntil) {
		return false
	}
	if promo.MaxUses != nil && promo.UsedCount >= *promo.MaxUses {
		return false
	}
	if promo.MinOrderAmount != nil && subtotal.LessThan(*promo.MinOrderAmount) {
		return false
	}
	return true
}

// DiscountBase is the subtotal the discount is computed against. For a code
// restricted to specific ticket types only the restricted lines count;
// lines outside the restriction pay full price.
func DiscountBase(promo *models.PromoCode, lines []PricedLine) decimal.Decimal {
	restricted := promo.RestrictedTo()
	if restricted == nil {
		return Subtotal(lines)
	}
	base := decimal.Zero
	for _, line := range lines {
		if restricted[line.TicketTypeID] {
			base = base.Add(line.LineSubtotal())
		}
	}
	return base
}

// ComputeDiscount turns a promo into a money amount against its base.
// Fixed discounts clamp to the base; free waives it entirely.
func ComputeDiscount(promo *models.PromoCode, base decimal.Decimal) decimal.Decimal {
	switch promo.DiscountType {
	case models.DiscountPercentage:
		return base.Mul(promo.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
	case models.DiscountFixed:
		if promo.DiscountValue.GreaterThan(base) {
			return base
		}
		return promo.DiscountValue
	case models.DiscountFree:
		return base
	}
	return decimal.Zero
}

// ClaimPromo increments used_count with the max_uses bound enforced in the
// WHERE clause, mirroring the inventory reservation: of N concurrent orders
// racing for the last use, exactly one claim succeeds. Called inside the
// order transaction so a rollback releases the claim.
func ClaimPromo(tx *gorm.DB, promoID uuid.UUID) (bool, error) {
	result := tx.Model(&models.PromoCode{}).
		Where("id = ? AND (max_uses IS NULL OR used_count < max_uses)", promoID).
		UpdateColumn("used_count", gorm.Expr("used_count + 1"))
	if result.Error != nil {
		return false, fmt.Errorf("claim promo code: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

// ApplyPromo resolves and claims a code for an order being committed in tx.
// Every ineligibility path degrades to "no discount" rather than failing
// the order; only storage errors propagate.
func ApplyPromo(tx *gorm.DB, eventID uuid.UUID, code string, lines []PricedLine, now time.Time) (PromoOutcome, error) {
	none := PromoOutcome{Discount: decimal.Zero}

	promo, err := LookupPromo(tx, eventID, code)
	if err != nil {
		return none, err
	}
	if promo == nil {
		return none, nil
	}

	subtotal := Subtotal(lines)
	if !PromoEligible(promo, subtotal, now) {
		return none, nil
	}

	base := DiscountBase(promo, lines)
	discount := ComputeDiscount(promo, base)
	if !discount.IsPositive() {
		return none, nil
	}

	claimed, err := ClaimPromo(tx, promo.ID)
	if err != nil {
		return none, err
	}
	if !claimed {
		// Lost the race for the last use between lookup and claim.
		return none, nil
	}

	return PromoOutcome{Applied: true, Promo: promo, Discount: discount}, nil
}
