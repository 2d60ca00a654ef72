package services

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PricedLine is one cart line after catalog lookup: the unit price is the
// ticket type's catalog price at the time of the order.
type PricedLine struct {
	TicketTypeID uuid.UUID
	UnitPrice    decimal.Decimal
	Quantity     int
}

func (l PricedLine) LineSubtotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Totals struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Fee      decimal.Decimal
	Total    decimal.Decimal
}

// Subtotal sums the line subtotals. Order of lines does not matter.
func Subtotal(lines []PricedLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineSubtotal())
	}
	return subtotal
}

// Price aggregates an order's totals. Pure: no I/O, deterministic. The
// discount is clamped to the subtotal and the final total to zero, so a
// generous promo can waive the order but never owe the customer money.
func Price(lines []PricedLine, discount, tax, fee decimal.Decimal) Totals {
	subtotal := Subtotal(lines)

	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	total := subtotal.Sub(discount).Add(tax).Add(fee)
	if total.IsNegative() {
		total = decimal.Zero
	}

	return Totals{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Fee:      fee,
		Total:    total,
	}
}

// UnitPricesPaid allocates the order discount across the discountable lines
// proportionally to their subtotals and returns the effective unit price per
// line, aligned with lines. Lines outside the discountable set pay catalog
// price. The last discountable line absorbs the rounding remainder so the
// allocated shares sum exactly to the discount.
func UnitPricesPaid(lines []PricedLine, discount decimal.Decimal, discountable map[uuid.UUID]bool) []decimal.Decimal {
	unitPrices := make([]decimal.Decimal, len(lines))
	for i, line := range lines {
		unitPrices[i] = line.UnitPrice
	}
	if !discount.IsPositive() {
		return unitPrices
	}

	inBase := func(line PricedLine) bool {
		return discountable == nil || discountable[line.TicketTypeID]
	}

	base := decimal.Zero
	lastIdx := -1
	for i, line := range lines {
		if inBase(line) {
			base = base.Add(line.LineSubtotal())
			lastIdx = i
		}
	}
	if lastIdx < 0 || !base.IsPositive() {
		return unitPrices
	}
	if discount.GreaterThan(base) {
		discount = base
	}

	allocated := decimal.Zero
	for i, line := range lines {
		if !inBase(line) {
			continue
		}
		share := discount.Mul(line.LineSubtotal()).Div(base).Round(2)
		if i == lastIdx {
			share = discount.Sub(allocated)
		}
		allocated = allocated.Add(share)

		quantity := decimal.NewFromInt(int64(line.Quantity))
		unitPrices[i] = line.LineSubtotal().Sub(share).Div(quantity).Round(2)
	}
	return unitPrices
}
