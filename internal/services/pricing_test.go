package services

import (
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func line(price string, quantity int) PricedLine {
	return PricedLine{
		TicketTypeID: uuid.New(),
		UnitPrice:    dec(price),
		Quantity:     quantity,
	}
}

func TestPriceTotals(t *testing.T) {
	lines := []PricedLine{line("100.00", 2), line("50.00", 1)}

	totals := Price(lines, dec("25.00"), dec("10.00"), dec("5.00"))

	assert.True(t, totals.Subtotal.Equal(dec("250.00")), "subtotal = %s", totals.Subtotal)
	assert.True(t, totals.Discount.Equal(dec("25.00")))
	assert.True(t, totals.Total.Equal(dec("240.00")), "total = %s", totals.Total)
}

func TestPriceLineOrderIndependence(t *testing.T) {
	lines := []PricedLine{
		line("10.00", 3), line("99.99", 1), line("250.50", 2), line("0.01", 7),
	}
	want := Price(lines, dec("30.00"), dec("12.34"), dec("5.00"))

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := make([]PricedLine, len(lines))
		copy(shuffled, lines)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := Price(shuffled, dec("30.00"), dec("12.34"), dec("5.00"))
		assert.True(t, want.Subtotal.Equal(got.Subtotal))
		assert.True(t, want.Total.Equal(got.Total))
	}
}

func TestPriceMonotonicInDiscount(t *testing.T) {
	lines := []PricedLine{line("75.00", 2), line("20.00", 5)}

	previous := Price(lines, decimal.Zero, decimal.Zero, decimal.Zero).Total
	for discount := 10; discount <= 300; discount += 10 {
		current := Price(lines, decimal.NewFromInt(int64(discount)), decimal.Zero, decimal.Zero).Total
		assert.True(t, current.LessThanOrEqual(previous),
			"total must not grow as discount grows: %s -> %s", previous, current)
		previous = current
	}
}

func TestPriceTotalNeverNegative(t *testing.T) {
	lines := []PricedLine{line("30.00", 1)}

	totals := Price(lines, dec("1000.00"), decimal.Zero, decimal.Zero)
	assert.True(t, totals.Total.Equal(decimal.Zero))
	assert.True(t, totals.Discount.Equal(dec("30.00")), "discount clamps to subtotal")

	totals = Price(lines, dec("-5.00"), decimal.Zero, decimal.Zero)
	assert.True(t, totals.Discount.Equal(decimal.Zero), "negative discount is ignored")
	assert.True(t, totals.Total.Equal(dec("30.00")))
}

func TestPriceDeterministic(t *testing.T) {
	lines := []PricedLine{line("12.34", 3), line("56.78", 2)}
	first := Price(lines, dec("7.00"), dec("3.50"), dec("1.25"))
	for i := 0; i < 5; i++ {
		again := Price(lines, dec("7.00"), dec("3.50"), dec("1.25"))
		assert.Equal(t, first, again)
	}
}

func TestUnitPricesPaidProportionalAllocation(t *testing.T) {
	lines := []PricedLine{line("100.00", 2), line("50.00", 2)}

	// 30 discount over a 300 base: 20 to the first line, 10 to the second.
	unitPrices := UnitPricesPaid(lines, dec("30.00"), nil)
	require.Len(t, unitPrices, 2)
	assert.True(t, unitPrices[0].Equal(dec("90.00")), "unit[0] = %s", unitPrices[0])
	assert.True(t, unitPrices[1].Equal(dec("45.00")), "unit[1] = %s", unitPrices[1])
}

func TestUnitPricesPaidRestrictedBase(t *testing.T) {
	discounted := line("100.00", 1)
	fullPrice := line("40.00", 2)
	lines := []PricedLine{discounted, fullPrice}

	unitPrices := UnitPricesPaid(lines, dec("20.00"), map[uuid.UUID]bool{discounted.TicketTypeID: true})
	assert.True(t, unitPrices[0].Equal(dec("80.00")), "restricted line absorbs the discount")
	assert.True(t, unitPrices[1].Equal(dec("40.00")), "unrestricted line pays catalog price")
}

func TestUnitPricesPaidNoDiscount(t *testing.T) {
	lines := []PricedLine{line("15.00", 4)}
	unitPrices := UnitPricesPaid(lines, decimal.Zero, nil)
	assert.True(t, unitPrices[0].Equal(dec("15.00")))
}

func TestUnitPricesPaidRoundingRemainder(t *testing.T) {
	// 10 split across three equal lines does not divide evenly; the last
	// discountable line absorbs the remainder so shares sum to the discount.
	lines := []PricedLine{line("10.00", 1), line("10.00", 1), line("10.00", 1)}
	unitPrices := UnitPricesPaid(lines, dec("10.00"), nil)

	paid := decimal.Zero
	for i, unit := range unitPrices {
		paid = paid.Add(unit.Mul(decimal.NewFromInt(int64(lines[i].Quantity))))
	}
	assert.True(t, paid.Equal(dec("20.00")), "sum paid = %s", paid)
}
