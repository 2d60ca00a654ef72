package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nadhifr/karcis/internal/models"
	"github.com/nadhifr/karcis/monitoring"
)

type Attendee struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// OrderLine is one cart entry. Attendees optionally overrides the attendee
// identity per seat; missing entries fall back to the customer.
type OrderLine struct {
	TicketTypeID uuid.UUID  `json:"ticket_type_id"`
	Quantity     int        `json:"quantity"`
	Attendees    []Attendee `json:"attendees,omitempty"`
}

type OrderRequest struct {
	EventID       uuid.UUID   `json:"event_id"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	CustomerPhone string      `json:"customer_phone"`
	Lines         []OrderLine `json:"lines"`
	PromoCode     string      `json:"promo_code"`
	PaymentMethod string      `json:"payment_method"`
}

// OrderService turns a cart into a priced order with issued tickets. The
// whole reserve -> price -> persist -> issue -> finalize span runs in one
// database transaction: a failure at any phase rolls back every counter and
// record of the attempt.
type OrderService struct {
	db         *gorm.DB
	codec      *TicketCodec
	dispatcher ConfirmationDispatcher
	taxRate    decimal.Decimal
	serviceFee decimal.Decimal
}

// NewOrderService wires the engine. taxRate is a percentage applied to the
// discounted subtotal; serviceFee is a flat per-order amount.
func NewOrderService(db *gorm.DB, codec *TicketCodec, dispatcher ConfirmationDispatcher, taxRate, serviceFee decimal.Decimal) *OrderService {
	return &OrderService{
		db:         db,
		codec:      codec,
		dispatcher: dispatcher,
		taxRate:    taxRate,
		serviceFee: serviceFee,
	}
}

func validateOrderRequest(req OrderRequest) *OrderError {
	if len(req.Lines) == 0 {
		return newOrderError(CodeEmptyCart, "Cart is empty.")
	}
	if strings.TrimSpace(req.CustomerName) == "" || strings.TrimSpace(req.CustomerEmail) == "" {
		return newOrderError(CodeMissingCustomer, "Customer name and email are required.")
	}
	for _, line := range req.Lines {
		if line.Quantity < 1 {
			return newOrderError(CodeInvalidQuantity, "Quantity must be at least 1 for every line.")
		}
	}
	return nil
}

// CreateOrder is the single entry point for checkout. It returns either a
// persisted order with its issued tickets, or an OrderError with a reason
// code the caller can act on. System errors are generic and retryable; the
// service never retries internally, so an ambiguous outcome cannot issue
// tickets twice.
func (s *OrderService) CreateOrder(ctx context.Context, req OrderRequest) (*models.Order, error) {
	if err := validateOrderRequest(req); err != nil {
		monitoring.TrackOrderRejection(err.Code)
		return nil, err
	}

	var (
		order   *models.Order
		tickets []models.Ticket
		outcome PromoOutcome
	)

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var event models.Event
		if err := tx.First(&event, "id = ?", req.EventID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return newOrderError(CodeEventNotFound, "Event not found.")
			}
			return fmt.Errorf("load event: %w", err)
		}

		var ticketTypes []models.TicketType
		if err := tx.Where("event_id = ?", event.ID).Find(&ticketTypes).Error; err != nil {
			return fmt.Errorf("load ticket types: %w", err)
		}
		byID := make(map[uuid.UUID]*models.TicketType, len(ticketTypes))
		for i := range ticketTypes {
			byID[ticketTypes[i].ID] = &ticketTypes[i]
		}

		now := time.Now()

		// Reserving: window check then conditional inventory claim per
		// line. Any failure aborts the transaction, which releases every
		// reservation made earlier in this attempt.
		lines := make([]PricedLine, 0, len(req.Lines))
		for _, line := range req.Lines {
			ticketType, ok := byID[line.TicketTypeID]
			if !ok {
				return newOrderError(CodeUnknownTicketType, "Ticket type %s does not belong to this event.", line.TicketTypeID)
			}
			if windowErr := CheckSalesWindow(ticketType, now); windowErr != nil {
				return windowErr
			}
			if err := ReserveInventory(tx, ticketType, line.Quantity); err != nil {
				return err
			}
			lines = append(lines, PricedLine{
				TicketTypeID: ticketType.ID,
				UnitPrice:    ticketType.Price,
				Quantity:     line.Quantity,
			})
		}

		// Pricing: promo resolution claims used_count inside this same
		// transaction; an ineligible or exhausted code means full price,
		// never a failed order.
		var err error
		outcome, err = ApplyPromo(tx, event.ID, req.PromoCode, lines, now)
		if err != nil {
			return err
		}

		subtotal := Subtotal(lines)
		tax := subtotal.Sub(outcome.Discount).Mul(s.taxRate).Div(decimal.NewFromInt(100)).Round(2)
		if tax.IsNegative() {
			tax = decimal.Zero
		}
		totals := Price(lines, outcome.Discount, tax, s.serviceFee)

		// Persisting: a zero-total order needs no payment step and is
		// completed on the spot.
		status := models.OrderStatusPending
		if totals.Total.IsZero() {
			status = models.OrderStatusCompleted
		}
		order = &models.Order{
			EventID:        event.ID,
			CustomerName:   strings.TrimSpace(req.CustomerName),
			CustomerEmail:  strings.TrimSpace(req.CustomerEmail),
			CustomerPhone:  strings.TrimSpace(req.CustomerPhone),
			Subtotal:       totals.Subtotal,
			DiscountAmount: totals.Discount,
			TaxAmount:      totals.Tax,
			FeeAmount:      totals.Fee,
			TotalAmount:    totals.Total,
			Status:         status,
			PaymentMethod:  req.PaymentMethod,
		}
		if outcome.Applied {
			order.PromoCodeID = &outcome.Promo.ID
		}
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("create order: %w", err)
		}

		// IssuingTickets: inventory is already reserved; this only
		// materializes the ticket records.
		tickets, err = s.mintTickets(tx, &event, order, req, lines, outcome)
		if err != nil {
			return err
		}

		// Finalizing: attendance moves with ticket issuance in the same
		// transaction.
		if err := tx.Model(&models.Event{}).
			Where("id = ?", event.ID).
			UpdateColumn("current_attendees", gorm.Expr("current_attendees + ?", len(tickets))).Error; err != nil {
			return fmt.Errorf("update event attendance: %w", err)
		}
		return nil
	})
	if err != nil {
		if orderErr, ok := AsOrderError(err); ok {
			monitoring.TrackOrderRejection(orderErr.Code)
			monitoring.TrackOrder("rejected")
		} else {
			monitoring.TrackOrder("error")
		}
		return nil, err
	}

	monitoring.TrackOrder(order.Status)
	monitoring.TrackTicketsIssued(len(tickets))
	if outcome.Applied {
		monitoring.TrackPromoApplication()
	}

	order.Tickets = tickets

	// Best-effort: the committed order is the source of truth, delivery
	// failures only get logged.
	go s.dispatch(order, tickets)

	return order, nil
}

func (s *OrderService) mintTickets(tx *gorm.DB, event *models.Event, order *models.Order, req OrderRequest, lines []PricedLine, outcome PromoOutcome) ([]models.Ticket, error) {
	var discountable map[uuid.UUID]bool
	if outcome.Applied {
		discountable = outcome.Promo.RestrictedTo()
	}
	unitPrices := UnitPricesPaid(lines, outcome.Discount, discountable)

	var tickets []models.Ticket
	for i, line := range req.Lines {
		for seat := 0; seat < line.Quantity; seat++ {
			attendeeName := order.CustomerName
			attendeeEmail := order.CustomerEmail
			if seat < len(line.Attendees) {
				if override := line.Attendees[seat]; override.Name != "" {
					attendeeName = override.Name
				}
				if override := line.Attendees[seat]; override.Email != "" {
					attendeeEmail = override.Email
				}
			}

			ticketID := uuid.New()
			tickets = append(tickets, models.Ticket{
				ID:            ticketID,
				TicketNo:      NewTicketNo(),
				OrderID:       order.ID,
				TicketTypeID:  line.TicketTypeID,
				AttendeeName:  attendeeName,
				AttendeeEmail: attendeeEmail,
				PricePaid:     unitPrices[i],
				QRPayload:     s.codec.Payload(event.ID, order.ID, ticketID, attendeeEmail),
			})
		}
	}

	if err := tx.Create(&tickets).Error; err != nil {
		return nil, fmt.Errorf("create tickets: %w", err)
	}
	return tickets, nil
}

func (s *OrderService) dispatch(order *models.Order, tickets []models.Ticket) {
	if s.dispatcher == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := s.dispatcher.SendOrderConfirmation(ctx, order, tickets); err != nil {
		log.Printf("order %s: confirmation dispatch failed: %v", order.ID, err)
	}
}

// ConfirmPayment flips a pending order to completed once the payment
// provider confirms. The status guard lives in the WHERE clause, so a
// duplicate confirmation for an already-completed order is a no-op: no new
// tickets, no counter changes.
func (s *OrderService) ConfirmPayment(ctx context.Context, orderID uuid.UUID, paymentRef string) (*models.Order, error) {
	result := s.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND status = ?", orderID, models.OrderStatusPending).
		Updates(map[string]interface{}{
			"status":      models.OrderStatusCompleted,
			"payment_ref": paymentRef,
		})
	if result.Error != nil {
		return nil, fmt.Errorf("confirm payment: %w", result.Error)
	}

	var order models.Order
	if err := s.db.WithContext(ctx).Preload("Tickets").First(&order, "id = ?", orderID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, newOrderError(CodeOrderNotFound, "Order not found.")
		}
		return nil, fmt.Errorf("load order: %w", err)
	}

	if result.RowsAffected == 0 && order.Status != models.OrderStatusCompleted {
		return nil, newOrderError(CodeOrderNotPayable, "Order is %s and cannot be completed.", order.Status)
	}
	return &order, nil
}
