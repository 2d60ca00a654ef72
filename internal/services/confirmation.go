package services

import (
	"context"
	"log"

	"github.com/nadhifr/karcis/internal/models"
)

// ConfirmationDispatcher receives a finalized order with its issued tickets
// and delivers the confirmation (email, push). Invoked only after the order
// transaction commits; a delivery failure never changes the order.
type ConfirmationDispatcher interface {
	SendOrderConfirmation(ctx context.Context, order *models.Order, tickets []models.Ticket) error
}

// LogDispatcher is the default dispatcher: it records the confirmation in
// the server log. Real delivery plugs in behind the same interface.
type LogDispatcher struct{}

func (LogDispatcher) SendOrderConfirmation(_ context.Context, order *models.Order, tickets []models.Ticket) error {
	log.Printf("order %s confirmed for %s <%s>: %d ticket(s), total %s",
		order.ID, order.CustomerName, order.CustomerEmail, len(tickets), order.TotalAmount)
	return nil
}
