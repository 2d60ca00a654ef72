package services

import (
	"time"

	"github.com/nadhifr/karcis/internal/models"
)

type WindowState int

const (
	WindowOpen WindowState = iota
	WindowNotStarted
	WindowEnded
)

// SalesWindowState classifies a ticket type's sales window against now.
// Nil bounds are open-ended on that side.
func SalesWindowState(ticketType *models.TicketType, now time.Time) WindowState {
	if ticketType.SalesStart != nil && now.Before(*ticketType.SalesStart) {
		return WindowNotStarted
	}
	if ticketType.SalesEnd != nil && now.After(*ticketType.SalesEnd) {
		return WindowEnded
	}
	return WindowOpen
}

// CheckSalesWindow returns a user-correctable rejection naming the
// offending ticket type, or nil when sales are open.
func CheckSalesWindow(ticketType *models.TicketType, now time.Time) *OrderError {
	switch SalesWindowState(ticketType, now) {
	case WindowNotStarted:
		return newOrderError(CodeSalesNotStarted, "Sales for %s have not started yet.", ticketType.Name)
	case WindowEnded:
		return newOrderError(CodeSalesEnded, "Sales for %s have ended.", ticketType.Name)
	}
	return nil
}
