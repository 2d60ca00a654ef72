package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nadhifr/karcis/internal/models"
)

func timePtr(t time.Time) *time.Time {
	return &t
}

func TestSalesWindowState(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		salesStart *time.Time
		salesEnd   *time.Time
		want       WindowState
	}{
		{"no bounds", nil, nil, WindowOpen},
		{"inside window", timePtr(now.Add(-time.Hour)), timePtr(now.Add(time.Hour)), WindowOpen},
		{"before start", timePtr(now.Add(time.Hour)), nil, WindowNotStarted},
		{"after end", nil, timePtr(now.Add(-time.Hour)), WindowEnded},
		{"open ended start", timePtr(now.Add(-time.Hour)), nil, WindowOpen},
		{"open ended end", nil, timePtr(now.Add(time.Hour)), WindowOpen},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ticketType := &models.TicketType{
				Name:       "Regular",
				SalesStart: tt.salesStart,
				SalesEnd:   tt.salesEnd,
			}
			assert.Equal(t, tt.want, SalesWindowState(ticketType, now))
		})
	}
}

func TestCheckSalesWindow(t *testing.T) {
	now := time.Now()

	t.Run("open window passes", func(t *testing.T) {
		ticketType := &models.TicketType{Name: "Early Bird"}
		assert.Nil(t, CheckSalesWindow(ticketType, now))
	})

	t.Run("not started names the ticket type", func(t *testing.T) {
		ticketType := &models.TicketType{
			Name:       "Early Bird",
			SalesStart: timePtr(now.Add(time.Hour)),
		}
		err := CheckSalesWindow(ticketType, now)
		require.NotNil(t, err)
		assert.Equal(t, CodeSalesNotStarted, err.Code)
		assert.Contains(t, err.Message, "Early Bird")
	})

	t.Run("ended names the ticket type", func(t *testing.T) {
		ticketType := &models.TicketType{
			Name:     "Early Bird",
			SalesEnd: timePtr(now.Add(-time.Hour)),
		}
		err := CheckSalesWindow(ticketType, now)
		require.NotNil(t, err)
		assert.Equal(t, CodeSalesEnded, err.Code)
		assert.Contains(t, err.Message, "Early Bird")
	})
}
