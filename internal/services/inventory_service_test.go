package services

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReserveInventory(t *testing.T) {
	t.Run("claims units within capacity", func(t *testing.T) {
		db := newTestDB(t)
		event := seedEvent(t, db)
		ticketType := seedTicketType(t, db, event, "Regular", "50.00", intPtr(10))

		require.NoError(t, ReserveInventory(db, ticketType, 4))
		assert.Equal(t, 4, reloadTicketType(t, db, ticketType.ID).QuantitySold)
	})

	t.Run("rejects beyond capacity without mutation", func(t *testing.T) {
		db := newTestDB(t)
		event := seedEvent(t, db)
		ticketType := seedTicketType(t, db, event, "Regular", "50.00", intPtr(3))

		err := ReserveInventory(db, ticketType, 4)
		require.Error(t, err)
		orderErr, ok := AsOrderError(err)
		require.True(t, ok)
		assert.Equal(t, CodeInsufficientInventory, orderErr.Code)
		assert.Contains(t, orderErr.Message, "Regular")
		assert.Equal(t, 0, reloadTicketType(t, db, ticketType.ID).QuantitySold)
	})

	t.Run("unlimited quantity skips the capacity check", func(t *testing.T) {
		db := newTestDB(t)
		event := seedEvent(t, db)
		ticketType := seedTicketType(t, db, event, "Donation", "10.00", nil)

		require.NoError(t, ReserveInventory(db, ticketType, 10000))
		assert.Equal(t, 10000, reloadTicketType(t, db, ticketType.ID).QuantitySold)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		db := newTestDB(t)
		event := seedEvent(t, db)
		ticketType := seedTicketType(t, db, event, "Regular", "50.00", intPtr(3))

		for _, quantity := range []int{0, -2} {
			err := ReserveInventory(db, ticketType, quantity)
			require.Error(t, err)
			orderErr, ok := AsOrderError(err)
			require.True(t, ok)
			assert.Equal(t, CodeInvalidQuantity, orderErr.Code)
		}
	})
}

func TestReleaseInventory(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	ticketType := seedTicketType(t, db, event, "Regular", "50.00", intPtr(5))

	require.NoError(t, ReserveInventory(db, ticketType, 3))
	require.NoError(t, ReleaseInventory(db, ticketType.ID, 2))
	assert.Equal(t, 1, reloadTicketType(t, db, ticketType.ID).QuantitySold)

	// releasing more than was ever reserved must not go negative
	err := ReleaseInventory(db, ticketType.ID, 5)
	require.Error(t, err)
	assert.Equal(t, 1, reloadTicketType(t, db, ticketType.ID).QuantitySold)
}

func TestReserveInventoryConcurrentLastSeat(t *testing.T) {
	db := newTestDB(t)
	event := seedEvent(t, db)
	ticketType := seedTicketType(t, db, event, "Last Seat", "50.00", intPtr(1))

	var wg sync.WaitGroup
	results := make(chan error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ReserveInventory(db, ticketType, 1)
		}()
	}
	wg.Wait()
	close(results)

	successes, failures := 0, 0
	for err := range results {
		if err == nil {
			successes++
			continue
		}
		orderErr, ok := AsOrderError(err)
		require.True(t, ok, "unexpected error: %v", err)
		assert.Equal(t, CodeInsufficientInventory, orderErr.Code)
		failures++
	}

	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, failures)
	assert.Equal(t, 1, reloadTicketType(t, db, ticketType.ID).QuantitySold)
}

func TestReserveInventoryNeverOversells(t *testing.T) {
	const capacity = 5
	const buyers = 20

	db := newTestDB(t)
	event := seedEvent(t, db)
	ticketType := seedTicketType(t, db, event, "Limited", "50.00", intPtr(capacity))

	var wg sync.WaitGroup
	results := make(chan error, buyers)
	for i := 0; i < buyers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- ReserveInventory(db, ticketType, 1)
		}()
	}
	wg.Wait()
	close(results)

	successes := 0
	for err := range results {
		if err == nil {
			successes++
		}
	}

	assert.Equal(t, capacity, successes, "successful reservations must equal capacity exactly")
	assert.Equal(t, capacity, reloadTicketType(t, db, ticketType.ID).QuantitySold)
}
