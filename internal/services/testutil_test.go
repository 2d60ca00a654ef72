package services

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nadhifr/karcis/internal/models"
)

// newTestDB opens an in-memory sqlite database limited to a single
// connection, so concurrent test goroutines serialize on the pool the same
// way row locks serialize writers in postgres. The conditional-update
// guards under test are plain SQL and behave identically on both.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Event{},
		&models.TicketType{},
		&models.PromoCode{},
		&models.Order{},
		&models.Ticket{},
	))
	return db
}

func newTestOrderService(db *gorm.DB) *OrderService {
	return NewOrderService(db, NewTicketCodec("test-secret"), nil, decimal.Zero, decimal.Zero)
}

func intPtr(i int) *int {
	return &i
}

func decPtr(value string) *decimal.Decimal {
	d := decimal.RequireFromString(value)
	return &d
}

func seedEvent(t *testing.T, db *gorm.DB) *models.Event {
	t.Helper()
	event := &models.Event{
		Title:       "Annual Charity Gala",
		Description: "Fundraiser dinner and auction",
		StartTime:   time.Now().Add(30 * 24 * time.Hour),
		EndTime:     time.Now().Add(30*24*time.Hour + 4*time.Hour),
		Location:    "City Hall",
		UserID:      uuid.New(),
	}
	require.NoError(t, db.Create(event).Error)
	return event
}

func seedTicketType(t *testing.T, db *gorm.DB, event *models.Event, name, price string, quantity *int) *models.TicketType {
	t.Helper()
	ticketType := &models.TicketType{
		Name:     name,
		Price:    decimal.RequireFromString(price),
		Quantity: quantity,
		EventID:  event.ID,
	}
	require.NoError(t, db.Create(ticketType).Error)
	return ticketType
}

func seedPromo(t *testing.T, db *gorm.DB, promo *models.PromoCode) *models.PromoCode {
	t.Helper()
	require.NoError(t, db.Create(promo).Error)
	return promo
}

func reloadTicketType(t *testing.T, db *gorm.DB, id uuid.UUID) *models.TicketType {
	t.Helper()
	var ticketType models.TicketType
	require.NoError(t, db.First(&ticketType, "id = ?", id).Error)
	return &ticketType
}

func reloadEvent(t *testing.T, db *gorm.DB, id uuid.UUID) *models.Event {
	t.Helper()
	var event models.Event
	require.NoError(t, db.First(&event, "id = ?", id).Error)
	return &event
}

func reloadPromo(t *testing.T, db *gorm.DB, id uuid.UUID) *models.PromoCode {
	t.Helper()
	var promo models.PromoCode
	require.NoError(t, db.First(&promo, "id = ?", id).Error)
	return &promo
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}
