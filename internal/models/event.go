package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Event struct {
	gorm.Model
	ID               uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Title            string    `gorm:"not null" json:"title"`
	Description      string    `gorm:"not null" json:"description"`
	StartTime        time.Time `gorm:"not null" json:"start_time"`
	EndTime          time.Time `gorm:"not null" json:"end_time"`
	Location         string    `gorm:"not null" json:"location"`
	CurrentAttendees int       `gorm:"not null;default:0" json:"current_attendees"`
	MaxAttendees     *int      `json:"max_attendees"`
	User             User      `json:"-"`
	UserID           uuid.UUID `json:"user_id"`

	TicketTypes []TicketType `json:"ticket_types,omitempty"`
	PromoCodes  []PromoCode  `json:"-"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}
