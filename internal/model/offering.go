package model

import (
	"time"

	"github.com/google/uuid"
)

// SubjectOffering is a lesson a teacher sells: subject, hourly price and
// default duration. PricePerHour is in minor currency units and is the
// source for Booking.PriceAtBooking.
type SubjectOffering struct {
	ID              uuid.UUID `json:"id"`
	TeacherID       uuid.UUID `json:"teacher_id"`
	Name            string    `json:"name"`
	Description     string    `json:"description"`
	PricePerHour    int64     `json:"price_per_hour"`
	DurationMinutes int       `json:"duration_minutes"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
}
