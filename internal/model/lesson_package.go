package model

import (
	"time"

	"github.com/google/uuid"
)

type PackageStatus string

const (
	PackageStatusActive    PackageStatus = "active"
	PackageStatusExhausted PackageStatus = "exhausted"
	PackageStatusExpired   PackageStatus = "expired"
	PackageStatusCancelled PackageStatus = "cancelled"
)

// LessonPackage is a pre-purchased bundle of lessons. LessonsRemaining never
// goes negative: it is decremented when a package booking is created and
// incremented only when the cancellation policy restores the lesson.
type LessonPackage struct {
	ID               uuid.UUID     `json:"id"`
	StudentID        uuid.UUID     `json:"student_id"`
	OfferingID       uuid.UUID     `json:"offering_id"`
	LessonsTotal     int           `json:"lessons_total"`
	LessonsRemaining int           `json:"lessons_remaining"`
	ExpiresAt        time.Time     `json:"expires_at"`
	Status           PackageStatus `json:"status"`
	PurchasedAt      time.Time     `json:"purchased_at"`
	UpdatedAt        time.Time     `json:"updated_at"`
}

// Usable reports whether the package can pay for a new booking at time now.
func (p *LessonPackage) Usable(now time.Time) bool {
	return p.Status == PackageStatusActive && p.LessonsRemaining > 0 && p.ExpiresAt.After(now)
}
