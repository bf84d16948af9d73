package model

import (
	"time"

	"github.com/google/uuid"
)

// TeacherProfile holds the per-teacher booking policy alongside the
// verification state and the lifetime completed-lesson counter.
type TeacherProfile struct {
	ID          uuid.UUID `json:"id"`
	DisplayName string    `json:"display_name"`
	Verified    bool      `json:"verified"`

	// Booking policy: a lesson must start at least MinNoticeHours from now
	// and at most MaxAdvanceDays ahead.
	MinNoticeHours int `json:"min_notice_hours"`
	MaxAdvanceDays int `json:"max_advance_days"`

	// Free-text policy shown to students before they book.
	CancellationPolicy string `json:"cancellation_policy"`

	// IANA timezone availability rules are expressed in.
	Timezone string `json:"timezone"`

	LessonsCompleted int64 `json:"lessons_completed"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Location resolves the teacher's timezone, falling back to UTC when the
// label is empty or unknown.
func (t *TeacherProfile) Location() *time.Location {
	if t.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(t.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
