package model

import (
	"time"

	"github.com/google/uuid"
)

type RuleKind string

const (
	RuleKindRecurring RuleKind = "recurring" // weekday + minute-of-day window
	RuleKindOneOff    RuleKind = "one_off"   // specific date + minute-of-day window
)

// AvailabilityRule describes when a teacher is open (or closed) for lessons.
// Recurring rules carry a weekday, one-off rules carry a date; both carry a
// window expressed in minutes from midnight in the teacher's timezone.
// Windows never cross midnight.
type AvailabilityRule struct {
	ID        int64     `json:"id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	Kind      RuleKind  `json:"kind"`

	Weekday *time.Weekday `json:"weekday,omitempty"` // recurring rules only
	Date    *time.Time    `json:"date,omitempty"`    // one-off rules only, midnight-truncated

	StartMinute int  `json:"start_minute"` // 0..1439
	EndMinute   int  `json:"end_minute"`   // 1..1440, exclusive
	Open        bool `json:"open"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
