package model

import (
	"time"

	"github.com/google/uuid"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"   // waiting for teacher confirmation
	BookingStatusConfirmed BookingStatus = "confirmed" // confirmed by the teacher
	BookingStatusCompleted BookingStatus = "completed" // lesson held, attendance recorded
	BookingStatusCancelled BookingStatus = "cancelled" // cancelled by either participant
	BookingStatusNoShow    BookingStatus = "no_show"   // student did not attend
)

// Terminal reports whether no further transition may leave the status.
func (s BookingStatus) Terminal() bool {
	switch s {
	case BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow:
		return true
	}
	return false
}

// Active bookings are the ones that occupy the teacher's calendar
// and count toward conflict detection.
func (s BookingStatus) Active() bool {
	return s == BookingStatusPending || s == BookingStatusConfirmed
}

// CanTransition reports whether the booking state machine permits from -> to.
func CanTransition(from, to BookingStatus) bool {
	if from.Terminal() {
		return false
	}
	switch to {
	case BookingStatusConfirmed:
		return from == BookingStatusPending
	case BookingStatusCancelled:
		return from.Active()
	case BookingStatusCompleted, BookingStatusNoShow:
		return from == BookingStatusConfirmed
	case BookingStatusPending:
		// only reachable again through a reschedule of an active booking
		return from.Active()
	}
	return false
}

type BookingType string

const (
	BookingTypeTrial   BookingType = "trial"
	BookingTypeSingle  BookingType = "single"
	BookingTypePackage BookingType = "package"
)

func (t BookingType) Valid() bool {
	switch t {
	case BookingTypeTrial, BookingTypeSingle, BookingTypePackage:
		return true
	}
	return false
}

// ActorRole identifies which side of the booking performs an operation.
type ActorRole string

const (
	RoleStudent ActorRole = "student"
	RoleTeacher ActorRole = "teacher"
)

func (r ActorRole) Valid() bool {
	return r == RoleStudent || r == RoleTeacher
}

// Attendance carries the flags and actual times recorded when a lesson ends.
type Attendance struct {
	StudentAttended bool
	TeacherAttended bool
	ActualStart     *time.Time
	ActualEnd       *time.Time
	Notes           string
}

type Booking struct {
	ID         uuid.UUID  `json:"id"`
	StudentID  uuid.UUID  `json:"student_id"`
	TeacherID  uuid.UUID  `json:"teacher_id"`
	OfferingID uuid.UUID  `json:"offering_id"`
	PackageID  *uuid.UUID `json:"package_id,omitempty"`

	// Half-open interval [StartTime, EndTime); each side keeps the
	// IANA timezone label the participant booked in.
	StartTime       time.Time `json:"start_time"`
	EndTime         time.Time `json:"end_time"`
	StudentTimezone string    `json:"student_timezone"`
	TeacherTimezone string    `json:"teacher_timezone"`

	// Computed once at creation, in minor currency units. Never recomputed.
	PriceAtBooking int64 `json:"price_at_booking"`

	Type   BookingType   `json:"type"`
	Status BookingStatus `json:"status"`

	CancelledAt      *time.Time `json:"cancelled_at,omitempty"`
	CancelledBy      *ActorRole `json:"cancelled_by,omitempty"`
	CancelReason     *string    `json:"cancel_reason,omitempty"`
	RescheduledAt    *time.Time `json:"rescheduled_at,omitempty"`
	RescheduleReason *string    `json:"reschedule_reason,omitempty"`

	StudentAttended *bool      `json:"student_attended,omitempty"`
	TeacherAttended *bool      `json:"teacher_attended,omitempty"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty"`
	LessonNotes     *string    `json:"lesson_notes,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ParticipantRole returns the role actorID plays on this booking,
// or false when the actor is neither participant.
func (b *Booking) ParticipantRole(actorID uuid.UUID) (ActorRole, bool) {
	switch actorID {
	case b.StudentID:
		return RoleStudent, true
	case b.TeacherID:
		return RoleTeacher, true
	}
	return "", false
}
