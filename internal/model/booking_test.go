package model

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", BookingStatusPending, BookingStatusConfirmed, true},
		{"pending to cancelled", BookingStatusPending, BookingStatusCancelled, true},
		{"pending to pending (reschedule)", BookingStatusPending, BookingStatusPending, true},
		{"pending to completed", BookingStatusPending, BookingStatusCompleted, false},
		{"pending to no_show", BookingStatusPending, BookingStatusNoShow, false},
		{"confirmed to completed", BookingStatusConfirmed, BookingStatusCompleted, true},
		{"confirmed to no_show", BookingStatusConfirmed, BookingStatusNoShow, true},
		{"confirmed to cancelled", BookingStatusConfirmed, BookingStatusCancelled, true},
		{"confirmed to pending (reschedule)", BookingStatusConfirmed, BookingStatusPending, true},
		{"cancelled is terminal", BookingStatusCancelled, BookingStatusCancelled, false},
		{"cancelled cannot restart", BookingStatusCancelled, BookingStatusPending, false},
		{"completed is terminal", BookingStatusCompleted, BookingStatusCancelled, false},
		{"no_show is terminal", BookingStatusNoShow, BookingStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestBookingStatus_Active(t *testing.T) {
	assert.True(t, BookingStatusPending.Active())
	assert.True(t, BookingStatusConfirmed.Active())
	assert.False(t, BookingStatusCompleted.Active())
	assert.False(t, BookingStatusCancelled.Active())
	assert.False(t, BookingStatusNoShow.Active())
}

func TestBookingStatus_Terminal(t *testing.T) {
	for _, s := range []BookingStatus{BookingStatusCompleted, BookingStatusCancelled, BookingStatusNoShow} {
		assert.True(t, s.Terminal(), string(s))
	}
	for _, s := range []BookingStatus{BookingStatusPending, BookingStatusConfirmed} {
		assert.False(t, s.Terminal(), string(s))
	}
}

func TestActorRole_Valid(t *testing.T) {
	assert.True(t, RoleStudent.Valid())
	assert.True(t, RoleTeacher.Valid())
	assert.False(t, ActorRole("admin").Valid())
	assert.False(t, ActorRole("").Valid())
}

func TestBooking_ParticipantRole(t *testing.T) {
	student := uuid.New()
	teacher := uuid.New()
	booking := &Booking{StudentID: student, TeacherID: teacher}

	role, ok := booking.ParticipantRole(student)
	assert.True(t, ok)
	assert.Equal(t, RoleStudent, role)

	role, ok = booking.ParticipantRole(teacher)
	assert.True(t, ok)
	assert.Equal(t, RoleTeacher, role)

	_, ok = booking.ParticipantRole(uuid.New())
	assert.False(t, ok)
}
