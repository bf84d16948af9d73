package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/tutorhub/lessonbook/internal/model"
)

func TestSetStatusPrecondition(t *testing.T) {
	tests := []struct {
		name     string
		current  model.BookingStatus
		target   model.BookingStatus
		wantCode model.ErrorCode
	}{
		{
			name:    "confirm pending",
			current: model.BookingStatusPending,
			target:  model.BookingStatusConfirmed,
		},
		{
			name:    "decline pending",
			current: model.BookingStatusPending,
			target:  model.BookingStatusCancelled,
		},
		{
			name:     "confirm confirmed",
			current:  model.BookingStatusConfirmed,
			target:   model.BookingStatusConfirmed,
			wantCode: model.CodeBookingNotConfirmable,
		},
		{
			name:     "decline confirmed",
			current:  model.BookingStatusConfirmed,
			target:   model.BookingStatusCancelled,
			wantCode: model.CodeBookingNotCancellable,
		},
		{
			name:     "confirm cancelled",
			current:  model.BookingStatusCancelled,
			target:   model.BookingStatusConfirmed,
			wantCode: model.CodeBookingNotConfirmable,
		},
		{
			name:     "decline completed",
			current:  model.BookingStatusCompleted,
			target:   model.BookingStatusCancelled,
			wantCode: model.CodeBookingNotCancellable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := setStatusPrecondition(tt.current, tt.target)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, model.IsCode(err, tt.wantCode), "got %v", err)
			assert.True(t, model.IsKind(err, model.KindPolicyViolation))
		})
	}
}

func TestAttendanceTimesPlausible(t *testing.T) {
	start := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	booking := &model.Booking{StartTime: start, EndTime: start.Add(time.Hour)}

	timePtr := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name      string
		att       model.Attendance
		plausible bool
	}{
		{
			name:      "no actual times",
			att:       model.Attendance{},
			plausible: true,
		},
		{
			name: "within the booked slot",
			att: model.Attendance{
				ActualStart: timePtr(start.Add(5 * time.Minute)),
				ActualEnd:   timePtr(start.Add(55 * time.Minute)),
			},
			plausible: true,
		},
		{
			name: "started late and ran over",
			att: model.Attendance{
				ActualStart: timePtr(start.Add(50 * time.Minute)),
				ActualEnd:   timePtr(start.Add(100 * time.Minute)),
			},
			plausible: true,
		},
		{
			name: "reversed interval",
			att: model.Attendance{
				ActualStart: timePtr(start.Add(30 * time.Minute)),
				ActualEnd:   timePtr(start),
			},
			plausible: false,
		},
		{
			name: "entirely outside the booked slot",
			att: model.Attendance{
				ActualStart: timePtr(start.Add(2 * time.Hour)),
				ActualEnd:   timePtr(start.Add(3 * time.Hour)),
			},
			plausible: false,
		},
		{
			name: "only one endpoint recorded",
			att: model.Attendance{
				ActualStart: timePtr(start),
			},
			plausible: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.plausible, attendanceTimesPlausible(booking, tt.att))
		})
	}
}
