// Package policy computes cancellation outcomes. Pure: no clock, no store;
// the lifecycle manager applies whatever the outcome says.
package policy

import (
	"math"
	"time"

	"github.com/tutorhub/lessonbook/internal/model"
)

// Outcome is the result of evaluating a cancellation. Amounts are in minor
// currency units. RestorePackageLesson is only ever true for bookings with a
// linked package.
type Outcome struct {
	Penalty              int64   `json:"penalty"`
	RefundAmount         int64   `json:"refund_amount"`
	RestorePackageLesson bool    `json:"restore_package_lesson"`
	HoursUntilLesson     float64 `json:"hours_until_lesson"` // rounded to one decimal
}

// lateStudentPenaltyRate is withheld from the student when they cancel
// inside the teacher's notice window.
const lateStudentPenaltyRate = 0.5

// Evaluate computes the outcome of cancelledBy cancelling booking at now,
// under the teacher's minimum-notice policy.
//
// With sufficient notice, and always when the teacher cancels, the full
// price is refunded and a package lesson (if any) is restored. A student
// cancelling late forfeits half the price and the package lesson.
func Evaluate(booking *model.Booking, cancelledBy model.ActorRole, minNoticeHours int, now time.Time) Outcome {
	hoursUntil := booking.StartTime.Sub(now).Hours()
	hasPackage := booking.PackageID != nil

	out := Outcome{
		RefundAmount:         booking.PriceAtBooking,
		RestorePackageLesson: hasPackage,
		HoursUntilLesson:     math.Round(hoursUntil*10) / 10,
	}

	if hoursUntil < float64(minNoticeHours) && cancelledBy == model.RoleStudent {
		out.Penalty = int64(math.Round(float64(booking.PriceAtBooking) * lateStudentPenaltyRate))
		out.RefundAmount = booking.PriceAtBooking - out.Penalty
		out.RestorePackageLesson = false
	}

	return out
}
