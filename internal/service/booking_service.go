package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/tutorhub/lessonbook/internal/events"
	"github.com/tutorhub/lessonbook/internal/metrics"
	"github.com/tutorhub/lessonbook/internal/model"
	"github.com/tutorhub/lessonbook/internal/policy"
	"github.com/tutorhub/lessonbook/internal/repository"
	"github.com/tutorhub/lessonbook/internal/schedule"
)

// Result is what every mutating lifecycle operation returns: the booking
// after the transition, the cancellation outcome when one was computed, and
// the best-effort notification dispatch report.
type Result struct {
	Booking      *model.Booking        `json:"booking"`
	Cancellation *policy.Outcome       `json:"cancellation,omitempty"`
	Dispatch     events.DispatchResult `json:"dispatch"`
}

// BookingService owns the booking state machine. Every operation validates
// fully before mutating, and every multi-row mutation commits as one
// transaction.
type BookingService struct {
	pool       *pgxpool.Pool
	bookings   *repository.BookingRepository
	packages   *repository.PackageRepository
	teachers   *repository.TeacherRepository
	offerings  *repository.OfferingRepository
	validator  *BookingValidator
	dispatcher events.Dispatcher
	logger     *zap.Logger
	now        func() time.Time
}

func NewBookingService(
	pool *pgxpool.Pool,
	bookings *repository.BookingRepository,
	packages *repository.PackageRepository,
	teachers *repository.TeacherRepository,
	offerings *repository.OfferingRepository,
	validator *BookingValidator,
	dispatcher events.Dispatcher,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		pool:       pool,
		bookings:   bookings,
		packages:   packages,
		teachers:   teachers,
		offerings:  offerings,
		validator:  validator,
		dispatcher: dispatcher,
		logger:     logger,
		now:        time.Now,
	}
}

// Create books a lesson. The price is computed once here from the offering's
// hourly rate and the interval length; later operations never recompute it.
// A package booking consumes one package lesson in the same transaction as
// the insert.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*Result, error) {
	teacher, err := s.validator.ValidateCreate(ctx, req)
	if err != nil {
		s.countRejection(err)
		return nil, err
	}

	offering, err := s.offerings.GetByID(ctx, req.OfferingID)
	if err != nil {
		return nil, model.NewInternal(err)
	}
	if offering == nil {
		return nil, model.NewNotFound("offering")
	}
	if offering.TeacherID != req.TeacherID || !offering.IsActive {
		return nil, model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument,
			"offering is not bookable for this teacher")
	}

	durationHours := req.End.Sub(req.Start).Hours()
	price := int64(math.Round(float64(offering.PricePerHour) * durationHours))

	booking := &model.Booking{
		ID:              uuid.New(),
		StudentID:       req.StudentID,
		TeacherID:       req.TeacherID,
		OfferingID:      req.OfferingID,
		PackageID:       req.PackageID,
		StartTime:       req.Start,
		EndTime:         req.End,
		StudentTimezone: req.StudentTimezone,
		TeacherTimezone: teacher.Timezone,
		PriceAtBooking:  price,
		Type:            req.Type,
		Status:          model.BookingStatusPending,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if req.Type == model.BookingTypePackage {
		consumed, err := s.packages.ConsumeLesson(ctx, tx, *req.PackageID)
		if err != nil {
			return nil, model.NewInternal(err)
		}
		if !consumed {
			// the package changed under us between validation and here
			return nil, model.NewError(model.KindPackageError, model.CodePackageExhausted,
				"package can no longer pay for this lesson")
		}
	}

	if err := s.bookings.Create(ctx, tx, booking); err != nil {
		s.countRejection(err)
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	metrics.IncBookingCreated(string(booking.Type))
	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID.String()),
		zap.String("teacher_id", booking.TeacherID.String()),
		zap.String("student_id", booking.StudentID.String()),
		zap.String("type", string(booking.Type)),
		zap.Int64("price", booking.PriceAtBooking),
	)

	dispatch := events.Send(ctx, s.dispatcher, events.Event{
		Type:       events.EventBookingCreated,
		BookingID:  booking.ID,
		Status:     booking.Status,
		Actor:      model.RoleStudent,
		OccurredAt: s.now(),
	})

	return &Result{Booking: booking, Dispatch: dispatch}, nil
}

// SetStatus lets the teacher confirm or decline a pending request. Declining
// records cancellation metadata but computes no cancellation outcome and does
// not restore a consumed package lesson; a cancellation that should refund or
// restore goes through Cancel.
func (s *BookingService) SetStatus(ctx context.Context, bookingID, actorID uuid.UUID, target model.BookingStatus, reason string) (*Result, error) {
	booking, err := s.getOwned(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TeacherID != actorID {
		return nil, model.NewError(model.KindPermissionDenied, model.CodePermissionDenied,
			"only the teacher decides on a pending request")
	}

	var eventType events.EventType
	switch target {
	case model.BookingStatusConfirmed:
		eventType = events.EventBookingConfirmed
	case model.BookingStatusCancelled:
		eventType = events.EventBookingCancelled
	default:
		return nil, model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument,
			"target status must be confirmed or cancelled")
	}
	if err := setStatusPrecondition(booking.Status, target); err != nil {
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var moved bool
	now := s.now()
	if target == model.BookingStatusConfirmed {
		moved, err = s.bookings.UpdateStatus(ctx, tx, bookingID, model.BookingStatusPending, model.BookingStatusConfirmed)
	} else {
		moved, err = s.bookings.MarkCancelled(ctx, tx, bookingID, model.RoleTeacher, reason, now)
	}
	if err != nil {
		return nil, model.NewInternal(err)
	}
	if !moved {
		return nil, model.NewError(model.KindPolicyViolation, decisionCode(target),
			"booking left the pending state concurrently")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	booking.Status = target
	if target == model.BookingStatusCancelled {
		role := model.RoleTeacher
		booking.CancelledAt = &now
		booking.CancelledBy = &role
		booking.CancelReason = &reason
	}

	s.logger.Info("Booking decided",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(target)),
	)

	dispatch := events.Send(ctx, s.dispatcher, events.Event{
		Type:       eventType,
		BookingID:  bookingID,
		Status:     target,
		Actor:      model.RoleTeacher,
		OccurredAt: now,
	})

	return &Result{Booking: booking, Dispatch: dispatch}, nil
}

// Reschedule moves an active booking to a new interval. The notice window
// and the conflict scan (ignoring the booking itself) are re-checked; on
// success the booking returns to pending for re-confirmation.
func (s *BookingService) Reschedule(ctx context.Context, bookingID, actorID uuid.UUID, newStart, newEnd time.Time, reason string) (*Result, error) {
	booking, err := s.getOwned(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	role, ok := booking.ParticipantRole(actorID)
	if !ok {
		return nil, model.NewError(model.KindPermissionDenied, model.CodePermissionDenied,
			"actor is not a participant of this booking")
	}
	if !model.CanTransition(booking.Status, model.BookingStatusPending) {
		return nil, model.NewError(model.KindPolicyViolation, model.CodeBookingNotReschedulable,
			"only pending or confirmed bookings can be rescheduled")
	}

	if err := s.validator.ValidateReschedule(ctx, booking, newStart, newEnd); err != nil {
		s.countRejection(err)
		return nil, err
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := s.now()
	moved, err := s.bookings.UpdateInterval(ctx, tx, bookingID, newStart, newEnd, reason, now)
	if err != nil {
		var de *model.Error
		if errors.As(err, &de) {
			s.countRejection(err)
			return nil, err
		}
		return nil, model.NewInternal(err)
	}
	if !moved {
		return nil, model.NewError(model.KindPolicyViolation, model.CodeBookingNotReschedulable,
			"booking left the active state concurrently")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	booking.StartTime = newStart
	booking.EndTime = newEnd
	booking.Status = model.BookingStatusPending
	booking.RescheduledAt = &now
	booking.RescheduleReason = &reason

	s.logger.Info("Booking rescheduled",
		zap.String("booking_id", bookingID.String()),
		zap.Time("new_start", newStart),
		zap.String("by", string(role)),
	)

	dispatch := events.Send(ctx, s.dispatcher, events.Event{
		Type:       events.EventBookingRescheduled,
		BookingID:  bookingID,
		Status:     booking.Status,
		Actor:      role,
		OccurredAt: now,
	})

	return &Result{Booking: booking, Dispatch: dispatch}, nil
}

// Cancel ends an active booking. The policy engine decides penalty, refund
// and package restoration; the status flip and the package increment commit
// together. Cancelling a booking that is already terminal fails with
// BookingNotCancellable, so the restoration can never double-apply.
func (s *BookingService) Cancel(ctx context.Context, bookingID, actorID uuid.UUID, reason string) (*Result, error) {
	booking, err := s.getOwned(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	role, ok := booking.ParticipantRole(actorID)
	if !ok {
		return nil, model.NewError(model.KindPermissionDenied, model.CodePermissionDenied,
			"actor is not a participant of this booking")
	}
	if !model.CanTransition(booking.Status, model.BookingStatusCancelled) {
		return nil, model.NewError(model.KindPolicyViolation, model.CodeBookingNotCancellable,
			"booking is not active")
	}

	teacher, err := s.teachers.GetByID(ctx, booking.TeacherID)
	if err != nil {
		return nil, model.NewInternal(err)
	}
	if teacher == nil {
		return nil, model.NewNotFound("teacher")
	}

	now := s.now()
	outcome := policy.Evaluate(booking, role, teacher.MinNoticeHours, now)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	moved, err := s.bookings.MarkCancelled(ctx, tx, bookingID, role, reason, now)
	if err != nil {
		return nil, model.NewInternal(err)
	}
	if !moved {
		return nil, model.NewError(model.KindPolicyViolation, model.CodeBookingNotCancellable,
			"booking left the active state concurrently")
	}

	if outcome.RestorePackageLesson && booking.PackageID != nil {
		if err := s.packages.RestoreLesson(ctx, tx, *booking.PackageID); err != nil {
			return nil, model.NewInternal(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	booking.Status = model.BookingStatusCancelled
	booking.CancelledAt = &now
	booking.CancelledBy = &role
	booking.CancelReason = &reason

	metrics.IncBookingCancelled(string(role))
	s.logger.Info("Booking cancelled",
		zap.String("booking_id", bookingID.String()),
		zap.String("by", string(role)),
		zap.Int64("penalty", outcome.Penalty),
		zap.Int64("refund", outcome.RefundAmount),
		zap.Bool("package_restored", outcome.RestorePackageLesson),
	)

	dispatch := events.Send(ctx, s.dispatcher, events.Event{
		Type:       events.EventBookingCancelled,
		BookingID:  bookingID,
		Status:     booking.Status,
		Actor:      role,
		OccurredAt: now,
	})

	return &Result{Booking: booking, Cancellation: &outcome, Dispatch: dispatch}, nil
}

// MarkAttendance records how a confirmed lesson went after it ended. The
// student's flag gates the terminal status: no_show when they missed it,
// completed otherwise. The teacher's lifetime counter is only credited for
// completed lessons, in the same transaction.
func (s *BookingService) MarkAttendance(ctx context.Context, bookingID, actorID uuid.UUID, att model.Attendance) (*Result, error) {
	booking, err := s.getOwned(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.TeacherID != actorID {
		return nil, model.NewError(model.KindPermissionDenied, model.CodePermissionDenied,
			"only the teacher records attendance")
	}
	final := model.BookingStatusCompleted
	eventType := events.EventBookingCompleted
	if !att.StudentAttended {
		final = model.BookingStatusNoShow
		eventType = events.EventBookingNoShow
	}

	if !model.CanTransition(booking.Status, final) {
		return nil, model.NewError(model.KindPolicyViolation, model.CodeAttendanceNotRecordable,
			"attendance is only recorded for confirmed bookings")
	}
	if booking.EndTime.After(s.now()) {
		return nil, model.NewError(model.KindPolicyViolation, model.CodeAttendanceNotRecordable,
			"lesson has not ended yet")
	}
	if !attendanceTimesPlausible(booking, att) {
		return nil, model.NewError(model.KindInvalidArgument, model.CodeInvalidArgument,
			"actual lesson times must form an interval intersecting the booked slot")
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	moved, err := s.bookings.RecordAttendance(ctx, tx, bookingID, att, final)
	if err != nil {
		return nil, model.NewInternal(err)
	}
	if !moved {
		return nil, model.NewError(model.KindPolicyViolation, model.CodeAttendanceNotRecordable,
			"booking left the confirmed state concurrently")
	}

	if final == model.BookingStatusCompleted {
		if err := s.teachers.CreditCompletedLesson(ctx, tx, booking.TeacherID); err != nil {
			return nil, model.NewInternal(err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit transaction: %w", err)
	}

	booking.Status = final
	booking.StudentAttended = &att.StudentAttended
	booking.TeacherAttended = &att.TeacherAttended
	booking.ActualStartTime = att.ActualStart
	booking.ActualEndTime = att.ActualEnd
	if att.Notes != "" {
		booking.LessonNotes = &att.Notes
	}

	metrics.IncBookingCompleted(string(final))
	s.logger.Info("Attendance recorded",
		zap.String("booking_id", bookingID.String()),
		zap.String("status", string(final)),
	)

	dispatch := events.Send(ctx, s.dispatcher, events.Event{
		Type:       eventType,
		BookingID:  bookingID,
		Status:     final,
		Actor:      model.RoleTeacher,
		OccurredAt: s.now(),
	})

	return &Result{Booking: booking, Dispatch: dispatch}, nil
}

// GetBooking returns a booking to one of its participants.
func (s *BookingService) GetBooking(ctx context.Context, bookingID, actorID uuid.UUID) (*model.Booking, error) {
	booking, err := s.getOwned(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if _, ok := booking.ParticipantRole(actorID); !ok {
		return nil, model.NewError(model.KindPermissionDenied, model.CodePermissionDenied,
			"actor is not a participant of this booking")
	}
	return booking, nil
}

// GetStudentBookings returns all bookings of a student.
func (s *BookingService) GetStudentBookings(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	return s.bookings.GetByStudentID(ctx, studentID)
}

// GetTeacherBookings returns all bookings of a teacher.
func (s *BookingService) GetTeacherBookings(ctx context.Context, teacherID uuid.UUID) ([]*model.Booking, error) {
	return s.bookings.GetByTeacherID(ctx, teacherID)
}

func (s *BookingService) getOwned(ctx context.Context, bookingID uuid.UUID) (*model.Booking, error) {
	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, model.NewInternal(err)
	}
	if booking == nil {
		return nil, model.NewNotFound("booking")
	}
	return booking, nil
}

// decisionCode names the failed precondition after the action the teacher
// attempted: confirming or declining.
func decisionCode(target model.BookingStatus) model.ErrorCode {
	if target == model.BookingStatusCancelled {
		return model.CodeBookingNotCancellable
	}
	return model.CodeBookingNotConfirmable
}

// setStatusPrecondition checks that the teacher's decision is legal for the
// booking's current state. Both decisions only apply to pending requests; a
// confirmed booking is cancelled through Cancel, where the policy engine runs.
func setStatusPrecondition(current, target model.BookingStatus) error {
	if current != model.BookingStatusPending || !model.CanTransition(current, target) {
		return model.NewError(model.KindPolicyViolation, decisionCode(target),
			"only pending bookings can be decided")
	}
	return nil
}

// attendanceTimesPlausible accepts actual lesson times when they are either
// both absent or form a proper interval intersecting the booked slot.
func attendanceTimesPlausible(b *model.Booking, att model.Attendance) bool {
	if att.ActualStart == nil || att.ActualEnd == nil {
		return att.ActualStart == nil && att.ActualEnd == nil
	}
	return schedule.ValidInterval(*att.ActualStart, *att.ActualEnd) &&
		schedule.Overlaps(*att.ActualStart, *att.ActualEnd, b.StartTime, b.EndTime)
}

func (s *BookingService) countRejection(err error) {
	var de *model.Error
	if !errors.As(err, &de) {
		return
	}
	switch de.Kind {
	case model.KindSchedulingConflict, model.KindPolicyViolation, model.KindPackageError, model.KindTeacherNotVerified:
		metrics.IncBookingRejected(string(de.Code))
	}
}
