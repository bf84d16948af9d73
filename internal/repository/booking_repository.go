package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tutorhub/lessonbook/internal/model"
	"github.com/tutorhub/lessonbook/internal/repository/base"
)

const bookingColumns = `
	id, student_id, teacher_id, offering_id, package_id,
	start_time, end_time, student_timezone, teacher_timezone,
	price_at_booking, type, status,
	cancelled_at, cancelled_by, cancel_reason,
	rescheduled_at, reschedule_reason,
	student_attended, teacher_attended, actual_start_time, actual_end_time, lesson_notes,
	created_at, updated_at`

type BookingRepository struct {
	pool *pgxpool.Pool
}

func NewBookingRepository(pool *pgxpool.Pool) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create inserts the booking. The bookings table carries an exclusion
// constraint over (teacher_id, active interval); a violation means another
// active booking occupies the slot and surfaces as SlotNotAvailable even
// when a concurrent writer slipped past the read-side conflict check.
func (r *BookingRepository) Create(ctx context.Context, q base.Queryer, booking *model.Booking) error {
	query := `
		INSERT INTO bookings (
			id, student_id, teacher_id, offering_id, package_id,
			start_time, end_time, student_timezone, teacher_timezone,
			price_at_booking, type, status
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(
		ctx, query,
		booking.ID,
		booking.StudentID,
		booking.TeacherID,
		booking.OfferingID,
		booking.PackageID,
		booking.StartTime,
		booking.EndTime,
		booking.StudentTimezone,
		booking.TeacherTimezone,
		booking.PriceAtBooking,
		booking.Type,
		booking.Status,
	).Scan(&booking.CreatedAt, &booking.UpdatedAt)

	if err != nil {
		if base.IsExclusionViolation(err) {
			return model.NewError(model.KindSchedulingConflict, model.CodeSlotNotAvailable,
				"slot was taken by a concurrent booking").WithCause(err)
		}
		return fmt.Errorf("create booking: %w", err)
	}

	return nil
}

// GetByID returns the booking or (nil, nil) when absent.
func (r *BookingRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get booking by id: %w", err)
	}

	return booking, nil
}

// HasActiveOverlap reports whether any pending or confirmed booking of the
// teacher intersects the half-open interval [start, end). excludeID skips
// the booking being rescheduled; pass uuid.Nil otherwise.
func (r *BookingRepository) HasActiveOverlap(ctx context.Context, teacherID uuid.UUID, start, end time.Time, excludeID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS(
			SELECT 1 FROM bookings
			WHERE teacher_id = $1
			  AND status IN ('pending', 'confirmed')
			  AND start_time < $3
			  AND $2 < end_time
			  AND id <> $4
		)
	`

	var exists bool
	err := r.pool.QueryRow(ctx, query, teacherID, start, end, excludeID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check active overlap: %w", err)
	}

	return exists, nil
}

// UpdateStatus moves the booking from one status to another. Returns false
// without error when the booking was not in the expected status, so callers
// can signal the precondition failure with the right code.
func (r *BookingRepository) UpdateStatus(ctx context.Context, q base.Queryer, id uuid.UUID, from, to model.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $1, updated_at = now()
		WHERE id = $2 AND status = $3
	`

	tag, err := q.Exec(ctx, query, to, id, from)
	if err != nil {
		return false, fmt.Errorf("update booking status: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// MarkCancelled sets the terminal cancelled status with its metadata. Only
// active bookings move; a false return means the booking was already
// terminal or absent.
func (r *BookingRepository) MarkCancelled(ctx context.Context, q base.Queryer, id uuid.UUID, by model.ActorRole, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET status = 'cancelled', cancelled_at = $2, cancelled_by = $3, cancel_reason = $4, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`

	tag, err := q.Exec(ctx, query, id, at, string(by), reason)
	if err != nil {
		return false, fmt.Errorf("mark booking cancelled: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// UpdateInterval moves an active booking to a new interval and resets it to
// pending for re-confirmation.
func (r *BookingRepository) UpdateInterval(ctx context.Context, q base.Queryer, id uuid.UUID, start, end time.Time, reason string, at time.Time) (bool, error) {
	query := `
		UPDATE bookings
		SET start_time = $2, end_time = $3, status = 'pending',
		    rescheduled_at = $4, reschedule_reason = $5, updated_at = now()
		WHERE id = $1 AND status IN ('pending', 'confirmed')
	`

	tag, err := q.Exec(ctx, query, id, start, end, at, reason)
	if err != nil {
		if base.IsExclusionViolation(err) {
			return false, model.NewError(model.KindSchedulingConflict, model.CodeSlotNotAvailable,
				"slot was taken by a concurrent booking").WithCause(err)
		}
		return false, fmt.Errorf("update booking interval: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// RecordAttendance writes the attendance outcome for a confirmed booking.
func (r *BookingRepository) RecordAttendance(ctx context.Context, q base.Queryer, id uuid.UUID, att model.Attendance, status model.BookingStatus) (bool, error) {
	query := `
		UPDATE bookings
		SET status = $2, student_attended = $3, teacher_attended = $4,
		    actual_start_time = $5, actual_end_time = $6, lesson_notes = $7, updated_at = now()
		WHERE id = $1 AND status = 'confirmed'
	`

	tag, err := q.Exec(ctx, query, id, status,
		att.StudentAttended, att.TeacherAttended, att.ActualStart, att.ActualEnd, att.Notes)
	if err != nil {
		return false, fmt.Errorf("record attendance: %w", err)
	}

	return tag.RowsAffected() > 0, nil
}

// GetByStudentID returns the student's bookings, newest lesson first.
func (r *BookingRepository) GetByStudentID(ctx context.Context, studentID uuid.UUID) ([]*model.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE student_id = $1 ORDER BY start_time DESC`
	return r.list(ctx, query, studentID)
}

// GetByTeacherID returns the teacher's bookings, newest lesson first.
func (r *BookingRepository) GetByTeacherID(ctx context.Context, teacherID uuid.UUID) ([]*model.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings WHERE teacher_id = $1 ORDER BY start_time DESC`
	return r.list(ctx, query, teacherID)
}

func (r *BookingRepository) list(ctx context.Context, query string, args ...any) ([]*model.Booking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*model.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, fmt.Errorf("scan booking: %w", err)
		}
		bookings = append(bookings, booking)
	}

	return bookings, rows.Err()
}

func scanBooking(row pgx.Row) (*model.Booking, error) {
	var booking model.Booking
	var cancelledBy *string

	err := row.Scan(
		&booking.ID,
		&booking.StudentID,
		&booking.TeacherID,
		&booking.OfferingID,
		&booking.PackageID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.StudentTimezone,
		&booking.TeacherTimezone,
		&booking.PriceAtBooking,
		&booking.Type,
		&booking.Status,
		&booking.CancelledAt,
		&cancelledBy,
		&booking.CancelReason,
		&booking.RescheduledAt,
		&booking.RescheduleReason,
		&booking.StudentAttended,
		&booking.TeacherAttended,
		&booking.ActualStartTime,
		&booking.ActualEndTime,
		&booking.LessonNotes,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if cancelledBy != nil {
		role := model.ActorRole(*cancelledBy)
		booking.CancelledBy = &role
	}

	return &booking, nil
}
